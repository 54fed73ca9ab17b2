package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mateuskovac/pickup-tracker/internal/game"
	"github.com/mateuskovac/pickup-tracker/internal/store"
	"github.com/mateuskovac/pickup-tracker/internal/utils"
)

type StadiumService struct {
	stadiums *store.StadiumStore
	games    *store.GameStore
}

func NewStadiumService(stadiums *store.StadiumStore, games *store.GameStore) *StadiumService {
	return &StadiumService{stadiums: stadiums, games: games}
}

type StadiumInput struct {
	Name    string
	Address *string
}

type UpdateStadiumInput struct {
	Name    *string
	Address *string
}

// StadiumGameLine is one game at a venue, with its score and winner.
type StadiumGameLine struct {
	GameID uuid.UUID   `json:"game_id"`
	Date   time.Time   `json:"date"`
	Score  string      `json:"score"`
	Winner game.Side   `json:"winner"`
	Status game.Status `json:"status"`
}

type StadiumGamesView struct {
	StadiumID   uuid.UUID         `json:"stadium_id"`
	StadiumName string            `json:"stadium_name"`
	TotalGames  int               `json:"total_games"`
	Games       []StadiumGameLine `json:"games"`
}

func (s *StadiumService) CreateStadium(ctx context.Context, input StadiumInput) (*game.Stadium, error) {
	st := &game.Stadium{
		ID:      uuid.New(),
		Name:    input.Name,
		Address: input.Address,
	}
	if err := s.stadiums.CreateStadium(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StadiumService) GetStadium(ctx context.Context, id string) (*game.Stadium, error) {
	st, err := s.stadiums.GetStadium(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("stadium %s: %w", id, game.ErrNotFound)
		}
		return nil, err
	}
	return st, nil
}

func (s *StadiumService) ListStadiums(ctx context.Context, skip, limit int) ([]game.Stadium, error) {
	return s.stadiums.ListStadiums(ctx, skip, limit)
}

func (s *StadiumService) UpdateStadium(ctx context.Context, id string, input UpdateStadiumInput) (*game.Stadium, error) {
	st, err := s.GetStadium(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		st.Name = *input.Name
	}
	if input.Address != nil {
		st.Address = utils.StringOrNil(*input.Address)
	}

	if err := s.stadiums.UpdateStadium(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}

// DeleteStadium refuses to delete a venue that still has games on record.
func (s *StadiumService) DeleteStadium(ctx context.Context, id string) error {
	if _, err := s.GetStadium(ctx, id); err != nil {
		return err
	}

	count, err := s.stadiums.CountGames(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cannot delete stadium with existing games: %w", game.ErrInvalidReference)
	}

	rows, err := s.stadiums.DeleteStadium(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("stadium %s: %w", id, game.ErrNotFound)
	}
	return nil
}

// GetStadiumGames lists every game played at the venue with its final score
// and winning side.
func (s *StadiumService) GetStadiumGames(ctx context.Context, id string) (*StadiumGamesView, error) {
	st, err := s.GetStadium(ctx, id)
	if err != nil {
		return nil, err
	}

	games, err := s.games.ListGamesByStadium(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]StadiumGameLine, 0, len(games))
	for i := range games {
		g := &games[i]
		goals, err := s.games.ListGoals(ctx, g.ID.String())
		if err != nil {
			return nil, err
		}
		score, orphans := g.Scoreboard(goals)
		for _, orphan := range orphans {
			slog.Warn("goal attributable to neither side, excluded from score",
				"game_id", g.ID, "goal_id", orphan.ID, "team_id", orphan.TeamID)
		}
		lines = append(lines, StadiumGameLine{
			GameID: g.ID,
			Date:   g.Date,
			Score:  score.String(),
			Winner: score.WinningSide(),
			Status: g.Status(),
		})
	}

	return &StadiumGamesView{
		StadiumID:   st.ID,
		StadiumName: st.Name,
		TotalGames:  len(lines),
		Games:       lines,
	}, nil
}
