package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
	"github.com/mateuskovac/pickup-tracker/internal/store"
	"github.com/mateuskovac/pickup-tracker/internal/utils"
)

type PlayerService struct {
	db       *sqlx.DB
	players  *store.PlayerStore
	games    *store.GameStore
	stadiums *store.StadiumStore
}

func NewPlayerService(db *sqlx.DB, players *store.PlayerStore, games *store.GameStore, stadiums *store.StadiumStore) *PlayerService {
	return &PlayerService{db: db, players: players, games: games, stadiums: stadiums}
}

// PlayerStatsView is a player's profile together with their lifetime totals.
type PlayerStatsView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Nickname *string   `json:"nickname"`
	Profile  *string   `json:"profile"`
	game.GlobalStats
}

type PlayerInput struct {
	Name     string
	Nickname *string
	Profile  *string
}

// UpdatePlayerInput fields left nil are unchanged; a nickname or profile set
// to the empty string clears the stored value.
type UpdatePlayerInput struct {
	Name     *string
	Nickname *string
	Profile  *string
}

func (s *PlayerService) CreatePlayer(ctx context.Context, input PlayerInput) (*game.Player, error) {
	p := &game.Player{
		ID:       uuid.New(),
		Name:     input.Name,
		Nickname: input.Nickname,
		Profile:  input.Profile,
	}
	if err := s.players.CreatePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	p, err := s.players.GetPlayer(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", id, game.ErrNotFound)
		}
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) ListPlayers(ctx context.Context, skip, limit int) ([]game.Player, error) {
	return s.players.ListPlayers(ctx, skip, limit)
}

func (s *PlayerService) SearchPlayers(ctx context.Context, name string) ([]game.Player, error) {
	return s.players.SearchPlayersByName(ctx, name)
}

func (s *PlayerService) UpdatePlayer(ctx context.Context, id string, input UpdatePlayerInput) (*game.Player, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" {
		p.Name = *input.Name
	}
	if input.Nickname != nil {
		p.Nickname = utils.StringOrNil(*input.Nickname)
	}
	if input.Profile != nil {
		p.Profile = utils.StringOrNil(*input.Profile)
	}

	if err := s.players.UpdatePlayer(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerService) DeletePlayer(ctx context.Context, id string) error {
	rows, err := s.players.DeletePlayer(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("player %s: %w", id, game.ErrNotFound)
	}
	return nil
}

// GetStats aggregates the player's lifetime totals across every game they
// participated in.
func (s *PlayerService) GetStats(ctx context.Context, id string) (*PlayerStatsView, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.loadGameRecords(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	return &PlayerStatsView{
		ID:          p.ID,
		Name:        p.Name,
		Nickname:    p.Nickname,
		Profile:     p.Profile,
		GlobalStats: game.AggregateStats(p.ID, records),
	}, nil
}

// GetGameHistory projects each of the player's participations into a history
// line. Participations whose team resolves to neither side of their game are
// a data anomaly: they are logged and skipped, never misattributed.
func (s *PlayerService) GetGameHistory(ctx context.Context, id string) ([]game.GameSummary, error) {
	p, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	records, err := s.loadGameRecords(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]game.GameSummary, 0, len(records))
	for _, rec := range records {
		summary, err := game.Summarize(p.ID, rec)
		if err != nil {
			slog.Warn("participation references a team outside its game, skipped",
				"player_id", p.ID, "game_id", rec.Game.ID, "team_id", rec.Participation.TeamID)
			continue
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *PlayerService) loadGameRecords(ctx context.Context, playerID uuid.UUID) ([]game.PlayerGameRecord, error) {
	participations, err := s.games.ListParticipationsByPlayer(ctx, playerID.String())
	if err != nil {
		return nil, err
	}

	records := make([]game.PlayerGameRecord, 0, len(participations))
	for _, gp := range participations {
		g, err := s.games.GetGame(ctx, gp.GameID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to get game %s: %w", gp.GameID, err)
		}
		goals, err := s.games.ListGoals(ctx, gp.GameID.String())
		if err != nil {
			return nil, fmt.Errorf("failed to list goals for game %s: %w", gp.GameID, err)
		}

		rec := game.PlayerGameRecord{Participation: gp, Game: *g, Goals: goals}
		if g.StadiumID != nil {
			stadium, err := s.stadiums.GetStadium(ctx, g.StadiumID.String())
			if err != nil && !errors.Is(err, sql.ErrNoRows) {
				return nil, err
			}
			if stadium != nil {
				rec.StadiumName = stadium.Name
			}
		}
		records = append(records, rec)
	}
	return records, nil
}
