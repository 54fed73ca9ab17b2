package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
	"github.com/mateuskovac/pickup-tracker/internal/store"
)

type GameService struct {
	db       *sqlx.DB
	games    *store.GameStore
	players  *store.PlayerStore
	stadiums *store.StadiumStore
}

func NewGameService(db *sqlx.DB, games *store.GameStore, players *store.PlayerStore, stadiums *store.StadiumStore) *GameService {
	return &GameService{db: db, games: games, players: players, stadiums: stadiums}
}

type GoalView struct {
	ID       uuid.UUID    `json:"id"`
	TeamID   uuid.UUID    `json:"team_id"`
	Minute   *time.Time   `json:"minute"`
	Scorer   *game.Player `json:"scorer"`
	Assister *game.Player `json:"assister"`
}

// GameView is the full read-model for one game: venue, both rosters, goals,
// and the derived status and score.
type GameView struct {
	ID        uuid.UUID     `json:"id"`
	Date      time.Time     `json:"date"`
	StartedAt *time.Time    `json:"started_at"`
	EndedAt   *time.Time    `json:"ended_at"`
	Status    game.Status   `json:"status"`
	Stadium   *game.Stadium `json:"stadium"`
	HomeTeam  game.TeamView `json:"home_team"`
	AwayTeam  game.TeamView `json:"away_team"`
	Goals     []GoalView    `json:"goals"`
	Score     game.Score    `json:"score"`
}

type ScoreView struct {
	GameID      uuid.UUID   `json:"game_id"`
	Score       game.Score  `json:"score"`
	WinningSide game.Side   `json:"winning_side"`
	Status      game.Status `json:"status"`
}

type GoalInput struct {
	TeamID     uuid.UUID
	ScorerID   uuid.UUID
	AssisterID *uuid.UUID
	Minute     *time.Time
}

// CreateGame persists a new game together with its two fresh teams in one
// transaction. Teams are scoped to this game and never reused.
func (s *GameService) CreateGame(ctx context.Context, stadiumID *uuid.UUID, date time.Time) (*game.Game, error) {
	if stadiumID != nil {
		if _, err := s.stadiums.GetStadium(ctx, stadiumID.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("stadium %s: %w", stadiumID, game.ErrNotFound)
			}
			return nil, err
		}
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	teams := []game.Team{
		{ID: uuid.New()},
		{ID: uuid.New()},
	}
	if err := s.games.CreateTeams(ctx, tx, teams); err != nil {
		return nil, err
	}

	g := &game.Game{
		ID:         uuid.New(),
		StadiumID:  stadiumID,
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Date:       date,
	}
	if err := s.games.CreateGame(ctx, tx, g); err != nil {
		return nil, err
	}

	return g, tx.Commit()
}

func (s *GameService) GetGameView(ctx context.Context, id string) (*GameView, error) {
	g, err := s.games.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
		}
		return nil, err
	}

	var stadium *game.Stadium
	if g.StadiumID != nil {
		stadium, err = s.stadiums.GetStadium(ctx, g.StadiumID.String())
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}

	goals, err := s.games.ListGoals(ctx, id)
	if err != nil {
		return nil, err
	}
	participations, err := s.games.ListParticipationsByGame(ctx, id)
	if err != nil {
		return nil, err
	}

	players, err := s.players.GetPlayersByIDs(ctx, collectPlayerIDs(participations, goals))
	if err != nil {
		return nil, err
	}

	homeTeam, err := s.games.GetTeam(ctx, g.HomeTeamID.String())
	if err != nil {
		return nil, err
	}
	awayTeam, err := s.games.GetTeam(ctx, g.AwayTeamID.String())
	if err != nil {
		return nil, err
	}

	score, orphans := g.Scoreboard(goals)
	for _, orphan := range orphans {
		slog.Warn("goal attributable to neither side, excluded from score",
			"game_id", g.ID, "goal_id", orphan.ID, "team_id", orphan.TeamID)
	}

	goalViews := make([]GoalView, 0, len(goals))
	for _, goal := range goals {
		gv := GoalView{ID: goal.ID, TeamID: goal.TeamID, Minute: goal.Minute}
		if p, ok := players[goal.ScorerID]; ok {
			scorer := p
			gv.Scorer = &scorer
		}
		if goal.AssisterID != nil {
			if p, ok := players[*goal.AssisterID]; ok {
				assister := p
				gv.Assister = &assister
			}
		}
		goalViews = append(goalViews, gv)
	}

	return &GameView{
		ID:        g.ID,
		Date:      g.Date,
		StartedAt: g.StartedAt,
		EndedAt:   g.EndedAt,
		Status:    g.Status(),
		Stadium:   stadium,
		HomeTeam:  game.ProjectTeam(*homeTeam, participations, players, goals),
		AwayTeam:  game.ProjectTeam(*awayTeam, participations, players, goals),
		Goals:     goalViews,
		Score:     score,
	}, nil
}

func (s *GameService) ListGames(ctx context.Context, skip, limit int) ([]game.Game, error) {
	return s.games.ListGames(ctx, skip, limit)
}

func (s *GameService) DeleteGame(ctx context.Context, id string) error {
	rows, err := s.games.DeleteGame(ctx, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("game %s: %w", id, game.ErrNotFound)
	}
	return nil
}

// Start marks the game as started. The conditional update in the store means
// that of two racing calls exactly one sets the timestamp; the other falls
// through to the already-started check.
func (s *GameService) Start(ctx context.Context, id string) (*game.Game, error) {
	rows, err := s.games.StartGame(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		if _, err := s.games.GetGame(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
			}
			return nil, err
		}
		return nil, fmt.Errorf("game has already started: %w", game.ErrInvalidTransition)
	}
	return s.games.GetGame(ctx, id)
}

// End marks the game as ended. Ending requires a started, not-yet-ended game.
func (s *GameService) End(ctx context.Context, id string) (*game.Game, error) {
	rows, err := s.games.EndGame(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		g, err := s.games.GetGame(ctx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
		}
		if err != nil {
			return nil, err
		}
		if g.StartedAt == nil {
			return nil, fmt.Errorf("cannot end a game that has not started: %w", game.ErrInvalidTransition)
		}
		return nil, fmt.Errorf("game has already ended: %w", game.ErrInvalidTransition)
	}
	return s.games.GetGame(ctx, id)
}

// AddPlayer records a participation after validating that the game and the
// player exist, the team is one of the game's two sides, and the player does
// not already have a participation in this game.
func (s *GameService) AddPlayer(ctx context.Context, gameID, playerID, teamID uuid.UUID) (*game.GamePlayer, error) {
	g, err := s.games.GetGame(ctx, gameID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
		}
		return nil, err
	}
	if _, err := s.players.GetPlayer(ctx, playerID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("player %s: %w", playerID, game.ErrNotFound)
		}
		return nil, err
	}
	if _, err := g.SideOf(teamID); err != nil {
		return nil, err
	}

	exists, err := s.games.HasParticipation(ctx, gameID.String(), playerID.String())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("player %s already participates in game %s: %w", playerID, gameID, game.ErrInvalidReference)
	}

	gp := &game.GamePlayer{
		ID:       uuid.New(),
		GameID:   gameID,
		PlayerID: playerID,
		TeamID:   teamID,
	}
	if err := s.games.CreateGamePlayer(ctx, gp); err != nil {
		return nil, err
	}
	return gp, nil
}

// AddGoal records a goal after validating its references. A goal whose team
// belongs to neither side, or whose assister equals its scorer, is rejected
// before anything is persisted.
func (s *GameService) AddGoal(ctx context.Context, gameID uuid.UUID, input GoalInput) (*game.Goal, error) {
	g, err := s.games.GetGame(ctx, gameID.String())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", gameID, game.ErrNotFound)
		}
		return nil, err
	}
	if _, err := g.SideOf(input.TeamID); err != nil {
		return nil, err
	}
	if _, err := s.players.GetPlayer(ctx, input.ScorerID.String()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("scorer %s: %w", input.ScorerID, game.ErrNotFound)
		}
		return nil, err
	}
	if input.AssisterID != nil {
		if *input.AssisterID == input.ScorerID {
			return nil, fmt.Errorf("assister equals scorer: %w", game.ErrInvalidReference)
		}
		if _, err := s.players.GetPlayer(ctx, input.AssisterID.String()); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("assister %s: %w", input.AssisterID, game.ErrNotFound)
			}
			return nil, err
		}
	}

	goal := &game.Goal{
		ID:         uuid.New(),
		GameID:     gameID,
		TeamID:     input.TeamID,
		ScorerID:   input.ScorerID,
		AssisterID: input.AssisterID,
		Minute:     input.Minute,
	}
	if err := s.games.CreateGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}

func (s *GameService) GetScore(ctx context.Context, id string) (*ScoreView, error) {
	g, err := s.games.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("game %s: %w", id, game.ErrNotFound)
		}
		return nil, err
	}
	goals, err := s.games.ListGoals(ctx, id)
	if err != nil {
		return nil, err
	}

	score, orphans := g.Scoreboard(goals)
	for _, orphan := range orphans {
		slog.Warn("goal attributable to neither side, excluded from score",
			"game_id", g.ID, "goal_id", orphan.ID, "team_id", orphan.TeamID)
	}

	return &ScoreView{
		GameID:      g.ID,
		Score:       score,
		WinningSide: score.WinningSide(),
		Status:      g.Status(),
	}, nil
}

func collectPlayerIDs(participations []game.GamePlayer, goals []game.Goal) []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	add := func(id uuid.UUID) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, gp := range participations {
		add(gp.PlayerID)
	}
	for _, goal := range goals {
		add(goal.ScorerID)
		if goal.AssisterID != nil {
			add(*goal.AssisterID)
		}
	}
	return ids
}
