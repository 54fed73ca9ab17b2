package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
)

type GameStore struct {
	db *sqlx.DB
}

func NewGameStore(db *sqlx.DB) *GameStore {
	return &GameStore{db: db}
}

func (s *GameStore) CreateTeams(ctx context.Context, tx *sqlx.Tx, teams []game.Team) error {
	if len(teams) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, `INSERT INTO teams (id, name) VALUES (:id, :name)`, teams)
	return err
}

func (s *GameStore) CreateGame(ctx context.Context, tx *sqlx.Tx, g *game.Game) error {
	_, err := tx.NamedExecContext(ctx, `INSERT INTO games (id, stadium_id, home_team_id, away_team_id, date, started_at, ended_at)
		VALUES (:id, :stadium_id, :home_team_id, :away_team_id, :date, :started_at, :ended_at)`, g)
	return err
}

func (s *GameStore) GetGame(ctx context.Context, id string) (*game.Game, error) {
	var g game.Game
	err := s.db.GetContext(ctx, &g, "SELECT * FROM games WHERE id = ?", id)
	return &g, err
}

func (s *GameStore) ListGames(ctx context.Context, skip, limit int) ([]game.Game, error) {
	var games []game.Game
	err := s.db.SelectContext(ctx, &games, "SELECT * FROM games ORDER BY date DESC LIMIT ? OFFSET ?", limit, skip)
	return games, err
}

func (s *GameStore) ListGamesByStadium(ctx context.Context, stadiumID string) ([]game.Game, error) {
	var games []game.Game
	err := s.db.SelectContext(ctx, &games, "SELECT * FROM games WHERE stadium_id = ? ORDER BY date DESC", stadiumID)
	return games, err
}

func (s *GameStore) DeleteGame(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *GameStore) GetTeam(ctx context.Context, id string) (*game.Team, error) {
	var t game.Team
	err := s.db.GetContext(ctx, &t, "SELECT * FROM teams WHERE id = ?", id)
	return &t, err
}

// StartGame sets started_at only when it is still unset, so concurrent start
// calls race on the store and exactly one wins. Returns rows affected.
func (s *GameStore) StartGame(ctx context.Context, id string, startedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE games SET started_at = ? WHERE id = ? AND started_at IS NULL", startedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// EndGame sets ended_at only on a game that has started and not yet ended.
func (s *GameStore) EndGame(ctx context.Context, id string, endedAt time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE games SET ended_at = ? WHERE id = ? AND started_at IS NOT NULL AND ended_at IS NULL", endedAt, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *GameStore) CreateGamePlayer(ctx context.Context, gp *game.GamePlayer) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO game_players (id, game_id, player_id, team_id)
		VALUES (:id, :game_id, :player_id, :team_id)`, gp)
	return err
}

func (s *GameStore) CreateGoal(ctx context.Context, goal *game.Goal) error {
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO goals (id, game_id, team_id, scorer_id, assister_id, minute)
		VALUES (:id, :game_id, :team_id, :scorer_id, :assister_id, :minute)`, goal)
	return err
}

func (s *GameStore) ListGoals(ctx context.Context, gameID string) ([]game.Goal, error) {
	var goals []game.Goal
	err := s.db.SelectContext(ctx, &goals, "SELECT * FROM goals WHERE game_id = ? ORDER BY minute ASC", gameID)
	return goals, err
}

func (s *GameStore) ListParticipationsByGame(ctx context.Context, gameID string) ([]game.GamePlayer, error) {
	var gps []game.GamePlayer
	err := s.db.SelectContext(ctx, &gps, "SELECT * FROM game_players WHERE game_id = ?", gameID)
	return gps, err
}

func (s *GameStore) ListParticipationsByPlayer(ctx context.Context, playerID string) ([]game.GamePlayer, error) {
	var gps []game.GamePlayer
	err := s.db.SelectContext(ctx, &gps, "SELECT * FROM game_players WHERE player_id = ?", playerID)
	return gps, err
}

func (s *GameStore) HasParticipation(ctx context.Context, gameID, playerID string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM game_players WHERE game_id = ? AND player_id = ?", gameID, playerID)
	return count > 0, err
}
