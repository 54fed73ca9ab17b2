package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	getPlayerQuery    = "SELECT * FROM players WHERE id = ?"
	createPlayerQuery = `
		INSERT INTO players (id, name, nickname, profile) VALUES
		(:id, :name, :nickname, :profile)
	`
	updatePlayerQuery = `
		UPDATE players SET
		name = :name,
		nickname = :nickname,
		profile = :profile
		WHERE id = :id
	`
)

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id string) (*game.Player, error) {
	var p game.Player
	err := s.db.GetContext(ctx, &p, getPlayerQuery, id)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PlayerStore) ListPlayers(ctx context.Context, skip, limit int) ([]game.Player, error) {
	var players []game.Player
	err := s.db.SelectContext(ctx, &players, "SELECT * FROM players ORDER BY name ASC LIMIT ? OFFSET ?", limit, skip)
	return players, err
}

// SearchPlayersByName matches on a case-insensitive substring of the name.
func (s *PlayerStore) SearchPlayersByName(ctx context.Context, name string) ([]game.Player, error) {
	var players []game.Player
	err := s.db.SelectContext(ctx, &players,
		"SELECT * FROM players WHERE name LIKE ? COLLATE NOCASE ORDER BY name ASC", "%"+name+"%")
	return players, err
}

// GetPlayersByIDs loads a batch of players keyed by id, for roster joins.
func (s *PlayerStore) GetPlayersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]game.Player, error) {
	byID := make(map[uuid.UUID]game.Player, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	query, args, err := sqlx.In("SELECT * FROM players WHERE id IN (?)", ids)
	if err != nil {
		return nil, err
	}
	var players []game.Player
	if err := s.db.SelectContext(ctx, &players, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	for _, p := range players {
		byID[p.ID] = p
	}
	return byID, nil
}

func (s *PlayerStore) CreatePlayer(ctx context.Context, p *game.Player) error {
	_, err := s.db.NamedExecContext(ctx, createPlayerQuery, p)
	return err
}

func (s *PlayerStore) UpdatePlayer(ctx context.Context, p *game.Player) error {
	_, err := s.db.NamedExecContext(ctx, updatePlayerQuery, p)
	return err
}

func (s *PlayerStore) DeletePlayer(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM players WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
