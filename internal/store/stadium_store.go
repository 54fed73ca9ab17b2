package store

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
)

type StadiumStore struct {
	db *sqlx.DB
}

func NewStadiumStore(db *sqlx.DB) *StadiumStore {
	return &StadiumStore{db: db}
}

func (s *StadiumStore) GetStadium(ctx context.Context, id string) (*game.Stadium, error) {
	var st game.Stadium
	err := s.db.GetContext(ctx, &st, "SELECT * FROM stadiums WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *StadiumStore) ListStadiums(ctx context.Context, skip, limit int) ([]game.Stadium, error) {
	var stadiums []game.Stadium
	err := s.db.SelectContext(ctx, &stadiums, "SELECT * FROM stadiums ORDER BY name ASC LIMIT ? OFFSET ?", limit, skip)
	return stadiums, err
}

func (s *StadiumStore) CreateStadium(ctx context.Context, st *game.Stadium) error {
	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO stadiums (id, name, address) VALUES (:id, :name, :address)`, st)
	return err
}

func (s *StadiumStore) UpdateStadium(ctx context.Context, st *game.Stadium) error {
	_, err := s.db.NamedExecContext(ctx,
		`UPDATE stadiums SET name = :name, address = :address WHERE id = :id`, st)
	return err
}

func (s *StadiumStore) DeleteStadium(ctx context.Context, id string) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM stadiums WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *StadiumStore) CountGames(ctx context.Context, stadiumID string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM games WHERE stadium_id = ?", stadiumID)
	return count, err
}
