package store

import (
	"context"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mateuskovac/pickup-tracker/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates an in-memory SQLite database and applies migrations
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := sqlx.Connect("sqlite3", "file::memory:")
	require.NoError(t, err, "Failed to connect to in-memory DB")

	// The pool must not open a second connection: each in-memory
	// connection is its own database.
	database.SetMaxOpenConns(1)

	_, err = database.Exec("PRAGMA foreign_keys = ON;")
	require.NoError(t, err)

	driver, err := sqlite3.WithInstance(database.DB, &sqlite3.Config{})
	require.NoError(t, err, "Failed to create migrate driver instance")

	m, err := migrate.NewWithDatabaseInstance(
		"file://../../migrations",
		"sqlite3",
		driver,
	)
	require.NoError(t, err, "Failed to create migrate instance")

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		require.NoError(t, err, "Failed to apply migrations")
	}

	return database
}

func createTestGame(t *testing.T, db *sqlx.DB, s *GameStore) *game.Game {
	t.Helper()

	ctx := context.Background()
	tx, err := db.BeginTxx(ctx, nil)
	require.NoError(t, err)

	teams := []game.Team{{ID: uuid.New()}, {ID: uuid.New()}}
	require.NoError(t, s.CreateTeams(ctx, tx, teams))

	g := &game.Game{
		ID:         uuid.New(),
		HomeTeamID: teams[0].ID,
		AwayTeamID: teams[1].ID,
		Date:       time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateGame(ctx, tx, g))
	require.NoError(t, tx.Commit())

	return g
}

func createTestPlayer(t *testing.T, db *sqlx.DB, name string) *game.Player {
	t.Helper()

	p := &game.Player{ID: uuid.New(), Name: name}
	require.NoError(t, NewPlayerStore(db).CreatePlayer(context.Background(), p))
	return p
}

func TestCreateAndGetGame(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)

	fetched, err := s.GetGame(context.Background(), g.ID.String())
	require.NoError(t, err)

	assert.Equal(t, g.ID, fetched.ID)
	assert.Equal(t, g.HomeTeamID, fetched.HomeTeamID)
	assert.Equal(t, g.AwayTeamID, fetched.AwayTeamID)
	assert.Nil(t, fetched.StadiumID)
	assert.Nil(t, fetched.StartedAt)
	assert.Nil(t, fetched.EndedAt)
	assert.WithinDuration(t, g.Date, fetched.Date, time.Second)
}

func TestListGames_OrderedByDateDesc(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	older := createTestGame(t, db, s)
	newer := createTestGame(t, db, s)

	_, err := db.Exec("UPDATE games SET date = ? WHERE id = ?",
		time.Now().UTC().Add(-48*time.Hour), older.ID)
	require.NoError(t, err)

	games, err := s.ListGames(context.Background(), 0, 20)
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, newer.ID, games[0].ID)
	assert.Equal(t, older.ID, games[1].ID)
}

func TestStartGame_ConditionalUpdate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	ctx := context.Background()

	rows, err := s.StartGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	// Second start must not overwrite the timestamp.
	rows, err = s.StartGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)

	fetched, err := s.GetGame(ctx, g.ID.String())
	require.NoError(t, err)
	assert.NotNil(t, fetched.StartedAt)
}

func TestEndGame_RequiresStart(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	ctx := context.Background()

	rows, err := s.EndGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "ending an unstarted game must not update anything")

	_, err = s.StartGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)

	rows, err = s.EndGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	rows, err = s.EndGame(ctx, g.ID.String(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows, "a game ends at most once")
}

func TestGamePlayers(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	p := createTestPlayer(t, db, "Ana")
	ctx := context.Background()

	gp := &game.GamePlayer{ID: uuid.New(), GameID: g.ID, PlayerID: p.ID, TeamID: g.HomeTeamID}
	require.NoError(t, s.CreateGamePlayer(ctx, gp))

	byGame, err := s.ListParticipationsByGame(ctx, g.ID.String())
	require.NoError(t, err)
	require.Len(t, byGame, 1)
	assert.Equal(t, gp.ID, byGame[0].ID)

	byPlayer, err := s.ListParticipationsByPlayer(ctx, p.ID.String())
	require.NoError(t, err)
	require.Len(t, byPlayer, 1)
	assert.Equal(t, g.ID, byPlayer[0].GameID)

	exists, err := s.HasParticipation(ctx, g.ID.String(), p.ID.String())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.HasParticipation(ctx, g.ID.String(), uuid.New().String())
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGamePlayers_UniquePerGame(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	p := createTestPlayer(t, db, "Ana")
	ctx := context.Background()

	first := &game.GamePlayer{ID: uuid.New(), GameID: g.ID, PlayerID: p.ID, TeamID: g.HomeTeamID}
	require.NoError(t, s.CreateGamePlayer(ctx, first))

	dup := &game.GamePlayer{ID: uuid.New(), GameID: g.ID, PlayerID: p.ID, TeamID: g.AwayTeamID}
	err := s.CreateGamePlayer(ctx, dup)
	assert.Error(t, err, "schema enforces at most one participation per (game, player)")
}

func TestGoals(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	scorer := createTestPlayer(t, db, "Ana")
	assister := createTestPlayer(t, db, "Bruno")
	ctx := context.Background()

	minute := time.Now().UTC().Truncate(time.Second)
	goal := &game.Goal{
		ID:         uuid.New(),
		GameID:     g.ID,
		TeamID:     g.HomeTeamID,
		ScorerID:   scorer.ID,
		AssisterID: &assister.ID,
		Minute:     &minute,
	}
	require.NoError(t, s.CreateGoal(ctx, goal))

	goals, err := s.ListGoals(ctx, g.ID.String())
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, goals[0].ID)
	assert.Equal(t, scorer.ID, goals[0].ScorerID)
	require.NotNil(t, goals[0].AssisterID)
	assert.Equal(t, assister.ID, *goals[0].AssisterID)
}

func TestDeleteGame_CascadesGoalsAndParticipations(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := NewGameStore(db)
	g := createTestGame(t, db, s)
	p := createTestPlayer(t, db, "Ana")
	ctx := context.Background()

	require.NoError(t, s.CreateGamePlayer(ctx,
		&game.GamePlayer{ID: uuid.New(), GameID: g.ID, PlayerID: p.ID, TeamID: g.HomeTeamID}))
	require.NoError(t, s.CreateGoal(ctx,
		&game.Goal{ID: uuid.New(), GameID: g.ID, TeamID: g.HomeTeamID, ScorerID: p.ID}))

	rows, err := s.DeleteGame(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	goals, err := s.ListGoals(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Empty(t, goals)

	gps, err := s.ListParticipationsByGame(ctx, g.ID.String())
	require.NoError(t, err)
	assert.Empty(t, gps)
}
