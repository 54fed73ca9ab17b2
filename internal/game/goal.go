package game

import (
	"time"

	"github.com/google/uuid"
)

type Goal struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	GameID     uuid.UUID  `db:"game_id" json:"game_id"`
	TeamID     uuid.UUID  `db:"team_id" json:"team_id"`
	ScorerID   uuid.UUID  `db:"scorer_id" json:"scorer_id"`
	AssisterID *uuid.UUID `db:"assister_id" json:"assister_id"`
	Minute     *time.Time `db:"minute" json:"minute"`
}

// GamePlayer links one player to one team within one game.
type GamePlayer struct {
	ID       uuid.UUID `db:"id" json:"id"`
	GameID   uuid.UUID `db:"game_id" json:"game_id"`
	PlayerID uuid.UUID `db:"player_id" json:"player_id"`
	TeamID   uuid.UUID `db:"team_id" json:"team_id"`
}

// GoalsBy counts goals in the given set scored by the player.
func GoalsBy(playerID uuid.UUID, goals []Goal) int {
	n := 0
	for _, g := range goals {
		if g.ScorerID == playerID {
			n++
		}
	}
	return n
}

// AssistsBy counts goals in the given set assisted by the player.
func AssistsBy(playerID uuid.UUID, goals []Goal) int {
	n := 0
	for _, g := range goals {
		if g.AssisterID != nil && *g.AssisterID == playerID {
			n++
		}
	}
	return n
}
