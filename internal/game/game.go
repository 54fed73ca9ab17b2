package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusStarted    Status = "started"
	StatusEnded      Status = "ended"
)

// Side is a team's designation within one specific game.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
	SideNone Side = "none"
)

type Game struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	StadiumID  *uuid.UUID `db:"stadium_id" json:"stadium_id"`
	HomeTeamID uuid.UUID  `db:"home_team_id" json:"home_team_id"`
	AwayTeamID uuid.UUID  `db:"away_team_id" json:"away_team_id"`
	Date       time.Time  `db:"date" json:"date"`
	StartedAt  *time.Time `db:"started_at" json:"started_at"`
	EndedAt    *time.Time `db:"ended_at" json:"ended_at"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Status is never stored; it is recomputed from the two timestamps on every read.
func (g *Game) Status() Status {
	if g.StartedAt == nil {
		return StatusNotStarted
	}
	if g.EndedAt == nil {
		return StatusStarted
	}
	return StatusEnded
}

// SideOf resolves a team reference against the game's two stored team ids.
func (g *Game) SideOf(teamID uuid.UUID) (Side, error) {
	switch teamID {
	case g.HomeTeamID:
		return SideHome, nil
	case g.AwayTeamID:
		return SideAway, nil
	}
	return SideNone, fmt.Errorf("team %s is not part of game %s: %w", teamID, g.ID, ErrInvalidReference)
}

// Scoreboard counts the game's goals per side. Goals whose team matches
// neither side are excluded from both counts and returned separately so the
// caller can report the anomaly instead of misattributing the goal.
func (g *Game) Scoreboard(goals []Goal) (Score, []Goal) {
	var score Score
	var orphans []Goal
	for _, goal := range goals {
		switch goal.TeamID {
		case g.HomeTeamID:
			score.Home++
		case g.AwayTeamID:
			score.Away++
		default:
			orphans = append(orphans, goal)
		}
	}
	return score, orphans
}
