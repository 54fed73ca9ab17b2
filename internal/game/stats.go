package game

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// PlayerGameRecord is one participation together with its game, that game's
// full goal set, and the venue name (empty when the game has no stadium).
type PlayerGameRecord struct {
	Participation GamePlayer
	Game          Game
	Goals         []Goal
	StadiumName   string
}

type GlobalStats struct {
	GamesPlayed  int     `json:"games_played"`
	TotalGoals   int     `json:"total_goals"`
	TotalAssists int     `json:"total_assists"`
	Wins         int     `json:"wins"`
	GoalsPerGame float64 `json:"goals_per_game"`
}

// GameSummary is one line of a player's game history.
type GameSummary struct {
	GameID  uuid.UUID `json:"game_id"`
	Date    time.Time `json:"date"`
	Stadium string    `json:"stadium"`
	Side    Side      `json:"team"`
	Score   string    `json:"score"`
	Result  Result    `json:"result"`
	Goals   int       `json:"goals"`
	Assists int       `json:"assists"`
}

// AggregateStats derives a player's lifetime totals from the full set of
// their participation records. Records whose team resolves to neither side
// of their game never count as wins.
func AggregateStats(playerID uuid.UUID, records []PlayerGameRecord) GlobalStats {
	stats := GlobalStats{GamesPlayed: len(records)}
	for _, rec := range records {
		stats.TotalGoals += GoalsBy(playerID, rec.Goals)
		stats.TotalAssists += AssistsBy(playerID, rec.Goals)

		side, err := rec.Game.SideOf(rec.Participation.TeamID)
		if err != nil {
			continue
		}
		score, _ := rec.Game.Scoreboard(rec.Goals)
		if score.ResultFor(side) == ResultWin {
			stats.Wins++
		}
	}
	stats.GoalsPerGame = goalsPerGame(stats.TotalGoals, stats.GamesPlayed)
	return stats
}

// goalsPerGame is zero-guarded: a player with no games averages 0 by policy.
func goalsPerGame(goals, games int) float64 {
	if games == 0 {
		return 0
	}
	avg := float64(goals) / float64(games)
	return math.Round(avg*100) / 100
}

// Summarize projects one participation record into a history line. The goal
// and assist counts are restricted to that single game, not lifetime totals.
func Summarize(playerID uuid.UUID, rec PlayerGameRecord) (GameSummary, error) {
	side, err := rec.Game.SideOf(rec.Participation.TeamID)
	if err != nil {
		return GameSummary{}, err
	}
	score, _ := rec.Game.Scoreboard(rec.Goals)
	return GameSummary{
		GameID:  rec.Game.ID,
		Date:    rec.Game.Date,
		Stadium: rec.StadiumName,
		Side:    side,
		Score:   score.String(),
		Result:  score.ResultFor(side),
		Goals:   GoalsBy(playerID, rec.Goals),
		Assists: AssistsBy(playerID, rec.Goals),
	}, nil
}
