package game

import "github.com/google/uuid"

// Team is an ephemeral grouping created fresh for each game, two per game.
// It is not a persistent roster spanning multiple games.
type Team struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name *string   `db:"name" json:"name"`
}

// TeamPlayerView is a roster entry annotated with the player's goal and
// assist counts within that specific game.
type TeamPlayerView struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Nickname *string   `json:"nickname"`
	Profile  *string   `json:"profile"`
	Goals    int       `json:"goals"`
	Assists  int       `json:"assists"`
}

type TeamView struct {
	ID      uuid.UUID        `json:"id"`
	Name    *string          `json:"name"`
	Players []TeamPlayerView `json:"players"`
}

// ProjectTeam joins one side's participations to their players and annotates
// each with that player's goal/assist counts restricted to the given game's
// goals. Participations for other teams are ignored.
func ProjectTeam(team Team, participations []GamePlayer, players map[uuid.UUID]Player, goals []Goal) TeamView {
	view := TeamView{
		ID:      team.ID,
		Name:    team.Name,
		Players: []TeamPlayerView{},
	}
	for _, gp := range participations {
		if gp.TeamID != team.ID {
			continue
		}
		p, ok := players[gp.PlayerID]
		if !ok {
			continue
		}
		view.Players = append(view.Players, TeamPlayerView{
			ID:       p.ID,
			Name:     p.Name,
			Nickname: p.Nickname,
			Profile:  p.Profile,
			Goals:    GoalsBy(p.ID, goals),
			Assists:  AssistsBy(p.ID, goals),
		})
	}
	return view
}
