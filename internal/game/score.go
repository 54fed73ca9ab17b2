package game

import "fmt"

type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
	ResultDraw Result = "draw"
)

type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// WinningSide returns SideNone on a draw.
func (s Score) WinningSide() Side {
	switch {
	case s.Home > s.Away:
		return SideHome
	case s.Away > s.Home:
		return SideAway
	}
	return SideNone
}

// ResultFor judges the score from one side's perspective. The perspective
// must be SideHome or SideAway; resolve it with Game.SideOf first.
func (s Score) ResultFor(perspective Side) Result {
	winner := s.WinningSide()
	switch {
	case winner == SideNone:
		return ResultDraw
	case winner == perspective:
		return ResultWin
	}
	return ResultLoss
}

func (s Score) String() string {
	return fmt.Sprintf("%d - %d", s.Home, s.Away)
}
