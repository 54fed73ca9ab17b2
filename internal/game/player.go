package game

import "github.com/google/uuid"

type Player struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Nickname *string   `db:"nickname" json:"nickname"`
	Profile  *string   `db:"profile" json:"profile"`
}
