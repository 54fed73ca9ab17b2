package game

import "github.com/google/uuid"

type Stadium struct {
	ID      uuid.UUID `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	Address *string   `db:"address" json:"address"`
}
