package models

import (
	"time"

	"github.com/google/uuid"
)

type AddressBookEntry struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Label     string    `json:"label" db:"label"`
	Address   string    `json:"address" db:"address"`
	Asset     string    `json:"asset" db:"asset"`
	Network   string    `json:"network" db:"network"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
