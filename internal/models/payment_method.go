package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a user's saved payout rail (bank account, mobile money wallet, ...).
// MethodKey is the stable identifier offers reference, e.g. "bank_transfer".
type PaymentMethod struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	MethodKey string    `json:"methodKey" db:"method_key"`
	Label     string    `json:"label" db:"label"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
