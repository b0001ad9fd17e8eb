package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet keeps spendable balance separate from the escrow bucket (InOrders).
// Crypto under escrow for a running trade sits in InOrders until release or refund.
type Wallet struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"userId" db:"user_id"`
	Asset     string          `json:"asset" db:"asset"`
	Balance   decimal.Decimal `json:"balance" db:"balance"`
	InOrders  decimal.Decimal `json:"inOrders" db:"in_orders"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}
