package models

import (
	"time"

	"github.com/google/uuid"
)

type KYCStatus string

const (
	KYCNone     KYCStatus = "none"
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
)

type User struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Username    string    `db:"username" json:"username"`
	Email       string    `db:"email" json:"email"`
	Phone       *string   `db:"phone_number" json:"phone_number"`
	CountryCode string    `db:"country_code" json:"country_code"`
	KYCStatus   KYCStatus `db:"kyc_status" json:"kyc_status"`
	Status      string    `db:"status" json:"status"`

	// Merchant stats shown next to the user's offers
	TradesCount        int     `db:"trades_count" json:"trades_count"`
	CompletionRate     float64 `db:"completion_rate" json:"completion_rate"`
	IsVerifiedMerchant bool    `db:"is_verified_merchant" json:"is_verified_merchant"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

type UserAuth struct {
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	PasswordHash string     `db:"password_hash" json:"password_hash"`
	LastPassword *time.Time `db:"last_password_change" json:"last_password_change"`
}
