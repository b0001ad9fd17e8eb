package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferType is the maker's posted side. A "sell" offer means the maker sells
// crypto, so the taker hitting it is a buyer.
type OfferType string

const (
	OfferTypeBuy  OfferType = "buy"
	OfferTypeSell OfferType = "sell"
)

func (t OfferType) Valid() bool {
	return t == OfferTypeBuy || t == OfferTypeSell
}

// CountryGlobal is its own market bucket, not a wildcard: a GLOBAL offer is
// only visible to viewers browsing the GLOBAL market.
const CountryGlobal = "GLOBAL"

// MaxPaymentMethods limits how many payment methods a single offer can list.
const MaxPaymentMethods = 3

type Offer struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OwnerID        uuid.UUID       `json:"ownerId" db:"owner_id"`
	Type           OfferType       `json:"type" db:"type"`
	Asset          string          `json:"asset" db:"asset"`
	FiatCurrency   string          `json:"fiatCurrency" db:"fiat_currency"`
	CountryCode    string          `json:"countryCode" db:"country_code"`
	Price          decimal.Decimal `json:"price" db:"price"`
	Available      decimal.Decimal `json:"available" db:"available"`
	MinLimit       decimal.Decimal `json:"minLimit" db:"min_limit"`
	MaxLimit       decimal.Decimal `json:"maxLimit" db:"max_limit"`
	PaymentMethods []string        `json:"paymentMethods" db:"payment_methods"`
	IsActive       bool            `json:"isActive" db:"is_active"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time       `json:"updatedAt" db:"updated_at"`

	// Merchant stats, joined from users
	OwnerUsername       string  `json:"ownerUsername" db:"owner_username"`
	OwnerTradesCount    int     `json:"ownerTradesCount" db:"owner_trades_count"`
	OwnerCompletionRate float64 `json:"ownerCompletionRate" db:"owner_completion_rate"`
	OwnerVerified       bool    `json:"ownerVerified" db:"owner_verified"`
}

var (
	ErrOfferBadType         = errors.New("offer type must be buy or sell")
	ErrOfferBadPrice        = errors.New("price must be positive")
	ErrOfferBadAvailable    = errors.New("available must not be negative")
	ErrOfferBadLimits       = errors.New("min limit must not exceed max limit")
	ErrOfferLimitsExceed    = errors.New("max limit exceeds available value at price")
	ErrOfferPaymentMethods  = errors.New("offer needs between 1 and 3 payment methods")
	ErrOfferMissingCurrency = errors.New("asset and fiat currency are required")
)

// Validate checks the offer invariants: positive price, min <= max,
// available*price >= max limit, and 1..3 payment methods.
func (o *Offer) Validate() error {
	if !o.Type.Valid() {
		return ErrOfferBadType
	}
	if o.Asset == "" || o.FiatCurrency == "" {
		return ErrOfferMissingCurrency
	}
	if !o.Price.IsPositive() {
		return ErrOfferBadPrice
	}
	if o.Available.IsNegative() {
		return ErrOfferBadAvailable
	}
	if o.MinLimit.GreaterThan(o.MaxLimit) {
		return ErrOfferBadLimits
	}
	if o.Available.Mul(o.Price).LessThan(o.MaxLimit) {
		return ErrOfferLimitsExceed
	}
	if len(o.PaymentMethods) == 0 || len(o.PaymentMethods) > MaxPaymentMethods {
		return ErrOfferPaymentMethods
	}
	return nil
}
