package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TradeStatus string

const (
	TradeWaitingForPayment TradeStatus = "waiting_for_payment"
	TradePaidConfirmed     TradeStatus = "paid_confirmed_by_buyer"
	TradeCompleted         TradeStatus = "completed"
	TradeDisputed          TradeStatus = "disputed"
	TradeCancelled         TradeStatus = "cancelled"
)

// Terminal reports whether the status is final. Terminal trades never change.
func (s TradeStatus) Terminal() bool {
	return s == TradeCompleted || s == TradeCancelled
}

type CancelReason string

const (
	CancelReasonUser    CancelReason = "user"
	CancelReasonExpired CancelReason = "expired"
	CancelReasonDispute CancelReason = "dispute"
)

// Trade snapshots the offer terms at creation time so later offer edits
// never change a running trade.
type Trade struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OfferID        uuid.UUID       `json:"offerId" db:"offer_id"`
	BuyerID        uuid.UUID       `json:"buyerId" db:"buyer_id"`
	SellerID       uuid.UUID       `json:"sellerId" db:"seller_id"`
	TakerID        uuid.UUID       `json:"takerId" db:"taker_id"`
	Asset          string          `json:"asset" db:"asset"`
	FiatCurrency   string          `json:"fiatCurrency" db:"fiat_currency"`
	Price          decimal.Decimal `json:"price" db:"price"`
	CryptoAmount   decimal.Decimal `json:"cryptoAmount" db:"crypto_amount"`
	FiatAmount     decimal.Decimal `json:"fiatAmount" db:"fiat_amount"`
	PaymentMethods []string        `json:"paymentMethods" db:"payment_methods"`
	Status         TradeStatus     `json:"status" db:"status"`
	CancelReason   *CancelReason   `json:"cancelReason,omitempty" db:"cancel_reason"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
	ExpiresAt      *time.Time      `json:"expiresAt,omitempty" db:"expires_at"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty" db:"completed_at"`
	CancelledAt    *time.Time      `json:"cancelledAt,omitempty" db:"cancelled_at"`

	// Per-viewer, filled by the service, not persisted
	UnreadMessages int `json:"unreadMessages" db:"-"`
}

func (t *Trade) IsBuyer(userID uuid.UUID) bool {
	return t.BuyerID == userID
}

func (t *Trade) IsParticipant(userID uuid.UUID) bool {
	return t.BuyerID == userID || t.SellerID == userID
}

// CounterpartyOf returns the other participant's id.
func (t *Trade) CounterpartyOf(userID uuid.UUID) uuid.UUID {
	if t.BuyerID == userID {
		return t.SellerID
	}
	return t.BuyerID
}
