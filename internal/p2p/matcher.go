package p2p

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

// ValidationError is a local input error. Handlers turn it into an inline
// field error (HTTP 400); it never propagates further.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Quote is a taker's computed trade amounts. Both values carry full decimal
// precision; the 4dp/2dp rounding is display-only (DisplayCrypto/DisplayFiat)
// and never fed back into what gets submitted or persisted.
type Quote struct {
	CryptoAmount decimal.Decimal `json:"cryptoAmount"`
	FiatAmount   decimal.Decimal `json:"fiatAmount"`
}

// NewAmount converts the taker's raw numeric input, rejecting non-finite and
// non-positive values before any trade request exists.
func NewAmount(raw float64) (decimal.Decimal, error) {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be a finite number"}
	}
	d := decimal.NewFromFloat(raw)
	if !d.IsPositive() {
		return decimal.Zero, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	return d, nil
}

// QuoteTrade converts the taker's input into both trade amounts. The input
// unit depends on which side of the offer the taker is on: hitting a sell
// offer the taker is buying and enters fiat to spend; hitting a buy offer
// the taker is selling and enters crypto.
func QuoteTrade(o *models.Offer, amount decimal.Decimal) (Quote, error) {
	if !amount.IsPositive() {
		return Quote{}, &ValidationError{Field: "amount", Message: "amount must be greater than zero"}
	}
	if !o.Price.IsPositive() {
		return Quote{}, &ValidationError{Field: "offer", Message: "offer has no valid price"}
	}
	if o.Type == models.OfferTypeSell {
		return Quote{CryptoAmount: amount.Div(o.Price), FiatAmount: amount}, nil
	}
	return Quote{CryptoAmount: amount, FiatAmount: amount.Mul(o.Price)}, nil
}

// CheckLimits validates a quote against the offer at creation time: the fiat
// side must fall within [minLimit, maxLimit] and the crypto side must not
// exceed what the maker has available.
func CheckLimits(o *models.Offer, q Quote) error {
	if q.FiatAmount.LessThan(o.MinLimit) {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("below the minimum of %s %s", DisplayFiat(o.MinLimit), o.FiatCurrency),
		}
	}
	if q.FiatAmount.GreaterThan(o.MaxLimit) {
		return &ValidationError{
			Field:   "amount",
			Message: fmt.Sprintf("above the maximum of %s %s", DisplayFiat(o.MaxLimit), o.FiatCurrency),
		}
	}
	if q.CryptoAmount.GreaterThan(o.Available) {
		return &ValidationError{Field: "amount", Message: "exceeds the offer's available amount"}
	}
	return nil
}

// DisplayCrypto renders a crypto amount at 4 decimal places.
func DisplayCrypto(d decimal.Decimal) string { return d.StringFixed(4) }

// DisplayFiat renders a fiat amount at 2 decimal places.
func DisplayFiat(d decimal.Decimal) string { return d.StringFixed(2) }
