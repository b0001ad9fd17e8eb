// Package p2p holds the pure P2P trading domain logic: offer matching,
// the trade lifecycle state machine, and taker amount derivation. Nothing
// in this package touches storage, transport, or clocks it doesn't receive
// as arguments, so all of it is testable in isolation.
package p2p

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

// Direction is the viewer's intent, not the maker's side: a viewer who wants
// to buy matches offers posted by sellers.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

func (d Direction) Valid() bool {
	return d == DirectionBuy || d == DirectionSell
}

// wantType maps viewer intent to the maker side it matches.
func (d Direction) wantType() models.OfferType {
	if d == DirectionBuy {
		return models.OfferTypeSell
	}
	return models.OfferTypeBuy
}

// Filter is an offer query as the market screen builds it.
// Zero Amount means "no amount filter"; empty PaymentMethods means "any";
// uuid.Nil ExcludeOwnerID disables the own-offer exclusion.
type Filter struct {
	Direction      Direction
	CountryCode    string
	Amount         decimal.Decimal
	PaymentMethods []string
	VerifiedOnly   bool
	ExcludeOwnerID uuid.UUID
}

// Match reports whether a single offer satisfies the filter. It is a pure
// predicate; callers may re-evaluate it freely.
//
// GLOBAL is deliberately its own bucket: a viewer browsing the EG market
// never sees GLOBAL offers and vice versa. That mirrors how regional
// marketplaces segment liquidity.
func Match(o *models.Offer, f Filter) bool {
	if !o.IsActive {
		return false
	}
	if o.Type != f.Direction.wantType() {
		return false
	}
	if o.CountryCode != f.CountryCode {
		return false
	}
	if f.Amount.IsPositive() {
		if f.Amount.LessThan(o.MinLimit) || f.Amount.GreaterThan(o.MaxLimit) {
			return false
		}
	}
	if len(f.PaymentMethods) > 0 && !intersects(o.PaymentMethods, f.PaymentMethods) {
		return false
	}
	if f.VerifiedOnly && !o.OwnerVerified {
		return false
	}
	if f.ExcludeOwnerID != uuid.Nil && o.OwnerID == f.ExcludeOwnerID {
		return false
	}
	return true
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Search returns the offers matching f, newest first by creation time.
// The sort is stable, so equal timestamps keep their input order.
func Search(offers []models.Offer, f Filter) []models.Offer {
	out := make([]models.Offer, 0, len(offers))
	for i := range offers {
		if Match(&offers[i], f) {
			out = append(out, offers[i])
		}
	}
	sortNewestFirst(out)
	return out
}

// OwnedBy is the "my ads" query: every offer the user posted, active or not,
// in any country and of either type. Market filters never apply here.
func OwnedBy(offers []models.Offer, ownerID uuid.UUID) []models.Offer {
	out := make([]models.Offer, 0)
	for i := range offers {
		if offers[i].OwnerID == ownerID {
			out = append(out, offers[i])
		}
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(offers []models.Offer) {
	sort.SliceStable(offers, func(i, j int) bool {
		return offers[i].CreatedAt.After(offers[j].CreatedAt)
	})
}

// AveragePrice is the arithmetic mean of the prices in the set, and exactly
// zero for an empty set.
func AveragePrice(offers []models.Offer) decimal.Decimal {
	if len(offers) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for i := range offers {
		sum = sum.Add(offers[i].Price)
	}
	return sum.Div(decimal.NewFromInt(int64(len(offers))))
}
