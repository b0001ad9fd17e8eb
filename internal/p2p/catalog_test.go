package p2p_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func sellOffer(owner uuid.UUID, country, price string) models.Offer {
	return models.Offer{
		ID:             uuid.New(),
		OwnerID:        owner,
		Type:           models.OfferTypeSell,
		Asset:          "USDT",
		FiatCurrency:   "EGP",
		CountryCode:    country,
		Price:          dec(price),
		Available:      dec("1000"),
		MinLimit:       dec("100"),
		MaxLimit:       dec("5000"),
		PaymentMethods: []string{"bank_transfer", "vodafone_cash"},
		IsActive:       true,
		CreatedAt:      time.Now(),
	}
}

func TestMatchRules(t *testing.T) {
	owner := uuid.New()
	viewer := uuid.New()
	base := sellOffer(owner, "EG", "48.5")

	baseFilter := p2p.Filter{
		Direction:      p2p.DirectionBuy,
		CountryCode:    "EG",
		ExcludeOwnerID: viewer,
	}

	tests := []struct {
		name   string
		mutate func(o *models.Offer, f *p2p.Filter)
		want   bool
	}{
		{"plain match", func(o *models.Offer, f *p2p.Filter) {}, true},
		{"viewer sell intent needs buy offers", func(o *models.Offer, f *p2p.Filter) {
			f.Direction = p2p.DirectionSell
		}, false},
		{"global is not a wildcard", func(o *models.Offer, f *p2p.Filter) {
			o.CountryCode = models.CountryGlobal
		}, false},
		{"global bucket matches global viewers", func(o *models.Offer, f *p2p.Filter) {
			o.CountryCode = models.CountryGlobal
			f.CountryCode = models.CountryGlobal
		}, true},
		{"amount inside limits", func(o *models.Offer, f *p2p.Filter) {
			f.Amount = dec("250")
		}, true},
		{"amount below min limit", func(o *models.Offer, f *p2p.Filter) {
			f.Amount = dec("50")
		}, false},
		{"amount above max limit", func(o *models.Offer, f *p2p.Filter) {
			f.Amount = dec("6000")
		}, false},
		{"zero amount means no filter", func(o *models.Offer, f *p2p.Filter) {
			f.Amount = decimal.Zero
		}, true},
		{"payment method intersection", func(o *models.Offer, f *p2p.Filter) {
			f.PaymentMethods = []string{"vodafone_cash", "paypal"}
		}, true},
		{"no payment method overlap", func(o *models.Offer, f *p2p.Filter) {
			f.PaymentMethods = []string{"paypal"}
		}, false},
		{"verified only excludes unverified", func(o *models.Offer, f *p2p.Filter) {
			f.VerifiedOnly = true
		}, false},
		{"verified only keeps verified merchants", func(o *models.Offer, f *p2p.Filter) {
			f.VerifiedOnly = true
			o.OwnerVerified = true
		}, true},
		{"inactive offers never match", func(o *models.Offer, f *p2p.Filter) {
			o.IsActive = false
		}, false},
		{"own offers are hidden in market mode", func(o *models.Offer, f *p2p.Filter) {
			o.OwnerID = viewer
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := base
			f := baseFilter
			tt.mutate(&o, &f)
			assert.Equal(t, tt.want, p2p.Match(&o, f))
		})
	}
}

func TestMatchIsPure(t *testing.T) {
	o := sellOffer(uuid.New(), "EG", "48.5")
	f := p2p.Filter{Direction: p2p.DirectionBuy, CountryCode: "EG", Amount: dec("300")}

	first := p2p.Match(&o, f)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p2p.Match(&o, f))
	}
}

func TestSearchCountryBuckets(t *testing.T) {
	maker := uuid.New()
	viewer := uuid.New()

	eg1 := sellOffer(maker, "EG", "48.2")
	eg2 := sellOffer(maker, "EG", "48.8")
	global := sellOffer(maker, models.CountryGlobal, "47.0")

	got := p2p.Search([]models.Offer{eg1, eg2, global}, p2p.Filter{
		Direction:      p2p.DirectionBuy,
		CountryCode:    "EG",
		ExcludeOwnerID: viewer,
	})

	require.Len(t, got, 2)
	for _, o := range got {
		assert.Equal(t, "EG", o.CountryCode)
	}

	avg := p2p.AveragePrice(got)
	assert.True(t, avg.Equal(dec("48.5")), "average of 48.2 and 48.8, got %s", avg)
}

func TestSearchOrdersNewestFirst(t *testing.T) {
	maker := uuid.New()
	now := time.Now()

	older := sellOffer(maker, "EG", "48")
	older.CreatedAt = now.Add(-2 * time.Hour)
	newer := sellOffer(maker, "EG", "49")
	newer.CreatedAt = now

	got := p2p.Search([]models.Offer{older, newer}, p2p.Filter{
		Direction:   p2p.DirectionBuy,
		CountryCode: "EG",
	})

	require.Len(t, got, 2)
	assert.Equal(t, newer.ID, got[0].ID)
	assert.Equal(t, older.ID, got[1].ID)
}

func TestAveragePriceEmptySetIsZero(t *testing.T) {
	avg := p2p.AveragePrice(nil)
	assert.True(t, avg.Equal(decimal.Zero))
	assert.Equal(t, "0.00", avg.StringFixed(2))
}

func TestOwnedByIncludesInactiveAnyCountry(t *testing.T) {
	me := uuid.New()
	other := uuid.New()

	mine := sellOffer(me, "EG", "48")
	mine.IsActive = false
	mineGlobal := sellOffer(me, models.CountryGlobal, "47")
	mineGlobal.Type = models.OfferTypeBuy
	theirs := sellOffer(other, "EG", "49")

	got := p2p.OwnedBy([]models.Offer{mine, mineGlobal, theirs}, me)

	require.Len(t, got, 2)
	ids := []uuid.UUID{got[0].ID, got[1].ID}
	assert.Contains(t, ids, mine.ID)
	assert.Contains(t, ids, mineGlobal.ID)

	// Same inactive offer is invisible on the market side.
	market := p2p.Search([]models.Offer{mine}, p2p.Filter{
		Direction:   p2p.DirectionBuy,
		CountryCode: "EG",
	})
	assert.Empty(t, market)
}
