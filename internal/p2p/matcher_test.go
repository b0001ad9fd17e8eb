package p2p_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
)

func TestQuoteTradeBuyingFromSellOffer(t *testing.T) {
	o := models.Offer{Type: models.OfferTypeSell, Price: dec("25.5"), FiatCurrency: "USD"}

	amount, err := p2p.NewAmount(100)
	require.NoError(t, err)

	q, err := p2p.QuoteTrade(&o, amount)
	require.NoError(t, err)

	// 100 fiat at 25.5 buys ~3.9216 crypto
	assert.Equal(t, "3.9216", p2p.DisplayCrypto(q.CryptoAmount))
	assert.Equal(t, "100.00", p2p.DisplayFiat(q.FiatAmount))

	// The submitted value keeps full precision; only the display rounds.
	assert.False(t, q.CryptoAmount.Equal(dec("3.9216")))
	assert.True(t, q.CryptoAmount.Mul(o.Price).Sub(dec("100")).Abs().LessThan(dec("0.000000001")))
}

func TestQuoteTradeSellingToBuyOffer(t *testing.T) {
	o := models.Offer{Type: models.OfferTypeBuy, Price: dec("25.5"), FiatCurrency: "USD"}

	amount, err := p2p.NewAmount(2)
	require.NoError(t, err)

	q, err := p2p.QuoteTrade(&o, amount)
	require.NoError(t, err)

	assert.True(t, q.CryptoAmount.Equal(dec("2")))
	assert.True(t, q.FiatAmount.Equal(dec("51")))
	assert.Equal(t, "51.00", p2p.DisplayFiat(q.FiatAmount))
}

func TestNewAmountRejectsBadInput(t *testing.T) {
	for _, raw := range []float64{0, -5, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := p2p.NewAmount(raw)
		require.Error(t, err, "input %v must be rejected", raw)
		var verr *p2p.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "amount", verr.Field)
	}
}

func TestCheckLimits(t *testing.T) {
	o := models.Offer{
		Type:         models.OfferTypeSell,
		Price:        dec("50"),
		Available:    dec("10"),
		MinLimit:     dec("100"),
		MaxLimit:     dec("400"),
		FiatCurrency: "LYD",
	}

	quoteFor := func(fiat string) p2p.Quote {
		q, err := p2p.QuoteTrade(&o, dec(fiat))
		require.NoError(t, err)
		return q
	}

	assert.NoError(t, p2p.CheckLimits(&o, quoteFor("250")))
	assert.NoError(t, p2p.CheckLimits(&o, quoteFor("100")))
	assert.NoError(t, p2p.CheckLimits(&o, quoteFor("400")))

	err := p2p.CheckLimits(&o, quoteFor("50"))
	var verr *p2p.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "minimum")

	err = p2p.CheckLimits(&o, quoteFor("500"))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "maximum")

	// Fiat within limits but more crypto than the maker has left.
	tight := o
	tight.Available = dec("3")
	err = p2p.CheckLimits(&tight, quoteFor("350"))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "available")
}

func TestDisplayRounding(t *testing.T) {
	assert.Equal(t, "0.3333", p2p.DisplayCrypto(decimal.NewFromInt(1).Div(decimal.NewFromInt(3))))
	assert.Equal(t, "2.67", p2p.DisplayFiat(decimal.NewFromInt(8).Div(decimal.NewFromInt(3))))
}
