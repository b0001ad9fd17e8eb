package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type CreateOfferReq struct {
	Type           models.OfferType `json:"type" binding:"required,oneof=buy sell"`
	Asset          string           `json:"asset" binding:"required"`
	FiatCurrency   string           `json:"fiatCurrency" binding:"required"`
	CountryCode    string           `json:"countryCode" binding:"required"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	Available      decimal.Decimal  `json:"available" binding:"required"`
	MinLimit       decimal.Decimal  `json:"minLimit" binding:"required"`
	MaxLimit       decimal.Decimal  `json:"maxLimit" binding:"required"`
	PaymentMethods []string         `json:"paymentMethods" binding:"required,min=1,max=3"`
}

type UpdateOfferReq struct {
	Price          decimal.Decimal `json:"price" binding:"required"`
	Available      decimal.Decimal `json:"available" binding:"required"`
	MinLimit       decimal.Decimal `json:"minLimit" binding:"required"`
	MaxLimit       decimal.Decimal `json:"maxLimit" binding:"required"`
	CountryCode    string          `json:"countryCode" binding:"required"`
	PaymentMethods []string        `json:"paymentMethods" binding:"required,min=1,max=3"`
	IsActive       bool            `json:"isActive"`
}

// CreateTradeReq carries the taker's raw numeric input. The unit is implied
// by the offer side: fiat when buying from a sell offer, crypto when selling
// to a buy offer.
type CreateTradeReq struct {
	OfferID uuid.UUID `json:"offerId" binding:"required"`
	Amount  float64   `json:"amount" binding:"required"`
}
