package handler

import (
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/service"
)

type Handler struct {
	OfferHandler         *OfferHandler
	TradeHandler         *TradeHandler
	ChatHandler          *ChatHandler
	AddressBookHandler   *AddressBookHandler
	PaymentMethodHandler *PaymentMethodHandler
	ChatHub              *ChatHub
}

func NewHandler(
	offerSvc *service.OfferService,
	tradeSvc *service.TradeService,
	chatSvc *service.ChatService,
	abRepo *repo.AddressBookRepo,
	pmRepo *repo.PaymentMethodRepo,
	log *zap.Logger,
) *Handler {
	hub := NewChatHub(log)
	go hub.Run()

	return &Handler{
		OfferHandler:         NewOfferHandler(offerSvc),
		TradeHandler:         NewTradeHandler(tradeSvc),
		ChatHandler:          NewChatHandler(chatSvc, hub),
		AddressBookHandler:   NewAddressBookHandler(abRepo),
		PaymentMethodHandler: NewPaymentMethodHandler(pmRepo),
		ChatHub:              hub,
	}
}
