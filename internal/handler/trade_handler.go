package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/service"
)

type TradeHandler struct{ svc *service.TradeService }

func NewTradeHandler(s *service.TradeService) *TradeHandler { return &TradeHandler{svc: s} }

// tradeView decorates a trade with the viewer-specific derivations: role,
// status label, and the payment countdown at response time. Clients tick the
// clock locally from expiresAt; this is just the initial render.
type tradeView struct {
	*models.Trade
	IsMyRoleBuyer bool           `json:"isMyRoleBuyer"`
	StatusView    p2p.StatusView `json:"statusView"`
	Countdown     *string        `json:"countdown,omitempty"`
	DisplayCrypto string         `json:"displayCryptoAmount"`
	DisplayFiat   string         `json:"displayFiatAmount"`
}

func viewTrade(t *models.Trade, viewerID uuid.UUID, now time.Time) tradeView {
	isBuyer := t.IsBuyer(viewerID)
	v := tradeView{
		Trade:         t,
		IsMyRoleBuyer: isBuyer,
		StatusView:    p2p.ViewStatus(t.Status, isBuyer),
		DisplayCrypto: p2p.DisplayCrypto(t.CryptoAmount),
		DisplayFiat:   p2p.DisplayFiat(t.FiatAmount),
	}
	if d, active := p2p.Remaining(t.Status, t.ExpiresAt, now); active {
		clock := p2p.FormatClock(d)
		v.Countdown = &clock
	}
	return v
}

func (h *TradeHandler) Create(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req service.CreateTradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trade, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewTrade(trade, user.ID, time.Now()))
}

func (h *TradeHandler) Get(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	trade, err := h.svc.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewTrade(trade, user.ID, time.Now()))
}

func (h *TradeHandler) ListActive(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	trades, err := h.svc.ListActive(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades"})
		return
	}

	now := time.Now()
	views := make([]tradeView, 0, len(trades))
	for i := range trades {
		views = append(views, viewTrade(&trades[i], user.ID, now))
	}
	c.JSON(http.StatusOK, views)
}

func (h *TradeHandler) History(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if err != nil || limit <= 0 {
		limit = 100
	}

	trades, err := h.svc.History(c.Request.Context(), user.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trades"})
		return
	}

	now := time.Now()
	views := make([]tradeView, 0, len(trades))
	for i := range trades {
		views = append(views, viewTrade(&trades[i], user.ID, now))
	}
	c.JSON(http.StatusOK, views)
}

func (h *TradeHandler) MarkPaid(c *gin.Context) { h.command(c, h.svc.MarkPaid) }
func (h *TradeHandler) Release(c *gin.Context)  { h.command(c, h.svc.Release) }
func (h *TradeHandler) Dispute(c *gin.Context)  { h.command(c, h.svc.OpenDispute) }
func (h *TradeHandler) Cancel(c *gin.Context)   { h.command(c, h.svc.Cancel) }

func (h *TradeHandler) command(c *gin.Context, fn func(context.Context, uuid.UUID, uuid.UUID) (*models.Trade, error)) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	trade, err := fn(c.Request.Context(), user.ID, id)
	if err != nil {
		writeTradeError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewTrade(trade, user.ID, time.Now()))
}

func writeTradeError(c *gin.Context, err error) {
	var verr *p2p.ValidationError
	var terr *p2p.TransitionError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &terr):
		c.JSON(http.StatusConflict, gin.H{"error": terr.Error()})
	case errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
