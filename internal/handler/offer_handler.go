package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/service"
)

type OfferHandler struct{ svc *service.OfferService }

func NewOfferHandler(s *service.OfferService) *OfferHandler { return &OfferHandler{svc: s} }

// Market serves the filtered offer board. The viewer's own offers are always
// excluded; "my ads" is a separate endpoint.
func (h *OfferHandler) Market(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	direction := p2p.Direction(c.DefaultQuery("direction", "buy"))
	if !direction.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be buy or sell"})
		return
	}

	country := c.Query("country")
	if country == "" {
		country = user.CountryCode
	}

	f := p2p.Filter{
		Direction:      direction,
		CountryCode:    country,
		VerifiedOnly:   c.Query("verifiedOnly") == "true",
		ExcludeOwnerID: user.ID,
	}

	if raw := c.Query("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		f.Amount = amount
	}

	if raw := c.Query("paymentMethods"); raw != "" {
		f.PaymentMethods = strings.Split(raw, ",")
	}

	board, err := h.svc.Market(c.Request.Context(), f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}

	c.JSON(http.StatusOK, board)
}

func (h *OfferHandler) MyAds(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	offers, err := h.svc.MyAds(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
		return
	}
	c.JSON(http.StatusOK, offers)
}

func (h *OfferHandler) Create(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req service.CreateOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.svc.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, offer)
}

func (h *OfferHandler) Update(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	var req service.UpdateOfferReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offer, err := h.svc.Update(c.Request.Context(), user.ID, id, req)
	if err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, offer)
}

func (h *OfferHandler) Toggle(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	active, err := strconv.ParseBool(c.DefaultQuery("active", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active flag"})
		return
	}

	if err := h.svc.SetActive(c.Request.Context(), user.ID, id, active); err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (h *OfferHandler) Delete(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offer id"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), user.ID, id); err != nil {
		writeOfferError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func writeOfferError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your offer"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
