package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

type PaymentMethodHandler struct{ repo *repo.PaymentMethodRepo }

func NewPaymentMethodHandler(r *repo.PaymentMethodRepo) *PaymentMethodHandler {
	return &PaymentMethodHandler{repo: r}
}

type paymentMethodReq struct {
	MethodKey string `json:"methodKey" binding:"required"`
	Label     string `json:"label" binding:"required"`
	Details   string `json:"details" binding:"required"`
}

func (h *PaymentMethodHandler) List(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	methods, err := h.repo.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payment methods"})
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *PaymentMethodHandler) Create(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req paymentMethodReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m := &models.PaymentMethod{
		UserID:    user.ID,
		MethodKey: req.MethodKey,
		Label:     req.Label,
		Details:   req.Details,
	}
	if err := h.repo.Insert(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save payment method"})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (h *PaymentMethodHandler) Delete(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment method"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
