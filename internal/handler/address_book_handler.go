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

type AddressBookHandler struct{ repo *repo.AddressBookRepo }

func NewAddressBookHandler(r *repo.AddressBookRepo) *AddressBookHandler {
	return &AddressBookHandler{repo: r}
}

type addressEntryReq struct {
	Label   string `json:"label" binding:"required"`
	Address string `json:"address" binding:"required"`
	Asset   string `json:"asset" binding:"required"`
	Network string `json:"network" binding:"required"`
}

func (h *AddressBookHandler) List(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	entries, err := h.repo.ListByUser(c.Request.Context(), user.ID, c.Query("asset"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch address book"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AddressBookHandler) Create(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	var req addressEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.AddressBookEntry{
		UserID:  user.ID,
		Label:   req.Label,
		Address: req.Address,
		Asset:   req.Asset,
		Network: req.Network,
	}
	if err := h.repo.Insert(c.Request.Context(), entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save entry"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *AddressBookHandler) Update(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	var req addressEntryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &models.AddressBookEntry{
		ID:      id,
		UserID:  user.ID,
		Label:   req.Label,
		Address: req.Address,
		Asset:   req.Asset,
		Network: req.Network,
	}
	if err := h.repo.Update(c.Request.Context(), entry); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update entry"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (h *AddressBookHandler) Delete(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry id"})
		return
	}

	if err := h.repo.Delete(c.Request.Context(), user.ID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "entry not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete entry"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
