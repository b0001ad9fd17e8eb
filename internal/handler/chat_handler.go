package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/service"
)

type ChatHandler struct {
	svc *service.ChatService
	hub *ChatHub
}

func NewChatHandler(s *service.ChatService, hub *ChatHub) *ChatHandler {
	return &ChatHandler{svc: s, hub: hub}
}

type sendMessageReq struct {
	Text string `json:"text" binding:"required"`
}

func (h *ChatHandler) Send(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	var req sendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), user.ID, tradeID, req.Text)
	if err != nil {
		writeChatError(c, err)
		return
	}

	h.hub.Publish(msg)
	c.JSON(http.StatusCreated, msg)
}

func (h *ChatHandler) History(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	msgs, err := h.svc.History(c.Request.Context(), user.ID, tradeID)
	if err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, msgs)
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	if err := h.svc.MarkRead(c.Request.Context(), user.ID, tradeID); err != nil {
		writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

// Join upgrades to a websocket that receives the trade room's messages live.
// The socket is receive-only; sending goes through the REST endpoint.
func (h *ChatHandler) Join(c *gin.Context) {
	user, err := GetCurrentUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	tradeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trade id"})
		return
	}

	ok, err := h.svc.Participant(c.Request.Context(), user.ID, tradeID)
	if err != nil {
		writeChatError(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this trade"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := &chatClient{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 64),
		tradeID: tradeID,
		userID:  user.ID,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotParticipant):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		c.JSON(http.StatusNotFound, gin.H{"error": "trade not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "System error"})
	}
}
