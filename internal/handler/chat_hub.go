package handler

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type chatClient struct {
	hub     *ChatHub
	conn    *websocket.Conn
	send    chan []byte
	tradeID uuid.UUID
	userID  uuid.UUID
}

type roomMessage struct {
	tradeID uuid.UUID
	data    []byte
}

// ChatHub fans trade-room chat messages out to the participants that have the
// room open. One goroutine owns the rooms map; register/unregister/broadcast
// all flow through channels.
type ChatHub struct {
	rooms      map[uuid.UUID]map[*chatClient]bool
	broadcast  chan roomMessage
	register   chan *chatClient
	unregister chan *chatClient
	mu         sync.RWMutex
	log        *zap.Logger
}

func NewChatHub(log *zap.Logger) *ChatHub {
	return &ChatHub{
		rooms:      make(map[uuid.UUID]map[*chatClient]bool),
		broadcast:  make(chan roomMessage, 256),
		register:   make(chan *chatClient),
		unregister: make(chan *chatClient),
		log:        log,
	}
}

func (h *ChatHub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.rooms[c.tradeID] == nil {
				h.rooms[c.tradeID] = make(map[*chatClient]bool)
			}
			h.rooms[c.tradeID][c] = true
			h.mu.Unlock()
			h.log.Debug("chat client joined",
				zap.String("trade_id", c.tradeID.String()),
				zap.String("user_id", c.userID.String()),
			)

		case c := <-h.unregister:
			h.mu.Lock()
			if room, ok := h.rooms[c.tradeID]; ok {
				if _, ok := room[c]; ok {
					delete(room, c)
					close(c.send)
					if len(room) == 0 {
						delete(h.rooms, c.tradeID)
					}
				}
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.rooms[m.tradeID] {
				select {
				case c.send <- m.data:
				default:
					close(c.send)
					delete(h.rooms[m.tradeID], c)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Publish pushes a stored message into the trade's room. Participants not
// currently connected rely on the unread counter instead.
func (h *ChatHub) Publish(msg *models.ChatMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error("marshal chat message", zap.Error(err))
		return
	}
	h.broadcast <- roomMessage{tradeID: msg.TradeID, data: data}
}

func (c *chatClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	for {
		// Clients send over REST; the socket is read only to detect close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *chatClient) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
