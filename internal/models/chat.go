package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage belongs to a trade room. SenderID is nil for system messages
// (trade created, payment marked, dispute opened, ...).
type ChatMessage struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TradeID   uuid.UUID  `json:"tradeId" db:"trade_id"`
	SenderID  *uuid.UUID `json:"senderId,omitempty" db:"sender_id"`
	Text      string     `json:"text" db:"text"`
	IsRead    bool       `json:"isRead" db:"is_read"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
}

func (m *ChatMessage) IsSystem() bool { return m.SenderID == nil }
