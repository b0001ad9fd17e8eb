package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type ChatRepo struct{ db *sql.DB }

func NewChatRepo(db *sql.DB) *ChatRepo { return &ChatRepo{db: db} }

// Insert stores a message. A nil SenderID marks a system message.
func (r *ChatRepo) Insert(ctx context.Context, m *models.ChatMessage) error {
	q := `
INSERT INTO chat_messages(trade_id, sender_id, text)
VALUES($1,$2,$3)
RETURNING id, is_read, created_at`
	return r.db.QueryRowContext(ctx, q, m.TradeID, m.SenderID, m.Text).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
}

// InsertTx is Insert inside an existing transaction (system messages written
// alongside the lifecycle update).
func (r *ChatRepo) InsertTx(ctx context.Context, tx *sql.Tx, m *models.ChatMessage) error {
	q := `
INSERT INTO chat_messages(trade_id, sender_id, text)
VALUES($1,$2,$3)
RETURNING id, is_read, created_at`
	return tx.QueryRowContext(ctx, q, m.TradeID, m.SenderID, m.Text).
		Scan(&m.ID, &m.IsRead, &m.CreatedAt)
}

func (r *ChatRepo) ListByTrade(ctx context.Context, tradeID uuid.UUID) ([]models.ChatMessage, error) {
	q := `
SELECT id, trade_id, sender_id, text, is_read, created_at
FROM chat_messages
WHERE trade_id=$1
ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, q, tradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.TradeID, &m.SenderID, &m.Text, &m.IsRead, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MarkRead flags everything the reader hasn't sent as read.
func (r *ChatRepo) MarkRead(ctx context.Context, tradeID, readerID uuid.UUID) error {
	q := `
UPDATE chat_messages
SET is_read = TRUE
WHERE trade_id=$1
  AND is_read = FALSE
  AND (sender_id IS NULL OR sender_id != $2)`
	_, err := r.db.ExecContext(ctx, q, tradeID, readerID)
	return err
}
