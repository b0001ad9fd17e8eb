package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

var ErrEmptyMessage = errors.New("message text is empty")

// ChatService persists trade-room messages and keeps the unread counters.
// Live delivery to open trade rooms is the chat hub's job (internal/handler).
type ChatService struct {
	trades *repo.TradeRepo
	chats  *repo.ChatRepo
	cache  *CacheService
	log    *zap.Logger
}

func NewChatService(tr *repo.TradeRepo, cr *repo.ChatRepo, cache *CacheService, log *zap.Logger) *ChatService {
	return &ChatService{trades: tr, chats: cr, cache: cache, log: log}
}

// Send stores a user message and bumps the counterparty's unread counter.
func (s *ChatService) Send(ctx context.Context, userID, tradeID uuid.UUID, text string) (*models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}

	msg := &models.ChatMessage{TradeID: tradeID, SenderID: &userID, Text: text}
	if err := s.chats.Insert(ctx, msg); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.IncrUnread(ctx, tradeID, trade.CounterpartyOf(userID)); err != nil {
			s.log.Warn("unread counter incr", zap.Error(err))
		}
	}
	return msg, nil
}

// History returns the full ordered message list of a trade room.
func (s *ChatService) History(ctx context.Context, userID, tradeID uuid.UUID) ([]models.ChatMessage, error) {
	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !trade.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	return s.chats.ListByTrade(ctx, tradeID)
}

// MarkRead flags the room as read and resets the viewer's unread counter.
func (s *ChatService) MarkRead(ctx context.Context, userID, tradeID uuid.UUID) error {
	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return err
	}
	if !trade.IsParticipant(userID) {
		return ErrNotParticipant
	}
	if err := s.chats.MarkRead(ctx, tradeID, userID); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.ResetUnread(ctx, tradeID, userID); err != nil {
			s.log.Warn("unread counter reset", zap.Error(err))
		}
	}
	return nil
}

// Participant reports whether the user belongs to the trade; the chat hub
// checks this before letting a websocket join the room.
func (s *ChatService) Participant(ctx context.Context, userID, tradeID uuid.UUID) (bool, error) {
	trade, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return false, err
	}
	return trade.IsParticipant(userID), nil
}
