package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

// CacheService handles all Redis operations: the offer-board snapshot and
// per-trade unread message counters. Every service holding a *CacheService
// tolerates nil (Redis down at boot).
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, ttl time.Duration) *CacheService {
	return &CacheService{client: client, ttl: ttl}
}

const offerBoardKey = "offers:board"

// GetOfferBoard returns the cached full offer set, or nil on a miss.
func (s *CacheService) GetOfferBoard(ctx context.Context) ([]models.Offer, error) {
	data, err := s.client.Get(ctx, offerBoardKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %v", err)
	}

	var offers []models.Offer
	if err := json.Unmarshal(data, &offers); err != nil {
		return nil, fmt.Errorf("json unmarshal error: %v", err)
	}
	return offers, nil
}

func (s *CacheService) SetOfferBoard(ctx context.Context, offers []models.Offer) error {
	data, err := json.Marshal(offers)
	if err != nil {
		return fmt.Errorf("json marshal error: %v", err)
	}
	return s.client.Set(ctx, offerBoardKey, data, s.ttl).Err()
}

// InvalidateOfferBoard drops the snapshot after any offer mutation.
func (s *CacheService) InvalidateOfferBoard(ctx context.Context) error {
	return s.client.Del(ctx, offerBoardKey).Err()
}

func unreadKey(tradeID, userID uuid.UUID) string {
	return fmt.Sprintf("trade:%s:unread:%s", tradeID, userID)
}

// IncrUnread bumps the unread counter of the message recipient.
func (s *CacheService) IncrUnread(ctx context.Context, tradeID, userID uuid.UUID) error {
	return s.client.Incr(ctx, unreadKey(tradeID, userID)).Err()
}

func (s *CacheService) GetUnread(ctx context.Context, tradeID, userID uuid.UUID) (int, error) {
	n, err := s.client.Get(ctx, unreadKey(tradeID, userID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}

// ResetUnread clears the counter when the user opens the trade room.
func (s *CacheService) ResetUnread(ctx context.Context, tradeID, userID uuid.UUID) error {
	return s.client.Del(ctx, unreadKey(tradeID, userID)).Err()
}
