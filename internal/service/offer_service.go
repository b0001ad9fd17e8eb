package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

var ErrForbidden = errors.New("forbidden")

// OfferService answers market queries through the pure catalog and enforces
// owner-only mutation of offers.
type OfferService struct {
	offers *repo.OfferRepo
	cache  *CacheService
	log    *zap.Logger
}

func NewOfferService(or *repo.OfferRepo, cache *CacheService, log *zap.Logger) *OfferService {
	return &OfferService{offers: or, cache: cache, log: log}
}

// MarketBoard is a filtered market view plus its derived aggregate.
type MarketBoard struct {
	Offers       []models.Offer  `json:"offers"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// Market loads the offer set (cache-aside) and runs the filter in memory.
// The average price is recomputed on every query; the sets are small.
func (s *OfferService) Market(ctx context.Context, f p2p.Filter) (*MarketBoard, error) {
	offers, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}

	matched := p2p.Search(offers, f)
	return &MarketBoard{
		Offers:       matched,
		AveragePrice: p2p.AveragePrice(matched),
	}, nil
}

// MyAds returns every offer the user posted, active or not.
func (s *OfferService) MyAds(ctx context.Context, ownerID uuid.UUID) ([]models.Offer, error) {
	return s.offers.ListByOwner(ctx, ownerID)
}

func (s *OfferService) loadAll(ctx context.Context) ([]models.Offer, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetOfferBoard(ctx); err == nil && cached != nil {
			return cached, nil
		} else if err != nil {
			s.log.Warn("offer board cache read", zap.Error(err))
		}
	}

	offers, err := s.offers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetOfferBoard(ctx, offers); err != nil {
			s.log.Warn("offer board cache write", zap.Error(err))
		}
	}
	return offers, nil
}

func (s *OfferService) Create(ctx context.Context, ownerID uuid.UUID, req CreateOfferReq) (*models.Offer, error) {
	o := &models.Offer{
		OwnerID:        ownerID,
		Type:           req.Type,
		Asset:          req.Asset,
		FiatCurrency:   req.FiatCurrency,
		CountryCode:    req.CountryCode,
		Price:          req.Price,
		Available:      req.Available,
		MinLimit:       req.MinLimit,
		MaxLimit:       req.MaxLimit,
		PaymentMethods: req.PaymentMethods,
		IsActive:       true,
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.offers.Insert(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return o, nil
}

func (s *OfferService) Update(ctx context.Context, ownerID, id uuid.UUID, req UpdateOfferReq) (*models.Offer, error) {
	o, err := s.ownedOffer(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	o.Price = req.Price
	o.Available = req.Available
	o.MinLimit = req.MinLimit
	o.MaxLimit = req.MaxLimit
	o.CountryCode = req.CountryCode
	o.PaymentMethods = req.PaymentMethods
	o.IsActive = req.IsActive

	if err := o.Validate(); err != nil {
		return nil, err
	}
	if err := s.offers.Update(ctx, o); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return o, nil
}

func (s *OfferService) SetActive(ctx context.Context, ownerID, id uuid.UUID, active bool) error {
	if _, err := s.ownedOffer(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.offers.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *OfferService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.ownedOffer(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.offers.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *OfferService) ownedOffer(ctx context.Context, ownerID, id uuid.UUID) (*models.Offer, error) {
	o, err := s.offers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return o, nil
}

func (s *OfferService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOfferBoard(ctx); err != nil {
		s.log.Warn("offer board invalidate", zap.Error(err))
	}
}
