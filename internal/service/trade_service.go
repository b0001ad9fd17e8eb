package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/p2p"
	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/repo"
)

var (
	ErrOfferInactive     = errors.New("offer is no longer available")
	ErrOwnOffer          = errors.New("cannot trade against your own offer")
	ErrNotParticipant    = errors.New("not a participant of this trade")
	ErrInsufficientFunds = errors.New("seller has insufficient balance to escrow")
)

// TradeService owns trade creation and every lifecycle transition. The state
// machine itself lives in internal/p2p; this service wraps it with the
// serializable transaction, escrow moves, system chat messages, and events.
type TradeService struct {
	db       *sql.DB
	offers   *repo.OfferRepo
	trades   *repo.TradeRepo
	chats    *repo.ChatRepo
	wallets  *repo.WalletRepo
	cache    *CacheService
	notifier *Notifier
	log      *zap.Logger

	paymentWindow time.Duration
	sweepInterval time.Duration
}

func NewTradeService(
	db *sql.DB,
	or *repo.OfferRepo, tr *repo.TradeRepo, cr *repo.ChatRepo, wr *repo.WalletRepo,
	cache *CacheService, notifier *Notifier, log *zap.Logger,
	paymentWindow, sweepInterval time.Duration,
) *TradeService {
	return &TradeService{
		db: db, offers: or, trades: tr, chats: cr, wallets: wr,
		cache: cache, notifier: notifier, log: log,
		paymentWindow: paymentWindow, sweepInterval: sweepInterval,
	}
}

// Create opens a trade against an offer. The offer row is locked and
// re-validated inside the transaction, the seller's crypto moves into escrow,
// and the returned trade is fully populated so the client can navigate to the
// trade room immediately. Nothing is persisted on any failure path.
func (s *TradeService) Create(ctx context.Context, takerID uuid.UUID, req CreateTradeReq) (*models.Trade, error) {
	amount, err := p2p.NewAmount(req.Amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	offer, err := s.offers.GetByIDForUpdate(ctx, tx, req.OfferID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrOfferInactive
		}
		return nil, err
	}
	if !offer.IsActive {
		return nil, ErrOfferInactive
	}
	if offer.OwnerID == takerID {
		return nil, ErrOwnOffer
	}

	quote, err := p2p.QuoteTrade(offer, amount)
	if err != nil {
		return nil, err
	}
	if err := p2p.CheckLimits(offer, quote); err != nil {
		return nil, err
	}

	// Taker buys iff the maker posted a sell offer.
	takerIsBuyer := offer.Type == models.OfferTypeSell
	buyerID, sellerID := offer.OwnerID, takerID
	if takerIsBuyer {
		buyerID, sellerID = takerID, offer.OwnerID
	}

	// Escrow: the seller's crypto is locked until release or refund.
	w, err := s.wallets.GetForUpdate(ctx, tx, sellerID, offer.Asset)
	if err != nil {
		return nil, err
	}
	if w.Balance.LessThan(quote.CryptoAmount) {
		return nil, ErrInsufficientFunds
	}
	if err := s.wallets.UpdateBalances(ctx, tx, sellerID, offer.Asset, quote.CryptoAmount.Neg(), quote.CryptoAmount); err != nil {
		return nil, err
	}

	if err := s.offers.AdjustAvailable(ctx, tx, offer.ID, quote.CryptoAmount.Neg()); err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.paymentWindow)
	trade := &models.Trade{
		OfferID:        offer.ID,
		BuyerID:        buyerID,
		SellerID:       sellerID,
		TakerID:        takerID,
		Asset:          offer.Asset,
		FiatCurrency:   offer.FiatCurrency,
		Price:          offer.Price,
		CryptoAmount:   quote.CryptoAmount,
		FiatAmount:     quote.FiatAmount,
		PaymentMethods: offer.PaymentMethods,
		Status:         models.TradeWaitingForPayment,
		ExpiresAt:      &expiresAt,
	}
	if err := s.trades.Insert(ctx, tx, trade); err != nil {
		return nil, err
	}

	opened := &models.ChatMessage{
		TradeID: trade.ID,
		Text: fmt.Sprintf("Trade opened for %s %s (%s %s). Buyer has %s to pay.",
			p2p.DisplayCrypto(trade.CryptoAmount), trade.Asset,
			p2p.DisplayFiat(trade.FiatAmount), trade.FiatCurrency,
			p2p.FormatClock(s.paymentWindow)),
	}
	if err := s.chats.InsertTx(ctx, tx, opened); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.invalidateOffers(ctx)
	s.publish(ctx, trade)
	return trade, nil
}

func (s *TradeService) MarkPaid(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	return s.apply(ctx, tradeID, p2p.CmdMarkPaid, &userID)
}

func (s *TradeService) Release(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	return s.apply(ctx, tradeID, p2p.CmdRelease, &userID)
}

func (s *TradeService) OpenDispute(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	return s.apply(ctx, tradeID, p2p.CmdOpenDispute, &userID)
}

func (s *TradeService) Cancel(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	return s.apply(ctx, tradeID, p2p.CmdCancel, &userID)
}

// ResolveDispute is the back-office resolution of a disputed trade.
func (s *TradeService) ResolveDispute(ctx context.Context, tradeID uuid.UUID, release bool) (*models.Trade, error) {
	cmd := p2p.CmdResolveCancel
	if release {
		cmd = p2p.CmdResolveRelease
	}
	return s.apply(ctx, tradeID, cmd, nil)
}

// apply runs one lifecycle command under the row lock. A nil userID means the
// system is acting (expiry, dispute resolution).
func (s *TradeService) apply(ctx context.Context, tradeID uuid.UUID, cmd p2p.Command, userID *uuid.UUID) (*models.Trade, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	trade, err := s.trades.GetByIDForUpdate(ctx, tx, tradeID)
	if err != nil {
		return nil, err
	}

	actor := p2p.RoleSystem
	if userID != nil {
		if !trade.IsParticipant(*userID) {
			return nil, ErrNotParticipant
		}
		actor = p2p.RoleSeller
		if trade.IsBuyer(*userID) {
			actor = p2p.RoleBuyer
		}
	}

	next, err := p2p.Transition(trade.Status, cmd, actor)
	if err != nil {
		// A rejected transition is a caller bug, never swallowed.
		s.log.Warn("invalid trade transition",
			zap.String("trade_id", trade.ID.String()),
			zap.String("command", string(cmd)),
			zap.String("actor", string(actor)),
			zap.String("status", string(trade.Status)),
		)
		return nil, err
	}

	var reason *models.CancelReason
	if next == models.TradeCancelled {
		r := p2p.CancelReasonFor(cmd)
		reason = &r
	}

	if err := s.trades.UpdateStatus(ctx, tx, trade.ID, next, reason); err != nil {
		return nil, err
	}

	if err := s.settle(ctx, tx, trade, next); err != nil {
		return nil, err
	}

	note := &models.ChatMessage{TradeID: trade.ID, Text: systemNote(cmd, next)}
	if err := s.chats.InsertTx(ctx, tx, note); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	trade.Status = next
	trade.CancelReason = reason
	if next != models.TradeWaitingForPayment {
		trade.ExpiresAt = nil
	}

	if next == models.TradeCancelled {
		s.invalidateOffers(ctx)
	}
	s.publish(ctx, trade)
	return trade, nil
}

// settle moves the escrowed crypto when a trade reaches a terminal state:
// completion pays the buyer, cancellation refunds the seller and restores the
// offer's available amount.
func (s *TradeService) settle(ctx context.Context, tx *sql.Tx, t *models.Trade, next models.TradeStatus) error {
	switch next {
	case models.TradeCompleted:
		if err := s.wallets.UpdateBalances(ctx, tx, t.SellerID, t.Asset, decimal.Zero, t.CryptoAmount.Neg()); err != nil {
			return err
		}
		return s.wallets.UpdateBalances(ctx, tx, t.BuyerID, t.Asset, t.CryptoAmount, decimal.Zero)
	case models.TradeCancelled:
		if err := s.wallets.UpdateBalances(ctx, tx, t.SellerID, t.Asset, t.CryptoAmount, t.CryptoAmount.Neg()); err != nil {
			return err
		}
		return s.offers.AdjustAvailable(ctx, tx, t.OfferID, t.CryptoAmount)
	default:
		return nil
	}
}

func systemNote(cmd p2p.Command, next models.TradeStatus) string {
	switch cmd {
	case p2p.CmdMarkPaid:
		return "Buyer marked the payment as sent."
	case p2p.CmdRelease:
		return "Seller released the crypto. Trade completed."
	case p2p.CmdOpenDispute:
		return "A dispute was opened. Support will review the trade."
	case p2p.CmdExpire:
		return "Trade cancelled: the payment window expired."
	case p2p.CmdResolveRelease:
		return "Dispute resolved in the buyer's favour. Crypto released."
	case p2p.CmdResolveCancel:
		return "Dispute resolved in the seller's favour. Trade cancelled."
	default:
		return fmt.Sprintf("Trade is now %s.", next)
	}
}

// Get returns a trade with the viewer's unread counter attached.
func (s *TradeService) Get(ctx context.Context, userID, tradeID uuid.UUID) (*models.Trade, error) {
	t, err := s.trades.GetByID(ctx, tradeID)
	if err != nil {
		return nil, err
	}
	if !t.IsParticipant(userID) {
		return nil, ErrNotParticipant
	}
	s.attachUnread(ctx, userID, t)
	return t, nil
}

func (s *TradeService) ListActive(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	trades, err := s.trades.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		s.attachUnread(ctx, userID, &trades[i])
	}
	return trades, nil
}

func (s *TradeService) History(ctx context.Context, userID uuid.UUID, limit int) ([]models.Trade, error) {
	return s.trades.ListByUser(ctx, userID, limit)
}

func (s *TradeService) attachUnread(ctx context.Context, userID uuid.UUID, t *models.Trade) {
	if s.cache == nil {
		return
	}
	n, err := s.cache.GetUnread(ctx, t.ID, userID)
	if err != nil {
		s.log.Warn("unread counter read", zap.Error(err))
		return
	}
	t.UnreadMessages = n
}

// RunExpirySweeper cancels waiting trades past their deadline. The countdown
// shown to clients is derived client-side every second; this sweep is the
// authoritative transition. It stops when ctx is cancelled.
func (s *TradeService) RunExpirySweeper(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.sweepExpired(ctx); err != nil {
				s.log.Error("expiry sweep", zap.Error(err))
			}
		}
	}
}

func (s *TradeService) sweepExpired(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	expired, err := s.trades.SelectExpiredForUpdate(ctx, tx, time.Now(), 100)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	reason := models.CancelReasonExpired
	for i := range expired {
		t := &expired[i]
		next, err := p2p.Transition(t.Status, p2p.CmdExpire, p2p.RoleSystem)
		if err != nil {
			return err
		}
		if err := s.trades.UpdateStatus(ctx, tx, t.ID, next, &reason); err != nil {
			return err
		}
		if err := s.settle(ctx, tx, t, next); err != nil {
			return err
		}
		note := &models.ChatMessage{TradeID: t.ID, Text: systemNote(p2p.CmdExpire, next)}
		if err := s.chats.InsertTx(ctx, tx, note); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.invalidateOffers(ctx)
	for i := range expired {
		t := expired[i]
		t.Status = models.TradeCancelled
		t.CancelReason = &reason
		t.ExpiresAt = nil
		s.publish(ctx, &t)
		s.log.Info("trade expired", zap.String("trade_id", t.ID.String()))
	}
	return nil
}

func (s *TradeService) publish(ctx context.Context, t *models.Trade) {
	evt := TradeEvent{
		TradeID:      t.ID.String(),
		OfferID:      t.OfferID.String(),
		Status:       t.Status,
		Asset:        t.Asset,
		FiatCurrency: t.FiatCurrency,
		CryptoAmount: t.CryptoAmount,
		FiatAmount:   t.FiatAmount,
	}
	if t.CancelReason != nil {
		evt.CancelReason = string(*t.CancelReason)
	}
	s.notifier.PublishTradeEvent(ctx, evt)
}

func (s *TradeService) invalidateOffers(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateOfferBoard(ctx); err != nil {
		s.log.Warn("offer board invalidate", zap.Error(err))
	}
}
