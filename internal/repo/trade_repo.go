package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type TradeRepo struct{ db *sql.DB }

func NewTradeRepo(db *sql.DB) *TradeRepo { return &TradeRepo{db: db} }

const tradeColumns = `
id, offer_id, buyer_id, seller_id, taker_id, asset, fiat_currency,
price, crypto_amount, fiat_amount, payment_methods, status, cancel_reason,
created_at, expires_at, completed_at, cancelled_at`

func scanTrade(row interface{ Scan(...any) error }) (*models.Trade, error) {
	var t models.Trade
	var methods string
	var reason *string
	if err := row.Scan(
		&t.ID, &t.OfferID, &t.BuyerID, &t.SellerID, &t.TakerID, &t.Asset, &t.FiatCurrency,
		&t.Price, &t.CryptoAmount, &t.FiatAmount, &methods, &t.Status, &reason,
		&t.CreatedAt, &t.ExpiresAt, &t.CompletedAt, &t.CancelledAt,
	); err != nil {
		return nil, err
	}
	t.PaymentMethods = splitMethods(methods)
	if reason != nil {
		cr := models.CancelReason(*reason)
		t.CancelReason = &cr
	}
	return &t, nil
}

func (r *TradeRepo) Insert(ctx context.Context, tx *sql.Tx, t *models.Trade) error {
	q := `
INSERT INTO trades(offer_id, buyer_id, seller_id, taker_id, asset, fiat_currency,
                   price, crypto_amount, fiat_amount, payment_methods, status, expires_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING id, created_at`
	return tx.QueryRowContext(ctx, q,
		t.OfferID, t.BuyerID, t.SellerID, t.TakerID, t.Asset, t.FiatCurrency,
		t.Price, t.CryptoAmount, t.FiatAmount, joinMethods(t.PaymentMethods), t.Status, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *TradeRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Trade, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades WHERE id=$1`
	return scanTrade(r.db.QueryRowContext(ctx, q, id))
}

func (r *TradeRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Trade, error) {
	q := `SELECT ` + tradeColumns + ` FROM trades WHERE id=$1 FOR UPDATE`
	return scanTrade(tx.QueryRowContext(ctx, q, id))
}

// ListActiveByUser returns the user's non-terminal trades, newest first.
func (r *TradeRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]models.Trade, error) {
	q := `SELECT ` + tradeColumns + `
FROM trades
WHERE (buyer_id=$1 OR seller_id=$1)
  AND status NOT IN ('completed','cancelled')
ORDER BY created_at DESC`
	return r.list(ctx, q, userID)
}

func (r *TradeRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Trade, error) {
	q := `SELECT ` + tradeColumns + `
FROM trades
WHERE buyer_id=$1 OR seller_id=$1
ORDER BY created_at DESC
LIMIT $2`
	return r.list(ctx, q, userID, limit)
}

func (r *TradeRepo) list(ctx context.Context, q string, args ...any) ([]models.Trade, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// UpdateStatus persists a lifecycle transition. expires_at is cleared as soon
// as the trade leaves waiting_for_payment; terminal timestamps are set here.
func (r *TradeRepo) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status models.TradeStatus, reason *models.CancelReason) error {
	q := `
UPDATE trades
SET status=$2,
    cancel_reason=$3,
    expires_at=CASE WHEN $2='waiting_for_payment' THEN expires_at ELSE NULL END,
    completed_at=CASE WHEN $2='completed' THEN NOW() ELSE completed_at END,
    cancelled_at=CASE WHEN $2='cancelled' THEN NOW() ELSE cancelled_at END
WHERE id=$1`
	var rs *string
	if reason != nil {
		s := string(*reason)
		rs = &s
	}
	_, err := tx.ExecContext(ctx, q, id, status, rs)
	return err
}

// SelectExpiredForUpdate picks waiting trades past their deadline for the
// sweeper, skipping rows another sweep already holds.
func (r *TradeRepo) SelectExpiredForUpdate(ctx context.Context, tx *sql.Tx, now time.Time, limit int) ([]models.Trade, error) {
	q := `SELECT ` + tradeColumns + `
FROM trades
WHERE status='waiting_for_payment' AND expires_at IS NOT NULL AND expires_at <= $1
ORDER BY expires_at ASC
LIMIT $2
FOR UPDATE SKIP LOCKED`
	rows, err := tx.QueryContext(ctx, q, now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Trade
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}
