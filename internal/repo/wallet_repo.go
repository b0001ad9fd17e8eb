package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type WalletRepo struct{ db *sql.DB }

func NewWalletRepo(db *sql.DB) *WalletRepo { return &WalletRepo{db: db} }

// GetForUpdate locks the wallet row; every escrow move happens under this lock.
func (r *WalletRepo) GetForUpdate(ctx context.Context, tx *sql.Tx, userID uuid.UUID, asset string) (*models.Wallet, error) {
	q := `
SELECT id, user_id, asset, balance, in_orders, updated_at
FROM wallets
WHERE user_id=$1 AND asset=$2
FOR UPDATE`
	row := tx.QueryRowContext(ctx, q, userID, asset)

	var w models.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Asset, &w.Balance, &w.InOrders, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// UpdateBalances applies deltas to the spendable and escrow buckets.
// Escrow on trade creation is (-amount, +amount); release is (0, -amount) on
// the seller plus (+amount, 0) on the buyer; refund reverses the escrow.
func (r *WalletRepo) UpdateBalances(ctx context.Context, tx *sql.Tx, userID uuid.UUID, asset string, balanceDelta, inOrdersDelta decimal.Decimal) error {
	q := `
UPDATE wallets
SET balance = balance + $3,
    in_orders = in_orders + $4,
    updated_at = NOW()
WHERE user_id=$1 AND asset=$2`
	_, err := tx.ExecContext(ctx, q, userID, asset, balanceDelta, inOrdersDelta)
	return err
}

// ListByUser returns all wallet rows for the balance screen.
func (r *WalletRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Wallet, error) {
	q := `
SELECT id, user_id, asset, balance, in_orders, updated_at
FROM wallets
WHERE user_id=$1
ORDER BY asset`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err := rows.Scan(&w.ID, &w.UserID, &w.Asset, &w.Balance, &w.InOrders, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
