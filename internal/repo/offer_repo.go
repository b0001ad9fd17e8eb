package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type OfferRepo struct{ db *sql.DB }

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// payment methods are stored as a comma-joined text column
func joinMethods(methods []string) string { return strings.Join(methods, ",") }

func splitMethods(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

const offerColumns = `
o.id, o.owner_id, o.type, o.asset, o.fiat_currency, o.country_code,
o.price, o.available, o.min_limit, o.max_limit, o.payment_methods,
o.is_active, o.created_at, o.updated_at,
u.username, u.trades_count, u.completion_rate, u.is_verified_merchant`

func scanOffer(row interface{ Scan(...any) error }) (*models.Offer, error) {
	var o models.Offer
	var methods string
	if err := row.Scan(
		&o.ID, &o.OwnerID, &o.Type, &o.Asset, &o.FiatCurrency, &o.CountryCode,
		&o.Price, &o.Available, &o.MinLimit, &o.MaxLimit, &methods,
		&o.IsActive, &o.CreatedAt, &o.UpdatedAt,
		&o.OwnerUsername, &o.OwnerTradesCount, &o.OwnerCompletionRate, &o.OwnerVerified,
	); err != nil {
		return nil, err
	}
	o.PaymentMethods = splitMethods(methods)
	return &o, nil
}

func (r *OfferRepo) Insert(ctx context.Context, o *models.Offer) error {
	q := `
INSERT INTO offers(owner_id, type, asset, fiat_currency, country_code,
                   price, available, min_limit, max_limit, payment_methods, is_active)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, q,
		o.OwnerID, o.Type, o.Asset, o.FiatCurrency, o.CountryCode,
		o.Price, o.Available, o.MinLimit, o.MaxLimit, joinMethods(o.PaymentMethods), o.IsActive,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
}

// ListAll returns every offer with the owner's merchant stats joined. The
// market board is small enough that filtering happens in memory (internal/p2p).
func (r *OfferRepo) ListAll(ctx context.Context) ([]models.Offer, error) {
	q := `SELECT ` + offerColumns + `
FROM offers o
JOIN users u ON u.id = o.owner_id
ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OfferRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Offer, error) {
	q := `SELECT ` + offerColumns + `
FROM offers o
JOIN users u ON u.id = o.owner_id
WHERE o.owner_id = $1
ORDER BY o.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *OfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	q := `SELECT ` + offerColumns + `
FROM offers o
JOIN users u ON u.id = o.owner_id
WHERE o.id = $1`
	return scanOffer(r.db.QueryRowContext(ctx, q, id))
}

// GetByIDForUpdate locks the offer row for the duration of the transaction.
// Trade creation re-validates limits and availability against this locked row.
func (r *OfferRepo) GetByIDForUpdate(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*models.Offer, error) {
	q := `SELECT ` + offerColumns + `
FROM offers o
JOIN users u ON u.id = o.owner_id
WHERE o.id = $1
FOR UPDATE OF o`
	return scanOffer(tx.QueryRowContext(ctx, q, id))
}

func (r *OfferRepo) Update(ctx context.Context, o *models.Offer) error {
	q := `
UPDATE offers
SET price=$2, available=$3, min_limit=$4, max_limit=$5,
    payment_methods=$6, country_code=$7, is_active=$8, updated_at=NOW()
WHERE id=$1
RETURNING updated_at`
	return r.db.QueryRowContext(ctx, q,
		o.ID, o.Price, o.Available, o.MinLimit, o.MaxLimit,
		joinMethods(o.PaymentMethods), o.CountryCode, o.IsActive,
	).Scan(&o.UpdatedAt)
}

func (r *OfferRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	q := `UPDATE offers SET is_active=$2, updated_at=NOW() WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id, active)
	return err
}

func (r *OfferRepo) Delete(ctx context.Context, id uuid.UUID) error {
	q := `DELETE FROM offers WHERE id=$1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}

// AdjustAvailable moves the offer's remaining amount by delta (negative on
// trade creation, positive on refund when a trade is cancelled).
func (r *OfferRepo) AdjustAvailable(ctx context.Context, tx *sql.Tx, id uuid.UUID, delta decimal.Decimal) error {
	q := `UPDATE offers SET available = available + $2, updated_at=NOW() WHERE id=$1`
	_, err := tx.ExecContext(ctx, q, id, delta)
	return err
}
