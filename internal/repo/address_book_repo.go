package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type AddressBookRepo struct{ db *sql.DB }

func NewAddressBookRepo(db *sql.DB) *AddressBookRepo { return &AddressBookRepo{db: db} }

func (r *AddressBookRepo) Insert(ctx context.Context, e *models.AddressBookEntry) error {
	q := `
INSERT INTO address_book(user_id, label, address, asset, network)
VALUES($1,$2,$3,$4,$5)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, e.UserID, e.Label, e.Address, e.Asset, e.Network).
		Scan(&e.ID, &e.CreatedAt)
}

// ListByUser returns the user's entries, optionally filtered by asset
// (empty asset means all).
func (r *AddressBookRepo) ListByUser(ctx context.Context, userID uuid.UUID, asset string) ([]models.AddressBookEntry, error) {
	q := `
SELECT id, user_id, label, address, asset, network, created_at
FROM address_book
WHERE user_id=$1 AND ($2='' OR asset=$2)
ORDER BY label ASC`
	rows, err := r.db.QueryContext(ctx, q, userID, asset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AddressBookEntry
	for rows.Next() {
		var e models.AddressBookEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Label, &e.Address, &e.Asset, &e.Network, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *AddressBookRepo) Update(ctx context.Context, e *models.AddressBookEntry) error {
	q := `
UPDATE address_book
SET label=$3, address=$4, asset=$5, network=$6
WHERE id=$1 AND user_id=$2`
	res, err := r.db.ExecContext(ctx, q, e.ID, e.UserID, e.Label, e.Address, e.Asset, e.Network)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AddressBookRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM address_book WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
