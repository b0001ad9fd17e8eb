package repo

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/proxylibya/usdt-p2p-wallet-sub005/internal/models"
)

type PaymentMethodRepo struct{ db *sql.DB }

func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo { return &PaymentMethodRepo{db: db} }

func (r *PaymentMethodRepo) Insert(ctx context.Context, m *models.PaymentMethod) error {
	q := `
INSERT INTO payment_methods(user_id, method_key, label, details)
VALUES($1,$2,$3,$4)
RETURNING id, created_at`
	return r.db.QueryRowContext(ctx, q, m.UserID, m.MethodKey, m.Label, m.Details).
		Scan(&m.ID, &m.CreatedAt)
}

func (r *PaymentMethodRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.PaymentMethod, error) {
	q := `
SELECT id, user_id, method_key, label, details, created_at
FROM payment_methods
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.PaymentMethod
	for rows.Next() {
		var m models.PaymentMethod
		if err := rows.Scan(&m.ID, &m.UserID, &m.MethodKey, &m.Label, &m.Details, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *PaymentMethodRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payment_methods WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
