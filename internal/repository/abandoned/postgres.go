package abandoned

import (
	"context"
	"errors"
	"time"

	"cartsync/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

// SelectCandidates returns carts eligible for synchronization: shop match,
// modified inside the abandonment window, no order placed against them, and
// (when remainingOnly and the shop's sync marker is set) stale against the
// watermark. The marker gate lives in SQL so a shop that never finished a
// full run returns everything in the window.
func (r *postgresRepo) SelectCandidates(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CandidateCart, error) {
	// LIMIT NULLIF(..., 0) turns a zero limit into LIMIT NULL, i.e. unbounded.
	const q = `
SELECT c.id, c.shop_id, c.updated_at,
       cu.email, cu.first_name, cu.last_name, cu.newsletter, cu.birthday,
       l.iso_code, cs.last_synced
FROM carts c
JOIN customers cu ON cu.id = c.customer_id
JOIN languages l ON l.id = cu.language_id
LEFT JOIN cart_sync cs ON cs.cart_id = c.id
WHERE c.shop_id = $1
  AND c.updated_at > $2
  AND c.id NOT IN (SELECT cart_id FROM orders)
  AND (NOT $3::bool
       OR (SELECT carts_synced_at FROM shop_settings WHERE shop_id = $1) IS NULL
       OR cs.last_synced IS NULL
       OR cs.last_synced < c.updated_at)
ORDER BY c.id
OFFSET $4 LIMIT NULLIF($5::bigint, 0)
`
	since := time.Now().UTC().Add(-domain.AbandonedWindow)
	rows, err := r.pool.Query(ctx, q, shopID, since, remainingOnly, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var carts []domain.CandidateCart
	for rows.Next() {
		var c domain.CandidateCart
		if err := rows.Scan(
			&c.ID,
			&c.ShopID,
			&c.UpdatedAt,
			&c.Email,
			&c.FirstName,
			&c.LastName,
			&c.Newsletter,
			&c.Birthday,
			&c.LanguageISO,
			&c.LastSynced,
		); err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return carts, nil
}

func (r *postgresRepo) Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error) {
	const q = `
SELECT product_id, attribute_id, quantity, unit_price
FROM cart_products
WHERE cart_id = $1
ORDER BY product_id, attribute_id
`
	rows, err := r.pool.Query(ctx, q, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []domain.CartLine
	for rows.Next() {
		var ln domain.CartLine
		if err := rows.Scan(&ln.ProductID, &ln.AttributeID, &ln.Quantity, &ln.UnitPrice); err != nil {
			return nil, err
		}
		lines = append(lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) ShopSettings(ctx context.Context, shopID int64) (*domain.ShopSettings, error) {
	const q = `
SELECT s.shop_id, s.tax_id, COALESCE(t.rate, 0), COALESCE(t.active, FALSE), s.carts_synced_at
FROM shop_settings s
LEFT JOIN taxes t ON t.id = s.tax_id
WHERE s.shop_id = $1
`
	var settings domain.ShopSettings
	err := r.pool.QueryRow(ctx, q, shopID).Scan(
		&settings.ShopID,
		&settings.TaxID,
		&settings.TaxRate,
		&settings.TaxActive,
		&settings.CartsSyncedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &settings, nil
}

func (r *postgresRepo) DefaultCurrency(ctx context.Context) (string, error) {
	const q = `SELECT iso_code FROM currencies WHERE is_default LIMIT 1`
	var code string
	if err := r.pool.QueryRow(ctx, q).Scan(&code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return code, nil
}
