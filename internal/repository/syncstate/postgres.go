package syncstate

import (
	"context"
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

// CountRemaining counts carts currently eligible for synchronization. This
// is the same join the selection query runs, not a row count of cart_sync.
func (r *postgresRepo) CountRemaining(ctx context.Context, shopID int64, remainingOnly bool) (int, error) {
	const q = `
SELECT COUNT(c.id)
FROM carts c
JOIN customers cu ON cu.id = c.customer_id
LEFT JOIN cart_sync cs ON cs.cart_id = c.id
WHERE c.shop_id = $1
  AND c.updated_at > $2
  AND c.id NOT IN (SELECT cart_id FROM orders)
  AND (NOT $3::bool
       OR (SELECT carts_synced_at FROM shop_settings WHERE shop_id = $1) IS NULL
       OR cs.last_synced IS NULL
       OR cs.last_synced < c.updated_at)
`
	since := time.Now().UTC().Add(-domain.AbandonedWindow)
	var n int
	if err := r.pool.QueryRow(ctx, q, shopID, since, remainingOnly).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkSynced replaces the watermark of every cart in the batch with the
// current time, in one transaction. A duplicate id inside the batch fails
// the insert's unique constraint and rolls the whole call back.
func (r *postgresRepo) MarkSynced(ctx context.Context, cartIDs []int64) error {
	if len(cartIDs) == 0 {
		return domain.ErrEmptyBatch
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
DELETE FROM cart_sync
WHERE cart_id = ANY($1)
`, cartIDs); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_sync (cart_id, last_synced)
SELECT id, now() FROM unnest($1::bigint[]) AS t(id)
`, cartIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// StampShopMarker records that a full sync run for the shop completed,
// flipping the shop out of bootstrap mode.
func (r *postgresRepo) StampShopMarker(ctx context.Context, shopID int64, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE shop_settings
SET carts_synced_at = $2
WHERE shop_id = $1
`, shopID, at)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrShopNotConfigured
	}
	return nil
}
