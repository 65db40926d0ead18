package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts demo storefront data for manual sync runs. It is idempotent:
// fixed ids with ON CONFLICT, sequences bumped past them afterwards.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []struct {
		desc string
		sql  string
		args []any
	}{
		{"shop", `INSERT INTO shops (id, name) VALUES (1, 'Demo Storefront')
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, nil},
		{"language", `INSERT INTO languages (id, iso_code) VALUES (1, 'en')
			ON CONFLICT (id) DO NOTHING`, nil},
		{"tax", `INSERT INTO taxes (id, name, rate, active) VALUES (1, 'VAT 20%', 20, TRUE)
			ON CONFLICT (id) DO NOTHING`, nil},
		{"currency usd", `INSERT INTO currencies (id, iso_code, is_default) VALUES (1, 'USD', TRUE)
			ON CONFLICT (id) DO NOTHING`, nil},
		{"currency eur", `INSERT INTO currencies (id, iso_code, is_default) VALUES (2, 'EUR', FALSE)
			ON CONFLICT (id) DO NOTHING`, nil},
		{"shop settings", `INSERT INTO shop_settings (shop_id, tax_id) VALUES (1, 1)
			ON CONFLICT (shop_id) DO NOTHING`, nil},
		{"customer alice", `INSERT INTO customers (id, email, first_name, last_name, newsletter, language_id)
			VALUES (1, 'alice@example.com', 'Alice', 'Doe', TRUE, 1)
			ON CONFLICT (id) DO NOTHING`, nil},
		{"customer bob", `INSERT INTO customers (id, email, first_name, last_name, newsletter, language_id)
			VALUES (2, 'bob@example.com', 'Bob', 'Roe', FALSE, 1)
			ON CONFLICT (id) DO NOTHING`, nil},
		{"cart abandoned", `INSERT INTO carts (id, shop_id, customer_id, updated_at) VALUES (1, 1, 1, $1)
			ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`, []any{time.Now().UTC().Add(-2 * time.Hour)}},
		{"cart abandoned variant", `INSERT INTO carts (id, shop_id, customer_id, updated_at) VALUES (2, 1, 2, $1)
			ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`, []any{time.Now().UTC().Add(-30 * time.Minute)}},
		{"cart ordered", `INSERT INTO carts (id, shop_id, customer_id, updated_at) VALUES (3, 1, 2, $1)
			ON CONFLICT (id) DO UPDATE SET updated_at = EXCLUDED.updated_at`, []any{time.Now().UTC().Add(-1 * time.Hour)}},
		{"cart 1 line", `INSERT INTO cart_products (cart_id, product_id, attribute_id, quantity, unit_price)
			VALUES (1, 7, 0, 2, 19.99)
			ON CONFLICT (cart_id, product_id, attribute_id) DO NOTHING`, nil},
		{"cart 2 line", `INSERT INTO cart_products (cart_id, product_id, attribute_id, quantity, unit_price)
			VALUES (2, 7, 3, 1, 24.99)
			ON CONFLICT (cart_id, product_id, attribute_id) DO NOTHING`, nil},
		{"cart 3 line", `INSERT INTO cart_products (cart_id, product_id, attribute_id, quantity, unit_price)
			VALUES (3, 9, 0, 1, 5.50)
			ON CONFLICT (cart_id, product_id, attribute_id) DO NOTHING`, nil},
		{"order for cart 3", `INSERT INTO orders (id, cart_id) VALUES (1, 3)
			ON CONFLICT (id) DO NOTHING`, nil},
	}

	for _, st := range statements {
		if _, err := pool.Exec(ctx, st.sql, st.args...); err != nil {
			return fmt.Errorf("seed %s: %w", st.desc, err)
		}
	}

	for _, seq := range []string{
		`SELECT setval('shops_id_seq', (SELECT MAX(id) FROM shops))`,
		`SELECT setval('languages_id_seq', (SELECT MAX(id) FROM languages))`,
		`SELECT setval('taxes_id_seq', (SELECT MAX(id) FROM taxes))`,
		`SELECT setval('currencies_id_seq', (SELECT MAX(id) FROM currencies))`,
		`SELECT setval('customers_id_seq', (SELECT MAX(id) FROM customers))`,
		`SELECT setval('carts_id_seq', (SELECT MAX(id) FROM carts))`,
		`SELECT setval('orders_id_seq', (SELECT MAX(id) FROM orders))`,
	} {
		if _, err := pool.Exec(ctx, seq); err != nil {
			return fmt.Errorf("advance sequence: %w", err)
		}
	}

	return nil
}
