package abandoned

import (
	"context"

	"cartsync/internal/domain"
)

// Repository is the read side of the sync core: candidate carts with their
// customer context, line items, and the shop's tax/currency bindings.
type Repository interface {
	SelectCandidates(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CandidateCart, error)
	Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
	ShopSettings(ctx context.Context, shopID int64) (*domain.ShopSettings, error)
	DefaultCurrency(ctx context.Context) (string, error)
}
