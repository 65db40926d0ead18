package syncstate

import (
	"context"
	"time"
)

// Repository is the durable watermark store. MarkSynced is a whole-batch
// replace; no per-record update or delete is exposed.
type Repository interface {
	CountRemaining(ctx context.Context, shopID int64, remainingOnly bool) (int, error)
	MarkSynced(ctx context.Context, cartIDs []int64) error
	StampShopMarker(ctx context.Context, shopID int64, at time.Time) error
}
