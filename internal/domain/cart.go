package domain

import "time"

// AbandonedWindow bounds how far back cart modifications count as abandoned.
// The comparison is strict: a cart updated exactly at the boundary is out.
const AbandonedWindow = 24 * time.Hour

// CandidateCart is one row of the abandoned-cart selection join: the cart
// itself plus the owning customer's contact fields and the sync watermark.
type CandidateCart struct {
	ID          int64
	ShopID      int64
	UpdatedAt   time.Time
	Email       string
	FirstName   string
	LastName    string
	Newsletter  bool
	Birthday    *time.Time
	LanguageISO string
	LastSynced  *time.Time
}

// CartLine is a single cart_products row. AttributeID is zero when the
// product has no variant.
type CartLine struct {
	ProductID   int64
	AttributeID int64
	Quantity    int
	UnitPrice   float64
}

// ShopSettings binds a shop to its tax rule and carries the shop-level
// "carts last synchronized" marker. A nil CartsSyncedAt means the shop has
// never completed a full sync run (bootstrap mode).
type ShopSettings struct {
	ShopID        int64
	TaxID         *int64
	TaxRate       float64
	TaxActive     bool
	CartsSyncedAt *time.Time
}
