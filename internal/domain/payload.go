package domain

// CartPayload is the enriched record handed to the external marketing
// service. Totals and prices are tax-inclusive and computed at read time.
type CartPayload struct {
	CartID       int64         `json:"cart_id"`
	Email        string        `json:"email"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Newsletter   bool          `json:"newsletter"`
	Birthday     string        `json:"birthday,omitempty"`
	LanguageCode string        `json:"language_code"`
	CurrencyCode string        `json:"currency_code"`
	OrderTotal   float64       `json:"order_total"`
	CheckoutURL  string        `json:"checkout_url"`
	Lines        []PayloadLine `json:"lines"`
}

// PayloadLine mirrors the external service's line schema: string ids, with
// ProductVariantID composed as "{product}-{attribute}" when a variant exists.
type PayloadLine struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"product_id"`
	ProductVariantID string  `json:"product_variant_id"`
	Quantity         int     `json:"quantity"`
	Price            float64 `json:"price"`
}
