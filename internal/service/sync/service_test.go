package sync

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"cartsync/internal/domain"
)

type stubCartReader struct {
	settings       *domain.ShopSettings
	settingsErr    error
	currency       string
	currencyErr    error
	candidates     []domain.CandidateCart
	candidatesErr  error
	lines          map[int64][]domain.CartLine
	linesErr       error
	lastShopID     int64
	lastOffset     int
	lastLimit      int
	lastRemaining  bool
	linesRequested []int64
}

func (s *stubCartReader) SelectCandidates(_ context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CandidateCart, error) {
	s.lastShopID = shopID
	s.lastOffset = offset
	s.lastLimit = limit
	s.lastRemaining = remainingOnly
	return s.candidates, s.candidatesErr
}

func (s *stubCartReader) Lines(_ context.Context, cartID int64) ([]domain.CartLine, error) {
	s.linesRequested = append(s.linesRequested, cartID)
	if s.linesErr != nil {
		return nil, s.linesErr
	}
	return s.lines[cartID], nil
}

func (s *stubCartReader) ShopSettings(_ context.Context, _ int64) (*domain.ShopSettings, error) {
	return s.settings, s.settingsErr
}

func (s *stubCartReader) DefaultCurrency(_ context.Context) (string, error) {
	return s.currency, s.currencyErr
}

type stubStateStore struct {
	count         int
	countErr      error
	markErr       error
	lastMarkedIDs []int64
	lastShopID    int64
	lastRemaining bool
}

func (s *stubStateStore) CountRemaining(_ context.Context, shopID int64, remainingOnly bool) (int, error) {
	s.lastShopID = shopID
	s.lastRemaining = remainingOnly
	return s.count, s.countErr
}

func (s *stubStateStore) MarkSynced(_ context.Context, cartIDs []int64) error {
	s.lastMarkedIDs = cartIDs
	return s.markErr
}

func activeTaxSettings(rate float64) *domain.ShopSettings {
	taxID := int64(1)
	return &domain.ShopSettings{ShopID: 1, TaxID: &taxID, TaxRate: rate, TaxActive: true}
}

func TestSelectCartsValidation(t *testing.T) {
	svc := &Service{carts: &stubCartReader{}, state: &stubStateStore{}}

	if _, err := svc.SelectCarts(context.Background(), 0, 0, 0, false); err == nil || err.Error() != "shop id required" {
		t.Fatalf("expected shop id error, got %v", err)
	}
	if _, err := svc.SelectCarts(context.Background(), 1, -1, 0, false); err == nil || err.Error() != "offset and limit must not be negative" {
		t.Fatalf("expected offset error, got %v", err)
	}
}

func TestSelectCartsShopNotConfigured(t *testing.T) {
	svc := &Service{carts: &stubCartReader{settingsErr: domain.ErrNotFound}, state: &stubStateStore{}}
	_, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if !errors.Is(err, domain.ErrShopNotConfigured) {
		t.Fatalf("expected shop not configured, got %v", err)
	}
}

func TestSelectCartsMissingDefaultCurrency(t *testing.T) {
	reader := &stubCartReader{settings: activeTaxSettings(20), currencyErr: domain.ErrNotFound}
	svc := &Service{carts: reader, state: &stubStateStore{}}
	_, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if !errors.Is(err, domain.ErrShopNotConfigured) {
		t.Fatalf("expected shop not configured, got %v", err)
	}
}

func TestSelectCartsAppliesActiveTax(t *testing.T) {
	reader := &stubCartReader{
		settings: activeTaxSettings(20),
		currency: "USD",
		candidates: []domain.CandidateCart{
			{ID: 11, ShopID: 1, Email: "a@example.com"},
		},
		lines: map[int64][]domain.CartLine{
			11: {{ProductID: 7, Quantity: 2, UnitPrice: 50}},
		},
	}
	svc := &Service{carts: reader, state: &stubStateStore{}}

	payloads, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	if payloads[0].OrderTotal != 120 {
		t.Fatalf("expected order total 120, got %v", payloads[0].OrderTotal)
	}
	if payloads[0].Lines[0].Price != 60 {
		t.Fatalf("expected line price 60, got %v", payloads[0].Lines[0].Price)
	}
	if payloads[0].CurrencyCode != "USD" {
		t.Fatalf("expected currency USD, got %q", payloads[0].CurrencyCode)
	}
}

func TestSelectCartsInactiveTax(t *testing.T) {
	taxID := int64(1)
	reader := &stubCartReader{
		settings: &domain.ShopSettings{ShopID: 1, TaxID: &taxID, TaxRate: 20, TaxActive: false},
		currency: "USD",
		candidates: []domain.CandidateCart{
			{ID: 11, ShopID: 1},
		},
		lines: map[int64][]domain.CartLine{
			11: {{ProductID: 7, Quantity: 2, UnitPrice: 50}},
		},
	}
	svc := &Service{carts: reader, state: &stubStateStore{}}

	payloads, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payloads[0].OrderTotal != 100 {
		t.Fatalf("expected order total 100, got %v", payloads[0].OrderTotal)
	}
	if payloads[0].Lines[0].Price != 50 {
		t.Fatalf("expected line price 50, got %v", payloads[0].Lines[0].Price)
	}
}

func TestSelectCartsVariantComposition(t *testing.T) {
	reader := &stubCartReader{
		settings: &domain.ShopSettings{ShopID: 1},
		currency: "USD",
		candidates: []domain.CandidateCart{
			{ID: 11, ShopID: 1},
		},
		lines: map[int64][]domain.CartLine{
			11: {
				{ProductID: 7, AttributeID: 3, Quantity: 1, UnitPrice: 10},
				{ProductID: 7, AttributeID: 0, Quantity: 1, UnitPrice: 10},
			},
		},
	}
	svc := &Service{carts: reader, state: &stubStateStore{}}

	payloads, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := payloads[0].Lines
	if lines[0].ProductVariantID != "7-3" {
		t.Fatalf("expected variant id 7-3, got %q", lines[0].ProductVariantID)
	}
	if lines[1].ProductVariantID != "7" {
		t.Fatalf("expected variant id 7, got %q", lines[1].ProductVariantID)
	}
	if lines[0].ProductID != "7" || lines[0].ID != "7" {
		t.Fatalf("unexpected product id fields: %+v", lines[0])
	}
}

func TestSelectCartsCheckoutURL(t *testing.T) {
	reader := &stubCartReader{
		settings:   &domain.ShopSettings{ShopID: 1},
		currency:   "USD",
		candidates: []domain.CandidateCart{{ID: 42, ShopID: 1}},
		lines:      map[int64][]domain.CartLine{},
	}
	svc := &Service{carts: reader, state: &stubStateStore{}, secret: "s3cret", base: "https://shop.example.com"}

	payloads, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	url := payloads[0].CheckoutURL
	wantPrefix := "https://shop.example.com/order?step=3&recover_cart=42&token_cart="
	if !strings.HasPrefix(url, wantPrefix) {
		t.Fatalf("unexpected checkout url %q", url)
	}
	if !strings.HasSuffix(url, svc.RecoveryToken(42)) {
		t.Fatalf("checkout url does not embed the recovery token: %q", url)
	}
}

func TestSelectCartsPassesFilterArguments(t *testing.T) {
	reader := &stubCartReader{settings: &domain.ShopSettings{ShopID: 5}, currency: "EUR"}
	svc := &Service{carts: reader, state: &stubStateStore{}}

	if _, err := svc.SelectCarts(context.Background(), 5, 10, 20, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reader.lastShopID != 5 || reader.lastOffset != 10 || reader.lastLimit != 20 || !reader.lastRemaining {
		t.Fatalf("unexpected selection args: shop=%d offset=%d limit=%d remaining=%v",
			reader.lastShopID, reader.lastOffset, reader.lastLimit, reader.lastRemaining)
	}
}

func TestSelectCartsBirthdayFormatting(t *testing.T) {
	bday := time.Date(1990, time.March, 7, 0, 0, 0, 0, time.UTC)
	reader := &stubCartReader{
		settings:   &domain.ShopSettings{ShopID: 1},
		currency:   "USD",
		candidates: []domain.CandidateCart{{ID: 1, Birthday: &bday}},
		lines:      map[int64][]domain.CartLine{},
	}
	svc := &Service{carts: reader, state: &stubStateStore{}}

	payloads, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payloads[0].Birthday != "1990-03-07" {
		t.Fatalf("unexpected birthday %q", payloads[0].Birthday)
	}
}

func TestSelectCartsRepoError(t *testing.T) {
	reader := &stubCartReader{
		settings:      &domain.ShopSettings{ShopID: 1},
		currency:      "USD",
		candidatesErr: errors.New("boom"),
	}
	svc := &Service{carts: reader, state: &stubStateStore{}}
	_, err := svc.SelectCarts(context.Background(), 1, 0, 0, false)
	if err == nil || err.Error() != "boom" {
		t.Fatalf("expected repo error, got %v", err)
	}
}

func TestCountRemainingDelegates(t *testing.T) {
	state := &stubStateStore{count: 7}
	svc := &Service{carts: &stubCartReader{}, state: state}

	n, err := svc.CountRemaining(context.Background(), 3, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected 7, got %d", n)
	}
	if state.lastShopID != 3 || !state.lastRemaining {
		t.Fatalf("unexpected delegate args: shop=%d remaining=%v", state.lastShopID, state.lastRemaining)
	}

	if _, err := svc.CountRemaining(context.Background(), 0, true); err == nil {
		t.Fatalf("expected shop id validation error")
	}
}

func TestMarkSyncedDelegates(t *testing.T) {
	state := &stubStateStore{markErr: domain.ErrEmptyBatch}
	svc := &Service{carts: &stubCartReader{}, state: state}

	if err := svc.MarkSynced(context.Background(), nil); !errors.Is(err, domain.ErrEmptyBatch) {
		t.Fatalf("expected empty batch error, got %v", err)
	}

	state.markErr = nil
	if err := svc.MarkSynced(context.Background(), []int64{1, 2}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(state.lastMarkedIDs) != 2 || state.lastMarkedIDs[0] != 1 || state.lastMarkedIDs[1] != 2 {
		t.Fatalf("unexpected marked ids %v", state.lastMarkedIDs)
	}
}
