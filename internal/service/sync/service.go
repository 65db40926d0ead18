package sync

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"cartsync/internal/domain"
	abandonedrepo "cartsync/internal/repository/abandoned"
	syncstaterepo "cartsync/internal/repository/syncstate"
)

type Service struct {
	carts  cartReader
	state  stateStore
	secret string
	base   string
}

type cartReader interface {
	SelectCandidates(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CandidateCart, error)
	Lines(ctx context.Context, cartID int64) ([]domain.CartLine, error)
	ShopSettings(ctx context.Context, shopID int64) (*domain.ShopSettings, error)
	DefaultCurrency(ctx context.Context) (string, error)
}

type stateStore interface {
	CountRemaining(ctx context.Context, shopID int64, remainingOnly bool) (int, error)
	MarkSynced(ctx context.Context, cartIDs []int64) error
}

// Config carries the ambient storefront context as explicit values: the
// secret the recovery token derives from and the public checkout host.
type Config struct {
	SiteSecret      string
	CheckoutBaseURL string
}

func New(carts abandonedrepo.Repository, state syncstaterepo.Repository, cfg Config) *Service {
	return &Service{
		carts:  carts,
		state:  state,
		secret: cfg.SiteSecret,
		base:   strings.TrimRight(cfg.CheckoutBaseURL, "/"),
	}
}

// SelectCarts returns one page of enriched abandoned-cart payloads for the
// shop. Totals are recomputed on every call from current tax and currency
// configuration; nothing is cached between invocations.
func (s *Service) SelectCarts(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CartPayload, error) {
	if shopID <= 0 {
		return nil, errors.New("shop id required")
	}
	if offset < 0 || limit < 0 {
		return nil, errors.New("offset and limit must not be negative")
	}

	settings, err := s.carts.ShopSettings(ctx, shopID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrShopNotConfigured
		}
		return nil, err
	}
	factor := 1.0
	if settings.TaxActive {
		factor = 1 + settings.TaxRate/100
	}

	currency, err := s.carts.DefaultCurrency(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrShopNotConfigured
		}
		return nil, err
	}

	candidates, err := s.carts.SelectCandidates(ctx, shopID, offset, limit, remainingOnly)
	if err != nil {
		return nil, err
	}

	payloads := make([]domain.CartPayload, 0, len(candidates))
	for _, c := range candidates {
		lines, err := s.carts.Lines(ctx, c.ID)
		if err != nil {
			return nil, err
		}

		var subtotal float64
		payloadLines := make([]domain.PayloadLine, 0, len(lines))
		for _, ln := range lines {
			subtotal += ln.UnitPrice * float64(ln.Quantity)
			productID := strconv.FormatInt(ln.ProductID, 10)
			variantID := productID
			if ln.AttributeID != 0 {
				variantID = fmt.Sprintf("%d-%d", ln.ProductID, ln.AttributeID)
			}
			payloadLines = append(payloadLines, domain.PayloadLine{
				ID:               productID,
				ProductID:        productID,
				ProductVariantID: variantID,
				Quantity:         ln.Quantity,
				Price:            ln.UnitPrice * factor,
			})
		}

		birthday := ""
		if c.Birthday != nil {
			birthday = c.Birthday.Format("2006-01-02")
		}

		payloads = append(payloads, domain.CartPayload{
			CartID:       c.ID,
			Email:        c.Email,
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			Newsletter:   c.Newsletter,
			Birthday:     birthday,
			LanguageCode: c.LanguageISO,
			CurrencyCode: currency,
			OrderTotal:   subtotal * factor,
			CheckoutURL:  s.checkoutURL(c.ID),
			Lines:        payloadLines,
		})
	}
	return payloads, nil
}

// CountRemaining reports how many carts the next full selection would return.
func (s *Service) CountRemaining(ctx context.Context, shopID int64, remainingOnly bool) (int, error) {
	if shopID <= 0 {
		return 0, errors.New("shop id required")
	}
	return s.state.CountRemaining(ctx, shopID, remainingOnly)
}

// MarkSynced advances the watermark for the given carts.
func (s *Service) MarkSynced(ctx context.Context, cartIDs []int64) error {
	return s.state.MarkSynced(ctx, cartIDs)
}
