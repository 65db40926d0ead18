package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"cartsync/internal/domain"
	"github.com/sirupsen/logrus"
)

type CartSource interface {
	SelectCarts(ctx context.Context, shopID int64, offset, limit int, remainingOnly bool) ([]domain.CartPayload, error)
	MarkSynced(ctx context.Context, cartIDs []int64) error
}

type MarkerStore interface {
	StampShopMarker(ctx context.Context, shopID int64, at time.Time) error
}

// Sink receives delivered payload pages. Implementations transmit to the
// external marketing service; delivery failures abort the run before any
// watermark is written.
type Sink interface {
	Deliver(ctx context.Context, payloads []domain.CartPayload) error
}

// JSONLines writes each payload as a single JSON document per line.
type JSONLines struct {
	w io.Writer
}

func NewJSONLines(w io.Writer) *JSONLines {
	return &JSONLines{w: w}
}

func (j *JSONLines) Deliver(_ context.Context, payloads []domain.CartPayload) error {
	enc := json.NewEncoder(j.w)
	for _, p := range payloads {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// Runner drives one batch sync pass: page through eligible carts, deliver
// each page, then mark the delivered set and stamp the shop marker.
type Runner struct {
	source CartSource
	marker MarkerStore
	sink   Sink
	log    logrus.FieldLogger
	batch  int
}

func NewRunner(source CartSource, marker MarkerStore, sink Sink, log logrus.FieldLogger, batchSize int) *Runner {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Runner{
		source: source,
		marker: marker,
		sink:   sink,
		log:    log,
		batch:  batchSize,
	}
}

// Run returns the number of carts delivered. The watermark batch is written
// once, after the final page, so offset pagination is never disturbed by
// mid-run sync-state writes; a delivered-but-unmarked cart is simply
// re-delivered on the next pass.
func (r *Runner) Run(ctx context.Context, shopID int64, remainingOnly bool) (int, error) {
	var delivered []int64
	offset := 0
	for {
		page, err := r.source.SelectCarts(ctx, shopID, offset, r.batch, remainingOnly)
		if err != nil {
			return len(delivered), fmt.Errorf("select carts at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		if err := r.sink.Deliver(ctx, page); err != nil {
			return len(delivered), fmt.Errorf("deliver page at offset %d: %w", offset, err)
		}
		for _, p := range page {
			delivered = append(delivered, p.CartID)
		}
		r.log.WithFields(logrus.Fields{
			"shop_id": shopID,
			"offset":  offset,
			"carts":   len(page),
		}).Info("page delivered")

		if len(page) < r.batch {
			break
		}
		offset += len(page)
	}

	if len(delivered) == 0 {
		return 0, nil
	}

	if err := r.source.MarkSynced(ctx, delivered); err != nil {
		return len(delivered), fmt.Errorf("mark synced: %w", err)
	}
	if err := r.marker.StampShopMarker(ctx, shopID, time.Now().UTC()); err != nil {
		return len(delivered), fmt.Errorf("stamp shop marker: %w", err)
	}
	return len(delivered), nil
}
