package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrShopNotConfigured indicates the shop has no settings row binding
	// tax and currency, so enrichment cannot proceed.
	ErrShopNotConfigured = errors.New("shop not configured")

	// ErrEmptyBatch indicates MarkSynced was called with no cart ids.
	// Callers distinguish "nothing to sync" from a storage failure by it.
	ErrEmptyBatch = errors.New("empty batch")
)
