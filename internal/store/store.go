// Package store implements the durable AnalysisStore: one row per symbol,
// overwritten on every cycle's upsert, readable as a consistent snapshot via
// All. Modeled on the recorder package's separation of a storage interface
// from a concrete SQL-backed implementation, generalized from an
// append-only event log to a keyed upsert table since the engine only ever
// needs the latest Analysis per symbol.
package store

import (
	"context"

	"stockengine/internal/model"
)

// AnalysisStore persists the latest Analysis per symbol.
type AnalysisStore interface {
	// Upsert writes a (or replaces the existing) analysis for its symbol.
	Upsert(ctx context.Context, a model.Analysis) error
	// Get returns the stored analysis for symbol, if present.
	Get(ctx context.Context, symbol model.Symbol) (model.Analysis, bool, error)
	// All returns a consistent snapshot of every stored analysis.
	All(ctx context.Context) ([]model.Analysis, error)
	// Count reports the number of distinct symbols stored.
	Count(ctx context.Context) (int, error)
	// Close releases any underlying resources.
	Close() error
}
