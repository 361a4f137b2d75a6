package repository

import (
	"context"
	"errors"
	"time"

	"SectorPulse/internal/domain/models"
)

// ErrEntryNotFound signals a cache miss in a SectorStore. Any other Get
// error means the entry exists but could not be decoded.
var ErrEntryNotFound = errors.New("sector entry not found")

// PriceSource fetches the full available daily closing-price history for one
// ticker. A failure is reported per ticker; the core never retries.
type PriceSource interface {
	DailyCloses(ctx context.Context, symbol string) (models.PriceSeries, error)
}

// SectorStore persists one aggregated ReturnMatrix per sector. Writes are
// whole-entry replacements; two writers racing on the same sector is
// last-writer-wins.
type SectorStore interface {
	Get(ctx context.Context, sector string) (models.ReturnMatrix, error)
	Put(ctx context.Context, sector string, m models.ReturnMatrix) error
	Delete(ctx context.Context, sector string) error
	// ModTime reports when the entry was last written, for age display only.
	ModTime(ctx context.Context, sector string) (time.Time, bool)
}

// Universe is the read-only sector-membership mapping.
type Universe interface {
	Sectors() []string
	SymbolsFor(sector string) []string
	SymbolFor(companyName string) (string, bool)
}

// Metrics records pipeline observability signals.
type Metrics interface {
	RecordFetch(outcome string, seconds float64)
	RecordCache(event string)
	RecordAggregation(seconds float64)
	FetchInFlight(delta int)
}
