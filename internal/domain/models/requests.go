package models

// Requests and responses for the dashboard HTTP endpoints. Defined in domain
// for consistency and reuse.

type SectorRequest struct {
	Name         string `query:"name" json:"name" validate:"required"`
	ForceRefresh bool   `query:"force_refresh" json:"force_refresh"`
}

type TickerRequest struct {
	Symbol string `query:"symbol" json:"symbol" validate:"required"`
}

type YearRangeRequest struct {
	FromYear int `query:"from_year" json:"from_year" default:"0" validate:"gte=0"`
	ToYear   int `query:"to_year" json:"to_year" default:"9999" validate:"gte=0"`
}

type SectorTableRequest struct {
	SectorRequest
	YearRangeRequest
}

type TickerTableRequest struct {
	TickerRequest
	YearRangeRequest
}

// SectorResponse carries a sector aggregate plus cache provenance.
type SectorResponse struct {
	Sector          string       `json:"sector"`
	Matrix          ReturnMatrix `json:"matrix"`
	Cached          bool         `json:"cached"`
	CacheAgeSeconds *float64     `json:"cache_age_seconds,omitempty"`
}

// TickerResponse carries a single-ticker matrix.
type TickerResponse struct {
	Symbol string       `json:"symbol"`
	Matrix ReturnMatrix `json:"matrix"`
}

// SectorInfo is one entry in the sector listing.
type SectorInfo struct {
	Name            string   `json:"name"`
	Symbols         int      `json:"symbols"`
	CacheAgeSeconds *float64 `json:"cache_age_seconds,omitempty"`
}

// RefreshStatus maps sector name to "ok" or an error description after a
// refresh-all pass.
type RefreshStatus map[string]string
