package models

// SkipReason classifies why a ticker was excluded from a sector aggregate.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipEmptyData  SkipReason = "empty-data"
	SkipFetchError SkipReason = "fetch-error"
)

// FetchOutcome is the tagged result of one ticker's fetch+compute step.
// Either Matrix is populated (Skip == SkipNone) or the ticker is excluded
// with a reason; Err carries detail for SkipFetchError.
type FetchOutcome struct {
	Symbol string
	Matrix ReturnMatrix
	Skip   SkipReason
	Err    error
}

// OK reports whether the ticker produced a usable matrix.
func (o FetchOutcome) OK() bool { return o.Skip == SkipNone }
