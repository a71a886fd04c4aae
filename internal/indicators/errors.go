package indicators

import "fmt"

// InsufficientDataError is returned when a bar sequence is too short for a
// configured sub-indicator. Non-retryable; the affected instrument's refresh
// publishes the empty sentinel instead.
type InsufficientDataError struct {
	Indicator string
	Need      int
	Have      int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data for %s: need %d candles, have %d", e.Indicator, e.Need, e.Have)
}

// InvalidBarError is returned when a bar fails basic sanity checks
// (high < low or a non-finite field). Fatal for that instrument's refresh only.
type InvalidBarError struct {
	Index  int
	Reason string
}

func (e *InvalidBarError) Error() string {
	return fmt.Sprintf("invalid candle at index %d: %s", e.Index, e.Reason)
}
