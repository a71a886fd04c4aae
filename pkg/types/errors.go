package types

import "errors"

// Config invariant violations. An active user tripping one of these is
// skipped and reported, never crashes the batch.
var (
	ErrConfigMissing           = errors.New("agent config missing")
	ErrConfigNoToken           = errors.New("agent config has no token")
	ErrConfigNoIndicators      = errors.New("agent config selects no indicators")
	ErrConfigTooManyIndicators = errors.New("agent config selects too many indicators")
	ErrConfigBadTimeframe      = errors.New("agent config timeframe invalid")
)
