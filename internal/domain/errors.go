package domain

import "errors"

var (
	// ErrInvalidDateRange is returned when a period starts after it ends
	// or a date cannot be parsed.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrNoMatchingRule marks a total that falls in a gap of the rule set.
	// The calculator resolves it through its fallback policy.
	ErrNoMatchingRule = errors.New("no matching commission rule")

	// ErrDataUnavailable wraps any failure of a provider to supply input.
	ErrDataUnavailable = errors.New("data unavailable")

	ErrInvalidRecord    = errors.New("invalid record")
	ErrReadOnlyProvider = errors.New("provider is read-only")
	ErrArchiveDisabled  = errors.New("commission archive is disabled")
	ErrNotFound         = errors.New("not found")
)
