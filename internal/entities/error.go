package entities

import "errors"

var (
	// ErrRatesUnavailable is the caller-facing failure for any upstream
	// fetch problem. Transport detail stays out of this boundary.
	ErrRatesUnavailable = errors.New("failed to fetch exchange rates")

	// ErrEmptySnapshot is returned by the source client when the response
	// decodes but carries no rates.
	ErrEmptySnapshot = errors.New("source returned no rates")
)
