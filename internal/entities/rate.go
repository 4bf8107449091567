package entities

import "time"

// CurrencyCode is an ISO-4217 style currency identifier, compared byte-wise
// and case-sensitive as received from the source.
type CurrencyCode string

// SourceRate is one rate fact as published by the source. Amount is the
// quotation lot size (e.g. HUF is quoted per 100 units).
type SourceRate struct {
	CurrencyCode CurrencyCode
	Amount       int
	Rate         float64
}

// RateSnapshot holds all rates published by the source as of FetchedAt.
// A snapshot is never mutated after construction, only replaced.
type RateSnapshot struct {
	Rates     []SourceRate
	FetchedAt time.Time
}

// ExchangeRate is a per-unit rate quoted against the source's home currency.
type ExchangeRate struct {
	SourceCurrency CurrencyCode `json:"sourceCurrency"`
	TargetCurrency CurrencyCode `json:"targetCurrency"`
	Value          float64      `json:"value"`
}

func NewSnapshot(rates []SourceRate, fetchedAt time.Time) *RateSnapshot {
	return &RateSnapshot{
		Rates:     rates,
		FetchedAt: fetchedAt,
	}
}
