package matcher

import (
	"log/slog"
	"sort"

	"github.com/wdolek/mewsy-bankator/internal/entities"
	"github.com/wdolek/mewsy-bankator/internal/metrics"
)

// Matcher intersects requested currencies with the rates a snapshot holds.
// It only ever returns rates the source explicitly publishes, quoted against
// the configured target currency; inverse or derived rates are never built.
// Matching is stateless and safe for concurrent use over a shared snapshot.
type Matcher struct {
	target  entities.CurrencyCode
	log     *slog.Logger
	metrics *metrics.Metrics
}

func New(target entities.CurrencyCode, log *slog.Logger, m *metrics.Metrics) *Matcher {
	return &Matcher{
		target:  target,
		log:     log,
		metrics: m,
	}
}

// Match sorts both sides by currency code (byte-wise, ascending) and walks
// them with two cursors. Cost is O(R log R + S log S) instead of the O(R*S)
// of a per-currency scan, which matters when the source publishes dozens of
// currencies and request lists grow. Duplicated requested codes emit one
// entry; requested codes absent from the snapshot are skipped with a warning.
func (m *Matcher) Match(requested []entities.CurrencyCode, snapshot *entities.RateSnapshot) []entities.ExchangeRate {
	if snapshot == nil || len(requested) == 0 {
		return []entities.ExchangeRate{}
	}

	codes := make([]entities.CurrencyCode, len(requested))
	copy(codes, requested)
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	// the snapshot is shared and immutable, sort a copy
	rates := make([]entities.SourceRate, len(snapshot.Rates))
	copy(rates, snapshot.Rates)
	sort.Slice(rates, func(i, j int) bool { return rates[i].CurrencyCode < rates[j].CurrencyCode })

	matched := make([]entities.ExchangeRate, 0, len(codes))

	var cursor int
	for i, code := range codes {
		if i > 0 && code == codes[i-1] {
			continue
		}

		for cursor < len(rates) && rates[cursor].CurrencyCode < code {
			cursor++
		}

		if cursor < len(rates) && rates[cursor].CurrencyCode == code {
			matched = append(matched, entities.ExchangeRate{
				SourceCurrency: code,
				TargetCurrency: m.target,
				Value:          rates[cursor].Rate / float64(rates[cursor].Amount),
			})
			continue
		}

		// a miss is not an error, the currency is simply not published
		m.log.Warn("currency not found", "currency", string(code))
		m.metrics.CurrenciesNotFoundTotal.Inc()
	}

	return matched
}
