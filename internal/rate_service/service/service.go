package service

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/wdolek/mewsy-bankator/internal/entities"
)

type Service struct {
	cache   Cache
	matcher Matcher
}

func NewService(cache Cache, matcher Matcher) (*Service, error) {
	return &Service{
		cache:   cache,
		matcher: matcher,
	}, nil
}

// GetExchangeRates returns the subset of requested currencies the source
// publishes rates for. Requested currencies without a published rate are
// omitted, that is not an error. Upstream failures surface as the generic
// entities.ErrRatesUnavailable, transport detail goes to the log only.
func (s *Service) GetExchangeRates(ctx context.Context, currencies []entities.CurrencyCode) ([]entities.ExchangeRate, error) {
	const op = "service.GetExchangeRates"

	snapshot, err := s.cache.GetRates(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			// the caller backed out, not an upstream failure
			return nil, errors.Wrap(ctxErr, op)
		}

		slog.Error("Failed to fetch exchange rates", "op", op, "error", err)
		return nil, entities.ErrRatesUnavailable
	}

	return s.matcher.Match(currencies, snapshot), nil
}

// GetAllExchangeRates returns every rate the source currently publishes.
func (s *Service) GetAllExchangeRates(ctx context.Context) ([]entities.ExchangeRate, error) {
	const op = "service.GetAllExchangeRates"

	snapshot, err := s.cache.GetRates(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Wrap(ctxErr, op)
		}

		slog.Error("Failed to fetch exchange rates", "op", op, "error", err)
		return nil, entities.ErrRatesUnavailable
	}

	codes := make([]entities.CurrencyCode, 0, len(snapshot.Rates))
	for _, rate := range snapshot.Rates {
		codes = append(codes, rate.CurrencyCode)
	}

	return s.matcher.Match(codes, snapshot), nil
}
