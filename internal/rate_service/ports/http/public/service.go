package public

import (
	"context"

	"github.com/wdolek/mewsy-bankator/internal/entities"
)

type Service interface {
	GetExchangeRates(ctx context.Context, currencies []entities.CurrencyCode) (rates []entities.ExchangeRate, err error)
	GetAllExchangeRates(ctx context.Context) (rates []entities.ExchangeRate, err error)
}
