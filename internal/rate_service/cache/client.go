package cache

import (
	"context"

	"github.com/wdolek/mewsy-bankator/internal/entities"
)

type SourceClient interface {
	FetchRates(ctx context.Context) (*entities.RateSnapshot, error)
}
