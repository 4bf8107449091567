package service

import (
	"context"

	"github.com/wdolek/mewsy-bankator/internal/entities"
)

type Cache interface {
	GetRates(ctx context.Context) (*entities.RateSnapshot, error)
}
