package service

import (
	"github.com/wdolek/mewsy-bankator/internal/entities"
)

type Matcher interface {
	Match(requested []entities.CurrencyCode, snapshot *entities.RateSnapshot) []entities.ExchangeRate
}
