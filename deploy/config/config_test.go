package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, "https://api.cnb.cz/cnbapi/exrates/daily", cfg.Source.URL)
	assert.Equal(t, 5*time.Minute, cfg.Source.CacheTTL)
	assert.Equal(t, "CZK", cfg.Rates.TargetCurrency)
	assert.Equal(t, "8082", cfg.HTTPServer.Port)
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("TARGET_CURRENCY", "EUR")

	cfg := NewConfig()

	assert.Equal(t, 30*time.Second, cfg.Source.CacheTTL)
	assert.Equal(t, "EUR", cfg.Rates.TargetCurrency)
}

func TestCurrencies_SplitsAndTrims(t *testing.T) {
	cfg := &Config{Rates: Rates{Currencies: "USD, EUR,,CZK "}}

	assert.Equal(t, []string{"USD", "EUR", "CZK"}, cfg.Currencies())
}

func TestCurrencies_Empty(t *testing.T) {
	cfg := &Config{}

	assert.Empty(t, cfg.Currencies())
}
