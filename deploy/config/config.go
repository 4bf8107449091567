package config

import (
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPServer HTTPServer
	Source     Source
	Rates      Rates
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8082"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"30s"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Source struct {
	URL      string        `env:"SOURCE_URL" env-default:"https://api.cnb.cz/cnbapi/exrates/daily"`
	Timeout  time.Duration `env:"SOURCE_TIMEOUT" env-default:"10s"`
	CacheTTL time.Duration `env:"CACHE_TTL" env-default:"5m"`
}

type Rates struct {
	TargetCurrency string `env:"TARGET_CURRENCY" env-default:"CZK"`
	Currencies     string `env:"CURRENCIES" env-default:"USD,EUR,CZK,JPY,KES,RUB,THB,TRY,SPL"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		log.Fatal("Error reading env")
	}

	if cfg.Source.CacheTTL <= 0 {
		log.Fatal("CACHE_TTL must be a positive duration")
	}

	return cfg
}

// Currencies splits the configured CSV currency list, dropping empty items.
func (c *Config) Currencies() []string {
	parts := strings.Split(c.Rates.Currencies, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
