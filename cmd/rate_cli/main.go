package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wdolek/mewsy-bankator/deploy/config"
	"github.com/wdolek/mewsy-bankator/internal/entities"
	"github.com/wdolek/mewsy-bankator/internal/metrics"
	"github.com/wdolek/mewsy-bankator/internal/rate_service/adapter/api_client/cnb"
	"github.com/wdolek/mewsy-bankator/internal/rate_service/cache"
	"github.com/wdolek/mewsy-bankator/internal/rate_service/matcher"
	"github.com/wdolek/mewsy-bankator/internal/rate_service/service"
)

// One-shot variant of the rate service: fetch once, print the rates the
// source publishes for the requested currencies, exit. Currencies come from
// arguments, or from the CURRENCIES env list when no arguments are given.
func main() {
	cfg := config.NewConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	m := metrics.NewMetrics(prometheus.NewRegistry())

	client := cnb.NewHTTPClient(cfg.Source.URL, cfg.Source.Timeout)
	defer client.Close()

	rateCache := cache.New(client, cfg.Source.CacheTTL, cfg.Source.Timeout, m)
	rateMatcher := matcher.New(entities.CurrencyCode(cfg.Rates.TargetCurrency), logger, m)

	rateService, err := service.NewService(rateCache, rateMatcher)
	if err != nil {
		log.Fatalln("Failed to initialize rate service", "error", err)
	}

	requested := cfg.Currencies()
	if len(os.Args) > 1 {
		requested = os.Args[1:]
	}

	currencies := make([]entities.CurrencyCode, len(requested))
	for i, c := range requested {
		currencies[i] = entities.CurrencyCode(c)
	}

	rates, err := rateService.GetExchangeRates(context.Background(), currencies)
	if err != nil {
		log.Fatalln("Failed to fetch exchange rates", "error", err)
	}

	fmt.Printf("Successfully retrieved %d exchange rates:\n", len(rates))
	for _, rate := range rates {
		fmt.Printf("%s/%s=%v\n", rate.SourceCurrency, rate.TargetCurrency, rate.Value)
	}
}
