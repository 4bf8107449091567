package app

import (
	"context"
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
	"github.com/wdolek/mewsy-bankator/internal/rate_service/ports/http/public"
	"github.com/wdolek/mewsy-bankator/internal/rate_service/service"
)

type App struct {
	cfg *config.Config
}

func NewApp(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Start(ctx context.Context) <-chan struct{} {
	a.initLogger()
	slog.Info("Logger initialized")

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	slog.Info("Metrics initialized")

	client := cnb.NewHTTPClient(a.cfg.Source.URL, a.cfg.Source.Timeout)
	slog.Info("Source client initialized", "url", a.cfg.Source.URL)

	go func() {
		<-ctx.Done()
		client.Close()
	}()

	rateCache := cache.New(client, a.cfg.Source.CacheTTL, a.cfg.Source.Timeout, m)
	slog.Info("Rate cache initialized", "ttl", a.cfg.Source.CacheTTL)

	rateService := a.initService(rateCache, m)
	slog.Info("Service initialized")

	serverDone := public.StartServer(ctx, rateService, a.cfg)
	slog.Info("server started", "port", a.cfg.HTTPServer.Port)

	return serverDone
}

func (a *App) initLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: false,
	}))
	slog.SetDefault(logger)
}

func (a *App) initService(rateCache *cache.RateCache, m *metrics.Metrics) *service.Service {
	rateMatcher := matcher.New(entities.CurrencyCode(a.cfg.Rates.TargetCurrency), slog.Default(), m)

	rateService, err := service.NewService(rateCache, rateMatcher)
	if err != nil {
		log.Fatalln("Failed to initialize rate service", "error", err)
	}

	return rateService
}
