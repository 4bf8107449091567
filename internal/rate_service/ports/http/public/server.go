package public

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wdolek/mewsy-bankator/deploy/config"
	"github.com/wdolek/mewsy-bankator/internal/entities"
	mwLogger "github.com/wdolek/mewsy-bankator/internal/rate_service/ports/http/public/middleware/logger"
)

type Server struct {
	Server  *http.Server
	cfg     *config.Config
	service Service
}

func NewServer(server *http.Server, cfg *config.Config, service Service) *Server {
	return &Server{
		Server:  server,
		cfg:     cfg,
		service: service,
	}
}

func StartServer(ctx context.Context, service Service, cfg *config.Config) <-chan struct{} {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mwLogger.New())
	r.Use(middleware.Recoverer)

	serverConfig := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	server := NewServer(serverConfig, cfg, service)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", server.Healthz)
	r.Get("/rates", server.GetRates)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "error", err)
		}

		close(doneChan)
	}()

	return doneChan
}

// GetRates serves the published rates for the currencies given in the
// `currencies` query parameter (CSV). Without the parameter it serves every
// rate the source publishes.
func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		rates []entities.ExchangeRate
		err   error
	)

	if raw := r.URL.Query().Get("currencies"); raw != "" {
		rates, err = s.service.GetExchangeRates(ctx, parseCurrencies(raw))
	} else {
		rates, err = s.service.GetAllExchangeRates(ctx)
	}

	if err != nil {
		RespondWithError(w, http.StatusBadGateway, entities.ErrRatesUnavailable.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, rates)
}

func (s *Server) Healthz(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func parseCurrencies(raw string) []entities.CurrencyCode {
	parts := strings.Split(raw, ",")
	codes := make([]entities.CurrencyCode, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			codes = append(codes, entities.CurrencyCode(p))
		}
	}
	return codes
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string, details ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)

	errorText := message
	if len(details) > 0 {
		errorText += "\nDetails: " + details[0]
	}

	if _, err := w.Write([]byte(errorText)); err != nil {
		slog.Error("Failed to write error response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
