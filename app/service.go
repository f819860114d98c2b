package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	apiboard "github.com/escala-app/escala/api/board"
	"github.com/escala-app/escala/auth"
	"github.com/escala-app/escala/config"
	"github.com/escala-app/escala/connectors/clients/roster"
	coremetrics "github.com/escala-app/escala/core/metrics"
	"github.com/escala-app/escala/core/model"
	"github.com/escala-app/escala/core/schedule"
	"github.com/escala-app/escala/infra/logger"
	"github.com/escala-app/escala/infra/metrics"
	"github.com/escala-app/escala/internal/eventbus"
)

// Service orchestrates the board: gateway client, schedule manager,
// HTTP API and metrics sinks.
type Service struct {
	Manager *schedule.Manager

	cfg *config.Config
	bus *eventbus.Bus
	log logger.Logger
}

// New creates a Service from the configuration for the given period.
func New(cfg *config.Config, period model.Period) (*Service, error) {
	logg := logger.New("service")

	var creds roster.Credentials
	if cfg.Auth.TokenURL != "" {
		creds = auth.NewPasswordCred(cfg.Auth)
	}
	client, err := roster.New(cfg.Gateway, creds)
	if err != nil {
		return nil, fmt.Errorf("roster client: %w", err)
	}

	bus := eventbus.New()
	manager, err := schedule.New(client, cfg.Board, period, logg, bus)
	if err != nil {
		return nil, fmt.Errorf("schedule manager: %w", err)
	}

	return &Service{Manager: manager, cfg: cfg, bus: bus, log: logg}, nil
}

// Run loads the board and serves the API until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	var sinks []coremetrics.Sink
	if s.cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink()
		if err != nil {
			return fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	if s.cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(
			s.cfg.Metrics.InfluxURL,
			s.cfg.Metrics.InfluxToken,
			s.cfg.Metrics.InfluxOrg,
			s.cfg.Metrics.InfluxBucket,
		))
	}
	var sink coremetrics.Sink
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = metrics.NewMultiSink(sinks...)
	}
	if sink != nil {
		metrics.StartEventCollector(ctx, s.bus, sink)
	}

	// initial load; a failure is surfaced but the service still starts so
	// the API can retry via /api/board/refresh
	if err := s.Manager.Refresh(ctx); err != nil {
		s.log.Errorf("initial refresh: %v", err)
	}

	srv := &http.Server{
		Addr:    s.cfg.API.Addr,
		Handler: apiboard.NewRouter(s.Manager, s.log),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("board api listening on %s", s.cfg.API.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	return nil
}
