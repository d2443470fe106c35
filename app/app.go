// Package app wires configuration, infrastructure and modules into the
// running portal.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-club-portal/app/eventbus"
	"github.com/Black-And-White-Club/golf-club-portal/app/modules/competition"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/Black-And-White-Club/golf-club-portal/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 20 * time.Second

// App holds the portal's shared infrastructure and modules.
type App struct {
	Config            *config.Config
	Observability     *observability.Observability
	DB                *bun.DB
	EventBus          *eventbus.EventBus
	Router            *message.Router
	HTTPRouter        chi.Router
	CompetitionModule *competition.Module

	logger *slog.Logger
}

// OpenDB opens the Postgres connection pool and checks it is reachable.
func OpenDB(ctx context.Context, dsn string) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// New initializes the infrastructure and the modules.
func New(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	logger := obs.Logger

	db, err := OpenDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	bus, err := eventbus.New(eventbus.Config{NATSURL: cfg.NATS.URL, NKeySeedFile: cfg.NATS.NKeySeedFile}, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	router, err := eventbus.NewRouter(logger)
	if err != nil {
		bus.Close()
		db.Close()
		return nil, err
	}

	httpRouter := chi.NewRouter()
	httpRouter.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	httpRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	competitionModule, err := competition.NewCompetitionModule(ctx, cfg, obs, bus, router, httpRouter, db)
	if err != nil {
		router.Close()
		bus.Close()
		db.Close()
		return nil, fmt.Errorf("failed to initialize competition module: %w", err)
	}

	logger.InfoContext(ctx, "Application initialized",
		slog.String("event_bus", bus.Backend()),
		slog.Bool("queue_enabled", cfg.Queue.Enabled),
	)

	return &App{
		Config:            cfg,
		Observability:     obs,
		DB:                db,
		EventBus:          bus,
		Router:            router,
		HTTPRouter:        httpRouter,
		CompetitionModule: competitionModule,
		logger:            logger,
	}, nil
}

// Run serves HTTP and events until ctx is cancelled or a server fails.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	apiServer := &http.Server{
		Addr:              a.Config.HTTP.Address,
		Handler:           otelhttp.NewHandler(a.HTTPRouter, "portal"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	servers := []*http.Server{apiServer}

	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(a.Observability.Registry, promhttp.HandlerOpts{}))
		servers = append(servers, &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	for _, srv := range servers {
		g.Go(func() error {
			a.logger.InfoContext(ctx, "HTTP server listening", slog.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := a.Router.Run(ctx); err != nil {
			return fmt.Errorf("event router: %w", err)
		}
		return nil
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go a.CompetitionModule.Run(ctx, &wg)

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				a.logger.Error("HTTP server shutdown failed", observability.ErrorAttr(err))
			}
		}
		wg.Wait()
		return nil
	})

	return g.Wait()
}

// Close releases every resource held by the application.
func (a *App) Close() error {
	var errs []error
	if a.CompetitionModule != nil {
		errs = append(errs, a.CompetitionModule.Close())
	}
	if a.EventBus != nil {
		errs = append(errs, a.EventBus.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
