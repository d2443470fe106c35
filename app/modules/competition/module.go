package competition

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/golf-club-portal/app/eventbus"
	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitionhandlers "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/handlers"
	competitionmetrics "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/metrics"
	competitionqueue "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/queue"
	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	competitionrouter "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/router"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/Black-And-White-Club/golf-club-portal/config"
	portaljwt "github.com/Black-And-White-Club/golf-club-portal/pkg/jwt"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
	"golang.org/x/time/rate"
)

const queueStopTimeout = 15 * time.Second

// Module represents the competition module.
type Module struct {
	CompetitionService competitionservice.Service
	CompetitionRouter  *competitionrouter.CompetitionRouter
	QueueService       competitionqueue.QueueService

	cancelFunc context.CancelFunc
	logger     *slog.Logger
}

// NewCompetitionModule creates and initializes the competition module. A nil
// httpRouter skips the HTTP routes.
func NewCompetitionModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus *eventbus.EventBus,
	router *message.Router,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Logger.With(slog.String("module", "competition"))
	tracer := obs.Tracer

	logger.InfoContext(ctx, "competition.NewCompetitionModule initializing")

	// 1. Repository and metrics
	repo := competitiondb.NewRepository(db)
	metrics := competitionmetrics.NewPrometheus(obs.Registry, "golf_club_portal")

	// 2. Service
	service := competitionservice.NewCompetitionService(repo, logger, metrics, tracer, db)

	// 3. Job queue
	var (
		queueService competitionqueue.QueueService
		scheduler    competitionhandlers.Scheduler
	)
	if cfg.Queue.Enabled {
		qs, err := competitionqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, cfg.Queue.MaxWorkers, metrics, service, eventBus)
		if err != nil {
			return nil, fmt.Errorf("failed to create competition queue: %w", err)
		}
		queueService = qs
		scheduler = qs
	}

	// 4. Handlers
	handlers := competitionhandlers.NewCompetitionHandlers(service, scheduler, logger, tracer, competitionhandlers.Options{
		DefaultLimit: cfg.Dashboard.ResultLimit,
		Location:     cfg.Location(),
	})

	// 5. Event router
	competitionRouter := competitionrouter.NewCompetitionRouter(logger, router, eventBus, eventBus, tracer, obs.Registry)
	if err := competitionRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure competition router: %w", err)
	}

	// 6. HTTP routes
	if httpRouter != nil {
		opts := competitionhandlers.RouteOptions{
			Limiter:        competitionhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit), cfg.HTTP.RateBurst),
			AllowedOrigins: cfg.HTTP.AllowedOrigins,
		}
		if cfg.HTTP.JWTSecret != "" {
			opts.Tokens = portaljwt.NewService(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL)
		} else {
			logger.WarnContext(ctx, "No JWT secret configured, scorecard export is public")
		}
		competitionhandlers.Routes(httpRouter, handlers, opts)
	}

	return &Module{
		CompetitionService: service,
		CompetitionRouter:  competitionRouter,
		QueueService:       queueService,
		logger:             logger,
	}, nil
}

// Run starts the job queue and blocks until ctx is done.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting competition module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Start(ctx); err != nil {
			m.logger.ErrorContext(ctx, "Failed to start competition queue", observability.ErrorAttr(err))
		}
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Competition module goroutine stopped")
}

// Close shuts down the competition module.
func (m *Module) Close() error {
	m.logger.Info("Stopping competition module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		ctx, cancel := context.WithTimeout(context.Background(), queueStopTimeout)
		defer cancel()
		if err := m.QueueService.Stop(ctx); err != nil {
			m.logger.Error("Error stopping competition queue", observability.ErrorAttr(err))
		}
	}

	if m.CompetitionRouter != nil {
		if err := m.CompetitionRouter.Close(); err != nil {
			m.logger.Error("Error closing CompetitionRouter from module", observability.ErrorAttr(err))
			return fmt.Errorf("error closing CompetitionRouter: %w", err)
		}
	}

	m.logger.Info("Competition module stopped")
	return nil
}
