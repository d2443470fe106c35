package competitionrouter

import (
	"context"
	"log/slog"
	"time"

	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	competitionhandlers "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/handlers"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// handlerTimeout bounds one delivery attempt of a competition handler.
const handlerTimeout = 30 * time.Second

// CompetitionRouter handles Watermill handler registration for competition events.
type CompetitionRouter struct {
	logger     *slog.Logger
	Router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	tracer     trace.Tracer

	metricsBuilder *metrics.PrometheusMetricsBuilder
}

// NewCompetitionRouter creates a new CompetitionRouter. A nil registry skips
// the router metrics.
func NewCompetitionRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber message.Subscriber,
	publisher message.Publisher,
	tracer trace.Tracer,
	registry *prometheus.Registry,
) *CompetitionRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if registry != nil {
		b := metrics.NewPrometheusMetricsBuilder(registry, "golf_club_portal", "competition")
		metricsBuilder = &b
	}

	return &CompetitionRouter{
		logger:         logger,
		Router:         router,
		subscriber:     subscriber,
		publisher:      publisher,
		tracer:         tracer,
		metricsBuilder: metricsBuilder,
	}
}

// Configure adds the router middleware and registers the handlers.
func (r *CompetitionRouter) Configure(_ context.Context, handlers competitionhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			MaxInterval:     2 * time.Second,
			Multiplier:      2,
			Logger:          watermill.NewSlogLogger(r.logger),
		}.Middleware,
		middleware.Timeout(handlerTimeout),
	)

	r.registerHandlers(handlers)
	return nil
}

// handlerDeps bundles dependencies for handler registration.
type handlerDeps struct {
	router     *message.Router
	subscriber message.Subscriber
	publisher  message.Publisher
	logger     *slog.Logger
	tracer     trace.Tracer
}

func (r *CompetitionRouter) registerHandlers(handlers competitionhandlers.Handlers) {
	deps := handlerDeps{
		router:     r.Router,
		subscriber: r.subscriber,
		publisher:  r.publisher,
		logger:     r.logger,
		tracer:     r.tracer,
	}

	r.logger.Info("Registering competition module handlers",
		slog.String("scores_updated_subject", competitionevents.ScoresUpdatedV1),
		slog.String("competition_scheduled_subject", competitionevents.CompetitionScheduledV1),
	)

	registerHandler(deps, competitionevents.ScoresUpdatedV1, handlers.HandleScoresUpdated)
	registerHandler(deps, competitionevents.CompetitionScheduledV1, handlers.HandleCompetitionScheduled)

	r.logger.Info("Competition module handlers registered successfully")
}

// registerHandler is a generic function for type-safe Watermill handler registration.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "competition." + topic

	deps.router.AddConsumerHandler(
		handlerName,
		topic,
		deps.subscriber,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.publisher,
			handler,
		),
	)
}

// Close shuts down the router.
func (r *CompetitionRouter) Close() error {
	return r.Router.Close()
}
