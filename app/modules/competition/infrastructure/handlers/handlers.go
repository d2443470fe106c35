package competitionhandlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	competitiontime "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/time_utils"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/handlerwrapper"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Options configures the HTTP side of the handlers.
type Options struct {
	// DefaultLimit is the dashboard size when the request names none.
	DefaultLimit int
	// Location resolves bare dates in the dashboard "as_of" parameter.
	Location *time.Location
	Now      func() time.Time
}

// CompetitionHandlers implements the Handlers interface.
type CompetitionHandlers struct {
	service   competitionservice.Service
	scheduler Scheduler
	logger    *slog.Logger
	tracer    trace.Tracer

	defaultLimit int
	asOf         *competitiontime.ReferenceTimeParser
	now          func() time.Time
}

// NewCompetitionHandlers creates a new CompetitionHandlers instance. A nil
// scheduler disables results finalization.
func NewCompetitionHandlers(
	service competitionservice.Service,
	scheduler Scheduler,
	logger *slog.Logger,
	tracer trace.Tracer,
	opts Options,
) *CompetitionHandlers {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = competitiondomain.DefaultSummaryLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &CompetitionHandlers{
		service:      service,
		scheduler:    scheduler,
		logger:       logger,
		tracer:       tracer,
		defaultLimit: opts.DefaultLimit,
		asOf:         competitiontime.NewReferenceTimeParser(opts.Location),
		now:          opts.Now,
	}
}

var _ Handlers = (*CompetitionHandlers)(nil)

// HandleScoresUpdated recomputes the standings and publishes them. Unknown
// competitions and competitions without scores produce nothing.
func (h *CompetitionHandlers) HandleScoresUpdated(ctx context.Context, payload *competitionevents.ScoresUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "CompetitionHandlers.HandleScoresUpdated")
	defer span.End()

	if payload.CompetitionID == uuid.Nil {
		h.logger.WarnContext(ctx, "Scores update without competition id")
		return nil, nil
	}
	span.SetAttributes(attribute.String("competition.id", payload.CompetitionID.String()))

	standings, err := h.service.RecomputeStandings(ctx, payload.CompetitionID, false)
	switch {
	case errors.Is(err, competitionservice.ErrCompetitionNotFound), errors.Is(err, competitionservice.ErrNoScores):
		h.logger.WarnContext(ctx, "Skipping standings recompute",
			slog.String("competition_id", payload.CompetitionID.String()),
			observability.ErrorAttr(err),
		)
		return nil, nil
	case err != nil:
		return nil, err
	}

	h.logger.InfoContext(ctx, "Standings recomputed",
		slog.String("competition_id", payload.CompetitionID.String()),
		slog.Any("winners", standings.Winners),
		slog.Bool("incomplete", standings.Incomplete),
	)

	return []handlerwrapper.Result{{
		Topic:   competitionevents.StandingsComputedV1,
		Payload: standings,
	}}, nil
}

// HandleCompetitionScheduled schedules the results finalization for the
// competition's end time.
func (h *CompetitionHandlers) HandleCompetitionScheduled(ctx context.Context, payload *competitionevents.CompetitionScheduledPayloadV1) ([]handlerwrapper.Result, error) {
	ctx, span := h.tracer.Start(ctx, "CompetitionHandlers.HandleCompetitionScheduled")
	defer span.End()

	if payload.CompetitionID == uuid.Nil || payload.EndTime.IsZero() {
		h.logger.WarnContext(ctx, "Ignoring incomplete schedule event",
			slog.String("competition_id", payload.CompetitionID.String()),
		)
		return nil, nil
	}

	if h.scheduler == nil {
		h.logger.DebugContext(ctx, "Job queue disabled, results will not be finalized",
			slog.String("competition_id", payload.CompetitionID.String()),
		)
		return nil, nil
	}

	if err := h.scheduler.ScheduleResultsFinalization(ctx, payload.CompetitionID, payload.EndTime); err != nil {
		return nil, err
	}
	return nil, nil
}
