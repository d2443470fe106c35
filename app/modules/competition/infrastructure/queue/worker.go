package competitionqueue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/riverqueue/river"
)

// StandingsRecomputer is the part of the competition service the worker needs.
type StandingsRecomputer interface {
	RecomputeStandings(ctx context.Context, competitionID uuid.UUID, final bool) (*competitionevents.StandingsPayloadV1, error)
}

// FinalizeResultsWorker publishes the final standings of an ended competition.
type FinalizeResultsWorker struct {
	river.WorkerDefaults[FinalizeResultsJob]

	service   StandingsRecomputer
	publisher message.Publisher
	logger    *slog.Logger
}

// NewFinalizeResultsWorker creates the worker for FinalizeResultsJob.
func NewFinalizeResultsWorker(logger *slog.Logger, service StandingsRecomputer, publisher message.Publisher) *FinalizeResultsWorker {
	return &FinalizeResultsWorker{
		service:   service,
		publisher: publisher,
		logger:    logger,
	}
}

// Timeout bounds a single attempt.
func (w *FinalizeResultsWorker) Timeout(*river.Job[FinalizeResultsJob]) time.Duration {
	return 30 * time.Second
}

// Work recomputes the standings and publishes them as final. Unknown
// competitions cancel the job; competitions without scores finish it quietly.
func (w *FinalizeResultsWorker) Work(ctx context.Context, job *river.Job[FinalizeResultsJob]) error {
	ctx = observability.WithCorrelationID(ctx, fmt.Sprintf("river-%d", job.ID))
	logger := w.logger.With(
		slog.Int64("job_id", job.ID),
		slog.Int("attempt", job.Attempt),
		slog.String("competition_id", job.Args.CompetitionID),
	)

	competitionID, err := uuid.Parse(job.Args.CompetitionID)
	if err != nil {
		logger.ErrorContext(ctx, "Invalid competition id in job", observability.ErrorAttr(err))
		return river.JobCancel(fmt.Errorf("invalid competition id: %w", err))
	}

	payload, err := w.service.RecomputeStandings(ctx, competitionID, true)
	switch {
	case errors.Is(err, competitionservice.ErrCompetitionNotFound):
		logger.WarnContext(ctx, "Competition vanished before results were finalized")
		return river.JobCancel(err)
	case errors.Is(err, competitionservice.ErrNoScores):
		logger.InfoContext(ctx, "Competition ended without scores, nothing to finalize")
		return nil
	case err != nil:
		return fmt.Errorf("failed to recompute standings: %w", err)
	}

	msg, err := handlerwrapper.NewMessage(ctx, payload)
	if err != nil {
		return river.JobCancel(err)
	}
	if err := w.publisher.Publish(competitionevents.ResultsFinalizedV1, msg); err != nil {
		return fmt.Errorf("failed to publish final results: %w", err)
	}

	logger.InfoContext(ctx, "Final results published",
		slog.Any("winners", payload.Winners),
		slog.Bool("incomplete", payload.Incomplete),
	)
	return nil
}
