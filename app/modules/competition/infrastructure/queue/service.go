package competitionqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
)

// Metrics is the subset of the competition metrics used by the queue.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)
}

// QueueService schedules the deferred work of the competition module.
type QueueService interface {
	// ScheduleResultsFinalization schedules the final standings of a competition
	// for its end time, replacing any earlier schedule.
	ScheduleResultsFinalization(ctx context.Context, competitionID uuid.UUID, endTime time.Time) error
	// CancelCompetitionJobs cancels pending jobs of a competition.
	CancelCompetitionJobs(ctx context.Context, competitionID uuid.UUID) error
	// GetScheduledJobs lists the jobs of a competition.
	GetScheduledJobs(ctx context.Context, competitionID uuid.UUID) ([]JobInfo, error)
	// HealthCheck verifies the queue tables are reachable.
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service implements QueueService on River.
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics Metrics
	now     func() time.Time
}

// NewService creates the River client and registers the competition workers.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	maxWorkers int,
	metrics Metrics,
	recomputer StandingsRecomputer,
	publisher message.Publisher,
) (*Service, error) {
	ctxLogger := logger.With(
		slog.String("operation", "new_competition_queue_service"),
		slog.String("component", "river_queue"),
	)

	start := time.Now()
	metrics.RecordOperationAttempt(ctx, "initialize_service", "river")

	pool, err := newPool(ctx, dsn)
	if err != nil {
		ctxLogger.Error("Failed to connect River pool", observability.ErrorAttr(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewFinalizeResultsWorker(ctxLogger, recomputer, publisher))

	if maxWorkers <= 0 {
		maxWorkers = 5
	}
	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 1},
			QueueName:          {MaxWorkers: maxWorkers},
		},
		Workers: workers,
		Logger:  logger,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", observability.ErrorAttr(err))
		metrics.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	metrics.RecordOperationSuccess(ctx, "initialize_service", "river")
	metrics.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))
	ctxLogger.Info("Competition queue service initialized")

	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: metrics,
		now:     time.Now,
	}, nil
}

func newPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Migrate brings the River job tables up to date.
func Migrate(ctx context.Context, dsn string) error {
	pool, err := newPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	return nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", observability.ErrorAttr(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", time.Since(start))
	s.logger.Info("Competition queue service started")
	return nil
}

// Stop stops the River client and releases its pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", observability.ErrorAttr(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", time.Since(start))
	s.logger.Info("Competition queue service stopped")
	return nil
}

// ScheduleResultsFinalization replaces pending finalization jobs of the
// competition with one that runs at endTime. End times in the past run now.
func (s *Service) ScheduleResultsFinalization(ctx context.Context, competitionID uuid.UUID, endTime time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_results_finalization", "river")

	ctxLogger := s.logger.With(
		slog.String("competition_id", competitionID.String()),
		slog.Time("end_time", endTime),
		slog.String("operation", "schedule_results_finalization"),
	)

	if err := s.CancelCompetitionJobs(ctx, competitionID); err != nil {
		s.metrics.RecordOperationFailure(ctx, "schedule_results_finalization", "river")
		return err
	}

	opts := &river.InsertOpts{
		Queue: QueueName,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	}
	if endTime.After(s.now()) {
		opts.ScheduledAt = endTime
	}

	jobResult, err := s.client.Insert(ctx, FinalizeResultsJob{
		CompetitionID: competitionID.String(),
		EndTime:       endTime.UTC(),
	}, opts)
	if err != nil {
		ctxLogger.Error("Failed to schedule results finalization", observability.ErrorAttr(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_results_finalization", "river")
		return fmt.Errorf("failed to schedule results finalization: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_results_finalization", "river")
	s.metrics.RecordOperationDuration(ctx, "schedule_results_finalization", "river", time.Since(start))
	ctxLogger.Info("Results finalization scheduled",
		slog.Int64("job_id", jobResult.Job.ID),
		slog.Bool("duplicate", jobResult.UniqueSkippedAsDuplicate),
	)
	return nil
}

type riverJobRow struct {
	ID          int64      `bun:"id"`
	Kind        string     `bun:"kind"`
	State       string     `bun:"state"`
	ScheduledAt *time.Time `bun:"scheduled_at"`
	Attempt     int16      `bun:"attempt"`
	MaxAttempts int16      `bun:"max_attempts"`
}

// CancelCompetitionJobs cancels every pending job of a competition.
func (s *Service) CancelCompetitionJobs(ctx context.Context, competitionID uuid.UUID) error {
	ctxLogger := s.logger.With(
		slog.String("competition_id", competitionID.String()),
		slog.String("operation", "cancel_competition_jobs"),
	)

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state").
		Where("kind = ?", finalizeResultsKind).
		Where("state IN (?)", bun.In([]string{"available", "scheduled", "retryable"})).
		Where("args->>'competition_id' = ?", competitionID.String()).
		Scan(ctx, &jobs)
	if err != nil {
		ctxLogger.Error("Failed to query jobs for cancellation", observability.ErrorAttr(err))
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel job",
				slog.Int64("job_id", job.ID),
				observability.ErrorAttr(err),
			)
			continue
		}
		cancelled++
	}

	if len(jobs) > 0 {
		ctxLogger.Info("Cancelled pending competition jobs",
			slog.Int("total_found", len(jobs)),
			slog.Int("cancelled_count", cancelled),
		)
	}
	return nil
}

// GetScheduledJobs returns information about the jobs of a competition.
func (s *Service) GetScheduledJobs(ctx context.Context, competitionID uuid.UUID) ([]JobInfo, error) {
	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "attempt", "max_attempts").
		Where("kind = ?", finalizeResultsKind).
		Where("args->>'competition_id' = ?", competitionID.String()).
		Order("scheduled_at ASC NULLS LAST", "id ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.UTC().Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:            job.ID,
			Kind:          job.Kind,
			CompetitionID: competitionID.String(),
			State:         job.State,
			ScheduledAt:   scheduledAt,
			Attempt:       int(job.Attempt),
			MaxAttempts:   int(job.MaxAttempts),
		}
	}
	return result, nil
}

// HealthCheck verifies the queue service is healthy
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	if err := s.db.NewSelect().Table("river_job").ColumnExpr("COUNT(*)").Scan(ctx, &count); err != nil {
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
