package competitionhandlers

import (
	"context"
	"time"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	"github.com/google/uuid"
)

// ------------------------
// Fake Competition Service
// ------------------------

type FakeCompetitionService struct {
	trace []string

	GetScorecardFunc         func(ctx context.Context, competitionID uuid.UUID) (*competitiondomain.Scorecard, error)
	GetDashboardResultsFunc  func(ctx context.Context, now time.Time, limit int) ([]competitiondomain.CompetitionSummary, error)
	RenderStandingsChartFunc func(ctx context.Context, competitionID uuid.UUID) ([]byte, error)
	ExportScorecardFunc      func(ctx context.Context, competitionID uuid.UUID) ([]byte, error)
	RecomputeStandingsFunc   func(ctx context.Context, competitionID uuid.UUID, final bool) (*competitionevents.StandingsPayloadV1, error)
}

func NewFakeCompetitionService() *FakeCompetitionService {
	return &FakeCompetitionService{
		trace: []string{},
	}
}

func (f *FakeCompetitionService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeCompetitionService) GetScorecard(ctx context.Context, competitionID uuid.UUID) (*competitiondomain.Scorecard, error) {
	f.record("GetScorecard")
	if f.GetScorecardFunc != nil {
		return f.GetScorecardFunc(ctx, competitionID)
	}
	return nil, competitionservice.ErrCompetitionNotFound
}

func (f *FakeCompetitionService) GetDashboardResults(ctx context.Context, now time.Time, limit int) ([]competitiondomain.CompetitionSummary, error) {
	f.record("GetDashboardResults")
	if f.GetDashboardResultsFunc != nil {
		return f.GetDashboardResultsFunc(ctx, now, limit)
	}
	return []competitiondomain.CompetitionSummary{}, nil
}

func (f *FakeCompetitionService) RenderStandingsChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	f.record("RenderStandingsChart")
	if f.RenderStandingsChartFunc != nil {
		return f.RenderStandingsChartFunc(ctx, competitionID)
	}
	return nil, competitionservice.ErrCompetitionNotFound
}

func (f *FakeCompetitionService) ExportScorecard(ctx context.Context, competitionID uuid.UUID) ([]byte, error) {
	f.record("ExportScorecard")
	if f.ExportScorecardFunc != nil {
		return f.ExportScorecardFunc(ctx, competitionID)
	}
	return nil, competitionservice.ErrCompetitionNotFound
}

func (f *FakeCompetitionService) RecomputeStandings(ctx context.Context, competitionID uuid.UUID, final bool) (*competitionevents.StandingsPayloadV1, error) {
	f.record("RecomputeStandings")
	if f.RecomputeStandingsFunc != nil {
		return f.RecomputeStandingsFunc(ctx, competitionID, final)
	}
	return nil, competitionservice.ErrCompetitionNotFound
}

// --- Accessors for assertions ---

func (f *FakeCompetitionService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

var _ competitionservice.Service = (*FakeCompetitionService)(nil)

// ------------------------
// Fake Scheduler
// ------------------------

type scheduledCall struct {
	CompetitionID uuid.UUID
	EndTime       time.Time
}

type FakeScheduler struct {
	calls []scheduledCall
	err   error
}

func (f *FakeScheduler) ScheduleResultsFinalization(ctx context.Context, competitionID uuid.UUID, endTime time.Time) error {
	f.calls = append(f.calls, scheduledCall{CompetitionID: competitionID, EndTime: endTime})
	return f.err
}

var _ Scheduler = (*FakeScheduler)(nil)
