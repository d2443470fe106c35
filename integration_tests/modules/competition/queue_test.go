package competitionintegrationtests

import (
	"context"
	"testing"
	"time"

	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	competitionmetrics "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/metrics"
	competitionqueue "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/queue"
	"github.com/Black-And-White-Club/golf-club-portal/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueueService(t *testing.T, deps TestDeps) *competitionqueue.Service {
	t.Helper()
	qs, err := competitionqueue.NewService(
		deps.Ctx,
		deps.Env.DB,
		deps.Env.Logger,
		deps.Env.Config.Postgres.DSN,
		2,
		competitionmetrics.NewNoop(),
		deps.Service,
		deps.Env.EventBus,
	)
	require.NoError(t, err)
	return qs
}

func TestQueueService_RescheduleCancelsPendingJob(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := individualFixture(deps.Gen, testutils.CompetitionOptions{})
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	qs := newQueueService(t, deps)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = qs.Stop(ctx)
	})

	id := fixture.Competition.ID
	require.NoError(t, qs.HealthCheck(deps.Ctx))
	require.NoError(t, qs.ScheduleResultsFinalization(deps.Ctx, id, time.Now().Add(time.Hour)))
	require.NoError(t, qs.ScheduleResultsFinalization(deps.Ctx, id, time.Now().Add(2*time.Hour)))

	jobs, err := qs.GetScheduledJobs(deps.Ctx, id)
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	states := []string{jobs[0].State, jobs[1].State}
	assert.ElementsMatch(t, []string{"cancelled", "scheduled"}, states)
	for _, job := range jobs {
		assert.Equal(t, id.String(), job.CompetitionID)
		assert.NotEmpty(t, job.ScheduledAt)
	}
}

func TestQueueService_PublishesFinalResults(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := matchPlayFixture(deps.Gen)
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	ctx, cancel := context.WithCancel(deps.Ctx)
	t.Cleanup(cancel)

	capture, err := testutils.NewMessageCapture(ctx, deps.Env.EventBus, competitionevents.ResultsFinalizedV1)
	require.NoError(t, err)

	qs := newQueueService(t, deps)
	require.NoError(t, qs.ScheduleResultsFinalization(ctx, fixture.Competition.ID, fixture.Competition.EndTime))
	require.NoError(t, qs.Start(ctx))
	t.Cleanup(func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer stopCancel()
		_ = qs.Stop(stopCtx)
	})

	require.True(t, capture.WaitForMessages(competitionevents.ResultsFinalizedV1, 1, 20*time.Second), "final results were not published")

	payload, err := testutils.ParsePayload[competitionevents.StandingsPayloadV1](capture.GetMessages(competitionevents.ResultsFinalizedV1)[0])
	require.NoError(t, err)
	assert.Equal(t, fixture.Competition.ID.String(), payload.CompetitionID)
	assert.Equal(t, []string{"Red"}, payload.Winners)
	assert.True(t, payload.Final)
}
