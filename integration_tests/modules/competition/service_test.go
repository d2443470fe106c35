package competitionintegrationtests

import (
	"bytes"
	"testing"
	"time"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/Black-And-White-Club/golf-club-portal/integration_tests/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompetitionService_GetScorecard_Individual(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := individualFixture(deps.Gen, testutils.CompetitionOptions{})
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	card, err := deps.Service.GetScorecard(deps.Ctx, fixture.Competition.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice Archer", "Bob Baker"}, card.Winners)
	require.Len(t, card.Ranking.Ranked, 3)
	ranks := []int{card.Ranking.Ranked[0].Rank, card.Ranking.Ranked[1].Rank, card.Ranking.Ranked[2].Rank}
	assert.Equal(t, []int{1, 1, 2}, ranks)
	assert.True(t, card.Ranking.Ranked[2].Entry.IsGuest())

	require.Len(t, card.Ranking.Unscored, 1)
	assert.Equal(t, "Carol Carter", card.Ranking.Unscored[0].DisplayName)
	assert.True(t, card.Incomplete())
	assert.Equal(t, competitiondomain.IssueUnscorableEntry, card.Issues[0].Kind)
}

func TestCompetitionService_GetScorecard_MatchPlay(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := matchPlayFixture(deps.Gen)
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	card, err := deps.Service.GetScorecard(deps.Ctx, fixture.Competition.ID)
	require.NoError(t, err)

	require.NotNil(t, card.Match)
	assert.Equal(t, []string{"Red"}, card.Winners)
	require.Len(t, card.Standings, 2)
	assert.Equal(t, "Red", card.Standings[0].TeamName)
	assert.Equal(t, "Team Red", card.Standings[0].DisplayName)
	assert.Equal(t, 1, card.Standings[0].Rank)
	assert.Equal(t, 2, card.Standings[1].Rank)
	assert.False(t, card.Incomplete())
}

func TestCompetitionService_GetScorecard_Errors(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	empty := deps.Gen.GenerateCompetition(testutils.CompetitionOptions{})
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, testutils.CompetitionFixture{Competition: empty})

	tests := []struct {
		name    string
		id      uuid.UUID
		wantErr error
	}{
		{name: "unknown competition", id: uuid.New(), wantErr: competitionservice.ErrCompetitionNotFound},
		{name: "competition without scores", id: empty.ID, wantErr: competitionservice.ErrNoScores},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deps.Service.GetScorecard(deps.Ctx, tt.id)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompetitionService_RecomputeStandings(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := matchPlayFixture(deps.Gen)
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	payload, err := deps.Service.RecomputeStandings(deps.Ctx, fixture.Competition.ID, true)
	require.NoError(t, err)

	assert.Equal(t, fixture.Competition.ID.String(), payload.CompetitionID)
	assert.Equal(t, competitiondomain.ScoringMatchPlay, payload.ScoringMode)
	assert.Equal(t, []string{"Red"}, payload.Winners)
	assert.True(t, payload.Final)
	assert.False(t, payload.ComputedAt.IsZero())
}

func TestCompetitionService_GetDashboardResults(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	now := time.Now().UTC()

	recent := individualFixture(deps.Gen, testutils.CompetitionOptions{EndTime: now.Add(-time.Hour)})
	match := matchPlayFixture(deps.Gen)
	match.Competition.EndTime = now.Add(-72 * time.Hour).Truncate(time.Second)
	match.Competition.StartTime = match.Competition.EndTime.Add(-5 * time.Hour)
	noScores := deps.Gen.GenerateCompetition(testutils.CompetitionOptions{EndTime: now.Add(-2 * time.Hour)})
	upcoming := individualFixture(deps.Gen, testutils.CompetitionOptions{EndTime: now.Add(24 * time.Hour)})

	for _, f := range []testutils.CompetitionFixture{recent, match, {Competition: noScores}, upcoming} {
		testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, f)
	}

	summaries, err := deps.Service.GetDashboardResults(deps.Ctx, now, 5)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, recent.Competition.ID.String(), summaries[0].CompetitionID)
	require.Len(t, summaries[0].Podium, 3)
	assert.Equal(t, 1, summaries[0].Podium[0].Rank)
	assert.True(t, summaries[0].Incomplete)

	assert.Equal(t, match.Competition.ID.String(), summaries[1].CompetitionID)
	assert.Equal(t, []string{"Red"}, summaries[1].Winners)
	assert.Len(t, summaries[1].Standings, 2)
}

func TestCompetitionService_Renderers(t *testing.T) {
	deps := SetupTestCompetitionService(t)
	fixture := matchPlayFixture(deps.Gen)
	testutils.InsertCompetitionFixture(t, deps.Ctx, deps.Env.DB, fixture)

	png, err := deps.Service.RenderStandingsChart(deps.Ctx, fixture.Competition.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	xlsx, err := deps.Service.ExportScorecard(deps.Ctx, fixture.Competition.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(xlsx, []byte("PK")))
}
