package competitionintegrationtests

import (
	"context"
	"testing"

	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitionmetrics "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/metrics"
	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-club-portal/integration_tests/testutils"
	"go.opentelemetry.io/otel/trace/noop"
)

type TestDeps struct {
	Ctx     context.Context
	Env     *testutils.TestEnvironment
	Repo    competitiondb.Repository
	Service *competitionservice.CompetitionService
	Gen     *testutils.TestDataGenerator
}

// SetupTestCompetitionService returns a service over a freshly emptied database.
func SetupTestCompetitionService(t *testing.T) TestDeps {
	t.Helper()

	env := testutils.GetOrCreateTestEnv(t)
	env.Reset(t)

	repo := competitiondb.NewRepository(env.DB)
	service := competitionservice.NewCompetitionService(
		repo,
		env.Logger,
		competitionmetrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test_competition_service"),
		env.DB,
	)

	gen := testutils.NewTestDataGenerator()
	t.Logf("test data seed: %d", gen.Seed())

	return TestDeps{
		Ctx:     env.Ctx,
		Env:     env,
		Repo:    repo,
		Service: service,
		Gen:     gen,
	}
}

// individualFixture builds a finished stroke-play competition: two members tied
// on 70, a guest on 74 and a member without strokes.
func individualFixture(gen *testutils.TestDataGenerator, opts testutils.CompetitionOptions) testutils.CompetitionFixture {
	opts.Format = "individual"
	c := gen.GenerateCompetition(opts)

	alice, bob, carol := gen.GenerateMemberProfile(), gen.GenerateMemberProfile(), gen.GenerateMemberProfile()
	alice.DisplayName, bob.DisplayName, carol.DisplayName = "Alice Archer", "Bob Baker", "Carol Carter"

	return testutils.CompetitionFixture{
		Competition: c,
		Profiles:    []competitiondb.MemberProfile{alice, bob, carol},
		Members: []competitiondb.MemberScore{
			gen.GenerateMemberScore(c.ID, alice.PlayerID, testutils.ScoreOptions{Group: 1, Total: 70, Handicap: "2.4"}),
			gen.GenerateMemberScore(c.ID, bob.PlayerID, testutils.ScoreOptions{Group: 1, Total: 70}),
			gen.GenerateMemberScore(c.ID, carol.PlayerID, testutils.ScoreOptions{Group: 2}),
		},
		Guests: []competitiondb.GuestScore{
			gen.GenerateGuestScore(c.ID, testutils.ScoreOptions{Group: 2, Total: 74}),
		},
	}
}

// matchPlayFixture builds a finished two-team match in one group where Red
// makes four on every hole and Blue five.
func matchPlayFixture(gen *testutils.TestDataGenerator) testutils.CompetitionFixture {
	c := gen.GenerateCompetition(testutils.CompetitionOptions{
		Format:      "team",
		ScoringMode: "match_play",
		Teams:       []string{"Red", "Blue"},
	})

	var (
		profiles []competitiondb.MemberProfile
		members  []competitiondb.MemberScore
	)
	for _, side := range []struct {
		team    string
		strokes int
	}{{"Red", 4}, {"Red", 4}, {"Blue", 5}, {"Blue", 5}} {
		p := gen.GenerateMemberProfile()
		s := gen.GenerateMemberScore(c.ID, p.PlayerID, testutils.ScoreOptions{Group: 1, Team: side.team, Total: side.strokes * 18})
		s.HoleScores = testutils.FlatHoleCard(side.strokes)
		profiles = append(profiles, p)
		members = append(members, s)
	}

	return testutils.CompetitionFixture{
		Competition: c,
		Profiles:    profiles,
		Members:     members,
	}
}
