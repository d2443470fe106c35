package testutils

import (
	"encoding/json"
	"time"

	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const holeCount = 18

// TestDataGenerator provides methods to create test data for integration tests
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  int64
}

// NewTestDataGenerator creates a new test data generator with optional seed
func NewTestDataGenerator(seed ...int64) *TestDataGenerator {
	var s int64
	if len(seed) > 0 {
		s = seed[0]
	} else {
		s = time.Now().UnixNano()
	}

	return &TestDataGenerator{
		faker: gofakeit.New(uint64(s)),
		seed:  s,
	}
}

// CompetitionOptions fixes the parts of a generated competition a test asserts on.
type CompetitionOptions struct {
	Format      string
	ScoringMode string
	EndTime     time.Time
	// Teams are given display names and colors.
	Teams []string
}

// GenerateCompetition creates a competition that ended at opts.EndTime.
func (g *TestDataGenerator) GenerateCompetition(opts CompetitionOptions) competitiondb.Competition {
	if opts.Format == "" {
		opts.Format = "individual"
	}
	if opts.EndTime.IsZero() {
		opts.EndTime = time.Now().Add(-time.Hour)
	}
	opts.EndTime = opts.EndTime.UTC().Truncate(time.Second)

	c := competitiondb.Competition{
		ID:        uuid.New(),
		Title:     g.faker.Company() + " Cup",
		Location:  g.faker.City(),
		StartTime: opts.EndTime.Add(-5 * time.Hour),
		EndTime:   opts.EndTime,
		Format:    opts.Format,
	}
	if opts.ScoringMode != "" {
		mode := opts.ScoringMode
		c.TeamScoringMode = &mode
	}
	if len(opts.Teams) > 0 {
		c.TeamDisplayNames = make(map[string]string, len(opts.Teams))
		c.TeamColors = make(map[string]string, len(opts.Teams))
		for _, team := range opts.Teams {
			c.TeamDisplayNames[team] = "Team " + team
			c.TeamColors[team] = g.faker.HexColor()
		}
	}
	return c
}

// GenerateMemberProfile creates a member with a random display name.
func (g *TestDataGenerator) GenerateMemberProfile() competitiondb.MemberProfile {
	return competitiondb.MemberProfile{
		PlayerID:    uuid.New(),
		DisplayName: g.faker.Name(),
	}
}

// ScoreOptions describes one generated score record. A zero Total leaves the
// record without strokes or hole card.
type ScoreOptions struct {
	Group    int
	Team     string
	Total    int
	Handicap string
}

// GenerateMemberScore creates a score of player in competition.
func (g *TestDataGenerator) GenerateMemberScore(competitionID, playerID uuid.UUID, opts ScoreOptions) competitiondb.MemberScore {
	s := competitiondb.MemberScore{
		ID:            uuid.New(),
		CompetitionID: competitionID,
		PlayerID:      playerID,
	}
	s.GroupNumber, s.TeamName, s.HoleScores, s.TotalStrokes, s.Handicap = g.scoreFields(opts)
	return s
}

// GenerateGuestScore creates a score of a guest with a random name.
func (g *TestDataGenerator) GenerateGuestScore(competitionID uuid.UUID, opts ScoreOptions) competitiondb.GuestScore {
	s := competitiondb.GuestScore{
		ID:            uuid.New(),
		CompetitionID: competitionID,
		GuestName:     g.faker.Name(),
	}
	s.GroupNumber, s.TeamName, s.HoleScores, s.TotalStrokes, s.Handicap = g.scoreFields(opts)
	return s
}

func (g *TestDataGenerator) scoreFields(opts ScoreOptions) (*int, *string, json.RawMessage, *int, decimal.NullDecimal) {
	var (
		group    *int
		team     *string
		holes    json.RawMessage
		total    *int
		handicap decimal.NullDecimal
	)
	if opts.Group > 0 {
		n := opts.Group
		group = &n
	}
	if opts.Team != "" {
		t := opts.Team
		team = &t
	}
	if opts.Total > 0 {
		n := opts.Total
		total = &n
		holes, _ = json.Marshal(g.GenerateHoleCard(opts.Total))
	}
	if opts.Handicap != "" {
		handicap = decimal.NewNullDecimal(decimal.RequireFromString(opts.Handicap))
	}
	return group, team, holes, total, handicap
}

// GenerateHoleCard spreads total over 18 holes in random order.
func (g *TestDataGenerator) GenerateHoleCard(total int) []int {
	holes := make([]int, holeCount)
	for i := range holes {
		holes[i] = total / holeCount
		if i < total%holeCount {
			holes[i]++
		}
	}
	g.faker.ShuffleAnySlice(holes)
	return holes
}

// FlatHoleCard returns a card with the same strokes on every hole.
func FlatHoleCard(strokes int) json.RawMessage {
	holes := make([]int, holeCount)
	for i := range holes {
		holes[i] = strokes
	}
	b, _ := json.Marshal(holes)
	return b
}

// Seed returns the seed the generator was created with, for reproducing failures.
func (g *TestDataGenerator) Seed() int64 {
	return g.seed
}
