package competitionservice

import (
	"context"
	"errors"
	"fmt"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/results"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// GetScorecard computes the full result view of one competition.
func (s *CompetitionService) GetScorecard(ctx context.Context, competitionID uuid.UUID) (*competitiondomain.Scorecard, error) {
	result, err := withTelemetry(s, ctx, "GetScorecard", competitionID.String(), func(ctx context.Context) (results.OperationResult[*competitiondomain.Scorecard, error], error) {
		return s.getScorecardLogic(ctx, s.conn(), competitionID)
	})
	return unwrap(result, err)
}

func (s *CompetitionService) getScorecardLogic(ctx context.Context, db bun.IDB, competitionID uuid.UUID) (results.OperationResult[*competitiondomain.Scorecard, error], error) {
	var (
		competition *competitiondb.Competition
		members     []competitiondb.MemberScore
		guests      []competitiondb.GuestScore
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		competition, err = s.repo.GetCompetition(gctx, db, competitionID)
		return err
	})
	g.Go(func() error {
		var err error
		members, err = s.repo.GetMemberScores(gctx, db, competitionID)
		return err
	})
	g.Go(func() error {
		var err error
		guests, err = s.repo.GetGuestScores(gctx, db, competitionID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, competitiondb.ErrNotFound) {
			return results.FailureResult[*competitiondomain.Scorecard, error](ErrCompetitionNotFound), nil
		}
		return results.OperationResult[*competitiondomain.Scorecard, error]{}, fmt.Errorf("failed to load competition: %w", err)
	}

	entries, issues, err := s.normalize(ctx, db, members, guests)
	if err != nil {
		return results.OperationResult[*competitiondomain.Scorecard, error]{}, err
	}

	c := toDomainCompetition(*competition)
	card, err := competitiondomain.BuildScorecard(c, entries)
	if errors.Is(err, competitiondomain.ErrNoEntries) {
		return results.FailureResult[*competitiondomain.Scorecard, error](fmt.Errorf("%w: %w", ErrNoScores, err)), nil
	}
	if err != nil {
		return results.OperationResult[*competitiondomain.Scorecard, error]{}, fmt.Errorf("failed to build scorecard: %w", err)
	}

	card.Issues = append(issues, card.Issues...)
	s.recordIssues(ctx, card.Issues)
	s.metrics.RecordScorecardBuilt(ctx, string(c.Format))

	return results.SuccessResult[*competitiondomain.Scorecard, error](&card), nil
}

// loadEntries reads and normalizes the score records of one competition.
func (s *CompetitionService) loadEntries(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondomain.ScoreEntry, []competitiondomain.Issue, error) {
	var (
		members []competitiondb.MemberScore
		guests  []competitiondb.GuestScore
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = s.repo.GetMemberScores(gctx, db, competitionID)
		return err
	})
	g.Go(func() error {
		var err error
		guests, err = s.repo.GetGuestScores(gctx, db, competitionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to load scores of %s: %w", competitionID, err)
	}

	return s.normalize(ctx, db, members, guests)
}

// normalize resolves member display names and merges both record kinds.
func (s *CompetitionService) normalize(
	ctx context.Context,
	db bun.IDB,
	members []competitiondb.MemberScore,
	guests []competitiondb.GuestScore,
) ([]competitiondomain.ScoreEntry, []competitiondomain.Issue, error) {
	profiles, err := s.repo.GetMemberProfiles(ctx, db, playerIDs(members))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load member profiles: %w", err)
	}

	entries, issues := competitiondomain.Normalize(toMemberRecords(members), toGuestRecords(guests), profileNames(profiles))
	return entries, issues, nil
}

func (s *CompetitionService) recordIssues(ctx context.Context, issues []competitiondomain.Issue) {
	for _, issue := range issues {
		s.metrics.RecordIssue(ctx, string(issue.Kind))
	}
}
