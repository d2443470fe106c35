package competitionservice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/results"
	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds the per-competition score reads of the dashboard.
const maxConcurrentLoads = 4

// GetDashboardResults summarizes the most recently finished competitions.
// A non-positive limit uses the domain default.
func (s *CompetitionService) GetDashboardResults(ctx context.Context, now time.Time, limit int) ([]competitiondomain.CompetitionSummary, error) {
	if limit <= 0 {
		limit = competitiondomain.DefaultSummaryLimit
	}
	result, err := withTelemetry(s, ctx, "GetDashboardResults", strconv.Itoa(limit), func(ctx context.Context) (results.OperationResult[[]competitiondomain.CompetitionSummary, error], error) {
		return s.getDashboardResultsLogic(ctx, s.conn(), now, limit)
	})
	return unwrap(result, err)
}

func (s *CompetitionService) getDashboardResultsLogic(ctx context.Context, db bun.IDB, now time.Time, limit int) (results.OperationResult[[]competitiondomain.CompetitionSummary, error], error) {
	rows, err := s.repo.ListFinishedCompetitions(ctx, db, now, limit)
	if err != nil {
		return results.OperationResult[[]competitiondomain.CompetitionSummary, error]{}, fmt.Errorf("failed to list finished competitions: %w", err)
	}
	if len(rows) == 0 {
		return results.SuccessResult[[]competitiondomain.CompetitionSummary, error]([]competitiondomain.CompetitionSummary{}), nil
	}

	competitions := make([]competitiondomain.Competition, len(rows))
	entries := make([][]competitiondomain.ScoreEntry, len(rows))
	issues := make([][]competitiondomain.Issue, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, row := range rows {
		competitions[i] = toDomainCompetition(row)
		g.Go(func() error {
			e, iss, err := s.loadEntries(gctx, db, row.ID)
			if err != nil {
				return err
			}
			entries[i], issues[i] = e, iss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results.OperationResult[[]competitiondomain.CompetitionSummary, error]{}, err
	}

	byCompetition := make(map[string][]competitiondomain.ScoreEntry, len(rows))
	normalizationIssues := make(map[string][]competitiondomain.Issue, len(rows))
	for i, c := range competitions {
		byCompetition[c.ID] = entries[i]
		normalizationIssues[c.ID] = issues[i]
	}

	summaries, skipped, err := competitiondomain.Summarize(now, competitions, byCompetition, limit)
	if err != nil {
		return results.OperationResult[[]competitiondomain.CompetitionSummary, error]{}, fmt.Errorf("failed to summarize competitions: %w", err)
	}
	for _, issue := range skipped {
		s.logger.WarnContext(ctx, "Competition left off the dashboard",
			slog.String("competition_id", issue.CompetitionID),
			slog.String("reason", issue.Detail),
		)
	}
	s.recordIssues(ctx, skipped)

	for i := range summaries {
		if extra := normalizationIssues[summaries[i].CompetitionID]; len(extra) > 0 {
			summaries[i].Issues = append(extra, summaries[i].Issues...)
			summaries[i].Incomplete = true
		}
		s.recordIssues(ctx, summaries[i].Issues)
	}
	if summaries == nil {
		summaries = []competitiondomain.CompetitionSummary{}
	}

	return results.SuccessResult[[]competitiondomain.CompetitionSummary, error](summaries), nil
}
