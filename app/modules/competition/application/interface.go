package competitionservice

import (
	"context"
	"time"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	"github.com/google/uuid"
)

// Service defines the read operations of the competition module.
type Service interface {
	// GetScorecard computes the full result view of one competition.
	GetScorecard(ctx context.Context, competitionID uuid.UUID) (*competitiondomain.Scorecard, error)

	// GetDashboardResults summarizes the most recently finished competitions as of now.
	GetDashboardResults(ctx context.Context, now time.Time, limit int) ([]competitiondomain.CompetitionSummary, error)

	// RenderStandingsChart draws the competition standings as a PNG.
	RenderStandingsChart(ctx context.Context, competitionID uuid.UUID) ([]byte, error)

	// ExportScorecard builds an XLSX workbook of the scorecard.
	ExportScorecard(ctx context.Context, competitionID uuid.UUID) ([]byte, error)

	// RecomputeStandings recomputes the standings payload after a score change.
	// final marks results computed after the competition ended.
	RecomputeStandings(ctx context.Context, competitionID uuid.UUID, final bool) (*competitionevents.StandingsPayloadV1, error)
}

var _ Service = (*CompetitionService)(nil)
