package competitionservice

import (
	"context"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/results"
	"github.com/google/uuid"
)

// RecomputeStandings rebuilds the scorecard and condenses it into the payload
// published on the event bus.
func (s *CompetitionService) RecomputeStandings(ctx context.Context, competitionID uuid.UUID, final bool) (*competitionevents.StandingsPayloadV1, error) {
	result, err := withTelemetry(s, ctx, "RecomputeStandings", competitionID.String(), func(ctx context.Context) (results.OperationResult[*competitionevents.StandingsPayloadV1, error], error) {
		cardResult, err := s.getScorecardLogic(ctx, s.conn(), competitionID)
		if err != nil {
			return results.OperationResult[*competitionevents.StandingsPayloadV1, error]{}, err
		}
		if cardResult.IsFailure() {
			return results.FailureResult[*competitionevents.StandingsPayloadV1, error](*cardResult.Failure), nil
		}

		card := *cardResult.Success
		return results.SuccessResult[*competitionevents.StandingsPayloadV1, error](&competitionevents.StandingsPayloadV1{
			CompetitionSummary: competitiondomain.SummarizeScorecard(*card),
			ComputedAt:         s.clock().UTC(),
			Final:              final,
		}), nil
	})
	return unwrap(result, err)
}
