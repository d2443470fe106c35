package competitionhandlers

import (
	"context"
	"net/http"
	"time"

	competitionevents "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/events"
	"github.com/Black-And-White-Club/golf-club-portal/app/shared/handlerwrapper"
	"github.com/google/uuid"
)

// Handlers defines the event and HTTP handlers of the competition module.
type Handlers interface {
	// HandleScoresUpdated recomputes the standings of a competition whose scores changed.
	HandleScoresUpdated(ctx context.Context, payload *competitionevents.ScoresUpdatedPayloadV1) ([]handlerwrapper.Result, error)

	// HandleCompetitionScheduled schedules the results finalization of a competition.
	HandleCompetitionScheduled(ctx context.Context, payload *competitionevents.CompetitionScheduledPayloadV1) ([]handlerwrapper.Result, error)

	HandleHTTPScorecard(w http.ResponseWriter, r *http.Request)
	HandleHTTPStandingsChart(w http.ResponseWriter, r *http.Request)
	HandleHTTPScorecardExport(w http.ResponseWriter, r *http.Request)
	HandleHTTPDashboard(w http.ResponseWriter, r *http.Request)
}

// Scheduler defers the finalization of results to a competition's end time.
type Scheduler interface {
	ScheduleResultsFinalization(ctx context.Context, competitionID uuid.UUID, endTime time.Time) error
}
