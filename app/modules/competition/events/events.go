// Package competitionevents defines the topics and payloads exchanged by the
// competition module over the event bus.
package competitionevents

import (
	"time"

	competitiondomain "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/domain"
	"github.com/google/uuid"
)

const (
	// ScoresUpdatedV1 is published upstream whenever a score record is written.
	ScoresUpdatedV1 = "competition.scores.updated.v1"

	// CompetitionScheduledV1 is published upstream when a competition is created
	// or its schedule changes.
	CompetitionScheduledV1 = "competition.scheduled.v1"

	// StandingsComputedV1 carries freshly computed standings.
	StandingsComputedV1 = "competition.standings.computed.v1"

	// ResultsFinalizedV1 carries the standings computed once a competition ended.
	ResultsFinalizedV1 = "competition.results.finalized.v1"
)

// ScoresUpdatedPayloadV1 notifies that scores of a competition changed.
type ScoresUpdatedPayloadV1 struct {
	CompetitionID uuid.UUID `json:"competition_id"`
}

// CompetitionScheduledPayloadV1 notifies that a competition was scheduled.
type CompetitionScheduledPayloadV1 struct {
	CompetitionID uuid.UUID `json:"competition_id"`
	EndTime       time.Time `json:"end_time"`
}

// StandingsPayloadV1 is the body of StandingsComputedV1 and ResultsFinalizedV1.
type StandingsPayloadV1 struct {
	competitiondomain.CompetitionSummary
	ComputedAt time.Time `json:"computed_at"`
	Final      bool      `json:"final"`
}
