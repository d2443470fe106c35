package competitiondb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository defines the read contract over competitions and submitted scores.
type Repository interface {
	// GetCompetition retrieves a competition by id.
	GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error)

	// ListFinishedCompetitions returns competitions that ended before the given
	// time, most recent first.
	ListFinishedCompetitions(ctx context.Context, db bun.IDB, before time.Time, limit int) ([]Competition, error)

	// GetMemberScores returns all member scores of a competition.
	GetMemberScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]MemberScore, error)

	// GetGuestScores returns all guest scores of a competition.
	GetGuestScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]GuestScore, error)

	// GetMemberProfiles returns the profiles of the given players. Unknown ids are skipped.
	GetMemberProfiles(ctx context.Context, db bun.IDB, playerIDs []uuid.UUID) ([]MemberProfile, error)
}
