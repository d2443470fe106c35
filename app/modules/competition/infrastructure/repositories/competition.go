package competitiondb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a competition is not found.
var ErrNotFound = errors.New("competition not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new competition repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetCompetition retrieves a competition by id.
func (r *Impl) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*Competition, error) {
	db = r.resolveDB(db)
	competition := new(Competition)
	err := db.NewSelect().
		Model(competition).
		Where("c.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get competition: %w", err)
	}
	return competition, nil
}

// ListFinishedCompetitions returns competitions with end_time strictly before
// the given time, newest first. A non-positive limit returns all of them.
func (r *Impl) ListFinishedCompetitions(ctx context.Context, db bun.IDB, before time.Time, limit int) ([]Competition, error) {
	db = r.resolveDB(db)
	var competitions []Competition
	q := db.NewSelect().
		Model(&competitions).
		Where("c.end_time < ?", before).
		OrderExpr("c.end_time DESC, c.id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list finished competitions: %w", err)
	}
	return competitions, nil
}

// GetMemberScores returns all member scores of a competition.
func (r *Impl) GetMemberScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]MemberScore, error) {
	db = r.resolveDB(db)
	var scores []MemberScore
	err := db.NewSelect().
		Model(&scores).
		Where("ms.competition_id = ?", competitionID).
		OrderExpr("ms.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get member scores: %w", err)
	}
	return scores, nil
}

// GetGuestScores returns all guest scores of a competition.
func (r *Impl) GetGuestScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]GuestScore, error) {
	db = r.resolveDB(db)
	var scores []GuestScore
	err := db.NewSelect().
		Model(&scores).
		Where("gs.competition_id = ?", competitionID).
		OrderExpr("gs.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get guest scores: %w", err)
	}
	return scores, nil
}

// GetMemberProfiles returns the profiles of the given players.
func (r *Impl) GetMemberProfiles(ctx context.Context, db bun.IDB, playerIDs []uuid.UUID) ([]MemberProfile, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var profiles []MemberProfile
	err := db.NewSelect().
		Model(&profiles).
		Where("mp.player_id IN (?)", bun.In(playerIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get member profiles: %w", err)
	}
	return profiles, nil
}
