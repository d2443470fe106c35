package competitionservice

import (
	"context"
	"sync"
	"time"

	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Competition Repo
// ------------------------

type FakeCompetitionRepo struct {
	mu    sync.Mutex
	trace []string

	GetCompetitionFunc           func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error)
	ListFinishedCompetitionsFunc func(ctx context.Context, db bun.IDB, before time.Time, limit int) ([]competitiondb.Competition, error)
	GetMemberScoresFunc          func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.MemberScore, error)
	GetGuestScoresFunc           func(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.GuestScore, error)
	GetMemberProfilesFunc        func(ctx context.Context, db bun.IDB, playerIDs []uuid.UUID) ([]competitiondb.MemberProfile, error)
}

func NewFakeCompetitionRepo() *FakeCompetitionRepo {
	return &FakeCompetitionRepo{
		trace: []string{},
	}
}

// record is guarded because the service reads concurrently.
func (f *FakeCompetitionRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeCompetitionRepo) GetCompetition(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
	f.record("GetCompetition")
	if f.GetCompetitionFunc != nil {
		return f.GetCompetitionFunc(ctx, db, id)
	}
	return nil, competitiondb.ErrNotFound
}

func (f *FakeCompetitionRepo) ListFinishedCompetitions(ctx context.Context, db bun.IDB, before time.Time, limit int) ([]competitiondb.Competition, error) {
	f.record("ListFinishedCompetitions")
	if f.ListFinishedCompetitionsFunc != nil {
		return f.ListFinishedCompetitionsFunc(ctx, db, before, limit)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) GetMemberScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.MemberScore, error) {
	f.record("GetMemberScores")
	if f.GetMemberScoresFunc != nil {
		return f.GetMemberScoresFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) GetGuestScores(ctx context.Context, db bun.IDB, competitionID uuid.UUID) ([]competitiondb.GuestScore, error) {
	f.record("GetGuestScores")
	if f.GetGuestScoresFunc != nil {
		return f.GetGuestScoresFunc(ctx, db, competitionID)
	}
	return nil, nil
}

func (f *FakeCompetitionRepo) GetMemberProfiles(ctx context.Context, db bun.IDB, playerIDs []uuid.UUID) ([]competitiondb.MemberProfile, error) {
	f.record("GetMemberProfiles")
	if f.GetMemberProfilesFunc != nil {
		return f.GetMemberProfilesFunc(ctx, db, playerIDs)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeCompetitionRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ competitiondb.Repository = (*FakeCompetitionRepo)(nil)

// ------------------------
// In-memory store
// ------------------------

// memoryStore wires a FakeCompetitionRepo to fixed rows.
type memoryStore struct {
	competitions map[uuid.UUID]competitiondb.Competition
	members      map[uuid.UUID][]competitiondb.MemberScore
	guests       map[uuid.UUID][]competitiondb.GuestScore
	profiles     map[uuid.UUID]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		competitions: map[uuid.UUID]competitiondb.Competition{},
		members:      map[uuid.UUID][]competitiondb.MemberScore{},
		guests:       map[uuid.UUID][]competitiondb.GuestScore{},
		profiles:     map[uuid.UUID]string{},
	}
}

func (m *memoryStore) repo() *FakeCompetitionRepo {
	f := NewFakeCompetitionRepo()
	f.GetCompetitionFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) (*competitiondb.Competition, error) {
		c, ok := m.competitions[id]
		if !ok {
			return nil, competitiondb.ErrNotFound
		}
		return &c, nil
	}
	f.ListFinishedCompetitionsFunc = func(ctx context.Context, db bun.IDB, before time.Time, limit int) ([]competitiondb.Competition, error) {
		var out []competitiondb.Competition
		for _, c := range m.competitions {
			if c.EndTime.Before(before) {
				out = append(out, c)
			}
		}
		return out, nil
	}
	f.GetMemberScoresFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]competitiondb.MemberScore, error) {
		return m.members[id], nil
	}
	f.GetGuestScoresFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) ([]competitiondb.GuestScore, error) {
		return m.guests[id], nil
	}
	f.GetMemberProfilesFunc = func(ctx context.Context, db bun.IDB, ids []uuid.UUID) ([]competitiondb.MemberProfile, error) {
		var out []competitiondb.MemberProfile
		for _, id := range ids {
			if name, ok := m.profiles[id]; ok {
				out = append(out, competitiondb.MemberProfile{PlayerID: id, DisplayName: name})
			}
		}
		return out, nil
	}
	return f
}
