package testutils

import (
	"context"
	"testing"

	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// CompetitionFixture is a competition with its scores, written in one call.
type CompetitionFixture struct {
	Competition competitiondb.Competition
	Profiles    []competitiondb.MemberProfile
	Members     []competitiondb.MemberScore
	Guests      []competitiondb.GuestScore
}

// InsertCompetitionFixture writes the fixture rows in dependency order.
func InsertCompetitionFixture(t *testing.T, ctx context.Context, db *bun.DB, f CompetitionFixture) {
	t.Helper()

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&f.Competition).Exec(ctx); err != nil {
			return err
		}
		if len(f.Profiles) > 0 {
			if _, err := tx.NewInsert().Model(&f.Profiles).On("CONFLICT (player_id) DO UPDATE").Set("display_name = EXCLUDED.display_name").Exec(ctx); err != nil {
				return err
			}
		}
		if len(f.Members) > 0 {
			if _, err := tx.NewInsert().Model(&f.Members).Exec(ctx); err != nil {
				return err
			}
		}
		if len(f.Guests) > 0 {
			if _, err := tx.NewInsert().Model(&f.Guests).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to insert competition fixture: %v", err)
	}
}
