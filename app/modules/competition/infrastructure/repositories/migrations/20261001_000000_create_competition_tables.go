package competitionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competition tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS competitions (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					title VARCHAR(200) NOT NULL,
					location VARCHAR(200),
					start_time TIMESTAMPTZ NOT NULL,
					end_time TIMESTAMPTZ NOT NULL,
					format VARCHAR(20) NOT NULL CHECK (format IN ('individual', 'team')),
					team_scoring_mode VARCHAR(32) CHECK (team_scoring_mode IN ('match_play', 'aggregate_strokes')),
					team_display_names JSONB,
					team_colors JSONB,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_competitions_end_time ON competitions(end_time DESC);
			`); err != nil {
				return fmt.Errorf("failed to create competitions table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS member_profiles (
					player_id UUID PRIMARY KEY,
					display_name VARCHAR(100) NOT NULL,
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create member_profiles table: %w", err)
			}

			// Score tables accept whatever the submission form stored; hole
			// cards are validated when scored, not on write.
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS member_scores (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					player_id UUID NOT NULL,
					group_number INT,
					team_name VARCHAR(100),
					hole_scores JSONB,
					total_strokes INT,
					net_strokes INT,
					handicap NUMERIC(4,1),
					rank INT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_member_scores_competition ON member_scores(competition_id);

				CREATE TABLE IF NOT EXISTS guest_scores (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					competition_id UUID NOT NULL REFERENCES competitions(id) ON DELETE CASCADE,
					guest_name VARCHAR(100) NOT NULL,
					group_number INT,
					team_name VARCHAR(100),
					hole_scores JSONB,
					total_strokes INT,
					net_strokes INT,
					handicap NUMERIC(4,1),
					rank INT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_guest_scores_competition ON guest_scores(competition_id);
			`); err != nil {
				return fmt.Errorf("failed to create score tables: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back competition tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS guest_scores;
				DROP TABLE IF EXISTS member_scores;
				DROP TABLE IF EXISTS member_profiles;
				DROP TABLE IF EXISTS competitions;
			`); err != nil {
				return fmt.Errorf("failed to drop competition tables: %w", err)
			}
			return nil
		})
	})
}
