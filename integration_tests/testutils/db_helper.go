package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	competitionqueue "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/queue"
	competitionmigrations "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories/migrations"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// competitionTables lists the application tables in truncation order.
var competitionTables = []string{"guest_scores", "member_scores", "member_profiles", "competitions"}

// runMigrations brings the River job tables and the competition schema up to date.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if err := competitionqueue.Migrate(ctx, pgConnStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}

	migrator := migrate.NewMigrator(db, competitionmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}
	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run competition migrations: %w", err)
	}
	if group.ID == 0 {
		log.Println("No competition migrations to run")
	} else {
		log.Printf("Ran competition migrations group #%d", group.ID)
	}
	return nil
}

// CleanupRiverJobs deletes all jobs from the River queue
func CleanupRiverJobs(ctx context.Context, db *bun.DB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM river_job")
	return err
}

// TruncateTables truncates the specified tables
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanCompetitionTables empties the competition tables and the job queue.
func CleanCompetitionTables(ctx context.Context, db *bun.DB) error {
	if err := TruncateTables(ctx, db, competitionTables...); err != nil {
		return err
	}
	return CleanupRiverJobs(ctx, db)
}
