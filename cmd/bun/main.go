package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	competitionqueue "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/queue"
	competitionmigrations "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/golf-club-portal/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"
)

// schema holds what every subcommand needs once the config is loaded.
type schema struct {
	db       *bun.DB
	migrator *migrate.Migrator
	dsn      string
}

func main() {
	s := &schema{}

	app := &cli.App{
		Name:  "bun",
		Usage: "golf club portal schema tool",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the configuration file",
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfig(c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			s.dsn = cfg.Postgres.DSN
			s.db = bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(s.dsn))), pgdialect.New())
			s.migrator = migrate.NewMigrator(s.db, competitionmigrations.Migrations)
			return nil
		},
		After: func(*cli.Context) error {
			if s.db != nil {
				return s.db.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			s.dbCommand(),
			s.queueCommand(),
			s.setupCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func (s *schema) dbCommand() *cli.Command {
	return &cli.Command{
		Name:  "db",
		Usage: "competition schema migrations",
		Subcommands: []*cli.Command{
			{
				Name:   "init",
				Usage:  "create the bun migration tables",
				Action: func(c *cli.Context) error { return s.initTables(c) },
			},
			{
				Name:   "migrate",
				Usage:  "apply pending migrations",
				Action: func(c *cli.Context) error { return s.migrateSchema(c) },
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					group, err := s.migrator.Rollback(c.Context)
					if err != nil {
						return fmt.Errorf("rollback failed: %w", err)
					}
					report("Rolled back", group)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "list applied and pending migrations",
				Action: func(c *cli.Context) error {
					ms, err := s.migrator.MigrationsWithStatus(c.Context)
					if err != nil {
						return err
					}
					fmt.Printf("applied:   %s\n", ms.Applied())
					fmt.Printf("pending:   %s\n", ms.Unapplied())
					if last := ms.LastGroup(); !last.IsZero() {
						fmt.Printf("last group: %s\n", last)
					}
					return nil
				},
			},
			{
				Name:      "create",
				Usage:     "create a Go migration",
				ArgsUsage: "<words of the migration name>",
				Action: func(c *cli.Context) error {
					if c.NArg() == 0 {
						return cli.Exit("migration name required", 1)
					}
					mf, err := s.migrator.CreateGoMigration(c.Context, strings.Join(c.Args().Slice(), "_"))
					if err != nil {
						return err
					}
					fmt.Printf("created %s (%s)\n", mf.Name, mf.Path)
					return nil
				},
			},
		},
	}
}

func (s *schema) queueCommand() *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "job queue tables",
		Subcommands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "create or upgrade the River job tables",
				Action: func(c *cli.Context) error { return s.migrateQueue(c) },
			},
		},
	}
}

// setupCommand brings a fresh database fully up to date, as done on deploy.
func (s *schema) setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "init, migrate and upgrade the job queue in one step",
		Action: func(c *cli.Context) error {
			for _, step := range []func(*cli.Context) error{s.initTables, s.migrateSchema, s.migrateQueue} {
				if err := step(c); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (s *schema) initTables(c *cli.Context) error {
	if err := s.migrator.Init(c.Context); err != nil {
		return fmt.Errorf("failed to create migration tables: %w", err)
	}
	return nil
}

func (s *schema) migrateSchema(c *cli.Context) error {
	if err := s.migrator.Lock(c.Context); err != nil {
		return fmt.Errorf("failed to lock migrations: %w", err)
	}
	defer func() { _ = s.migrator.Unlock(c.Context) }()

	group, err := s.migrator.Migrate(c.Context)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	report("Migrated", group)
	return nil
}

func (s *schema) migrateQueue(c *cli.Context) error {
	if err := competitionqueue.Migrate(c.Context, s.dsn); err != nil {
		return err
	}
	fmt.Println("River job tables are up to date")
	return nil
}

func report(verb string, group *migrate.MigrationGroup) {
	if group.IsZero() {
		fmt.Println("Nothing to do")
		return
	}
	fmt.Printf("%s to %s\n", verb, group)
}
