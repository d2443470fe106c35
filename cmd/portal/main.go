package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/golf-club-portal/app"
	competitionservice "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/application"
	competitionmetrics "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/metrics"
	competitiondb "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/infrastructure/repositories"
	competitiontime "github.com/Black-And-White-Club/golf-club-portal/app/modules/competition/time_utils"
	"github.com/Black-And-White-Club/golf-club-portal/app/observability"
	"github.com/Black-And-White-Club/golf-club-portal/config"
	portaljwt "github.com/Black-And-White-Club/golf-club-portal/pkg/jwt"
	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

const serviceName = "golf-club-portal"

var version = "dev"

func main() {
	cliApp := &cli.App{
		Name:    "portal",
		Usage:   "golf club competition results",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			resultsCommand(),
			exportCommand(),
			chartCommand(),
			tokenCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API, the event handlers and the job queue",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			obs, err := observability.Init(ctx, observability.Config{
				ServiceName:  serviceName,
				Environment:  cfg.Observability.Environment,
				Version:      version,
				LogLevel:     cfg.Observability.LogLevel,
				OTLPEndpoint: cfg.Observability.OTLPEndpoint,
				OTLPInsecure: cfg.Observability.OTLPInsecure,
				SampleRate:   cfg.Observability.TraceSampleRate,
			})
			if err != nil {
				return err
			}
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := obs.Shutdown(shutdownCtx); err != nil {
					obs.Logger.Error("Observability shutdown failed", observability.ErrorAttr(err))
				}
			}()

			application, err := app.New(ctx, cfg, obs)
			if err != nil {
				return err
			}
			defer func() {
				if err := application.Close(); err != nil {
					obs.Logger.Error("Application shutdown failed", observability.ErrorAttr(err))
				}
			}()

			return application.Run(ctx)
		},
	}
}

// newReadOnlyService builds a competition service for one-shot commands.
func newReadOnlyService(c *cli.Context, cfg *config.Config) (*competitionservice.CompetitionService, func(), error) {
	db, err := app.OpenDB(c.Context, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	obs := observability.NewNoop()
	service := competitionservice.NewCompetitionService(
		competitiondb.NewRepository(db),
		obs.Logger,
		competitionmetrics.NewNoop(),
		obs.Tracer,
		db,
	)
	return service, func() { db.Close() }, nil
}

func resultsCommand() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "print the dashboard summaries as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "as-of", Usage: `reference moment: RFC3339, a date or a phrase such as "yesterday"`},
			&cli.IntFlag{Name: "limit", Usage: "number of competitions (defaults to the configured result limit)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}

			asOf, err := competitiontime.NewReferenceTimeParser(cfg.Location()).Parse(c.String("as-of"), time.Now())
			if err != nil {
				return err
			}
			limit := c.Int("limit")
			if limit <= 0 {
				limit = cfg.Dashboard.ResultLimit
			}

			service, closeFn, err := newReadOnlyService(c, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			summaries, err := service.GetDashboardResults(c.Context, asOf, limit)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(c.App.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(summaries)
		},
	}
}

func competitionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "competition", Aliases: []string{"c"}, Usage: "competition id", Required: true},
		&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file", Required: true},
	}
}

func writeCompetitionFile(c *cli.Context, render func(context.Context, *competitionservice.CompetitionService, uuid.UUID) ([]byte, error)) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	competitionID, err := uuid.Parse(c.String("competition"))
	if err != nil {
		return fmt.Errorf("invalid competition id: %w", err)
	}

	service, closeFn, err := newReadOnlyService(c, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	data, err := render(c.Context, service, competitionID)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.String("out"), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", c.String("out"), err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s (%d bytes)\n", c.String("out"), len(data))
	return nil
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write the scorecard of a competition as XLSX",
		Flags: competitionFlags(),
		Action: func(c *cli.Context) error {
			return writeCompetitionFile(c, func(ctx context.Context, s *competitionservice.CompetitionService, id uuid.UUID) ([]byte, error) {
				return s.ExportScorecard(ctx, id)
			})
		},
	}
}

func chartCommand() *cli.Command {
	return &cli.Command{
		Name:  "chart",
		Usage: "write the standings chart of a competition as PNG",
		Flags: competitionFlags(),
		Action: func(c *cli.Context) error {
			return writeCompetitionFile(c, func(ctx context.Context, s *competitionservice.CompetitionService, id uuid.UUID) ([]byte, error) {
				return s.RenderStandingsChart(ctx, id)
			})
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint an API token signed with the configured JWT secret",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "subject", Aliases: []string{"s"}, Usage: "who the token is for", Required: true},
			&cli.StringFlag{Name: "role", Value: string(portaljwt.RoleOfficer), Usage: "member or officer"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to the configured token TTL)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.HTTP.JWTSecret == "" {
				return fmt.Errorf("no JWT secret configured")
			}
			role, ok := portaljwt.ParseRole(c.String("role"))
			if !ok {
				return fmt.Errorf("%w: %q", portaljwt.ErrUnknownRole, c.String("role"))
			}

			token, err := portaljwt.NewService(cfg.HTTP.JWTSecret, cfg.HTTP.TokenTTL).GenerateToken(c.String("subject"), role, c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			return nil
		},
	}
}
