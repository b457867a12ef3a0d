package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"

	"fyyur/internal/config"
	"fyyur/internal/database"
	"fyyur/internal/database/migrations"
	"fyyur/internal/kafka"
	"fyyur/internal/logger"
	"fyyur/internal/seed"
)

func main() {
	cfg := config.Load()
	log := logger.New(os.Stderr, logger.ParseLevel(cfg.Log.Level))

	if err := newApp(cfg, log).Run(os.Args); err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
}

func newApp(cfg *config.Config, log *logger.Logger) *cli.App {
	return &cli.App{
		Name:  "fyyur-migrate",
		Usage: "manage the Fyyur database schema, seed data and Kafka topics",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withRunner(cfg, log, func(c *cli.Context, r *migrations.Runner) error {
					return r.RunMigrations()
				}),
			},
			{
				Name:  "down",
				Usage: "roll back every migration",
				Action: withRunner(cfg, log, func(c *cli.Context, r *migrations.Runner) error {
					return r.MigrateDown()
				}),
			},
			{
				Name:      "to",
				Usage:     "migrate up or down to a version",
				ArgsUsage: "<version>",
				Action: withRunner(cfg, log, func(c *cli.Context, r *migrations.Runner) error {
					version, err := strconv.ParseUint(c.Args().First(), 10, 32)
					if err != nil {
						return fmt.Errorf("invalid version %q", c.Args().First())
					}
					return r.MigrateTo(uint(version))
				}),
			},
			{
				Name:  "version",
				Usage: "print the applied migration version",
				Action: withRunner(cfg, log, func(c *cli.Context, r *migrations.Runner) error {
					version, dirty, err := r.Version()
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "version %d (dirty: %t)\n", version, dirty)
					return nil
				}),
			},
			{
				Name:  "schema",
				Usage: "create the tables straight from the models (SQLite)",
				Action: withDB(cfg, log, func(c *cli.Context, db *bun.DB) error {
					if err := database.CreateSchema(c.Context, db); err != nil {
						return err
					}
					fmt.Fprintln(c.App.Writer, "schema created")
					return nil
				}),
			},
			{
				Name:  "seed",
				Usage: "insert generated venues, artists and shows",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "venues", Value: 10},
					&cli.IntFlag{Name: "artists", Value: 20},
					&cli.IntFlag{Name: "shows", Value: 40},
					&cli.Int64Flag{Name: "seed", Usage: "random seed, 0 uses the clock"},
				},
				Action: withDB(cfg, log, func(c *cli.Context, db *bun.DB) error {
					result, err := seed.Run(c.Context, db, seed.Options{
						Venues:  c.Int("venues"),
						Artists: c.Int("artists"),
						Shows:   c.Int("shows"),
						Seed:    c.Int64("seed"),
					}, log)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "seeded %d venues, %d artists, %d shows\n", result.Venues, result.Artists, result.Shows)
					return nil
				}),
			},
			{
				Name:  "topics",
				Usage: "create the change event topics and list what the brokers have",
				Action: func(c *cli.Context) error {
					ctx, cancel := context.WithTimeout(c.Context, 30*time.Second)
					defer cancel()

					if err := kafka.EnsureTopicsExist(ctx, cfg.Kafka.Brokers, kafka.AllTopics, log); err != nil {
						return err
					}
					topics, err := kafka.ListTopics(ctx, cfg.Kafka.Brokers)
					if err != nil {
						return err
					}
					for _, topic := range topics {
						fmt.Fprintln(c.App.Writer, topic)
					}
					return nil
				},
			},
		},
	}
}

func withDB(cfg *config.Config, log *logger.Logger, fn func(c *cli.Context, db *bun.DB) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		db, err := database.Open(c.Context, cfg.Database, log)
		if err != nil {
			return err
		}
		defer db.Close()
		return fn(c, db)
	}
}

// withRunner drives golang-migrate, which only knows the Postgres schema.
// Closing the runner also closes its database handle.
func withRunner(cfg *config.Config, log *logger.Logger, fn func(c *cli.Context, r *migrations.Runner) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		if cfg.Database.Driver == "sqlite" {
			return fmt.Errorf("%s: migrations target postgres, use the schema command for sqlite", c.Command.Name)
		}
		db, err := database.Open(c.Context, cfg.Database, log)
		if err != nil {
			return err
		}
		runner := migrations.NewRunner(db, log)
		defer runner.Close()
		return fn(c, runner)
	}
}
