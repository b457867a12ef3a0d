package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	"fyyur/internal/config"
	"fyyur/internal/logger"
	"fyyur/internal/models"
)

const maxRetries = 5

// Open connects to the configured store and verifies it with a ping,
// retrying Postgres a few times while the container comes up.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	switch cfg.Driver {
	case "sqlite":
		return openSQLite(ctx, cfg.ConnectionString(), log)
	case "postgres", "":
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		err = sqldb.PingContext(ctx)
		if err == nil {
			break
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				sqldb.Close()
				return nil, ctx.Err()
			case <-time.After(2 * time.Second):
			}
		}
	}
	if err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("connect to postgres after %d attempts: %w", maxRetries, err)
	}

	log.Info("DATABASE", "Connected to PostgreSQL")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func openSQLite(ctx context.Context, dsn string, log *logger.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// In-memory databases live per connection.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		sqldb.SetMaxOpenConns(1)
	}
	if err := sqldb.PingContext(ctx); err != nil {
		sqldb.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	log.Info("DATABASE", fmt.Sprintf("Opened SQLite database %s", dsn))
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates the venues, artists and shows tables from the bun
// models. Used for SQLite, where the Postgres migrations do not apply.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	tables := []struct {
		model       interface{}
		foreignKeys []string
	}{
		{model: (*models.Venue)(nil)},
		{model: (*models.Artist)(nil)},
		{model: (*models.Show)(nil), foreignKeys: []string{
			`("artist_id") REFERENCES "artists" ("id")`,
			`("venue_id") REFERENCES "venues" ("id")`,
		}},
	}

	for _, t := range tables {
		q := db.NewCreateTable().Model(t.model).IfNotExists()
		for _, fk := range t.foreignKeys {
			q = q.ForeignKey(fk)
		}
		if _, err := q.Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", t.model, err)
		}
	}
	return nil
}

// Ping checks the store within the given timeout.
func Ping(ctx context.Context, db *bun.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return db.PingContext(ctx)
}
