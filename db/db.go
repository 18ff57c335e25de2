package db

import (
	"context"
	"database/sql"
	"embed"
	"io/fs"
	"sort"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/zeebo/errs"
	"go.uber.org/zap"
)

// Error is the error class for connection and migration failures.
var Error = errs.Class("db")

//go:embed migrations/*.sql
var migrations embed.FS

// Open opens a pooled connection using the pgx driver and verifies it with a ping.
func Open(ctx context.Context, log *zap.Logger, connStr string) (*sql.DB, error) {
	conn, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, Error.New("failed to open database connection: %w", err)
	}

	conn.SetMaxOpenConns(20)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		return nil, errs.Combine(Error.New("failed to ping database: %w", err), conn.Close())
	}

	log.Info("database connection established")
	return conn, nil
}

// MigrationNames lists the embedded migration files in apply order.
func MigrationNames() ([]string, error) {
	names, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, Error.Wrap(err)
	}
	sort.Strings(names)
	return names, nil
}

// Migrate applies every embedded migration. Migrations are written to be re-runnable.
func Migrate(ctx context.Context, log *zap.Logger, conn *sql.DB) error {
	names, err := MigrationNames()
	if err != nil {
		return err
	}

	for _, name := range names {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return Error.Wrap(err)
		}
		if _, err := conn.ExecContext(ctx, string(body)); err != nil {
			return Error.New("apply migration %s: %w", name, err)
		}
		log.Info("migration applied", zap.String("name", name))
	}
	return nil
}
