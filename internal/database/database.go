package database

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Migrate applies every embedded *.up.sql file that is not yet recorded in
// schema_migrations, in file name order. Each file runs in its own transaction.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("creating schema_migrations: %w", err)
	}

	names, err := fs.Glob(migrationsFS, "migrations/*.up.sql")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}

	slices.Sort(names)

	for _, path := range names {
		version := strings.TrimPrefix(path, "migrations/")

		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists); err != nil {
			return fmt.Errorf("checking migration %s: %w", version, err)
		}

		if exists {
			continue
		}

		body, err := migrationsFS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", version, err)
		}

		if err := applyMigration(ctx, db, version, string(body)); err != nil {
			return err
		}

		slog.Info("applied migration", "version", version)
	}

	return nil
}

func applyMigration(ctx context.Context, db *sql.DB, version, body string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning migration %s: %w", version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, body); err != nil {
		return fmt.Errorf("applying migration %s: %w", version, err)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
		return fmt.Errorf("recording migration %s: %w", version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing migration %s: %w", version, err)
	}

	return nil
}

// PostgreSQL error codes the stores classify.
const (
	codeLockNotAvailable     = "55P03"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
	codeNumericOutOfRange    = "22003"
)

// IsRetryable reports whether err is a lock timeout, serialization failure or
// deadlock reported by PostgreSQL.
func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	switch pgErr.Code {
	case codeLockNotAvailable, codeSerializationFailure, codeDeadlockDetected:
		return true
	}

	return false
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}

// IsOutOfRange reports whether err is a numeric value too large for its column,
// such as a balance pushed past NUMERIC(14, 2).
func IsOutOfRange(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == codeNumericOutOfRange
}

// CampaignLockKey is the advisory lock key serializing every balance-changing
// unit of work on one campaign.
func CampaignLockKey(campaignID int64) int64 {
	h := fnv.New64a()
	h.Write([]byte("campaign-balance"))
	h.Write([]byte{0})
	h.Write(binary.BigEndian.AppendUint64(nil, uint64(campaignID)))

	return int64(h.Sum64())
}

// LockCampaign takes the campaign's transaction-scoped advisory lock, waiting
// at most timeout. A zero timeout waits indefinitely.
func LockCampaign(ctx context.Context, tx *sql.Tx, campaignID int64, timeout time.Duration) error {
	if timeout > 0 {
		if _, err := tx.ExecContext(ctx, lockTimeoutStatement(timeout)); err != nil {
			return fmt.Errorf("setting lock timeout: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", CampaignLockKey(campaignID)); err != nil {
		return fmt.Errorf("acquiring campaign lock: %w", err)
	}

	return nil
}

// lockTimeoutStatement rounds timeout up to whole milliseconds. PostgreSQL
// reads '0ms' as no timeout at all.
func lockTimeoutStatement(timeout time.Duration) string {
	ms := (timeout + time.Millisecond - 1) / time.Millisecond

	return fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", int64(max(ms, 1)))
}
