package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"

	"github.com/eshaffer321/growthplan-backend/internal/domain/planning"
	"github.com/eshaffer321/growthplan-backend/internal/infrastructure/storage/migrations"
)

// busyTimeoutMillis is how long SQLite waits on a locked database file.
const busyTimeoutMillis = 5000

// Storage provides SQLite database access for the planner.
// It implements the Repository interface.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage opens the SQLite database at dbPath and applies pending migrations.
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}

	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	// One writer at a time; the busy timeout covers other processes.
	db.SetMaxOpenConns(1)

	return s, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%s_busy_timeout=%d&_foreign_keys=on", dbPath, sep, busyTimeoutMillis)
}

func (s *Storage) migrate(ctx context.Context) error {
	provider, err := goose.NewProvider(goose.DialectSQLite3, s.db, nil,
		goose.WithGoMigrations(migrations.All()...),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *Storage) SchemaVersion(ctx context.Context) (int64, error) {
	var version int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_id), 0) FROM goose_db_version WHERE is_applied = 1`,
	).Scan(&version)
	if err != nil {
		return 0, persistErr("schema version", err)
	}
	return version, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back when fn fails.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("begin transaction", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return persistErr("commit", err)
	}
	return nil
}

// persistErr wraps a database failure. Domain errors pass through unchanged.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, planning.ErrNotFound) || errors.Is(err, planning.ErrValidation) {
		return err
	}
	var pe *planning.PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &planning.PersistenceError{Op: op, Err: err}
}

// periodArgs returns the year and month bind arguments of p.
func periodArgs(p planning.Period) []interface{} {
	return []interface{}{p.Year, p.Month}
}

func formatDate(t time.Time) string {
	return t.UTC().Format(planning.DateLayout)
}
