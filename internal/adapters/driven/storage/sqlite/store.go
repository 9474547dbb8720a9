package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/schemex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/schemex/internal/core/domain"
	"github.com/custodia-labs/schemex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.RunStore = (*Store)(nil)

// dbFile is the database file name inside the data directory.
const dbFile = "runs.db"

// Store is the SQLite run ledger.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in the specified data directory.
// If dataDir is empty, defaults to ~/.schemex/data/runs.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".schemex", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.apply(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// apply runs one migration and records its version atomically.
func (s *Store) apply(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// SchemaVersion returns the highest applied migration version.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&v); err != nil {
		return 0, fmt.Errorf("getting schema version: %w", err)
	}
	return v, nil
}

// ==================== Run Store ====================

// Save stores a run and its items, replacing any run with the same ID.
func (s *Store) Save(ctx context.Context, run domain.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is empty", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mode, root, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			mode = excluded.mode,
			root = excluded.root,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at
	`, run.ID, string(run.Mode), run.Root, toNanos(run.StartedAt), toNanos(run.FinishedAt))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_items WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("clearing run items: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_items (run_id, idx, path, kind, reason, artifact_path, digest, diagrams, steps, incomplete)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing item insert: %w", err)
	}
	defer stmt.Close()

	for _, it := range run.Items {
		if _, err := stmt.ExecContext(ctx, run.ID, it.Index, it.Path, string(it.Kind), it.Reason,
			it.ArtifactPath, it.Digest, it.Diagrams, it.Steps, it.Incomplete); err != nil {
			return fmt.Errorf("saving run item %d: %w", it.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its items.
func (s *Store) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, mode, root, started_at, finished_at
		FROM runs WHERE id = ?
	`, id)

	var (
		run               domain.RunRecord
		mode              string
		started, finished int64
	)
	if err := row.Scan(&run.ID, &mode, &run.Root, &started, &finished); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Mode = domain.RunMode(mode)
	run.StartedAt = fromNanos(started)
	run.FinishedAt = fromNanos(finished)

	rows, err := s.db.QueryContext(ctx, `
		SELECT idx, path, kind, reason, artifact_path, digest, diagrams, steps, incomplete
		FROM run_items WHERE run_id = ? ORDER BY idx
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.RunItem
		var kind string
		if err := rows.Scan(&it.Index, &it.Path, &kind, &it.Reason, &it.ArtifactPath,
			&it.Digest, &it.Diagrams, &it.Steps, &it.Incomplete); err != nil {
			return nil, fmt.Errorf("scanning run item: %w", err)
		}
		it.Kind = domain.OutcomeKind(kind)
		run.Items = append(run.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run items: %w", err)
	}

	return &run, nil
}

// List returns the most recent runs first with their outcome counts.
func (s *Store) List(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.mode, r.root, r.started_at, r.finished_at,
			COALESCE(SUM(i.kind = 'scheme'), 0),
			COALESCE(SUM(i.kind = 'diagrams_only'), 0),
			COALESCE(SUM(i.kind NOT IN ('scheme', 'diagrams_only')), 0)
		FROM runs r
		LEFT JOIN run_items i ON i.run_id = r.id
		GROUP BY r.id
		ORDER BY r.started_at DESC, r.id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var result []domain.RunSummary
	for rows.Next() {
		var (
			sum               domain.RunSummary
			mode              string
			started, finished int64
		)
		if err := rows.Scan(&sum.ID, &mode, &sum.Root, &started, &finished,
			&sum.Counts.Schemes, &sum.Counts.DiagramsOnly, &sum.Counts.Absent); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		sum.Mode = domain.RunMode(mode)
		sum.StartedAt = fromNanos(started)
		sum.FinishedAt = fromNanos(finished)
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return result, nil
}

// toNanos stores zero times as 0.
func toNanos(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromNanos(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}
