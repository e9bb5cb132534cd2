package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/contrastlabs/perturb-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/contrastlabs/perturb-cli/internal/core/domain"
	"github.com/contrastlabs/perturb-cli/internal/core/ports/driven"
)

// timeFormat is how timestamps are stored; RFC 3339 sorts lexically.
const timeFormat = time.RFC3339Nano

// Ensure Journal implements the interface.
var _ driven.SessionJournal = (*Journal)(nil)

// Journal is a SQLite-backed session journal.
type Journal struct {
	db   *sql.DB
	path string
}

// NewJournal opens (or creates) the journal database in dataDir.
// If dataDir is empty, defaults to ~/.perturb/data/journal.db.
func NewJournal(dataDir string) (*Journal, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".perturb", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "journal.db")

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	j := &Journal{
		db:   db,
		path: dbPath,
	}

	if err := j.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Path returns the database file path.
func (j *Journal) Path() string {
	return j.path
}

// Record persists a completed session. A missing ID is assigned here
// so callers in core stay free of ID-generation concerns.
func (j *Journal) Record(ctx context.Context, record *domain.SessionRecord) error {
	if record == nil {
		return domain.ErrInvalidInput
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO sessions (id, input_path, output_path, seed,
			paragraphs_visited, perturbations_added, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, record.ID, record.InputPath, record.OutputPath, record.Seed,
		record.ParagraphsVisited, record.PerturbationsAdded,
		record.StartedAt.UTC().Format(timeFormat),
		record.FinishedAt.UTC().Format(timeFormat))

	if err != nil {
		return fmt.Errorf("recording session: %w", err)
	}
	return nil
}

// List returns all recorded sessions, most recent first.
func (j *Journal) List(ctx context.Context) ([]domain.SessionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, input_path, output_path, seed,
			paragraphs_visited, perturbations_added, started_at, finished_at
		FROM sessions
		ORDER BY finished_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var records []domain.SessionRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var record domain.SessionRecord
		var startedAt, finishedAt string
		if err := rows.Scan(&record.ID, &record.InputPath, &record.OutputPath,
			&record.Seed, &record.ParagraphsVisited, &record.PerturbationsAdded,
			&startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		if record.StartedAt, err = time.Parse(timeFormat, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if record.FinishedAt, err = time.Parse(timeFormat, finishedAt); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sessions: %w", err)
	}
	return records, nil
}

// migrate applies any pending numbered migrations from fsys.
func (j *Journal) migrate(fsys embed.FS) error {
	_, err := j.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := j.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

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
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := j.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := j.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}
