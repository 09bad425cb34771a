package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nlcmd/cli/internal/core/domain"
)

// Record is one executed command appended to the history store.
type Record struct {
	ExecutionID string
	Verb        string
	Command     string
	ExitCode    int
	ErrorKind   domain.ErrorKind
	Error       string
	StartedAt   time.Time
	Duration    time.Duration
}

// Store is an append-only execution log. The command core never reads
// it back; it exists for the CLI layer's history and feedback loop.
type Store struct {
	db *sql.DB
}

const schema = `CREATE TABLE IF NOT EXISTS executions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	execution_id TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	verb TEXT NOT NULL,
	command TEXT NOT NULL,
	exit_code INTEGER NOT NULL,
	error_kind TEXT NOT NULL,
	error TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
)`

// Open creates or opens the history database at path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Append writes one record.
func (s *Store) Append(rec Record) error {
	_, err := s.db.Exec(
		`INSERT INTO executions (execution_id, started_at, verb, command, exit_code, error_kind, error, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ExecutionID, rec.StartedAt, rec.Verb, rec.Command,
		rec.ExitCode, string(rec.ErrorKind), rec.Error, rec.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("failed to append history record: %w", err)
	}
	return nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
