package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nlcmd/cli/internal/core/domain"
)

func TestOpen_CreatesDatabaseAndParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, path)
}

func TestAppend_PersistsRecords(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	records := []Record{
		{
			ExecutionID: "exec-1",
			Verb:        "list",
			Command:     "ls -la .",
			ExitCode:    0,
			ErrorKind:   domain.ErrorNone,
			StartedAt:   time.Now(),
			Duration:    12 * time.Millisecond,
		},
		{
			ExecutionID: "exec-2",
			Verb:        "",
			Command:     "rm -rf /",
			ExitCode:    -1,
			ErrorKind:   domain.ErrorSafetyRejected,
			Error:       "blocked command: rm -rf /",
			StartedAt:   time.Now(),
		},
	}

	for _, rec := range records {
		require.NoError(t, store.Append(rec))
	}

	var count int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM executions`).Scan(&count))
	assert.Equal(t, len(records), count)

	var kind, errText string
	require.NoError(t, store.db.QueryRow(
		`SELECT error_kind, error FROM executions WHERE execution_id = ?`, "exec-2").
		Scan(&kind, &errText))
	assert.Equal(t, string(domain.ErrorSafetyRejected), kind)
	assert.Equal(t, "blocked command: rm -rf /", errText)
}

func TestAppend_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(Record{ExecutionID: "exec-1", Command: "echo hi", StartedAt: time.Now()}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	require.NoError(t, reopened.db.QueryRow(`SELECT COUNT(*) FROM executions`).Scan(&count))
	assert.Equal(t, 1, count)
}
