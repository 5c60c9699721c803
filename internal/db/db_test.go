package db

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tailscale/tailsql/server/tailsql"

	"github.com/banshee-data/pasture.report/internal/timeutil"
)

// setupTestDB creates a migrated database in a temp directory.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_CreatesSchema(t *testing.T) {
	db := setupTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='scenarios'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "scenarios", name)

	version, dirty, err := db.MigrateVersion(MigrationsFS())
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)
}

func TestNewDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.SaveScenario(&Scenario{Label: "kept"}))
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	list, err := db.ListScenarios(0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "kept", list[0].Label)
	assert.Equal(t, path, db.Path())
}

func TestOpenDB_WALMode(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "wal.db"))
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestHandleBackup(t *testing.T) {
	db := setupTestDB(t)
	db.clock = timeutil.NewMockClock(time.Unix(1700000000, 0))
	require.NoError(t, db.SaveScenario(&Scenario{Label: "backup me"}))

	rec := httptest.NewRecorder()
	db.handleBackup(rec, httptest.NewRequest(http.MethodGet, "/debug/backup", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/gzip", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "backup-1700000000.db.gz")

	zr, err := gzip.NewReader(rec.Body)
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("SQLite format 3\x00")), "backup should be a SQLite file")
}

func TestAttachAdminRoutes(t *testing.T) {
	db := setupTestDB(t)
	mux := http.NewServeMux()

	require.NoError(t, db.AttachAdminRoutes(mux))
	for _, path := range []string{"/debug/backup", "/debug/tailsql/"} {
		_, pattern := mux.Handler(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, path, pattern)
	}
}

func TestAttachAdminRoutes_TailSQLFailure(t *testing.T) {
	db := setupTestDB(t)
	prev := newTailSQL
	newTailSQL = func(tailsql.Options) (*tailsql.Server, error) {
		return nil, errors.New("no local state dir")
	}
	t.Cleanup(func() { newTailSQL = prev })

	mux := http.NewServeMux()
	err := db.AttachAdminRoutes(mux)
	assert.ErrorContains(t, err, "no local state dir")

	_, pattern := mux.Handler(httptest.NewRequest(http.MethodGet, "/debug/backup", nil))
	assert.Equal(t, "/debug/backup", pattern)
	_, pattern = mux.Handler(httptest.NewRequest(http.MethodGet, "/debug/tailsql/", nil))
	assert.Equal(t, "/debug/", pattern, "tailsql should be skipped")
}
