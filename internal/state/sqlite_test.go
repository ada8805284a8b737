package state

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ins-amu/veplut/internal/testutil"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore(testutil.NewTestLogger(t))
	path := filepath.Join(t.TempDir(), "state.db")
	require.NoError(t, store.Open(path))
	require.NoError(t, store.Migrate())
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("ref.txt", "rules.txt", "regions.txt")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "ref.txt", got.RefLut)
	assert.Equal(t, "rules.txt", got.RulesFile)
	assert.Equal(t, "regions.txt", got.RegionsFile)

	require.NoError(t, store.CompleteRun(run.ID, RunStatusCompleted, ""))

	got, err = store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Empty(t, got.Error)
}

func TestCompleteRunFailed(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("ref.txt", "rules.txt", "regions.txt")
	require.NoError(t, err)

	require.NoError(t, store.CompleteRun(run.ID, RunStatusFailed, "validation failed"))

	got, err := store.GetRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusFailed, got.Status)
	assert.Equal(t, "validation failed", got.Error)
}

func TestCompleteRunNotFound(t *testing.T) {
	store := newTestStore(t)
	err := store.CompleteRun("no-such-run", RunStatusCompleted, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestGetRunNotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetRun("no-such-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run not found")
}

func TestGetLatestRun(t *testing.T) {
	store := newTestStore(t)

	latest, err := store.GetLatestRun()
	require.NoError(t, err)
	assert.Nil(t, latest, "no runs yet")

	for i := 0; i < 3; i++ {
		_, err := store.CreateRun(fmt.Sprintf("ref%d.txt", i), "rules.txt", "regions.txt")
		require.NoError(t, err)
	}

	latest, err = store.GetLatestRun()
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, "ref2.txt", latest.RefLut)
}

func TestListRuns(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 5; i++ {
		_, err := store.CreateRun(fmt.Sprintf("ref%d.txt", i), "rules.txt", "regions.txt")
		require.NoError(t, err)
	}

	runs, err := store.ListRuns(3)
	require.NoError(t, err)
	assert.Len(t, runs, 3)

	runs, err = store.ListRuns(100)
	require.NoError(t, err)
	assert.Len(t, runs, 5)
}

func TestArtifacts(t *testing.T) {
	store := newTestStore(t)

	run, err := store.CreateRun("ref.txt", "rules.txt", "regions.txt")
	require.NoError(t, err)

	kinds := []string{ArtifactFsLut, ArtifactMrtrixLut, ArtifactSubcortList, ArtifactAparcLut}
	for i, kind := range kinds {
		a := &Artifact{
			RunID:    run.ID,
			Kind:     kind,
			Path:     "out/" + kind + ".txt",
			Entries:  10 + i,
			Bytes:    1000 + int64(i),
			Checksum: "deadbeef",
		}
		require.NoError(t, store.RecordArtifact(a))
		assert.NotZero(t, a.ID)
	}

	artifacts, err := store.ArtifactsForRun(run.ID)
	require.NoError(t, err)
	require.Len(t, artifacts, 4)
	for i, kind := range kinds {
		assert.Equal(t, kind, artifacts[i].Kind, "insertion order preserved")
	}

	artifacts, err = store.ArtifactsForRun("no-such-run")
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestMigrationVersion(t *testing.T) {
	store := newTestStore(t)
	version, err := store.GetMigrationVersion()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, int64(1))
}

func TestStoreNotOpened(t *testing.T) {
	store := NewSQLiteStore(nil)

	_, err := store.CreateRun("a", "b", "c")
	assert.ErrorContains(t, err, "database not opened")
	_, err = store.GetRun("x")
	assert.ErrorContains(t, err, "database not opened")
	_, err = store.ListRuns(10)
	assert.ErrorContains(t, err, "database not opened")
	assert.ErrorContains(t, store.Migrate(), "database not opened")
	assert.NoError(t, store.Close())
}

func TestCreateRunQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO runs").WillReturnError(fmt.Errorf("disk full"))

	store := NewSQLiteStore(nil)
	store.db = db

	_, err = store.CreateRun("ref.txt", "rules.txt", "regions.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordArtifactQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO artifacts").WillReturnError(fmt.Errorf("constraint violated"))

	store := NewSQLiteStore(nil)
	store.db = db

	err = store.RecordArtifact(&Artifact{RunID: "r", Kind: ArtifactFsLut, Path: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to record artifact")
	assert.NoError(t, mock.ExpectationsWereMet())
}
