package iostore

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *HistoryStoreImpl {
	t.Helper()
	store, err := NewHistoryStore(schema.SQLiteBackend, filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	impl, ok := store.(*HistoryStoreImpl)
	require.True(t, ok)
	return impl
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), "/repo", map[string]any{"workers": 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.EndRun(1, time.Now(), 10))
	assert.NoError(t, store.RecordFileMetrics(1, []schema.FileMetrics{{Path: "a.go"}}))
	assert.NoError(t, store.RecordSurvivalCurves(1, []schema.SurvivalCurve{{Cohort: "2024-Q1"}}))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Nil(t, runs)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_UnsupportedBackend(t *testing.T) {
	_, err := NewHistoryStore(schema.DatabaseBackend("oracle"), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported backend")
}

func TestHistoryStore_SQLiteRunLifecycle(t *testing.T) {
	store := newSQLiteStore(t)

	start := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	params := map[string]any{"workers": 4, "source": "/test/repo"}
	runID, err := store.BeginRun(start, "/test/repo", params)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	metrics := []schema.FileMetrics{
		{Path: "src/main.py", ChangeCount: 2, LOC: 4, Churn: 7},
		{Path: "README.md", ChangeCount: 1, LOC: 1, Churn: 1},
	}
	require.NoError(t, store.RecordFileMetrics(runID, metrics))

	curves := []schema.SurvivalCurve{
		{Cohort: "2024-Q1", Data: []schema.SurvivalSample{{WeeksElapsed: 0, SurvivingLines: 1}, {WeeksElapsed: 4, SurvivingLines: 0.7143}}},
		{Cohort: "2024-Q2", Data: []schema.SurvivalSample{{WeeksElapsed: 0, SurvivingLines: 1}}},
	}
	require.NoError(t, store.RecordSurvivalCurves(runID, curves))

	end := start.Add(1500 * time.Millisecond)
	require.NoError(t, store.EndRun(runID, end, len(metrics)))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "/test/repo", run.Source)
	assert.True(t, start.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	assert.True(t, end.Equal(*run.EndTime))
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(2), run.TotalFilesAnalyzed)
	require.NotNil(t, run.ConfigParams)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(*run.ConfigParams), &decoded))
	assert.Equal(t, "/test/repo", decoded["source"])
	assert.Equal(t, float64(4), decoded["workers"])

	fileRows, err := store.GetAllFileMetrics()
	require.NoError(t, err)
	assert.Equal(t, []schema.FileMetricsRecord{
		{RunID: runID, FilePath: "README.md", ChangeCount: 1, LOC: 1, Churn: 1},
		{RunID: runID, FilePath: "src/main.py", ChangeCount: 2, LOC: 4, Churn: 7},
	}, fileRows)

	samples, err := store.GetAllSurvivalSamples()
	require.NoError(t, err)
	assert.Equal(t, []schema.SurvivalSampleRecord{
		{RunID: runID, Cohort: "2024-Q1", WeeksElapsed: 0, SurvivingLines: 1},
		{RunID: runID, Cohort: "2024-Q1", WeeksElapsed: 4, SurvivingLines: 0.7143},
		{RunID: runID, Cohort: "2024-Q2", WeeksElapsed: 0, SurvivingLines: 1},
	}, samples)
}

func TestHistoryStore_UnfinishedRun(t *testing.T) {
	store := newSQLiteStore(t)

	_, err := store.BeginRun(time.Now(), "https://example.com/repo.git", nil)
	require.NoError(t, err)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
	assert.Equal(t, int32(0), runs[0].TotalFilesAnalyzed)
}

func TestHistoryStore_EndRunUnknownID(t *testing.T) {
	store := newSQLiteStore(t)

	err := store.EndRun(42, time.Now(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run 42")
}

func TestHistoryStore_DuplicateMetricsRollBack(t *testing.T) {
	store := newSQLiteStore(t)

	runID, err := store.BeginRun(time.Now(), "/repo", nil)
	require.NoError(t, err)

	err = store.RecordFileMetrics(runID, []schema.FileMetrics{
		{Path: "a.go", ChangeCount: 1},
		{Path: "a.go", ChangeCount: 2},
	})
	require.Error(t, err)

	rows, err := store.GetAllFileMetrics()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestHistoryStore_EmptyInputsAreNoOps(t *testing.T) {
	store := newSQLiteStore(t)

	assert.NoError(t, store.RecordFileMetrics(1, nil))
	assert.NoError(t, store.RecordSurvivalCurves(1, []schema.SurvivalCurve{{Cohort: "2024-Q1"}}))

	samples, err := store.GetAllSurvivalSamples()
	require.NoError(t, err)
	assert.Empty(t, samples)
}

func TestHistoryStore_GetStatus(t *testing.T) {
	store := newSQLiteStore(t)

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalRuns)
	assert.Equal(t, map[string]int64{
		runsTable:            0,
		fileMetricsTable:     0,
		survivalSamplesTable: 0,
	}, status.TableSizes)

	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	id1, err := store.BeginRun(first, "/repo", nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id1, first.Add(time.Minute), 3))
	id2, err := store.BeginRun(second, "/repo", nil)
	require.NoError(t, err)
	require.NoError(t, store.EndRun(id2, second.Add(time.Minute), 5))
	require.NoError(t, store.RecordFileMetrics(id2, []schema.FileMetrics{{Path: "a.go"}, {Path: "b.go"}}))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, status.TotalRuns)
	assert.Equal(t, id2, status.LastRunID)
	assert.True(t, second.Equal(status.LastRunTime))
	assert.True(t, first.Equal(status.OldestRunTime))
	assert.Equal(t, 8, status.TotalFilesAnalyzed)
	assert.Equal(t, int64(2), status.TableSizes[runsTable])
	assert.Equal(t, int64(2), status.TableSizes[fileMetricsTable])
}

func TestHistoryStore_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	_, err = store.BeginRun(time.Now(), "/repo", nil)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`gitpulse_runs`", quoteTableName(runsTable, schema.MySQLBackend))
	assert.Equal(t, `"gitpulse_runs"`, quoteTableName(runsTable, schema.PostgreSQLBackend))
	assert.Equal(t, `"gitpulse_runs"`, quoteTableName(runsTable, schema.SQLiteBackend))
}

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name    string
		table   string
		wantErr bool
	}{
		{"history table", runsTable, false},
		{"leading underscore", "_t1", false},
		{"empty", "", true},
		{"leading digit", "1table", true},
		{"injection", "runs; DROP TABLE x", true},
		{"hyphen", "my-table", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.table)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBind(t *testing.T) {
	pg := &HistoryStoreImpl{backend: schema.PostgreSQLBackend}
	assert.Equal(t, "UPDATE t SET a = $1, b = $2 WHERE id = $3", pg.bind("UPDATE t SET a = ?, b = ? WHERE id = ?"))

	lite := &HistoryStoreImpl{backend: schema.SQLiteBackend}
	assert.Equal(t, "SELECT ? FROM t", lite.bind("SELECT ? FROM t"))
}
