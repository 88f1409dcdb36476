//go:build basic

// Package integration contains end-to-end tests that drive the gitpulse binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/gitpulse/internal/testutil"
	"github.com/huangsam/gitpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureRepo builds a small linear history touching files at different rates.
func fixtureRepo(t *testing.T) string {
	t.Helper()
	testutil.SkipIfGitNotAvailable(t)
	day := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	return testutil.NewGitRepo(t,
		testutil.Commit{When: day, Files: map[string]string{
			"cmd/main.go": "package main\n\nfunc main() {}\n",
			"README.md":   "# Fixture\n",
		}},
		testutil.Commit{When: day.AddDate(0, 0, 1), Files: map[string]string{
			"cmd/main.go": "package main\n\nfunc main() {\n\trun()\n}\n",
			"run.go":      "package main\n\nfunc run() {}\n",
		}},
		testutil.Commit{When: day.AddDate(0, 2, 0), Files: map[string]string{
			"cmd/main.go": "package main\n\nfunc main() {\n\trun()\n\tstop()\n}\n",
		}},
		testutil.Commit{When: day.AddDate(0, 5, 0), Files: map[string]string{
			"docs/notes.md": "notes\n",
		}, Deletes: []string{"run.go"}},
	)
}

// TestHotspotsMatchGitLog verifies each reported change count against git log.
func TestHotspotsMatchGitLog(t *testing.T) {
	repo := fixtureRepo(t)

	out, err := runGitpulse(t, nil, "hotspots", repo, "--output", "json")
	require.NoError(t, err)

	var hotspots []schema.HotspotEntry
	require.NoError(t, json.Unmarshal([]byte(out), &hotspots))
	require.NotEmpty(t, hotspots)
	assert.Equal(t, "cmd/main.go", hotspots[0].Path)
	assert.Equal(t, "cmd", hotspots[0].Directory)

	for _, h := range hotspots {
		t.Run(h.Path, func(t *testing.T) {
			gitOutput, err := exec.Command("git", "-C", repo, "log", "--oneline", "--", h.Path).Output()
			require.NoError(t, err)
			gitLines := strings.Split(strings.TrimSpace(string(gitOutput)), "\n")
			assert.Equal(t, len(gitLines), h.ChangeCount, "change count mismatch for %s", h.Path)
		})
	}
}

// TestAnalyzeJSONShape checks the top-level keys of the JSON document.
func TestAnalyzeJSONShape(t *testing.T) {
	repo := fixtureRepo(t)

	out, err := runGitpulse(t, nil, "analyze", repo, "--output", "json")
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Len(t, doc, 3)
	assert.Contains(t, doc, "hotspots")
	assert.Contains(t, doc, "file_tree")
	assert.Contains(t, doc, "survival_curves")

	var tree []schema.FileTreeEntry
	require.NoError(t, json.Unmarshal(doc["file_tree"], &tree))
	paths := make([]string, 0, len(tree))
	for _, f := range tree {
		paths = append(paths, f.Path)
	}
	assert.NotContains(t, paths, "run.go")
	assert.Contains(t, paths, "docs/notes.md")
}

// TestHistoryLifecycleSQLite records runs and manages them through the history commands.
func TestHistoryLifecycleSQLite(t *testing.T) {
	repo := fixtureRepo(t)
	dbPath := filepath.Join(t.TempDir(), "history.db")
	env := []string{
		"GITPULSE_HISTORY_BACKEND=sqlite",
		"GITPULSE_HISTORY_DB_CONNECT=" + dbPath,
	}

	for range 2 {
		_, err := runGitpulse(t, env, "analyze", repo, "--output", "csv")
		require.NoError(t, err)
	}
	assert.FileExists(t, dbPath)

	out, err := runGitpulse(t, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "History Backend: sqlite")
	assert.Contains(t, out, "Total Runs: 2")

	exportBase := filepath.Join(t.TempDir(), "export")
	_, err = runGitpulse(t, env, "history", "export", "--output-file", exportBase)
	require.NoError(t, err)
	assert.FileExists(t, exportBase+".runs.parquet")
	assert.FileExists(t, exportBase+".file_metrics.parquet")
	assert.FileExists(t, exportBase+".survival_samples.parquet")

	out, err = runGitpulse(t, env, "history", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "No migration needed")

	out, err = runGitpulse(t, env, "history", "migrate", "--target-version", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Successfully rolled back from version 3 to version 0")

	_, err = runGitpulse(t, env, "history", "clear")
	require.NoError(t, err)
	assert.NoFileExists(t, dbPath)
}

// TestCommandErrors covers argument and configuration failures.
func TestCommandErrors(t *testing.T) {
	_, err := runGitpulse(t, nil, "analyze")
	assert.Error(t, err)

	_, err = runGitpulse(t, nil, "hotspots", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	_, err = runGitpulse(t, []string{"GITPULSE_HISTORY_BACKEND=oracle"}, "history", "status")
	assert.Error(t, err)

	_, err = runGitpulse(t, nil, "churn", ".", "--limit", "5000")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := runGitpulse(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gitpulse CLI")
}
