// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// GitClient defines the git operations needed by the analyzers.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command against repoPath and returns its standard output.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// --- Workspace ---

	// CloneBare makes a history-only clone of source into dest.
	CloneBare(ctx context.Context, source, dest string) error

	// --- History Logs ---

	// GetNameOnlyLog returns the paths touched by every commit, one header line per commit.
	GetNameOnlyLog(ctx context.Context, repoPath string) ([]byte, error)

	// GetNumstatLog returns per-commit numstat output. Zero times leave the range open.
	GetNumstatLog(ctx context.Context, repoPath string, since, until time.Time) ([]byte, error)

	// GetCommitLog returns "sha|author-date" lines for the full history.
	GetCommitLog(ctx context.Context, repoPath string) ([]byte, error)

	// --- Snapshots / Attribution ---

	// GetEmptyTreeHash returns the object id of the empty tree.
	GetEmptyTreeHash(ctx context.Context, repoPath string) (string, error)

	// GetTreeNumstat returns the numstat diff between two tree-ish references.
	GetTreeNumstat(ctx context.Context, repoPath string, baseRef, targetRef string) ([]byte, error)

	// GetRevisionBefore returns the newest commit at or before the given instant,
	// or an empty string when no such commit exists.
	GetRevisionBefore(ctx context.Context, repoPath string, at time.Time) (string, error)

	// GetBlamePorcelain returns the porcelain blame of path at rev.
	GetBlamePorcelain(ctx context.Context, repoPath string, rev string, path string) ([]byte, error)
}

// HistoryManager defines the interface for reaching the run history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking analysis runs and their results.
type HistoryStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(startTime time.Time, source string, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, totalFiles int) error

	// RecordFileMetrics stores the per-file results of a run
	RecordFileMetrics(runID int64, metrics []schema.FileMetrics) error

	// RecordSurvivalCurves stores every sample of every cohort curve of a run
	RecordSurvivalCurves(runID int64, curves []schema.SurvivalCurve) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves every recorded run
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllFileMetrics retrieves every recorded file metric row
	GetAllFileMetrics() ([]schema.FileMetricsRecord, error)

	// GetAllSurvivalSamples retrieves every recorded survival sample row
	GetAllSurvivalSamples() ([]schema.SurvivalSampleRecord, error)

	// Close closes the underlying connection
	Close() error
}
