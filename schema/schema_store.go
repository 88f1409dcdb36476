package schema

import "time"

// FileMetrics is the per-file row recorded for an analysis run.
type FileMetrics struct {
	Path        string
	ChangeCount int
	LOC         int
	Churn       int
}

// RunRecord represents a row from the gitpulse_runs table.
type RunRecord struct {
	RunID              int64
	Source             string
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int32
	TotalFilesAnalyzed int32
	ConfigParams       *string
}

// FileMetricsRecord represents a row from the gitpulse_file_metrics table.
type FileMetricsRecord struct {
	RunID       int64
	FilePath    string
	ChangeCount int32
	LOC         int32
	Churn       int32
}

// SurvivalSampleRecord represents a row from the gitpulse_survival_samples table.
type SurvivalSampleRecord struct {
	RunID          int64
	Cohort         string
	WeeksElapsed   int32
	SurvivingLines float64
}
