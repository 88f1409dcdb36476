// Package parquet provides row types and writers for exporting gitpulse
// results and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/gitpulse/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents one recorded analysis run.
// This struct maps to the gitpulse_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Source is the path or URL that was analyzed
	Source string `parquet:"source,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalFilesAnalyzed is the number of files present at HEAD
	TotalFilesAnalyzed int32 `parquet:"total_files_analyzed,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileMetric is one file row of a recorded run.
// This struct maps to the gitpulse_file_metrics database table.
type FileMetric struct {
	RunID       int64  `parquet:"run_id,snappy"`
	FilePath    string `parquet:"file_path,snappy"`
	ChangeCount int32  `parquet:"change_count,snappy"`
	LOC         int32  `parquet:"loc,snappy"`
	Churn       int32  `parquet:"churn,snappy"`
}

// SurvivalSample is one curve point of a recorded run.
// This struct maps to the gitpulse_survival_samples database table.
type SurvivalSample struct {
	RunID          int64   `parquet:"run_id,snappy"`
	Cohort         string  `parquet:"cohort,snappy"`
	WeeksElapsed   int32   `parquet:"weeks_elapsed,snappy"`
	SurvivingLines float64 `parquet:"surviving_lines,snappy"`
}

// Hotspot is a row of hotspot output.
type Hotspot struct {
	Path        string `parquet:"path,snappy"`
	ChangeCount int64  `parquet:"change_count,snappy"`
	Directory   string `parquet:"directory,snappy"`
}

// FileTree is a row of file tree output.
type FileTree struct {
	Path  string `parquet:"path,snappy"`
	LOC   int64  `parquet:"loc,snappy"`
	Churn int64  `parquet:"churn,snappy"`
}

// Churn is a row of churn output.
type Churn struct {
	Path      string `parquet:"path,snappy"`
	Additions int64  `parquet:"additions,snappy"`
	Deletions int64  `parquet:"deletions,snappy"`
	Total     int64  `parquet:"total,snappy"`
}

// SurvivalPoint is a flattened survival curve sample.
type SurvivalPoint struct {
	Cohort         string  `parquet:"cohort,snappy"`
	WeeksElapsed   int64   `parquet:"weeks_elapsed,snappy"`
	SurvivingLines float64 `parquet:"surviving_lines,snappy"`
}

// writeRows writes rows to outputPath with a schema inferred from T's struct tags.
func writeRows[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer, so its error matters
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteRunsParquet writes run history rows to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteFileMetricsParquet writes per-file run history rows to a Parquet file.
func WriteFileMetricsParquet(data []FileMetric, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteSurvivalSamplesParquet writes survival sample history rows to a Parquet file.
func WriteSurvivalSamplesParquet(data []SurvivalSample, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteHotspotsParquet writes hotspot entries to a Parquet file.
func WriteHotspotsParquet(entries []schema.HotspotEntry, outputPath string) error {
	rows := make([]Hotspot, len(entries))
	for i, e := range entries {
		rows[i] = Hotspot{Path: e.Path, ChangeCount: int64(e.ChangeCount), Directory: e.Directory}
	}
	return writeRows(rows, outputPath)
}

// WriteFileTreeParquet writes file tree entries to a Parquet file.
func WriteFileTreeParquet(entries []schema.FileTreeEntry, outputPath string) error {
	rows := make([]FileTree, len(entries))
	for i, e := range entries {
		rows[i] = FileTree{Path: e.Path, LOC: int64(e.LOC), Churn: int64(e.Churn)}
	}
	return writeRows(rows, outputPath)
}

// WriteChurnParquet writes churn entries to a Parquet file.
func WriteChurnParquet(entries []schema.ChurnEntry, outputPath string) error {
	rows := make([]Churn, len(entries))
	for i, e := range entries {
		rows[i] = Churn{
			Path:      e.Path,
			Additions: int64(e.Additions),
			Deletions: int64(e.Deletions),
			Total:     int64(e.Total()),
		}
	}
	return writeRows(rows, outputPath)
}

// WriteSurvivalParquet flattens survival curves into one row per sample.
func WriteSurvivalParquet(curves []schema.SurvivalCurve, outputPath string) error {
	var rows []SurvivalPoint
	for _, c := range curves {
		for _, s := range c.Data {
			rows = append(rows, SurvivalPoint{
				Cohort:         c.Cohort,
				WeeksElapsed:   int64(s.WeeksElapsed),
				SurvivingLines: s.SurvivingLines,
			})
		}
	}
	return writeRows(rows, outputPath)
}

// RunsFromRecords converts stored run records to Parquet rows.
func RunsFromRecords(records []schema.RunRecord) []Run {
	rows := make([]Run, len(records))
	for i, r := range records {
		rows[i] = Run{
			RunID:              r.RunID,
			Source:             r.Source,
			StartTime:          r.StartTime,
			EndTime:            r.EndTime,
			RunDurationMs:      r.RunDurationMs,
			TotalFilesAnalyzed: r.TotalFilesAnalyzed,
			ConfigParams:       r.ConfigParams,
		}
	}
	return rows
}

// FileMetricsFromRecords converts stored file metric records to Parquet rows.
func FileMetricsFromRecords(records []schema.FileMetricsRecord) []FileMetric {
	rows := make([]FileMetric, len(records))
	for i, r := range records {
		rows[i] = FileMetric{
			RunID:       r.RunID,
			FilePath:    r.FilePath,
			ChangeCount: r.ChangeCount,
			LOC:         r.LOC,
			Churn:       r.Churn,
		}
	}
	return rows
}

// SurvivalSamplesFromRecords converts stored survival sample records to Parquet rows.
func SurvivalSamplesFromRecords(records []schema.SurvivalSampleRecord) []SurvivalSample {
	rows := make([]SurvivalSample, len(records))
	for i, r := range records {
		rows[i] = SurvivalSample{
			RunID:          r.RunID,
			Cohort:         r.Cohort,
			WeeksElapsed:   r.WeeksElapsed,
			SurvivingLines: r.SurvivingLines,
		}
	}
	return rows
}
