package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/parquet"
	"github.com/huangsam/gitpulse/schema"
)

// analysisHeader describes the long CSV format that holds all three collections.
var analysisHeader = []string{"section", "key", "field", "value"}

// Section names used by the long CSV format and the Parquet file names.
const (
	hotspotsSection = "hotspots"
	fileTreeSection = "file_tree"
	survivalSection = "survival_curves"
)

// WriteAnalysis outputs a full analysis result, dispatching based on the output format configured.
func WriteAnalysis(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	normalized := normalizeAnalysis(result)
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, normalized)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, analysisHeader, func(cw *csv.Writer) error {
				return writeAnalysisRecords(cw, normalized)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeAnalysisParquet(normalized, cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTables(w, normalized, cfg, duration)
		}, "Wrote tables")
	}
}

// normalizeAnalysis replaces nil collections so JSON always carries arrays.
func normalizeAnalysis(result *schema.AnalysisResult) *schema.AnalysisResult {
	out := schema.AnalysisResult{}
	if result != nil {
		out = *result
	}
	if out.Hotspots == nil {
		out.Hotspots = []schema.HotspotEntry{}
	}
	if out.FileTree == nil {
		out.FileTree = []schema.FileTreeEntry{}
	}
	curves := make([]schema.SurvivalCurve, len(out.SurvivalCurves))
	for i, c := range out.SurvivalCurves {
		if c.Data == nil {
			c.Data = []schema.SurvivalSample{}
		}
		curves[i] = c
	}
	out.SurvivalCurves = curves
	return &out
}

// writeAnalysisRecords writes every collection as (section, key, field, value) rows.
func writeAnalysisRecords(w *csv.Writer, result *schema.AnalysisResult) error {
	var records [][]string
	for _, h := range result.Hotspots {
		records = append(records,
			[]string{hotspotsSection, h.Path, "change_count", strconv.Itoa(h.ChangeCount)},
			[]string{hotspotsSection, h.Path, "directory", h.Directory},
		)
	}
	for _, f := range result.FileTree {
		records = append(records,
			[]string{fileTreeSection, f.Path, "loc", strconv.Itoa(f.LOC)},
			[]string{fileTreeSection, f.Path, "churn", strconv.Itoa(f.Churn)},
		)
	}
	for _, c := range result.SurvivalCurves {
		for _, s := range c.Data {
			field := "weeks_" + strconv.Itoa(s.WeeksElapsed)
			records = append(records, []string{survivalSection, c.Cohort, field, formatFraction(s.SurvivingLines)})
		}
	}
	return w.WriteAll(records)
}

// writeAnalysisParquet writes one Parquet file per collection next to outputFile.
func writeAnalysisParquet(result *schema.AnalysisResult, outputFile string) error {
	hotspotsPath := parquetPath(outputFile, hotspotsSection)
	if err := parquet.WriteHotspotsParquet(result.Hotspots, hotspotsPath); err != nil {
		return fmt.Errorf("error writing %s: %w", hotspotsPath, err)
	}
	treePath := parquetPath(outputFile, fileTreeSection)
	if err := parquet.WriteFileTreeParquet(result.FileTree, treePath); err != nil {
		return fmt.Errorf("error writing %s: %w", treePath, err)
	}
	survivalPath := parquetPath(outputFile, survivalSection)
	if err := parquet.WriteSurvivalParquet(result.SurvivalCurves, survivalPath); err != nil {
		return fmt.Errorf("error writing %s: %w", survivalPath, err)
	}
	return nil
}

// writeAnalysisTables prints the three collections one after another.
func writeAnalysisTables(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	sections := []struct {
		title  string
		render func() error
	}{
		{"Hotspots", func() error { return writeHotspotTable(w, result.Hotspots, cfg) }},
		{"File tree", func() error { return writeFileTreeTable(w, result.FileTree, cfg) }},
		{"Survival curves", func() error { return writeSurvivalTable(w, result.SurvivalCurves, cfg) }},
	}
	for _, s := range sections {
		if _, err := fmt.Fprintf(w, "\n%s\n", s.title); err != nil {
			return err
		}
		if err := s.render(); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis of %s completed in %v with %d workers.\n", cfg.Source, duration.Round(time.Millisecond), cfg.Workers)
	return err
}
