package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// beginRun opens a history run when tracking is configured and stores its ID in ctx.
// Tracking failures only produce warnings.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager, start time.Time) context.Context {
	if mgr == nil {
		return ctx
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return ctx
	}
	configParams := map[string]any{
		"source":       cfg.Source,
		"workers":      cfg.Workers,
		"result_limit": cfg.ResultLimit,
		"excludes":     cfg.Excludes,
	}
	runID, err := store.BeginRun(start, cfg.Source, configParams)
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return ctx
	}
	return withRunID(ctx, runID)
}

// recordRun stores the unfiltered results of a run and closes it.
func recordRun(ctx context.Context, mgr contract.HistoryManager, result *schema.AnalysisResult) {
	runID, ok := getRunID(ctx)
	if !ok || mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	metrics := buildFileMetrics(result)
	if err := store.RecordFileMetrics(runID, metrics); err != nil {
		contract.LogWarn("Failed to record file metrics", err)
	}
	if err := store.RecordSurvivalCurves(runID, result.SurvivalCurves); err != nil {
		contract.LogWarn("Failed to record survival curves", err)
	}
	if err := store.EndRun(runID, time.Now(), len(metrics)); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
		return
	}
	contract.LogInfo("Run recorded", map[string]any{"run_id": runID, "files": len(metrics)})
}

// buildFileMetrics joins hotspot counts onto the files present at HEAD.
func buildFileMetrics(result *schema.AnalysisResult) []schema.FileMetrics {
	counts := make(map[string]int, len(result.Hotspots))
	for _, h := range result.Hotspots {
		counts[h.Path] = h.ChangeCount
	}
	metrics := make([]schema.FileMetrics, 0, len(result.FileTree))
	for _, f := range result.FileTree {
		metrics = append(metrics, schema.FileMetrics{
			Path:        f.Path,
			ChangeCount: counts[f.Path],
			LOC:         f.LOC,
			Churn:       f.Churn,
		})
	}
	return metrics
}
