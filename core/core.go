// Package core has the repository analyzers and the entry points that run them.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/outwriter"
	"github.com/huangsam/gitpulse/schema"
	"golang.org/x/sync/errgroup"
)

// ExecutorFunc defines the function signature for executing the different analysis views.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error

// ExecuteAnalyze runs the full analysis, records it in the run history when enabled
// and writes hotspots, file tree and survival curves.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	return executeAnalyze(ctx, cfg, contract.NewLocalGitClient(), mgr)
}

func executeAnalyze(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.HistoryManager) error {
	start := time.Now()
	ctx = beginRun(ctx, cfg, mgr, start)

	result, err := AnalyzeRepo(ctx, cfg, client)
	if err != nil {
		return err
	}
	recordRun(ctx, mgr, result)

	view := &schema.AnalysisResult{
		Hotspots:       limitRows(cfg, filterRows(cfg, result.Hotspots, hotspotPath)),
		FileTree:       limitRows(cfg, filterRows(cfg, result.FileTree, treePath)),
		SurvivalCurves: result.SurvivalCurves,
		Churn:          result.Churn,
	}
	return outwriter.WriteAnalysis(view, cfg, time.Since(start))
}

// ExecuteHotspots runs the hotspot analyzer only.
func ExecuteHotspots(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return executeHotspots(ctx, cfg, contract.NewLocalGitClient())
}

func executeHotspots(ctx context.Context, cfg *contract.Config, client contract.GitClient) error {
	start := time.Now()
	var entries []schema.HotspotEntry
	err := withWorkspace(ctx, cfg, client, func(root string) (err error) {
		entries, err = AnalyzeHotspots(ctx, client, root)
		return err
	})
	if err != nil {
		return err
	}
	entries = limitRows(cfg, filterRows(cfg, entries, hotspotPath))
	return outwriter.WriteHotspots(entries, cfg, time.Since(start))
}

// ExecuteFileTree sizes the files at HEAD and merges their churn.
func ExecuteFileTree(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return executeFileTree(ctx, cfg, contract.NewLocalGitClient())
}

func executeFileTree(ctx context.Context, cfg *contract.Config, client contract.GitClient) error {
	start := time.Now()
	var (
		tree  []schema.FileTreeEntry
		churn []schema.ChurnEntry
	)
	err := withWorkspace(ctx, cfg, client, func(root string) error {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			tree, err = AnalyzeFileTree(gctx, client, root)
			return err
		})
		g.Go(func() (err error) {
			churn, err = AnalyzeChurn(gctx, client, root)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return err
	}
	mergeChurn(tree, churn)
	tree = limitRows(cfg, filterRows(cfg, tree, treePath))
	return outwriter.WriteFileTree(tree, cfg, time.Since(start))
}

// ExecuteChurn runs the churn analyzer only.
func ExecuteChurn(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return executeChurn(ctx, cfg, contract.NewLocalGitClient())
}

func executeChurn(ctx context.Context, cfg *contract.Config, client contract.GitClient) error {
	start := time.Now()
	var entries []schema.ChurnEntry
	err := withWorkspace(ctx, cfg, client, func(root string) (err error) {
		entries, err = AnalyzeChurn(ctx, client, root)
		return err
	})
	if err != nil {
		return err
	}
	entries = limitRows(cfg, filterRows(cfg, entries, churnPath))
	return outwriter.WriteChurn(entries, cfg, time.Since(start))
}

// ExecuteSurvival runs the survival analyzer only.
func ExecuteSurvival(ctx context.Context, cfg *contract.Config, _ contract.HistoryManager) error {
	return executeSurvival(ctx, cfg, contract.NewLocalGitClient())
}

func executeSurvival(ctx context.Context, cfg *contract.Config, client contract.GitClient) error {
	start := time.Now()
	var curves []schema.SurvivalCurve
	err := withWorkspace(ctx, cfg, client, func(root string) (err error) {
		curves, err = AnalyzeSurvival(ctx, client, root, cfg.Workers)
		return err
	})
	if err != nil {
		return err
	}
	return outwriter.WriteSurvival(curves, cfg, time.Since(start))
}

// withWorkspace acquires a clone of cfg.Source, runs fn against it and releases it.
func withWorkspace(ctx context.Context, cfg *contract.Config, client contract.GitClient, fn func(root string) error) error {
	ws, err := AcquireWorkspace(ctx, client, cfg.Source)
	if err != nil {
		return err
	}
	defer func() {
		if err := ws.Release(); err != nil {
			contract.LogWarn("Failed to remove workspace", err)
		}
	}()
	if err := fn(ws.Root); err != nil {
		return fmt.Errorf("analysis of %s failed: %w", cfg.Source, err)
	}
	return nil
}

func hotspotPath(e schema.HotspotEntry) string { return e.Path }
func treePath(e schema.FileTreeEntry) string { return e.Path }
func churnPath(e schema.ChurnEntry) string { return e.Path }

// filterRows drops rows whose path matches one of cfg.Excludes.
func filterRows[T any](cfg *contract.Config, rows []T, path func(T) string) []T {
	if len(cfg.Excludes) == 0 {
		return rows
	}
	kept := make([]T, 0, len(rows))
	for _, r := range rows {
		if !contract.ShouldIgnore(path(r), cfg.Excludes) {
			kept = append(kept, r)
		}
	}
	return kept
}

// limitRows keeps the first cfg.ResultLimit rows. A limit of 0 keeps everything.
func limitRows[T any](cfg *contract.Config, rows []T) []T {
	if cfg.ResultLimit <= 0 || len(rows) <= cfg.ResultLimit {
		return rows
	}
	return rows[:cfg.ResultLimit]
}
