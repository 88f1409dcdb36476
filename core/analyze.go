package core

import (
	"context"
	"time"

	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"golang.org/x/sync/errgroup"
)

// AnalyzeRepo clones cfg.Source and runs the four analyzers against the clone concurrently.
// The clone is removed on every exit path. Any analyzer failure fails the whole run.
func AnalyzeRepo(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.AnalysisResult, error) {
	start := time.Now()
	contract.LogDebug("Analysis started", map[string]any{"source": cfg.Source, "workers": cfg.Workers})

	ws, err := AcquireWorkspace(ctx, client, cfg.Source)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Release(); err != nil {
			contract.LogWarn("Failed to remove workspace", err)
		}
	}()

	var (
		hotspots []schema.HotspotEntry
		tree     []schema.FileTreeEntry
		churn    []schema.ChurnEntry
		curves   []schema.SurvivalCurve
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		hotspots, err = AnalyzeHotspots(gctx, client, ws.Root)
		return err
	})
	g.Go(func() (err error) {
		tree, err = AnalyzeFileTree(gctx, client, ws.Root)
		return err
	})
	g.Go(func() (err error) {
		churn, err = AnalyzeChurn(gctx, client, ws.Root)
		return err
	})
	g.Go(func() (err error) {
		curves, err = AnalyzeSurvival(gctx, client, ws.Root, cfg.Workers)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mergeChurn(tree, churn)

	contract.LogDebug("Analysis finished", map[string]any{
		"source":   cfg.Source,
		"files":    len(tree),
		"cohorts":  len(curves),
		"duration": time.Since(start).String(),
	})
	return &schema.AnalysisResult{
		Hotspots:       hotspots,
		FileTree:       tree,
		SurvivalCurves: curves,
		Churn:          churn,
	}, nil
}
