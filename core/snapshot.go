package core

import (
	"context"
	"fmt"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// AnalyzeFileTree sizes every file at HEAD by diffing the empty tree against it.
// Binary files report 0 lines. Churn is left for the orchestrator to fill.
func AnalyzeFileTree(ctx context.Context, client contract.GitClient, repoPath string) ([]schema.FileTreeEntry, error) {
	emptyTree, err := client.GetEmptyTreeHash(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("empty tree hash: %w", err)
	}
	out, err := client.GetTreeNumstat(ctx, repoPath, emptyTree, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("snapshot diff: %w", err)
	}
	changes := agg.ParseNumstat(out)
	entries := make([]schema.FileTreeEntry, 0, len(changes))
	for _, fc := range changes {
		entries = append(entries, schema.FileTreeEntry{Path: fc.Path, LOC: fc.Additions})
	}
	return entries, nil
}

// mergeChurn fills each file tree entry with the churn total of the same path.
// Paths without churn data keep 0.
func mergeChurn(tree []schema.FileTreeEntry, churn []schema.ChurnEntry) {
	totals := make(map[string]int, len(churn))
	for _, c := range churn {
		totals[c.Path] = c.Total()
	}
	for i := range tree {
		tree[i].Churn = totals[tree[i].Path]
	}
}
