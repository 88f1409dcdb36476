package core

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// AnalyzeHotspots counts how many commits touched each path over the full history.
func AnalyzeHotspots(ctx context.Context, client contract.GitClient, repoPath string) ([]schema.HotspotEntry, error) {
	out, err := client.GetNameOnlyLog(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("hotspot log: %w", err)
	}
	counts, order := agg.CountPathTouches(out)
	return rankHotspots(counts, order), nil
}

// rankHotspots orders entries by count descending. The stable sort over
// first-seen order makes that order the tie-break.
func rankHotspots(counts map[string]int, order []string) []schema.HotspotEntry {
	entries := make([]schema.HotspotEntry, 0, len(order))
	for _, path := range order {
		entries = append(entries, schema.HotspotEntry{
			Path:        path,
			ChangeCount: counts[path],
			Directory:   topLevelDirectory(path),
		})
	}
	slices.SortStableFunc(entries, func(a, b schema.HotspotEntry) int {
		return b.ChangeCount - a.ChangeCount
	})
	return entries
}

// topLevelDirectory returns the first path segment, or "" for root files.
func topLevelDirectory(path string) string {
	dir, _, found := strings.Cut(path, "/")
	if !found {
		return ""
	}
	return dir
}
