package core

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
)

// AnalyzeChurn sums additions and deletions per path across the full history.
// Paths are taken exactly as git reports them, renames included.
func AnalyzeChurn(ctx context.Context, client contract.GitClient, repoPath string) ([]schema.ChurnEntry, error) {
	out, err := client.GetNumstatLog(ctx, repoPath, time.Time{}, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("churn log: %w", err)
	}
	entries := agg.AggregateChurn(out)
	slices.SortStableFunc(entries, func(a, b schema.ChurnEntry) int {
		return b.Total() - a.Total()
	})
	return entries, nil
}
