package core

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/huangsam/gitpulse/core/agg"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/schema"
	"golang.org/x/sync/errgroup"
)

// Survival sampling constants.
const (
	maxCohorts       = 8 // most recent quarters kept
	fractionDecimals = 1e4
)

const week = 7 * 24 * time.Hour

// cohort is the set of commits authored in one calendar quarter.
type cohort struct {
	quarter Quarter
	shas    map[string]struct{}
}

// AnalyzeSurvival builds one survival curve per recent quarterly cohort.
// Cohorts are sampled concurrently, bounded by workers.
func AnalyzeSurvival(ctx context.Context, client contract.GitClient, repoPath string, workers int) ([]schema.SurvivalCurve, error) {
	out, err := client.GetCommitLog(ctx, repoPath)
	if err != nil {
		return nil, fmt.Errorf("commit log: %w", err)
	}
	records := agg.ParseCommitRecords(out)
	cohorts := buildCohorts(records)
	curves := make([]schema.SurvivalCurve, len(cohorts))
	if len(cohorts) == 0 {
		return curves, nil
	}
	latest := latestCommit(records)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, c := range cohorts {
		g.Go(func() error {
			curve, err := surviveCohort(gctx, client, repoPath, c, latest)
			if err != nil {
				return fmt.Errorf("cohort %s: %w", c.quarter.Key(), err)
			}
			curves[i] = curve
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return curves, nil
}

// buildCohorts buckets commits by authored quarter and keeps the most
// recent maxCohorts quarters in ascending order.
func buildCohorts(records []schema.CommitRecord) []cohort {
	byQuarter := make(map[Quarter]map[string]struct{})
	for _, r := range records {
		q := QuarterOf(r.AuthoredAt)
		if byQuarter[q] == nil {
			byQuarter[q] = make(map[string]struct{})
		}
		byQuarter[q][r.SHA] = struct{}{}
	}

	quarters := make([]Quarter, 0, len(byQuarter))
	for q := range byQuarter {
		quarters = append(quarters, q)
	}
	slices.SortFunc(quarters, func(a, b Quarter) int {
		switch {
		case a.Before(b):
			return -1
		case b.Before(a):
			return 1
		}
		return 0
	})
	if len(quarters) > maxCohorts {
		quarters = quarters[len(quarters)-maxCohorts:]
	}

	cohorts := make([]cohort, len(quarters))
	for i, q := range quarters {
		cohorts[i] = cohort{quarter: q, shas: byQuarter[q]}
	}
	return cohorts
}

// latestCommit returns the newest authored instant in records.
func latestCommit(records []schema.CommitRecord) time.Time {
	var latest time.Time
	for _, r := range records {
		if r.AuthoredAt.After(latest) {
			latest = r.AuthoredAt
		}
	}
	return latest
}

// surviveCohort samples how much of the cohort's added code is still blamed on it.
func surviveCohort(ctx context.Context, client contract.GitClient, repoPath string, c cohort, latest time.Time) (schema.SurvivalCurve, error) {
	curve := schema.SurvivalCurve{
		Cohort: c.quarter.Key(),
		Data:   []schema.SurvivalSample{{WeeksElapsed: 0, SurvivingLines: 1.0}},
	}

	since, until := c.quarter.Window()
	out, err := client.GetNumstatLog(ctx, repoPath, since, until)
	if err != nil {
		return curve, fmt.Errorf("quarter log: %w", err)
	}
	totalAdded, touched := agg.SummarizeWindow(out)
	if totalAdded == 0 {
		return curve, nil
	}

	end := c.quarter.End()
	for weeks := schema.SurvivalStepWeeks; weeks <= schema.SurvivalMaxWeeks; weeks += schema.SurvivalStepWeeks {
		at := end.Add(time.Duration(weeks) * week)
		if at.After(latest) {
			break
		}
		rev, err := client.GetRevisionBefore(ctx, repoPath, at)
		if err != nil {
			return curve, fmt.Errorf("revision at %d weeks: %w", weeks, err)
		}
		if rev == "" {
			continue
		}
		matched, err := countSurvivingLines(ctx, client, repoPath, rev, touched, c.shas)
		if err != nil {
			return curve, err
		}
		curve.Data = append(curve.Data, schema.SurvivalSample{
			WeeksElapsed:   weeks,
			SurvivingLines: survivalFraction(matched, totalAdded),
		})
	}
	return curve, nil
}

// countSurvivingLines blames every touched path at rev and counts the lines owned
// by the cohort. A file whose blame fails is skipped. Cancellation of ctx is not.
func countSurvivingLines(ctx context.Context, client contract.GitClient, repoPath, rev string, paths []string, shas map[string]struct{}) (int, error) {
	matched := 0
	for _, path := range paths {
		out, err := client.GetBlamePorcelain(ctx, repoPath, rev, path)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		if err != nil {
			contract.LogDebug("Skipping blame", map[string]any{"path": path, "rev": rev, "error": err.Error()})
			continue
		}
		matched += agg.CountBlameMatches(out, shas)
	}
	return matched, nil
}

// survivalFraction is matched/total capped at 1 and rounded to four decimals.
func survivalFraction(matched, total int) float64 {
	if total <= 0 {
		return 1.0
	}
	f := math.Min(float64(matched)/float64(total), 1.0)
	return math.Round(f*fractionDecimals) / fractionDecimals
}
