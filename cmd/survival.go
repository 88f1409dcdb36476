package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// survivalCmd estimates how long code written in each quarter survives.
var survivalCmd = &cobra.Command{
	Use:   "survival <repo>",
	Short: "Estimate code survival per quarterly cohort",
	Long: `Group commits into calendar-quarter cohorts and sample, every four weeks, how many
of the lines a cohort introduced are still attributed to it by git blame.

Only the eight most recent cohorts are measured. Files that cannot be blamed at a
sample point are skipped.

Examples:
  # Use more blame workers on a large repository
  gitpulse survival . --workers 16`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSurvival(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run survival analysis", err)
		}
	},
}
