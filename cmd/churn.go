package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// churnCmd reports added and deleted lines per path.
var churnCmd = &cobra.Command{
	Use:   "churn <repo>",
	Short: "Show lifetime additions and deletions per path",
	Long: `Sum the lines added and deleted for each path across the entire history.

Results are ordered by total churn, highest first.

Examples:
  gitpulse churn . --limit 10`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChurn(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run churn analysis", err)
		}
	},
}
