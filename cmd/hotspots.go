package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// hotspotsCmd ranks files by change frequency.
var hotspotsCmd = &cobra.Command{
	Use:   "hotspots <repo>",
	Short: "Rank files by how many commits touched them",
	Long: `Count the commits that touched each path across the entire history.

Ties are broken by path so output is stable between runs. Paths that have since
been deleted still appear, since they were part of the history.

Examples:
  # Top 20 hotspots
  gitpulse hotspots . --limit 20

  # Ignore vendored code and lock files
  gitpulse hotspots . --exclude vendor/,*.lock`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteHotspots(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run hotspot analysis", err)
		}
	},
}
