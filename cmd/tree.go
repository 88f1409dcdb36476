package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// treeCmd reports size and churn for files at HEAD.
var treeCmd = &cobra.Command{
	Use:   "tree <repo>",
	Short: "Show lines of code and lifetime churn for files at HEAD",
	Long: `Measure every text file present at HEAD and merge in its lifetime churn.

Binary files count as zero lines. Churn is additions plus deletions over all
commits, so volatile files stand out even when they are small.

Examples:
  # CSV for a spreadsheet
  gitpulse tree . --output csv --output-file tree.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFileTree(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run file tree analysis", err)
		}
	},
}
