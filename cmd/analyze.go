package cmd

import (
	"github.com/huangsam/gitpulse/core"
	"github.com/huangsam/gitpulse/internal/contract"
	"github.com/huangsam/gitpulse/internal/iostore"
	"github.com/spf13/cobra"
)

// analyzeCmd runs every analyzer against one repository.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo>",
	Short: "Run the full analysis: hotspots, file tree and survival curves",
	Long: `Clone the repository into a scratch directory and run all analyzers concurrently.

Reports:
- Hotspots - files ranked by the number of commits that touched them
- File tree - lines of code at HEAD with lifetime churn per file
- Survival curves - fraction of each quarter's new lines still present over time

The repository may be a local path or any URL that git clone understands.
When --history-backend is set, the unfiltered results are recorded as a run.

Examples:
  # Analyze the current repository
  gitpulse analyze .

  # JSON output for a remote repository
  gitpulse analyze https://github.com/spf13/cobra.git --output json

  # Record the run in a local SQLite history
  gitpulse analyze . --history-backend sqlite`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg, iostore.Manager); err != nil {
			contract.LogFatal("Cannot run repository analysis", err)
		}
	},
}
