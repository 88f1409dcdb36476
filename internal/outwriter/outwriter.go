// Package outwriter renders analysis results as text tables, CSV, JSON or Parquet.
package outwriter

import (
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
	"golang.org/x/term"
)

// Path column bounds for table output.
const (
	minPathWidth     = 15
	maxPathWidth     = 70
	defaultTermWidth = 80 // Conservative default for narrow terminals and CI
	tableOverhead    = 20 // Borders, separators and padding
)

// getMaxTablePathWidth calculates the maximum width for file paths in table output
// based on terminal width and the space taken by the other columns.
func getMaxTablePathWidth(cfg *contract.Config, otherColumns int) int {
	termWidth := cfg.Width
	if termWidth <= 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = defaultTermWidth
		} else {
			termWidth = detectedWidth
		}
	}

	available := termWidth - otherColumns - tableOverhead
	return min(max(available, minPathWidth), maxPathWidth)
}
