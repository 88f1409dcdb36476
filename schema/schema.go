// Package schema has the models shared by all parts of gitpulse.
package schema

import "time"

// CommitRecord is one commit from a full history walk.
type CommitRecord struct {
	SHA        string    // Full 40-hex commit hash
	AuthoredAt time.Time // Author date, keeps the author's UTC offset
}

// FileChange is a single numstat line: lines added and deleted for one path.
type FileChange struct {
	Path      string
	Additions int
	Deletions int
}

// HotspotEntry counts how many commits touched a path across full history.
type HotspotEntry struct {
	Path        string `json:"path"`
	ChangeCount int    `json:"change_count"`
	Directory   string `json:"directory"` // Top-level path segment, empty for root files
}

// FileTreeEntry is the current size of a file together with its lifetime churn.
type FileTreeEntry struct {
	Path  string `json:"path"`
	LOC   int    `json:"loc"`
	Churn int    `json:"churn"`
}

// ChurnEntry sums additions and deletions for a path over full history.
type ChurnEntry struct {
	Path      string `json:"path"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// Total returns additions plus deletions.
func (c ChurnEntry) Total() int {
	return c.Additions + c.Deletions
}

// SurvivalSample is the fraction of a cohort's added lines still attributed to it
// a number of weeks after the cohort's quarter ended.
type SurvivalSample struct {
	WeeksElapsed   int     `json:"weeks_elapsed"`
	SurvivingLines float64 `json:"surviving_lines"`
}

// SurvivalCurve is the ordered sample sequence for one quarterly cohort.
type SurvivalCurve struct {
	Cohort string           `json:"cohort"`
	Data   []SurvivalSample `json:"data"`
}

// AnalysisResult is everything a full analysis run produces.
// Churn is kept for the churn view and is not part of the JSON contract.
type AnalysisResult struct {
	Hotspots       []HotspotEntry  `json:"hotspots"`
	FileTree       []FileTreeEntry `json:"file_tree"`
	SurvivalCurves []SurvivalCurve `json:"survival_curves"`
	Churn          []ChurnEntry    `json:"-"`
}
