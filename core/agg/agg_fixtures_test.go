package agg

import (
	"fmt"
	"strings"
)

// numstatCommit represents a single commit scenario for test data generation.
type numstatCommit struct {
	sha   string
	files []fileChange
}

// fileChange represents a single numstat row in a commit.
type fileChange struct {
	path      string
	additions string
	deletions string
}

// fakeSHA builds a deterministic 40-hex object name from a small seed.
func fakeSHA(seed int) string {
	return fmt.Sprintf("%040x", seed)
}

// generateTestNumstatLog creates a "log --numstat --pretty=format:--%H" fixture.
func generateTestNumstatLog(commits []numstatCommit) []byte {
	var lines []string
	for _, c := range commits {
		lines = append(lines, "--"+c.sha)
		for _, f := range c.files {
			lines = append(lines, fmt.Sprintf("%s\t%s\t%s", f.additions, f.deletions, f.path))
		}
		lines = append(lines, "") // Empty line between commits
	}
	return []byte(strings.Join(lines, "\n"))
}

// generateTestNameOnlyLog creates a "log --name-only --pretty=format:--%H" fixture.
func generateTestNameOnlyLog(commits map[string][]string, order []string) []byte {
	var lines []string
	for _, sha := range order {
		lines = append(lines, "--"+sha)
		lines = append(lines, commits[sha]...)
		lines = append(lines, "")
	}
	return []byte(strings.Join(lines, "\n"))
}

// generateTestBlame creates minimal "blame --porcelain" output where each entry
// in owners attributes one line to that SHA.
func generateTestBlame(owners []string) []byte {
	var b strings.Builder
	seen := make(map[string]bool)
	for i, sha := range owners {
		fmt.Fprintf(&b, "%s %d %d 1\n", sha, i+1, i+1)
		if !seen[sha] {
			seen[sha] = true
			b.WriteString("author Test User\n")
			b.WriteString("author-mail <test@example.com>\n")
			b.WriteString("summary a commit\n")
			if i == 0 {
				b.WriteString("previous " + fakeSHA(999) + " old.py\n")
			}
			b.WriteString("filename main.py\n")
		}
		fmt.Fprintf(&b, "\tline %d\n", i+1)
	}
	return []byte(b.String())
}
