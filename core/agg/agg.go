// Package agg has tolerant parsers that turn raw git output into aggregates.
package agg

import (
	"bytes"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/gitpulse/schema"
)

// commitMarker prefixes the commit header lines of the log formats gitpulse requests.
const commitMarker = "--"

// shaLength is the length of a full hex object name.
const shaLength = 40

// splitLines yields the trimmed lines of git output, dropping carriage returns.
func splitLines(out []byte) []string {
	lines := strings.Split(string(bytes.ReplaceAll(out, []byte("\r"), nil)), "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return lines
}

// isCommitHeader reports whether a log line is a "--<sha>" header.
func isCommitHeader(line string) bool {
	return strings.HasPrefix(line, commitMarker) && IsFullSHA(line[len(commitMarker):])
}

// IsFullSHA reports whether s is exactly 40 lowercase or uppercase hex digits.
func IsFullSHA(s string) bool {
	if len(s) != shaLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}

// CountPathTouches parses "log --name-only --pretty=format:--%H" output.
// A path counts once per commit. The returned order lists paths by first appearance.
func CountPathTouches(out []byte) (map[string]int, []string) {
	counts := make(map[string]int)
	var order []string
	seenInCommit := make(map[string]struct{})

	for _, l := range splitLines(out) {
		if l == "" {
			continue
		}
		if isCommitHeader(l) {
			clear(seenInCommit)
			continue
		}
		if _, dup := seenInCommit[l]; dup {
			continue
		}
		seenInCommit[l] = struct{}{}
		if _, ok := counts[l]; !ok {
			order = append(order, l)
		}
		counts[l]++
	}
	return counts, order
}

// ParseNumstatLine parses one "<added>\t<deleted>\t<path>" line.
// A "-" count (binary file) is 0. Anything else that is not a count rejects the line.
func ParseNumstatLine(line string) (schema.FileChange, bool) {
	parts := strings.SplitN(line, "\t", 3)
	if len(parts) < 3 || parts[2] == "" {
		return schema.FileChange{}, false
	}
	add, ok := parseChurnValue(parts[0])
	if !ok {
		return schema.FileChange{}, false
	}
	del, ok := parseChurnValue(parts[1])
	if !ok {
		return schema.FileChange{}, false
	}
	return schema.FileChange{Path: parts[2], Additions: add, Deletions: del}, true
}

// parseChurnValue converts a numstat count, handling "-" as 0.
func parseChurnValue(s string) (int, bool) {
	if s == "-" {
		return 0, true
	}
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// ParseNumstat returns every well-formed numstat line in out.
// Commit headers and blank lines are skipped, so it accepts both
// "diff --numstat" and "log --numstat" output.
func ParseNumstat(out []byte) []schema.FileChange {
	var changes []schema.FileChange
	for _, l := range splitLines(out) {
		if l == "" || isCommitHeader(l) {
			continue
		}
		if fc, ok := ParseNumstatLine(l); ok {
			changes = append(changes, fc)
		}
	}
	return changes
}

// AggregateChurn sums additions and deletions per path exactly as git reports it.
// Entries come back in first-seen order.
func AggregateChurn(out []byte) []schema.ChurnEntry {
	index := make(map[string]int)
	var entries []schema.ChurnEntry
	for _, fc := range ParseNumstat(out) {
		i, ok := index[fc.Path]
		if !ok {
			i = len(entries)
			index[fc.Path] = i
			entries = append(entries, schema.ChurnEntry{Path: fc.Path})
		}
		entries[i].Additions += fc.Additions
		entries[i].Deletions += fc.Deletions
	}
	return entries
}

// ParseCommitRecords parses "log --pretty=format:%H|%aI" output.
// Lines without a full SHA or a strict ISO 8601 date are skipped.
func ParseCommitRecords(out []byte) []schema.CommitRecord {
	var records []schema.CommitRecord
	for _, l := range splitLines(out) {
		sha, dateStr, ok := strings.Cut(strings.TrimSpace(l), "|")
		if !ok || !IsFullSHA(sha) {
			continue
		}
		at, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			continue
		}
		records = append(records, schema.CommitRecord{SHA: sha, AuthoredAt: at})
	}
	return records
}

// SummarizeWindow totals the added lines of a bounded "log --numstat" query and
// collects the distinct paths it touched, sorted. Renamed entries resolve to
// their destination path so they can be blamed later.
func SummarizeWindow(out []byte) (int, []string) {
	total := 0
	seen := make(map[string]struct{})
	for _, fc := range ParseNumstat(out) {
		total += fc.Additions
		path := fc.Path
		if strings.Contains(path, " => ") {
			if _, newPath := parseRenamePath(path); newPath != "" {
				path = newPath
			}
		}
		seen[path] = struct{}{}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return total, paths
}

// parseRenamePath extracts old and new paths from a rename string.
func parseRenamePath(path string) (string, string) {
	if !strings.Contains(path, "{") {
		// Simple format: "old => new"
		oldPath, newPath, ok := strings.Cut(path, " => ")
		if !ok {
			return "", ""
		}
		return oldPath, newPath
	}

	// Braced format: prefix{old => new}suffix
	braceStart := strings.Index(path, "{")
	braceEnd := strings.Index(path, "}")
	if braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	oldPart, newPart, ok := strings.Cut(renamePart, " => ")
	if !ok {
		return "", ""
	}
	// An empty side such as "src/{ => pkg}/a.go" leaves a doubled slash behind
	oldPath := strings.ReplaceAll(prefix+oldPart+suffix, "//", "/")
	newPath := strings.ReplaceAll(prefix+newPart+suffix, "//", "/")
	return oldPath, newPath
}

// CountBlameMatches counts the lines of "blame --porcelain" output attributed to
// one of shas. Each line group in porcelain output starts with a header whose
// first token is the 40-hex commit name; content lines start with a tab.
func CountBlameMatches(out []byte, shas map[string]struct{}) int {
	matched := 0
	for _, l := range splitLines(out) {
		if l == "" || l[0] == '\t' {
			continue
		}
		first, rest, ok := strings.Cut(l, " ")
		if !ok || !IsFullSHA(first) || !isBlameHeaderTail(rest) {
			continue
		}
		if _, hit := shas[first]; hit {
			matched++
		}
	}
	return matched
}

// isBlameHeaderTail checks "<orig-line> <final-line> [<group-size>]".
func isBlameHeaderTail(rest string) bool {
	fields := strings.Fields(rest)
	if len(fields) < 2 || len(fields) > 3 {
		return false
	}
	for _, f := range fields {
		if _, err := strconv.Atoi(f); err != nil {
			return false
		}
	}
	return true
}
