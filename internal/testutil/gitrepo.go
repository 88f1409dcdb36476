// Package testutil builds small disposable git repositories for tests.
package testutil

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// Commit describes one commit of a fixture repository.
type Commit struct {
	Message string
	When    time.Time
	Files   map[string]string // path -> full file content
	Deletes []string
}

// SkipIfGitNotAvailable skips the test if git binary is not found in PATH.
func SkipIfGitNotAvailable(tb testing.TB) {
	tb.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		tb.Skipf("git binary not found in PATH: %v", err)
	}
}

// NewGitRepo creates a repository in a temp directory and applies the commits in order.
// Author and committer dates both come from Commit.When.
func NewGitRepo(tb testing.TB, commits ...Commit) string {
	tb.Helper()
	dir := tb.TempDir()
	runGit(tb, dir, time.Time{}, "-c", "init.defaultBranch=main", "init", "--quiet")
	for _, c := range commits {
		AddCommit(tb, dir, c)
	}
	return dir
}

// AddCommit applies one more commit to an existing fixture repository.
func AddCommit(tb testing.TB, dir string, c Commit) {
	tb.Helper()
	for path, content := range c.Files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			tb.Fatalf("mkdir for %s: %v", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", path, err)
		}
	}
	for _, path := range c.Deletes {
		runGit(tb, dir, time.Time{}, "rm", "--quiet", "--", path)
	}
	runGit(tb, dir, time.Time{}, "add", "-A")
	msg := c.Message
	if msg == "" {
		msg = "commit"
	}
	runGit(tb, dir, c.When, "-c", "commit.gpgsign=false", "commit", "--quiet", "--allow-empty", "-m", msg)
}

// GitOutput runs git in dir and returns its trimmed stdout.
func GitOutput(tb testing.TB, dir string, args ...string) string {
	tb.Helper()
	return strings.TrimSpace(runGit(tb, dir, time.Time{}, args...))
}

func runGit(tb testing.TB, dir string, when time.Time, args ...string) string {
	tb.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_AUTHOR_NAME=Fixture Author",
		"GIT_AUTHOR_EMAIL=author@example.com",
		"GIT_COMMITTER_NAME=Fixture Author",
		"GIT_COMMITTER_EMAIL=author@example.com",
	)
	if !when.IsZero() {
		stamp := when.Format("2006-01-02T15:04:05-0700")
		cmd.Env = append(cmd.Env, "GIT_AUTHOR_DATE="+stamp, "GIT_COMMITTER_DATE="+stamp)
	}
	out, err := cmd.Output()
	if err != nil {
		stderr := ""
		if exitErr, ok := err.(*exec.ExitError); ok {
			stderr = string(exitErr.Stderr)
		}
		tb.Fatalf("git %s failed: %v: %s", strings.Join(args, " "), err, stderr)
	}
	return string(out)
}
