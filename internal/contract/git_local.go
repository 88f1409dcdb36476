package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds every single git invocation.
const DefaultCommandTimeout = 60 * time.Second

// gitDateFormat is an ISO 8601 layout with a numeric offset, which git parses strictly.
const gitDateFormat = "2006-01-02T15:04:05-0700"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine.
type LocalGitClient struct {
	timeout time.Duration
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{timeout: DefaultCommandTimeout}
}

// Run executes a git command in repoPath and returns its stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath, "-c", "core.quotepath=off"}, args...)
	return c.exec(ctx, repoPath, fullArgs)
}

// exec runs git with the configured timeout and classifies failures.
func (c *LocalGitClient) exec(ctx context.Context, repoPath string, fullArgs []string) ([]byte, error) {
	timeout := c.timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if err == nil {
		return out, nil
	}

	toolErr := &ToolError{RepoPath: repoPath, Args: fullArgs, Err: err}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		toolErr.TimedOut = true
		return nil, toolErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		toolErr.Stderr = strings.TrimSpace(string(exitErr.Stderr))
	} else {
		toolErr.Err = fmt.Errorf("%w. Ensure Git is installed and available on your PATH", err)
	}
	return nil, toolErr
}

// CloneBare implements the GitClient interface.
func (c *LocalGitClient) CloneBare(ctx context.Context, source, dest string) error {
	args := []string{"clone", "--bare", "--quiet", source, dest}
	_, err := c.exec(ctx, source, args)
	return err
}

// GetNameOnlyLog implements the GitClient interface.
func (c *LocalGitClient) GetNameOnlyLog(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "log", "--name-only", "--pretty=format:--%H")
}

// GetNumstatLog implements the GitClient interface.
func (c *LocalGitClient) GetNumstatLog(ctx context.Context, repoPath string, since, until time.Time) ([]byte, error) {
	args := []string{
		"log",
		"--numstat",
		"--pretty=format:--%H",
	}
	if !since.IsZero() {
		args = append(args, "--since="+since.UTC().Format(gitDateFormat))
	}
	if !until.IsZero() {
		args = append(args, "--until="+until.UTC().Format(gitDateFormat))
	}
	return c.Run(ctx, repoPath, args...)
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "log", "--pretty=format:%H|%aI")
}

// GetEmptyTreeHash implements the GitClient interface.
// The command reads an empty stdin, which hashes to the empty tree.
func (c *LocalGitClient) GetEmptyTreeHash(ctx context.Context, repoPath string) (string, error) {
	out, err := c.Run(ctx, repoPath, "hash-object", "-t", "tree", "--stdin")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetTreeNumstat implements the GitClient interface.
func (c *LocalGitClient) GetTreeNumstat(ctx context.Context, repoPath string, baseRef string, targetRef string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--numstat", baseRef, targetRef)
}

// GetRevisionBefore implements the GitClient interface.
func (c *LocalGitClient) GetRevisionBefore(ctx context.Context, repoPath string, at time.Time) (string, error) {
	out, err := c.Run(ctx, repoPath, "rev-list", "-1", "--before="+at.UTC().Format(gitDateFormat), "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// GetBlamePorcelain implements the GitClient interface.
func (c *LocalGitClient) GetBlamePorcelain(ctx context.Context, repoPath string, rev string, path string) ([]byte, error) {
	return c.Run(ctx, repoPath, "blame", "--porcelain", rev, "--", path)
}
