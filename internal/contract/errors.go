package contract

import (
	"errors"
	"fmt"
	"strings"
)

// Failure classes reported by the command runner and workspace manager.
var (
	ErrCloneFailed = errors.New("git clone failed")
	ErrToolFailed  = errors.New("git command failed")
	ErrTimeout     = errors.New("git command timed out")
)

// ToolError describes a failed git invocation.
// It matches ErrTimeout when the call hit its deadline and ErrToolFailed otherwise.
type ToolError struct {
	RepoPath string
	Args     []string
	Stderr   string
	TimedOut bool
	Err      error
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	cmd := "git " + strings.Join(e.Args, " ")
	if e.TimedOut {
		return fmt.Sprintf("%s: %q in %q", ErrTimeout, cmd, e.RepoPath)
	}
	if e.Stderr != "" {
		return fmt.Sprintf("%s: %q in %q: %s", ErrToolFailed, cmd, e.RepoPath, e.Stderr)
	}
	return fmt.Sprintf("%s: %q in %q: %v", ErrToolFailed, cmd, e.RepoPath, e.Err)
}

// Unwrap returns the underlying process error.
func (e *ToolError) Unwrap() error {
	return e.Err
}

// Is reports whether the error belongs to the ErrTimeout or ErrToolFailed class.
func (e *ToolError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.TimedOut
	case ErrToolFailed:
		return !e.TimedOut
	}
	return false
}

// CloneError describes a workspace that could not be created.
type CloneError struct {
	Source string
	Err    error
}

// Error implements the error interface.
func (e *CloneError) Error() string {
	return fmt.Sprintf("%s for %q: %v", ErrCloneFailed, e.Source, e.Err)
}

// Unwrap returns the cause, usually a *ToolError.
func (e *CloneError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCloneFailed.
func (e *CloneError) Is(target error) bool {
	return target == ErrCloneFailed
}
