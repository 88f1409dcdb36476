package core

import (
	"context"
	"os"

	"github.com/huangsam/gitpulse/internal/contract"
)

// workspacePattern names the temp directories holding bare clones.
const workspacePattern = "gitpulse-*"

// Workspace is an ephemeral bare clone owned by a single analysis run.
type Workspace struct {
	Root   string // Directory of the bare clone
	Source string // Path or URL it was cloned from
}

// AcquireWorkspace clones source into a fresh temp directory.
// On failure the directory is removed and a *contract.CloneError is returned.
func AcquireWorkspace(ctx context.Context, client contract.GitClient, source string) (*Workspace, error) {
	root, err := os.MkdirTemp("", workspacePattern)
	if err != nil {
		return nil, &contract.CloneError{Source: source, Err: err}
	}
	if err := client.CloneBare(ctx, source, root); err != nil {
		_ = os.RemoveAll(root)
		return nil, &contract.CloneError{Source: source, Err: err}
	}
	contract.LogDebug("Workspace acquired", map[string]any{"source": source, "root": root})
	return &Workspace{Root: root, Source: source}, nil
}

// Release removes the clone. Releasing an already removed workspace is a no-op.
func (w *Workspace) Release() error {
	if w == nil || w.Root == "" {
		return nil
	}
	return os.RemoveAll(w.Root)
}
