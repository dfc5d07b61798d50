package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/brandonbloom/create-terra-react-app/internal/fsutil"
)

var (
	// ErrNoAppName indicates no application name was provided.
	ErrNoAppName = errors.New("no app name was provided")
	// ErrWorkspaceExists indicates the target directory is already present.
	ErrWorkspaceExists = errors.New("directory already exists")
	// ErrWorkspaceMissing indicates the generator did not create the directory.
	ErrWorkspaceMissing = errors.New("workspace directory not found")
	// ErrNotGenerated indicates the directory does not look like a generated app.
	ErrNotGenerated = errors.New("workspace has no package.json")
)

// Workspace is the directory tree created by the project generator.
type Workspace struct {
	Parent string
	Name   string
	Root   string
}

// New resolves the workspace for name under parent.
func New(parent, name string) (Workspace, error) {
	if strings.TrimSpace(name) == "" {
		return Workspace{}, ErrNoAppName
	}
	abs, err := filepath.Abs(parent)
	if err != nil {
		return Workspace{}, err
	}
	return Workspace{
		Parent: abs,
		Name:   name,
		Root:   filepath.Join(abs, name),
	}, nil
}

// Path joins a slash-separated path relative to the workspace root.
func (w Workspace) Path(rel string) string {
	return filepath.Join(w.Root, filepath.FromSlash(rel))
}

// Src is the directory templates are written into.
func (w Workspace) Src() string {
	return w.Path("src")
}

// Exists reports whether anything is already at the workspace root.
func (w Workspace) Exists() bool {
	return fsutil.Exists(w.Root)
}

// EnsureAbsent fails when the workspace root is already taken.
func (w Workspace) EnsureAbsent() error {
	if w.Exists() {
		return fmt.Errorf("%w: %s", ErrWorkspaceExists, w.Root)
	}
	return nil
}

// Verify checks that the workspace is a generated app.
func (w Workspace) Verify() error {
	if !fsutil.IsDir(w.Root) {
		return fmt.Errorf("%w: %s", ErrWorkspaceMissing, w.Root)
	}
	if !fsutil.Exists(w.Path("package.json")) {
		return fmt.Errorf("%w: %s", ErrNotGenerated, w.Root)
	}
	return nil
}
