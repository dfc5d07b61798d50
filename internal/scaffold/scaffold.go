// Package scaffold overwrites template files inside a generated workspace.
package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/brandonbloom/create-terra-react-app/internal/fsutil"
	"github.com/brandonbloom/create-terra-react-app/internal/outcome"
)

// Template is a file written verbatim, relative to the workspace src/ dir.
type Template struct {
	Path    string `toml:"path"`
	Content string `toml:"content,multiline"`
}

var (
	// ErrEmptyPath indicates a template without a destination.
	ErrEmptyPath = errors.New("template path must be set")
	// ErrEscapingPath indicates a template would land outside src/.
	ErrEscapingPath = errors.New("template path must stay inside src/")
)

// Validate ensures the template can be written under src/.
func (t Template) Validate() error {
	if t.Path == "" {
		return ErrEmptyPath
	}
	clean := path.Clean(t.Path)
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") || clean == "." {
		return fmt.Errorf("%w: %s", ErrEscapingPath, t.Path)
	}
	return nil
}

// Destination is where the template lands for the given src directory.
func (t Template) Destination(srcDir string) string {
	return filepath.Join(srcDir, filepath.FromSlash(path.Clean(t.Path)))
}

// Target names the template in outcomes, relative to the workspace root.
func (t Template) Target() string {
	return path.Join("src", path.Clean(t.Path))
}

// Write writes every template under srcDir, at most limit at a time. All
// writes settle; the error joins every failed write.
func Write(ctx context.Context, srcDir string, templates []Template, limit int) ([]outcome.Outcome, error) {
	targets := make([]string, len(templates))
	for i, t := range templates {
		targets[i] = t.Target()
	}
	return outcome.Collect(ctx, targets, limit, func(ctx context.Context, i int) outcome.Outcome {
		return writeOne(srcDir, templates[i])
	})
}

func writeOne(srcDir string, t Template) outcome.Outcome {
	target := t.Target()
	if err := t.Validate(); err != nil {
		return outcome.Fail(target, err)
	}
	dest := t.Destination(srcDir)
	data := []byte(t.Content)
	if fsutil.SameContent(dest, data) {
		return outcome.Outcome{Target: target, Status: outcome.Unchanged}
	}
	if err := fsutil.WriteFileAll(dest, data, 0o644); err != nil {
		return outcome.Fail(target, fmt.Errorf("write %s: %w", target, err))
	}
	return outcome.Outcome{Target: target, Status: outcome.Written}
}
