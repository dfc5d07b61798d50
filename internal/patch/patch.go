// Package patch applies single-occurrence textual substitutions to files
// produced by the project generator.
package patch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/brandonbloom/create-terra-react-app/internal/fsutil"
	"github.com/brandonbloom/create-terra-react-app/internal/outcome"
)

// Rule replaces the single match of Pattern in the file at Path with the
// literal Replacement.
type Rule struct {
	Name        string `toml:"name"`
	Path        string `toml:"path"`
	Pattern     string `toml:"pattern"`
	Replacement string `toml:"replacement,multiline"`
	// Guard, when present in the file, marks the rule as already applied.
	Guard string `toml:"guard,omitempty"`
	// Format selects validation of the patched content ("" or "json").
	Format string `toml:"format,omitempty"`
}

const FormatJSON = "json"

var (
	// ErrMarkerNotFound indicates the pattern did not occur in the file.
	ErrMarkerNotFound = errors.New("marker not found")
	// ErrMarkerAmbiguous indicates the pattern occurred more than once.
	ErrMarkerAmbiguous = errors.New("marker found more than once")
	// ErrInvalidResult indicates the patched content failed format validation.
	ErrInvalidResult = errors.New("patched content is invalid")
)

// MarkerError reports a pattern that did not match exactly once.
type MarkerError struct {
	Rule    string
	Path    string
	Pattern string
	Count   int
}

func (e *MarkerError) Error() string {
	if e.Count == 0 {
		return fmt.Sprintf("%s: marker %q not found in %s", e.Rule, e.Pattern, e.Path)
	}
	return fmt.Sprintf("%s: marker %q found %d times in %s (want 1)", e.Rule, e.Pattern, e.Count, e.Path)
}

func (e *MarkerError) Is(target error) bool {
	switch target {
	case ErrMarkerNotFound:
		return e.Count == 0
	case ErrMarkerAmbiguous:
		return e.Count > 1
	}
	return false
}

// Validate checks that the rule is usable.
func (r Rule) Validate() error {
	if r.Name == "" {
		return errors.New("patch name must be set")
	}
	if r.Path == "" || filepath.IsAbs(r.Path) || strings.HasPrefix(filepath.Clean(r.Path), "..") {
		return fmt.Errorf("patch %s: path must be relative to the workspace", r.Name)
	}
	if _, err := r.compile(); err != nil {
		return err
	}
	switch r.Format {
	case "", FormatJSON:
	default:
		return fmt.Errorf("patch %s: unknown format %q", r.Name, r.Format)
	}
	return nil
}

func (r Rule) compile() (*regexp.Regexp, error) {
	if r.Pattern == "" {
		return nil, fmt.Errorf("patch %s: pattern must be set", r.Name)
	}
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("patch %s: %w", r.Name, err)
	}
	return re, nil
}

// Apply returns content with the rule applied. A guarded rule whose guard is
// already present reports outcome.Skipped and returns content unchanged.
func Apply(r Rule, content string) (string, outcome.Status, error) {
	if r.Guard != "" && strings.Contains(content, r.Guard) {
		return content, outcome.Skipped, nil
	}
	re, err := r.compile()
	if err != nil {
		return content, outcome.Failed, err
	}
	locs := re.FindAllStringIndex(content, -1)
	if len(locs) != 1 {
		return content, outcome.Failed, &MarkerError{Rule: r.Name, Path: r.Path, Pattern: r.Pattern, Count: len(locs)}
	}
	start, end := locs[0][0], locs[0][1]
	out := content[:start] + r.Replacement + content[end:]

	if r.Format == FormatJSON {
		if err := validateJSON([]byte(out)); err != nil {
			return content, outcome.Failed, fmt.Errorf("%s: %w", r.Name, err)
		}
	}
	return out, outcome.Patched, nil
}

func validateJSON(data []byte) error {
	if _, err := hujson.Parse(data); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if !json.Valid(data) {
		return fmt.Errorf("%w: trailing comma or comment in JSON", ErrInvalidResult)
	}
	return nil
}

// Target names the patched file in outcomes, relative to the workspace root.
func (r Rule) Target() string {
	return filepath.ToSlash(filepath.Clean(r.Path))
}

// ApplyFile applies r to the file at r.Path under root.
func ApplyFile(root string, r Rule) outcome.Outcome {
	target := r.Target()
	path := filepath.Join(root, filepath.FromSlash(r.Path))
	data, err := os.ReadFile(path)
	if err != nil {
		return outcome.Fail(target, fmt.Errorf("%s: %w", r.Name, err))
	}
	out, status, err := Apply(r, string(data))
	if err != nil {
		return outcome.Fail(target, err)
	}
	if status == outcome.Patched {
		if err := fsutil.WriteFile(path, []byte(out), 0o644); err != nil {
			return outcome.Fail(target, fmt.Errorf("%s: %w", r.Name, err))
		}
	}
	return outcome.Outcome{Target: target, Status: status}
}

// ApplyAll applies every rule under root, at most limit at a time. All rules
// settle; the error joins every failure.
func ApplyAll(ctx context.Context, root string, rules []Rule, limit int) ([]outcome.Outcome, error) {
	targets := make([]string, len(rules))
	for i, r := range rules {
		targets[i] = r.Target()
	}
	return outcome.Collect(ctx, targets, limit, func(ctx context.Context, i int) outcome.Outcome {
		return ApplyFile(root, rules[i])
	})
}
