package gitutil

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/brandonbloom/create-terra-react-app/internal/runner"
)

// ErrNoCommit indicates there is no HEAD commit to amend.
var ErrNoCommit = errors.New("no commit to amend; the generator did not create an initial commit")

// Repo runs git inside a working tree.
type Repo struct {
	Dir    string
	Runner runner.Runner
	// Stdout and Stderr receive git's output; nil captures it.
	Stdout io.Writer
	Stderr io.Writer
}

// Run executes git within the repo and returns trimmed captured output.
func (r Repo) Run(ctx context.Context, args ...string) (string, error) {
	res, err := r.Runner.Run(ctx, runner.New("git", args...), runner.Options{
		Dir:    r.Dir,
		Stdout: r.Stdout,
		Stderr: r.Stderr,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Output), nil
}

// HasHead reports whether the repo has at least one commit.
func (r Repo) HasHead(ctx context.Context) (bool, error) {
	// Always capture; the hash is not interesting to the user.
	q := r
	q.Stdout, q.Stderr = nil, nil
	_, err := q.Run(ctx, "rev-parse", "--verify", "--quiet", "HEAD")
	if err != nil {
		var exitErr *runner.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Dirty reports whether the worktree has uncommitted/staged changes.
func (r Repo) Dirty(ctx context.Context) (bool, error) {
	q := r
	q.Stdout, q.Stderr = nil, nil
	out, err := q.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// AddAll stages every change in the working tree.
func (r Repo) AddAll(ctx context.Context) error {
	_, err := r.Run(ctx, "add", ".")
	return err
}

// AmendNoEdit folds the index into HEAD, keeping its message.
func (r Repo) AmendNoEdit(ctx context.Context) error {
	ok, err := r.HasHead(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNoCommit
	}
	_, err = r.Run(ctx, "commit", "--amend", "--no-edit")
	return err
}

// UserConfigured reports whether user.name and user.email are set, which
// git needs to rewrite a commit.
func (r Repo) UserConfigured(ctx context.Context) (bool, error) {
	q := r
	q.Stdout, q.Stderr = nil, nil
	for _, key := range []string{"user.name", "user.email"} {
		out, err := q.Run(ctx, "config", key)
		if err != nil {
			var exitErr *runner.ExitError
			if errors.As(err, &exitErr) {
				return false, nil
			}
			return false, err
		}
		if out == "" {
			return false, nil
		}
	}
	return true, nil
}
