// Package outcome records the per-file results of a fan-out stage and joins
// them into a single error.
package outcome

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Status summarizes what happened to one file.
type Status string

const (
	Written   Status = "written"
	Unchanged Status = "unchanged"
	Patched   Status = "patched"
	Skipped   Status = "skipped"
	Failed    Status = "failed"
)

// Outcome is the settled result of one file operation.
type Outcome struct {
	Target string
	Status Status
	Err    error
}

// Fail builds a failed outcome for target.
func Fail(target string, err error) Outcome {
	return Outcome{Target: target, Status: Failed, Err: err}
}

// DefaultLimit bounds Collect when the caller passes a non-positive limit.
const DefaultLimit = 8

// Collect runs fn once per target with at most limit running at once. Every
// call settles: a failure in one does not stop the others. The returned
// outcomes are in target order and the error joins every failure. A target
// skipped because ctx is done is recorded as failed under its own name.
func Collect(ctx context.Context, targets []string, limit int, fn func(ctx context.Context, i int) Outcome) ([]Outcome, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	results := make([]Outcome, len(targets))

	var g errgroup.Group
	g.SetLimit(limit)
	for i := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Fail(targets[i], err)
				return nil
			}
			results[i] = fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()

	return results, Join(results)
}

// Join combines the errors of all failed outcomes, or returns nil.
func Join(results []Outcome) error {
	var merr *multierror.Error
	for _, r := range results {
		if r.Status != Failed {
			continue
		}
		err := r.Err
		if err == nil {
			err = fmt.Errorf("%s: failed", r.Target)
		}
		merr = multierror.Append(merr, err)
	}
	if merr == nil {
		return nil
	}
	merr.ErrorFormat = formatErrors
	return merr
}

// Failures counts failed outcomes.
func Failures(results []Outcome) int {
	n := 0
	for _, r := range results {
		if r.Status == Failed {
			n++
		}
	}
	return n
}

func formatErrors(errs []error) string {
	if len(errs) == 1 {
		return errs[0].Error()
	}
	msg := fmt.Sprintf("%d files failed:", len(errs))
	for _, err := range errs {
		msg += "\n  " + err.Error()
	}
	return msg
}
