package runner

import (
	"context"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// WithSpinner shows a spinner on w while commands with captured output run.
// Commands that stream their output are passed through untouched.
func WithSpinner(r Runner, w io.Writer) Runner {
	return Func(func(ctx context.Context, cmd Command, opts Options) (Result, error) {
		if opts.Stdout != nil {
			return r.Run(ctx, cmd, opts)
		}
		s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
		s.Prefix = "Running " + cmd.String() + " "
		s.Start()
		defer s.Stop()
		return r.Run(ctx, cmd, opts)
	})
}
