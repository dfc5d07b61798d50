// Package runner executes the external commands a scaffold run depends on
// (the project generator, the package manager and git).
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/syntax"
)

// Command is an argv vector. It is never interpreted by a shell.
type Command struct {
	Name string
	Args []string
}

// New builds a Command from a program name and its arguments.
func New(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// String renders the command the way a user would type it into bash.
func (c Command) String() string {
	words := append([]string{c.Name}, c.Args...)
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		q, err := syntax.Quote(w, syntax.LangBash)
		if err != nil {
			q = strconv.Quote(w)
		}
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, " ")
}

// Options control where a command runs and where its output goes.
// A nil Stdout or Stderr captures that stream into Result.Output.
type Options struct {
	Dir    string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Result describes a finished command.
type Result struct {
	ExitCode int
	Output   string
}

// Runner runs commands. Implementations report a non-zero exit as *ExitError
// and reserve other errors for failures to start or wait on the process.
type Runner interface {
	Run(ctx context.Context, cmd Command, opts Options) (Result, error)
}

// Func adapts an ordinary function to the Runner interface.
type Func func(ctx context.Context, cmd Command, opts Options) (Result, error)

func (f Func) Run(ctx context.Context, cmd Command, opts Options) (Result, error) {
	return f(ctx, cmd, opts)
}

// ExitError reports a command that ran but exited unsuccessfully.
type ExitError struct {
	Command Command
	Code    int
	Output  string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Command, e.Code)
}

// Tail returns at most n trailing lines of captured output.
func (e *ExitError) Tail(n int) string {
	out := strings.TrimRight(e.Output, "\n")
	if out == "" {
		return ""
	}
	lines := strings.Split(out, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

// WaitDelay bounds how long Exec waits for output pipes to close after the
// command is killed.
const WaitDelay = time.Second

// Exec runs commands with os/exec.
type Exec struct {
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
}

func (e Exec) Run(ctx context.Context, cmd Command, opts Options) (Result, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = opts.Dir
	c.Stdin = opts.Stdin
	// Cancellation kills the command's whole process group, so helpers it
	// spawned (npm, node) cannot keep the pipes open. A command reading the
	// terminal stays in the foreground group, where Ctrl-C reaches it directly.
	if !isTerminal(opts.Stdin) {
		killGroupOnCancel(c)
	}
	c.WaitDelay = WaitDelay

	var captured bytes.Buffer
	c.Stdout = opts.Stdout
	if c.Stdout == nil {
		c.Stdout = &captured
	}
	c.Stderr = opts.Stderr
	if c.Stderr == nil {
		c.Stderr = &captured
	}

	logger := log.With().Str("cmd", cmd.String()).Str("dir", opts.Dir).Logger()
	logger.Debug().Msg("running command")

	start := time.Now()
	err := c.Run()
	res := Result{Output: captured.String()}
	elapsed := time.Since(start)

	if errors.Is(err, exec.ErrWaitDelay) && ctx.Err() == nil {
		// The command succeeded but left a background process holding its
		// output open.
		logger.Warn().Dur("elapsed", elapsed).Msg("command left output open after exiting")
		err = nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		logger.Info().Int("code", res.ExitCode).Dur("elapsed", elapsed).Err(err).Msg("command exited")
		if ctxErr := ctx.Err(); ctxErr != nil {
			return res, fmt.Errorf("%s: %w", cmd, ctxErr)
		}
		if exitErr != nil {
			return res, &ExitError{Command: cmd, Code: res.ExitCode, Output: res.Output}
		}
		return res, fmt.Errorf("%s: %w", cmd, err)
	}

	logger.Info().Int("code", 0).Dur("elapsed", elapsed).Msg("command exited")
	return res, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
