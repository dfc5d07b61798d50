// Package pipeline runs the scaffold stages in a fixed order.
//
// Each stage receives the shared Env and the State accumulated by earlier
// stages and either succeeds or returns an error that stops the run. Stages
// never read the process working directory; every path comes from
// State.Workspace, so a test can run any prefix of the pipeline against a
// fixture directory with a fake runner.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
	"github.com/brandonbloom/create-terra-react-app/internal/outcome"
	"github.com/brandonbloom/create-terra-react-app/internal/project"
	"github.com/brandonbloom/create-terra-react-app/internal/runner"
)

// Stage names.
const (
	StageArgs      = "args"
	StageGenerate  = "generate"
	StageLocate    = "locate"
	StageClean     = "clean"
	StageInstall   = "install"
	StageTemplates = "templates"
	StagePatches   = "patches"
	StageCommit    = "commit"
)

// ErrUnknownStage indicates RunUntil was asked to stop at a stage that is
// not part of the pipeline.
var ErrUnknownStage = errors.New("unknown stage")

// Env holds the collaborators shared by every stage.
type Env struct {
	Recipe config.Recipe
	Runner runner.Runner

	// Subprocess streams. Nil Stdout/Stderr capture output instead.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Chdir, when set, is called with the workspace root once it is located.
	Chdir func(dir string) error
}

func (e *Env) runOpts(dir string) runner.Options {
	return runner.Options{Dir: dir, Stdin: e.Stdin, Stdout: e.Stdout, Stderr: e.Stderr}
}

// State is threaded through the stages.
type State struct {
	// Args are the positional command-line arguments.
	Args []string
	// Parent is the directory the app is created in.
	Parent string

	AppName   string
	Workspace project.Workspace
	Outcomes  []outcome.Outcome
}

// Stage is one named step.
type Stage struct {
	Name        string
	Description string
	// Quiet stages are not announced to the user.
	Quiet bool
	Run   func(ctx context.Context, env *Env, st *State) error
}

// StageError attributes a failure to the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Hooks observe stage progress.
type Hooks struct {
	Start func(s Stage)
	Done  func(s Stage, elapsed time.Duration, st *State, err error)
}

// Pipeline executes Stages in order.
type Pipeline struct {
	Env    Env
	Stages []Stage
	Hooks  Hooks
}

// New builds a pipeline with the stages selected by opts.
func New(env Env, opts Options) *Pipeline {
	return &Pipeline{Env: env, Stages: Stages(opts)}
}

// Run executes every stage, stopping at the first failure.
func (p *Pipeline) Run(ctx context.Context, st *State) error {
	return p.RunUntil(ctx, st, "")
}

// RunUntil executes stages in order up to and including the stage named
// last. An empty name runs the whole pipeline.
func (p *Pipeline) RunUntil(ctx context.Context, st *State, last string) error {
	if last != "" && !p.has(last) {
		return fmt.Errorf("%w: %s", ErrUnknownStage, last)
	}
	for _, s := range p.Stages {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: s.Name, Err: err}
		}
		if p.Hooks.Start != nil {
			p.Hooks.Start(s)
		}
		start := time.Now()
		err := s.Run(ctx, &p.Env, st)
		elapsed := time.Since(start)
		if p.Hooks.Done != nil {
			p.Hooks.Done(s, elapsed, st, err)
		}
		if err != nil {
			log.Debug().Str("stage", s.Name).Dur("elapsed", elapsed).Err(err).Msg("stage failed")
			return &StageError{Stage: s.Name, Err: err}
		}
		log.Debug().Str("stage", s.Name).Dur("elapsed", elapsed).Msg("stage finished")
		if s.Name == last {
			return nil
		}
	}
	return nil
}

func (p *Pipeline) has(name string) bool {
	for _, s := range p.Stages {
		if s.Name == name {
			return true
		}
	}
	return false
}
