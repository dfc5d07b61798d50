package pipeline

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
	"github.com/brandonbloom/create-terra-react-app/internal/gitutil"
	"github.com/brandonbloom/create-terra-react-app/internal/patch"
	"github.com/brandonbloom/create-terra-react-app/internal/project"
	"github.com/brandonbloom/create-terra-react-app/internal/runner"
	"github.com/brandonbloom/create-terra-react-app/internal/scaffold"
)

// ErrDirtyWorkspace indicates an existing workspace has uncommitted changes
// that amending the initial commit would absorb.
var ErrDirtyWorkspace = errors.New("workspace has uncommitted changes; commit them or pass --skip-commit")

// Options select which stages run.
type Options struct {
	// Existing re-applies the recipe to a directory created by an earlier
	// run instead of invoking the generator.
	Existing    bool
	SkipInstall bool
	SkipCommit  bool
}

// Stages returns the ordered stage list for opts.
func Stages(opts Options) []Stage {
	stages := []Stage{
		{Name: StageArgs, Description: "Reading the app name", Quiet: true, Run: readArgs},
	}
	if !opts.Existing {
		stages = append(stages, Stage{Name: StageGenerate, Description: "Creating a new React app", Run: generate})
	}
	stages = append(stages, Stage{Name: StageLocate, Description: "Entering the app directory", Quiet: true, Run: locate})
	if opts.Existing && !opts.SkipCommit {
		stages = append(stages, Stage{Name: StageClean, Description: "Checking for uncommitted changes", Quiet: true, Run: requireClean})
	}
	if !opts.SkipInstall {
		stages = append(stages, Stage{Name: StageInstall, Description: "Installing packages", Run: install})
	}
	stages = append(stages,
		Stage{Name: StageTemplates, Description: "Writing templates", Run: writeTemplates},
		Stage{Name: StagePatches, Description: "Patching generated files", Run: applyPatches},
	)
	if !opts.SkipCommit {
		stages = append(stages, Stage{Name: StageCommit, Description: "Amending the initial commit", Run: commit})
	}
	return stages
}

func readArgs(ctx context.Context, env *Env, st *State) error {
	switch len(st.Args) {
	case 0:
		return project.ErrNoAppName
	case 1:
	default:
		return fmt.Errorf("expected a single app name, got %d arguments", len(st.Args))
	}
	ws, err := project.New(st.Parent, st.Args[0])
	if err != nil {
		return err
	}
	st.AppName = st.Args[0]
	st.Workspace = ws
	return nil
}

// GeneratorCommand is the command that creates the workspace for name.
func GeneratorCommand(r config.Recipe, name string) runner.Command {
	args := append(slices.Clone(r.Generator.Args), name)
	return runner.New(r.Generator.Name, args...)
}

// InstallCommands are the package manager invocations, one per group.
func InstallCommands(r config.Recipe) []runner.Command {
	cmds := make([]runner.Command, 0, len(r.Install))
	for _, g := range r.Install {
		args := []string{"add"}
		if g.Dev {
			args = append(args, "-D")
		}
		args = append(args, g.Specs()...)
		cmds = append(cmds, runner.New(r.PackageManager, args...))
	}
	return cmds
}

func generate(ctx context.Context, env *Env, st *State) error {
	if err := st.Workspace.EnsureAbsent(); err != nil {
		return err
	}
	cmd := GeneratorCommand(env.Recipe, st.AppName)
	_, err := env.Runner.Run(ctx, cmd, env.runOpts(st.Workspace.Parent))
	return err
}

func locate(ctx context.Context, env *Env, st *State) error {
	if err := st.Workspace.Verify(); err != nil {
		return err
	}
	if env.Chdir != nil {
		if err := env.Chdir(st.Workspace.Root); err != nil {
			return err
		}
	}
	log.Debug().Str("root", st.Workspace.Root).Msg("located workspace")
	return nil
}

func requireClean(ctx context.Context, env *Env, st *State) error {
	dirty, err := gitutil.Repo{Dir: st.Workspace.Root, Runner: env.Runner}.Dirty(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return ErrDirtyWorkspace
	}
	return nil
}

func install(ctx context.Context, env *Env, st *State) error {
	for _, cmd := range InstallCommands(env.Recipe) {
		if _, err := env.Runner.Run(ctx, cmd, env.runOpts(st.Workspace.Root)); err != nil {
			return err
		}
	}
	return nil
}

func writeTemplates(ctx context.Context, env *Env, st *State) error {
	results, err := scaffold.Write(ctx, st.Workspace.Src(), env.Recipe.Templates, env.Recipe.Concurrency)
	st.Outcomes = append(st.Outcomes, results...)
	return err
}

func applyPatches(ctx context.Context, env *Env, st *State) error {
	results, err := patch.ApplyAll(ctx, st.Workspace.Root, env.Recipe.Patches, env.Recipe.Concurrency)
	st.Outcomes = append(st.Outcomes, results...)
	return err
}

func commit(ctx context.Context, env *Env, st *State) error {
	repo := gitutil.Repo{
		Dir:    st.Workspace.Root,
		Runner: env.Runner,
		Stdout: env.Stdout,
		Stderr: env.Stderr,
	}
	if err := repo.AddAll(ctx); err != nil {
		return err
	}
	return repo.AmendNoEdit(ctx)
}
