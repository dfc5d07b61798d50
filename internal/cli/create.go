package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
	"github.com/brandonbloom/create-terra-react-app/internal/outcome"
	"github.com/brandonbloom/create-terra-react-app/internal/pipeline"
	"github.com/brandonbloom/create-terra-react-app/internal/plan"
	"github.com/brandonbloom/create-terra-react-app/internal/project"
	"github.com/brandonbloom/create-terra-react-app/internal/runner"
	"github.com/brandonbloom/create-terra-react-app/internal/shellbridge"
	"github.com/brandonbloom/create-terra-react-app/internal/timefmt"
)

var (
	colorStage = color.New(color.FgCyan)
	colorFaint = color.New(color.Faint)
	colorDone  = color.New(color.FgGreen)
	colorWarn  = color.New(color.FgRed)
)

func runCreate(cmd *cobra.Command, args []string, opts *rootOptions) error {
	stdout := cmd.OutOrStdout()

	recipe, err := loadRecipe(opts.recipePath)
	if err != nil {
		return err
	}
	stageOpts := pipeline.Options{
		Existing:    opts.existing,
		SkipInstall: opts.skipInstall,
		SkipCommit:  opts.skipCommit,
	}
	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	if opts.dryRun {
		return runDryRun(stdout, recipe, wd, args, stageOpts)
	}

	env := pipeline.Env{
		Recipe: recipe,
		Runner: newRunner(stdout, opts),
		Stdin:  cmd.InOrStdin(),
		Chdir:  os.Chdir,
	}
	if opts.verbosity > 0 {
		env.Stdout, env.Stderr = stdout, cmd.ErrOrStderr()
	}

	st := &pipeline.State{Args: args, Parent: wd}
	p := pipeline.New(env, stageOpts)
	p.Hooks = progressHooks(stdout, st)

	err = p.Run(cmdContext(cmd), st)
	if errors.Is(err, project.ErrNoAppName) {
		printUsage(stdout)
		return nil
	}
	if err != nil {
		return err
	}

	printNextSteps(stdout, st.Workspace, recipe.NextSteps)
	if shellbridge.Active() {
		if err := shellbridge.EnterApp(st.Workspace.Root); err != nil {
			log.Warn().Err(err).Msg("could not hand the app directory to the shell")
		}
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func loadRecipe(path string) (config.Recipe, error) {
	if path == "" {
		return config.Default(), nil
	}
	r, err := config.Load(path)
	if err != nil {
		return config.Recipe{}, fmt.Errorf("load recipe: %w", err)
	}
	log.Info().Str("path", path).Msg("loaded recipe")
	return r, nil
}

func newRunner(stdout io.Writer, opts *rootOptions) runner.Runner {
	var r runner.Runner = runner.Exec{Timeout: opts.timeout}
	if opts.verbosity == 0 && writerIsTerminal(stdout) {
		r = runner.WithSpinner(r, stdout)
	}
	return r
}

func runDryRun(w io.Writer, recipe config.Recipe, wd string, args []string, opts pipeline.Options) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	ws, err := project.New(wd, name)
	if errors.Is(err, project.ErrNoAppName) {
		printUsage(w)
		return nil
	}
	if err != nil {
		return err
	}
	p, err := plan.Build(recipe, ws, opts)
	if err != nil {
		return err
	}
	p.Render(w)
	if failed := p.Failures(); len(failed) > 0 {
		return outcome.Join(failed)
	}
	return nil
}

// progressHooks announce each visible stage and report its file outcomes.
func progressHooks(w io.Writer, st *pipeline.State) pipeline.Hooks {
	mark := 0
	return pipeline.Hooks{
		Start: func(s pipeline.Stage) {
			mark = len(st.Outcomes)
			if s.Quiet {
				return
			}
			colorStage.Fprintf(w, "\n%s...\n", s.Description)
		},
		Done: func(s pipeline.Stage, elapsed time.Duration, _ *pipeline.State, err error) {
			if s.Quiet {
				return
			}
			if produced := st.Outcomes[mark:]; len(produced) > 0 {
				outcome.Render(w, produced)
			}
			if err != nil {
				colorWarn.Fprintf(w, "%s failed after %s\n", s.Description, timefmt.Elapsed(elapsed))
				return
			}
			colorFaint.Fprintf(w, "done in %s\n", timefmt.Elapsed(elapsed))
		},
	}
}

func printUsage(w io.Writer) {
	colorWarn.Fprintln(w, "\nNo app name was provided.")
	fmt.Fprintln(w, "\nProvide an app name in the following format:")
	colorStage.Fprintf(w, "\n%s <app-name>\n\n", appName)
}

func printNextSteps(w io.Writer, ws project.Workspace, steps []string) {
	colorDone.Fprintln(w, "\nAll done! 👍")
	fmt.Fprintln(w, "\nWe suggest that you begin by typing:")
	fmt.Fprintln(w)
	if !shellbridge.Active() {
		fmt.Fprintf(w, "  cd %s\n", ws.Name)
	}
	for _, step := range steps {
		fmt.Fprintf(w, "  %s\n", step)
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
