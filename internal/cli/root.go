package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/brandonbloom/create-terra-react-app/internal/runner"
	"github.com/brandonbloom/create-terra-react-app/internal/version"
)

const appName = "create-terra-react-app"

type rootOptions struct {
	recipePath  string
	existing    bool
	skipInstall bool
	skipCommit  bool
	dryRun      bool
	timeout     time.Duration
	verbosity   int
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := Execute(); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// Execute runs the root command; an interrupt cancels the running stage.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           appName + " <app-name>",
		Short:         "Create a React app wired up for terra-ui",
		Args:          cobra.MaximumNArgs(1),
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.verbosity)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.recipePath, "recipe", "", "TOML recipe to use instead of the built-in one")
	flags.BoolVar(&opts.existing, "existing", false, "re-apply templates and patches to an app created earlier")
	flags.BoolVar(&opts.skipInstall, "skip-install", false, "do not add packages")
	flags.BoolVar(&opts.skipCommit, "skip-commit", false, "do not amend the initial commit")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the commands and file changes without running them")
	flags.DurationVar(&opts.timeout, "timeout", 0, "limit on each subprocess (0 for none)")
	cmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", "verbose output (repeat for more)")

	cmd.AddCommand(
		newRecipeCommand(),
		newActivateCommand(),
		newDoctorCommand(),
		newVersionCommand(),
	)

	return cmd
}

func setupLogging(w io.Writer, verbosity int) {
	level := zerolog.WarnLevel
	switch {
	case verbosity >= 3:
		level = zerolog.TraceLevel
	case verbosity == 2:
		level = zerolog.DebugLevel
	case verbosity == 1:
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: w, NoColor: color.NoColor, TimeFormat: time.Kitchen}
	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}

var colorError = color.New(color.FgRed, color.Bold)

func printError(w io.Writer, err error) {
	colorError.Fprintf(w, "error: %v\n", err)
	var exitErr *runner.ExitError
	if errors.As(err, &exitErr) {
		if tail := exitErr.Tail(20); tail != "" {
			fmt.Fprintln(w)
			fmt.Fprintln(w, tail)
		}
	}
}
