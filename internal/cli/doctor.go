package cli

import (
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
	"github.com/brandonbloom/create-terra-react-app/internal/gitutil"
	"github.com/brandonbloom/create-terra-react-app/internal/runner"
	"github.com/brandonbloom/create-terra-react-app/internal/shellbridge"
)

func newDoctorCommand() *cobra.Command {
	var (
		verbose    bool
		recipePath string
	)
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose prerequisites for creating an app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			recipe, err := loadRecipe(recipePath)
			if err != nil {
				return err
			}
			return runDoctor(cmd, recipe, verbose)
		},
	}
	cmd.Flags().BoolVar(&verbose, "all", false, "show passing checks too")
	cmd.Flags().StringVar(&recipePath, "recipe", "", "check the tools named by this recipe")
	return cmd
}

type doctorCheck struct {
	Name string
	// Advisory checks are reported but do not fail the command.
	Advisory bool
	Fn       func(ctx context.Context) error
}

func doctorChecks(recipe config.Recipe) []doctorCheck {
	git := gitutil.Repo{Runner: runner.Exec{}}
	return []doctorCheck{
		{Name: recipe.Generator.Name + " installed", Fn: requireOnPath(recipe.Generator.Name)},
		{Name: recipe.PackageManager + " installed", Fn: requireOnPath(recipe.PackageManager)},
		{Name: "git installed", Fn: requireOnPath("git")},
		{Name: "git identity configured", Fn: func(ctx context.Context) error {
			ok, err := git.UserConfigured(ctx)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New("set user.name and user.email so the initial commit can be amended")
			}
			return nil
		}},
		{Name: "shell wrapper active", Advisory: true, Fn: func(context.Context) error {
			if !shellbridge.Active() {
				return shellbridge.ErrWrapperMissing
			}
			return nil
		}},
	}
}

func runDoctor(cmd *cobra.Command, recipe config.Recipe, verbose bool) error {
	ctx := cmdContext(cmd)
	var failures, advisories []string
	for _, check := range doctorChecks(recipe) {
		err := check.Fn(ctx)
		switch {
		case err == nil:
			if verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", check.Name)
			}
		case check.Advisory:
			advisories = append(advisories, fmt.Sprintf("! %s: %v", check.Name, err))
		default:
			failures = append(failures, fmt.Sprintf("✗ %s: %v", check.Name, err))
		}
	}

	for _, advisory := range advisories {
		fmt.Fprintln(cmd.ErrOrStderr(), advisory)
	}
	if len(failures) > 0 {
		for _, failure := range failures {
			fmt.Fprintln(cmd.ErrOrStderr(), failure)
		}
		return fmt.Errorf("%d doctor checks failed", len(failures))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "healthy!")
	return nil
}

func requireOnPath(binary string) func(context.Context) error {
	return func(context.Context) error {
		if _, err := exec.LookPath(binary); err != nil {
			return fmt.Errorf("%s not found on PATH", binary)
		}
		return nil
	}
}
