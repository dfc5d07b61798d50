package cli

import (
	"github.com/spf13/cobra"

	"github.com/brandonbloom/create-terra-react-app/internal/config"
)

func newRecipeCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Print the built-in recipe as TOML, a starting point for --recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := config.Default()
			if output != "" {
				return config.Save(output, r)
			}
			data, err := config.Marshal(r)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the recipe to this file instead of stdout")
	return cmd
}
