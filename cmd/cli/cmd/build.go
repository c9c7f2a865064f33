package cmd

import (
	"github.com/spf13/cobra"

	"gapminder/internal/app"
	"gapminder/internal/config"
	"gapminder/internal/logging"
)

// buildCmd builds the dataset and prints a summary
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the merged dataset and summarize it",
	Long: `Load the three source tables, reshape them to long format, forward-fill
each country's gaps, join on (country, year) and decode magnitude suffixes.

Any malformed year label or unparseable value aborts the build.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := app.NewHandle(config.Get(), logging.Logger).Get(cmd.Context())
		if err != nil {
			return err
		}
		writer(cmd).NewDatasetSummary(ds).Render()
		return nil
	},
}
