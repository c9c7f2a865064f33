package cmd

import (
	"github.com/spf13/cobra"

	"gapminder/core/view"
	"gapminder/internal/app"
	"gapminder/internal/config"
	"gapminder/internal/logging"
)

var (
	viewYear      string
	viewCountries []string
)

// viewCmd prints the records of one year for the selected countries
var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Print the records for a year and a set of countries",
	Long: `Print the records for one year and the selected countries.

The year defaults to the latest year in the dataset. Countries may be
repeated or comma separated; quote a name that contains a comma. With no
country nothing is shown.

Examples:
  gapminder view --country China
  gapminder view --year 1990 --country Chad,China
  gapminder view --country '"Congo, Dem. Rep.",Chad'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := app.NewHandle(config.Get(), logging.Logger).Get(cmd.Context())
		if err != nil {
			return err
		}

		controls := view.ControlsFor(ds)
		sel, err := controls.ParseSelection(viewYear, viewCountries)
		if err != nil {
			return err
		}

		w := writer(cmd)
		w.Header(controls.Title)
		w.Println("%s", controls.Subtitle)
		w.Println("")

		records := view.Filter(ds, sel)
		if len(records) == 0 {
			w.Warning("no records for %d and the selected countries", sel.Year)
			return nil
		}
		w.RecordTable(records).Render()
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVarP(&viewYear, "year", "y", "", "year to show (default latest)")
	viewCmd.Flags().StringSliceVarP(&viewCountries, "country", "c", nil, "countries to show")
}
