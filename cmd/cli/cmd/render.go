package cmd

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"gapminder/core/chart"
	"gapminder/core/view"
	"gapminder/internal/app"
	"gapminder/internal/config"
	"gapminder/internal/errors"
	"gapminder/internal/logging"
)

var (
	renderYear      string
	renderCountries []string
	renderFormat    string
	renderOut       string
)

// renderCmd writes the bubble chart to a file
var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the bubble chart for a year and a set of countries",
	Long: `Render the bubble chart: GNI per capita on a log x axis, life expectancy
on y, bubble size by population and one colour per country.

The format defaults to the --out extension, then to the configured format.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderYear, "year", "y", "", "year to plot (default latest)")
	renderCmd.Flags().StringSliceVarP(&renderCountries, "country", "c", nil, "countries to plot")
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "", "output format (png, svg)")
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default gapminder-<year>.<format>)")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	format, err := renderFormatFor(cfg, renderFormat, renderOut)
	if err != nil {
		return err
	}

	ds, err := app.NewHandle(cfg, logging.Logger).Get(cmd.Context())
	if err != nil {
		return err
	}
	sel, err := view.ControlsFor(ds).ParseSelection(renderYear, renderCountries)
	if err != nil {
		return err
	}

	out := renderOut
	if out == "" {
		out = fmt.Sprintf("gapminder-%d.%s", sel.Year, format)
	}

	w := writer(cmd)
	records := view.Filter(ds, sel)
	w.Debug("rendering %d records for %d as %s", len(records), sel.Year, format)

	f, err := os.Create(out)
	if err != nil {
		return errors.Wrap(errors.TypeRender, "create output", err).WithContext("path", out)
	}
	err = app.NewRenderer(cfg).Render(f, format, sel.Year, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if stderrors.Is(err, chart.ErrEmptyView) {
		_ = os.Remove(out)
		w.Warning("nothing to plot for %d and the selected countries", sel.Year)
		return nil
	}
	if err != nil {
		_ = os.Remove(out)
		return err
	}

	w.Success("wrote %s", out)
	return nil
}

// renderFormatFor picks the explicit format, then the file extension, then the config
func renderFormatFor(cfg *config.Config, explicit, out string) (chart.Format, error) {
	if explicit != "" {
		return chart.ParseFormat(explicit)
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		return chart.ParseFormat(ext)
	}
	return app.ChartFormat(cfg)
}
