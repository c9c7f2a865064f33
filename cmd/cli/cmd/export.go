package cmd

import (
	"github.com/spf13/cobra"

	"gapminder/adapters/storage"
	"gapminder/internal/app"
	"gapminder/internal/config"
	"gapminder/internal/logging"
)

var (
	exportBackend string
	exportPath    string
	exportDSN     string
	exportTable   string
)

// exportCmd writes the merged dataset to a CSV file or a SQL table
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the merged dataset",
	Long: `Export the merged dataset to a CSV file or a SQL table.

A CSV path ending in .sz is written as a snappy framed stream. SQL exports
create the table when missing and upsert on (country, year).

Examples:
  gapminder export --path records.csv.sz
  gapminder export --backend postgres --dsn postgres://localhost/gapminder
  gapminder export --backend mysql --dsn 'user:pass@tcp(localhost:3306)/gapminder'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := *config.Get()
		store := cfg.Storage
		if exportBackend != "" {
			store.Backend = exportBackend
		}
		if exportPath != "" {
			store.Path = exportPath
		}
		if exportDSN != "" {
			store.DSN = exportDSN
		}
		if exportTable != "" {
			store.Table = exportTable
		}

		ds, err := app.NewHandle(&cfg, logging.Logger).Get(cmd.Context())
		if err != nil {
			return err
		}

		w := writer(cmd)
		w.Info("exporting %d records to %s", ds.Len(), store.Backend)

		sink, err := storage.NewSink(cmd.Context(), store, logging.Named("storage"))
		if err != nil {
			return err
		}
		defer sink.Close()

		if err := sink.Save(cmd.Context(), ds); err != nil {
			return err
		}
		w.Success("exported %d records to %s", ds.Len(), store.Backend)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportBackend, "backend", "b", "", "export backend (csv, postgres, mysql)")
	exportCmd.Flags().StringVar(&exportPath, "path", "", "CSV output path")
	exportCmd.Flags().StringVar(&exportDSN, "dsn", "", "database connection string")
	exportCmd.Flags().StringVar(&exportTable, "table", "", "SQL table name")
}
