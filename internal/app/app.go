// Package app wires configuration into the dataset pipeline for the binaries.
package app

import (
	"go.uber.org/zap"

	"gapminder/core/chart"
	"gapminder/core/dataset"
	"gapminder/core/source"
	"gapminder/internal/config"
)

// Version is the application version
const Version = "0.1.0"

// NewSource returns the file source described by cfg.Data
func NewSource(cfg *config.Config) *source.FileSource {
	return source.NewFileSource(cfg.Data.Paths(), cfg.Data.KeyColumn, cfg.Data.DelimiterRune())
}

// NewHandle returns an unbuilt dataset handle reading the configured files
func NewHandle(cfg *config.Config, logger *zap.Logger) *dataset.Handle {
	return dataset.NewHandle(dataset.NewBuilder(NewSource(cfg), logger.Named("builder")))
}

// NewRenderer returns a chart renderer sized by cfg.Chart
func NewRenderer(cfg *config.Config) *chart.Renderer {
	return chart.NewRenderer(chart.Options{
		Width:   cfg.Chart.Width,
		Height:  cfg.Chart.Height,
		SizeMax: cfg.Chart.SizeMax,
	})
}

// ChartFormat returns the configured chart format, png when unset
func ChartFormat(cfg *config.Config) (chart.Format, error) {
	if cfg.Chart.Format == "" {
		return chart.FormatPNG, nil
	}
	return chart.ParseFormat(cfg.Chart.Format)
}
