// Package dataset builds the merged tidy table from the three source tables.
//
// The build runs load -> reshape -> fill -> join -> normalize. Any failure
// aborts the whole build; there is no partial output.
package dataset

import (
	"context"
	"strconv"
	"time"

	"go.uber.org/zap"

	"gapminder/core/magnitude"
	"gapminder/core/reshape"
	"gapminder/core/source"
	"gapminder/core/types"
	"gapminder/internal/errors"
	"gapminder/internal/logging"
)

// Builder turns the source tables into a Dataset
type Builder struct {
	source source.TableSource
	logger *zap.Logger
}

// NewBuilder creates a builder reading from src
func NewBuilder(src source.TableSource, logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{source: src, logger: logger}
}

// Build runs the full pipeline
func (b *Builder) Build(ctx context.Context) (*types.Dataset, error) {
	started := time.Now()

	long := make([]*types.LongTable, 0, len(types.Metrics))
	sourceRows := make(map[types.Metric]int, len(types.Metrics))
	for _, metric := range types.Metrics {
		t, err := b.prepare(ctx, metric)
		if err != nil {
			return nil, err
		}
		sourceRows[metric] = t.Len()
		long = append(long, t)
	}

	stageStart := time.Now()
	joined := reshape.Join(long...)
	logging.Stage(b.logger, "join", stageStart, zap.Int("rows", len(joined)))

	stageStart = time.Now()
	records, err := Normalize(joined)
	if err != nil {
		return nil, err
	}
	logging.Stage(b.logger, "normalize", stageStart)

	ds := types.NewDataset(records, sourceRows)
	minYear, maxYear, _ := ds.YearRange()
	b.logger.Info("dataset built",
		zap.String("build_id", ds.ID.String()),
		zap.Int("records", ds.Len()),
		zap.Int("countries", len(ds.Countries())),
		zap.Int("min_year", minYear),
		zap.Int("max_year", maxYear),
		zap.Duration("took", time.Since(started)),
	)
	return ds, nil
}

// prepare loads, reshapes and fills one metric
func (b *Builder) prepare(ctx context.Context, metric types.Metric) (*types.LongTable, error) {
	log := b.logger.With(zap.String("metric", metric.String()))

	stageStart := time.Now()
	raw, err := b.source.Load(ctx, metric)
	if err != nil {
		return nil, err
	}
	logging.Stage(log, "load", stageStart, zap.Int("rows", len(raw.Rows)), zap.Int("columns", len(raw.Columns)))

	stageStart = time.Now()
	long, err := reshape.Reshape(raw)
	if err != nil {
		return nil, err
	}
	logging.Stage(log, "reshape", stageStart, zap.Int("observations", long.Len()))

	stageStart = time.Now()
	filled := reshape.FillForward(long)
	logging.Stage(log, "fill", stageStart)
	return filled, nil
}

// Normalize converts joined raw readings into typed records. Values must be
// ordered as types.Metrics. Readings still missing after the fill stay missing.
func Normalize(rows []reshape.JoinedRow) ([]types.Record, error) {
	records := make([]types.Record, 0, len(rows))
	for _, row := range rows {
		if len(row.Values) != len(types.Metrics) {
			return nil, errors.Internal("joined row has the wrong number of values", nil).
				WithContext("country", row.Country).
				WithContext("year", row.Year).
				WithContext("values", len(row.Values))
		}

		rec := types.Record{Country: row.Country, Year: row.Year}
		targets := []*types.Measure{&rec.LifeExpectancy, &rec.Population, &rec.GNIPerCapita}
		for i, metric := range types.Metrics {
			m, err := parseMeasure(metric, row.Values[i])
			if err != nil {
				if e, ok := err.(*errors.Error); ok {
					e.WithContext("metric", metric.String()).
						WithContext("country", row.Country).
						WithContext("year", row.Year)
				}
				return nil, err
			}
			*targets[i] = m
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseMeasure(metric types.Metric, raw string) (types.Measure, error) {
	if raw == "" {
		return types.Measure{}, nil
	}
	if metric.Suffixed() {
		v, err := magnitude.Decode(raw)
		if err != nil {
			return types.Measure{}, err
		}
		return types.Some(v), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return types.Measure{}, errors.Parsing("invalid "+metric.String(), err).
			WithContext("value", raw)
	}
	return types.Some(v), nil
}
