// Package source loads the wide-format source tables.
// Files are read as delimited text through gota dataframes with type detection
// disabled, so every cell reaches the builder as its raw text.
package source

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

// TableSource provides the raw table for a metric
type TableSource interface {
	Load(ctx context.Context, metric types.Metric) (*types.RawTable, error)
}

// FileSource reads one CSV file per metric
type FileSource struct {
	paths     map[types.Metric]string
	keyColumn string
	delimiter rune
}

// NewFileSource creates a FileSource for the given metric -> path mapping
func NewFileSource(paths map[types.Metric]string, keyColumn string, delimiter rune) *FileSource {
	if keyColumn == "" {
		keyColumn = types.DefaultKeyColumn
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &FileSource{paths: paths, keyColumn: keyColumn, delimiter: delimiter}
}

// Load implements TableSource
func (s *FileSource) Load(ctx context.Context, metric types.Metric) (*types.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, ok := s.paths[metric]
	if !ok || path == "" {
		return nil, errors.NotFound("source path for metric", metric.String())
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("source file", path).WithContext("metric", metric.String())
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "open %s", path)
	}
	defer f.Close()

	table, err := ReadCSV(f, metric, s.keyColumn, s.delimiter)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeInput, err, "read %s", path).WithContext("metric", metric.String())
	}
	return table, nil
}

// ReadCSV parses a delimited table into a RawTable, keeping every cell as text.
func ReadCSV(r io.Reader, metric types.Metric, keyColumn string, delimiter rune) (*types.RawTable, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithDelimiter(delimiter),
	)
	if df.Err != nil {
		return nil, df.Err
	}
	return fromDataFrame(df, metric, keyColumn)
}

func fromDataFrame(df dataframe.DataFrame, metric types.Metric, keyColumn string) (*types.RawTable, error) {
	records := df.Records()
	if len(records) == 0 {
		return nil, errors.Input("table has no header")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make([]string, len(rec))
		for i, cell := range rec {
			row[i] = normalizeCell(cell)
		}
		rows = append(rows, row)
	}

	return &types.RawTable{
		Metric:    metric,
		KeyColumn: keyColumn,
		Columns:   header,
		Rows:      rows,
	}, nil
}

// normalizeCell trims a cell and maps NA markers to the empty string
func normalizeCell(cell string) string {
	cell = strings.TrimSpace(cell)
	switch cell {
	case "NA", "NaN", "nan", "<nil>":
		return ""
	}
	return cell
}

// StaticSource serves tables held in memory
type StaticSource map[types.Metric]*types.RawTable

// Load implements TableSource
func (s StaticSource) Load(ctx context.Context, metric types.Metric) (*types.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t, ok := s[metric]
	if !ok {
		return nil, errors.NotFound("table for metric", metric.String())
	}
	return t, nil
}
