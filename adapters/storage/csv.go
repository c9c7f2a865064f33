package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/golang/snappy"
	"go.uber.org/zap"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

// CSVSink writes the dataset as a tidy CSV file. A path ending in ".sz" is
// written as a snappy framed stream.
type CSVSink struct {
	path   string
	logger *zap.Logger
}

// NewCSVSink creates a CSV sink
func NewCSVSink(path string, logger *zap.Logger) *CSVSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVSink{path: path, logger: logger}
}

// Compressed reports whether output is snappy-compressed
func (s *CSVSink) Compressed() bool {
	return strings.HasSuffix(s.path, ".sz")
}

// Save implements Sink
func (s *CSVSink) Save(ctx context.Context, ds *types.Dataset) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Storage("create output directory", err).WithContext("path", dir)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return errors.Storage("create csv file", err).WithContext("path", s.path)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = errors.Storage("close csv file", cerr)
		}
	}()

	var w io.Writer = file
	if s.Compressed() {
		sw := snappy.NewBufferedWriter(file)
		defer func() {
			if cerr := sw.Close(); err == nil && cerr != nil {
				err = errors.Storage("flush snappy stream", cerr)
			}
		}()
		w = sw
	}

	if err := WriteCSV(w, ds); err != nil {
		return err
	}

	s.logger.Info("dataset exported",
		zap.String("backend", string(BackendCSV)),
		zap.String("path", s.path),
		zap.Bool("snappy", s.Compressed()),
		zap.Int("rows", ds.Len()),
	)
	return nil
}

// Close implements Sink
func (s *CSVSink) Close() error {
	return nil
}

// WriteCSV writes the dataset with a header row; missing readings are empty cells.
func WriteCSV(w io.Writer, ds *types.Dataset) error {
	if ds.Len() == 0 {
		// gota refuses a frame without rows
		_, err := io.WriteString(w, strings.Join(Columns, ",")+"\n")
		if err != nil {
			return errors.Storage("write csv header", err)
		}
		return nil
	}

	df := dataframe.LoadRecords(Rows(ds),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return errors.Storage("build csv frame", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return errors.Storage("write csv", err)
	}
	return nil
}

// Rows renders the dataset as text rows, header first
func Rows(ds *types.Dataset) [][]string {
	rows := make([][]string, 0, ds.Len()+1)
	rows = append(rows, Columns)
	ds.Each(func(r types.Record) bool {
		rows = append(rows, []string{
			r.Country,
			strconv.Itoa(r.Year),
			r.LifeExpectancy.String(),
			r.Population.String(),
			r.GNIPerCapita.String(),
		})
		return true
	})
	return rows
}
