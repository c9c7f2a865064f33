// Package storage exports the merged dataset.
// Backends: CSV file (optionally snappy-compressed), PostgreSQL, MySQL, memory.
package storage

import (
	"context"
	"io"
	"sync"

	"go.uber.org/zap"

	"gapminder/core/types"
	"gapminder/internal/config"
	"gapminder/internal/errors"
)

// Backend is a storage backend type
type Backend string

const (
	BackendCSV      Backend = "csv"
	BackendPostgres Backend = "postgres"
	BackendMySQL    Backend = "mysql"
	BackendMemory   Backend = "memory"
)

// Sink receives a built dataset
type Sink interface {
	// Save writes every record of the dataset
	Save(ctx context.Context, ds *types.Dataset) error

	// Close releases the sink's resources
	Close() error
}

// Columns is the exported column order
var Columns = []string{"country", "year", "life_expectancy", "population", "gni_per_capita"}

// MemorySink keeps saved datasets in memory (for testing)
type MemorySink struct {
	mu    sync.Mutex
	saved []*types.Dataset
}

// NewMemorySink creates a memory sink
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Save implements Sink
func (s *MemorySink) Save(ctx context.Context, ds *types.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, ds)
	return nil
}

// Saved returns the datasets saved so far
func (s *MemorySink) Saved() []*types.Dataset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Dataset, len(s.saved))
	copy(out, s.saved)
	return out
}

// Close implements Sink
func (s *MemorySink) Close() error {
	return nil
}

// NewSink creates the sink selected by the storage configuration
func NewSink(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (Sink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch Backend(cfg.Backend) {
	case BackendCSV, "":
		if cfg.Path == "" {
			return nil, errors.Config("csv export needs storage.path", nil)
		}
		return NewCSVSink(cfg.Path, logger), nil
	case BackendPostgres:
		return OpenSQLSink(ctx, DialectPostgres, cfg.DSN, cfg.Table, logger)
	case BackendMySQL:
		return OpenSQLSink(ctx, DialectMySQL, cfg.DSN, cfg.Table, logger)
	case BackendMemory:
		return NewMemorySink(), nil
	default:
		return nil, errors.Config("unsupported storage backend", nil).WithContext("backend", cfg.Backend)
	}
}

// Ensure interfaces are implemented
var _ io.Closer = (*CSVSink)(nil)
var _ io.Closer = (*SQLSink)(nil)
var _ io.Closer = (*MemorySink)(nil)
