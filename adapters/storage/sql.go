package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

// Dialect selects SQL syntax and driver
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

var tableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// quote quotes an identifier for the dialect
func (d Dialect) quote(name string) string {
	if d == DialectPostgres {
		return pq.QuoteIdentifier(name)
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// CreateTableSQL returns the DDL for the export table
func (d Dialect) CreateTableSQL(table string) string {
	country := "TEXT"
	if d == DialectMySQL {
		country = "VARCHAR(255)"
	}
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	country         %s NOT NULL,
	year            INTEGER NOT NULL,
	life_expectancy DOUBLE PRECISION NULL,
	population      DOUBLE PRECISION NULL,
	gni_per_capita  DOUBLE PRECISION NULL,
	PRIMARY KEY (country, year)
)`, d.quote(table), country)
}

// UpsertSQL returns the insert-or-update statement for one record
func (d Dialect) UpsertSQL(table string) string {
	if d == DialectPostgres {
		return fmt.Sprintf(`INSERT INTO %s (country, year, life_expectancy, population, gni_per_capita)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (country, year) DO UPDATE SET
	life_expectancy = EXCLUDED.life_expectancy,
	population = EXCLUDED.population,
	gni_per_capita = EXCLUDED.gni_per_capita`, d.quote(table))
	}
	return fmt.Sprintf(`INSERT INTO %s (country, year, life_expectancy, population, gni_per_capita)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
	life_expectancy = VALUES(life_expectancy),
	population = VALUES(population),
	gni_per_capita = VALUES(gni_per_capita)`, d.quote(table))
}

// NormalizeDSN validates the connection string for the dialect
func (d Dialect) NormalizeDSN(dsn string) (string, error) {
	switch d {
	case DialectMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return "", err
		}
		cfg.ParseTime = true
		return cfg.FormatDSN(), nil
	case DialectPostgres:
		if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
			return pq.ParseURL(dsn)
		}
		return dsn, nil
	}
	return "", fmt.Errorf("unknown dialect %q", d)
}

// SQLSink upserts the dataset into a relational table
type SQLSink struct {
	db      *sql.DB
	dialect Dialect
	table   string
	logger  *zap.Logger
}

// OpenSQLSink connects to the database and pings it
func OpenSQLSink(ctx context.Context, dialect Dialect, dsn, table string, logger *zap.Logger) (*SQLSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !tableNameRe.MatchString(table) {
		return nil, errors.Config("invalid table name", nil).WithContext("table", table)
	}
	if dsn == "" {
		return nil, errors.Config("sql export needs storage.dsn", nil).WithContext("backend", string(dialect))
	}

	normalized, err := dialect.NormalizeDSN(dsn)
	if err != nil {
		return nil, errors.Config("invalid dsn", err).WithContext("backend", string(dialect))
	}

	db, err := sql.Open(string(dialect), normalized)
	if err != nil {
		return nil, errors.Storage("open database", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Minute * 5)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Storage("ping database", err).WithContext("backend", string(dialect))
	}

	logger.Info("connected to database", zap.String("backend", string(dialect)))
	return &SQLSink{db: db, dialect: dialect, table: table, logger: logger}, nil
}

// Save creates the table if needed and upserts every record in one transaction
func (s *SQLSink) Save(ctx context.Context, ds *types.Dataset) (err error) {
	if _, err := s.db.ExecContext(ctx, s.dialect.CreateTableSQL(s.table)); err != nil {
		return errors.Storage("create table", err).WithContext("table", s.table)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Storage("begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, s.dialect.UpsertSQL(s.table))
	if err != nil {
		return errors.Storage("prepare statement", err)
	}
	defer stmt.Close()

	written := 0
	ds.Each(func(r types.Record) bool {
		_, err = stmt.ExecContext(ctx,
			r.Country,
			r.Year,
			nullable(r.LifeExpectancy),
			nullable(r.Population),
			nullable(r.GNIPerCapita),
		)
		if err != nil {
			err = errors.Storage("upsert record", err).
				WithContext("country", r.Country).
				WithContext("year", r.Year)
			return false
		}
		written++
		return true
	})
	if err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Storage("commit transaction", err)
	}

	s.logger.Info("dataset exported",
		zap.String("backend", string(s.dialect)),
		zap.String("table", s.table),
		zap.Int("rows", written),
	)
	return nil
}

// Close closes the database connection
func (s *SQLSink) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func nullable(m types.Measure) sql.NullFloat64 {
	return sql.NullFloat64{Float64: m.Value, Valid: m.Valid}
}
