// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"gapminder/core/types"
	"gapminder/internal/errors"
	"gapminder/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Data locates the source tables
	Data DataConfig `json:"data" yaml:"data"`

	// Chart contains rendering settings
	Chart ChartConfig `json:"chart" yaml:"chart"`

	// Server contains HTTP settings
	Server ServerConfig `json:"server" yaml:"server"`

	// Storage contains export settings
	Storage StorageConfig `json:"storage" yaml:"storage"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// DataConfig locates the three wide-format source tables
type DataConfig struct {
	// LifeExpectancy is the life expectancy CSV path
	LifeExpectancy string `json:"life_expectancy" yaml:"life_expectancy"`

	// Population is the population CSV path
	Population string `json:"population" yaml:"population"`

	// GNIPerCapita is the GNI per capita CSV path
	GNIPerCapita string `json:"gni_per_capita" yaml:"gni_per_capita"`

	// KeyColumn names the country column
	KeyColumn string `json:"key_column" yaml:"key_column"`

	// Delimiter is the field separator, one character
	Delimiter string `json:"delimiter" yaml:"delimiter"`
}

// Paths maps each metric to its file
func (d DataConfig) Paths() map[types.Metric]string {
	return map[types.Metric]string{
		types.MetricLifeExpectancy: d.LifeExpectancy,
		types.MetricPopulation:     d.Population,
		types.MetricGNIPerCapita:   d.GNIPerCapita,
	}
}

// DelimiterRune returns the delimiter, defaulting to a comma
func (d DataConfig) DelimiterRune() rune {
	if d.Delimiter == "" {
		return ','
	}
	return []rune(d.Delimiter)[0]
}

// ChartConfig contains chart rendering settings
type ChartConfig struct {
	Width   int     `json:"width" yaml:"width"`
	Height  int     `json:"height" yaml:"height"`
	SizeMax float64 `json:"size_max" yaml:"size_max"`
	Format  string  `json:"format" yaml:"format"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" yaml:"addr"`

	// UIPath serves static files at / when set
	UIPath string `json:"ui_path" yaml:"ui_path"`

	// EagerBuild builds the dataset before accepting requests
	EagerBuild bool `json:"eager_build" yaml:"eager_build"`
}

// StorageConfig contains export settings
type StorageConfig struct {
	// Backend is csv, postgres or mysql
	Backend string `json:"backend" yaml:"backend"`

	// Path is the CSV output path; a .sz suffix enables snappy compression
	Path string `json:"path" yaml:"path"`

	// DSN is the database connection string
	DSN string `json:"dsn" yaml:"dsn"`

	// Table is the SQL table name
	Table string `json:"table" yaml:"table"`
}

// StorageBackends lists the export backends accepted in storage.backend
var StorageBackends = []string{"csv", "postgres", "mysql", "memory"}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Data: DataConfig{
			LifeExpectancy: "lex.csv",
			Population:     "pop.csv",
			GNIPerCapita:   "ny_gnp_pcap_pp_cd.csv",
			KeyColumn:      types.DefaultKeyColumn,
			Delimiter:      ",",
		},
		Chart: ChartConfig{
			Width:   1024,
			Height:  640,
			SizeMax: 60,
			Format:  "png",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Storage: StorageConfig{
			Backend: "csv",
			Path:    "gapminder.csv",
			Table:   "gapminder_records",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON, YAML or HCL file chosen by extension.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, errors.Config("read config", err).WithContext("path", path)
	}

	config := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, config)
	case ".hcl":
		err = decodeHCL(path, data, config)
	default:
		err = json.Unmarshal(data, config)
	}
	if err != nil {
		return nil, errors.Config("parse config", err).WithContext("path", path)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	if len([]rune(c.Data.Delimiter)) > 1 {
		return errors.Config("delimiter must be a single character", nil).WithContext("delimiter", c.Data.Delimiter)
	}
	if c.Storage.Backend != "" && !slices.Contains(StorageBackends, c.Storage.Backend) {
		return errors.Config("unknown storage backend", nil).WithContext("backend", c.Storage.Backend)
	}
	switch c.Chart.Format {
	case "", "png", "svg":
	default:
		return errors.Config("unknown chart format", nil).WithContext("format", c.Chart.Format)
	}
	return nil
}

// JSON returns the configuration as indented JSON
func (c *Config) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// Save saves configuration as indented JSON
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := c.JSON()
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
