package config

import (
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// hclFile mirrors Config with optional fields so unset attributes keep defaults.
//
//	data {
//	  life_expectancy = "data/lex.csv"
//	}
//	server {
//	  addr = ":9090"
//	}
type hclFile struct {
	Version *string     `hcl:"version,optional"`
	Data    *hclData    `hcl:"data,block"`
	Chart   *hclChart   `hcl:"chart,block"`
	Server  *hclServer  `hcl:"server,block"`
	Storage *hclStorage `hcl:"storage,block"`
	Logging *hclLogging `hcl:"logging,block"`
}

type hclData struct {
	LifeExpectancy *string `hcl:"life_expectancy,optional"`
	Population     *string `hcl:"population,optional"`
	GNIPerCapita   *string `hcl:"gni_per_capita,optional"`
	KeyColumn      *string `hcl:"key_column,optional"`
	Delimiter      *string `hcl:"delimiter,optional"`
}

type hclChart struct {
	Width   *int     `hcl:"width,optional"`
	Height  *int     `hcl:"height,optional"`
	SizeMax *float64 `hcl:"size_max,optional"`
	Format  *string  `hcl:"format,optional"`
}

type hclServer struct {
	Addr       *string `hcl:"addr,optional"`
	UIPath     *string `hcl:"ui_path,optional"`
	EagerBuild *bool   `hcl:"eager_build,optional"`
}

type hclStorage struct {
	Backend *string `hcl:"backend,optional"`
	Path    *string `hcl:"path,optional"`
	DSN     *string `hcl:"dsn,optional"`
	Table   *string `hcl:"table,optional"`
}

type hclLogging struct {
	Level       *string `hcl:"level,optional"`
	Format      *string `hcl:"format,optional"`
	Output      *string `hcl:"output,optional"`
	Development *bool   `hcl:"development,optional"`
}

func decodeHCL(filename string, src []byte, cfg *Config) error {
	var f hclFile
	if err := hclsimple.Decode(filename, src, nil, &f); err != nil {
		return err
	}

	set(&cfg.Version, f.Version)
	if d := f.Data; d != nil {
		set(&cfg.Data.LifeExpectancy, d.LifeExpectancy)
		set(&cfg.Data.Population, d.Population)
		set(&cfg.Data.GNIPerCapita, d.GNIPerCapita)
		set(&cfg.Data.KeyColumn, d.KeyColumn)
		set(&cfg.Data.Delimiter, d.Delimiter)
	}
	if c := f.Chart; c != nil {
		set(&cfg.Chart.Width, c.Width)
		set(&cfg.Chart.Height, c.Height)
		set(&cfg.Chart.SizeMax, c.SizeMax)
		set(&cfg.Chart.Format, c.Format)
	}
	if s := f.Server; s != nil {
		set(&cfg.Server.Addr, s.Addr)
		set(&cfg.Server.UIPath, s.UIPath)
		set(&cfg.Server.EagerBuild, s.EagerBuild)
	}
	if s := f.Storage; s != nil {
		set(&cfg.Storage.Backend, s.Backend)
		set(&cfg.Storage.Path, s.Path)
		set(&cfg.Storage.DSN, s.DSN)
		set(&cfg.Storage.Table, s.Table)
	}
	if l := f.Logging; l != nil {
		set(&cfg.Logging.Level, l.Level)
		set(&cfg.Logging.Format, l.Format)
		set(&cfg.Logging.Output, l.Output)
		set(&cfg.Logging.Development, l.Development)
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
