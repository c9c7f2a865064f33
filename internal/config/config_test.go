package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name:    "json",
			file:    "gapminder.json",
			content: `{"data": {"population": "in/pop.csv"}, "server": {"addr": ":9090"}}`,
		},
		{
			name:    "yaml",
			file:    "gapminder.yaml",
			content: "data:\n  population: in/pop.csv\nserver:\n  addr: \":9090\"\n",
		},
		{
			name:    "hcl",
			file:    "gapminder.hcl",
			content: "data {\n  population = \"in/pop.csv\"\n}\nserver {\n  addr = \":9090\"\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(write(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "in/pop.csv", cfg.Data.Population)
			assert.Equal(t, ":9090", cfg.Server.Addr)
			assert.Equal(t, "lex.csv", cfg.Data.LifeExpectancy, "unset fields keep defaults")
			assert.Equal(t, 60.0, cfg.Chart.SizeMax)
			assert.Equal(t, "info", cfg.Logging.Level)
		})
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	for name, content := range map[string]string{
		"bad.json":  `{"storage": {"backend": "s3"}}`,
		"bad2.json": `{"data": {"delimiter": ";;"}}`,
		"bad3.json": `{"chart": {"format": "gif"}}`,
		"bad4.json": `{not json`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(write(t, name, content))
			assert.True(t, errors.IsType(err, errors.TypeConfig), "got %v", err)
		})
	}
}

func TestLoadMemoryBackend(t *testing.T) {
	cfg, err := Load(write(t, "memory.yaml", "storage:\n  backend: memory\n"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Storage.Backend)
}

func TestDataPaths(t *testing.T) {
	d := Default().Data
	paths := d.Paths()
	assert.Equal(t, "lex.csv", paths[types.MetricLifeExpectancy])
	assert.Equal(t, "pop.csv", paths[types.MetricPopulation])
	assert.Equal(t, "ny_gnp_pcap_pp_cd.csv", paths[types.MetricGNIPerCapita])
	assert.Equal(t, ',', d.DelimiterRune())

	d.Delimiter = ";"
	assert.Equal(t, ';', d.DelimiterRune())
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "gapminder.json")
	cfg := Default()
	cfg.Storage.Backend = "postgres"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres", loaded.Storage.Backend)
}
