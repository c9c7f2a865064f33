package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapminder/core/types"
)

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	tbl := w.NewTable("Name", "N").AlignRight(1)
	tbl.AddRow("Côte d'Ivoire", "7")
	tbl.AddRow("Chad", "12", "ignored")
	tbl.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Name          │  N", lines[0])
	assert.Equal(t, "──────────────┼───", lines[1])
	assert.Equal(t, "Côte d'Ivoire │  7", lines[2])
	assert.Equal(t, "Chad          │ 12", lines[3])
}

func TestRecordTable(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	tbl := w.RecordTable([]types.Record{
		{Country: "China", Year: 2000, LifeExpectancy: types.Some(71.7), Population: types.Some(1.29e9), GNIPerCapita: types.Some(2900)},
		{Country: "Chad", Year: 2000, LifeExpectancy: types.Some(48.5), Population: types.Some(8.3e6)},
	})
	assert.Equal(t, 2, tbl.Len())
	tbl.Render()

	out := buf.String()
	assert.Contains(t, out, "1.29B")
	assert.Contains(t, out, "2.9k")
	assert.Contains(t, out, "8.3M")
	assert.Contains(t, out, "71.7")
	assert.Contains(t, strings.Split(out, "\n")[3], "-")
}

func TestWriterVerbosityAndColor(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)
	w.SetVerbosity(0)
	w.Info("hidden")
	w.Debug("hidden")
	w.Success("done %d", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), Green)
	assert.Contains(t, buf.String(), "done 3")
}

func TestDatasetSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	ds := types.NewDataset([]types.Record{
		{Country: "Chad", Year: 1990},
		{Country: "Chad", Year: 2000},
		{Country: "China", Year: 2000},
	}, map[types.Metric]int{types.MetricLifeExpectancy: 6, types.MetricPopulation: 4, types.MetricGNIPerCapita: 4})
	w.NewDatasetSummary(ds).Render()

	out := buf.String()
	assert.Contains(t, out, "Records:   3")
	assert.Contains(t, out, "Countries: 2")
	assert.Contains(t, out, "1990 - 2000")
	assert.Contains(t, out, "life_expectancy │    6")

	buf.Reset()
	w.NewDatasetSummary(types.NewDataset(nil, nil)).Render()
	assert.Contains(t, buf.String(), "no (country, year) pair")
}
