package reshape

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

func wide(metric types.Metric, columns []string, rows ...[]string) *types.RawTable {
	return &types.RawTable{Metric: metric, KeyColumn: "country", Columns: columns, Rows: rows}
}

func TestReshapeShape(t *testing.T) {
	table := wide(types.MetricPopulation,
		[]string{"country", "1990", "2000", "2010"},
		[]string{"Chad", "6M", "", "11.9M"},
		[]string{"China", "1.1B", "1.26B", "1.34B"},
	)

	long, err := Reshape(table)
	require.NoError(t, err)
	assert.Equal(t, 2*3, long.Len())
	assert.Equal(t, types.MetricPopulation, long.Metric)
	assert.Equal(t, types.Observation{Key: types.Key{Country: "Chad", Year: 1990}, Raw: "6M"}, long.Observations[0])
	assert.True(t, long.Observations[1].Missing())
}

func TestReshapeRoundTrip(t *testing.T) {
	table := wide(types.MetricLifeExpectancy,
		[]string{"country", "1990", "2000"},
		[]string{"Albania", "71.1", "74.0"},
		[]string{"Chad", "", "48.5"},
		[]string{"China", "68.9", "71.4"},
	)

	long, err := Reshape(table)
	require.NoError(t, err)

	back := Widen(long, "country")
	if diff := cmp.Diff(table.Columns, back.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(table.Rows, back.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestReshapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		table   *types.RawTable
		errType errors.Type
	}{
		{
			name:    "non-year column label",
			table:   wide(types.MetricGNIPerCapita, []string{"country", "1990", "notes"}, []string{"Chad", "1k", "x"}),
			errType: errors.TypeParsing,
		},
		{
			name:    "missing key column",
			table:   wide(types.MetricGNIPerCapita, []string{"nation", "1990"}, []string{"Chad", "1k"}),
			errType: errors.TypeInput,
		},
		{
			name:    "empty country",
			table:   wide(types.MetricGNIPerCapita, []string{"country", "1990"}, []string{" ", "1k"}),
			errType: errors.TypeInput,
		},
		{
			name:    "duplicate country",
			table:   wide(types.MetricGNIPerCapita, []string{"country", "1990"}, []string{"Chad", "1k"}, []string{"Chad", "2k"}),
			errType: errors.TypeInput,
		},
		{
			name:    "duplicate year",
			table:   wide(types.MetricGNIPerCapita, []string{"country", "1990", " 1990"}, []string{"Chad", "1k", "2k"}),
			errType: errors.TypeInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reshape(tt.table)
			require.Error(t, err)
			assert.Equal(t, tt.errType, errors.TypeOf(err))
		})
	}
}

func TestFillForwardStaysWithinCountry(t *testing.T) {
	// Albania's last year is missing and Chad's first year has a value;
	// neither may borrow from the other.
	long, err := Reshape(wide(types.MetricLifeExpectancy,
		[]string{"country", "2000", "1990", "2010"},
		[]string{"Chad", "48.5", "46.0", ""},
		[]string{"Albania", "74.0", "", ""},
	))
	require.NoError(t, err)

	filled := FillForward(long)

	got := make(map[types.Key]string)
	for _, o := range filled.Observations {
		got[o.Key] = o.Raw
	}
	want := map[types.Key]string{
		{Country: "Albania", Year: 1990}: "",
		{Country: "Albania", Year: 2000}: "74.0",
		{Country: "Albania", Year: 2010}: "74.0",
		{Country: "Chad", Year: 1990}:    "46.0",
		{Country: "Chad", Year: 2000}:    "48.5",
		{Country: "Chad", Year: 2010}:    "48.5",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("filled values mismatch (-want +got):\n%s", diff)
	}

	for i := 1; i < len(filled.Observations); i++ {
		assert.True(t, filled.Observations[i-1].Key.Less(filled.Observations[i].Key), "not sorted at %d", i)
	}
}

func TestFillForwardLastCountryGapNotLeaked(t *testing.T) {
	long := &types.LongTable{Metric: types.MetricPopulation, Observations: []types.Observation{
		{Key: types.Key{Country: "A", Year: 2000}, Raw: "1M"},
		{Key: types.Key{Country: "A", Year: 2001}, Raw: ""},
		{Key: types.Key{Country: "B", Year: 2000}, Raw: ""},
		{Key: types.Key{Country: "B", Year: 2001}, Raw: "5M"},
	}}

	filled := FillForward(long)
	require.Len(t, filled.Observations, 4)
	assert.Equal(t, "1M", filled.Observations[1].Raw)
	assert.Equal(t, "", filled.Observations[2].Raw, "B's first year must not take A's value")
	assert.Equal(t, "", long.Observations[1].Raw, "input must not be modified")
}

func TestJoinContainment(t *testing.T) {
	lex := &types.LongTable{Metric: types.MetricLifeExpectancy, Observations: []types.Observation{
		{Key: types.Key{Country: "Chad", Year: 1990}, Raw: "46"},
		{Key: types.Key{Country: "Chad", Year: 2000}, Raw: "48"},
		{Key: types.Key{Country: "China", Year: 2000}, Raw: "71"},
	}}
	pop := &types.LongTable{Metric: types.MetricPopulation, Observations: []types.Observation{
		{Key: types.Key{Country: "Chad", Year: 2000}, Raw: "8M"},
		{Key: types.Key{Country: "China", Year: 2000}, Raw: "1.26B"},
		{Key: types.Key{Country: "Peru", Year: 2000}, Raw: "26M"},
	}}
	gni := &types.LongTable{Metric: types.MetricGNIPerCapita, Observations: []types.Observation{
		{Key: types.Key{Country: "Chad", Year: 2000}, Raw: "1k"},
		{Key: types.Key{Country: "Chad", Year: 1990}, Raw: "900"},
		{Key: types.Key{Country: "China", Year: 2000}, Raw: "2.9k"},
	}}

	rows := Join(lex, pop, gni)
	want := []JoinedRow{
		{Key: types.Key{Country: "Chad", Year: 2000}, Values: []string{"48", "8M", "1k"}},
		{Key: types.Key{Country: "China", Year: 2000}, Values: []string{"71", "1.26B", "2.9k"}},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("joined rows mismatch (-want +got):\n%s", diff)
	}

	indexes := []map[types.Key]string{lex.Index(), pop.Index(), gni.Index()}
	for _, r := range rows {
		for _, idx := range indexes {
			_, ok := idx[r.Key]
			assert.True(t, ok, "%v missing from a source table", r.Key)
		}
	}
}

func TestJoinEmpty(t *testing.T) {
	assert.Nil(t, Join())
	assert.Empty(t, Join(&types.LongTable{}, &types.LongTable{}))
}
