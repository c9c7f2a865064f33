// Package reshape converts wide source tables to long form, fills gaps per
// country and joins the three metrics on (country, year).
package reshape

import (
	"sort"
	"strconv"
	"strings"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

// Reshape melts a wide table into one observation per (country, year).
// Every non-key column label must be an integer year. Countries must be
// non-empty and unique.
func Reshape(table *types.RawTable) (*types.LongTable, error) {
	keyColumn := table.KeyColumn
	if keyColumn == "" {
		keyColumn = types.DefaultKeyColumn
	}

	keyIdx := -1
	for i, c := range table.Columns {
		if c == keyColumn {
			keyIdx = i
			break
		}
	}
	if keyIdx < 0 {
		return nil, errors.Newf(errors.TypeInput, "key column %q not found", keyColumn).
			WithContext("metric", table.Metric.String())
	}

	type yearColumn struct {
		idx  int
		year int
	}
	years := make([]yearColumn, 0, len(table.Columns)-1)
	seenYears := make(map[int]bool, len(table.Columns))
	for i, label := range table.Columns {
		if i == keyIdx {
			continue
		}
		year, err := ParseYear(label)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "column %q is not a year", label).
				WithContext("metric", table.Metric.String()).
				WithContext("column", label)
		}
		if seenYears[year] {
			return nil, errors.Newf(errors.TypeInput, "year %d appears twice", year).
				WithContext("metric", table.Metric.String())
		}
		seenYears[year] = true
		years = append(years, yearColumn{idx: i, year: year})
	}

	out := &types.LongTable{
		Metric:       table.Metric,
		Observations: make([]types.Observation, 0, len(table.Rows)*len(years)),
	}
	seenCountries := make(map[string]bool, len(table.Rows))
	for n, row := range table.Rows {
		country := ""
		if keyIdx < len(row) {
			country = strings.TrimSpace(row[keyIdx])
		}
		if country == "" {
			return nil, errors.Newf(errors.TypeInput, "row %d has an empty %s", n+1, keyColumn).
				WithContext("metric", table.Metric.String())
		}
		if seenCountries[country] {
			return nil, errors.Newf(errors.TypeInput, "country %q appears twice", country).
				WithContext("metric", table.Metric.String())
		}
		seenCountries[country] = true

		for _, yc := range years {
			raw := ""
			if yc.idx < len(row) {
				raw = strings.TrimSpace(row[yc.idx])
			}
			out.Observations = append(out.Observations, types.Observation{
				Key: types.Key{Country: country, Year: yc.year},
				Raw: raw,
			})
		}
	}

	return out, nil
}

// ParseYear parses a column label as a calendar year
func ParseYear(label string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(label))
}

// Widen pivots a long table back to one row per country and one column per
// year, both ascending. Pairs absent from the long table become empty cells.
func Widen(long *types.LongTable, keyColumn string) *types.RawTable {
	if keyColumn == "" {
		keyColumn = types.DefaultKeyColumn
	}

	cells := long.Index()
	countrySet := make(map[string]bool)
	yearSet := make(map[int]bool)
	for _, o := range long.Observations {
		countrySet[o.Country] = true
		yearSet[o.Year] = true
	}

	countries := make([]string, 0, len(countrySet))
	for c := range countrySet {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	columns := make([]string, 0, len(years)+1)
	columns = append(columns, keyColumn)
	for _, y := range years {
		columns = append(columns, strconv.Itoa(y))
	}

	rows := make([][]string, 0, len(countries))
	for _, c := range countries {
		row := make([]string, 0, len(columns))
		row = append(row, c)
		for _, y := range years {
			row = append(row, cells[types.Key{Country: c, Year: y}])
		}
		rows = append(rows, row)
	}

	return &types.RawTable{
		Metric:    long.Metric,
		KeyColumn: keyColumn,
		Columns:   columns,
		Rows:      rows,
	}
}
