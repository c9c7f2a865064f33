package reshape

import (
	"sort"

	"gapminder/core/types"
)

// Partition groups observations by country. Each group is sorted by year and
// the groups are returned in ascending country order.
func Partition(long *types.LongTable) [][]types.Observation {
	groups := make(map[string][]types.Observation)
	for _, o := range long.Observations {
		groups[o.Country] = append(groups[o.Country], o)
	}

	countries := make([]string, 0, len(groups))
	for c := range groups {
		countries = append(countries, c)
	}
	sort.Strings(countries)

	out := make([][]types.Observation, 0, len(countries))
	for _, c := range countries {
		g := groups[c]
		sort.SliceStable(g, func(i, j int) bool { return g[i].Year < g[j].Year })
		out = append(out, g)
	}
	return out
}

// FillForward returns a copy of long sorted by (country, year) in which each
// missing reading takes the latest earlier reading of the same country.
// A gap at a country's first year stays missing.
func FillForward(long *types.LongTable) *types.LongTable {
	out := &types.LongTable{
		Metric:       long.Metric,
		Observations: make([]types.Observation, 0, len(long.Observations)),
	}

	for _, group := range Partition(long) {
		last := ""
		for _, o := range group {
			if o.Missing() {
				o.Raw = last
			} else {
				last = o.Raw
			}
			out.Observations = append(out.Observations, o)
		}
	}
	return out
}
