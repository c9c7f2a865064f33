package reshape

import (
	"gapminder/core/types"
)

// JoinedRow holds the raw readings of every joined table for one key,
// in the order the tables were passed to Join.
type JoinedRow struct {
	types.Key
	Values []string
}

// Join inner-joins the tables pairwise on (country, year). Row order follows
// the first table.
func Join(tables ...*types.LongTable) []JoinedRow {
	if len(tables) == 0 {
		return nil
	}

	rows := make([]JoinedRow, 0, tables[0].Len())
	for _, o := range tables[0].Observations {
		rows = append(rows, JoinedRow{Key: o.Key, Values: []string{o.Raw}})
	}

	for _, t := range tables[1:] {
		rows = joinPair(rows, t.Index())
	}
	return rows
}

func joinPair(left []JoinedRow, right map[types.Key]string) []JoinedRow {
	out := left[:0]
	for _, row := range left {
		raw, ok := right[row.Key]
		if !ok {
			continue
		}
		row.Values = append(row.Values, raw)
		out = append(out, row)
	}
	return out
}
