package types

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is the immutable merged table produced by one build.
// Records are ordered by (country, year).
type Dataset struct {
	// ID identifies the build
	ID uuid.UUID `json:"id"`

	// BuiltAt is when the build finished
	BuiltAt time.Time `json:"built_at"`

	// SourceRows counts long-format observations per metric before the join
	SourceRows map[Metric]int `json:"source_rows"`

	records   []Record
	countries []string
	minYear   int
	maxYear   int
}

// NewDataset wraps records that are already sorted by (country, year).
func NewDataset(records []Record, sourceRows map[Metric]int) *Dataset {
	ds := &Dataset{
		ID:         uuid.New(),
		BuiltAt:    time.Now().UTC(),
		SourceRows: sourceRows,
		records:    records,
	}

	for i, r := range records {
		if i == 0 || r.Country != records[i-1].Country {
			ds.countries = append(ds.countries, r.Country)
		}
		if i == 0 || r.Year < ds.minYear {
			ds.minYear = r.Year
		}
		if i == 0 || r.Year > ds.maxYear {
			ds.maxYear = r.Year
		}
	}
	return ds
}

// Len returns the number of records
func (d *Dataset) Len() int {
	return len(d.records)
}

// Records returns a copy of the records
func (d *Dataset) Records() []Record {
	out := make([]Record, len(d.records))
	copy(out, d.records)
	return out
}

// Each calls fn for every record in order until fn returns false
func (d *Dataset) Each(fn func(Record) bool) {
	for _, r := range d.records {
		if !fn(r) {
			return
		}
	}
}

// Countries returns the distinct countries in ascending order
func (d *Dataset) Countries() []string {
	out := make([]string, len(d.countries))
	copy(out, d.countries)
	return out
}

// YearRange returns the smallest and largest year; ok is false for an empty dataset.
func (d *Dataset) YearRange() (minYear, maxYear int, ok bool) {
	if len(d.records) == 0 {
		return 0, 0, false
	}
	return d.minYear, d.maxYear, true
}
