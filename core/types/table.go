package types

// DefaultKeyColumn is the key column shared by every source table
const DefaultKeyColumn = "country"

// RawTable is a wide source table: one row per country, one column per year label.
type RawTable struct {
	// Metric is the dataset the table carries
	Metric Metric

	// KeyColumn names the country column
	KeyColumn string

	// Columns holds the header in file order, key column included
	Columns []string

	// Rows holds the cells in header order
	Rows [][]string
}

// Observation is one long-format cell; Raw is empty when the reading is missing.
type Observation struct {
	Key
	Raw string
}

// Missing reports whether the reading is absent
func (o Observation) Missing() bool {
	return o.Raw == ""
}

// LongTable is a reshaped source table, one observation per (country, year)
type LongTable struct {
	Metric       Metric
	Observations []Observation
}

// Len returns the number of observations
func (t *LongTable) Len() int {
	return len(t.Observations)
}

// Index maps each key to its raw reading
func (t *LongTable) Index() map[Key]string {
	idx := make(map[Key]string, len(t.Observations))
	for _, o := range t.Observations {
		idx[o.Key] = o.Raw
	}
	return idx
}
