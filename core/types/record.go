// Package types - Tidy record and source table types
package types

import (
	"encoding/json"
	"strconv"
)

// Metric identifies one of the three source datasets
type Metric string

const (
	MetricLifeExpectancy Metric = "life_expectancy"
	MetricPopulation     Metric = "population"
	MetricGNIPerCapita   Metric = "gni_per_capita"
)

// Metrics lists the source metrics in join order
var Metrics = []Metric{MetricLifeExpectancy, MetricPopulation, MetricGNIPerCapita}

// String returns the string representation
func (m Metric) String() string {
	return string(m)
}

// Suffixed reports whether the metric's cells may carry a k/M/B magnitude suffix
func (m Metric) Suffixed() bool {
	return m == MetricPopulation || m == MetricGNIPerCapita
}

// Key identifies one observation
type Key struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

// Less orders keys by country, then year
func (k Key) Less(other Key) bool {
	if k.Country != other.Country {
		return k.Country < other.Country
	}
	return k.Year < other.Year
}

// Measure is a nullable reading. A zero Measure is missing.
type Measure struct {
	Value float64
	Valid bool
}

// Some returns a present measure
func Some(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

// MarshalJSON encodes a missing measure as null
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON decodes null as a missing measure
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Measure{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Some(v)
	return nil
}

// String formats the measure; missing renders as an empty string
func (m Measure) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// Record is one tidy (country, year) row of the merged dataset
type Record struct {
	Country        string  `json:"country"`
	Year           int     `json:"year"`
	LifeExpectancy Measure `json:"life_expectancy"`
	Population     Measure `json:"population"`
	GNIPerCapita   Measure `json:"gni_per_capita"`
}

// Key returns the record's join key
func (r Record) Key() Key {
	return Key{Country: r.Country, Year: r.Year}
}

// Plottable reports whether the record can be placed on a log-x bubble chart
func (r Record) Plottable() bool {
	return r.LifeExpectancy.Valid && r.Population.Valid && r.GNIPerCapita.Valid &&
		r.GNIPerCapita.Value > 0 && r.Population.Value >= 0
}
