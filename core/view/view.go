// Package view selects the records shown for one year and a set of countries,
// and derives the user controls from the dataset.
package view

import (
	"strconv"
	"strings"

	"gapminder/core/types"
	"gapminder/internal/errors"
)

const (
	Title    = "Gapminder"
	Subtitle = "Unlocking Lifetimes: Visualizing Progress in Longevity and Poverty Eradication"
)

// Selection is the user's choice of year and countries
type Selection struct {
	Year      int      `json:"year"`
	Countries []string `json:"countries"`
}

// Filter returns the records of the selected year whose country is selected.
// An empty country selection yields an empty result.
func Filter(ds *types.Dataset, sel Selection) []types.Record {
	out := []types.Record{}
	if len(sel.Countries) == 0 {
		return out
	}

	wanted := make(map[string]bool, len(sel.Countries))
	for _, c := range sel.Countries {
		wanted[c] = true
	}

	ds.Each(func(r types.Record) bool {
		if r.Year == sel.Year && wanted[r.Country] {
			out = append(out, r)
		}
		return true
	})
	return out
}

// Controls describes the year selector and country multi-select
type Controls struct {
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle"`
	MinYear     int      `json:"min_year"`
	MaxYear     int      `json:"max_year"`
	DefaultYear int      `json:"default_year"`
	Countries   []string `json:"countries"`
}

// ControlsFor derives the controls; the year defaults to the latest year.
func ControlsFor(ds *types.Dataset) Controls {
	minYear, maxYear, _ := ds.YearRange()
	return Controls{
		Title:       Title,
		Subtitle:    Subtitle,
		MinYear:     minYear,
		MaxYear:     maxYear,
		DefaultYear: maxYear,
		Countries:   ds.Countries(),
	}
}

// ParseSelection validates a raw year and country list against the controls.
// An empty year selects the default year. Each country entry is one identifier
// and may itself contain commas ("Congo, Dem. Rep."); blanks and repeats are dropped.
func (c Controls) ParseSelection(year string, countries []string) (Selection, error) {
	sel := Selection{Year: c.DefaultYear, Countries: UniqueCountries(countries)}

	year = strings.TrimSpace(year)
	if year == "" {
		return sel, nil
	}

	y, err := strconv.Atoi(year)
	if err != nil {
		return Selection{}, errors.Wrapf(errors.TypeInput, err, "invalid year %q", year)
	}
	if y < c.MinYear || y > c.MaxYear {
		return Selection{}, errors.Newf(errors.TypeInput, "year %d outside [%d, %d]", y, c.MinYear, c.MaxYear).
			WithContext("year", y)
	}
	sel.Year = y
	return sel, nil
}

// UniqueCountries trims entries and removes blanks and repeats, keeping order
func UniqueCountries(values []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
