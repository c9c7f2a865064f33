// Package ui - Terminal user interface
// CLI output with colors, tables and dataset summaries.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"gapminder/core/magnitude"
	"gapminder/core/types"
)

// Colors for terminal output
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
	Cyan   = "\033[36m"
)

// Writer is the UI output destination
type Writer struct {
	out       io.Writer
	noColor   bool
	verbosity int
}

// NewWriter creates a UI writer
func NewWriter(out io.Writer, noColor bool) *Writer {
	if out == nil {
		out = os.Stdout
	}
	return &Writer{
		out:       out,
		noColor:   noColor,
		verbosity: 1,
	}
}

// SetVerbosity sets output verbosity (0=quiet, 1=normal, 2=verbose)
func (w *Writer) SetVerbosity(level int) {
	w.verbosity = level
}

func (w *Writer) color(c, text string) string {
	if w.noColor {
		return text
	}
	return c + text + Reset
}

// Print writes formatted text
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line with newline
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Header prints a section header
func (w *Writer) Header(title string) {
	w.Println("")
	w.Println("%s", w.color(Bold+Cyan, "━━━ "+title+" ━━━"))
	w.Println("")
}

// Success prints a success message
func (w *Writer) Success(format string, args ...interface{}) {
	w.Println("%s%s", w.color(Green, "✓ "), fmt.Sprintf(format, args...))
}

// Warning prints a warning
func (w *Writer) Warning(format string, args ...interface{}) {
	w.Println("%s%s", w.color(Yellow, "⚠ "), fmt.Sprintf(format, args...))
}

// Error prints an error
func (w *Writer) Error(format string, args ...interface{}) {
	w.Println("%s%s", w.color(Red, "✗ "), fmt.Sprintf(format, args...))
}

// Info prints an info message
func (w *Writer) Info(format string, args ...interface{}) {
	if w.verbosity < 1 {
		return
	}
	w.Println("%s%s", w.color(Blue, "ℹ "), fmt.Sprintf(format, args...))
}

// Debug prints a debug message
func (w *Writer) Debug(format string, args ...interface{}) {
	if w.verbosity < 2 {
		return
	}
	w.Println("%s", w.color(Dim, "  "+fmt.Sprintf(format, args...)))
}

// Table renders a table
type Table struct {
	w       *Writer
	headers []string
	rows    [][]string
	widths  []int
	right   []bool
}

// NewTable creates a table
func (w *Writer) NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &Table{
		w:       w,
		headers: headers,
		widths:  widths,
		right:   make([]bool, len(headers)),
	}
}

// AlignRight right-aligns the given columns
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		if c >= 0 && c < len(t.right) {
			t.right[c] = true
		}
	}
	return t
}

// AddRow adds a row; missing cells are blank, extra cells are dropped
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if n := utf8.RuneCountInString(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render prints the table
func (t *Table) Render() {
	t.w.Println("%s", t.w.color(Bold, t.line(t.headers)))

	sep := make([]string, len(t.widths))
	for i, w := range t.widths {
		sep[i] = strings.Repeat("─", w)
	}
	t.w.Println("%s", strings.Join(sep, "─┼─"))

	for _, row := range t.rows {
		t.w.Println("%s", t.line(row))
	}
}

func (t *Table) line(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		pad := strings.Repeat(" ", t.widths[i]-utf8.RuneCountInString(cell))
		if t.right[i] {
			parts[i] = pad + cell
		} else {
			parts[i] = cell + pad
		}
	}
	return strings.TrimRight(strings.Join(parts, " │ "), " ")
}

// RecordTable lays out records as country, year and the three measures.
// Population and GNI use magnitude suffixes; missing readings show as "-".
func (w *Writer) RecordTable(records []types.Record) *Table {
	t := w.NewTable("Country", "Year", "Life exp.", "Population", "GNI/capita").AlignRight(1, 2, 3, 4)
	for _, r := range records {
		t.AddRow(r.Country, fmt.Sprint(r.Year),
			measure(r.LifeExpectancy, func(v float64) string { return fmt.Sprintf("%.1f", v) }),
			measure(r.Population, magnitude.Format),
			measure(r.GNIPerCapita, magnitude.Format),
		)
	}
	return t
}

func measure(m types.Measure, format func(float64) string) string {
	if !m.Valid {
		return "-"
	}
	return format(m.Value)
}

// DatasetSummary renders the outcome of a build
type DatasetSummary struct {
	w       *Writer
	Dataset *types.Dataset
}

// NewDatasetSummary creates a summary for ds
func (w *Writer) NewDatasetSummary(ds *types.Dataset) *DatasetSummary {
	return &DatasetSummary{w: w, Dataset: ds}
}

// Render prints the summary
func (s *DatasetSummary) Render() {
	ds := s.Dataset
	s.w.Header("Dataset")

	minYear, maxYear, ok := ds.YearRange()
	if !ok {
		s.w.Warning("no (country, year) pair is present in all three tables")
		return
	}

	s.w.Println("%s %s", s.w.color(Bold, "Build:    "), ds.ID.String())
	s.w.Println("%s %d", s.w.color(Bold, "Records:  "), ds.Len())
	s.w.Println("%s %d", s.w.color(Bold, "Countries:"), len(ds.Countries()))
	s.w.Println("%s %d - %d", s.w.color(Bold, "Years:    "), minYear, maxYear)
	s.w.Println("")

	t := s.w.NewTable("Source", "Rows").AlignRight(1)
	for _, m := range types.Metrics {
		t.AddRow(m.String(), fmt.Sprint(ds.SourceRows[m]))
	}
	t.Render()
}
