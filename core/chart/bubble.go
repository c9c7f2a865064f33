// Package chart renders the life expectancy / GNI / population bubble chart.
package chart

import (
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"gapminder/core/magnitude"
	"gapminder/core/types"
	"gapminder/internal/errors"
)

// Format is an output image format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat accepts "png" or "svg"
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPNG, FormatSVG:
		return Format(s), nil
	}
	return "", errors.Newf(errors.TypeInput, "unsupported chart format %q", s)
}

// ErrEmptyView is wrapped by the error returned when no selected record can be drawn
var ErrEmptyView = stderrors.New("no plottable records in the selection")

// Same palette order as the dashboard's country colours.
var palette = []string{
	"4F46E5", "10B981", "F59E0B", "EF4444", "8B5CF6",
	"06B6D4", "EC4899", "84CC16", "F97316", "6366F1",
}

// Options controls the rendered image
type Options struct {
	Width   int
	Height  int
	SizeMax float64 // largest bubble diameter in pixels
}

// DefaultOptions returns the dashboard defaults
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 640, SizeMax: 60}
}

// Renderer draws bubble charts
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer; zero fields fall back to DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.SizeMax <= 0 {
		opts.SizeMax = def.SizeMax
	}
	return &Renderer{opts: opts}
}

// Title returns the chart title for a year
func Title(year int) string {
	return fmt.Sprintf("Life Expectancy, Population and GNI per Capita for Selected Countries in %d", year)
}

// Render writes the chart for the given records in the requested format
func (r *Renderer) Render(w io.Writer, format Format, year int, records []types.Record) error {
	graph, err := r.Build(year, records)
	if err != nil {
		return err
	}

	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}
	if err := graph.Render(provider, w); err != nil {
		return errors.Render("render chart", err).WithContext("format", string(format))
	}
	return nil
}

// Build lays out the chart: x is log10 of GNI per capita, y is life
// expectancy, bubble area is proportional to population and each country
// is its own coloured series.
func (r *Renderer) Build(year int, records []types.Record) (gochart.Chart, error) {
	points := make([]types.Record, 0, len(records))
	maxPop := 0.0
	for _, rec := range records {
		if !rec.Plottable() {
			continue
		}
		points = append(points, rec)
		maxPop = math.Max(maxPop, rec.Population.Value)
	}
	if len(points) == 0 {
		return gochart.Chart{}, errors.Wrapf(errors.TypeNotFound, ErrEmptyView, "empty view for %d", year).
			WithContext("year", year).
			WithContext("selected", len(records))
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Country < points[j].Country })

	series := make([]gochart.Series, 0, len(points))
	colorOf := make(map[string]drawing.Color)
	byCountry := make(map[string]*gochart.ContinuousSeries)
	var order []string
	for _, p := range points {
		s, ok := byCountry[p.Country]
		if !ok {
			color := drawing.ColorFromHex(palette[len(colorOf)%len(palette)])
			colorOf[p.Country] = color
			s = &gochart.ContinuousSeries{
				Name: p.Country,
				Style: gochart.Style{
					StrokeColor: color,
					StrokeWidth: 1,
					DotColor:    color.WithAlpha(180),
				},
			}
			byCountry[p.Country] = s
			order = append(order, p.Country)
		}
		s.XValues = append(s.XValues, math.Log10(p.GNIPerCapita.Value))
		s.YValues = append(s.YValues, p.LifeExpectancy.Value)
		s.Style.DotWidth = math.Max(r.radius(p.Population.Value, maxPop), s.Style.DotWidth)
	}
	for _, c := range order {
		series = append(series, *byCountry[c])
	}

	xMin, xMax, yMin, yMax := bounds(points)
	graph := gochart.Chart{
		Title:  Title(year),
		Width:  r.opts.Width,
		Height: r.opts.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: gochart.XAxis{
			Name:  "GNI per capita (log scale)",
			Range: &gochart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks: logTicks(xMin, xMax),
		},
		YAxis: gochart.YAxis{
			Name:  "Life expectancy (years)",
			Range: &gochart.ContinuousRange{Min: yMin, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return graph, nil
}

// radius scales a bubble so its area is proportional to population
func (r *Renderer) radius(pop, maxPop float64) float64 {
	if maxPop <= 0 {
		return 2
	}
	return math.Max(2, r.opts.SizeMax/2*math.Sqrt(pop/maxPop))
}

// bounds returns axis ranges padded so a single point still has width
func bounds(points []types.Record) (xMin, xMax, yMin, yMax float64) {
	xMin, yMin = math.Inf(1), math.Inf(1)
	xMax, yMax = math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		x := math.Log10(p.GNIPerCapita.Value)
		xMin, xMax = math.Min(xMin, x), math.Max(xMax, x)
		yMin, yMax = math.Min(yMin, p.LifeExpectancy.Value), math.Max(yMax, p.LifeExpectancy.Value)
	}
	xMin, xMax = math.Floor(xMin), math.Ceil(xMax)
	if xMax == xMin {
		xMax = xMin + 1
	}
	yMin, yMax = math.Floor(yMin/5)*5-5, math.Ceil(yMax/5)*5+5
	return xMin, xMax, yMin, yMax
}

// logTicks places a tick at every power of ten between lo and hi
func logTicks(lo, hi float64) []gochart.Tick {
	var ticks []gochart.Tick
	for e := lo; e <= hi; e++ {
		ticks = append(ticks, gochart.Tick{Value: e, Label: magnitude.Format(math.Pow(10, e))})
	}
	return ticks
}
