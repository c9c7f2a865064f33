// Package magnitude decodes and formats numbers written with a k/M/B scale suffix.
package magnitude

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"gapminder/internal/errors"
)

// Suffix scales, largest first
var scales = []struct {
	suffix string
	factor decimal.Decimal
}{
	{"B", decimal.New(1, 9)},
	{"M", decimal.New(1, 6)},
	{"k", decimal.New(1, 3)},
}

// Decode parses s, expanding a trailing B (1e9), M (1e6) or k (1e3).
// Input without a recognized suffix is parsed as a plain number.
// An invalid numeric prefix yields a PARSING_ERROR.
func Decode(s string) (float64, error) {
	d, err := DecodeDecimal(s)
	if err != nil {
		return 0, err
	}
	f, _ := d.Float64()
	return f, nil
}

// DecodeDecimal is Decode without the final conversion to float64.
func DecodeDecimal(s string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(s)
	prefix, factor := raw, decimal.New(1, 0)
	for _, sc := range scales {
		if strings.HasSuffix(raw, sc.suffix) {
			prefix = strings.TrimSpace(strings.TrimSuffix(raw, sc.suffix))
			factor = sc.factor
			break
		}
	}

	d, err := decimal.NewFromString(prefix)
	if err != nil {
		return decimal.Zero, errors.Parsing("invalid magnitude "+strconv.Quote(s), err).
			WithContext("value", s)
	}
	return d.Mul(factor), nil
}

// Format renders v with the largest suffix that keeps the mantissa >= 1,
// rounded to two decimals: 1500000 -> "1.5M", 750 -> "750".
func Format(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	d := decimal.NewFromFloat(v)
	abs := d.Abs()
	for _, sc := range scales {
		if abs.GreaterThanOrEqual(sc.factor) {
			return d.Div(sc.factor).Round(2).String() + sc.suffix
		}
	}
	return d.Round(2).String()
}
