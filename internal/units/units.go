// Package units converts the textual measurements found in benchmark tables
// into plain float64 values.
//
// A Converter is constructed explicitly and passed to whoever needs it; there
// is no package-level registry. Durations are always reported in seconds and
// counts in their raw magnitude.
package units

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrUnknownUnit is returned when a quantity carries a unit that is not a
	// unit of time.
	ErrUnknownUnit = errors.New("unknown time unit")

	// ErrInvalidNumber is returned when the numeric part of a cell does not parse.
	ErrInvalidNumber = errors.New("invalid number")
)

// MegaSuffixes treats a trailing M or m as a factor of one million. The
// producers of these tables never emit milli-counts, so case is ignored.
var MegaSuffixes = map[string]float64{
	"M": 1e6,
	"m": 1e6,
}

var quantityPattern = regexp.MustCompile(`^([+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?)\s*(.*)$`)

// Converter parses durations and scaled counts.
type Converter struct {
	timeUnits map[string]timeUnit
}

// timeUnit converts a magnitude to seconds. Sub-second units divide by an
// exact power of ten so that "500ms" is exactly 0.5.
type timeUnit struct {
	factor  float64
	divisor float64
}

func (u timeUnit) seconds(v float64) float64 {
	return v * u.factor / u.divisor
}

func siUnit(exp int) timeUnit {
	if exp < 0 {
		return timeUnit{factor: 1, divisor: math.Pow10(-exp)}
	}
	return timeUnit{factor: math.Pow10(exp), divisor: 1}
}

// NewConverter returns a converter that knows the SI-prefixed second, from
// femto to exa, and the common calendar units up to a day.
func NewConverter() *Converter {
	c := &Converter{timeUnits: make(map[string]timeUnit)}

	prefixes := map[string]int{
		"f": -15,
		"p": -12,
		"n": -9,
		"u": -6,
		"µ": -6, // micro sign
		"μ": -6, // greek mu
		"m": -3,
		"":  0,
		"k": 3,
		"M": 6,
		"G": 9,
		"T": 12,
		"P": 15,
		"E": 18,
	}
	for p, exp := range prefixes {
		c.timeUnits[p+"s"] = siUnit(exp)
		c.timeUnits[p+"sec"] = siUnit(exp)
	}

	longPrefixes := map[string]int{
		"femto": -15,
		"pico":  -12,
		"nano":  -9,
		"micro": -6,
		"milli": -3,
		"":      0,
		"kilo":  3,
		"mega":  6,
		"giga":  9,
		"tera":  12,
		"peta":  15,
		"exa":   18,
	}
	for p, exp := range longPrefixes {
		c.timeUnits[p+"second"] = siUnit(exp)
		c.timeUnits[p+"seconds"] = siUnit(exp)
	}

	for _, name := range []string{"min", "mins", "minute", "minutes"} {
		c.timeUnits[name] = timeUnit{factor: 60, divisor: 1}
	}
	for _, name := range []string{"h", "hr", "hrs", "hour", "hours"} {
		c.timeUnits[name] = timeUnit{factor: 3600, divisor: 1}
	}
	for _, name := range []string{"d", "day", "days"} {
		c.timeUnits[name] = timeUnit{factor: 86400, divisor: 1}
	}

	return c
}

// ParseDuration parses "<number><optional whitespace><unit>" into seconds.
//
// A number without a unit is dimensionless and yields NaN with a nil error:
// it marks a run whose time was not measured. An empty cell is treated the
// same way.
func (c *Converter) ParseDuration(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return math.NaN(), nil
	}

	m := quantityPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}

	unit := strings.TrimSpace(m[2])
	if unit == "" {
		return math.NaN(), nil
	}

	u, ok := c.timeUnits[unit]
	if !ok {
		return 0, fmt.Errorf("%w: %q in %q", ErrUnknownUnit, unit, text)
	}
	return u.seconds(value), nil
}

// ParseScaledCount strips the longest matching suffix from the trimmed text and
// multiplies the remaining numeral by that suffix's scale. Text without any of
// the suffixes is parsed as is and scaled by the largest factor in suffixes,
// so a column of "in millions" cells stays consistent when a producer forgets
// the suffix.
func (c *Converter) ParseScaledCount(text string, suffixes map[string]float64) (float64, error) {
	text = strings.TrimSpace(text)

	scale := 1.0
	for _, s := range suffixes {
		scale = math.Max(scale, s)
	}

	matched := ""
	for suffix, s := range suffixes {
		if len(suffix) > len(matched) && strings.HasSuffix(text, suffix) {
			matched, scale = suffix, s
		}
	}
	text = strings.TrimSpace(strings.TrimSuffix(text, matched))

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return value * scale, nil
}

// ParseGroupedCount parses an integer that may use underscores as digit group
// separators, e.g. "12_345".
func (c *Converter) ParseGroupedCount(text string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "_", ""))
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, text)
	}
	return value, nil
}

// IsNotApplicable reports whether v is the "not measured" sentinel.
func IsNotApplicable(v float64) bool {
	return math.IsNaN(v)
}
