// Package matrix pivots normalized benchmark records into a comparison
// matrix: one row per (file, mode, metric), one column per variant.
package matrix

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/utkarsh5026/perfcmp/internal/dataset"
)

// Metric names a measured quantity.
type Metric string

const (
	MetricRwts Metric = "rwts" // rewrites
	MetricRwps Metric = "rwps" // rewrites per second
	MetricTime Metric = "time" // wall-clock seconds
)

// AllMetrics lists every metric a record carries.
var AllMetrics = []Metric{MetricRwts, MetricRwps, MetricTime}

var (
	// ErrVariantCount is returned when a matrix does not have the expected
	// number of variant columns.
	ErrVariantCount = errors.New("unexpected number of variants")

	// ErrUnknownMetric is returned for metric names outside AllMetrics.
	ErrUnknownMetric = errors.New("unknown metric")
)

// ParseMetric validates a metric name.
func ParseMetric(name string) (Metric, error) {
	m := Metric(strings.TrimSpace(name))
	if !slices.Contains(AllMetrics, m) {
		return "", fmt.Errorf("%w: %q", ErrUnknownMetric, name)
	}
	return m, nil
}

// HigherIsBetter reports whether larger values of m rank better.
func (m Metric) HigherIsBetter() bool {
	return m == MetricRwps
}

// Value extracts m from a record.
func (m Metric) Value(r dataset.Record) float64 {
	switch m {
	case MetricRwts:
		return r.Rwts
	case MetricRwps:
		return r.Rwps
	case MetricTime:
		return r.Time
	default:
		return math.NaN()
	}
}

// Key identifies a matrix row.
type Key struct {
	File   string
	Mode   string
	Metric Metric
}

func (k Key) less(o Key) bool {
	if k.File != o.File {
		return k.File < o.File
	}
	if k.Mode != o.Mode {
		return k.Mode < o.Mode
	}
	return k.Metric < o.Metric
}

// Row is one line of the comparison. Values is parallel to Matrix.Variants;
// combinations absent from the input are NaN.
type Row struct {
	Key
	Values []float64
}

// Matrix is the pivoted comparison table. It is not modified after
// construction; Exclude returns a copy.
type Matrix struct {
	Variants []string
	Rows     []Row
}

// Pivot stacks the metrics of every record and moves the hash out of the row
// key into columns. Variants and rows come out sorted. When two records share
// (hash, file, mode) the later one wins.
func Pivot(records []dataset.Record) *Matrix {
	variantSet := make(map[string]struct{})
	for _, r := range records {
		variantSet[r.Hash] = struct{}{}
	}
	variants := make([]string, 0, len(variantSet))
	for v := range variantSet {
		variants = append(variants, v)
	}
	sort.Strings(variants)

	column := make(map[string]int, len(variants))
	for i, v := range variants {
		column[v] = i
	}

	rows := make(map[Key]*Row)
	for _, r := range records {
		for _, metric := range AllMetrics {
			key := Key{File: r.File, Mode: r.Mode, Metric: metric}
			row, ok := rows[key]
			if !ok {
				row = &Row{Key: key, Values: nanSlice(len(variants))}
				rows[key] = row
			}
			row.Values[column[r.Hash]] = metric.Value(r)
		}
	}

	m := &Matrix{Variants: variants, Rows: make([]Row, 0, len(rows))}
	for _, row := range rows {
		m.Rows = append(m.Rows, *row)
	}
	sort.Slice(m.Rows, func(i, j int) bool {
		return m.Rows[i].Key.less(m.Rows[j].Key)
	})
	return m
}

// Exclude returns a matrix without the given metric rows and variant columns.
// Names that do not occur are ignored.
func (m *Matrix) Exclude(metrics []Metric, variants []string) *Matrix {
	keep := make([]int, 0, len(m.Variants))
	out := &Matrix{}
	for i, v := range m.Variants {
		if slices.Contains(variants, v) {
			continue
		}
		keep = append(keep, i)
		out.Variants = append(out.Variants, v)
	}

	for _, row := range m.Rows {
		if slices.Contains(metrics, row.Metric) {
			continue
		}
		values := make([]float64, len(keep))
		for j, i := range keep {
			values[j] = row.Values[i]
		}
		out.Rows = append(out.Rows, Row{Key: row.Key, Values: values})
	}
	return out
}

// ExpectVariants fails when the matrix does not have exactly n variant
// columns. n <= 0 accepts any count.
func (m *Matrix) ExpectVariants(n int) error {
	if n <= 0 || len(m.Variants) == n {
		return nil
	}
	return fmt.Errorf("%w: expected %d, found %d (%s)",
		ErrVariantCount, n, len(m.Variants), strings.Join(m.Variants, ", "))
}

// Metrics returns the distinct metrics present, in row order.
func (m *Matrix) Metrics() []Metric {
	var out []Metric
	for _, row := range m.Rows {
		if !slices.Contains(out, row.Metric) {
			out = append(out, row.Metric)
		}
	}
	return out
}

func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}
