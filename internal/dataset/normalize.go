package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/utkarsh5026/perfcmp/internal/units"
)

// Defaults for the label clean-up done by the Normalizer.
const (
	DefaultFilePrefix = "./programs/"
	DefaultFileSuffix = ".hvmc"
	DefaultHashPrefix = "compare-"
)

// Record is one normalized benchmark run.
type Record struct {
	Hash string
	File string
	Mode string

	Rwts float64 // rewrites
	Rwps float64 // rewrites per second
	Time float64 // seconds, NaN when not measured
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithFileAffixes overrides the prefix and suffix stripped from file labels.
func WithFileAffixes(prefix, suffix string) NormalizerOption {
	return func(n *Normalizer) {
		n.filePrefix = prefix
		n.fileSuffix = suffix
	}
}

// WithHashPrefix overrides the prefix stripped from hash labels.
func WithHashPrefix(prefix string) NormalizerOption {
	return func(n *Normalizer) {
		n.hashPrefix = prefix
	}
}

// Normalizer turns a raw Table into typed Records.
type Normalizer struct {
	conv       *units.Converter
	filePrefix string
	fileSuffix string
	hashPrefix string
}

// NewNormalizer creates a Normalizer that parses measurements with conv.
func NewNormalizer(conv *units.Converter, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		conv:       conv,
		filePrefix: DefaultFilePrefix,
		fileSuffix: DefaultFileSuffix,
		hashPrefix: DefaultHashPrefix,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize converts every row of t. The first malformed cell aborts the
// whole table.
func (n *Normalizer) Normalize(t *Table) ([]Record, error) {
	records := make([]Record, len(t.Rows))

	for i, hash := range t.Column(ColHash) {
		records[i].Hash = StripAffixes(hash, n.hashPrefix, "")
	}
	for i, file := range t.Column(ColFile) {
		records[i].File = StripAffixes(file, n.filePrefix, n.fileSuffix)
	}
	for i, mode := range t.Column(ColMode) {
		records[i].Mode = strings.TrimSpace(mode)
	}

	columns := []struct {
		name  string
		parse func(string) (float64, error)
		set   func(*Record, float64)
	}{
		{
			name:  ColTime,
			parse: n.conv.ParseDuration,
			set:   func(r *Record, v float64) { r.Time = v },
		},
		{
			name:  ColRwts,
			parse: n.conv.ParseGroupedCount,
			set:   func(r *Record, v float64) { r.Rwts = v },
		},
		{
			name: ColRwps,
			parse: func(s string) (float64, error) {
				return n.conv.ParseScaledCount(s, units.MegaSuffixes)
			},
			set: func(r *Record, v float64) { r.Rwps = v },
		},
	}

	for _, col := range columns {
		cells := t.Column(col.name)
		// A numeric time column is dimensionless throughout; only counts pass through.
		numeric := col.name != ColTime && isNumericColumn(cells)

		for i, cell := range cells {
			v, err := n.parseCell(cell, numeric, col.parse)
			if err != nil {
				return nil, &ParseError{Line: t.Lines[i], Column: col.name, Err: err}
			}
			col.set(&records[i], v)
		}
	}

	return records, nil
}

func (n *Normalizer) parseCell(cell string, numeric bool, parse func(string) (float64, error)) (float64, error) {
	if strings.TrimSpace(cell) == "" {
		return math.NaN(), nil
	}
	if numeric {
		return strconv.ParseFloat(strings.TrimSpace(cell), 64)
	}
	return parse(cell)
}

// isNumericColumn reports whether every non-empty cell is a plain number, in
// which case the column carries values rather than text to be cleaned.
func isNumericColumn(cells []string) bool {
	for _, cell := range cells {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return false
		}
	}
	return true
}

// StripAffixes removes prefix and suffix from s until neither is present, so
// applying it twice gives the same result as applying it once. Empty affixes
// are ignored.
func StripAffixes(s, prefix, suffix string) string {
	if prefix != "" {
		for strings.HasPrefix(s, prefix) {
			s = s[len(prefix):]
		}
	}
	if suffix != "" {
		for strings.HasSuffix(s, suffix) {
			s = s[:len(s)-len(suffix)]
		}
	}
	return s
}
