// Package report renders a comparison matrix for people (coloured terminal
// tables, a summary, charts) and for programs (CSV).
package report

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/utkarsh5026/perfcmp/internal/matrix"
)

const (
	labelWidth = 11
	statWidth  = 4
	ruleWidth  = 100
)

// Style selects the terminal layout.
type Style int

const (
	// StylePlain is the fixed-width layout with '=' rules between files.
	StylePlain Style = iota
	// StyleGrid draws a bordered table.
	StyleGrid
)

// ParseStyle maps "plain" and "grid" to a Style.
func ParseStyle(name string) (Style, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "plain":
		return StylePlain, nil
	case "grid":
		return StyleGrid, nil
	default:
		return 0, fmt.Errorf("unknown style %q (want plain or grid)", name)
	}
}

func (s Style) String() string {
	if s == StyleGrid {
		return "grid"
	}
	return "plain"
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithColor forces colour output on or off.
func WithColor(enabled bool) Option {
	return func(t *Terminal) {
		t.palette = NewPalette(enabled)
	}
}

// WithStyle selects the layout used by Render.
func WithStyle(s Style) Option {
	return func(t *Terminal) {
		t.style = s
	}
}

// Terminal writes human-readable reports. Colour is off unless WithColor(true)
// is given.
type Terminal struct {
	w       io.Writer
	style   Style
	palette Palette
}

// NewTerminal creates a Terminal writing to w.
func NewTerminal(w io.Writer, opts ...Option) *Terminal {
	t := &Terminal{
		w:       w,
		style:   StylePlain,
		palette: NewPalette(false),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render writes the ranked comparison of m. Each row is ranked on its own:
// rwps is better when higher, every other metric when lower.
func (t *Terminal) Render(m *matrix.Matrix) error {
	if t.style == StyleGrid {
		return t.renderGrid(m)
	}
	return t.renderPlain(m)
}

func (t *Terminal) renderPlain(m *matrix.Matrix) error {
	var b strings.Builder
	rule := strings.Repeat("=", ruleWidth) + "\n"

	fmt.Fprintf(&b, "%-*s %-*s %-*s ", labelWidth, "file", labelWidth, "mode", statWidth, "stat")
	for _, v := range m.Variants {
		fmt.Fprintf(&b, "%-*s ", labelWidth, truncate(v, labelWidth))
	}
	b.WriteString("\n")
	b.WriteString(rule)

	for i, row := range m.Rows {
		fileChanged, modeChanged, statChanged := labelChanges(m.Rows, i)
		if i > 0 && fileChanged {
			b.WriteString(rule)
		}

		writeLabel(&b, row.File, labelWidth, fileChanged)
		writeLabel(&b, row.Mode, labelWidth, modeChanged)
		writeLabel(&b, string(row.Metric), statWidth, statChanged)

		for _, cell := range t.paintRow(row, FormatValue) {
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Terminal) renderGrid(m *matrix.Matrix) error {
	table := tablewriter.NewWriter(t.w)

	header := []any{"file", "mode", "stat"}
	for _, v := range m.Variants {
		header = append(header, v)
	}
	table.Header(header...)

	for i, row := range m.Rows {
		fileChanged, modeChanged, statChanged := labelChanges(m.Rows, i)
		cells := []any{
			labelIf(row.File, fileChanged),
			labelIf(row.Mode, modeChanged),
			labelIf(string(row.Metric), statChanged),
		}
		for _, cell := range t.paintRow(row, compactValue) {
			cells = append(cells, cell)
		}
		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("failed to append row %s/%s/%s: %w", row.File, row.Mode, row.Metric, err)
		}
	}

	return table.Render()
}

// paintRow formats and colours every value of row by its rank.
func (t *Terminal) paintRow(row matrix.Row, format func(matrix.Metric, float64) string) []string {
	slots := Slots(row.Values, row.Metric.HigherIsBetter())
	cells := make([]string, len(row.Values))
	for i, v := range row.Values {
		cells[i] = t.palette.Paint(slots[i], format(row.Metric, v))
	}
	return cells
}

// FormatValue renders v the way the report shows metric: counts in millions,
// time in seconds.
func FormatValue(metric matrix.Metric, v float64) string {
	unit := "M"
	if metric == matrix.MetricTime {
		unit = "s"
	} else {
		v /= 1e6
	}
	if math.IsNaN(v) {
		return fmt.Sprintf("%9s %s", "nan", unit)
	}
	return fmt.Sprintf("%9.3f %s", v, unit)
}

func compactValue(metric matrix.Metric, v float64) string {
	return strings.TrimSpace(FormatValue(metric, v))
}

// labelChanges reports which key levels of rows[i] differ from the same level
// of the previous row. Each level is compared on its own, so a new file whose
// mode matches the last row's mode leaves the mode blank.
func labelChanges(rows []matrix.Row, i int) (file, mode, stat bool) {
	if i == 0 {
		return true, true, true
	}
	prev, cur := rows[i-1].Key, rows[i].Key
	return prev.File != cur.File, prev.Mode != cur.Mode, prev.Metric != cur.Metric
}

func writeLabel(b *strings.Builder, label string, width int, show bool) {
	if !show {
		b.WriteString(strings.Repeat(" ", width+1))
		return
	}
	fmt.Fprintf(b, "%-*s ", width, truncate(label, width))
}

func labelIf(label string, show bool) string {
	if show {
		return label
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
