package report

import (
	"fmt"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/utkarsh5026/perfcmp/internal/matrix"
)

const barWidth = 12

// Plot draws a grouped bar chart of metric, one group per (file, mode) and one
// bar per variant, and saves it to path. The image format follows the file
// extension (png, svg, pdf, ...). Missing values are drawn as empty bars.
func Plot(m *matrix.Matrix, metric matrix.Metric, path string) error {
	var rows []matrix.Row
	for _, row := range m.Rows {
		if row.Metric == metric {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("no %s rows to plot", metric)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by variant", metric)
	p.Y.Label.Text = axisLabel(metric)
	p.Legend.Top = true

	w := vg.Points(barWidth)
	n := len(m.Variants)
	for i, variant := range m.Variants {
		values := make(plotter.Values, len(rows))
		for j, row := range rows {
			values[j] = plotValue(metric, row.Values[i])
		}

		bars, err := plotter.NewBarChart(values, w)
		if err != nil {
			return fmt.Errorf("failed to build bars for %s: %w", variant, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = plotutil.Color(i)
		bars.Offset = vg.Length(float64(i)-float64(n-1)/2) * w

		p.Add(bars)
		p.Legend.Add(variant, bars)
	}

	labels := make([]string, len(rows))
	for j, row := range rows {
		labels[j] = row.File + " " + row.Mode
	}
	p.NominalX(labels...)

	width := vg.Length(len(rows)*(n+1)) * w
	if width < 8*vg.Inch {
		width = 8 * vg.Inch
	}
	if err := p.Save(width, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save chart to %s: %w", path, err)
	}
	return nil
}

func plotValue(metric matrix.Metric, v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	if metric == matrix.MetricTime {
		return v
	}
	return v / 1e6
}

func axisLabel(metric matrix.Metric) string {
	switch metric {
	case matrix.MetricRwps:
		return "million rewrites / s"
	case matrix.MetricRwts:
		return "million rewrites"
	default:
		return "seconds"
	}
}
