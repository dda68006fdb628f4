package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/montanaflynn/stats"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/utkarsh5026/perfcmp/internal/matrix"
)

// VariantSummary aggregates one variant over every row of a matrix.
type VariantSummary struct {
	Variant string
	Rank    int

	// Wins counts the rows of each metric where the variant was best or tied
	// for best.
	Wins map[matrix.Metric]int

	// RwpsGeoMean and RwpsMedian are taken over the variant's positive, finite
	// rwps values. NaN when there are none.
	RwpsGeoMean float64
	RwpsMedian  float64
	Samples     int
}

// Summarize ranks the variants of m by the geometric mean of their rwps,
// best first. Variants without rwps samples rank last, by name.
func Summarize(m *matrix.Matrix) []VariantSummary {
	summaries := make([]VariantSummary, len(m.Variants))
	samples := make([]stats.Float64Data, len(m.Variants))
	for i, v := range m.Variants {
		summaries[i] = VariantSummary{Variant: v, Wins: make(map[matrix.Metric]int)}
	}

	for _, row := range m.Rows {
		order := Order(row.Values, row.Metric.HigherIsBetter())
		if len(order) > 0 && finite(row.Values[order[0]]) {
			best := row.Values[order[0]]
			for i, v := range row.Values {
				if v == best {
					summaries[i].Wins[row.Metric]++
				}
			}
		}

		if row.Metric != matrix.MetricRwps {
			continue
		}
		for i, v := range row.Values {
			if finite(v) && v > 0 {
				samples[i] = append(samples[i], v)
			}
		}
	}

	for i := range summaries {
		summaries[i].Samples = len(samples[i])
		summaries[i].RwpsGeoMean = aggregate(samples[i], stats.GeometricMean)
		summaries[i].RwpsMedian = aggregate(samples[i], stats.Median)
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		a, b := summaries[i].RwpsGeoMean, summaries[j].RwpsGeoMean
		if sameValue(a, b) {
			return summaries[i].Variant < summaries[j].Variant
		}
		return ranksBefore(a, b, true)
	})
	for i := range summaries {
		summaries[i].Rank = i + 1
	}
	return summaries
}

func aggregate(data stats.Float64Data, fn func(stats.Float64Data) (float64, error)) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	v, err := fn(data)
	if err != nil {
		return math.NaN()
	}
	return v
}

// RenderSummary writes the variant leaderboard of m as a table.
func (t *Terminal) RenderSummary(m *matrix.Matrix) error {
	summaries := Summarize(m)
	metrics := m.Metrics()
	p := message.NewPrinter(language.English)

	printSectionHeader(t.w, "VARIANT SUMMARY",
		"Variants ranked by the geometric mean of rewrites per second across every file and mode")

	table := tablewriter.NewWriter(t.w)
	header := []any{"Rank", "Variant", "rwps geomean", "rwps median", "vs best"}
	for _, metric := range metrics {
		header = append(header, "wins "+string(metric))
	}
	table.Header(header...)

	var best float64
	if len(summaries) > 0 {
		best = summaries[0].RwpsGeoMean
	}

	for _, s := range summaries {
		cells := []any{
			getRankIcon(s.Rank),
			s.Variant,
			formatRate(p, s.RwpsGeoMean),
			formatRate(p, s.RwpsMedian),
			getVsBestStr(s.RwpsGeoMean, best, s.Rank),
		}
		for _, metric := range metrics {
			cells = append(cells, p.Sprintf("%d", s.Wins[metric]))
		}
		if err := table.Append(cells...); err != nil {
			return fmt.Errorf("failed to append summary for %s: %w", s.Variant, err)
		}
	}

	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}

func formatRate(p *message.Printer, v float64) string {
	if !finite(v) {
		return "-"
	}
	return p.Sprintf("%.0f/s", v)
}

func getRankIcon(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("%d", rank)
	}
}

// getVsBestStr compares a throughput with the best one as a slowdown factor.
func getVsBestStr(rate, best float64, rank int) string {
	if rank == 1 {
		return "baseline"
	}
	if !finite(rate) || !finite(best) || rate <= 0 {
		return "-"
	}
	return fmt.Sprintf("%.2fx", best/rate)
}

func printSectionHeader(w io.Writer, title string, descriptions ...string) {
	rule := strings.Repeat("═", 59)
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, rule)
	for _, desc := range descriptions {
		fmt.Fprintln(w, desc)
	}
	fmt.Fprintln(w)
}
