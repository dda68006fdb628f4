package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/utkarsh5026/perfcmp/internal/matrix"
)

// CSVHeader returns the header row WriteCSV emits for m.
func CSVHeader(m *matrix.Matrix) []string {
	return append([]string{"file", "mode", "metric"}, m.Variants...)
}

// WriteCSV writes m as comma-separated values: the row key levels first, then
// one column per variant. Values are plain decimals; NaN is an empty cell.
func WriteCSV(w io.Writer, m *matrix.Matrix) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader(m)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, row := range m.Rows {
		record := make([]string, 0, 3+len(row.Values))
		record = append(record, row.File, row.Mode, string(row.Metric))
		for _, v := range row.Values {
			record = append(record, formatCSVValue(v))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row %s/%s/%s: %w", row.File, row.Mode, row.Metric, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatCSVValue(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
