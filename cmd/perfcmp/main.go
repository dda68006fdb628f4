// perfcmp compares benchmark variants recorded in a perf.csv table.
//
// Usage:
//
//	perfcmp [report]             coloured, ranked comparison (default)
//	perfcmp csv                  pivoted table as CSV
//	perfcmp summary              per-variant leaderboard
//	perfcmp plot --metric rwps   bar chart written to a file
//
// See 'perfcmp <command> --help' for command-specific options.
package main

import (
	"os"
)

func main() {
	enableWindowsANSI()

	if err := newRootCmd().Execute(); err != nil {
		colorFprintf(os.Stderr, Red, "error: %v\n", err)
		os.Exit(1)
	}
}
