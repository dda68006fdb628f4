package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/perfcmp/internal/config"
	"github.com/utkarsh5026/perfcmp/internal/dataset"
	"github.com/utkarsh5026/perfcmp/internal/matrix"
	"github.com/utkarsh5026/perfcmp/internal/report"
	"github.com/utkarsh5026/perfcmp/internal/units"
)

// options holds the flags shared by every command.
type options struct {
	configPath string
	input      string
	color      string
	style      string
	progress   bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "perfcmp",
		Short:         "Compare benchmark variants recorded in perf.csv",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&opts.input, "input", "i", "", "benchmark table to read (default perf.csv)")
	flags.StringVar(&opts.color, "color", "", "colour mode: auto, always or never")
	flags.StringVar(&opts.style, "style", "", "report layout: plain or grid")
	flags.BoolVar(&opts.progress, "progress", false, "show a progress bar while reading the input")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "report pipeline steps on stderr")

	root.AddCommand(
		newReportCmd(opts),
		newCSVCmd(opts),
		newSummaryCmd(opts),
		newPlotCmd(opts),
	)
	return root
}

func newReportCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Print the coloured, ranked comparison table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}
}

func newCSVCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "csv",
		Short: "Write the pivoted table, unfiltered, as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			m, err := loadMatrix(cmd, cfg, opts)
			if err != nil {
				return err
			}

			if maxCols := cfg.Export.MaxColumns; maxCols > 0 && len(m.Variants) > maxCols {
				colorFprintf(cmd.ErrOrStderr(), Yellow,
					"warning: %d variant columns exceed export.max_columns=%d; the CSV still contains all of them\n",
					len(m.Variants), maxCols)
			}
			return report.WriteCSV(cmd.OutOrStdout(), m)
		},
	}
}

func newSummaryCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Rank variants by their overall throughput",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			m, err := loadMatrix(cmd, cfg, opts)
			if err != nil {
				return err
			}

			m = m.Exclude(nil, cfg.Report.ExcludeVariants)
			return newTerminal(cmd.OutOrStdout(), cfg).RenderSummary(m)
		},
	}
}

func newPlotCmd(opts *options) *cobra.Command {
	var metricName, out string

	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Draw a grouped bar chart of one metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metric, err := matrix.ParseMetric(metricName)
			if err != nil {
				return err
			}
			cfg, err := opts.resolve(cmd)
			if err != nil {
				return err
			}
			m, err := loadMatrix(cmd, cfg, opts)
			if err != nil {
				return err
			}

			m = m.Exclude(nil, cfg.Report.ExcludeVariants)
			if err := report.Plot(m, metric, out); err != nil {
				return err
			}
			colorFprintf(cmd.ErrOrStderr(), Green, "✅ Wrote %s chart to %s\n", metric, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&metricName, "metric", string(matrix.MetricRwps), "metric to plot: rwts, rwps or time")
	cmd.Flags().StringVarP(&out, "out", "o", "perf.png", "output image; the extension picks the format")
	return cmd
}

func runReport(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.resolve(cmd)
	if err != nil {
		return err
	}
	m, err := loadMatrix(cmd, cfg, opts)
	if err != nil {
		return err
	}

	excluded, err := cfg.ExcludedMetrics()
	if err != nil {
		return err
	}
	m = m.Exclude(excluded, cfg.Report.ExcludeVariants)
	if err := m.ExpectVariants(cfg.Report.Variants); err != nil {
		return err
	}
	opts.logf(cmd, "reporting %d rows across %d variants\n", len(m.Rows), len(m.Variants))

	return newTerminal(cmd.OutOrStdout(), cfg).Render(m)
}

// resolve builds the effective configuration: defaults, then the config file,
// then any flag set on the command line.
func (o *options) resolve(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = o.input
	}
	if flags.Changed("color") {
		cfg.Report.Color = o.color
	}
	if flags.Changed("style") {
		cfg.Report.Style = o.style
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadMatrix runs the load, normalize and pivot stages.
func loadMatrix(cmd *cobra.Command, cfg config.Config, opts *options) (*matrix.Matrix, error) {
	var loadOpts []dataset.LoadOption
	if opts.progress {
		loadOpts = append(loadOpts, dataset.WithProgress(cmd.ErrOrStderr()))
	}

	table, err := dataset.Load(cfg.Input, loadOpts...)
	if err != nil {
		return nil, err
	}
	opts.logf(cmd, "loaded %d rows from %s\n", len(table.Rows), cfg.Input)

	normalizer := dataset.NewNormalizer(units.NewConverter(),
		dataset.WithFileAffixes(cfg.Normalize.FilePrefix, cfg.Normalize.FileSuffix),
		dataset.WithHashPrefix(cfg.Normalize.HashPrefix),
	)
	records, err := normalizer.Normalize(table)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Input, err)
	}

	m := matrix.Pivot(records)
	opts.logf(cmd, "pivoted into %d rows x %d variants\n", len(m.Rows), len(m.Variants))
	return m, nil
}

func newTerminal(w io.Writer, cfg config.Config) *report.Terminal {
	return report.NewTerminal(w,
		report.WithColor(cfg.UseColor(isTerminal(w))),
		report.WithStyle(cfg.Style()),
	)
}

func (o *options) logf(cmd *cobra.Command, format string, a ...any) {
	if !o.verbose {
		return
	}
	colorFprintf(cmd.ErrOrStderr(), Blue, format, a...)
}
