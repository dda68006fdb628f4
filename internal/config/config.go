// Package config holds the settings of a perfcmp run: where the input lives,
// how labels are cleaned and what the terminal report leaves out.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/utkarsh5026/perfcmp/internal/dataset"
	"github.com/utkarsh5026/perfcmp/internal/matrix"
	"github.com/utkarsh5026/perfcmp/internal/report"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the full set of options. Zero values are not meaningful; start
// from Default.
type Config struct {
	Input     string    `yaml:"input"`
	Normalize Normalize `yaml:"normalize"`
	Report    Report    `yaml:"report"`
	Export    Export    `yaml:"export"`
}

// Normalize configures label clean-up.
type Normalize struct {
	FilePrefix string `yaml:"file_prefix"`
	FileSuffix string `yaml:"file_suffix"`
	HashPrefix string `yaml:"hash_prefix"`
}

// Report configures the terminal report.
type Report struct {
	// ExcludeMetrics are dropped from the terminal report. The default leaves
	// out wall-clock time.
	ExcludeMetrics []string `yaml:"exclude_metrics"`
	// ExcludeVariants are dropped from the terminal report. The default
	// leaves out the c2 variant.
	ExcludeVariants []string `yaml:"exclude_variants"`
	// Variants is the number of compared columns the report expects once the
	// exclusions are applied. 0 accepts any number.
	Variants int    `yaml:"variants"`
	Style    string `yaml:"style"`
	Color    string `yaml:"color"`
}

// Export configures the CSV export.
type Export struct {
	// MaxColumns is a display width hint. It never truncates the CSV; a wider
	// export only produces a warning.
	MaxColumns int `yaml:"max_columns"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Input: "perf.csv",
		Normalize: Normalize{
			FilePrefix: dataset.DefaultFilePrefix,
			FileSuffix: dataset.DefaultFileSuffix,
			HashPrefix: dataset.DefaultHashPrefix,
		},
		Report: Report{
			ExcludeMetrics:  []string{string(matrix.MetricTime)},
			ExcludeVariants: []string{"c2"},
			Variants:        5,
			Style:           report.StylePlain.String(),
			Color:           ColorAuto,
		},
		Export: Export{
			MaxColumns: 7,
		},
	}
}

// Load reads a YAML file and overlays it on Default. Unknown keys are errors.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(bytes.NewReader(data))
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML from r over Default and validates the result.
func Parse(r io.Reader) (Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by decoding alone.
func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input path must not be empty")
	}
	if _, err := c.ExcludedMetrics(); err != nil {
		return err
	}
	if c.Report.Variants < 0 {
		return fmt.Errorf("report.variants must not be negative, got %d", c.Report.Variants)
	}
	if _, err := report.ParseStyle(c.Report.Style); err != nil {
		return err
	}
	switch c.Report.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Report.Color)
	}
	if c.Export.MaxColumns < 0 {
		return fmt.Errorf("export.max_columns must not be negative, got %d", c.Export.MaxColumns)
	}
	return nil
}

// ExcludedMetrics parses Report.ExcludeMetrics.
func (c Config) ExcludedMetrics() ([]matrix.Metric, error) {
	metrics := make([]matrix.Metric, 0, len(c.Report.ExcludeMetrics))
	for _, name := range c.Report.ExcludeMetrics {
		m, err := matrix.ParseMetric(name)
		if err != nil {
			return nil, fmt.Errorf("report.exclude_metrics: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// Style parses Report.Style.
func (c Config) Style() report.Style {
	s, _ := report.ParseStyle(c.Report.Style)
	return s
}

// UseColor resolves the colour mode. isTerminal is consulted only in auto mode.
func (c Config) UseColor(isTerminal bool) bool {
	switch c.Report.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return isTerminal
	}
}
