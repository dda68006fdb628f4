package units

import (
	"errors"
	"math"
	"testing"
)

func TestConverter_ParseDuration(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		name    string
		input   string
		want    float64
		wantNaN bool
		wantErr error
	}{
		{name: "milliseconds with space", input: "1500 ms", want: 1.5},
		{name: "milliseconds without space", input: "500ms", want: 0.5},
		{name: "seconds", input: "1.5 s", want: 1.5},
		{name: "micro sign", input: "250µs", want: 250e-6},
		{name: "greek mu", input: "250 μs", want: 250e-6},
		{name: "ascii micro", input: "250us", want: 250e-6},
		{name: "nanoseconds", input: "42ns", want: 42e-9},
		{name: "minutes", input: "2 min", want: 120},
		{name: "long form", input: "3 milliseconds", want: 0.003},
		{name: "hours", input: "1h", want: 3600},
		{name: "day", input: "2 d", want: 172800},
		{name: "megaseconds", input: "3 Ms", want: 3e6},
		{name: "gigaseconds", input: "2Gsec", want: 2e9},
		{name: "petaseconds are not picoseconds", input: "5 Ps", want: 5e15},
		{name: "picoseconds", input: "5 ps", want: 5e-12},
		{name: "long form mega", input: "1 megasecond", want: 1e6},
		{name: "long form giga", input: "4 gigaseconds", want: 4e9},
		{name: "exponent", input: "1e3 ms", want: 1},
		{name: "surrounding whitespace", input: "  2 s  ", want: 2},
		{name: "dimensionless", input: "12.5", wantNaN: true},
		{name: "empty", input: "", wantNaN: true},
		{name: "meters are not time", input: "3 m", wantErr: ErrUnknownUnit},
		{name: "garbage unit", input: "3 parsecs", wantErr: ErrUnknownUnit},
		{name: "no number", input: "fast", wantErr: ErrInvalidNumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ParseDuration(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseDuration(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) unexpected error: %v", tt.input, err)
			}
			if tt.wantNaN {
				if !IsNotApplicable(got) {
					t.Errorf("ParseDuration(%q) = %v, want NaN", tt.input, got)
				}
				return
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("ParseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConverter_ParseScaledCount(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "3.2M", want: 3_200_000},
		{input: " 1.0 m ", want: 1_000_000},
		{input: "0.5 M", want: 500_000},
		{input: "7", want: 7_000_000},
		{input: "M", wantErr: true},
		{input: "1.2G", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := conv.ParseScaledCount(tt.input, MegaSuffixes)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidNumber) {
					t.Fatalf("expected ErrInvalidNumber, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("ParseScaledCount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestConverter_ParseScaledCount_LongestSuffixWins(t *testing.T) {
	conv := NewConverter()
	suffixes := map[string]float64{"s": 1, "ks": 1e3}

	got, err := conv.ParseScaledCount("4ks", suffixes)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 4000 {
		t.Errorf("expected 4000, got %v", got)
	}
}

func TestConverter_ParseGroupedCount(t *testing.T) {
	conv := NewConverter()

	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12_345", want: 12345},
		{input: "1_000_000", want: 1_000_000},
		{input: "42", want: 42},
		{input: "1_0.5", want: 10.5},
		{input: "12,345", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := conv.ParseGroupedCount(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseGroupedCount(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
