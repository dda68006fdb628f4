package dataset

import (
	"bytes"
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/utkarsh5026/perfcmp/internal/units"
)

const sampleCSV = `hash,file,mode,rwts,rwps,time
compare-a,./programs/foo.hvmc,intr-singl,1_000,2.0M,500ms
compare-b,./programs/foo.hvmc,intr-singl,12_345,3.2M,1.5 s
compare-c,./programs/bar.hvmc,comp-multi,42,1.0 m,7
`

func TestRead_KeepsRequiredColumns(t *testing.T) {
	input := "extra,time,rwps,rwts,mode,file,hash\n" +
		"x,1s,1M,1,m,f,h\n"

	table, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(table.Header) != len(RequiredColumns) {
		t.Fatalf("expected %d columns, got %d", len(RequiredColumns), len(table.Header))
	}
	if got := table.Column(ColHash)[0]; got != "h" {
		t.Errorf("expected hash h, got %q", got)
	}
	if got := table.Column(ColTime)[0]; got != "1s" {
		t.Errorf("expected time 1s, got %q", got)
	}
	if table.Lines[0] != 2 {
		t.Errorf("expected row on line 2, got %d", table.Lines[0])
	}
}

func TestRead_StripsByteOrderMark(t *testing.T) {
	table, err := Read(strings.NewReader("\ufeff" + sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := table.Column(ColHash)[0]; got != "compare-a" {
		t.Errorf("expected hash compare-a, got %q", got)
	}
	if len(table.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(table.Rows))
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantLine   int
		wantColumn string
	}{
		{name: "empty input", input: "", wantLine: 1},
		{name: "missing column", input: "hash,file,mode,rwts,rwps\n", wantLine: 1, wantColumn: ColTime},
		{name: "ragged row", input: "hash,file,mode,rwts,rwps,time\na,b,c,1,2\n", wantLine: 2},
		{name: "bare quote", input: "hash,file,mode,rwts,rwps,time\na,b\"c,m,1,2,3\n", wantLine: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if pe.Line != tt.wantLine {
				t.Errorf("expected line %d, got %d", tt.wantLine, pe.Line)
			}
			if pe.Column != tt.wantColumn {
				t.Errorf("expected column %q, got %q", tt.wantColumn, pe.Column)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "perf.csv"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected error to wrap fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_WithProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "perf.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	var progress bytes.Buffer
	table, err := Load(path, WithProgress(&progress))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(table.Rows))
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	table, err := Read(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records, err := NewNormalizer(units.NewConverter()).Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	first := records[0]
	if first.Hash != "a" || first.File != "foo" || first.Mode != "intr-singl" {
		t.Errorf("unexpected labels: %+v", first)
	}
	if first.Rwts != 1000 {
		t.Errorf("expected rwts 1000, got %v", first.Rwts)
	}
	if first.Rwps != 2_000_000 {
		t.Errorf("expected rwps 2e6, got %v", first.Rwps)
	}
	if first.Time != 0.5 {
		t.Errorf("expected time 0.5, got %v", first.Time)
	}

	if records[1].Rwts != 12345 {
		t.Errorf("expected rwts 12345, got %v", records[1].Rwts)
	}
	if math.Abs(records[1].Rwps-3_200_000) > 1e-6 {
		t.Errorf("expected rwps 3.2e6, got %v", records[1].Rwps)
	}

	last := records[2]
	if last.File != "bar" {
		t.Errorf("expected file bar, got %q", last.File)
	}
	if last.Rwps != 1_000_000 {
		t.Errorf("expected rwps 1e6, got %v", last.Rwps)
	}
	if !math.IsNaN(last.Time) {
		t.Errorf("expected NaN time for dimensionless cell, got %v", last.Time)
	}
}

func TestNormalizer_NumericColumnsPassThrough(t *testing.T) {
	input := "hash,file,mode,rwts,rwps,time\n" +
		"a,f,m,1000,2500000,1.5\n" +
		"b,f,m,2000,,2\n"

	table, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	records, err := NewNormalizer(units.NewConverter()).Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if records[0].Rwts != 1000 || records[1].Rwts != 2000 {
		t.Errorf("numeric rwts should pass through, got %v and %v", records[0].Rwts, records[1].Rwts)
	}
	if records[0].Rwps != 2_500_000 {
		t.Errorf("numeric rwps should pass through, got %v", records[0].Rwps)
	}
	if !math.IsNaN(records[1].Rwps) {
		t.Errorf("empty rwps should be NaN, got %v", records[1].Rwps)
	}
	if !math.IsNaN(records[0].Time) || !math.IsNaN(records[1].Time) {
		t.Errorf("numeric time cells are dimensionless and should be NaN")
	}
}

func TestNormalizer_CustomAffixes(t *testing.T) {
	input := "hash,file,mode,rwts,rwps,time\n" +
		"rev-a,bench/x.tcl,m,1,1M,1s\n"

	table, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n := NewNormalizer(units.NewConverter(),
		WithFileAffixes("bench/", ".tcl"),
		WithHashPrefix("rev-"),
	)
	records, err := n.Normalize(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if records[0].File != "x" || records[0].Hash != "a" {
		t.Errorf("unexpected labels: %+v", records[0])
	}
}

func TestNormalizer_BadCellReportsPosition(t *testing.T) {
	input := "hash,file,mode,rwts,rwps,time\n" +
		"a,f,m,1,1M,1s\n" +
		"b,f,m,1,1M,3 furlongs\n"

	table, err := Read(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = NewNormalizer(units.NewConverter()).Normalize(table)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 3 || pe.Column != ColTime {
		t.Errorf("expected line 3 column time, got line %d column %q", pe.Line, pe.Column)
	}
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit in chain, got %v", err)
	}
}

func TestStripAffixes_Idempotent(t *testing.T) {
	inputs := []string{
		"./programs/foo.hvmc",
		"./programs/./programs/foo.hvmc.hvmc",
		"foo",
		"./programs/",
		".hvmc",
		"bar.hvmc.txt",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			once := StripAffixes(in, DefaultFilePrefix, DefaultFileSuffix)
			twice := StripAffixes(once, DefaultFilePrefix, DefaultFileSuffix)
			if once != twice {
				t.Errorf("not idempotent: once=%q twice=%q", once, twice)
			}
		})
	}

	if got := StripAffixes("./programs/foo.hvmc", DefaultFilePrefix, DefaultFileSuffix); got != "foo" {
		t.Errorf("expected foo, got %q", got)
	}
	if got := StripAffixes("bar.hvmc.txt", DefaultFilePrefix, DefaultFileSuffix); got != "bar.hvmc.txt" {
		t.Errorf("expected unchanged label, got %q", got)
	}
}
