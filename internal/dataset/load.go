package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
)

// Column names every input table must carry.
const (
	ColHash = "hash"
	ColFile = "file"
	ColMode = "mode"
	ColRwts = "rwts"
	ColRwps = "rwps"
	ColTime = "time"
)

// RequiredColumns lists the header fields Load insists on, in canonical order.
var RequiredColumns = []string{ColHash, ColFile, ColMode, ColRwts, ColRwps, ColTime}

// ErrNotFound is returned when the input file does not exist.
var ErrNotFound = errors.New("input file not found")

// ParseError describes malformed input. Line is 1-based and counts the header.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column != "":
		return fmt.Sprintf("parse error on line %d, column %q: %v", e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
	default:
		return fmt.Sprintf("parse error: %v", e.Err)
	}
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Table is the raw, untyped content of an input file. Only the required
// columns are kept; Rows are indexed like Header.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines holds the source line of each row, for error reporting.
	Lines []int
}

// Index returns the position of the named column, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns every cell of the named column.
func (t *Table) Column(name string) []string {
	idx := t.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// LoadOption configures Load.
type LoadOption func(*loadConfig)

type loadConfig struct {
	progress io.Writer
}

// WithProgress renders a byte progress bar on w while the file is read.
// A nil writer disables the bar.
func WithProgress(w io.Writer) LoadOption {
	return func(cfg *loadConfig) {
		cfg.progress = w
	}
}

// Load opens path and reads it with Read.
func Load(path string, opts ...LoadOption) (*Table, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if cfg.progress != nil {
		bar := newLoadBar(f, cfg.progress)
		defer func() { _ = bar.Finish() }()
		r = io.TeeReader(f, bar)
	}

	table, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

func newLoadBar(f *os.File, w io.Writer) *progressbar.ProgressBar {
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Loading "+f.Name()),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowBytes(true),
		progressbar.OptionClearOnFinish(),
	)
}

// Read parses a comma-separated table with a header row. Columns other than
// RequiredColumns are dropped; every row must match the header's width.
func Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &ParseError{Line: 1, Err: errors.New("empty input, expected a header")}
	}
	if err != nil {
		return nil, csvParseError(err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	positions := make([]int, len(RequiredColumns))
	for i, name := range RequiredColumns {
		positions[i] = -1
		for j, h := range header {
			if strings.TrimSpace(h) == name {
				positions[i] = j
				break
			}
		}
		if positions[i] < 0 {
			return nil, &ParseError{Line: 1, Column: name, Err: errors.New("missing required column")}
		}
	}

	table := &Table{Header: append([]string(nil), RequiredColumns...)}
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(err)
		}

		line, _ := cr.FieldPos(0)
		row := make([]string, len(positions))
		for i, pos := range positions {
			row[i] = record[pos]
		}
		table.Rows = append(table.Rows, row)
		table.Lines = append(table.Lines, line)
	}

	return table, nil
}

func csvParseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Err: err}
}
