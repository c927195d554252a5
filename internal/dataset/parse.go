package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"moonlabel.dev/internal/classify"
)

// Format is the container format of a dataset payload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var zipMagic = []byte("PK\x03\x04")

// Table is a parsed dataset: a header and its rows.
type Table struct {
	Columns []string
	Records []classify.Record
}

// HasColumn reports whether name is one of the header columns.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// DetectFormat picks the parser for source. XLSX is recognised by extension
// or by the zip signature; everything else is treated as CSV.
func DetectFormat(source string, b []byte) Format {
	lower := strings.ToLower(source)
	if i := strings.IndexAny(lower, "?#"); i >= 0 {
		lower = lower[:i]
	}
	if strings.HasSuffix(lower, ".xlsx") || bytes.HasPrefix(b, zipMagic) {
		return FormatXLSX
	}
	return FormatCSV
}

// Parse decodes and parses a raw payload fetched from source.
func Parse(source string, b []byte, encodingName string) (*Table, error) {
	switch DetectFormat(source, b) {
	case FormatXLSX:
		return ParseWorkbook(b)
	default:
		text, err := Decode(b, encodingName)
		if err != nil {
			return nil, err
		}
		return ParseCSV(bytes.NewReader(text))
	}
}

// ParseCSV reads a header row followed by data rows. Empty and NA-like
// cells (see IsNullCell) become absent values and short rows are padded
// with absent values.
func ParseCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}

	table := &Table{Columns: uniqueColumns(header)}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv row %d: %w", len(table.Records)+2, err)
		}
		table.Records = append(table.Records, newRecord(len(table.Records), table.Columns, row))
	}

	return table, nil
}

// ParseWorkbook reads the first sheet of an XLSX workbook. The first
// non-empty row is the header.
func ParseWorkbook(b []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	defer f.Close() // nolint:errcheck

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnsupportedFormat)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheets[0], err)
	}

	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrUnsupportedFormat, sheets[0])
	}

	table := &Table{Columns: uniqueColumns(rows[0])}
	for _, row := range rows[1:] {
		table.Records = append(table.Records, newRecord(len(table.Records), table.Columns, row))
	}

	return table, nil
}

// nullTokens are cell texts read as missing values, matched exactly.
var nullTokens = map[string]bool{
	"": true, "#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true,
	"-1.#QNAN": true, "-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true,
	"<NA>": true, "N/A": true, "NA": true, "NULL": true, "NaN": true,
	"None": true, "n/a": true, "nan": true, "null": true,
}

// IsNullCell reports whether cell text stands for a missing value.
func IsNullCell(cell string) bool {
	return nullTokens[cell]
}

func newRecord(index int, columns []string, row []string) classify.Record {
	fields := make(map[string]*string, len(columns))
	for i, column := range columns {
		if i >= len(row) || IsNullCell(row[i]) {
			fields[column] = nil
			continue
		}
		cell := row[i]
		fields[column] = &cell
	}
	return classify.Record{Index: index, Fields: fields}
}

// uniqueColumns trims header names and suffixes repeats with .1, .2, ...
func uniqueColumns(header []string) []string {
	seen := make(map[string]int, len(header))
	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, ok := seen[name]; ok {
			seen[name] = n + 1
			name = name + "." + strconv.Itoa(n+1)
		} else {
			seen[name] = 0
		}
		columns[i] = name
	}
	return columns
}
