// Package dataset loads delimited text files into an in-memory table with
// per-column type inference. Tables are built fresh on every load; nothing
// is cached between calls.
package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Kind is the inferred scalar type of a column
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
)

// String returns the human-readable name of the kind
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	default:
		return "string"
	}
}

// nullTokens are cell values treated as absent, compared after trimming
// and lowercasing
var nullTokens = map[string]bool{
	"":     true,
	"null": true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
}

// Column is a single named column with its raw cells, null mask and, for
// numeric kinds, parsed values
type Column struct {
	Name string
	Kind Kind

	cells  []string
	nulls  []bool
	floats []float64
}

// Len returns the number of rows in the column
func (c *Column) Len() int {
	return len(c.cells)
}

// IsNumeric reports whether the column's inferred kind is integer or float
func (c *Column) IsNumeric() bool {
	return c.Kind == KindInt || c.Kind == KindFloat
}

// IsNull reports whether the cell at row i is absent
func (c *Column) IsNull(i int) bool {
	return c.nulls[i]
}

// NullCount returns the number of absent cells
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.nulls {
		if isNull {
			n++
		}
	}
	return n
}

// NullPercent returns the share of absent cells as a percentage
func (c *Column) NullPercent() float64 {
	if len(c.cells) == 0 {
		return 0
	}
	return float64(c.NullCount()) / float64(len(c.cells)) * 100
}

// DistinctCount returns the number of distinct non-null values
func (c *Column) DistinctCount() int {
	seen := make(map[string]bool)
	for i, cell := range c.cells {
		if !c.nulls[i] {
			seen[cell] = true
		}
	}
	return len(seen)
}

// NonNullFloats returns the parsed numeric values of all non-null cells.
// It returns nil for non-numeric columns.
func (c *Column) NonNullFloats() []float64 {
	if !c.IsNumeric() {
		return nil
	}
	out := make([]float64, 0, len(c.floats))
	for i, v := range c.floats {
		if !c.nulls[i] {
			out = append(out, v)
		}
	}
	return out
}

// ValueCount is a distinct cell value and its number of occurrences
type ValueCount struct {
	Value string
	Count int
}

// ValueCounts returns the distinct non-null values sorted by descending
// count, ties broken by value
func (c *Column) ValueCounts() []ValueCount {
	counts := make(map[string]int)
	for i, cell := range c.cells {
		if !c.nulls[i] {
			counts[cell]++
		}
	}

	out := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		out = append(out, ValueCount{Value: v, Count: n})
	}
	sortValueCounts(out)
	return out
}

// Table is an in-memory table parsed from a delimited text file
type Table struct {
	Path    string
	Columns []*Column
}

// NumRows returns the number of data rows
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// NumCols returns the number of columns
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// ColumnNames returns the header names in file order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name, or nil
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// NumericColumns returns the numeric columns in file order
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for _, c := range t.Columns {
		if c.IsNumeric() {
			out = append(out, c)
		}
	}
	return out
}

// fallbackEncodings and fallbackDelimiters form the cross product tried
// when the default UTF-8 comma-separated parse fails
var (
	fallbackEncodings  = []string{"utf-8", "latin-1", "iso-8859-1"}
	fallbackDelimiters = []rune{',', ';', '\t', '|'}
)

// Load reads and parses a delimited file. It first tries strict UTF-8 with
// a comma delimiter, then retries with the encoding/delimiter cross
// product in lenient mode before giving up.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	table, firstErr := parse(data, "utf-8", ',', false)
	if firstErr == nil && !misparsedSingleColumn(table) {
		table.Path = path
		return table, nil
	}

	for _, enc := range fallbackEncodings {
		for _, delim := range fallbackDelimiters {
			candidate, err := parse(data, enc, delim, true)
			if err != nil || misparsedSingleColumn(candidate) {
				continue
			}
			candidate.Path = path
			return candidate, nil
		}
	}

	// A genuinely single-column file is still valid
	if firstErr == nil {
		table.Path = path
		return table, nil
	}

	return nil, fmt.Errorf("could not parse file with any encoding/delimiter combination: %w", firstErr)
}

// misparsedSingleColumn reports whether a parse produced one column whose
// header still contains another candidate delimiter, the signature of
// splitting on the wrong character
func misparsedSingleColumn(t *Table) bool {
	if t.NumCols() != 1 {
		return false
	}
	return strings.ContainsAny(t.Columns[0].Name, ";\t|")
}

// parse decodes raw bytes with the named encoding and parses them as
// delimited records. Lenient mode tolerates ragged rows and stray quotes.
func parse(data []byte, encName string, delim rune, lenient bool) (*Table, error) {
	var reader io.Reader = bytes.NewReader(data)

	switch encName {
	case "utf-8":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("data is not valid UTF-8")
		}
	default:
		dec := decoderFor(encName)
		if dec == nil {
			return nil, fmt.Errorf("unsupported encoding: %s", encName)
		}
		reader = transform.NewReader(reader, dec)
	}

	cr := csv.NewReader(reader)
	cr.Comma = delim
	if lenient {
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv parse failed: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("file contains no records")
	}

	header := records[0]
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, fmt.Errorf("file has an empty header row")
	}

	rows := records[1:]
	return buildTable(header, rows), nil
}

// decoderFor maps an encoding name to its decoder
func decoderFor(name string) *encoding.Decoder {
	switch name {
	case "latin-1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder()
	default:
		return nil
	}
}

// buildTable assembles columns from a header and data rows, padding or
// truncating ragged rows to the header width, then infers each column's
// kind
func buildTable(header []string, rows [][]string) *Table {
	width := len(header)
	table := &Table{Columns: make([]*Column, width)}

	for col := 0; col < width; col++ {
		c := &Column{
			Name:  strings.TrimSpace(header[col]),
			cells: make([]string, len(rows)),
			nulls: make([]bool, len(rows)),
		}
		for row := range rows {
			var cell string
			if col < len(rows[row]) {
				cell = strings.TrimSpace(rows[row][col])
			}
			c.cells[row] = cell
			c.nulls[row] = nullTokens[strings.ToLower(cell)]
		}
		inferKind(c)
		table.Columns[col] = c
	}

	return table
}

// inferKind classifies a column as int, float or string by attempting to
// parse every non-null cell, and fills parsed values for numeric kinds
func inferKind(c *Column) {
	allInt := true
	allFloat := true
	sawValue := false

	for i, cell := range c.cells {
		if c.nulls[i] {
			continue
		}
		sawValue = true
		if allInt {
			if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
				allInt = false
			}
		}
		if allFloat {
			if _, err := strconv.ParseFloat(cell, 64); err != nil {
				allFloat = false
			}
		}
		if !allInt && !allFloat {
			break
		}
	}

	switch {
	case sawValue && allInt:
		c.Kind = KindInt
	case sawValue && allFloat:
		c.Kind = KindFloat
	default:
		c.Kind = KindString
		return
	}

	c.floats = make([]float64, len(c.cells))
	for i, cell := range c.cells {
		if c.nulls[i] {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			// Should not happen after inference; treat as null
			c.nulls[i] = true
			continue
		}
		c.floats[i] = v
	}
}
