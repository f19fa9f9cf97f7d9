package tools

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/databuddy-ai/databuddy/internal/dataset"
)

// CSVParams contains the single parameter shared by the profiling tools
type CSVParams struct {
	CSVPath string `json:"csv_path"`
}

// LoadCSVTool loads a CSV file and reports its shape, column names,
// inferred types and null counts. Failures are reported as ERROR: text so
// the model can read and react to them as ordinary observations.
type LoadCSVTool struct{}

// NewLoadCSVTool creates a new LoadCSVTool
func NewLoadCSVTool() *LoadCSVTool {
	return &LoadCSVTool{}
}

// Name returns the tool name
func (t *LoadCSVTool) Name() string {
	return "load_csv"
}

// Description returns the tool description
func (t *LoadCSVTool) Description() string {
	return `Load a CSV file and return basic metadata about it.
Parameters:
- csv_path (required): Path to the CSV file to load
Returns the row and column counts, column names, per-column inferred types
and per-column null counts. Falls back to alternate encodings and field
delimiters when the default parse fails. On failure the result starts with
an ERROR marker instead of raising.`
}

// Execute runs the tool and returns the load report
func (t *LoadCSVTool) Execute(ctx context.Context, params *CSVParams) string {
	if params == nil || params.CSVPath == "" {
		return "ERROR: csv_path is required"
	}

	if _, err := os.Stat(params.CSVPath); err != nil {
		return fmt.Sprintf("ERROR: File not found at path: %s", params.CSVPath)
	}

	table, err := dataset.Load(params.CSVPath)
	if err != nil {
		return fmt.Sprintf("ERROR: Could not load CSV with various encoding/delimiter combinations: %v", err)
	}

	types := make([]string, table.NumCols())
	nulls := make([]string, table.NumCols())
	for i, col := range table.Columns {
		types[i] = col.Kind.String()
		nulls[i] = fmt.Sprintf("%d", col.NullCount())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "CSV loaded: %s\n", params.CSVPath)
	fmt.Fprintf(&sb, "Shape: %d rows, %d columns\n", table.NumRows(), table.NumCols())
	fmt.Fprintf(&sb, "Columns: [%s]\n", strings.Join(table.ColumnNames(), ", "))
	fmt.Fprintf(&sb, "Types: [%s]\n", strings.Join(types, ", "))
	fmt.Fprintf(&sb, "Nulls: [%s]", strings.Join(nulls, ", "))

	return sb.String()
}
