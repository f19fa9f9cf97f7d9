package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/databuddy-ai/databuddy/internal/dataset"
)

// LowCardinalityThreshold is the distinct-value count below which a
// non-numeric column is treated as categorical rather than free text
const LowCardinalityThreshold = 20

// columnClass returns the analysis class of a column: NUMERIC for integer
// and float kinds, CATEGORICAL for low-cardinality text, TEXT otherwise
func columnClass(col *dataset.Column) string {
	if col.IsNumeric() {
		return "NUMERIC"
	}
	if col.DistinctCount() < LowCardinalityThreshold {
		return "CATEGORICAL"
	}
	return "TEXT"
}

// InspectDataTool classifies each column and reports null counts,
// percentages and cardinality
type InspectDataTool struct{}

// NewInspectDataTool creates a new InspectDataTool
func NewInspectDataTool() *InspectDataTool {
	return &InspectDataTool{}
}

// Name returns the tool name
func (t *InspectDataTool) Name() string {
	return "inspect_data"
}

// Description returns the tool description
func (t *InspectDataTool) Description() string {
	return `Inspect a CSV file to understand its structure and quality.
Parameters:
- csv_path (required): Path to the CSV file to inspect
Returns per-column information: inferred type, analysis class (NUMERIC,
CATEGORICAL or TEXT), null count with percentage, and distinct-value
count. On failure the result starts with an ERROR marker.`
}

// Execute runs the tool and returns the inspection report
func (t *InspectDataTool) Execute(ctx context.Context, params *CSVParams) string {
	if params == nil || params.CSVPath == "" {
		return "ERROR: csv_path is required"
	}

	table, err := dataset.Load(params.CSVPath)
	if err != nil {
		return fmt.Sprintf("ERROR: Failed to inspect data: %v", err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Data shape: %d rows, %d columns\n", table.NumRows(), table.NumCols())

	hasNulls := false
	for _, col := range table.Columns {
		nulls := col.NullCount()
		if nulls > 0 {
			hasNulls = true
		}
		fmt.Fprintf(&sb, "%s: %s (%s), nulls=%d (%.1f%%), unique=%d\n",
			col.Name, col.Kind, columnClass(col), nulls, col.NullPercent(), col.DistinctCount())
	}

	if hasNulls {
		sb.WriteString("Hint: columns with nulls should be handled before analysis, e.g. df.drop_nulls() or fill_null().")
	}

	return strings.TrimRight(sb.String(), "\n")
}
