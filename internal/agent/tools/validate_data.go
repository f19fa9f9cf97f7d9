package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/databuddy-ai/databuddy/internal/dataset"
)

// ValidateDataTool restates data-quality findings with code-ready
// remediation hints for the generated analysis scripts
type ValidateDataTool struct{}

// NewValidateDataTool creates a new ValidateDataTool
func NewValidateDataTool() *ValidateDataTool {
	return &ValidateDataTool{}
}

// Name returns the tool name
func (t *ValidateDataTool) Name() string {
	return "validate_data"
}

// Description returns the tool description
func (t *ValidateDataTool) Description() string {
	return `Validate CSV data quality and provide code-ready recommendations.
Parameters:
- csv_path (required): Path to the CSV file to validate
Returns a data quality report with concrete remediation code for null
handling (drop vs. fill) and suggested analyses per column class. On
failure the result starts with an ERROR marker.`
}

// Execute runs the tool and returns the quality report
func (t *ValidateDataTool) Execute(ctx context.Context, params *CSVParams) string {
	if params == nil || params.CSVPath == "" {
		return "ERROR: csv_path is required"
	}

	table, err := dataset.Load(params.CSVPath)
	if err != nil {
		return fmt.Sprintf("ERROR: Validation failed: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("DATA QUALITY REPORT\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	writeNullFindings(&sb, table)
	writeColumnTypes(&sb, table)
	writeSuggestedAnalysis(&sb, table)

	return strings.TrimRight(sb.String(), "\n")
}

func writeNullFindings(sb *strings.Builder, table *dataset.Table) {
	var nullCols []*dataset.Column
	for _, col := range table.Columns {
		if col.NullCount() > 0 {
			nullCols = append(nullCols, col)
		}
	}

	if len(nullCols) == 0 {
		sb.WriteString("No null values - clean dataset!\n\n")
		return
	}

	sb.WriteString("NULL VALUES DETECTED:\n")
	for _, col := range nullCols {
		fmt.Fprintf(sb, "  %s: %d nulls (%.1f%%)\n", col.Name, col.NullCount(), col.NullPercent())
	}

	sb.WriteString("\nRECOMMENDED CODE:\n")
	sb.WriteString("  # Option 1: Drop rows with nulls\n")
	sb.WriteString("  df = df.drop_nulls()\n\n")
	sb.WriteString("  # Option 2: Fill nulls with a value\n")
	for _, col := range nullCols {
		if col.IsNumeric() {
			fmt.Fprintf(sb, "  df = df.with_columns(pl.col('%s').fill_null(0))\n", col.Name)
		} else {
			fmt.Fprintf(sb, "  df = df.with_columns(pl.col('%s').fill_null('Unknown'))\n", col.Name)
		}
	}
	sb.WriteString("\n")
}

func writeColumnTypes(sb *strings.Builder, table *dataset.Table) {
	sb.WriteString("COLUMN TYPES:\n")
	for _, col := range table.Columns {
		switch columnClass(col) {
		case "NUMERIC":
			fmt.Fprintf(sb, "  %s: %s (NUMERIC)\n", col.Name, col.Kind)
		case "CATEGORICAL":
			fmt.Fprintf(sb, "  %s: %s (CATEGORICAL, %d categories)\n", col.Name, col.Kind, col.DistinctCount())
		default:
			fmt.Fprintf(sb, "  %s: %s (TEXT)\n", col.Name, col.Kind)
		}
	}
	sb.WriteString("\n")
}

func writeSuggestedAnalysis(sb *strings.Builder, table *dataset.Table) {
	var numeric, categorical []string
	for _, col := range table.Columns {
		switch columnClass(col) {
		case "NUMERIC":
			numeric = append(numeric, col.Name)
		case "CATEGORICAL":
			categorical = append(categorical, col.Name)
		}
	}

	sb.WriteString("SUGGESTED ANALYSIS:\n")
	if len(numeric) > 0 {
		fmt.Fprintf(sb, "  Numeric columns: [%s]\n", strings.Join(numeric, ", "))
		sb.WriteString("  -> Use: df.describe() or df.select(pl.col(c).mean())\n")
	}
	if len(categorical) > 0 {
		fmt.Fprintf(sb, "  Categorical columns: [%s]\n", strings.Join(categorical, ", "))
		fmt.Fprintf(sb, "  -> Use: df.group_by('%s').agg(pl.count())\n", categorical[0])
	}
	if len(numeric) > 0 && len(categorical) > 0 {
		fmt.Fprintf(sb, "  Combined: df.group_by('%s').agg(pl.mean('%s'))\n", categorical[0], numeric[0])
	}
}
