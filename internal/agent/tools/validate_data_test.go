package tools

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDataTool_Execute(t *testing.T) {
	ctx := context.Background()
	tool := NewValidateDataTool()

	t.Run("clean dataset", func(t *testing.T) {
		path := writeCSV(t, "id,city\n1,Boston\n2,Denver\n")

		result := tool.Execute(ctx, &CSVParams{CSVPath: path})

		assert.Contains(t, result, "DATA QUALITY REPORT")
		assert.Contains(t, result, "No null values - clean dataset!")
		assert.NotContains(t, result, "RECOMMENDED CODE:")
	})

	t.Run("null remediation code", func(t *testing.T) {
		path := writeCSV(t, "price,city\n9.99,Boston\n,\n7.25,Denver\n")

		result := tool.Execute(ctx, &CSVParams{CSVPath: path})

		assert.Contains(t, result, "NULL VALUES DETECTED:")
		assert.Contains(t, result, "price: 1 nulls (33.3%)")
		assert.Contains(t, result, "df = df.drop_nulls()")
		assert.Contains(t, result, "pl.col('price').fill_null(0)")
		assert.Contains(t, result, "pl.col('city').fill_null('Unknown')")
	})

	t.Run("column types section", func(t *testing.T) {
		path := writeCSV(t, "id,city\n1,Boston\n2,Denver\n")

		result := tool.Execute(ctx, &CSVParams{CSVPath: path})

		assert.Contains(t, result, "id: int (NUMERIC)")
		assert.Contains(t, result, "city: string (CATEGORICAL, 2 categories)")
	})

	t.Run("suggested analysis", func(t *testing.T) {
		path := writeCSV(t, "id,city\n1,Boston\n2,Denver\n")

		result := tool.Execute(ctx, &CSVParams{CSVPath: path})

		assert.Contains(t, result, "SUGGESTED ANALYSIS:")
		assert.Contains(t, result, "df.group_by('city').agg(pl.count())")
		assert.Contains(t, result, "df.group_by('city').agg(pl.mean('id'))")
	})

	t.Run("missing path parameter", func(t *testing.T) {
		assert.Equal(t, "ERROR: csv_path is required", tool.Execute(ctx, &CSVParams{}))
	})

	t.Run("unreadable file", func(t *testing.T) {
		result := tool.Execute(ctx, &CSVParams{CSVPath: "/nonexistent/data.csv"})

		assert.True(t, strings.HasPrefix(result, "ERROR: Validation failed:"))
	})
}

// TestProfilingTools_SalesDataset runs the full profiling tool chain over
// one realistic dataset
func TestProfilingTools_SalesDataset(t *testing.T) {
	ctx := context.Background()

	var sb strings.Builder
	sb.WriteString("order_id,date,region,product,units,revenue\n")
	regions := []string{"north", "south", "east", "west"}
	products := []string{"widget", "gadget", "gizmo"}
	for i := 0; i < 25; i++ {
		revenue := fmt.Sprintf("%.2f", 100.0+float64(i)*12.5)
		if i == 7 || i == 19 {
			revenue = ""
		}
		fmt.Fprintf(&sb, "%d,2024-01-%02d,%s,%s,%d,%s\n",
			1000+i, i+1, regions[i%4], products[i%3], i%9+1, revenue)
	}
	path := writeCSV(t, sb.String())

	loaded := NewLoadCSVTool().Execute(ctx, &CSVParams{CSVPath: path})
	assert.Contains(t, loaded, "Shape: 25 rows, 6 columns")
	assert.Contains(t, loaded, "Columns: [order_id, date, region, product, units, revenue]")
	assert.Contains(t, loaded, "Nulls: [0, 0, 0, 0, 0, 2]")

	inspected := NewInspectDataTool().Execute(ctx, &CSVParams{CSVPath: path})
	assert.Contains(t, inspected, "Data shape: 25 rows, 6 columns")
	assert.Contains(t, inspected, "region: string (CATEGORICAL)")
	assert.Contains(t, inspected, "revenue: float (NUMERIC), nulls=2 (8.0%)")

	profiled := NewProfileDataTool().Execute(ctx, &CSVParams{CSVPath: path})
	assert.Contains(t, profiled, "Numeric: 3 columns - [order_id, units, revenue]")
	assert.Contains(t, profiled, "order_id <-> revenue:")

	validated := NewValidateDataTool().Execute(ctx, &CSVParams{CSVPath: path})
	assert.Contains(t, validated, "revenue: 2 nulls (8.0%)")
	assert.Contains(t, validated, "pl.col('revenue').fill_null(0)")
}
