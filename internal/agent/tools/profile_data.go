package tools

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/databuddy-ai/databuddy/internal/dataset"
)

const (
	// maxProfiledNumericCols bounds the per-column numeric analysis
	maxProfiledNumericCols = 5
	// maxCorrelationCols bounds the pairwise correlation grid
	maxCorrelationCols = 6
	// maxProfiledCategoricalCols bounds the categorical analysis
	maxProfiledCategoricalCols = 5
	// topValueCount is the number of most frequent values reported per
	// categorical column
	topValueCount = 5
	// strongCorrelation is the |r| threshold above which a pair is reported
	strongCorrelation = 0.5
)

// ProfileDataTool performs distribution and correlation profiling:
// IQR-rule outlier detection for numeric columns, pairwise Pearson
// correlation, and top value counts for categorical columns
type ProfileDataTool struct{}

// NewProfileDataTool creates a new ProfileDataTool
func NewProfileDataTool() *ProfileDataTool {
	return &ProfileDataTool{}
}

// Name returns the tool name
func (t *ProfileDataTool) Name() string {
	return "profile_data"
}

// Description returns the tool description
func (t *ProfileDataTool) Description() string {
	return `Perform deep profiling of a CSV file including distributions and correlations.
Parameters:
- csv_path (required): Path to the CSV file to profile
Returns outlier counts per numeric column (1.5x IQR boxplot rule), strong
pairwise Pearson correlations (|r| > 0.5, sorted by magnitude), the most
frequent values of categorical columns, and visualization recommendations.
On failure the result starts with an ERROR marker.`
}

// correlationPair is a reported column pair with its Pearson r
type correlationPair struct {
	a, b string
	r    float64
}

// Execute runs the tool and returns the profiling report
func (t *ProfileDataTool) Execute(ctx context.Context, params *CSVParams) string {
	if params == nil || params.CSVPath == "" {
		return "ERROR: csv_path is required"
	}

	table, err := dataset.Load(params.CSVPath)
	if err != nil {
		return fmt.Sprintf("ERROR: Failed to profile data: %v", err)
	}

	numeric := table.NumericColumns()
	var categorical []*dataset.Column
	for _, col := range table.Columns {
		if !col.IsNumeric() && col.DistinctCount() < LowCardinalityThreshold {
			categorical = append(categorical, col)
		}
	}

	var sb strings.Builder
	sb.WriteString("DATA PROFILING REPORT\n")
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	writeClassification(&sb, numeric, categorical)
	writeNumericAnalysis(&sb, numeric)
	writeCorrelationAnalysis(&sb, numeric)
	writeCategoricalAnalysis(&sb, categorical)
	writeVisualizationHints(&sb, numeric, categorical)

	return strings.TrimRight(sb.String(), "\n")
}

func writeClassification(sb *strings.Builder, numeric, categorical []*dataset.Column) {
	sb.WriteString("COLUMN TYPE CLASSIFICATION:\n")
	fmt.Fprintf(sb, "  Numeric: %d columns - [%s]\n", len(numeric), joinNames(numeric))
	fmt.Fprintf(sb, "  Categorical: %d columns - [%s]\n\n", len(categorical), joinNames(categorical))
}

func writeNumericAnalysis(sb *strings.Builder, numeric []*dataset.Column) {
	if len(numeric) == 0 {
		return
	}
	sb.WriteString("NUMERIC COLUMN ANALYSIS:\n")

	for i, col := range numeric {
		if i >= maxProfiledNumericCols {
			break
		}
		values := col.NonNullFloats()
		if len(values) == 0 {
			continue
		}
		outliers, q1, q3 := dataset.IQROutliers(values)
		fmt.Fprintf(sb, "  %s:\n", col.Name)
		fmt.Fprintf(sb, "    Range: [%g, %g]\n", dataset.Min(values), dataset.Max(values))
		fmt.Fprintf(sb, "    IQR: %.2f\n", q3-q1)
		fmt.Fprintf(sb, "    Outliers: %d (%.1f%%)\n", outliers, float64(outliers)/float64(len(values))*100)
	}
	sb.WriteString("\n")
}

func writeCorrelationAnalysis(sb *strings.Builder, numeric []*dataset.Column) {
	if len(numeric) < 2 {
		return
	}
	sb.WriteString("CORRELATION ANALYSIS:\n")

	limit := len(numeric)
	if limit > maxCorrelationCols {
		limit = maxCorrelationCols
	}

	var pairs []correlationPair
	for i := 0; i < limit; i++ {
		for j := i + 1; j < limit; j++ {
			r, ok := dataset.Correlation(numeric[i], numeric[j])
			if ok && math.Abs(r) > strongCorrelation {
				pairs = append(pairs, correlationPair{a: numeric[i].Name, b: numeric[j].Name, r: r})
			}
		}
	}

	if len(pairs) == 0 {
		sb.WriteString("  No strong correlations found (|r| > 0.5)\n\n")
		return
	}

	sort.Slice(pairs, func(i, j int) bool {
		return math.Abs(pairs[i].r) > math.Abs(pairs[j].r)
	})

	sb.WriteString("  Strong correlations (|r| > 0.5):\n")
	for _, p := range pairs {
		fmt.Fprintf(sb, "    %s <-> %s: %.3f\n", p.a, p.b, p.r)
	}
	sb.WriteString("\n")
}

func writeCategoricalAnalysis(sb *strings.Builder, categorical []*dataset.Column) {
	if len(categorical) == 0 {
		return
	}
	sb.WriteString("CATEGORICAL COLUMN ANALYSIS:\n")

	for i, col := range categorical {
		if i >= maxProfiledCategoricalCols {
			break
		}
		fmt.Fprintf(sb, "  %s:\n", col.Name)
		fmt.Fprintf(sb, "    Unique values: %d\n", col.DistinctCount())
		sb.WriteString("    Top values:\n")
		for j, vc := range col.ValueCounts() {
			if j >= topValueCount {
				break
			}
			fmt.Fprintf(sb, "      %s: %d occurrences\n", vc.Value, vc.Count)
		}
	}
	sb.WriteString("\n")
}

func writeVisualizationHints(sb *strings.Builder, numeric, categorical []*dataset.Column) {
	sb.WriteString("RECOMMENDED VISUALIZATIONS:\n")

	if len(numeric) > 0 {
		names := firstNames(numeric, 3)
		fmt.Fprintf(sb, "  Numeric: histograms and box plots for %s\n", names)
	}
	if len(numeric) >= 2 {
		fmt.Fprintf(sb, "  Relationships: scatter plot of %s vs %s, correlation heatmap\n",
			numeric[0].Name, numeric[1].Name)
	}
	if len(categorical) > 0 {
		fmt.Fprintf(sb, "  Categorical: bar charts for %s\n", firstNames(categorical, 3))
	}
	if len(categorical) > 0 && len(numeric) > 0 {
		fmt.Fprintf(sb, "  Combined: group by %s and aggregate %s\n",
			categorical[0].Name, numeric[0].Name)
	}
}

func joinNames(cols []*dataset.Column) string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return strings.Join(names, ", ")
}

func firstNames(cols []*dataset.Column, n int) string {
	if len(cols) < n {
		n = len(cols)
	}
	return joinNames(cols[:n])
}
