package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// AnalysisResult is the read side of a completed analysis, implemented by
// the agent's response type
type AnalysisResult interface {
	GetSummary() string
	GetInsights() []string
	GetVisualizations() []string
	GetCode() string
}

// ShowAnalysis renders a completed analysis to the terminal
func ShowAnalysis(result AnalysisResult, w io.Writer) error {
	bold := color.New(color.Bold, color.FgGreen)
	cyan := color.New(color.FgCyan, color.Bold)

	fmt.Fprintln(w)
	bold.Fprintln(w, "Analysis Complete")
	fmt.Fprintln(w, strings.Repeat("─", 40))

	if summary := result.GetSummary(); summary != "" {
		fmt.Fprintln(w, summary)
	}

	if insights := result.GetInsights(); len(insights) > 0 {
		fmt.Fprintln(w)
		cyan.Fprintln(w, "Insights:")
		for _, insight := range insights {
			fmt.Fprintf(w, "  • %s\n", insight)
		}
	}

	if vizzes := result.GetVisualizations(); len(vizzes) > 0 {
		fmt.Fprintln(w)
		cyan.Fprintln(w, "Visualizations:")
		for _, viz := range vizzes {
			fmt.Fprintf(w, "  📊 %s\n", viz)
		}
	}

	if code := result.GetCode(); code != "" {
		fmt.Fprintln(w)
		cyan.Fprintln(w, "Generated Code:")
		fmt.Fprintln(w, code)
	}

	return nil
}
