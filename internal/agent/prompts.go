package agent

import (
	"bytes"
	"text/template"
)

// AnalysisSystemPrompt is the static instruction text given to the model
// once per session
const AnalysisSystemPrompt = `You are a data analyst. Write Polars analysis code that executes cleanly.

INSTRUCTIONS:
1. Call tools load_csv and inspect_data to learn about the CSV
2. Call profile_data and validate_data when the data needs deeper study
3. Write ONE simple, working Python code block and execute it with run_python
4. Call submit_analysis with your findings when done

KEY RULES:
- Always: import polars as pl
- Always load with: df = pl.read_csv("path/to/file.csv")
- NEVER try to parse tool output strings or use dict indexing on string output
- NEVER create DataFrames from string output
- Handle nulls with fill_null() or drop_nulls()
- Save charts as PNG files with matplotlib savefig
- Keep code simple and direct
- If code fails, fix it once and re-execute`

// analysisTaskTemplate is the per-run task prompt
const analysisTaskTemplate = `Analyze the dataset at: {{.CSVPath}}

Task: {{.Task}}

Follow the standard workflow:
1. Load the data
2. Inspect the data structure
3. Profile the data
4. Generate and execute analysis code based on actual data characteristics
5. Submit findings with visualizations

Focus on actionable insights and ensure all code executes successfully.`

// BuildTaskPrompt renders the task prompt for one analysis run
func BuildTaskPrompt(csvPath, task string) string {
	tmpl, err := template.New("task_prompt").Parse(analysisTaskTemplate)
	if err != nil {
		// Fallback to raw template if parsing fails
		return analysisTaskTemplate
	}

	data := struct {
		CSVPath string
		Task    string
	}{
		CSVPath: csvPath,
		Task:    task,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return analysisTaskTemplate
	}

	return buf.String()
}
