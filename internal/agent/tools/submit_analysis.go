package tools

import "fmt"

// SubmitAnalysisParams is the structured final answer the model submits
// to end a run
type SubmitAnalysisParams struct {
	Summary        string   `json:"summary"`
	Insights       []string `json:"insights,omitempty"`
	Visualizations []string `json:"visualizations,omitempty"`
	Code           string   `json:"code,omitempty"`
}

// Validate checks that the required fields are present
func (p *SubmitAnalysisParams) Validate() error {
	if p.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}
