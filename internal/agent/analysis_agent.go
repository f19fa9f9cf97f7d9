package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/databuddy-ai/databuddy/internal/agent/tools"
	"github.com/databuddy-ai/databuddy/internal/llm"
	"github.com/databuddy-ai/databuddy/internal/log"
	"github.com/databuddy-ai/databuddy/internal/ui"
)

// DefaultMaxSteps bounds one analysis attempt when no budget is
// configured
const DefaultMaxSteps = 20

// AnalysisResponse contains the structured result of one analysis run
type AnalysisResponse struct {
	Summary          string
	Insights         []string
	Visualizations   []string
	Code             string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// GetSummary returns the analysis summary
func (r *AnalysisResponse) GetSummary() string { return r.Summary }

// GetInsights returns the individual findings
func (r *AnalysisResponse) GetInsights() []string { return r.Insights }

// GetVisualizations returns the chart files the model reported writing
func (r *AnalysisResponse) GetVisualizations() []string { return r.Visualizations }

// GetCode returns the final analysis code
func (r *AnalysisResponse) GetCode() string { return r.Code }

// AnalysisAgentOptions contains configuration for AnalysisAgent
type AnalysisAgentOptions struct {
	LLMProvider llm.Provider
	MaxSteps    int               // Step budget for one attempt
	WorkDir     string            // Directory scripts run in (charts land here)
	PythonBin   string            // Interpreter for run_python
	Printer     *ui.StreamPrinter // Stream printer for output (optional)
	Debug       bool
}

// AnalysisAgent runs one complete analysis task against the chat model:
// a bounded plan, call-tool, observe loop that terminates when the model
// submits a structured final answer or the step budget runs out. Each
// agent instance is built fresh per attempt and holds no state across
// runs.
type AnalysisAgent struct {
	opts AnalysisAgentOptions
}

// NewAnalysisAgent creates a new AnalysisAgent
func NewAnalysisAgent(opts AnalysisAgentOptions) *AnalysisAgent {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	return &AnalysisAgent{opts: opts}
}

// csvPathParam is the shared parameter schema of the profiling tools
func csvPathParam() *schema.ParamsOneOf {
	return schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
		"csv_path": {
			Type:     schema.String,
			Desc:     "Path to the CSV file",
			Required: true,
		},
	})
}

// Run executes the analysis task to completion. It returns the parsed
// final answer, or an error when the model produced none within the step
// budget.
func (a *AnalysisAgent) Run(ctx context.Context, task string) (*AnalysisResponse, error) {
	printer := a.opts.Printer

	printProgress := func(msg string) {
		if printer != nil {
			_ = printer.PrintProgress(msg)
		}
		log.Debug("%s", msg)
	}
	printToolCall := func(name string) {
		if printer != nil {
			_ = printer.PrintToolCall(name)
		}
		log.Debug("Tool call: %s", name)
	}
	printSuccess := func(msg string) {
		if printer != nil {
			_ = printer.PrintSuccess(msg)
		}
	}

	if a.opts.LLMProvider == nil {
		return nil, fmt.Errorf("LLM provider is not configured")
	}

	providerName := a.opts.LLMProvider.Name()
	modelName := a.opts.LLMProvider.GetConfig().Model
	printProgress(fmt.Sprintf("Initializing LLM provider (%s/%s)...", providerName, modelName))

	chatModel, err := a.opts.LLMProvider.CreateChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	if chatModel == nil {
		return nil, fmt.Errorf("chat model is nil (provider: %s)", providerName)
	}

	// Profiling tools are stateless; each invocation re-reads the file
	loadTool := tools.NewLoadCSVTool()
	inspectTool := tools.NewInspectDataTool()
	profileTool := tools.NewProfileDataTool()
	validateTool := tools.NewValidateDataTool()
	pythonTool := tools.NewRunPythonTool(a.opts.WorkDir, a.opts.PythonBin)

	toolInfos := []*schema.ToolInfo{
		{Name: loadTool.Name(), Desc: loadTool.Description(), ParamsOneOf: csvPathParam()},
		{Name: inspectTool.Name(), Desc: inspectTool.Description(), ParamsOneOf: csvPathParam()},
		{Name: profileTool.Name(), Desc: profileTool.Description(), ParamsOneOf: csvPathParam()},
		{Name: validateTool.Name(), Desc: validateTool.Description(), ParamsOneOf: csvPathParam()},
		{
			Name: pythonTool.Name(),
			Desc: pythonTool.Description(),
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"code": {Type: schema.String, Desc: "Python source to execute", Required: true},
			}),
		},
		{
			Name: "submit_analysis",
			Desc: "Submit the final analysis. Call this when you have finished the task and are ready to report your findings.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"summary":        {Type: schema.String, Desc: "Overall analysis summary", Required: true},
				"insights":       {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}, Desc: "Individual findings", Required: false},
				"visualizations": {Type: schema.Array, ElemInfo: &schema.ParameterInfo{Type: schema.String}, Desc: "Chart file names written by the analysis code", Required: false},
				"code":           {Type: schema.String, Desc: "The final analysis code", Required: false},
			}),
		},
	}

	if err := chatModel.BindTools(toolInfos); err != nil {
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	messages := []*schema.Message{
		{Role: schema.System, Content: AnalysisSystemPrompt},
		{Role: schema.User, Content: task},
	}

	var promptTokens, completionTokens, totalTokens int

	for step := 0; step < a.opts.MaxSteps; step++ {
		printProgress(fmt.Sprintf("Agent step %d...", step+1))

		streamReader, err := chatModel.Stream(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("LLM stream failed: %w", err)
		}

		var fullContent strings.Builder
		var toolCalls []*schema.ToolCall

		for {
			chunk, err := streamReader.Recv()
			if err != nil {
				if err == io.EOF {
					break
				}
				streamReader.Close()
				return nil, fmt.Errorf("stream read error: %w", err)
			}

			if chunk.Content != "" {
				fullContent.WriteString(chunk.Content)
				if printer != nil {
					_ = printer.PrintLLMContent(chunk.Content)
				}
			}

			for _, tc := range chunk.ToolCalls {
				idx := 0
				if tc.Index != nil {
					idx = *tc.Index
				}
				for len(toolCalls) <= idx {
					toolCalls = append(toolCalls, &schema.ToolCall{Function: schema.FunctionCall{}})
				}
				if tc.ID != "" {
					toolCalls[idx].ID = tc.ID
				}
				if tc.Function.Name != "" {
					if toolCalls[idx].Function.Name == "" {
						printToolCall(tc.Function.Name)
					}
					toolCalls[idx].Function.Name = tc.Function.Name
				}
				toolCalls[idx].Function.Arguments += tc.Function.Arguments
			}

			if chunk.ResponseMeta != nil && chunk.ResponseMeta.Usage != nil {
				usage := chunk.ResponseMeta.Usage
				promptTokens += usage.PromptTokens
				completionTokens += usage.CompletionTokens
				totalTokens += usage.TotalTokens
			}
		}
		streamReader.Close()

		if printer != nil {
			_ = printer.Newline()
		}

		var toolCallsValue []schema.ToolCall
		for _, tc := range toolCalls {
			if tc != nil {
				toolCallsValue = append(toolCallsValue, *tc)
			}
		}
		messages = append(messages, &schema.Message{
			Role:      schema.Assistant,
			Content:   fullContent.String(),
			ToolCalls: toolCallsValue,
		})

		if len(toolCalls) == 0 {
			// A plain text response without tool calls is the final answer
			content := strings.TrimSpace(fullContent.String())
			if content == "" {
				return nil, fmt.Errorf("empty response from LLM")
			}
			printSuccess("Analysis complete")
			return &AnalysisResponse{
				Summary:          content,
				PromptTokens:     promptTokens,
				CompletionTokens: completionTokens,
				TotalTokens:      totalTokens,
			}, nil
		}

		for _, tc := range toolCalls {
			if tc.Function.Name == "" {
				continue
			}

			if tc.Function.Name == "submit_analysis" {
				var params tools.SubmitAnalysisParams
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &params); err != nil {
					log.Debug("Failed to parse submit_analysis arguments: %v", err)
					continue
				}
				if err := params.Validate(); err != nil {
					log.Debug("Invalid submit_analysis params: %v", err)
					continue
				}

				printSuccess("Analysis complete")
				return &AnalysisResponse{
					Summary:          params.Summary,
					Insights:         params.Insights,
					Visualizations:   params.Visualizations,
					Code:             params.Code,
					PromptTokens:     promptTokens,
					CompletionTokens: completionTokens,
					TotalTokens:      totalTokens,
				}, nil
			}

			log.DebugToolCall(tc.Function.Name, json.RawMessage(tc.Function.Arguments))

			var result string
			var toolErr error

			switch tc.Function.Name {
			case loadTool.Name(), inspectTool.Name(), profileTool.Name(), validateTool.Name():
				var params tools.CSVParams
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &params); err != nil {
					toolErr = fmt.Errorf("invalid parameters: %w", err)
					break
				}
				switch tc.Function.Name {
				case loadTool.Name():
					result = loadTool.Execute(ctx, &params)
				case inspectTool.Name():
					result = inspectTool.Execute(ctx, &params)
				case profileTool.Name():
					result = profileTool.Execute(ctx, &params)
				case validateTool.Name():
					result = validateTool.Execute(ctx, &params)
				}

			case pythonTool.Name():
				var params tools.RunPythonParams
				if err := json.Unmarshal([]byte(tc.Function.Arguments), &params); err != nil {
					toolErr = fmt.Errorf("invalid parameters: %w", err)
				} else {
					result, toolErr = pythonTool.Execute(ctx, &params)
				}

			default:
				toolErr = fmt.Errorf("unknown tool: %s", tc.Function.Name)
			}

			record := StepRecord{Observations: result, Err: toolErr}
			if toolErr != nil {
				record.Observations = fmt.Sprintf("Error: %v", toolErr)
				log.Debug("Tool %s error: %v", tc.Function.Name, toolErr)
			}
			log.DebugToolResult(tc.Function.Name, record.Observations, toolErr)
			CompactStep(&record)

			if printer != nil {
				_ = printer.PrintToolResult(tc.Function.Name, record.Observations, toolErr)
			}

			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    record.Observations,
				ToolCallID: tc.ID,
			})
		}
	}

	return nil, fmt.Errorf("analysis exceeded maximum steps (%d)", a.opts.MaxSteps)
}
