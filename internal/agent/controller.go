package agent

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/databuddy-ai/databuddy/internal/llm"
	"github.com/databuddy-ai/databuddy/internal/log"
	"github.com/databuddy-ai/databuddy/internal/ui"
)

// Runner executes one analysis attempt
type Runner interface {
	Run(ctx context.Context, task string) (*AnalysisResponse, error)
}

// ControllerOptions contains configuration for Controller
type ControllerOptions struct {
	Provider  llm.Provider
	Retry     llm.RetryConfig
	MaxSteps  int
	WorkDir   string
	PythonBin string
	Printer   *ui.StreamPrinter
	Debug     bool

	// NewRunner builds a fresh delegate for each attempt. Overridable
	// in tests; defaults to NewAnalysisAgent with the options above.
	NewRunner func() Runner
	// Sleep waits between attempts. Defaults to time.Sleep.
	Sleep func(d time.Duration)
}

// Result is the outcome of Controller.Analyze. Exactly one of Response
// and FailureMessage is set.
type Result struct {
	Response       *AnalysisResponse
	FailureMessage string
}

// Failed reports whether the analysis ended without a response
func (r *Result) Failed() bool {
	return r.Response == nil
}

// Controller drives a full analysis with transient-failure retries. A
// fresh agent is built for every attempt so no partial conversation
// state leaks across retries.
type Controller struct {
	opts ControllerOptions
}

// NewController creates a new Controller
func NewController(opts ControllerOptions) *Controller {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.Retry == (llm.RetryConfig{}) {
		opts.Retry = llm.DefaultRetryConfig()
	} else if err := opts.Retry.Validate(); err != nil {
		opts.Retry = llm.DefaultRetryConfig()
	}
	if opts.NewRunner == nil {
		agentOpts := AnalysisAgentOptions{
			LLMProvider: opts.Provider,
			MaxSteps:    opts.MaxSteps,
			WorkDir:     opts.WorkDir,
			PythonBin:   opts.PythonBin,
			Printer:     opts.Printer,
			Debug:       opts.Debug,
		}
		opts.NewRunner = func() Runner { return NewAnalysisAgent(agentOpts) }
	}
	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}
	return &Controller{opts: opts}
}

// Analyze runs the analysis for csvPath. Transient provider overload is
// retried with exponential backoff; all other failures, and exhausted
// retries, are reported through Result.FailureMessage rather than an
// error so callers can render them as ordinary output.
func (c *Controller) Analyze(ctx context.Context, csvPath, task string) *Result {
	if _, err := os.Stat(csvPath); err != nil {
		return &Result{FailureMessage: fmt.Sprintf("File not found: %s", csvPath)}
	}

	prompt := BuildTaskPrompt(csvPath, task)

	retry := c.opts.Retry
	var lastErr error

	for attempt := 0; attempt <= retry.MaxRetries; attempt++ {
		runner := c.opts.NewRunner()

		resp, err := runner.Run(ctx, prompt)
		if err == nil {
			return &Result{Response: resp}
		}
		lastErr = err

		errType := llm.ClassifyError(err)
		log.Debug("Attempt %d failed (%s): %v", attempt+1, errType, err)

		if errType != llm.ErrorTypeOverloaded || attempt >= retry.MaxRetries {
			break
		}

		delay := llm.CalculateBackoff(attempt, retry.BaseDelay, retry.BackoffMax)
		if c.opts.Printer != nil {
			_ = c.opts.Printer.PrintWarning(fmt.Sprintf(
				"Model overloaded, retrying in %.0fs (attempt %d/%d)...",
				delay.Seconds(), attempt+1, retry.MaxRetries))
		} else {
			log.Warn("Model overloaded, retrying in %.0fs (attempt %d/%d)...",
				delay.Seconds(), attempt+1, retry.MaxRetries)
		}
		c.opts.Sleep(delay)
	}

	return &Result{FailureMessage: fmt.Sprintf("Analysis failed: %v", lastErr)}
}
