package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/databuddy-ai/databuddy/internal/agent"
	"github.com/databuddy-ai/databuddy/internal/config"
	"github.com/databuddy-ai/databuddy/internal/llm"
	"github.com/databuddy-ai/databuddy/internal/log"
	"github.com/databuddy-ai/databuddy/internal/ui"
)

var (
	runTask        string
	runMaxSteps    int
	runVerbose     bool
	runInteractive bool
)

var runCmd = &cobra.Command{
	Use:   "run [csv-path]",
	Short: "Analyze a CSV file",
	Long: `Run an automated exploratory data analysis on the given CSV file.

The agent loads and profiles the data, writes Polars analysis code,
executes it, and reports insights together with any chart files the
code produced. Without a path (or with --interactive) an interactive
session is started instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalysis,
}

func init() {
	runCmd.Flags().StringVarP(&runTask, "task", "t", "", "Analysis task description (default: comprehensive EDA)")
	runCmd.Flags().IntVar(&runMaxSteps, "max-steps", 0, "Maximum agent steps per attempt (default: 20)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Show streamed model output and tool results")
	runCmd.Flags().BoolVarP(&runInteractive, "interactive", "i", false, "Start an interactive session")

	rootCmd.AddCommand(runCmd)
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log.DebugConfig("Configuration", cfg)

	controller, printer, err := buildController(cfg)
	if err != nil {
		return err
	}

	task := runTask
	if task == "" {
		task = cfg.GetAnalysisConfig().DefaultTask
	}

	if runInteractive || len(args) == 0 {
		return runInteractiveSession(ctx, controller, printer, task)
	}

	return analyzeFile(ctx, controller, printer, args[0], task)
}

// buildController assembles the analysis controller from configuration
// and command-line flags
func buildController(cfg *config.Config) (*agent.Controller, *ui.StreamPrinter, error) {
	modelConfig, err := cfg.GetModel(modelName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get model config: %w", err)
	}

	log.Debug("Using model: %s (provider: %s)", modelConfig.Model, modelConfig.Provider)

	factory := llm.NewProviderFactory()
	provider, err := factory.Create(*modelConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	retryCfg := cfg.GetRetryConfig()
	analysisCfg := cfg.GetAnalysisConfig()

	maxSteps := analysisCfg.MaxSteps
	if runMaxSteps > 0 {
		maxSteps = runMaxSteps
	}

	workDir, _ := os.Getwd()
	printer := ui.NewStreamPrinter(os.Stdout, ui.WithVerbose(runVerbose || debugMode))

	controller := agent.NewController(agent.ControllerOptions{
		Provider: provider,
		Retry: llm.RetryConfig{
			MaxRetries: retryCfg.MaxRetries,
			BaseDelay:  retryCfg.BaseDelay,
			BackoffMax: retryCfg.BackoffMax,
		},
		MaxSteps:  maxSteps,
		WorkDir:   workDir,
		PythonBin: analysisCfg.PythonBin,
		Printer:   printer,
		Debug:     debugMode,
	})

	return controller, printer, nil
}

// analyzeFile runs one analysis and renders the outcome. Analysis
// failures are rendered as output text, not returned as errors, so the
// process exits zero either way.
func analyzeFile(ctx context.Context, controller *agent.Controller, printer *ui.StreamPrinter, csvPath, task string) error {
	startTime := time.Now()

	_ = printer.PrintThinking(fmt.Sprintf("Analyzing %s...", csvPath))

	result := controller.Analyze(ctx, csvPath, task)
	if result.Failed() {
		_ = printer.PrintError(result.FailureMessage)
		return nil
	}

	if err := ui.ShowAnalysis(result.Response, os.Stdout); err != nil {
		return err
	}

	stats := &ui.ExecutionStats{
		StartTime:        startTime,
		EndTime:          time.Now(),
		PromptTokens:     result.Response.PromptTokens,
		CompletionTokens: result.Response.CompletionTokens,
		TotalTokens:      result.Response.TotalTokens,
	}
	_ = printer.PrintStats(stats)

	return nil
}
