package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

// DefaultScriptTimeout bounds a single script execution
const DefaultScriptTimeout = 60 * time.Second

// authorizedImports is the allow-list of Python modules that generated
// analysis scripts may import
var authorizedImports = map[string]bool{
	"polars":      true,
	"numpy":       true,
	"matplotlib":  true,
	"seaborn":     true,
	"pyarrow":     true,
	"typing":      true,
	"collections": true,
	"itertools":   true,
	"functools":   true,
	"operator":    true,
	"math":        true,
	"statistics":  true,
	"datetime":    true,
	"re":          true,
}

var importPattern = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+([A-Za-z_][A-Za-z0-9_.]*)`)

// RunPythonParams contains parameters for executing a generated script
type RunPythonParams struct {
	Code string `json:"code"`
}

// RunPythonTool executes model-generated Python analysis code with a
// plain interpreter subprocess. Imports are checked against an allow-list
// before execution; chart files written by the script land in the working
// directory.
type RunPythonTool struct {
	workDir   string
	pythonBin string
	timeout   time.Duration
}

// NewRunPythonTool creates a new RunPythonTool. An empty pythonBin
// defaults to python3.
func NewRunPythonTool(workDir, pythonBin string) *RunPythonTool {
	if pythonBin == "" {
		pythonBin = "python3"
	}
	return &RunPythonTool{
		workDir:   workDir,
		pythonBin: pythonBin,
		timeout:   DefaultScriptTimeout,
	}
}

// Name returns the tool name
func (t *RunPythonTool) Name() string {
	return "run_python"
}

// Description returns the tool description
func (t *RunPythonTool) Description() string {
	return `Execute a Python analysis script and return its output.
Parameters:
- code (required): Python source to execute
Only imports of the analysis allow-list (polars, numpy, matplotlib,
seaborn, pyarrow and the standard math/date modules) are permitted. Save
charts as PNG files with matplotlib's savefig; they are written to the
working directory. stdout and stderr are returned as the observation.`
}

// CheckImports verifies that every imported module root is on the
// allow-list, returning the first offending module name
func (t *RunPythonTool) CheckImports(code string) error {
	for _, m := range importPattern.FindAllStringSubmatch(code, -1) {
		root := strings.SplitN(m[1], ".", 2)[0]
		if !authorizedImports[root] {
			return fmt.Errorf("import of %q is not authorized", root)
		}
	}
	return nil
}

// Execute writes the script to a temporary file and runs it with the
// configured interpreter in the working directory
func (t *RunPythonTool) Execute(ctx context.Context, params *RunPythonParams) (string, error) {
	if params == nil || strings.TrimSpace(params.Code) == "" {
		return "", fmt.Errorf("code is required")
	}

	if err := t.CheckImports(params.Code); err != nil {
		return "", err
	}

	script, err := os.CreateTemp("", "databuddy-*.py")
	if err != nil {
		return "", fmt.Errorf("failed to create script file: %w", err)
	}
	defer os.Remove(script.Name())

	if _, err := script.WriteString(params.Code); err != nil {
		script.Close()
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	if err := script.Close(); err != nil {
		return "", fmt.Errorf("failed to close script file: %w", err)
	}

	runCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, t.pythonBin, script.Name())
	cmd.Dir = t.workDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		if runCtx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("script timed out after %s", t.timeout)
		}
		return "", fmt.Errorf("script failed: %v\n%s", err, output)
	}

	if len(output) == 0 {
		return "Script executed successfully (no output).", nil
	}
	return string(output), nil
}
