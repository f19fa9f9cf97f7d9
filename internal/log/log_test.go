package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"
)

// capture redirects log output to a buffer for the duration of the test.
func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetDebugMode(false)
	})
	return &buf
}

func TestDebugMode(t *testing.T) {
	buf := capture(t)

	SetDebugMode(false)
	if IsDebugMode() {
		t.Error("debug mode should be off")
	}
	Debug("hidden %s", "message")
	if buf.Len() != 0 {
		t.Errorf("Debug wrote output with debug mode off: %q", buf.String())
	}

	SetDebugMode(true)
	if !IsDebugMode() {
		t.Error("debug mode should be on")
	}
	Debug("visible %s", "message")
	if !strings.Contains(buf.String(), "[DEBUG] visible message") {
		t.Errorf("missing debug line, got %q", buf.String())
	}
}

func TestInfoWarnError(t *testing.T) {
	buf := capture(t)

	Info("loaded %d rows", 42)
	if !strings.Contains(buf.String(), "loaded 42 rows") {
		t.Errorf("missing info line, got %q", buf.String())
	}

	buf.Reset()
	Warn("retrying in %ds", 4)
	if !strings.Contains(buf.String(), "Warning: retrying in 4s") {
		t.Errorf("missing warning line, got %q", buf.String())
	}

	buf.Reset()
	Error("bad config: %s", "no api key")
	if !strings.Contains(buf.String(), "Error: bad config: no api key") {
		t.Errorf("missing error line, got %q", buf.String())
	}
}

func TestDebugToolCall(t *testing.T) {
	buf := capture(t)
	SetDebugMode(true)

	DebugToolCall("profile_data", map[string]string{"csv_path": "data.csv"})
	out := buf.String()
	if !strings.Contains(out, "Tool Call: profile_data") {
		t.Errorf("missing tool name, got %q", out)
	}
	if !strings.Contains(out, "csv_path") {
		t.Errorf("missing parameters, got %q", out)
	}

	buf.Reset()
	DebugToolCall("load_csv", nil)
	out = buf.String()
	if !strings.Contains(out, "Tool Call: load_csv") {
		t.Errorf("missing tool name, got %q", out)
	}
	if strings.Contains(out, "Parameters") {
		t.Errorf("nil params should not print a parameter block, got %q", out)
	}
}

func TestDebugToolResult(t *testing.T) {
	buf := capture(t)
	SetDebugMode(true)

	DebugToolResult("inspect_data", "5 columns, 100 rows", nil)
	if !strings.Contains(buf.String(), "Tool inspect_data Result: 5 columns, 100 rows") {
		t.Errorf("missing result line, got %q", buf.String())
	}

	buf.Reset()
	long := strings.Repeat("x", 300)
	DebugToolResult("run_python", long, nil)
	if !strings.Contains(buf.String(), strings.Repeat("x", 200)+"...") {
		t.Errorf("long result should be truncated, got %q", buf.String())
	}

	buf.Reset()
	DebugToolResult("run_python", "", os.ErrPermission)
	if !strings.Contains(buf.String(), "Tool run_python Error:") {
		t.Errorf("missing error line, got %q", buf.String())
	}
}

func TestDebugTokenUsage(t *testing.T) {
	buf := capture(t)
	SetDebugMode(true)

	DebugTokenUsage(100, 50, 150)
	if !strings.Contains(buf.String(), "prompt=100, completion=50, total=150") {
		t.Errorf("missing token usage, got %q", buf.String())
	}
}

func TestDebugDuration(t *testing.T) {
	buf := capture(t)
	SetDebugMode(true)

	DebugDuration("analysis", 2*time.Second)
	if !strings.Contains(buf.String(), "analysis took 2s") {
		t.Errorf("missing duration, got %q", buf.String())
	}
}
