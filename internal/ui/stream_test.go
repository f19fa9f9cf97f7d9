package ui

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStreamPrinter(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf)
	require.NotNil(t, printer)
}

func TestStreamPrinter_PrintToolCall(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf, WithColor(false))

	err := printer.PrintToolCall("load_csv")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "load_csv")
}

func TestStreamPrinter_PrintToolResult(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewStreamPrinter(&buf, WithColor(false))

		err := printer.PrintToolResult("profile_data", "report text", nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "profile_data done")
	})

	t.Run("verbose includes size", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewStreamPrinter(&buf, WithColor(false), WithVerbose(true))

		err := printer.PrintToolResult("profile_data", "12345", nil)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "returned 5 bytes")
	})

	t.Run("failure", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewStreamPrinter(&buf, WithColor(false))

		err := printer.PrintToolResult("run_python", "", assert.AnError)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "run_python failed")
	})
}

func TestStreamPrinter_PrintLLMContent(t *testing.T) {
	t.Run("verbose streams chunks", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewStreamPrinter(&buf, WithColor(false), WithVerbose(true))

		require.NoError(t, printer.PrintLLMContent("The dataset "))
		require.NoError(t, printer.PrintLLMContent("has 25 rows."))
		assert.Equal(t, "The dataset has 25 rows.", buf.String())
	})

	t.Run("quiet by default", func(t *testing.T) {
		var buf bytes.Buffer
		printer := NewStreamPrinter(&buf, WithColor(false))

		require.NoError(t, printer.PrintLLMContent("The dataset has 25 rows."))
		assert.Empty(t, buf.String())
	})
}

func TestStreamPrinter_PrintError(t *testing.T) {
	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf, WithColor(false))

	err := printer.PrintError("Analysis failed: model overloaded")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Analysis failed: model overloaded")
}

func TestExecutionStats(t *testing.T) {
	startTime := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	endTime := time.Date(2024, 1, 1, 12, 0, 2, 0, time.UTC)

	stats := &ExecutionStats{
		StartTime:        startTime,
		EndTime:          endTime,
		PromptTokens:     100,
		CompletionTokens: 50,
		TotalTokens:      150,
	}

	assert.Equal(t, 2*time.Second, stats.Duration())

	var buf bytes.Buffer
	printer := NewStreamPrinter(&buf, WithColor(false))
	require.NoError(t, printer.PrintStats(stats))

	output := buf.String()
	assert.Contains(t, output, "150 tokens")
	assert.Contains(t, output, "prompt: 100")
	assert.Contains(t, output, "2.00s")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "500ms", formatDuration(500*time.Millisecond))
	assert.Equal(t, "1.50s", formatDuration(1500*time.Millisecond))
}
