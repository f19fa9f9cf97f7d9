package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// ExecutionStats holds statistics about an analysis run
type ExecutionStats struct {
	StartTime        time.Time
	EndTime          time.Time
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Duration returns the execution duration
func (s *ExecutionStats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// StreamPrinterOption is a functional option for StreamPrinter
type StreamPrinterOption func(*StreamPrinter)

// WithColor enables or disables color output
func WithColor(enabled bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.colorEnabled = enabled
	}
}

// WithVerbose enables or disables verbose mode
func WithVerbose(verbose bool) StreamPrinterOption {
	return func(p *StreamPrinter) {
		p.verbose = verbose
	}
}

// StreamPrinter handles streaming output to the terminal
type StreamPrinter struct {
	writer       io.Writer
	colorEnabled bool
	verbose      bool
}

// NewStreamPrinter creates a new StreamPrinter
func NewStreamPrinter(writer io.Writer, opts ...StreamPrinterOption) *StreamPrinter {
	p := &StreamPrinter{
		writer:       writer,
		colorEnabled: true,
		verbose:      false,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Flusher is an interface for writers that support flushing
type Flusher interface {
	Flush() error
}

// cprintf prints with the given color when color output is enabled
func (p *StreamPrinter) cprintf(c *color.Color, format string, args ...interface{}) error {
	if p.colorEnabled {
		_, err := c.Fprintf(p.writer, format, args...)
		return err
	}
	_, err := fmt.Fprintf(p.writer, format, args...)
	return err
}

// PrintToolCall prints information about a tool being called
func (p *StreamPrinter) PrintToolCall(name string) error {
	return p.cprintf(color.New(color.FgCyan), "\n🔧 Calling tool: %s\n", name)
}

// PrintToolResult prints the result of a tool call
func (p *StreamPrinter) PrintToolResult(name string, result string, err error) error {
	if err != nil {
		return p.PrintError(fmt.Sprintf("Tool %s failed: %v", name, err))
	}
	if p.verbose {
		return p.cprintf(color.New(color.FgGreen), "✓ Tool %s returned %d bytes\n", name, len(result))
	}
	return p.cprintf(color.New(color.FgGreen), "✓ %s done\n", name)
}

// PrintThinking prints planning information
func (p *StreamPrinter) PrintThinking(message string) error {
	return p.cprintf(color.New(color.FgHiBlack), "💭 %s\n", message)
}

// PrintStep prints a step in the process
func (p *StreamPrinter) PrintStep(step int, message string) error {
	return p.cprintf(color.New(color.FgBlue), "📋 Step %d: %s\n", step, message)
}

// PrintProgress prints a progress message
func (p *StreamPrinter) PrintProgress(message string) error {
	return p.cprintf(color.New(color.FgYellow), "⏳ %s\n", message)
}

// PrintInfo prints an info message
func (p *StreamPrinter) PrintInfo(message string) error {
	return p.cprintf(color.New(color.FgCyan), "ℹ️  %s\n", message)
}

// PrintSuccess prints a success message
func (p *StreamPrinter) PrintSuccess(message string) error {
	return p.cprintf(color.New(color.FgGreen), "✅ %s\n", message)
}

// PrintWarning prints a warning message
func (p *StreamPrinter) PrintWarning(message string) error {
	return p.cprintf(color.New(color.FgYellow), "⚠️  %s\n", message)
}

// PrintError prints an error message
func (p *StreamPrinter) PrintError(message string) error {
	return p.cprintf(color.New(color.FgRed), "❌ Error: %s\n", message)
}

// PrintLLMContent prints streamed content from the LLM, flushing
// immediately when the writer supports it. The raw model stream is
// chatty, so it only shows in verbose mode.
func (p *StreamPrinter) PrintLLMContent(content string) error {
	if !p.verbose {
		return nil
	}
	var err error
	if p.colorEnabled {
		_, err = color.New(color.FgWhite).Fprint(p.writer, content)
	} else {
		_, err = fmt.Fprint(p.writer, content)
	}
	if f, ok := p.writer.(Flusher); ok {
		_ = f.Flush()
	}
	return err
}

// PrintStats prints execution statistics
func (p *StreamPrinter) PrintStats(stats *ExecutionStats) error {
	if stats == nil {
		return nil
	}
	return p.cprintf(color.New(color.FgHiBlack),
		"\n📊 Stats: %d tokens (prompt: %d, completion: %d) | Time: %s\n",
		stats.TotalTokens, stats.PromptTokens, stats.CompletionTokens,
		formatDuration(stats.Duration()))
}

// Newline prints a newline
func (p *StreamPrinter) Newline() error {
	_, err := fmt.Fprintln(p.writer)
	return err
}

// formatDuration formats a duration in a human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
