package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/databuddy-ai/databuddy/internal/agent"
	"github.com/databuddy-ai/databuddy/internal/ui"
)

const interactiveBanner = `
📊 DataBuddy - AI Data Analysis Assistant

Commands:
  analyze <csv-path>  - Analyze a CSV file
  help                - Show this help
  quit / exit / q     - Leave the session

Press Ctrl+C during an analysis to cancel it.
`

const interactivePrompt = "databuddy> "

// interactiveSession is the read-eval loop behind the interactive mode.
// Input, output and the signal channel are injected so the loop can be
// driven from tests.
type interactiveSession struct {
	printer *ui.StreamPrinter
	in      io.Reader
	out     io.Writer
	sig     <-chan os.Signal
	analyze func(ctx context.Context, path string) error
}

// runInteractiveSession runs the read-eval loop on stdin. Ctrl+C cancels
// the in-flight analysis and returns to the prompt instead of killing the
// process. At an idle prompt it just redraws the prompt.
func runInteractiveSession(ctx context.Context, controller *agent.Controller, printer *ui.StreamPrinter, task string) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	s := &interactiveSession{
		printer: printer,
		in:      os.Stdin,
		out:     os.Stdout,
		sig:     sigChan,
		analyze: func(ctx context.Context, path string) error {
			return analyzeFile(ctx, controller, printer, path, task)
		},
	}
	return s.run(ctx)
}

func (s *interactiveSession) run(ctx context.Context) error {
	fmt.Fprint(s.out, interactiveBanner)

	// Reading happens on its own goroutine so an interrupt at the idle
	// prompt is handled right away instead of after the next Enter.
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
		close(lines)
	}()

	fmt.Fprint(s.out, interactivePrompt)

	for {
		select {
		case <-s.sig:
			fmt.Fprintln(s.out)
			fmt.Fprint(s.out, interactivePrompt)

		case line, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("input error: %w", err)
				}
				fmt.Fprintln(s.out)
				return nil
			}
			if done := s.handle(ctx, line); done {
				return nil
			}
			fmt.Fprint(s.out, interactivePrompt)
		}
	}
}

// handle executes one command line. It returns true when the session
// should end.
func (s *interactiveSession) handle(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)

	switch {
	case input == "":

	case input == "quit" || input == "exit" || input == "q":
		fmt.Fprintln(s.out, "Goodbye!")
		return true

	case input == "help":
		fmt.Fprint(s.out, interactiveBanner)

	case strings.HasPrefix(input, "analyze "):
		path := strings.TrimSpace(strings.TrimPrefix(input, "analyze "))
		path = strings.Trim(path, `"'`)
		if path == "" {
			fmt.Fprintln(s.out, "Usage: analyze <csv-path>")
			break
		}
		s.runAnalysis(ctx, path)

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", input)
	}

	return false
}

func (s *interactiveSession) runAnalysis(ctx context.Context, path string) {
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() {
		done <- s.analyze(runCtx, path)
	}()

	select {
	case err := <-done:
		cancel()
		if err != nil {
			_ = s.printer.PrintError(fmt.Sprintf("Analysis error: %v", err))
		}
	case <-s.sig:
		cancel()
		<-done
		fmt.Fprintln(s.out)
		_ = s.printer.PrintWarning("Analysis cancelled")
	}
}
