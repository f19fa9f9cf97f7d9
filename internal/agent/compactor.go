package agent

import "unicode/utf8"

// Tool-output history is re-sent to the model on every turn, so naive
// accumulation grows context linearly with step count. The compactor
// bounds each recorded observation after the step completes. Error
// observations get a larger budget because diagnosing a failure needs
// more surrounding detail than a routine success report.
const (
	// TruncationSuffix is appended to truncated observations
	TruncationSuffix = "... [truncated]"
	// MaxObservationChars is the budget for a successful step's output
	MaxObservationChars = 800
	// MaxErrorObservationChars is the budget for a failed step's output
	MaxErrorObservationChars = 1200
)

// TruncateText truncates text to at most maxChars characters, preserving
// the prefix and appending TruncationSuffix. The result is exactly
// maxChars characters long when truncation occurs; text at or under the
// limit is returned unchanged. Lengths are measured in runes so a cut
// never splits a multibyte character: the compacted text goes back into
// the message history and must remain valid UTF-8.
func TruncateText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	suffixLen := utf8.RuneCountInString(TruncationSuffix)
	if maxChars <= suffixLen {
		return string(runes[:maxChars])
	}
	return string(runes[:maxChars-suffixLen]) + TruncationSuffix
}

// StepRecord is the recorded outcome of one completed agent step
type StepRecord struct {
	Observations string
	Err          error
}

// CompactStep shrinks the step's recorded observation in place. It runs
// after every step, unconditionally, with no awareness of which tool
// produced the text; steps without observations are left untouched.
func CompactStep(step *StepRecord) {
	if step == nil || step.Observations == "" {
		return
	}
	step.Observations = CompactObservation(step.Observations, step.Err != nil)
}

// CompactObservation truncates a single observation under the error or
// success budget
func CompactObservation(text string, isError bool) string {
	if isError {
		return TruncateText(text, MaxErrorObservationChars)
	}
	return TruncateText(text, MaxObservationChars)
}
