package framework

import (
	"fmt"
	"time"
)

// StepID identifies one (browser, test) execution unit.
type StepID struct {
	Browser string
	Test    string
}

func (s StepID) String() string {
	return fmt.Sprintf("%s on %s", s.Test, s.Browser)
}

// Results is the accumulated outcome of a run.
type Results struct {
	Steps    []StepResult
	Failures []StepResult
	Skipped  []string
}

// StepResult describes how a single step ended. Summary is the human-readable verdict that
// appears after the step ID in the console output.
type StepResult struct {
	StepID   StepID
	Summary  string
	Counters *Counters // nil if no report was received
	TimedOut bool
	Errors   []error
	Duration time.Duration
}

// Counters are the totals reported by a test page.
type Counters struct {
	Assertions int
	Errors     int
	Failures   int
	Tests      int
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

// PrintResults writes a summary of the failed steps to standard output.
func PrintResults(results Results) {
	if results.OK() {
		fmt.Printf("All steps passed (%d run)\n", len(results.Steps))
		return
	}
	fmt.Printf("FAILED STEPS (%d of %d):\n", len(results.Failures), len(results.Steps))
	for _, f := range results.Failures {
		fmt.Printf("  %s: %s\n", f.StepID, f.Summary)
	}
}
