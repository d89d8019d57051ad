package report

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/launchdarkly/js-browser-tests/framework"
)

// Report is the machine-readable summary of a run.
type Report struct {
	RunID           string       `json:"runId"`
	Name            string       `json:"name"`
	Started         time.Time    `json:"started"`
	Finished        time.Time    `json:"finished"`
	Success         bool         `json:"success"`
	Interrupted     bool         `json:"interrupted,omitempty"`
	Steps           []StepRecord `json:"steps"`
	SkippedSteps    []string     `json:"skippedSteps,omitempty"`
	SkippedBrowsers []string     `json:"skippedBrowsers,omitempty"`
}

// StepRecord is one step in a Report. The counters are null if the page never reported.
type StepRecord struct {
	Browser    string              `json:"browser"`
	Test       string              `json:"test"`
	Passed     bool                `json:"passed"`
	TimedOut   bool                `json:"timedOut,omitempty"`
	Summary    string              `json:"summary"`
	Assertions ldvalue.OptionalInt `json:"assertions"`
	Errors     ldvalue.OptionalInt `json:"errors"`
	Failures   ldvalue.OptionalInt `json:"failures"`
	Tests      ldvalue.OptionalInt `json:"tests"`
	Messages   []string            `json:"messages,omitempty"`
	DurationMS int64               `json:"durationMs"`
}

// Recorder is a TestLogger that builds a Report as steps finish.
type Recorder struct {
	report Report
	lock   sync.Mutex
}

func NewRecorder(name string) *Recorder {
	return &Recorder{
		report: Report{
			RunID:   uuid.NewString(),
			Name:    name,
			Started: time.Now().UTC(),
			Steps:   []StepRecord{},
		},
	}
}

func (r *Recorder) StepStarted(framework.StepID) {}

func (r *Recorder) StepError(framework.StepID, error) {}

func (r *Recorder) StepFinished(id framework.StepID, result framework.StepResult, failed bool, _ framework.CapturedOutput) {
	rec := StepRecord{
		Browser:    id.Browser,
		Test:       id.Test,
		Passed:     !failed,
		TimedOut:   result.TimedOut,
		Summary:    result.Summary,
		DurationMS: result.Duration.Milliseconds(),
	}
	if c := result.Counters; c != nil {
		rec.Assertions = ldvalue.NewOptionalInt(c.Assertions)
		rec.Errors = ldvalue.NewOptionalInt(c.Errors)
		rec.Failures = ldvalue.NewOptionalInt(c.Failures)
		rec.Tests = ldvalue.NewOptionalInt(c.Tests)
	}
	for _, err := range result.Errors {
		rec.Messages = append(rec.Messages, err.Error())
	}
	r.lock.Lock()
	r.report.Steps = append(r.report.Steps, rec)
	r.lock.Unlock()
}

func (r *Recorder) StepSkipped(id framework.StepID, reason string) {
	r.lock.Lock()
	r.report.SkippedSteps = append(r.report.SkippedSteps, id.String())
	r.lock.Unlock()
}

func (r *Recorder) BrowserSkipped(browser string, reason string) {
	r.lock.Lock()
	r.report.SkippedBrowsers = append(r.report.SkippedBrowsers, browser)
	r.lock.Unlock()
}

// Finish stamps the report with the run's outcome and returns it.
func (r *Recorder) Finish(success, interrupted bool) Report {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.report.Finished = time.Now().UTC()
	r.report.Success = success && !interrupted
	r.report.Interrupted = interrupted
	ret := r.report
	ret.Steps = append([]StepRecord(nil), r.report.Steps...)
	return ret
}

// WriteJSON writes the report to a file.
func WriteJSON(path string, report Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	return nil
}
