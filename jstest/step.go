package jstest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/launchdarkly/js-browser-tests/browsers"
	"github.com/launchdarkly/js-browser-tests/framework"
)

type stepState int

const (
	statePending stepState = iota
	stateSetup
	stateVisited
	stateAwaitingResult
	stateResolved
	stateTimedOut
	stateTornDown
)

func (s stepState) String() string {
	switch s {
	case statePending:
		return "pending"
	case stateSetup:
		return "setup"
	case stateVisited:
		return "visited"
	case stateAwaitingResult:
		return "awaiting result"
	case stateResolved:
		return "resolved"
	case stateTimedOut:
		return "timed out"
	case stateTornDown:
		return "torn down"
	}
	return fmt.Sprintf("stepState(%d)", int(s))
}

// step is one test page in one browser.
type step struct {
	runner     *Runner
	id         framework.StepID
	browser    browsers.Browser
	testLogger framework.TestLogger
	state      stepState
	debug      framework.CapturingLogger
	errors     []error
}

type stepOutcome struct {
	result      framework.StepResult
	failed      bool
	interrupted bool
}

func newStep(r *Runner, id framework.StepID, b browsers.Browser, testLogger framework.TestLogger) *step {
	return &step{runner: r, id: id, browser: b, testLogger: testLogger}
}

func (s *step) enter(state stepState) {
	s.state = state
	s.debug.Printf("Step is now %s", state)
}

func (s *step) addError(err error) {
	s.errors = append(s.errors, err)
	s.debug.Printf("%s", err)
	s.testLogger.StepError(s.id, err)
}

func (s *step) run(ctx context.Context) stepOutcome {
	started := time.Now()
	timeout := s.runner.config.Timeout
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result := framework.StepResult{StepID: s.id}
	failed := false
	timedOut := func() {
		s.enter(stateTimedOut)
		result.TimedOut = true
		result.Summary = fmt.Sprintf("timed out after %s without receiving a result", timeout)
		failed = true
	}

	s.enter(stateSetup)
	if err := s.browser.Setup(stepCtx); err != nil {
		s.addError(fmt.Errorf("setup failed: %w", err))
	}

	s.enter(stateVisited)
	pageURL := s.runner.pageURL(s.id.Test, time.Now())
	s.debug.Printf("Visiting %s", pageURL)
	visitErr := s.browser.Visit(stepCtx, pageURL)

	switch {
	case ctx.Err() != nil:
		return s.interrupted()
	case visitErr != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded):
		s.addError(fmt.Errorf("visit failed: %w", visitErr))
		timedOut()
	case visitErr != nil:
		s.addError(fmt.Errorf("visit failed: %w", visitErr))
		result.Summary = fmt.Sprintf("could not open page: %s", visitErr)
		failed = true
	default:
		s.enter(stateAwaitingResult)
		select {
		case r := <-s.runner.receiver.output:
			s.enter(stateResolved)
			result.Summary = r.String()
			result.Counters = r.Counters()
			failed = r.Fail()
		case <-stepCtx.Done():
			if ctx.Err() != nil {
				return s.interrupted()
			}
			timedOut()
		}
	}

	s.teardown(ctx)
	result.Errors = s.errors
	result.Duration = time.Since(started)
	return stepOutcome{result: result, failed: failed}
}

func (s *step) teardown(ctx context.Context) {
	teardownCtx, cancel := context.WithTimeout(ctx, s.runner.config.TeardownTimeout)
	defer cancel()
	if err := s.browser.Teardown(teardownCtx); err != nil {
		s.debug.Printf("Teardown failed: %s", err)
	}
	s.enter(stateTornDown)
}

func (s *step) interrupted() stepOutcome {
	s.debug.Printf("Interrupted while %s; skipping teardown", s.state)
	return stepOutcome{interrupted: true}
}
