package jstest

import (
	"context"
	"errors"
	"io/ioutil"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/js-browser-tests/framework"
)

const passingReport = "assertions=3&errors=0&failures=0&tests=1"
const failingReport = "assertions=3&errors=0&failures=1&tests=1"

// fakeBrowser records its lifecycle calls. Its visit behavior plays the part of the test page.
type fakeBrowser struct {
	name        string
	unsupported bool
	setupErr    error
	visit       func(pageURL string) error
	calls       []string
	urls        []string
	lock        sync.Mutex
}

func (f *fakeBrowser) Supported() bool { return !f.unsupported }

func (f *fakeBrowser) Setup(ctx context.Context) error {
	f.record("setup")
	return f.setupErr
}

func (f *fakeBrowser) Visit(ctx context.Context, pageURL string) error {
	f.record("visit")
	f.lock.Lock()
	f.urls = append(f.urls, pageURL)
	f.lock.Unlock()
	if f.visit != nil {
		return f.visit(pageURL)
	}
	return nil
}

func (f *fakeBrowser) Teardown(ctx context.Context) error {
	f.record("teardown")
	return nil
}

func (f *fakeBrowser) String() string { return f.name }

func (f *fakeBrowser) record(call string) {
	f.lock.Lock()
	f.calls = append(f.calls, call)
	f.lock.Unlock()
}

func (f *fakeBrowser) getCalls() []string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return append([]string(nil), f.calls...)
}

// reportTo returns a visit function that sends a report the way a test page does.
func reportTo(t *testing.T, query string) func(string) error {
	return func(pageURL string) error {
		u, err := url.Parse(pageURL)
		require.NoError(t, err)
		resp, err := http.Get(u.Query().Get("resultsURL") + "?" + query)
		require.NoError(t, err)
		body, _ := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		assert.Equal(t, "OK", string(body))
		return nil
	}
}

type recordingTestLogger struct {
	finished       []framework.StepID
	skipped        []framework.StepID
	skippedBrowser []string
	errors         []error
}

func (l *recordingTestLogger) StepStarted(framework.StepID) {}
func (l *recordingTestLogger) StepError(id framework.StepID, err error) {
	l.errors = append(l.errors, err)
}
func (l *recordingTestLogger) StepFinished(id framework.StepID, r framework.StepResult, failed bool, out framework.CapturedOutput) {
	l.finished = append(l.finished, id)
}
func (l *recordingTestLogger) StepSkipped(id framework.StepID, reason string) {
	l.skipped = append(l.skipped, id)
}
func (l *recordingTestLogger) BrowserSkipped(browser, reason string) {
	l.skippedBrowser = append(l.skippedBrowser, browser)
}

func makeTestRoot(t *testing.T, names ...string) string {
	root := t.TempDir()
	dir := filepath.Join(root, "test", "javascript")
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, n := range names {
		require.NoError(t, ioutil.WriteFile(filepath.Join(dir, n+"_test.html"), []byte("<html>"+n+"</html>"), 0644))
	}
	return root
}

func newTestRunner(t *testing.T, timeout time.Duration, tests ...string) *Runner {
	r := NewRunner(Config{Port: 0, Timeout: timeout, RootDir: makeTestRoot(t, tests...)}, nil)
	for _, name := range tests {
		require.NoError(t, r.AddTest(name))
	}
	return r
}

func TestAddTestWithMissingFileIsConfigError(t *testing.T) {
	r := NewRunner(Config{RootDir: makeTestRoot(t, "ajax")}, nil)
	require.NoError(t, r.AddTest("ajax"))

	err := r.AddTest("dom")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingTestFile))
	var ce ConfigError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "dom", ce.Test)
	assert.Equal(t, "/test/javascript/dom_test.html", ce.Path)
	assert.Equal(t, []string{"/test/javascript/ajax_test.html"}, r.Tests())
}

func TestAddTestWithCustomPathFormat(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, ioutil.WriteFile(filepath.Join(root, "unit.html"), nil, 0644))
	r := NewRunner(Config{RootDir: root, TestPathFormat: "%s.html"}, nil)
	require.NoError(t, r.AddTest("unit"))
	assert.Equal(t, []string{"/unit.html"}, r.Tests())
}

func TestSingleStepPasses(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "ajax")
	b := &fakeBrowser{name: "Fake"}
	b.visit = reportTo(t, passingReport)
	r.AddBrowser(b)

	results, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, r.Successful())
	assert.True(t, results.OK())
	require.Len(t, results.Steps, 1)
	step := results.Steps[0]
	assert.Equal(t, framework.StepID{Browser: "Fake", Test: "/test/javascript/ajax_test.html"}, step.StepID)
	assert.Equal(t, "Errors: 0, Failures: 0, Assertions: 3, Tests: 1", step.Summary)
	require.NotNil(t, step.Counters)
	assert.Equal(t, 3, step.Counters.Assertions)
	assert.Equal(t, []string{"setup", "visit", "teardown"}, b.getCalls())
}

func TestStepTimesOutWhenPageNeverReports(t *testing.T) {
	r := newTestRunner(t, time.Millisecond*100, "ajax")
	b := &fakeBrowser{name: "Fake"}
	r.AddBrowser(b)

	results, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, r.Successful())
	require.Len(t, results.Failures, 1)
	assert.True(t, results.Failures[0].TimedOut)
	assert.Nil(t, results.Failures[0].Counters)
	assert.Contains(t, results.Failures[0].Summary, "timed out after 100ms")
	assert.Equal(t, []string{"setup", "visit", "teardown"}, b.getCalls())
}

func TestLateResultDoesNotResolveTimedOutStep(t *testing.T) {
	r := newTestRunner(t, time.Millisecond*200, "slow", "next")
	b := &fakeBrowser{name: "Fake"}
	var slowPageURL string
	b.visit = func(pageURL string) error {
		if slowPageURL == "" {
			slowPageURL = pageURL // this page doesn't report until the next step is waiting
			return nil
		}
		return reportTo(t, passingReport)(slowPageURL)
	}
	r.AddBrowser(b)

	results, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, results.Steps, 2)

	assert.True(t, results.Steps[0].TimedOut)
	assert.Nil(t, results.Steps[0].Counters)

	// Results aren't matched to the page that sent them, so the stale report resolves the
	// step that is waiting when it arrives.
	assert.False(t, results.Steps[1].TimedOut)
	require.NotNil(t, results.Steps[1].Counters)
	assert.Equal(t, 3, results.Steps[1].Counters.Assertions)
	assert.False(t, r.Successful())
}

func TestFailingStepDoesNotStopRun(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "first", "second")
	b := &fakeBrowser{name: "Fake"}
	visits := 0
	b.visit = func(pageURL string) error {
		visits++
		if visits == 1 {
			return reportTo(t, passingReport)(pageURL)
		}
		return reportTo(t, failingReport)(pageURL)
	}
	r.AddBrowser(b)
	logger := &recordingTestLogger{}

	results, err := r.Run(context.Background(), logger)
	require.NoError(t, err)
	assert.False(t, r.Successful())
	assert.Len(t, results.Steps, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "/test/javascript/second_test.html", results.Failures[0].StepID.Test)
	assert.Len(t, logger.finished, 2)
}

func TestFailureIsNotClearedByLaterSuccess(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "a", "b", "c")
	b := &fakeBrowser{name: "Fake"}
	visits := 0
	b.visit = func(pageURL string) error {
		visits++
		if visits == 1 {
			return reportTo(t, failingReport)(pageURL)
		}
		return reportTo(t, passingReport)(pageURL)
	}
	r.AddBrowser(b)

	results, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, results.Steps, 3)
	assert.False(t, r.Successful())
}

func TestUnsupportedBrowserIsSkipped(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "ajax")
	unsupported := &fakeBrowser{name: "Nope", unsupported: true}
	supported := &fakeBrowser{name: "Fake"}
	supported.visit = reportTo(t, passingReport)
	r.AddBrowser(unsupported)
	r.AddBrowser(supported)
	logger := &recordingTestLogger{}

	results, err := r.Run(context.Background(), logger)
	require.NoError(t, err)
	assert.True(t, r.Successful())
	assert.Empty(t, unsupported.getCalls())
	assert.Equal(t, []string{"Nope"}, results.Skipped)
	assert.Equal(t, []string{"Nope"}, logger.skippedBrowser)
	assert.Len(t, results.Steps, 1)
}

func TestStepsRunInRegistrationOrder(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "zeta", "alpha")
	first := &fakeBrowser{name: "First"}
	second := &fakeBrowser{name: "Second"}
	first.visit = reportTo(t, passingReport)
	second.visit = reportTo(t, passingReport)
	r.AddBrowser(first)
	r.AddBrowser(second)
	logger := &recordingTestLogger{}

	_, err := r.Run(context.Background(), logger)
	require.NoError(t, err)
	assert.Equal(t, []framework.StepID{
		{Browser: "First", Test: "/test/javascript/zeta_test.html"},
		{Browser: "First", Test: "/test/javascript/alpha_test.html"},
		{Browser: "Second", Test: "/test/javascript/zeta_test.html"},
		{Browser: "Second", Test: "/test/javascript/alpha_test.html"},
	}, logger.finished)
}

func TestSetupErrorIsReportedButStepContinues(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "ajax")
	b := &fakeBrowser{name: "Fake", setupErr: errors.New("no window")}
	b.visit = reportTo(t, passingReport)
	r.AddBrowser(b)
	logger := &recordingTestLogger{}

	results, err := r.Run(context.Background(), logger)
	require.NoError(t, err)
	assert.True(t, r.Successful())
	require.Len(t, logger.errors, 1)
	assert.Contains(t, logger.errors[0].Error(), "setup failed: no window")
	require.Len(t, results.Steps, 1)
	assert.Len(t, results.Steps[0].Errors, 1)
}

func TestVisitErrorFailsStepWithoutWaiting(t *testing.T) {
	r := newTestRunner(t, time.Second*30, "ajax")
	b := &fakeBrowser{name: "Fake"}
	b.visit = func(string) error { return errors.New("executable not found") }
	r.AddBrowser(b)

	started := time.Now()
	results, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, time.Since(started) < time.Second*10)
	assert.False(t, r.Successful())
	require.Len(t, results.Failures, 1)
	assert.False(t, results.Failures[0].TimedOut)
	assert.Contains(t, results.Failures[0].Summary, "executable not found")
	assert.Equal(t, []string{"setup", "visit", "teardown"}, b.getCalls())
}

func TestFilteredStepsAreSkipped(t *testing.T) {
	r := newTestRunner(t, time.Millisecond*100, "ajax", "dom")
	var filters framework.RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("dom"))
	r.SetFilter(filters.AsFilter)
	b := &fakeBrowser{name: "Fake"}
	b.visit = reportTo(t, passingReport)
	r.AddBrowser(b)
	logger := &recordingTestLogger{}

	results, err := r.Run(context.Background(), logger)
	require.NoError(t, err)
	assert.True(t, r.Successful())
	assert.Len(t, results.Steps, 1)
	assert.Equal(t, []framework.StepID{{Browser: "Fake", Test: "/test/javascript/dom_test.html"}}, logger.skipped)
}

func TestInterruptAbandonsStepAndStopsListener(t *testing.T) {
	r := newTestRunner(t, time.Second*30, "ajax", "dom")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := &fakeBrowser{name: "Fake"}
	var baseURL string
	b.visit = func(pageURL string) error {
		baseURL = r.server.BaseURL()
		cancel()
		return nil
	}
	r.AddBrowser(b)

	results, err := r.Run(ctx, nil)
	assert.True(t, errors.Is(err, ErrInterrupted))
	assert.False(t, r.Successful())
	assert.Empty(t, results.Steps)
	assert.Equal(t, []string{"setup", "visit"}, b.getCalls(), "teardown is skipped and no further steps run")

	_, err = http.Get(baseURL + ResultsPath)
	assert.Error(t, err, "listener should be closed")
}

func TestPageURL(t *testing.T) {
	r := NewRunner(Config{Port: 0, Timeout: time.Second * 5, AlwaysCloseWindows: true, RootDir: makeTestRoot(t, "ajax")}, nil)
	require.NoError(t, r.AddTest("ajax"))
	b := &fakeBrowser{name: "Fake"}
	b.visit = reportTo(t, passingReport)
	r.AddBrowser(b)

	_, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, b.urls, 1)
	assert.Regexp(t,
		regexp.MustCompile(`^http://localhost:\d+/test/javascript/ajax_test\.html\?resultsURL=http://localhost:\d+/results&t=\d+\.\d{6}&alwaysCloseWindows=true$`),
		b.urls[0])
}

func TestTimestampToken(t *testing.T) {
	assert.Equal(t, "1700000000.000123", timestampToken(time.Unix(1700000000, 123456)))
}

func TestTestPagesAreServed(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "ajax")
	require.NoError(t, r.Mount("/test", ""))
	b := &fakeBrowser{name: "Fake"}
	var page string
	b.visit = func(pageURL string) error {
		resp, err := http.Get(pageURL)
		require.NoError(t, err)
		body, _ := ioutil.ReadAll(resp.Body)
		resp.Body.Close()
		page = string(body)
		assert.Equal(t, "no-cache", resp.Header.Get("Pragma"))
		return reportTo(t, passingReport)(pageURL)
	}
	r.AddBrowser(b)

	_, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "<html>ajax</html>", page)
}

func TestTestDirectoryIsMountedByDefault(t *testing.T) {
	r := newTestRunner(t, time.Second*5, "ajax")
	b := &fakeBrowser{name: "Fake"}
	status := 0
	b.visit = func(pageURL string) error {
		resp, err := http.Get(pageURL)
		require.NoError(t, err)
		resp.Body.Close()
		status = resp.StatusCode
		return reportTo(t, passingReport)(pageURL)
	}
	r.AddBrowser(b)

	_, err := r.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestMountErrors(t *testing.T) {
	r := NewRunner(Config{RootDir: t.TempDir()}, nil)
	require.NoError(t, r.Mount("/test", ""))
	assert.Error(t, r.Mount("/test/", ""))
	assert.Error(t, r.Mount(ResultsPath, ""))
}
