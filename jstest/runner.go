package jstest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/launchdarkly/js-browser-tests/browsers"
	"github.com/launchdarkly/js-browser-tests/framework"
	"github.com/launchdarkly/js-browser-tests/framework/harness"
)

// Runner runs every registered test page in every registered browser, one step at a time,
// while its harness listener receives the results.
//
// Registration (Mount, AddTest, AddBrowser) must be finished before Run is called. A Runner is
// not safe for concurrent use; the only state it shares with the listener is the channel that
// results arrive on.
type Runner struct {
	config      Config
	server      *harness.Server
	receiver    *callbackReceiver
	env         browsers.Environment
	tests       []string
	mounts      int
	browsers    []browsers.Browser
	filter      framework.Filter
	debugLogger framework.Logger
	successful  bool
}

// NewRunner creates a Runner. The debug logger receives harness and browser diagnostics; it
// may be nil.
func NewRunner(config Config, debugLogger framework.Logger) *Runner {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	config = config.withDefaults()
	r := &Runner{
		config:      config,
		server:      harness.NewServer(config.Host, config.Port, framework.LoggerWithPrefix(debugLogger, "[harness] ")),
		receiver:    newCallbackReceiver(framework.LoggerWithPrefix(debugLogger, "[results] ")),
		env:         browsers.DefaultEnvironment(browsers.NewExecRunner(framework.LoggerWithPrefix(debugLogger, "[browser] "))),
		debugLogger: debugLogger,
		successful:  true,
	}
	r.server.Get(ResultsPath, r.receiver.ServeHTTP)
	r.server.Head(ResultsPath, r.receiver.probe)
	return r
}

// SetFilter restricts which steps are run. Filtered-out steps don't affect the outcome.
func (r *Runner) SetFilter(filter framework.Filter) {
	r.filter = filter
}

// SetBrowserEnvironment replaces the environment that browsers are created with. It must be
// called before AddBrowserNamed.
func (r *Runner) SetBrowserEnvironment(env browsers.Environment) {
	r.env = env
}

// BrowserEnvironment returns the environment used for browsers created by name.
func (r *Runner) BrowserEnvironment() browsers.Environment {
	return r.env
}

// Mount serves a directory below urlPath. If dir is empty, it is the same path relative to
// the root directory. Mounting a path twice, or mounting the results path, is an error.
//
// If nothing has been mounted when Run is called, the top-level directory of each test page
// is mounted from the root directory.
func (r *Runner) Mount(urlPath, dir string) error {
	if dir == "" {
		dir = filepath.Join(r.config.RootDir, filepath.FromSlash(urlPath))
	}
	if err := r.server.Mount(urlPath, dir); err != nil {
		return err
	}
	r.mounts++
	return nil
}

func (r *Runner) mountTestDirs() error {
	seen := make(map[string]bool)
	for _, test := range r.tests {
		prefix := "/"
		if i := strings.Index(test[1:], "/"); i >= 0 {
			prefix = test[:i+1]
		}
		if seen[prefix] {
			continue
		}
		seen[prefix] = true
		if err := r.Mount(prefix, ""); err != nil {
			return err
		}
	}
	return nil
}

// AddTest registers a test by name. It returns a ConfigError if the test's page doesn't exist
// under the root directory.
func (r *Runner) AddTest(name string) error {
	urlPath := r.testPath(name)
	filePath := filepath.Join(r.config.RootDir, filepath.FromSlash(urlPath))
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		return ConfigError{Test: name, Path: urlPath, Err: ErrMissingTestFile}
	}
	r.tests = append(r.tests, urlPath)
	return nil
}

func (r *Runner) testPath(name string) string {
	var p string
	if strings.Contains(r.config.TestPathFormat, "%s") {
		p = fmt.Sprintf(r.config.TestPathFormat, name)
	} else {
		p = strings.TrimSuffix(r.config.TestPathFormat, "/") + "/" + name
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// Tests returns the URL paths of the registered tests, in the order they will run.
func (r *Runner) Tests() []string {
	return append([]string(nil), r.tests...)
}

func (r *Runner) AddBrowser(b browsers.Browser) {
	r.browsers = append(r.browsers, b)
}

// AddBrowserNamed registers one of the browser variants known to the browsers package.
func (r *Runner) AddBrowserNamed(name string) error {
	b, err := browsers.Named(name, r.env)
	if err != nil {
		return err
	}
	r.AddBrowser(b)
	return nil
}

// Successful reports whether every step that ran received a passing result. It is only
// meaningful after Run returns.
func (r *Runner) Successful() bool {
	return r.successful
}

// Run starts the harness listener, runs every step, and stops the listener again. Failing and
// timed-out steps are recorded in the returned Results and do not stop the run.
//
// If ctx is cancelled, Run abandons the current step without tearing it down, stops the
// listener, and returns ErrInterrupted.
func (r *Runner) Run(ctx context.Context, testLogger framework.TestLogger) (framework.Results, error) {
	if testLogger == nil {
		testLogger = framework.NullTestLogger()
	}
	r.successful = true
	var results framework.Results

	if r.mounts == 0 {
		if err := r.mountTestDirs(); err != nil {
			r.successful = false
			return results, err
		}
	}
	if err := r.server.Start(); err != nil {
		r.successful = false
		return results, err
	}
	err := r.runAllSteps(ctx, testLogger, &results)
	if stopErr := r.server.Stop(); stopErr != nil {
		r.debugLogger.Printf("Error stopping harness listener: %s", stopErr)
	}
	if err != nil {
		r.successful = false
	}
	return results, err
}

func (r *Runner) runAllSteps(ctx context.Context, testLogger framework.TestLogger, results *framework.Results) error {
	for _, b := range r.browsers {
		if !b.Supported() {
			testLogger.BrowserSkipped(b.String(), "not supported on this OS")
			results.Skipped = append(results.Skipped, b.String())
			continue
		}
		for _, test := range r.tests {
			if ctx.Err() != nil {
				return ErrInterrupted
			}
			id := framework.StepID{Browser: b.String(), Test: test}
			if r.filter != nil && !r.filter(id) {
				testLogger.StepSkipped(id, "excluded by filter parameters")
				continue
			}

			testLogger.StepStarted(id)
			s := newStep(r, id, b, testLogger)
			outcome := s.run(ctx)
			if outcome.interrupted {
				return ErrInterrupted
			}
			results.Steps = append(results.Steps, outcome.result)
			if outcome.failed {
				r.successful = false
				results.Failures = append(results.Failures, outcome.result)
			}
			testLogger.StepFinished(id, outcome.result, outcome.failed, s.debug.Output())
		}
	}
	return nil
}

// pageURL is the URL a browser is sent to for one step. The timestamp only serves to defeat
// caching; it is not checked when the result comes back.
func (r *Runner) pageURL(test string, now time.Time) string {
	base := r.server.BaseURL()
	return fmt.Sprintf("%s%s?resultsURL=%s%s&t=%s&alwaysCloseWindows=%t",
		base, test, base, ResultsPath, timestampToken(now), r.config.AlwaysCloseWindows)
}

func timestampToken(t time.Time) string {
	return fmt.Sprintf("%d.%06d", t.Unix(), t.Nanosecond()/1000)
}
