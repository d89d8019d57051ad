package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/launchdarkly/js-browser-tests/browsers"
	"github.com/launchdarkly/js-browser-tests/framework"
	"github.com/launchdarkly/js-browser-tests/jstest"
	"github.com/launchdarkly/js-browser-tests/report"
	"github.com/launchdarkly/js-browser-tests/suitedef"
)

func main() {
	var params commandParams
	if !params.Read(os.Args) {
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, params, nil))
}

// run performs a whole run and returns the exit status. Browser commands go through commands,
// or are executed for real if it is nil.
func run(ctx context.Context, params commandParams, commands browsers.CommandRunner) int {
	suite, err := params.suite()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(os.Stdout, "", log.LstdFlags)
	}

	runner, err := newConfiguredRunner(suite, mainDebugLogger, commands)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %s\n", err)
		return 1
	}
	runner.SetFilter(params.filters.AsFilter)

	fmt.Println()
	framework.PrintFilterDescription(params.filters)
	fmt.Printf("Running %s: %d test(s)\n", suite.Name, len(runner.Tests()))

	consoleLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	recorder := report.NewRecorder(suite.Name)
	metrics := report.NewMetrics(suite.Name)

	results, err := runner.Run(ctx, framework.MultiTestLogger(consoleLogger, recorder, metrics))
	interrupted := errors.Is(err, jstest.ErrInterrupted)
	if err != nil && !interrupted {
		fmt.Fprintf(os.Stderr, "Test run failed: %s\n", err)
		return 1
	}

	if params.reportFile != "" {
		if err := report.WriteJSON(params.reportFile, recorder.Finish(runner.Successful(), interrupted)); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	if params.metricsFile != "" {
		metrics.SetSuccess(runner.Successful() && !interrupted)
		if err := metrics.WriteTextfile(params.metricsFile); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}

	fmt.Println()
	if interrupted {
		fmt.Println("Interrupted")
		return 1
	}
	framework.PrintResults(results)
	if !runner.Successful() {
		return 1
	}
	return 0
}

// newConfiguredRunner applies a suite definition to a new Runner. Any error here is a
// configuration problem, detected before the listener starts.
func newConfiguredRunner(suite suitedef.Suite, debugLogger framework.Logger, commands browsers.CommandRunner) (*jstest.Runner, error) {
	runner := jstest.NewRunner(jstest.Config{
		Name:               suite.Name,
		Host:               suite.Host,
		Port:               suite.Port,
		Timeout:            time.Duration(suite.Timeout),
		AlwaysCloseWindows: suite.AlwaysCloseWindows,
		RootDir:            suite.RootDir,
		TestPathFormat:     suite.TestPathFormat,
	}, debugLogger)

	if commands != nil {
		runner.SetBrowserEnvironment(browsers.DefaultEnvironment(commands))
	}
	for _, m := range suite.Mounts {
		if err := runner.Mount(m.Path, m.Dir); err != nil {
			return nil, err
		}
	}
	for _, name := range suite.Tests {
		if err := runner.AddTest(name); err != nil {
			return nil, err
		}
	}

	custom := make(map[string]suitedef.CustomBrowser)
	for _, cb := range suite.CustomBrowsers {
		custom[cb.Name] = cb
	}
	env := runner.BrowserEnvironment()
	for _, name := range suite.Browsers {
		if cb, ok := custom[name]; ok {
			runner.AddBrowser(customBrowser(cb, env))
			continue
		}
		if err := runner.AddBrowserNamed(name); err != nil {
			return nil, err
		}
	}
	if len(suite.Browsers) == 0 {
		for _, cb := range suite.CustomBrowsers {
			runner.AddBrowser(customBrowser(cb, env))
		}
	}
	return runner, nil
}

func customBrowser(cb suitedef.CustomBrowser, env browsers.Environment) browsers.Browser {
	return browsers.NewCommandBrowser(browsers.CommandBrowser{
		Name:            cb.Name,
		OS:              cb.OS,
		SetupCommand:    cb.Setup,
		VisitCommand:    cb.Visit,
		TeardownCommand: cb.Teardown,
		Background:      cb.Background,
	}, env)
}
