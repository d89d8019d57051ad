package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/launchdarkly/js-browser-tests/framework"
)

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
	skipColor = color.New(color.FgYellow)
)

type ConsoleTestLogger struct {
	DebugOutputOnFailure bool
	DebugOutputOnSuccess bool
}

func (c *ConsoleTestLogger) StepStarted(id framework.StepID) {}

func (c *ConsoleTestLogger) StepError(id framework.StepID, err error) {
	for _, line := range strings.Split(err.Error(), "\n") {
		fmt.Printf("  %s\n", line)
	}
}

func (c *ConsoleTestLogger) StepFinished(id framework.StepID, result framework.StepResult, failed bool, debugOutput framework.CapturedOutput) {
	summary := passColor.Sprint(result.Summary)
	if failed {
		summary = failColor.Sprint(result.Summary)
	}
	fmt.Printf("%s: %s\n", id, summary)
	if len(debugOutput) > 0 &&
		((failed && c.DebugOutputOnFailure) || (!failed && c.DebugOutputOnSuccess)) {
		debugOutput.Dump(os.Stdout, "    DEBUG ")
	}
}

func (c *ConsoleTestLogger) StepSkipped(id framework.StepID, reason string) {
	if reason == "" {
		fmt.Printf("%s: %s\n", id, skipColor.Sprint("SKIPPED"))
	} else {
		fmt.Printf("%s: %s (%s)\n", id, skipColor.Sprint("SKIPPED"), reason)
	}
}

func (c *ConsoleTestLogger) BrowserSkipped(browser string, reason string) {
	skipColor.Printf("Skipping %s, %s\n", browser, reason)
}
