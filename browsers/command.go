package browsers

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"

	"github.com/launchdarkly/js-browser-tests/framework"
)

// CommandRunner runs native commands on behalf of a browser variant.
type CommandRunner interface {
	// Run runs a command to completion. It is used for commands that return quickly, such as
	// AppleScript or a launcher that hands the URL to an already-running browser.
	Run(ctx context.Context, name string, args ...string) error

	// Start launches a command without waiting for it, for browser executables that may keep
	// running for as long as the browser window is open.
	Start(name string, args ...string) error
}

type execRunner struct {
	logger framework.Logger
}

// NewExecRunner returns a CommandRunner that uses os/exec, logging each command line.
func NewExecRunner(logger framework.Logger) CommandRunner {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return execRunner{logger: logger}
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) error {
	line := commandLine(name, args...)
	r.logger.Printf("Running: %s", line)
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		if len(output) > 0 {
			return fmt.Errorf("command %s failed: %w (output: %s)", line, err, strings.TrimSpace(string(output)))
		}
		return fmt.Errorf("command %s failed: %w", line, err)
	}
	return nil
}

func (r execRunner) Start(name string, args ...string) error {
	line := commandLine(name, args...)
	r.logger.Printf("Starting: %s", line)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("could not start %s: %w", line, err)
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			r.logger.Printf("%s exited: %s", name, err)
		}
	}()
	return nil
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

func commandLine(name string, args ...string) string {
	var b commandBuilder
	b.add(name)
	b.add(args...)
	return b.String()
}
