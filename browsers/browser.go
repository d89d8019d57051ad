package browsers

import (
	"context"
	"io"
	"os"
)

// Browser is one browser product that the runner can drive. Implementations only need to get
// the browser to load a URL; the test page reports its own result to the harness.
type Browser interface {
	// Supported reports whether the browser can be used on this host. It is checked once per
	// run, before any step for the browser.
	Supported() bool

	// Setup prepares the browser for a step, for instance by opening a blank document. It is
	// best-effort; an error is reported but does not stop the step.
	Setup(ctx context.Context) error

	// Visit tells the browser to load the URL. Returning does not mean that the page has run.
	Visit(ctx context.Context, url string) error

	// Teardown undoes whatever Setup did. It is called after every step that reached Setup,
	// even if the step timed out, so the page may still be running.
	Teardown(ctx context.Context) error

	String() string
}

// Environment is what a browser variant needs to know about the machine it runs on.
type Environment struct {
	Host   Host
	Runner CommandRunner
	Output io.Writer // for notices that the user has to act on
}

// DefaultEnvironment describes the current machine, running commands for real.
func DefaultEnvironment(runner CommandRunner) Environment {
	return Environment{
		Host:   CurrentHost(),
		Runner: runner,
		Output: os.Stdout,
	}
}

func (e Environment) output() io.Writer {
	if e.Output == nil {
		return io.Discard
	}
	return e.Output
}

// noLifecycle can be embedded by variants that have nothing to do in Setup and Teardown.
type noLifecycle struct{}

func (noLifecycle) Setup(context.Context) error    { return nil }
func (noLifecycle) Teardown(context.Context) error { return nil }
