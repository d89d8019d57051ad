package browsers

import (
	"context"
	"errors"
	"strings"
)

// URLPlaceholder is replaced with the page URL in CommandBrowser argument lists.
const URLPlaceholder = "{url}"

// CommandBrowser is a browser defined by command lines rather than by code, so that a suite
// can drive a browser this package doesn't know about.
type CommandBrowser struct {
	Name string

	// OS lists the host operating systems (as in runtime.GOOS) the browser can run on. An
	// empty list means any.
	OS []string

	SetupCommand    []string
	VisitCommand    []string
	TeardownCommand []string

	// Background means that the visit command is started and not waited for.
	Background bool

	env Environment
}

// NewCommandBrowser returns a copy of the definition bound to an environment.
func NewCommandBrowser(def CommandBrowser, env Environment) *CommandBrowser {
	b := def
	b.env = env
	return &b
}

func (c *CommandBrowser) Supported() bool {
	if len(c.VisitCommand) == 0 {
		return false
	}
	if len(c.OS) == 0 {
		return true
	}
	for _, os := range c.OS {
		if strings.EqualFold(os, c.env.Host.OS) {
			return true
		}
	}
	return false
}

func (c *CommandBrowser) Setup(ctx context.Context) error {
	return c.run(ctx, c.SetupCommand, "")
}

func (c *CommandBrowser) Visit(ctx context.Context, url string) error {
	if len(c.VisitCommand) == 0 {
		return errors.New("no visit command was configured")
	}
	if c.Background {
		args := expandCommand(c.VisitCommand, url)
		return c.env.Runner.Start(args[0], args[1:]...)
	}
	return c.run(ctx, c.VisitCommand, url)
}

func (c *CommandBrowser) Teardown(ctx context.Context) error {
	return c.run(ctx, c.TeardownCommand, "")
}

func (c *CommandBrowser) String() string { return c.Name }

func (c *CommandBrowser) run(ctx context.Context, command []string, url string) error {
	if len(command) == 0 {
		return nil
	}
	args := expandCommand(command, url)
	return c.env.Runner.Run(ctx, args[0], args[1:]...)
}

func expandCommand(command []string, url string) []string {
	ret := make([]string, 0, len(command))
	for _, a := range command {
		ret = append(ret, strings.ReplaceAll(a, URLPlaceholder, url))
	}
	return ret
}
