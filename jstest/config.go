package jstest

import "time"

const (
	DefaultHost            = "localhost"
	DefaultPort            = 4711
	DefaultTimeout         = time.Second * 30
	DefaultTeardownTimeout = time.Second * 5
	DefaultTestPathFormat  = "/test/javascript/%s_test.html"
	DefaultName            = "test"
)

// Config holds the settings for one run. It is not changed once the Runner is created.
type Config struct {
	// Name identifies the run in reports.
	Name string

	// Host and Port determine where the harness listens and the URLs given to browsers.
	// Port 0 picks any free port.
	Host string
	Port int

	// Timeout bounds each step, from the start of Setup until a result arrives.
	Timeout time.Duration

	// TeardownTimeout bounds each call to Teardown.
	TeardownTimeout time.Duration

	// AlwaysCloseWindows tells the test pages to close their windows after reporting.
	AlwaysCloseWindows bool

	// RootDir is the directory that test paths and default mount directories are relative to.
	RootDir string

	// TestPathFormat turns a test name into the URL path of its page, with %s for the name.
	TestPathFormat string
}

func (c Config) withDefaults() Config {
	if c.Name == "" {
		c.Name = DefaultName
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.TeardownTimeout <= 0 {
		c.TeardownTimeout = DefaultTeardownTimeout
	}
	if c.RootDir == "" {
		c.RootDir = "."
	}
	if c.TestPathFormat == "" {
		c.TestPathFormat = DefaultTestPathFormat
	}
	return c
}
