package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/launchdarkly/js-browser-tests/framework"
	"github.com/launchdarkly/js-browser-tests/jstest"
	"github.com/launchdarkly/js-browser-tests/suitedef"
)

type commandParams struct {
	suiteFile          string
	name               string
	host               string
	port               int
	timeout            time.Duration
	rootDir            string
	tests              stringList
	browsers           stringList
	mounts             stringList
	filters            framework.RegexFilters
	alwaysCloseWindows bool
	reportFile         string
	metricsFile        string
	debug              bool
	debugAll           bool
	setFlags           map[string]bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ContinueOnError)
	fs.StringVar(&c.suiteFile, "suite", "", "suite file (YAML) listing tests, browsers, and mounts")
	fs.StringVar(&c.name, "name", jstest.DefaultName, "name of this test run")
	fs.StringVar(&c.host, "host", jstest.DefaultHost, "hostname that browsers use to reach the test harness")
	fs.IntVar(&c.port, "port", jstest.DefaultPort, "port that the test harness will listen on")
	fs.DurationVar(&c.timeout, "timeout", jstest.DefaultTimeout, "how long to wait for each test page to report")
	fs.StringVar(&c.rootDir, "root", "", "directory that test pages are found in (default: the suite file's directory)")
	fs.Var(&c.tests, "test", "test name to run (may be repeated)")
	fs.Var(&c.browsers, "browser", "browser to run tests in (may be repeated)")
	fs.Var(&c.mounts, "mount", "serve a directory: path[=dir], dir defaulting to the path under the root (may be repeated)")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select steps to run")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select steps not to run")
	fs.BoolVar(&c.alwaysCloseWindows, "always-close-windows", os.Getenv("AlwaysCloseWindows") != "",
		"tell test pages to close their windows when finished")
	fs.StringVar(&c.reportFile, "report", "", "write a JSON report of the run to this file")
	fs.StringVar(&c.metricsFile, "metrics-file", "", "write Prometheus metrics for the run to this file")
	fs.BoolVar(&c.debug, "debug", false, "enable debug logging for failed steps")
	fs.BoolVar(&c.debugAll, "debug-all", false, "enable debug logging for all steps and the harness")

	if err := fs.Parse(args[1:]); err != nil {
		return false
	}
	c.setFlags = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { c.setFlags[f.Name] = true })
	if c.suiteFile == "" && len(c.tests) == 0 {
		fmt.Fprintln(os.Stderr, "-suite or at least one -test is required")
		fs.Usage()
		return false
	}
	return true
}

// suite combines the suite file, if any, with the command line. Flags that were given
// explicitly take precedence over the file.
func (c *commandParams) suite() (suitedef.Suite, error) {
	var s suitedef.Suite
	if c.suiteFile != "" {
		loaded, err := suitedef.Load(c.suiteFile)
		if err != nil {
			return s, err
		}
		s = loaded
	}
	if c.setFlags["name"] || s.Name == "" {
		s.Name = c.name
	}
	if c.setFlags["host"] || s.Host == "" {
		s.Host = c.host
	}
	if c.setFlags["port"] || s.Port == 0 {
		s.Port = c.port
	}
	if c.setFlags["timeout"] || s.Timeout == 0 {
		s.Timeout = suitedef.Duration(c.timeout)
	}
	if c.rootDir != "" {
		s.RootDir = c.rootDir
	}
	if c.alwaysCloseWindows {
		s.AlwaysCloseWindows = true
	}
	if len(c.tests) > 0 {
		s.Tests = c.tests
	}
	if len(c.browsers) > 0 {
		s.Browsers = c.browsers
	}
	for _, m := range c.mounts {
		path, dir, _ := strings.Cut(m, "=")
		s.Mounts = append(s.Mounts, suitedef.Mount{Path: path, Dir: dir})
	}
	return s, s.Validate()
}

type stringList []string

func (l stringList) String() string {
	return strings.Join(l, ",")
}

// Set is called by the command line parser
func (l *stringList) Set(value string) error {
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			*l = append(*l, v)
		}
	}
	return nil
}
