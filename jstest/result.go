package jstest

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/launchdarkly/js-browser-tests/framework"
)

// Result is the report that a test page sends when it has finished running.
type Result struct {
	Assertions int
	Errors     int
	Failures   int
	Tests      int
}

// ParseResult decodes a report from the callback's query parameters. The values come straight
// from the browser, so anything missing, non-numeric, or negative counts as zero.
func ParseResult(query url.Values) Result {
	return Result{
		Assertions: parseCounter(query.Get("assertions")),
		Errors:     parseCounter(query.Get("errors")),
		Failures:   parseCounter(query.Get("failures")),
		Tests:      parseCounter(query.Get("tests")),
	}
}

func parseCounter(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func (r Result) Fail() bool {
	return r.Errors > 0 || r.Failures > 0
}

func (r Result) Pass() bool {
	return !r.Fail()
}

func (r Result) Counters() *framework.Counters {
	c := framework.Counters(r)
	return &c
}

func (r Result) String() string {
	prefix := ""
	if r.Fail() {
		prefix = "FAIL! "
	}
	return fmt.Sprintf("%sErrors: %d, Failures: %d, Assertions: %d, Tests: %d",
		prefix, r.Errors, r.Failures, r.Assertions, r.Tests)
}
