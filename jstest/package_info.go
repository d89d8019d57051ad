// Package jstest runs browser-side JavaScript test pages in locally installed browsers.
//
// A Runner serves the test pages through the harness listener, sends each browser to each
// page in turn, and waits for the page to report its totals with a GET request to
// /results?assertions=N&errors=N&failures=N&tests=N. A step whose page doesn't report within
// the configured timeout fails, and the run moves on to the next step.
package jstest
