// Package framework contains the low-level pieces shared by the browser test runner that are
// not specific to any one browser or test page.
//
// The general model is:
//
// 1. The harness runs an HTTP listener (see the harness subpackage) that serves test pages and
// receives a single result report from each page it serves.
//
// 2. A run is a matrix of steps, where each step is one test page loaded in one browser.
// Steps are identified by StepID and accumulate into Results.
//
// 3. Progress is reported through a TestLogger, and each step can capture debug output with a
// CapturingLogger so that it is only shown when useful.
package framework
