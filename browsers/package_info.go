// Package browsers contains the browser variants that the test runner can drive.
//
// Each variant is a small adapter around whatever native mechanism gets a browser to open a URL
// on a given operating system: an executable, the macOS "open" command, or AppleScript. The
// runner only sees the Browser interface, and a Registry maps names such as "firefox" to
// constructors so that new variants can be added without changing the runner.
package browsers
