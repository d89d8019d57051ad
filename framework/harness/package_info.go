// Package harness contains the HTTP listener used by the test runner: static asset mounts that
// defeat browser caching, and dynamic routes for receiving callbacks from test pages.
package harness
