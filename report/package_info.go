// Package report turns a test run into files for other tools: a JSON summary of every step,
// and Prometheus metrics in the textfile format. Both are TestLoggers, so they see the same
// events as the console output.
package report
