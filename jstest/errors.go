package jstest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTestFile means that a test was registered whose page does not exist.
	ErrMissingTestFile = errors.New("missing test file")

	// ErrInterrupted is returned by Run if its context was cancelled before all steps ran.
	ErrInterrupted = errors.New("test run was interrupted")
)

// ConfigError is a problem with the suite definition, detected before anything runs.
type ConfigError struct {
	Test string
	Path string
	Err  error
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("%s %s for %s", e.Err, e.Path, e.Test)
}

func (e ConfigError) Unwrap() error {
	return e.Err
}
