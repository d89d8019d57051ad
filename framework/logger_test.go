package framework

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCapturingLoggerKeepsMessagesInOrder(t *testing.T) {
	var l CapturingLogger
	l.Printf("first %d", 1)
	l.Printf("second %s", "two")

	out := l.Output()
	require.Len(t, out, 2)
	assert.Equal(t, "first 1", out[0].Message)
	assert.Equal(t, "second two", out[1].Message)
}

func TestCapturedOutputDump(t *testing.T) {
	var l CapturingLogger
	l.Printf("hello")

	var buf bytes.Buffer
	l.Output().Dump(&buf, "  DEBUG ")
	assert.Contains(t, buf.String(), "  DEBUG [")
	assert.Contains(t, buf.String(), "] hello\n")
}

func TestLoggerWithPrefix(t *testing.T) {
	var l CapturingLogger
	LoggerWithPrefix(&l, "[server] ").Printf("listening on %d", 4711)

	out := l.Output()
	require.Len(t, out, 1)
	assert.Equal(t, "[server] listening on 4711", out[0].Message)
}

func TestStepIDString(t *testing.T) {
	id := StepID{Browser: "Konqueror", Test: "/test/javascript/base_test.html"}
	assert.Equal(t, "/test/javascript/base_test.html on Konqueror", id.String())
}
