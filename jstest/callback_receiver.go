package jstest

import (
	"net/http"

	"github.com/launchdarkly/js-browser-tests/framework"
)

// ResultsPath is the harness path that test pages report to.
const ResultsPath = "/results"

const resultsAcknowledgement = "OK"

// callbackReceiver handles the result reports sent by test pages and hands them to the runner.
// There is only ever one step waiting, so the channel holds a single report; anything that
// arrives while that slot is full did not come from the page we are waiting for.
type callbackReceiver struct {
	output chan Result
	logger framework.Logger
}

func newCallbackReceiver(logger framework.Logger) *callbackReceiver {
	return &callbackReceiver{
		output: make(chan Result, 1),
		logger: logger,
	}
}

func (c *callbackReceiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	result := ParseResult(r.URL.Query())
	select { // non-blocking push
	case c.output <- result:
		c.logger.Printf("Received result: %s", result)
	default:
		c.logger.Printf("Dropped result because a previous one was never consumed: %s", result)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(resultsAcknowledgement))
}

// probe answers HEAD requests so that a client can check the listener is up without
// delivering a report.
func (c *callbackReceiver) probe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
