package harness

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// NonCaching wraps a handler so that a browser never reuses a cached copy of its responses.
// The request's conditional headers are removed so the response is always a full 200, and
// the validators that http.FileServer adds are dropped before the headers are written.
func NonCaching(next http.Handler) http.Handler {
	return middleware.NoCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(&noValidatorsWriter{ResponseWriter: w}, r)
	}))
}

type noValidatorsWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *noValidatorsWriter) WriteHeader(status int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		h := w.Header()
		h.Del("ETag")
		h.Del("Last-Modified")
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *noValidatorsWriter) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(data)
}
