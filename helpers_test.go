package exosink

import (
	"io"
	"net/http"
	"net/http/httptest"
	"time"
)

//
// Helper functions
//

// capturedRequest records what a test sink received.
type capturedRequest struct {
	Method      string
	ContentType string
	Body        []byte
}

// captureServer creates a test sink that records incoming requests and
// answers every one of them with the given status code.
func captureServer(status int) (*httptest.Server, chan capturedRequest) {
	captured := make(chan capturedRequest, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured <- capturedRequest{
			Method:      r.Method,
			ContentType: r.Header.Get("Content-Type"),
			Body:        body,
		}
		w.WriteHeader(status)
	}))
	return server, captured
}

// fixedClock returns a time function pinned to the given instant.
func fixedClock(instant time.Time) func() time.Time {
	return func() time.Time { return instant }
}
