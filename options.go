package exosink

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option is a functional option for the HTTPReporter struct.
type Option func(*HTTPReporter)

// WithHTTPClient configures the HTTPReporter to deliver reports with the
// provided client instead of http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(r *HTTPReporter) { r.client = client }
}

// WithID configures the HTTPReporter to use the provided instance ID.
func WithID(id string) Option {
	return func(r *HTTPReporter) { r.id = id }
}

// WithLogger configures the HTTPReporter to log through the provided logger.
// Without this option the reporter is silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *HTTPReporter) { r.logger = logger }
}

// WithTimeFunc configures the HTTPReporter to read the clock through the
// provided function. Intended for tests that need a fixed timestamp.
func WithTimeFunc(now func() time.Time) Option {
	return func(r *HTTPReporter) { r.now = now }
}
