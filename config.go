package exosink

import (
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

const (
	defaultSinkURL     = "http://localhost:8000"
	defaultRequestType = "put"
	defaultHostname    = "auto"

	// hostnameAuto triggers a local hostname lookup at construction time.
	hostnameAuto = "auto"
)

// Method is the HTTP method used to deliver reports.
type Method string

// The two delivery methods a sink can be addressed with.
const (
	MethodPut  Method = http.MethodPut
	MethodPost Method = http.MethodPost
)

// Config holds the raw, host-supplied options for an HTTPReporter. The zero
// value is valid: every field falls back to its default when empty.
type Config struct {
	// SinkURL is the destination for report requests.
	// Defaults to "http://localhost:8000".
	SinkURL string

	// RequestType selects the HTTP method. "post" (any case) selects POST;
	// every other value, including empty, selects PUT. Unrecognized values
	// are coerced, never rejected.
	RequestType string

	// Hostname is the value reported in the envelope's host field. The
	// literal "auto" resolves the local system hostname once, at
	// construction. Defaults to "auto".
	Hostname string
}

// withDefaults returns a copy of the Config with empty fields replaced by
// their defaults.
func (c Config) withDefaults() Config {
	if c.SinkURL == "" {
		c.SinkURL = defaultSinkURL
	}
	if c.RequestType == "" {
		c.RequestType = defaultRequestType
	}
	if c.Hostname == "" {
		c.Hostname = defaultHostname
	}
	return c
}

// parseMethod coerces a raw request type to a Method. Only "post" selects
// POST; anything else falls back to PUT.
func parseMethod(raw string) Method {
	if strings.EqualFold(raw, "post") {
		return MethodPost
	}
	return MethodPut
}

// resolveHostname resolves the configured hostname exactly once. The literal
// "auto" triggers a local system lookup; any other value is used verbatim.
func resolveHostname(configured string, logger zerolog.Logger) string {
	if configured != hostnameAuto {
		return configured
	}

	hostname, err := os.Hostname()
	if err != nil {
		logger.Warn().Err(err).Msg("local hostname lookup failed, falling back to localhost")
		return "localhost"
	}
	return hostname
}
