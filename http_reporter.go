package exosink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
)

// HTTPReporter forwards metric samples to an HTTP sink as JSON documents.
// Implements the Reporter interface and is meant to be driven by a host
// reporting framework that owns subscriptions and scheduling.
//
// The resolved configuration (sink URL, method, hostname) is fixed at
// construction and never mutated by any call. The reporter performs no
// retries, batching, or buffering; each Report call is one synchronous HTTP
// request, serialized by the host.
type HTTPReporter struct {
	sinkURL  *url.URL
	method   Method
	hostname string

	id     string
	client *http.Client
	logger zerolog.Logger
	now    func() time.Time

	counters counters
}

// New creates an HTTPReporter from the given Config. Unrecognized option
// values are coerced to their defaults rather than rejected; the only failure
// mode is a sink URL that cannot be parsed at all.
func New(cfg Config, opts ...Option) (*HTTPReporter, error) {
	cfg = cfg.withDefaults()

	sinkURL, err := url.Parse(cfg.SinkURL)
	if err != nil {
		return nil, fmt.Errorf("parse sink URL: %w", err)
	}

	r := &HTTPReporter{
		sinkURL: sinkURL,
		method:  parseMethod(cfg.RequestType),
		id:      xid.New().String(),
		client:  http.DefaultClient,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	// Hostname is resolved exactly once, after options, so a configured
	// logger sees lookup problems.
	r.hostname = resolveHostname(cfg.Hostname, r.logger)
	r.logger = r.logger.With().Str("reporter", r.id).Logger()

	return r, nil
}

// ID returns the reporter's instance ID.
func (r *HTTPReporter) ID() string {
	return r.id
}

// Method returns the HTTP method reports are delivered with.
func (r *HTTPReporter) Method() Method {
	return r.method
}

// Hostname returns the resolved host value reported in envelopes.
func (r *HTTPReporter) Hostname() string {
	return r.hostname
}

// SinkURL returns the destination reports are delivered to.
func (r *HTTPReporter) SinkURL() string {
	return r.sinkURL.String()
}

// Stats returns a snapshot of the reporter's delivery counters.
func (r *HTTPReporter) Stats() Stats {
	return r.counters.snapshot()
}

// Report forwards one metric sample to the sink. The envelope's timestamp is
// taken from the reporter's clock at call time, in whole seconds since the
// Unix epoch. Any completed HTTP exchange counts as success, whatever the
// status code; only transport-level failure is returned as an error. The
// extra argument is accepted for interface compatibility and ignored.
func (r *HTTPReporter) Report(
	ctx context.Context,
	id MetricID,
	datapoint string,
	_ map[string]any,
	value any,
) error {
	name, err := FormatName(id)
	if err != nil {
		return err
	}

	envelope := newEnvelope(name, value, r.now().UTC().Unix(), r.hostname, datapoint)
	payload, err := sonic.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	request, err := http.NewRequestWithContext(
		ctx, string(r.method), r.sinkURL.String(), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build report request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := r.client.Do(request)
	if err != nil {
		r.counters.transportFailures.Inc()
		r.logger.Error().Err(err).
			Str("metric", name).
			Str("sink", r.sinkURL.String()).
			Msg("report delivery failed")
		return fmt.Errorf("deliver report: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	// Drain the body to maximize connection reuse; the payload itself is
	// never parsed.
	_, _ = io.Copy(io.Discard, response.Body)

	r.counters.delivered.Inc()
	r.counters.lastStatusCode.Store(int32(response.StatusCode))
	r.logger.Info().
		Str("metric", name).
		Str("instance", datapoint).
		Int("status", response.StatusCode).
		Msg("report delivered")

	return nil
}

// Subscribe is a no-op; the host framework owns subscription state.
func (r *HTTPReporter) Subscribe(MetricID, string, time.Duration) error {
	return nil
}

// Unsubscribe is a no-op; the host framework owns subscription state.
func (r *HTTPReporter) Unsubscribe(MetricID, string) error {
	return nil
}

// NewEntry is a no-op; new metric entries need no preparation here.
func (r *HTTPReporter) NewEntry(MetricID) error {
	return nil
}

// SetOptions is a no-op; the reporter's configuration is fixed at
// construction.
func (r *HTTPReporter) SetOptions(opts map[string]any) error {
	r.logger.Info().Interface("opts", opts).Msg("ignoring option change")
	return nil
}

// Notify logs and discards arbitrary host messages.
func (r *HTTPReporter) Notify(msg any) {
	r.logger.Info().Interface("msg", msg).Msg("ignoring host message")
}

// Close implements the Reporter interface; the reporter holds nothing that
// needs releasing.
func (*HTTPReporter) Close() error {
	return nil
}
