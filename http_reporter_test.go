package exosink

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refInstant is 2009-11-10T23:00:00Z, Unix epoch seconds 1257894000.
var refInstant = time.Date(2009, 11, 10, 23, 0, 0, 0, time.UTC)

func TestReportDeliversEnvelope(t *testing.T) {
	server, captured := captureServer(http.StatusOK)
	defer server.Close()

	r, err := New(
		Config{SinkURL: server.URL, Hostname: "h1"},
		WithTimeFunc(fixedClock(refInstant)),
	)
	require.NoError(t, err)

	err = r.Report(context.Background(), MetricID{"cpu", "load"}, "mean", nil, 42)
	require.NoError(t, err)

	select {
	case req := <-captured:
		assert.Equal(t, http.MethodPut, req.Method)
		assert.Equal(t, "application/json", req.ContentType)

		var decoded Envelope
		require.NoError(t, sonic.Unmarshal(req.Body, &decoded))
		assert.Equal(t, "exometer_metric", decoded.Type)
		assert.Equal(t, "cpu_load", decoded.Body.Name)
		assert.Equal(t, float64(42), decoded.Body.Value)
		assert.Equal(t, int64(1257894000), decoded.Body.Timestamp)
		assert.Equal(t, "h1", decoded.Body.Host)
		assert.Equal(t, "mean", decoded.Body.Instance)
	case <-time.After(time.Second):
		t.Fatal("sink did not receive a request")
	}
}

func TestReportUsesConfiguredMethod(t *testing.T) {
	server, captured := captureServer(http.StatusOK)
	defer server.Close()

	r, err := New(Config{SinkURL: server.URL, RequestType: "post", Hostname: "h1"})
	require.NoError(t, err)

	require.NoError(t, r.Report(context.Background(), MetricID{"uptime"}, "value", nil, 1))

	select {
	case req := <-captured:
		assert.Equal(t, http.MethodPost, req.Method)
	case <-time.After(time.Second):
		t.Fatal("sink did not receive a request")
	}
}

func TestReportAnyStatusIsSuccess(t *testing.T) {
	for _, status := range []int{
		http.StatusOK,
		http.StatusNotFound,
		http.StatusInternalServerError,
	} {
		t.Run(fmt.Sprintf("status %d", status), func(t *testing.T) {
			server, _ := captureServer(status)
			defer server.Close()

			r, err := New(Config{SinkURL: server.URL, Hostname: "h1"})
			require.NoError(t, err)

			err = r.Report(context.Background(), MetricID{"cpu", "load"}, "mean", nil, 42)
			require.NoError(t, err)

			stats := r.Stats()
			assert.Equal(t, int64(1), stats.ReportsDelivered)
			assert.Equal(t, int64(0), stats.TransportFailures)
			assert.Equal(t, status, stats.LastStatusCode)
		})
	}
}

func TestReportTransportFailure(t *testing.T) {
	server, _ := captureServer(http.StatusOK)
	sinkURL := server.URL
	server.Close() // Sink gone: connection refused

	r, err := New(Config{SinkURL: sinkURL, Hostname: "h1"})
	require.NoError(t, err)

	err = r.Report(context.Background(), MetricID{"cpu", "load"}, "mean", nil, 42)
	require.Error(t, err)

	stats := r.Stats()
	assert.Equal(t, int64(0), stats.ReportsDelivered)
	assert.Equal(t, int64(1), stats.TransportFailures)
}

func TestReportEmptyMetricID(t *testing.T) {
	server, captured := captureServer(http.StatusOK)
	defer server.Close()

	r, err := New(Config{SinkURL: server.URL, Hostname: "h1"})
	require.NoError(t, err)

	err = r.Report(context.Background(), MetricID{}, "mean", nil, 42)
	require.ErrorIs(t, err, ErrEmptyMetricID)

	select {
	case req := <-captured:
		t.Fatalf("expected no request, sink received %s", req.Method)
	case <-time.After(100 * time.Millisecond):
		// ok, nothing delivered
	}
}

func TestReportLeavesStateUnchanged(t *testing.T) {
	okServer, _ := captureServer(http.StatusOK)
	defer okServer.Close()

	deadServer, _ := captureServer(http.StatusOK)
	deadURL := deadServer.URL
	deadServer.Close()

	testCases := []struct {
		name    string
		sinkURL string
	}{
		{name: "successful exchange", sinkURL: okServer.URL},
		{name: "transport failure", sinkURL: deadURL},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := New(Config{SinkURL: tc.sinkURL, RequestType: "post", Hostname: "h1"})
			require.NoError(t, err)

			method, hostname, sink, id := r.method, r.hostname, r.sinkURL.String(), r.id
			_ = r.Report(context.Background(), MetricID{"cpu", "load"}, "mean", nil, 42)

			assert.Equal(t, method, r.method)
			assert.Equal(t, hostname, r.hostname)
			assert.Equal(t, sink, r.sinkURL.String())
			assert.Equal(t, id, r.id)
		})
	}
}

func TestReportHonorsContextCancellation(t *testing.T) {
	server, _ := captureServer(http.StatusOK)
	defer server.Close()

	r, err := New(Config{SinkURL: server.URL, Hostname: "h1"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = r.Report(ctx, MetricID{"cpu", "load"}, "mean", nil, 42)
	require.Error(t, err)
	assert.Equal(t, int64(1), r.Stats().TransportFailures)
}

func TestLifecycleNoOps(t *testing.T) {
	r, err := New(Config{Hostname: "h1"})
	require.NoError(t, err)

	method, hostname, sink := r.method, r.hostname, r.sinkURL.String()

	assert.NoError(t, r.Subscribe(MetricID{"cpu", "load"}, "mean", time.Second))
	assert.NoError(t, r.Unsubscribe(MetricID{"cpu", "load"}, "mean"))
	assert.NoError(t, r.NewEntry(MetricID{"cpu", "load"}))
	assert.NoError(t, r.SetOptions(map[string]any{"sink_url": "http://elsewhere"}))
	r.Notify("unexpected message")
	assert.NoError(t, r.Close())

	assert.Equal(t, method, r.method)
	assert.Equal(t, hostname, r.hostname)
	assert.Equal(t, sink, r.sinkURL.String())
}

func TestWithID(t *testing.T) {
	r, err := New(Config{Hostname: "h1"}, WithID("reporter-1"))
	require.NoError(t, err)
	assert.Equal(t, "reporter-1", r.ID())
}
