package exosink

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrEmptyMetricID is returned when a report is attempted with a metric ID
// that has no segments.
var ErrEmptyMetricID = errors.New("metric ID has no segments")

// MetricID is the ordered path of a metric, e.g. {"cpu", "load"}. Segments may
// be strings, integers, or any value with a reasonable string form. The host
// framework supplies a MetricID per report call; it is never stored.
type MetricID []any

// Reporter is the callback surface a host reporting framework drives. The host
// owns subscriptions and scheduling; implementations only transform and forward
// the samples handed to them.
type Reporter interface {
	// Report forwards a single metric sample. Exactly one delivery attempt is
	// made per call; implementations do not retry.
	Report(ctx context.Context, id MetricID, datapoint string, extra map[string]any, value any) error

	// Subscribe notifies the reporter that the host subscribed it to a metric.
	Subscribe(id MetricID, datapoint string, interval time.Duration) error

	// Unsubscribe notifies the reporter that a subscription was removed.
	Unsubscribe(id MetricID, datapoint string) error

	// NewEntry notifies the reporter that a new metric entry exists.
	NewEntry(id MetricID) error

	// SetOptions notifies the reporter of a host-side option change.
	SetOptions(opts map[string]any) error

	// Notify hands the reporter an arbitrary host message.
	Notify(msg any)

	// Close releases any resources held by the reporter.
	Close() error
}

// FormatName flattens a MetricID into a single underscore-joined name,
// preserving segment order. A single-segment ID yields that segment's string
// form unchanged. An empty ID is a caller contract violation and returns
// ErrEmptyMetricID.
func FormatName(id MetricID) (string, error) {
	if len(id) == 0 {
		return "", ErrEmptyMetricID
	}

	parts := make([]string, 0, len(id))
	for _, segment := range id {
		parts = append(parts, segmentString(segment))
	}

	return strings.Join(parts, "_"), nil
}

// segmentString converts a single MetricID segment to its string form.
func segmentString(segment any) string {
	switch s := segment.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}
