package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/jkbrsn/exosink"
	"github.com/jkbrsn/taskman"
	"github.com/rs/zerolog"
)

// reportTask is a taskman.Task that forwards one runtime metric sample
// through the reporter. It stands in for the host reporting framework, which
// in production owns the subscriptions and the schedule.
type reportTask struct {
	reporter  *exosink.HTTPReporter
	metric    exosink.MetricID
	datapoint string
	read      func() any
}

// Execute reports the current value of the task's metric.
func (t reportTask) Execute() error {
	return t.reporter.Report(context.Background(), t.metric, t.datapoint, nil, t.read())
}

func main() {
	sinkURL := flag.String("sink", "http://localhost:8000", "sink URL to deliver reports to")
	method := flag.String("method", "put", "request type, put or post")
	hostname := flag.String("hostname", "auto", "reported host field, auto resolves the local hostname")
	interval := flag.Duration("interval", 5*time.Second, "report interval")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	reporter, err := exosink.New(
		exosink.Config{SinkURL: *sinkURL, RequestType: *method, Hostname: *hostname},
		exosink.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create reporter")
	}

	tm := taskman.New()
	job := taskman.Job{
		ID:       "runtime-metrics",
		Cadence:  *interval,
		NextExec: time.Now().Add(*interval),
		Tasks:    runtimeTasks(reporter),
	}
	if err := tm.ScheduleJob(job); err != nil {
		logger.Fatal().Err(err).Msg("failed to schedule report job")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	stats := reporter.Stats()
	logger.Info().
		Int64("delivered", stats.ReportsDelivered).
		Int64("transport_failures", stats.TransportFailures).
		Msg("shutting down")
}

// runtimeTasks builds one report task per tracked Go runtime metric.
func runtimeTasks(reporter *exosink.HTTPReporter) []taskman.Task {
	return []taskman.Task{
		reportTask{
			reporter:  reporter,
			metric:    exosink.MetricID{"go", "goroutines"},
			datapoint: "value",
			read:      func() any { return runtime.NumGoroutine() },
		},
		reportTask{
			reporter:  reporter,
			metric:    exosink.MetricID{"go", "mem", "alloc"},
			datapoint: "bytes",
			read: func() any {
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				return m.Alloc
			},
		},
		reportTask{
			reporter:  reporter,
			metric:    exosink.MetricID{"go", "gc"},
			datapoint: "count",
			read: func() any {
				var m runtime.MemStats
				runtime.ReadMemStats(&m)
				return m.NumGC
			},
		},
	}
}
