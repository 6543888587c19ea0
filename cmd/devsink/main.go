package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/jkbrsn/exosink"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	addr := flag.String("addr", ":8000", "address to listen on")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	router := chi.NewRouter()
	handler := envelopeHandler(logger)
	router.Put("/", handler)
	router.Post("/", handler)

	server := &http.Server{Addr: *addr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", *addr).Msg("dev sink listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("dev sink failed")
	}
}

// envelopeHandler accepts report envelopes and logs their contents.
func envelopeHandler(logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		var envelope exosink.Envelope
		if err := sonic.Unmarshal(body, &envelope); err != nil {
			logger.Warn().Err(err).Msg("received a payload that is not an envelope")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		logger.Info().
			Str("type", envelope.Type).
			Str("name", envelope.Body.Name).
			Interface("value", envelope.Body.Value).
			Int64("timestamp", envelope.Body.Timestamp).
			Str("host", envelope.Body.Host).
			Str("instance", envelope.Body.Instance).
			Msg("envelope received")
		w.WriteHeader(http.StatusNoContent)
	}
}
