package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
)

// Options carries the optional routes of the status server. Nil fields are
// simply not mounted.
type Options struct {
	// HealthPing is checked by /healthcheck; nil means the process being up
	// is health enough.
	HealthPing func(ctx context.Context) error

	EventsHandler http.HandlerFunc
	QuotesHandler http.HandlerFunc
}

func StartServer(port string, opts Options) {
	// Router with middleware
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthcheck", func(w http.ResponseWriter, req *http.Request) {
		if opts.HealthPing != nil {
			if err := opts.HealthPing(req.Context()); err != nil {
				logger.WithError(err).Warn("healthcheck ping failed")
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.WithError(err).Error("/healthcheck write error")
		}
	})

	if opts.EventsHandler != nil {
		r.Get("/events", opts.EventsHandler)
	}
	if opts.QuotesHandler != nil {
		r.Get("/quotes", opts.QuotesHandler)
	}

	// Graceful server
	// Server setup
	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server crashed")
		}
	}()

	// Shutdown on SIGINT or SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Shutdown error")
	}
}
