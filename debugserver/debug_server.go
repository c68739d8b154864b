/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

// Package debugserver provides HTTP server that exposes Prometheus metrics and pprof profiles
// of long-running storefront processes.
package debugserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MartinBugar/martyx-industries-fe-sub001/log"
	"github.com/MartinBugar/martyx-industries-fe-sub001/service"
)

// Opts contains optional parameters for New.
type Opts struct {
	// Gatherer is used for /metrics. prometheus.DefaultGatherer is used if nil.
	Gatherer prometheus.Gatherer
}

// DebugServer serves /metrics and /debug/pprof. It implements service.Unit interface.
type DebugServer struct {
	URL        string
	HTTPServer *http.Server
	Logger     log.FieldLogger

	done chan struct{}
}

var _ service.Unit = (*DebugServer)(nil)

// New creates a new DebugServer.
func New(cfg *Config, logger log.FieldLogger, opts Opts) *DebugServer {
	if logger == nil {
		logger = log.NewDisabledLogger()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.Recoverer, loggingMiddleware(logger))
	router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	router.Mount("/debug", middleware.Profiler())

	httpServer := &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: time.Second * 5,
	}
	return &DebugServer{
		URL:        "http://" + cfg.Address,
		HTTPServer: httpServer,
		Logger:     logger,
		done:       make(chan struct{}),
	}
}

// Start starts the server and blocks until it's closed.
func (s *DebugServer) Start(fatalErr chan<- error) {
	defer close(s.done)

	logger := s.Logger.With(log.String("address", s.HTTPServer.Addr))
	logger.Info("starting debug HTTP server...")
	if err := s.HTTPServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("debug HTTP server error", log.Error(err))
		fatalErr <- err
		return
	}
	logger.Info("debug HTTP server closed")
}

// Stop closes the server. Debug requests are never waited for.
func (s *DebugServer) Stop(bool) error {
	if err := s.HTTPServer.Close(); err != nil {
		s.Logger.Error("debug HTTP server closing error", log.Error(err))
		return err
	}
	<-s.done
	return nil
}

func loggingMiddleware(logger log.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			startTime := time.Now()
			ww := middleware.NewWrapResponseWriter(rw, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("debug request served",
				log.String("request_id", middleware.GetReqID(r.Context())),
				log.String("method", r.Method),
				log.String("path", r.URL.Path),
				log.Int("status", ww.Status()),
				log.DurationIn(time.Since(startTime), time.Millisecond),
			)
		})
	}
}
