package server

import (
	"time"

	"github.com/ardnew/sdfc/log"
)

// DefaultShutdownTimeout bounds the graceful shutdown of [Server.Serve].
const DefaultShutdownTimeout = 5 * time.Second

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the structured logger used for requests and lifecycle
// events.
func WithLogger(logger log.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics sets the metrics exposed on /metrics. The same value is
// usually registered with the session through [compiler.WithObserver].
func WithMetrics(m *Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithShutdownTimeout bounds how long [Server.Serve] waits for in-flight
// requests after its context is canceled.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdown = d
		}
	}
}

// WithProfiler mounts the net/http/pprof handlers under [RouteDebug].
func WithProfiler(enabled bool) Option {
	return func(s *Server) {
		s.profiler = enabled
	}
}
