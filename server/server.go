package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/log"
)

// Routes served by [Server.Handler].
const (
	RouteCode    = "/de.glsl"
	RouteStatus  = "/status"
	RouteMetrics = "/metrics"
	RouteDebug   = "/debug"
)

// Status is the JSON body of the /status route.
type Status struct {
	Updated   *time.Time `json:"updated,omitempty"`
	ID        string     `json:"id"`
	Error     string     `json:"error,omitempty"`
	ETag      string     `json:"etag,omitempty"`
	Seq       uint64     `json:"seq"`
	Line      int        `json:"line,omitempty"`
	Col       int        `json:"col,omitempty"`
	CodeBytes int        `json:"code_bytes"`
	OK        bool       `json:"ok"`
}

// Server exposes a [compiler.Session] over HTTP.
type Server struct {
	session  *compiler.Session
	metrics  *Metrics
	logger   log.Logger
	shutdown time.Duration
	profiler bool
}

// New returns a Server for session.
func New(session *compiler.Session, opts ...Option) *Server {
	s := &Server{
		session:  session,
		shutdown: DefaultShutdownTimeout,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics(nil)
	}

	return s
}

// Metrics returns the metrics exposed by the server.
func (s *Server) Metrics() *Metrics { return s.metrics }

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.logRequests,
		middleware.Recoverer,
		middleware.GetHead,
	)

	r.Get(RouteCode, s.handleCode)
	r.Get(RouteStatus, s.handleStatus)
	r.Method(http.MethodGet, RouteMetrics, s.metrics.Handler())

	if s.profiler {
		r.Mount(RouteDebug, middleware.Profiler())
	}

	return r
}

// Serve listens on addr and serves [Server.Handler] until ctx is canceled,
// then shuts down gracefully. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, addr string) error {
	var lc net.ListenConfig

	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.InfoContext(ctx, "server listening",
		slog.String("addr", ln.Addr().String()),
	)

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdown)
		defer cancel()

		s.logger.DebugContext(shutdownCtx, "shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

func (s *Server) handleCode(w http.ResponseWriter, r *http.Request) {
	res := s.session.Current()
	if res == nil {
		msg := "no code compiled yet"
		if err := s.session.Snapshot().Err; err != nil {
			msg = err.Error()
		}

		http.Error(w, msg, http.StatusServiceUnavailable)

		return
	}

	etag := res.ETag()

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")

	if matchETag(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)

		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Code)))

	if r.Method == http.MethodHead {
		return
	}

	_, _ = w.Write([]byte(res.Code))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	state := s.session.Snapshot()

	status := Status{
		ID:  state.ID,
		Seq: state.Seq,
		OK:  state.OK(),
	}

	if !state.Updated.IsZero() {
		status.Updated = &state.Updated
	}

	if state.Result != nil {
		status.ETag = state.Result.ETag()
		status.CodeBytes = len(state.Result.Code)
	}

	if state.Err != nil {
		status.Error = state.Err.Error()

		if line, col, ok := state.ErrorPosition(); ok {
			status.Line, status.Col = line, col
		}
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(status); err != nil {
		s.logger.WarnContext(r.Context(), "encode status failed", slog.Any("error", err))
	}
}

// logRequests logs each request and counts it by route pattern and status.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		s.metrics.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()

		s.logger.DebugContext(r.Context(), "request",
			slog.String("method", r.Method),
			slog.String("route", route),
			slog.Int("code", code),
			slog.Int("bytes", ww.BytesWritten()),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			log.Duration("elapsed", time.Since(start)),
		)
	})
}

// matchETag reports whether an If-None-Match header value matches etag.
func matchETag(header, etag string) bool {
	if header == "" {
		return false
	}

	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")

		if candidate == "*" || candidate == etag {
			return true
		}
	}

	return false
}
