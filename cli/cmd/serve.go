package cmd

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/log"
	"github.com/ardnew/sdfc/server"
	"github.com/ardnew/sdfc/watch"
)

// Serve watches a source file and serves the latest good code over HTTP.
type Serve struct {
	Addr     string        `default:"localhost:8080" help:"Listen address."`
	Debounce time.Duration `default:"100ms"          help:"Quiet period before recompiling."`
	Shutdown time.Duration `default:"5s"             help:"Graceful shutdown timeout."`
	Profiler bool          `help:"Serve net/http/pprof handlers under /debug."`

	Source string `arg:"" help:"Source input file." name:"source" type:"existingfile"`
}

// Run executes the serve command. It returns when ctx is canceled or the
// listener fails.
func (s *Serve) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	metrics := server.NewMetrics(nil)

	session := compiler.NewSession(compileOptions(ctx,
		compiler.WithCache(compiler.NewCache(0)),
		compiler.WithObserver(metrics.Observe),
	)...)

	srv := server.New(session,
		server.WithLogger(log.Default()),
		server.WithMetrics(metrics),
		server.WithShutdownTimeout(s.Shutdown),
		server.WithProfiler(s.Profiler),
	)

	fw, err := watch.New(s.Source,
		watch.WithLogger(log.Default()),
		watch.WithDebounce(s.Debounce),
		watch.WithInitial(true),
	)
	if err != nil {
		return err
	}

	log.InfoContext(ctx, "serving",
		slog.String("addr", s.Addr),
		slog.String("source", fw.Path()),
		slog.String("session", session.ID()),
	)

	eg, egctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return srv.Serve(egctx, s.Addr)
	})

	eg.Go(func() error {
		return fw.Watch(egctx, func() error {
			return recompile(egctx, session, s.Source, nil)
		})
	})

	return eg.Wait()
}
