package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/log"
	"github.com/ardnew/sdfc/watch"
)

// Watch recompiles a source file whenever it changes and rewrites the output
// when the generated code differs.
type Watch struct {
	Output   string        `default:"-"     help:"Output file or '-' for stdout."  short:"o"`
	Debounce time.Duration `default:"100ms" help:"Quiet period before recompiling."`

	Source string `arg:"" help:"Source input file." name:"source" type:"existingfile"`
}

// Run executes the watch command. It returns when ctx is canceled.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	session := compiler.NewSession(compileOptions(ctx,
		compiler.WithCache(compiler.NewCache(0)),
	)...)

	fw, err := watch.New(w.Source,
		watch.WithLogger(log.Default()),
		watch.WithDebounce(w.Debounce),
		watch.WithInitial(true),
	)
	if err != nil {
		return err
	}

	return fw.Watch(ctx, func() error {
		return recompile(ctx, session, w.Source, func(u compiler.Update) error {
			return writeOutput(ctx, w.Output, []byte(u.Result.Code+"\n"))
		})
	})
}

// recompile reads path and submits it to session. onChange is called when
// the generated code differs from the previous result.
func recompile(
	ctx context.Context,
	session *compiler.Session,
	path string,
	onChange func(compiler.Update) error,
) error {
	source, err := readSource(ctx, path)
	if err != nil {
		return err
	}

	u, err := session.Submit(ctx, source)
	if err != nil {
		return compileError(path, source, err)
	}

	if u.Stale || !u.Changed {
		log.DebugContext(ctx, "output unchanged",
			slog.Uint64("seq", u.Seq),
			slog.Bool("stale", u.Stale),
		)

		return nil
	}

	log.InfoContext(ctx, "recompiled",
		slog.String("source", path),
		slog.Uint64("seq", u.Seq),
		slog.Int("code_bytes", len(u.Result.Code)),
		log.Duration("elapsed", u.Result.Elapsed),
	)

	if onChange == nil {
		return nil
	}

	return onChange(u)
}
