package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// stdio is the special path naming stdin or stdout.
const stdio = "-"

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	compileOptionsKey struct{}
	stdinKey          struct{}
	stdoutKey         struct{}
)

// WithCompileOptions returns a new context.Context carrying options applied
// to every compilation a command performs.
func WithCompileOptions(
	ctx context.Context,
	opts ...compiler.Option,
) context.Context {
	return context.WithValue(ctx, compileOptionsKey{}, opts)
}

// compileOptions returns the options stored by [WithCompileOptions] followed
// by extra.
func compileOptions(
	ctx context.Context,
	extra ...compiler.Option,
) []compiler.Option {
	opts, _ := ctx.Value(compileOptionsKey{}).([]compiler.Option)

	return append(append([]compiler.Option{}, opts...), extra...)
}

// WithStdio returns a new context.Context that redirects the "-" source and
// output paths to the given reader and writer.
func WithStdio(ctx context.Context, in io.Reader, out io.Writer) context.Context {
	ctx = context.WithValue(ctx, stdinKey{}, in)

	return context.WithValue(ctx, stdoutKey{}, out)
}

func stdinFrom(ctx context.Context) io.Reader {
	if r, ok := ctx.Value(stdinKey{}).(io.Reader); ok && r != nil {
		return r
	}

	return os.Stdin
}

func stdoutFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(stdoutKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// readSource reads the complete source text from the file at path, or from
// stdin if path is "-".
func readSource(ctx context.Context, path string) (string, error) {
	if path == stdio || path == "" {
		return lang.ReadSource(ctx, stdinFrom(ctx), log.Default())
	}

	file, err := os.Open(path)
	if err != nil {
		return "", lang.ErrReadSource.Wrap(err).
			With(slog.String("file", path))
	}
	defer file.Close()

	return lang.ReadSource(ctx, file, log.Default())
}

// sourceName returns the name used for path in diagnostics.
func sourceName(path string) string {
	if path == stdio || path == "" {
		return "<stdin>"
	}

	return path
}

// compileError annotates a compilation failure of the source read from path
// with the line and column where it occurred.
func compileError(path, source string, err error) error {
	name := sourceName(path)

	var lerr *lang.Error
	if errors.As(err, &lerr) {
		if iv, ok := lerr.Interval(); ok {
			line, col := iv.Position(source)

			return ErrCompile.
				With(
					slog.String("source", name),
					slog.Int("line", line),
					slog.Int("col", col),
				).
				Wrap(fmt.Errorf("%s:%d:%d: %w", name, line, col, err))
		}
	}

	return ErrCompile.
		With(slog.String("source", name)).
		Wrap(fmt.Errorf("%s: %w", name, err))
}

// writeOutput writes data to the file at path, or to stdout if path is "-".
// Files are replaced atomically so readers never observe partial output.
func writeOutput(ctx context.Context, path string, data []byte) error {
	if path == stdio || path == "" {
		_, err := stdoutFrom(ctx).Write(data)
		if err != nil {
			return ErrWriteOutput.With(slog.String("file", "<stdout>")).Wrap(err)
		}

		return nil
	}

	err := writeFileAtomic(path, data)
	if err != nil {
		return ErrWriteOutput.With(slog.String("file", path)).Wrap(err)
	}

	log.TraceContext(ctx, "wrote output",
		slog.String("file", path),
		slog.Int("bytes", len(data)),
	)

	return nil
}

// writeFileAtomic writes data to a temporary file beside path and renames it
// into place.
func writeFileAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()

		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	// CreateTemp opens files with mode 0600.
	if err = os.Chmod(tmp.Name(), outputFileMode); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// outputFileMode is the permission mode of written output files.
const outputFileMode os.FileMode = 0o644
