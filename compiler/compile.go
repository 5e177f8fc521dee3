package compiler

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/sdfc/codegen"
	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// Predefined errors (sentinel values).
var ErrCanceled = lang.NewError("compile canceled")

// Result is the output of one successful compile.
// Results may be shared through a [Cache] and must not be modified.
type Result struct {
	Root     *lang.RootNode
	Tree     *lang.Geometry
	Code     string
	Warnings []lang.Warning
	Hash     uint64
	Elapsed  time.Duration
	Helpers  int
}

// ETag returns a quoted entity tag derived from the hash of the generated
// code.
func (r *Result) ETag() string {
	return strconv.Quote(strconv.FormatUint(r.Hash, 36))
}

// Compile scans, parses, transforms, and generates code for source.
// Lexical and syntax errors are returned as [*lang.Error] values.
func Compile(ctx context.Context, source string, opts ...Option) (*Result, error) {
	o := applyOptions(opts...)

	if err := ctx.Err(); err != nil {
		return nil, ErrCanceled.Wrap(err)
	}

	if o.cache != nil {
		return o.cache.compile(ctx, source, o)
	}

	return compile(ctx, source, o)
}

// CompileReader reads all of r and compiles it.
func CompileReader(ctx context.Context, r io.Reader, opts ...Option) (*Result, error) {
	o := applyOptions(opts...)

	source, err := lang.ReadSource(ctx, r, o.logger)
	if err != nil {
		return nil, err
	}

	return Compile(ctx, source, opts...)
}

func compile(ctx context.Context, source string, o options) (*Result, error) {
	start := time.Now()

	var warnings []lang.Warning

	root, err := lang.Parse(ctx, source, append(o.parseOptions(),
		lang.WithWarnings(func(w lang.Warning) { warnings = append(warnings, w) }),
	)...)
	if err != nil {
		o.logger.DebugContext(ctx, "compile failed",
			slog.Int("source_bytes", len(source)),
			slog.Any("error", err),
		)

		return nil, err
	}

	tree := lang.TransformRoot(root)
	gen := codegen.New()
	code := gen.Generate(tree)

	res := &Result{
		Root:     root,
		Tree:     tree,
		Code:     code,
		Warnings: warnings,
		Hash:     xxh3.HashString(code),
		Helpers:  gen.Helpers(),
		Elapsed:  time.Since(start),
	}

	o.logger.DebugContext(ctx, "compiled",
		slog.Int("source_bytes", len(source)),
		slog.Int("code_bytes", len(code)),
		slog.Int("helpers", res.Helpers),
		slog.Int("warnings", len(warnings)),
		log.Duration("elapsed", res.Elapsed),
	)

	return res, nil
}
