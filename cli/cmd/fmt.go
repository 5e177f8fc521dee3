package cmd

import (
	"bytes"
	"context"
	"log/slog"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/lang"
	"github.com/ardnew/sdfc/log"
)

// Fmt reads source, parses it, and formats it in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as canonical source (default)."`
	JSON   JSON   `cmd:""                    help:"Format the geometry tree as JSON."`
	YAML   YAML   `cmd:""                    help:"Format the geometry tree as YAML."`
	AST    AST    `cmd:""                    help:"Format as abstract syntax tree."`
}

// Native formats source in canonical layout.
type Native struct {
	Indent int  `default:"2" help:"Indent width for formatted output"          short:"i"`
	Write  bool `help:"Write result to the source file, not stdout" short:"w"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native fmt command.
func (f *Native) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, root, err := parseSource(ctx, f.Source)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	err = root.Format(ctx, &buf, f.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "native")).Wrap(err)
	}

	if !f.Write || f.Source == stdio {
		return writeOutput(ctx, stdio, buf.Bytes())
	}

	if buf.String() == source {
		log.DebugContext(ctx, "already formatted", slog.String("file", f.Source))

		return nil
	}

	return writeOutput(ctx, f.Source, buf.Bytes())
}

// JSON formats the geometry tree of source as JSON.
type JSON struct {
	Indent int `default:"2" help:"Indent width for JSON output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, root, err := parseSource(ctx, j.Source)
	if err != nil {
		return err
	}

	err = lang.TransformRoot(root).FormatJSON(ctx, stdoutFrom(ctx), j.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "json")).Wrap(err)
	}

	return nil
}

// YAML formats the geometry tree of source as YAML.
type YAML struct {
	Indent int `default:"2" help:"Indent width for YAML output" short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, root, err := parseSource(ctx, y.Source)
	if err != nil {
		return err
	}

	err = lang.TransformRoot(root).FormatYAML(ctx, stdoutFrom(ctx), y.Indent)
	if err != nil {
		return ErrFormat.With(slog.String("format", "yaml")).Wrap(err)
	}

	return nil
}

// AST formats source as an abstract syntax tree representation.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	_, root, err := parseSource(ctx, a.Source)
	if err != nil {
		return err
	}

	err = lang.Print(stdoutFrom(ctx), root)
	if err != nil {
		return ErrFormat.With(slog.String("format", "ast")).Wrap(err)
	}

	return nil
}

// parseSource reads and parses the source at path with the parser options
// implied by the command's compile options.
func parseSource(ctx context.Context, path string) (string, *lang.RootNode, error) {
	source, err := readSource(ctx, path)
	if err != nil {
		return "", nil, err
	}

	root, err := lang.Parse(ctx, source, compiler.ParseOptions(compileOptions(ctx)...)...)
	if err != nil {
		return "", nil, compileError(path, source, err)
	}

	return source, root, nil
}
