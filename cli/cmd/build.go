package cmd

import (
	"context"

	"github.com/ardnew/sdfc/compiler"
)

// Build compiles source once and writes the generated code.
type Build struct {
	Output string `default:"-" help:"Output file or '-' for stdout." short:"o"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the build command.
func (b *Build) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	source, err := readSource(ctx, b.Source)
	if err != nil {
		return err
	}

	res, err := compiler.Compile(ctx, source, compileOptions(ctx)...)
	if err != nil {
		return compileError(b.Source, source, err)
	}

	return writeOutput(ctx, b.Output, []byte(res.Code+"\n"))
}
