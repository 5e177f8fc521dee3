package cmd

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ardnew/sdfc/compiler"
	"github.com/ardnew/sdfc/probe"
)

// Probe compiles source and evaluates generated distance functions at the
// given points.
type Probe struct {
	At        []string `help:"Point to evaluate as x,y,z (repeatable)." placeholder:"X,Y,Z" required:"" sep:"none"`
	Fn        []string `default:"de"                                    help:"Generated functions to evaluate."`
	Format    string   `default:"table"                                 enum:"table,csv,markdown" help:"Output format."`
	Precision int      `default:"4"                                     help:"Digits after the decimal point."`

	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// point is a position in model space.
type point [3]float64

// Run executes the probe command.
func (p *Probe) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	points := make([]point, len(p.At))

	for i, at := range p.At {
		points[i], err = parsePoint(at)
		if err != nil {
			return err
		}
	}

	source, err := readSource(ctx, p.Source)
	if err != nil {
		return err
	}

	res, err := compiler.Compile(ctx, source, compileOptions(ctx)...)
	if err != nil {
		return compileError(p.Source, source, err)
	}

	prog, err := probe.Compile(res.Code)
	if err != nil {
		return ErrProbe.Wrap(err)
	}

	t := table.NewWriter()
	t.SetOutputMirror(stdoutFrom(ctx))
	t.SetStyle(table.StyleLight)

	header := table.Row{"x", "y", "z"}
	for _, fn := range p.Fn {
		header = append(header, fn)
	}

	t.AppendHeader(header)

	for _, pt := range points {
		row := table.Row{p.format(pt[0]), p.format(pt[1]), p.format(pt[2])}

		for _, fn := range p.Fn {
			d, err := prog.Eval(fn, pt[0], pt[1], pt[2])
			if err != nil {
				return ErrProbe.With(slog.String("function", fn)).Wrap(err)
			}

			row = append(row, p.format(d))
		}

		t.AppendRow(row)
	}

	switch p.Format {
	case "csv":
		t.RenderCSV()
	case "markdown":
		t.RenderMarkdown()
	default:
		t.Render()
	}

	return nil
}

func (p *Probe) format(v float64) string {
	return strconv.FormatFloat(v, 'f', p.Precision, 64)
}

// parsePoint parses "x,y,z" into a point.
func parsePoint(s string) (point, error) {
	var pt point

	fields := strings.Split(s, ",")
	if len(fields) != len(pt) {
		return pt, ErrInvalidPoint.With(slog.String("point", s))
	}

	for i, field := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
		if err != nil {
			return pt, ErrInvalidPoint.With(slog.String("point", s)).Wrap(err)
		}

		pt[i] = v
	}

	return pt, nil
}
