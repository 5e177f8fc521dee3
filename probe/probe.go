package probe

import (
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Predefined errors (sentinel values).
var (
	ErrSyntax    = errors.New("malformed definition")
	ErrUndefined = errors.New("undefined function")
	ErrType      = errors.New("type mismatch")
	ErrCompile   = errors.New("failed to compile definition")
	ErrEval      = errors.New("failed to evaluate definition")
)

// definition matches one generated function definition.
var definition = regexp.MustCompile(`float (\w+)\(vec3 p\)\{return ([^;]*);\}`)

// Program holds the compiled definitions of one generated source text.
type Program struct {
	defs  map[string]*vm.Program
	order []string
}

// Compile parses every definition in code. Definitions may call any other
// definition in the same text by name.
func Compile(code string) (*Program, error) {
	matches := definition.FindAllStringSubmatchIndex(code, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no definitions found", ErrSyntax)
	}

	// Every byte of code must belong to a definition.
	end := 0
	for _, m := range matches {
		if m[0] != end {
			return nil, fmt.Errorf("%w: unexpected text at offset %d", ErrSyntax, end)
		}

		end = m[1]
	}

	if end != len(code) {
		return nil, fmt.Errorf("%w: unexpected text at offset %d", ErrSyntax, end)
	}

	p := &Program{defs: make(map[string]*vm.Program, len(matches))}

	for _, m := range matches {
		name := code[m[2]:m[3]]
		if _, dup := p.defs[name]; dup {
			return nil, fmt.Errorf("%w: %s defined twice", ErrSyntax, name)
		}

		p.defs[name] = nil
		p.order = append(p.order, name)
	}

	opts := p.options()

	for _, m := range matches {
		name, body := code[m[2]:m[3]], code[m[4]:m[5]]

		prog, err := expr.Compile(body, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w %s: %w", ErrCompile, name, err)
		}

		p.defs[name] = prog
	}

	return p, nil
}

// Functions returns the defined function names in definition order.
func (p *Program) Functions() []string { return slices.Clone(p.order) }

// Eval evaluates the named function at the point (x, y, z).
func (p *Program) Eval(name string, x, y, z float64) (float64, error) {
	v, err := p.call(name, Vec{x, y, z})
	if err != nil {
		return 0, err
	}

	return scalar(v)
}

func (p *Program) call(name string, args ...any) (any, error) {
	prog, ok := p.defs[name]
	if !ok || prog == nil {
		return nil, fmt.Errorf("%w: %s", ErrUndefined, name)
	}

	if len(args) != 1 {
		return nil, fmt.Errorf("%w: %s takes 1 argument, got %d", ErrType, name, len(args))
	}

	if _, ok := args[0].(Vec); !ok {
		return nil, fmt.Errorf("%w: %s expects vec3, got %T", ErrType, name, args[0])
	}

	out, err := expr.Run(prog, map[string]any{"p": args[0]})
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrEval, name, err)
	}

	return out, nil
}

func (p *Program) options() []expr.Option {
	opts := []expr.Option{
		expr.Env(map[string]any{"p": Vec{}}),
		expr.DisableAllBuiltins(),
		expr.Patch(vectorPatcher{}),
	}

	for name, fn := range builtins {
		opts = append(opts, expr.Function(name, fn))
	}

	for _, name := range p.order {
		opts = append(opts, expr.Function(name, func(args ...any) (any, error) {
			return p.call(name, args...)
		}))
	}

	return opts
}
