package probe

import (
	"fmt"
	"math"
)

// Vec is a GLSL vector value.
type Vec []float64

// builtin is the signature of functions exposed to expressions.
type builtin func(args ...any) (any, error)

// builtins implements the GLSL functions and operators that appear in
// generated text.
var builtins = map[string]builtin{
	"float": unary(func(v any) (any, error) {
		return scalar(v)
	}),
	"vec3": func(args ...any) (any, error) {
		if len(args) != 3 {
			return nil, fmt.Errorf("%w: vec3 takes 3 arguments, got %d", ErrType, len(args))
		}

		v := make(Vec, 3)

		for i, a := range args {
			f, err := scalar(a)
			if err != nil {
				return nil, err
			}

			v[i] = f
		}

		return v, nil
	},
	"add": componentwise(func(a, b float64) float64 { return a + b }),
	"sub": componentwise(func(a, b float64) float64 { return a - b }),
	"mul": componentwise(func(a, b float64) float64 { return a * b }),
	"div": componentwise(func(a, b float64) float64 { return a / b }),
	"min": componentwise(math.Min),
	"max": componentwise(math.Max),
	"neg": unary(func(v any) (any, error) {
		return mapValue(v, func(f float64) float64 { return -f })
	}),
	"abs": unary(func(v any) (any, error) {
		return mapValue(v, math.Abs)
	}),
	"dot": binary(func(a, b any) (any, error) {
		u, v, err := vectors(a, b)
		if err != nil {
			return nil, err
		}

		return dot(u, v), nil
	}),
	"length": unary(func(v any) (any, error) {
		u, err := vector(v)
		if err != nil {
			return nil, err
		}

		return math.Sqrt(dot(u, u)), nil
	}),
	"distance": binary(func(a, b any) (any, error) {
		u, v, err := vectors(a, b)
		if err != nil {
			return nil, err
		}

		d := make(Vec, len(u))
		for i := range u {
			d[i] = u[i] - v[i]
		}

		return math.Sqrt(dot(d, d)), nil
	}),
	"normalize": unary(func(v any) (any, error) {
		u, err := vector(v)
		if err != nil {
			return nil, err
		}

		n := math.Sqrt(dot(u, u))

		return mapValue(u, func(f float64) float64 { return f / n })
	}),
	"swizzle": binary(func(a, b any) (any, error) {
		u, err := vector(a)
		if err != nil {
			return nil, err
		}

		sel, ok := b.(string)
		if !ok {
			return nil, fmt.Errorf("%w: swizzle selector %T", ErrType, b)
		}

		return swizzle(u, sel)
	}),
}

func unary(fn func(any) (any, error)) builtin {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%w: expected 1 argument, got %d", ErrType, len(args))
		}

		return fn(args[0])
	}
}

func binary(fn func(a, b any) (any, error)) builtin {
	return func(args ...any) (any, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: expected 2 arguments, got %d", ErrType, len(args))
		}

		return fn(args[0], args[1])
	}
}

// componentwise lifts a scalar operation to vectors, broadcasting a scalar
// operand across the other vector.
func componentwise(op func(a, b float64) float64) builtin {
	return binary(func(a, b any) (any, error) {
		av, aIsVec := a.(Vec)
		bv, bIsVec := b.(Vec)

		switch {
		case !aIsVec && !bIsVec:
			x, err := scalar(a)
			if err != nil {
				return nil, err
			}

			y, err := scalar(b)
			if err != nil {
				return nil, err
			}

			return op(x, y), nil

		case aIsVec && bIsVec:
			if len(av) != len(bv) {
				return nil, fmt.Errorf("%w: vector sizes %d and %d", ErrType, len(av), len(bv))
			}

			r := make(Vec, len(av))
			for i := range av {
				r[i] = op(av[i], bv[i])
			}

			return r, nil

		case aIsVec:
			y, err := scalar(b)
			if err != nil {
				return nil, err
			}

			return mapValue(av, func(x float64) float64 { return op(x, y) })

		default:
			x, err := scalar(a)
			if err != nil {
				return nil, err
			}

			return mapValue(bv, func(y float64) float64 { return op(x, y) })
		}
	})
}

func mapValue(v any, fn func(float64) float64) (any, error) {
	if u, ok := v.(Vec); ok {
		r := make(Vec, len(u))
		for i := range u {
			r[i] = fn(u[i])
		}

		return r, nil
	}

	f, err := scalar(v)
	if err != nil {
		return nil, err
	}

	return fn(f), nil
}

func scalar(v any) (float64, error) {
	switch v := v.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case Vec:
		return 0, fmt.Errorf("%w: expected scalar, got vec%d", ErrType, len(v))
	default:
		return 0, fmt.Errorf("%w: expected scalar, got %T", ErrType, v)
	}
}

func vector(v any) (Vec, error) {
	u, ok := v.(Vec)
	if !ok {
		return nil, fmt.Errorf("%w: expected vector, got %T", ErrType, v)
	}

	return u, nil
}

func vectors(a, b any) (Vec, Vec, error) {
	u, err := vector(a)
	if err != nil {
		return nil, nil, err
	}

	v, err := vector(b)
	if err != nil {
		return nil, nil, err
	}

	if len(u) != len(v) {
		return nil, nil, fmt.Errorf("%w: vector sizes %d and %d", ErrType, len(u), len(v))
	}

	return u, v, nil
}

func dot(u, v Vec) float64 {
	var s float64
	for i := range u {
		s += u[i] * v[i]
	}

	return s
}

// swizzle selects components of u by name (xyzw or rgba). A single
// component yields a scalar.
func swizzle(u Vec, sel string) (any, error) {
	if sel == "" || len(sel) > 4 {
		return nil, fmt.Errorf("%w: invalid swizzle %q", ErrType, sel)
	}

	r := make(Vec, len(sel))

	for i, c := range sel {
		k := componentIndex(c)
		if k < 0 || k >= len(u) {
			return nil, fmt.Errorf("%w: invalid swizzle %q for vec%d", ErrType, sel, len(u))
		}

		r[i] = u[k]
	}

	if len(r) == 1 {
		return r[0], nil
	}

	return r, nil
}

func componentIndex(c rune) int {
	switch c {
	case 'x', 'r':
		return 0
	case 'y', 'g':
		return 1
	case 'z', 'b':
		return 2
	case 'w', 'a':
		return 3
	default:
		return -1
	}
}
