package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format writes the document in canonical source syntax.
// With indent > 0 each operand is placed on its own line; with indent == 0
// the whole document is written on one line.
func (r *RootNode) Format(_ context.Context, w io.Writer, indent int) error {
	for i, fn := range r.Operands {
		if i > 0 {
			sep := " "
			if indent > 0 {
				sep = "\n"
			}

			if _, err := fmt.Fprint(w, sep); err != nil {
				return err
			}
		}

		if err := formatFunction(fn, w, indent, 0); err != nil {
			return err
		}
	}

	// Final newline
	_, err := fmt.Fprintln(w)

	return err
}

// FormatJSON writes the geometry tree as JSON to the writer.
func (g *Geometry) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(g, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(g)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the geometry tree as YAML to the writer.
func (g *Geometry) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, g, opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}

// formatFunction formats a function call and its operands.
func formatFunction(fn *FunctionNode, w io.Writer, indent, depth int) error {
	if _, err := fmt.Fprint(w, fn.Name); err != nil {
		return err
	}

	if len(fn.Order) > 0 {
		args := make([]string, len(fn.Order))
		for i, name := range fn.Order {
			args[i] = name + "=" + FormatExpr(fn.Parameters[name])
		}

		if _, err := fmt.Fprint(w, "(", strings.Join(args, ", "), ")"); err != nil {
			return err
		}
	}

	if len(fn.Operands) == 0 {
		return nil
	}

	if _, err := fmt.Fprint(w, " {"); err != nil {
		return err
	}

	for _, op := range fn.Operands {
		if indent > 0 {
			_, err := fmt.Fprint(w, "\n", strings.Repeat(" ", (depth+1)*indent))
			if err != nil {
				return err
			}
		} else if _, err := fmt.Fprint(w, " "); err != nil {
			return err
		}

		if err := formatFunction(op, w, indent, depth+1); err != nil {
			return err
		}
	}

	// Closing brace
	if indent > 0 {
		_, err := fmt.Fprint(w, "\n", strings.Repeat(" ", depth*indent), "}")

		return err
	}

	_, err := fmt.Fprint(w, " }")

	return err
}

// FormatExpr renders an arithmetic expression with the minimum parentheses
// needed to preserve its structure.
func FormatExpr(n Node) string {
	switch n := n.(type) {
	case *NumberNode:
		return formatNumber(n.Value)

	case *OperatorNode:
		prec := precedence(n.Op)
		lhs, rhs := FormatExpr(n.Operands[0]), FormatExpr(n.Operands[1])

		if p, ok := operatorPrecedence(n.Operands[0]); ok && p < prec {
			lhs = "(" + lhs + ")"
		}

		// Operators are left-associative, so an equal-precedence right
		// operand keeps its grouping only with parentheses.
		if p, ok := operatorPrecedence(n.Operands[1]); ok && p <= prec {
			rhs = "(" + rhs + ")"
		}

		return lhs + " " + n.Op.String() + " " + rhs

	case *FunctionNode:
		var b strings.Builder
		_ = formatFunction(n, &b, 0, 0)

		return b.String()

	default:
		return describe(n)
	}
}

// overflowLiteral is the shortest digit run that parses to +Inf.
var overflowLiteral = "1" + strings.Repeat("0", 309)

// formatNumber writes v as a literal the lexer accepts. Literals too large
// for float64 evaluate to ±Inf and are written back as a digit run that
// overflows the same way. NaN has no literal form and is written as 0.
func formatNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "0"
	case math.IsInf(v, 1):
		return overflowLiteral
	case math.IsInf(v, -1):
		return "-" + overflowLiteral
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// ParamValues holds evaluated parameter values. JSON has no encoding for
// non-finite numbers, so those are written as the strings "+Inf", "-Inf",
// and "NaN".
type ParamValues map[string]float64

// MarshalJSON implements [json.Marshaler].
func (p ParamValues) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p))

	for name, v := range p {
		switch {
		case math.IsNaN(v):
			out[name] = "NaN"
		case math.IsInf(v, 1):
			out[name] = "+Inf"
		case math.IsInf(v, -1):
			out[name] = "-Inf"
		default:
			out[name] = v
		}
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (p *ParamValues) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(ParamValues, len(raw))

	for name, v := range raw {
		switch v := v.(type) {
		case float64:
			values[name] = v
		case string:
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("parameter %s: %w", name, err)
			}

			values[name] = f
		default:
			return fmt.Errorf("parameter %s: unsupported value %v", name, v)
		}
	}

	*p = values

	return nil
}

func precedence(op Kind) int {
	if op == KindStar || op == KindSlash {
		return 2
	}

	return 1
}

func operatorPrecedence(n Node) (int, bool) {
	if op, ok := n.(*OperatorNode); ok {
		return precedence(op.Op), true
	}

	return 0, false
}
