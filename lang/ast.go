package lang

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Node is an element of the abstract syntax tree.
// The set of implementations is closed: [*NumberNode], [*OperatorNode],
// [*FunctionNode], and [*RootNode].
type Node interface {
	Span() Interval
	node()
}

// NumberNode is a numeric literal, including its optional sign.
type NumberNode struct {
	Value    float64
	Interval Interval
}

// OperatorNode is a binary arithmetic operation.
type OperatorNode struct {
	Operands [2]Node
	Interval Interval
	Op       Kind
}

// FunctionNode is a named geometry function with keyword parameters and
// nested geometry operands.
type FunctionNode struct {
	Parameters map[string]Node
	Name       string
	// Order lists parameter names in order of first appearance.
	Order    []string
	Operands []*FunctionNode
	Interval Interval
}

// RootNode holds the top-level functions of a document.
type RootNode struct {
	Operands []*FunctionNode
	Interval Interval
}

func (n *NumberNode) Span() Interval   { return n.Interval }
func (n *OperatorNode) Span() Interval { return n.Interval }
func (n *FunctionNode) Span() Interval { return n.Interval }
func (n *RootNode) Span() Interval     { return n.Interval }

func (*NumberNode) node()   {}
func (*OperatorNode) node() {}
func (*FunctionNode) node() {}
func (*RootNode) node()     {}

// describe returns the name used for a node in diagnostics.
func describe(n Node) string {
	switch n := n.(type) {
	case *NumberNode:
		return KindNumber.String()
	case *OperatorNode:
		return n.Op.String()
	case *FunctionNode:
		return n.Name
	case *RootNode:
		return "ROOT"
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Print writes an indented dump of the tree rooted at n, one node per line,
// each annotated with its interval.
func Print(w io.Writer, n Node) error {
	return printNode(w, n, 0)
}

func printNode(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)

	switch n := n.(type) {
	case *NumberNode:
		_, err := fmt.Fprintf(w, "%sNumber %s %s\n",
			indent, strconv.FormatFloat(n.Value, 'g', -1, 64), n.Interval)

		return err

	case *OperatorNode:
		_, err := fmt.Fprintf(w, "%sOperator %s %s\n", indent, n.Op, n.Interval)
		if err != nil {
			return err
		}

		for _, op := range n.Operands {
			if err := printNode(w, op, depth+1); err != nil {
				return err
			}
		}

		return nil

	case *FunctionNode:
		_, err := fmt.Fprintf(w, "%sFunction %s %s\n", indent, n.Name, n.Interval)
		if err != nil {
			return err
		}

		for _, name := range n.Order {
			_, err := fmt.Fprintf(w, "%s  %s =\n", indent, name)
			if err != nil {
				return err
			}

			if err := printNode(w, n.Parameters[name], depth+2); err != nil {
				return err
			}
		}

		for _, op := range n.Operands {
			if err := printNode(w, op, depth+1); err != nil {
				return err
			}
		}

		return nil

	case *RootNode:
		_, err := fmt.Fprintf(w, "%sRoot %s\n", indent, n.Interval)
		if err != nil {
			return err
		}

		for _, op := range n.Operands {
			if err := printNode(w, op, depth+1); err != nil {
				return err
			}
		}

		return nil

	default:
		panic(fmt.Sprintf("internal error: unknown node %T", n))
	}
}
