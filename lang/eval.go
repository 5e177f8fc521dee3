package lang

import "fmt"

// Evaluate reduces an arithmetic expression to a float.
// Division follows IEEE 754 semantics, so dividing by zero yields an
// infinity or NaN rather than an error.
//
// Only [*NumberNode] and [*OperatorNode] are valid inputs. The parser never
// places any other node in a parameter position, so any other node panics.
func Evaluate(n Node) float64 {
	switch n := n.(type) {
	case *NumberNode:
		return n.Value

	case *OperatorNode:
		lhs, rhs := Evaluate(n.Operands[0]), Evaluate(n.Operands[1])

		switch n.Op {
		case KindPlus:
			return lhs + rhs
		case KindMinus:
			return lhs - rhs
		case KindStar:
			return lhs * rhs
		case KindSlash:
			return lhs / rhs
		default:
			panic(fmt.Sprintf("internal error: invalid operator %s", n.Op))
		}

	default:
		panic(fmt.Sprintf("internal error: invalid expression node %s", describe(n)))
	}
}
