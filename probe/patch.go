package probe

import "github.com/expr-lang/expr/ast"

// operators maps arithmetic operators to the functions implementing them.
var operators = map[string]string{
	"+": "add",
	"-": "sub",
	"*": "mul",
	"/": "div",
}

// vectorPatcher rewrites operators and member access into function calls so
// that they apply to both scalars and vectors.
type vectorPatcher struct{}

func (vectorPatcher) Visit(node *ast.Node) {
	switch n := (*node).(type) {
	case *ast.BinaryNode:
		fn, ok := operators[n.Operator]
		if !ok {
			return
		}

		ast.Patch(node, &ast.CallNode{
			Callee:    &ast.IdentifierNode{Value: fn},
			Arguments: []ast.Node{n.Left, n.Right},
		})

	case *ast.UnaryNode:
		switch n.Operator {
		case "-":
			ast.Patch(node, &ast.CallNode{
				Callee:    &ast.IdentifierNode{Value: "neg"},
				Arguments: []ast.Node{n.Node},
			})
		case "+":
			ast.Patch(node, n.Node)
		}

	case *ast.MemberNode:
		prop, ok := n.Property.(*ast.StringNode)
		if !ok {
			return
		}

		ast.Patch(node, &ast.CallNode{
			Callee:    &ast.IdentifierNode{Value: "swizzle"},
			Arguments: []ast.Node{n.Node, &ast.StringNode{Value: prop.Value}},
		})
	}
}
