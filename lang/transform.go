package lang

import (
	"maps"
	"slices"
)

// Geometry is the simplified tree produced from the AST. Parameter
// expressions are evaluated and source positions are dropped.
type Geometry struct {
	Name     string             `json:"name"               yaml:"name"`
	Params   ParamValues        `json:"params,omitempty"   yaml:"params,omitempty"`
	Children []*Geometry        `json:"children,omitempty" yaml:"children,omitempty"`
	Kind     GeometryKind       `json:"-"                  yaml:"-"`
}

// Transform evaluates every parameter of fn and recurses over its operands,
// preserving their order.
func Transform(fn *FunctionNode) *Geometry {
	g := &Geometry{
		Name:     fn.Name,
		Kind:     KindOf(fn.Name),
		Params:   make(map[string]float64, len(fn.Parameters)),
		Children: make([]*Geometry, 0, len(fn.Operands)),
	}

	for name, expr := range fn.Parameters {
		g.Params[name] = Evaluate(expr)
	}

	for _, op := range fn.Operands {
		g.Children = append(g.Children, Transform(op))
	}

	return g
}

// TransformRoot returns a union of the transformed top-level functions.
func TransformRoot(root *RootNode) *Geometry {
	g := &Geometry{
		Name:     GeometryUnion.String(),
		Kind:     GeometryUnion,
		Params:   map[string]float64{},
		Children: make([]*Geometry, 0, len(root.Operands)),
	}

	for _, op := range root.Operands {
		g.Children = append(g.Children, Transform(op))
	}

	return g
}

// Param returns the value of the named parameter, falling back to the
// default declared by the schema of g's kind.
func (g *Geometry) Param(name string) float64 {
	if v, ok := g.Params[name]; ok {
		return v
	}

	v, _ := SchemaOf(g.Kind).Default(name)

	return v
}

// ParamNames returns the names of g's parameters: those declared by its
// schema first, in schema order, then any others sorted by name.
func (g *Geometry) ParamNames() []string {
	schema := SchemaOf(g.Kind)
	names := make([]string, 0, len(g.Params))

	for _, p := range schema.Params {
		if _, ok := g.Params[p.Name]; ok {
			names = append(names, p.Name)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(g.Params)) {
		if schema.Index(name) < 0 {
			names = append(names, name)
		}
	}

	return names
}
