package lang

import (
	"iter"
	"strconv"
	"strings"
)

// GeometryKind identifies the semantics of a geometry function.
type GeometryKind int

const (
	GeometryGroup        GeometryKind = iota // group
	GeometryUnion                            // union
	GeometryIntersection                     // intersection
	GeometryDiff                             // diff
	GeometryBox                              // box
	GeometrySphere                           // sphere
	GeometryCylinder                         // cylinder
	GeometryTrans                            // trans
	GeometryRot                              // rot
	GeometryArot                             // arot
	GeometryScale                            // scale
)

// Param declares a parameter accepted by a geometry kind.
type Param struct {
	Name    string
	Default float64
}

// Schema declares the parameters accepted by a geometry kind.
type Schema struct {
	Summary string
	Params  []Param
	Kind    GeometryKind
}

var schemas = map[GeometryKind]Schema{
	GeometryGroup: {
		Kind:    GeometryGroup,
		Summary: "union of operands (unrecognized name)",
	},
	GeometryUnion: {
		Kind:    GeometryUnion,
		Summary: "union of operands",
	},
	GeometryIntersection: {
		Kind:    GeometryIntersection,
		Summary: "intersection of operands",
	},
	GeometryDiff: {
		Kind:    GeometryDiff,
		Summary: "first operand minus each following operand",
	},
	GeometryBox: {
		Kind:    GeometryBox,
		Summary: "box standing on the origin; operands stack on top",
		Params:  []Param{{"x", 1}, {"y", 1}, {"z", 1}},
	},
	GeometrySphere: {
		Kind:    GeometrySphere,
		Summary: "sphere resting on the origin; operands stack on top",
		Params:  []Param{{"d", 1}},
	},
	GeometryCylinder: {
		Kind:    GeometryCylinder,
		Summary: "cylinder standing on the origin; operands stack on top",
		Params:  []Param{{"h", 1}, {"d", 1}},
	},
	GeometryTrans: {
		Kind:    GeometryTrans,
		Summary: "translate operands",
		Params:  []Param{{"x", 0}, {"y", 0}, {"z", 0}},
	},
	GeometryRot: {
		Kind:    GeometryRot,
		Summary: "rotate operands about X, then Y, then Z (degrees)",
		Params:  []Param{{"x", 0}, {"y", 0}, {"z", 0}},
	},
	GeometryArot: {
		Kind:    GeometryArot,
		Summary: "rotate operands, then lower them 1.5 along the rotated Z",
		Params:  []Param{{"x", 0}, {"y", 0}, {"z", 0}},
	},
	GeometryScale: {
		Kind:    GeometryScale,
		Summary: "scale operands uniformly",
		Params:  []Param{{"r", 1}},
	},
}

// byName maps function names to kinds. Names not present are groups.
var byName = func() map[string]GeometryKind {
	m := make(map[string]GeometryKind, len(schemas))

	for kind := range schemas {
		if kind != GeometryGroup {
			m[kind.String()] = kind
		}
	}

	return m
}()

// KindOf resolves a function name to its geometry kind. Unrecognized names
// resolve to [GeometryGroup].
func KindOf(name string) GeometryKind {
	if kind, ok := byName[name]; ok {
		return kind
	}

	return GeometryGroup
}

// SchemaOf returns the schema declared for kind.
func SchemaOf(kind GeometryKind) Schema { return schemas[kind] }

// Kinds returns an iterator over the recognized function names in
// declaration order.
func Kinds() iter.Seq[string] {
	return func(yield func(string) bool) {
		for kind := GeometryUnion; kind <= GeometryScale; kind++ {
			if !yield(kind.String()) {
				return
			}
		}
	}
}

// Default returns the default value of the named parameter and whether the
// schema declares it.
func (s Schema) Default(name string) (float64, bool) {
	for _, p := range s.Params {
		if p.Name == name {
			return p.Default, true
		}
	}

	return 0, false
}

// Index returns the position of the named parameter, or -1.
func (s Schema) Index(name string) int {
	for i, p := range s.Params {
		if p.Name == name {
			return i
		}
	}

	return -1
}

// Signature renders the schema as a call with default arguments,
// e.g. "box(x=1, y=1, z=1)".
func (s Schema) Signature() string {
	var b strings.Builder

	b.WriteString(s.Kind.String())

	if len(s.Params) == 0 {
		return b.String()
	}

	b.WriteByte('(')

	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(p.Default, 'g', -1, 64))
	}

	b.WriteByte(')')

	return b.String()
}
