package codegen

import (
	"math"
	"strconv"
	"strings"

	"github.com/ardnew/sdfc/lang"
)

const (
	// Empty is the distance to the empty solid, the identity of union.
	Empty = "1e9"
	// Full is the distance to the full space, the identity of intersection.
	Full = "-1e9"
)

// arotDrop is the offset along the rotated Z axis applied by arot.
const arotDrop = -1.5

// Generator emits the source text for a geometry tree.
// A Generator is not safe for concurrent use.
type Generator struct {
	buf  strings.Builder
	next int
}

// New returns a Generator with an empty buffer.
func New() *Generator { return &Generator{} }

// Generate returns the helper definitions followed by de and he for the tree
// rooted at root. The buffer and helper counter are reset on entry.
func (g *Generator) Generate(root *lang.Geometry) string {
	g.buf.Reset()
	g.next = 0

	de := g.expr(root)

	g.emit("de", de)
	g.emit("he", Empty)

	return g.buf.String()
}

// Helpers returns the number of helper functions emitted by the most recent
// call to [Generator.Generate].
func (g *Generator) Helpers() int { return g.next }

// Generate returns the source text for root using a new [Generator].
func Generate(root *lang.Geometry) string { return New().Generate(root) }

func (g *Generator) emit(name, expr string) {
	g.buf.WriteString("float ")
	g.buf.WriteString(name)
	g.buf.WriteString("(vec3 p){return ")
	g.buf.WriteString(expr)
	g.buf.WriteString(";}")
}

// helper emits expr as the next numbered function and returns its name.
func (g *Generator) helper(expr string) string {
	name := "f" + strconv.Itoa(g.next)
	g.next++
	g.emit(name, expr)

	return name
}

func (g *Generator) expr(node *lang.Geometry) string {
	children := make([]string, 0, len(node.Children))
	for _, child := range node.Children {
		children = append(children, g.expr(child))
	}

	switch node.Kind {
	case lang.GeometryIntersection:
		return intersection(children)
	case lang.GeometryDiff:
		return difference(children)
	}

	child := union(children)

	switch node.Kind {
	case lang.GeometryBox:
		return g.box(child, node)
	case lang.GeometryCylinder:
		return g.cylinder(child, node)
	case lang.GeometrySphere:
		return g.sphere(child, node)
	case lang.GeometryTrans:
		return g.translate(child, node.Param("x"), node.Param("y"), node.Param("z"))
	case lang.GeometryRot:
		return g.rotate(child, node.Param("x"), node.Param("y"), node.Param("z"))
	case lang.GeometryArot:
		rot := g.rotate(child, node.Param("x"), node.Param("y"), node.Param("z"))

		return g.translate(rot, 0, 0, arotDrop)
	case lang.GeometryScale:
		return g.scale(child, node.Param("r"))
	default:
		return child
	}
}

func (g *Generator) box(child string, node *lang.Geometry) string {
	x, y, z := node.Param("x"), node.Param("y"), node.Param("z")

	return call("min",
		g.translate(child, 0, 0, z),
		call("max",
			call("max", "abs(p.x)-"+Literal(x/2), "abs(p.y)-"+Literal(y/2)),
			call("max", "-p.z", "p.z-"+Literal(z)),
		),
	)
}

func (g *Generator) cylinder(child string, node *lang.Geometry) string {
	h, d := node.Param("h"), node.Param("d")

	return call("min",
		g.translate(child, 0, 0, h),
		call("max",
			"length(p.xy)-"+Literal(d/2),
			call("max", "-p.z", "p.z-"+Literal(h)),
		),
	)
}

func (g *Generator) sphere(child string, node *lang.Geometry) string {
	d := node.Param("d")

	return call("min",
		g.translate(child, 0, 0, d),
		"distance(p,"+vec3("0.0", "0.0", Literal(d/2))+")-"+Literal(d/2),
	)
}

func (g *Generator) translate(child string, x, y, z float64) string {
	fn := g.helper(child)

	return fn + "(p-" + vec3(Literal(x), Literal(y), Literal(z)) + ")"
}

func (g *Generator) scale(child string, r float64) string {
	fn := g.helper(child)

	return fn + "(p*" + Literal(1/r) + ")*" + Literal(r)
}

// rotate samples child at the point rotated by the negated angles, which
// rotates the shape forward about X, then Y, then Z.
func (g *Generator) rotate(child string, x, y, z float64) string {
	fn := g.helper(child)

	a, b, c := radians(-x), radians(-y), radians(-z)
	sa, ca := math.Sincos(a)
	sb, cb := math.Sincos(b)
	sc, cc := math.Sincos(c)

	vx := vec3(
		Literal(cb*cc),
		Literal(cc*sa*sb-ca*sc),
		Literal(ca*cc*sb+sa*sc),
	)
	vy := vec3(
		Literal(cb*sc),
		Literal(ca*cc+sa*sb*sc),
		Literal(-cc*sa+ca*sb*sc),
	)
	vz := vec3(
		Literal(-sb),
		Literal(cb*sa),
		Literal(ca*cb),
	)

	return fn + "(" + vec3(dot("p", vx), dot("p", vy), dot("p", vz)) + ")"
}

func union(exprs []string) string {
	res := Empty
	for _, e := range exprs {
		res = call("min", res, e)
	}

	return res
}

func intersection(exprs []string) string {
	res := Full
	for _, e := range exprs {
		res = call("max", res, e)
	}

	return res
}

func difference(exprs []string) string {
	if len(exprs) == 0 {
		return Empty
	}

	res := exprs[0]
	for _, e := range exprs[1:] {
		res = call("max", res, "-("+e+")")
	}

	return res
}

func call(fn string, args ...string) string {
	return fn + "(" + strings.Join(args, ",") + ")"
}

func vec3(x, y, z string) string { return call("vec3", x, y, z) }

func dot(a, b string) string { return call("dot", a, b) }

func radians(deg float64) float64 { return deg * math.Pi / 180 }
