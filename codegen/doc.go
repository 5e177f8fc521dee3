// Package codegen lowers a [lang.Geometry] tree into the text of a signed
// distance field: a sequence of helper functions f0, f1, … followed by the
// entry points de and he.
//
// Every definition has the form
//
//	float NAME(vec3 p){return EXPR;}
//
// and definitions are concatenated without separators. The consumer supplies
// the surrounding program, including forward declarations of de and he.
//
// Primitives (box, sphere, cylinder) stand on the origin along +Z and are
// unioned with their operands translated past their own extent, so nested
// braces stack shapes on top of each other. Transforms (trans, rot, arot,
// scale) hoist the union of their operands into a new helper evaluated at the
// transformed point.
//
// Output depends only on the tree: generating the same tree twice yields
// identical text, and helper numbering restarts at f0 on every call.
package codegen
