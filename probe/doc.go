// Package probe evaluates generated distance field text on the CPU.
//
// The generated text is a sequence of definitions of the form
//
//	float NAME(vec3 p){return EXPR;}
//
// Each EXPR is compiled as an expr-lang program. Arithmetic operators,
// unary negation and swizzles such as p.xy are rewritten into calls to
// vector-aware functions, and the GLSL built-ins used by the generator
// (vec3, float, dot, min, max, abs, length, distance, normalize) are
// provided as expr functions. Helper definitions are callable from any
// later definition.
//
//	prog, err := probe.Compile(code)
//	d, err := prog.Eval("de", 0, 0, 1)
package probe
