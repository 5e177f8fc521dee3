// Package compiler runs the complete source to distance field pipeline and
// tracks the latest result of a live editing session.
//
// [Compile] performs one synchronous pass: scan, parse, transform, and
// generate. Each call uses its own [codegen.Generator], so concurrent calls
// are safe. An optional [Cache] memoizes results by source and options.
//
// A [Session] orders compiles started by file events or timers. Every
// submission receives a sequence number; a result is accepted only if its
// sequence number is newer than the last accepted one. A failed compile
// keeps the previous good output, and an accepted result whose code is
// byte-identical to the current one is reported as unchanged so consumers
// can skip relinking.
package compiler
