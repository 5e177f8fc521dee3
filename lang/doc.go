// Package lang implements the front end of the CSG language: a lexer, a
// recursive descent parser producing a position-tracked AST, an arithmetic
// evaluator for function parameters, and a transformer that reduces the AST
// to a simplified geometry tree.
//
// # Grammar
//
// Informal EBNF:
//
//	functions  → function+ EOF
//	function   → IDENTIFIER [ '(' paramList? ')' ] [ '{' function* '}' ]
//	paramList  → IDENTIFIER '=' expression (',' IDENTIFIER '=' expression)* ','?
//	expression → term (('+'|'-') term)*
//	term       → factor (('*'|'/') factor)*
//	factor     → number | '(' expression ')' | function
//	number     → ('+'|'-')? NUMBER
//
// Identifiers are runs of ASCII letters. Numbers are decimal with an optional
// fractional part. Whitespace is insignificant.
//
// # Example
//
//	scale(r=2) {
//	  intersection {
//	    box
//	    trans(z=-0.2) {
//	      sphere(d=1.4)
//	    }
//	  }
//	  cylinder(d=0.1, h=1.5)
//	}
//
// # Pipeline
//
// [Scan] turns source text into tokens, [Parse] builds a [RootNode], and
// [TransformRoot] evaluates every parameter with [Evaluate] and returns a
// [Geometry] tree rooted at an implicit union. Every AST node carries an
// [Interval] so that [FunctionAt] can map a cursor offset back to the
// function under it.
//
// Lexical and syntax errors are returned as [*Error] values wrapping
// [ErrLex] or [ErrParse]; both carry the offending [Interval].
package lang
