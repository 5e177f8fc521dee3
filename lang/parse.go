package lang

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/sdfc/log"
)

// Warning is a non-fatal diagnostic recorded while parsing.
type Warning struct {
	Message  string   `json:"message"  yaml:"message"`
	Interval Interval `json:"interval" yaml:"interval"`
}

// Option configures a [Parser].
type Option func(*Parser)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// WithStrictParams rejects a function call that names the same parameter
// more than once. By default the later value wins and a [Warning] is
// recorded.
func WithStrictParams(strict bool) Option {
	return func(p *Parser) {
		p.strict = strict
	}
}

// WithWarnings registers fn to receive each [Warning] as it is recorded.
func WithWarnings(fn func(Warning)) Option {
	return func(p *Parser) {
		p.onWarning = fn
	}
}

// Parser builds an AST from a token sequence using recursive descent with a
// single token of lookahead. Each Parser owns its cursor.
type Parser struct {
	logger    log.Logger
	onWarning func(Warning)
	tokens    []Token
	warnings  []Warning
	tok       Token
	pos       int
	strict    bool
}

// NewParser returns a Parser over tokens. If tokens does not end with
// [KindEOF], reading past the end yields an EOF token.
func NewParser(tokens []Token, opts ...Option) *Parser {
	p := &Parser{tokens: tokens}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Parse scans and parses source, returning the root of its AST.
func Parse(ctx context.Context, source string, opts ...Option) (*RootNode, error) {
	tokens, err := Scan(source)
	if err != nil {
		return nil, err
	}

	return NewParser(tokens, opts...).Parse(ctx)
}

// Warnings returns the diagnostics recorded by the most recent call to
// [Parser.Parse].
func (p *Parser) Warnings() []Warning { return p.warnings }

// Parse consumes the token sequence and returns the document root.
// No partial tree is returned on error.
func (p *Parser) Parse(ctx context.Context) (*RootNode, error) {
	p.pos = 0
	p.warnings = nil
	p.advance()

	p.logger.TraceContext(ctx, "parse start",
		slog.Int("token_count", len(p.tokens)),
		slog.Bool("strict_params", p.strict),
	)

	root := &RootNode{Interval: emptyInterval}

	for {
		fn, err := p.parseFunction()
		if err != nil {
			p.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

			return nil, err
		}

		root.Operands = append(root.Operands, fn)
		root.Interval = root.Interval.Union(fn.Interval)

		if p.tok.Kind == KindEOF {
			break
		}
	}

	for _, w := range p.warnings {
		p.logger.WarnContext(ctx, w.Message,
			log.Interval("interval", w.Interval.Min, w.Interval.Max),
		)
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.Int("function_count", len(root.Operands)),
		slog.Int("warning_count", len(p.warnings)),
	)

	return root, nil
}

func (p *Parser) advance() {
	if p.pos < len(p.tokens) {
		p.tok = p.tokens[p.pos]
	} else {
		end := 0
		if n := len(p.tokens); n > 0 {
			end = p.tokens[n-1].Interval.Max
		}

		p.tok = Token{Kind: KindEOF, Interval: Interval{Min: end, Max: end}}
	}

	p.pos++
}

func (p *Parser) errorf(msg string) *Error {
	return parseError(msg, p.tok.Interval)
}

func (p *Parser) warn(msg string, iv Interval) {
	w := Warning{Message: msg, Interval: iv}
	p.warnings = append(p.warnings, w)

	if p.onWarning != nil {
		p.onWarning(w)
	}
}

// parseFunction parses IDENTIFIER [ '(' paramList? ')' ] [ '{' function* '}' ].
func (p *Parser) parseFunction() (*FunctionNode, error) {
	if p.tok.Kind != KindIdentifier {
		return nil, p.errorf("expecting function name, got " + p.tok.Kind.String() + " instead")
	}

	fn := &FunctionNode{
		Name:       p.tok.Value,
		Parameters: make(map[string]Node),
		Interval:   p.tok.Interval,
	}

	p.advance()

	if p.tok.Kind == KindLParen {
		if err := p.parseParams(fn); err != nil {
			return nil, err
		}
	}

	if p.tok.Kind == KindLBrace {
		if err := p.parseOperands(fn); err != nil {
			return nil, err
		}
	}

	return fn, nil
}

func (p *Parser) parseParams(fn *FunctionNode) error {
	p.advance() // '('

	for p.tok.Kind != KindRParen {
		if p.tok.Kind != KindIdentifier {
			return p.errorf("expecting parameter name, got " + p.tok.Kind.String() + " instead")
		}

		nameTok := p.tok

		p.advance()

		if p.tok.Kind != KindAssign {
			return p.errorf("expecting = after parameter name, got " + p.tok.Kind.String() + " instead")
		}

		p.advance()

		expr, err := p.parseExpression()
		if err != nil {
			return err
		}

		if f := findFunction(expr); f != nil {
			return parseError(
				"parameter expression must be arithmetic, found function "+f.Name,
				f.Interval,
			)
		}

		if _, dup := fn.Parameters[nameTok.Value]; dup {
			msg := "duplicate parameter " + strconv.Quote(nameTok.Value) + " in " + fn.Name
			if p.strict {
				return parseError(msg, nameTok.Interval)
			}

			p.warn(msg, nameTok.Interval)
		} else {
			fn.Order = append(fn.Order, nameTok.Value)
		}

		fn.Parameters[nameTok.Value] = expr
		fn.Interval = fn.Interval.Union(expr.Span())

		if p.tok.Kind != KindRParen && p.tok.Kind != KindComma {
			return p.errorf("expecting closing ) or , argument separator")
		}

		if p.tok.Kind == KindComma {
			p.advance()
		}
	}

	fn.Interval = fn.Interval.Union(p.tok.Interval)
	p.advance() // ')'

	return nil
}

func (p *Parser) parseOperands(fn *FunctionNode) error {
	p.advance() // '{'

	for p.tok.Kind != KindRBrace {
		if p.tok.Kind == KindEOF {
			return p.errorf("expecting closing }")
		}

		operand, err := p.parseExpression()
		if err != nil {
			return err
		}

		child, ok := operand.(*FunctionNode)
		if !ok {
			return parseError(
				"all operands of geometry functions should be geometry functions, this one is "+describe(operand),
				operand.Span(),
			)
		}

		fn.Operands = append(fn.Operands, child)
		fn.Interval = fn.Interval.Union(child.Interval)

		if p.tok.Kind == KindEOF {
			return p.errorf("expecting closing }")
		}
	}

	fn.Interval = fn.Interval.Union(p.tok.Interval)
	p.advance() // '}'

	return nil
}

// parseExpression parses term (('+'|'-') term)*.
func (p *Parser) parseExpression() (Node, error) {
	node, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == KindPlus || p.tok.Kind == KindMinus {
		op := p.tok

		p.advance()

		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}

		node = newOperator(op, node, rhs)
	}

	return node, nil
}

// parseTerm parses factor (('*'|'/') factor)*.
func (p *Parser) parseTerm() (Node, error) {
	node, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	for p.tok.Kind == KindStar || p.tok.Kind == KindSlash {
		op := p.tok

		p.advance()

		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}

		node = newOperator(op, node, rhs)
	}

	return node, nil
}

// parseFactor parses number | '(' expression ')' | function.
func (p *Parser) parseFactor() (Node, error) {
	switch p.tok.Kind {
	case KindNumber, KindPlus, KindMinus:
		return p.parseNumber()

	case KindLParen:
		p.advance()

		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if p.tok.Kind != KindRParen {
			return nil, p.errorf("expecting closing )")
		}

		p.advance()

		return inner, nil

	case KindIdentifier:
		return p.parseFunction()

	default:
		return nil, p.errorf("unexpected token: " + p.tok.Kind.String())
	}
}

// parseNumber parses ('+'|'-')? NUMBER.
func (p *Parser) parseNumber() (Node, error) {
	iv := p.tok.Interval
	sign := 1.0

	if p.tok.Kind == KindPlus || p.tok.Kind == KindMinus {
		if p.tok.Kind == KindMinus {
			sign = -1
		}

		p.advance()
	}

	if p.tok.Kind != KindNumber {
		return nil, p.errorf("unexpected token: " + p.tok.Kind.String())
	}

	// The lexer only admits digit runs, so the only possible failure is a
	// range error, for which ParseFloat still returns ±Inf.
	v, _ := strconv.ParseFloat(p.tok.Value, 64)

	node := &NumberNode{Value: sign * v, Interval: iv.Union(p.tok.Interval)}

	p.advance()

	return node, nil
}

func newOperator(op Token, lhs, rhs Node) *OperatorNode {
	return &OperatorNode{
		Op:       op.Kind,
		Operands: [2]Node{lhs, rhs},
		Interval: lhs.Span().Union(op.Interval).Union(rhs.Span()),
	}
}

// findFunction returns the first function node within an expression tree.
func findFunction(n Node) *FunctionNode {
	switch n := n.(type) {
	case *FunctionNode:
		return n
	case *OperatorNode:
		if f := findFunction(n.Operands[0]); f != nil {
			return f
		}

		return findFunction(n.Operands[1])
	default:
		return nil
	}
}
