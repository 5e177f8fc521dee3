package lang

//go:generate go tool stringer --linecomment --type Kind,GeometryKind --output kind_string.go

// Kind identifies the lexical class of a [Token].
type Kind int

const (
	KindEOF        Kind = iota // EOF
	KindNumber                 // NUMBER
	KindIdentifier             // IDENTIFIER
	KindPlus                   // +
	KindMinus                  // -
	KindStar                   // *
	KindSlash                  // /
	KindComma                  // ,
	KindLParen                 // (
	KindRParen                 // )
	KindLBrace                 // {
	KindRBrace                 // }
	KindAssign                 // =
)

// punctuation maps each single-character token to its kind.
var punctuation = map[byte]Kind{
	'+': KindPlus,
	'-': KindMinus,
	'*': KindStar,
	'/': KindSlash,
	',': KindComma,
	'(': KindLParen,
	')': KindRParen,
	'{': KindLBrace,
	'}': KindRBrace,
	'=': KindAssign,
}

// Token is a lexical unit with the source interval it was scanned from.
type Token struct {
	Value    string
	Interval Interval
	Kind     Kind
}

func (t Token) String() string {
	switch t.Kind {
	case KindNumber, KindIdentifier:
		return t.Kind.String() + "(" + t.Value + ")"
	default:
		return t.Kind.String()
	}
}
