package edit

import (
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/sdfc/lang"
)

// call describes the parameter list enclosing a cursor.
type call struct {
	name     string // geometry function name
	param    string // parameter name, or the partial name being typed
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside a parameter list
	inValue  bool   // true if cursor is right of the parameter's '='
}

// detectCall analyzes input to determine whether cursor lies inside the
// parameter list of a function call.
func detectCall(input string, cursor int) call {
	cursor = min(max(cursor, 0), len(input))

	// Scan backward for the unmatched '(' of the enclosing parameter list.
	// Braces never occur inside a parameter list.
	depth := 0
	open := -1

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				open = i

				break scan
			}

			depth--
		case '{', '}':
			break scan
		}
	}

	if open == -1 {
		return call{}
	}

	name := identBefore(input, open)
	if name == "" {
		return call{}
	}

	c := call{name: name, inCall: true}

	// Find the start of the current argument at depth 0.
	argStart := open + 1
	depth = 0

	for i, r := range input[open+1 : cursor] {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				c.argIndex++
				argStart = open + 1 + i + 1
			}
		}
	}

	arg := input[argStart:cursor]
	if eq := strings.IndexByte(arg, '='); eq >= 0 {
		c.inValue = true
		arg = arg[:eq]
	}

	c.param = strings.TrimSpace(arg)

	return c
}

// identBefore returns the identifier immediately preceding offset, skipping
// whitespace.
func identBefore(input string, offset int) string {
	end := offset

	for end > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:end])
		if !unicode.IsSpace(r) {
			break
		}

		end -= size
	}

	start := end

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		start -= size
	}

	return input[start:end]
}

// schemaOf returns the schema of the named geometry function. It reports
// false for names that are not recognized geometry functions.
func schemaOf(name string) (lang.Schema, bool) {
	if !slices.Contains(kindNames, name) {
		return lang.Schema{}, false
	}

	return lang.SchemaOf(lang.KindOf(name)), true
}

// renderSignatureHint renders the signature of a geometry function with the
// parameter under the cursor highlighted, followed by its summary.
func renderSignatureHint(schema lang.Schema, c call) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(schema.Kind.String()))

	if len(schema.Params) > 0 {
		current := slices.IndexFunc(schema.Params, func(p lang.Param) bool {
			return p.Name == c.param
		})

		if current < 0 && !c.inValue && c.param == "" && c.argIndex < len(schema.Params) {
			current = c.argIndex
		}

		b.WriteString(signatureStyle.Render("("))

		for i, p := range schema.Params {
			if i > 0 {
				b.WriteString(signatureStyle.Render(", "))
			}

			param := p.Name + "=" + strconv.FormatFloat(p.Default, 'g', -1, 64)

			if i == current {
				b.WriteString(currentParamStyle.Render(param))
			} else {
				b.WriteString(signatureStyle.Render(param))
			}
		}

		b.WriteString(signatureStyle.Render(")"))
	}

	if schema.Summary != "" {
		b.WriteString(hintStyle.Render("  " + schema.Summary))
	}

	return b.String()
}
