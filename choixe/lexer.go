package choixe

import "strings"

// Lex tokenizes a directive-bearing string into a sequence of [Token].
//
// A directive starts at '$' followed by an identifier matching
// [A-Za-z_][A-Za-z0-9_]*. If the character immediately after the identifier
// is '(', the lexer consumes up to the matching ')' as a single flat
// region: nested parentheses outside of a quoted sub-string are rejected
// with [ErrUnsupportedNesting], and a region with no closing paren fails
// with [ErrUnterminatedCall]. Quote-awareness while scanning the call
// region is an implementation choice documented in DESIGN.md: it lets a
// quoted default value contain a literal '(' without tripping the nesting
// check.
//
// Text between directives, and a lone '$' not followed by an identifier,
// become TokPlain tokens. An entirely plain string yields exactly one
// TokPlain token; a single whole-string directive yields exactly one
// TokDirective token; anything interleaving the two yields two or more
// tokens, which the compiler turns into a BundleNode.
func Lex(s string) ([]Token, error) {
	runes := []rune(s)

	var (
		toks  []Token
		plain strings.Builder
	)

	flush := func() {
		if plain.Len() > 0 {
			toks = append(toks, Token{Kind: TokPlain, Text: plain.String()})
			plain.Reset()
		}
	}

	i := 0
	for i < len(runes) {
		if runes[i] != '$' {
			plain.WriteRune(runes[i])
			i++

			continue
		}

		j := i + 1
		if j >= len(runes) || !isIdentStart(runes[j]) {
			plain.WriteByte('$')
			i++

			continue
		}

		k := j + 1
		for k < len(runes) && isIdentPart(runes[k]) {
			k++
		}

		name := string(runes[j:k])

		if k < len(runes) && runes[k] == '(' {
			argText, end, err := scanCallRegion(runes, k+1)
			if err != nil {
				return nil, err
			}

			flush()
			toks = append(toks, Token{
				Kind: TokDirective, Name: name, Arg: argText, HasArgs: true,
			})
			i = end + 1

			continue
		}

		flush()
		toks = append(toks, Token{Kind: TokDirective, Name: name})
		i = k
	}

	flush()

	if len(toks) == 0 {
		toks = []Token{{Kind: TokPlain, Text: ""}}
	}

	return toks, nil
}

// scanCallRegion scans from start (just past the opening paren) to the
// matching closing paren, returning the raw argument text and the index of
// the closing paren itself.
func scanCallRegion(runes []rune, start int) (string, int, error) {
	pos := start

	var quote rune

	for pos < len(runes) {
		c := runes[pos]

		if quote != 0 {
			if c == '\\' && pos+1 < len(runes) {
				pos += 2

				continue
			}

			if c == quote {
				quote = 0
			}

			pos++

			continue
		}

		switch c {
		case '\'', '"':
			quote = c
			pos++

		case '(':
			return "", 0, ErrUnsupportedNesting.With(
				fieldSource(string(runes[start:])),
			)

		case ')':
			return string(runes[start:pos]), pos, nil

		default:
			pos++
		}
	}

	return "", 0, ErrUnterminatedCall.With(fieldSource(string(runes[start:])))
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// isDottedIdentifier reports whether s matches
// [A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*
func isDottedIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for _, part := range strings.Split(s, ".") {
		if part == "" || !isIdentStart(rune(part[0])) {
			return false
		}

		for i := 1; i < len(part); i++ {
			if !isIdentPart(rune(part[i])) {
				return false
			}
		}
	}

	return true
}
