package expr

import (
	"strconv"
	"strings"

	"github.com/roach88/fieldgate/internal/ir"
)

// tokenType identifies a lexical token. The lexer deliberately
// recognizes more than the grammar accepts: tokens like '.', '=', and
// the bitwise operators are scanned so the parser can reject them as
// unsupported constructs instead of reporting a bare syntax error.
type tokenType int

const (
	tokEOF tokenType = iota
	tokNumber
	tokString
	tokIdent
	tokTrue
	tokFalse
	tokNull
	tokAnd
	tokOr
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokPow
	tokEq
	tokNe
	tokLt
	tokLe
	tokGt
	tokGe
	tokLParen
	tokRParen
	tokLSquare
	tokRSquare
	tokComma

	// Recognized but always rejected by the parser.
	tokAssign
	tokDot
	tokBitwise
	tokKeyword
	tokPunct
)

type token struct {
	typ  tokenType
	text string
	lit  ir.Value // set for tokNumber and tokString
	pos  int
}

// maxTokens bounds expression size against adversarial input.
const maxTokens = 512

// keywords maps reserved identifiers to their token types.
var keywords = map[string]tokenType{
	"and":   tokAnd,
	"or":    tokOr,
	"true":  tokTrue,
	"false": tokFalse,
	"null":  tokNull,
}

// rejectedKeywords are control-flow and operator keywords the grammar
// excludes. Lexing them as distinct tokens lets the parser name them
// in UNSUPPORTED_CONSTRUCT errors.
var rejectedKeywords = map[string]bool{
	"not": true, "in": true, "is": true,
	"if": true, "else": true, "elif": true,
	"for": true, "while": true,
	"lambda": true, "def": true, "class": true,
	"import": true, "from": true, "return": true,
	"yield": true, "with": true, "try": true, "except": true,
	"raise": true, "assert": true, "del": true, "pass": true,
	"global": true, "nonlocal": true, "async": true, "await": true,
}

type lexer struct {
	src string
	cur int
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

// scan tokenizes the whole expression.
func scan(src string) ([]token, error) {
	l := &lexer{src: src}
	var toks []token

	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.typ == tokEOF {
			return toks, nil
		}
		if len(toks) > maxTokens {
			return nil, newError(KindTooLarge, t.pos, "expression exceeds %d tokens", maxTokens)
		}
	}
}

func (l *lexer) next() (token, error) {
	for l.cur < len(l.src) && (l.src[l.cur] == ' ' || l.src[l.cur] == '\t' || l.src[l.cur] == '\n' || l.src[l.cur] == '\r') {
		l.cur++
	}
	if l.cur >= len(l.src) {
		return token{typ: tokEOF, pos: l.cur}, nil
	}

	start := l.cur
	b := l.src[l.cur]

	switch {
	case isDigit(b):
		return l.scanNumber()
	case isAlpha(b):
		return l.scanIdentifier()
	case b == '\'' || b == '"':
		return l.scanString(b)
	}

	one := func(t tokenType) (token, error) {
		l.cur++
		return token{typ: t, text: l.src[start:l.cur], pos: start}, nil
	}
	two := func(t tokenType) (token, error) {
		l.cur += 2
		return token{typ: t, text: l.src[start:l.cur], pos: start}, nil
	}
	peekIs := func(c byte) bool {
		return l.cur+1 < len(l.src) && l.src[l.cur+1] == c
	}

	switch b {
	case '+':
		return one(tokPlus)
	case '-':
		return one(tokMinus)
	case '*':
		if peekIs('*') {
			return two(tokPow)
		}
		return one(tokStar)
	case '/':
		if peekIs('/') {
			// Floor division is outside the grammar.
			return two(tokBitwise)
		}
		return one(tokSlash)
	case '%':
		return one(tokPercent)
	case '=':
		if peekIs('=') {
			return two(tokEq)
		}
		return one(tokAssign)
	case '!':
		if peekIs('=') {
			return two(tokNe)
		}
		return token{}, newError(KindSyntax, start, "unexpected character %q", string(b))
	case '<':
		if peekIs('=') {
			return two(tokLe)
		}
		if peekIs('<') {
			return two(tokBitwise)
		}
		return one(tokLt)
	case '>':
		if peekIs('=') {
			return two(tokGe)
		}
		if peekIs('>') {
			return two(tokBitwise)
		}
		return one(tokGt)
	case '(':
		return one(tokLParen)
	case ')':
		return one(tokRParen)
	case '[':
		return one(tokLSquare)
	case ']':
		return one(tokRSquare)
	case ',':
		return one(tokComma)
	case '.':
		return one(tokDot)
	case '&', '|', '^', '~':
		return one(tokBitwise)
	case ':', ';':
		// Statement punctuation. Lexed so that inputs like "lambda: 1"
		// reach the parser and fail on the keyword, not the colon.
		return one(tokPunct)
	default:
		return token{}, newError(KindSyntax, start, "unexpected character %q", string(b))
	}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.cur
	for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
		l.cur++
	}
	isFloat := false
	if l.cur < len(l.src) && l.src[l.cur] == '.' {
		// A digit must follow; "1." alone is malformed and "1.x" is
		// attribute access on a literal, which the parser rejects.
		if l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1]) {
			isFloat = true
			l.cur++
			for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
				l.cur++
			}
		}
	}
	if l.cur < len(l.src) && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		mark := l.cur
		l.cur++
		if l.cur < len(l.src) && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.cur++
		}
		if l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			isFloat = true
			for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
				l.cur++
			}
		} else {
			// "1e" with no exponent digits: rewind, let "e..." lex as
			// an identifier and fail downstream.
			l.cur = mark
		}
	}

	text := l.src[start:l.cur]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, newError(KindSyntax, start, "invalid number %q", text)
		}
		return token{typ: tokNumber, text: text, lit: ir.Float(f), pos: start}, nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return token{}, newError(KindSyntax, start, "invalid number %q", text)
	}
	return token{typ: tokNumber, text: text, lit: ir.Int(n), pos: start}, nil
}

func (l *lexer) scanIdentifier() (token, error) {
	start := l.cur
	for l.cur < len(l.src) && isAlphaNum(l.src[l.cur]) {
		l.cur++
	}
	text := l.src[start:l.cur]

	if t, ok := keywords[text]; ok {
		return token{typ: t, text: text, pos: start}, nil
	}
	if rejectedKeywords[text] {
		return token{typ: tokKeyword, text: text, pos: start}, nil
	}
	return token{typ: tokIdent, text: text, pos: start}, nil
}

func (l *lexer) scanString(quote byte) (token, error) {
	start := l.cur
	l.cur++ // opening quote

	var sb strings.Builder
	for l.cur < len(l.src) {
		b := l.src[l.cur]
		switch b {
		case quote:
			l.cur++
			return token{typ: tokString, text: l.src[start:l.cur], lit: ir.String(sb.String()), pos: start}, nil
		case '\\':
			if l.cur+1 >= len(l.src) {
				return token{}, newError(KindSyntax, start, "unterminated string")
			}
			l.cur++
			switch l.src[l.cur] {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case '\\', '\'', '"':
				sb.WriteByte(l.src[l.cur])
			default:
				return token{}, newError(KindSyntax, l.cur, "invalid escape %q", string(l.src[l.cur]))
			}
			l.cur++
		default:
			sb.WriteByte(b)
			l.cur++
		}
	}
	return token{}, newError(KindSyntax, start, "unterminated string")
}
