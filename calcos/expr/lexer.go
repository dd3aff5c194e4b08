package expr

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenType uint8

const (
	tokEOF tokenType = iota
	tokNumber
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokCaret
	tokLParen
	tokRParen
)

type token struct {
	typ   tokenType
	pos   int
	text  string
	value float64
}

// lexer produces tokens on demand; the parser pulls one at a time.
type lexer struct {
	src string
	off int
}

func (l *lexer) next() (token, error) {
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c == ' ' || c == '\t' {
			l.off++
			continue
		}
		break
	}
	if l.off >= len(l.src) {
		return token{typ: tokEOF, pos: l.off}, nil
	}

	pos := l.off
	c := l.src[l.off]

	switch c {
	case '+':
		l.off++
		return token{typ: tokPlus, pos: pos, text: "+"}, nil
	case '-':
		l.off++
		return token{typ: tokMinus, pos: pos, text: "-"}, nil
	case '*':
		l.off++
		return token{typ: tokStar, pos: pos, text: "*"}, nil
	case '/':
		l.off++
		return token{typ: tokSlash, pos: pos, text: "/"}, nil
	case '^':
		l.off++
		return token{typ: tokCaret, pos: pos, text: "^"}, nil
	case '(':
		l.off++
		return token{typ: tokLParen, pos: pos, text: "("}, nil
	case ')':
		l.off++
		return token{typ: tokRParen, pos: pos, text: ")"}, nil
	}

	if c >= '0' && c <= '9' || c == '.' {
		end := l.off
		for end < len(l.src) {
			d := l.src[end]
			if d >= '0' && d <= '9' || d == '.' {
				end++
				continue
			}
			break
		}
		text := l.src[l.off:end]
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, compileErrf(pos, "bad number %q", text)
		}
		l.off = end
		return token{typ: tokNumber, pos: pos, text: text, value: v}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	if unicode.IsLetter(r) {
		end := l.off + size
		for end < len(l.src) {
			r2, s2 := utf8.DecodeRuneInString(l.src[end:])
			if !unicode.IsLetter(r2) {
				break
			}
			end += s2
		}
		text := l.src[l.off:end]
		l.off = end
		return token{typ: tokIdent, pos: pos, text: text}, nil
	}

	return token{}, compileErrf(pos, "unknown character %q", string(r))
}
