package when

import (
	"strconv"
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokNumber
	tokTrue
	tokFalse
	tokNot
	tokEqual
	tokNotEqual
	tokAnd
	tokOr
	tokLParen
	tokRParen
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokTrue, tokFalse:
		return "boolean"
	case tokNot:
		return "'!'"
	case tokEqual:
		return "'=='"
	case tokNotEqual:
		return "'!='"
	case tokAnd:
		return "'&&'"
	case tokOr:
		return "'||'"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	default:
		return "token"
	}
}

type token struct {
	kind tokenKind
	text string
	pos  int
}

// lex splits a clause into tokens.
func lex(input string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(input) {
		c := input[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "(", i})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")", i})
			i++
		case c == '!':
			if strings.HasPrefix(input[i:], "!=") {
				toks = append(toks, token{tokNotEqual, "!=", i})
				i += 2
			} else {
				toks = append(toks, token{tokNot, "!", i})
				i++
			}
		case c == '=':
			if !strings.HasPrefix(input[i:], "==") {
				return nil, &SyntaxError{Input: input, Pos: i, Message: "expected '=='"}
			}
			toks = append(toks, token{tokEqual, "==", i})
			i += 2
		case c == '&':
			if !strings.HasPrefix(input[i:], "&&") {
				return nil, &SyntaxError{Input: input, Pos: i, Message: "expected '&&'"}
			}
			toks = append(toks, token{tokAnd, "&&", i})
			i += 2
		case c == '|':
			if !strings.HasPrefix(input[i:], "||") {
				return nil, &SyntaxError{Input: input, Pos: i, Message: "expected '||'"}
			}
			toks = append(toks, token{tokOr, "||", i})
			i += 2
		case c == '\'' || c == '"':
			tok, n, err := lexString(input, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			i += n
		case isDigit(c) || (c == '-' && i+1 < len(input) && isDigit(input[i+1])):
			n := lexNumber(input[i:])
			toks = append(toks, token{tokNumber, input[i : i+n], i})
			i += n
		case isIdentStart(c):
			n := 1
			for i+n < len(input) && isIdentPart(input[i+n]) {
				n++
			}
			text := input[i : i+n]
			kind := tokIdent
			switch text {
			case "true":
				kind = tokTrue
			case "false":
				kind = tokFalse
			}
			toks = append(toks, token{kind, text, i})
			i += n
		default:
			return nil, &SyntaxError{Input: input, Pos: i, Message: "unexpected character " + strconv.QuoteRune(rune(c))}
		}
	}
	toks = append(toks, token{tokEOF, "", len(input)})
	return toks, nil
}

// lexString reads a quoted string starting at input[start]. Single-quoted
// strings are raw; double-quoted strings accept Go escapes.
func lexString(input string, start int) (token, int, error) {
	quote := input[start]
	i := start + 1
	for i < len(input) {
		switch input[i] {
		case '\\':
			if quote == '"' {
				i += 2
				continue
			}
		case quote:
			raw := input[start : i+1]
			if quote == '\'' {
				return token{tokString, raw[1 : len(raw)-1], start}, len(raw), nil
			}
			s, err := strconv.Unquote(raw)
			if err != nil {
				return token{}, 0, &SyntaxError{Input: input, Pos: start, Message: "invalid string literal"}
			}
			return token{tokString, s, start}, len(raw), nil
		}
		i++
	}
	return token{}, 0, &SyntaxError{Input: input, Pos: start, Message: "unterminated string"}
}

// lexNumber returns the length of the number at the start of s.
func lexNumber(s string) int {
	n := 0
	if s[0] == '-' {
		n++
	}
	for n < len(s) && isDigit(s[n]) {
		n++
	}
	if n+1 < len(s) && s[n] == '.' && isDigit(s[n+1]) {
		n++
		for n < len(s) && isDigit(s[n]) {
			n++
		}
	}
	return n
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.' || c == '-' || c == ':'
}
