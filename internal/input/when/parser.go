package when

import (
	"strconv"
	"strings"
)

// Parse parses a when clause into an Expr.
//
// Empty or blank input is a syntax error; callers represent an absent
// clause as a nil Expr without calling Parse. Errors match ErrSyntax.
func Parse(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &SyntaxError{Input: text, Message: "empty expression"}
	}

	toks, err := lex(text)
	if err != nil {
		return nil, err
	}

	p := &parser{input: text, toks: toks}
	e, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, p.errorf(tok, "unexpected "+tok.kind.String())
	}
	return e, nil
}

// ParseOptional parses text, returning a nil Expr for a blank clause.
func ParseOptional(text string) (Expr, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	return Parse(text)
}

// MustParse parses a when clause and panics on error.
// Use only for known-valid clauses in initialization code and tests.
func MustParse(text string) Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err.Error())
	}
	return e
}

type parser struct {
	input string
	toks  []token
	pos   int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, msg string) error {
	return &SyntaxError{Input: p.input, Pos: tok.pos, Message: msg}
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokOr {
		p.next()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.peek().kind == tokAnd {
		p.next()
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &And{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseCompare() (Expr, error) {
	leftTok := p.peek()
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	var op CompareOp
	switch p.peek().kind {
	case tokEqual:
		op = OpEqual
	case tokNotEqual:
		op = OpNotEqual
	default:
		return left, nil
	}
	opTok := p.next()

	rightTok := p.peek()
	right, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	if !isOperand(left) {
		return nil, p.errorf(leftTok, "comparison operand must be an identifier or literal")
	}
	if !isOperand(right) {
		return nil, p.errorf(rightTok, "comparison operand must be an identifier or literal")
	}
	_, leftIdent := left.(*Ident)
	_, rightIdent := right.(*Ident)
	if !leftIdent && !rightIdent {
		return nil, p.errorf(opTok, "comparison needs at least one identifier")
	}
	return &Compare{Op: op, Left: left, Right: right}, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.peek().kind == tokNot {
		p.next()
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Not{X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokIdent:
		return &Ident{Name: tok.text}, nil
	case tokString:
		return &Literal{Kind: LitString, Text: tok.text}, nil
	case tokNumber:
		n, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid number "+strconv.Quote(tok.text))
		}
		return &Literal{Kind: LitNumber, Text: tok.text, Number: n}, nil
	case tokTrue:
		return &Literal{Kind: LitBool, Bool: true}, nil
	case tokFalse:
		return &Literal{Kind: LitBool, Bool: false}, nil
	case tokLParen:
		e, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, p.errorf(closing, "expected ')', found "+closing.kind.String())
		}
		return e, nil
	case tokEOF:
		return nil, p.errorf(tok, "unexpected end of input")
	default:
		return nil, p.errorf(tok, "unexpected "+tok.kind.String())
	}
}

func isOperand(e Expr) bool {
	switch e.(type) {
	case *Ident, *Literal:
		return true
	default:
		return false
	}
}
