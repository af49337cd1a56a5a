package when

import (
	"strconv"
	"strings"
)

const (
	precOr = iota + 1
	precAnd
	precCompare
	precNot
	precAtom
)

// String renders e as clause text using the fewest parentheses that
// preserve its meaning. Strings are double-quoted. A nil expression renders
// as the empty string.
func String(e Expr) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	format(&b, e, 0)
	return b.String()
}

func precedence(e Expr) int {
	switch e.(type) {
	case *Or:
		return precOr
	case *And:
		return precAnd
	case *Compare:
		return precCompare
	case *Not:
		return precNot
	default:
		return precAtom
	}
}

// format writes e, wrapping it in parentheses when it binds looser than minPrec.
func format(b *strings.Builder, e Expr, minPrec int) {
	p := precedence(e)
	if p < minPrec {
		b.WriteByte('(')
		defer b.WriteByte(')')
	}

	switch n := e.(type) {
	case *Ident:
		b.WriteString(n.Name)
	case *Literal:
		switch n.Kind {
		case LitBool:
			b.WriteString(strconv.FormatBool(n.Bool))
		case LitNumber:
			if n.Text != "" {
				b.WriteString(n.Text)
			} else {
				b.WriteString(strconv.FormatFloat(n.Number, 'g', -1, 64))
			}
		default:
			b.WriteString(strconv.Quote(n.Text))
		}
	case *Not:
		b.WriteByte('!')
		format(b, n.X, precNot)
	case *Compare:
		// Operands are atoms; the grammar allows at most one comparison per
		// level, so both sides sit above precCompare.
		format(b, n.Left, precCompare+1)
		b.WriteString(" " + n.Op.String() + " ")
		format(b, n.Right, precCompare+1)
	case *And:
		format(b, n.Left, precAnd)
		b.WriteString(" && ")
		format(b, n.Right, precAnd+1)
	case *Or:
		format(b, n.Left, precOr)
		b.WriteString(" || ")
		format(b, n.Right, precOr+1)
	}
}
