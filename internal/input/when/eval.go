package when

import "strconv"

// Evaluate reports whether e holds for the snapshot. A nil expression is
// always true. Evaluate never fails: missing keys and unsupported value
// types are treated as absent.
func Evaluate(e Expr, s Snapshot) bool {
	switch n := e.(type) {
	case nil:
		return true
	case *Ident:
		return s.Truthy(n.Name)
	case *Literal:
		switch n.Kind {
		case LitBool:
			return n.Bool
		case LitNumber:
			return n.Number != 0
		default:
			return n.Text != ""
		}
	case *Not:
		return !Evaluate(n.X, s)
	case *And:
		return Evaluate(n.Left, s) && Evaluate(n.Right, s)
	case *Or:
		return Evaluate(n.Left, s) || Evaluate(n.Right, s)
	case *Compare:
		eq := equalOperands(operand(n.Left, s), operand(n.Right, s))
		if n.Op == OpNotEqual {
			return !eq
		}
		return eq
	default:
		return false
	}
}

// operand returns the string form of a comparison operand.
func operand(e Expr, s Snapshot) string {
	switch n := e.(type) {
	case *Ident:
		v, _ := s.Lookup(n.Name)
		return v
	case *Literal:
		switch n.Kind {
		case LitBool:
			return strconv.FormatBool(n.Bool)
		case LitNumber:
			return strconv.FormatFloat(n.Number, 'g', -1, 64)
		default:
			return n.Text
		}
	default:
		return ""
	}
}

func equalOperands(a, b string) bool {
	if x, ok := parseNumber(a); ok {
		if y, ok := parseNumber(b); ok {
			return x == y
		}
	}
	return a == b
}
