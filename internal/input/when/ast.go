package when

// Expr is a parsed when clause. A nil Expr means "always true".
//
// The concrete node types are *Ident, *Literal, *Not, *Compare, *And and
// *Or. Nodes are immutable once parsed.
type Expr interface {
	exprNode()
}

// Ident references a context key.
type Ident struct {
	Name string
}

// LiteralKind distinguishes literal value types.
type LiteralKind uint8

const (
	// LitString is a quoted string literal.
	LitString LiteralKind = iota
	// LitNumber is a numeric literal.
	LitNumber
	// LitBool is true or false.
	LitBool
)

// Literal is a constant value.
type Literal struct {
	Kind LiteralKind

	// Text is the string value for LitString, and the source spelling for
	// LitNumber.
	Text string

	// Number is the value of a LitNumber.
	Number float64

	// Bool is the value of a LitBool.
	Bool bool
}

// Not negates its operand.
type Not struct {
	X Expr
}

// CompareOp is a comparison operator.
type CompareOp uint8

const (
	// OpEqual is "==".
	OpEqual CompareOp = iota
	// OpNotEqual is "!=".
	OpNotEqual
)

// String returns the operator's source spelling.
func (op CompareOp) String() string {
	if op == OpNotEqual {
		return "!="
	}
	return "=="
}

// Compare tests two operands for equality. Left and Right are always
// *Ident or *Literal, and at least one of them is an *Ident.
type Compare struct {
	Op    CompareOp
	Left  Expr
	Right Expr
}

// And is a short-circuit conjunction.
type And struct {
	Left  Expr
	Right Expr
}

// Or is a short-circuit disjunction.
type Or struct {
	Left  Expr
	Right Expr
}

func (*Ident) exprNode()   {}
func (*Literal) exprNode() {}
func (*Not) exprNode()     {}
func (*Compare) exprNode() {}
func (*And) exprNode()     {}
func (*Or) exprNode()      {}

// Specificity returns the number of atomic conditions in e: each
// identifier test and each comparison counts once. A nil expression has
// specificity zero.
func Specificity(e Expr) int {
	switch n := e.(type) {
	case *Ident:
		return 1
	case *Compare:
		return 1
	case *Not:
		return Specificity(n.X)
	case *And:
		return Specificity(n.Left) + Specificity(n.Right)
	case *Or:
		return Specificity(n.Left) + Specificity(n.Right)
	default:
		return 0
	}
}

// Keys returns the distinct context keys referenced by e, in order of
// first appearance.
func Keys(e Expr) []string {
	var keys []string
	seen := make(map[string]bool)
	var walk func(Expr)
	walk = func(e Expr) {
		switch n := e.(type) {
		case *Ident:
			if !seen[n.Name] {
				seen[n.Name] = true
				keys = append(keys, n.Name)
			}
		case *Not:
			walk(n.X)
		case *Compare:
			walk(n.Left)
			walk(n.Right)
		case *And:
			walk(n.Left)
			walk(n.Right)
		case *Or:
			walk(n.Left)
			walk(n.Right)
		}
	}
	walk(e)
	return keys
}
