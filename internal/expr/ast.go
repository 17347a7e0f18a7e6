package expr

import "github.com/roach88/fieldgate/internal/ir"

// Node is a sealed interface over the closed set of syntax-tree node
// kinds. The evaluator type-switches over this set exhaustively; a
// construct that has no node kind here cannot be evaluated, so widening
// the grammar requires an explicit decision, not an accidental
// fallthrough.
type Node interface {
	node() // Sealed - only the kinds below implement it
}

// Op identifies an operator.
type Op string

const (
	OpAdd Op = "+"
	OpSub Op = "-"
	OpMul Op = "*"
	OpDiv Op = "/"
	OpMod Op = "%"
	OpPow Op = "**"

	OpEq Op = "=="
	OpNe Op = "!="
	OpLt Op = "<"
	OpLe Op = "<="
	OpGt Op = ">"
	OpGe Op = ">="

	OpAnd Op = "and"
	OpOr  Op = "or"
)

// Lit is a literal value: string, number, boolean, or null.
type Lit struct {
	Val ir.Value
	Pos int
}

func (*Lit) node() {}

// Name is a variable lookup by identifier.
type Name struct {
	Ident string
	Pos   int
}

func (*Name) node() {}

// List is a list literal: a fixed sequence of element expressions.
type List struct {
	Elems []Node
	Pos   int
}

func (*List) node() {}

// Unary is a prefix + or - applied to an operand.
type Unary struct {
	Op      Op
	Operand Node
	Pos     int
}

func (*Unary) node() {}

// Binary is an arithmetic operation on two operands.
type Binary struct {
	Op    Op
	Left  Node
	Right Node
	Pos   int
}

func (*Binary) node() {}

// BoolOp is a short-circuiting and/or. The right operand is only
// evaluated when the left does not decide the result.
type BoolOp struct {
	Op    Op
	Left  Node
	Right Node
	Pos   int
}

func (*BoolOp) node() {}

// Compare is a chained comparison: Left Ops[0] Rights[0] Ops[1]
// Rights[1] ... evaluated as a conjunction of pairwise comparisons,
// short-circuiting to false on the first failing pair.
type Compare struct {
	Left   Node
	Ops    []Op
	Rights []Node
	Pos    int
}

func (*Compare) node() {}

// Subscript is expr[key] with the key evaluated recursively.
type Subscript struct {
	Target Node
	Key    Node
	Pos    int
}

func (*Subscript) node() {}
