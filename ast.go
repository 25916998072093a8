package formula

import (
	"strconv"
	"strings"
)

// BinaryOp represents binary operators in AST nodes
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSubtract
	OpMultiply
	OpDivide
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	}
	return "?"
}

// NodePosition is a half-open byte span in the formula source
type NodePosition struct {
	Start int
	End   int
}

// Node is one vertex of a parsed formula tree. An AST is a pure function
// of its source text: built once, immutable, and safe to evaluate any
// number of times against different contexts. String returns a canonical
// text form that reparses to a structurally equivalent tree, which also
// makes it usable as a deduplication key.
type Node interface {
	Position() NodePosition
	String() string
}

// NumberNode is a numeric literal
type NumberNode struct {
	Value float64
	Pos   NodePosition
}

func (n *NumberNode) Position() NodePosition { return n.Pos }

func (n *NumberNode) String() string {
	// shortest decimal form, never exponent notation: the lexers do not
	// accept exponents, and the canonical form must reparse
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// CellNode is an A1-style cell reference
type CellNode struct {
	Ref CellRef
	Pos NodePosition
}

func (n *CellNode) Position() NodePosition { return n.Pos }

func (n *CellNode) String() string { return n.Ref.String() }

// RangeNode is a rectangular A1-style range. Start and End are the corners
// as written; normalization to top-left/bottom-right happens at evaluation
// so that A1:B2 and B2:A1 stay distinct in source form yet evaluate
// identically.
type RangeNode struct {
	Sheet string
	Start CellRef
	End   CellRef
	Pos   NodePosition
}

func (n *RangeNode) Position() NodePosition { return n.Pos }

func (n *RangeNode) String() string {
	var b strings.Builder
	if n.Sheet != "" {
		b.WriteByte('\'')
		b.WriteString(n.Sheet)
		b.WriteString("'!")
	}
	b.WriteString(n.Start.String())
	b.WriteByte(':')
	b.WriteString(n.End.String())
	return b.String()
}

// ColumnNode is a named-column reference such as {Revenue} or
// {Jan.Revenue}. Display preserves the raw text as written.
type ColumnNode struct {
	Sheet   string // optional sheet label, before the first dot
	Name    string // column label or key
	Display string
	Pos     NodePosition
}

func (n *ColumnNode) Position() NodePosition { return n.Pos }

func (n *ColumnNode) String() string {
	if n.Sheet != "" {
		return "{" + n.Sheet + "." + n.Name + "}"
	}
	return "{" + n.Name + "}"
}

// AggregateSelfNode is the parse-time form of the {column} placeholder in
// row formulas: aggregate over every value of the column currently being
// evaluated. Recognizing it during parsing keeps the two named reference
// kinds statically distinguishable instead of comparing strings at
// evaluation time.
type AggregateSelfNode struct {
	Pos NodePosition
}

func (n *AggregateSelfNode) Position() NodePosition { return n.Pos }

func (n *AggregateSelfNode) String() string { return "{column}" }

// BinaryNode is a binary arithmetic operation
type BinaryNode struct {
	Op    BinaryOp
	Left  Node
	Right Node
	Pos   NodePosition
}

func (n *BinaryNode) Position() NodePosition { return n.Pos }

func (n *BinaryNode) String() string {
	return n.Left.String() + n.Op.String() + n.Right.String()
}

// UnaryNode is a unary minus
type UnaryNode struct {
	Operand Node
	Pos     NodePosition
}

func (n *UnaryNode) Position() NodePosition { return n.Pos }

func (n *UnaryNode) String() string { return "-" + n.Operand.String() }

// CallNode is a function call with its arguments in source order
type CallNode struct {
	Name string
	Args []Node
	Pos  NodePosition
}

func (n *CallNode) Position() NodePosition { return n.Pos }

func (n *CallNode) String() string {
	args := make([]string, len(n.Args))
	for i, arg := range n.Args {
		args[i] = arg.String()
	}
	return n.Name + "(" + strings.Join(args, ",") + ")"
}

// GroupNode is a parenthesized subexpression, kept explicit so the printed
// form round-trips
type GroupNode struct {
	Expr Node
	Pos  NodePosition
}

func (n *GroupNode) Position() NodePosition { return n.Pos }

func (n *GroupNode) String() string { return "(" + n.Expr.String() + ")" }
