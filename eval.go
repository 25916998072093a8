package formula

// resolver is the pluggable reference-resolution strategy that separates
// the A1 cell evaluator from the two named-column modes. The tree walk,
// operator semantics, coercion, and format merging are identical across
// all three; only how references and bulk expansions resolve differs.
type resolver interface {
	// resolveRef resolves a scalar reference (*CellNode or *ColumnNode)
	resolveRef(n Node) (Value, error)
	// expandRange expands an A1 rectangle into its numeric cell values
	expandRange(n *RangeNode) ([]Value, error)
	// expandAggregateSelf expands the {column} placeholder
	expandAggregateSelf(n *AggregateSelfNode) ([]Value, error)
}

// evaluator is a pure recursive tree-walker. It holds no mutable state
// across calls and performs no memoization; every evaluation is a single
// depth-first descent that halts at the first error.
type evaluator struct {
	res resolver
}

func (e *evaluator) eval(n Node) (Value, error) {
	switch node := n.(type) {
	case *NumberNode:
		return Value{Number: node.Value}, nil

	case *CellNode:
		return e.res.resolveRef(node)

	case *ColumnNode:
		return e.res.resolveRef(node)

	case *GroupNode:
		return e.eval(node.Expr)

	case *UnaryNode:
		val, err := e.eval(node.Operand)
		if err != nil {
			return Value{}, err
		}
		return Value{Number: -val.Number, Format: val.Format}, nil

	case *BinaryNode:
		return e.evalBinary(node)

	case *CallNode:
		return e.call(node)

	case *RangeNode:
		return Value{}, newEvalError(KindParse, "range %s can only be used as a function argument", node)

	case *AggregateSelfNode:
		return Value{}, newEvalError(KindParse, `the {column} placeholder can only be used inside a function call`)

	default:
		return Value{}, newEvalError(KindOther, "unknown expression node")
	}
}

func (e *evaluator) evalBinary(n *BinaryNode) (Value, error) {
	left, err := e.eval(n.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := e.eval(n.Right)
	if err != nil {
		return Value{}, err
	}

	format := mergeFormat(left.Format, right.Format)

	switch n.Op {
	case OpAdd:
		return Value{Number: left.Number + right.Number, Format: format}, nil
	case OpSubtract:
		return Value{Number: left.Number - right.Number, Format: format}, nil
	case OpMultiply:
		return Value{Number: left.Number * right.Number, Format: format}, nil
	case OpDivide:
		if right.Number == 0 {
			return Value{}, newEvalError(KindArithmetic, "division by zero")
		}
		return Value{Number: left.Number / right.Number, Format: format}, nil
	default:
		return Value{}, newEvalError(KindOther, "unknown operator")
	}
}

// evalArgs evaluates function arguments into a flat list of values. Range
// and {column} arguments expand to all their values; everything else
// contributes a single scalar.
func (e *evaluator) evalArgs(args []Node) ([]Value, error) {
	values := make([]Value, 0, len(args))
	for _, arg := range args {
		switch node := arg.(type) {
		case *RangeNode:
			expanded, err := e.res.expandRange(node)
			if err != nil {
				return nil, err
			}
			values = append(values, expanded...)
		case *AggregateSelfNode:
			expanded, err := e.res.expandAggregateSelf(node)
			if err != nil {
				return nil, err
			}
			values = append(values, expanded...)
		default:
			val, err := e.eval(arg)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
	}
	return values, nil
}

// EvalCell evaluates a parsed A1-style formula against a context. The AST
// may be reused across any number of calls and contexts.
func EvalCell(ast Node, ctx *EvalContext) (v Value, err error) {
	defer recoverGuard(&err)
	e := &evaluator{res: &cellResolver{ctx: ctx}}
	v, err = e.eval(ast)
	if err != nil {
		return Value{}, asEvalError(err)
	}
	return v, nil
}

// EvalColumn evaluates a parsed named-column formula in column-formula
// mode: once against a single row, producing that row's value.
func EvalColumn(ast Node, ctx *EvalContext, row Row) (v Value, err error) {
	defer recoverGuard(&err)
	e := &evaluator{res: &columnRowResolver{ctx: ctx, row: row}}
	v, err = e.eval(ast)
	if err != nil {
		return Value{}, asEvalError(err)
	}
	return v, nil
}

// EvalRow evaluates a parsed named-column formula in row-formula mode:
// once for the named target column, aggregating across all rows of the
// current sheet. column may be a column key or label.
func EvalRow(ast Node, ctx *EvalContext, column string) (v Value, err error) {
	defer recoverGuard(&err)
	key, ok := ctx.resolveColumnName(column)
	if !ok {
		return Value{}, newEvalError(KindResolution, "unknown column %q", column)
	}
	e := &evaluator{res: &rowAggregateResolver{ctx: ctx, columnKey: key}}
	v, err = e.eval(ast)
	if err != nil {
		return Value{}, asEvalError(err)
	}
	return v, nil
}

// EvaluateCellFormula parses and evaluates an A1-style formula in one
// step. Callers evaluating the same formula repeatedly should parse once
// with ParseCellFormula and use EvalCell instead.
func EvaluateCellFormula(input string, ctx *EvalContext) (v Value, err error) {
	defer recoverGuard(&err)
	ast, _, err := ParseCellFormula(input)
	if err != nil {
		return Value{}, err
	}
	return EvalCell(ast, ctx)
}

// EvaluateColumnFormula parses and evaluates a named-column formula
// against a single row (column-formula mode).
func EvaluateColumnFormula(input string, ctx *EvalContext, row Row) (v Value, err error) {
	defer recoverGuard(&err)
	ast, _, err := ParseColumnFormula(input)
	if err != nil {
		return Value{}, err
	}
	return EvalColumn(ast, ctx, row)
}

// EvaluateRowFormula parses and evaluates a named-column formula as a
// per-column aggregate (row-formula mode).
func EvaluateRowFormula(input string, ctx *EvalContext, column string) (v Value, err error) {
	defer recoverGuard(&err)
	ast, _, err := ParseColumnFormula(input)
	if err != nil {
		return Value{}, err
	}
	return EvalRow(ast, ctx, column)
}
