package formula

import "math"

// call dispatches a function call by name. Aggregates take a flat numeric
// list collected from arguments and expansions; ABS and ROUND are scalar
// functions with fixed arity, available in the A1 variant only (the
// named-column parser never lets them through). Unknown names are an
// evaluation-time error here; the named-column parser has already
// rejected them at parse time.
func (e *evaluator) call(n *CallNode) (Value, error) {
	switch n.Name {
	case "SUM":
		values, err := e.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		return aggSum(values), nil

	case "AVERAGE", "AVG":
		values, err := e.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		return aggAverage(values), nil

	case "COUNT":
		values, err := e.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		// a count is a cardinality, never a currency or percent
		return Value{Number: float64(len(values)), Format: FormatPlain}, nil

	case "MIN":
		values, err := e.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		return aggMin(values), nil

	case "MAX":
		values, err := e.evalArgs(n.Args)
		if err != nil {
			return Value{}, err
		}
		return aggMax(values), nil

	case "ABS":
		if len(n.Args) != 1 {
			return Value{}, newEvalError(KindArity, "ABS requires exactly 1 argument, got %d", len(n.Args))
		}
		val, err := e.eval(n.Args[0])
		if err != nil {
			return Value{}, err
		}
		return Value{Number: math.Abs(val.Number), Format: val.Format}, nil

	case "ROUND":
		if len(n.Args) < 1 || len(n.Args) > 2 {
			return Value{}, newEvalError(KindArity, "ROUND requires 1 or 2 arguments, got %d", len(n.Args))
		}
		val, err := e.eval(n.Args[0])
		if err != nil {
			return Value{}, err
		}
		decimals := 0.0
		if len(n.Args) == 2 {
			d, err := e.eval(n.Args[1])
			if err != nil {
				return Value{}, err
			}
			decimals = d.Number
		}
		// scale, round half away from zero, unscale
		multiplier := math.Pow(10, math.Trunc(decimals))
		return Value{Number: math.Round(val.Number*multiplier) / multiplier, Format: val.Format}, nil

	default:
		return Value{}, newEvalError(KindParse, "unknown function %q", n.Name)
	}
}

// Every aggregate yields 0 on empty input: defined, not an error, never
// NaN. Formats merge across all operands.

func aggSum(values []Value) Value {
	result := Value{}
	for _, v := range values {
		result.Number += v.Number
		result.Format = mergeFormat(result.Format, v.Format)
	}
	return result
}

func aggAverage(values []Value) Value {
	if len(values) == 0 {
		return Value{}
	}
	sum := aggSum(values)
	return Value{Number: sum.Number / float64(len(values)), Format: sum.Format}
}

func aggMin(values []Value) Value {
	if len(values) == 0 {
		return Value{}
	}
	result := values[0]
	for _, v := range values[1:] {
		if v.Number < result.Number {
			result.Number = v.Number
		}
		result.Format = mergeFormat(result.Format, v.Format)
	}
	return result
}

func aggMax(values []Value) Value {
	if len(values) == 0 {
		return Value{}
	}
	result := values[0]
	for _, v := range values[1:] {
		if v.Number > result.Number {
			result.Number = v.Number
		}
		result.Format = mergeFormat(result.Format, v.Format)
	}
	return result
}
