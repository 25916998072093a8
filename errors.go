package formula

import "fmt"

// ErrorKind classifies evaluation failures. Every failure the engine can
// produce falls into exactly one of these kinds; none of them is ever
// raised as a panic past the exported entry points.
type ErrorKind uint8

const (
	KindLex        ErrorKind = 1 // malformed formula text
	KindParse      ErrorKind = 2 // unexpected token, unknown function
	KindResolution ErrorKind = 3 // unknown sheet/column, identity lookup miss
	KindConversion ErrorKind = 4 // non-empty value that is not a number
	KindArity      ErrorKind = 5 // wrong argument count
	KindArithmetic ErrorKind = 6 // division by zero
	KindOther      ErrorKind = 7 // unexpected runtime fault, recovered
)

// kindLabels maps error kinds to their display prefixes
var kindLabels = map[ErrorKind]string{
	KindLex:        "lex error",
	KindParse:      "parse error",
	KindResolution: "reference error",
	KindConversion: "conversion error",
	KindArity:      "arity error",
	KindArithmetic: "arithmetic error",
	KindOther:      "evaluation error",
}

// EvalError is the structured failure result for both surface syntaxes.
// Pos is a byte offset into the formula text, or -1 when the failure is
// not tied to a location (all evaluation-time errors).
type EvalError struct {
	Kind    ErrorKind
	Message string
	Pos     int
}

func (e *EvalError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return kindLabels[e.Kind]
}

// newEvalError creates a position-less error
func newEvalError(kind ErrorKind, format string, args ...any) *EvalError {
	return &EvalError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     -1,
	}
}

// newEvalErrorAt creates an error anchored to a byte offset in the source
func newEvalErrorAt(kind ErrorKind, pos int, format string, args ...any) *EvalError {
	return &EvalError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
	}
}

// asEvalError normalizes any error to an *EvalError so callers always
// observe the structured form
func asEvalError(err error) *EvalError {
	if err == nil {
		return nil
	}
	if ee, ok := err.(*EvalError); ok {
		return ee
	}
	return newEvalError(KindOther, "%s", err.Error())
}

// recoverGuard converts an unexpected runtime fault into a generic
// evaluation error. Exported entry points defer this so no panic crosses
// the module boundary.
func recoverGuard(err *error) {
	if r := recover(); r != nil {
		*err = newEvalError(KindOther, "unexpected fault during evaluation: %v", r)
	}
}
