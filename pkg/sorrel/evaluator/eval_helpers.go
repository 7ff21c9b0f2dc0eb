package evaluator

import (
	"fmt"

	serrors "github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

// newError creates an *Error from the error catalog, positioned at tok.
func newError(code string, tok lexer.Token, env *Environment, data map[string]any) *Error {
	serr := serrors.NewWithPosition(code, tok.Line, tok.Column, data)
	if env != nil {
		serr.File = env.Filename
	}
	return &Error{Err: serr}
}

// newTypeErrorf creates an uncatalogued TypeError with a printf message.
func newTypeErrorf(tok lexer.Token, format string, a ...any) *Error {
	serr := serrors.NewSimple(serrors.ClassType, fmt.Sprintf(format, a...))
	serr.Line = tok.Line
	serr.Column = tok.Column
	return &Error{Err: serr}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

func nativeBoolToBoolean(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// isTruthy implements the language's truthiness rules: false, none, zero
// of either numeric kind, and empty strings/lists/dicts are falsy;
// everything else is truthy.
func isTruthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *None:
		return false
	case *Integer:
		return obj.Value != 0
	case *Float:
		return obj.Value != 0
	case *String:
		return len(obj.Value) != 0
	case *List:
		return len(obj.Elements) != 0
	case *Dict:
		return obj.Len() != 0
	default:
		return true
	}
}

// typeName returns the user-facing type name, as reported by type() and
// used in error messages.
func typeName(obj Object) string {
	switch obj.(type) {
	case *Integer:
		return "int"
	case *Float:
		return "float"
	case *Boolean:
		return "bool"
	case *String:
		return "str"
	case *None:
		return "none"
	case *List:
		return "list"
	case *Dict:
		return "dict"
	case *Function:
		return "function"
	case *Builtin:
		return "builtin"
	default:
		return string(obj.Type())
	}
}

// objectsEqual implements '=='. Numbers compare across int/float by value.
// Lists and dicts compare element-wise (deep); functions compare by
// identity.
func objectsEqual(left, right Object) bool {
	switch left := left.(type) {
	case *Integer:
		switch right := right.(type) {
		case *Integer:
			return left.Value == right.Value
		case *Float:
			return float64(left.Value) == right.Value
		}
		return false

	case *Float:
		switch right := right.(type) {
		case *Integer:
			return left.Value == float64(right.Value)
		case *Float:
			return left.Value == right.Value
		}
		return false

	case *Boolean:
		if right, ok := right.(*Boolean); ok {
			return left.Value == right.Value
		}
		return false

	case *String:
		if right, ok := right.(*String); ok {
			return left.Value == right.Value
		}
		return false

	case *None:
		_, ok := right.(*None)
		return ok

	case *List:
		right, ok := right.(*List)
		if !ok || len(left.Elements) != len(right.Elements) {
			return false
		}
		for i := range left.Elements {
			if !objectsEqual(left.Elements[i], right.Elements[i]) {
				return false
			}
		}
		return true

	case *Dict:
		right, ok := right.(*Dict)
		if !ok || left.Len() != right.Len() {
			return false
		}
		for _, hk := range left.order {
			leftPair := left.Pairs[hk]
			rightPair, ok := right.Pairs[hk]
			if !ok || !objectsEqual(leftPair.Value, rightPair.Value) {
				return false
			}
		}
		return true

	default:
		// Functions and builtins: identity
		return left == right
	}
}
