package evaluator

import (
	"math"
	"strings"

	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

func evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	right := Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "not":
		return nativeBoolToBoolean(!isTruthy(right))
	case "-":
		switch right := right.(type) {
		case *Integer:
			return &Integer{Value: -right.Value}
		case *Float:
			return &Float{Value: -right.Value}
		default:
			return newError("TYPE-0008", node.Token, env, map[string]any{
				"Operator": node.Operator, "Got": typeName(right),
			})
		}
	default:
		return newTypeErrorf(node.Token, "unknown prefix operator %s", node.Operator)
	}
}

// evalInfixExpression evaluates left before right, and short-circuits
// 'and'/'or' before the right operand is touched. 'and' and 'or' yield
// the operand that decided the result, not a coerced boolean.
func evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}

	switch node.Operator {
	case "and":
		if !isTruthy(left) {
			return left
		}
		return Eval(node.Right, env)
	case "or":
		if isTruthy(left) {
			return left
		}
		return Eval(node.Right, env)
	}

	right := Eval(node.Right, env)
	if isError(right) {
		return right
	}

	return evalBinaryOp(node.Token, env, node.Operator, left, right)
}

func evalBinaryOp(tok lexer.Token, env *Environment, operator string, left, right Object) Object {
	switch {
	case left.Type() == INTEGER_OBJ && right.Type() == INTEGER_OBJ:
		return evalIntegerBinaryOp(tok, env, operator, left.(*Integer), right.(*Integer))

	case isNumeric(left) && isNumeric(right):
		return evalFloatBinaryOp(tok, env, operator, toFloat(left), toFloat(right))

	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ && operator == "+":
		return &String{Value: left.(*String).Value + right.(*String).Value}

	case left.Type() == STRING_OBJ && right.Type() == INTEGER_OBJ && operator == "*":
		return repeatString(left.(*String), right.(*Integer))

	case left.Type() == INTEGER_OBJ && right.Type() == STRING_OBJ && operator == "*":
		return repeatString(right.(*String), left.(*Integer))

	case left.Type() == LIST_OBJ && right.Type() == LIST_OBJ && operator == "+":
		l, r := left.(*List), right.(*List)
		elements := make([]Object, 0, len(l.Elements)+len(r.Elements))
		elements = append(elements, l.Elements...)
		elements = append(elements, r.Elements...)
		return &List{Elements: elements}

	case left.Type() == LIST_OBJ && right.Type() == INTEGER_OBJ && operator == "*":
		return repeatList(left.(*List), right.(*Integer))

	case left.Type() == INTEGER_OBJ && right.Type() == LIST_OBJ && operator == "*":
		return repeatList(right.(*List), left.(*Integer))

	default:
		return newError("TYPE-0001", tok, env, map[string]any{
			"Operator": operator, "Left": typeName(left), "Right": typeName(right),
		})
	}
}

func isNumeric(obj Object) bool {
	return obj.Type() == INTEGER_OBJ || obj.Type() == FLOAT_OBJ
}

func toFloat(obj Object) float64 {
	switch obj := obj.(type) {
	case *Integer:
		return float64(obj.Value)
	case *Float:
		return obj.Value
	}
	return 0
}

func evalIntegerBinaryOp(tok lexer.Token, env *Environment, operator string, left, right *Integer) Object {
	switch operator {
	case "+":
		return &Integer{Value: left.Value + right.Value}
	case "-":
		return &Integer{Value: left.Value - right.Value}
	case "*":
		return &Integer{Value: left.Value * right.Value}
	case "/":
		// '/' is always float division
		if right.Value == 0 {
			return newError("ZERO-0001", tok, env, nil)
		}
		return &Float{Value: float64(left.Value) / float64(right.Value)}
	case "//":
		if right.Value == 0 {
			return newError("ZERO-0001", tok, env, nil)
		}
		return &Integer{Value: floorDiv(left.Value, right.Value)}
	case "%":
		if right.Value == 0 {
			return newError("ZERO-0002", tok, env, nil)
		}
		return &Integer{Value: floorMod(left.Value, right.Value)}
	case "**":
		if right.Value >= 0 {
			return &Integer{Value: intPow(left.Value, right.Value)}
		}
		return &Float{Value: math.Pow(float64(left.Value), float64(right.Value))}
	default:
		return newError("TYPE-0001", tok, env, map[string]any{
			"Operator": operator, "Left": "int", "Right": "int",
		})
	}
}

func evalFloatBinaryOp(tok lexer.Token, env *Environment, operator string, left, right float64) Object {
	switch operator {
	case "+":
		return &Float{Value: left + right}
	case "-":
		return &Float{Value: left - right}
	case "*":
		return &Float{Value: left * right}
	case "/":
		if right == 0 {
			return newError("ZERO-0001", tok, env, nil)
		}
		return &Float{Value: left / right}
	case "//":
		if right == 0 {
			return newError("ZERO-0001", tok, env, nil)
		}
		return &Float{Value: math.Floor(left / right)}
	case "%":
		if right == 0 {
			return newError("ZERO-0002", tok, env, nil)
		}
		return &Float{Value: floorModFloat(left, right)}
	case "**":
		return &Float{Value: math.Pow(left, right)}
	default:
		return newError("TYPE-0001", tok, env, map[string]any{
			"Operator": operator, "Left": "float", "Right": "float",
		})
	}
}

// floorDiv rounds the quotient toward negative infinity, so the identity
// a == b*(a//b) + a%b holds with floorMod.
func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// floorMod takes the sign of the divisor: -7 % 3 == 2.
func floorMod(a, b int64) int64 {
	r := a % b
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

func floorModFloat(a, b float64) float64 {
	r := math.Mod(a, b)
	if r != 0 && (r < 0) != (b < 0) {
		r += b
	}
	return r
}

// intPow computes base**exp for exp >= 0 by binary exponentiation.
func intPow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func repeatString(s *String, n *Integer) Object {
	if n.Value <= 0 {
		return &String{Value: ""}
	}
	return &String{Value: strings.Repeat(s.Value, int(n.Value))}
}

func repeatList(l *List, n *Integer) Object {
	if n.Value <= 0 {
		return &List{Elements: []Object{}}
	}
	elements := make([]Object, 0, len(l.Elements)*int(n.Value))
	for i := int64(0); i < n.Value; i++ {
		elements = append(elements, l.Elements...)
	}
	return &List{Elements: elements}
}

// evalCompareExpression evaluates a comparison chain. Each operand is
// evaluated at most once, left to right, and the chain stops at the first
// false link without touching the operands after it.
func evalCompareExpression(node *ast.CompareExpression, env *Environment) Object {
	prev := Eval(node.First, env)
	if isError(prev) {
		return prev
	}

	for i, op := range node.Ops {
		operand := Eval(node.Operands[i], env)
		if isError(operand) {
			return operand
		}

		result := compareObjects(node.Token, env, op, prev, operand)
		if isError(result) {
			return result
		}
		if result == FALSE {
			return FALSE
		}

		prev = operand
	}

	return TRUE
}

// compareObjects applies one comparison operator. Equality is defined for
// every type pair; ordering requires two numbers or two strings.
func compareObjects(tok lexer.Token, env *Environment, operator string, left, right Object) Object {
	switch operator {
	case "==":
		return nativeBoolToBoolean(objectsEqual(left, right))
	case "!=":
		return nativeBoolToBoolean(!objectsEqual(left, right))
	}

	if isNumeric(left) && isNumeric(right) {
		l, r := toFloat(left), toFloat(right)
		switch operator {
		case "<":
			return nativeBoolToBoolean(l < r)
		case "<=":
			return nativeBoolToBoolean(l <= r)
		case ">":
			return nativeBoolToBoolean(l > r)
		case ">=":
			return nativeBoolToBoolean(l >= r)
		}
	}

	if left.Type() == STRING_OBJ && right.Type() == STRING_OBJ {
		l, r := left.(*String).Value, right.(*String).Value
		switch operator {
		case "<":
			return nativeBoolToBoolean(l < r)
		case "<=":
			return nativeBoolToBoolean(l <= r)
		case ">":
			return nativeBoolToBoolean(l > r)
		case ">=":
			return nativeBoolToBoolean(l >= r)
		}
	}

	return newError("TYPE-0002", tok, env, map[string]any{
		"Left": typeName(left), "Right": typeName(right),
	})
}
