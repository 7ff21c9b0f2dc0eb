package evaluator

import (
	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	serrors "github.com/sambeau/sorrel/pkg/sorrel/errors"
)

func evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return Eval(node.Consequence, env)
	}
	if node.Alternative != nil {
		// Either an else block or a chained elif; both are plain nodes
		return Eval(node.Alternative, env)
	}
	return NONE
}

func evalWhileStatement(node *ast.WhileStatement, env *Environment) Object {
	for {
		condition := Eval(node.Condition, env)
		if isError(condition) {
			return condition
		}
		if !isTruthy(condition) {
			break
		}

		result := Eval(node.Body, env)
		switch result.(type) {
		case *Error, *ReturnValue:
			return result
		case *BreakSignal:
			return NONE
		case *ContinueSignal:
			continue
		}
	}

	return NONE
}

// evalForStatement iterates lists, strings (one character at a time), and
// dicts (keys in insertion order). The loop variable is a fresh binding in
// a fresh scope every iteration, so closures created in the body capture
// that iteration's value rather than one shared cell.
func evalForStatement(node *ast.ForStatement, env *Environment) Object {
	iterable := Eval(node.Iterable, env)
	if isError(iterable) {
		return iterable
	}

	runBody := func(item Object) Object {
		iterEnv := NewEnclosedEnvironment(env)
		iterEnv.Define(node.Var.Value, item)
		return Eval(node.Body, iterEnv)
	}

	switch iterable := iterable.(type) {
	case *List:
		// Index-based so appends during iteration are visible
		for i := 0; i < len(iterable.Elements); i++ {
			result := runBody(iterable.Elements[i])
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NONE
			}
		}

	case *String:
		for _, r := range iterable.Value {
			result := runBody(&String{Value: string(r)})
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NONE
			}
		}

	case *Dict:
		for _, key := range iterable.Keys() {
			result := runBody(key)
			switch result.(type) {
			case *Error, *ReturnValue:
				return result
			case *BreakSignal:
				return NONE
			}
		}

	default:
		return newError("TYPE-0004", node.Token, env, map[string]any{"Got": typeName(iterable)})
	}

	return NONE
}

// evalRaiseStatement turns a script value into a propagating error. A
// string raises with that message; a dict may carry 'message' and 'kind'
// keys; anything else raises with its printed form.
func evalRaiseStatement(node *ast.RaiseStatement, env *Environment) Object {
	value := Eval(node.Value, env)
	if isError(value) {
		return value
	}

	message := value.Inspect()
	kind := ""

	if dict, ok := value.(*Dict); ok {
		if m, ok := dict.Get(&String{Value: "message"}); ok {
			if s, ok := m.(*String); ok {
				message = s.Value
			}
		}
		if k, ok := dict.Get(&String{Value: "kind"}); ok {
			if s, ok := k.(*String); ok {
				kind = s.Value
			}
		}
	}

	serr := serrors.NewSimple(serrors.ClassRaise, message)
	serr.Line = node.Token.Line
	serr.Column = node.Token.Column
	serr.File = env.Filename
	if kind != "" {
		serr.Data = map[string]any{"Kind": kind}
	}
	return &Error{Err: serr}
}

// evalTryStatement catches runtime errors from its body and runs the
// handler with the error exposed as a dict. Return/break/continue signals
// pass through untouched.
func evalTryStatement(node *ast.TryStatement, env *Environment) Object {
	result := Eval(node.Body, env)

	err, ok := result.(*Error)
	if !ok {
		return result
	}
	if !err.Err.Class.IsCatchable() {
		return err
	}

	handlerEnv := env
	if node.ErrName != nil {
		handlerEnv = NewEnclosedEnvironment(env)
		handlerEnv.Define(node.ErrName.Value, errorToDict(err))
	}

	return Eval(node.Handler, handlerEnv)
}

// errorToDict is the script-visible shape of a caught error.
func errorToDict(err *Error) *Dict {
	kind := err.Err.Class.Kind()
	if k, ok := err.Err.Data["Kind"].(string); ok && k != "" {
		kind = k
	}

	dict := NewDict()
	dict.Set(&String{Value: "kind"}, &String{Value: kind})
	dict.Set(&String{Value: "message"}, &String{Value: err.Err.Message})
	dict.Set(&String{Value: "line"}, &Integer{Value: int64(err.Err.Line)})
	dict.Set(&String{Value: "column"}, &Integer{Value: int64(err.Err.Column)})
	return dict
}
