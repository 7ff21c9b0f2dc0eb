package evaluator

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"

	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	serrors "github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NONE_OBJ     = "NONE"
	RETURN_OBJ   = "RETURN_VALUE"
	BREAK_OBJ    = "BREAK"
	CONTINUE_OBJ = "CONTINUE"
	ERROR_OBJ    = "ERROR"
	FUNCTION_OBJ = "FUNCTION"
	BUILTIN_OBJ  = "BUILTIN"
	LIST_OBJ     = "LIST"
	DICT_OBJ     = "DICT"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Hashable is implemented by objects usable as dict keys.
type Hashable interface {
	HashKey() HashKey
}

// HashKey identifies a dict key. Keys of different object types never
// collide because the type is part of the key.
type HashKey struct {
	Type  ObjectType
	Value uint64
}

// Integer represents integer objects
type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) HashKey() HashKey {
	return HashKey{Type: INTEGER_OBJ, Value: uint64(i.Value)}
}

// Float represents floating-point objects
type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) HashKey() HashKey {
	return HashKey{Type: FLOAT_OBJ, Value: math.Float64bits(f.Value)}
}

// formatFloat renders a float so it always reads as a float: 1.0, not 1.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnI") {
		s += ".0"
	}
	return s
}

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}
func (b *Boolean) HashKey() HashKey {
	var v uint64
	if b.Value {
		v = 1
	}
	return HashKey{Type: BOOLEAN_OBJ, Value: v}
}

// String represents string objects
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }
func (s *String) HashKey() HashKey {
	h := fnv.New64a()
	h.Write([]byte(s.Value))
	return HashKey{Type: STRING_OBJ, Value: h.Sum64()}
}

// None represents the none value
type None struct{}

func (n *None) Type() ObjectType { return NONE_OBJ }
func (n *None) Inspect() string  { return "none" }
func (n *None) HashKey() HashKey { return HashKey{Type: NONE_OBJ, Value: 0} }

// ReturnValue wraps the value carried by a return statement while it
// unwinds to the function boundary
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

// BreakSignal unwinds to the innermost loop
type BreakSignal struct{}

func (bs *BreakSignal) Type() ObjectType { return BREAK_OBJ }
func (bs *BreakSignal) Inspect() string  { return "break" }

// ContinueSignal unwinds to the innermost loop's next iteration
type ContinueSignal struct{}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_OBJ }
func (cs *ContinueSignal) Inspect() string  { return "continue" }

// Error wraps a structured error as an Object so it can thread through
// evaluation like any other result. Checked with isError at every step.
type Error struct {
	Err *serrors.SorrelError
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string  { return e.Err.String() }

// Function represents user-defined function objects
type Function struct {
	Name   string
	Params []*ast.Identifier
	Body   *ast.BlockStatement
	Env    *Environment // definition-time environment, captured for closures
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }
func (f *Function) Inspect() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Value
	}
	return fmt.Sprintf("<function %s(%s)>", f.Name, strings.Join(params, ", "))
}

// BuiltinFunction is the signature of native builtins. The token carries
// the call position for error reporting; the environment carries the
// Runtime (logger, locale).
type BuiltinFunction func(tok lexer.Token, env *Environment, args ...Object) Object

// Builtin represents built-in function objects
type Builtin struct {
	Name string
	Fn   BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return fmt.Sprintf("<builtin %s>", b.Name) }

// List represents list objects
type List struct {
	Elements []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }
func (l *List) Inspect() string {
	elements := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		elements[i] = e.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// DictPair keeps the original key object next to its value, so iteration
// and Inspect can show the key as written.
type DictPair struct {
	Key   Object
	Value Object
}

// Dict represents dict objects. Insertion order is preserved: order holds
// hash keys in first-insertion order and is the single source of truth
// for iteration.
type Dict struct {
	Pairs map[HashKey]DictPair
	order []HashKey
}

// NewDict creates an empty dict
func NewDict() *Dict {
	return &Dict{Pairs: make(map[HashKey]DictPair)}
}

func (d *Dict) Type() ObjectType { return DICT_OBJ }
func (d *Dict) Inspect() string {
	pairs := make([]string, 0, len(d.order))
	for _, hk := range d.order {
		pair := d.Pairs[hk]
		pairs = append(pairs, pair.Key.Inspect()+": "+pair.Value.Inspect())
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

// Set inserts or updates a pair. The caller must have checked that key is
// Hashable.
func (d *Dict) Set(key, value Object) {
	hk := key.(Hashable).HashKey()
	if _, exists := d.Pairs[hk]; !exists {
		d.order = append(d.order, hk)
	}
	d.Pairs[hk] = DictPair{Key: key, Value: value}
}

// Get looks up a key. The caller must have checked that key is Hashable.
func (d *Dict) Get(key Object) (Object, bool) {
	pair, ok := d.Pairs[key.(Hashable).HashKey()]
	if !ok {
		return nil, false
	}
	return pair.Value, true
}

// Delete removes a key if present and reports whether it was there.
func (d *Dict) Delete(key Object) bool {
	hk := key.(Hashable).HashKey()
	if _, ok := d.Pairs[hk]; !ok {
		return false
	}
	delete(d.Pairs, hk)
	for i, k := range d.order {
		if k == hk {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the key objects in insertion order.
func (d *Dict) Keys() []Object {
	keys := make([]Object, len(d.order))
	for i, hk := range d.order {
		keys[i] = d.Pairs[hk].Key
	}
	return keys
}

// Values returns the values in insertion order.
func (d *Dict) Values() []Object {
	values := make([]Object, len(d.order))
	for i, hk := range d.order {
		values[i] = d.Pairs[hk].Value
	}
	return values
}

// Len returns the number of pairs.
func (d *Dict) Len() int { return len(d.order) }

// Singleton objects. true, false, and none are each a single shared value.
var (
	TRUE     = &Boolean{Value: true}
	FALSE    = &Boolean{Value: false}
	NONE     = &None{}
	BREAK    = &BreakSignal{}
	CONTINUE = &ContinueSignal{}
)

// DefaultMaxRecursionDepth bounds nested function calls unless configured
// otherwise.
const DefaultMaxRecursionDepth = 1000

// Runtime is the per-run interpreter state shared by every environment in
// one program run. Keeping it on an explicit object (rather than package
// globals) lets independent runs, and tests, not contaminate each other.
type Runtime struct {
	Logger            Logger
	MaxRecursionDepth int
	StrictAssignment  bool   // unresolved '=' is a NameError instead of a define
	Locale            string // BCP 47 tag for formatnum/formattime

	depth int // current function call depth
}

// NewRuntime creates a Runtime with default settings.
func NewRuntime() *Runtime {
	return &Runtime{
		Logger:            DefaultLogger,
		MaxRecursionDepth: DefaultMaxRecursionDepth,
	}
}

// Environment represents one scope's name-to-value bindings. The outer
// link points at the enclosing scope; lookups walk outward, the global
// scope has no outer.
type Environment struct {
	store    map[string]Object
	outer    *Environment
	Filename string
	rt       *Runtime
}

// NewEnvironment creates a new global environment with a fresh Runtime
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), rt: NewRuntime()}
}

// NewEnvironmentWithRuntime creates a new global environment sharing the
// given Runtime
func NewEnvironmentWithRuntime(rt *Runtime) *Environment {
	if rt == nil {
		rt = NewRuntime()
	}
	return &Environment{store: make(map[string]Object), rt: rt}
}

// NewEnclosedEnvironment creates a new scope nested in outer
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := &Environment{store: make(map[string]Object), outer: outer}
	if outer != nil {
		env.Filename = outer.Filename
		env.rt = outer.rt
	} else {
		env.rt = NewRuntime()
	}
	return env
}

// Runtime returns the shared per-run interpreter state.
func (e *Environment) Runtime() *Runtime { return e.rt }

// Get retrieves a value, searching innermost to outermost
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Define binds a name in the current scope, shadowing any outer binding
func (e *Environment) Define(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Assign mutates the nearest scope that already binds name. Reports false
// if no scope in the chain binds it.
func (e *Environment) Assign(name string, val Object) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false
}

// UserVariables returns a copy of this scope's own bindings (not the
// outer chain), for REPL inspection.
func (e *Environment) UserVariables() map[string]Object {
	vars := make(map[string]Object, len(e.store))
	for name, val := range e.store {
		vars[name] = val
	}
	return vars
}

// Names returns every name visible from this scope, for typo suggestions.
func (e *Environment) Names() []string {
	var names []string
	seen := make(map[string]bool)
	for env := e; env != nil; env = env.outer {
		for name := range env.store {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}

// Eval evaluates one AST node against one environment. The result is a
// plain value, a control-flow signal (ReturnValue, BREAK, CONTINUE), or
// an *Error that callers must check and pass upward.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node.Statements, env)

	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)

	case *ast.BlockStatement:
		return evalBlockStatement(node, env)

	case *ast.AssignStatement:
		return evalAssignStatement(node, env)

	case *ast.IndexAssignStatement:
		return evalIndexAssignStatement(node, env)

	case *ast.ReturnStatement:
		if node.ReturnValue == nil {
			return &ReturnValue{Value: NONE}
		}
		val := Eval(node.ReturnValue, env)
		if isError(val) {
			return val
		}
		return &ReturnValue{Value: val}

	case *ast.BreakStatement:
		return BREAK

	case *ast.ContinueStatement:
		return CONTINUE

	case *ast.RaiseStatement:
		return evalRaiseStatement(node, env)

	case *ast.IfStatement:
		return evalIfStatement(node, env)

	case *ast.WhileStatement:
		return evalWhileStatement(node, env)

	case *ast.ForStatement:
		return evalForStatement(node, env)

	case *ast.DefStatement:
		fn := &Function{
			Name:   node.Name.Value,
			Params: node.Params,
			Body:   node.Body,
			Env:    env,
		}
		env.Define(node.Name.Value, fn)
		return NONE

	case *ast.TryStatement:
		return evalTryStatement(node, env)

	// Expressions
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}

	case *ast.FloatLiteral:
		return &Float{Value: node.Value}

	case *ast.StringLiteral:
		return &String{Value: node.Value}

	case *ast.BooleanLiteral:
		return nativeBoolToBoolean(node.Value)

	case *ast.NoneLiteral:
		return NONE

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.PrefixExpression:
		return evalPrefixExpression(node, env)

	case *ast.InfixExpression:
		return evalInfixExpression(node, env)

	case *ast.CompareExpression:
		return evalCompareExpression(node, env)

	case *ast.CallExpression:
		return evalCallExpression(node, env)

	case *ast.IndexExpression:
		return evalIndexExpression(node, env)

	case *ast.DotExpression:
		return evalDotExpression(node, env)

	case *ast.ListLiteral:
		elements := evalExpressions(node.Elements, env)
		if len(elements) == 1 && isError(elements[0]) {
			return elements[0]
		}
		return &List{Elements: elements}

	case *ast.DictLiteral:
		return evalDictLiteral(node, env)
	}

	if node == nil {
		return newTypeErrorf(lexer.Token{}, "unhandled node type %T", node)
	}
	return newTypeErrorf(node.Pos(), "unhandled node type %T", node)
}

// evalProgram runs top-level statements and yields the last statement's
// value (the REPL echoes it).
func evalProgram(stmts []ast.Statement, env *Environment) Object {
	var result Object = NONE

	for _, stmt := range stmts {
		result = Eval(stmt, env)
		if isError(result) {
			return result
		}
	}

	return result
}

// evalBlockStatement runs a block's statements, stopping at the first
// control-flow signal or error and handing it upward unconsumed.
func evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	var result Object = NONE

	for _, stmt := range block.Statements {
		result = Eval(stmt, env)

		switch result.(type) {
		case *ReturnValue, *BreakSignal, *ContinueSignal, *Error:
			return result
		}
	}

	return result
}

func evalAssignStatement(node *ast.AssignStatement, env *Environment) Object {
	val := Eval(node.Value, env)
	if isError(val) {
		return val
	}

	name := node.Name.Value
	if env.Assign(name, val) {
		return NONE
	}

	if env.rt.StrictAssignment {
		return newError("NAME-0002", node.Name.Token, env, map[string]any{"Name": name})
	}

	env.Define(name, val)
	return NONE
}

func evalIndexAssignStatement(node *ast.IndexAssignStatement, env *Environment) Object {
	val := Eval(node.Value, env)
	if isError(val) {
		return val
	}

	switch target := node.Target.(type) {
	case *ast.IndexExpression:
		container := Eval(target.Left, env)
		if isError(container) {
			return container
		}
		index := Eval(target.Index, env)
		if isError(index) {
			return index
		}
		return assignIndex(target.Token, env, container, index, val)

	case *ast.DotExpression:
		container := Eval(target.Left, env)
		if isError(container) {
			return container
		}
		dict, ok := container.(*Dict)
		if !ok {
			return newError("TYPE-0009", target.Token, env, map[string]any{"Got": typeName(container)})
		}
		dict.Set(&String{Value: target.Name.Value}, val)
		return NONE
	}

	return newTypeErrorf(node.Token, "invalid assignment target")
}

// assignIndex writes container[index] = val for lists and dicts.
func assignIndex(tok lexer.Token, env *Environment, container, index, val Object) Object {
	switch container := container.(type) {
	case *List:
		idx, ok := index.(*Integer)
		if !ok {
			return newError("TYPE-0005", tok, env, map[string]any{
				"Got": typeName(container), "IndexType": typeName(index),
			})
		}
		i := normalizeIndex(idx.Value, len(container.Elements))
		if i < 0 {
			return newError("INDEX-0001", tok, env, map[string]any{
				"Index": idx.Value, "Length": len(container.Elements),
			})
		}
		container.Elements[i] = val
		return NONE

	case *Dict:
		if _, ok := index.(Hashable); !ok {
			return newError("TYPE-0007", tok, env, map[string]any{"Got": typeName(index)})
		}
		container.Set(index, val)
		return NONE

	case *String:
		return newTypeErrorf(tok, "str does not support item assignment")

	default:
		return newError("TYPE-0005", tok, env, map[string]any{
			"Got": typeName(container), "IndexType": typeName(index),
		})
	}
}

// normalizeIndex maps a possibly-negative index onto [0, length). Returns
// -1 when out of range.
func normalizeIndex(idx int64, length int) int {
	i := idx
	if i < 0 {
		i += int64(length)
	}
	if i < 0 || i >= int64(length) {
		return -1
	}
	return int(i)
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	if builtin, ok := builtins[node.Value]; ok {
		return builtin
	}

	candidates := env.Names()
	candidates = append(candidates, builtinNames()...)
	candidates = append(candidates, serrors.Keywords...)
	serr := serrors.NewUndefinedName(node.Value, candidates)
	serr.Line = node.Token.Line
	serr.Column = node.Token.Column
	serr.File = env.Filename
	return &Error{Err: serr}
}

func evalCallExpression(node *ast.CallExpression, env *Environment) Object {
	function := Eval(node.Function, env)
	if isError(function) {
		return function
	}

	args := evalExpressions(node.Arguments, env)
	if len(args) == 1 && isError(args[0]) {
		return args[0]
	}

	return applyFunction(node.Token, env, function, args)
}

// evalExpressions evaluates expressions left to right, stopping at the
// first error (returned as a single-element slice).
func evalExpressions(exprs []ast.Expression, env *Environment) []Object {
	var result []Object

	for _, expr := range exprs {
		evaluated := Eval(expr, env)
		if isError(evaluated) {
			return []Object{evaluated}
		}
		result = append(result, evaluated)
	}

	return result
}

func applyFunction(tok lexer.Token, env *Environment, fn Object, args []Object) Object {
	switch fn := fn.(type) {
	case *Function:
		if len(args) != len(fn.Params) {
			return newError("ARITY-0001", tok, env, map[string]any{
				"Function": fn.Name, "Want": len(fn.Params), "Got": len(args),
			})
		}

		rt := env.rt
		rt.depth++
		if rt.depth > rt.MaxRecursionDepth {
			rt.depth--
			return newError("REC-0001", tok, env, map[string]any{"Limit": rt.MaxRecursionDepth})
		}

		callEnv := NewEnclosedEnvironment(fn.Env)
		for i, param := range fn.Params {
			callEnv.Define(param.Value, args[i])
		}

		result := Eval(fn.Body, callEnv)
		rt.depth--

		// The return signal stops at the function boundary
		if rv, ok := result.(*ReturnValue); ok {
			return rv.Value
		}
		if isError(result) {
			return result
		}
		return NONE

	case *Builtin:
		return fn.Fn(tok, env, args...)

	default:
		return newError("TYPE-0003", tok, env, map[string]any{"Got": typeName(fn)})
	}
}

func evalIndexExpression(node *ast.IndexExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	index := Eval(node.Index, env)
	if isError(index) {
		return index
	}

	switch left := left.(type) {
	case *List:
		idx, ok := index.(*Integer)
		if !ok {
			return newError("TYPE-0005", node.Token, env, map[string]any{
				"Got": typeName(left), "IndexType": typeName(index),
			})
		}
		i := normalizeIndex(idx.Value, len(left.Elements))
		if i < 0 {
			return newError("INDEX-0001", node.Token, env, map[string]any{
				"Index": idx.Value, "Length": len(left.Elements),
			})
		}
		return left.Elements[i]

	case *String:
		idx, ok := index.(*Integer)
		if !ok {
			return newError("TYPE-0005", node.Token, env, map[string]any{
				"Got": typeName(left), "IndexType": typeName(index),
			})
		}
		runes := []rune(left.Value)
		i := normalizeIndex(idx.Value, len(runes))
		if i < 0 {
			return newError("INDEX-0001", node.Token, env, map[string]any{
				"Index": idx.Value, "Length": len(runes),
			})
		}
		return &String{Value: string(runes[i])}

	case *Dict:
		if _, ok := index.(Hashable); !ok {
			return newError("TYPE-0007", node.Token, env, map[string]any{"Got": typeName(index)})
		}
		value, ok := left.Get(index)
		if !ok {
			return newError("KEY-0001", node.Token, env, map[string]any{"Key": index.Inspect()})
		}
		return value

	default:
		return newError("TYPE-0005", node.Token, env, map[string]any{
			"Got": typeName(left), "IndexType": typeName(index),
		})
	}
}

func evalDotExpression(node *ast.DotExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}

	dict, ok := left.(*Dict)
	if !ok {
		return newError("TYPE-0009", node.Token, env, map[string]any{"Got": typeName(left)})
	}

	value, ok := dict.Get(&String{Value: node.Name.Value})
	if !ok {
		return newError("KEY-0001", node.Token, env, map[string]any{"Key": node.Name.Value})
	}
	return value
}

func evalDictLiteral(node *ast.DictLiteral, env *Environment) Object {
	dict := NewDict()

	for i, keyExpr := range node.Keys {
		key := Eval(keyExpr, env)
		if isError(key) {
			return key
		}
		if _, ok := key.(Hashable); !ok {
			return newError("TYPE-0007", node.Token, env, map[string]any{"Got": typeName(key)})
		}

		value := Eval(node.Values[i], env)
		if isError(value) {
			return value
		}

		dict.Set(key, value)
	}

	return dict
}
