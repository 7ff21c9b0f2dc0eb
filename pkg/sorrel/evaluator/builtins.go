package evaluator

import (
	"bytes"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
	"github.com/yuin/goldmark"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// builtins is the fixed registry of native callables. Identifier lookup
// falls back to it after the scope chain, so script bindings shadow
// builtins.
var builtins map[string]*Builtin

func init() {
	builtins = map[string]*Builtin{
		"print":      {Name: "print", Fn: builtinPrint},
		"len":        {Name: "len", Fn: builtinLen},
		"type":       {Name: "type", Fn: builtinType},
		"str":        {Name: "str", Fn: builtinStr},
		"int":        {Name: "int", Fn: builtinInt},
		"float":      {Name: "float", Fn: builtinFloat},
		"bool":       {Name: "bool", Fn: builtinBool},
		"range":      {Name: "range", Fn: builtinRange},
		"keys":       {Name: "keys", Fn: builtinKeys},
		"values":     {Name: "values", Fn: builtinValues},
		"append":     {Name: "append", Fn: builtinAppend},
		"pop":        {Name: "pop", Fn: builtinPop},
		"abs":        {Name: "abs", Fn: builtinAbs},
		"min":        {Name: "min", Fn: builtinMin},
		"max":        {Name: "max", Fn: builtinMax},
		"sum":        {Name: "sum", Fn: builtinSum},
		"sorted":     {Name: "sorted", Fn: builtinSorted},
		"parsetime":  {Name: "parsetime", Fn: builtinParsetime},
		"formattime": {Name: "formattime", Fn: builtinFormattime},
		"formatnum":  {Name: "formatnum", Fn: builtinFormatnum},
		"markdown":   {Name: "markdown", Fn: builtinMarkdown},
	}
}

// builtinNames returns the registry's names, for typo suggestions.
func builtinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	return names
}

func wrongArity(tok lexer.Token, env *Environment, name string, want, got int) *Error {
	return newError("ARITY-0001", tok, env, map[string]any{
		"Function": name, "Want": want, "Got": got,
	})
}

func wrongArityRange(tok lexer.Token, env *Environment, name string, min, max, got int) *Error {
	return newError("ARITY-0002", tok, env, map[string]any{
		"Function": name, "Min": min, "Max": max, "Got": got,
	})
}

func wrongArgType(tok lexer.Token, env *Environment, fn, expected string, got Object) *Error {
	return newError("TYPE-0006", tok, env, map[string]any{
		"Function": fn, "Expected": expected, "Got": typeName(got),
	})
}

func builtinPrint(tok lexer.Token, env *Environment, args ...Object) Object {
	values := make([]interface{}, len(args))
	for i, arg := range args {
		values[i] = arg.Inspect()
	}
	env.rt.Logger.LogLine(values...)
	return NONE
}

func builtinLen(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "len", 1, len(args))
	}

	switch arg := args[0].(type) {
	case *String:
		return &Integer{Value: int64(len([]rune(arg.Value)))}
	case *List:
		return &Integer{Value: int64(len(arg.Elements))}
	case *Dict:
		return &Integer{Value: int64(arg.Len())}
	default:
		return wrongArgType(tok, env, "len", "a string, list, or dict", args[0])
	}
}

func builtinType(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "type", 1, len(args))
	}
	return &String{Value: typeName(args[0])}
}

func builtinStr(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "str", 1, len(args))
	}
	return &String{Value: args[0].Inspect()}
}

func builtinInt(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "int", 1, len(args))
	}

	switch arg := args[0].(type) {
	case *Integer:
		return arg
	case *Float:
		return &Integer{Value: int64(math.Trunc(arg.Value))}
	case *Boolean:
		if arg.Value {
			return &Integer{Value: 1}
		}
		return &Integer{Value: 0}
	case *String:
		v, err := strconv.ParseInt(strings.TrimSpace(arg.Value), 10, 64)
		if err != nil {
			return newTypeErrorf(tok, "int() cannot parse %q", arg.Value)
		}
		return &Integer{Value: v}
	default:
		return wrongArgType(tok, env, "int", "a number, bool, or string", args[0])
	}
}

func builtinFloat(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "float", 1, len(args))
	}

	switch arg := args[0].(type) {
	case *Float:
		return arg
	case *Integer:
		return &Float{Value: float64(arg.Value)}
	case *Boolean:
		if arg.Value {
			return &Float{Value: 1}
		}
		return &Float{Value: 0}
	case *String:
		v, err := strconv.ParseFloat(strings.TrimSpace(arg.Value), 64)
		if err != nil {
			return newTypeErrorf(tok, "float() cannot parse %q", arg.Value)
		}
		return &Float{Value: v}
	default:
		return wrongArgType(tok, env, "float", "a number, bool, or string", args[0])
	}
}

func builtinBool(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "bool", 1, len(args))
	}
	return nativeBoolToBoolean(isTruthy(args[0]))
}

func builtinRange(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) < 1 || len(args) > 3 {
		return wrongArityRange(tok, env, "range", 1, 3, len(args))
	}

	nums := make([]int64, len(args))
	for i, arg := range args {
		n, ok := arg.(*Integer)
		if !ok {
			return wrongArgType(tok, env, "range", "an int", arg)
		}
		nums[i] = n.Value
	}

	var start, stop, step int64 = 0, 0, 1
	switch len(nums) {
	case 1:
		stop = nums[0]
	case 2:
		start, stop = nums[0], nums[1]
	case 3:
		start, stop, step = nums[0], nums[1], nums[2]
	}
	if step == 0 {
		return newTypeErrorf(tok, "range() step must not be zero")
	}

	elements := []Object{}
	if step > 0 {
		for i := start; i < stop; i += step {
			elements = append(elements, &Integer{Value: i})
		}
	} else {
		for i := start; i > stop; i += step {
			elements = append(elements, &Integer{Value: i})
		}
	}
	return &List{Elements: elements}
}

func builtinKeys(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "keys", 1, len(args))
	}
	dict, ok := args[0].(*Dict)
	if !ok {
		return wrongArgType(tok, env, "keys", "a dict", args[0])
	}
	return &List{Elements: dict.Keys()}
}

func builtinValues(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "values", 1, len(args))
	}
	dict, ok := args[0].(*Dict)
	if !ok {
		return wrongArgType(tok, env, "values", "a dict", args[0])
	}
	return &List{Elements: dict.Values()}
}

// builtinAppend mutates the list in place (lists are reference values)
// and returns it.
func builtinAppend(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 2 {
		return wrongArity(tok, env, "append", 2, len(args))
	}
	list, ok := args[0].(*List)
	if !ok {
		return wrongArgType(tok, env, "append", "a list", args[0])
	}
	list.Elements = append(list.Elements, args[1])
	return list
}

// builtinPop removes and returns: pop(list) the last element, pop(list, i)
// the element at i, pop(dict, key) the value at key.
func builtinPop(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) < 1 || len(args) > 2 {
		return wrongArityRange(tok, env, "pop", 1, 2, len(args))
	}

	switch container := args[0].(type) {
	case *List:
		length := len(container.Elements)
		if length == 0 {
			return newError("INDEX-0001", tok, env, map[string]any{"Index": -1, "Length": 0})
		}
		idx := int64(length - 1)
		if len(args) == 2 {
			n, ok := args[1].(*Integer)
			if !ok {
				return wrongArgType(tok, env, "pop", "an int index", args[1])
			}
			idx = n.Value
		}
		i := normalizeIndex(idx, length)
		if i < 0 {
			return newError("INDEX-0001", tok, env, map[string]any{"Index": idx, "Length": length})
		}
		value := container.Elements[i]
		container.Elements = append(container.Elements[:i], container.Elements[i+1:]...)
		return value

	case *Dict:
		if len(args) != 2 {
			return wrongArity(tok, env, "pop", 2, len(args))
		}
		key := args[1]
		if _, ok := key.(Hashable); !ok {
			return newError("TYPE-0007", tok, env, map[string]any{"Got": typeName(key)})
		}
		value, ok := container.Get(key)
		if !ok {
			return newError("KEY-0001", tok, env, map[string]any{"Key": key.Inspect()})
		}
		container.Delete(key)
		return value

	default:
		return wrongArgType(tok, env, "pop", "a list or dict", args[0])
	}
}

func builtinAbs(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "abs", 1, len(args))
	}
	switch arg := args[0].(type) {
	case *Integer:
		if arg.Value < 0 {
			return &Integer{Value: -arg.Value}
		}
		return arg
	case *Float:
		return &Float{Value: math.Abs(arg.Value)}
	default:
		return wrongArgType(tok, env, "abs", "a number", args[0])
	}
}

func builtinMin(tok lexer.Token, env *Environment, args ...Object) Object {
	return minMax(tok, env, "min", args, func(a, b float64) bool { return a < b })
}

func builtinMax(tok lexer.Token, env *Environment, args ...Object) Object {
	return minMax(tok, env, "max", args, func(a, b float64) bool { return a > b })
}

// minMax handles min/max over either a single list argument or two-plus
// direct arguments.
func minMax(tok lexer.Token, env *Environment, name string, args []Object, better func(a, b float64) bool) Object {
	items := args
	if len(args) == 1 {
		list, ok := args[0].(*List)
		if !ok {
			return wrongArgType(tok, env, name, "a list or two or more numbers", args[0])
		}
		items = list.Elements
	}
	if len(items) == 0 {
		return newTypeErrorf(tok, "%s() of an empty sequence", name)
	}

	best := items[0]
	if !isNumeric(best) {
		return wrongArgType(tok, env, name, "a number", best)
	}
	for _, item := range items[1:] {
		if !isNumeric(item) {
			return wrongArgType(tok, env, name, "a number", item)
		}
		if better(toFloat(item), toFloat(best)) {
			best = item
		}
	}
	return best
}

func builtinSum(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "sum", 1, len(args))
	}
	list, ok := args[0].(*List)
	if !ok {
		return wrongArgType(tok, env, "sum", "a list", args[0])
	}

	var intSum int64
	var floatSum float64
	isFloat := false

	for _, item := range list.Elements {
		switch item := item.(type) {
		case *Integer:
			intSum += item.Value
		case *Float:
			isFloat = true
			floatSum += item.Value
		default:
			return wrongArgType(tok, env, "sum", "a list of numbers", item)
		}
	}

	if isFloat {
		return &Float{Value: floatSum + float64(intSum)}
	}
	return &Integer{Value: intSum}
}

// builtinSorted returns a new list sorted ascending. Elements must be all
// numbers or all strings.
func builtinSorted(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "sorted", 1, len(args))
	}
	list, ok := args[0].(*List)
	if !ok {
		return wrongArgType(tok, env, "sorted", "a list", args[0])
	}

	allNumbers := true
	allStrings := true
	for _, item := range list.Elements {
		if !isNumeric(item) {
			allNumbers = false
		}
		if item.Type() != STRING_OBJ {
			allStrings = false
		}
	}
	if !allNumbers && !allStrings {
		return newTypeErrorf(tok, "sorted() needs all numbers or all strings")
	}

	elements := make([]Object, len(list.Elements))
	copy(elements, list.Elements)

	if allNumbers {
		sort.SliceStable(elements, func(i, j int) bool {
			return toFloat(elements[i]) < toFloat(elements[j])
		})
	} else {
		sort.SliceStable(elements, func(i, j int) bool {
			return elements[i].(*String).Value < elements[j].(*String).Value
		})
	}
	return &List{Elements: elements}
}

// builtinParsetime parses a human date/time string into a dict of
// components plus a unix timestamp.
func builtinParsetime(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "parsetime", 1, len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return wrongArgType(tok, env, "parsetime", "a string", args[0])
	}

	t, err := dateparse.ParseAny(s.Value)
	if err != nil {
		return newTypeErrorf(tok, "parsetime() cannot parse %q", s.Value)
	}

	dict := NewDict()
	dict.Set(&String{Value: "year"}, &Integer{Value: int64(t.Year())})
	dict.Set(&String{Value: "month"}, &Integer{Value: int64(t.Month())})
	dict.Set(&String{Value: "day"}, &Integer{Value: int64(t.Day())})
	dict.Set(&String{Value: "hour"}, &Integer{Value: int64(t.Hour())})
	dict.Set(&String{Value: "minute"}, &Integer{Value: int64(t.Minute())})
	dict.Set(&String{Value: "second"}, &Integer{Value: int64(t.Second())})
	dict.Set(&String{Value: "unix"}, &Integer{Value: t.Unix()})
	return dict
}

// builtinFormattime formats a unix timestamp (or a parsetime() dict) with
// a Go layout string, localized month and day names per the runtime locale.
func builtinFormattime(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 2 {
		return wrongArity(tok, env, "formattime", 2, len(args))
	}

	var t time.Time
	switch arg := args[0].(type) {
	case *Integer:
		t = time.Unix(arg.Value, 0).UTC()
	case *Dict:
		unix, ok := arg.Get(&String{Value: "unix"})
		if !ok {
			return newTypeErrorf(tok, "formattime() dict needs a 'unix' key")
		}
		n, ok := unix.(*Integer)
		if !ok {
			return newTypeErrorf(tok, "formattime() 'unix' must be an int")
		}
		t = time.Unix(n.Value, 0).UTC()
	default:
		return wrongArgType(tok, env, "formattime", "an int timestamp or time dict", args[0])
	}

	layout, ok := args[1].(*String)
	if !ok {
		return wrongArgType(tok, env, "formattime", "a layout string", args[1])
	}

	return &String{Value: monday.Format(t, layout.Value, mondayLocale(env.rt.Locale))}
}

// mondayLocale maps a runtime locale to a monday.Locale, defaulting to
// US English.
func mondayLocale(locale string) monday.Locale {
	key := strings.ToLower(strings.ReplaceAll(locale, "-", "_"))
	localeMap := map[string]monday.Locale{
		"en":    monday.LocaleEnUS,
		"en_us": monday.LocaleEnUS,
		"en_gb": monday.LocaleEnGB,
		"de":    monday.LocaleDeDE,
		"de_de": monday.LocaleDeDE,
		"fr":    monday.LocaleFrFR,
		"fr_fr": monday.LocaleFrFR,
		"fr_ca": monday.LocaleFrCA,
		"es":    monday.LocaleEsES,
		"es_es": monday.LocaleEsES,
		"it":    monday.LocaleItIT,
		"it_it": monday.LocaleItIT,
		"pt":    monday.LocalePtPT,
		"pt_br": monday.LocalePtBR,
		"nl":    monday.LocaleNlNL,
		"nl_nl": monday.LocaleNlNL,
		"ja":    monday.LocaleJaJP,
		"ja_jp": monday.LocaleJaJP,
	}
	if loc, ok := localeMap[key]; ok {
		return loc
	}
	return monday.LocaleEnUS
}

// builtinFormatnum renders a number with the runtime locale's digit
// grouping and decimal separator.
func builtinFormatnum(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "formatnum", 1, len(args))
	}
	if !isNumeric(args[0]) {
		return wrongArgType(tok, env, "formatnum", "a number", args[0])
	}

	tag, err := language.Parse(env.rt.Locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	switch arg := args[0].(type) {
	case *Integer:
		return &String{Value: p.Sprintf("%v", number.Decimal(arg.Value))}
	default:
		return &String{Value: p.Sprintf("%v", number.Decimal(toFloat(arg)))}
	}
}

// builtinMarkdown converts a markdown string to HTML.
func builtinMarkdown(tok lexer.Token, env *Environment, args ...Object) Object {
	if len(args) != 1 {
		return wrongArity(tok, env, "markdown", 1, len(args))
	}
	s, ok := args[0].(*String)
	if !ok {
		return wrongArgType(tok, env, "markdown", "a string", args[0])
	}

	md := goldmark.New()
	var buf bytes.Buffer
	if err := md.Convert([]byte(s.Value), &buf); err != nil {
		return newTypeErrorf(tok, "markdown() conversion failed: %s", err)
	}
	return &String{Value: buf.String()}
}
