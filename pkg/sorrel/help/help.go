// Package help provides topic-based documentation lookup for types,
// builtins, operators, and keywords, accessible via `sorrel describe`.
package help

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sambeau/sorrel/pkg/sorrel/errors"
)

// TopicResult represents the help output for a topic
type TopicResult struct {
	Kind        string         `json:"kind"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Arity       string         `json:"arity,omitempty"`
	Builtins    []BuiltinInfo  `json:"builtins,omitempty"`
	Operators   []OperatorInfo `json:"operators,omitempty"`
	TypeNames   []string       `json:"type_names,omitempty"`
	Keywords    []KeywordInfo  `json:"keywords,omitempty"`
}

// BuiltinInfo documents one builtin function
type BuiltinInfo struct {
	Name        string `json:"name"`
	Arity       string `json:"arity"`
	Description string `json:"description"`
}

// OperatorInfo documents one operator
type OperatorInfo struct {
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
}

// KeywordInfo documents one keyword
type KeywordInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var typeNames = []string{
	"int", "float", "bool", "str", "none", "list", "dict", "function",
}

var typeDescriptions = map[string]string{
	"int":      "64-bit signed integer. Division with / always yields a float; use // for floored integer division.",
	"float":    "64-bit floating point number.",
	"bool":     "true or false. and/or/not operate on truthiness and yield the deciding operand.",
	"str":      "immutable text. Index with s[i] (one character), iterate character by character, concatenate with +.",
	"none":     "the absent value. Functions without an explicit return yield none.",
	"list":     "ordered, mutable, 0-indexed sequence. Negative indexes count from the end. Lists are reference values.",
	"dict":     "mapping with unique keys in insertion order. Keys must be hashable scalars. Dicts are reference values.",
	"function": "user-defined with def, or a builtin. Functions capture their defining scope (closures).",
}

var builtinDocs = []BuiltinInfo{
	{Name: "abs", Arity: "1", Description: "Absolute value of a number"},
	{Name: "append", Arity: "2", Description: "Append a value to a list in place; returns the list"},
	{Name: "bool", Arity: "1", Description: "Truthiness of any value"},
	{Name: "float", Arity: "1", Description: "Convert a number, bool, or string to a float"},
	{Name: "formatnum", Arity: "1", Description: "Format a number with the configured locale's separators"},
	{Name: "formattime", Arity: "2", Description: "Format a timestamp with a layout string, localized"},
	{Name: "int", Arity: "1", Description: "Convert a number, bool, or string to an int (floats truncate)"},
	{Name: "keys", Arity: "1", Description: "A dict's keys as a list, in insertion order"},
	{Name: "len", Arity: "1", Description: "Length of a string, list, or dict"},
	{Name: "markdown", Arity: "1", Description: "Convert a markdown string to HTML"},
	{Name: "max", Arity: "1+", Description: "Largest of a list or of the given numbers"},
	{Name: "min", Arity: "1+", Description: "Smallest of a list or of the given numbers"},
	{Name: "parsetime", Arity: "1", Description: "Parse a date/time string into a dict of components"},
	{Name: "pop", Arity: "1-2", Description: "Remove and return a list element or a dict value"},
	{Name: "print", Arity: "0+", Description: "Print values, space-separated, with a trailing newline"},
	{Name: "range", Arity: "1-3", Description: "List of ints: range(stop), range(start, stop), range(start, stop, step)"},
	{Name: "sorted", Arity: "1", Description: "New list sorted ascending (all numbers or all strings)"},
	{Name: "str", Arity: "1", Description: "Printed form of any value"},
	{Name: "sum", Arity: "1", Description: "Sum of a list of numbers"},
	{Name: "type", Arity: "1", Description: "Type name of a value, as a string"},
	{Name: "values", Arity: "1", Description: "A dict's values as a list, in insertion order"},
}

var operatorDocs = []OperatorInfo{
	{Symbol: "+", Description: "Add numbers, concatenate strings or lists"},
	{Symbol: "-", Description: "Subtract, or negate (unary)"},
	{Symbol: "*", Description: "Multiply numbers, repeat strings or lists"},
	{Symbol: "/", Description: "Divide; always yields a float"},
	{Symbol: "//", Description: "Floored division"},
	{Symbol: "%", Description: "Floored remainder (sign follows the divisor)"},
	{Symbol: "**", Description: "Exponentiation, right-associative"},
	{Symbol: "== !=", Description: "Equality; deep for lists and dicts, identity for functions"},
	{Symbol: "< <= > >=", Description: "Ordering for numbers and strings; comparisons chain (a < b < c)"},
	{Symbol: "and or", Description: "Short-circuit; yield the operand that decided the result"},
	{Symbol: "not", Description: "Logical negation on truthiness"},
	{Symbol: "[]", Description: "Index a list, string, or dict; negative indexes count from the end"},
	{Symbol: ".", Description: "Dict attribute access: d.key is d[\"key\"]"},
}

var keywordDocs = map[string]string{
	"def":      "Define a function: def name(params): block",
	"if":       "Conditional: if cond: block, with optional elif/else",
	"elif":     "Additional condition in an if chain",
	"else":     "Fallback branch of an if chain",
	"while":    "Loop while a condition is truthy",
	"for":      "Iterate a list, string, or dict: for x in xs: block",
	"in":       "Separates the loop variable from the iterable in for",
	"return":   "Exit the enclosing function with a value (none if omitted)",
	"break":    "Exit the innermost loop",
	"continue": "Skip to the innermost loop's next iteration",
	"and":      "Short-circuit conjunction",
	"or":       "Short-circuit disjunction",
	"not":      "Logical negation",
	"raise":    "Raise an error carrying a message (string or dict)",
	"try":      "Run a block, catching runtime errors in the except handler",
	"except":   "Handler for a try block; optionally binds the error as a dict",
	"true":     "Boolean truth",
	"false":    "Boolean falsehood",
	"none":     "The absent value",
}

// DescribeTopic returns help information for the given topic: a type name,
// a builtin, a keyword, or one of the list topics (types, builtins,
// operators, keywords).
func DescribeTopic(topic string) (*TopicResult, error) {
	if topic == "" {
		return nil, fmt.Errorf("no topic specified (try: types, builtins, operators, keywords, or a name like list or print)")
	}

	topic = strings.TrimSpace(topic)
	normalized := strings.ToLower(topic)

	switch normalized {
	case "builtins":
		return describeBuiltins(), nil
	case "operators":
		return describeOperators(), nil
	case "types":
		return describeTypes(), nil
	case "keywords":
		return describeKeywords(), nil
	}

	if desc, ok := typeDescriptions[normalized]; ok {
		return &TopicResult{Kind: "type", Name: normalized, Description: desc}, nil
	}

	for _, b := range builtinDocs {
		if b.Name == normalized {
			return &TopicResult{
				Kind:        "builtin",
				Name:        b.Name,
				Arity:       b.Arity,
				Description: b.Description,
			}, nil
		}
	}

	if desc, ok := keywordDocs[normalized]; ok {
		return &TopicResult{Kind: "keyword", Name: normalized, Description: desc}, nil
	}

	return nil, unknownTopicError(topic)
}

func describeBuiltins() *TopicResult {
	builtins := make([]BuiltinInfo, len(builtinDocs))
	copy(builtins, builtinDocs)
	sort.Slice(builtins, func(i, j int) bool { return builtins[i].Name < builtins[j].Name })
	return &TopicResult{Kind: "builtin-list", Name: "builtins", Builtins: builtins}
}

func describeOperators() *TopicResult {
	operators := make([]OperatorInfo, len(operatorDocs))
	copy(operators, operatorDocs)
	return &TopicResult{Kind: "operator-list", Name: "operators", Operators: operators}
}

func describeTypes() *TopicResult {
	names := make([]string, len(typeNames))
	copy(names, typeNames)
	return &TopicResult{Kind: "type-list", Name: "types", TypeNames: names}
}

func describeKeywords() *TopicResult {
	keywords := make([]KeywordInfo, 0, len(keywordDocs))
	for name, desc := range keywordDocs {
		keywords = append(keywords, KeywordInfo{Name: name, Description: desc})
	}
	sort.Slice(keywords, func(i, j int) bool { return keywords[i].Name < keywords[j].Name })
	return &TopicResult{Kind: "keyword-list", Name: "keywords", Keywords: keywords}
}

// unknownTopicError builds an error with "Did you mean" suggestions.
func unknownTopicError(topic string) error {
	var candidates []string
	candidates = append(candidates, typeNames...)
	for _, b := range builtinDocs {
		candidates = append(candidates, b.Name)
	}
	for name := range keywordDocs {
		candidates = append(candidates, name)
	}
	candidates = append(candidates, "types", "builtins", "operators", "keywords")

	suggestions := errors.FindTopMatches(topic, candidates, 3)
	if len(suggestions) > 0 {
		return fmt.Errorf("unknown topic %q (did you mean: %s?)", topic, strings.Join(suggestions, ", "))
	}
	return fmt.Errorf("unknown topic %q (try: types, builtins, operators, keywords)", topic)
}
