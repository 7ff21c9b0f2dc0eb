package errors

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestCatalogRendering(t *testing.T) {
	tests := []struct {
		code     string
		data     map[string]any
		expected string
	}{
		{"LEX-0002", nil, "unterminated string"},
		{"LEX-0004", map[string]any{"Escape": "q"}, `invalid escape sequence '\q' in string`},
		{"PARSE-0001", map[string]any{"Expected": "':'", "Got": "end of line"}, "expected ':', got 'end of line'"},
		{"PARSE-0004", map[string]any{"Keyword": "break"}, "'break' outside loop"},
		{"PARSE-0005", nil, "'return' outside function"},
		{"NAME-0001", map[string]any{"Name": "foo"}, "name 'foo' is not defined"},
		{"TYPE-0001", map[string]any{"Operator": "+", "Left": "int", "Right": "str"}, "unsupported operand types for +: int and str"},
		{"TYPE-0003", map[string]any{"Got": "int"}, "int is not callable"},
		{"INDEX-0001", map[string]any{"Index": 5, "Length": 3}, "index 5 out of range (length 3)"},
		{"KEY-0001", map[string]any{"Key": `"missing"`}, `key "missing" not found`},
		{"ZERO-0001", nil, "division by zero"},
		{"ZERO-0002", nil, "modulo by zero"},
		{"ARITY-0001", map[string]any{"Function": "len", "Want": 1, "Got": 2}, "len() takes 1 argument(s), got 2"},
		{"ARITY-0002", map[string]any{"Function": "range", "Min": 1, "Max": 3, "Got": 4}, "range() takes 1-3 arguments, got 4"},
		{"REC-0001", map[string]any{"Limit": 1000}, "maximum recursion depth exceeded (1000)"},
	}

	for _, tt := range tests {
		err := New(tt.code, tt.data)
		if err.Message != tt.expected {
			t.Errorf("%s: expected message %q, got %q", tt.code, tt.expected, err.Message)
		}
		if err.Code != tt.code {
			t.Errorf("%s: code not carried through, got %q", tt.code, err.Code)
		}
	}
}

func TestUnknownCodeFallsBack(t *testing.T) {
	err := New("NOPE-9999", map[string]any{"message": "something odd"})
	if err.Message != "something odd" {
		t.Errorf("expected fallback message, got %q", err.Message)
	}

	err = New("NOPE-9999", nil)
	if err.Message != "NOPE-9999" {
		t.Errorf("expected code as message, got %q", err.Message)
	}
}

func TestKindNames(t *testing.T) {
	tests := []struct {
		class ErrorClass
		kind  string
	}{
		{ClassLex, "LexError"},
		{ClassParse, "ParseError"},
		{ClassName, "NameError"},
		{ClassType, "TypeError"},
		{ClassIndex, "IndexError"},
		{ClassKey, "KeyError"},
		{ClassZeroDiv, "ZeroDivisionError"},
		{ClassArity, "ArityError"},
		{ClassRecursion, "RecursionError"},
		{ClassRaise, "Error"},
	}

	for _, tt := range tests {
		if got := tt.class.Kind(); got != tt.kind {
			t.Errorf("class %q: expected kind %q, got %q", tt.class, tt.kind, got)
		}
	}
}

func TestIsCatchable(t *testing.T) {
	uncatchable := []ErrorClass{ClassLex, ClassParse}
	for _, c := range uncatchable {
		if c.IsCatchable() {
			t.Errorf("class %q should not be catchable", c)
		}
	}

	catchable := []ErrorClass{
		ClassName, ClassType, ClassIndex, ClassKey,
		ClassZeroDiv, ClassArity, ClassRecursion, ClassRaise,
	}
	for _, c := range catchable {
		if !c.IsCatchable() {
			t.Errorf("class %q should be catchable", c)
		}
	}
}

func TestStringFormat(t *testing.T) {
	err := NewWithPosition("NAME-0001", 3, 7, map[string]any{"Name": "countr"})
	got := err.String()
	want := "line 3, column 7: NameError: name 'countr' is not defined"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	err = err.WithFile("script.sor")
	if !strings.HasPrefix(err.String(), "script.sor: line 3, column 7:") {
		t.Errorf("file prefix missing: %q", err.String())
	}
}

func TestStringIncludesHints(t *testing.T) {
	err := NewUndefinedName("lenn", []string{"len", "print", "type"})
	s := err.String()
	if !strings.Contains(s, "Did you mean `len`?") {
		t.Errorf("expected hint in string output, got %q", s)
	}
}

func TestPrettyString(t *testing.T) {
	err := NewWithPosition("ZERO-0001", 2, 11, nil).WithFile("calc.sor")
	pretty := err.PrettyString()

	for _, want := range []string{"ZeroDivisionError", "in: calc.sor", "at: line 2, column 11", "division by zero"} {
		if !strings.Contains(pretty, want) {
			t.Errorf("pretty output missing %q:\n%s", want, pretty)
		}
	}
}

func TestToJSON(t *testing.T) {
	err := NewWithPosition("TYPE-0001", 1, 5, map[string]any{
		"Operator": "-", "Left": "str", "Right": "int",
	})
	data, jerr := err.ToJSON()
	if jerr != nil {
		t.Fatalf("ToJSON failed: %v", jerr)
	}

	var decoded map[string]any
	if uerr := json.Unmarshal(data, &decoded); uerr != nil {
		t.Fatalf("output is not valid JSON: %v", uerr)
	}
	if decoded["class"] != "type" {
		t.Errorf("expected class 'type', got %v", decoded["class"])
	}
	if decoded["code"] != "TYPE-0001" {
		t.Errorf("expected code TYPE-0001, got %v", decoded["code"])
	}
	if decoded["line"] != float64(1) {
		t.Errorf("expected line 1, got %v", decoded["line"])
	}
}

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b     string
		expected int
	}{
		{"", "", 0},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"abc", "ab", 1},
		{"kitten", "sitting", 3},
		{"print", "pritn", 2},
	}

	for _, tt := range tests {
		if got := levenshteinDistance(tt.a, tt.b); got != tt.expected {
			t.Errorf("levenshteinDistance(%q, %q): expected %d, got %d", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestFindClosestMatch(t *testing.T) {
	candidates := []string{"print", "len", "range", "counter", "total"}

	tests := []struct {
		input    string
		expected string
	}{
		{"pritn", "print"},
		{"prnt", "print"},
		{"counr", "counter"},
		{"lan", "len"},
		{"zzzzzz", ""},      // nothing close enough
		{"print", ""},       // exact matches are not suggestions
		{"", ""},
	}

	for _, tt := range tests {
		if got := FindClosestMatch(tt.input, candidates); got != tt.expected {
			t.Errorf("FindClosestMatch(%q): expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestFindClosestMatchCaseInsensitive(t *testing.T) {
	got := FindClosestMatch("Pritn", []string{"print"})
	if got != "print" {
		t.Errorf("expected case-insensitive match 'print', got %q", got)
	}
}

func TestFindTopMatches(t *testing.T) {
	candidates := []string{"sorted", "sort", "sum", "str"}

	got := FindTopMatches("sortd", candidates, 2)
	if len(got) == 0 {
		t.Fatal("expected at least one match")
	}
	if got[0] != "sorted" && got[0] != "sort" {
		t.Errorf("expected a sort-ish best match, got %q", got[0])
	}
	if len(got) > 2 {
		t.Errorf("asked for 2 matches, got %d", len(got))
	}
}

func TestNewUndefinedName(t *testing.T) {
	err := NewUndefinedName("foo", nil)
	if err.Class != ClassName {
		t.Errorf("expected name class, got %q", err.Class)
	}
	if err.Message != "name 'foo' is not defined" {
		t.Errorf("wrong message: %q", err.Message)
	}
	if len(err.Hints) != 0 {
		t.Errorf("expected no hints without candidates, got %v", err.Hints)
	}

	err = NewUndefinedName("whlie", Keywords)
	found := false
	for _, h := range err.Hints {
		if strings.Contains(h, "while") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected 'while' suggestion for 'whlie', got %v", err.Hints)
	}
}

func TestNewSimple(t *testing.T) {
	err := NewSimple(ClassRaise, "boom")
	if err.Class != ClassRaise || err.Message != "boom" || err.Code != "" {
		t.Errorf("unexpected simple error: %+v", err)
	}
}
