package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors for %q:\n%s", input, strings.Join(errs, "\n"))
	}
	return program
}

func parseErrors(t *testing.T, input string) *Parser {
	t.Helper()
	l := lexer.New(input)
	p := New(l)
	p.ParseProgram()
	if len(p.StructuredErrors()) == 0 {
		t.Fatalf("expected parse errors for %q, got none", input)
	}
	return p
}

func TestAssignStatements(t *testing.T) {
	tests := []struct {
		input         string
		expectedName  string
		expectedValue string
	}{
		{"x = 5\n", "x", "5"},
		{"pi = 3.14\n", "pi", "3.14"},
		{"name = \"sorrel\"\n", "name", `"sorrel"`},
		{"flag = true\n", "flag", "true"},
		{"nothing = none\n", "nothing", "none"},
		{"total = a + b * 2\n", "total", "(a + (b * 2))"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		stmt, ok := program.Statements[0].(*ast.AssignStatement)
		if !ok {
			t.Fatalf("input %q: expected AssignStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.Name.Value != tt.expectedName {
			t.Errorf("input %q: expected name %q, got %q", tt.input, tt.expectedName, stmt.Name.Value)
		}
		if stmt.Value.String() != tt.expectedValue {
			t.Errorf("input %q: expected value %q, got %q", tt.input, tt.expectedValue, stmt.Value.String())
		}
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 + 3", "((1 + 2) + 3)"},
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-a * b", "((-a) * b)"},
		{"a + b / c", "(a + (b / c))"},
		{"a // b % c", "((a // b) % c)"},
		{"2 ** 3 ** 2", "(2 ** (3 ** 2))"},
		{"-2 ** 2", "(-(2 ** 2))"},
		{"a * 2 ** b", "(a * (2 ** b))"},
		{"not a and b", "((not a) and b)"},
		{"a and b or c", "((a and b) or c)"},
		{"a or b and c", "(a or (b and c))"},
		{"not a == b", "(not (a == b))"},
		{"a + b == c + d", "((a + b) == (c + d))"},
		{"a == b and c != d", "((a == b) and (c != d))"},
		{"xs[0] + 1", "((xs[0]) + 1)"},
		{"-xs[0]", "(-(xs[0]))"},
		{"f(a) * 2", "(f(a) * 2)"},
		{"d.key + 1", "((d.key) + 1)"},
		{"not f(a)", "(not f(a))"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input+"\n")
		got := strings.TrimSuffix(program.String(), "\n")
		if got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestChainedComparison(t *testing.T) {
	program := parseProgram(t, "1 < x <= 10\n")

	stmt := program.Statements[0].(*ast.ExpressionStatement)
	cmp, ok := stmt.Expression.(*ast.CompareExpression)
	if !ok {
		t.Fatalf("expected CompareExpression, got %T", stmt.Expression)
	}
	if cmp.First.String() != "1" {
		t.Errorf("expected first operand 1, got %s", cmp.First.String())
	}
	if len(cmp.Ops) != 2 || cmp.Ops[0] != "<" || cmp.Ops[1] != "<=" {
		t.Errorf("wrong operators: %v", cmp.Ops)
	}
	if len(cmp.Operands) != 2 {
		t.Fatalf("expected 2 operands, got %d", len(cmp.Operands))
	}
	if cmp.Operands[0].String() != "x" || cmp.Operands[1].String() != "10" {
		t.Errorf("wrong operands: %s, %s", cmp.Operands[0], cmp.Operands[1])
	}
}

func TestSingleComparisonIsCompareExpression(t *testing.T) {
	program := parseProgram(t, "a == b\n")
	stmt := program.Statements[0].(*ast.ExpressionStatement)
	cmp, ok := stmt.Expression.(*ast.CompareExpression)
	if !ok {
		t.Fatalf("expected CompareExpression, got %T", stmt.Expression)
	}
	if len(cmp.Ops) != 1 || cmp.Ops[0] != "==" {
		t.Errorf("wrong operators: %v", cmp.Ops)
	}
}

func TestIfElifElse(t *testing.T) {
	input := `if a:
    x = 1
elif b:
    x = 2
elif c:
    x = 3
else:
    x = 4
`
	program := parseProgram(t, input)
	if len(program.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(program.Statements))
	}

	ifStmt, ok := program.Statements[0].(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected IfStatement, got %T", program.Statements[0])
	}
	if ifStmt.Condition.String() != "a" {
		t.Errorf("wrong condition: %s", ifStmt.Condition.String())
	}

	// elif b
	elif1, ok := ifStmt.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected nested IfStatement for elif, got %T", ifStmt.Alternative)
	}
	if elif1.Condition.String() != "b" {
		t.Errorf("wrong elif condition: %s", elif1.Condition.String())
	}

	// elif c, then else
	elif2, ok := elif1.Alternative.(*ast.IfStatement)
	if !ok {
		t.Fatalf("expected second elif, got %T", elif1.Alternative)
	}
	if _, ok := elif2.Alternative.(*ast.BlockStatement); !ok {
		t.Fatalf("expected else block, got %T", elif2.Alternative)
	}
}

func TestWhileStatement(t *testing.T) {
	input := `while n > 0:
    n = n - 1
`
	program := parseProgram(t, input)
	stmt, ok := program.Statements[0].(*ast.WhileStatement)
	if !ok {
		t.Fatalf("expected WhileStatement, got %T", program.Statements[0])
	}
	if stmt.Condition.String() != "(n > 0)" {
		t.Errorf("wrong condition: %s", stmt.Condition.String())
	}
	if len(stmt.Body.Statements) != 1 {
		t.Errorf("expected 1 body statement, got %d", len(stmt.Body.Statements))
	}
}

func TestForStatement(t *testing.T) {
	input := `for item in items:
    print(item)
`
	program := parseProgram(t, input)
	stmt, ok := program.Statements[0].(*ast.ForStatement)
	if !ok {
		t.Fatalf("expected ForStatement, got %T", program.Statements[0])
	}
	if stmt.Var.Value != "item" {
		t.Errorf("wrong loop variable: %s", stmt.Var.Value)
	}
	if stmt.Iterable.String() != "items" {
		t.Errorf("wrong iterable: %s", stmt.Iterable.String())
	}
}

func TestDefStatement(t *testing.T) {
	input := `def add(a, b):
    return a + b
`
	program := parseProgram(t, input)
	stmt, ok := program.Statements[0].(*ast.DefStatement)
	if !ok {
		t.Fatalf("expected DefStatement, got %T", program.Statements[0])
	}
	if stmt.Name.Value != "add" {
		t.Errorf("wrong function name: %s", stmt.Name.Value)
	}
	if len(stmt.Params) != 2 || stmt.Params[0].Value != "a" || stmt.Params[1].Value != "b" {
		t.Errorf("wrong parameters: %v", stmt.Params)
	}
	ret, ok := stmt.Body.Statements[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("expected ReturnStatement in body, got %T", stmt.Body.Statements[0])
	}
	if ret.ReturnValue.String() != "(a + b)" {
		t.Errorf("wrong return value: %s", ret.ReturnValue.String())
	}
}

func TestDefNoParams(t *testing.T) {
	input := `def nothing():
    return
`
	program := parseProgram(t, input)
	stmt := program.Statements[0].(*ast.DefStatement)
	if len(stmt.Params) != 0 {
		t.Errorf("expected no parameters, got %v", stmt.Params)
	}
	ret := stmt.Body.Statements[0].(*ast.ReturnStatement)
	if ret.ReturnValue != nil {
		t.Errorf("expected bare return, got %s", ret.ReturnValue.String())
	}
}

func TestTryExcept(t *testing.T) {
	input := `try:
    risky()
except err:
    print(err)
`
	program := parseProgram(t, input)
	stmt, ok := program.Statements[0].(*ast.TryStatement)
	if !ok {
		t.Fatalf("expected TryStatement, got %T", program.Statements[0])
	}
	if stmt.ErrName == nil || stmt.ErrName.Value != "err" {
		t.Errorf("wrong error binding: %v", stmt.ErrName)
	}
	if len(stmt.Body.Statements) != 1 || len(stmt.Handler.Statements) != 1 {
		t.Error("wrong body/handler statement counts")
	}
}

func TestTryExceptNoBinding(t *testing.T) {
	input := `try:
    risky()
except:
    pass_through = 1
`
	program := parseProgram(t, input)
	stmt := program.Statements[0].(*ast.TryStatement)
	if stmt.ErrName != nil {
		t.Errorf("expected no error binding, got %s", stmt.ErrName.Value)
	}
}

func TestRaiseStatement(t *testing.T) {
	program := parseProgram(t, "raise \"bad input\"\n")
	stmt, ok := program.Statements[0].(*ast.RaiseStatement)
	if !ok {
		t.Fatalf("expected RaiseStatement, got %T", program.Statements[0])
	}
	if stmt.Value.String() != `"bad input"` {
		t.Errorf("wrong raise value: %s", stmt.Value.String())
	}
}

func TestIndexAssignStatements(t *testing.T) {
	tests := []struct {
		input          string
		expectedString string
	}{
		{"xs[0] = 9\n", "(xs[0]) = 9"},
		{"d[\"k\"] = 1\n", "(d[\"k\"]) = 1"},
		{"d.key = 2\n", "(d.key) = 2"},
		{"grid[i][j] = 0\n", "((grid[i])[j]) = 0"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt, ok := program.Statements[0].(*ast.IndexAssignStatement)
		if !ok {
			t.Fatalf("input %q: expected IndexAssignStatement, got %T", tt.input, program.Statements[0])
		}
		if stmt.String() != tt.expectedString {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expectedString, stmt.String())
		}
	}
}

func TestListAndDictLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[]", "[]"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[1, 2, 3,]", "[1, 2, 3]"}, // trailing comma tolerated
		{"[[1, 2], [3]]", "[[1, 2], [3]]"},
		{"{}", "{}"},
		{`{"a": 1, "b": 2}`, `{"a": 1, "b": 2}`},
		{`{"a": 1,}`, `{"a": 1}`},
		{`{1: "one", true: "yes"}`, `{1: "one", true: "yes"}`},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input+"\n")
		got := strings.TrimSuffix(program.String(), "\n")
		if got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestCallExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"f()", "f()"},
		{"f(1)", "f(1)"},
		{"add(1, 2 * 3)", "add(1, (2 * 3))"},
		{"outer(inner(x))", "outer(inner(x))"},
		{"get()(1)", "get()(1)"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input+"\n")
		got := strings.TrimSuffix(program.String(), "\n")
		if got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestMultilineExpressionsInBrackets(t *testing.T) {
	input := `xs = [1,
       2,
       3]
`
	program := parseProgram(t, input)
	stmt := program.Statements[0].(*ast.AssignStatement)
	if stmt.Value.String() != "[1, 2, 3]" {
		t.Errorf("expected [1, 2, 3], got %s", stmt.Value.String())
	}
}

func TestParseErrorCodes(t *testing.T) {
	tests := []struct {
		input        string
		expectedCode string
	}{
		{"if x\n    y = 1\n", "PARSE-0001"},         // missing ':'
		{"if x:\ny = 1\n", "PARSE-0003"},            // no indented block
		{"break\n", "PARSE-0004"},                   // break outside loop
		{"continue\n", "PARSE-0004"},                // continue outside loop
		{"return 1\n", "PARSE-0005"},                // return outside function
		{"1 + 2 = 3\n", "PARSE-0007"},               // bad assignment target
		{"except:\n    x = 1\n", "PARSE-0008"},      // except without try
		{"x = \"oops\n", "LEX-0002"},                // unterminated string
		{"x = ?\n", "LEX-0001"},                     // unrecognized character
	}

	for _, tt := range tests {
		p := parseErrors(t, tt.input)
		found := false
		for _, err := range p.StructuredErrors() {
			if err.Code == tt.expectedCode {
				found = true
				break
			}
		}
		if !found {
			var codes []string
			for _, err := range p.StructuredErrors() {
				codes = append(codes, fmt.Sprintf("%s (%s)", err.Code, err.Message))
			}
			t.Errorf("input %q: expected code %s, got %v", tt.input, tt.expectedCode, codes)
		}
	}
}

func TestBreakInsideLoopIsFine(t *testing.T) {
	inputs := []string{
		"while true:\n    break\n",
		"for x in xs:\n    continue\n",
		"while a:\n    if b:\n        break\n",
	}
	for _, input := range inputs {
		parseProgram(t, input)
	}
}

func TestReturnInsideFunctionIsFine(t *testing.T) {
	parseProgram(t, "def f():\n    return 1\n")
	// Loop state does not leak into a nested function body
	parseProgram(t, "while a:\n    def f():\n        return 1\n")
}

func TestBreakInsideDefInsideLoopIsError(t *testing.T) {
	// A function body starts a fresh loop context
	input := "while a:\n    def f():\n        break\n"
	p := parseErrors(t, input)
	found := false
	for _, err := range p.StructuredErrors() {
		if err.Code == "PARSE-0004" {
			found = true
		}
	}
	if !found {
		t.Error("expected 'break' outside loop error inside nested def")
	}
}

func TestErrorRecovery(t *testing.T) {
	// Two bad lines, both reported
	input := "1 + 2 = 3\n4 + 5 = 6\nx = 7\n"
	l := lexer.New(input)
	p := New(l)
	p.ParseProgram()

	if len(p.StructuredErrors()) < 2 {
		t.Errorf("expected at least 2 errors, got %d: %v", len(p.StructuredErrors()), p.Errors())
	}
}

func TestErrorPositions(t *testing.T) {
	p := parseErrors(t, "x = 1\nif y\n    z = 2\n")
	err := p.StructuredErrors()[0]
	if err.Line != 2 {
		t.Errorf("expected error on line 2, got line %d", err.Line)
	}
	if err.Column <= 0 {
		t.Errorf("expected a positive column, got %d", err.Column)
	}
}

func TestErrorsFormat(t *testing.T) {
	p := parseErrors(t, "if y\n    z = 2\n")
	msg := p.Errors()[0]
	if !strings.HasPrefix(msg, "line 1, ") {
		t.Errorf("expected 'line 1, column N: ...' format, got %q", msg)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	input := `x = 1
y = x + 2.5
name = "sorrel"
xs = [1, 2, 3]
d = {a: 1, b: 2}
xs[0] = 9
d.a = 10
def fib(n):
    if n < 2:
        return n
    return fib(n - 1) + fib(n - 2)
for n in range(10):
    if n % 2 == 0:
        continue
    print(n)
while x < 100:
    x = x * 2
    if x > 50:
        break
try:
    raise "boom"
except err:
    print(err.kind)
print(not (1 <= x < 100) or fib(5) == 5 and true)
`

	first := parseProgram(t, input)
	second := parseProgram(t, input)

	if len(first.Statements) != len(second.Statements) {
		t.Fatalf("statement counts differ: %d vs %d",
			len(first.Statements), len(second.Statements))
	}
	if first.String() != second.String() {
		t.Errorf("two parses of the same source differ:\n%q\n%q",
			first.String(), second.String())
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		expected interface{}
	}{
		{"5\n", int64(5)},
		{"3.14\n", 3.14},
		{"1e3\n", 1000.0},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		stmt := program.Statements[0].(*ast.ExpressionStatement)
		switch expected := tt.expected.(type) {
		case int64:
			lit, ok := stmt.Expression.(*ast.IntegerLiteral)
			if !ok {
				t.Fatalf("input %q: expected IntegerLiteral, got %T", tt.input, stmt.Expression)
			}
			if lit.Value != expected {
				t.Errorf("input %q: expected %d, got %d", tt.input, expected, lit.Value)
			}
		case float64:
			lit, ok := stmt.Expression.(*ast.FloatLiteral)
			if !ok {
				t.Fatalf("input %q: expected FloatLiteral, got %T", tt.input, stmt.Expression)
			}
			if lit.Value != expected {
				t.Errorf("input %q: expected %g, got %g", tt.input, expected, lit.Value)
			}
		}
	}
}
