package lexer

import (
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `x = 5
if x < 10:
    y = x + 1
    print(y)
total = 0
`

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "5"},
		{NEWLINE, "\\n"},
		{IF, "if"},
		{IDENT, "x"},
		{LT, "<"},
		{INT, "10"},
		{COLON, ":"},
		{NEWLINE, "\\n"},
		{INDENT, ""},
		{IDENT, "y"},
		{ASSIGN, "="},
		{IDENT, "x"},
		{PLUS, "+"},
		{INT, "1"},
		{NEWLINE, "\\n"},
		{IDENT, "print"},
		{LPAREN, "("},
		{IDENT, "y"},
		{RPAREN, ")"},
		{NEWLINE, "\\n"},
		{DEDENT, ""},
		{IDENT, "total"},
		{ASSIGN, "="},
		{INT, "0"},
		{NEWLINE, "\\n"},
		{EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - wrong literal. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `1 + 2 - 3 * 4 / 5 // 6 % 7 ** 8
a == b != c <= d >= e < f > g
not a and b or c
`

	tests := []TokenType{
		INT, PLUS, INT, MINUS, INT, ASTERISK, INT, SLASH, INT,
		FLOORDIV, INT, PERCENT, INT, POW, INT, NEWLINE,
		IDENT, EQ, IDENT, NOT_EQ, IDENT, LTE, IDENT, GTE, IDENT,
		LT, IDENT, GT, IDENT, NEWLINE,
		NOT, IDENT, AND, IDENT, OR, IDENT, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "def if elif else while for in return break continue and or not true false none raise try except"

	tests := []TokenType{
		DEF, IF, ELIF, ELSE, WHILE, FOR, IN, RETURN, BREAK, CONTINUE,
		AND, OR, NOT, TRUE, FALSE, NONE, RAISE, TRY, EXCEPT,
		NEWLINE, EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input           string
		expectedType    TokenType
		expectedLiteral string
	}{
		{"5", INT, "5"},
		{"1343456", INT, "1343456"},
		{"3.14159", FLOAT, "3.14159"},
		{"0.5", FLOAT, "0.5"},
		{"1e10", FLOAT, "1e10"},
		{"2.5e-3", FLOAT, "2.5e-3"},
		{"1E+6", FLOAT, "1E+6"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Errorf("input %q: wrong type. expected=%s, got=%s", tt.input, tt.expectedType, tok.Type)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Errorf("input %q: wrong literal. expected=%q, got=%q", tt.input, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestNumberFollowedByDot(t *testing.T) {
	// "5." without a digit after must stay INT then DOT, not a float
	l := New("5.foo")
	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{INT, "5"},
		{DOT, "."},
		{IDENT, "foo"},
	}
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType || tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - expected (%s, %q), got (%s, %q)",
				i, tt.expectedType, tt.expectedLiteral, tok.Type, tok.Literal)
		}
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"hello"`, "hello"},
		{`'hello'`, "hello"},
		{`"foo bar"`, "foo bar"},
		{`""`, ""},
		{`"tab\there"`, "tab\there"},
		{`"line\nbreak"`, "line\nbreak"},
		{`"quote\"inside"`, `quote"inside`},
		{`'single\'inside'`, "single'inside"},
		{`"back\\slash"`, `back\slash`},
		{`"he said 'hi'"`, "he said 'hi'"},
		{`'she said "hi"'`, `she said "hi"`},
		{`"héllo wörld"`, "héllo wörld"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Errorf("input %s: expected STRING, got %s (%q)", tt.input, tok.Type, tok.Literal)
			continue
		}
		if tok.Literal != tt.expected {
			t.Errorf("input %s: expected literal %q, got %q", tt.input, tt.expected, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	for _, input := range []string{`"no closing quote`, "'runs off\nthe end'"} {
		l := New(input)
		tok := l.NextToken()
		if tok.Type != ILLEGAL {
			t.Errorf("input %q: expected ILLEGAL, got %s", input, tok.Type)
			continue
		}
		if tok.Msg != "unterminated string" {
			t.Errorf("input %q: expected unterminated string message, got %q", input, tok.Msg)
		}
	}
}

func TestInvalidEscape(t *testing.T) {
	l := New(`"bad \q escape"`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s (%q)", tok.Type, tok.Literal)
	}
	if tok.Msg != `invalid escape sequence '\q' in string` {
		t.Errorf("wrong message: %q", tok.Msg)
	}
}

func TestIllegalCharacter(t *testing.T) {
	tests := []struct {
		input string
		msg   string
	}{
		{"a ! b", "unrecognized character '!'"},
		{"x = 1 ?", "unrecognized character '?'"},
	}

	for _, tt := range tests {
		l := New(tt.input)
		var tok Token
		for {
			tok = l.NextToken()
			if tok.Type == ILLEGAL || tok.Type == EOF {
				break
			}
		}
		if tok.Type != ILLEGAL {
			t.Errorf("input %q: no ILLEGAL token produced", tt.input)
			continue
		}
		if tok.Msg != tt.msg {
			t.Errorf("input %q: expected message %q, got %q", tt.input, tt.msg, tok.Msg)
		}
	}
}

func TestNestedIndentation(t *testing.T) {
	input := `if a:
    if b:
        x = 1
y = 2
`

	tests := []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT, NEWLINE,
		DEDENT, DEDENT,
		IDENT, ASSIGN, INT, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestDedentAtEOF(t *testing.T) {
	// File ends inside a block with no trailing newline: the lexer
	// synthesizes NEWLINE then closes every open block.
	input := "if a:\n    x = 1"

	tests := []TokenType{
		IF, IDENT, COLON, NEWLINE,
		INDENT, IDENT, ASSIGN, INT,
		NEWLINE, DEDENT, EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s", i, expected, tok.Type)
		}
	}
}

func TestInconsistentIndentation(t *testing.T) {
	input := "if a:\n        x = 1\n    y = 2\n"

	l := New(input)
	var tok Token
	for {
		tok = l.NextToken()
		if tok.Type == ILLEGAL || tok.Type == EOF {
			break
		}
	}
	if tok.Type != ILLEGAL {
		t.Fatal("expected ILLEGAL token for inconsistent indentation")
	}
	if tok.Msg != "inconsistent indentation" {
		t.Errorf("wrong message: %q", tok.Msg)
	}
}

func TestBlankAndCommentLines(t *testing.T) {
	input := `x = 1

# a comment on its own line
    # an indented comment changes nothing
y = 2
`

	tests := []TokenType{
		IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestTrailingComment(t *testing.T) {
	input := "x = 1  # set x\ny = 2\n"

	tests := []TokenType{
		IDENT, ASSIGN, INT, NEWLINE,
		IDENT, ASSIGN, INT, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s", i, expected, tok.Type)
		}
	}
}

func TestImplicitLineJoining(t *testing.T) {
	input := `xs = [1,
       2,
       3]
d = {"a": 1,
     "b": 2}
`

	tests := []TokenType{
		IDENT, ASSIGN, LBRACKET, INT, COMMA, INT, COMMA, INT, RBRACKET, NEWLINE,
		IDENT, ASSIGN, LBRACE, STRING, COLON, INT, COMMA, STRING, COLON, INT, RBRACE, NEWLINE,
		EOF,
	}

	l := New(input)
	for i, expected := range tests {
		tok := l.NextToken()
		if tok.Type != expected {
			t.Fatalf("tests[%d] - wrong token type. expected=%s, got=%s (literal %q)",
				i, expected, tok.Type, tok.Literal)
		}
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	input := "café = 1\n日本語 = 2\n_under = 3\n"

	l := New(input)
	wantIdents := []string{"café", "日本語", "_under"}
	var got []string
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		if tok.Type == IDENT {
			got = append(got, tok.Literal)
		}
	}
	if len(got) != len(wantIdents) {
		t.Fatalf("expected %d identifiers, got %d (%v)", len(wantIdents), len(got), got)
	}
	for i, want := range wantIdents {
		if got[i] != want {
			t.Errorf("identifier %d: expected %q, got %q", i, want, got[i])
		}
	}
}

func TestTokenPositions(t *testing.T) {
	input := "x = 42\ny = 7\n"

	l := New(input)

	tok := l.NextToken() // x
	if tok.Line != 1 || tok.Column != 1 {
		t.Errorf("x: expected line 1, column 1, got line %d, column %d", tok.Line, tok.Column)
	}
	l.NextToken()        // =
	tok = l.NextToken()  // 42
	if tok.Line != 1 || tok.Column != 5 {
		t.Errorf("42: expected line 1, column 5, got line %d, column %d", tok.Line, tok.Column)
	}
	l.NextToken()       // NEWLINE
	tok = l.NextToken() // y
	if tok.Line != 2 || tok.Column != 1 {
		t.Errorf("y: expected line 2, column 1, got line %d, column %d", tok.Line, tok.Column)
	}
}

func TestNewlineTokenPosition(t *testing.T) {
	input := "if y\n    z = 2\n"

	l := New(input)

	l.NextToken()       // if
	l.NextToken()       // y
	tok := l.NextToken()
	if tok.Type != NEWLINE {
		t.Fatalf("expected NEWLINE, got %s", tok.Type)
	}
	if tok.Line != 1 {
		t.Errorf("NEWLINE: expected line 1, got line %d", tok.Line)
	}
	if tok.Column != 5 {
		t.Errorf("NEWLINE: expected column 5, got column %d", tok.Column)
	}
}

func TestFilename(t *testing.T) {
	l := NewWithFilename("x = 1", "script.sor")
	if l.Filename() != "script.sor" {
		t.Errorf("expected filename script.sor, got %q", l.Filename())
	}
	if New("x = 1").Filename() != "<input>" {
		t.Error("default filename should be <input>")
	}
}
