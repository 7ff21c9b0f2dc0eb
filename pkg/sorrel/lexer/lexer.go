package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE // end of a logical line
	INDENT  // increased indentation, opens a block
	DEDENT  // decreased indentation, closes a block

	// Identifiers and literals
	IDENT  // add, counter, x, y, ...
	INT    // 1343456
	FLOAT  // 3.14159
	STRING // "hello" or 'hello'

	// Operators
	ASSIGN   // =
	PLUS     // +
	MINUS    // -
	ASTERISK // *
	SLASH    // /
	FLOORDIV // //
	PERCENT  // %
	POW      // **
	LT       // <
	GT       // >
	LTE      // <=
	GTE      // >=
	EQ       // ==
	NOT_EQ   // !=

	// Delimiters
	COMMA    // ,
	COLON    // :
	DOT      // .
	LPAREN   // (
	RPAREN   // )
	LBRACKET // [
	RBRACKET // ]
	LBRACE   // {
	RBRACE   // }

	// Keywords
	DEF      // "def"
	IF       // "if"
	ELIF     // "elif"
	ELSE     // "else"
	WHILE    // "while"
	FOR      // "for"
	IN       // "in"
	RETURN   // "return"
	BREAK    // "break"
	CONTINUE // "continue"
	AND      // "and"
	OR       // "or"
	NOT      // "not"
	TRUE     // "true"
	FALSE    // "false"
	NONE     // "none"
	RAISE    // "raise"
	TRY      // "try"
	EXCEPT   // "except"
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
	Msg     string // error detail, set only for ILLEGAL tokens
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %s, Line: %d, Column: %d}",
		t.Type.String(), t.Literal, t.Line, t.Column)
}

// String returns a string representation of the token type
func (tt TokenType) String() string {
	switch tt {
	case ILLEGAL:
		return "ILLEGAL"
	case EOF:
		return "EOF"
	case NEWLINE:
		return "NEWLINE"
	case INDENT:
		return "INDENT"
	case DEDENT:
		return "DEDENT"
	case IDENT:
		return "IDENT"
	case INT:
		return "INT"
	case FLOAT:
		return "FLOAT"
	case STRING:
		return "STRING"
	case ASSIGN:
		return "ASSIGN"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case FLOORDIV:
		return "FLOORDIV"
	case PERCENT:
		return "PERCENT"
	case POW:
		return "POW"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case LTE:
		return "LTE"
	case GTE:
		return "GTE"
	case EQ:
		return "EQ"
	case NOT_EQ:
		return "NOT_EQ"
	case COMMA:
		return "COMMA"
	case COLON:
		return "COLON"
	case DOT:
		return "DOT"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACKET:
		return "LBRACKET"
	case RBRACKET:
		return "RBRACKET"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case DEF:
		return "DEF"
	case IF:
		return "IF"
	case ELIF:
		return "ELIF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case FOR:
		return "FOR"
	case IN:
		return "IN"
	case RETURN:
		return "RETURN"
	case BREAK:
		return "BREAK"
	case CONTINUE:
		return "CONTINUE"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case NOT:
		return "NOT"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case NONE:
		return "NONE"
	case RAISE:
		return "RAISE"
	case TRY:
		return "TRY"
	case EXCEPT:
		return "EXCEPT"
	default:
		return "UNKNOWN"
	}
}

// Keywords map for identifying language keywords
var keywords = map[string]TokenType{
	"def":      DEF,
	"if":       IF,
	"elif":     ELIF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"in":       IN,
	"return":   RETURN,
	"break":    BREAK,
	"continue": CONTINUE,
	"and":      AND,
	"or":       OR,
	"not":      NOT,
	"true":     TRUE,
	"false":    FALSE,
	"none":     NONE,
	"raise":    RAISE,
	"try":      TRY,
	"except":   EXCEPT,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// tabWidth is the column multiple a tab advances to when measuring
// indentation, matching the usual Python rule.
const tabWidth = 8

// Lexer performs lexical analysis of Sorrel source text. It emits NEWLINE
// at the end of each logical line and INDENT/DEDENT tokens from an
// indentation stack, so the parser sees block structure explicitly.
type Lexer struct {
	filename     string
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination (first byte)
	chRune       rune // current character as a rune (for Unicode support)
	chSize       int  // byte size of current character
	line         int
	column       int
	indents      []int   // indentation stack, always starts with 0
	pending      []Token // queued DEDENT/NEWLINE tokens
	bracketDepth int     // depth of (), [], {} for implicit line joining
	atLineStart  bool
	sawToken     bool // whether the current logical line produced any token
	eofDone      bool
}

// New creates a new lexer instance
func New(input string) *Lexer {
	return NewWithFilename(input, "<input>")
}

// NewWithFilename creates a new lexer instance with a specific filename
func NewWithFilename(input string, filename string) *Lexer {
	l := &Lexer{
		filename:    filename,
		input:       input,
		line:        1,
		column:      0,
		indents:     []int{0},
		atLineStart: true,
	}
	l.readChar()
	return l
}

// Filename returns the name the lexer was created with.
func (l *Lexer) Filename() string { return l.filename }

// readChar reads the next character and advances position.
// ASCII fast-path for single-byte characters, UTF-8 decoding for the rest
// (to support Unicode identifiers).
func (l *Lexer) readChar() {
	// line/column describe the current character. The rollover happens
	// when leaving a newline, so the newline itself is stamped at the
	// line it terminates.
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0 // NUL represents EOF
		l.chRune = 0
		l.chSize = 0
		l.position = l.readPosition
		return
	}

	b := l.input[l.readPosition]

	if b < utf8.RuneSelf {
		l.ch = b
		l.chRune = rune(b)
		l.chSize = 1
		l.position = l.readPosition
		l.readPosition++

		l.column++
		return
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = b
	l.chRune = r
	l.chSize = size
	l.position = l.readPosition
	l.readPosition += size

	l.column++
}

// peekChar returns the next character without advancing position
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken scans the input and returns the next token
func (l *Lexer) NextToken() Token {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok
	}

	if l.atLineStart && l.bracketDepth == 0 {
		if tok, ok := l.handleLineStart(); ok {
			return tok
		}
	}

	l.skipSpaces()

	if l.ch == '#' {
		l.skipComment()
	}

	if l.ch == '\n' {
		line, col := l.line, l.column
		l.readChar()
		if l.bracketDepth > 0 {
			// Implicit line joining inside brackets
			return l.NextToken()
		}
		l.atLineStart = true
		l.sawToken = false
		return Token{Type: NEWLINE, Literal: "\\n", Line: line, Column: col}
	}

	if l.ch == 0 {
		return l.handleEOF()
	}

	var tok Token

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: EQ, Literal: "==", Line: line, Column: col}
		} else {
			tok = l.newToken(ASSIGN)
		}
	case '+':
		tok = l.newToken(PLUS)
	case '-':
		tok = l.newToken(MINUS)
	case '*':
		if l.peekChar() == '*' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: POW, Literal: "**", Line: line, Column: col}
		} else {
			tok = l.newToken(ASTERISK)
		}
	case '/':
		if l.peekChar() == '/' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: FLOORDIV, Literal: "//", Line: line, Column: col}
		} else {
			tok = l.newToken(SLASH)
		}
	case '%':
		tok = l.newToken(PERCENT)
	case '<':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: LTE, Literal: "<=", Line: line, Column: col}
		} else {
			tok = l.newToken(LT)
		}
	case '>':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: GTE, Literal: ">=", Line: line, Column: col}
		} else {
			tok = l.newToken(GT)
		}
	case '!':
		if l.peekChar() == '=' {
			line, col := l.line, l.column
			l.readChar()
			tok = Token{Type: NOT_EQ, Literal: "!=", Line: line, Column: col}
		} else {
			tok = Token{Type: ILLEGAL, Literal: "!", Line: l.line, Column: l.column,
				Msg: "unrecognized character '!'"}
		}
	case ',':
		tok = l.newToken(COMMA)
	case ':':
		tok = l.newToken(COLON)
	case '.':
		tok = l.newToken(DOT)
	case '(':
		l.bracketDepth++
		tok = l.newToken(LPAREN)
	case ')':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		tok = l.newToken(RPAREN)
	case '[':
		l.bracketDepth++
		tok = l.newToken(LBRACKET)
	case ']':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		tok = l.newToken(RBRACKET)
	case '{':
		l.bracketDepth++
		tok = l.newToken(LBRACE)
	case '}':
		if l.bracketDepth > 0 {
			l.bracketDepth--
		}
		tok = l.newToken(RBRACE)
	case '"', '\'':
		tok = l.readString(l.ch)
		l.sawToken = true
		return tok
	default:
		if isDigit(l.ch) {
			tok = l.readNumber()
			l.sawToken = true
			return tok
		}
		if isIdentStart(l.chRune) {
			tok = l.readIdentifier()
			l.sawToken = true
			return tok
		}
		tok = Token{Type: ILLEGAL, Literal: string(l.chRune), Line: l.line, Column: l.column,
			Msg: fmt.Sprintf("unrecognized character %q", l.chRune)}
	}

	l.readChar()
	l.sawToken = true
	return tok
}

// newToken creates a single-character token at the current position
func (l *Lexer) newToken(t TokenType) Token {
	return Token{Type: t, Literal: string(l.chRune), Line: l.line, Column: l.column}
}

// handleLineStart measures the indentation of the next logical line and
// emits INDENT/DEDENT tokens against the indentation stack. Blank lines
// and comment-only lines are skipped without producing tokens.
func (l *Lexer) handleLineStart() (Token, bool) {
	for {
		width := 0
		for l.ch == ' ' || l.ch == '\t' {
			if l.ch == '\t' {
				width = (width/tabWidth + 1) * tabWidth
			} else {
				width++
			}
			l.readChar()
		}

		if l.ch == '#' {
			l.skipComment()
		}

		if l.ch == '\n' {
			// Blank or comment-only line: no tokens, keep scanning
			l.readChar()
			continue
		}

		if l.ch == 0 {
			l.atLineStart = false
			return Token{}, false // handleEOF runs from NextToken
		}

		l.atLineStart = false
		top := l.indents[len(l.indents)-1]

		if width > top {
			l.indents = append(l.indents, width)
			return Token{Type: INDENT, Literal: "", Line: l.line, Column: l.column}, true
		}

		if width < top {
			for len(l.indents) > 1 && l.indents[len(l.indents)-1] > width {
				l.indents = l.indents[:len(l.indents)-1]
				l.pending = append(l.pending, Token{Type: DEDENT, Literal: "", Line: l.line, Column: l.column})
			}
			if l.indents[len(l.indents)-1] != width {
				return Token{Type: ILLEGAL, Literal: "", Line: l.line, Column: l.column,
					Msg: "inconsistent indentation"}, true
			}
			tok := l.pending[0]
			l.pending = l.pending[1:]
			return tok, true
		}

		return Token{}, false // same level, scan the line normally
	}
}

// handleEOF terminates the current logical line (if any) and closes all
// open blocks before the final EOF token.
func (l *Lexer) handleEOF() Token {
	if l.eofDone {
		return Token{Type: EOF, Literal: "", Line: l.line, Column: l.column}
	}
	l.eofDone = true

	if l.sawToken {
		l.pending = append(l.pending, Token{Type: NEWLINE, Literal: "\\n", Line: l.line, Column: l.column})
		l.sawToken = false
	}
	for len(l.indents) > 1 {
		l.indents = l.indents[:len(l.indents)-1]
		l.pending = append(l.pending, Token{Type: DEDENT, Literal: "", Line: l.line, Column: l.column})
	}
	l.pending = append(l.pending, Token{Type: EOF, Literal: "", Line: l.line, Column: l.column})

	tok := l.pending[0]
	l.pending = l.pending[1:]
	return tok
}

// skipSpaces skips spaces and tabs within a line (never newlines)
func (l *Lexer) skipSpaces() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment skips a '#' comment up to (not including) the newline
func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// readIdentifier reads an identifier or keyword. Identifiers may contain
// Unicode letters; the result is NFC-normalized so visually identical
// names are the same binding.
func (l *Lexer) readIdentifier() Token {
	line, col := l.line, l.column
	start := l.position
	for isIdentPart(l.chRune) {
		l.readChar()
	}
	literal := l.input[start:l.position]
	if !isASCII(literal) {
		literal = norm.NFC.String(literal)
	}
	return Token{Type: LookupIdent(literal), Literal: literal, Line: line, Column: col}
}

// readNumber reads an integer or float literal, keeping the exact source
// text in the token literal. Conversion happens in the parser.
func (l *Lexer) readNumber() Token {
	line, col := l.line, l.column
	start := l.position
	tokType := INT

	for isDigit(l.ch) {
		l.readChar()
	}

	if l.ch == '.' && isDigit(l.peekChar()) {
		tokType = FLOAT
		l.readChar() // consume '.'
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	if l.ch == 'e' || l.ch == 'E' {
		next := l.peekChar()
		if isDigit(next) || ((next == '+' || next == '-') && l.exponentHasDigits()) {
			tokType = FLOAT
			l.readChar() // consume 'e'
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}

	return Token{Type: tokType, Literal: l.input[start:l.position], Line: line, Column: col}
}

// exponentHasDigits checks that an exponent sign is followed by a digit,
// so "10e+" stays an error rather than eating the '+'.
func (l *Lexer) exponentHasDigits() bool {
	pos := l.readPosition + 1 // after the sign
	return pos < len(l.input) && isDigit(l.input[pos])
}

// readString reads a string literal delimited by the given quote, decoding
// escape sequences. A newline or EOF before the closing quote is an error.
func (l *Lexer) readString(quote byte) Token {
	line, col := l.line, l.column
	l.readChar() // consume opening quote

	var sb strings.Builder
	for {
		if l.ch == 0 || l.ch == '\n' {
			return Token{Type: ILLEGAL, Literal: sb.String(), Line: line, Column: col,
				Msg: "unterminated string"}
		}
		if l.ch == quote {
			l.readChar() // consume closing quote
			return Token{Type: STRING, Literal: sb.String(), Line: line, Column: col}
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\':
				sb.WriteByte('\\')
			case '\'':
				sb.WriteByte('\'')
			case '"':
				sb.WriteByte('"')
			default:
				return Token{Type: ILLEGAL, Literal: string(l.chRune), Line: l.line, Column: l.column,
					Msg: fmt.Sprintf("invalid escape sequence '\\%c' in string", l.chRune)}
			}
			l.readChar()
			continue
		}
		if l.chSize == 1 {
			sb.WriteByte(l.ch)
		} else {
			sb.WriteString(l.input[l.position : l.position+l.chSize])
		}
		l.readChar()
	}
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
