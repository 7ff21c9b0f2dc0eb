package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	serrors "github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

// Precedence levels for operators, low to high
const (
	_ int = iota
	LOWEST
	LOGIC_OR  // or
	LOGIC_AND // and
	LOGIC_NOT // not x
	COMPARE   // == != < <= > >=, chained
	SUM       // + -
	PRODUCT   // * / // %
	PREFIX    // -x
	POWER     // ** (right-associative, binds tighter than unary minus)
	CALL      // f(x), xs[i], d.key
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       COMPARE,
	lexer.NOT_EQ:   COMPARE,
	lexer.LT:       COMPARE,
	lexer.GT:       COMPARE,
	lexer.LTE:      COMPARE,
	lexer.GTE:      COMPARE,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.ASTERISK: PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.FLOORDIV: PRODUCT,
	lexer.PERCENT:  PRODUCT,
	lexer.POW:      POWER,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: CALL,
	lexer.DOT:      CALL,
}

// Parser consumes the token stream exactly once, left to right, and builds
// one Program or accumulates structured errors. Statement forms are selected
// by their leading token with one token of lookahead; the parser never
// backtracks across statement boundaries.
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*serrors.SorrelError

	curToken  lexer.Token
	peekToken lexer.Token

	loopDepth int // nesting of while/for bodies, for break/continue placement
	funcDepth int // nesting of def bodies, for return placement

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntegerLiteral)
	p.registerPrefix(lexer.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(lexer.NONE, p.parseNoneLiteral)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.NOT, p.parseNotExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.LBRACKET, p.parseListLiteral)
	p.registerPrefix(lexer.LBRACE, p.parseDictLiteral)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH, p.parseInfixExpression)
	p.registerInfix(lexer.FLOORDIV, p.parseInfixExpression)
	p.registerInfix(lexer.PERCENT, p.parseInfixExpression)
	p.registerInfix(lexer.POW, p.parsePowerExpression)
	p.registerInfix(lexer.AND, p.parseInfixExpression)
	p.registerInfix(lexer.OR, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseCompareExpression)
	p.registerInfix(lexer.NOT_EQ, p.parseCompareExpression)
	p.registerInfix(lexer.LT, p.parseCompareExpression)
	p.registerInfix(lexer.GT, p.parseCompareExpression)
	p.registerInfix(lexer.LTE, p.parseCompareExpression)
	p.registerInfix(lexer.GTE, p.parseCompareExpression)
	p.registerInfix(lexer.LPAREN, p.parseCallExpression)
	p.registerInfix(lexer.LBRACKET, p.parseIndexExpression)
	p.registerInfix(lexer.DOT, p.parseDotExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// Errors returns parser errors as strings (convenience method for tests).
// Prefer StructuredErrors() for production code.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured SorrelError objects.
func (p *Parser) StructuredErrors() []*serrors.SorrelError {
	return p.structuredErrors
}

// addError adds a catalogued error at the given token's position.
func (p *Parser) addError(code string, tok lexer.Token, data map[string]any) {
	err := serrors.NewWithPosition(code, tok.Line, tok.Column, data)
	err.File = p.l.Filename()
	p.structuredErrors = append(p.structuredErrors, err)
}

// addLexError converts an ILLEGAL token from the lexer into a LEX- error.
func (p *Parser) addLexError(tok lexer.Token) {
	var code string
	var data map[string]any
	switch {
	case tok.Msg == "unterminated string":
		code = "LEX-0002"
	case tok.Msg == "inconsistent indentation":
		code = "LEX-0003"
	case strings.HasPrefix(tok.Msg, "invalid escape"):
		code = "LEX-0004"
		data = map[string]any{"Escape": tok.Literal}
	default:
		code = "LEX-0001"
		data = map[string]any{"Char": fmt.Sprintf("%q", tok.Literal)}
	}
	p.addError(code, tok, data)
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

// expectPeek advances if the peek token matches, else records a PARSE-0001.
func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.peekError(t)
	return false
}

func (p *Parser) peekError(t lexer.TokenType) {
	if p.peekToken.Type == lexer.ILLEGAL {
		p.addLexError(p.peekToken)
		return
	}
	p.addError("PARSE-0001", p.peekToken, map[string]any{
		"Expected": t.String(),
		"Got":      describeToken(p.peekToken),
	})
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// describeToken renders a token for error messages.
func describeToken(tok lexer.Token) string {
	switch tok.Type {
	case lexer.EOF:
		return "end of input"
	case lexer.NEWLINE:
		return "end of line"
	case lexer.INDENT:
		return "indent"
	case lexer.DEDENT:
		return "dedent"
	default:
		return tok.Literal
	}
}

// ParseProgram parses the whole token stream into a Program.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{Statements: []ast.Statement{}}

	for !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return program
}

// synchronize skips tokens to the end of the current logical line so one
// malformed statement does not cascade into spurious errors.
func (p *Parser) synchronize() {
	for !p.curTokenIs(lexer.NEWLINE) && !p.curTokenIs(lexer.DEDENT) && !p.curTokenIs(lexer.EOF) {
		p.nextToken()
	}
}

// parseStatement parses one statement. It is entered with curToken on the
// statement's first token and returns with curToken on the statement's
// terminator: NEWLINE for simple statements, the closing DEDENT for
// compound (block-carrying) statements.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.ILLEGAL:
		p.addLexError(p.curToken)
		return nil
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.DEF:
		return p.parseDefStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.EXCEPT:
		p.addError("PARSE-0008", p.curToken, nil)
		return nil
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK, lexer.CONTINUE:
		return p.parseLoopControlStatement()
	case lexer.RAISE:
		return p.parseRaiseStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseBlock parses ':' NEWLINE INDENT statements DEDENT. It is entered
// with curToken on the last token of the block's header and returns with
// curToken on the closing DEDENT.
func (p *Parser) parseBlock() *ast.BlockStatement {
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}
	if !p.peekTokenIs(lexer.INDENT) {
		p.addError("PARSE-0003", p.peekToken, nil)
		return nil
	}
	p.nextToken() // curToken = INDENT

	block := &ast.BlockStatement{Token: p.curToken, Statements: []ast.Statement{}}
	p.nextToken() // first token of the first statement

	for !p.curTokenIs(lexer.DEDENT) && !p.curTokenIs(lexer.EOF) {
		if p.curTokenIs(lexer.NEWLINE) {
			p.nextToken()
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		} else {
			p.synchronize()
		}
		p.nextToken()
	}

	return block
}

func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Consequence = p.parseBlock()
	if stmt.Consequence == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ELIF) {
		p.nextToken()
		alt := p.parseIfStatement()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	} else if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		alt := p.parseBlock()
		if alt == nil {
			return nil
		}
		stmt.Alternative = alt
	}

	return stmt
}

func (p *Parser) parseWhileStatement() ast.Statement {
	stmt := &ast.WhileStatement{Token: p.curToken}

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	p.loopDepth++
	stmt.Body = p.parseBlock()
	p.loopDepth--
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseForStatement() ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Var = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.IN) {
		return nil
	}

	p.nextToken()
	stmt.Iterable = p.parseExpression(LOWEST)
	if stmt.Iterable == nil {
		return nil
	}

	p.loopDepth++
	stmt.Body = p.parseBlock()
	p.loopDepth--
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseDefStatement() ast.Statement {
	stmt := &ast.DefStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if !p.expectPeek(lexer.LPAREN) {
		return nil
	}

	stmt.Params = p.parseParameters()
	if stmt.Params == nil {
		return nil
	}

	// break/continue may not reach out of the function into an
	// enclosing loop, so loop depth resets inside the body.
	savedLoopDepth := p.loopDepth
	p.loopDepth = 0
	p.funcDepth++
	stmt.Body = p.parseBlock()
	p.funcDepth--
	p.loopDepth = savedLoopDepth
	if stmt.Body == nil {
		return nil
	}

	return stmt
}

// parseParameters parses '(a, b, c)' and returns with curToken on ')'.
func (p *Parser) parseParameters() []*ast.Identifier {
	params := []*ast.Identifier{}

	if p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		return params
	}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if !p.expectPeek(lexer.IDENT) {
			return nil
		}
		params = append(params, &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal})
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return params
}

func (p *Parser) parseTryStatement() ast.Statement {
	stmt := &ast.TryStatement{Token: p.curToken}

	stmt.Body = p.parseBlock()
	if stmt.Body == nil {
		return nil
	}

	if !p.expectPeek(lexer.EXCEPT) {
		return nil
	}

	if p.peekTokenIs(lexer.IDENT) {
		p.nextToken()
		stmt.ErrName = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	stmt.Handler = p.parseBlock()
	if stmt.Handler == nil {
		return nil
	}

	return stmt
}

func (p *Parser) parseReturnStatement() ast.Statement {
	stmt := &ast.ReturnStatement{Token: p.curToken}

	if p.funcDepth == 0 {
		p.addError("PARSE-0005", p.curToken, nil)
	}

	if !p.peekTokenIs(lexer.NEWLINE) {
		p.nextToken()
		stmt.ReturnValue = p.parseExpression(LOWEST)
		if stmt.ReturnValue == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return stmt
}

func (p *Parser) parseLoopControlStatement() ast.Statement {
	tok := p.curToken

	if p.loopDepth == 0 {
		p.addError("PARSE-0004", tok, map[string]any{"Keyword": tok.Literal})
	}

	var stmt ast.Statement
	if tok.Type == lexer.BREAK {
		stmt = &ast.BreakStatement{Token: tok}
	} else {
		stmt = &ast.ContinueStatement{Token: tok}
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return stmt
}

func (p *Parser) parseRaiseStatement() ast.Statement {
	stmt := &ast.RaiseStatement{Token: p.curToken}

	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return stmt
}

// parseExpressionOrAssignStatement handles the statements that start with
// an expression: plain expression statements, 'name = e', 'xs[i] = e', and
// 'd.key = e'.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	startToken := p.curToken

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken() // curToken = '='
		assignToken := p.curToken
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if !p.expectPeek(lexer.NEWLINE) {
			return nil
		}

		switch target := expr.(type) {
		case *ast.Identifier:
			return &ast.AssignStatement{Token: startToken, Name: target, Value: value}
		case *ast.IndexExpression, *ast.DotExpression:
			return &ast.IndexAssignStatement{Token: assignToken, Target: target, Value: value}
		default:
			p.addError("PARSE-0007", startToken, map[string]any{"Target": expr.String()})
			return nil
		}
	}

	if !p.expectPeek(lexer.NEWLINE) {
		return nil
	}

	return &ast.ExpressionStatement{Token: startToken, Expression: expr}
}

// parseExpression is the core of the Pratt parser. It is entered with
// curToken on the expression's first token and returns with curToken on
// its last token.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		if p.curToken.Type == lexer.ILLEGAL {
			p.addLexError(p.curToken)
		} else {
			p.addError("PARSE-0002", p.curToken, map[string]any{"Token": describeToken(p.curToken)})
		}
		return nil
	}
	left := prefix()
	if left == nil {
		return nil
	}

	for !p.peekTokenIs(lexer.NEWLINE) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError("PARSE-0006", p.curToken, map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	return &ast.IntegerLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError("PARSE-0006", p.curToken, map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: value}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

func (p *Parser) parseNoneLiteral() ast.Expression {
	return &ast.NoneLiteral{Token: p.curToken}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expr.Right = p.parseExpression(PREFIX)
	if expr.Right == nil {
		return nil
	}

	return expr
}

// parseNotExpression parses 'not x'. 'not' binds looser than comparison,
// so 'not a == b' means not(a == b).
func (p *Parser) parseNotExpression() ast.Expression {
	expr := &ast.PrefixExpression{
		Token:    p.curToken,
		Operator: "not",
	}

	p.nextToken()
	expr.Right = p.parseExpression(LOGIC_NOT)
	if expr.Right == nil {
		return nil
	}

	return expr
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := precedences[p.curToken.Type]
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}

	return expr
}

// parsePowerExpression parses '**' right-associatively.
func (p *Parser) parsePowerExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	p.nextToken()
	expr.Right = p.parseExpression(POWER - 1)
	if expr.Right == nil {
		return nil
	}

	return expr
}

// parseCompareExpression parses comparison chains like 'a < b <= c' into a
// single CompareExpression node.
func (p *Parser) parseCompareExpression(left ast.Expression) ast.Expression {
	expr := &ast.CompareExpression{
		Token: p.curToken,
		First: left,
	}

	expr.Ops = append(expr.Ops, p.curToken.Literal)
	p.nextToken()
	operand := p.parseExpression(COMPARE)
	if operand == nil {
		return nil
	}
	expr.Operands = append(expr.Operands, operand)

	for isCompareToken(p.peekToken.Type) {
		p.nextToken()
		expr.Ops = append(expr.Ops, p.curToken.Literal)
		p.nextToken()
		operand := p.parseExpression(COMPARE)
		if operand == nil {
			return nil
		}
		expr.Operands = append(expr.Operands, operand)
	}

	return expr
}

func isCompareToken(t lexer.TokenType) bool {
	switch t {
	case lexer.EQ, lexer.NOT_EQ, lexer.LT, lexer.GT, lexer.LTE, lexer.GTE:
		return true
	}
	return false
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return expr
}

func (p *Parser) parseListLiteral() ast.Expression {
	list := &ast.ListLiteral{Token: p.curToken}
	list.Elements = p.parseExpressionList(lexer.RBRACKET)
	if list.Elements == nil {
		return nil
	}
	return list
}

// parseExpressionList parses a comma-separated list ending at the given
// token, tolerating a trailing comma. Returns with curToken on end.
func (p *Parser) parseExpressionList(end lexer.TokenType) []ast.Expression {
	list := []ast.Expression{}

	if p.peekTokenIs(end) {
		p.nextToken()
		return list
	}

	p.nextToken()
	elem := p.parseExpression(LOWEST)
	if elem == nil {
		return nil
	}
	list = append(list, elem)

	for p.peekTokenIs(lexer.COMMA) {
		p.nextToken()
		if p.peekTokenIs(end) { // trailing comma
			break
		}
		p.nextToken()
		elem := p.parseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		list = append(list, elem)
	}

	if !p.expectPeek(end) {
		return nil
	}

	return list
}

func (p *Parser) parseDictLiteral() ast.Expression {
	dict := &ast.DictLiteral{Token: p.curToken}

	if p.peekTokenIs(lexer.RBRACE) {
		p.nextToken()
		return dict
	}

	for {
		p.nextToken()
		key := p.parseExpression(LOWEST)
		if key == nil {
			return nil
		}

		if !p.expectPeek(lexer.COLON) {
			return nil
		}

		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}

		dict.Keys = append(dict.Keys, key)
		dict.Values = append(dict.Values, value)

		if !p.peekTokenIs(lexer.COMMA) {
			break
		}
		p.nextToken()
		if p.peekTokenIs(lexer.RBRACE) { // trailing comma
			break
		}
	}

	if !p.expectPeek(lexer.RBRACE) {
		return nil
	}

	return dict
}

func (p *Parser) parseCallExpression(function ast.Expression) ast.Expression {
	call := &ast.CallExpression{Token: p.curToken, Function: function}
	call.Arguments = p.parseExpressionList(lexer.RPAREN)
	if call.Arguments == nil {
		return nil
	}
	return call
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	expr := &ast.IndexExpression{Token: p.curToken, Left: left}

	p.nextToken()
	expr.Index = p.parseExpression(LOWEST)
	if expr.Index == nil {
		return nil
	}

	if !p.expectPeek(lexer.RBRACKET) {
		return nil
	}

	return expr
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	expr := &ast.DotExpression{Token: p.curToken, Left: left}

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	expr.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	return expr
}
