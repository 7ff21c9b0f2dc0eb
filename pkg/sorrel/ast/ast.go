package ast

import (
	"bytes"
	"strings"

	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
	// Pos returns the node's introducing token, which carries its
	// source position.
	Pos() lexer.Token
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() lexer.Token {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return lexer.Token{}
}

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}

	return out.String()
}

// BlockStatement represents an indented block of statements
type BlockStatement struct {
	Token      lexer.Token // the INDENT token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) Pos() lexer.Token { return bs.Token }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer

	for _, s := range bs.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}

	return out.String()
}

// ExpressionStatement represents expression statements
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) Pos() lexer.Token { return es.Token }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String()
	}
	return ""
}

// AssignStatement represents plain assignment like 'x = 5'
type AssignStatement struct {
	Token lexer.Token // the identifier token
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) Pos() lexer.Token { return as.Token }
func (as *AssignStatement) String() string {
	var out bytes.Buffer

	out.WriteString(as.Name.String())
	out.WriteString(" = ")
	if as.Value != nil {
		out.WriteString(as.Value.String())
	}

	return out.String()
}

// IndexAssignStatement represents assignment to an index or attribute
// expression like 'xs[0] = v' or 'd.key = v'
type IndexAssignStatement struct {
	Token  lexer.Token // the '=' token
	Target Expression  // IndexExpression or DotExpression
	Value  Expression
}

func (ias *IndexAssignStatement) statementNode()       {}
func (ias *IndexAssignStatement) TokenLiteral() string { return ias.Token.Literal }
func (ias *IndexAssignStatement) Pos() lexer.Token { return ias.Token }
func (ias *IndexAssignStatement) String() string {
	var out bytes.Buffer

	out.WriteString(ias.Target.String())
	out.WriteString(" = ")
	if ias.Value != nil {
		out.WriteString(ias.Value.String())
	}

	return out.String()
}

// ReturnStatement represents 'return' with an optional value
type ReturnStatement struct {
	Token       lexer.Token // the 'return' token
	ReturnValue Expression  // nil for a bare return
}

func (rs *ReturnStatement) statementNode()       {}
func (rs *ReturnStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *ReturnStatement) Pos() lexer.Token { return rs.Token }
func (rs *ReturnStatement) String() string {
	var out bytes.Buffer

	out.WriteString("return")
	if rs.ReturnValue != nil {
		out.WriteString(" ")
		out.WriteString(rs.ReturnValue.String())
	}

	return out.String()
}

// BreakStatement represents 'break'
type BreakStatement struct {
	Token lexer.Token
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) Pos() lexer.Token { return bs.Token }
func (bs *BreakStatement) String() string       { return "break" }

// ContinueStatement represents 'continue'
type ContinueStatement struct {
	Token lexer.Token
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) Pos() lexer.Token { return cs.Token }
func (cs *ContinueStatement) String() string       { return "continue" }

// RaiseStatement represents 'raise <expr>'
type RaiseStatement struct {
	Token lexer.Token // the 'raise' token
	Value Expression
}

func (rs *RaiseStatement) statementNode()       {}
func (rs *RaiseStatement) TokenLiteral() string { return rs.Token.Literal }
func (rs *RaiseStatement) Pos() lexer.Token { return rs.Token }
func (rs *RaiseStatement) String() string {
	return "raise " + rs.Value.String()
}

// IfStatement represents 'if cond:' with optional elif/else chains.
// An elif chain is stored as a nested IfStatement in Alternative.
type IfStatement struct {
	Token       lexer.Token // the 'if' (or 'elif') token
	Condition   Expression
	Consequence *BlockStatement
	Alternative Statement // nil, *BlockStatement (else), or *IfStatement (elif)
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) Pos() lexer.Token { return is.Token }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString("if ")
	out.WriteString(is.Condition.String())
	out.WriteString(": ")
	out.WriteString(is.Consequence.String())
	if is.Alternative != nil {
		out.WriteString("else: ")
		out.WriteString(is.Alternative.String())
	}

	return out.String()
}

// WhileStatement represents 'while cond:' loops
type WhileStatement struct {
	Token     lexer.Token // the 'while' token
	Condition Expression
	Body      *BlockStatement
}

func (ws *WhileStatement) statementNode()       {}
func (ws *WhileStatement) TokenLiteral() string { return ws.Token.Literal }
func (ws *WhileStatement) Pos() lexer.Token { return ws.Token }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + ": " + ws.Body.String()
}

// ForStatement represents 'for var in iterable:' loops
type ForStatement struct {
	Token    lexer.Token // the 'for' token
	Var      *Identifier
	Iterable Expression
	Body     *BlockStatement
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) Pos() lexer.Token { return fs.Token }
func (fs *ForStatement) String() string {
	return "for " + fs.Var.String() + " in " + fs.Iterable.String() + ": " + fs.Body.String()
}

// DefStatement represents a function definition
type DefStatement struct {
	Token  lexer.Token // the 'def' token
	Name   *Identifier
	Params []*Identifier
	Body   *BlockStatement
}

func (ds *DefStatement) statementNode()       {}
func (ds *DefStatement) TokenLiteral() string { return ds.Token.Literal }
func (ds *DefStatement) Pos() lexer.Token { return ds.Token }
func (ds *DefStatement) String() string {
	params := make([]string, len(ds.Params))
	for i, p := range ds.Params {
		params[i] = p.String()
	}
	return "def " + ds.Name.String() + "(" + strings.Join(params, ", ") + "): " + ds.Body.String()
}

// TryStatement represents 'try:' with an 'except' handler
type TryStatement struct {
	Token   lexer.Token // the 'try' token
	Body    *BlockStatement
	ErrName *Identifier // nil for a bare 'except:'
	Handler *BlockStatement
}

func (ts *TryStatement) statementNode()       {}
func (ts *TryStatement) TokenLiteral() string { return ts.Token.Literal }
func (ts *TryStatement) Pos() lexer.Token { return ts.Token }
func (ts *TryStatement) String() string {
	var out bytes.Buffer

	out.WriteString("try: ")
	out.WriteString(ts.Body.String())
	out.WriteString("except")
	if ts.ErrName != nil {
		out.WriteString(" ")
		out.WriteString(ts.ErrName.String())
	}
	out.WriteString(": ")
	out.WriteString(ts.Handler.String())

	return out.String()
}

// Identifier represents identifier expressions
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) Pos() lexer.Token { return i.Token }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents integer literals
type IntegerLiteral struct {
	Token lexer.Token // the lexer.INT token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) Pos() lexer.Token { return il.Token }
func (il *IntegerLiteral) String() string       { return il.Token.Literal }

// FloatLiteral represents floating-point literals
type FloatLiteral struct {
	Token lexer.Token // the lexer.FLOAT token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Literal }
func (fl *FloatLiteral) Pos() lexer.Token { return fl.Token }
func (fl *FloatLiteral) String() string       { return fl.Token.Literal }

// StringLiteral represents string literals
type StringLiteral struct {
	Token lexer.Token // the lexer.STRING token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) Pos() lexer.Token { return sl.Token }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// BooleanLiteral represents 'true' and 'false'
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) Pos() lexer.Token { return bl.Token }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// NoneLiteral represents 'none'
type NoneLiteral struct {
	Token lexer.Token
}

func (nl *NoneLiteral) expressionNode()      {}
func (nl *NoneLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NoneLiteral) Pos() lexer.Token { return nl.Token }
func (nl *NoneLiteral) String() string       { return "none" }

// PrefixExpression represents unary expressions like '-x' and 'not x'
type PrefixExpression struct {
	Token    lexer.Token // the prefix token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) Pos() lexer.Token { return pe.Token }
func (pe *PrefixExpression) String() string {
	if pe.Operator == "not" {
		return "(not " + pe.Right.String() + ")"
	}
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents binary expressions
type InfixExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) Pos() lexer.Token { return ie.Token }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// CompareExpression represents a chained comparison like 'a < b <= c'.
// Each operand is evaluated once, left to right, and the chain
// short-circuits on the first false link.
type CompareExpression struct {
	Token    lexer.Token // the first comparison operator token
	First    Expression
	Ops      []string
	Operands []Expression // one per operator
}

func (ce *CompareExpression) expressionNode()      {}
func (ce *CompareExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CompareExpression) Pos() lexer.Token { return ce.Token }
func (ce *CompareExpression) String() string {
	var out bytes.Buffer

	out.WriteString("(")
	out.WriteString(ce.First.String())
	for i, op := range ce.Ops {
		out.WriteString(" " + op + " ")
		out.WriteString(ce.Operands[i].String())
	}
	out.WriteString(")")

	return out.String()
}

// CallExpression represents function calls
type CallExpression struct {
	Token     lexer.Token // the '(' token
	Function  Expression
	Arguments []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Literal }
func (ce *CallExpression) Pos() lexer.Token { return ce.Token }
func (ce *CallExpression) String() string {
	args := make([]string, len(ce.Arguments))
	for i, a := range ce.Arguments {
		args[i] = a.String()
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// IndexExpression represents subscript access like 'xs[0]'
type IndexExpression struct {
	Token lexer.Token // the '[' token
	Left  Expression
	Index Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *IndexExpression) Pos() lexer.Token { return ie.Token }
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// DotExpression represents attribute access like 'd.key'
type DotExpression struct {
	Token lexer.Token // the '.' token
	Left  Expression
	Name  *Identifier
}

func (de *DotExpression) expressionNode()      {}
func (de *DotExpression) TokenLiteral() string { return de.Token.Literal }
func (de *DotExpression) Pos() lexer.Token { return de.Token }
func (de *DotExpression) String() string {
	return "(" + de.Left.String() + "." + de.Name.String() + ")"
}

// ListLiteral represents list literals like '[1, 2, 3]'
type ListLiteral struct {
	Token    lexer.Token // the '[' token
	Elements []Expression
}

func (ll *ListLiteral) expressionNode()      {}
func (ll *ListLiteral) TokenLiteral() string { return ll.Token.Literal }
func (ll *ListLiteral) Pos() lexer.Token { return ll.Token }
func (ll *ListLiteral) String() string {
	elements := make([]string, len(ll.Elements))
	for i, e := range ll.Elements {
		elements[i] = e.String()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// DictLiteral represents dict literals like '{"a": 1}'.
// Keys and Values are parallel slices preserving source order.
type DictLiteral struct {
	Token  lexer.Token // the '{' token
	Keys   []Expression
	Values []Expression
}

func (dl *DictLiteral) expressionNode()      {}
func (dl *DictLiteral) TokenLiteral() string { return dl.Token.Literal }
func (dl *DictLiteral) Pos() lexer.Token { return dl.Token }
func (dl *DictLiteral) String() string {
	pairs := make([]string, len(dl.Keys))
	for i := range dl.Keys {
		pairs[i] = dl.Keys[i].String() + ": " + dl.Values[i].String()
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
