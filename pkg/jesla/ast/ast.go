package ast

import (
	"bytes"
	"strings"

	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	String() string
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

func (p *Program) String() string {
	var out bytes.Buffer

	for _, s := range p.Statements {
		out.WriteString(s.String())
	}

	return out.String()
}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Identifier represents a variable reference like 'x'
type Identifier struct {
	Token lexer.Token // the lexer.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// NumberLiteral represents number literals like '42' or '3.14'
type NumberLiteral struct {
	Token lexer.Token
	Value float64
}

func (nl *NumberLiteral) expressionNode()      {}
func (nl *NumberLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NumberLiteral) String() string       { return nl.Token.Literal }

// StringLiteral represents string literals like '"hello"'
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return "\"" + sl.Value + "\"" }

// BooleanLiteral represents 'true' and 'false'
type BooleanLiteral struct {
	Token lexer.Token
	Value bool
}

func (bl *BooleanLiteral) expressionNode()      {}
func (bl *BooleanLiteral) TokenLiteral() string { return bl.Token.Literal }
func (bl *BooleanLiteral) String() string       { return bl.Token.Literal }

// NilLiteral represents 'nil'
type NilLiteral struct {
	Token lexer.Token
}

func (nl *NilLiteral) expressionNode()      {}
func (nl *NilLiteral) TokenLiteral() string { return nl.Token.Literal }
func (nl *NilLiteral) String() string       { return "nil" }

// GroupingExpression represents a parenthesized expression like '(a + b)'.
// It evaluates to its inner expression's value.
type GroupingExpression struct {
	Token lexer.Token // the lexer.LPAREN token
	Inner Expression
}

func (ge *GroupingExpression) expressionNode()      {}
func (ge *GroupingExpression) TokenLiteral() string { return ge.Token.Literal }

// String elides the explicit parens: infix nodes already print fully
// parenthesized, so the printed form stays unambiguous and re-parseable
func (ge *GroupingExpression) String() string {
	return ge.Inner.String()
}

// PrefixExpression represents unary expressions like '!ok' and '-x'
type PrefixExpression struct {
	Token    lexer.Token // the operator token
	Operator string
	Operand  Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Literal }
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Operand.String() + ")"
}

// InfixExpression represents binary expressions like 'a + b' and 'a < b'
type InfixExpression struct {
	Token    lexer.Token // the operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// LogicalExpression represents short-circuiting 'and'/'or' expressions
type LogicalExpression struct {
	Token    lexer.Token // the lexer.AND or lexer.OR token
	Left     Expression
	Operator string
	Right    Expression
}

func (le *LogicalExpression) expressionNode()      {}
func (le *LogicalExpression) TokenLiteral() string { return le.Token.Literal }
func (le *LogicalExpression) String() string {
	return "(" + le.Left.String() + " " + le.Operator + " " + le.Right.String() + ")"
}

// AssignExpression represents assignment to an existing variable like
// 'x = 1'. Compound assignments are desugared by the parser, so 'x += 2'
// arrives here as 'x = (x + 2)'. The expression produces the assigned value.
type AssignExpression struct {
	Token lexer.Token // the assignment operator token
	Name  *Identifier
	Value Expression
}

func (ae *AssignExpression) expressionNode()      {}
func (ae *AssignExpression) TokenLiteral() string { return ae.Token.Literal }
func (ae *AssignExpression) String() string {
	return "(" + ae.Name.String() + " = " + ae.Value.String() + ")"
}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// ExpressionStatement represents an expression used as a statement
type ExpressionStatement struct {
	Token      lexer.Token // the first token of the expression
	Expression Expression
}

func (es *ExpressionStatement) statementNode()       {}
func (es *ExpressionStatement) TokenLiteral() string { return es.Token.Literal }
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ";"
}

// PrintStatement represents 'print expr;'
type PrintStatement struct {
	Token      lexer.Token // the lexer.PRINT token
	Expression Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	return "print " + ps.Expression.String() + ";"
}

// VarStatement represents 'var x;' and 'var x = expr;'
type VarStatement struct {
	Token       lexer.Token // the lexer.VAR token
	Name        *Identifier
	Initializer Expression // nil when the declaration has no initializer
}

func (vs *VarStatement) statementNode()       {}
func (vs *VarStatement) TokenLiteral() string { return vs.Token.Literal }
func (vs *VarStatement) String() string {
	var out bytes.Buffer
	out.WriteString("var ")
	out.WriteString(vs.Name.String())
	if vs.Initializer != nil {
		out.WriteString(" = ")
		out.WriteString(vs.Initializer.String())
	}
	out.WriteString(";")
	return out.String()
}

// BlockStatement represents '{ ... }'. Execution introduces a child scope.
type BlockStatement struct {
	Token      lexer.Token // the lexer.LBRACE token
	Statements []Statement
}

func (bs *BlockStatement) statementNode()       {}
func (bs *BlockStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("{ ")
	for _, s := range bs.Statements {
		out.WriteString(s.String())
	}
	out.WriteString(" }")
	return out.String()
}

// IfStatement represents 'if (cond) then' with an optional else branch
type IfStatement struct {
	Token      lexer.Token // the lexer.IF token
	Condition  Expression
	ThenBranch Statement
	ElseBranch Statement // nil when absent
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString("if (")
	out.WriteString(is.Condition.String())
	out.WriteString(") ")
	out.WriteString(is.ThenBranch.String())
	if is.ElseBranch != nil {
		out.WriteString(" else ")
		out.WriteString(is.ElseBranch.String())
	}
	return out.String()
}

// ForStatement is the single unified loop form. 'while (c) s' desugars to a
// ForStatement with only Condition and Body set. Tag is the loop label, or
// "" for unlabeled loops; it is never absent.
type ForStatement struct {
	Token       lexer.Token // the lexer.FOR or lexer.WHILE token
	Initializer Statement   // nil when absent; runs once, in the surrounding scope
	Condition   Expression  // nil means always true
	Body        Statement
	Increment   Statement // nil when absent; runs after each completed iteration
	Tag         string
}

func (fs *ForStatement) statementNode()       {}
func (fs *ForStatement) TokenLiteral() string { return fs.Token.Literal }
func (fs *ForStatement) String() string {
	var out bytes.Buffer
	if fs.Tag != "" {
		out.WriteString(fs.Tag)
		out.WriteString(": ")
	}
	out.WriteString("for (")
	if fs.Initializer != nil {
		out.WriteString(fs.Initializer.String())
	} else {
		out.WriteString(";")
	}
	out.WriteString(" ")
	if fs.Condition != nil {
		out.WriteString(fs.Condition.String())
	}
	out.WriteString("; ")
	if fs.Increment != nil {
		// The increment is held as a statement but printed without its
		// trailing ';' so the loop header stays re-parseable
		out.WriteString(strings.TrimSuffix(fs.Increment.String(), ";"))
	}
	out.WriteString(") ")
	out.WriteString(fs.Body.String())
	return out.String()
}

// BreakStatement represents 'break;' and 'break LABEL;'. Tag is "" for an
// unlabeled break, which terminates the nearest unlabeled enclosing loop.
type BreakStatement struct {
	Token lexer.Token // the lexer.BREAK token
	Tag   string
}

func (bs *BreakStatement) statementNode()       {}
func (bs *BreakStatement) TokenLiteral() string { return bs.Token.Literal }
func (bs *BreakStatement) String() string {
	if bs.Tag != "" {
		return "break " + bs.Tag + ";"
	}
	return "break;"
}

// ContinueStatement represents 'continue;' and 'continue LABEL;'
type ContinueStatement struct {
	Token lexer.Token // the lexer.CONTINUE token
	Tag   string
}

func (cs *ContinueStatement) statementNode()       {}
func (cs *ContinueStatement) TokenLiteral() string { return cs.Token.Literal }
func (cs *ContinueStatement) String() string {
	if cs.Tag != "" {
		return "continue " + cs.Tag + ";"
	}
	return "continue;"
}
