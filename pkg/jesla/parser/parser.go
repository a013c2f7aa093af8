package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jesla-lang/jesla/pkg/jesla/ast"
	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
)

// Precedence levels for operators
const (
	_ int = iota
	LOWEST
	ASSIGNMENT  // =, +=, -=, *=, /=
	LOGIC_OR    // or
	LOGIC_AND   // and
	EQUALS      // ==, !=
	LESSGREATER // <, >, <=, >=
	SUM         // +, -
	PRODUCT     // *, /
	PREFIX      // -x or !x
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:          ASSIGNMENT,
	lexer.PLUS_ASSIGN:     ASSIGNMENT,
	lexer.MINUS_ASSIGN:    ASSIGNMENT,
	lexer.ASTERISK_ASSIGN: ASSIGNMENT,
	lexer.SLASH_ASSIGN:    ASSIGNMENT,
	lexer.OR:              LOGIC_OR,
	lexer.AND:             LOGIC_AND,
	lexer.EQ:              EQUALS,
	lexer.NOT_EQ:          EQUALS,
	lexer.LT:              LESSGREATER,
	lexer.GT:              LESSGREATER,
	lexer.LTE:             LESSGREATER,
	lexer.GTE:             LESSGREATER,
	lexer.PLUS:            SUM,
	lexer.MINUS:           SUM,
	lexer.SLASH:           PRODUCT,
	lexer.ASTERISK:        PRODUCT,
}

// compoundBaseOps maps compound assignment operators to the arithmetic
// token type the parser desugars them into
var compoundBaseOps = map[lexer.TokenType]lexer.TokenType{
	lexer.PLUS_ASSIGN:     lexer.PLUS,
	lexer.MINUS_ASSIGN:    lexer.MINUS,
	lexer.ASTERISK_ASSIGN: lexer.ASTERISK,
	lexer.SLASH_ASSIGN:    lexer.SLASH,
}

// baseOpLexemes maps the desugared token types to their operator spelling
var baseOpLexemes = map[lexer.TokenType]string{
	lexer.PLUS:     "+",
	lexer.MINUS:    "-",
	lexer.ASTERISK: "*",
	lexer.SLASH:    "/",
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*jerrors.JeslaError

	prevToken lexer.Token
	curToken  lexer.Token
	peekToken lexer.Token

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

	// Initialize prefix parse functions
	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.TRUE, p.parseBoolean)
	p.registerPrefix(lexer.FALSE, p.parseBoolean)
	p.registerPrefix(lexer.NIL, p.parseNilLiteral)
	p.registerPrefix(lexer.BANG, p.parsePrefixExpression)
	p.registerPrefix(lexer.MINUS, p.parsePrefixExpression)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)

	// Initialize infix parse functions
	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseInfixExpression)
	p.registerInfix(lexer.MINUS, p.parseInfixExpression)
	p.registerInfix(lexer.SLASH, p.parseInfixExpression)
	p.registerInfix(lexer.ASTERISK, p.parseInfixExpression)
	p.registerInfix(lexer.EQ, p.parseInfixExpression)
	p.registerInfix(lexer.NOT_EQ, p.parseInfixExpression)
	p.registerInfix(lexer.LT, p.parseInfixExpression)
	p.registerInfix(lexer.GT, p.parseInfixExpression)
	p.registerInfix(lexer.LTE, p.parseInfixExpression)
	p.registerInfix(lexer.GTE, p.parseInfixExpression)
	p.registerInfix(lexer.OR, p.parseLogicalExpression)
	p.registerInfix(lexer.AND, p.parseLogicalExpression)
	p.registerInfix(lexer.ASSIGN, p.parseAssignExpression)
	p.registerInfix(lexer.PLUS_ASSIGN, p.parseAssignExpression)
	p.registerInfix(lexer.MINUS_ASSIGN, p.parseAssignExpression)
	p.registerInfix(lexer.ASTERISK_ASSIGN, p.parseAssignExpression)
	p.registerInfix(lexer.SLASH_ASSIGN, p.parseAssignExpression)

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
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

// StructuredErrors returns parser errors as structured JeslaError objects.
func (p *Parser) StructuredErrors() []*jerrors.JeslaError {
	return p.structuredErrors
}

// addStructuredError records a structured error from the catalog. Every
// error is kept; synchronize keeps cascades down to roughly one spurious
// diagnostic per genuine error.
func (p *Parser) addStructuredError(code string, tok lexer.Token, data map[string]any) {
	p.structuredErrors = append(p.structuredErrors,
		jerrors.NewWithPosition(code, tok.Line, tok.Column, data))
}

// registerPrefix registers a prefix parse function
func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

// registerInfix registers an infix parse function
func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances prevToken, curToken, and peekToken
func (p *Parser) nextToken() {
	p.prevToken = p.curToken
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the program and returns the AST. Parse errors are
// recorded and recovered from; a failed statement is omitted from the
// program while parsing resumes at the next statement boundary.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}

	return program
}

// parseStatement parses a single statement. On success curToken is left on
// the statement's final token; on failure nil is returned with the error
// already recorded.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.VAR:
		return p.parseVarStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.WHILE:
		return p.parseWhileStatement("")
	case lexer.FOR:
		return p.parseForStatement("")
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.IDENT:
		// An identifier immediately followed by ':' is a loop label
		if p.peekTokenIs(lexer.COLON) {
			return p.parseLabeledLoop()
		}
		return p.parseExpressionStatement()
	default:
		return p.parseExpressionStatement()
	}
}

// parseVarStatement parses 'var x;' and 'var x = expr;'
func (p *Parser) parseVarStatement() ast.Statement {
	stmt := &ast.VarStatement{Token: p.curToken}

	if !p.expectPeek(lexer.IDENT, "variable name") {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}

	if p.peekTokenIs(lexer.ASSIGN) {
		p.nextToken()
		p.nextToken()
		stmt.Initializer = p.parseExpression(LOWEST)
		if stmt.Initializer == nil {
			return nil
		}
	}

	if !p.expectPeek(lexer.SEMICOLON, "';' after variable declaration") {
		return nil
	}
	return stmt
}

// parsePrintStatement parses 'print expr;'
func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}

	p.nextToken()
	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(lexer.SEMICOLON, "';' after value") {
		return nil
	}
	return stmt
}

// parseBlockStatement parses '{ declaration* }'. Statements that fail to
// parse are dropped and parsing resumes within the block.
func (p *Parser) parseBlockStatement() ast.Statement {
	block := &ast.BlockStatement{Token: p.curToken}
	p.nextToken()

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
			p.nextToken()
		} else {
			p.synchronize()
		}
	}

	if !p.curTokenIs(lexer.RBRACE) {
		p.addStructuredError("PARSE-0001", p.curToken,
			map[string]any{"Expected": "'}' after block", "Got": tokenDisplay(p.curToken)})
		return nil
	}
	return block
}

// parseIfStatement parses 'if (cond) stmt' with an optional else branch
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}

	if !p.expectPeek(lexer.LPAREN, "'(' after 'if'") {
		return nil
	}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}
	if !p.expectPeek(lexer.RPAREN, "')' after if condition") {
		return nil
	}

	p.nextToken()
	stmt.ThenBranch = p.parseStatement()
	if stmt.ThenBranch == nil {
		return nil
	}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		p.nextToken()
		stmt.ElseBranch = p.parseStatement()
		if stmt.ElseBranch == nil {
			return nil
		}
	}
	return stmt
}

// parseWhileStatement parses 'while (cond) stmt', desugaring it into the
// unified loop form with no initializer and no increment
func (p *Parser) parseWhileStatement(tag string) ast.Statement {
	tok := p.curToken

	if !p.expectPeek(lexer.LPAREN, "'(' after 'while'") {
		return nil
	}
	p.nextToken()
	condition := p.parseExpression(LOWEST)
	if condition == nil {
		return nil
	}
	if !p.expectPeek(lexer.RPAREN, "')' after condition") {
		return nil
	}

	p.nextToken()
	body := p.parseStatement()
	if body == nil {
		return nil
	}

	return &ast.ForStatement{Token: tok, Condition: condition, Body: body, Tag: tag}
}

// parseForStatement parses 'for (init; cond; incr) stmt'. Initializer,
// condition, and increment are each optional.
func (p *Parser) parseForStatement(tag string) ast.Statement {
	stmt := &ast.ForStatement{Token: p.curToken, Tag: tag}

	if !p.expectPeek(lexer.LPAREN, "'(' after 'for'") {
		return nil
	}

	// Initializer: ';' for none, a var declaration, or an expression statement
	p.nextToken()
	switch {
	case p.curTokenIs(lexer.SEMICOLON):
		// no initializer; curToken rests on the ';'
	case p.curTokenIs(lexer.VAR):
		stmt.Initializer = p.parseVarStatement()
		if stmt.Initializer == nil {
			return nil
		}
	default:
		stmt.Initializer = p.parseExpressionStatement()
		if stmt.Initializer == nil {
			return nil
		}
	}

	// Condition: absent means always true
	if !p.peekTokenIs(lexer.SEMICOLON) {
		p.nextToken()
		stmt.Condition = p.parseExpression(LOWEST)
		if stmt.Condition == nil {
			return nil
		}
	}
	if !p.expectPeek(lexer.SEMICOLON, "';' after loop condition") {
		return nil
	}

	// Increment: wrapped as an expression statement, as the evaluator
	// executes it like any other statement
	if !p.peekTokenIs(lexer.RPAREN) {
		p.nextToken()
		incrTok := p.curToken
		incr := p.parseExpression(LOWEST)
		if incr == nil {
			return nil
		}
		stmt.Increment = &ast.ExpressionStatement{Token: incrTok, Expression: incr}
	}
	if !p.expectPeek(lexer.RPAREN, "')' after for clauses") {
		return nil
	}

	p.nextToken()
	stmt.Body = p.parseStatement()
	if stmt.Body == nil {
		return nil
	}
	return stmt
}

// parseLabeledLoop parses 'label: while ...' and 'label: for ...'. The
// label form is only attempted when an identifier is directly followed by
// ':'; anything but a loop after the colon is an error.
func (p *Parser) parseLabeledLoop() ast.Statement {
	labelTok := p.curToken
	tag := strings.TrimSpace(labelTok.Literal)

	p.nextToken() // the ':'
	p.nextToken()

	switch p.curToken.Type {
	case lexer.WHILE:
		return p.parseWhileStatement(tag)
	case lexer.FOR:
		return p.parseForStatement(tag)
	default:
		p.addStructuredError("PARSE-0005", labelTok, map[string]any{"Label": tag})
		return nil
	}
}

// parseBreakStatement parses 'break;' and 'break LABEL;'
func (p *Parser) parseBreakStatement() ast.Statement {
	stmt := &ast.BreakStatement{Token: p.curToken}

	switch {
	case p.peekTokenIs(lexer.SEMICOLON):
		p.nextToken()
	case p.peekTokenIs(lexer.IDENT):
		p.nextToken()
		stmt.Tag = p.curToken.Literal
		if !p.expectPeek(lexer.SEMICOLON, "';' after 'break'") {
			return nil
		}
	default:
		p.addStructuredError("PARSE-0008", p.peekToken, nil)
		return nil
	}
	return stmt
}

// parseContinueStatement parses 'continue;' and 'continue LABEL;'
func (p *Parser) parseContinueStatement() ast.Statement {
	stmt := &ast.ContinueStatement{Token: p.curToken}

	switch {
	case p.peekTokenIs(lexer.SEMICOLON):
		p.nextToken()
	case p.peekTokenIs(lexer.IDENT):
		p.nextToken()
		stmt.Tag = p.curToken.Literal
		if !p.expectPeek(lexer.SEMICOLON, "';' after 'continue'") {
			return nil
		}
	default:
		p.addStructuredError("PARSE-0009", p.peekToken, nil)
		return nil
	}
	return stmt
}

// parseExpressionStatement parses an expression followed by ';'
func (p *Parser) parseExpressionStatement() ast.Statement {
	stmt := &ast.ExpressionStatement{Token: p.curToken}

	stmt.Expression = p.parseExpression(LOWEST)
	if stmt.Expression == nil {
		return nil
	}

	if !p.expectPeek(lexer.SEMICOLON, "';' after expression") {
		return nil
	}
	return stmt
}

// parseExpression parses an expression with precedence climbing
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken)
		return nil
	}
	leftExp := prefix()

	for leftExp != nil && !p.peekTokenIs(lexer.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		leftExp = infix(leftExp)
	}

	return leftExp
}

// parseIdentifier parses an identifier expression
func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

// parseNumberLiteral parses a number literal
func (p *Parser) parseNumberLiteral() ast.Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addStructuredError("PARSE-0007", p.curToken,
			map[string]any{"Literal": p.curToken.Literal})
		return nil
	}
	return &ast.NumberLiteral{Token: p.curToken, Value: value}
}

// parseStringLiteral parses a string literal
func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseBoolean parses 'true' and 'false'
func (p *Parser) parseBoolean() ast.Expression {
	return &ast.BooleanLiteral{Token: p.curToken, Value: p.curTokenIs(lexer.TRUE)}
}

// parseNilLiteral parses 'nil'
func (p *Parser) parseNilLiteral() ast.Expression {
	return &ast.NilLiteral{Token: p.curToken}
}

// parsePrefixExpression parses '!expr' and '-expr'
func (p *Parser) parsePrefixExpression() ast.Expression {
	expr := &ast.PrefixExpression{Token: p.curToken, Operator: p.curToken.Literal}

	p.nextToken()
	expr.Operand = p.parseExpression(PREFIX)
	if expr.Operand == nil {
		return nil
	}
	return expr
}

// parseGroupedExpression parses '(expr)'
func (p *Parser) parseGroupedExpression() ast.Expression {
	expr := &ast.GroupingExpression{Token: p.curToken}

	p.nextToken()
	expr.Inner = p.parseExpression(LOWEST)
	if expr.Inner == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN, "')' after expression") {
		return nil
	}
	return expr
}

// parseInfixExpression parses left-associative binary operators
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expr := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseLogicalExpression parses short-circuiting 'or' and 'and'. 'or' is
// left-associative; 'and' parses its right operand at one-lower binding
// power, keeping the grammar's right-recursive shape.
func (p *Parser) parseLogicalExpression(left ast.Expression) ast.Expression {
	expr := &ast.LogicalExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Literal,
	}

	precedence := p.curPrecedence()
	if p.curTokenIs(lexer.AND) {
		precedence--
	}
	p.nextToken()
	expr.Right = p.parseExpression(precedence)
	if expr.Right == nil {
		return nil
	}
	return expr
}

// parseAssignExpression parses '=' and the compound assignment operators.
// 'x += e' desugars into 'x = (x + e)' with a synthesized operator token
// carrying the compound lexeme's position. A non-variable target is
// reported at the operator token and the left expression is returned
// unchanged; this is non-fatal and parsing continues in place.
func (p *Parser) parseAssignExpression(left ast.Expression) ast.Expression {
	opTok := p.curToken

	p.nextToken()
	value := p.parseExpression(ASSIGNMENT - 1)
	if value == nil {
		return nil
	}

	name, ok := left.(*ast.Identifier)
	if !ok {
		p.addStructuredError("PARSE-0004", opTok, map[string]any{"Operator": opTok.Literal})
		return left
	}

	if baseType, compound := compoundBaseOps[opTok.Type]; compound {
		baseTok := lexer.Token{
			Type:    baseType,
			Literal: opTok.Literal,
			Line:    opTok.Line,
			Column:  opTok.Column,
		}
		value = &ast.InfixExpression{
			Token:    baseTok,
			Left:     &ast.Identifier{Token: name.Token, Value: name.Value},
			Operator: baseOpLexemes[baseType],
			Right:    value,
		}
	}

	return &ast.AssignExpression{Token: opTok, Name: name, Value: value}
}

// noPrefixParseFnError records an error for a token with no prefix parse rule
func (p *Parser) noPrefixParseFnError(tok lexer.Token) {
	if tok.Type == lexer.ILLEGAL {
		p.addStructuredError("PARSE-0002", tok, map[string]any{"Token": tok.Literal})
		return
	}
	p.addStructuredError("PARSE-0003", tok, nil)
}

// expectPeek advances iff the next token matches the expected type,
// recording a parse error otherwise
func (p *Parser) expectPeek(t lexer.TokenType, expected string) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addStructuredError("PARSE-0001", p.peekToken,
		map[string]any{"Expected": expected, "Got": tokenDisplay(p.peekToken)})
	return false
}

// synchronize discards tokens until a likely statement boundary: just past
// a ';', or at a token that begins a new declaration or statement. This
// bounds error cascades to roughly one spurious diagnostic per genuine
// syntax error.
func (p *Parser) synchronize() {
	p.nextToken()

	for !p.curTokenIs(lexer.EOF) {
		if p.prevToken.Type == lexer.SEMICOLON {
			return
		}
		switch p.curToken.Type {
		case lexer.CLASS, lexer.FUNCTION, lexer.VAR, lexer.FOR,
			lexer.IF, lexer.WHILE, lexer.PRINT, lexer.RETURN:
			return
		}
		p.nextToken()
	}
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

// peekPrecedence returns the precedence of the next token
func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// curPrecedence returns the precedence of the current token
func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// tokenDisplay renders a token for error messages
func tokenDisplay(tok lexer.Token) string {
	if tok.Type == lexer.EOF {
		return "end of input"
	}
	return tok.Literal
}
