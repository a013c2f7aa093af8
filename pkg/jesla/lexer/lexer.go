package lexer

import (
	"fmt"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF

	// Identifiers and literals
	IDENT  // x, counter, outer
	NUMBER // 42, 3.14
	STRING // "foobar"

	// Operators
	ASSIGN          // =
	PLUS            // +
	MINUS           // -
	BANG            // !
	ASTERISK        // *
	SLASH           // /
	PLUS_ASSIGN     // +=
	MINUS_ASSIGN    // -=
	ASTERISK_ASSIGN // *=
	SLASH_ASSIGN    // /=
	LT              // <
	GT              // >
	LTE             // <=
	GTE             // >=
	EQ              // ==
	NOT_EQ          // !=

	// Delimiters
	SEMICOLON // ;
	COLON     // :
	LPAREN    // (
	RPAREN    // )
	LBRACE    // {
	RBRACE    // }

	// Keywords
	AND      // "and"
	OR       // "or"
	VAR      // "var"
	PRINT    // "print"
	IF       // "if"
	ELSE     // "else"
	WHILE    // "while"
	FOR      // "for"
	BREAK    // "break"
	CONTINUE // "continue"
	TRUE     // "true"
	FALSE    // "false"
	NIL      // "nil"

	// Reserved words with no grammar production yet; the parser's
	// synchronize set keys on them
	CLASS    // "class"
	FUNCTION // "fun"
	RETURN   // "return"
)

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
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
	case IDENT:
		return "IDENT"
	case NUMBER:
		return "NUMBER"
	case STRING:
		return "STRING"
	case ASSIGN:
		return "ASSIGN"
	case PLUS:
		return "PLUS"
	case MINUS:
		return "MINUS"
	case BANG:
		return "BANG"
	case ASTERISK:
		return "ASTERISK"
	case SLASH:
		return "SLASH"
	case PLUS_ASSIGN:
		return "PLUS_ASSIGN"
	case MINUS_ASSIGN:
		return "MINUS_ASSIGN"
	case ASTERISK_ASSIGN:
		return "ASTERISK_ASSIGN"
	case SLASH_ASSIGN:
		return "SLASH_ASSIGN"
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
	case SEMICOLON:
		return "SEMICOLON"
	case COLON:
		return "COLON"
	case LPAREN:
		return "LPAREN"
	case RPAREN:
		return "RPAREN"
	case LBRACE:
		return "LBRACE"
	case RBRACE:
		return "RBRACE"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case VAR:
		return "VAR"
	case PRINT:
		return "PRINT"
	case IF:
		return "IF"
	case ELSE:
		return "ELSE"
	case WHILE:
		return "WHILE"
	case FOR:
		return "FOR"
	case BREAK:
		return "BREAK"
	case CONTINUE:
		return "CONTINUE"
	case TRUE:
		return "TRUE"
	case FALSE:
		return "FALSE"
	case NIL:
		return "NIL"
	case CLASS:
		return "CLASS"
	case FUNCTION:
		return "FUNCTION"
	case RETURN:
		return "RETURN"
	default:
		return "UNKNOWN"
	}
}

// keywords maps identifier spellings to keyword token types
var keywords = map[string]TokenType{
	"and":      AND,
	"or":       OR,
	"var":      VAR,
	"print":    PRINT,
	"if":       IF,
	"else":     ELSE,
	"while":    WHILE,
	"for":      FOR,
	"break":    BREAK,
	"continue": CONTINUE,
	"true":     TRUE,
	"false":    FALSE,
	"nil":      NIL,
	"class":    CLASS,
	"fun":      FUNCTION,
	"return":   RETURN,
}

// LookupIdent checks if an identifier is a keyword
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Lexer tokenizes input source code
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           byte // current char under examination
	line         int  // current line number (1-based)
	column       int  // current column number (1-based)
}

// New creates a new lexer for the given input
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

// readChar advances to the next character
func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	if l.ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// NextToken returns the next token from the input
func (l *Lexer) NextToken() Token {
	l.skipWhitespaceAndComments()

	tok := Token{Line: l.line, Column: l.column}

	switch l.ch {
	case '=':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = EQ, "=="
		} else {
			tok.Type, tok.Literal = ASSIGN, "="
		}
	case '+':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = PLUS_ASSIGN, "+="
		} else {
			tok.Type, tok.Literal = PLUS, "+"
		}
	case '-':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = MINUS_ASSIGN, "-="
		} else {
			tok.Type, tok.Literal = MINUS, "-"
		}
	case '*':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = ASTERISK_ASSIGN, "*="
		} else {
			tok.Type, tok.Literal = ASTERISK, "*"
		}
	case '/':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = SLASH_ASSIGN, "/="
		} else {
			tok.Type, tok.Literal = SLASH, "/"
		}
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = NOT_EQ, "!="
		} else {
			tok.Type, tok.Literal = BANG, "!"
		}
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = LTE, "<="
		} else {
			tok.Type, tok.Literal = LT, "<"
		}
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			tok.Type, tok.Literal = GTE, ">="
		} else {
			tok.Type, tok.Literal = GT, ">"
		}
	case ';':
		tok.Type, tok.Literal = SEMICOLON, ";"
	case ':':
		tok.Type, tok.Literal = COLON, ":"
	case '(':
		tok.Type, tok.Literal = LPAREN, "("
	case ')':
		tok.Type, tok.Literal = RPAREN, ")"
	case '{':
		tok.Type, tok.Literal = LBRACE, "{"
	case '}':
		tok.Type, tok.Literal = RBRACE, "}"
	case '"':
		literal, ok := l.readString()
		if !ok {
			tok.Type, tok.Literal = ILLEGAL, literal
			return tok
		}
		tok.Type, tok.Literal = STRING, literal
		return tok
	case 0:
		tok.Type, tok.Literal = EOF, ""
	default:
		if isLetter(l.ch) {
			tok.Literal = l.readIdentifier()
			tok.Type = LookupIdent(tok.Literal)
			return tok
		}
		if isDigit(l.ch) {
			tok.Type = NUMBER
			tok.Literal = l.readNumber()
			return tok
		}
		tok.Type, tok.Literal = ILLEGAL, string(l.ch)
	}

	l.readChar()
	return tok
}

// skipWhitespaceAndComments skips whitespace and // line comments
func (l *Lexer) skipWhitespaceAndComments() {
	for {
		for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
			l.readChar()
		}
		if l.ch == '/' && l.peekChar() == '/' {
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
			continue
		}
		return
	}
}

// readIdentifier reads an identifier
func (l *Lexer) readIdentifier() string {
	position := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readNumber reads a number literal with an optional fractional part
func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	// A fraction requires a digit after the dot
	if l.ch == '.' && isDigit(l.peekChar()) {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return l.input[position:l.position]
}

// readString reads a string literal, returning its unquoted contents.
// Strings may span lines. The second return value is false when the
// closing quote is missing.
func (l *Lexer) readString() (string, bool) {
	position := l.position + 1
	for {
		l.readChar()
		if l.ch == '"' {
			break
		}
		if l.ch == 0 {
			return l.input[position:l.position], false
		}
	}
	literal := l.input[position:l.position]
	l.readChar() // consume closing quote
	return literal, true
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}
