package evaluator

import (
	"fmt"
	"strconv"

	"github.com/jesla-lang/jesla/pkg/jesla/ast"
	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	NUMBER_OBJ   = "NUMBER"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	NULL_OBJ     = "NULL"
	ERROR_OBJ    = "ERROR"
	BREAK_OBJ    = "BREAK_SIGNAL"
	CONTINUE_OBJ = "CONTINUE_SIGNAL"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Number represents numeric objects. All jesla numbers are float64.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return FormatNumber(n.Value) }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// String represents string objects
type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// Null represents the nil value
type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "nil" }

// Singleton instances; booleans and nil are compared by identity
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// BreakSignal is the out-of-band result of executing a break statement. It
// propagates outward until a loop with a matching tag consumes it; "" means
// the nearest unlabeled enclosing loop.
type BreakSignal struct {
	Tag string
}

func (bs *BreakSignal) Type() ObjectType { return BREAK_OBJ }
func (bs *BreakSignal) Inspect() string {
	if bs.Tag != "" {
		return "break " + bs.Tag
	}
	return "break"
}

// ContinueSignal is the out-of-band result of executing a continue
// statement, matched against loop tags the same way as BreakSignal.
type ContinueSignal struct {
	Tag string
}

func (cs *ContinueSignal) Type() ObjectType { return CONTINUE_OBJ }
func (cs *ContinueSignal) Inspect() string {
	if cs.Tag != "" {
		return "continue " + cs.Tag
	}
	return "continue"
}

// Error represents runtime error objects with structured error information
type Error struct {
	Message string
	Line    int
	Column  int
	Class   jerrors.ErrorClass
	Code    string
	Hints   []string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "ERROR: " + e.Message
}

// ToJeslaError converts this Error to a JeslaError for structured handling
func (e *Error) ToJeslaError() *jerrors.JeslaError {
	class := e.Class
	if class == "" {
		class = jerrors.ClassType
	}
	return &jerrors.JeslaError{
		Class:   class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		Data:    e.Data,
	}
}

// Logger is the output channel for print statements
type Logger interface {
	Log(values ...any)
	LogLine(values ...any)
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Log(values ...any) {
	for i, v := range values {
		if i > 0 {
			fmt.Print(" ")
		}
		fmt.Print(v)
	}
}

func (l *defaultStdoutLogger) LogLine(values ...any) {
	l.Log(values...)
	fmt.Println()
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// Environment represents one scope in the scope chain: a mutable mapping
// from name to value with a link to the enclosing scope.
type Environment struct {
	store    map[string]Object
	outer    *Environment
	Filename string
	Logger   Logger
}

// NewEnvironment creates a new root environment
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]Object), Logger: DefaultLogger}
}

// NewEnclosedEnvironment creates a new environment with outer reference
func NewEnclosedEnvironment(outer *Environment) *Environment {
	env := NewEnvironment()
	env.outer = outer
	if outer != nil {
		env.Filename = outer.Filename
		env.Logger = outer.Logger
	}
	return env
}

// Get retrieves a value, searching this scope then enclosing scopes
func (e *Environment) Get(name string) (Object, bool) {
	value, ok := e.store[name]
	if !ok && e.outer != nil {
		value, ok = e.outer.Get(name)
	}
	return value, ok
}

// Define introduces or shadows a name in the innermost scope; it never errors
func (e *Environment) Define(name string, val Object) Object {
	e.store[name] = val
	return val
}

// Assign mutates the nearest enclosing binding of name. It reports false
// when the name is not bound anywhere in the chain; assignment never
// creates a binding.
func (e *Environment) Assign(name string, val Object) bool {
	if _, ok := e.store[name]; ok {
		e.store[name] = val
		return true
	}
	if e.outer != nil {
		return e.outer.Assign(name, val)
	}
	return false
}

// UserVariables returns a copy of the bindings in this scope only
func (e *Environment) UserVariables() map[string]Object {
	result := make(map[string]Object, len(e.store))
	for name, val := range e.store {
		result[name] = val
	}
	return result
}

// Eval evaluates an AST node and returns the resulting object. Runtime
// errors and break/continue signals are ordinary return values; callers
// inspect them at each statement boundary.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {
	// Statements
	case *ast.Program:
		return evalProgram(node, env)
	case *ast.ExpressionStatement:
		return Eval(node.Expression, env)
	case *ast.PrintStatement:
		return evalPrintStatement(node, env)
	case *ast.VarStatement:
		return evalVarStatement(node, env)
	case *ast.BlockStatement:
		return evalBlockStatement(node, env)
	case *ast.IfStatement:
		return evalIfStatement(node, env)
	case *ast.ForStatement:
		return evalForStatement(node, env)
	case *ast.BreakStatement:
		return &BreakSignal{Tag: node.Tag}
	case *ast.ContinueStatement:
		return &ContinueSignal{Tag: node.Tag}

	// Expressions
	case *ast.NumberLiteral:
		return &Number{Value: node.Value}
	case *ast.StringLiteral:
		return &String{Value: node.Value}
	case *ast.BooleanLiteral:
		return nativeBoolToBooleanObject(node.Value)
	case *ast.NilLiteral:
		return NULL
	case *ast.GroupingExpression:
		return Eval(node.Inner, env)
	case *ast.PrefixExpression:
		return evalPrefixExpression(node, env)
	case *ast.InfixExpression:
		return evalInfixExpression(node, env)
	case *ast.LogicalExpression:
		return evalLogicalExpression(node, env)
	case *ast.Identifier:
		return evalIdentifier(node, env)
	case *ast.AssignExpression:
		return evalAssignExpression(node, env)
	}

	return NULL
}

// evalProgram executes top-level statements in order. A runtime error
// aborts the rest of the run; a break or continue signal that escapes the
// outermost loop has nothing left to consume it and is dropped.
func evalProgram(program *ast.Program, env *Environment) Object {
	var result Object = NULL

	for _, stmt := range program.Statements {
		r := Eval(stmt, env)
		if isError(r) {
			return r
		}
		if isSignal(r) {
			result = NULL
			continue
		}
		result = r
	}

	return result
}

// evalPrintStatement writes one line of output through the environment's logger
func evalPrintStatement(node *ast.PrintStatement, env *Environment) Object {
	value := Eval(node.Expression, env)
	if isError(value) {
		return value
	}
	env.Logger.LogLine(Stringify(value))
	return NULL
}

// evalVarStatement defines a variable in the current scope, defaulting to nil
func evalVarStatement(node *ast.VarStatement, env *Environment) Object {
	var value Object = NULL
	if node.Initializer != nil {
		value = Eval(node.Initializer, env)
		if isError(value) {
			return value
		}
	}
	env.Define(node.Name.Value, value)
	return NULL
}

// Stringify renders a value the way print shows it: nil prints as "nil",
// numbers drop a trailing ".0" for integral values.
func Stringify(obj Object) string {
	if obj == nil || obj == NULL {
		return "nil"
	}
	return obj.Inspect()
}

// FormatNumber renders a float without a trailing ".0" for integral values
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// isTruthy implements jesla truthiness: nil and false are falsy, every
// other value (including 0 and "") is truthy
func isTruthy(obj Object) bool {
	switch obj {
	case NULL:
		return false
	case TRUE:
		return true
	case FALSE:
		return false
	default:
		return true
	}
}

// isError checks if an object is a runtime error
func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}

// isSignal checks if an object is a break or continue signal
func isSignal(obj Object) bool {
	if obj != nil {
		return obj.Type() == BREAK_OBJ || obj.Type() == CONTINUE_OBJ
	}
	return false
}

func nativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// newRuntimeError builds a runtime Error from the error catalog, carrying
// the offending token's position
func newRuntimeError(tok lexer.Token, code string, data map[string]any) *Error {
	jerr := jerrors.NewWithPosition(code, tok.Line, tok.Column, data)
	return &Error{
		Message: jerr.Message,
		Line:    jerr.Line,
		Column:  jerr.Column,
		Class:   jerr.Class,
		Code:    jerr.Code,
		Hints:   jerr.Hints,
		Data:    jerr.Data,
	}
}
