package evaluator

import (
	"fmt"
	"strings"
	"testing"

	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
	"github.com/jesla-lang/jesla/pkg/jesla/parser"
)

// Helper to parse and evaluate jesla code
func testEval(input string) Object {
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		return &Error{Message: errs[0]}
	}
	env := NewEnvironment()
	env.Logger = &captureLogger{}
	return Eval(program, env)
}

// captureLogger collects print output for assertions
type captureLogger struct {
	lines []string
}

func (l *captureLogger) Log(values ...any) {}
func (l *captureLogger) LogLine(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	l.lines = append(l.lines, strings.Join(parts, " "))
}

func testNumberObject(t *testing.T, obj Object, expected float64, input string) {
	t.Helper()
	num, ok := obj.(*Number)
	if !ok {
		t.Errorf("input %q: expected Number, got %T (%+v)", input, obj, obj)
		return
	}
	if num.Value != expected {
		t.Errorf("input %q: expected %v, got %v", input, expected, num.Value)
	}
}

func testErrorObject(t *testing.T, obj Object, class jerrors.ErrorClass, message string, input string) {
	t.Helper()
	errObj, ok := obj.(*Error)
	if !ok {
		t.Fatalf("input %q: expected Error, got %T (%+v)", input, obj, obj)
	}
	if errObj.Class != class {
		t.Errorf("input %q: expected class %q, got %q", input, class, errObj.Class)
	}
	if errObj.Message != message {
		t.Errorf("input %q: expected message %q, got %q", input, message, errObj.Message)
	}
}

// TestArithmetic tests number arithmetic and left associativity
func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"5;", 5},
		{"1 - 2 - 3;", -4},
		{"2 + 3 * 4;", 14},
		{"(2 + 3) * 4;", 20},
		{"8 / 4 / 2;", 1},
		{"-5 + 10;", 5},
		{"0.5 + 0.25;", 0.75},
		{"7 / 2;", 3.5},
	}

	for _, tt := range tests {
		testNumberObject(t, testEval(tt.input), tt.expected, tt.input)
	}
}

// TestComparisons tests ordering and equality operators
func TestComparisons(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2;", true},
		{"2 <= 2;", true},
		{"3 > 4;", false},
		{"4 >= 4;", true},
		{"1 == 1;", true},
		{"1 != 1;", false},
		{`"a" == "a";`, true},
		{`"a" == "b";`, false},
		{"true == true;", true},
		{"true == false;", false},
		{"nil == nil;", true},
		{"nil == false;", false},
		{"nil == 0;", false},
		{`1 == "1";`, false},
		{`nil != 1;`, true},
	}

	for _, tt := range tests {
		result := testEval(tt.input)
		boolObj, ok := result.(*Boolean)
		if !ok {
			t.Errorf("input %q: expected Boolean, got %T (%+v)", tt.input, result, result)
			continue
		}
		if boolObj.Value != tt.expected {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.expected, boolObj.Value)
		}
	}
}

// TestStringConcatenation tests '+' with a string on either side
func TestStringConcatenation(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{`"foo" + "bar";`, "foobar"},
		{`"1" + 2;`, "12"},
		{`2 + "1";`, "21"},
		{`"x = " + 1.5;`, "x = 1.5"},
		{`"n is " + nil;`, "n is nil"},
		{`"ok: " + true;`, "ok: true"},
		{`"" + 14.0;`, "14"},
	}

	for _, tt := range tests {
		result := testEval(tt.input)
		strObj, ok := result.(*String)
		if !ok {
			t.Errorf("input %q: expected String, got %T (%+v)", tt.input, result, result)
			continue
		}
		if strObj.Value != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, strObj.Value)
		}
	}
}

// TestBangOperator tests logical negation by truthiness
func TestBangOperator(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"!true;", false},
		{"!false;", true},
		{"!nil;", true},
		{"!0;", false},
		{`!"";`, false},
		{"!!true;", true},
	}

	for _, tt := range tests {
		result := testEval(tt.input)
		if result != nativeBoolToBooleanObject(tt.expected) {
			t.Errorf("input %q: expected %v, got %s", tt.input, tt.expected, result.Inspect())
		}
	}
}

// TestLogicalOperators tests short-circuiting and value-returning 'and'/'or'
func TestLogicalOperators(t *testing.T) {
	tests := []struct {
		input    string
		expected Object
	}{
		{"nil or 2;", &Number{Value: 2}},
		{"1 or 2;", &Number{Value: 1}},
		{"false or false;", FALSE},
		{"1 and 2;", &Number{Value: 2}},
		{"nil and 2;", NULL},
		{"false and 2;", FALSE},
	}

	for _, tt := range tests {
		result := testEval(tt.input)
		switch want := tt.expected.(type) {
		case *Number:
			testNumberObject(t, result, want.Value, tt.input)
		default:
			if result != tt.expected {
				t.Errorf("input %q: expected %s, got %s", tt.input, tt.expected.Inspect(), result.Inspect())
			}
		}
	}
}

// TestShortCircuitSkipsRightSide tests that the right operand is not
// evaluated when the left side decides
func TestShortCircuitSkipsRightSide(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"var a = 1; false and (a = 2); a;", 1},
		{"var a = 1; true or (a = 2); a;", 1},
		{"var a = 1; true and (a = 2); a;", 2},
		{"var a = 1; false or (a = 2); a;", 2},
	}

	for _, tt := range tests {
		testNumberObject(t, testEval(tt.input), tt.expected, tt.input)
	}
}

// TestVariables tests declaration, lookup, assignment, and compound forms
func TestVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"var x = 5; x;", 5},
		{"var x = 5; x = 6; x;", 6},
		{"var x = 5; x += 3;", 8},
		{"var x = 5; x -= 3; x;", 2},
		{"var x = 5; x *= 3; x;", 15},
		{"var x = 6; x /= 3; x;", 2},
		{"var x = 1; var y = x + 1; y;", 2},
		{"var x = 1; var x = 2; x;", 2},
		{"var x = 5; x = x = 7; x;", 7},
	}

	for _, tt := range tests {
		testNumberObject(t, testEval(tt.input), tt.expected, tt.input)
	}
}

// TestUninitializedVariableIsNil tests 'var x;' defaulting to nil
func TestUninitializedVariableIsNil(t *testing.T) {
	result := testEval("var x; x;")
	if result != NULL {
		t.Errorf("expected nil, got %s", result.Inspect())
	}
}

// TestAssignmentIsAnExpression tests that assignment produces the assigned value
func TestAssignmentIsAnExpression(t *testing.T) {
	testNumberObject(t, testEval("var x; var y = (x = 3) + 1; y;"), 4, "assignment as expression")
}

// TestTypeErrors tests operand type checking
func TestTypeErrors(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{`-"a";`, "Operand must be a number."},
		{"-nil;", "Operand must be a number."},
		{`1 < "a";`, "Operands must be numbers."},
		{`"a" * 2;`, "Operands must be numbers."},
		{`nil - 1;`, "Operands must be numbers."},
		{"true + false;", "Operands must be two numbers or two strings."},
		{"nil + 1;", "Operands must be two numbers or two strings."},
	}

	for _, tt := range tests {
		testErrorObject(t, testEval(tt.input), jerrors.ClassType, tt.message, tt.input)
	}
}

// TestDivisionByZero tests the arithmetic error for a zero divisor
func TestDivisionByZero(t *testing.T) {
	tests := []string{
		"1 / 0;",
		"var x = 0; 10 / x;",
		"0 / 0;",
	}

	for _, input := range tests {
		testErrorObject(t, testEval(input), jerrors.ClassArithmetic, "dividend cannot be zero", input)
	}
}

// TestDivisionByZeroChecksBeforeDividing tests the compound form too
func TestDivisionByZeroChecksBeforeDividing(t *testing.T) {
	testErrorObject(t, testEval("var x = 5; x /= 0;"),
		jerrors.ClassArithmetic, "dividend cannot be zero", "x /= 0")
}

// TestUndefinedVariable tests NameError on lookup and assignment
func TestUndefinedVariable(t *testing.T) {
	tests := []struct {
		input   string
		message string
	}{
		{"ghost;", "Undefined variable 'ghost'."},
		{"ghost = 1;", "Undefined variable 'ghost'."},
		{"ghost += 1;", "Undefined variable 'ghost'."},
		{"var a = 1; a + b;", "Undefined variable 'b'."},
	}

	for _, tt := range tests {
		testErrorObject(t, testEval(tt.input), jerrors.ClassName, tt.message, tt.input)
	}
}

// TestRuntimeErrorPositions tests that errors carry the failing token's line
func TestRuntimeErrorPositions(t *testing.T) {
	result := testEval("var a = 1;\nvar b = a + missing;")
	errObj, ok := result.(*Error)
	if !ok {
		t.Fatalf("expected Error, got %T", result)
	}
	if errObj.Line != 2 {
		t.Errorf("expected error on line 2, got line %d", errObj.Line)
	}
	if errObj.Code != "NAME-0001" {
		t.Errorf("expected NAME-0001, got %s", errObj.Code)
	}
}

// TestErrorAbortsRun tests that a runtime error stops later statements
func TestErrorAbortsRun(t *testing.T) {
	result := testEval("missing; 42;")
	if _, ok := result.(*Error); !ok {
		t.Fatalf("expected Error to propagate past later statements, got %T (%s)",
			result, result.Inspect())
	}
}

// TestStringify tests the print rendering of each value type
func TestStringify(t *testing.T) {
	tests := []struct {
		obj      Object
		expected string
	}{
		{&Number{Value: 14}, "14"},
		{&Number{Value: 14.0}, "14"},
		{&Number{Value: -4}, "-4"},
		{&Number{Value: 0.5}, "0.5"},
		{&Number{Value: 1000000}, "1000000"},
		{&String{Value: "hi"}, "hi"},
		{TRUE, "true"},
		{FALSE, "false"},
		{NULL, "nil"},
		{nil, "nil"},
	}

	for _, tt := range tests {
		if got := Stringify(tt.obj); got != tt.expected {
			t.Errorf("Stringify(%+v): expected %q, got %q", tt.obj, tt.expected, got)
		}
	}
}

// TestEnvironmentChain tests scope chain lookup and assignment
func TestEnvironmentChain(t *testing.T) {
	outer := NewEnvironment()
	outer.Define("x", &Number{Value: 1})

	inner := NewEnclosedEnvironment(outer)

	if v, ok := inner.Get("x"); !ok || v.(*Number).Value != 1 {
		t.Fatal("inner scope should see outer binding")
	}

	if !inner.Assign("x", &Number{Value: 2}) {
		t.Fatal("assignment through the chain should succeed")
	}
	if v, _ := outer.Get("x"); v.(*Number).Value != 2 {
		t.Error("assignment should mutate the outer binding")
	}

	inner.Define("x", &Number{Value: 9})
	if v, _ := outer.Get("x"); v.(*Number).Value != 2 {
		t.Error("shadowing must not touch the outer binding")
	}

	if inner.Assign("ghost", NULL) {
		t.Error("assigning an unbound name must fail")
	}
}
