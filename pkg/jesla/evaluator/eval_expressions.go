package evaluator

import (
	"github.com/jesla-lang/jesla/pkg/jesla/ast"
)

// evalPrefixExpression evaluates '!' and unary '-'
func evalPrefixExpression(node *ast.PrefixExpression, env *Environment) Object {
	operand := Eval(node.Operand, env)
	if isError(operand) {
		return operand
	}

	switch node.Operator {
	case "!":
		return nativeBoolToBooleanObject(!isTruthy(operand))
	case "-":
		num, ok := operand.(*Number)
		if !ok {
			return newRuntimeError(node.Token, "TYPE-0001", nil)
		}
		return &Number{Value: -num.Value}
	default:
		return newRuntimeError(node.Token, "TYPE-0004", map[string]any{
			"Operator":  node.Operator,
			"LeftType":  string(operand.Type()),
			"RightType": "",
		})
	}
}

// evalInfixExpression evaluates arithmetic, comparison, and equality
// operators. Both operands are already evaluated before the type check,
// left first.
func evalInfixExpression(node *ast.InfixExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}
	right := Eval(node.Right, env)
	if isError(right) {
		return right
	}

	switch node.Operator {
	case "==":
		return nativeBoolToBooleanObject(objectsEqual(left, right))
	case "!=":
		return nativeBoolToBooleanObject(!objectsEqual(left, right))
	case "+":
		return evalPlus(node, left, right)
	}

	// Remaining operators are numbers-only
	leftNum, leftOK := left.(*Number)
	rightNum, rightOK := right.(*Number)
	if !leftOK || !rightOK {
		return newRuntimeError(node.Token, "TYPE-0002", nil)
	}

	switch node.Operator {
	case "-":
		return &Number{Value: leftNum.Value - rightNum.Value}
	case "*":
		return &Number{Value: leftNum.Value * rightNum.Value}
	case "/":
		if rightNum.Value == 0 {
			return newRuntimeError(node.Token, "ARITH-0001", nil)
		}
		return &Number{Value: leftNum.Value / rightNum.Value}
	case "<":
		return nativeBoolToBooleanObject(leftNum.Value < rightNum.Value)
	case ">":
		return nativeBoolToBooleanObject(leftNum.Value > rightNum.Value)
	case "<=":
		return nativeBoolToBooleanObject(leftNum.Value <= rightNum.Value)
	case ">=":
		return nativeBoolToBooleanObject(leftNum.Value >= rightNum.Value)
	default:
		return newRuntimeError(node.Token, "TYPE-0004", map[string]any{
			"Operator":  node.Operator,
			"LeftType":  string(left.Type()),
			"RightType": string(right.Type()),
		})
	}
}

// evalPlus adds two numbers, or concatenates when either operand is a
// string, stringifying the other the way print would
func evalPlus(node *ast.InfixExpression, left, right Object) Object {
	leftNum, leftOK := left.(*Number)
	rightNum, rightOK := right.(*Number)
	if leftOK && rightOK {
		return &Number{Value: leftNum.Value + rightNum.Value}
	}
	if left.Type() == STRING_OBJ || right.Type() == STRING_OBJ {
		return &String{Value: Stringify(left) + Stringify(right)}
	}
	return newRuntimeError(node.Token, "TYPE-0003", nil)
}

// objectsEqual implements value equality: nil equals only nil, values of
// different types are never equal
func objectsEqual(left, right Object) bool {
	if left == NULL || right == NULL {
		return left == right
	}
	switch l := left.(type) {
	case *Number:
		r, ok := right.(*Number)
		return ok && l.Value == r.Value
	case *String:
		r, ok := right.(*String)
		return ok && l.Value == r.Value
	case *Boolean:
		r, ok := right.(*Boolean)
		return ok && l.Value == r.Value
	default:
		return left == right
	}
}

// evalLogicalExpression short-circuits: 'or' returns the left value when
// truthy, 'and' returns it when falsy; otherwise the right side decides
func evalLogicalExpression(node *ast.LogicalExpression, env *Environment) Object {
	left := Eval(node.Left, env)
	if isError(left) {
		return left
	}

	if node.Operator == "or" {
		if isTruthy(left) {
			return left
		}
	} else {
		if !isTruthy(left) {
			return left
		}
	}

	return Eval(node.Right, env)
}

// evalIdentifier looks up a variable in the scope chain
func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if value, ok := env.Get(node.Value); ok {
		return value
	}
	return newRuntimeError(node.Token, "NAME-0001", map[string]any{"Name": node.Value})
}

// evalAssignExpression mutates the nearest binding of the target name.
// Assigning to a name that was never declared is a runtime error.
func evalAssignExpression(node *ast.AssignExpression, env *Environment) Object {
	value := Eval(node.Value, env)
	if isError(value) {
		return value
	}
	if !env.Assign(node.Name.Value, value) {
		return newRuntimeError(node.Name.Token, "NAME-0001", map[string]any{"Name": node.Name.Value})
	}
	return value
}
