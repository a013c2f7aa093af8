package evaluator

import (
	"github.com/jesla-lang/jesla/pkg/jesla/ast"
)

// evalBlockStatement runs statements in a fresh child scope. The first
// error or break/continue signal halts the block and propagates; the
// child scope is discarded either way.
func evalBlockStatement(block *ast.BlockStatement, env *Environment) Object {
	child := NewEnclosedEnvironment(env)

	for _, stmt := range block.Statements {
		result := Eval(stmt, child)
		if isError(result) || isSignal(result) {
			return result
		}
	}

	return NULL
}

// evalIfStatement evaluates the condition by truthiness and runs at most
// one branch. Signals and errors from the branch propagate to the caller.
func evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if isTruthy(condition) {
		return Eval(node.ThenBranch, env)
	}
	if node.ElseBranch != nil {
		return Eval(node.ElseBranch, env)
	}
	return NULL
}

// evalForStatement runs the unified loop form. The initializer runs once
// in the surrounding scope. Each iteration evaluates the condition (absent
// means true), runs the body, then the increment.
//
// Break and continue arrive as signals from the body. A signal whose tag
// matches this loop's tag is consumed here: break exits the loop,
// continue skips to the increment. A non-matching signal propagates
// outward to an enclosing loop, bypassing this loop's increment.
func evalForStatement(node *ast.ForStatement, env *Environment) Object {
	if node.Initializer != nil {
		result := Eval(node.Initializer, env)
		if isError(result) {
			return result
		}
	}

	for {
		if node.Condition != nil {
			condition := Eval(node.Condition, env)
			if isError(condition) {
				return condition
			}
			if !isTruthy(condition) {
				break
			}
		}

		result := Eval(node.Body, env)
		if isError(result) {
			return result
		}
		if signal, ok := result.(*BreakSignal); ok {
			if signal.Tag == node.Tag {
				break
			}
			return signal
		}
		if signal, ok := result.(*ContinueSignal); ok {
			if signal.Tag != node.Tag {
				return signal
			}
		}

		if node.Increment != nil {
			result := Eval(node.Increment, env)
			if isError(result) {
				return result
			}
		}
	}

	return NULL
}
