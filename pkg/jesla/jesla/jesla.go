package jesla

import (
	"github.com/jesla-lang/jesla/pkg/jesla/ast"
	jerrors "github.com/jesla-lang/jesla/pkg/jesla/errors"
	"github.com/jesla-lang/jesla/pkg/jesla/evaluator"
	"github.com/jesla-lang/jesla/pkg/jesla/lexer"
	"github.com/jesla-lang/jesla/pkg/jesla/parser"
)

// Parse parses source and returns the program along with any parse errors.
// The program contains every statement that parsed cleanly even when
// errors are present.
func Parse(source string) (*ast.Program, []*jerrors.JeslaError) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()
	return program, p.StructuredErrors()
}

// Run parses and evaluates source in env. Parse errors abort the run
// before evaluation; a runtime error stops evaluation at the failing
// statement. The returned object is the value of the last top-level
// expression statement, or nil when the run did not complete.
func Run(source string, env *evaluator.Environment) (evaluator.Object, []*jerrors.JeslaError, *jerrors.JeslaError) {
	program, parseErrs := Parse(source)
	if len(parseErrs) > 0 {
		return nil, parseErrs, nil
	}

	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		runtimeErr := errObj.ToJeslaError()
		if env.Filename != "" {
			runtimeErr = runtimeErr.WithFile(env.Filename)
		}
		return nil, nil, runtimeErr
	}
	return result, nil, nil
}

// Check parses source without evaluating it and returns any parse errors
func Check(source string) []*jerrors.JeslaError {
	_, parseErrs := Parse(source)
	return parseErrs
}
