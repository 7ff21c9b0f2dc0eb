// Package sorrel is the embedding API for the Sorrel interpreter. It ties
// the lexer, parser, and evaluator into single-call helpers so hosts don't
// deal with the pipeline stages directly.
package sorrel

import (
	"github.com/sambeau/sorrel/pkg/sorrel/ast"
	"github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/evaluator"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
	"github.com/sambeau/sorrel/pkg/sorrel/parser"
)

// Parse lexes and parses source without evaluating it. The returned
// program is nil-safe to ignore when errors are non-empty: no partial AST
// is ever evaluated.
func Parse(source, filename string) (*ast.Program, []*errors.SorrelError) {
	l := lexer.NewWithFilename(source, filename)
	p := parser.New(l)
	program := p.ParseProgram()

	if errs := p.StructuredErrors(); len(errs) > 0 {
		return nil, errs
	}
	return program, nil
}

// Check parses source and reports its lex/parse errors, for linting
// without running anything.
func Check(source, filename string) []*errors.SorrelError {
	_, errs := Parse(source, filename)
	return errs
}

// Run executes source against env and returns the final value. Lex and
// parse errors abort before evaluation; runtime errors that reach the top
// level come back as the second return value.
func Run(source, filename string, env *evaluator.Environment) (evaluator.Object, *errors.SorrelError) {
	program, errs := Parse(source, filename)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	env.Filename = filename
	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		return nil, errObj.Err
	}
	return result, nil
}

// RunString executes source in a fresh environment and returns what the
// program printed, collected in a buffer. Convenience for tests and for
// hosts that just want output.
func RunString(source string) (string, *errors.SorrelError) {
	logger := evaluator.NewBufferedLogger()
	env := evaluator.NewEnvironment()
	env.Runtime().Logger = logger

	_, err := Run(source, "<input>", env)
	return logger.String(), err
}
