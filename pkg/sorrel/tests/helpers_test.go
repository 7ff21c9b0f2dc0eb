package tests

import (
	"strings"
	"testing"

	"github.com/sambeau/sorrel/pkg/sorrel/errors"
	"github.com/sambeau/sorrel/pkg/sorrel/evaluator"
	"github.com/sambeau/sorrel/pkg/sorrel/lexer"
	"github.com/sambeau/sorrel/pkg/sorrel/parser"
	"github.com/sambeau/sorrel/pkg/sorrel/sorrel"
)

// runOutput executes a script and returns everything it printed.
func runOutput(t *testing.T, input string) string {
	t.Helper()
	output, err := sorrel.RunString(input)
	if err != nil {
		t.Fatalf("script failed:\n%s\nerror: %s", input, err)
	}
	return output
}

// runWithError executes a script and returns both output and error, for
// tests that check what was printed before a failure.
func runWithError(input string) (string, *errors.SorrelError) {
	return sorrel.RunString(input)
}

// runError executes a script expecting a top-level error.
func runError(t *testing.T, input string) *errors.SorrelError {
	t.Helper()
	_, err := sorrel.RunString(input)
	if err == nil {
		t.Fatalf("expected error, script succeeded:\n%s", input)
	}
	return err
}

// evalValue executes a script and returns the value of its last statement.
func evalValue(t *testing.T, input string) evaluator.Object {
	t.Helper()
	l := lexer.New(input)
	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser errors:\n%s\nfor script:\n%s", strings.Join(errs, "\n"), input)
	}

	env := evaluator.NewEnvironment()
	env.Runtime().Logger = &evaluator.NullLogger{}
	result := evaluator.Eval(program, env)
	if errObj, ok := result.(*evaluator.Error); ok {
		t.Fatalf("script failed:\n%s\nerror: %s", input, errObj.Err)
	}
	return result
}

func expectOutput(t *testing.T, input, expected string) {
	t.Helper()
	if got := runOutput(t, input); got != expected {
		t.Errorf("script:\n%s\nexpected output %q, got %q", input, expected, got)
	}
}

func expectValue(t *testing.T, input, expected string) {
	t.Helper()
	result := evalValue(t, input)
	if got := result.Inspect(); got != expected {
		t.Errorf("script:\n%s\nexpected %s, got %s", input, expected, got)
	}
}
