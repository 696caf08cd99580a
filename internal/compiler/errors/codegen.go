package errors

import (
	"fmt"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
)

// Target generation error codes (GEN600-699)
const (
	// ErrUnknownFunction indicates a name that resolves to no Graphite function
	ErrUnknownFunction ErrorCode = "GEN600"
	// ErrTooManyArguments indicates more arguments than a function's signature accepts
	ErrTooManyArguments ErrorCode = "GEN601"
)

// NewUnknownFunction creates a GEN600 error. Close matches, if any, are
// offered as quick fixes.
func NewUnknownFunction(loc ast.SourceLocation, name string, suggestions ...string) *CompilerError {
	err := newError(
		ErrUnknownFunction,
		"unknown_function",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Unknown Graphite function '%s'", name),
		loc,
	).WithActual(name)

	if len(suggestions) > 0 {
		err = err.WithSuggestion(fmt.Sprintf("Did you mean '%s'?", suggestions[0])).
			WithExamples(suggestions...)
	} else {
		err = err.WithSuggestion("Run 'graphite-graph functions' to list the known functions")
	}
	return err
}

// NewTooManyArguments creates a GEN601 error
func NewTooManyArguments(loc ast.SourceLocation, function string, max, got int) *CompilerError {
	return newError(
		ErrTooManyArguments,
		"too_many_arguments",
		CategoryCodeGen,
		SeverityError,
		fmt.Sprintf("Function %s accepts at most %d argument(s)", function, max),
		loc,
	).WithExpected(fmt.Sprintf("%d argument(s)", max)).
		WithActual(fmt.Sprintf("%d argument(s)", got))
}
