package errors

import (
	"fmt"
	"strings"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
)

// Graph definition error codes (CFG200-299)
const (
	// ErrUnknownParent indicates an :extends reference to a missing metric
	ErrUnknownParent ErrorCode = "CFG200"
	// ErrInheritanceCycle indicates metrics that extend each other
	ErrInheritanceCycle ErrorCode = "CFG201"
	// ErrUnknownPrefix indicates a :prefix reference to a missing prefix
	ErrUnknownPrefix ErrorCode = "CFG202"
	// ErrPrefixCycle indicates prefixes that refer to each other
	ErrPrefixCycle ErrorCode = "CFG203"
	// ErrMalformedMetric indicates a metric entry that is not a table of keys
	ErrMalformedMetric ErrorCode = "CFG204"
	// ErrUnsupportedFormat indicates a definition file with an unknown extension
	ErrUnsupportedFormat ErrorCode = "CFG205"
)

// NewUnknownParent creates a CFG200 error
func NewUnknownParent(loc ast.SourceLocation, metric, parent string) *CompilerError {
	return newError(
		ErrUnknownParent,
		"unknown_parent",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("Metric '%s' extends unknown metric '%s'", metric, parent),
		loc,
	).WithSuggestion("Define the parent metric or fix the ':extends' reference")
}

// NewInheritanceCycle creates a CFG201 error. chain lists the metrics in
// visiting order, ending with the repeated one.
func NewInheritanceCycle(loc ast.SourceLocation, chain []string) *CompilerError {
	return newError(
		ErrInheritanceCycle,
		"inheritance_cycle",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("Metric inheritance cycle: %s", strings.Join(chain, " -> ")),
		loc,
	).WithSuggestion("Remove one of the ':extends' references in the cycle")
}

// NewUnknownPrefix creates a CFG202 error
func NewUnknownPrefix(loc ast.SourceLocation, owner, prefix string) *CompilerError {
	return newError(
		ErrUnknownPrefix,
		"unknown_prefix",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("'%s' refers to unknown prefix '%s'", owner, prefix),
		loc,
	).WithSuggestion(fmt.Sprintf("Define a section '%s' with ':is: prefix'", prefix))
}

// NewPrefixCycle creates a CFG203 error
func NewPrefixCycle(loc ast.SourceLocation, chain []string) *CompilerError {
	return newError(
		ErrPrefixCycle,
		"prefix_cycle",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("Prefix cycle: %s", strings.Join(chain, " -> ")),
		loc,
	).WithSuggestion("Remove one of the ':prefix' references in the cycle")
}

// NewMalformedMetric creates a CFG204 error
func NewMalformedMetric(loc ast.SourceLocation, name, reason string) *CompilerError {
	return newError(
		ErrMalformedMetric,
		"malformed_metric",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("Malformed entry '%s': %s", name, reason),
		loc,
	).WithExpected("a table of metric keys")
}

// NewUnsupportedFormat creates a CFG205 error
func NewUnsupportedFormat(file, ext string) *CompilerError {
	return newError(
		ErrUnsupportedFormat,
		"unsupported_format",
		CategoryDefinition,
		SeverityError,
		fmt.Sprintf("Unsupported definition format '%s'", ext),
		ast.SourceLocation{},
	).WithFile(file).
		WithExpected(".yaml, .yml or .toml")
}
