package errors

import (
	"fmt"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
)

// Metric configuration error codes (CFG100-199)
const (
	// ErrMissingSeries indicates a metric with neither a target nor a series
	ErrMissingSeries ErrorCode = "CFG100"
)

// NewMissingSeries creates a CFG100 error for the named metric
func NewMissingSeries(loc ast.SourceLocation, metric string) *CompilerError {
	msg := "Metric has no series or target"
	if metric != "" {
		msg = fmt.Sprintf("Metric '%s' has no series or target", metric)
	}
	return newError(
		ErrMissingSeries,
		"missing_series",
		CategoryConfiguration,
		SeverityError,
		msg,
		loc,
	).WithExpected("a truthy 'series' or 'target' key, or a generator function").
		WithSuggestion("Add a series path such as 'servers.web1.load' or a raw target").
		WithExamples(
			"series: servers.*.load",
			"target: sumSeries(servers.*.load)",
			"random_walk: true",
		)
}

// IsConfigurationError reports whether err is, or wraps, a metric
// configuration error
func IsConfigurationError(err error) bool {
	ce, ok := AsCompilerError(err)
	return ok && ce.Category == CategoryConfiguration
}
