// Package codegen compiles metric configurations into Graphite render target
// expressions. Selected functions are applied innermost-first by ascending
// priority, each wrapping the expression built so far.
package codegen

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/iter"
	"go.uber.org/zap"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/callspec"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
	"github.com/graphite-graph/graphite-graph/internal/compiler/stdlib"
)

// aliasFunction is the canonical name whose arguments alias-supplying
// generators borrow when invoked without their own
const aliasFunction = "alias"

// Generator compiles metrics into target expressions.
//
// A Generator holds no per-compilation state and is safe for concurrent use.
type Generator struct {
	registry    *stdlib.Registry
	logger      *zap.Logger
	parallelism int
}

// call is one selected function key of a metric
type call struct {
	key  string
	spec *callspec.CallSpec
	args []any
}

// NewGenerator creates a generator backed by registry. A nil registry selects
// the default function catalog.
func NewGenerator(registry *stdlib.Registry) *Generator {
	if registry == nil {
		registry = stdlib.Default()
	}
	return &Generator{
		registry: registry,
		logger:   zap.NewNop(),
	}
}

// WithLogger sets the logger used for debug events
func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	g.logger = logger
	return g
}

// WithParallelism bounds the goroutines GenerateAll uses. Zero or less uses
// GOMAXPROCS; one compiles sequentially.
func (g *Generator) WithParallelism(n int) *Generator {
	if n < 0 {
		n = 0
	}
	g.parallelism = n
	return g
}

// Generate compiles one metric into a target expression.
//
// A truthy target is returned untouched. Otherwise the metric needs a truthy
// series unless one of its functions is a generator.
func (g *Generator) Generate(m *ast.Metric) (string, error) {
	if m == nil {
		return "", errors.NewMissingSeries(ast.SourceLocation{}, "")
	}

	if target, ok := m.Get(ast.KeyTarget); ok && ast.Truthy(target) {
		return ast.ToString(target), nil
	}

	calls := g.selectCalls(m)

	expr := ""
	if series, ok := m.Get(ast.KeySeries); ok && ast.Truthy(series) {
		expr = ast.ToString(series)
	} else if !hasGenerator(calls) {
		return "", g.missingSeries(m)
	}

	sort.SliceStable(calls, func(i, j int) bool {
		return callspec.Compare(calls[i].spec, calls[j].spec) < 0
	})

	aliased := false
	for _, c := range calls {
		args := c.args

		if c.spec.IsAlias() {
			if aliased {
				g.logger.Debug("skipping alias function, alias already applied",
					zap.String("metric", m.Name),
					zap.String("function", c.spec.Name()))
				continue
			}
			if c.spec.IsGenerator() && wantsBorrowedArgs(args) {
				if borrowed, ok := aliasArgs(calls); ok {
					args = borrowed
				}
			}
			if len(args) == 0 || !ast.Truthy(args[0]) {
				g.logger.Debug("skipping alias function with falsy argument",
					zap.String("metric", m.Name),
					zap.String("function", c.spec.Name()))
				continue
			}
		}

		if c.spec.IsGenerator() && expr != "" {
			g.logger.Debug("generator replaces expression",
				zap.String("metric", m.Name),
				zap.String("function", c.spec.Name()),
				zap.String("replaced", expr))
		}

		expr = c.spec.Format(expr, args)

		if c.spec.IsAlias() {
			aliased = true
		}
	}

	if expr == "" {
		return "", g.missingSeries(m)
	}
	return expr, nil
}

// GenerateAll compiles independent metrics concurrently. Results keep the
// order of metrics. Failures are joined, each wrapped with its metric name.
func (g *Generator) GenerateAll(ctx context.Context, metrics []*ast.Metric) ([]string, error) {
	mapper := iter.Mapper[*ast.Metric, string]{MaxGoroutines: g.parallelism}

	return mapper.MapErr(metrics, func(m **ast.Metric) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target, err := g.Generate(*m)
		if err != nil {
			return "", fmt.Errorf("metric %s: %w", metricName(*m), err)
		}
		return target, nil
	})
}

// selectCalls resolves metric keys to functions. Keys that name no function
// are ignored; when two keys resolve to the same function the later one wins.
func (g *Generator) selectCalls(m *ast.Metric) []call {
	var calls []call
	index := make(map[string]int)

	for _, key := range m.Keys() {
		if key == ast.KeySeries || key == ast.KeyTarget {
			continue
		}

		canonical, ok := g.registry.Canonicalize(key)
		if !ok {
			g.logger.Debug("ignoring non-function key",
				zap.String("metric", m.Name),
				zap.String("key", key))
			continue
		}
		spec, _ := g.registry.SpecFor(canonical)
		raw, _ := m.Get(key)

		c := call{key: key, spec: spec, args: ast.Args(raw)}
		if i, seen := index[canonical]; seen {
			g.logger.Debug("function given twice, later key wins",
				zap.String("metric", m.Name),
				zap.String("function", canonical),
				zap.String("dropped", calls[i].key),
				zap.String("kept", key))
			calls[i] = c
			continue
		}
		index[canonical] = len(calls)
		calls = append(calls, c)
	}

	return calls
}

func (g *Generator) missingSeries(m *ast.Metric) *errors.CompilerError {
	err := errors.NewMissingSeries(m.Loc, m.Name)
	if m.File != "" {
		err = err.WithFile(m.File)
	}
	return err
}

func hasGenerator(calls []call) bool {
	for _, c := range calls {
		if c.spec.IsGenerator() {
			return true
		}
	}
	return false
}

// wantsBorrowedArgs reports whether a generator was switched on without
// arguments of its own: no value, nil, or a lone true
func wantsBorrowedArgs(args []any) bool {
	switch len(args) {
	case 0:
		return true
	case 1:
		switch v := args[0].(type) {
		case nil:
			return true
		case bool:
			return v
		}
	}
	return false
}

// aliasArgs returns the arguments of a truthy alias key among calls
func aliasArgs(calls []call) ([]any, bool) {
	for _, c := range calls {
		if c.spec.Name() == aliasFunction && len(c.args) > 0 && ast.Truthy(c.args[0]) {
			return c.args, true
		}
	}
	return nil, false
}

func metricName(m *ast.Metric) string {
	if m == nil || m.Name == "" {
		return "<unnamed>"
	}
	return m.Name
}
