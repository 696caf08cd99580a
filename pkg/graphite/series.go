// Package graphite compiles Graphite render targets from metric configuration.
//
// Compile turns a configuration map into a target expression:
//
//	target, err := graphite.Compile(map[string]any{
//		"series":      "servers.*.load",
//		"aliasByNode": 1,
//		"cactiStyle":  true,
//	})
//	// cactiStyle(aliasByNode(servers.*.load,1))
//
// Series builds the same configuration fluently:
//
//	target, err := graphite.NewSeries("servers.*.load").AliasByNode(1).CactiStyle().Build()
package graphite

import (
	"fmt"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/codegen"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
	"github.com/graphite-graph/graphite-graph/internal/compiler/stdlib"
)

// Series accumulates function calls against a base series
type Series struct {
	metric *ast.Metric
	errs   errors.ErrorList
}

// NewSeries starts a builder for series. An empty series is allowed when the
// target is produced by a generator such as RandomWalk or Threshold.
func NewSeries(series string) *Series {
	m := ast.NewMetric(series)
	if series != "" {
		m.Set(ast.KeySeries, series)
	}
	return &Series{metric: m}
}

// Call records a function by any spelling of its name. Calling the same
// function twice keeps the last arguments. Unknown names and surplus
// arguments are reported by Build.
func (s *Series) Call(name string, args ...any) *Series {
	reg := stdlib.Default()

	canonical, ok := reg.Canonicalize(name)
	if !ok {
		s.errs = append(s.errs, errors.NewUnknownFunction(ast.SourceLocation{}, name, reg.Suggest(name)...))
		return s
	}

	spec, _ := reg.SpecFor(canonical)
	if limit := spec.MaxArgs(); len(args) > 1 && len(args) > limit {
		s.errs = append(s.errs, errors.NewTooManyArguments(ast.SourceLocation{}, canonical, limit, len(args)))
		return s
	}

	if args == nil {
		args = []any{}
	}
	s.metric.Set(canonical, args)
	return s
}

// Alias sets the legend text
func (s *Series) Alias(name string) *Series {
	return s.Call("alias", name)
}

// AliasByNode uses the given path nodes as the legend text
func (s *Series) AliasByNode(nodes ...int) *Series {
	return s.Call("aliasByNode", ints(nodes)...)
}

// AliasSub rewrites the legend text with a regular expression
func (s *Series) AliasSub(search, replace string) *Series {
	return s.Call("aliasSub", search, replace)
}

// Sum adds the series together with any further series
func (s *Series) Sum(more ...string) *Series {
	return s.Call("sumSeries", anys(more)...)
}

// Average averages the series together with any further series
func (s *Series) Average() *Series {
	return s.Call("averageSeries")
}

// Scale multiplies every datapoint by factor
func (s *Series) Scale(factor float64) *Series {
	return s.Call("scale", factor)
}

// Color sets the line color
func (s *Series) Color(color string) *Series {
	return s.Call("color", color)
}

// LineWidth sets the line width
func (s *Series) LineWidth(width float64) *Series {
	return s.Call("lineWidth", width)
}

// Dashed draws the line dashed, with an optional segment length
func (s *Series) Dashed(segment ...float64) *Series {
	if len(segment) == 0 {
		return s.Call("dashed")
	}
	return s.Call("dashed", segment[0])
}

// CactiStyle adds cacti-style min/max/current values to the legend
func (s *Series) CactiStyle() *Series {
	return s.Call("cactiStyle")
}

// DrawAsInfinite draws non-zero datapoints as vertical lines
func (s *Series) DrawAsInfinite() *Series {
	return s.Call("drawAsInfinite")
}

// SecondYAxis plots the series against the right-hand axis
func (s *Series) SecondYAxis() *Series {
	return s.Call("secondYAxis")
}

// TimeShift draws the series shifted back by interval, e.g. "1d"
func (s *Series) TimeShift(interval string) *Series {
	return s.Call("timeShift", interval)
}

// Summarize buckets datapoints by interval. fn may be empty for the default
// aggregation.
func (s *Series) Summarize(interval, fn string) *Series {
	return s.Call("summarize", interval, fn)
}

// RandomWalk replaces the series with random data. Without a name the
// series' alias is used.
func (s *Series) RandomWalk(name ...string) *Series {
	return s.Call("randomWalkFunction", anys(name)...)
}

// Threshold replaces the series with a horizontal line at value. label and
// color may be empty.
func (s *Series) Threshold(value float64, label, color string) *Series {
	return s.Call("threshold", value, label, color)
}

// Metric returns the accumulated configuration, keyed by canonical function
// name, in the shape Compile accepts
func (s *Series) Metric() map[string]any {
	return s.metric.ToMap()
}

// Build compiles the accumulated calls into a target expression
func (s *Series) Build() (string, error) {
	if len(s.errs) > 0 {
		return "", s.errs
	}
	return codegen.NewGenerator(nil).Generate(s.metric)
}

// String returns the compiled target, or a description of the build error
func (s *Series) String() string {
	target, err := s.Build()
	if err != nil {
		return fmt.Sprintf("%%!graphite(%v)", err)
	}
	return target
}

// Compile compiles one metric configuration into a target expression
func Compile(conf map[string]any) (string, error) {
	return codegen.NewGenerator(nil).Generate(ast.FromMap(conf))
}

// CanonicalName resolves any spelling or alias of a Graphite function, e.g.
// "sum_series" or "sum", to its canonical name
func CanonicalName(name string) (string, bool) {
	return stdlib.Default().Canonicalize(name)
}

// IsConfigurationError reports whether err was caused by a metric with
// neither a series nor a target
func IsConfigurationError(err error) bool {
	return errors.IsConfigurationError(err)
}

func ints(in []int) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func anys(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}
