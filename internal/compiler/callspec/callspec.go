// Package callspec describes how a single Graphite function is invoked: its
// argument signature, its nesting priority, whether it supplies the legend
// alias, and whether it wraps an existing series or generates a new one.
// Format renders one invocation from raw configuration arguments.
package callspec

import (
	"math"
	"sort"
	"strings"

	"github.com/graphite-graph/graphite-graph/internal/compiler/lexer"
)

// DefaultPriority is the nesting priority of ordinary manipulation functions
const DefaultPriority = 50

// CallSpec is the immutable call description for one function
type CallSpec struct {
	name       string
	signature  []ArgSpec // nil: no arguments beyond the series
	priority   int       // lower values nest innermost
	isAlias    bool
	usesSeries bool
}

// New creates a call spec for a function that wraps a series
func New(name string, signature []ArgSpec, priority int, isAlias bool) *CallSpec {
	return &CallSpec{
		name:       name,
		signature:  cloneSignature(signature),
		priority:   priority,
		isAlias:    isAlias,
		usesSeries: true,
	}
}

// NewGenerator creates a call spec for a function that manufactures its own
// series. The accumulated expression is never passed to a generator.
func NewGenerator(name string, signature []ArgSpec, priority int, isAlias bool) *CallSpec {
	spec := New(name, signature, priority, isAlias)
	spec.usesSeries = false
	return spec
}

// Name returns the canonical function name
func (c *CallSpec) Name() string { return c.name }

// Priority returns the nesting priority
func (c *CallSpec) Priority() int { return c.priority }

// IsAlias reports whether the function supplies the series' legend alias
func (c *CallSpec) IsAlias() bool { return c.isAlias }

// UsesSeries reports whether the function wraps the accumulated series
func (c *CallSpec) UsesSeries() bool { return c.usesSeries }

// IsGenerator is the inverse of UsesSeries
func (c *CallSpec) IsGenerator() bool { return !c.usesSeries }

// Signature returns a copy of the argument signature
func (c *CallSpec) Signature() []ArgSpec { return cloneSignature(c.signature) }

// TakesArgs reports whether the function accepts arguments other than a series
func (c *CallSpec) TakesArgs() bool {
	return c.signature != nil
}

// RequiredArgs counts the parameters that are not optional
func (c *CallSpec) RequiredArgs() int {
	req := 0
	for _, arg := range c.signature {
		if arg.Modifier != Optional {
			req++
		}
	}
	return req
}

// MaxArgs counts the parameters the function can accept. A variadic parameter
// makes the count unbounded (math.MaxInt).
func (c *CallSpec) MaxArgs() int {
	n := 0
	for _, arg := range c.signature {
		if arg.Modifier == Variadic {
			return math.MaxInt
		}
		n++
	}
	return n
}

// Tags returns the compact signature tags, e.g. ["#", "\"?"]
func (c *CallSpec) Tags() []string {
	tags := make([]string, len(c.signature))
	for i, arg := range c.signature {
		tags[i] = arg.Tag()
	}
	return tags
}

// Format renders a call of this function.
//
// series is the expression being wrapped and is ignored for generators.
// A lone string argument containing unquoted commas is split into several
// arguments when the function accepts more than one.
func (c *CallSpec) Format(series string, args []any) string {
	var callArgs []string
	if c.usesSeries {
		callArgs = append(callArgs, series)
	}

	args = c.expandArgString(args)

	shift := func() any {
		if len(args) == 0 {
			return nil
		}
		arg := args[0]
		args = args[1:]
		return arg
	}

	for _, spec := range c.signature {
		switch spec.Modifier {
		case Hoisted:
			if s, ok := Coerce(shift(), spec.Type); ok {
				callArgs = append([]string{s}, callArgs...)
			}

		case Optional:
			arg := shift()
			if isOmitted(arg) {
				continue
			}
			if s, ok := Coerce(arg, spec.Type); ok {
				callArgs = append(callArgs, s)
			}

		case Variadic:
			if len(args) == 1 && isEmptyVarargs(args[0]) {
				// flag-only source asking for the call with no extra arguments
				continue
			}
			for _, arg := range args {
				if s, ok := Coerce(arg, spec.Type); ok {
					callArgs = append(callArgs, s)
				}
			}
			args = nil

		default:
			if s, ok := Coerce(shift(), spec.Type); ok {
				callArgs = append(callArgs, s)
			}
		}
	}

	return c.name + "(" + strings.Join(callArgs, ",") + ")"
}

// expandArgString splits a single comma-delimited string argument
func (c *CallSpec) expandArgString(args []any) []any {
	if c.MaxArgs() <= 1 || len(args) != 1 {
		return args
	}
	s, ok := args[0].(string)
	if !ok || !lexer.HasSeparator(s) {
		return args
	}

	parts := lexer.SplitArgs(s)
	out := make([]any, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

// isOmitted reports whether an optional argument should be left out
func isOmitted(arg any) bool {
	switch v := arg.(type) {
	case nil, bool:
		return true
	case string:
		return v == ""
	}
	return false
}

func isEmptyVarargs(arg any) bool {
	switch v := arg.(type) {
	case string:
		return v == "1"
	case bool:
		return v
	}
	return false
}

// ByPriority sorts call specs by ascending priority. Equal priorities are
// ordered by case-insensitive name, then by exact name.
type ByPriority []*CallSpec

func (p ByPriority) Len() int      { return len(p) }
func (p ByPriority) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p ByPriority) Less(i, j int) bool {
	return Compare(p[i], p[j]) < 0
}

// Compare orders two call specs for nesting
func Compare(a, b *CallSpec) int {
	if a.priority != b.priority {
		if a.priority < b.priority {
			return -1
		}
		return 1
	}
	if c := strings.Compare(strings.ToLower(a.name), strings.ToLower(b.name)); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

// SortByPriority sorts specs in place into nesting order
func SortByPriority(specs []*CallSpec) {
	sort.Stable(ByPriority(specs))
}

func cloneSignature(sig []ArgSpec) []ArgSpec {
	if sig == nil {
		return nil
	}
	out := make([]ArgSpec, len(sig))
	copy(out, sig)
	return out
}
