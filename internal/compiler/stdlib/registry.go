// Package stdlib provides the registry of Graphite functions known to the
// target compiler. The registry resolves user-supplied spellings and aliases
// to canonical names and hands out each function's call spec.
package stdlib

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/graphite-graph/graphite-graph/internal/compiler/callspec"
)

// Registry holds call specs keyed by canonical name.
//
// The normalized lookup table is built on first use and is read-only
// afterwards, so a Registry is safe for concurrent use.
type Registry struct {
	specs   map[string]*callspec.CallSpec // lowercase canonical name -> spec
	aliases map[string]string             // lowercase alias -> canonical name

	once   sync.Once
	lookup map[string]string // normalized spelling -> canonical name
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry built from the static catalog
func Default() *Registry {
	defaultOnce.Do(func() {
		defs := make([]FunctionDef, 0, len(Functions)+len(Generators))
		defs = append(defs, Functions...)
		defs = append(defs, Generators...)
		defaultRegistry = MustNewRegistry(defs, Aliases)
	})
	return defaultRegistry
}

// NewRegistry builds a registry from catalog rows and aliases
func NewRegistry(defs []FunctionDef, aliases map[string]string) (*Registry, error) {
	r := &Registry{
		specs:   make(map[string]*callspec.CallSpec, len(defs)),
		aliases: make(map[string]string, len(aliases)),
	}

	for _, def := range defs {
		key := strings.ToLower(def.Name)
		if _, dup := r.specs[key]; dup {
			return nil, fmt.Errorf("duplicate function %q", def.Name)
		}
		for _, tag := range def.Tags {
			if _, err := callspec.ParseArgSpec(tag); err != nil {
				return nil, fmt.Errorf("function %q: %w", def.Name, err)
			}
		}
		r.specs[key] = def.Spec()
	}

	for alias, target := range aliases {
		spec, ok := r.specs[strings.ToLower(target)]
		if !ok {
			return nil, fmt.Errorf("alias %q refers to unknown function %q", alias, target)
		}
		r.aliases[strings.ToLower(alias)] = spec.Name()
	}

	return r, nil
}

// MustNewRegistry is NewRegistry for static catalogs; it panics on error
func MustNewRegistry(defs []FunctionDef, aliases map[string]string) *Registry {
	r, err := NewRegistry(defs, aliases)
	if err != nil {
		panic(err)
	}
	return r
}

// Normalize lowercases a name and strips the "_", "." and "-" delimiters, so
// sum_series, SumSeries and sum-series all normalize alike
func Normalize(name string) string {
	name = strings.ToLower(name)
	return strings.Map(func(r rune) rune {
		switch r {
		case '_', '.', '-':
			return -1
		}
		return r
	}, name)
}

func (r *Registry) buildLookup() {
	r.once.Do(func() {
		lookup := make(map[string]string, len(r.specs)+len(r.aliases))
		for _, spec := range r.specs {
			lookup[Normalize(spec.Name())] = spec.Name()
		}
		for alias, canonical := range r.aliases {
			lookup[Normalize(alias)] = canonical
		}
		r.lookup = lookup
	})
}

// Canonicalize resolves any spelling or alias of a function to its canonical
// name. The boolean is false for names that are not functions.
func (r *Registry) Canonicalize(name string) (string, bool) {
	r.buildLookup()
	canonical, ok := r.lookup[Normalize(name)]
	return canonical, ok
}

// SpecFor returns the call spec for a canonical name
func (r *Registry) SpecFor(canonical string) (*callspec.CallSpec, bool) {
	spec, ok := r.specs[strings.ToLower(canonical)]
	return spec, ok
}

// PriorityOf returns the nesting priority of a canonical name. Unknown names
// sort last.
func (r *Registry) PriorityOf(canonical string) int {
	spec, ok := r.SpecFor(canonical)
	if !ok {
		return math.MaxInt
	}
	return spec.Priority()
}

// Names returns all canonical function names, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for _, spec := range r.specs {
		names = append(names, spec.Name())
	}
	sort.Strings(names)
	return names
}

// Aliases returns a copy of the alias table
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Len returns the number of registered functions
func (r *Registry) Len() int {
	return len(r.specs)
}

// Suggest returns up to three canonical names resembling name
func (r *Registry) Suggest(name string) []string {
	const maxSuggestions = 3

	candidates := r.Names()
	for alias := range r.aliases {
		candidates = append(candidates, alias)
	}
	sort.Strings(candidates)

	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Stable(ranks)

	seen := make(map[string]bool)
	var out []string
	add := func(candidate string) {
		canonical, ok := r.Canonicalize(candidate)
		if !ok || seen[canonical] || len(out) >= maxSuggestions {
			return
		}
		seen[canonical] = true
		out = append(out, canonical)
	}

	for _, rank := range ranks {
		add(rank.Target)
	}
	if len(out) > 0 {
		return out
	}

	// nothing contains the input as a subsequence; fall back to edit distance
	type scored struct {
		name string
		dist int
	}
	var near []scored
	lower := strings.ToLower(name)
	for _, c := range candidates {
		if d := fuzzy.LevenshteinDistance(lower, strings.ToLower(c)); d <= 3 {
			near = append(near, scored{c, d})
		}
	}
	sort.SliceStable(near, func(i, j int) bool {
		if near[i].dist != near[j].dist {
			return near[i].dist < near[j].dist
		}
		return near[i].name < near[j].name
	})
	for _, c := range near {
		add(c.name)
	}
	return out
}
