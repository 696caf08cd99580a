package loader

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
)

// Reserved section keys
const (
	keyIs       = ":is"
	keyIsPrefix = ":is_prefix"
	keyExtends  = ":extends"
	keyPrefix   = ":prefix"
	keyGroup    = ":series"
	keyMetric   = "metric"
	keyAlias    = "alias"

	// prefix sections keep their path under this key
	keyPrefixPath = "prefix"
)

// Section kinds named by ":is"
const (
	kindPrefix   = "prefix"
	kindAbstract = "abstract"
)

type resolver struct {
	doc    *document
	root   string
	logger *zap.Logger

	metrics   []*section
	byName    map[string]*section
	abstracts map[string]*section
	prefixes  map[string]*section
}

func newResolver(doc *document, opts Options) *resolver {
	return &resolver{
		doc:       doc,
		root:      normalizePrefix(opts.Prefix),
		logger:    opts.Logger,
		byName:    make(map[string]*section),
		abstracts: make(map[string]*section),
		prefixes:  make(map[string]*section),
	}
}

func (r *resolver) resolve() ([]*ast.Metric, error) {
	if err := r.classify(); err != nil {
		return nil, err
	}

	metrics := make([]*ast.Metric, 0, len(r.metrics))
	for _, s := range r.metrics {
		m, err := r.resolveMetric(s)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

// classify sorts sections into prefixes, abstracts and metrics
func (r *resolver) classify() error {
	for _, s := range r.doc.sections {
		keys := s.keys.Clone()

		kind := ""
		if v, ok := keys.Get(keyIs); ok {
			kind = strings.ToLower(ast.ToString(v))
			keys.Delete(keyIs)
		} else if keys.Has(keyIsPrefix) {
			r.logger.Warn("deprecated :is_prefix marker, use \":is: prefix\"",
				zap.String("section", s.name))
			kind = kindPrefix
			keys.Delete(keyIsPrefix)
		}

		stored := &section{name: s.name, loc: s.loc, keys: keys}
		switch kind {
		case kindPrefix:
			r.prefixes[s.name] = stored
		case kindAbstract:
			r.abstracts[s.name] = stored
		case "":
			r.metrics = append(r.metrics, stored)
			r.byName[s.name] = stored
		default:
			return r.doc.fail(errors.NewMalformedMetric(s.loc, s.name,
				fmt.Sprintf("unknown section kind %q", kind)))
		}
	}
	return nil
}

// resolveMetric applies inheritance, prefixes and defaults to one metric
func (r *resolver) resolveMetric(s *section) (*ast.Metric, error) {
	conf, err := r.extend(s)
	if err != nil {
		return nil, err
	}

	if group, ok := conf.Get(keyGroup); ok {
		r.logger.Debug("dropping series grouping",
			zap.String("metric", s.name),
			zap.Any("group", group))
		conf.Delete(keyGroup)
	}

	prefix := r.root
	if name, ok := conf.Get(keyPrefix); ok {
		p, err := r.lookupPrefix(s, ast.ToString(name))
		if err != nil {
			return nil, err
		}
		prefix = r.joinPrefix(p)
		conf.Delete(keyPrefix)
	}

	seriesName := ast.ToString(conf.Pop(keyMetric, s.name))

	defaults := ast.NewMetric(s.name).
		Set(keyAlias, defaultAlias(seriesName)).
		Set(ast.KeySeries, prefix+seriesName)

	m := defaults.Merge(conf)
	m.Name = s.name
	m.File = r.doc.file
	m.Loc = s.loc
	return m, nil
}

// extend merges s over its :extends ancestry, root ancestor first
func (r *resolver) extend(s *section) (*ast.Metric, error) {
	chain := []*section{s}
	visited := map[string]bool{s.name: true}
	path := []string{s.name}

	for cur := s; ; {
		v, ok := cur.keys.Get(keyExtends)
		if !ok || !ast.Truthy(v) {
			break
		}
		parent := ast.ToString(v)
		path = append(path, parent)

		if visited[parent] {
			return nil, r.doc.fail(errors.NewInheritanceCycle(s.loc, path))
		}
		visited[parent] = true

		next, ok := r.findParent(parent)
		if !ok {
			return nil, r.doc.fail(errors.NewUnknownParent(cur.loc, cur.name, parent))
		}
		chain = append(chain, next)
		cur = next
	}

	conf := ast.NewMetric(s.name)
	for i := len(chain) - 1; i >= 0; i-- {
		conf = conf.Merge(chain[i].keys)
	}
	conf.Delete(keyExtends)
	return conf, nil
}

func (r *resolver) findParent(name string) (*section, bool) {
	if s, ok := r.byName[name]; ok {
		return s, true
	}
	s, ok := r.abstracts[name]
	return s, ok
}

// lookupPrefix resolves a named prefix through its :prefix parents, joining
// the parts with "."
func (r *resolver) lookupPrefix(owner *section, name string) (string, error) {
	var parts []string
	visited := make(map[string]bool)
	path := []string{name}
	user := owner

	for name != "" {
		if visited[name] {
			return "", r.doc.fail(errors.NewPrefixCycle(owner.loc, path))
		}
		visited[name] = true

		p, ok := r.prefixes[name]
		if !ok {
			return "", r.doc.fail(errors.NewUnknownPrefix(user.loc, user.name, name))
		}
		v, _ := p.keys.Get(keyPrefixPath)
		parts = append(parts, ast.ToString(v))

		parent, _ := p.keys.Get(keyPrefix)
		name = ast.ToString(parent)
		if name != "" {
			path = append(path, name)
		}
		user = p
	}

	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "."), nil
}

// joinPrefix applies a section prefix to the root prefix. A leading "^"
// roots the prefix instead.
func (r *resolver) joinPrefix(p string) string {
	p = normalizePrefix(p)
	if strings.HasPrefix(p, "^") {
		return p[1:]
	}
	return r.root + p
}

// normalizePrefix ensures a non-empty prefix ends with "."
func normalizePrefix(p string) string {
	if p == "" || strings.HasSuffix(p, ".") {
		return p
	}
	return p + "."
}

// defaultAlias turns a series name into legend text: "cpu_load" -> "Cpu Load"
func defaultAlias(name string) string {
	spaced := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.':
			return ' '
		}
		return r
	}, name)
	return cases.Title(language.Und, cases.NoLower).String(spaced)
}
