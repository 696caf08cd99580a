// Package loader reads graph definition files and resolves them into metric
// configurations ready for compilation.
//
// A definition is a YAML or TOML document. Top-level scalar keys are graph
// settings; every table is a section. Sections marked ":is: prefix" name a
// series prefix, sections marked ":is: abstract" are templates for
// ":extends", and all other sections are metrics.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
)

// Format identifies the syntax of a definition file
type Format string

const (
	// FormatYAML is a YAML mapping document
	FormatYAML Format = "yaml"
	// FormatTOML is a TOML document
	FormatTOML Format = "toml"
)

// Setting is one top-level graph setting such as a title or size
type Setting struct {
	Name  string
	Value any
	Loc   ast.SourceLocation
}

// Graph is a loaded definition file
type Graph struct {
	File     string
	Settings []Setting
	Metrics  []*ast.Metric
}

// Setting returns the value of a graph setting
func (g *Graph) Setting(name string) (any, bool) {
	for _, s := range g.Settings {
		if s.Name == name {
			return s.Value, true
		}
	}
	return nil, false
}

// Options control how a definition is resolved
type Options struct {
	// Prefix is prepended to every generated series path
	Prefix string
	// Vars supplies values for {{NAME}} placeholders
	Vars map[string]string
	// Logger receives resolution events; nil discards them
	Logger *zap.Logger
}

// FormatFor returns the format implied by a file name's extension
func FormatFor(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", errors.NewUnsupportedFormat(path, ext)
	}
}

// Load reads and resolves the definition file at path
func Load(path string, opts Options) (*Graph, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}

	return Parse(data, format, path, opts)
}

// Parse resolves a definition held in memory. file names the source in
// errors and on the resulting metrics.
func Parse(data []byte, format Format, file string, opts Options) (*Graph, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	text := Expand(string(data), opts.Vars)

	var (
		doc *document
		err error
	)
	switch format {
	case FormatYAML:
		doc, err = decodeYAML(text)
	case FormatTOML:
		doc, err = decodeTOML(text)
	default:
		return nil, errors.NewUnsupportedFormat(file, string(format))
	}
	if err != nil {
		if ce, ok := errors.AsCompilerError(err); ok {
			return nil, ce.WithFile(file)
		}
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	doc.file = file
	doc.lines = strings.Split(text, "\n")

	metrics, err := newResolver(doc, opts).resolve()
	if err != nil {
		return nil, err
	}

	return &Graph{
		File:     file,
		Settings: doc.settings,
		Metrics:  metrics,
	}, nil
}

// document is the format-neutral shape of a decoded definition
type document struct {
	file     string
	lines    []string
	settings []Setting
	sections []*section
}

// section is one table of a definition, keys in document order
type section struct {
	name string
	loc  ast.SourceLocation
	keys *ast.Metric
}

// context returns the source lines around a location for error display
func (d *document) context(loc ast.SourceLocation) (string, []string) {
	if loc.IsZero() || loc.Line > len(d.lines) {
		return "", nil
	}
	at := func(n int) string {
		if n < 1 || n > len(d.lines) {
			return ""
		}
		return d.lines[n-1]
	}
	return at(loc.Line), []string{at(loc.Line - 1), at(loc.Line), at(loc.Line + 1)}
}

// fail decorates a definition error with its file and source context
func (d *document) fail(err *errors.CompilerError) *errors.CompilerError {
	err = err.WithFile(d.file)
	if current, lines := d.context(err.Location); lines != nil {
		err = err.WithContext(current, lines)
	}
	return err
}
