package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
)

func decodeYAML(text string) (*document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, err
	}

	doc := &document{}
	if root.Kind == 0 || len(root.Content) == 0 {
		// empty file
		return doc, nil
	}

	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, errors.NewMalformedMetric(nodeLoc(top), "<document>",
			fmt.Sprintf("expected a mapping at the top level, found %s", kindName(top.Kind)))
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, value := top.Content[i], top.Content[i+1]
		loc := nodeLoc(key)

		switch value.Kind {
		case yaml.MappingNode:
			keys := ast.NewMetric(key.Value)
			for j := 0; j+1 < len(value.Content); j += 2 {
				var v any
				if err := value.Content[j+1].Decode(&v); err != nil {
					return nil, err
				}
				keys.Set(value.Content[j].Value, v)
			}
			doc.sections = append(doc.sections, &section{name: key.Value, loc: loc, keys: keys})

		case yaml.ScalarNode, yaml.SequenceNode:
			var v any
			if err := value.Decode(&v); err != nil {
				return nil, err
			}
			doc.settings = append(doc.settings, Setting{Name: key.Value, Value: v, Loc: loc})

		default:
			return nil, errors.NewMalformedMetric(loc, key.Value,
				fmt.Sprintf("unsupported %s value", kindName(value.Kind)))
		}
	}

	return doc, nil
}

func nodeLoc(n *yaml.Node) ast.SourceLocation {
	return ast.SourceLocation{Line: n.Line, Column: n.Column}
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown"
}
