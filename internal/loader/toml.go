package loader

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
	"github.com/graphite-graph/graphite-graph/internal/compiler/errors"
)

// decodeTOML decodes a TOML definition. TOML carries no positions, so
// sections have zero locations; document order comes from the metadata keys.
func decodeTOML(text string) (*document, error) {
	var raw map[string]any
	md, err := toml.Decode(text, &raw)
	if err != nil {
		return nil, err
	}

	doc := &document{}
	sections := make(map[string]*section)

	for _, key := range md.Keys() {
		switch len(key) {
		case 1:
			name := key[0]
			switch v := raw[name].(type) {
			case map[string]any:
				s := &section{name: name, keys: ast.NewMetric(name)}
				sections[name] = s
				doc.sections = append(doc.sections, s)
			case []map[string]any:
				return nil, errors.NewMalformedMetric(ast.SourceLocation{}, name,
					"arrays of tables are not supported")
			default:
				doc.settings = append(doc.settings, Setting{Name: name, Value: v})
			}

		case 2:
			s, ok := sections[key[0]]
			if !ok {
				return nil, errors.NewMalformedMetric(ast.SourceLocation{}, key.String(),
					fmt.Sprintf("key outside of table %q", key[0]))
			}
			table, _ := raw[key[0]].(map[string]any)
			s.keys.Set(key[1], table[key[1]])
		}
		// deeper keys are part of a value already taken at depth two
	}

	return doc, nil
}
