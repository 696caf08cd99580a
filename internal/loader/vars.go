package loader

import (
	"regexp"
	"strings"
)

// placeholder matches escaped markers first so that \{{ is never the start
// of a substitution
var placeholder = regexp.MustCompile(`(?s)\\\{\{|\\\}\}|\{\{([^{].*?)\}\}`)

// Expand substitutes {{NAME}} placeholders in text with vars[NAME]. An
// unknown NAME is replaced by the bare name. \{{ and \}} produce literal
// markers.
func Expand(text string, vars map[string]string) string {
	if !strings.Contains(text, "{{") && !strings.Contains(text, "}}") {
		return text
	}

	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		if match == `\{{` || match == `\}}` {
			return match[1:]
		}
		label := match[2 : len(match)-2]
		if v, ok := vars[label]; ok {
			return v
		}
		return label
	})
}
