package callspec

import (
	"fmt"
	"strings"

	"github.com/graphite-graph/graphite-graph/internal/compiler/ast"
)

// Coerce renders a raw argument as the given output type. The second return
// value is false when the argument must be left out of the call.
//
//	Verbatim  nil is omitted, anything else is converted to text
//	Quoted    booleans are omitted; one layer of matching enclosing quotes
//	          is stripped and the value is wrapped in single quotes
//	Numeric   non-numeric input is omitted, numeric text is trimmed and
//	          exponent notation becomes %.8f
//	Boolean   True or False by truthiness
//	Flag      True when truthy, omitted otherwise
func Coerce(arg any, t OutputType) (string, bool) {
	switch t {
	case Quoted:
		if _, isBool := arg.(bool); isBool {
			return "", false
		}
		return "'" + unquote(ast.ToString(arg)) + "'", true

	case Numeric:
		if !ast.IsNumeric(arg) {
			return "", false
		}
		s := strings.TrimSpace(ast.ToString(arg))
		if strings.ContainsAny(s, "eE") {
			f, _ := ast.ToFloat(arg)
			s = fmt.Sprintf("%.8f", f)
		}
		return s, true

	case Boolean:
		if ast.Truthy(arg) {
			return "True", true
		}
		return "False", true

	case Flag:
		if ast.Truthy(arg) {
			return "True", true
		}
		return "", false

	default:
		if arg == nil {
			return "", false
		}
		return ast.ToString(arg), true
	}
}

// unquote strips one pair of matching enclosing quotes
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if (first == '\'' || first == '"') && first == last {
		return s[1 : len(s)-1]
	}
	return s
}
