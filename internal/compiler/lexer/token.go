package lexer

import "fmt"

// Token is one argument recovered from a delimited argument string
type Token struct {
	Value  string // Unescaped argument text
	Offset int    // Rune offset where the argument starts
	Quoted bool   // True if any part of the argument came from a quoted span
}

// String returns a debug representation of the token
func (t Token) String() string {
	if t.Quoted {
		return fmt.Sprintf("Token(%q quoted @%d)", t.Value, t.Offset)
	}
	return fmt.Sprintf("Token(%q @%d)", t.Value, t.Offset)
}

const (
	separator = ','
	escape    = '\\'
)

// isEscapable reports whether a backslash before r escapes it
func isEscapable(r rune) bool {
	return r == '"' || r == '\'' || r == separator
}

// isQuote reports whether r opens a quoted span
func isQuote(r rune) bool {
	return r == '"' || r == '\''
}
