// Package lexer splits delimited argument strings into discrete arguments.
//
// Flat configuration sources (ini and toml style files) can only express a
// function's arguments as one scalar string such as "'^.*TCP(\d+)', '\1'".
// The lexer recovers the individual arguments from that string, honoring
// single and double quotes and backslash escapes.
package lexer

import "strings"

// Lexer tokenizes one argument string.
//
// Thread Safety: Lexer instances are NOT thread-safe. Each goroutine must
// create its own Lexer via New.
type Lexer struct {
	source  []rune // Input being scanned
	current int    // Current position in source
	start   int    // Start position of the argument being built
	token   strings.Builder
	quoted  bool
	tokens  []Token
}

// New creates a new Lexer for the given argument string
func New(source string) *Lexer {
	return &Lexer{
		source: []rune(source),
		tokens: make([]Token, 0, 4),
	}
}

// ScanTokens splits the whole source. The final argument is always emitted,
// so an empty source yields a single empty token.
func (l *Lexer) ScanTokens() []Token {
	for !l.isAtEnd() {
		l.scanToken()
	}
	l.emit()
	return l.tokens
}

// scanToken consumes the next rune and dispatches on it
func (l *Lexer) scanToken() {
	c := l.advance()

	switch {
	case c == escape:
		l.scanEscape(c)
	case isQuote(c):
		l.scanQuoted(c)
	case c == separator:
		l.emit()
		l.start = l.current
	default:
		l.token.WriteRune(c)
	}
}

// scanEscape drops the marker when it escapes a quote or separator and keeps
// it verbatim otherwise
func (l *Lexer) scanEscape(c rune) {
	if !l.isAtEnd() && isEscapable(l.peek()) {
		l.token.WriteRune(l.advance())
		return
	}
	l.token.WriteRune(c)
}

// scanQuoted copies a quoted span literally. A quote with no unescaped
// partner is an ordinary character.
func (l *Lexer) scanQuoted(quote rune) {
	end := l.findClosing(quote, l.current)
	if end < 0 {
		l.token.WriteRune(quote)
		return
	}

	chunk := string(l.source[l.current:end])
	l.token.WriteString(strings.ReplaceAll(chunk, string(escape)+string(quote), string(quote)))
	l.quoted = true
	l.current = end + 1
}

// findClosing returns the index of the next quote at or after from that is
// not directly preceded by an escape marker, or -1
func (l *Lexer) findClosing(quote rune, from int) int {
	for i := from; i < len(l.source); i++ {
		if l.source[i] != quote {
			continue
		}
		if i > 0 && l.source[i-1] == escape {
			continue
		}
		return i
	}
	return -1
}

func (l *Lexer) emit() {
	l.tokens = append(l.tokens, Token{
		Value:  l.token.String(),
		Offset: l.start,
		Quoted: l.quoted,
	})
	l.token.Reset()
	l.quoted = false
}

func (l *Lexer) isAtEnd() bool {
	return l.current >= len(l.source)
}

func (l *Lexer) advance() rune {
	c := l.source[l.current]
	l.current++
	return c
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	return l.source[l.current]
}

// SplitArgs splits s on unquoted, unescaped commas
func SplitArgs(s string) []string {
	tokens := New(s).ScanTokens()
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Value
	}
	return out
}

// HasSeparator reports whether s splits into more than one argument
func HasSeparator(s string) bool {
	if !strings.ContainsRune(s, separator) {
		return false
	}
	return len(New(s).ScanTokens()) > 1
}
