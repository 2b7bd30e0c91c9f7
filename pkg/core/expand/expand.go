// Package expand rewrites the $$ marker in command tokens into the
// interpreter's process ID.
package expand

import (
	"strconv"
	"strings"
)

// Marker is the two-character sequence replaced by the interpreter's PID.
const Marker = "$$"

// PID replaces every occurrence of Marker in tok with the decimal form of
// pid. Occurrences are matched left to right without overlap, so "$$$"
// becomes "<pid>$".
func PID(tok string, pid int) string {
	n := strings.Count(tok, Marker)
	if n == 0 {
		return tok
	}
	id := strconv.Itoa(pid)
	var buf strings.Builder
	buf.Grow(len(tok) + n*(len(id)-len(Marker)))
	for {
		i := strings.Index(tok, Marker)
		if i < 0 {
			break
		}
		buf.WriteString(tok[:i])
		buf.WriteString(id)
		tok = tok[i+len(Marker):]
	}
	buf.WriteString(tok)
	return buf.String()
}

// Tokens expands every token and returns a new slice.
func Tokens(tokens []string, pid int) []string {
	out := make([]string, len(tokens))
	for i, tok := range tokens {
		out[i] = PID(tok, pid)
	}
	return out
}
