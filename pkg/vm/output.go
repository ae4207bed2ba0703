package vm

import (
	"strings"

	"github.com/zurustar/sybl/pkg/opcode"
)

// Interpolate expands every $%name% marker in text with the rendered value
// of the variable. Unknown variables expand to nothing; a marker without a
// closing % is copied verbatim. When the expanded text is wrapped in one
// matching pair of double or single quotes, that pair is removed.
func Interpolate(s *Store, text string) string {
	var b strings.Builder
	b.Grow(len(text))

	rest := text
	for {
		start := strings.Index(rest, opcode.InterpolationOpen)
		if start < 0 {
			b.WriteString(rest)
			break
		}
		nameStart := start + len(opcode.InterpolationOpen)
		end := strings.Index(rest[nameStart:], opcode.InterpolationClose)
		if end < 0 {
			// Copy the '$' and keep scanning after it.
			b.WriteString(rest[:start+1])
			rest = rest[start+1:]
			continue
		}
		b.WriteString(rest[:start])
		name := rest[nameStart : nameStart+end]
		if v, ok := s.Get(name); ok {
			b.WriteString(Render(v))
		}
		rest = rest[nameStart+end+len(opcode.InterpolationClose):]
	}

	return stripQuotes(b.String())
}

// stripQuotes removes a single wrapping pair of matching quotes.
// Texts shorter than two characters are returned unchanged.
func stripQuotes(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first == last && (first == '"' || first == '\'') {
		return s[1 : len(s)-1]
	}
	return s
}
