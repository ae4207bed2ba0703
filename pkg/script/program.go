// Package script loads sybl script files and splits them into program text.
package script

import (
	"strings"

	"github.com/zurustar/sybl/pkg/opcode"
)

// Line is one trimmed, non-empty, non-comment source line.
type Line struct {
	Number int    // 1-based line number in the source file
	Text   string // trimmed statement text
}

// Program is the flat line sequence the VM executes.
type Program []Line

// Split splits content into a Program.
// Lines are separated by '\n' and trimmed of surrounding whitespace
// (which also removes a trailing '\r'). Empty lines and lines starting with
// the comment marker are dropped, so comments never execute and never take
// part in block scanning.
func Split(content string) Program {
	rawLines := strings.Split(content, "\n")
	program := make(Program, 0, len(rawLines))
	for i, raw := range rawLines {
		text := strings.TrimSpace(raw)
		if text == "" || IsComment(text) {
			continue
		}
		program = append(program, Line{Number: i + 1, Text: text})
	}
	return program
}

// IsComment reports whether a trimmed line is a comment line.
func IsComment(text string) bool {
	return strings.HasPrefix(text, opcode.CommentMarker)
}

// Texts returns the statement text of every line.
func (p Program) Texts() []string {
	texts := make([]string, len(p))
	for i, line := range p {
		texts[i] = line.Text
	}
	return texts
}
