package vm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zurustar/sybl/pkg/opcode"
)

// Statement is one classified script line.
// Which fields are meaningful depends on Cmd:
//
//	Print           Text (marker and inline comment removed)
//	LoopOpen        Target (loop variable), Bound
//	Arithmetic      Target, Left, Op, Right
//	ConditionalOpen Text (condition between the brackets)
//	AssignInt/Float/String/Bool  Target, Value
type Statement struct {
	Cmd    opcode.Cmd
	Target string
	Text   string
	Left   string
	Right  string
	Op     byte
	Bound  int64
	Value  Value
}

// A variable name is a whitespace-free token that must be separated from the
// sigil by whitespace; the value may follow the sigil directly.
var (
	loopHeaderPattern   = regexp.MustCompile(`^` + meta(opcode.LoopOpenMarker) + `\s*(\S+)\s+<\s*([+-]?\d+)\s*` + meta(opcode.LoopHeaderClose))
	arithmeticPattern   = regexp.MustCompile(`^(\S+)\s+` + meta(opcode.IntSigil) + `\s*(\S+)\s+(\S)\s*(\S+)`)
	intAssignPattern    = regexp.MustCompile(`^(\S+)\s+` + meta(opcode.IntSigil) + `\s*(\S+)`)
	floatAssignPattern  = regexp.MustCompile(`^(\S+)\s+` + meta(opcode.FloatSigil) + `\s*(\S+)`)
	stringAssignPattern = regexp.MustCompile(`^(\S+)\s+` + meta(opcode.StringSigil) + `\s*"([^"]*)"?`)
	boolAssignPattern   = regexp.MustCompile(`^(\S+)\s+` + meta(opcode.BoolSigil) + `\s*(\S+)`)
)

// meta quotes a surface marker for use inside a pattern.
var meta = regexp.QuoteMeta

// Parse classifies a trimmed, non-comment line into exactly one statement
// form. Forms are tried in a fixed priority order and the first match wins;
// the order matters because an arithmetic line also looks like an integer
// assignment.
func Parse(line string) Statement {
	if st, ok := parsePrint(line); ok {
		return st
	}
	if st, ok := parseLoopOpen(line); ok {
		return st
	}
	if st, ok := parseArithmetic(line); ok {
		return st
	}
	if st, ok := parseConditionalOpen(line); ok {
		return st
	}
	if st, ok := parseTypedAssign(line); ok {
		return st
	}
	return Statement{Cmd: opcode.Unrecognized, Text: line}
}

func parsePrint(line string) (Statement, bool) {
	if !strings.HasPrefix(line, opcode.PrintMarker) {
		return Statement{}, false
	}
	text := strings.TrimSpace(line[len(opcode.PrintMarker):])
	if i := strings.Index(text, opcode.CommentMarker); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	return Statement{Cmd: opcode.Print, Text: text}, true
}

func parseLoopOpen(line string) (Statement, bool) {
	m := loopHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return Statement{}, false
	}
	bound, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Statement{}, false
	}
	return Statement{Cmd: opcode.LoopOpen, Target: m[1], Bound: bound}, true
}

func parseArithmetic(line string) (Statement, bool) {
	m := arithmeticPattern.FindStringSubmatch(line)
	if m == nil || !IsArithmeticOperator(m[3][0]) {
		return Statement{}, false
	}
	return Statement{
		Cmd:    opcode.Arithmetic,
		Target: m[1],
		Left:   m[2],
		Op:     m[3][0],
		Right:  m[4],
	}, true
}

func parseConditionalOpen(line string) (Statement, bool) {
	if !strings.HasPrefix(line, opcode.CondOpenMarker) || !strings.Contains(line, opcode.CondHeaderClose) {
		return Statement{}, false
	}
	cond := line[len(opcode.CondOpenMarker):]
	if i := strings.IndexByte(cond, ')'); i >= 0 {
		cond = cond[:i]
	}
	return Statement{Cmd: opcode.ConditionalOpen, Text: cond}, true
}

// parseTypedAssign tries integer, float, string and boolean assignment in
// that order.
func parseTypedAssign(line string) (Statement, bool) {
	if m := intAssignPattern.FindStringSubmatch(line); m != nil {
		return Statement{Cmd: opcode.AssignInt, Target: m[1], Value: Int(parseIntPrefix(m[2]))}, true
	}
	if m := floatAssignPattern.FindStringSubmatch(line); m != nil {
		return Statement{Cmd: opcode.AssignFloat, Target: m[1], Value: Float(parseFloatPrefix(m[2]))}, true
	}
	if m := stringAssignPattern.FindStringSubmatch(line); m != nil {
		return Statement{Cmd: opcode.AssignString, Target: m[1], Value: String(m[2])}, true
	}
	if m := boolAssignPattern.FindStringSubmatch(line); m != nil {
		return Statement{Cmd: opcode.AssignBool, Target: m[1], Value: Bool(m[2][0] == opcode.TrueLiteral)}, true
	}
	return Statement{}, false
}

// IsLoopClose reports whether a line is the loop close sentinel.
func IsLoopClose(line string) bool {
	return line == opcode.LoopClose
}

// IsConditionalClose reports whether a line is the conditional close sentinel.
func IsConditionalClose(line string) bool {
	return line == opcode.CondClose
}

// opensConditional reports whether a line counts as a nested conditional
// header while skipping: it contains both bracket markers anywhere.
func opensConditional(line string) bool {
	return strings.Contains(line, opcode.CondOpenMarker) && strings.Contains(line, opcode.CondHeaderClose)
}
