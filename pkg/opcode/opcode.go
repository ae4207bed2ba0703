// Package opcode defines the statement forms and surface markers of the sybl
// script notation. Both the script loader and the VM depend on it: the loader
// uses the comment marker when splitting program text, and the VM classifies
// each line into one of the Cmd forms below.
package opcode

// Cmd identifies the statement form a script line was classified as.
type Cmd string

// Statement forms, listed in dispatch priority order.
// A line is classified as the first form it matches; lines matching none of
// them are Unrecognized and have no effect.
const (
	// Print writes interpolated text followed by a newline.
	// Syntax: >_ text
	Print Cmd = "Print"

	// LoopOpen starts a bounded counting loop.
	// Syntax: @(name < N)@ ... @end@
	// The name is any whitespace-free token, a numeric literal included, and
	// must be followed by whitespace before "<": @(i<3)@ is not a loop.
	LoopOpen Cmd = "LoopOpen"

	// Arithmetic assigns the result of a binary operation.
	// Syntax: name =$= A op B, op is one of + - * /
	Arithmetic Cmd = "Arithmetic"

	// ConditionalOpen starts a conditional block.
	// Syntax: ?(condition)? ... ?end?
	ConditionalOpen Cmd = "ConditionalOpen"

	// AssignInt sets an Integer variable.
	// Syntax: name =$= 42
	AssignInt Cmd = "AssignInt"

	// AssignFloat sets a Float variable.
	// Syntax: name =$.$= 2.5
	AssignFloat Cmd = "AssignFloat"

	// AssignString sets a String variable.
	// Syntax: name =#= "text"
	// The closing quote is optional and an empty literal ("") stores an empty
	// String rather than leaving the variable unchanged.
	AssignString Cmd = "AssignString"

	// AssignBool sets a Boolean variable.
	// Syntax: name =&= + (true) or name =&= - (false)
	AssignBool Cmd = "AssignBool"

	// Unrecognized is any line that matches no other form.
	Unrecognized Cmd = "Unrecognized"
)

// Surface markers.
const (
	CommentMarker = ";:"
	PrintMarker   = ">_"

	IntSigil    = "=$="
	FloatSigil  = "=$.$="
	StringSigil = "=#="
	BoolSigil   = "=&="

	LoopOpenMarker  = "@("
	LoopHeaderClose = ")@"
	LoopClose       = "@end@"

	CondOpenMarker  = "?("
	CondHeaderClose = ")?"
	CondClose       = "?end?"

	InterpolationOpen  = "$%"
	InterpolationClose = "%"

	TrueLiteral = '+'
)

// Cmds returns every statement form in dispatch priority order.
func Cmds() []Cmd {
	return []Cmd{
		Print,
		LoopOpen,
		Arithmetic,
		ConditionalOpen,
		AssignInt,
		AssignFloat,
		AssignString,
		AssignBool,
	}
}

// IsAssignment reports whether the form stores a value into a variable.
func (c Cmd) IsAssignment() bool {
	switch c {
	case Arithmetic, AssignInt, AssignFloat, AssignString, AssignBool:
		return true
	default:
		return false
	}
}
