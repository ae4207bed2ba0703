// Package vm provides error handling for the sybl virtual machine.
package vm

import (
	"fmt"
)

// ErrorType represents the type of script-level problem.
type ErrorType string

// None of these stop execution: the offending line simply has no effect
// (or the documented fallback value is used) and the run continues.
const (
	ErrorUnrecognizedStatement ErrorType = "UNRECOGNIZED_STATEMENT"
	ErrorUndefinedVar          ErrorType = "UNDEFINED_VARIABLE"
	ErrorDivisionByZero        ErrorType = "DIVISION_BY_ZERO"
	ErrorMalformedCondition    ErrorType = "MALFORMED_CONDITION"
	ErrorUnterminatedBlock     ErrorType = "UNTERMINATED_BLOCK"
)

// MaxDiagnostics bounds how many diagnostics a VM keeps; later ones are
// only counted.
const MaxDiagnostics = 256

// RuntimeError describes a script-level problem found while executing.
// Runtime errors are diagnostics: they are logged at debug level and
// collected on the VM, never returned from Run.
type RuntimeError struct {
	Type    ErrorType
	Message string
	Line    int    // Source line number if available, -1 otherwise
	Context string // Statement text
}

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("[%s] %s at line %d", e.Type, e.Message, e.Line)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// NewRuntimeError creates a new RuntimeError.
func NewRuntimeError(errType ErrorType, message string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		Line:    -1,
	}
}

// NewRuntimeErrorWithContext creates a new RuntimeError with line and statement text.
func NewRuntimeErrorWithContext(errType ErrorType, message string, line int, context string) *RuntimeError {
	return &RuntimeError{
		Type:    errType,
		Message: message,
		Line:    line,
		Context: context,
	}
}

// NewUnrecognizedStatementError creates an error for a line that matches no statement form.
func NewUnrecognizedStatementError(text string) *RuntimeError {
	return NewRuntimeError(ErrorUnrecognizedStatement, fmt.Sprintf("unrecognized statement: %q", text))
}

// NewUndefinedVariableError creates an undefined variable error.
// The variable reads as 0.
func NewUndefinedVariableError(name string) *RuntimeError {
	return NewRuntimeError(ErrorUndefinedVar, fmt.Sprintf("undefined variable: %s", name))
}

// NewDivisionByZeroError creates a division by zero error.
// The quotient is 0.
func NewDivisionByZeroError() *RuntimeError {
	return NewRuntimeError(ErrorDivisionByZero, "division by zero")
}

// NewMalformedConditionError creates an error for a condition without a comparison operator.
// The condition is false.
func NewMalformedConditionError(cond string) *RuntimeError {
	return NewRuntimeError(ErrorMalformedCondition, fmt.Sprintf("no comparison operator in condition %q", cond))
}

// NewUnterminatedBlockError creates an error for a block whose close sentinel is missing.
func NewUnterminatedBlockError(sentinel string) *RuntimeError {
	return NewRuntimeError(ErrorUnterminatedBlock, fmt.Sprintf("missing %s", sentinel))
}
