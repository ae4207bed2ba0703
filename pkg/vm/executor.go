// Package vm provides statement execution for the sybl virtual machine.
package vm

import (
	"context"
	"fmt"

	"github.com/zurustar/sybl/pkg/opcode"
)

// Execute runs one classified statement at the current program position.
// Loops and false conditionals move the position; every other form leaves
// it where it is and the caller advances past the line.
//
// Returns:
//   - error: Only cancellation errors; script problems become diagnostics
func (vm *VM) Execute(ctx context.Context, stmt Statement) error {
	switch stmt.Cmd {
	case opcode.Print:
		vm.executePrint(stmt)
	case opcode.LoopOpen:
		return vm.executeLoop(ctx, stmt)
	case opcode.Arithmetic:
		vm.executeArithmetic(stmt)
	case opcode.ConditionalOpen:
		vm.executeConditional(stmt)
	case opcode.AssignInt, opcode.AssignFloat, opcode.AssignString, opcode.AssignBool:
		vm.executeAssign(stmt)
	case opcode.Unrecognized:
		// Close sentinels reached by normal forward flow are expected.
		if !IsLoopClose(stmt.Text) && !IsConditionalClose(stmt.Text) {
			vm.report(vm.pc, NewUnrecognizedStatementError(stmt.Text))
		}
	default:
		vm.report(vm.pc, NewUnrecognizedStatementError(fmt.Sprintf("%s: %s", stmt.Cmd, stmt.Text)))
	}
	return nil
}

// resolve returns the numeric value of an operand, recording a diagnostic
// when it names an undefined variable.
func (vm *VM) resolve(token string) float64 {
	f, ok := vm.store.Resolve(token)
	if !ok {
		vm.report(vm.pc, NewUndefinedVariableError(token))
	}
	return f
}

// executePrint writes the interpolated text and a newline.
func (vm *VM) executePrint(stmt Statement) {
	text := Interpolate(vm.store, stmt.Text)
	if _, err := fmt.Fprintln(vm.out, text); err != nil && vm.writeErr == nil {
		vm.writeErr = err
		vm.log.Warn("Failed to write output", "error", err)
	}
}

// executeAssign stores a typed literal.
func (vm *VM) executeAssign(stmt Statement) {
	vm.store.Set(stmt.Target, stmt.Value)
}

// executeArithmetic evaluates A op B and stores the narrowed result.
func (vm *VM) executeArithmetic(stmt Statement) {
	left := vm.resolve(stmt.Left)
	right := vm.resolve(stmt.Right)
	if stmt.Op == '/' && right == 0 {
		vm.report(vm.pc, NewDivisionByZeroError())
	}
	result := Narrow(Arithmetic(stmt.Op, left, right))
	vm.log.Debug("Arithmetic evaluated", "target", stmt.Target, "op", string(stmt.Op), "kind", result.Kind())
	vm.store.Set(stmt.Target, result)
}

// executeConditional evaluates the condition and, when it is false, skips
// to the matching close sentinel. A true condition needs no action: the
// body is simply the following lines.
func (vm *VM) executeConditional(stmt Statement) {
	result, ok := evaluateCondition(stmt.Text, vm.resolve)
	if !ok {
		vm.report(vm.pc, NewMalformedConditionError(stmt.Text))
	}

	vm.log.Debug("Condition evaluated", "condition", stmt.Text, "result", result)
	if !result {
		vm.skipConditional()
	}
}
