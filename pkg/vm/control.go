package vm

import (
	"context"
	"math"

	"github.com/zurustar/sybl/pkg/opcode"
)

// executeLoop runs a bounded counting loop.
//
// The loop variable starts at Int 0. While its numeric value is below the
// bound, the position is reset to the line after the header and the body is
// executed up to the first loop close sentinel; then the variable is set to
// its truncated value plus one. The body is re-read from the program text on
// every iteration. Afterwards the position is left on the first close
// sentinel at or after the current position, and the caller steps past it.
//
// Only the first close sentinel is recognized. A nested loop that runs at
// least once consumes its own sentinel, but when an outer loop runs zero
// times the skip stops at the inner sentinel and the rest of the outer body
// executes once as ordinary lines.
func (vm *VM) executeLoop(ctx context.Context, stmt Statement) error {
	header := vm.pc
	bound := float64(stmt.Bound)
	vm.store.Set(stmt.Target, Int(0))

	iterations := 0
	for vm.store.NumericValue(stmt.Target) < bound {
		if err := ctx.Err(); err != nil {
			return err
		}
		vm.pc = header + 1
		if err := vm.executeUntil(ctx, header, opcode.LoopClose); err != nil {
			return err
		}
		vm.store.Set(stmt.Target, Int(increment(vm.store.NumericValue(stmt.Target))))
		iterations++
	}

	vm.log.Debug("Loop finished", "variable", stmt.Target, "bound", stmt.Bound, "iterations", iterations)
	vm.skipTo(header, opcode.LoopClose)
	return nil
}

// increment returns trunc(f)+1 without overflowing.
func increment(f float64) int64 {
	i := truncToInt(f)
	if i == math.MaxInt64 {
		return i
	}
	return i + 1
}

// executeUntil executes lines from the current position until a line equal
// to sentinel, leaving the position on it. Reaching the end of the program
// instead is reported against the block header.
func (vm *VM) executeUntil(ctx context.Context, header int, sentinel string) error {
	for vm.pc < len(vm.program) {
		if vm.program[vm.pc].Text == sentinel {
			return nil
		}
		if err := vm.executeLine(ctx); err != nil {
			return err
		}
		vm.pc++
	}
	vm.report(header, NewUnterminatedBlockError(sentinel))
	return nil
}

// skipTo moves the position forward to the next line equal to sentinel,
// or to the end of the program.
func (vm *VM) skipTo(header int, sentinel string) {
	for vm.pc < len(vm.program) {
		if vm.program[vm.pc].Text == sentinel {
			return
		}
		vm.pc++
	}
	vm.report(header, NewUnterminatedBlockError(sentinel))
}

// skipConditional moves the position from a false conditional header to its
// matching close sentinel. Lines containing both header brackets open a
// nested level and close sentinels end one, so the conditions of nested
// blocks are never mistaken for the end of this one. Without a matching
// sentinel the position stops on the last line.
func (vm *VM) skipConditional() {
	header := vm.pc
	depth := 1
	for vm.pc < len(vm.program)-1 && depth > 0 {
		vm.pc++
		text := vm.program[vm.pc].Text
		if opensConditional(text) {
			depth++
		} else if IsConditionalClose(text) {
			depth--
		}
	}
	if depth > 0 {
		vm.report(header, NewUnterminatedBlockError(opcode.CondClose))
	}
}
