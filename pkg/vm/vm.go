// Package vm provides the execution engine for sybl scripts.
// It implements:
// - Statement classification (Parse) and dispatch (Execute)
// - A flat, insertion-ordered variable store with typed values
// - Arithmetic, condition and output interpolation evaluators
// - Bounded loops and conditionals driven by a single program position
// - Timeout functionality
package vm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/zurustar/sybl/pkg/logger"
	"github.com/zurustar/sybl/pkg/script"
)

// VM executes a Program line by line.
// It owns the program text, the program position and the variable store;
// loops and conditionals move the position by scanning the text for their
// close sentinels.
type VM struct {
	program script.Program
	pc      int // Program position (index into program)
	store   *Store

	diagnostics []*RuntimeError
	dropped     int

	out      io.Writer
	writeErr error

	// Configuration
	timeout time.Duration

	// Logger
	log *slog.Logger
}

// Option is a functional option for configuring the VM.
type Option func(*VM)

// WithOutput sets where print statements write. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(vm *VM) {
		vm.out = w
	}
}

// WithTimeout sets the execution timeout.
// When the timeout expires, execution stops before the next statement.
func WithTimeout(timeout time.Duration) Option {
	return func(vm *VM) {
		vm.timeout = timeout
	}
}

// WithLogger sets a custom logger.
func WithLogger(log *slog.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// New creates a new VM instance for the given program.
//
// Parameters:
//   - program: The split program text to execute
//   - opts: Optional configuration options (output, timeout, logger)
//
// Returns:
//   - *VM: The initialized VM instance
func New(program script.Program, opts ...Option) *VM {
	vm := &VM{
		program: program,
		pc:      0,
		store:   NewStore(),
		out:     os.Stdout,
		timeout: 0,
		log:     logger.GetLogger(),
	}

	for _, opt := range opts {
		opt(vm)
	}

	return vm
}

// Run executes the program from the first line to the end.
// Every run starts with an empty variable store.
// Script-level problems never stop the run; they are collected as
// diagnostics. When the context is cancelled or the timeout expires, Run
// stops before the next statement and returns nil.
//
// Returns:
//   - error: Any error that stopped execution early
func (vm *VM) Run(ctx context.Context) error {
	if vm.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, vm.timeout)
		defer cancel()
	}

	vm.pc = 0
	vm.store = NewStore()
	vm.diagnostics = nil
	vm.dropped = 0
	vm.writeErr = nil

	vm.log.Info("VM started", "line_count", len(vm.program), "timeout", vm.timeout)

	for vm.pc < len(vm.program) {
		if err := vm.executeLine(ctx); err != nil {
			return vm.stopped(err)
		}
		vm.pc++
	}

	vm.log.Info("VM execution completed",
		"variables", vm.store.Len(),
		"diagnostics", len(vm.diagnostics)+vm.dropped)
	return nil
}

// stopped converts a cancellation into a clean stop.
func (vm *VM) stopped(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		vm.log.Info("VM execution timed out", "pc", vm.pc)
		return nil
	case errors.Is(err, context.Canceled):
		vm.log.Info("VM execution cancelled", "pc", vm.pc)
		return nil
	default:
		return fmt.Errorf("execution stopped at line %d: %w", vm.lineNumber(vm.pc), err)
	}
}

// executeLine classifies and executes the line at the current position.
func (vm *VM) executeLine(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line := vm.program[vm.pc]
	stmt := Parse(line.Text)
	if stmt.Cmd.IsAssignment() {
		vm.log.Debug("Executing statement", "cmd", stmt.Cmd, "line", line.Number, "target", stmt.Target)
	} else {
		vm.log.Debug("Executing statement", "cmd", stmt.Cmd, "line", line.Number)
	}
	return vm.Execute(ctx, stmt)
}

// report records a diagnostic for the line at index idx.
func (vm *VM) report(idx int, rerr *RuntimeError) {
	if idx >= 0 && idx < len(vm.program) {
		rerr.Line = vm.program[idx].Number
		rerr.Context = vm.program[idx].Text
	}
	vm.log.Debug("Script diagnostic", "type", rerr.Type, "message", rerr.Message, "line", rerr.Line)
	if len(vm.diagnostics) >= MaxDiagnostics {
		vm.dropped++
		return
	}
	vm.diagnostics = append(vm.diagnostics, rerr)
}

// lineNumber returns the source line number for a program index, or -1.
func (vm *VM) lineNumber(idx int) int {
	if idx >= 0 && idx < len(vm.program) {
		return vm.program[idx].Number
	}
	return -1
}

// Store returns the variable store of the current (or last) run.
func (vm *VM) Store() *Store {
	return vm.store
}

// Position returns the current program position.
func (vm *VM) Position() int {
	return vm.pc
}

// Program returns the program being executed.
func (vm *VM) Program() script.Program {
	return vm.program
}

// Diagnostics returns the script-level problems recorded by the last run,
// up to MaxDiagnostics entries.
func (vm *VM) Diagnostics() []*RuntimeError {
	return vm.diagnostics
}

// DroppedDiagnostics returns how many diagnostics exceeded MaxDiagnostics.
func (vm *VM) DroppedDiagnostics() int {
	return vm.dropped
}

// WriteError returns the first error returned by the output writer, if any.
func (vm *VM) WriteError() error {
	return vm.writeErr
}
