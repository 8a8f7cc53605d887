package remop

import (
	"fmt"

	"github.com/remoteops/remop/internal/bytecode"
)

// BuildFunc populates one control-flow scope. The builder cursor points
// at the scope while the callback runs; instructions added inside land
// there.
type BuildFunc func() error

// IfBlock records a conditional on cond. trueFn runs to populate the
// branch taken when cond holds, falseFn the other branch; either may be
// nil for an empty branch.
func (op *Operation) IfBlock(cond *Bool, trueFn, falseFn BuildFunc) error {
	if !op.sameOperation(cond) {
		return op.err
	}
	err := op.graph.InsertIf(cond.operandId(), graphBuild(trueFn), graphBuild(falseFn))
	if err != nil {
		op.fail(err)
	}
	return err
}

// WhileBlock records a loop on cond. bodyFn populates the loop body and
// updateFn the condition-update scope, which re-runs before every
// re-test of cond; updateFn may be nil when cond is refreshed inside the
// body.
func (op *Operation) WhileBlock(cond *Bool, bodyFn, updateFn BuildFunc) error {
	if !op.sameOperation(cond) {
		return op.err
	}
	err := op.graph.InsertWhile(cond.operandId(), graphBuild(bodyFn), graphBuild(updateFn))
	if err != nil {
		op.fail(err)
	}
	return err
}

// TryBlock records a guarded region. A failure anywhere inside bodyFn's
// scope transfers control to exceptFn's scope instead of aborting the
// whole program.
func (op *Operation) TryBlock(bodyFn, exceptFn BuildFunc) error {
	err := op.graph.InsertTry(graphBuild(bodyFn), graphBuild(exceptFn))
	if err != nil {
		op.fail(err)
	}
	return err
}

// BreakLoop exits the nearest enclosing loop. Errors outside a loop.
func (op *Operation) BreakLoop() error {
	if err := op.graph.InsertBreak(); err != nil {
		op.fail(err)
		return err
	}
	return nil
}

// ContinueLoop re-tests the nearest enclosing loop's condition. Errors
// outside a loop.
func (op *Operation) ContinueLoop() error {
	if err := op.graph.InsertContinue(); err != nil {
		op.fail(err)
		return err
	}
	return nil
}

// GetCurrentFailureCode yields the failure code of the instruction that
// triggered the active exception. Valid only inside an except scope.
func (op *Operation) GetCurrentFailureCode() (*Int, error) {
	out := op.graph.Allocate()
	if err := op.graph.InsertFailureCode(out); err != nil {
		op.fail(err)
		return nil, err
	}
	return &Int{standin{op: op, id: out}}, nil
}

// ReturnOperationStatus halts execution at this point in the program
// with the given literal status. Instructions recorded after it still
// belong to the program but never run when this point is reached.
func (op *Operation) ReturnOperationStatus(status int32) error {
	ins := bytecode.Instruction{Op: bytecode.OP_HALT, Const: &bytecode.Int{Val: status}}
	if err := op.graph.Insert(ins); err != nil {
		op.fail(err)
		return err
	}
	return nil
}

// ReturnOperationStatusOperand halts with the runtime value of an int
// operand as the status.
func (op *Operation) ReturnOperationStatusOperand(status *Int) error {
	if !op.sameOperation(status) {
		return op.err
	}
	ins := bytecode.Instruction{Op: bytecode.OP_HALT, In: []bytecode.OperandId{status.operandId()}}
	if err := op.graph.Insert(ins); err != nil {
		op.fail(err)
		return err
	}
	return nil
}

// graphBuild adapts a possibly-nil BuildFunc for the scope builder.
func graphBuild(fn BuildFunc) func() error {
	if fn == nil {
		return nil
	}
	return func() error {
		if err := fn(); err != nil {
			return fmt.Errorf("scope build: %w", err)
		}
		return nil
	}
}
