package graph

import "github.com/remoteops/remop/internal/bytecode"

// BuildFunc populates one child scope. It runs synchronously with the
// cursor pointing at that scope; the push/pop discipline around the call
// owns reentrancy, the callback never has to restore anything.
type BuildFunc func() error

// buildChild opens a child scope of the given kind under the current
// node, runs build inside it and seals it on the way out. Stack balance
// holds even when build fails or panics.
func (g *Graph) buildChild(kind bytecode.ScopeKind, build BuildFunc) (*Scope, error) {
	child := newScope(kind, g.current())
	g.push(child)
	defer g.pop()

	if build != nil {
		if err := build(); err != nil {
			return nil, err
		}
	}
	return child, nil
}

// InsertIf records a conditional region. The false branch may be nil; an
// empty if-false scope is still recorded so linearization stays uniform.
func (g *Graph) InsertIf(cond bytecode.OperandId, buildTrue, buildFalse BuildFunc) error {
	instr := bytecode.Instruction{Op: bytecode.OP_IF, In: []bytecode.OperandId{cond}}
	if err := g.checkOperands(instr); err != nil {
		return err
	}
	if g.current().sealed {
		return ErrSealedScope
	}

	trueScope, err := g.buildChild(bytecode.IfTrueScope, buildTrue)
	if err != nil {
		return err
	}
	falseScope, err := g.buildChild(bytecode.IfFalseScope, buildFalse)
	if err != nil {
		return err
	}

	return g.insertNode(node{instr: instr, children: []*Scope{trueScope, falseScope}})
}

// InsertWhile records a loop region: a body scope and an optional
// condition-update scope, re-run before each re-test of cond.
func (g *Graph) InsertWhile(cond bytecode.OperandId, buildBody, buildUpdate BuildFunc) error {
	instr := bytecode.Instruction{Op: bytecode.OP_WHILE, In: []bytecode.OperandId{cond}}
	if err := g.checkOperands(instr); err != nil {
		return err
	}
	if g.current().sealed {
		return ErrSealedScope
	}

	g.loopDepth++
	defer func() { g.loopDepth-- }()

	bodyScope, err := g.buildChild(bytecode.WhileBodyScope, buildBody)
	if err != nil {
		return err
	}
	updateScope, err := g.buildChild(bytecode.WhileUpdateScope, buildUpdate)
	if err != nil {
		return err
	}

	return g.insertNode(node{instr: instr, children: []*Scope{bodyScope, updateScope}})
}

// InsertTry records a guarded region with an optional except scope.
func (g *Graph) InsertTry(buildBody, buildExcept BuildFunc) error {
	if g.current().sealed {
		return ErrSealedScope
	}

	bodyScope, err := g.buildChild(bytecode.TryBodyScope, buildBody)
	if err != nil {
		return err
	}

	g.exceptDepth++
	exceptScope, err := g.buildChild(bytecode.ExceptScope, buildExcept)
	g.exceptDepth--
	if err != nil {
		return err
	}

	return g.insertNode(node{instr: bytecode.Instruction{Op: bytecode.OP_TRY}, children: []*Scope{bodyScope, exceptScope}})
}

// InsertBreak emits a break meaningful to the nearest enclosing loop.
func (g *Graph) InsertBreak() error {
	if !g.InLoop() {
		return ErrNotInLoop
	}
	return g.insertNode(node{instr: bytecode.Instruction{Op: bytecode.OP_BREAK}})
}

// InsertContinue emits a continue meaningful to the nearest enclosing loop.
func (g *Graph) InsertContinue() error {
	if !g.InLoop() {
		return ErrNotInLoop
	}
	return g.insertNode(node{instr: bytecode.Instruction{Op: bytecode.OP_CONTINUE}})
}

// InsertFailureCode emits the except-scope accessor that yields the
// failure code of the instruction that triggered the exception.
func (g *Graph) InsertFailureCode(out bytecode.OperandId) error {
	if !g.InExcept() {
		return ErrNotInExcept
	}
	return g.Insert(bytecode.Instruction{Op: bytecode.OP_GET_FAILURE_CODE, Out: out})
}
