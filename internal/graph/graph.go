package graph

import (
	"errors"
	"fmt"

	"github.com/remoteops/remop/internal/bytecode"
)

// Builder-time errors.
var (
	ErrSealedScope     = errors.New("scope is sealed")
	ErrNotInLoop       = errors.New("not inside a loop scope")
	ErrNotInExcept     = errors.New("not inside an except scope")
	ErrOperandNotFound = errors.New("operand was never allocated in this program")
)

// Graph is the root scope plus the cursor stack used while nested
// control-flow regions are being built. It is also the single source of
// truth for operand ids within one program; ids start at 1 and only grow.
//
// A Graph belongs to exactly one program build and is not safe for
// concurrent use.
type Graph struct {
	root   *Scope
	cursor []*Scope

	nextId bytecode.OperandId

	// Counts of loop and except constructs currently open on the cursor
	// path. Break/Continue and GetCurrentFailureCode are only legal when
	// the matching counter is positive.
	loopDepth   int
	exceptDepth int
}

// New creates an empty graph with the cursor at the root scope.
func New() *Graph {
	g := &Graph{nextId: 1}
	g.root = newScope(bytecode.RootScope, nil)
	g.cursor = []*Scope{g.root}
	return g
}

// Allocate returns a fresh operand id, strictly greater than any id
// previously returned by this graph.
func (g *Graph) Allocate() bytecode.OperandId {
	id := g.nextId
	g.nextId++
	return id
}

// NextId returns the id the next Allocate call would return. Used by
// validation: every id below NextId has been allocated.
func (g *Graph) NextId() bytecode.OperandId { return g.nextId }

// current returns the scope new instructions are appended to.
func (g *Graph) current() *Scope { return g.cursor[len(g.cursor)-1] }

// Depth returns the cursor stack depth (1 = root only).
func (g *Graph) Depth() int { return len(g.cursor) }

// InLoop reports whether a loop construct is open on the cursor path.
func (g *Graph) InLoop() bool { return g.loopDepth > 0 }

// InExcept reports whether an except region is open on the cursor path.
func (g *Graph) InExcept() bool { return g.exceptDepth > 0 }

// Insert appends a non-structural instruction to the current scope after
// checking that every referenced operand was allocated beforehand.
func (g *Graph) Insert(instr bytecode.Instruction) error {
	if err := g.checkOperands(instr); err != nil {
		return err
	}
	return g.insertNode(node{instr: instr})
}

func (g *Graph) insertNode(n node) error {
	scope := g.current()
	if scope.sealed {
		return ErrSealedScope
	}
	scope.nodes = append(scope.nodes, n)
	return nil
}

func (g *Graph) checkOperands(instr bytecode.Instruction) error {
	for _, in := range instr.In {
		if !in.IsValid() || in >= g.nextId {
			return fmt.Errorf("instruction %s input $%d: %w", instr.Op, in, ErrOperandNotFound)
		}
	}
	if instr.Out.IsValid() && instr.Out >= g.nextId {
		return fmt.Errorf("instruction %s output $%d: %w", instr.Op, instr.Out, ErrOperandNotFound)
	}
	return nil
}

// push makes scope the cursor target for subsequent inserts.
func (g *Graph) push(scope *Scope) {
	g.cursor = append(g.cursor, scope)
}

// pop seals the current scope and returns the cursor to its parent.
func (g *Graph) pop() {
	top := g.current()
	top.seal()
	g.cursor = g.cursor[:len(g.cursor)-1]
}
