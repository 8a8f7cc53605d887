// Package graph holds the in-memory instruction graph a remote operation
// is built into: a tree of kind-tagged scopes with a cursor stack that
// tracks which scope receives new instructions.
package graph

import "github.com/remoteops/remop/internal/bytecode"

// node is one entry in a scope: an instruction plus, for structural
// instructions, the child scopes it delimits.
type node struct {
	instr    bytecode.Instruction
	children []*Scope
}

// Scope is an ordered instruction list for one structured region. The
// parent reference is non-owning and only used to pop the cursor.
type Scope struct {
	kind   bytecode.ScopeKind
	parent *Scope
	nodes  []node
	sealed bool
}

func newScope(kind bytecode.ScopeKind, parent *Scope) *Scope {
	return &Scope{kind: kind, parent: parent}
}

// Kind returns the region kind this scope represents.
func (s *Scope) Kind() bytecode.ScopeKind { return s.kind }

// Len returns the number of instructions inserted into this scope.
func (s *Scope) Len() int { return len(s.nodes) }

// seal makes the scope immutable. Called when its control-flow construct
// closes.
func (s *Scope) seal() { s.sealed = true }
