// Package bytecode defines the instruction vocabulary shared by the
// program builder, the wire encoding and the provider-side interpreter.
package bytecode

// OperandId identifies a value slot inside one remote operation.
// Ids are issued in allocation order by the owning graph and are never
// reused. Zero is the invalid sentinel.
type OperandId uint32

// NoOperandId marks "no operand" (e.g. an instruction with no result).
const NoOperandId OperandId = 0

// IsValid returns true if the id is non-zero.
func (id OperandId) IsValid() bool { return id != NoOperandId }

// ScopeKind tags a structured region of the program.
type ScopeKind uint8

const (
	RootScope ScopeKind = iota
	IfTrueScope
	IfFalseScope
	WhileBodyScope
	WhileUpdateScope
	TryBodyScope
	ExceptScope
)

// ScopeKindNames maps scope kinds to their string names (for debugging)
var ScopeKindNames = map[ScopeKind]string{
	RootScope:        "root",
	IfTrueScope:      "if-true",
	IfFalseScope:     "if-false",
	WhileBodyScope:   "while-body",
	WhileUpdateScope: "while-update",
	TryBodyScope:     "try-body",
	ExceptScope:      "except",
}

func (k ScopeKind) String() string {
	if name, ok := ScopeKindNames[k]; ok {
		return name
	}
	return "unknown"
}
