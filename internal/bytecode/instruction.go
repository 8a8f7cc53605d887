package bytecode

import (
	"fmt"
	"strings"
)

// Instruction is one remote-operation step: an opcode, its input
// operands and an optional result operand. Constants carry their payload
// in Const. In the linearized stream, OP_SCOPE_BEGIN markers carry the
// region kind in Block.
type Instruction struct {
	Op    Opcode
	In    []OperandId
	Out   OperandId
	Const Value
	Block ScopeKind
}

// HasOutput reports whether the instruction declares a result operand.
func (ins Instruction) HasOutput() bool { return ins.Out.IsValid() }

// String renders one instruction in disassembly form.
func (ins Instruction) String() string {
	var sb strings.Builder
	sb.WriteString(ins.Op.String())
	if ins.Op == OP_SCOPE_BEGIN {
		fmt.Fprintf(&sb, " %s", ins.Block)
		return sb.String()
	}
	for _, in := range ins.In {
		fmt.Fprintf(&sb, " $%d", in)
	}
	if ins.Const != nil {
		fmt.Fprintf(&sb, " %s", ins.Const.Inspect())
	}
	if ins.Out.IsValid() {
		fmt.Fprintf(&sb, " -> $%d", ins.Out)
	}
	return sb.String()
}
