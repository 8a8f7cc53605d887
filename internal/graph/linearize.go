package graph

import (
	"fmt"

	"github.com/remoteops/remop/internal/bytecode"
)

// Linearize flattens the scope tree depth-first into one ordered
// instruction stream. Each structural instruction is followed by its
// child scopes bracketed with SCOPE_BEGIN/SCOPE_END markers, so the
// stream fully encodes the nesting. Instructions keep their insertion
// position relative to siblings; nothing is hoisted or reordered, which
// makes linearization deterministic for a given call sequence.
func (g *Graph) Linearize() []bytecode.Instruction {
	var out []bytecode.Instruction
	return appendScope(out, g.root)
}

func appendScope(out []bytecode.Instruction, s *Scope) []bytecode.Instruction {
	for _, n := range s.nodes {
		out = append(out, n.instr)
		for _, child := range n.children {
			out = append(out, bytecode.Instruction{Op: bytecode.OP_SCOPE_BEGIN, Block: child.kind})
			out = appendScope(out, child)
			out = append(out, bytecode.Instruction{Op: bytecode.OP_SCOPE_END})
		}
	}
	return out
}

// ValidateStream checks a linearized stream against the allocator state:
// every referenced operand id must be non-zero, below nextId and defined
// before its first use, and scope markers must balance. Operands defined
// outside the stream (imported objects) are passed in predefined. The
// graph already enforces allocation order at insert time; Execute runs
// this once more over the final stream as a backstop.
func ValidateStream(stream []bytecode.Instruction, nextId bytecode.OperandId, predefined []bytecode.OperandId) error {
	depth := 0
	seen := make(map[bytecode.OperandId]bool, len(predefined))
	for _, id := range predefined {
		seen[id] = true
	}
	for offset, ins := range stream {
		switch ins.Op {
		case bytecode.OP_SCOPE_BEGIN:
			depth++
			continue
		case bytecode.OP_SCOPE_END:
			depth--
			if depth < 0 {
				return fmt.Errorf("offset %04d: unbalanced scope end", offset)
			}
			continue
		}
		if !ins.Op.IsKnown() {
			return fmt.Errorf("offset %04d: unknown opcode %d", offset, uint32(ins.Op))
		}
		for _, in := range ins.In {
			if !in.IsValid() || in >= nextId {
				return fmt.Errorf("offset %04d: %s reads $%d: %w", offset, ins.Op, in, ErrOperandNotFound)
			}
			if !seen[in] {
				return fmt.Errorf("offset %04d: %s reads $%d before it is defined", offset, ins.Op, in)
			}
		}
		if ins.Out.IsValid() {
			if ins.Out >= nextId {
				return fmt.Errorf("offset %04d: %s writes $%d: %w", offset, ins.Op, ins.Out, ErrOperandNotFound)
			}
			seen[ins.Out] = true
		}
	}
	if depth != 0 {
		return fmt.Errorf("unbalanced scope markers: %d left open", depth)
	}
	return nil
}
