package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing of a linearized
// instruction stream. Scope markers indent their region.
func Disassemble(stream []Instruction, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	depth := 0
	for offset, ins := range stream {
		if ins.Op == OP_SCOPE_END {
			depth--
		}
		sb.WriteString(fmt.Sprintf("%04d %s%s\n", offset, strings.Repeat("  ", depth), ins.String()))
		if ins.Op == OP_SCOPE_BEGIN {
			depth++
		}
	}

	return sb.String()
}
