package bytecode

import (
	"strings"
	"testing"
)

func TestOpcodeNamesAreTotalAndUnique(t *testing.T) {
	seen := make(map[string]Opcode)
	for op := Opcode(0); op.IsKnown(); op++ {
		name := op.String()
		if name == "" || strings.HasPrefix(name, "UNKNOWN") {
			t.Errorf("opcode %d has no name", uint32(op))
		}
		if prev, dup := seen[name]; dup {
			t.Errorf("name %q used by opcodes %d and %d", name, uint32(prev), uint32(op))
		}
		seen[name] = op
	}
}

func TestUnknownOpcodeString(t *testing.T) {
	op := Opcode(60000)
	if op.IsKnown() {
		t.Fatalf("opcode 60000 should be unknown")
	}
	if op.String() == "" {
		t.Fatalf("unknown opcode must still render")
	}
}

func TestInstructionString(t *testing.T) {
	ins := Instruction{Op: OP_IS_EQUAL, In: []OperandId{3, 4}, Out: 5}
	got := ins.String()
	want := "IS_EQUAL $3 $4 -> $5"
	if got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestInstructionStringWithConstant(t *testing.T) {
	ins := Instruction{Op: OP_NEW_INT, Out: 1, Const: &Int{Val: 42}}
	got := ins.String()
	if !strings.Contains(got, "42") || !strings.Contains(got, "$1") {
		t.Fatalf("String() = %q, missing constant or output", got)
	}
}

func TestScopeBeginStringShowsKind(t *testing.T) {
	ins := Instruction{Op: OP_SCOPE_BEGIN, Block: WhileBodyScope}
	if !strings.Contains(ins.String(), "while-body") {
		t.Fatalf("String() = %q, want the region kind", ins.String())
	}
}

func TestDisassembleIndentsRegions(t *testing.T) {
	stream := []Instruction{
		{Op: OP_NEW_BOOL, Out: 1, Const: &Bool{Val: true}},
		{Op: OP_IF, In: []OperandId{1}},
		{Op: OP_SCOPE_BEGIN, Block: IfTrueScope},
		{Op: OP_NOP},
		{Op: OP_SCOPE_END},
		{Op: OP_SCOPE_BEGIN, Block: IfFalseScope},
		{Op: OP_SCOPE_END},
	}

	out := Disassemble(stream, "test")
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != len(stream)+1 {
		t.Fatalf("%d lines, want %d (header + one per instruction)", len(lines), len(stream)+1)
	}
	if !strings.HasPrefix(lines[0], "== test ==") {
		t.Fatalf("header = %q", lines[0])
	}

	nop := lines[4]
	if !strings.Contains(nop, "  NOP") {
		t.Fatalf("region body not indented: %q", nop)
	}
}

func TestValuesEqualAcrossKinds(t *testing.T) {
	if ValuesEqual(&Int{Val: 1}, &Uint{Val: 1}) {
		t.Fatalf("different kinds must never be equal")
	}
	if !ValuesEqual(&Int{Val: 7}, &Int{Val: 7}) {
		t.Fatalf("equal ints must compare equal")
	}
	if ValuesEqual(&Enum{Type: "ControlType", Val: 1}, &Enum{Type: "ToggleState", Val: 1}) {
		t.Fatalf("enums of different types must not be equal")
	}
}

func TestImportedKindFollowsObjectKind(t *testing.T) {
	imp := &Imported{ObjectKind: KindTextRange, Key: "r1"}
	if imp.Kind() != KindTextRange {
		t.Fatalf("Kind() = %s, want TextRange", imp.Kind())
	}
}

func TestStructuralPredicate(t *testing.T) {
	for _, op := range []Opcode{OP_IF, OP_WHILE, OP_TRY} {
		if !op.IsStructural() {
			t.Errorf("%s must be structural", op)
		}
	}
	if OP_SET.IsStructural() {
		t.Errorf("SET must not be structural")
	}
}
