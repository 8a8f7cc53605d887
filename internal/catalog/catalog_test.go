package catalog

import (
	"testing"

	"github.com/remoteops/remop/internal/bytecode"
)

func TestEveryDomainOpcodeHasAnEntry(t *testing.T) {
	for op := bytecode.OP_LOOKUP_GUID; op.IsKnown(); op++ {
		if !op.IsDomain() {
			continue
		}
		if _, ok := ByOpcode(op); !ok {
			t.Errorf("domain opcode %s has no catalogue entry", op)
		}
	}
}

func TestOpcodesAreUniqueAcrossEntries(t *testing.T) {
	seen := make(map[bytecode.Opcode]string)
	for _, op := range All() {
		key := op.Object + "." + op.Name
		if prev, dup := seen[op.Opcode]; dup {
			t.Errorf("opcode %s claimed by both %s and %s", op.Opcode, prev, key)
		}
		seen[op.Opcode] = key
	}
}

func TestEntriesUseKnownOpcodes(t *testing.T) {
	for _, op := range All() {
		if !op.Opcode.IsKnown() {
			t.Errorf("%s.%s maps to unknown opcode %d", op.Object, op.Name, uint32(op.Opcode))
		}
	}
}

func TestLookup(t *testing.T) {
	entry, ok := Lookup("Element", "GetName")
	if !ok {
		t.Fatalf("Element.GetName missing")
	}
	if !entry.HasResult || entry.Result != bytecode.KindString {
		t.Fatalf("Element.GetName signature wrong: %+v", entry)
	}
	if len(entry.Args) != 0 {
		t.Fatalf("Element.GetName takes no arguments, got %d", len(entry.Args))
	}

	if _, ok := Lookup("Element", "NoSuchOp"); ok {
		t.Fatalf("lookup invented an operation")
	}
}

func TestActionsDeclareNoResult(t *testing.T) {
	entry, ok := Lookup("InvokePattern", "Invoke")
	if !ok {
		t.Fatalf("InvokePattern.Invoke missing")
	}
	if entry.HasResult {
		t.Fatalf("InvokePattern.Invoke must not declare a result")
	}
}

func TestByOpcodeInvertsLookup(t *testing.T) {
	for _, want := range All() {
		got, ok := ByOpcode(want.Opcode)
		if !ok {
			t.Fatalf("ByOpcode(%s) missing", want.Opcode)
		}
		if got.Object != want.Object || got.Name != want.Name {
			t.Fatalf("ByOpcode(%s) = %s.%s, want %s.%s",
				want.Opcode, got.Object, got.Name, want.Object, want.Name)
		}
	}
}
