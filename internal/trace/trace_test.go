package trace

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "traces.db"))
	if err != nil {
		t.Fatalf("open: %s", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRequest() *transport.Request {
	return &transport.Request{
		Program: uuid.New(),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_NEW_INT, Out: 1, Const: &bytecode.Int{Val: 3}},
			{Op: bytecode.OP_NEW_INT, Out: 2, Const: &bytecode.Int{Val: 4}},
			{Op: bytecode.OP_ADD, In: []bytecode.OperandId{1, 2}},
		},
		Responses: []bytecode.OperandId{1},
	}
}

func TestRecordAndGet(t *testing.T) {
	s := openStore(t)
	req := sampleRequest()
	resp := &transport.Response{
		Status:  0,
		Results: map[bytecode.OperandId]bytecode.Value{1: &bytecode.Int{Val: 7}},
	}

	if err := s.Record(req, resp); err != nil {
		t.Fatalf("record: %s", err)
	}

	e, err := s.Get(req.Program)
	if err != nil {
		t.Fatalf("get: %s", err)
	}
	if e.Id != req.Program {
		t.Fatalf("id = %s, want %s", e.Id, req.Program)
	}
	if e.Status != 0 {
		t.Fatalf("status = %d, want 0", e.Status)
	}
	if e.InstructionCount != len(req.Instructions) {
		t.Fatalf("instruction count = %d, want %d", e.InstructionCount, len(req.Instructions))
	}
	if !strings.Contains(e.Disasm, "ADD") {
		t.Fatalf("disassembly lost the ADD instruction:\n%s", e.Disasm)
	}
	if !strings.Contains(e.ResultsJSON, "7") {
		t.Fatalf("results json lost the value: %s", e.ResultsJSON)
	}
}

func TestListNewestFirst(t *testing.T) {
	s := openStore(t)

	first := sampleRequest()
	second := sampleRequest()
	empty := &transport.Response{Results: map[bytecode.OperandId]bytecode.Value{}}

	if err := s.Record(first, empty); err != nil {
		t.Fatalf("record first: %s", err)
	}
	if err := s.Record(second, empty); err != nil {
		t.Fatalf("record second: %s", err)
	}

	entries, err := s.List(10)
	if err != nil {
		t.Fatalf("list: %s", err)
	}
	if len(entries) != 2 {
		t.Fatalf("%d entries, want 2", len(entries))
	}
	if entries[0].CreatedAt.Before(entries[1].CreatedAt) {
		t.Fatalf("entries not newest-first")
	}
}

func TestGetUnknownIdFails(t *testing.T) {
	s := openStore(t)
	if _, err := s.Get(uuid.New()); err == nil {
		t.Fatalf("expected error for unknown program id")
	}
}
