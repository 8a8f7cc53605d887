package wire

import (
	"testing"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

func roundTripValue(t *testing.T, v bytecode.Value) bytecode.Value {
	t.Helper()
	resp := &transport.Response{Results: map[bytecode.OperandId]bytecode.Value{1: v}}
	enc, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("encode %s: %s", v.Kind(), err)
	}
	dec, err := DecodeResponse(enc)
	if err != nil {
		t.Fatalf("decode %s: %s", v.Kind(), err)
	}
	out, ok := dec.Results[1]
	if !ok {
		t.Fatalf("value of kind %s lost in transit", v.Kind())
	}
	return out
}

func TestValueKindsSurviveTransit(t *testing.T) {
	conn := uuid.New()
	values := []bytecode.Value{
		&bytecode.Null{},
		&bytecode.Bool{Val: true},
		&bytecode.Int{Val: -12},
		&bytecode.Uint{Val: 3000000000},
		&bytecode.Double{Val: 2.5},
		&bytecode.Char{Val: 'Ж'},
		&bytecode.String{Val: "hello"},
		&bytecode.Point{X: 1, Y: -2},
		&bytecode.Rect{X: 0, Y: 0, Width: 800, Height: 600},
		&bytecode.Guid{Val: uuid.New()},
		&bytecode.ByteArray{Val: []byte{0, 1, 255}},
		&bytecode.Array{Items: []bytecode.Value{&bytecode.Int{Val: 1}, &bytecode.String{Val: "x"}}},
		&bytecode.StringMap{Entries: map[string]bytecode.Value{"k": &bytecode.Bool{Val: false}}},
		&bytecode.Enum{Type: "ControlType", Val: 4},
		&bytecode.CacheRequest{Properties: []int32{1, 2}},
		&bytecode.Imported{ObjectKind: bytecode.KindElement, Connection: conn, Key: "root"},
		&bytecode.Pattern{Name: "InvokePattern", Key: "ok"},
	}

	for _, v := range values {
		out := roundTripValue(t, v)
		// Containers compare by identity in ValuesEqual, so compare the
		// rendered form instead.
		if out.Kind() != v.Kind() || out.Inspect() != v.Inspect() {
			t.Fatalf("kind %s: %s != %s after round-trip", v.Kind(), v.Inspect(), out.Inspect())
		}
	}
}

func TestRequestRoundTrip(t *testing.T) {
	conn := uuid.New()
	req := &transport.Request{
		Program: uuid.New(),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_NEW_INT, Out: 2, Const: &bytecode.Int{Val: 3}},
			{Op: bytecode.OP_ELEMENT_GET_NAME, In: []bytecode.OperandId{1}, Out: 3},
			{Op: bytecode.OP_IF, In: []bytecode.OperandId{2}},
			{Op: bytecode.OP_SCOPE_BEGIN, Block: bytecode.IfTrueScope},
			{Op: bytecode.OP_SCOPE_END},
			{Op: bytecode.OP_SCOPE_BEGIN, Block: bytecode.IfFalseScope},
			{Op: bytecode.OP_SCOPE_END},
		},
		Imports: []transport.Import{{
			Id:     1,
			Object: &bytecode.Imported{ObjectKind: bytecode.KindElement, Connection: conn, Key: "root"},
		}},
		Responses: []bytecode.OperandId{3},
	}

	enc, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	dec, err := DecodeRequest(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}

	if dec.Program != req.Program {
		t.Fatalf("program id changed: %s -> %s", req.Program, dec.Program)
	}
	if len(dec.Instructions) != len(req.Instructions) {
		t.Fatalf("instruction count %d, want %d", len(dec.Instructions), len(req.Instructions))
	}
	for i := range req.Instructions {
		if dec.Instructions[i].String() != req.Instructions[i].String() {
			t.Fatalf("instruction %d: %s != %s", i, dec.Instructions[i], req.Instructions[i])
		}
	}
	if len(dec.Imports) != 1 || dec.Imports[0].Id != 1 {
		t.Fatalf("imports corrupted: %+v", dec.Imports)
	}
	if dec.Imports[0].Object.Connection != conn || dec.Imports[0].Object.Key != "root" {
		t.Fatalf("import binding corrupted: %+v", dec.Imports[0].Object)
	}
	if len(dec.Responses) != 1 || dec.Responses[0] != 3 {
		t.Fatalf("responses corrupted: %v", dec.Responses)
	}
}

func TestResponseStatusSurvives(t *testing.T) {
	resp := &transport.Response{Status: -7, Results: map[bytecode.OperandId]bytecode.Value{}}
	enc, err := EncodeResponse(resp)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	dec, err := DecodeResponse(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if dec.Status != -7 {
		t.Fatalf("status = %d, want -7", dec.Status)
	}
}

func TestVersionMismatchRejected(t *testing.T) {
	req := &transport.Request{Program: uuid.New()}
	enc, err := EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	enc.Fields["version"] = enc.Fields["instructions"] // wrong type entirely
	if _, err := DecodeRequest(enc); err == nil {
		t.Fatalf("expected version rejection")
	}
}

func TestCapabilitiesRoundTrip(t *testing.T) {
	caps := transport.Capabilities{
		Guid:         true,
		CacheRequest: false,
		Opcodes: map[bytecode.Opcode]bool{
			bytecode.OP_NEW_INT:          true,
			bytecode.OP_ELEMENT_GET_NAME: true,
		},
	}
	enc, err := EncodeCapabilities(caps)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	dec, err := DecodeCapabilities(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if !dec.Guid || dec.CacheRequest {
		t.Fatalf("flags corrupted: %+v", dec)
	}
	if !dec.SupportsOpcode(bytecode.OP_NEW_INT) {
		t.Fatalf("listed opcode not supported after decode")
	}
	if dec.SupportsOpcode(bytecode.OP_NEW_GUID) {
		t.Fatalf("unlisted opcode reported supported")
	}
}

func TestNilOpcodeSetMeansAllKnown(t *testing.T) {
	enc, err := EncodeCapabilities(transport.Capabilities{Guid: true})
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	dec, err := DecodeCapabilities(enc)
	if err != nil {
		t.Fatalf("decode: %s", err)
	}
	if dec.Opcodes != nil {
		t.Fatalf("opcode set should stay nil when not sent")
	}
	if !dec.SupportsOpcode(bytecode.OP_ELEMENT_GET_NAME) {
		t.Fatalf("nil opcode set must mean every known opcode")
	}
}
