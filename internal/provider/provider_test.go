package provider

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
	"github.com/remoteops/remop/internal/wire"
)

func testServer(t *testing.T) (*Server, *TreeHost) {
	t.Helper()
	host := NewTreeHost(&Node{
		Key:  "root",
		Name: "Desktop",
		Children: []*Node{
			{Key: "ok", Name: "OK", ClassName: "Button"},
		},
	})
	return NewServer(host, transport.Capabilities{Guid: true, CacheRequest: true}), host
}

func TestCapabilitiesPayloadCarriesConnectionId(t *testing.T) {
	srv, _ := testServer(t)

	out, err := srv.handleCapabilities(context.Background(), nil)
	if err != nil {
		t.Fatalf("capabilities: %s", err)
	}

	raw, ok := out.Fields["id"]
	if !ok {
		t.Fatalf("payload has no connection id")
	}
	id, err := uuid.Parse(raw.GetStringValue())
	if err != nil {
		t.Fatalf("bad connection id: %s", err)
	}
	if id != srv.ID() {
		t.Fatalf("id = %s, want %s", id, srv.ID())
	}

	caps, err := wire.DecodeCapabilities(out)
	if err != nil {
		t.Fatalf("decode capabilities: %s", err)
	}
	if !caps.Guid || !caps.CacheRequest {
		t.Fatalf("capability flags lost: %+v", caps)
	}
}

func TestExecuteRoundTrip(t *testing.T) {
	srv, _ := testServer(t)

	req := &transport.Request{
		Program: uuid.New(),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_ELEMENT_GET_NAME, In: []bytecode.OperandId{1}, Out: 2},
		},
		Imports: []transport.Import{{
			Id:     1,
			Object: &bytecode.Imported{ObjectKind: bytecode.KindElement, Connection: srv.ID(), Key: "ok"},
		}},
		Responses: []bytecode.OperandId{2},
	}
	enc, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	out, err := srv.handleExecute(context.Background(), enc)
	if err != nil {
		t.Fatalf("execute: %s", err)
	}
	resp, err := wire.DecodeResponse(out)
	if err != nil {
		t.Fatalf("decode response: %s", err)
	}
	if resp.Status != 0 {
		t.Fatalf("status = %d", resp.Status)
	}
	name, ok := resp.Results[2].(*bytecode.String)
	if !ok || name.Val != "OK" {
		t.Fatalf("result = %v, want \"OK\"", resp.Results[2])
	}
}

func TestExecuteRejectsForeignImports(t *testing.T) {
	srv, _ := testServer(t)

	req := &transport.Request{
		Program: uuid.New(),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_ELEMENT_GET_NAME, In: []bytecode.OperandId{1}, Out: 2},
		},
		Imports: []transport.Import{{
			Id:     1,
			Object: &bytecode.Imported{ObjectKind: bytecode.KindElement, Connection: uuid.New(), Key: "ok"},
		}},
	}
	enc, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	if _, err := srv.handleExecute(context.Background(), enc); err == nil {
		t.Fatalf("expected foreign import rejection")
	}
}

func TestExecListenerObservesExecutions(t *testing.T) {
	srv, _ := testServer(t)

	var seen *transport.Request
	srv = srv.WithExecListener(func(req *transport.Request, resp *transport.Response) {
		seen = req
	})

	req := &transport.Request{
		Program: uuid.New(),
		Instructions: []bytecode.Instruction{
			{Op: bytecode.OP_NEW_INT, Out: 1, Const: &bytecode.Int{Val: 1}},
		},
	}
	enc, err := wire.EncodeRequest(req)
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	if _, err := srv.handleExecute(context.Background(), enc); err != nil {
		t.Fatalf("execute: %s", err)
	}
	if seen == nil || seen.Program != req.Program {
		t.Fatalf("listener did not observe the execution")
	}
}

func TestMaxStepsIsEnforced(t *testing.T) {
	srv, _ := testServer(t)
	srv = srv.WithMaxSteps(3)

	instrs := []bytecode.Instruction{
		{Op: bytecode.OP_NEW_INT, Out: 1, Const: &bytecode.Int{Val: 0}},
		{Op: bytecode.OP_NEW_INT, Out: 2, Const: &bytecode.Int{Val: 1}},
		{Op: bytecode.OP_ADD, In: []bytecode.OperandId{1, 2}},
		{Op: bytecode.OP_ADD, In: []bytecode.OperandId{1, 2}},
	}
	enc, err := wire.EncodeRequest(&transport.Request{Program: uuid.New(), Instructions: instrs})
	if err != nil {
		t.Fatalf("encode: %s", err)
	}
	if _, err := srv.handleExecute(context.Background(), enc); err == nil {
		t.Fatalf("expected budget exhaustion")
	}
}
