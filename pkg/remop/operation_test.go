package remop_test

import (
	"context"
	"errors"
	"testing"

	"github.com/remoteops/remop/internal/interp"
	"github.com/remoteops/remop/internal/provider"
	"github.com/remoteops/remop/internal/transport"
	"github.com/remoteops/remop/pkg/remop"
)

func inProc(t *testing.T) transport.Connection {
	t.Helper()
	return interp.NewInProcConnection(nil, transport.Capabilities{Guid: true, CacheRequest: true})
}

func treeConn(t *testing.T) (transport.Connection, *provider.TreeHost) {
	t.Helper()
	host := provider.NewTreeHost(&provider.Node{
		Key:  "root",
		Name: "Desktop",
		Children: []*provider.Node{
			{Key: "ok", Name: "OK", ClassName: "Button"},
			{Key: "input", Name: "Search", ClassName: "Edit", Value: "hello world"},
		},
	})
	return interp.NewInProcConnection(host, transport.Capabilities{Guid: true, CacheRequest: true}), host
}

func execute(t *testing.T, op *remop.Operation) *remop.ResultSet {
	t.Helper()
	rs, err := op.Execute(context.Background())
	if err != nil {
		t.Fatalf("execute: %s", err)
	}
	return rs
}

func wantStatus(t *testing.T, rs *remop.ResultSet, want int32) {
	t.Helper()
	if rs.OperationStatus() != want {
		t.Fatalf("status = %d, want %d", rs.OperationStatus(), want)
	}
}

func TestConditionalScenario(t *testing.T) {
	op := remop.New(inProc(t))

	x := op.NewInt(3)
	three := op.NewInt(3)
	y := op.NewInt(0)
	one := op.NewInt(1)
	two := op.NewInt(2)

	err := op.IfBlock(x.IsEqual(three),
		func() error { y.Set(one); return nil },
		func() error { y.Set(two); return nil },
	)
	if err != nil {
		t.Fatalf("IfBlock: %s", err)
	}

	tok, err := op.RequestResponse(y)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	got, ok := rs.Int(tok)
	if !ok {
		t.Fatalf("no int result for y")
	}
	if got != 1 {
		t.Fatalf("y = %d, want 1", got)
	}
}

func TestBoolLogicMutatesReceiver(t *testing.T) {
	op := remop.New(inProc(t))

	negated := op.NewBool(false)
	negated.Not()

	anded := op.NewBool(true)
	anded.And(op.NewBool(false))

	ored := op.NewBool(false)
	ored.Or(op.NewBool(true))

	negTok, err := op.RequestResponse(negated)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}
	andTok, err := op.RequestResponse(anded)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}
	orTok, err := op.RequestResponse(ored)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	if got, ok := rs.Bool(negTok); !ok || got != true {
		t.Fatalf("Not: got %t (present %t), want true", got, ok)
	}
	if got, ok := rs.Bool(andTok); !ok || got != false {
		t.Fatalf("And: got %t (present %t), want false", got, ok)
	}
	if got, ok := rs.Bool(orTok); !ok || got != true {
		t.Fatalf("Or: got %t (present %t), want true", got, ok)
	}
}

func TestStringConcatMutatesReceiver(t *testing.T) {
	op := remop.New(inProc(t))

	s := op.NewString("hello")
	s.Concat(op.NewString(" world"))
	length := s.Length()

	sTok, err := op.RequestResponse(s)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}
	lenTok, err := op.RequestResponse(length)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	if got, ok := rs.String(sTok); !ok || got != "hello world" {
		t.Fatalf("Concat: got %q (present %t), want %q", got, ok, "hello world")
	}
	if got, ok := rs.Int(lenTok); !ok || got != 11 {
		t.Fatalf("Length after Concat: got %d (present %t), want 11", got, ok)
	}
}

func TestNilStandinArgumentIsBuilderError(t *testing.T) {
	op := remop.New(inProc(t))

	b := op.NewBool(true)
	b.Set(nil)

	if op.Err() == nil {
		t.Fatalf("expected builder error for nil stand-in argument")
	}
	if _, err := op.Execute(context.Background()); err == nil {
		t.Fatalf("Execute accepted a program with a nil stand-in argument")
	}
}

func TestLoopWithBreakScenario(t *testing.T) {
	op := remop.New(inProc(t))

	counter := op.NewInt(0)
	one := op.NewInt(1)
	two := op.NewInt(2)
	cond := op.NewBool(true)

	err := op.WhileBlock(cond,
		func() error {
			counter.Add(one)
			return op.IfBlock(counter.IsEqual(two),
				func() error { return op.BreakLoop() },
				nil,
			)
		},
		nil,
	)
	if err != nil {
		t.Fatalf("WhileBlock: %s", err)
	}

	tok, err := op.RequestResponse(counter)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	if got, _ := rs.Int(tok); got != 2 {
		t.Fatalf("counter = %d, want 2", got)
	}
}

func TestTryExceptCapturesFailureCode(t *testing.T) {
	op := remop.New(inProc(t))

	ten := op.NewInt(10)
	zero := op.NewInt(0)

	var tok remop.ResponseToken
	err := op.TryBlock(
		func() error {
			ten.Divide(zero)
			return nil
		},
		func() error {
			code, err := op.GetCurrentFailureCode()
			if err != nil {
				return err
			}
			tok, err = op.RequestResponse(code)
			return err
		},
	)
	if err != nil {
		t.Fatalf("TryBlock: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	code, ok := rs.Int(tok)
	if !ok {
		t.Fatalf("failure code not returned")
	}
	if code != interp.FailDivideByZero {
		t.Fatalf("failure code = %d, want %d", code, interp.FailDivideByZero)
	}
}

func TestReturnOperationStatusHaltsInPlace(t *testing.T) {
	op := remop.New(inProc(t))

	y := op.NewInt(0)
	one := op.NewInt(1)

	if err := op.ReturnOperationStatus(40); err != nil {
		t.Fatalf("ReturnOperationStatus: %s", err)
	}
	y.Set(one)

	tok, err := op.RequestResponse(y)
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 40)
	if got, _ := rs.Int(tok); got != 0 {
		t.Fatalf("y = %d after halt, want 0", got)
	}
}

func TestRequestResponseIsIdempotent(t *testing.T) {
	op := remop.New(inProc(t))
	x := op.NewInt(5)

	tok1, err := op.RequestResponse(x)
	if err != nil {
		t.Fatalf("first RequestResponse: %s", err)
	}
	tok2, err := op.RequestResponse(x)
	if err != nil {
		t.Fatalf("second RequestResponse: %s", err)
	}
	if tok1 != tok2 {
		t.Fatalf("tokens differ for the same operand")
	}
}

func TestExecuteWithoutConnection(t *testing.T) {
	op := remop.New(nil)
	op.NewInt(1)
	if _, err := op.Execute(context.Background()); !errors.Is(err, remop.ErrNoConnection) {
		t.Fatalf("err = %v, want ErrNoConnection", err)
	}
}

func TestOperationIsSingleUse(t *testing.T) {
	op := remop.New(inProc(t))
	op.NewInt(1)
	execute(t, op)
	if _, err := op.Execute(context.Background()); !errors.Is(err, remop.ErrSpent) {
		t.Fatalf("second Execute = %v, want ErrSpent", err)
	}
}

func TestBreakOutsideLoopIsBuilderError(t *testing.T) {
	op := remop.New(inProc(t))
	if err := op.BreakLoop(); err == nil {
		t.Fatalf("BreakLoop outside loop must fail")
	}
	if _, err := op.Execute(context.Background()); err == nil {
		t.Fatalf("Execute must refuse a broken program")
	}
}

func TestFailureCodeOutsideExceptIsBuilderError(t *testing.T) {
	op := remop.New(inProc(t))
	if _, err := op.GetCurrentFailureCode(); err == nil {
		t.Fatalf("GetCurrentFailureCode outside except must fail")
	}
}

func TestMixingOperationsIsBuilderError(t *testing.T) {
	conn := inProc(t)
	op1 := remop.New(conn)
	op2 := remop.New(conn)

	foreign := op1.NewInt(1)
	local := op2.NewInt(2)
	local.Add(foreign)

	if op2.Err() == nil {
		t.Fatalf("mixing stand-ins across operations must record an error")
	}
	if _, err := op2.Execute(context.Background()); err == nil {
		t.Fatalf("Execute must report the mixing error")
	}
}

func TestCapabilityProbesRequireConnection(t *testing.T) {
	op := remop.New(nil)
	if _, err := op.IsGuidSupported(); !errors.Is(err, remop.ErrNoConnection) {
		t.Fatalf("IsGuidSupported = %v, want ErrNoConnection", err)
	}
	if _, err := op.IsCacheRequestSupported(); !errors.Is(err, remop.ErrNoConnection) {
		t.Fatalf("IsCacheRequestSupported = %v, want ErrNoConnection", err)
	}
	if _, err := op.IsOpcodeSupported(0); !errors.Is(err, remop.ErrNoConnection) {
		t.Fatalf("IsOpcodeSupported = %v, want ErrNoConnection", err)
	}
}

func TestElementScenario(t *testing.T) {
	conn, host := treeConn(t)
	op := remop.New(conn)

	button := op.ImportElement(remop.ObjectRef{Connection: conn.ID(), Key: "ok"})
	nameTok, err := op.RequestResponse(button.GetName())
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}
	button.GetInvokePattern().Invoke()

	edit := op.ImportElement(remop.ObjectRef{Connection: conn.ID(), Key: "input"})
	valueTok, err := op.RequestResponse(edit.GetValuePattern().GetValue())
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)

	if name, _ := rs.String(nameTok); name != "OK" {
		t.Fatalf("button name = %q, want OK", name)
	}
	if value, _ := rs.String(valueTok); value != "hello world" {
		t.Fatalf("edit value = %q, want hello world", value)
	}

	btn, _ := host.Lookup("ok")
	if btn.Invoked != 1 {
		t.Fatalf("invoke count = %d, want 1", btn.Invoked)
	}
}

func TestCrossConnectionImportFailsExecute(t *testing.T) {
	connA, _ := treeConn(t)
	connB, _ := treeConn(t)

	op := remop.New(connA)
	el := op.ImportElement(remop.ObjectRef{Connection: connB.ID(), Key: "ok"})
	if _, err := op.RequestResponse(el.GetName()); err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	if _, err := op.Execute(context.Background()); err == nil {
		t.Fatalf("import from another connection must fail Execute")
	}
}

func TestNavigationChain(t *testing.T) {
	conn, _ := treeConn(t)
	op := remop.New(conn)

	root := op.ImportElement(remop.ObjectRef{Connection: conn.ID(), Key: "root"})
	second := root.GetFirstChild().GetNextSibling()
	tok, err := op.RequestResponse(second.GetName())
	if err != nil {
		t.Fatalf("RequestResponse: %s", err)
	}

	rs := execute(t, op)
	wantStatus(t, rs, 0)
	if name, _ := rs.String(tok); name != "Search" {
		t.Fatalf("second child name = %q, want Search", name)
	}
}
