// Package remop is the client surface for building and executing remote
// operations.
//
// There are two ways to add instructions to an operation:
//
//  1. Import an existing provider-side object (element, text range,
//     connection-bound object), obtaining a local stand-in for it.
//     Calling methods on the stand-in appends instructions; most methods
//     return a new stand-in for the result, so calls chain.
//
//  2. Create a new remote value with NewInt, NewBool and friends. These
//     also return stand-ins; the difference is that such values are not
//     tied to any particular provider object.
//
// Nothing executes while the program is being built. Execute ships the
// whole program across the process boundary once and returns only the
// values explicitly requested with RequestResponse. Importing objects
// that belong to different provider connections makes Execute fail.
//
// An Operation is a single logical sequence of calls; it is not safe for
// concurrent use.
package remop

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/graph"
	"github.com/remoteops/remop/internal/transport"
)

// Value is a final runtime value in a ResultSet.
type Value = bytecode.Value

// Opcode identifies an instruction for capability probes.
type Opcode = bytecode.Opcode

// ErrNoConnection is returned by Execute and the capability probes when
// the operation was created without a provider connection.
var ErrNoConnection = transport.ErrNoConnection

// ErrSpent is returned by Execute when the program was already executed.
var ErrSpent = errors.New("operation already executed")

// ObjectRef identifies a live provider-side object that can be imported
// into an operation. The accessibility object source hands these out;
// Connection ties the object to the provider connection it came from.
type ObjectRef struct {
	Connection uuid.UUID
	Key        string
}

// Operation builds one remote-operation program.
type Operation struct {
	program uuid.UUID
	conn    transport.Connection
	graph   *graph.Graph

	imports   []transport.Import
	responses []bytecode.OperandId
	tokens    map[bytecode.OperandId]ResponseToken

	err   error // first builder error; Execute reports it
	spent bool
}

// New creates an empty operation bound to conn. A nil connection is
// allowed for offline program construction; Execute and the capability
// probes then fail with ErrNoConnection.
func New(conn transport.Connection) *Operation {
	return &Operation{
		program: uuid.New(),
		conn:    conn,
		graph:   graph.New(),
		tokens:  make(map[bytecode.OperandId]ResponseToken),
	}
}

// Err returns the first builder error recorded so far, if any.
func (op *Operation) Err() error { return op.err }

// fail records a builder error. The first one sticks; Execute refuses to
// run a program whose construction went wrong.
func (op *Operation) fail(err error) {
	if op.err == nil {
		op.err = err
	}
}

// insert appends an instruction to the current scope, recording any
// builder error.
func (op *Operation) insert(ins bytecode.Instruction) {
	if err := op.graph.Insert(ins); err != nil {
		op.fail(err)
	}
}

// newConstant allocates an operand seeded with a constant value.
func (op *Operation) newConstant(opcode bytecode.Opcode, v bytecode.Value) standin {
	id := op.graph.Allocate()
	op.insert(bytecode.Instruction{Op: opcode, Out: id, Const: v})
	return standin{op: op, id: id}
}

// NewBool creates a remote bool initialized to v.
func (op *Operation) NewBool(v bool) *Bool {
	return &Bool{op.newConstant(bytecode.OP_NEW_BOOL, &bytecode.Bool{Val: v})}
}

// NewInt creates a remote 32-bit int initialized to v.
func (op *Operation) NewInt(v int32) *Int {
	return &Int{op.newConstant(bytecode.OP_NEW_INT, &bytecode.Int{Val: v})}
}

// NewUint creates a remote 32-bit uint initialized to v.
func (op *Operation) NewUint(v uint32) *Uint {
	return &Uint{op.newConstant(bytecode.OP_NEW_UINT, &bytecode.Uint{Val: v})}
}

// NewDouble creates a remote double initialized to v.
func (op *Operation) NewDouble(v float64) *Double {
	return &Double{op.newConstant(bytecode.OP_NEW_DOUBLE, &bytecode.Double{Val: v})}
}

// NewChar creates a remote character initialized to v.
func (op *Operation) NewChar(v rune) *Char {
	return &Char{op.newConstant(bytecode.OP_NEW_CHAR, &bytecode.Char{Val: v})}
}

// NewString creates a remote string initialized to v.
func (op *Operation) NewString(v string) *String {
	return &String{op.newConstant(bytecode.OP_NEW_STRING, &bytecode.String{Val: v})}
}

// NewPoint creates a remote point.
func (op *Operation) NewPoint(x, y float64) *Point {
	return &Point{op.newConstant(bytecode.OP_NEW_POINT, &bytecode.Point{X: x, Y: y})}
}

// NewRect creates a remote rectangle.
func (op *Operation) NewRect(x, y, width, height float64) *Rect {
	return &Rect{op.newConstant(bytecode.OP_NEW_RECT, &bytecode.Rect{X: x, Y: y, Width: width, Height: height})}
}

// NewGuid creates a remote guid. Probe IsGuidSupported first; the
// builder itself performs no capability validation.
func (op *Operation) NewGuid(v uuid.UUID) *Guid {
	return &Guid{op.newConstant(bytecode.OP_NEW_GUID, &bytecode.Guid{Val: v})}
}

// NewArray creates an empty remote array.
func (op *Operation) NewArray() *Array {
	id := op.graph.Allocate()
	op.insert(bytecode.Instruction{Op: bytecode.OP_NEW_ARRAY, Out: id})
	return &Array{standin{op: op, id: id}}
}

// NewStringMap creates an empty remote string-keyed map.
func (op *Operation) NewStringMap() *StringMap {
	id := op.graph.Allocate()
	op.insert(bytecode.Instruction{Op: bytecode.OP_NEW_STRING_MAP, Out: id})
	return &StringMap{standin{op: op, id: id}}
}

// NewNull creates a remote typed null.
func (op *Operation) NewNull() *AnyObject {
	return &AnyObject{op.newConstant(bytecode.OP_NEW_NULL, &bytecode.Null{})}
}

// NewEmpty creates a remote uninitialized slot.
func (op *Operation) NewEmpty() *AnyObject {
	return &AnyObject{op.newConstant(bytecode.OP_NEW_EMPTY, &bytecode.Empty{})}
}

// NewByteArray creates a remote byte array initialized to v.
func (op *Operation) NewByteArray(v []byte) *ByteArray {
	buf := make([]byte, len(v))
	copy(buf, v)
	return &ByteArray{op.newConstant(bytecode.OP_NEW_BYTE_ARRAY, &bytecode.ByteArray{Val: buf})}
}

// NewCacheRequest creates a remote cache request. Probe
// IsCacheRequestSupported first.
func (op *Operation) NewCacheRequest() *CacheRequest {
	return &CacheRequest{op.newConstant(bytecode.OP_NEW_CACHE_REQUEST, &bytecode.CacheRequest{})}
}

// NewEnum creates a remote enum value of the named enum type (e.g.
// "ControlType", "ToggleState").
func (op *Operation) NewEnum(enumType string, v int32) *Enum {
	return &Enum{
		standin:  op.newConstant(bytecode.OP_NEW_ENUM, &bytecode.Enum{Type: enumType, Val: v}),
		enumType: enumType,
	}
}

// importObject binds a live object to a fresh operand. Imports touch the
// import table, not the instruction graph.
func (op *Operation) importObject(kind bytecode.Kind, ref ObjectRef) standin {
	id := op.graph.Allocate()
	op.imports = append(op.imports, transport.Import{
		Id: id,
		Object: &bytecode.Imported{
			ObjectKind: kind,
			Connection: ref.Connection,
			Key:        ref.Key,
		},
	})
	return standin{op: op, id: id}
}

// ImportElement binds a live element as a starting operand.
func (op *Operation) ImportElement(ref ObjectRef) *Element {
	return &Element{op.importObject(bytecode.KindElement, ref)}
}

// ImportTextRange binds a live text range as a starting operand.
func (op *Operation) ImportTextRange(ref ObjectRef) *TextRange {
	return &TextRange{op.importObject(bytecode.KindTextRange, ref)}
}

// ImportConnectionBoundObject binds a live connection-bound object as a
// starting operand.
func (op *Operation) ImportConnectionBoundObject(ref ObjectRef) *ConnectionBoundObject {
	return &ConnectionBoundObject{op.importObject(bytecode.KindConnectionBoundObject, ref)}
}

// RequestResponse marks a stand-in's operand to be marshaled back after
// execution. Requesting the same operand again returns the same token.
func (op *Operation) RequestResponse(s Standin) (ResponseToken, error) {
	if isNilStandin(s) || s.operation() == nil {
		return ResponseToken{}, fmt.Errorf("request response: nil stand-in")
	}
	if s.operation() != op {
		err := fmt.Errorf("request response: stand-in belongs to a different operation")
		op.fail(err)
		return ResponseToken{}, err
	}
	id := s.operandId()
	if tok, ok := op.tokens[id]; ok {
		return tok, nil
	}
	tok := ResponseToken{operand: id}
	op.tokens[id] = tok
	op.responses = append(op.responses, id)
	return tok, nil
}

// IsOpcodeSupported reports whether the active connection executes the
// given opcode. It requires an active connection.
func (op *Operation) IsOpcodeSupported(code Opcode) (bool, error) {
	if op.conn == nil {
		return false, ErrNoConnection
	}
	return op.conn.Capabilities().SupportsOpcode(code), nil
}

// IsGuidSupported reports whether guid operands are supported.
func (op *Operation) IsGuidSupported() (bool, error) {
	if op.conn == nil {
		return false, ErrNoConnection
	}
	return op.conn.Capabilities().Guid, nil
}

// IsCacheRequestSupported reports whether cache-request operands are
// supported.
func (op *Operation) IsCacheRequestSupported() (bool, error) {
	if op.conn == nil {
		return false, ErrNoConnection
	}
	return op.conn.Capabilities().CacheRequest, nil
}

// Instructions returns the linearized instruction stream of the program
// as built so far. Intended for diagnostics and disassembly.
func (op *Operation) Instructions() []bytecode.Instruction {
	return op.graph.Linearize()
}

// Disassemble returns a readable listing of the program as built so far.
func (op *Operation) Disassemble() string {
	return bytecode.Disassemble(op.graph.Linearize(), op.program.String())
}

// Execute linearizes the program, ships it to the provider and returns
// the requested values. The operation is spent afterwards whether or not
// execution succeeded; partial results are never returned.
func (op *Operation) Execute(ctx context.Context) (*ResultSet, error) {
	if op.spent {
		return nil, ErrSpent
	}
	op.spent = true

	if op.conn == nil {
		return nil, ErrNoConnection
	}
	if op.err != nil {
		return nil, fmt.Errorf("program construction failed: %w", op.err)
	}

	stream := op.graph.Linearize()

	predefined := make([]bytecode.OperandId, 0, len(op.imports))
	for _, imp := range op.imports {
		predefined = append(predefined, imp.Id)
	}
	if err := graph.ValidateStream(stream, op.graph.NextId(), predefined); err != nil {
		return nil, fmt.Errorf("invalid program: %w", err)
	}

	req := &transport.Request{
		Program:      op.program,
		Instructions: stream,
		Imports:      op.imports,
		Responses:    op.responses,
	}
	resp, err := op.conn.Execute(ctx, req)
	if err != nil {
		return nil, err
	}
	return &ResultSet{status: resp.Status, results: resp.Results}, nil
}
