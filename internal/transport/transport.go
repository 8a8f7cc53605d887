// Package transport defines the provider-connection boundary: the
// request/response shapes a linearized program crosses the process
// boundary with, the capability surface a client can probe, and the
// Connection implementations (in-process and gRPC).
package transport

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
)

// ErrNoConnection is returned by capability probes and Execute when the
// operation was built without an active provider connection.
var ErrNoConnection = errors.New("no active provider connection")

// Capabilities describes what the negotiated connection supports. The
// builder performs no post-hoc validation, so clients probe these before
// emitting instructions that depend on them.
type Capabilities struct {
	// Guid reports whether guid operands are supported.
	Guid bool

	// CacheRequest reports whether cache-request operands are supported.
	CacheRequest bool

	// Opcodes is the set of supported opcodes. A nil set means every
	// known opcode is supported.
	Opcodes map[bytecode.Opcode]bool
}

// SupportsOpcode reports whether the connection executes op.
func (c Capabilities) SupportsOpcode(op bytecode.Opcode) bool {
	if !op.IsKnown() {
		return false
	}
	if c.Opcodes == nil {
		return true
	}
	return c.Opcodes[op]
}

// Import binds an operand id to a provider-side object for the duration
// of one execution.
type Import struct {
	Id     bytecode.OperandId
	Object *bytecode.Imported
}

// Request is one complete program handed to a provider: the flat
// instruction stream, the imported-object bindings and the set of
// operands whose final values the client wants back.
type Request struct {
	Program      uuid.UUID
	Instructions []bytecode.Instruction
	Imports      []Import
	Responses    []bytecode.OperandId
}

// Response carries the outcome of a successful execution: the operation
// status plus the final value of every requested operand that was
// computed before the program finished. Requested operands the program
// never reached are absent.
type Response struct {
	Status  int32
	Results map[bytecode.OperandId]bytecode.Value
}

// Connection is an active provider connection. Implementations must
// reject imported objects that belong to a different connection by
// failing the whole execution.
type Connection interface {
	// ID is the stable identity imported objects are checked against.
	ID() uuid.UUID

	// Capabilities returns the negotiated capability surface.
	Capabilities() Capabilities

	// Execute runs one program to completion inside the provider and
	// returns its response, or an error if the execution failed as a
	// whole. Partial results are never returned.
	Execute(ctx context.Context, req *Request) (*Response, error)
}
