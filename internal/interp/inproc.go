package interp

import (
	"context"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/transport"
)

// InProcConnection executes programs with the reference interpreter in
// the caller's process. It is the connection tests and embedding clients
// use when there is no remote provider.
type InProcConnection struct {
	id       uuid.UUID
	caps     transport.Capabilities
	host     Host
	maxSteps int
}

// NewInProcConnection creates an in-process connection backed by host.
// A nil host fails every domain operation, which try/except regions can
// still observe.
func NewInProcConnection(host Host, caps transport.Capabilities) *InProcConnection {
	return &InProcConnection{id: uuid.New(), caps: caps, host: host}
}

// WithMaxSteps bounds the per-execution instruction budget.
func (c *InProcConnection) WithMaxSteps(n int) *InProcConnection {
	c.maxSteps = n
	return c
}

func (c *InProcConnection) ID() uuid.UUID { return c.id }

func (c *InProcConnection) Capabilities() transport.Capabilities { return c.caps }

func (c *InProcConnection) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := &Machine{Connection: c.id, Host: c.host, MaxSteps: c.maxSteps}
	return m.Run(req)
}
