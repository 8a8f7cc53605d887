// Package provider carries both halves of the gRPC provider boundary:
// a server that fronts the reference interpreter, and a client-side
// transport.Connection that talks to such a server. The service is
// registered through a hand-built grpc.ServiceDesc over protobuf Struct
// payloads, so neither side depends on generated stubs.
package provider

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/remoteops/remop/internal/interp"
	"github.com/remoteops/remop/internal/transport"
	"github.com/remoteops/remop/internal/wire"
)

const (
	serviceName        = "remop.Provider"
	executeMethod      = "/remop.Provider/Execute"
	capabilitiesMethod = "/remop.Provider/Capabilities"
)

// ExecListener observes completed executions (providerd uses it to feed
// the trace store). Called after the response is built, success only.
type ExecListener func(req *transport.Request, resp *transport.Response)

// Server serves remote-operation programs over gRPC.
type Server struct {
	id       uuid.UUID
	caps     transport.Capabilities
	host     interp.Host
	maxSteps int
	listener ExecListener

	grpcServer *grpc.Server
	mu         sync.Mutex
}

// NewServer creates a provider server backed by host.
func NewServer(host interp.Host, caps transport.Capabilities) *Server {
	return &Server{id: uuid.New(), caps: caps, host: host}
}

// WithMaxSteps bounds the per-execution instruction budget.
func (s *Server) WithMaxSteps(n int) *Server {
	s.maxSteps = n
	return s
}

// WithExecListener registers a completed-execution observer.
func (s *Server) WithExecListener(fn ExecListener) *Server {
	s.listener = fn
	return s
}

// ID returns the server's connection identity. Imported objects must
// carry this id or execution fails.
func (s *Server) ID() uuid.UUID { return s.id }

func (s *Server) handleExecute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := wire.DecodeRequest(in)
	if err != nil {
		return nil, err
	}
	m := &interp.Machine{Connection: s.id, Host: s.host, MaxSteps: s.maxSteps}
	resp, err := m.Run(req)
	if err != nil {
		return nil, err
	}
	if s.listener != nil {
		s.listener(req, resp)
	}
	return wire.EncodeResponse(resp)
}

func (s *Server) handleCapabilities(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	out, err := wire.EncodeCapabilities(s.caps)
	if err != nil {
		return nil, err
	}
	out.Fields["id"] = structpb.NewStringValue(s.id.String())
	return out, nil
}

// serviceDesc builds the gRPC service descriptor by hand; both methods
// are unary Struct -> Struct.
func (s *Server) serviceDesc() *grpc.ServiceDesc {
	unary := func(handle func(context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
		return grpc.MethodDesc{
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				in := &structpb.Struct{}
				if err := dec(in); err != nil {
					return nil, err
				}
				return handle(ctx, in)
			},
		}
	}

	execute := unary(s.handleExecute)
	execute.MethodName = "Execute"
	capabilities := unary(s.handleCapabilities)
	capabilities.MethodName = "Capabilities"

	return &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Methods:     []grpc.MethodDesc{execute, capabilities},
	}
}

// Serve listens on addr and serves until Stop is called.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("provider listen: %w", err)
	}
	return s.ServeListener(lis)
}

// ServeListener serves on an existing listener (tests use a loopback
// listener with a kernel-assigned port).
func (s *Server) ServeListener(lis net.Listener) error {
	s.mu.Lock()
	s.grpcServer = grpc.NewServer()
	s.grpcServer.RegisterService(s.serviceDesc(), s)
	srv := s.grpcServer
	s.mu.Unlock()

	return srv.Serve(lis)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grpcServer != nil {
		s.grpcServer.GracefulStop()
	}
}

// conn is the client side: a transport.Connection over a grpc.ClientConn.
type conn struct {
	cc   *grpc.ClientConn
	id   uuid.UUID
	caps transport.Capabilities
}

// Dial connects to a provider server and fetches its identity and
// capability surface once, up front.
func Dial(ctx context.Context, target string) (transport.Connection, error) {
	cc, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("provider dial: %w", err)
	}

	in, err := structpb.NewStruct(nil)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := cc.Invoke(ctx, capabilitiesMethod, in, out); err != nil {
		cc.Close()
		return nil, fmt.Errorf("provider capabilities: %w", err)
	}
	caps, err := wire.DecodeCapabilities(out)
	if err != nil {
		cc.Close()
		return nil, err
	}
	rawId, _ := out.AsMap()["id"].(string)
	id, err := uuid.Parse(rawId)
	if err != nil {
		cc.Close()
		return nil, fmt.Errorf("provider id: %w", err)
	}

	return &conn{cc: cc, id: id, caps: caps}, nil
}

func (c *conn) ID() uuid.UUID { return c.id }

func (c *conn) Capabilities() transport.Capabilities { return c.caps }

func (c *conn) Execute(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	in, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}
	out := &structpb.Struct{}
	if err := c.cc.Invoke(ctx, executeMethod, in, out); err != nil {
		return nil, fmt.Errorf("remote execution: %w", err)
	}
	return wire.DecodeResponse(out)
}

// Close releases the underlying client connection.
func (c *conn) Close() error { return c.cc.Close() }
