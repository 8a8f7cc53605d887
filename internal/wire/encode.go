// Package wire converts requests and responses to and from protobuf
// Struct payloads. The messages are fixed well-known types, so client and
// provider need no generated code to interoperate.
package wire

import (
	"encoding/base64"
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

// Version identifies the payload layout. Bumped when the shape changes.
const Version = 1

// EncodeRequest converts a request to its wire payload.
func EncodeRequest(req *transport.Request) (*structpb.Struct, error) {
	instrs := make([]interface{}, 0, len(req.Instructions))
	for _, ins := range req.Instructions {
		enc, err := encodeInstruction(ins)
		if err != nil {
			return nil, err
		}
		instrs = append(instrs, enc)
	}

	imports := make([]interface{}, 0, len(req.Imports))
	for _, imp := range req.Imports {
		imports = append(imports, map[string]interface{}{
			"id":   float64(imp.Id),
			"kind": imp.Object.ObjectKind.String(),
			"conn": imp.Object.Connection.String(),
			"key":  imp.Object.Key,
		})
	}

	responses := make([]interface{}, 0, len(req.Responses))
	for _, id := range req.Responses {
		responses = append(responses, float64(id))
	}

	return structpb.NewStruct(map[string]interface{}{
		"version":      float64(Version),
		"program":      req.Program.String(),
		"instructions": instrs,
		"imports":      imports,
		"responses":    responses,
	})
}

func encodeInstruction(ins bytecode.Instruction) (map[string]interface{}, error) {
	in := make([]interface{}, 0, len(ins.In))
	for _, id := range ins.In {
		in = append(in, float64(id))
	}
	enc := map[string]interface{}{
		"op": float64(ins.Op),
		"in": in,
	}
	if ins.Out.IsValid() {
		enc["out"] = float64(ins.Out)
	}
	if ins.Op == bytecode.OP_SCOPE_BEGIN {
		enc["block"] = float64(ins.Block)
	}
	if ins.Const != nil {
		c, err := encodeValue(ins.Const)
		if err != nil {
			return nil, err
		}
		enc["const"] = c
	}
	return enc, nil
}

// EncodeResponse converts a response to its wire payload.
func EncodeResponse(resp *transport.Response) (*structpb.Struct, error) {
	results := make(map[string]interface{}, len(resp.Results))
	for id, v := range resp.Results {
		enc, err := encodeValue(v)
		if err != nil {
			return nil, err
		}
		results[fmt.Sprintf("%d", id)] = enc
	}
	return structpb.NewStruct(map[string]interface{}{
		"version": float64(Version),
		"status":  float64(resp.Status),
		"results": results,
	})
}

// EncodeCapabilities converts a capability surface to its wire payload.
func EncodeCapabilities(caps transport.Capabilities) (*structpb.Struct, error) {
	fields := map[string]interface{}{
		"guid":         caps.Guid,
		"cacherequest": caps.CacheRequest,
	}
	if caps.Opcodes != nil {
		ops := make([]interface{}, 0, len(caps.Opcodes))
		for op, ok := range caps.Opcodes {
			if ok {
				ops = append(ops, float64(op))
			}
		}
		fields["opcodes"] = ops
	}
	return structpb.NewStruct(fields)
}

// encodeValue renders a value as a {"t": kind, "v": payload} map.
func encodeValue(v bytecode.Value) (map[string]interface{}, error) {
	out := map[string]interface{}{"t": v.Kind().String()}
	switch val := v.(type) {
	case *bytecode.Null, *bytecode.Empty:
		// no payload
	case *bytecode.Bool:
		out["v"] = val.Val
	case *bytecode.Int:
		out["v"] = float64(val.Val)
	case *bytecode.Uint:
		out["v"] = float64(val.Val)
	case *bytecode.Double:
		out["v"] = val.Val
	case *bytecode.Char:
		out["v"] = float64(val.Val)
	case *bytecode.String:
		out["v"] = val.Val
	case *bytecode.Point:
		out["v"] = map[string]interface{}{"x": val.X, "y": val.Y}
	case *bytecode.Rect:
		out["v"] = map[string]interface{}{"x": val.X, "y": val.Y, "w": val.Width, "h": val.Height}
	case *bytecode.Guid:
		out["v"] = val.Val.String()
	case *bytecode.ByteArray:
		out["v"] = base64.StdEncoding.EncodeToString(val.Val)
	case *bytecode.Array:
		items := make([]interface{}, 0, len(val.Items))
		for _, item := range val.Items {
			enc, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, enc)
		}
		out["v"] = items
	case *bytecode.StringMap:
		entries := make(map[string]interface{}, len(val.Entries))
		for k, item := range val.Entries {
			enc, err := encodeValue(item)
			if err != nil {
				return nil, err
			}
			entries[k] = enc
		}
		out["v"] = entries
	case *bytecode.Enum:
		out["v"] = map[string]interface{}{"type": val.Type, "val": float64(val.Val)}
	case *bytecode.CacheRequest:
		props := make([]interface{}, 0, len(val.Properties))
		for _, p := range val.Properties {
			props = append(props, float64(p))
		}
		out["v"] = props
	case *bytecode.Imported:
		out["v"] = map[string]interface{}{"conn": val.Connection.String(), "key": val.Key}
	case *bytecode.Pattern:
		out["v"] = map[string]interface{}{"name": val.Name, "key": val.Key}
	default:
		return nil, fmt.Errorf("cannot encode value of kind %s", v.Kind())
	}
	return out, nil
}
