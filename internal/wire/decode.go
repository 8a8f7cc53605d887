package wire

import (
	"encoding/base64"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

// kindByName is the inverse of bytecode.KindNames.
var kindByName = func() map[string]bytecode.Kind {
	m := make(map[string]bytecode.Kind, len(bytecode.KindNames))
	for k, name := range bytecode.KindNames {
		m[name] = k
	}
	return m
}()

// DecodeRequest parses a request payload.
func DecodeRequest(s *structpb.Struct) (*transport.Request, error) {
	fields := s.AsMap()
	if err := checkVersion(fields); err != nil {
		return nil, err
	}

	req := &transport.Request{}

	if raw, ok := fields["program"].(string); ok {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("bad program id: %w", err)
		}
		req.Program = id
	}

	rawInstrs, ok := fields["instructions"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("request has no instruction list")
	}
	for i, raw := range rawInstrs {
		ins, err := decodeInstruction(raw)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		req.Instructions = append(req.Instructions, ins)
	}

	if rawImports, ok := fields["imports"].([]interface{}); ok {
		for i, raw := range rawImports {
			imp, err := decodeImport(raw)
			if err != nil {
				return nil, fmt.Errorf("import %d: %w", i, err)
			}
			req.Imports = append(req.Imports, imp)
		}
	}

	if rawResponses, ok := fields["responses"].([]interface{}); ok {
		for _, raw := range rawResponses {
			n, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("non-numeric response id %v", raw)
			}
			req.Responses = append(req.Responses, bytecode.OperandId(n))
		}
	}

	return req, nil
}

func checkVersion(fields map[string]interface{}) error {
	v, ok := fields["version"].(float64)
	if !ok {
		return fmt.Errorf("payload has no version")
	}
	if int(v) != Version {
		return fmt.Errorf("unsupported payload version %d", int(v))
	}
	return nil
}

func decodeInstruction(raw interface{}) (bytecode.Instruction, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return bytecode.Instruction{}, fmt.Errorf("not an instruction object")
	}

	op, ok := m["op"].(float64)
	if !ok {
		return bytecode.Instruction{}, fmt.Errorf("missing opcode")
	}
	ins := bytecode.Instruction{Op: bytecode.Opcode(op)}

	if rawIn, ok := m["in"].([]interface{}); ok {
		for _, r := range rawIn {
			n, ok := r.(float64)
			if !ok {
				return bytecode.Instruction{}, fmt.Errorf("non-numeric input id %v", r)
			}
			ins.In = append(ins.In, bytecode.OperandId(n))
		}
	}
	if out, ok := m["out"].(float64); ok {
		ins.Out = bytecode.OperandId(out)
	}
	if block, ok := m["block"].(float64); ok {
		ins.Block = bytecode.ScopeKind(block)
	}
	if rawConst, ok := m["const"]; ok {
		c, err := decodeValue(rawConst)
		if err != nil {
			return bytecode.Instruction{}, err
		}
		ins.Const = c
	}
	return ins, nil
}

func decodeImport(raw interface{}) (transport.Import, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return transport.Import{}, fmt.Errorf("not an import object")
	}
	id, ok := m["id"].(float64)
	if !ok {
		return transport.Import{}, fmt.Errorf("missing operand id")
	}
	kindName, _ := m["kind"].(string)
	kind, ok := kindByName[kindName]
	if !ok {
		return transport.Import{}, fmt.Errorf("unknown import kind %q", kindName)
	}
	connRaw, _ := m["conn"].(string)
	conn, err := uuid.Parse(connRaw)
	if err != nil {
		return transport.Import{}, fmt.Errorf("bad connection id: %w", err)
	}
	key, _ := m["key"].(string)
	return transport.Import{
		Id:     bytecode.OperandId(id),
		Object: &bytecode.Imported{ObjectKind: kind, Connection: conn, Key: key},
	}, nil
}

// DecodeResponse parses a response payload.
func DecodeResponse(s *structpb.Struct) (*transport.Response, error) {
	fields := s.AsMap()
	if err := checkVersion(fields); err != nil {
		return nil, err
	}

	resp := &transport.Response{Results: make(map[bytecode.OperandId]bytecode.Value)}
	if status, ok := fields["status"].(float64); ok {
		resp.Status = int32(status)
	}
	if results, ok := fields["results"].(map[string]interface{}); ok {
		for key, raw := range results {
			var id bytecode.OperandId
			if _, err := fmt.Sscanf(key, "%d", &id); err != nil {
				return nil, fmt.Errorf("bad result operand id %q", key)
			}
			v, err := decodeValue(raw)
			if err != nil {
				return nil, fmt.Errorf("result $%d: %w", id, err)
			}
			resp.Results[id] = v
		}
	}
	return resp, nil
}

// DecodeCapabilities parses a capability payload.
func DecodeCapabilities(s *structpb.Struct) (transport.Capabilities, error) {
	fields := s.AsMap()
	caps := transport.Capabilities{}
	caps.Guid, _ = fields["guid"].(bool)
	caps.CacheRequest, _ = fields["cacherequest"].(bool)
	if rawOps, ok := fields["opcodes"].([]interface{}); ok {
		caps.Opcodes = make(map[bytecode.Opcode]bool, len(rawOps))
		for _, raw := range rawOps {
			n, ok := raw.(float64)
			if !ok {
				return caps, fmt.Errorf("non-numeric opcode %v", raw)
			}
			caps.Opcodes[bytecode.Opcode(n)] = true
		}
	}
	return caps, nil
}

func decodeValue(raw interface{}) (bytecode.Value, error) {
	m, ok := raw.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("not a value object")
	}
	kindName, _ := m["t"].(string)
	kind, ok := kindByName[kindName]
	if !ok {
		return nil, fmt.Errorf("unknown value kind %q", kindName)
	}
	payload := m["v"]

	switch kind {
	case bytecode.KindNull:
		return &bytecode.Null{}, nil
	case bytecode.KindEmpty:
		return &bytecode.Empty{}, nil
	case bytecode.KindBool:
		b, ok := payload.(bool)
		if !ok {
			return nil, fmt.Errorf("bool value with non-bool payload")
		}
		return &bytecode.Bool{Val: b}, nil
	case bytecode.KindInt:
		n, ok := payload.(float64)
		if !ok {
			return nil, fmt.Errorf("int value with non-numeric payload")
		}
		return &bytecode.Int{Val: int32(n)}, nil
	case bytecode.KindUint:
		n, ok := payload.(float64)
		if !ok {
			return nil, fmt.Errorf("uint value with non-numeric payload")
		}
		return &bytecode.Uint{Val: uint32(n)}, nil
	case bytecode.KindDouble:
		n, ok := payload.(float64)
		if !ok {
			return nil, fmt.Errorf("double value with non-numeric payload")
		}
		return &bytecode.Double{Val: n}, nil
	case bytecode.KindChar:
		n, ok := payload.(float64)
		if !ok {
			return nil, fmt.Errorf("char value with non-numeric payload")
		}
		return &bytecode.Char{Val: rune(n)}, nil
	case bytecode.KindString:
		s, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("string value with non-string payload")
		}
		return &bytecode.String{Val: s}, nil
	case bytecode.KindPoint:
		pm, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("point value with bad payload")
		}
		x, _ := pm["x"].(float64)
		y, _ := pm["y"].(float64)
		return &bytecode.Point{X: x, Y: y}, nil
	case bytecode.KindRect:
		rm, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("rect value with bad payload")
		}
		x, _ := rm["x"].(float64)
		y, _ := rm["y"].(float64)
		w, _ := rm["w"].(float64)
		h, _ := rm["h"].(float64)
		return &bytecode.Rect{X: x, Y: y, Width: w, Height: h}, nil
	case bytecode.KindGuid:
		s, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("guid value with non-string payload")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("bad guid: %w", err)
		}
		return &bytecode.Guid{Val: id}, nil
	case bytecode.KindByteArray:
		s, ok := payload.(string)
		if !ok {
			return nil, fmt.Errorf("byte array value with non-string payload")
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("bad byte array: %w", err)
		}
		return &bytecode.ByteArray{Val: b}, nil
	case bytecode.KindArray:
		items, ok := payload.([]interface{})
		if !ok {
			return nil, fmt.Errorf("array value with bad payload")
		}
		arr := &bytecode.Array{}
		for i, item := range items {
			v, err := decodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("array item %d: %w", i, err)
			}
			arr.Items = append(arr.Items, v)
		}
		return arr, nil
	case bytecode.KindStringMap:
		entries, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("string map value with bad payload")
		}
		sm := &bytecode.StringMap{Entries: make(map[string]bytecode.Value, len(entries))}
		for k, item := range entries {
			v, err := decodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("map entry %q: %w", k, err)
			}
			sm.Entries[k] = v
		}
		return sm, nil
	case bytecode.KindEnum:
		em, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("enum value with bad payload")
		}
		typ, _ := em["type"].(string)
		val, _ := em["val"].(float64)
		return &bytecode.Enum{Type: typ, Val: int32(val)}, nil
	case bytecode.KindCacheRequest:
		props, ok := payload.([]interface{})
		if !ok {
			return nil, fmt.Errorf("cache request value with bad payload")
		}
		cr := &bytecode.CacheRequest{}
		for _, raw := range props {
			n, ok := raw.(float64)
			if !ok {
				return nil, fmt.Errorf("non-numeric cached property id")
			}
			cr.Properties = append(cr.Properties, int32(n))
		}
		return cr, nil
	case bytecode.KindElement, bytecode.KindTextRange, bytecode.KindConnectionBoundObject:
		im, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("imported value with bad payload")
		}
		connRaw, _ := im["conn"].(string)
		conn, err := uuid.Parse(connRaw)
		if err != nil {
			return nil, fmt.Errorf("bad connection id: %w", err)
		}
		key, _ := im["key"].(string)
		return &bytecode.Imported{ObjectKind: kind, Connection: conn, Key: key}, nil
	case bytecode.KindPattern:
		pm, ok := payload.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("pattern value with bad payload")
		}
		name, _ := pm["name"].(string)
		key, _ := pm["key"].(string)
		return &bytecode.Pattern{Name: name, Key: key}, nil
	}
	return nil, fmt.Errorf("unhandled value kind %q", kindName)
}
