// Package interp is the reference provider-side interpreter. It executes
// a linearized instruction stream literally: constants and assignment,
// arithmetic and comparisons, structured control flow reconstructed from
// the scope markers, and try/except failure capture. Domain operations
// (elements, patterns, text ranges) are delegated to a Host.
package interp

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/transport"
)

// Failure codes reported for errors raised while executing instructions.
// A try/except region observes them through GET_FAILURE_CODE.
const (
	StatusSuccess        int32 = 0
	FailUnsupportedOp    int32 = 1
	FailTypeMismatch     int32 = 2
	FailDivideByZero     int32 = 3
	FailIndexOutOfRange  int32 = 4
	FailKeyNotFound      int32 = 5
	FailNoSuchObject     int32 = 6
	FailNotImplemented   int32 = 7
	FailMalformedProgram int32 = 8
)

// Host executes domain opcodes against whatever object tree the provider
// fronts. Tests plug in fixtures; providerd plugs in its configured host.
type Host interface {
	Call(op bytecode.Opcode, recv bytecode.Value, args []bytecode.Value) (bytecode.Value, error)
}

// opFailure is a runtime failure raised by an instruction. It is caught
// by the nearest enclosing try region; uncaught it fails the whole
// execution.
type opFailure struct {
	code int32
	op   bytecode.Opcode
}

func (f *opFailure) Error() string {
	return fmt.Sprintf("instruction %s failed with code %d", f.op, f.code)
}

// Fail builds a failure a Host can return to surface a domain failure
// code into the program's try/except handling.
func Fail(code int32) error { return &opFailure{code: code} }

// FailureCode extracts the failure code from a Host error; non-opFailure
// errors map to FailNotImplemented.
func failureCode(op bytecode.Opcode, err error) *opFailure {
	if f, ok := err.(*opFailure); ok {
		return &opFailure{code: f.code, op: op}
	}
	return &opFailure{code: FailNotImplemented, op: op}
}

// control-flow sentinels, meaningful only inside a loop region
var (
	errBreak    = fmt.Errorf("break outside loop")
	errContinue = fmt.Errorf("continue outside loop")
)

// Machine executes one request. It is single-use, like the program it
// runs.
type Machine struct {
	// Connection is the identity imports are validated against.
	Connection uuid.UUID

	// Host handles domain opcodes. Nil fails them with FailNotImplemented,
	// which a try/except region can still observe.
	Host Host

	// MaxSteps bounds the number of executed instructions (0 = default).
	MaxSteps int

	slots   map[bytecode.OperandId]bytecode.Value
	status  int32
	halted  bool
	steps   int
	failure []int32 // stack of failure codes for nested except regions
}

const defaultMaxSteps = 1 << 20

// Run executes the request and returns its response. A failure that no
// try region catches, a malformed stream, or a cross-connection import
// fails the whole run; no partial response is returned.
func (m *Machine) Run(req *transport.Request) (*transport.Response, error) {
	m.slots = make(map[bytecode.OperandId]bytecode.Value)
	if m.MaxSteps == 0 {
		m.MaxSteps = defaultMaxSteps
	}

	for _, imp := range req.Imports {
		if imp.Object == nil || !imp.Id.IsValid() {
			return nil, fmt.Errorf("malformed import binding for $%d", imp.Id)
		}
		if imp.Object.Connection != m.Connection {
			return nil, fmt.Errorf("import $%d belongs to connection %s, not %s",
				imp.Id, imp.Object.Connection, m.Connection)
		}
		m.slots[imp.Id] = imp.Object
	}

	root, err := parseStream(req.Instructions)
	if err != nil {
		return nil, err
	}

	if err := m.execRegion(root); err != nil {
		return nil, fmt.Errorf("execution failed: %w", err)
	}

	resp := &transport.Response{
		Status:  m.status,
		Results: make(map[bytecode.OperandId]bytecode.Value, len(req.Responses)),
	}
	for _, id := range req.Responses {
		if v, ok := m.slots[id]; ok {
			resp.Results[id] = v
		}
	}
	return resp, nil
}

func (m *Machine) execRegion(r *region) error {
	for i := range r.items {
		if m.halted {
			return nil
		}
		if err := m.step(&r.items[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) step(it *item) error {
	m.steps++
	if m.steps > m.MaxSteps {
		return fmt.Errorf("instruction budget exceeded (%d)", m.MaxSteps)
	}

	ins := it.ins
	switch ins.Op {
	case bytecode.OP_NOP:
		return nil

	case bytecode.OP_NEW_BOOL, bytecode.OP_NEW_INT, bytecode.OP_NEW_UINT,
		bytecode.OP_NEW_DOUBLE, bytecode.OP_NEW_CHAR, bytecode.OP_NEW_STRING,
		bytecode.OP_NEW_POINT, bytecode.OP_NEW_RECT, bytecode.OP_NEW_GUID,
		bytecode.OP_NEW_NULL, bytecode.OP_NEW_EMPTY, bytecode.OP_NEW_BYTE_ARRAY,
		bytecode.OP_NEW_CACHE_REQUEST, bytecode.OP_NEW_ENUM:
		if ins.Const == nil {
			return fmt.Errorf("%s without constant payload", ins.Op)
		}
		m.slots[ins.Out] = ins.Const
		return nil

	case bytecode.OP_NEW_ARRAY:
		m.slots[ins.Out] = &bytecode.Array{}
		return nil

	case bytecode.OP_NEW_STRING_MAP:
		m.slots[ins.Out] = &bytecode.StringMap{Entries: make(map[string]bytecode.Value)}
		return nil

	case bytecode.OP_SET:
		src, err := m.load(ins, 1)
		if err != nil {
			return err
		}
		m.slots[ins.In[0]] = src
		return nil

	case bytecode.OP_IS_EQUAL, bytecode.OP_IS_NOT_EQUAL:
		lhs, err := m.load(ins, 0)
		if err != nil {
			return err
		}
		rhs, err := m.load(ins, 1)
		if err != nil {
			return err
		}
		eq := bytecode.ValuesEqual(lhs, rhs)
		if ins.Op == bytecode.OP_IS_NOT_EQUAL {
			eq = !eq
		}
		m.slots[ins.Out] = &bytecode.Bool{Val: eq}
		return nil

	case bytecode.OP_ADD, bytecode.OP_SUBTRACT, bytecode.OP_MULTIPLY, bytecode.OP_DIVIDE:
		return m.arithmetic(ins)

	case bytecode.OP_IS_LESS_THAN, bytecode.OP_IS_LESS_THAN_OR_EQUAL,
		bytecode.OP_IS_GREATER_THAN, bytecode.OP_IS_GREATER_THAN_OR_EQUAL:
		return m.compare(ins)

	case bytecode.OP_BOOL_NOT:
		v, err := m.loadBool(ins, 0)
		if err != nil {
			return err
		}
		m.slots[ins.In[0]] = &bytecode.Bool{Val: !v}
		return nil

	case bytecode.OP_BOOL_AND, bytecode.OP_BOOL_OR:
		lhs, err := m.loadBool(ins, 0)
		if err != nil {
			return err
		}
		rhs, err := m.loadBool(ins, 1)
		if err != nil {
			return err
		}
		if ins.Op == bytecode.OP_BOOL_AND {
			m.slots[ins.In[0]] = &bytecode.Bool{Val: lhs && rhs}
		} else {
			m.slots[ins.In[0]] = &bytecode.Bool{Val: lhs || rhs}
		}
		return nil

	case bytecode.OP_STRING_CONCAT:
		lhs, err := m.loadString(ins, 0)
		if err != nil {
			return err
		}
		rhs, err := m.loadString(ins, 1)
		if err != nil {
			return err
		}
		m.slots[ins.In[0]] = &bytecode.String{Val: lhs + rhs}
		return nil

	case bytecode.OP_STRING_LENGTH:
		s, err := m.loadString(ins, 0)
		if err != nil {
			return err
		}
		m.slots[ins.Out] = &bytecode.Int{Val: int32(len([]rune(s)))}
		return nil

	case bytecode.OP_ARRAY_APPEND, bytecode.OP_ARRAY_GET_AT,
		bytecode.OP_ARRAY_REMOVE_AT, bytecode.OP_ARRAY_SIZE:
		return m.arrayOp(ins)

	case bytecode.OP_STRINGMAP_INSERT, bytecode.OP_STRINGMAP_LOOKUP,
		bytecode.OP_STRINGMAP_HAS_KEY, bytecode.OP_STRINGMAP_REMOVE,
		bytecode.OP_STRINGMAP_SIZE:
		return m.stringMapOp(ins)

	case bytecode.OP_IF:
		cond, err := m.loadBool(ins, 0)
		if err != nil {
			return err
		}
		if cond {
			return m.execRegion(it.children[0])
		}
		return m.execRegion(it.children[1])

	case bytecode.OP_WHILE:
		return m.execWhile(it)

	case bytecode.OP_TRY:
		return m.execTry(it)

	case bytecode.OP_BREAK:
		return errBreak

	case bytecode.OP_CONTINUE:
		return errContinue

	case bytecode.OP_HALT:
		return m.execHalt(ins)

	case bytecode.OP_GET_FAILURE_CODE:
		if len(m.failure) == 0 {
			return fmt.Errorf("GET_FAILURE_CODE outside an except region")
		}
		m.slots[ins.Out] = &bytecode.Int{Val: m.failure[len(m.failure)-1]}
		return nil

	default:
		if ins.Op.IsDomain() {
			return m.hostCall(ins)
		}
		return fmt.Errorf("unknown opcode %d", uint32(ins.Op))
	}
}

func (m *Machine) execWhile(it *item) error {
	body, update := it.children[0], it.children[1]
	for {
		cond, err := m.loadBool(it.ins, 0)
		if err != nil {
			return err
		}
		if !cond || m.halted {
			return nil
		}

		err = m.execRegion(body)
		switch err {
		case nil, errContinue:
		case errBreak:
			return nil
		default:
			return err
		}
		if m.halted {
			return nil
		}

		if err := m.execRegion(update); err != nil {
			// Break inside the update region still exits the loop.
			if err == errBreak {
				return nil
			}
			if err != errContinue {
				return err
			}
		}
	}
}

func (m *Machine) execTry(it *item) error {
	err := m.execRegion(it.children[0])
	if err == nil {
		return nil
	}
	f, ok := err.(*opFailure)
	if !ok {
		// Break/continue and hard program errors pass through; only
		// instruction failures are caught.
		return err
	}

	m.failure = append(m.failure, f.code)
	defer func() { m.failure = m.failure[:len(m.failure)-1] }()
	return m.execRegion(it.children[1])
}

func (m *Machine) execHalt(ins bytecode.Instruction) error {
	switch {
	case len(ins.In) == 1:
		v, err := m.load(ins, 0)
		if err != nil {
			return err
		}
		status, ok := v.(*bytecode.Int)
		if !ok {
			return &opFailure{code: FailTypeMismatch, op: ins.Op}
		}
		m.status = status.Val
	case ins.Const != nil:
		status, ok := ins.Const.(*bytecode.Int)
		if !ok {
			return fmt.Errorf("HALT with non-int literal status")
		}
		m.status = status.Val
	default:
		return fmt.Errorf("HALT without a status")
	}
	m.halted = true
	return nil
}

func (m *Machine) hostCall(ins bytecode.Instruction) error {
	recv, err := m.load(ins, 0)
	if err != nil {
		return err
	}
	args := make([]bytecode.Value, 0, len(ins.In)-1)
	for i := 1; i < len(ins.In); i++ {
		v, err := m.load(ins, i)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	if m.Host == nil {
		return &opFailure{code: FailNotImplemented, op: ins.Op}
	}
	out, err := m.Host.Call(ins.Op, recv, args)
	if err != nil {
		return failureCode(ins.Op, err)
	}
	if ins.Out.IsValid() {
		if out == nil {
			out = &bytecode.Empty{}
		}
		m.slots[ins.Out] = out
	}
	return nil
}

// load reads input operand i of ins from the slots.
func (m *Machine) load(ins bytecode.Instruction, i int) (bytecode.Value, error) {
	if i >= len(ins.In) {
		return nil, fmt.Errorf("%s missing input %d", ins.Op, i)
	}
	v, ok := m.slots[ins.In[i]]
	if !ok {
		return nil, fmt.Errorf("%s reads $%d before it holds a value", ins.Op, ins.In[i])
	}
	return v, nil
}

func (m *Machine) loadBool(ins bytecode.Instruction, i int) (bool, error) {
	v, err := m.load(ins, i)
	if err != nil {
		return false, err
	}
	b, ok := v.(*bytecode.Bool)
	if !ok {
		return false, &opFailure{code: FailTypeMismatch, op: ins.Op}
	}
	return b.Val, nil
}

func (m *Machine) loadString(ins bytecode.Instruction, i int) (string, error) {
	v, err := m.load(ins, i)
	if err != nil {
		return "", err
	}
	s, ok := v.(*bytecode.String)
	if !ok {
		return "", &opFailure{code: FailTypeMismatch, op: ins.Op}
	}
	return s.Val, nil
}
