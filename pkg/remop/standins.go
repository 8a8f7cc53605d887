package remop

import (
	"fmt"
	"reflect"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/catalog"
)

// Standin is a local proxy for one remote operand. Every typed stand-in
// in this package implements it by embedding the shared standin core.
type Standin interface {
	operandId() bytecode.OperandId
	operation() *Operation
}

// standin is the single proxy core shared by all typed stand-ins. The
// typed wrappers only pin the semantic type; the instruction plumbing
// lives here and in the Operation emit helpers.
type standin struct {
	op *Operation
	id bytecode.OperandId
}

func (s standin) operandId() bytecode.OperandId { return s.id }
func (s standin) operation() *Operation         { return s.op }

// isNilStandin catches both a nil interface and a typed nil pointer
// (e.g. a nil *Bool passed as a Standin), which would otherwise panic
// when the embedded core is dereferenced.
func isNilStandin(a Standin) bool {
	if a == nil {
		return true
	}
	v := reflect.ValueOf(a)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// sameOperation verifies every argument stand-in belongs to op. Mixing
// stand-ins across operations is a builder error.
func (op *Operation) sameOperation(args ...Standin) bool {
	for _, a := range args {
		if isNilStandin(a) || a.operation() == nil {
			op.fail(fmt.Errorf("nil stand-in argument"))
			return false
		}
		if a.operation() != op {
			op.fail(fmt.Errorf("stand-in belongs to a different operation"))
			return false
		}
	}
	return true
}

// emit appends an instruction whose inputs are the given stand-ins.
func (op *Operation) emit(opcode bytecode.Opcode, out bytecode.OperandId, args ...Standin) {
	if !op.sameOperation(args...) {
		return
	}
	in := make([]bytecode.OperandId, len(args))
	for i, a := range args {
		in[i] = a.operandId()
	}
	op.insert(bytecode.Instruction{Op: opcode, In: in, Out: out})
}

// emitMutate appends an instruction that updates its first input in
// place and produces nothing.
func (op *Operation) emitMutate(opcode bytecode.Opcode, args ...Standin) {
	op.emit(opcode, bytecode.NoOperandId, args...)
}

// emitResult appends an instruction producing a fresh operand.
func (op *Operation) emitResult(opcode bytecode.Opcode, args ...Standin) standin {
	out := op.graph.Allocate()
	op.emit(opcode, out, args...)
	return standin{op: op, id: out}
}

// call dispatches a domain operation through the catalog. Unknown
// object/method pairs are builder errors; the returned stand-in still
// carries a fresh operand so call chains stay non-nil.
func (op *Operation) call(object, method string, recv Standin, args ...Standin) standin {
	entry, ok := catalog.Lookup(object, method)
	if !ok {
		op.fail(fmt.Errorf("no operation %s.%s", object, method))
		return standin{op: op, id: op.graph.Allocate()}
	}
	all := append([]Standin{recv}, args...)
	if entry.HasResult {
		return op.emitResult(entry.Opcode, all...)
	}
	op.emitMutate(entry.Opcode, all...)
	return standin{op: op}
}

// Bool is a stand-in for a remote bool.
type Bool struct{ standin }

func (b *Bool) Set(rhs *Bool)           { b.op.emitMutate(bytecode.OP_SET, b, rhs) }
func (b *Bool) IsEqual(rhs *Bool) *Bool { return &Bool{b.op.emitResult(bytecode.OP_IS_EQUAL, b, rhs)} }
func (b *Bool) IsNotEqual(rhs *Bool) *Bool {
	return &Bool{b.op.emitResult(bytecode.OP_IS_NOT_EQUAL, b, rhs)}
}

// Not replaces the value with its negation.
func (b *Bool) Not()          { b.op.emitMutate(bytecode.OP_BOOL_NOT, b) }
func (b *Bool) And(rhs *Bool) { b.op.emitMutate(bytecode.OP_BOOL_AND, b, rhs) }
func (b *Bool) Or(rhs *Bool)  { b.op.emitMutate(bytecode.OP_BOOL_OR, b, rhs) }

// Int is a stand-in for a remote 32-bit signed integer.
type Int struct{ standin }

func (n *Int) Set(rhs *Int)              { n.op.emitMutate(bytecode.OP_SET, n, rhs) }
func (n *Int) IsEqual(rhs *Int) *Bool    { return &Bool{n.op.emitResult(bytecode.OP_IS_EQUAL, n, rhs)} }
func (n *Int) IsNotEqual(rhs *Int) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_NOT_EQUAL, n, rhs)}
}

// Add updates the value in place; the arithmetic family mutates its
// receiver rather than producing a new operand.
func (n *Int) Add(rhs *Int)      { n.op.emitMutate(bytecode.OP_ADD, n, rhs) }
func (n *Int) Subtract(rhs *Int) { n.op.emitMutate(bytecode.OP_SUBTRACT, n, rhs) }
func (n *Int) Multiply(rhs *Int) { n.op.emitMutate(bytecode.OP_MULTIPLY, n, rhs) }
func (n *Int) Divide(rhs *Int)   { n.op.emitMutate(bytecode.OP_DIVIDE, n, rhs) }

func (n *Int) IsLessThan(rhs *Int) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN, n, rhs)}
}
func (n *Int) IsLessThanOrEqual(rhs *Int) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN_OR_EQUAL, n, rhs)}
}
func (n *Int) IsGreaterThan(rhs *Int) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN, n, rhs)}
}
func (n *Int) IsGreaterThanOrEqual(rhs *Int) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN_OR_EQUAL, n, rhs)}
}

// Uint is a stand-in for a remote 32-bit unsigned integer.
type Uint struct{ standin }

func (n *Uint) Set(rhs *Uint)           { n.op.emitMutate(bytecode.OP_SET, n, rhs) }
func (n *Uint) IsEqual(rhs *Uint) *Bool { return &Bool{n.op.emitResult(bytecode.OP_IS_EQUAL, n, rhs)} }
func (n *Uint) IsNotEqual(rhs *Uint) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_NOT_EQUAL, n, rhs)}
}
func (n *Uint) Add(rhs *Uint)      { n.op.emitMutate(bytecode.OP_ADD, n, rhs) }
func (n *Uint) Subtract(rhs *Uint) { n.op.emitMutate(bytecode.OP_SUBTRACT, n, rhs) }
func (n *Uint) Multiply(rhs *Uint) { n.op.emitMutate(bytecode.OP_MULTIPLY, n, rhs) }
func (n *Uint) Divide(rhs *Uint)   { n.op.emitMutate(bytecode.OP_DIVIDE, n, rhs) }
func (n *Uint) IsLessThan(rhs *Uint) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN, n, rhs)}
}
func (n *Uint) IsLessThanOrEqual(rhs *Uint) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN_OR_EQUAL, n, rhs)}
}
func (n *Uint) IsGreaterThan(rhs *Uint) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN, n, rhs)}
}
func (n *Uint) IsGreaterThanOrEqual(rhs *Uint) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN_OR_EQUAL, n, rhs)}
}

// Double is a stand-in for a remote 64-bit float.
type Double struct{ standin }

func (n *Double) Set(rhs *Double) { n.op.emitMutate(bytecode.OP_SET, n, rhs) }
func (n *Double) IsEqual(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_EQUAL, n, rhs)}
}
func (n *Double) IsNotEqual(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_NOT_EQUAL, n, rhs)}
}
func (n *Double) Add(rhs *Double)      { n.op.emitMutate(bytecode.OP_ADD, n, rhs) }
func (n *Double) Subtract(rhs *Double) { n.op.emitMutate(bytecode.OP_SUBTRACT, n, rhs) }
func (n *Double) Multiply(rhs *Double) { n.op.emitMutate(bytecode.OP_MULTIPLY, n, rhs) }
func (n *Double) Divide(rhs *Double)   { n.op.emitMutate(bytecode.OP_DIVIDE, n, rhs) }
func (n *Double) IsLessThan(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN, n, rhs)}
}
func (n *Double) IsLessThanOrEqual(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_LESS_THAN_OR_EQUAL, n, rhs)}
}
func (n *Double) IsGreaterThan(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN, n, rhs)}
}
func (n *Double) IsGreaterThanOrEqual(rhs *Double) *Bool {
	return &Bool{n.op.emitResult(bytecode.OP_IS_GREATER_THAN_OR_EQUAL, n, rhs)}
}

// Char is a stand-in for a remote character.
type Char struct{ standin }

func (c *Char) Set(rhs *Char)           { c.op.emitMutate(bytecode.OP_SET, c, rhs) }
func (c *Char) IsEqual(rhs *Char) *Bool { return &Bool{c.op.emitResult(bytecode.OP_IS_EQUAL, c, rhs)} }
func (c *Char) IsNotEqual(rhs *Char) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_NOT_EQUAL, c, rhs)}
}
func (c *Char) IsLessThan(rhs *Char) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_LESS_THAN, c, rhs)}
}

// String is a stand-in for a remote string.
type String struct{ standin }

func (s *String) Set(rhs *String) { s.op.emitMutate(bytecode.OP_SET, s, rhs) }
func (s *String) IsEqual(rhs *String) *Bool {
	return &Bool{s.op.emitResult(bytecode.OP_IS_EQUAL, s, rhs)}
}
func (s *String) IsNotEqual(rhs *String) *Bool {
	return &Bool{s.op.emitResult(bytecode.OP_IS_NOT_EQUAL, s, rhs)}
}

// Concat appends rhs to the receiver in place.
func (s *String) Concat(rhs *String) { s.op.emitMutate(bytecode.OP_STRING_CONCAT, s, rhs) }
func (s *String) Length() *Int {
	return &Int{s.op.emitResult(bytecode.OP_STRING_LENGTH, s)}
}

// Point is a stand-in for a remote point.
type Point struct{ standin }

func (p *Point) Set(rhs *Point) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *Point) IsEqual(rhs *Point) *Bool {
	return &Bool{p.op.emitResult(bytecode.OP_IS_EQUAL, p, rhs)}
}
func (p *Point) IsNotEqual(rhs *Point) *Bool {
	return &Bool{p.op.emitResult(bytecode.OP_IS_NOT_EQUAL, p, rhs)}
}

// Rect is a stand-in for a remote rectangle.
type Rect struct{ standin }

func (r *Rect) Set(rhs *Rect)           { r.op.emitMutate(bytecode.OP_SET, r, rhs) }
func (r *Rect) IsEqual(rhs *Rect) *Bool { return &Bool{r.op.emitResult(bytecode.OP_IS_EQUAL, r, rhs)} }
func (r *Rect) IsNotEqual(rhs *Rect) *Bool {
	return &Bool{r.op.emitResult(bytecode.OP_IS_NOT_EQUAL, r, rhs)}
}

// Guid is a stand-in for a remote guid.
type Guid struct{ standin }

func (g *Guid) Set(rhs *Guid)           { g.op.emitMutate(bytecode.OP_SET, g, rhs) }
func (g *Guid) IsEqual(rhs *Guid) *Bool { return &Bool{g.op.emitResult(bytecode.OP_IS_EQUAL, g, rhs)} }
func (g *Guid) IsNotEqual(rhs *Guid) *Bool {
	return &Bool{g.op.emitResult(bytecode.OP_IS_NOT_EQUAL, g, rhs)}
}

// ByteArray is a stand-in for a remote byte array.
type ByteArray struct{ standin }

func (b *ByteArray) Set(rhs *ByteArray) { b.op.emitMutate(bytecode.OP_SET, b, rhs) }
func (b *ByteArray) IsEqual(rhs *ByteArray) *Bool {
	return &Bool{b.op.emitResult(bytecode.OP_IS_EQUAL, b, rhs)}
}
func (b *ByteArray) IsNotEqual(rhs *ByteArray) *Bool {
	return &Bool{b.op.emitResult(bytecode.OP_IS_NOT_EQUAL, b, rhs)}
}

// AnyObject is a stand-in of no particular semantic type, produced by
// heterogeneous lookups such as Array.GetAt.
type AnyObject struct{ standin }

func (a *AnyObject) Set(rhs *AnyObject) { a.op.emitMutate(bytecode.OP_SET, a, rhs) }
func (a *AnyObject) IsEqual(rhs *AnyObject) *Bool {
	return &Bool{a.op.emitResult(bytecode.OP_IS_EQUAL, a, rhs)}
}
func (a *AnyObject) IsNotEqual(rhs *AnyObject) *Bool {
	return &Bool{a.op.emitResult(bytecode.OP_IS_NOT_EQUAL, a, rhs)}
}

// Array is a stand-in for a remote heterogeneous array.
type Array struct{ standin }

func (a *Array) Set(rhs *Array)           { a.op.emitMutate(bytecode.OP_SET, a, rhs) }
func (a *Array) IsEqual(rhs *Array) *Bool { return &Bool{a.op.emitResult(bytecode.OP_IS_EQUAL, a, rhs)} }
func (a *Array) IsNotEqual(rhs *Array) *Bool {
	return &Bool{a.op.emitResult(bytecode.OP_IS_NOT_EQUAL, a, rhs)}
}
func (a *Array) Append(v Standin) { _ = a.op.call("Array", "Append", a, v) }
func (a *Array) GetAt(index *Int) *AnyObject {
	return &AnyObject{a.op.call("Array", "GetAt", a, index)}
}
func (a *Array) RemoveAt(index *Int) { _ = a.op.call("Array", "RemoveAt", a, index) }
func (a *Array) Size() *Int          { return &Int{a.op.call("Array", "Size", a)} }

// StringMap is a stand-in for a remote string-keyed map.
type StringMap struct{ standin }

func (m *StringMap) Set(rhs *StringMap) { m.op.emitMutate(bytecode.OP_SET, m, rhs) }
func (m *StringMap) IsEqual(rhs *StringMap) *Bool {
	return &Bool{m.op.emitResult(bytecode.OP_IS_EQUAL, m, rhs)}
}
func (m *StringMap) IsNotEqual(rhs *StringMap) *Bool {
	return &Bool{m.op.emitResult(bytecode.OP_IS_NOT_EQUAL, m, rhs)}
}
func (m *StringMap) Insert(key *String, v Standin) { _ = m.op.call("StringMap", "Insert", m, key, v) }
func (m *StringMap) Lookup(key *String) *AnyObject {
	return &AnyObject{m.op.call("StringMap", "Lookup", m, key)}
}
func (m *StringMap) HasKey(key *String) *Bool {
	return &Bool{m.op.call("StringMap", "HasKey", m, key)}
}
func (m *StringMap) Remove(key *String) { _ = m.op.call("StringMap", "Remove", m, key) }
func (m *StringMap) Size() *Int         { return &Int{m.op.call("StringMap", "Size", m)} }

// CacheRequest is a stand-in for a remote cache request.
type CacheRequest struct{ standin }

func (c *CacheRequest) Set(rhs *CacheRequest) { c.op.emitMutate(bytecode.OP_SET, c, rhs) }
func (c *CacheRequest) IsEqual(rhs *CacheRequest) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_EQUAL, c, rhs)}
}
func (c *CacheRequest) IsNotEqual(rhs *CacheRequest) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_NOT_EQUAL, c, rhs)}
}

// Enum is a stand-in for a remote enum value. EnumType names the enum
// the value belongs to; equality across enum types compares false.
type Enum struct {
	standin
	enumType string
}

func (e *Enum) EnumType() string { return e.enumType }

func (e *Enum) Set(rhs *Enum)           { e.op.emitMutate(bytecode.OP_SET, e, rhs) }
func (e *Enum) IsEqual(rhs *Enum) *Bool { return &Bool{e.op.emitResult(bytecode.OP_IS_EQUAL, e, rhs)} }
func (e *Enum) IsNotEqual(rhs *Enum) *Bool {
	return &Bool{e.op.emitResult(bytecode.OP_IS_NOT_EQUAL, e, rhs)}
}

// LookupGuid resolves a property-id enum value to its guid. Meaningful
// only for "PropertyId" enums; the provider fails for anything else.
func (e *Enum) LookupGuid() *Guid {
	return &Guid{e.op.call("PropertyId", "LookupGuid", e)}
}
