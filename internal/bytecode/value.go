package bytecode

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind identifies the semantic type of an operand or value.
type Kind uint8

const (
	KindNull Kind = iota
	KindEmpty
	KindBool
	KindInt
	KindUint
	KindDouble
	KindChar
	KindString
	KindPoint
	KindRect
	KindGuid
	KindByteArray
	KindArray
	KindStringMap
	KindEnum
	KindCacheRequest
	KindElement
	KindTextRange
	KindConnectionBoundObject
	KindPattern
)

// KindNames maps kinds to their string names
var KindNames = map[Kind]string{
	KindNull:                  "Null",
	KindEmpty:                 "Empty",
	KindBool:                  "Bool",
	KindInt:                   "Int",
	KindUint:                  "Uint",
	KindDouble:                "Double",
	KindChar:                  "Char",
	KindString:                "String",
	KindPoint:                 "Point",
	KindRect:                  "Rect",
	KindGuid:                  "Guid",
	KindByteArray:             "ByteArray",
	KindArray:                 "Array",
	KindStringMap:             "StringMap",
	KindEnum:                  "Enum",
	KindCacheRequest:          "CacheRequest",
	KindElement:               "Element",
	KindTextRange:             "TextRange",
	KindConnectionBoundObject: "ConnectionBoundObject",
	KindPattern:               "Pattern",
}

func (k Kind) String() string {
	if name, ok := KindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Value is a runtime or constant value of a remote operand. The builder
// only carries values as instruction immediates; the interpreter and the
// result set hold them for real.
type Value interface {
	Kind() Kind
	Inspect() string
}

// Null is the typed null object.
type Null struct{}

func (*Null) Kind() Kind      { return KindNull }
func (*Null) Inspect() string { return "null" }

// Empty is an uninitialized slot of no particular type.
type Empty struct{}

func (*Empty) Kind() Kind      { return KindEmpty }
func (*Empty) Inspect() string { return "empty" }

type Bool struct{ Val bool }

func (*Bool) Kind() Kind        { return KindBool }
func (b *Bool) Inspect() string { return fmt.Sprintf("%t", b.Val) }

type Int struct{ Val int32 }

func (*Int) Kind() Kind        { return KindInt }
func (i *Int) Inspect() string { return fmt.Sprintf("%d", i.Val) }

type Uint struct{ Val uint32 }

func (*Uint) Kind() Kind        { return KindUint }
func (u *Uint) Inspect() string { return fmt.Sprintf("%d", u.Val) }

type Double struct{ Val float64 }

func (*Double) Kind() Kind        { return KindDouble }
func (d *Double) Inspect() string { return fmt.Sprintf("%g", d.Val) }

type Char struct{ Val rune }

func (*Char) Kind() Kind        { return KindChar }
func (c *Char) Inspect() string { return fmt.Sprintf("%q", c.Val) }

type String struct{ Val string }

func (*String) Kind() Kind        { return KindString }
func (s *String) Inspect() string { return fmt.Sprintf("%q", s.Val) }

type Point struct{ X, Y float64 }

func (*Point) Kind() Kind        { return KindPoint }
func (p *Point) Inspect() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

type Rect struct{ X, Y, Width, Height float64 }

func (*Rect) Kind() Kind { return KindRect }
func (r *Rect) Inspect() string {
	return fmt.Sprintf("(%g, %g, %gx%g)", r.X, r.Y, r.Width, r.Height)
}

type Guid struct{ Val uuid.UUID }

func (*Guid) Kind() Kind        { return KindGuid }
func (g *Guid) Inspect() string { return g.Val.String() }

type ByteArray struct{ Val []byte }

func (*ByteArray) Kind() Kind        { return KindByteArray }
func (b *ByteArray) Inspect() string { return fmt.Sprintf("bytes[%d]", len(b.Val)) }

type Array struct{ Items []Value }

func (*Array) Kind() Kind { return KindArray }
func (a *Array) Inspect() string {
	parts := make([]string, len(a.Items))
	for i, v := range a.Items {
		parts[i] = v.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type StringMap struct{ Entries map[string]Value }

func (*StringMap) Kind() Kind { return KindStringMap }
func (m *StringMap) Inspect() string {
	return fmt.Sprintf("map[%d]", len(m.Entries))
}

// Enum is a value of one of the automation enum types (control type,
// toggle state, scroll amount, ...). Type carries the enum's name so
// equality stays within one enum family.
type Enum struct {
	Type string
	Val  int32
}

func (*Enum) Kind() Kind        { return KindEnum }
func (e *Enum) Inspect() string { return fmt.Sprintf("%s(%d)", e.Type, e.Val) }

// CacheRequest configures which properties the provider caches for
// elements returned by the operation.
type CacheRequest struct{ Properties []int32 }

func (*CacheRequest) Kind() Kind { return KindCacheRequest }
func (c *CacheRequest) Inspect() string {
	return fmt.Sprintf("cacherequest[%d]", len(c.Properties))
}

// Imported is a provider-side object bound into the operation: an
// element, a text range or a connection-bound object. The builder never
// looks inside it; Connection identifies the provider connection the
// object belongs to and Key is its identity within that connection.
type Imported struct {
	ObjectKind Kind // KindElement, KindTextRange or KindConnectionBoundObject
	Connection uuid.UUID
	Key        string
}

func (o *Imported) Kind() Kind { return o.ObjectKind }
func (o *Imported) Inspect() string {
	return fmt.Sprintf("%s(%s)", o.ObjectKind, o.Key)
}

// Pattern is a provider-side pattern object obtained from an element
// during execution. Kind-tagged by the pattern opcode that produced it.
type Pattern struct {
	Name string
	Key  string
}

func (*Pattern) Kind() Kind        { return KindPattern }
func (p *Pattern) Inspect() string { return fmt.Sprintf("%s(%s)", p.Name, p.Key) }

// ValuesEqual compares two values for the IS_EQUAL instruction. Values
// of different kinds are never equal.
func ValuesEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case *Null:
		return true
	case *Empty:
		return true
	case *Bool:
		return av.Val == b.(*Bool).Val
	case *Int:
		return av.Val == b.(*Int).Val
	case *Uint:
		return av.Val == b.(*Uint).Val
	case *Double:
		return av.Val == b.(*Double).Val
	case *Char:
		return av.Val == b.(*Char).Val
	case *String:
		return av.Val == b.(*String).Val
	case *Point:
		bv := b.(*Point)
		return av.X == bv.X && av.Y == bv.Y
	case *Rect:
		bv := b.(*Rect)
		return av.X == bv.X && av.Y == bv.Y && av.Width == bv.Width && av.Height == bv.Height
	case *Guid:
		return av.Val == b.(*Guid).Val
	case *Enum:
		bv := b.(*Enum)
		return av.Type == bv.Type && av.Val == bv.Val
	case *Imported:
		bv := b.(*Imported)
		return av.Connection == bv.Connection && av.Key == bv.Key
	case *Pattern:
		bv := b.(*Pattern)
		return av.Name == bv.Name && av.Key == bv.Key
	default:
		// Arrays, maps, byte arrays and cache requests compare by
		// identity on the provider; the reference interpreter treats
		// distinct containers as unequal.
		return a == b
	}
}
