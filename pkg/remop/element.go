package remop

import "github.com/remoteops/remop/internal/bytecode"

// Element is a stand-in for a remote accessibility element.
type Element struct{ standin }

func (e *Element) Set(rhs *Element) { e.op.emitMutate(bytecode.OP_SET, e, rhs) }
func (e *Element) IsEqual(rhs *Element) *Bool {
	return &Bool{e.op.emitResult(bytecode.OP_IS_EQUAL, e, rhs)}
}
func (e *Element) IsNotEqual(rhs *Element) *Bool {
	return &Bool{e.op.emitResult(bytecode.OP_IS_NOT_EQUAL, e, rhs)}
}

func (e *Element) GetName() *String      { return &String{e.op.call("Element", "GetName", e)} }
func (e *Element) GetClassName() *String { return &String{e.op.call("Element", "GetClassName", e)} }

// GetControlType yields a "ControlType" enum value.
func (e *Element) GetControlType() *Enum {
	return &Enum{standin: e.op.call("Element", "GetControlType", e), enumType: "ControlType"}
}

func (e *Element) GetParent() *Element { return &Element{e.op.call("Element", "GetParent", e)} }
func (e *Element) GetFirstChild() *Element {
	return &Element{e.op.call("Element", "GetFirstChild", e)}
}
func (e *Element) GetLastChild() *Element {
	return &Element{e.op.call("Element", "GetLastChild", e)}
}
func (e *Element) GetNextSibling() *Element {
	return &Element{e.op.call("Element", "GetNextSibling", e)}
}
func (e *Element) GetPreviousSibling() *Element {
	return &Element{e.op.call("Element", "GetPreviousSibling", e)}
}

// GetPropertyValue reads an arbitrary property; the result type depends
// on the property id, so it comes back as AnyObject.
func (e *Element) GetPropertyValue(property *Enum) *AnyObject {
	return &AnyObject{e.op.call("Element", "GetPropertyValue", e, property)}
}

func (e *Element) GetInvokePattern() *InvokePattern {
	return &InvokePattern{e.op.call("Element", "GetInvokePattern", e)}
}
func (e *Element) GetTogglePattern() *TogglePattern {
	return &TogglePattern{e.op.call("Element", "GetTogglePattern", e)}
}
func (e *Element) GetValuePattern() *ValuePattern {
	return &ValuePattern{e.op.call("Element", "GetValuePattern", e)}
}
func (e *Element) GetScrollPattern() *ScrollPattern {
	return &ScrollPattern{e.op.call("Element", "GetScrollPattern", e)}
}
func (e *Element) GetGridPattern() *GridPattern {
	return &GridPattern{e.op.call("Element", "GetGridPattern", e)}
}
func (e *Element) GetWindowPattern() *WindowPattern {
	return &WindowPattern{e.op.call("Element", "GetWindowPattern", e)}
}
func (e *Element) GetExpandCollapsePattern() *ExpandCollapsePattern {
	return &ExpandCollapsePattern{e.op.call("Element", "GetExpandCollapsePattern", e)}
}
func (e *Element) GetRangeValuePattern() *RangeValuePattern {
	return &RangeValuePattern{e.op.call("Element", "GetRangeValuePattern", e)}
}
func (e *Element) GetTextPattern() *TextPattern {
	return &TextPattern{e.op.call("Element", "GetTextPattern", e)}
}

// TextRange is a stand-in for a remote text range.
type TextRange struct{ standin }

func (t *TextRange) Set(rhs *TextRange) { t.op.emitMutate(bytecode.OP_SET, t, rhs) }
func (t *TextRange) IsEqual(rhs *TextRange) *Bool {
	return &Bool{t.op.emitResult(bytecode.OP_IS_EQUAL, t, rhs)}
}
func (t *TextRange) IsNotEqual(rhs *TextRange) *Bool {
	return &Bool{t.op.emitResult(bytecode.OP_IS_NOT_EQUAL, t, rhs)}
}

func (t *TextRange) Clone() *TextRange { return &TextRange{t.op.call("TextRange", "Clone", t)} }
func (t *TextRange) Compare(rhs *TextRange) *Bool {
	return &Bool{t.op.call("TextRange", "Compare", t, rhs)}
}
func (t *TextRange) ExpandToEnclosingUnit(unit *Enum) {
	_ = t.op.call("TextRange", "ExpandToEnclosingUnit", t, unit)
}
func (t *TextRange) GetText(maxLength *Int) *String {
	return &String{t.op.call("TextRange", "GetText", t, maxLength)}
}
func (t *TextRange) Move(unit *Enum, count *Int) *Int {
	return &Int{t.op.call("TextRange", "Move", t, unit, count)}
}
func (t *TextRange) Select() { _ = t.op.call("TextRange", "Select", t) }
func (t *TextRange) FindText(text *String, backward, ignoreCase *Bool) *TextRange {
	return &TextRange{t.op.call("TextRange", "FindText", t, text, backward, ignoreCase)}
}
func (t *TextRange) GetEnclosingElement() *Element {
	return &Element{t.op.call("TextRange", "GetEnclosingElement", t)}
}

// ConnectionBoundObject is a stand-in for an opaque provider-side object
// that has no operations of its own but remains bound to its connection.
type ConnectionBoundObject struct{ standin }

func (c *ConnectionBoundObject) Set(rhs *ConnectionBoundObject) {
	c.op.emitMutate(bytecode.OP_SET, c, rhs)
}
func (c *ConnectionBoundObject) IsEqual(rhs *ConnectionBoundObject) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_EQUAL, c, rhs)}
}
func (c *ConnectionBoundObject) IsNotEqual(rhs *ConnectionBoundObject) *Bool {
	return &Bool{c.op.emitResult(bytecode.OP_IS_NOT_EQUAL, c, rhs)}
}
