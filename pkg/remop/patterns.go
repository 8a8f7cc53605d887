package remop

import "github.com/remoteops/remop/internal/bytecode"

// Pattern stand-ins share the proxy core like every other stand-in;
// the only difference is the catalogue object kind they dispatch under.

// InvokePattern is a stand-in for a remote invoke pattern.
type InvokePattern struct{ standin }

func (p *InvokePattern) Set(rhs *InvokePattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *InvokePattern) Invoke()                { _ = p.op.call("InvokePattern", "Invoke", p) }

// TogglePattern is a stand-in for a remote toggle pattern.
type TogglePattern struct{ standin }

func (p *TogglePattern) Set(rhs *TogglePattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *TogglePattern) Toggle()                { _ = p.op.call("TogglePattern", "Toggle", p) }
func (p *TogglePattern) GetToggleState() *Enum {
	return &Enum{standin: p.op.call("TogglePattern", "GetToggleState", p), enumType: "ToggleState"}
}

// ValuePattern is a stand-in for a remote value pattern.
type ValuePattern struct{ standin }

func (p *ValuePattern) Set(rhs *ValuePattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *ValuePattern) GetValue() *String {
	return &String{p.op.call("ValuePattern", "GetValue", p)}
}
func (p *ValuePattern) SetValue(v *String) { _ = p.op.call("ValuePattern", "SetValue", p, v) }
func (p *ValuePattern) GetIsReadOnly() *Bool {
	return &Bool{p.op.call("ValuePattern", "GetIsReadOnly", p)}
}

// ScrollPattern is a stand-in for a remote scroll pattern.
type ScrollPattern struct{ standin }

func (p *ScrollPattern) Set(rhs *ScrollPattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *ScrollPattern) Scroll(horizontal, vertical *Enum) {
	_ = p.op.call("ScrollPattern", "Scroll", p, horizontal, vertical)
}
func (p *ScrollPattern) SetScrollPercent(horizontal, vertical *Double) {
	_ = p.op.call("ScrollPattern", "SetScrollPercent", p, horizontal, vertical)
}
func (p *ScrollPattern) GetHorizontalScrollPercent() *Double {
	return &Double{p.op.call("ScrollPattern", "GetHorizontalScrollPercent", p)}
}
func (p *ScrollPattern) GetVerticalScrollPercent() *Double {
	return &Double{p.op.call("ScrollPattern", "GetVerticalScrollPercent", p)}
}

// GridPattern is a stand-in for a remote grid pattern.
type GridPattern struct{ standin }

func (p *GridPattern) Set(rhs *GridPattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *GridPattern) GetRowCount() *Int {
	return &Int{p.op.call("GridPattern", "GetRowCount", p)}
}
func (p *GridPattern) GetColumnCount() *Int {
	return &Int{p.op.call("GridPattern", "GetColumnCount", p)}
}
func (p *GridPattern) GetItem(row, column *Int) *Element {
	return &Element{p.op.call("GridPattern", "GetItem", p, row, column)}
}

// WindowPattern is a stand-in for a remote window pattern.
type WindowPattern struct{ standin }

func (p *WindowPattern) Set(rhs *WindowPattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *WindowPattern) Close()                 { _ = p.op.call("WindowPattern", "Close", p) }
func (p *WindowPattern) GetCanMaximize() *Bool {
	return &Bool{p.op.call("WindowPattern", "GetCanMaximize", p)}
}
func (p *WindowPattern) GetCanMinimize() *Bool {
	return &Bool{p.op.call("WindowPattern", "GetCanMinimize", p)}
}
func (p *WindowPattern) GetIsModal() *Bool {
	return &Bool{p.op.call("WindowPattern", "GetIsModal", p)}
}
func (p *WindowPattern) GetWindowVisualState() *Enum {
	return &Enum{standin: p.op.call("WindowPattern", "GetWindowVisualState", p), enumType: "WindowVisualState"}
}
func (p *WindowPattern) SetWindowVisualState(state *Enum) {
	_ = p.op.call("WindowPattern", "SetWindowVisualState", p, state)
}

// ExpandCollapsePattern is a stand-in for a remote expand/collapse
// pattern.
type ExpandCollapsePattern struct{ standin }

func (p *ExpandCollapsePattern) Set(rhs *ExpandCollapsePattern) {
	p.op.emitMutate(bytecode.OP_SET, p, rhs)
}
func (p *ExpandCollapsePattern) Expand() { _ = p.op.call("ExpandCollapsePattern", "Expand", p) }
func (p *ExpandCollapsePattern) Collapse() {
	_ = p.op.call("ExpandCollapsePattern", "Collapse", p)
}
func (p *ExpandCollapsePattern) GetExpandCollapseState() *Enum {
	return &Enum{standin: p.op.call("ExpandCollapsePattern", "GetExpandCollapseState", p), enumType: "ExpandCollapseState"}
}

// RangeValuePattern is a stand-in for a remote range-value pattern.
type RangeValuePattern struct{ standin }

func (p *RangeValuePattern) Set(rhs *RangeValuePattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *RangeValuePattern) GetValue() *Double {
	return &Double{p.op.call("RangeValuePattern", "GetValue", p)}
}
func (p *RangeValuePattern) SetValue(v *Double) {
	_ = p.op.call("RangeValuePattern", "SetValue", p, v)
}
func (p *RangeValuePattern) GetMinimum() *Double {
	return &Double{p.op.call("RangeValuePattern", "GetMinimum", p)}
}
func (p *RangeValuePattern) GetMaximum() *Double {
	return &Double{p.op.call("RangeValuePattern", "GetMaximum", p)}
}

// TextPattern is a stand-in for a remote text pattern.
type TextPattern struct{ standin }

func (p *TextPattern) Set(rhs *TextPattern) { p.op.emitMutate(bytecode.OP_SET, p, rhs) }
func (p *TextPattern) GetDocumentRange() *TextRange {
	return &TextRange{p.op.call("TextPattern", "GetDocumentRange", p)}
}
func (p *TextPattern) RangeFromChild(child *Element) *TextRange {
	return &TextRange{p.op.call("TextPattern", "RangeFromChild", p, child)}
}
