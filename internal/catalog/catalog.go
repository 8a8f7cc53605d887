// Package catalog is the data-driven table behind the typed stand-in
// layer: one entry per (object kind, operation name) pair, mapping it to
// an opcode and its argument/result signature. The proxy layer dispatches
// through this table instead of hand-writing one class per automation
// concept.
package catalog

import "github.com/remoteops/remop/internal/bytecode"

// Operation describes one entry of the operation catalogue.
type Operation struct {
	Opcode bytecode.Opcode
	Object string          // receiver object kind, e.g. "Element", "InvokePattern"
	Name   string          // operation name, e.g. "GetName"
	Args   []bytecode.Kind // argument kinds after the receiver
	Result bytecode.Kind   // result kind; HasResult false means none
	// HasResult reports whether the operation produces a result operand.
	HasResult bool
}

func res(op bytecode.Opcode, object, name string, result bytecode.Kind, args ...bytecode.Kind) Operation {
	return Operation{Opcode: op, Object: object, Name: name, Args: args, Result: result, HasResult: true}
}

func act(op bytecode.Opcode, object, name string, args ...bytecode.Kind) Operation {
	return Operation{Opcode: op, Object: object, Name: name, Args: args}
}

// operations enumerates the supported domain catalogue. The table is the
// single place a new automation operation gets added.
var operations = []Operation{
	// Arrays
	act(bytecode.OP_ARRAY_APPEND, "Array", "Append", bytecode.KindEmpty),
	res(bytecode.OP_ARRAY_GET_AT, "Array", "GetAt", bytecode.KindEmpty, bytecode.KindInt),
	act(bytecode.OP_ARRAY_REMOVE_AT, "Array", "RemoveAt", bytecode.KindInt),
	res(bytecode.OP_ARRAY_SIZE, "Array", "Size", bytecode.KindInt),

	// String maps
	act(bytecode.OP_STRINGMAP_INSERT, "StringMap", "Insert", bytecode.KindString, bytecode.KindEmpty),
	res(bytecode.OP_STRINGMAP_LOOKUP, "StringMap", "Lookup", bytecode.KindEmpty, bytecode.KindString),
	res(bytecode.OP_STRINGMAP_HAS_KEY, "StringMap", "HasKey", bytecode.KindBool, bytecode.KindString),
	act(bytecode.OP_STRINGMAP_REMOVE, "StringMap", "Remove", bytecode.KindString),
	res(bytecode.OP_STRINGMAP_SIZE, "StringMap", "Size", bytecode.KindInt),

	// Id lookups
	res(bytecode.OP_LOOKUP_GUID, "PropertyId", "LookupGuid", bytecode.KindGuid),

	// Element
	res(bytecode.OP_ELEMENT_GET_NAME, "Element", "GetName", bytecode.KindString),
	res(bytecode.OP_ELEMENT_GET_CLASS_NAME, "Element", "GetClassName", bytecode.KindString),
	res(bytecode.OP_ELEMENT_GET_CONTROL_TYPE, "Element", "GetControlType", bytecode.KindEnum),
	res(bytecode.OP_ELEMENT_GET_PARENT, "Element", "GetParent", bytecode.KindElement),
	res(bytecode.OP_ELEMENT_GET_FIRST_CHILD, "Element", "GetFirstChild", bytecode.KindElement),
	res(bytecode.OP_ELEMENT_GET_LAST_CHILD, "Element", "GetLastChild", bytecode.KindElement),
	res(bytecode.OP_ELEMENT_GET_NEXT_SIBLING, "Element", "GetNextSibling", bytecode.KindElement),
	res(bytecode.OP_ELEMENT_GET_PREVIOUS_SIBLING, "Element", "GetPreviousSibling", bytecode.KindElement),
	res(bytecode.OP_ELEMENT_GET_PROPERTY_VALUE, "Element", "GetPropertyValue", bytecode.KindEmpty, bytecode.KindEnum),
	res(bytecode.OP_ELEMENT_GET_INVOKE_PATTERN, "Element", "GetInvokePattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_TOGGLE_PATTERN, "Element", "GetTogglePattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_VALUE_PATTERN, "Element", "GetValuePattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_SCROLL_PATTERN, "Element", "GetScrollPattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_GRID_PATTERN, "Element", "GetGridPattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_WINDOW_PATTERN, "Element", "GetWindowPattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_EXPAND_COLLAPSE_PATTERN, "Element", "GetExpandCollapsePattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_RANGE_VALUE_PATTERN, "Element", "GetRangeValuePattern", bytecode.KindPattern),
	res(bytecode.OP_ELEMENT_GET_TEXT_PATTERN, "Element", "GetTextPattern", bytecode.KindPattern),

	// Invoke pattern
	act(bytecode.OP_INVOKE_INVOKE, "InvokePattern", "Invoke"),

	// Toggle pattern
	act(bytecode.OP_TOGGLE_TOGGLE, "TogglePattern", "Toggle"),
	res(bytecode.OP_TOGGLE_GET_STATE, "TogglePattern", "GetToggleState", bytecode.KindEnum),

	// Value pattern
	res(bytecode.OP_VALUE_GET_VALUE, "ValuePattern", "GetValue", bytecode.KindString),
	act(bytecode.OP_VALUE_SET_VALUE, "ValuePattern", "SetValue", bytecode.KindString),
	res(bytecode.OP_VALUE_GET_IS_READ_ONLY, "ValuePattern", "GetIsReadOnly", bytecode.KindBool),

	// Scroll pattern
	act(bytecode.OP_SCROLL_SCROLL, "ScrollPattern", "Scroll", bytecode.KindEnum, bytecode.KindEnum),
	act(bytecode.OP_SCROLL_SET_PERCENT, "ScrollPattern", "SetScrollPercent", bytecode.KindDouble, bytecode.KindDouble),
	res(bytecode.OP_SCROLL_GET_HORIZONTAL_PERCENT, "ScrollPattern", "GetHorizontalScrollPercent", bytecode.KindDouble),
	res(bytecode.OP_SCROLL_GET_VERTICAL_PERCENT, "ScrollPattern", "GetVerticalScrollPercent", bytecode.KindDouble),

	// Grid pattern
	res(bytecode.OP_GRID_GET_ROW_COUNT, "GridPattern", "GetRowCount", bytecode.KindInt),
	res(bytecode.OP_GRID_GET_COLUMN_COUNT, "GridPattern", "GetColumnCount", bytecode.KindInt),
	res(bytecode.OP_GRID_GET_ITEM, "GridPattern", "GetItem", bytecode.KindElement, bytecode.KindInt, bytecode.KindInt),

	// Window pattern
	act(bytecode.OP_WINDOW_CLOSE, "WindowPattern", "Close"),
	res(bytecode.OP_WINDOW_GET_CAN_MAXIMIZE, "WindowPattern", "GetCanMaximize", bytecode.KindBool),
	res(bytecode.OP_WINDOW_GET_CAN_MINIMIZE, "WindowPattern", "GetCanMinimize", bytecode.KindBool),
	res(bytecode.OP_WINDOW_GET_IS_MODAL, "WindowPattern", "GetIsModal", bytecode.KindBool),
	res(bytecode.OP_WINDOW_GET_VISUAL_STATE, "WindowPattern", "GetWindowVisualState", bytecode.KindEnum),
	act(bytecode.OP_WINDOW_SET_VISUAL_STATE, "WindowPattern", "SetWindowVisualState", bytecode.KindEnum),

	// Expand/collapse pattern
	act(bytecode.OP_EXPAND_COLLAPSE_EXPAND, "ExpandCollapsePattern", "Expand"),
	act(bytecode.OP_EXPAND_COLLAPSE_COLLAPSE, "ExpandCollapsePattern", "Collapse"),
	res(bytecode.OP_EXPAND_COLLAPSE_GET_STATE, "ExpandCollapsePattern", "GetExpandCollapseState", bytecode.KindEnum),

	// Range value pattern
	res(bytecode.OP_RANGE_VALUE_GET_VALUE, "RangeValuePattern", "GetValue", bytecode.KindDouble),
	act(bytecode.OP_RANGE_VALUE_SET_VALUE, "RangeValuePattern", "SetValue", bytecode.KindDouble),
	res(bytecode.OP_RANGE_VALUE_GET_MINIMUM, "RangeValuePattern", "GetMinimum", bytecode.KindDouble),
	res(bytecode.OP_RANGE_VALUE_GET_MAXIMUM, "RangeValuePattern", "GetMaximum", bytecode.KindDouble),

	// Text pattern
	res(bytecode.OP_TEXT_GET_DOCUMENT_RANGE, "TextPattern", "GetDocumentRange", bytecode.KindTextRange),
	res(bytecode.OP_TEXT_RANGE_FROM_CHILD, "TextPattern", "RangeFromChild", bytecode.KindTextRange, bytecode.KindElement),

	// Text range
	res(bytecode.OP_TEXTRANGE_CLONE, "TextRange", "Clone", bytecode.KindTextRange),
	res(bytecode.OP_TEXTRANGE_COMPARE, "TextRange", "Compare", bytecode.KindBool, bytecode.KindTextRange),
	act(bytecode.OP_TEXTRANGE_EXPAND_TO_ENCLOSING_UNIT, "TextRange", "ExpandToEnclosingUnit", bytecode.KindEnum),
	res(bytecode.OP_TEXTRANGE_GET_TEXT, "TextRange", "GetText", bytecode.KindString, bytecode.KindInt),
	res(bytecode.OP_TEXTRANGE_MOVE, "TextRange", "Move", bytecode.KindInt, bytecode.KindEnum, bytecode.KindInt),
	act(bytecode.OP_TEXTRANGE_SELECT, "TextRange", "Select"),
	res(bytecode.OP_TEXTRANGE_FIND_TEXT, "TextRange", "FindText", bytecode.KindTextRange, bytecode.KindString, bytecode.KindBool, bytecode.KindBool),
	res(bytecode.OP_TEXTRANGE_GET_ENCLOSING_ELEMENT, "TextRange", "GetEnclosingElement", bytecode.KindElement),
}

type opKey struct {
	object string
	name   string
}

var (
	byKey    = make(map[opKey]Operation, len(operations))
	byOpcode = make(map[bytecode.Opcode]Operation, len(operations))
)

func init() {
	for _, op := range operations {
		byKey[opKey{op.Object, op.Name}] = op
		byOpcode[op.Opcode] = op
	}
}

// Lookup finds the catalogue entry for an (object kind, operation name)
// pair.
func Lookup(object, name string) (Operation, bool) {
	op, ok := byKey[opKey{object, name}]
	return op, ok
}

// ByOpcode finds the catalogue entry an opcode belongs to.
func ByOpcode(op bytecode.Opcode) (Operation, bool) {
	entry, ok := byOpcode[op]
	return entry, ok
}

// All returns the catalogue in declaration order.
func All() []Operation {
	out := make([]Operation, len(operations))
	copy(out, operations)
	return out
}
