package bytecode

// Opcode identifies a single remote-operation instruction.
type Opcode uint32

const (
	OP_NOP Opcode = iota

	// Constants (operand creation; the payload travels in Instruction.Const)
	OP_NEW_BOOL
	OP_NEW_INT
	OP_NEW_UINT
	OP_NEW_DOUBLE
	OP_NEW_CHAR
	OP_NEW_STRING
	OP_NEW_POINT
	OP_NEW_RECT
	OP_NEW_GUID
	OP_NEW_ARRAY
	OP_NEW_STRING_MAP
	OP_NEW_NULL
	OP_NEW_EMPTY
	OP_NEW_BYTE_ARRAY
	OP_NEW_CACHE_REQUEST
	OP_NEW_ENUM

	// Assignment and equality (polymorphic over the operand's type)
	OP_SET          // in: [dst, src]
	OP_IS_EQUAL     // in: [lhs, rhs], out: bool
	OP_IS_NOT_EQUAL // in: [lhs, rhs], out: bool

	// Arithmetic (mutates the first input slot, like Set)
	OP_ADD      // in: [dst, rhs]
	OP_SUBTRACT // in: [dst, rhs]
	OP_MULTIPLY // in: [dst, rhs]
	OP_DIVIDE   // in: [dst, rhs]

	// Ordering comparisons (numeric inputs, bool output)
	OP_IS_LESS_THAN
	OP_IS_LESS_THAN_OR_EQUAL
	OP_IS_GREATER_THAN
	OP_IS_GREATER_THAN_OR_EQUAL

	// Boolean logic (mutates the first input slot, like arithmetic)
	OP_BOOL_NOT // in: [dst]
	OP_BOOL_AND // in: [dst, rhs]
	OP_BOOL_OR  // in: [dst, rhs]

	// Structural instructions. In the scope graph these carry child
	// scopes; in the linearized stream the children follow as
	// marker-delimited regions.
	OP_IF    // in: [cond]; children: if-true, if-false
	OP_WHILE // in: [cond]; children: while-body, while-update
	OP_TRY   // children: try-body, except
	OP_BREAK
	OP_CONTINUE
	OP_HALT             // in: [status] or literal status in Const
	OP_GET_FAILURE_CODE // out: int; valid only inside an except region

	// Stream markers emitted by linearization only. Never present in a
	// scope graph.
	OP_SCOPE_BEGIN // Block field carries the region kind
	OP_SCOPE_END

	// String operations
	OP_STRING_CONCAT // in: [dst, rhs]; mutates the first input slot
	OP_STRING_LENGTH // in: [s], out: int

	// Array operations
	OP_ARRAY_APPEND    // in: [arr, v]
	OP_ARRAY_GET_AT    // in: [arr, idx], out: any
	OP_ARRAY_REMOVE_AT // in: [arr, idx]
	OP_ARRAY_SIZE      // in: [arr], out: int

	// String map operations
	OP_STRINGMAP_INSERT  // in: [m, key, v]
	OP_STRINGMAP_LOOKUP  // in: [m, key], out: any
	OP_STRINGMAP_HAS_KEY // in: [m, key], out: bool
	OP_STRINGMAP_REMOVE  // in: [m, key]
	OP_STRINGMAP_SIZE    // in: [m], out: int

	// Guid / id lookups
	OP_LOOKUP_GUID // in: [id-enum], out: guid

	// Element properties and navigation
	OP_ELEMENT_GET_NAME
	OP_ELEMENT_GET_CLASS_NAME
	OP_ELEMENT_GET_CONTROL_TYPE
	OP_ELEMENT_GET_PARENT
	OP_ELEMENT_GET_FIRST_CHILD
	OP_ELEMENT_GET_LAST_CHILD
	OP_ELEMENT_GET_NEXT_SIBLING
	OP_ELEMENT_GET_PREVIOUS_SIBLING
	OP_ELEMENT_GET_PROPERTY_VALUE // in: [el, propertyId-enum], out: any
	OP_ELEMENT_GET_INVOKE_PATTERN
	OP_ELEMENT_GET_TOGGLE_PATTERN
	OP_ELEMENT_GET_VALUE_PATTERN
	OP_ELEMENT_GET_SCROLL_PATTERN
	OP_ELEMENT_GET_GRID_PATTERN
	OP_ELEMENT_GET_WINDOW_PATTERN
	OP_ELEMENT_GET_EXPAND_COLLAPSE_PATTERN
	OP_ELEMENT_GET_RANGE_VALUE_PATTERN
	OP_ELEMENT_GET_TEXT_PATTERN

	// Invoke pattern
	OP_INVOKE_INVOKE

	// Toggle pattern
	OP_TOGGLE_TOGGLE
	OP_TOGGLE_GET_STATE

	// Value pattern
	OP_VALUE_GET_VALUE
	OP_VALUE_SET_VALUE
	OP_VALUE_GET_IS_READ_ONLY

	// Scroll pattern
	OP_SCROLL_SCROLL
	OP_SCROLL_SET_PERCENT
	OP_SCROLL_GET_HORIZONTAL_PERCENT
	OP_SCROLL_GET_VERTICAL_PERCENT

	// Grid pattern
	OP_GRID_GET_ROW_COUNT
	OP_GRID_GET_COLUMN_COUNT
	OP_GRID_GET_ITEM

	// Window pattern
	OP_WINDOW_CLOSE
	OP_WINDOW_GET_CAN_MAXIMIZE
	OP_WINDOW_GET_CAN_MINIMIZE
	OP_WINDOW_GET_IS_MODAL
	OP_WINDOW_GET_VISUAL_STATE
	OP_WINDOW_SET_VISUAL_STATE

	// Expand/collapse pattern
	OP_EXPAND_COLLAPSE_EXPAND
	OP_EXPAND_COLLAPSE_COLLAPSE
	OP_EXPAND_COLLAPSE_GET_STATE

	// Range value pattern
	OP_RANGE_VALUE_GET_VALUE
	OP_RANGE_VALUE_SET_VALUE
	OP_RANGE_VALUE_GET_MINIMUM
	OP_RANGE_VALUE_GET_MAXIMUM

	// Text pattern
	OP_TEXT_GET_DOCUMENT_RANGE
	OP_TEXT_RANGE_FROM_CHILD

	// Text range
	OP_TEXTRANGE_CLONE
	OP_TEXTRANGE_COMPARE
	OP_TEXTRANGE_EXPAND_TO_ENCLOSING_UNIT
	OP_TEXTRANGE_GET_TEXT
	OP_TEXTRANGE_MOVE
	OP_TEXTRANGE_SELECT
	OP_TEXTRANGE_FIND_TEXT
	OP_TEXTRANGE_GET_ENCLOSING_ELEMENT

	opcodeCount // keep last
)

// OpcodeNames maps opcodes to their string names (for the disassembler)
var OpcodeNames = map[Opcode]string{
	OP_NOP: "NOP",

	OP_NEW_BOOL:          "NEW_BOOL",
	OP_NEW_INT:           "NEW_INT",
	OP_NEW_UINT:          "NEW_UINT",
	OP_NEW_DOUBLE:        "NEW_DOUBLE",
	OP_NEW_CHAR:          "NEW_CHAR",
	OP_NEW_STRING:        "NEW_STRING",
	OP_NEW_POINT:         "NEW_POINT",
	OP_NEW_RECT:          "NEW_RECT",
	OP_NEW_GUID:          "NEW_GUID",
	OP_NEW_ARRAY:         "NEW_ARRAY",
	OP_NEW_STRING_MAP:    "NEW_STRING_MAP",
	OP_NEW_NULL:          "NEW_NULL",
	OP_NEW_EMPTY:         "NEW_EMPTY",
	OP_NEW_BYTE_ARRAY:    "NEW_BYTE_ARRAY",
	OP_NEW_CACHE_REQUEST: "NEW_CACHE_REQUEST",
	OP_NEW_ENUM:          "NEW_ENUM",

	OP_SET:          "SET",
	OP_IS_EQUAL:     "IS_EQUAL",
	OP_IS_NOT_EQUAL: "IS_NOT_EQUAL",

	OP_ADD:      "ADD",
	OP_SUBTRACT: "SUBTRACT",
	OP_MULTIPLY: "MULTIPLY",
	OP_DIVIDE:   "DIVIDE",

	OP_IS_LESS_THAN:             "IS_LESS_THAN",
	OP_IS_LESS_THAN_OR_EQUAL:    "IS_LESS_THAN_OR_EQUAL",
	OP_IS_GREATER_THAN:          "IS_GREATER_THAN",
	OP_IS_GREATER_THAN_OR_EQUAL: "IS_GREATER_THAN_OR_EQUAL",

	OP_BOOL_NOT: "BOOL_NOT",
	OP_BOOL_AND: "BOOL_AND",
	OP_BOOL_OR:  "BOOL_OR",

	OP_IF:               "IF",
	OP_WHILE:            "WHILE",
	OP_TRY:              "TRY",
	OP_BREAK:            "BREAK",
	OP_CONTINUE:         "CONTINUE",
	OP_HALT:             "HALT",
	OP_GET_FAILURE_CODE: "GET_FAILURE_CODE",

	OP_SCOPE_BEGIN: "SCOPE_BEGIN",
	OP_SCOPE_END:   "SCOPE_END",

	OP_STRING_CONCAT: "STRING_CONCAT",
	OP_STRING_LENGTH: "STRING_LENGTH",

	OP_ARRAY_APPEND:    "ARRAY_APPEND",
	OP_ARRAY_GET_AT:    "ARRAY_GET_AT",
	OP_ARRAY_REMOVE_AT: "ARRAY_REMOVE_AT",
	OP_ARRAY_SIZE:      "ARRAY_SIZE",

	OP_STRINGMAP_INSERT:  "STRINGMAP_INSERT",
	OP_STRINGMAP_LOOKUP:  "STRINGMAP_LOOKUP",
	OP_STRINGMAP_HAS_KEY: "STRINGMAP_HAS_KEY",
	OP_STRINGMAP_REMOVE:  "STRINGMAP_REMOVE",
	OP_STRINGMAP_SIZE:    "STRINGMAP_SIZE",

	OP_LOOKUP_GUID: "LOOKUP_GUID",

	OP_ELEMENT_GET_NAME:                    "ELEMENT_GET_NAME",
	OP_ELEMENT_GET_CLASS_NAME:              "ELEMENT_GET_CLASS_NAME",
	OP_ELEMENT_GET_CONTROL_TYPE:            "ELEMENT_GET_CONTROL_TYPE",
	OP_ELEMENT_GET_PARENT:                  "ELEMENT_GET_PARENT",
	OP_ELEMENT_GET_FIRST_CHILD:             "ELEMENT_GET_FIRST_CHILD",
	OP_ELEMENT_GET_LAST_CHILD:              "ELEMENT_GET_LAST_CHILD",
	OP_ELEMENT_GET_NEXT_SIBLING:            "ELEMENT_GET_NEXT_SIBLING",
	OP_ELEMENT_GET_PREVIOUS_SIBLING:        "ELEMENT_GET_PREVIOUS_SIBLING",
	OP_ELEMENT_GET_PROPERTY_VALUE:          "ELEMENT_GET_PROPERTY_VALUE",
	OP_ELEMENT_GET_INVOKE_PATTERN:          "ELEMENT_GET_INVOKE_PATTERN",
	OP_ELEMENT_GET_TOGGLE_PATTERN:          "ELEMENT_GET_TOGGLE_PATTERN",
	OP_ELEMENT_GET_VALUE_PATTERN:           "ELEMENT_GET_VALUE_PATTERN",
	OP_ELEMENT_GET_SCROLL_PATTERN:          "ELEMENT_GET_SCROLL_PATTERN",
	OP_ELEMENT_GET_GRID_PATTERN:            "ELEMENT_GET_GRID_PATTERN",
	OP_ELEMENT_GET_WINDOW_PATTERN:          "ELEMENT_GET_WINDOW_PATTERN",
	OP_ELEMENT_GET_EXPAND_COLLAPSE_PATTERN: "ELEMENT_GET_EXPAND_COLLAPSE_PATTERN",
	OP_ELEMENT_GET_RANGE_VALUE_PATTERN:     "ELEMENT_GET_RANGE_VALUE_PATTERN",
	OP_ELEMENT_GET_TEXT_PATTERN:            "ELEMENT_GET_TEXT_PATTERN",

	OP_INVOKE_INVOKE: "INVOKE_INVOKE",

	OP_TOGGLE_TOGGLE:    "TOGGLE_TOGGLE",
	OP_TOGGLE_GET_STATE: "TOGGLE_GET_STATE",

	OP_VALUE_GET_VALUE:        "VALUE_GET_VALUE",
	OP_VALUE_SET_VALUE:        "VALUE_SET_VALUE",
	OP_VALUE_GET_IS_READ_ONLY: "VALUE_GET_IS_READ_ONLY",

	OP_SCROLL_SCROLL:                 "SCROLL_SCROLL",
	OP_SCROLL_SET_PERCENT:            "SCROLL_SET_PERCENT",
	OP_SCROLL_GET_HORIZONTAL_PERCENT: "SCROLL_GET_HORIZONTAL_PERCENT",
	OP_SCROLL_GET_VERTICAL_PERCENT:   "SCROLL_GET_VERTICAL_PERCENT",

	OP_GRID_GET_ROW_COUNT:    "GRID_GET_ROW_COUNT",
	OP_GRID_GET_COLUMN_COUNT: "GRID_GET_COLUMN_COUNT",
	OP_GRID_GET_ITEM:         "GRID_GET_ITEM",

	OP_WINDOW_CLOSE:            "WINDOW_CLOSE",
	OP_WINDOW_GET_CAN_MAXIMIZE: "WINDOW_GET_CAN_MAXIMIZE",
	OP_WINDOW_GET_CAN_MINIMIZE: "WINDOW_GET_CAN_MINIMIZE",
	OP_WINDOW_GET_IS_MODAL:     "WINDOW_GET_IS_MODAL",
	OP_WINDOW_GET_VISUAL_STATE: "WINDOW_GET_VISUAL_STATE",
	OP_WINDOW_SET_VISUAL_STATE: "WINDOW_SET_VISUAL_STATE",

	OP_EXPAND_COLLAPSE_EXPAND:    "EXPAND_COLLAPSE_EXPAND",
	OP_EXPAND_COLLAPSE_COLLAPSE:  "EXPAND_COLLAPSE_COLLAPSE",
	OP_EXPAND_COLLAPSE_GET_STATE: "EXPAND_COLLAPSE_GET_STATE",

	OP_RANGE_VALUE_GET_VALUE:   "RANGE_VALUE_GET_VALUE",
	OP_RANGE_VALUE_SET_VALUE:   "RANGE_VALUE_SET_VALUE",
	OP_RANGE_VALUE_GET_MINIMUM: "RANGE_VALUE_GET_MINIMUM",
	OP_RANGE_VALUE_GET_MAXIMUM: "RANGE_VALUE_GET_MAXIMUM",

	OP_TEXT_GET_DOCUMENT_RANGE: "TEXT_GET_DOCUMENT_RANGE",
	OP_TEXT_RANGE_FROM_CHILD:   "TEXT_RANGE_FROM_CHILD",

	OP_TEXTRANGE_CLONE:                    "TEXTRANGE_CLONE",
	OP_TEXTRANGE_COMPARE:                  "TEXTRANGE_COMPARE",
	OP_TEXTRANGE_EXPAND_TO_ENCLOSING_UNIT: "TEXTRANGE_EXPAND_TO_ENCLOSING_UNIT",
	OP_TEXTRANGE_GET_TEXT:                 "TEXTRANGE_GET_TEXT",
	OP_TEXTRANGE_MOVE:                     "TEXTRANGE_MOVE",
	OP_TEXTRANGE_SELECT:                   "TEXTRANGE_SELECT",
	OP_TEXTRANGE_FIND_TEXT:                "TEXTRANGE_FIND_TEXT",
	OP_TEXTRANGE_GET_ENCLOSING_ELEMENT:    "TEXTRANGE_GET_ENCLOSING_ELEMENT",
}

// IsKnown reports whether op is part of the instruction vocabulary.
func (op Opcode) IsKnown() bool { return op < opcodeCount }

// IsDomain reports whether op is a domain operation (guid lookup,
// element, pattern, text range) rather than core/structural. Domain
// opcodes are the ones an interpreter delegates to its host.
func (op Opcode) IsDomain() bool { return op >= OP_LOOKUP_GUID && op < opcodeCount }

// IsStructural reports whether op opens child scopes in the graph.
func (op Opcode) IsStructural() bool {
	return op == OP_IF || op == OP_WHILE || op == OP_TRY
}

func (op Opcode) String() string {
	if name, ok := OpcodeNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}
