package provider

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/remoteops/remop/internal/bytecode"
	"github.com/remoteops/remop/internal/interp"
)

// Node is one element of the static accessibility tree a TreeHost
// serves. Fields cover the state the pattern operations read and write.
type Node struct {
	Key         string
	Name        string
	ClassName   string
	ControlType int32

	Value    string
	ReadOnly bool

	ToggleState int32
	ExpandState int32

	CanMaximize bool
	CanMinimize bool
	IsModal     bool
	VisualState int32

	RangeValue float64
	RangeMin   float64
	RangeMax   float64

	ScrollH float64
	ScrollV float64

	Rows, Cols int32

	// Invoked counts InvokePattern.Invoke calls, observable by tests.
	Invoked int

	Children []*Node
	parent   *Node
}

// TreeHost executes domain opcodes against a static in-memory element
// tree. providerd serves one as its object source; tests use it as a
// fixture.
type TreeHost struct {
	nodes  map[string]*Node
	ranges map[string]*textSpan
	nextId int
}

// textSpan is a live text-range handle over a node's value text.
type textSpan struct {
	node       *Node
	start, end int
}

// NewTreeHost indexes the tree rooted at root. Nodes without a Key get
// one assigned; parent links are derived from the child lists.
func NewTreeHost(root *Node) *TreeHost {
	h := &TreeHost{
		nodes:  make(map[string]*Node),
		ranges: make(map[string]*textSpan),
	}
	h.index(root, nil)
	return h
}

func (h *TreeHost) index(n *Node, parent *Node) {
	if n == nil {
		return
	}
	n.parent = parent
	if n.Key == "" {
		n.Key = fmt.Sprintf("node-%d", len(h.nodes))
	}
	h.nodes[n.Key] = n
	for _, c := range n.Children {
		h.index(c, n)
	}
}

// Lookup finds a node by key.
func (h *TreeHost) Lookup(key string) (*Node, bool) {
	n, ok := h.nodes[key]
	return n, ok
}

// Property ids GetPropertyValue understands.
const (
	PropName        int32 = 1
	PropClassName   int32 = 2
	PropControlType int32 = 3
)

// propertyGuidSpace namespaces the deterministic guids LookupGuid hands
// out for property ids.
var propertyGuidSpace = uuid.MustParse("6f3f34a9-7db4-4d6c-a9e5-0fbd4a1c40d2")

func elementHandle(n *Node) bytecode.Value {
	return &bytecode.Imported{ObjectKind: bytecode.KindElement, Key: n.Key}
}

func patternHandle(name string, n *Node) bytecode.Value {
	return &bytecode.Pattern{Name: name, Key: n.Key}
}

// element resolves a receiver to a tree node.
func (h *TreeHost) element(recv bytecode.Value) (*Node, error) {
	imp, ok := recv.(*bytecode.Imported)
	if !ok || imp.ObjectKind != bytecode.KindElement {
		return nil, interp.Fail(interp.FailTypeMismatch)
	}
	n, ok := h.nodes[imp.Key]
	if !ok {
		return nil, interp.Fail(interp.FailNoSuchObject)
	}
	return n, nil
}

// pattern resolves a receiver to the node behind one of its patterns.
func (h *TreeHost) pattern(recv bytecode.Value, name string) (*Node, error) {
	p, ok := recv.(*bytecode.Pattern)
	if !ok || p.Name != name {
		return nil, interp.Fail(interp.FailTypeMismatch)
	}
	n, ok := h.nodes[p.Key]
	if !ok {
		return nil, interp.Fail(interp.FailNoSuchObject)
	}
	return n, nil
}

// span resolves a receiver to a live text range.
func (h *TreeHost) span(recv bytecode.Value) (*textSpan, error) {
	imp, ok := recv.(*bytecode.Imported)
	if !ok || imp.ObjectKind != bytecode.KindTextRange {
		return nil, interp.Fail(interp.FailTypeMismatch)
	}
	s, ok := h.ranges[imp.Key]
	if !ok {
		return nil, interp.Fail(interp.FailNoSuchObject)
	}
	return s, nil
}

func (h *TreeHost) newSpan(s *textSpan) bytecode.Value {
	h.nextId++
	key := fmt.Sprintf("range-%d", h.nextId)
	h.ranges[key] = s
	return &bytecode.Imported{ObjectKind: bytecode.KindTextRange, Key: key}
}

func navigate(n *Node, err error) (bytecode.Value, error) {
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, interp.Fail(interp.FailNoSuchObject)
	}
	return elementHandle(n), nil
}

func argInt(args []bytecode.Value, i int) (int32, error) {
	if i < len(args) {
		if v, ok := args[i].(*bytecode.Int); ok {
			return v.Val, nil
		}
	}
	return 0, interp.Fail(interp.FailTypeMismatch)
}

func argDouble(args []bytecode.Value, i int) (float64, error) {
	if i < len(args) {
		if v, ok := args[i].(*bytecode.Double); ok {
			return v.Val, nil
		}
	}
	return 0, interp.Fail(interp.FailTypeMismatch)
}

func argString(args []bytecode.Value, i int) (string, error) {
	if i < len(args) {
		if v, ok := args[i].(*bytecode.String); ok {
			return v.Val, nil
		}
	}
	return "", interp.Fail(interp.FailTypeMismatch)
}

func argEnum(args []bytecode.Value, i int) (*bytecode.Enum, error) {
	if i < len(args) {
		if v, ok := args[i].(*bytecode.Enum); ok {
			return v, nil
		}
	}
	return nil, interp.Fail(interp.FailTypeMismatch)
}

// Call dispatches one domain opcode against the tree.
func (h *TreeHost) Call(op bytecode.Opcode, recv bytecode.Value, args []bytecode.Value) (bytecode.Value, error) {
	switch op {
	case bytecode.OP_LOOKUP_GUID:
		e, ok := recv.(*bytecode.Enum)
		if !ok {
			return nil, interp.Fail(interp.FailTypeMismatch)
		}
		g := uuid.NewSHA1(propertyGuidSpace, []byte(fmt.Sprintf("%s:%d", e.Type, e.Val)))
		return &bytecode.Guid{Val: g}, nil

	case bytecode.OP_ELEMENT_GET_NAME:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		return &bytecode.String{Val: n.Name}, nil
	case bytecode.OP_ELEMENT_GET_CLASS_NAME:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		return &bytecode.String{Val: n.ClassName}, nil
	case bytecode.OP_ELEMENT_GET_CONTROL_TYPE:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		return &bytecode.Enum{Type: "ControlType", Val: n.ControlType}, nil

	case bytecode.OP_ELEMENT_GET_PARENT:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		return navigate(n.parent, nil)
	case bytecode.OP_ELEMENT_GET_FIRST_CHILD:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		if len(n.Children) == 0 {
			return nil, interp.Fail(interp.FailNoSuchObject)
		}
		return elementHandle(n.Children[0]), nil
	case bytecode.OP_ELEMENT_GET_LAST_CHILD:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		if len(n.Children) == 0 {
			return nil, interp.Fail(interp.FailNoSuchObject)
		}
		return elementHandle(n.Children[len(n.Children)-1]), nil
	case bytecode.OP_ELEMENT_GET_NEXT_SIBLING:
		return navigate(h.sibling(recv, 1))
	case bytecode.OP_ELEMENT_GET_PREVIOUS_SIBLING:
		return navigate(h.sibling(recv, -1))

	case bytecode.OP_ELEMENT_GET_PROPERTY_VALUE:
		n, err := h.element(recv)
		if err != nil {
			return nil, err
		}
		prop, err := argEnum(args, 0)
		if err != nil {
			return nil, err
		}
		switch prop.Val {
		case PropName:
			return &bytecode.String{Val: n.Name}, nil
		case PropClassName:
			return &bytecode.String{Val: n.ClassName}, nil
		case PropControlType:
			return &bytecode.Enum{Type: "ControlType", Val: n.ControlType}, nil
		}
		return nil, interp.Fail(interp.FailKeyNotFound)

	case bytecode.OP_ELEMENT_GET_INVOKE_PATTERN:
		return h.patternFor(recv, "InvokePattern")
	case bytecode.OP_ELEMENT_GET_TOGGLE_PATTERN:
		return h.patternFor(recv, "TogglePattern")
	case bytecode.OP_ELEMENT_GET_VALUE_PATTERN:
		return h.patternFor(recv, "ValuePattern")
	case bytecode.OP_ELEMENT_GET_SCROLL_PATTERN:
		return h.patternFor(recv, "ScrollPattern")
	case bytecode.OP_ELEMENT_GET_GRID_PATTERN:
		return h.patternFor(recv, "GridPattern")
	case bytecode.OP_ELEMENT_GET_WINDOW_PATTERN:
		return h.patternFor(recv, "WindowPattern")
	case bytecode.OP_ELEMENT_GET_EXPAND_COLLAPSE_PATTERN:
		return h.patternFor(recv, "ExpandCollapsePattern")
	case bytecode.OP_ELEMENT_GET_RANGE_VALUE_PATTERN:
		return h.patternFor(recv, "RangeValuePattern")
	case bytecode.OP_ELEMENT_GET_TEXT_PATTERN:
		return h.patternFor(recv, "TextPattern")

	case bytecode.OP_INVOKE_INVOKE:
		n, err := h.pattern(recv, "InvokePattern")
		if err != nil {
			return nil, err
		}
		n.Invoked++
		return nil, nil

	case bytecode.OP_TOGGLE_TOGGLE:
		n, err := h.pattern(recv, "TogglePattern")
		if err != nil {
			return nil, err
		}
		n.ToggleState = 1 - n.ToggleState
		return nil, nil
	case bytecode.OP_TOGGLE_GET_STATE:
		n, err := h.pattern(recv, "TogglePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Enum{Type: "ToggleState", Val: n.ToggleState}, nil

	case bytecode.OP_VALUE_GET_VALUE:
		n, err := h.pattern(recv, "ValuePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.String{Val: n.Value}, nil
	case bytecode.OP_VALUE_SET_VALUE:
		n, err := h.pattern(recv, "ValuePattern")
		if err != nil {
			return nil, err
		}
		if n.ReadOnly {
			return nil, interp.Fail(interp.FailUnsupportedOp)
		}
		s, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		n.Value = s
		return nil, nil
	case bytecode.OP_VALUE_GET_IS_READ_ONLY:
		n, err := h.pattern(recv, "ValuePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Bool{Val: n.ReadOnly}, nil

	case bytecode.OP_SCROLL_SCROLL:
		n, err := h.pattern(recv, "ScrollPattern")
		if err != nil {
			return nil, err
		}
		hAmount, err := argEnum(args, 0)
		if err != nil {
			return nil, err
		}
		vAmount, err := argEnum(args, 1)
		if err != nil {
			return nil, err
		}
		n.ScrollH = clampPercent(n.ScrollH + float64(hAmount.Val)*10)
		n.ScrollV = clampPercent(n.ScrollV + float64(vAmount.Val)*10)
		return nil, nil
	case bytecode.OP_SCROLL_SET_PERCENT:
		n, err := h.pattern(recv, "ScrollPattern")
		if err != nil {
			return nil, err
		}
		hp, err := argDouble(args, 0)
		if err != nil {
			return nil, err
		}
		vp, err := argDouble(args, 1)
		if err != nil {
			return nil, err
		}
		n.ScrollH, n.ScrollV = clampPercent(hp), clampPercent(vp)
		return nil, nil
	case bytecode.OP_SCROLL_GET_HORIZONTAL_PERCENT:
		n, err := h.pattern(recv, "ScrollPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Double{Val: n.ScrollH}, nil
	case bytecode.OP_SCROLL_GET_VERTICAL_PERCENT:
		n, err := h.pattern(recv, "ScrollPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Double{Val: n.ScrollV}, nil

	case bytecode.OP_GRID_GET_ROW_COUNT:
		n, err := h.pattern(recv, "GridPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Int{Val: n.Rows}, nil
	case bytecode.OP_GRID_GET_COLUMN_COUNT:
		n, err := h.pattern(recv, "GridPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Int{Val: n.Cols}, nil
	case bytecode.OP_GRID_GET_ITEM:
		n, err := h.pattern(recv, "GridPattern")
		if err != nil {
			return nil, err
		}
		row, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		col, err := argInt(args, 1)
		if err != nil {
			return nil, err
		}
		if row < 0 || row >= n.Rows || col < 0 || col >= n.Cols {
			return nil, interp.Fail(interp.FailIndexOutOfRange)
		}
		idx := int(row*n.Cols + col)
		if idx >= len(n.Children) {
			return nil, interp.Fail(interp.FailNoSuchObject)
		}
		return elementHandle(n.Children[idx]), nil

	case bytecode.OP_WINDOW_CLOSE:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		h.detach(n)
		return nil, nil
	case bytecode.OP_WINDOW_GET_CAN_MAXIMIZE:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Bool{Val: n.CanMaximize}, nil
	case bytecode.OP_WINDOW_GET_CAN_MINIMIZE:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Bool{Val: n.CanMinimize}, nil
	case bytecode.OP_WINDOW_GET_IS_MODAL:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Bool{Val: n.IsModal}, nil
	case bytecode.OP_WINDOW_GET_VISUAL_STATE:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Enum{Type: "WindowVisualState", Val: n.VisualState}, nil
	case bytecode.OP_WINDOW_SET_VISUAL_STATE:
		n, err := h.pattern(recv, "WindowPattern")
		if err != nil {
			return nil, err
		}
		state, err := argEnum(args, 0)
		if err != nil {
			return nil, err
		}
		n.VisualState = state.Val
		return nil, nil

	case bytecode.OP_EXPAND_COLLAPSE_EXPAND:
		n, err := h.pattern(recv, "ExpandCollapsePattern")
		if err != nil {
			return nil, err
		}
		n.ExpandState = 1
		return nil, nil
	case bytecode.OP_EXPAND_COLLAPSE_COLLAPSE:
		n, err := h.pattern(recv, "ExpandCollapsePattern")
		if err != nil {
			return nil, err
		}
		n.ExpandState = 0
		return nil, nil
	case bytecode.OP_EXPAND_COLLAPSE_GET_STATE:
		n, err := h.pattern(recv, "ExpandCollapsePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Enum{Type: "ExpandCollapseState", Val: n.ExpandState}, nil

	case bytecode.OP_RANGE_VALUE_GET_VALUE:
		n, err := h.pattern(recv, "RangeValuePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Double{Val: n.RangeValue}, nil
	case bytecode.OP_RANGE_VALUE_SET_VALUE:
		n, err := h.pattern(recv, "RangeValuePattern")
		if err != nil {
			return nil, err
		}
		v, err := argDouble(args, 0)
		if err != nil {
			return nil, err
		}
		if v < n.RangeMin || v > n.RangeMax {
			return nil, interp.Fail(interp.FailIndexOutOfRange)
		}
		n.RangeValue = v
		return nil, nil
	case bytecode.OP_RANGE_VALUE_GET_MINIMUM:
		n, err := h.pattern(recv, "RangeValuePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Double{Val: n.RangeMin}, nil
	case bytecode.OP_RANGE_VALUE_GET_MAXIMUM:
		n, err := h.pattern(recv, "RangeValuePattern")
		if err != nil {
			return nil, err
		}
		return &bytecode.Double{Val: n.RangeMax}, nil

	case bytecode.OP_TEXT_GET_DOCUMENT_RANGE:
		n, err := h.pattern(recv, "TextPattern")
		if err != nil {
			return nil, err
		}
		return h.newSpan(&textSpan{node: n, start: 0, end: len(n.Value)}), nil
	case bytecode.OP_TEXT_RANGE_FROM_CHILD:
		n, err := h.pattern(recv, "TextPattern")
		if err != nil {
			return nil, err
		}
		// The static tree has no per-child text geometry, so ranges from
		// children cover the whole document too.
		return h.newSpan(&textSpan{node: n, start: 0, end: len(n.Value)}), nil

	case bytecode.OP_TEXTRANGE_CLONE:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		dup := *s
		return h.newSpan(&dup), nil
	case bytecode.OP_TEXTRANGE_COMPARE:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		if len(args) < 1 {
			return nil, interp.Fail(interp.FailTypeMismatch)
		}
		other, err := h.span(args[0])
		if err != nil {
			return nil, err
		}
		same := s.node == other.node && s.start == other.start && s.end == other.end
		return &bytecode.Bool{Val: same}, nil
	case bytecode.OP_TEXTRANGE_EXPAND_TO_ENCLOSING_UNIT:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		s.start, s.end = 0, len(s.node.Value)
		return nil, nil
	case bytecode.OP_TEXTRANGE_GET_TEXT:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		max, err := argInt(args, 0)
		if err != nil {
			return nil, err
		}
		text := s.node.Value[s.start:s.end]
		if max >= 0 && int(max) < len(text) {
			text = text[:max]
		}
		return &bytecode.String{Val: text}, nil
	case bytecode.OP_TEXTRANGE_MOVE:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		if _, err := argEnum(args, 0); err != nil {
			return nil, err
		}
		count, err := argInt(args, 1)
		if err != nil {
			return nil, err
		}
		moved := s.move(int(count))
		return &bytecode.Int{Val: int32(moved)}, nil
	case bytecode.OP_TEXTRANGE_SELECT:
		if _, err := h.span(recv); err != nil {
			return nil, err
		}
		return nil, nil
	case bytecode.OP_TEXTRANGE_FIND_TEXT:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		needle, err := argString(args, 0)
		if err != nil {
			return nil, err
		}
		at := strings.Index(s.node.Value[s.start:s.end], needle)
		if at < 0 {
			return nil, interp.Fail(interp.FailNoSuchObject)
		}
		return h.newSpan(&textSpan{node: s.node, start: s.start + at, end: s.start + at + len(needle)}), nil
	case bytecode.OP_TEXTRANGE_GET_ENCLOSING_ELEMENT:
		s, err := h.span(recv)
		if err != nil {
			return nil, err
		}
		return elementHandle(s.node), nil
	}

	return nil, interp.Fail(interp.FailUnsupportedOp)
}

// patternFor hands out a pattern handle for an element.
func (h *TreeHost) patternFor(recv bytecode.Value, name string) (bytecode.Value, error) {
	n, err := h.element(recv)
	if err != nil {
		return nil, err
	}
	return patternHandle(name, n), nil
}

// sibling walks the receiver's parent child list by delta.
func (h *TreeHost) sibling(recv bytecode.Value, delta int) (*Node, error) {
	n, err := h.element(recv)
	if err != nil {
		return nil, err
	}
	if n.parent == nil {
		return nil, nil
	}
	for i, c := range n.parent.Children {
		if c == n {
			j := i + delta
			if j < 0 || j >= len(n.parent.Children) {
				return nil, nil
			}
			return n.parent.Children[j], nil
		}
	}
	return nil, nil
}

// detach removes a node (and its subtree) from the tree and the index.
func (h *TreeHost) detach(n *Node) {
	if n.parent != nil {
		kept := n.parent.Children[:0]
		for _, c := range n.parent.Children {
			if c != n {
				kept = append(kept, c)
			}
		}
		n.parent.Children = kept
	}
	var drop func(*Node)
	drop = func(x *Node) {
		delete(h.nodes, x.Key)
		for _, c := range x.Children {
			drop(c)
		}
	}
	drop(n)
}

// move shifts a span by count characters, clamped to the document.
func (s *textSpan) move(count int) int {
	width := s.end - s.start
	limit := len(s.node.Value)
	target := s.start + count
	if target < 0 {
		target = 0
	}
	if target+width > limit {
		target = limit - width
		if target < 0 {
			target = 0
		}
	}
	moved := target - s.start
	s.start = target
	s.end = target + width
	return moved
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
