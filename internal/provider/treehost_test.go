package provider

import (
	"testing"

	"github.com/remoteops/remop/internal/bytecode"
)

func fixtureHost() *TreeHost {
	return NewTreeHost(&Node{
		Key:  "root",
		Name: "Desktop",
		Children: []*Node{
			{Key: "a", Name: "First", ControlType: 3},
			{Key: "b", Name: "Second", Value: "hello world", ReadOnly: false},
			{Key: "c", Name: "Third", Rows: 2, Cols: 2, Children: []*Node{
				{Key: "c00"}, {Key: "c01"}, {Key: "c10"}, {Key: "c11"},
			}},
		},
	})
}

func element(key string) bytecode.Value {
	return &bytecode.Imported{ObjectKind: bytecode.KindElement, Key: key}
}

func callString(t *testing.T, h *TreeHost, op bytecode.Opcode, recv bytecode.Value, args ...bytecode.Value) string {
	t.Helper()
	v, err := h.Call(op, recv, args)
	if err != nil {
		t.Fatalf("%s: %s", op, err)
	}
	s, ok := v.(*bytecode.String)
	if !ok {
		t.Fatalf("%s returned %s, want string", op, v.Kind())
	}
	return s.Val
}

func TestNavigation(t *testing.T) {
	h := fixtureHost()

	first, err := h.Call(bytecode.OP_ELEMENT_GET_FIRST_CHILD, element("root"), nil)
	if err != nil {
		t.Fatalf("first child: %s", err)
	}
	if got := callString(t, h, bytecode.OP_ELEMENT_GET_NAME, first); got != "First" {
		t.Fatalf("first child name = %q", got)
	}

	next, err := h.Call(bytecode.OP_ELEMENT_GET_NEXT_SIBLING, first, nil)
	if err != nil {
		t.Fatalf("next sibling: %s", err)
	}
	if got := callString(t, h, bytecode.OP_ELEMENT_GET_NAME, next); got != "Second" {
		t.Fatalf("next sibling name = %q", got)
	}

	if _, err := h.Call(bytecode.OP_ELEMENT_GET_PREVIOUS_SIBLING, first, nil); err == nil {
		t.Fatalf("previous sibling of the first child must fail")
	}

	parent, err := h.Call(bytecode.OP_ELEMENT_GET_PARENT, first, nil)
	if err != nil {
		t.Fatalf("parent: %s", err)
	}
	if got := callString(t, h, bytecode.OP_ELEMENT_GET_NAME, parent); got != "Desktop" {
		t.Fatalf("parent name = %q", got)
	}
}

func TestUnknownElementFails(t *testing.T) {
	h := fixtureHost()
	if _, err := h.Call(bytecode.OP_ELEMENT_GET_NAME, element("missing"), nil); err == nil {
		t.Fatalf("unknown key must fail")
	}
}

func TestTogglePatternFlipsState(t *testing.T) {
	h := fixtureHost()

	pat, err := h.Call(bytecode.OP_ELEMENT_GET_TOGGLE_PATTERN, element("a"), nil)
	if err != nil {
		t.Fatalf("get pattern: %s", err)
	}
	if _, err := h.Call(bytecode.OP_TOGGLE_TOGGLE, pat, nil); err != nil {
		t.Fatalf("toggle: %s", err)
	}
	state, err := h.Call(bytecode.OP_TOGGLE_GET_STATE, pat, nil)
	if err != nil {
		t.Fatalf("get state: %s", err)
	}
	if e := state.(*bytecode.Enum); e.Val != 1 {
		t.Fatalf("toggle state = %d, want 1", e.Val)
	}
}

func TestValuePatternRespectsReadOnly(t *testing.T) {
	h := fixtureHost()
	node, _ := h.Lookup("b")

	pat, err := h.Call(bytecode.OP_ELEMENT_GET_VALUE_PATTERN, element("b"), nil)
	if err != nil {
		t.Fatalf("get pattern: %s", err)
	}

	if _, err := h.Call(bytecode.OP_VALUE_SET_VALUE, pat, []bytecode.Value{&bytecode.String{Val: "updated"}}); err != nil {
		t.Fatalf("set value: %s", err)
	}
	if node.Value != "updated" {
		t.Fatalf("value = %q after set", node.Value)
	}

	node.ReadOnly = true
	if _, err := h.Call(bytecode.OP_VALUE_SET_VALUE, pat, []bytecode.Value{&bytecode.String{Val: "nope"}}); err == nil {
		t.Fatalf("set on read-only value must fail")
	}
}

func TestGridItemBounds(t *testing.T) {
	h := fixtureHost()
	pat, err := h.Call(bytecode.OP_ELEMENT_GET_GRID_PATTERN, element("c"), nil)
	if err != nil {
		t.Fatalf("get pattern: %s", err)
	}

	item, err := h.Call(bytecode.OP_GRID_GET_ITEM, pat, []bytecode.Value{
		&bytecode.Int{Val: 1}, &bytecode.Int{Val: 0},
	})
	if err != nil {
		t.Fatalf("get item: %s", err)
	}
	if imp := item.(*bytecode.Imported); imp.Key != "c10" {
		t.Fatalf("item key = %q, want c10", imp.Key)
	}

	_, err = h.Call(bytecode.OP_GRID_GET_ITEM, pat, []bytecode.Value{
		&bytecode.Int{Val: 2}, &bytecode.Int{Val: 0},
	})
	if err == nil {
		t.Fatalf("out-of-range grid item must fail")
	}
}

func TestWindowCloseDetachesSubtree(t *testing.T) {
	h := fixtureHost()
	pat, err := h.Call(bytecode.OP_ELEMENT_GET_WINDOW_PATTERN, element("c"), nil)
	if err != nil {
		t.Fatalf("get pattern: %s", err)
	}
	if _, err := h.Call(bytecode.OP_WINDOW_CLOSE, pat, nil); err != nil {
		t.Fatalf("close: %s", err)
	}
	if _, ok := h.Lookup("c"); ok {
		t.Fatalf("closed window still in the index")
	}
	if _, ok := h.Lookup("c00"); ok {
		t.Fatalf("closed window's child still in the index")
	}
}

func TestTextRangeFindAndClone(t *testing.T) {
	h := fixtureHost()

	pat, err := h.Call(bytecode.OP_ELEMENT_GET_TEXT_PATTERN, element("b"), nil)
	if err != nil {
		t.Fatalf("get pattern: %s", err)
	}
	doc, err := h.Call(bytecode.OP_TEXT_GET_DOCUMENT_RANGE, pat, nil)
	if err != nil {
		t.Fatalf("document range: %s", err)
	}

	found, err := h.Call(bytecode.OP_TEXTRANGE_FIND_TEXT, doc, []bytecode.Value{
		&bytecode.String{Val: "world"},
		&bytecode.Bool{Val: false},
		&bytecode.Bool{Val: false},
	})
	if err != nil {
		t.Fatalf("find text: %s", err)
	}

	text, err := h.Call(bytecode.OP_TEXTRANGE_GET_TEXT, found, []bytecode.Value{&bytecode.Int{Val: -1}})
	if err != nil {
		t.Fatalf("get text: %s", err)
	}
	if s := text.(*bytecode.String); s.Val != "world" {
		t.Fatalf("found text = %q, want world", s.Val)
	}

	clone, err := h.Call(bytecode.OP_TEXTRANGE_CLONE, found, nil)
	if err != nil {
		t.Fatalf("clone: %s", err)
	}
	same, err := h.Call(bytecode.OP_TEXTRANGE_COMPARE, found, []bytecode.Value{clone})
	if err != nil {
		t.Fatalf("compare: %s", err)
	}
	if !same.(*bytecode.Bool).Val {
		t.Fatalf("clone must cover the same span")
	}

	missing, err := h.Call(bytecode.OP_TEXTRANGE_FIND_TEXT, doc, []bytecode.Value{
		&bytecode.String{Val: "absent"},
		&bytecode.Bool{Val: false},
		&bytecode.Bool{Val: false},
	})
	if err == nil {
		t.Fatalf("find of absent text returned %v", missing)
	}
}

func TestLookupGuidIsDeterministic(t *testing.T) {
	h := fixtureHost()
	prop := &bytecode.Enum{Type: "PropertyId", Val: PropName}

	a, err := h.Call(bytecode.OP_LOOKUP_GUID, prop, nil)
	if err != nil {
		t.Fatalf("lookup guid: %s", err)
	}
	b, err := h.Call(bytecode.OP_LOOKUP_GUID, prop, nil)
	if err != nil {
		t.Fatalf("lookup guid: %s", err)
	}
	if a.(*bytecode.Guid).Val != b.(*bytecode.Guid).Val {
		t.Fatalf("same property id must map to the same guid")
	}

	other, _ := h.Call(bytecode.OP_LOOKUP_GUID, &bytecode.Enum{Type: "PropertyId", Val: PropClassName}, nil)
	if a.(*bytecode.Guid).Val == other.(*bytecode.Guid).Val {
		t.Fatalf("different property ids must map to different guids")
	}
}
