package interp

import "github.com/remoteops/remop/internal/bytecode"

// arithmetic executes ADD/SUBTRACT/MULTIPLY/DIVIDE. The result replaces
// the first input's slot value; there is no output operand.
func (m *Machine) arithmetic(ins bytecode.Instruction) error {
	lhs, err := m.load(ins, 0)
	if err != nil {
		return err
	}
	rhs, err := m.load(ins, 1)
	if err != nil {
		return err
	}
	if lhs.Kind() != rhs.Kind() {
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}

	switch l := lhs.(type) {
	case *bytecode.Int:
		r := rhs.(*bytecode.Int).Val
		v, err := intArith(ins.Op, l.Val, r)
		if err != nil {
			return err
		}
		m.slots[ins.In[0]] = &bytecode.Int{Val: v}
	case *bytecode.Uint:
		r := rhs.(*bytecode.Uint).Val
		if ins.Op == bytecode.OP_DIVIDE && r == 0 {
			return &opFailure{code: FailDivideByZero, op: ins.Op}
		}
		var v uint32
		switch ins.Op {
		case bytecode.OP_ADD:
			v = l.Val + r
		case bytecode.OP_SUBTRACT:
			v = l.Val - r
		case bytecode.OP_MULTIPLY:
			v = l.Val * r
		case bytecode.OP_DIVIDE:
			v = l.Val / r
		}
		m.slots[ins.In[0]] = &bytecode.Uint{Val: v}
	case *bytecode.Double:
		r := rhs.(*bytecode.Double).Val
		var v float64
		switch ins.Op {
		case bytecode.OP_ADD:
			v = l.Val + r
		case bytecode.OP_SUBTRACT:
			v = l.Val - r
		case bytecode.OP_MULTIPLY:
			v = l.Val * r
		case bytecode.OP_DIVIDE:
			if r == 0 {
				return &opFailure{code: FailDivideByZero, op: ins.Op}
			}
			v = l.Val / r
		}
		m.slots[ins.In[0]] = &bytecode.Double{Val: v}
	default:
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}
	return nil
}

func intArith(op bytecode.Opcode, l, r int32) (int32, error) {
	switch op {
	case bytecode.OP_ADD:
		return l + r, nil
	case bytecode.OP_SUBTRACT:
		return l - r, nil
	case bytecode.OP_MULTIPLY:
		return l * r, nil
	case bytecode.OP_DIVIDE:
		if r == 0 {
			return 0, &opFailure{code: FailDivideByZero, op: op}
		}
		return l / r, nil
	}
	return 0, &opFailure{code: FailUnsupportedOp, op: op}
}

// compare executes the ordering comparisons, producing a bool operand.
func (m *Machine) compare(ins bytecode.Instruction) error {
	lhs, err := m.load(ins, 0)
	if err != nil {
		return err
	}
	rhs, err := m.load(ins, 1)
	if err != nil {
		return err
	}
	if lhs.Kind() != rhs.Kind() {
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}

	var less, equal bool
	switch l := lhs.(type) {
	case *bytecode.Int:
		r := rhs.(*bytecode.Int).Val
		less, equal = l.Val < r, l.Val == r
	case *bytecode.Uint:
		r := rhs.(*bytecode.Uint).Val
		less, equal = l.Val < r, l.Val == r
	case *bytecode.Double:
		r := rhs.(*bytecode.Double).Val
		less, equal = l.Val < r, l.Val == r
	case *bytecode.Char:
		r := rhs.(*bytecode.Char).Val
		less, equal = l.Val < r, l.Val == r
	case *bytecode.String:
		r := rhs.(*bytecode.String).Val
		less, equal = l.Val < r, l.Val == r
	default:
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}

	var out bool
	switch ins.Op {
	case bytecode.OP_IS_LESS_THAN:
		out = less
	case bytecode.OP_IS_LESS_THAN_OR_EQUAL:
		out = less || equal
	case bytecode.OP_IS_GREATER_THAN:
		out = !less && !equal
	case bytecode.OP_IS_GREATER_THAN_OR_EQUAL:
		out = !less
	}
	m.slots[ins.Out] = &bytecode.Bool{Val: out}
	return nil
}

func (m *Machine) arrayOp(ins bytecode.Instruction) error {
	recv, err := m.load(ins, 0)
	if err != nil {
		return err
	}
	arr, ok := recv.(*bytecode.Array)
	if !ok {
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}

	switch ins.Op {
	case bytecode.OP_ARRAY_APPEND:
		v, err := m.load(ins, 1)
		if err != nil {
			return err
		}
		arr.Items = append(arr.Items, v)
	case bytecode.OP_ARRAY_GET_AT:
		idx, err := m.loadIndex(ins, 1, len(arr.Items))
		if err != nil {
			return err
		}
		m.slots[ins.Out] = arr.Items[idx]
	case bytecode.OP_ARRAY_REMOVE_AT:
		idx, err := m.loadIndex(ins, 1, len(arr.Items))
		if err != nil {
			return err
		}
		arr.Items = append(arr.Items[:idx], arr.Items[idx+1:]...)
	case bytecode.OP_ARRAY_SIZE:
		m.slots[ins.Out] = &bytecode.Int{Val: int32(len(arr.Items))}
	}
	return nil
}

func (m *Machine) loadIndex(ins bytecode.Instruction, i, length int) (int, error) {
	v, err := m.load(ins, i)
	if err != nil {
		return 0, err
	}
	idx, ok := v.(*bytecode.Int)
	if !ok {
		return 0, &opFailure{code: FailTypeMismatch, op: ins.Op}
	}
	if idx.Val < 0 || int(idx.Val) >= length {
		return 0, &opFailure{code: FailIndexOutOfRange, op: ins.Op}
	}
	return int(idx.Val), nil
}

func (m *Machine) stringMapOp(ins bytecode.Instruction) error {
	recv, err := m.load(ins, 0)
	if err != nil {
		return err
	}
	sm, ok := recv.(*bytecode.StringMap)
	if !ok {
		return &opFailure{code: FailTypeMismatch, op: ins.Op}
	}

	key := ""
	if ins.Op != bytecode.OP_STRINGMAP_SIZE {
		key, err = m.loadString(ins, 1)
		if err != nil {
			return err
		}
	}

	switch ins.Op {
	case bytecode.OP_STRINGMAP_INSERT:
		v, err := m.load(ins, 2)
		if err != nil {
			return err
		}
		sm.Entries[key] = v
	case bytecode.OP_STRINGMAP_LOOKUP:
		v, ok := sm.Entries[key]
		if !ok {
			return &opFailure{code: FailKeyNotFound, op: ins.Op}
		}
		m.slots[ins.Out] = v
	case bytecode.OP_STRINGMAP_HAS_KEY:
		_, ok := sm.Entries[key]
		m.slots[ins.Out] = &bytecode.Bool{Val: ok}
	case bytecode.OP_STRINGMAP_REMOVE:
		if _, ok := sm.Entries[key]; !ok {
			return &opFailure{code: FailKeyNotFound, op: ins.Op}
		}
		delete(sm.Entries, key)
	case bytecode.OP_STRINGMAP_SIZE:
		m.slots[ins.Out] = &bytecode.Int{Val: int32(len(sm.Entries))}
	}
	return nil
}
