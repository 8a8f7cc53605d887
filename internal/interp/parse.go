package interp

import (
	"fmt"

	"github.com/remoteops/remop/internal/bytecode"
)

// region is one structured block of the program, reconstructed from the
// scope markers of the linearized stream.
type region struct {
	kind  bytecode.ScopeKind
	items []item
}

// item is one instruction within a region; structural instructions carry
// the regions their markers delimited.
type item struct {
	ins      bytecode.Instruction
	children []*region
}

// childCount returns how many marker-delimited regions must follow a
// structural instruction in the stream.
func childCount(op bytecode.Opcode) int {
	switch op {
	case bytecode.OP_IF, bytecode.OP_WHILE, bytecode.OP_TRY:
		return 2
	}
	return 0
}

// parseStream rebuilds the region tree from a flat stream. The stream is
// exactly what graph.Linearize produces: each structural instruction
// followed by its child regions bracketed with SCOPE_BEGIN/SCOPE_END.
func parseStream(stream []bytecode.Instruction) (*region, error) {
	p := &parser{stream: stream}
	root, err := p.parseRegion(bytecode.RootScope)
	if err != nil {
		return nil, err
	}
	if p.pos != len(stream) {
		return nil, fmt.Errorf("offset %04d: unexpected scope end", p.pos)
	}
	return root, nil
}

type parser struct {
	stream []bytecode.Instruction
	pos    int
}

// parseRegion consumes instructions until the region's closing marker
// (or end of stream for the root).
func (p *parser) parseRegion(kind bytecode.ScopeKind) (*region, error) {
	r := &region{kind: kind}
	for p.pos < len(p.stream) {
		ins := p.stream[p.pos]
		switch ins.Op {
		case bytecode.OP_SCOPE_END:
			if kind == bytecode.RootScope {
				return nil, fmt.Errorf("offset %04d: scope end at top level", p.pos)
			}
			return r, nil
		case bytecode.OP_SCOPE_BEGIN:
			return nil, fmt.Errorf("offset %04d: scope begin without a structural instruction", p.pos)
		}

		p.pos++
		it := item{ins: ins}
		for i := 0; i < childCount(ins.Op); i++ {
			child, err := p.parseChild()
			if err != nil {
				return nil, err
			}
			it.children = append(it.children, child)
		}
		r.items = append(r.items, it)
	}
	if kind != bytecode.RootScope {
		return nil, fmt.Errorf("unterminated %s region", kind)
	}
	return r, nil
}

// parseChild consumes one SCOPE_BEGIN ... SCOPE_END block.
func (p *parser) parseChild() (*region, error) {
	if p.pos >= len(p.stream) || p.stream[p.pos].Op != bytecode.OP_SCOPE_BEGIN {
		return nil, fmt.Errorf("offset %04d: expected scope begin", p.pos)
	}
	kind := p.stream[p.pos].Block
	p.pos++

	child, err := p.parseRegion(kind)
	if err != nil {
		return nil, err
	}

	if p.pos >= len(p.stream) || p.stream[p.pos].Op != bytecode.OP_SCOPE_END {
		return nil, fmt.Errorf("offset %04d: expected scope end", p.pos)
	}
	p.pos++
	return child, nil
}
