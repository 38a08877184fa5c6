package initgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/token"
)

// BuildGlobalInitializer builds and digests an initializer for module-scope
// or static storage into a flat data block (§4.9 "digested into a flat IR
// data block"). Every leaf must fold to a compile-time constant, evaluated
// against a disposable procedure exactly like ExprGen's own EvalConstInt
// (§4.6), since module-scope initializers never themselves emit runtime
// instructions.
func (g *Generator) BuildGlobalInitializer(t *cgtype.CGType, init *ast.Initializer, sc *scope.Scope) (*cgtype.CGType, []int64, error) {
	dummyMod := ir.NewModule()
	dummyProc := dummyMod.CreateProc("__init", ir.IntType(cgtype.PointerBits), false, ir.LinkDefault)

	node, resolved, err := g.BuildInitializer(t, init, sc, dummyProc.Body)
	if err != nil {
		return t, nil, err
	}
	data, err := g.digest(resolved, node, init.Tok())
	if err != nil {
		return t, nil, err
	}
	return resolved, data, nil
}

// leafCount is the number of scalar data-entries t's data block or local
// zero-fill occupies: §8 scenario 6 digests `struct {int x; int y;}` to the
// two-entry block `[0, 2]`, one entry per leaf field rather than one per
// byte.
func (g *Generator) leafCount(t *cgtype.CGType) uint64 {
	switch t.Kind {
	case cgtype.KindArray:
		size := uint64(0)
		if t.Size != nil {
			size = *t.Size
		}
		return size * g.leafCount(t.Elem)
	case cgtype.KindRecord:
		if t.Rec.Kind == cgtype.Union {
			var max uint64
			for _, e := range t.Rec.Elems {
				if c := g.leafCount(e.Type); c > max {
					max = c
				}
			}
			return max
		}
		var total uint64
		for _, e := range t.Rec.Elems {
			total += g.leafCount(e.Type)
		}
		return total
	default:
		return 1
	}
}

// digest flattens node (built against t) into a data block, in declaration
// order, zero-filling anything the initializer left untouched (§4.9
// "either emit the initialized data-entries or emit zeros ... including
// unions, padded to union size").
func (g *Generator) digest(t *cgtype.CGType, node *Init, tok token.Token) ([]int64, error) {
	switch t.Kind {
	case cgtype.KindArray:
		size := uint64(0)
		if t.Size != nil {
			size = *t.Size
		}
		out := make([]int64, 0, size*g.leafCount(t.Elem))
		for i := uint64(0); i < size; i++ {
			var child *Init
			if node != nil {
				child = node.Array[int64(i)]
			}
			entries, err := g.digest(t.Elem, child, tok)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil

	case cgtype.KindRecord:
		if t.Rec.Kind == cgtype.Union {
			total := g.leafCount(t)
			for _, e := range t.Rec.Elems {
				child, ok := fieldOf(node, e.Name)
				if !ok {
					continue
				}
				entries, err := g.digest(e.Type, child, tok)
				if err != nil {
					return nil, err
				}
				return append(entries, zeros(total-uint64(len(entries)))...), nil
			}
			return zeros(total), nil
		}
		var out []int64
		for _, e := range t.Rec.Elems {
			child, _ := fieldOf(node, e.Name)
			entries, err := g.digest(e.Type, child, tok)
			if err != nil {
				return nil, err
			}
			out = append(out, entries...)
		}
		return out, nil

	default:
		if node == nil || node.Scalar == nil {
			return []int64{0}, nil
		}
		if !node.Scalar.CVKnown {
			return nil, g.Sink.Error(diag.CodeNotConstant, tok.Line, tok.Pos,
				"initializer for static storage duration must be a constant expression")
		}
		return []int64{node.Scalar.CVInt}, nil
	}
}

func fieldOf(node *Init, name string) (*Init, bool) {
	if node == nil || node.Fields == nil {
		return nil, false
	}
	child, ok := node.Fields[name]
	return child, ok
}

func zeros(n uint64) []int64 {
	return make([]int64, n)
}

// LowerLocalInitializer builds init against t and emits the store
// instructions a function-local declaration needs directly into blk:
// lvarptr for the base address, then one recmbr/ptridx + write per leaf,
// zero-filling every leaf the initializer left untouched. It returns the
// resolved type (array size inferred where t.Size was nil) so the caller
// can update the local's IR type and scope entry.
func (g *Generator) LowerLocalInitializer(v *ir.Var, t *cgtype.CGType, init *ast.Initializer, sc *scope.Scope, blk *ir.Block) (*cgtype.CGType, error) {
	node, resolved, err := g.BuildInitializer(t, init, sc, blk)
	if err != nil {
		return t, err
	}
	base := blk.CreateLvarPtr(v)
	g.emitLocalStores(base.Dest, resolved, node, blk)
	return resolved, nil
}

// emitLocalStores recursively addresses every leaf of t (using constant
// recmbr/ptridx offsets, mirroring ExprGen's genMember/genIndex lvalue
// chains) and writes either the initializer's value or zero.
func (g *Generator) emitLocalStores(basePtr string, t *cgtype.CGType, node *Init, blk *ir.Block) {
	switch t.Kind {
	case cgtype.KindArray:
		size := uint64(0)
		if t.Size != nil {
			size = *t.Size
		}
		elemIRType := exprgen.IRTypeOf(t.Elem)
		idxBits := cgtype.Basic(cgtype.Int).Bits()
		for i := uint64(0); i < size; i++ {
			idx := blk.CreateImm(idxBits, int64(i))
			addr := blk.CreatePtrIdx(basePtr, idx.Dest, elemIRType)
			var child *Init
			if node != nil {
				child = node.Array[int64(i)]
			}
			g.storeLeaf(addr.Dest, t.Elem, child, blk)
		}

	case cgtype.KindRecord:
		if t.Rec.Kind == cgtype.Union {
			active := t.Rec.Elems[0].Name
			if node != nil {
				for _, e := range t.Rec.Elems {
					if _, ok := fieldOf(node, e.Name); ok {
						active = e.Name
						break
					}
				}
			}
			for i, e := range t.Rec.Elems {
				if e.Name != active {
					continue
				}
				addr := blk.CreateRecMbr(basePtr, i, exprgen.IRTypeOf(e.Type))
				child, _ := fieldOf(node, e.Name)
				g.storeLeaf(addr.Dest, e.Type, child, blk)
			}
			return
		}
		for i, e := range t.Rec.Elems {
			addr := blk.CreateRecMbr(basePtr, i, exprgen.IRTypeOf(e.Type))
			child, _ := fieldOf(node, e.Name)
			g.storeLeaf(addr.Dest, e.Type, child, blk)
		}

	default:
		g.storeLeaf(basePtr, t, node, blk)
	}
}

// storeLeaf writes one scalar at addr, recursing first if t turns out to
// still be an aggregate (a nested struct/array slot reached without its own
// designator, so its node carries the whole sub-tree rather than a Scalar).
func (g *Generator) storeLeaf(addr string, t *cgtype.CGType, node *Init, blk *ir.Block) {
	if isAggregate(t) {
		g.emitLocalStores(addr, t, node, blk)
		return
	}
	var val string
	if node != nil && node.Scalar != nil {
		val = node.Scalar.IRVar
	} else {
		val = blk.CreateImm(t.Bits(), 0).Dest
	}
	blk.CreateWrite(t.Bits(), addr, val)
}
