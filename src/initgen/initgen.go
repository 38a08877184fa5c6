// Package initgen digests designated initializers into either a flat IR
// data block (module-scope and static storage) or a sequence of runtime
// store instructions (automatic local storage), per §4.9.
//
// An Init tree mirrors the target type's structure sparsely: one child per
// initialized array index or struct field, built by walking the
// initializer's elements in source order and following each element's
// optional designator chain (.field, [index]). The tree is built once and
// then consumed two different ways by its two callers: BuildGlobalInitializer
// flattens it into a []int64 data block for ir.Var.Data, while
// LowerLocalInitializer walks it alongside the declared type to emit
// lvarptr/recmbr/ptridx + write instructions for a function-local variable,
// zero-filling whatever the initializer left untouched.
package initgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/ir"
	"cgen/src/scope"
)

// Generator holds the shared state initializer digestion consults: the
// record/enum registry (for union/struct layout), the diagnostic sink, and
// the already-built ExprGen it delegates every initializer element's
// expression lowering to.
type Generator struct {
	Registry *cgtype.Registry
	Sink     *diag.Sink
	Exprs    *exprgen.Generator
}

// NewGenerator returns a Generator backed by the given registry, sink and
// expression generator.
func NewGenerator(reg *cgtype.Registry, sink *diag.Sink, exprs *exprgen.Generator) *Generator {
	return &Generator{Registry: reg, Sink: sink, Exprs: exprs}
}

// Init is one node of the sparse tree described in the package doc. Exactly
// one of Scalar, Array or Fields is meaningful, determined by the CGType
// the node was built against.
type Init struct {
	Scalar *exprgen.EResult // leaf: a converted, materialized initializer value
	Array  map[int64]*Init  // KindArray: child per initialized index
	Fields map[string]*Init // KindRecord: child per initialized member
}

// cursor walks a flat list of initializer-list elements, shared across
// recursive calls so that brace-elided nested aggregates can consume
// elements directly from their enclosing list (§4.9 "Initializer elements
// are walked in source order").
type cursor struct {
	items []*ast.InitItem
	pos   int
}

func (c *cursor) done() bool { return c.pos >= len(c.items) }
func (c *cursor) peek() *ast.InitItem {
	return c.items[c.pos]
}

// BuildInitializer builds the Init tree for one declaration's initializer
// against its declared type t. It returns the resolved type: identical to t
// unless t is an array of unspecified size, in which case the returned type
// is a clone with Size set to the highest initialized index plus one (§4.9
// "Arrays with unspecified size are fixed by taking the highest initialized
// index + 1"). blk receives whatever instructions evaluating the
// initializer's expressions requires; the caller supplies a disposable
// block when a constant-only result is required (BuildGlobalInitializer).
func (g *Generator) BuildInitializer(t *cgtype.CGType, init *ast.Initializer, sc *scope.Scope, blk *ir.Block) (*Init, *cgtype.CGType, error) {
	if init.Value != nil {
		if lit, ok := init.Value.(*ast.StringLit); ok && isCharOrWideArray(t) {
			return g.buildStringInit(t, lit, blk)
		}
		node, err := g.buildScalar(t, init.Value, sc, blk)
		return node, t, err
	}

	node, err := g.fillAggregate(t, &cursor{items: init.Items}, sc, blk)
	if err != nil {
		return nil, t, err
	}
	return node, resolveArraySize(t, node), nil
}

// resolveArraySize returns t unchanged unless t is an array with no
// declared size, in which case it returns a clone sized to the highest
// index initgen actually placed.
func resolveArraySize(t *cgtype.CGType, node *Init) *cgtype.CGType {
	if t.Kind != cgtype.KindArray || t.Size != nil {
		return t
	}
	var maxIdx int64 = -1
	if node != nil {
		for idx := range node.Array {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}
	size := uint64(maxIdx + 1)
	clone := t.Clone()
	clone.Size = &size
	return clone
}

func (g *Generator) buildScalar(t *cgtype.CGType, e ast.Expr, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	r, err := g.Exprs.Gen(e, sc, blk)
	if err != nil {
		return nil, err
	}
	r, err = g.Exprs.TypeConvert(blk, r, t, false)
	if err != nil {
		return nil, err
	}
	r = g.Exprs.Materialize(blk, r)
	return &Init{Scalar: r}, nil
}

// buildValueNode builds the node a single initializer element's value
// contributes at slot type t: a nested braced list recurses with a fresh
// cursor, a string literal direct-initializes a char/wide array, and
// anything else is a scalar leaf.
func (g *Generator) buildValueNode(t *cgtype.CGType, v *ast.Initializer, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	if v.Items != nil {
		return g.fillAggregate(t, &cursor{items: v.Items}, sc, blk)
	}
	if lit, ok := v.Value.(*ast.StringLit); ok && isCharOrWideArray(t) {
		node, _, err := g.buildStringInit(t, lit, blk)
		return node, err
	}
	return g.buildScalar(t, v.Value, sc, blk)
}

// fillAggregate walks an array or record type, consuming one or more
// elements from cur for each slot (§4.9). A nested aggregate slot given a
// bare, unbraced value is filled by brace elision: it consumes as many
// further flat elements from the *same* cursor as it needs, warning
// CodeNonBracketedInit once per such slot.
func (g *Generator) fillAggregate(t *cgtype.CGType, cur *cursor, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	switch t.Kind {
	case cgtype.KindArray:
		return g.fillArray(t, cur, sc, blk)
	case cgtype.KindRecord:
		return g.fillRecord(t, cur, sc, blk)
	default:
		// A scalar reached via brace elision, e.g. `int x = {5};` — C
		// permits a single redundant brace pair around a scalar.
		if cur.done() {
			return &Init{}, nil
		}
		item := cur.items[cur.pos]
		cur.pos++
		return g.buildValueNode(t, item.Value, sc, blk)
	}
}

func (g *Generator) fillArray(t *cgtype.CGType, cur *cursor, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	node := &Init{Array: make(map[int64]*Init)}
	next := int64(0)
	for !cur.done() {
		item := cur.peek()
		if t.Size != nil && next >= int64(*t.Size) && len(item.Designators) == 0 {
			break
		}
		var idx int64
		var child *Init
		var err error
		if len(item.Designators) > 0 {
			if item.Designators[0].Kind != ast.DesignatorIndex {
				return nil, g.Sink.Error(diag.CodeTypeMismatch, item.Tok().Line, item.Tok().Pos, "field designator used on an array")
			}
			idx, child, err = g.resolveIndexDesignator(t, item, sc, blk)
		} else {
			idx = next
			if t.Size != nil && idx >= int64(*t.Size) {
				break
			}
			child, err = g.placeImplicit(t.Elem, item, cur, sc, blk)
		}
		if err != nil {
			return nil, err
		}
		if len(item.Designators) > 0 {
			cur.pos++
		}
		if _, dup := node.Array[idx]; dup {
			g.Sink.Warning(diag.CodeFieldOverwritten, item.Tok().Line, item.Tok().Pos, "initializer overrides element at index %d", idx)
		}
		node.Array[idx] = child
		next = idx + 1
	}
	return node, nil
}

// resolveIndexDesignator evaluates item's leading [index] designator and
// builds the node it designates, descending through any remaining chain
// links (§4.9 "navigates into or creates the appropriate child").
func (g *Generator) resolveIndexDesignator(t *cgtype.CGType, item *ast.InitItem, sc *scope.Scope, blk *ir.Block) (int64, *Init, error) {
	d := item.Designators[0]
	idx, ok := g.Exprs.EvalConstInt(d.Index, sc)
	if !ok {
		return 0, nil, g.Sink.Error(diag.CodeNotConstant, item.Tok().Line, item.Tok().Pos, "array designator requires a constant expression")
	}
	if idx < 0 {
		return 0, nil, g.Sink.Error(diag.CodeNegativeArrayIndex, item.Tok().Line, item.Tok().Pos, "array designator %d is negative", idx)
	}
	child, err := g.descend(t.Elem, item.Designators[1:], item.Value, sc, blk)
	return idx, child, err
}

func (g *Generator) fillRecord(t *cgtype.CGType, cur *cursor, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	node := &Init{Fields: make(map[string]*Init)}
	next := 0
	for !cur.done() {
		item := cur.peek()
		if next >= len(t.Rec.Elems) && len(item.Designators) == 0 {
			break
		}
		var name string
		var pos int
		var child *Init
		var err error
		if len(item.Designators) > 0 {
			if item.Designators[0].Kind != ast.DesignatorField {
				return nil, g.Sink.Error(diag.CodeTypeMismatch, item.Tok().Line, item.Tok().Pos, "index designator used on a struct or union")
			}
			name = item.Designators[0].Field
			ft, fieldPos, ok := fieldByName(t, name)
			if !ok {
				return nil, g.Sink.Error(diag.CodeUndeclaredIdentifier, item.Tok().Line, item.Tok().Pos, "%s has no member named %q", t.Rec.DisplayName(), name)
			}
			pos = fieldPos
			child, err = g.descend(ft, item.Designators[1:], item.Value, sc, blk)
		} else {
			name = t.Rec.Elems[next].Name
			pos = next
			child, err = g.placeImplicit(t.Rec.Elems[next].Type, item, cur, sc, blk)
		}
		if err != nil {
			return nil, err
		}
		if len(item.Designators) > 0 {
			cur.pos++
		}
		if _, dup := node.Fields[name]; dup {
			if t.Rec.Kind != cgtype.Union {
				g.Sink.Warning(diag.CodeFieldOverwritten, item.Tok().Line, item.Tok().Pos, "initializer overrides member %q", name)
			}
		}
		if t.Rec.Kind == cgtype.Union {
			// Only one member is ever live; a later designator silently
			// discards whatever an earlier element set (§4.9).
			node.Fields = map[string]*Init{name: child}
		} else {
			node.Fields[name] = child
		}
		next = pos + 1
	}
	return node, nil
}

// fieldByName looks up a record member by name, returning its type and
// positional index (needed to advance the "next default field" tracker).
func fieldByName(t *cgtype.CGType, name string) (*cgtype.CGType, int, bool) {
	for i, e := range t.Rec.Elems {
		if e.Name == name {
			return e.Type, i, true
		}
	}
	return nil, 0, false
}

// placeImplicit builds the node for a non-designated item at slot type
// elemType, applying brace elision when elemType is itself an aggregate and
// the item supplies no braces of its own (§4.9 silent in spec.md on the
// exact elision rule; this mirrors C11 6.7.9p20's "as many ... as necessary"
// wording, consuming further flat elements straight from cur).
func (g *Generator) placeImplicit(elemType *cgtype.CGType, item *ast.InitItem, cur *cursor, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	if item.Value.Items == nil && isAggregate(elemType) {
		if _, isStr := item.Value.Value.(*ast.StringLit); !(isStr && isCharOrWideArray(elemType)) {
			g.Sink.Warning(diag.CodeNonBracketedInit, item.Tok().Line, item.Tok().Pos, "missing braces around initializer for aggregate member")
			return g.fillAggregate(elemType, cur, sc, blk)
		}
	}
	cur.pos++
	return g.buildValueNode(elemType, item.Value, sc, blk)
}

// descend resolves the remainder of a designator chain within t, producing
// the node to store at the immediate slot the chain's first link names.
func (g *Generator) descend(t *cgtype.CGType, chain []ast.Designator, v *ast.Initializer, sc *scope.Scope, blk *ir.Block) (*Init, error) {
	if len(chain) == 0 {
		return g.buildValueNode(t, v, sc, blk)
	}
	d := chain[0]
	switch {
	case d.Kind == ast.DesignatorIndex && t.Kind == cgtype.KindArray:
		idx, ok := g.Exprs.EvalConstInt(d.Index, sc)
		if !ok {
			return nil, g.Sink.Error(diag.CodeNotConstant, v.Tok().Line, v.Tok().Pos, "array designator requires a constant expression")
		}
		child, err := g.descend(t.Elem, chain[1:], v, sc, blk)
		if err != nil {
			return nil, err
		}
		return &Init{Array: map[int64]*Init{idx: child}}, nil
	case d.Kind == ast.DesignatorField && t.Kind == cgtype.KindRecord:
		ft, _, ok := fieldByName(t, d.Field)
		if !ok {
			return nil, g.Sink.Error(diag.CodeUndeclaredIdentifier, v.Tok().Line, v.Tok().Pos, "%s has no member named %q", t.Rec.DisplayName(), d.Field)
		}
		child, err := g.descend(ft, chain[1:], v, sc, blk)
		if err != nil {
			return nil, err
		}
		return &Init{Fields: map[string]*Init{d.Field: child}}, nil
	default:
		return nil, g.Sink.Error(diag.CodeTypeMismatch, v.Tok().Line, v.Tok().Pos, "designator does not match the initialized type")
	}
}

func isAggregate(t *cgtype.CGType) bool {
	return t.Kind == cgtype.KindArray || t.Kind == cgtype.KindRecord
}

func isCharOrWideArray(t *cgtype.CGType) bool {
	if t.Kind != cgtype.KindArray || t.Elem == nil || t.Elem.Kind != cgtype.KindBasic {
		return false
	}
	return t.Elem.Elm == cgtype.Char || t.Elem.Elm == cgtype.UChar || t.Elem.Elm == cgtype.Int
}

