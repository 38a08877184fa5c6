package stmtgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/util"
)

// switchCase is one `case value:` dispatch entry, in source order.
type switchCase struct {
	value int64
	label string
}

// switchCtx is what genSwitch pushes onto FuncCtx.switchStack: the label
// assigned to every case/default label reachable in the switch's body
// (computed once, up front, so generation can run as a single linear pass
// over the body exactly like any other statement), plus the ordered
// dispatch list genSwitch's comparison chain walks.
type switchCtx struct {
	labelOf      map[ast.Stmt]string
	cases        []switchCase
	defaultLabel string
	hasDefault   bool
}

// genSwitch lowers a switch statement (§4.7 "switch"). C's switch allows
// case/default labels to appear arbitrarily deep inside the body (Duff's
// device), so labels are pre-assigned by a tree walk before any IR is
// emitted; generation then walks the body exactly like any other
// statement, consulting the precomputed map whenever it reaches a
// CaseLabel/DefaultLabel node. A switch nested inside the body is walked
// for its own dispatch separately: collectCases stops at a nested Switch's
// own Body.
func (g *Generator) genSwitch(n *ast.Switch, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	tagR, err := g.Exprs.Gen(n.Tag, sc, blk)
	if err != nil {
		return err
	}
	tagR = g.Exprs.AsRvalue(blk, tagR)
	if !tagR.Type.IsIntegral() {
		return g.Sink.Error(diag.CodeTypeMismatch, n.Tok().Line, n.Tok().Pos, "switch requires an integral or enum operand")
	}
	tagVar := g.Exprs.Materialize(blk, tagR).IRVar

	sw := &switchCtx{labelOf: make(map[ast.Stmt]string)}
	seen := make(map[int64]bool)
	if err := g.collectCases(n.Body, sw, sc, tagR.Type, seen, fc); err != nil {
		return err
	}
	g.checkEnumExhaustiveness(n, sw, tagR.Type, seen)

	end := fc.structLabel(util.LabelSwitchEnd)

	for _, c := range sw.cases {
		imm := blk.CreateImm(tagR.Type.Bits(), c.value)
		cmp := blk.CreateEq(tagVar, imm.Dest)
		blk.CreateJnz(cmp.Dest, c.label)
	}
	if sw.hasDefault {
		blk.CreateJmp(sw.defaultLabel)
	} else {
		blk.CreateJmp(end)
	}

	fc.breakStack.Push(end)
	fc.switchStack.Push(sw)
	err = g.Gen(n.Body, sc, fc, blk)
	fc.switchStack.Pop()
	fc.breakStack.Pop()
	if err != nil {
		return err
	}

	blk.Label(end)
	return nil
}

// checkEnumExhaustiveness warns once per enumerator left unhandled by a
// switch over a strict enum tag with no default clause (§4.7 "switch",
// §8 scenario 4): `enum E { A=0, B=1 }; switch(x){case 0: break;}` must
// report B by name. A default clause or a non-enum tag makes every value
// reachable some other way, so neither is checked here.
func (g *Generator) checkEnumExhaustiveness(n *ast.Switch, sw *switchCtx, tagType *cgtype.CGType, seen map[int64]bool) {
	if sw.hasDefault || tagType.Kind != cgtype.KindEnum || tagType.Enm == nil {
		return
	}
	for _, el := range tagType.Enm.Elems {
		if !seen[el.Value] {
			g.Sink.Warning(diag.CodeCaseNotInEnum, n.Tok().Line, n.Tok().Pos, "enumerator %s of %s is not handled by this switch", el.Name, tagType.Enm.DisplayName())
		}
	}
}

// collectCases walks s, assigning a fresh label name to every CaseLabel/
// DefaultLabel it finds and recording it in sw.labelOf, folding each
// CaseLabel's value as a constant expression against sc (§4.7 "case labels
// are constant expressions"). It descends into the bodies of Block/If/
// While/DoWhile/For but not into a nested Switch's own Body, matching C's
// rule that a case label binds to its innermost enclosing switch.
func (g *Generator) collectCases(s ast.Stmt, sw *switchCtx, sc *scope.Scope, tagType *cgtype.CGType, seen map[int64]bool, fc *FuncCtx) error {
	switch n := s.(type) {
	case *ast.Block:
		for _, item := range n.Items {
			if err := g.collectCases(item, sw, sc, tagType, seen, fc); err != nil {
				return err
			}
		}
	case *ast.If:
		if err := g.collectCases(n.Then, sw, sc, tagType, seen, fc); err != nil {
			return err
		}
		if n.Else != nil {
			return g.collectCases(n.Else, sw, sc, tagType, seen, fc)
		}
	case *ast.While:
		return g.collectCases(n.Body, sw, sc, tagType, seen, fc)
	case *ast.DoWhile:
		return g.collectCases(n.Body, sw, sc, tagType, seen, fc)
	case *ast.For:
		return g.collectCases(n.Body, sw, sc, tagType, seen, fc)
	case *ast.CaseLabel:
		value, ok := g.Exprs.EvalConstInt(n.Value, sc)
		if !ok {
			return g.Sink.Error(diag.CodeNotConstant, n.Tok().Line, n.Tok().Pos, "case label requires a constant expression")
		}
		if seen[value] {
			return g.Sink.Error(diag.CodeDuplicateCase, n.Tok().Line, n.Tok().Pos, "duplicate case value %d", value)
		}
		seen[value] = true
		if tagType.Kind == cgtype.KindEnum && tagType.Enm != nil {
			if _, ok := tagType.Enm.FindValue(value); !ok {
				g.Sink.Warning(diag.CodeCaseNotInEnum, n.Tok().Line, n.Tok().Pos, "case value %d is not a member of %s", value, tagType.Enm.DisplayName())
			}
		}
		label := fc.structLabel(util.LabelCaseBody)
		sw.labelOf[s] = label
		sw.cases = append(sw.cases, switchCase{value: value, label: label})
	case *ast.DefaultLabel:
		label := fc.structLabel(util.LabelSwitchDefault)
		sw.labelOf[s] = label
		sw.defaultLabel = label
		sw.hasDefault = true
	}
	return nil
}
