package stmtgen

import (
	"cgen/src/ast"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/util"
)

// genWhile lowers a pre-tested loop (§4.7 "while"):
//
//	%whileN:
//	    <cond>
//	    jz %cond, %end_whileN
//	    <body>
//	    jmp %whileN
//	%end_whileN:
func (g *Generator) genWhile(n *ast.While, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	head := fc.structLabel(util.LabelWhileHead)
	end := fc.structLabel(util.LabelWhileEnd)

	blk.Label(head)
	cond, err := g.evalCondition(n.Cond, sc, blk, "while")
	if err != nil {
		return err
	}
	blk.CreateJz(cond, end)

	fc.breakStack.Push(end)
	fc.continueStack.Push(head)
	err = g.Gen(n.Body, sc, fc, blk)
	fc.continueStack.Pop()
	fc.breakStack.Pop()
	if err != nil {
		return err
	}

	blk.CreateJmp(head)
	blk.Label(end)
	return nil
}

// genDoWhile lowers a post-tested loop (§4.7 "do/while"):
//
//	%doN:
//	    <body>
//	%next_doN:
//	    <cond>
//	    jnz %cond, %doN
//	%end_doN:
//
// next_doN is the continue target: continue must re-run the condition, not
// jump straight back to the top of the body.
func (g *Generator) genDoWhile(n *ast.DoWhile, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	head := fc.structLabel(util.LabelDoHead)
	next := fc.structLabel(util.LabelDoNext)
	end := fc.structLabel(util.LabelDoEnd)

	blk.Label(head)
	fc.breakStack.Push(end)
	fc.continueStack.Push(next)
	err := g.Gen(n.Body, sc, fc, blk)
	fc.continueStack.Pop()
	fc.breakStack.Pop()
	if err != nil {
		return err
	}

	blk.Label(next)
	cond, err := g.evalCondition(n.Cond, sc, blk, "do/while")
	if err != nil {
		return err
	}
	blk.CreateJnz(cond, head)
	blk.Label(end)
	return nil
}

// genFor lowers a C for-loop (§4.7 "for"), whose Init/Cond/Step are each
// independently optional:
//
//	    <init>
//	%forN:
//	    <cond>             (absent -> always true, no jz)
//	    jz %cond, %end_forN
//	    <body>
//	%next_forN:
//	    <step>
//	    jmp %forN
//	%end_forN:
//
// next_forN is the continue target, so continue still runs the step before
// re-testing the condition.
func (g *Generator) genFor(n *ast.For, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	inner := sc.Open()

	if n.Init != nil {
		if _, err := g.Exprs.Gen(n.Init, inner, blk); err != nil {
			return err
		}
	}

	head := fc.structLabel(util.LabelForHead)
	next := fc.structLabel(util.LabelForNext)
	end := fc.structLabel(util.LabelForEnd)

	blk.Label(head)
	if n.Cond != nil {
		cond, err := g.evalCondition(n.Cond, inner, blk, "for")
		if err != nil {
			return err
		}
		blk.CreateJz(cond, end)
	}

	fc.breakStack.Push(end)
	fc.continueStack.Push(next)
	err := g.Gen(n.Body, inner, fc, blk)
	fc.continueStack.Pop()
	fc.breakStack.Pop()
	if err != nil {
		return err
	}

	blk.Label(next)
	if n.Step != nil {
		if _, err := g.Exprs.Gen(n.Step, inner, blk); err != nil {
			return err
		}
	}
	blk.CreateJmp(head)
	blk.Label(end)

	g.warnUnused(inner)
	return nil
}
