// Package stmtgen lowers statement ASTs to the three-address IR (§4.7):
// structured control flow, goto/label handling, break/continue/switch
// target stacks and the per-block unused-identifier pass.
//
// Three per-procedure stacks track nested structured control flow, built on
// util.Stack (src/util/stack.go, de-mutexed per §5's single-threaded model):
// breakStack holds the label a break jumps to and
// is pushed by both loops and switches; continueStack holds the label a
// continue jumps to and is pushed only by loops, so a continue inside a
// switch nested in a loop still reaches the loop's head; switchStack holds
// the active switch's case-label dispatch map, consulted only while
// generating a switch body's own statement sequence.
package stmtgen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/declgen"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/initgen"
	"cgen/src/ir"
	"cgen/src/labels"
	"cgen/src/scope"
	"cgen/src/token"
	"cgen/src/util"
)

// Generator holds the shared state StmtGen's operations consult, plus the
// already-built ExprGen, DeclGen and InitGen generators it delegates
// expression evaluation, local-declaration processing and aggregate
// initializer digestion to.
type Generator struct {
	Registry *cgtype.Registry
	Sink     *diag.Sink
	Exprs    *exprgen.Generator
	Decls    *declgen.Generator
	Inits    *initgen.Generator
}

// NewGenerator returns a Generator backed by the given registry, sink,
// expression generator, declaration generator and initializer generator.
func NewGenerator(reg *cgtype.Registry, sink *diag.Sink, exprs *exprgen.Generator, decls *declgen.Generator, inits *initgen.Generator) *Generator {
	return &Generator{Registry: reg, Sink: sink, Exprs: exprs, Decls: decls, Inits: inits}
}

// FuncCtx carries the state scoped to one procedure body's lowering: its
// goto-label table, its structural-label minter, and the break/continue/
// switch stacks. ModuleGen creates one per function definition.
type FuncCtx struct {
	Proc       *ir.Proc
	ReturnType *cgtype.CGType
	Goto       *labels.Table
	Lbl        *util.Labeler

	breakStack    util.Stack
	continueStack util.Stack
	switchStack   util.Stack
}

// NewFuncCtx returns a fresh FuncCtx for one procedure.
func NewFuncCtx(proc *ir.Proc, returnType *cgtype.CGType) *FuncCtx {
	return &FuncCtx{Proc: proc, ReturnType: returnType, Goto: labels.NewTable(), Lbl: util.NewLabeler()}
}

// structLabel mints a structural label via fc.Lbl's category+index naming
// convention and disambiguates it against the module's identifier
// namespace via the owning Proc.
func (fc *FuncCtx) structLabel(category int) string {
	return fc.Proc.NewLabelName(fc.Lbl.New(category))
}

// Gen lowers one statement, appending whatever IR it requires to blk.
func (g *Generator) Gen(s ast.Stmt, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	switch n := s.(type) {
	case *ast.Block:
		return g.genBlock(n, sc, fc, blk)
	case *ast.ExprStmt:
		return g.genExprStmt(n, sc, blk)
	case *ast.GlobalDecl:
		return g.genLocalDecl(n, sc, blk)
	case *ast.If:
		return g.genIf(n, sc, fc, blk)
	case *ast.While:
		return g.genWhile(n, sc, fc, blk)
	case *ast.DoWhile:
		return g.genDoWhile(n, sc, fc, blk)
	case *ast.For:
		return g.genFor(n, sc, fc, blk)
	case *ast.Switch:
		return g.genSwitch(n, sc, fc, blk)
	case *ast.Break:
		return g.genBreak(n, fc, blk)
	case *ast.Continue:
		return g.genContinue(n, fc, blk)
	case *ast.Return:
		return g.genReturn(n, sc, fc, blk)
	case *ast.Goto:
		fc.Goto.Use(n.Label)
		blk.CreateJmp("%" + n.Label)
		return nil
	case *ast.LabelStmt:
		if err := fc.Goto.Define(n.Name, n.Tok().Line, n.Tok().Pos); err != nil {
			return g.Sink.Error(diag.CodeRedefinition, n.Tok().Line, n.Tok().Pos, "%s", err)
		}
		blk.Label("%" + n.Name)
		return nil
	case *ast.Null:
		return nil
	case *ast.CaseLabel, *ast.DefaultLabel:
		// genSwitch precomputes every case/default label's IR name via
		// collectCases before lowering the body; Gen just emits the label
		// at the point the body reaches it, giving correct C fallthrough
		// semantics for free since nothing else distinguishes a case
		// boundary from any other statement in the linear Entries sequence.
		if fc.switchStack.Empty() {
			return g.Sink.Error(diag.CodeTypeMismatch, s.Tok().Line, s.Tok().Pos, "case/default label outside a switch statement")
		}
		sw := fc.switchStack.Peek().(*switchCtx)
		blk.Label(sw.labelOf[s])
		return nil
	}
	return nil
}

// genBlock opens a fresh scope frame, lowers each item in order, and runs
// the unused-local warning pass over the frame once done (§4.3, §9).
func (g *Generator) genBlock(n *ast.Block, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	inner := sc.Open()
	for _, item := range n.Items {
		if err := g.Gen(item, inner, fc, blk); err != nil {
			return err
		}
	}
	g.warnUnused(inner)
	return nil
}

// warnUnused emits CodeUnusedLocal for every block-local variable never
// looked up in this frame (§9). Scope.Lookup marks Used on every hit, so a
// single pass over Members() after the block is fully lowered suffices.
func (g *Generator) warnUnused(sc *scope.Scope) {
	for _, m := range sc.Members() {
		if m.Kind == scope.LVar && !m.Used {
			g.Sink.Warning(diag.CodeUnusedLocal, 0, 0, "%q is never used", m.Name)
		}
	}
}

func (g *Generator) genExprStmt(n *ast.ExprStmt, sc *scope.Scope, blk *ir.Block) error {
	if n.X == nil {
		return nil
	}
	_, err := g.Exprs.Gen(n.X, sc, blk)
	return err
}

// genLocalDecl processes a block-local declaration statement (§4.7: a
// GlobalDecl node may also appear inside a function body). It resolves the
// declaration the same way DeclGen would at file scope, binds each name as
// an LVar, mints its storage, and lowers any initializer through InitGen.
func (g *Generator) genLocalDecl(n *ast.GlobalDecl, sc *scope.Scope, blk *ir.Block) error {
	if n.Spec.StorageClass == "typedef" {
		for _, d := range n.Declarators {
			if err := g.Decls.DefineTypedef(n.Spec, d.Declarator, sc); err != nil {
				return err
			}
		}
		return nil
	}

	if len(n.Declarators) == 0 {
		_, err := g.Decls.ResolveDeclSpec(n.Spec, sc)
		return err
	}
	base, err := g.Decls.ResolveDeclSpec(n.Spec, sc)
	if err != nil {
		return err
	}

	proc := blk.Proc()
	for _, d := range n.Declarators {
		t, name, err := g.Decls.ApplyDeclarator(base, d.Declarator, sc)
		if err != nil {
			return err
		}
		if _, shadowed := sc.Lookup(name); shadowed {
			if _, local := sc.LookupLocal(name); !local {
				g.Sink.Warning(diag.CodeShadowedIdentifier, d.Tok().Line, d.Tok().Pos, "declaration of %q shadows an outer identifier", name)
			}
		}
		v := proc.CreateLocal(name, exprgen.IRTypeOf(t))
		member := &scope.Member{Kind: scope.LVar, Name: name, Type: t, IRName: v.Name}
		if err := sc.Insert(member); err != nil {
			return g.Sink.Error(diag.CodeRedefinition, d.Tok().Line, d.Tok().Pos, "%s", err)
		}
		if d.Init != nil {
			if err := g.genInit(v, member, d.Init, sc, blk); err != nil {
				return err
			}
		}
	}
	return nil
}

// genInit lowers a local declarator's initializer, whether scalar or
// aggregate (§4.9), delegating the actual tree-building and store-emission
// to InitGen; it then reconciles the declared type with whatever size
// InitGen inferred for an unsized array (§4.9 "Arrays with unspecified size
// are fixed by taking the highest initialized index + 1").
func (g *Generator) genInit(v *ir.Var, member *scope.Member, init *ast.Initializer, sc *scope.Scope, blk *ir.Block) error {
	resolved, err := g.Inits.LowerLocalInitializer(v, member.Type, init, sc, blk)
	if err != nil {
		return err
	}
	if resolved != member.Type {
		v.Type = exprgen.IRTypeOf(resolved)
		member.Type = resolved
	}
	return nil
}

func (g *Generator) genIf(n *ast.If, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	cond, err := g.evalCondition(n.Cond, sc, blk, "if")
	if err != nil {
		return err
	}

	falseLabel := fc.structLabel(util.LabelIfFalse)
	blk.CreateJz(cond, falseLabel)
	if err := g.Gen(n.Then, sc, fc, blk); err != nil {
		return err
	}
	if n.Else == nil {
		blk.Label(falseLabel)
		return nil
	}

	endLabel := fc.structLabel(util.LabelIfEnd)
	blk.CreateJmp(endLabel)
	blk.Label(falseLabel)
	if err := g.Gen(n.Else, sc, fc, blk); err != nil {
		return err
	}
	blk.Label(endLabel)
	return nil
}

func (g *Generator) genReturn(n *ast.Return, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	if n.Value == nil {
		if !fc.ReturnType.IsVoid() {
			return g.Sink.Error(diag.CodeTypeMismatch, n.Tok().Line, n.Tok().Pos, "non-void procedure must return a value")
		}
		blk.CreateRet()
		return nil
	}
	if fc.ReturnType.IsVoid() {
		return g.Sink.Error(diag.CodeVoidValueUsed, n.Tok().Line, n.Tok().Pos, "void procedure must not return a value")
	}
	r, err := g.Exprs.Gen(n.Value, sc, blk)
	if err != nil {
		return err
	}
	r, err = g.exprsTypeConvert(blk, r, fc.ReturnType)
	if err != nil {
		return err
	}
	blk.CreateRetV(fc.ReturnType.Bits(), r.IRVar)
	return nil
}

// GenFunctionBody lowers an entire function body (ModuleGen's entry point
// for one FunctionDef, §4.7/§6), opening the parameter scope's child frame
// for the top-level block and running the end-of-procedure goto-label
// check once the body is fully generated.
func (g *Generator) GenFunctionBody(body *ast.Block, sc *scope.Scope, fc *FuncCtx, blk *ir.Block) error {
	if err := g.genBlock(body, sc, fc, blk); err != nil {
		return err
	}
	return g.checkLabels(fc, body.Tok())
}

// checkLabels reports every goto target that was never defined (a fatal
// error, since the jump it already emitted has no destination) and warns
// about every label defined but never reached by a goto (§4.5).
func (g *Generator) checkLabels(fc *FuncCtx, tok token.Token) error {
	var first error
	for _, name := range fc.Goto.Undefined() {
		err := g.Sink.Error(diag.CodeLabelUndefined, tok.Line, tok.Pos, "label %q is used but never defined", name)
		if first == nil {
			first = err
		}
	}
	for _, name := range fc.Goto.Unused() {
		g.Sink.Warning(diag.CodeLabelUnused, tok.Line, tok.Pos, "label %q is defined but never used", name)
	}
	return first
}

func (g *Generator) genBreak(n *ast.Break, fc *FuncCtx, blk *ir.Block) error {
	if fc.breakStack.Empty() {
		return g.Sink.Error(diag.CodeBreakContinueOutside, n.Tok().Line, n.Tok().Pos, "break outside a loop or switch")
	}
	blk.CreateJmp(fc.breakStack.Peek().(string))
	return nil
}

func (g *Generator) genContinue(n *ast.Continue, fc *FuncCtx, blk *ir.Block) error {
	if fc.continueStack.Empty() {
		return g.Sink.Error(diag.CodeBreakContinueOutside, n.Tok().Line, n.Tok().Pos, "continue outside a loop")
	}
	blk.CreateJmp(fc.continueStack.Peek().(string))
	return nil
}

// evalCondition evaluates e as a scalar, boolean-normalized condition
// (§4.7: if/while/do/for conditions go through the same as_rvalue +
// scalar-check + logic-normalization ExprGen applies to && and ||).
func (g *Generator) evalCondition(e ast.Expr, sc *scope.Scope, blk *ir.Block, context string) (string, error) {
	r, err := g.Exprs.Gen(e, sc, blk)
	if err != nil {
		return "", err
	}
	r = g.Exprs.AsRvalue(blk, r)
	if err := g.Exprs.CheckScalar(r, e.Tok(), context); err != nil {
		return "", err
	}
	r = g.Exprs.MaterializeToLogic(blk, r)
	r = g.exprsMaterialize(blk, r)
	return r.IRVar, nil
}

func (g *Generator) exprsTypeConvert(blk *ir.Block, r *exprgen.EResult, dst *cgtype.CGType) (*exprgen.EResult, error) {
	return g.Exprs.TypeConvert(blk, r, dst, false)
}

func (g *Generator) exprsMaterialize(blk *ir.Block, r *exprgen.EResult) *exprgen.EResult {
	return g.Exprs.Materialize(blk, r)
}
