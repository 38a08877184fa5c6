package modulegen

import (
	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/exprgen"
	"cgen/src/ir"
	"cgen/src/scope"
	"cgen/src/stmtgen"
	"cgen/src/symtab"
)

// findFuncDeclarator walks down a Declarator's Inner chain to the node that
// carries its parameter list. The root of a declarator tree is its outermost
// type layer (declgen/declarator.go), so for "int *f(int x)" the root is the
// DeclFunc itself, wrapping a DeclPointer; the walk returns the first DeclFunc
// it meets — ProcessFunctionDef needs that node itself for its Params.
func findFuncDeclarator(d *ast.Declarator) *ast.Declarator {
	for d != nil {
		if d.Kind == ast.DeclFunc {
			return d
		}
		d = d.Inner
	}
	return nil
}

// ProcessFunctionDef lowers a function definition (§4.10, §6): it resolves
// the function's type and registers it with the symbol directory exactly
// like a declarator with an initializer would, then re-resolves its
// parameters against the function body's own scope (ApplyDeclarator's own
// parameter pass uses a scope it discards, fine for a bare declarator but
// not for a definition that needs the bindings to outlive the call) and
// hands the body to StmtGen.
func (g *Generator) ProcessFunctionDef(n *ast.FunctionDef) error {
	base, err := g.Decls.ResolveDeclSpec(n.Spec, g.FileScope)
	if err != nil {
		return err
	}
	t, name, err := g.Decls.ApplyDeclarator(base, n.Declarator, g.FileScope)
	if err != nil {
		return err
	}
	if t.Kind != cgtype.KindFunc {
		return g.Sink.Error(diag.CodeNotAFunction, n.Tok().Line, n.Tok().Pos,
			"%q is not declared as a function", name)
	}

	static := n.Spec.StorageClass == "static"
	sym, err := g.Symbols.Define(name, symtab.KindFunc, t, static)
	if err != nil {
		return g.Sink.Error(diag.CodeRedefinition, n.Tok().Line, n.Tok().Pos, "%s", err)
	}
	g.bindFileScopeSymbol(name, sym)

	linkage := ir.LinkGlobal
	if static {
		linkage = ir.LinkDefault
	}
	funcType := sym.Type
	proc := g.Module.DeclareProc(sym.IRName, exprgen.IRTypeOf(funcType.Return), funcType.Variadic, linkage)
	if funcType.Conv == cgtype.ConvUsr {
		proc.AddAttr("usr")
	}

	fd := findFuncDeclarator(n.Declarator)
	if fd == nil {
		return g.Sink.Error(diag.CodeNotAFunction, n.Tok().Line, n.Tok().Pos,
			"%q has no function declarator", name)
	}

	bodyScope := g.FileScope.Open()
	params := fd.Params
	if len(params) == 1 && params[0].Declarator == nil &&
		params[0].Spec.TypeSpec == ast.TypeSpecBasic && params[0].Spec.BaseKeyword == "void" {
		params = nil
	}
	for _, p := range params {
		pbase, err := g.Decls.ResolveDeclSpec(p.Spec, bodyScope)
		if err != nil {
			return err
		}
		pt, pname, err := g.Decls.ApplyDeclarator(pbase, p.Declarator, bodyScope)
		if err != nil {
			return err
		}
		if pt.Kind == cgtype.KindArray {
			pt = cgtype.PointerTo(pt.Elem, 0) // array parameter decays to pointer
		}
		param := proc.CreateParam(pname, exprgen.IRTypeOf(pt))
		if pname != "" {
			_ = bodyScope.Insert(&scope.Member{Kind: scope.Arg, Name: pname, Type: pt, IRName: param.Name})
		}
	}

	fc := stmtgen.NewFuncCtx(proc, funcType.Return)
	g.curFunc = fc
	g.curScope = bodyScope
	defer func() {
		g.curFunc = nil
		g.curScope = nil
	}()
	return g.Stmts.GenFunctionBody(n.Body, bodyScope, fc, proc.Body)
}
