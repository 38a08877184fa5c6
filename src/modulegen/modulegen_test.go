package modulegen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgen/src/ast"
	"cgen/src/ir"
)

func intLit(v string) *ast.IntLit { return &ast.IntLit{Text: v} }

func basicSpec(kw string) *ast.DeclSpec {
	return &ast.DeclSpec{TypeSpec: ast.TypeSpecBasic, BaseKeyword: kw}
}

func identDecl(name string) *ast.Declarator {
	return &ast.Declarator{Kind: ast.DeclIdent, Name: name}
}

func scalarInit(e ast.Expr) *ast.Initializer { return &ast.Initializer{Value: e} }

func findVar(mod *ir.Module, name string) *ir.Var {
	for _, v := range mod.Vars {
		if v.Name == name {
			return v
		}
	}
	return nil
}

func findProc(mod *ir.Module, name string) *ir.Proc {
	for _, p := range mod.Procs {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func TestProcessGlobalDeclWithInitializerEmitsVar(t *testing.T) {
	g := New(DefaultOptions())
	decl := &ast.GlobalDecl{
		Spec: basicSpec("int"),
		Declarators: []*ast.InitDeclarator{
			{Declarator: identDecl("counter"), Init: scalarInit(intLit("5"))},
		},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	require.False(t, g.Sink.HasError())

	v := findVar(g.Module, "@counter")
	require.NotNil(t, v)
	assert.Equal(t, []int64{5}, v.Data)
	assert.Equal(t, ir.LinkGlobal, v.Linkage)
	assert.False(t, g.IdentIsType("counter"))
}

func TestProcessGlobalDeclStaticInitializerUsesDefaultLinkage(t *testing.T) {
	g := New(DefaultOptions())
	spec := basicSpec("int")
	spec.StorageClass = "static"
	decl := &ast.GlobalDecl{
		Spec: spec,
		Declarators: []*ast.InitDeclarator{
			{Declarator: identDecl("hidden"), Init: scalarInit(intLit("1"))},
		},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	v := findVar(g.Module, "@hidden")
	require.NotNil(t, v)
	assert.Equal(t, ir.LinkDefault, v.Linkage)
}

func TestProcessGlobalDeclWithoutInitializerDefersToFinish(t *testing.T) {
	g := New(DefaultOptions())
	decl := &ast.GlobalDecl{
		Spec: basicSpec("int"),
		Declarators: []*ast.InitDeclarator{
			{Declarator: identDecl("g")},
		},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	assert.Nil(t, findVar(g.Module, "@g"), "no IR entity until Finish resolves linkage")

	require.NoError(t, g.Finish())
	v := findVar(g.Module, "@g")
	require.NotNil(t, v)
	assert.Equal(t, ir.LinkExtern, v.Linkage)
}

func TestProcessGlobalDeclTypedefRegistersIdentIsType(t *testing.T) {
	g := New(DefaultOptions())
	spec := basicSpec("int")
	spec.StorageClass = "typedef"
	decl := &ast.GlobalDecl{
		Spec:        spec,
		Declarators: []*ast.InitDeclarator{{Declarator: identDecl("myint")}},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	assert.True(t, g.IdentIsType("myint"))
}

func TestProcessGlobalDeclTagOnlyDeclarationRegistersNoSymbol(t *testing.T) {
	g := New(DefaultOptions())
	spec := &ast.DeclSpec{TypeSpec: ast.TypeSpecStruct, TagName: "point", TagDefined: true,
		Fields: []*ast.FieldDecl{
			{Spec: basicSpec("int"), Declarator: identDecl("x")},
			{Spec: basicSpec("int"), Declarator: identDecl("y")},
		}}
	decl := &ast.GlobalDecl{Spec: spec}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	assert.Empty(t, g.Symbols.All())
}

func TestProcessFunctionDefLowersBodyAndParams(t *testing.T) {
	g := New(DefaultOptions())
	fn := &ast.FunctionDef{
		Spec: basicSpec("int"),
		Declarator: &ast.Declarator{
			Kind: ast.DeclFunc,
			Inner: identDecl("add"),
			Params: []*ast.ParamDecl{
				{Spec: basicSpec("int"), Declarator: identDecl("a")},
				{Spec: basicSpec("int"), Declarator: identDecl("b")},
			},
		},
		Body: &ast.Block{Items: []ast.Stmt{
			&ast.Return{Value: &ast.Binary{Op: "+", L: &ast.Ident{Name: "a"}, R: &ast.Ident{Name: "b"}}},
		}},
	}
	require.NoError(t, g.ProcessFunctionDef(fn))
	require.False(t, g.Sink.HasError())

	proc := findProc(g.Module, "@add")
	require.NotNil(t, proc)
	require.Len(t, proc.Params, 2)
	assert.Equal(t, "%a", proc.Params[0].Name)
	assert.Equal(t, "%b", proc.Params[1].Name)
	assert.NotEmpty(t, proc.Body.Entries)
	assert.Nil(t, g.curFunc, "curFunc is cleared once the body is fully lowered")
}

func TestProcessFunctionDefDeclaredThenNeverDefinedEmitsExternOnFinish(t *testing.T) {
	g := New(DefaultOptions())
	decl := &ast.GlobalDecl{
		Spec: basicSpec("int"),
		Declarators: []*ast.InitDeclarator{
			{Declarator: &ast.Declarator{
				Kind:   ast.DeclFunc,
				Inner:  identDecl("helper"),
				Params: nil,
			}},
		},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	assert.Nil(t, findProc(g.Module, "@helper"))

	require.NoError(t, g.Finish())
	proc := findProc(g.Module, "@helper")
	require.NotNil(t, proc)
	assert.Equal(t, ir.LinkExtern, proc.Linkage)
}

func TestProcessFunctionDefVoidOnlyParamListIsEmpty(t *testing.T) {
	g := New(DefaultOptions())
	fn := &ast.FunctionDef{
		Spec: basicSpec("void"),
		Declarator: &ast.Declarator{
			Kind:  ast.DeclFunc,
			Inner: identDecl("noop"),
			Params: []*ast.ParamDecl{
				{Spec: basicSpec("void")},
			},
		},
		Body: &ast.Block{Items: []ast.Stmt{&ast.Return{}}},
	}
	require.NoError(t, g.ProcessFunctionDef(fn))
	proc := findProc(g.Module, "@noop")
	require.NotNil(t, proc)
	assert.Empty(t, proc.Params)
}

func TestProcessFunctionDefPointerReturnFindsFuncDeclaratorThroughPointerWrap(t *testing.T) {
	g := New(DefaultOptions())
	// int *f(int x): root is Func wrapping Pointer wrapping Ident, per the
	// declarator convention that the root is the outermost type layer (a
	// function returning a pointer).
	fn := &ast.FunctionDef{
		Spec: basicSpec("int"),
		Declarator: &ast.Declarator{
			Kind: ast.DeclFunc,
			Inner: &ast.Declarator{
				Kind:  ast.DeclPointer,
				Inner: identDecl("f"),
			},
			Params: []*ast.ParamDecl{
				{Spec: basicSpec("int"), Declarator: identDecl("x")},
			},
		},
		Body: &ast.Block{Items: []ast.Stmt{&ast.Return{Value: &ast.IntLit{Text: "0"}}}},
	}
	require.NoError(t, g.ProcessFunctionDef(fn))
	proc := findProc(g.Module, "@f")
	require.NotNil(t, proc)
	require.Len(t, proc.Params, 1)
	assert.Equal(t, ir.TPtr, proc.Return.Kind)
}

func TestFinishSkipsTypedefSymbols(t *testing.T) {
	g := New(DefaultOptions())
	spec := basicSpec("int")
	spec.StorageClass = "typedef"
	decl := &ast.GlobalDecl{
		Spec:        spec,
		Declarators: []*ast.InitDeclarator{{Declarator: identDecl("myint")}},
	}
	require.NoError(t, g.ProcessGlobalDecl(decl))
	require.NoError(t, g.Finish())
	assert.Empty(t, g.Module.Vars)
	assert.Empty(t, g.Module.Procs)
}
