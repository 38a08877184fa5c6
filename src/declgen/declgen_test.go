package declgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgen/src/ast"
	"cgen/src/cgtype"
	"cgen/src/diag"
	"cgen/src/scope"
)

// constEval is a trivial ConstEvaluator that only folds IntLit nodes,
// enough to exercise array-size and enumerator-value resolution in tests.
type constEval struct{}

func (constEval) EvalConstInt(e ast.Expr, sc *scope.Scope) (int64, bool) {
	lit, ok := e.(*ast.IntLit)
	if !ok {
		return 0, false
	}
	v, err := ast.ParseIntLiteral(lit.Text)
	if err != nil {
		return 0, false
	}
	return int64(v.Value), true
}

func newGenerator() *Generator {
	return NewGenerator(cgtype.NewRegistry(), diag.NewSink(), constEval{})
}

func intLit(v string) *ast.IntLit { return &ast.IntLit{Text: v} }

func TestResolveBasicSpecDefaultsToInt(t *testing.T) {
	g := newGenerator()
	elm, err := g.ResolveBasicSpec(&ast.DeclSpec{})
	require.NoError(t, err)
	assert.Equal(t, cgtype.Int, elm)
}

func TestResolveBasicSpecShortUnsigned(t *testing.T) {
	g := newGenerator()
	elm, err := g.ResolveBasicSpec(&ast.DeclSpec{Short: 1, Unsigned: 1, BaseKeyword: "int"})
	require.NoError(t, err)
	assert.Equal(t, cgtype.UShort, elm)
}

func TestResolveBasicSpecRejectsShortLong(t *testing.T) {
	g := newGenerator()
	_, err := g.ResolveBasicSpec(&ast.DeclSpec{Short: 1, Long: 1})
	assert.Error(t, err)
}

func TestApplyDeclaratorPointerToInt(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	d := &ast.Declarator{Kind: ast.DeclPointer, Inner: &ast.Declarator{Kind: ast.DeclIdent, Name: "p"}}
	typ, name, err := g.ApplyDeclarator(cgtype.Basic(cgtype.Int), d, sc)
	require.NoError(t, err)
	assert.Equal(t, "p", name)
	assert.Equal(t, cgtype.KindPointer, typ.Kind)
	assert.Equal(t, cgtype.Int, typ.Target.Elm)
}

func TestApplyDeclaratorArrayOfPointer(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	// int *p[3]: root is Array, wrapping Pointer, wrapping Ident.
	d := &ast.Declarator{
		Kind:      ast.DeclArray,
		ArraySize: intLit("3"),
		Inner: &ast.Declarator{
			Kind:  ast.DeclPointer,
			Inner: &ast.Declarator{Kind: ast.DeclIdent, Name: "p"},
		},
	}
	typ, name, err := g.ApplyDeclarator(cgtype.Basic(cgtype.Int), d, sc)
	require.NoError(t, err)
	assert.Equal(t, "p", name)
	require.Equal(t, cgtype.KindArray, typ.Kind)
	require.Equal(t, cgtype.KindPointer, typ.Elem.Kind)
	assert.EqualValues(t, 3, *typ.Size)
}

func TestApplyDeclaratorFunctionVoidOnlyParam(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	d := &ast.Declarator{
		Kind: ast.DeclFunc,
		Params: []*ast.ParamDecl{
			{Spec: &ast.DeclSpec{TypeSpec: ast.TypeSpecBasic, BaseKeyword: "void"}},
		},
		Inner: &ast.Declarator{Kind: ast.DeclIdent, Name: "f"},
	}
	typ, name, err := g.ApplyDeclarator(cgtype.Basic(cgtype.Int), d, sc)
	require.NoError(t, err)
	assert.Equal(t, "f", name)
	assert.Empty(t, typ.Args)
}

func TestResolveRecordSpecDefinesFieldsInOrder(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	spec := &ast.DeclSpec{
		TypeSpec:   ast.TypeSpecStruct,
		TagName:    "point",
		TagDefined: true,
		Fields: []*ast.FieldDecl{
			{Spec: &ast.DeclSpec{TypeSpec: ast.TypeSpecBasic}, Declarator: &ast.Declarator{Kind: ast.DeclIdent, Name: "x"}},
			{Spec: &ast.DeclSpec{TypeSpec: ast.TypeSpecBasic}, Declarator: &ast.Declarator{Kind: ast.DeclIdent, Name: "y"}},
		},
	}
	typ, err := g.ResolveDeclSpec(spec, sc)
	require.NoError(t, err)
	require.Equal(t, cgtype.KindRecord, typ.Kind)
	assert.Len(t, typ.Rec.Elems, 2)
	assert.Equal(t, "x", typ.Rec.Elems[0].Name)
}

func TestResolveEnumSpecAssignsImplicitValues(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	spec := &ast.DeclSpec{
		TypeSpec:   ast.TypeSpecEnum,
		TagName:    "color",
		TagDefined: true,
		Enumerators: []*ast.Enumerator{
			{Name: "RED"},
			{Name: "GREEN"},
			{Name: "BLUE", Value: intLit("10")},
		},
	}
	typ, err := g.ResolveDeclSpec(spec, sc)
	require.NoError(t, err)
	el, ok := typ.Enm.FindName("GREEN")
	require.True(t, ok)
	assert.EqualValues(t, 1, el.Value)
	el, ok = typ.Enm.FindName("BLUE")
	require.True(t, ok)
	assert.EqualValues(t, 10, el.Value)
}

func TestDefineTypedefInsertsTDefMember(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	err := g.DefineTypedef(&ast.DeclSpec{TypeSpec: ast.TypeSpecBasic, BaseKeyword: "char"},
		&ast.Declarator{Kind: ast.DeclIdent, Name: "byte_t"}, sc)
	require.NoError(t, err)

	assert.True(t, IdentIsType(sc, "byte_t"))
	m, ok := sc.Lookup("byte_t")
	require.True(t, ok)
	assert.Equal(t, scope.TDef, m.Kind)
	assert.Equal(t, cgtype.Char, m.Type.Elm)
}

func TestResolveTypeNameForCast(t *testing.T) {
	g := newGenerator()
	sc := scope.NewFileScope()
	tn := &ast.TypeName{
		Spec:       &ast.DeclSpec{TypeSpec: ast.TypeSpecBasic, Long: 1},
		Declarator: &ast.Declarator{Kind: ast.DeclAbstract},
	}
	typ, err := g.ResolveTypeName(tn, sc)
	require.NoError(t, err)
	assert.Equal(t, cgtype.Long, typ.Elm)
}
