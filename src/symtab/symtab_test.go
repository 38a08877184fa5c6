package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgen/src/cgtype"
)

func TestDeclareNewSymbolGetsPrefixedIRName(t *testing.T) {
	tab := NewTable()
	s, err := tab.Declare("counter", KindVar, cgtype.Basic(cgtype.Int), false, false)
	require.NoError(t, err)
	assert.Equal(t, "@counter", s.IRName)
}

func TestRedeclarationComposesCompatibleTypes(t *testing.T) {
	tab := NewTable()
	size := uint64(0)
	_, err := tab.Declare("buf", KindVar, cgtype.ArrayOf(cgtype.Basic(cgtype.Char), nil, nil), false, true)
	require.NoError(t, err)

	s, err := tab.Declare("buf", KindVar, cgtype.ArrayOf(cgtype.Basic(cgtype.Char), nil, &size), false, true)
	require.NoError(t, err)
	require.NotNil(t, s.Type.Size)
}

func TestRedeclarationConflictingTypesErrors(t *testing.T) {
	tab := NewTable()
	_, err := tab.Declare("x", KindVar, cgtype.Basic(cgtype.Int), false, false)
	require.NoError(t, err)
	_, err = tab.Declare("x", KindVar, cgtype.Basic(cgtype.Long), false, false)
	assert.Error(t, err)
}

func TestDefineClearsExtern(t *testing.T) {
	tab := NewTable()
	s, err := tab.Declare("g", KindVar, cgtype.Basic(cgtype.Int), false, true)
	require.NoError(t, err)
	assert.True(t, s.Extern)

	s, err = tab.Define("g", KindVar, cgtype.Basic(cgtype.Int), false)
	require.NoError(t, err)
	assert.False(t, s.Extern)
	assert.True(t, s.Defined)
}

func TestRedefinitionIsAnError(t *testing.T) {
	tab := NewTable()
	_, err := tab.Define("f", KindFunc, cgtype.FuncType(cgtype.Basic(cgtype.Void), nil, false, cgtype.ConvDefault), false)
	require.NoError(t, err)
	_, err = tab.Define("f", KindFunc, cgtype.FuncType(cgtype.Basic(cgtype.Void), nil, false, cgtype.ConvDefault), false)
	assert.Error(t, err)
}

func TestStaticCannotWidenToNonStatic(t *testing.T) {
	tab := NewTable()
	_, err := tab.Declare("s", KindVar, cgtype.Basic(cgtype.Int), true, false)
	require.NoError(t, err)
	_, err = tab.Declare("s", KindVar, cgtype.Basic(cgtype.Int), false, false)
	assert.Error(t, err)
}

func TestDeclarationFollowsDefinitionWarningFlag(t *testing.T) {
	tab := NewTable()
	_, err := tab.Define("f", KindFunc, cgtype.FuncType(cgtype.Basic(cgtype.Void), nil, false, cgtype.ConvDefault), false)
	require.NoError(t, err)
	assert.True(t, tab.DeclarationFollowsDefinitionWarning("f"))
	assert.False(t, tab.DeclarationFollowsDefinitionWarning("unknown"))
}

func TestAllPreservesFirstDeclarationOrder(t *testing.T) {
	tab := NewTable()
	_, _ = tab.Declare("a", KindVar, cgtype.Basic(cgtype.Int), false, false)
	_, _ = tab.Declare("b", KindVar, cgtype.Basic(cgtype.Int), false, false)
	_, _ = tab.Declare("a", KindVar, cgtype.Basic(cgtype.Int), false, false)

	all := tab.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].CName)
	assert.Equal(t, "b", all[1].CName)
}
