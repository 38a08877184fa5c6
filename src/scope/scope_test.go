package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cgen/src/cgtype"
)

func TestInsertRejectsDuplicateInSameFrame(t *testing.T) {
	s := NewFileScope()
	require.NoError(t, s.Insert(&Member{Kind: GSym, Name: "x", Type: cgtype.Basic(cgtype.Int)}))
	err := s.Insert(&Member{Kind: GSym, Name: "x", Type: cgtype.Basic(cgtype.Int)})
	assert.Error(t, err)
}

func TestShadowingAcrossFramesIsAllowed(t *testing.T) {
	outer := NewFileScope()
	require.NoError(t, outer.Insert(&Member{Kind: GSym, Name: "x", Type: cgtype.Basic(cgtype.Int)}))

	inner := outer.Open()
	_, existsLocally := inner.LookupLocal("x")
	assert.False(t, existsLocally)
	err := inner.Insert(&Member{Kind: LVar, Name: "x", Type: cgtype.Basic(cgtype.Char)})
	assert.NoError(t, err)

	m, ok := inner.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, LVar, m.Kind)
}

func TestLookupWalksToEnclosingFrame(t *testing.T) {
	outer := NewFileScope()
	require.NoError(t, outer.Insert(&Member{Kind: GSym, Name: "g", Type: cgtype.Basic(cgtype.Int)}))
	inner := outer.Open()

	m, ok := inner.Lookup("g")
	require.True(t, ok)
	assert.Equal(t, GSym, m.Kind)
	assert.True(t, m.Used)
}

func TestLookupMissingReturnsFalse(t *testing.T) {
	s := NewFileScope()
	_, ok := s.Lookup("nope")
	assert.False(t, ok)
}

func TestTagNamespaceIsSeparateFromOrdinary(t *testing.T) {
	reg := cgtype.NewRegistry()
	rec := reg.CreateRecord(cgtype.Struct, "point", "@@struct.point")

	s := NewFileScope()
	require.NoError(t, s.Insert(&Member{Kind: GSym, Name: "point", Type: cgtype.Basic(cgtype.Int)}))
	require.NoError(t, s.InsertTag(&Tag{Kind: RecordTag, Name: "point", Record: rec}))

	_, ok := s.Lookup("point")
	assert.True(t, ok)
	tg, ok := s.LookupTag("point")
	require.True(t, ok)
	assert.Same(t, rec, tg.Record)
}

func TestMembersPreserveInsertionOrderForUnusedPass(t *testing.T) {
	s := NewFileScope()
	require.NoError(t, s.Insert(&Member{Kind: LVar, Name: "a", Type: cgtype.Basic(cgtype.Int)}))
	require.NoError(t, s.Insert(&Member{Kind: LVar, Name: "b", Type: cgtype.Basic(cgtype.Int)}))

	members := s.Members()
	require.Len(t, members, 2)
	assert.Equal(t, "a", members[0].Name)
	assert.Equal(t, "b", members[1].Name)
	assert.False(t, members[0].Used)
}

func TestChildrenAreTrackedForDeferredWalk(t *testing.T) {
	root := NewFileScope()
	c1 := root.Open()
	c2 := root.Open()
	assert.Equal(t, []*Scope{c1, c2}, root.Children())
}
