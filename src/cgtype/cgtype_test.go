package cgtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicPredicates(t *testing.T) {
	i := Basic(Int)
	assert.True(t, i.IsInteger())
	assert.True(t, i.IsIntegral())
	assert.False(t, i.IsVoid())

	v := Basic(Void)
	assert.True(t, v.IsVoid())
	assert.False(t, v.IsInteger())

	b := Basic(Logic)
	assert.True(t, b.IsLogic())
	assert.False(t, b.IsInteger())
}

func TestUnsignedness(t *testing.T) {
	assert.True(t, Basic(UInt).IsUnsigned())
	assert.False(t, Basic(Int).IsUnsigned())
	assert.True(t, Basic(ULongLong).IsUnsigned())
}

func TestIntRankOrdering(t *testing.T) {
	assert.Less(t, Basic(Char).IntRank(), Basic(Short).IntRank())
	assert.Less(t, Basic(Short).IntRank(), Basic(Int).IntRank())
	assert.Less(t, Basic(Int).IntRank(), Basic(Long).IntRank())
	assert.Less(t, Basic(Long).IntRank(), Basic(LongLong).IntRank())
}

func TestEnumRanksAsInt(t *testing.T) {
	reg := NewRegistry()
	e := reg.CreateEnum("color")
	et := EnumType(e)
	assert.Equal(t, Basic(Int).IntRank(), et.IntRank())
	assert.True(t, et.IsIntegral())
	assert.True(t, et.IsStrictEnum())
}

func TestCloneDeepCopiesCompositeShapes(t *testing.T) {
	inner := Basic(Int)
	p := PointerTo(inner, 0)
	c := p.Clone()
	require.NotSame(t, p.Target, c.Target)
	assert.Equal(t, p.Target.Elm, c.Target.Elm)

	size := uint64(4)
	arr := ArrayOf(Basic(Char), nil, &size)
	arrClone := arr.Clone()
	require.NotSame(t, arr.Size, arrClone.Size)
	assert.Equal(t, *arr.Size, *arrClone.Size)
}

func TestCloneSharesRecordAndEnumReferences(t *testing.T) {
	reg := NewRegistry()
	rec := reg.CreateRecord(Struct, "point", "@@struct.point")
	rt := RecordType(rec)
	clone := rt.Clone()
	assert.Same(t, rt.Rec, clone.Rec)
}

func TestSizeOfBasicsAndPointer(t *testing.T) {
	sz, err := Basic(Int).SizeOf()
	require.NoError(t, err)
	assert.EqualValues(t, 2, sz)

	sz, err = Basic(Long).SizeOf()
	require.NoError(t, err)
	assert.EqualValues(t, 4, sz)

	sz, err = PointerTo(Basic(Int), 0).SizeOf()
	require.NoError(t, err)
	assert.EqualValues(t, 2, sz)
}

func TestSizeOfIncompleteArrayErrors(t *testing.T) {
	arr := ArrayOf(Basic(Int), nil, nil)
	assert.True(t, arr.IsIncomplete())
	_, err := arr.SizeOf()
	assert.Error(t, err)
}

func TestSizeOfCompleteArray(t *testing.T) {
	size := uint64(3)
	arr := ArrayOf(Basic(Int), nil, &size)
	sz, err := arr.SizeOf()
	require.NoError(t, err)
	assert.EqualValues(t, 6, sz)
}

func TestRecordSizeStructVsUnion(t *testing.T) {
	reg := NewRegistry()
	s := reg.CreateRecord(Struct, "s", "@@struct.s")
	require.NoError(t, s.AppendElem("a", Basic(Int)))
	require.NoError(t, s.AppendElem("b", Basic(Long)))
	s.Defined = true
	assert.EqualValues(t, 2+4, s.Size())

	u := reg.CreateRecord(Union, "u", "@@union.u")
	require.NoError(t, u.AppendElem("a", Basic(Int)))
	require.NoError(t, u.AppendElem("b", Basic(Long)))
	u.Defined = true
	assert.EqualValues(t, 4, u.Size())
}

func TestRecordAppendElemRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	r := reg.CreateRecord(Struct, "s", "@@struct.s")
	require.NoError(t, r.AppendElem("a", Basic(Int)))
	err := r.AppendElem("a", Basic(Long))
	assert.Error(t, err)
}

func TestRecordFindElemOffsets(t *testing.T) {
	reg := NewRegistry()
	r := reg.CreateRecord(Struct, "s", "@@struct.s")
	require.NoError(t, r.AppendElem("a", Basic(Int)))
	require.NoError(t, r.AppendElem("b", Basic(Long)))
	r.Defined = true

	_, off, ok := r.FindElem("b")
	require.True(t, ok)
	assert.EqualValues(t, 2, off)

	_, _, ok = r.FindElem("missing")
	assert.False(t, ok)
}

func TestEnumAppendElemRejectsDuplicate(t *testing.T) {
	reg := NewRegistry()
	e := reg.CreateEnum("e")
	require.NoError(t, e.AppendElem("RED", 0))
	err := e.AppendElem("RED", 1)
	assert.Error(t, err)
}

func TestEnumFindValue(t *testing.T) {
	reg := NewRegistry()
	e := reg.CreateEnum("e")
	require.NoError(t, e.AppendElem("RED", 0))
	require.NoError(t, e.AppendElem("GREEN", 1))

	el, ok := e.FindValue(1)
	require.True(t, ok)
	assert.Equal(t, "GREEN", el.Name)

	_, ok = e.FindValue(99)
	assert.False(t, ok)
}

func TestAnonymousRecordDisambiguation(t *testing.T) {
	reg := NewRegistry()
	a := reg.CreateRecord(Struct, "", "@@anon.0")
	b := reg.CreateRecord(Struct, "", "@@anon.1")
	assert.NotEqual(t, a.AnonSeq, b.AnonSeq)
}

func TestComposeBasicConflict(t *testing.T) {
	_, err := Compose(Basic(Int), Basic(Long))
	assert.Error(t, err)

	c, err := Compose(Basic(Int), Basic(Int))
	require.NoError(t, err)
	assert.Equal(t, Int, c.Elm)
}

func TestComposeCompletesIncompleteArray(t *testing.T) {
	size := uint64(5)
	incomplete := ArrayOf(Basic(Int), nil, nil)
	complete := ArrayOf(Basic(Int), nil, &size)

	c, err := Compose(incomplete, complete)
	require.NoError(t, err)
	require.NotNil(t, c.Size)
	assert.EqualValues(t, 5, *c.Size)
}

func TestComposeArraySizeConflict(t *testing.T) {
	a := uint64(5)
	b := uint64(6)
	_, err := Compose(ArrayOf(Basic(Int), nil, &a), ArrayOf(Basic(Int), nil, &b))
	assert.Error(t, err)
}

func TestPointerCompatibleVoidStar(t *testing.T) {
	voidPtr := PointerTo(Basic(Void), 0)
	intPtr := PointerTo(Basic(Int), 0)
	assert.True(t, PointerCompatible(voidPtr, intPtr))
}

func TestPointerCompatibleIgnoresQualifiers(t *testing.T) {
	a := PointerTo(Basic(Int), 0x1)
	b := PointerTo(Basic(Int), 0x0)
	assert.True(t, PointerCompatible(a, b))
}

func TestPointerCompatibleMismatch(t *testing.T) {
	a := PointerTo(Basic(Int), 0)
	b := PointerTo(Basic(Char), 0)
	assert.False(t, PointerCompatible(a, b))
}
