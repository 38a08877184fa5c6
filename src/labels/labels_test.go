package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefineThenUseLeavesNoDiagnostics(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Define("done", 3, 1))
	tab.Use("done")
	assert.Empty(t, tab.Undefined())
	assert.Empty(t, tab.Unused())
}

func TestUseBeforeDefineIsFine(t *testing.T) {
	tab := NewTable()
	tab.Use("later")
	require.NoError(t, tab.Define("later", 10, 1))
	assert.Empty(t, tab.Undefined())
}

func TestUsedButNeverDefinedIsReported(t *testing.T) {
	tab := NewTable()
	tab.Use("ghost")
	assert.Equal(t, []string{"ghost"}, tab.Undefined())
}

func TestDefinedButUnusedIsReported(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Define("dead", 4, 1))
	assert.Equal(t, []string{"dead"}, tab.Unused())
}

func TestRedefinitionIsAnError(t *testing.T) {
	tab := NewTable()
	require.NoError(t, tab.Define("x", 1, 1))
	err := tab.Define("x", 2, 1)
	assert.Error(t, err)
}
