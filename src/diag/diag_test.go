package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSinkAccumulatesInOrder(t *testing.T) {
	s := NewSink()
	s.Warning(CodeUnusedLocal, 1, 1, "local %q unused", "x")
	_ = s.Error(CodeUndeclaredIdentifier, 2, 3, "identifier %q not declared", "y")
	s.Warning(CodeShadowedIdentifier, 3, 1, "shadows outer declaration")

	require.Len(t, s.Diagnostics(), 3)
	assert.Equal(t, SeverityWarning, s.Diagnostics()[0].Severity)
	assert.Equal(t, SeverityError, s.Diagnostics()[1].Severity)
	assert.Equal(t, SeverityWarning, s.Diagnostics()[2].Severity)
}

func TestErrorSetsFlagWarningDoesNot(t *testing.T) {
	s := NewSink()
	assert.False(t, s.HasError())
	s.Warning(CodeUnusedValue, 1, 1, "value unused")
	assert.False(t, s.HasError())
	assert.Equal(t, 1, s.WarningCount())

	err := s.Error(CodeRedefinition, 2, 1, "redefinition of %q", "foo")
	require.Error(t, err)
	assert.True(t, s.HasError())
}

func TestWarningCountMonotonic(t *testing.T) {
	s := NewSink()
	last := 0
	for i := 0; i < 5; i++ {
		s.Warning(CodeUnusedValue, i, 0, "w%d", i)
		assert.GreaterOrEqual(t, s.WarningCount(), last)
		last = s.WarningCount()
	}
	assert.Equal(t, 5, last)
}

func TestFatalDoesNotStopSubsequentDiagnostics(t *testing.T) {
	s := NewSink()
	_ = s.Error(CodeTypeMismatch, 1, 1, "boom")
	s.Warning(CodeUnusedLocal, 2, 1, "still collected")
	assert.Len(t, s.Diagnostics(), 2)
}
