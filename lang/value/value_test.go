package value_test

import (
	"math"
	"testing"

	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/require"
)

func TestFalseyRule(t *testing.T) {
	require.True(t, value.Nil.Falsey())
	require.True(t, value.Bool(false).Falsey())
	require.False(t, value.Bool(true).Falsey())
	require.False(t, value.Number(0).Falsey())
	require.False(t, value.FromObj(intern("")).Falsey())
}

func TestEqualByKind(t *testing.T) {
	require.True(t, value.Equal(value.Nil, value.Nil))
	require.True(t, value.Equal(value.Bool(true), value.Bool(true)))
	require.False(t, value.Equal(value.Bool(true), value.Bool(false)))
	require.True(t, value.Equal(value.Number(1), value.Number(1)))
	require.False(t, value.Equal(value.Number(1), value.Bool(true)))

	s := intern("x")
	require.True(t, value.Equal(value.FromObj(s), value.FromObj(s)))
	require.False(t, value.Equal(value.FromObj(s), value.FromObj(intern("x"))))
}

func TestEqualNaN(t *testing.T) {
	nan := value.Number(math.NaN())
	require.False(t, value.Equal(nan, nan))
	require.True(t, nan.IsNaN())
}

func TestHashStringFNV1a(t *testing.T) {
	// Canonical FNV-1a offset basis/prime over the empty string is the
	// offset basis itself.
	require.Equal(t, uint32(2166136261), value.HashString(""))
}
