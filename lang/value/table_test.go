package value_test

import (
	"testing"

	"github.com/emberlang/ember/lang/value"
	"github.com/stretchr/testify/require"
)

func intern(s string) *value.ObjStringVal {
	return &value.ObjStringVal{Chars: s, Hash: value.HashString(s)}
}

func TestTableSetGetDelete(t *testing.T) {
	tbl := value.NewTable()
	a := intern("a")
	b := intern("b")

	require.True(t, tbl.Set(a, value.Number(1)))
	require.True(t, tbl.Set(b, value.Number(2)))
	require.False(t, tbl.Set(a, value.Number(3))) // overwrite, not a new key

	v, ok := tbl.Get(a)
	require.True(t, ok)
	require.Equal(t, 3.0, v.AsNumber())

	require.True(t, tbl.Delete(b))
	_, ok = tbl.Get(b)
	require.False(t, ok)
	require.Equal(t, 1, tbl.Len())
}

func TestTableDeleteLeavesTombstoneProbeChainIntact(t *testing.T) {
	tbl := value.NewTable()
	keys := make([]*value.ObjStringVal, 8)
	for i := range keys {
		keys[i] = intern(string(rune('a' + i)))
		tbl.Set(keys[i], value.Number(float64(i)))
	}
	// Deleting an earlier-inserted key must not break lookup of keys that
	// probed past it into the same bucket chain.
	require.True(t, tbl.Delete(keys[0]))
	for i := 1; i < len(keys); i++ {
		v, ok := tbl.Get(keys[i])
		require.True(t, ok)
		require.Equal(t, float64(i), v.AsNumber())
	}
}

func TestTableGrowsAndRehashesLiveEntriesOnly(t *testing.T) {
	tbl := value.NewTable()
	keys := make([]*value.ObjStringVal, 0, 20)
	for i := 0; i < 20; i++ {
		k := intern(string(rune('a'+i)) + string(rune('A'+i)))
		keys = append(keys, k)
		tbl.Set(k, value.Number(float64(i)))
	}
	for i, k := range keys {
		v, ok := tbl.Get(k)
		require.True(t, ok)
		require.Equal(t, float64(i), v.AsNumber())
	}
	require.Equal(t, 20, tbl.Len())
}

func TestTableFindStringInterning(t *testing.T) {
	tbl := value.NewTable()
	s := intern("hello")
	tbl.Set(s, value.Bool(true))

	found := tbl.FindString("hello", value.HashString("hello"))
	require.Same(t, s, found)

	require.Nil(t, tbl.FindString("nope", value.HashString("nope")))
}

func TestTableEachVisitsLiveEntriesOnly(t *testing.T) {
	tbl := value.NewTable()
	a, b := intern("a"), intern("b")
	tbl.Set(a, value.Number(1))
	tbl.Set(b, value.Number(2))
	tbl.Delete(b)

	seen := map[string]float64{}
	tbl.Each(func(key *value.ObjStringVal, val value.Value) {
		seen[key.Chars] = val.AsNumber()
	})
	require.Equal(t, map[string]float64{"a": 1}, seen)
}
