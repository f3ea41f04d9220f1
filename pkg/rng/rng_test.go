package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Deterministic(t *testing.T) {
	a := New(12345)
	b := New(12345)

	for i := 0; i < 100; i++ {
		require.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestSource_SeedsDiffer(t *testing.T) {
	a := New(1)
	b := New(2)

	// Первые значения разных сидов не должны совпадать
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestSource_Float64Range(t *testing.T) {
	s := New(777)
	for i := 0; i < 1000; i++ {
		f := s.Float64()
		require.GreaterOrEqual(t, f, 0.0)
		require.Less(t, f, 1.0)
	}
}

func TestSource_IntNBounds(t *testing.T) {
	s := New(42)
	for i := 0; i < 1000; i++ {
		v := s.IntN(7)
		require.GreaterOrEqual(t, v, 0)
		require.Less(t, v, 7)
	}
}

func TestSource_RangeInclusive(t *testing.T) {
	s := New(9)
	seen := map[int]bool{}
	for i := 0; i < 1000; i++ {
		v := s.Range(-1, 1)
		require.GreaterOrEqual(t, v, -1)
		require.LessOrEqual(t, v, 1)
		seen[v] = true
	}
	// На 1000 бросков должны выпасть все три значения
	assert.Len(t, seen, 3)
}

func TestHash32_Stable(t *testing.T) {
	assert.Equal(t, Hash32("alice"), Hash32("alice"))
	assert.NotEqual(t, Hash32("alice"), Hash32("bob"))
}
