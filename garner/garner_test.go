package garner

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	m1 = 924844033
	m2 = 998244353
)

func TestReconstructSmallValues(t *testing.T) {
	g := New(m1, m2)
	for x := uint64(0); x < 2000; x++ {
		got := g.Reconstruct(x%m1, x%m2)
		require.Equal(t, x, got)
	}
}

func TestReconstructRandom(t *testing.T) {
	g := New(m1, m2)
	r := rand.New(rand.NewSource(7))
	lcm := uint64(m1) * uint64(m2)
	for i := 0; i < 5000; i++ {
		x := uint64(r.Int63n(int64(lcm)))
		got := g.Reconstruct(x%m1, x%m2)
		require.Equal(t, x, got)
	}
}

func TestReconstructBoundary(t *testing.T) {
	g := New(m1, m2)
	lcm := uint64(m1) * uint64(m2)
	x := lcm - 1
	require.Equal(t, x, g.Reconstruct(x%m1, x%m2))
}
