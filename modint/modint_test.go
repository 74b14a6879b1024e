package modint

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

var primes = []uint32{924844033, 998244353}

func TestRoundTrip(t *testing.T) {
	for _, p := range primes {
		mod := NewModulus(p)
		r := rand.New(rand.NewSource(1))
		for i := 0; i < 1000; i++ {
			n := uint32(r.Intn(int(p)))
			a := mod.New(n)
			require.Less(t, a.Uint32(), p)
			require.Equal(t, a.Uint32(), mod.New(a.Uint32()).Uint32())
		}
	}
}

func TestAdditiveInverse(t *testing.T) {
	for _, p := range primes {
		mod := NewModulus(p)
		a := mod.New(12345)
		neg := mod.New(p - 12345%p)
		require.Equal(t, uint32(0), a.Add(neg).Uint32())
	}
}

func TestMultiplicativeInverse(t *testing.T) {
	for _, p := range primes {
		mod := NewModulus(p)
		a := mod.New(12345)
		require.Equal(t, uint32(1), a.Mul(a.Inv()).Uint32())
	}
}

// S5: for each prime, 3^(M-1) == 1.
func TestFermatLittleTheorem(t *testing.T) {
	for _, p := range primes {
		mod := NewModulus(p)
		three := mod.New(3)
		require.Equal(t, uint32(1), three.Pow(p-1).Uint32())
	}
}

func TestMulMatchesBigArithmetic(t *testing.T) {
	mod := NewModulus(998244353)
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		x := uint32(r.Intn(998244353))
		y := uint32(r.Intn(998244353))
		got := mod.New(x).Mul(mod.New(y)).Uint32()
		want := uint32((uint64(x) * uint64(y)) % 998244353)
		require.Equal(t, want, got)
	}
}
