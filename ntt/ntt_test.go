package ntt

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readingcard/procon/modint"
)

const testPrime = 998244353

func elems(mod *modint.Modulus, vals []uint32) []modint.Elem {
	out := make([]modint.Elem, len(vals))
	for i, v := range vals {
		out[i] = mod.New(v)
	}
	return out
}

func uints(vec []modint.Elem) []uint32 {
	out := make([]uint32, len(vec))
	for i, e := range vec {
		out[i] = e.Uint32()
	}
	return out
}

func TestForwardInverseRoundTrip(t *testing.T) {
	mod := modint.NewModulus(testPrime)
	transform := New(mod)
	r := rand.New(rand.NewSource(3))
	for _, n := range []int{1, 2, 4, 8, 16, 32, 64, 1024} {
		vals := make([]uint32, n)
		for i := range vals {
			vals[i] = uint32(r.Intn(testPrime))
		}
		vec := elems(mod, vals)
		original := append([]modint.Elem(nil), vec...)
		transform.Forward(vec)
		transform.Inverse(vec)
		require.Equal(t, uints(original), uints(vec))
	}
}

func TestLinearity(t *testing.T) {
	mod := modint.NewModulus(testPrime)
	transform := New(mod)
	r := rand.New(rand.NewSource(4))
	n := 64
	u := make([]uint32, n)
	v := make([]uint32, n)
	for i := range u {
		u[i] = uint32(r.Intn(testPrime))
		v[i] = uint32(r.Intn(testPrime))
	}
	alpha := mod.New(7)
	beta := mod.New(11)

	combined := make([]modint.Elem, n)
	for i := range combined {
		combined[i] = alpha.Mul(mod.New(u[i])).Add(beta.Mul(mod.New(v[i])))
	}
	transform.Forward(combined)

	uVec := elems(mod, u)
	vVec := elems(mod, v)
	transform.Forward(uVec)
	transform.Forward(vVec)
	want := make([]modint.Elem, n)
	for i := range want {
		want[i] = alpha.Mul(uVec[i]).Add(beta.Mul(vVec[i]))
	}
	require.Equal(t, uints(want), uints(combined))
}

// S1: convolution([1,2,3,4], [5,6,7,8,9]) = [5,16,34,60,70,70,59,36].
func TestConvolutionSmall(t *testing.T) {
	mod := modint.NewModulus(testPrime)
	transform := New(mod)
	a := elems(mod, []uint32{1, 2, 3, 4})
	b := elems(mod, []uint32{5, 6, 7, 8, 9})
	got := transform.Convolution(a, b)
	require.Equal(t, []uint32{5, 16, 34, 60, 70, 70, 59, 36}, uints(got))
}

func schoolbookRef(a, b []uint32, mod uint64) []uint32 {
	res := make([]uint64, len(a)+len(b)-1)
	for i, x := range a {
		for j, y := range b {
			res[i+j] = (res[i+j] + uint64(x)*uint64(y)) % mod
		}
	}
	out := make([]uint32, len(res))
	for i, v := range res {
		out[i] = uint32(v)
	}
	return out
}

// S3-style: random inputs match schoolbook; the length-22/24 pair takes the
// schoolbook path, the 50/60 and 200/300 pairs take the NTT path.
func TestConvolutionMatchesSchoolbook(t *testing.T) {
	mod := modint.NewModulus(testPrime)
	transform := New(mod)
	r := rand.New(rand.NewSource(5))

	for _, lengths := range [][2]int{{22, 24}, {50, 60}, {200, 300}} {
		a := make([]uint32, lengths[0])
		b := make([]uint32, lengths[1])
		for i := range a {
			a[i] = uint32(r.Intn(1 << 20))
		}
		for i := range b {
			b[i] = uint32(r.Intn(1 << 20))
		}
		got := uints(transform.Convolution(elems(mod, a), elems(mod, b)))
		want := schoolbookRef(a, b, testPrime)
		require.Equal(t, want, got)
	}
}

func TestPrimitiveRootOrder(t *testing.T) {
	for _, m := range []uint32{924844033, 998244353} {
		g := primitiveRoot(m)
		require.Equal(t, uint64(1), modPow(uint64(g), uint64(m-1), uint64(m)))
		for _, p := range distinctPrimeFactors(uint64(m - 1)) {
			require.NotEqual(t, uint64(1), modPow(uint64(g), uint64(m-1)/p, uint64(m)))
		}
	}
}
