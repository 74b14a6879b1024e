// Package ntt implements an in-place radix-4 number-theoretic transform
// over modint.Elem, plus a convolution built on top of it with a schoolbook
// fallback for short inputs. The differential twiddle-table construction
// and the two-pass (odd-k) radix-2/radix-4 hybrid structure are grounded on
// the reference NTT this module replaces the arithmetic of; the Montgomery
// butterfly itself follows the same shape as a scalar lane of the teacher's
// lane-batched NTT.
package ntt

import (
	"math/bits"

	"github.com/klauspost/cpuid/v2"

	"github.com/readingcard/procon/modint"
)

// Transform holds the precomputed twiddle tables for forward and inverse
// NTTs over a fixed prime modulus. Immutable after construction and safe
// for concurrent use by multiple goroutines, since every transform call
// only reads these tables and mutates its own buffer.
type Transform struct {
	mod   *modint.Modulus
	level int
	dw    []modint.Elem
	dInvW []modint.Elem
}

// New builds the twiddle tables for mod. mod.M()-1 must be divisible by a
// large enough power of two (the teacher's two NTT-friendly primes both
// satisfy this); a modulus without at least 3 bits of two-adicity is a
// construction-time contract violation.
func New(mod *modint.Modulus) *Transform {
	m := mod.M()
	level := bits.TrailingZeros32(m - 1)
	if level < 3 {
		panic("ntt: modulus does not have enough two-adicity")
	}

	g := primitiveRoot(m)
	root := mod.New(g).Pow((m - 1) >> uint(level))

	w := make([]modint.Elem, level)
	invW := make([]modint.Elem, level)
	w[level-1] = root
	invW[level-1] = root.Inv()
	for i := level - 2; i >= 0; i-- {
		w[i] = w[i+1].Mul(w[i+1])
		invW[i] = invW[i+1].Mul(invW[i+1])
	}

	dw := make([]modint.Elem, level)
	dInvW := make([]modint.Elem, level)
	dw[0] = w[1].Mul(w[1])
	dInvW[0] = dw[0]
	dw[1] = w[1]
	dInvW[1] = invW[1]
	dw[2] = w[2]
	dInvW[2] = invW[2]
	for i := 3; i < level; i++ {
		dw[i] = dw[i-1].Mul(invW[i-2]).Mul(w[i])
		dInvW[i] = dInvW[i-1].Mul(w[i-2]).Mul(invW[i])
	}

	return &Transform{mod: mod, level: level, dw: dw, dInvW: dInvW}
}

// Modulus returns the field this Transform operates over.
func (t *Transform) Modulus() *modint.Modulus { return t.mod }

// MaxLength returns 2^LEVEL, the longest buffer this Transform can handle.
func (t *Transform) MaxLength() int { return 1 << t.level }

// batchedPreferred reports whether the CPU exposes wide-enough integer SIMD
// lanes that a lane-batched Montgomery butterfly would be worth adding; it
// is a capability probe only; Forward/Inverse always run the scalar path,
// which is the semantics of record.
func batchedPreferred() bool {
	return cpuid.CPU.Supports(cpuid.AVX2)
}

// Forward performs the in-place radix-4 decimation-in-frequency NTT on vec.
// len(vec) must be a power of two not exceeding MaxLength(); violating this
// is a contract violation and panics.
func (t *Transform) Forward(vec []modint.Elem) {
	n := len(vec)
	if n == 0 || n == 1 {
		return
	}
	t.checkLength(n)
	k := bits.TrailingZeros(uint(n))

	if k == 1 {
		a1 := vec[1]
		vec[1] = vec[0].Sub(a1)
		vec[0] = vec[0].Add(a1)
		return
	}

	if k%2 != 0 {
		v := 1 << (k - 1)
		for j := 0; j < v; j++ {
			jv := vec[j+v]
			vec[j+v] = vec[j].Sub(jv)
			vec[j] = vec[j].Add(jv)
		}
	}

	one := t.mod.New(1)
	im := t.dw[1]
	u := 1 << (2 + k%2)
	v := 1 << (k - 2 - k%2)
	for v != 0 {
		xx := one
		for jh := 0; jh < u; jh += 4 {
			ww := xx.Mul(xx)
			wx := ww.Mul(xx)
			j0 := jh * v
			for off := 0; off < v; off++ {
				j0i := j0 + off
				j1i := j0i + v
				j2i := j1i + v
				j3i := j2i + v

				t0 := vec[j0i]
				t1 := vec[j1i].Mul(xx)
				t2 := vec[j2i].Mul(ww)
				t3 := vec[j3i].Mul(wx)

				t0p2 := t0.Add(t2)
				t1p3 := t1.Add(t3)
				t0m2 := t0.Sub(t2)
				t1m3 := t1.Sub(t3).Mul(im)

				vec[j0i] = t0p2.Add(t1p3)
				vec[j1i] = t0p2.Sub(t1p3)
				vec[j2i] = t0m2.Add(t1m3)
				vec[j3i] = t0m2.Sub(t1m3)
			}
			xx = xx.Mul(t.dw[bits.TrailingZeros(uint(jh+4))])
		}
		u <<= 2
		v >>= 2
	}
}

// Inverse performs the in-place radix-4 decimation-in-time inverse NTT on
// vec, including the final scale by len(vec)^-1. Same length contract as
// Forward.
func (t *Transform) Inverse(vec []modint.Elem) {
	n := len(vec)
	if n == 0 {
		return
	}
	t.checkLength(n)
	k := bits.TrailingZeros(uint(n))

	if k == 1 {
		a1 := vec[1]
		vec[1] = vec[0].Sub(a1)
		vec[0] = vec[0].Add(a1)
		half := t.mod.New(2).Inv()
		vec[0] = vec[0].Mul(half)
		vec[1] = vec[1].Mul(half)
		return
	}
	if k > 0 {
		one := t.mod.New(1)
		im := t.dInvW[1]
		u := 1 << (k - 2)
		v := 1
		for u != 0 {
			xx := one
			u <<= 2
			for jh := 0; jh < u; jh += 4 {
				ww := xx.Mul(xx)
				yy := xx.Mul(im)
				j0 := jh * v
				for off := 0; off < v; off++ {
					j0i := j0 + off
					j1i := j0i + v
					j2i := j1i + v
					j3i := j2i + v

					t0 := vec[j0i]
					t1 := vec[j1i]
					t2 := vec[j2i]
					t3 := vec[j3i]

					t0p1 := t0.Add(t1)
					t2p3 := t2.Add(t3)
					t0m1 := t0.Sub(t1).Mul(xx)
					t2m3 := t2.Sub(t3).Mul(yy)

					vec[j0i] = t0p1.Add(t2p3)
					vec[j1i] = t0m1.Add(t2m3)
					vec[j2i] = t0p1.Sub(t2p3).Mul(ww)
					vec[j3i] = t0m1.Sub(t2m3).Mul(ww)
				}
				xx = xx.Mul(t.dInvW[bits.TrailingZeros(uint(jh+4))])
			}
			u >>= 4
			v <<= 2
		}

		if k%2 != 0 {
			v := 1 << (k - 1)
			for j := 0; j < v; j++ {
				jv := vec[j+v]
				vec[j+v] = vec[j].Sub(jv)
				vec[j] = vec[j].Add(jv)
			}
		}
	}

	invLen := t.mod.New(uint32(n)).Inv()
	for i := range vec {
		vec[i] = vec[i].Mul(invLen)
	}
}

func (t *Transform) checkLength(n int) {
	if n&(n-1) != 0 {
		panic("ntt: length must be a power of two")
	}
	if n > t.MaxLength() {
		panic("ntt: length exceeds the transform's maximum supported length")
	}
}

// schoolbookThreshold is the length below which a direct O(nm) convolution
// beats the overhead of forward/inverse NTT plus CRT reconstruction.
const schoolbookThreshold = 40

// Convolution computes the length(a)+length(b)-1 coefficients of the
// convolution of a and b over this Transform's field, using a direct
// schoolbook product for short inputs and a zero-padded forward/pointwise/
// inverse NTT otherwise. a and b are not mutated.
func (t *Transform) Convolution(a, b []modint.Elem) []modint.Elem {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	length := len(a) + len(b) - 1
	if min(len(a), len(b)) <= schoolbookThreshold {
		return t.schoolbook(a, b, length)
	}

	bufLen := nextPow2(length)
	buf1 := make([]modint.Elem, bufLen)
	buf2 := make([]modint.Elem, bufLen)
	zero := t.mod.Zero()
	for i := range buf1 {
		buf1[i] = zero
		buf2[i] = zero
	}
	copy(buf1, a)
	copy(buf2, b)

	t.Forward(buf1)
	t.Forward(buf2)
	for i := range buf1 {
		buf1[i] = buf1[i].Mul(buf2[i])
	}
	t.Inverse(buf1)
	return buf1[:length]
}

func (t *Transform) schoolbook(a, b []modint.Elem, length int) []modint.Elem {
	zero := t.mod.Zero()
	res := make([]modint.Elem, length)
	for i := range res {
		res[i] = zero
	}
	for i, l := range a {
		if l.Uint32() == 0 {
			continue
		}
		for j, r := range b {
			res[i+j] = res[i+j].Add(l.Mul(r))
		}
	}
	return res
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
