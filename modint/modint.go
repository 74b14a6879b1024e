// Package modint implements Montgomery-form modular arithmetic for a single
// fixed odd prime modulus below 2^30. Values are held internally as x*R mod M
// with R = 2^32, so that repeated multiplication only ever costs a 32x32->64
// bit product plus one Montgomery reduction.
package modint

import "math/big"

// Modulus holds the Montgomery reduction constants for one fixed prime M.
// Construction is one-time setup; every Elem created from a Modulus carries
// a pointer back to it so arithmetic never has to be told which field it is
// operating in.
type Modulus struct {
	m      uint32
	mPrime uint32 // m * mPrime ≡ -1 (mod 2^32)
	r2     uint32 // 2^32 mod m, squared again: R^2 mod M
}

// NewModulus builds the Montgomery constants for m. m must be an odd prime
// strictly less than 2^30; violating this is a construction-time contract
// violation and panics rather than returning an error.
func NewModulus(m uint32) *Modulus {
	if m == 0 || m%2 == 0 {
		panic("modint: modulus must be odd")
	}
	if m >= 1<<30 {
		panic("modint: modulus must be below 2^30")
	}
	mod := &Modulus{m: m}
	mod.mPrime = negInverse(m)
	mod.r2 = r2mod(m)
	return mod
}

// negInverse computes mPrime such that m*mPrime ≡ -1 (mod 2^32). The loop
// raises m to the power 2^31-1 by repeated squaring; every odd number has
// order dividing 2^30 modulo 2^32, so that power is m^-1, which is then
// negated.
func negInverse(m uint32) uint32 {
	inv := uint32(1)
	x := m
	for i := 0; i < 31; i++ {
		inv *= x
		x *= x
	}
	return -inv
}

// r2mod computes R^2 mod m = (2^32)^2 mod m using big.Int; this runs once
// per Modulus construction, never on a hot path.
func r2mod(m uint32) uint32 {
	r := new(big.Int).Lsh(big.NewInt(1), 32)
	r.Mod(r, big.NewInt(int64(m)))
	r.Mul(r, r)
	r.Mod(r, big.NewInt(int64(m)))
	return uint32(r.Uint64())
}

// M returns the prime this Modulus represents.
func (mod *Modulus) M() uint32 { return mod.m }

// reduce implements the Montgomery reduction
//
//	reduce(x) = ((x + ((x mod R) * N' mod R) * N) / R) mod M
//
// for x < M*R, returning a value in [0, M).
func (mod *Modulus) reduce(x uint64) uint32 {
	t := uint32(x) * mod.mPrime
	u := (x + uint64(t)*uint64(mod.m)) >> 32
	if u >= uint64(mod.m) {
		u -= uint64(mod.m)
	}
	return uint32(u)
}

// Elem is a single residue modulo a Modulus, stored in Montgomery form. The
// zero value is not usable; always obtain an Elem via Modulus.New or an
// arithmetic operation on existing Elems.
type Elem struct {
	v   uint32
	mod *Modulus
}

// New converts a natural number into Montgomery form. n is reduced modulo
// M implicitly by the Montgomery reduction; the caller is responsible for
// passing a value intended to represent n mod M.
func (mod *Modulus) New(n uint32) Elem {
	return Elem{v: mod.reduce(uint64(n) * uint64(mod.r2)), mod: mod}
}

// Zero returns the additive identity of mod.
func (mod *Modulus) Zero() Elem { return Elem{v: 0, mod: mod} }

// Uint32 returns the least non-negative residue represented by a.
func (a Elem) Uint32() uint32 { return a.mod.reduce(uint64(a.v)) }

// Modulus returns the field a belongs to.
func (a Elem) Modulus() *Modulus { return a.mod }

// Add returns a+b mod M.
func (a Elem) Add(b Elem) Elem {
	s := a.v + b.v
	if s >= a.mod.m {
		s -= a.mod.m
	}
	return Elem{v: s, mod: a.mod}
}

// Sub returns a-b mod M.
func (a Elem) Sub(b Elem) Elem {
	var d uint32
	if a.v >= b.v {
		d = a.v - b.v
	} else {
		d = a.mod.m - b.v + a.v
	}
	return Elem{v: d, mod: a.mod}
}

// Neg returns -a mod M.
func (a Elem) Neg() Elem {
	return a.mod.Zero().Sub(a)
}

// Mul returns a*b mod M.
func (a Elem) Mul(b Elem) Elem {
	return Elem{v: a.mod.reduce(uint64(a.v) * uint64(b.v)), mod: a.mod}
}

// Pow returns a^e mod M by binary exponentiation.
func (a Elem) Pow(e uint32) Elem {
	result := a.mod.New(1)
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		e >>= 1
	}
	return result
}

// Inv returns a^-1 mod M via Fermat's little theorem; M is assumed prime.
func (a Elem) Inv() Elem {
	return a.Pow(a.mod.m - 2)
}

// Div returns a*b^-1 mod M.
func (a Elem) Div(b Elem) Elem {
	return a.Mul(b.Inv())
}

// Equal reports whether a and b represent the same residue of the same
// modulus.
func (a Elem) Equal(b Elem) bool {
	return a.mod == b.mod && a.v == b.v
}

// Less orders Elems by their natural (non-negative) residue value; used by
// audiovec's Clip to compare against a fixed bound.
func (a Elem) Less(b Elem) bool {
	return a.Uint32() < b.Uint32()
}
