// Package garner reconstructs an integer from its residues modulo two fixed
// coprime moduli, via Garner's algorithm. Grounded on the two-prime CRT step
// that the audio convolution core uses to recombine per-prime NTT results.
package garner

// Reconstructor precomputes the extended-gcd coefficient shared by every
// reconstruction against a fixed pair of coprime moduli m1, m2, so that
// Reconstruct is a handful of 64-bit operations per call.
type Reconstructor struct {
	m1, m2 uint64
	lcm    uint64 // m1*m2 when gcd(m1,m2)=1
	u      uint64 // m1^-1 mod m2
}

// New builds a Reconstructor for the pair (m1, m2), which must be coprime.
// Panics if they are not, since this is a construction-time contract
// violation, not a runtime condition.
func New(m1, m2 uint64) *Reconstructor {
	g, u, _ := extendedGCD(int64(m1), int64(m2))
	if g != 1 {
		panic("garner: moduli must be coprime")
	}
	um2 := ((u % int64(m2)) + int64(m2)) % int64(m2)
	return &Reconstructor{m1: m1, m2: m2, lcm: m1 * m2, u: uint64(um2)}
}

// Reconstruct returns the unique x in [0, m1*m2) such that x ≡ r1 (mod m1)
// and x ≡ r2 (mod m2). r1 and r2 must already be reduced modulo m1 and m2
// respectively.
//
// Derivation: x = r1 + m1*t for some t, and we need x ≡ r2 (mod m2), i.e.
// m1*t ≡ (r2-r1) (mod m2), so t ≡ (r2-r1)*m1^-1 (mod m2).
func (g *Reconstructor) Reconstruct(r1, r2 uint64) uint64 {
	diff := int64(r2) - int64(r1)
	t := mod(diff*int64(g.u), int64(g.m2))
	x := mod(int64(r1)+int64(g.m1)*t, int64(g.lcm))
	return uint64(x)
}

// mod returns the Euclidean remainder of a mod m (always in [0, m)), for m>0.
func mod(a, m int64) int64 {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

// extendedGCD returns (g, x, y) such that a*x + b*y = g = gcd(a, b).
func extendedGCD(a, b int64) (g, x, y int64) {
	if b == 0 {
		return a, 1, 0
	}
	g, x1, y1 := extendedGCD(b, a%b)
	return g, y1, x1 - (a/b)*y1
}
