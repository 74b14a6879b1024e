// Package audiovec implements the audio-sample algebra: each sample is a
// Pixel of two Montgomery residues (one per NTT-friendly prime), sequences
// of them form an AudioVec, and lazy composition views (delay, flip, clip,
// add, sub) let callers describe a derived signal without copying the
// underlying storage until it is materialised.
package audiovec

import (
	"github.com/readingcard/procon/garner"
	"github.com/readingcard/procon/modint"
	"github.com/readingcard/procon/ntt"
)

// The two NTT-friendly primes: M1·M2 comfortably exceeds twice the largest
// possible convolution sum over 88 references of 16-bit samples.
const (
	M1 = 924844033
	M2 = 998244353
)

// Pixel is one sample represented as a pair of residues, one modulo M1 and
// one modulo M2.
type Pixel struct {
	C1, C2 modint.Elem
}

// Context bundles the two Montgomery fields, their NTT transforms and the
// Garner reconstructor that every AudioVec operation needing to cross back
// into plain integers shares. Building one is the one-time setup cost;
// everything else in this package takes a *Context explicitly rather than
// relying on package-level globals, so tests can construct independent
// contexts freely.
type Context struct {
	Mod1, Mod2 *modint.Modulus
	NTT1, NTT2 *ntt.Transform
	Garner     *garner.Reconstructor
}

// NewContext builds the shared Montgomery fields, NTT tables and Garner
// reconstructor for the fixed prime pair (M1, M2).
func NewContext() *Context {
	mod1 := modint.NewModulus(M1)
	mod2 := modint.NewModulus(M2)
	return &Context{
		Mod1:   mod1,
		Mod2:   mod2,
		NTT1:   ntt.New(mod1),
		NTT2:   ntt.New(mod2),
		Garner: garner.New(M1, M2),
	}
}

func (ctx *Context) zeroPixel() Pixel {
	return Pixel{C1: ctx.Mod1.Zero(), C2: ctx.Mod2.Zero()}
}
