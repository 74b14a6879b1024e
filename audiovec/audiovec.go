package audiovec

import "github.com/readingcard/procon/modint"

// clipBound is u16::MAX; clipping a Pixel's components against this value
// approximates clamping the reconstructed integer into [-2^15, 2^15), at
// the cost of being an approximation rather than an exact clamp (exact
// requires Garner reconstruction). This package has no exact clamp; loss
// validation uses this approximate one too, so a negative sample, whose
// residue is near the modulus, is clamped to 65535.
const clipBound = 65535

// preEmphasisBias is added to the pre-emphasis filter's output before it
// is folded into a residue; 32767 is the int16 maximum. It does not keep
// every output non-negative (the 40x difference term can exceed it), and
// negative outputs are folded by foldMod like any other.
const preEmphasisBias = 32767

// AudioVec is an ordered, finite sequence of Pixels together with an
// integer delay: positive delay means this vector's content is shifted to
// later global indices. The two component slices always have equal
// length, enforced by every constructor and mutator in this package.
type AudioVec struct {
	ctx       *Context
	c1, c2    []modint.Elem
	delayOffs int
}

// New wraps two equal-length component slices (already in Montgomery form)
// as an AudioVec with the given delay. Panics if the lengths differ, since
// mismatched component lengths are a contract violation, not a runtime
// condition a caller can recover from.
func New(ctx *Context, c1, c2 []modint.Elem, delay int) *AudioVec {
	if len(c1) != len(c2) {
		panic("audiovec: component vectors must have equal length")
	}
	return &AudioVec{ctx: ctx, c1: c1, c2: c2, delayOffs: delay}
}

// Zero builds a length-n AudioVec of all-zero samples.
func Zero(ctx *Context, n int) *AudioVec {
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	z1, z2 := ctx.Mod1.Zero(), ctx.Mod2.Zero()
	for i := range c1 {
		c1[i] = z1
		c2[i] = z2
	}
	return &AudioVec{ctx: ctx, c1: c1, c2: c2}
}

// FromPCM converts signed 16-bit PCM samples into an AudioVec. When
// preEmphasis is true, each sample is first replaced by
// y[i] = x[i] + 40*(x[i+1]-x[i]) + 32767 (the last sample's difference
// term is zero, since there is no x[i+1]); preEmphasis is an optional,
// caller-selected accentuation of high-frequency differences, not part of
// the base conversion.
func FromPCM(ctx *Context, samples []int16, preEmphasis bool) *AudioVec {
	n := len(samples)
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	for i, x := range samples {
		y := int64(x)
		if preEmphasis {
			var next int64
			if i+1 < n {
				next = int64(samples[i+1])
			} else {
				next = y
			}
			y = y + 40*(next-y) + preEmphasisBias
		}
		c1[i] = ctx.Mod1.New(uint32(foldMod(y, M1)))
		c2[i] = ctx.Mod2.New(uint32(foldMod(y, M2)))
	}
	return &AudioVec{ctx: ctx, c1: c1, c2: c2}
}

// FromPCMWide builds an AudioVec directly from signed wide integers rather
// than 16-bit PCM samples, with no pre-emphasis applied. Used where a
// caller needs to exercise the Pixel/CRT machinery with values outside the
// 16-bit range (e.g. verifying convolution overflow behaviour), since
// AudioVec never tracks the original integer once it is folded into the
// two residues.
func FromPCMWide(ctx *Context, samples []int64) *AudioVec {
	n := len(samples)
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	for i, y := range samples {
		c1[i] = ctx.Mod1.New(uint32(foldMod(y, M1)))
		c2[i] = ctx.Mod2.New(uint32(foldMod(y, M2)))
	}
	return &AudioVec{ctx: ctx, c1: c1, c2: c2}
}

// foldMod reduces a signed value into [0, m): it takes the remainder and
// adds m once if that remainder is negative.
func foldMod(y int64, m int64) int64 {
	y %= m
	if y < 0 {
		y += m
	}
	return y
}

// Len returns the number of samples.
func (v *AudioVec) Len() int { return len(v.c1) }

// Delay returns the current offset.
func (v *AudioVec) Delay() int { return v.delayOffs }

// Get returns the Pixel visible at the given global index, or the zero
// Pixel if the index falls outside this vector's domain. AudioVec always
// returns true; the bool return exists so AudioVec satisfies the same
// View interface as the lazy composition wrappers (see views.go), some of
// which can report false.
func (v *AudioVec) Get(index int) (Pixel, bool) {
	local := index - v.delayOffs
	if local < 0 || local >= len(v.c1) {
		return v.ctx.zeroPixel(), true
	}
	return Pixel{C1: v.c1[local], C2: v.c2[local]}, true
}

// Delayed returns a new AudioVec referencing the same samples shifted by
// an additional d (delay(a).delay(b) == delay(a+b)); the component slices
// are shared, not copied.
func (v *AudioVec) Delayed(d int) *AudioVec {
	return &AudioVec{ctx: v.ctx, c1: v.c1, c2: v.c2, delayOffs: v.delayOffs + d}
}

// Flip reverses the sample order and relocates the delay so that
// Flip(Flip(v)) reproduces v exactly: a vector occupying global indices
// [d, d+n) is mapped to one occupying [-(d+n-1), -d].
func (v *AudioVec) Flip() *AudioVec {
	n := len(v.c1)
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	for i := 0; i < n; i++ {
		c1[i] = v.c1[n-1-i]
		c2[i] = v.c2[n-1-i]
	}
	return &AudioVec{ctx: v.ctx, c1: c1, c2: c2, delayOffs: -(v.delayOffs + n - 1)}
}

// Clip clamps each component against ModInt::new(u16::MAX), approximating
// a clamp of the reconstructed integer into [-2^15, 2^15).
func (v *AudioVec) Clip() *AudioVec {
	n := len(v.c1)
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	bound1 := v.ctx.Mod1.New(clipBound)
	bound2 := v.ctx.Mod2.New(clipBound)
	for i := 0; i < n; i++ {
		c1[i] = clampElem(v.c1[i], bound1)
		c2[i] = clampElem(v.c2[i], bound2)
	}
	return &AudioVec{ctx: v.ctx, c1: c1, c2: c2, delayOffs: v.delayOffs}
}

func clampElem(e, bound modint.Elem) modint.Elem {
	if bound.Less(e) {
		return bound
	}
	return e
}

// Resize zero-pads (or truncates) both component vectors to length n,
// keeping the delay unchanged.
func (v *AudioVec) Resize(n int) *AudioVec {
	c1 := resizeSlice(v.c1, n, v.ctx.Mod1.Zero())
	c2 := resizeSlice(v.c2, n, v.ctx.Mod2.Zero())
	return &AudioVec{ctx: v.ctx, c1: c1, c2: c2, delayOffs: v.delayOffs}
}

func resizeSlice(s []modint.Elem, n int, zero modint.Elem) []modint.Elem {
	out := make([]modint.Elem, n)
	copy(out, s)
	for i := len(s); i < n; i++ {
		out[i] = zero
	}
	return out
}

// Add returns the delay-aligned sum of v and other over the union of
// their domains; the shorter operand contributes zero outside its range.
func (v *AudioVec) Add(other *AudioVec) *AudioVec {
	return v.combine(other, modint.Elem.Add)
}

// Sub returns the delay-aligned difference v-other over the union of
// their domains.
func (v *AudioVec) Sub(other *AudioVec) *AudioVec {
	return v.combine(other, modint.Elem.Sub)
}

func (v *AudioVec) combine(other *AudioVec, op func(a, b modint.Elem) modint.Elem) *AudioVec {
	start := minInt(v.delayOffs, other.delayOffs)
	end := maxInt(v.delayOffs+len(v.c1), other.delayOffs+len(other.c1))
	n := end - start
	c1 := make([]modint.Elem, n)
	c2 := make([]modint.Elem, n)
	for i := 0; i < n; i++ {
		global := start + i
		pa, _ := v.Get(global)
		pb, _ := other.Get(global)
		c1[i] = op(pa.C1, pb.C1)
		c2[i] = op(pa.C2, pb.C2)
	}
	return &AudioVec{ctx: v.ctx, c1: c1, c2: c2, delayOffs: start}
}

// SquaredSamples returns the exact squared value of each sample,
// reconstructed via Garner since a sample's squared magnitude can exceed
// either prime on its own.
func (v *AudioVec) SquaredSamples() []uint64 {
	out := make([]uint64, len(v.c1))
	for i := range v.c1 {
		sq1 := v.c1[i].Mul(v.c1[i]).Uint32()
		sq2 := v.c2[i].Mul(v.c2[i]).Uint32()
		out[i] = v.ctx.Garner.Reconstruct(uint64(sq1), uint64(sq2))
	}
	return out
}

// SquaredNorm returns the exact sum of squared samples.
func (v *AudioVec) SquaredNorm() uint64 {
	var sum uint64
	for _, sq := range v.SquaredSamples() {
		sum += sq
	}
	return sum
}

// Convolution returns the len(v)+len(other)-1 coefficients of the integer
// convolution of v and other, computed as two single-prime NTT
// convolutions recombined per-coefficient by Garner reconstruction. Each
// coefficient is returned as its residue in [0, M1·M2): a negative
// coefficient c comes back as M1·M2 + c.
func (v *AudioVec) Convolution(other *AudioVec) []uint64 {
	if len(v.c1) == 0 || len(other.c1) == 0 {
		return nil
	}
	r1 := v.ctx.NTT1.Convolution(v.c1, other.c1)
	r2 := v.ctx.NTT2.Convolution(v.c2, other.c2)
	out := make([]uint64, len(r1))
	for i := range out {
		out[i] = v.ctx.Garner.Reconstruct(uint64(r1[i].Uint32()), uint64(r2[i].Uint32()))
	}
	return out
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
