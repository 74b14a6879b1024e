package audiovec

// View is the lazy composition interface: Get answers what sample would be
// visible at a global index without requiring the caller to have
// materialised any storage. AudioVec itself satisfies View; so does every
// wrapper below, so they compose freely (a Delayed view over an Added view
// over two Flipped views, and so on).
type View interface {
	Get(index int) (Pixel, bool)
}

// DelayedView shifts an inner view by an additional offset without
// touching its storage.
type DelayedView struct {
	Inner View
	Delay int
}

func (d DelayedView) Get(index int) (Pixel, bool) {
	return d.Inner.Get(index - d.Delay)
}

// FlippedView reverses an inner view around index 0: FlippedView{FlippedView{v}}
// is observationally identical to v.
type FlippedView struct {
	Inner View
}

func (f FlippedView) Get(index int) (Pixel, bool) {
	return f.Inner.Get(-index)
}

// ClippedView clamps every sample of the inner view against u16::MAX,
// mirroring the eager Clip; it never reports a missing sample (no
// filtering), so it composes the same way AudioVec.Clip does.
type ClippedView struct {
	Inner View
	Ctx   *Context
}

func (c ClippedView) Get(index int) (Pixel, bool) {
	p, ok := c.Inner.Get(index)
	if !ok {
		return p, ok
	}
	bound1 := c.Ctx.Mod1.New(clipBound)
	bound2 := c.Ctx.Mod2.New(clipBound)
	return Pixel{C1: clampElem(p.C1, bound1), C2: clampElem(p.C2, bound2)}, true
}

// AddedView combines two views pixel-wise; a missing sample on either side
// produces a missing result.
type AddedView struct {
	A, B View
}

func (s AddedView) Get(index int) (Pixel, bool) {
	pa, oka := s.A.Get(index)
	pb, okb := s.B.Get(index)
	if !oka || !okb {
		return Pixel{}, false
	}
	return Pixel{C1: pa.C1.Add(pb.C1), C2: pa.C2.Add(pb.C2)}, true
}

// SubbedView is the subtractive counterpart of AddedView.
type SubbedView struct {
	A, B View
}

func (s SubbedView) Get(index int) (Pixel, bool) {
	pa, oka := s.A.Get(index)
	pb, okb := s.B.Get(index)
	if !oka || !okb {
		return Pixel{}, false
	}
	return Pixel{C1: pa.C1.Sub(pb.C1), C2: pa.C2.Sub(pb.C2)}, true
}

// ToOwned materialises the first length samples (indices 0..length) of a
// View into a concrete AudioVec with delay 0.
func ToOwned(ctx *Context, v View, length int) *AudioVec {
	out := Zero(ctx, length)
	for i := 0; i < length; i++ {
		p, ok := v.Get(i)
		if !ok {
			p = ctx.zeroPixel()
		}
		out.c1[i] = p.C1
		out.c2[i] = p.C2
	}
	return out
}
