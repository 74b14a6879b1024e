// Package loss scores and searches for the subset of reference voices (and
// their delays) that best explain a problem recording, by convolving the
// problem against each flipped reference once and sweeping the resulting
// coefficients for the best-fit offset.
package loss

import (
	"errors"
	"runtime"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"

	"github.com/readingcard/procon/audiovec"
	"github.com/readingcard/procon/cardvoice"
	"github.com/readingcard/procon/precalc"
)

// ErrNoAnswer is returned by FindPoints when no candidate subset of
// references, after exhausting every single-slot substitution, validates
// against the problem recording. The caller must surface this rather than
// guess a possibly-wrong answer.
var ErrNoAnswer = errors.New("loss: no answer found")

// validationThresholdPerSample bounds the mean squared error accepted
// during validation; the accepted total is this times the problem length.
const validationThresholdPerSample = 10

// InspectPoint names a candidate reference and the delay (in the same
// sense as audiovec.AudioVec.Delayed: positive delay places the reference
// later) that best aligns it with a problem recording, plus the score that
// alignment achieved.
type InspectPoint struct {
	UsingVoice cardvoice.Index
	Delay      int
	Score      uint64
}

// Loss owns the 88 reference voices, their flipped copies (so that
// cross-correlation becomes a single convolution per reference) and the
// prefix-sum table used to evaluate the reference's squared norm over the
// overlapping range of the score formula in O(1). It is built once and is safe for concurrent use by
// FindPoints' internal worker pool, since nothing here is mutated after
// New returns.
type Loss struct {
	ctx     *audiovec.Context
	voices  map[cardvoice.Index]*audiovec.AudioVec
	flipped map[cardvoice.Index]*audiovec.AudioVec
	table   *precalc.Table
	log     *zerolog.Logger
}

// New builds a Loss from the full reference catalogue. log may be nil.
func New(ctx *audiovec.Context, voices map[cardvoice.Index]*audiovec.AudioVec, log *zerolog.Logger) *Loss {
	flipped := make(map[cardvoice.Index]*audiovec.AudioVec, len(voices))
	for idx, v := range voices {
		flipped[idx] = v.Flip()
	}
	return &Loss{
		ctx:     ctx,
		voices:  voices,
		flipped: flipped,
		table:   precalc.Build(voices, log),
		log:     log,
	}
}

// logScoreSpread emits a debug-level summary (mean and standard deviation)
// of the sorted candidate scores, which is the first thing worth looking
// at when a solve needed substitution or failed outright: a tight spread
// around the cutoff means the top-k choice is genuinely ambiguous, while a
// wide one points at a bad recording or a missing reference.
func (l *Loss) logScoreSpread(candidates []InspectPoint) {
	if l.log == nil || len(candidates) == 0 {
		return
	}
	data := make(stats.Float64Data, len(candidates))
	for i, c := range candidates {
		data[i] = float64(c.Score)
	}
	mean, err := data.Mean()
	if err != nil {
		return
	}
	stddev, err := data.StandardDeviation()
	if err != nil {
		return
	}
	l.log.Debug().Float64("mean_score", mean).Float64("stddev_score", stddev).Msg("candidate score spread")
}

// extFr extends the reference's prefix sum with f_r[-1]=0 and
// f_r[k]=f_r[n-1] for k>=n, as required by the score formula in
// evaluateAt; precalc.Table.Get on its own returns zero for both sides of
// the range, which is a different (and correct, for its own contract)
// convention.
func (l *Loss) extFr(r cardvoice.Index, k int) int64 {
	n := l.table.Len(r)
	if n == 0 || k < 0 {
		return 0
	}
	if k >= n {
		k = n - 1
	}
	return int64(l.table.Get(r, k))
}

// evaluateAt computes loss(r, w) given the problem's squared norm and the
// precomputed convolution of problem against flip(s_r).
func (l *Loss) evaluateAt(problemLen int, problemSqNorm uint64, conv []uint64, r cardvoice.Index, w int) uint64 {
	n := l.voices[r].Len()
	k := w + n - 1
	var corr int64
	if k >= 0 && k < len(conv) {
		// conv holds residues in [0, M1·M2); the upper half encodes a
		// negative correlation.
		const lcm = uint64(audiovec.M1) * uint64(audiovec.M2)
		if c := conv[k]; c > lcm/2 {
			corr = int64(c) - int64(lcm)
		} else {
			corr = int64(c)
		}
	}
	overlap := l.extFr(r, problemLen-w-1) - l.extFr(r, -w-1)
	score := int64(problemSqNorm) - 2*corr + overlap
	if score < 0 {
		score = 0
	}
	return uint64(score)
}

// Evaluate scores one (reference, delay) candidate against problem,
// recomputing its convolution from scratch. FindPoints uses the batched,
// cached form internally; this is exposed for callers that need a single
// ad hoc score.
func (l *Loss) Evaluate(problem *audiovec.AudioVec, point InspectPoint) uint64 {
	conv := problem.Convolution(l.flipped[point.UsingVoice])
	return l.evaluateAt(problem.Len(), problem.SquaredNorm(), conv, point.UsingVoice, point.Delay)
}

type refResult struct {
	best  InspectPoint
	found bool
}

// FindPoints locates the k references (and delays) that best explain
// problem. It computes one convolution per reference (farmed out to a
// bounded worker pool), takes the best-scoring delay for each, sorts all
// 88 candidates ascending by score, and validates the top k; on failure it
// tries substituting each remaining candidate into each slot before giving
// up with ErrNoAnswer.
func (l *Loss) FindPoints(problem *audiovec.AudioVec, k int) ([]InspectPoint, error) {
	problemSqNorm := problem.SquaredNorm()
	problemLen := problem.Len()

	refs := make([]cardvoice.Index, 0, len(l.voices))
	for idx := range l.voices {
		refs = append(refs, idx)
	}

	results := make([]refResult, len(refs))
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, idx := range refs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, idx cardvoice.Index) {
			defer wg.Done()
			defer func() { <-sem }()
			conv := problem.Convolution(l.flipped[idx])
			best, found := l.bestDelay(problemLen, problemSqNorm, conv, idx)
			results[i] = refResult{best: best, found: found}
		}(i, idx)
	}
	wg.Wait()

	candidates := make([]InspectPoint, 0, len(results))
	for _, r := range results {
		if r.found {
			candidates = append(candidates, r.best)
		}
	}
	slices.SortFunc(candidates, func(a, b InspectPoint) bool {
		return a.Score < b.Score
	})

	if k > len(candidates) {
		k = len(candidates)
	}
	answer := append([]InspectPoint(nil), candidates[:k]...)
	if l.validate(problem, answer) {
		return answer, nil
	}
	l.logScoreSpread(candidates)

	for ci := k; ci < len(candidates); ci++ {
		for slot := 0; slot < k; slot++ {
			trial := append([]InspectPoint(nil), answer...)
			trial[slot] = candidates[ci]
			if l.validate(problem, trial) {
				return trial, nil
			}
		}
	}
	return nil, ErrNoAnswer
}

// bestDelay sweeps every delay for which s_r and the problem can overlap
// and returns the lowest-scoring one.
func (l *Loss) bestDelay(problemLen int, problemSqNorm uint64, conv []uint64, idx cardvoice.Index) (InspectPoint, bool) {
	n := l.voices[idx].Len()
	if n == 0 {
		return InspectPoint{}, false
	}
	lo := -(n - 1)
	hi := problemLen - 1
	best := InspectPoint{UsingVoice: idx, Delay: lo, Score: l.evaluateAt(problemLen, problemSqNorm, conv, idx, lo)}
	for w := lo + 1; w <= hi; w++ {
		score := l.evaluateAt(problemLen, problemSqNorm, conv, idx, w)
		if score < best.Score {
			best = InspectPoint{UsingVoice: idx, Delay: w, Score: score}
		}
	}
	return best, true
}

// validate superimposes the chosen references at their delays, clips the
// sum, subtracts it from the problem, and accepts if the residual squared
// norm is below a per-sample threshold scaled by the problem length.
func (l *Loss) validate(problem *audiovec.AudioVec, answer []InspectPoint) bool {
	composed := audiovec.Zero(l.ctx, 0)
	for _, point := range answer {
		composed = composed.Add(l.voices[point.UsingVoice].Delayed(point.Delay))
	}
	composed = composed.Clip()
	residual := problem.Sub(composed)
	threshold := uint64(validationThresholdPerSample) * uint64(problem.Len())
	return residual.SquaredNorm() < threshold
}
