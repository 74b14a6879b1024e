// Package precalc builds, per reference voice, the cumulative prefix sum
// of squared samples so that Loss can evaluate a partial squared-norm
// contribution over an arbitrary sub-range in O(1).
package precalc

import (
	"github.com/rs/zerolog"

	"github.com/readingcard/procon/audiovec"
	"github.com/readingcard/procon/cardvoice"
)

// Table maps each reference to its prefix sum f_r, where
// f_r[k] = sum_{t=0}^{k} s_r[t]^2.
type Table struct {
	prefix map[cardvoice.Index][]uint64
}

// Build computes the prefix-sum table for every voice in voices. log may
// be nil; when provided, one debug event is emitted per reference, which
// is the only place this package touches logging (construction, never the
// per-query Get hot path).
func Build(voices map[cardvoice.Index]*audiovec.AudioVec, log *zerolog.Logger) *Table {
	prefix := make(map[cardvoice.Index][]uint64, len(voices))
	for idx, v := range voices {
		squares := v.SquaredSamples()
		sums := make([]uint64, len(squares))
		var acc uint64
		for i, sq := range squares {
			acc += sq
			sums[i] = acc
		}
		prefix[idx] = sums
		if log != nil {
			log.Debug().Stringer("reference", idx).Int("length", len(sums)).Msg("precalculated reference")
		}
	}
	return &Table{prefix: prefix}
}

// Get returns f_r[delay] if delay is within [0, length of r's prefix sum),
// and zero otherwise — including for negative delay, which is not clamped
// up to index 0.
func (t *Table) Get(r cardvoice.Index, delay int) uint64 {
	sums, ok := t.prefix[r]
	if !ok || delay < 0 || delay >= len(sums) {
		return 0
	}
	return sums[delay]
}

// FromPrefixSums wraps an already-computed set of prefix sums (as
// persisted and reloaded by the store package) as a Table, without
// recomputing them from sample data.
func FromPrefixSums(prefix map[cardvoice.Index][]uint64) *Table {
	return &Table{prefix: prefix}
}

// Len returns the sample count the prefix sum for r was built over.
func (t *Table) Len(r cardvoice.Index) int {
	return len(t.prefix[r])
}

// References returns every reference this table has an entry for.
func (t *Table) References() []cardvoice.Index {
	out := make([]cardvoice.Index, 0, len(t.prefix))
	for idx := range t.prefix {
		out = append(out, idx)
	}
	return out
}

// Snapshot returns a copy of the underlying prefix sums, for callers that
// need to compare two tables wholesale (store's round-trip tests) rather
// than through Get.
func (t *Table) Snapshot() map[cardvoice.Index][]uint64 {
	out := make(map[cardvoice.Index][]uint64, len(t.prefix))
	for idx, sums := range t.prefix {
		cp := make([]uint64, len(sums))
		copy(cp, sums)
		out[idx] = cp
	}
	return out
}
