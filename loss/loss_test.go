package loss

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/readingcard/procon/audiovec"
	"github.com/readingcard/procon/cardvoice"
)

func buildReferences(ctx *audiovec.Context) map[cardvoice.Index]*audiovec.AudioVec {
	voices := make(map[cardvoice.Index]*audiovec.AudioVec, cardvoice.Count)
	for _, idx := range cardvoice.All() {
		samples := make([]int16, 32)
		for i := range samples {
			// a distinct, deterministic waveform per reference so that no
			// two references are near-duplicates of each other.
			samples[i] = int16((int(idx)+1)*7*(i+1) - 50*(i%3))
		}
		voices[idx] = audiovec.FromPCM(ctx, samples, false)
	}
	return voices
}

func TestEvaluateMatchesDirectSquaredDistance(t *testing.T) {
	ctx := audiovec.NewContext()
	voices := buildReferences(ctx)
	l := New(ctx, voices, nil)

	ref := cardvoice.New(5)
	got := l.Evaluate(voices[ref], InspectPoint{UsingVoice: ref, Delay: 0})
	require.Equal(t, uint64(0), got)
}

func TestFindPointsRecoversSuperimposedReferences(t *testing.T) {
	ctx := audiovec.NewContext()
	voices := buildReferences(ctx)
	l := New(ctx, voices, nil)

	a := cardvoice.New(2)
	b := cardvoice.New(70)
	delayA := 5
	delayB := 20

	// anchor the mixture at global index 0 (a problem recording is always
	// its own frame's origin) rather than at min(delayA, delayB), which is
	// where AudioVec.Add's union-of-domains framing would otherwise start.
	problem := audiovec.Zero(ctx, 60).Add(voices[a].Delayed(delayA)).Add(voices[b].Delayed(delayB)).Clip()

	points, err := l.FindPoints(problem, 2)
	require.NoError(t, err)
	require.Len(t, points, 2)

	found := map[cardvoice.Index]int{}
	for _, p := range points {
		found[p.UsingVoice] = p.Delay
	}
	require.Contains(t, found, a)
	require.Contains(t, found, b)
	require.Equal(t, delayA, found[a])
	require.Equal(t, delayB, found[b])
}

func TestFindPointsReturnsErrNoAnswerWhenProblemMatchesNothing(t *testing.T) {
	ctx := audiovec.NewContext()
	voices := buildReferences(ctx)
	l := New(ctx, voices, nil)

	noise := make([]int16, 64)
	for i := range noise {
		noise[i] = int16(30000 - 777*i)
	}
	problem := audiovec.FromPCM(ctx, noise, false)

	_, err := l.FindPoints(problem, 1)
	require.ErrorIs(t, err, ErrNoAnswer)
}

func TestValidateAcceptsExactSuperposition(t *testing.T) {
	ctx := audiovec.NewContext()
	voices := buildReferences(ctx)
	l := New(ctx, voices, nil)

	a := cardvoice.New(10)
	problem := voices[a].Clip()
	answer := []InspectPoint{{UsingVoice: a, Delay: 0}}
	require.True(t, l.validate(problem, answer))
}
