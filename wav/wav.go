// Package wav loads mono 16-bit PCM WAV recordings (reference voices and
// problem recordings alike) into plain int16 sample slices.
package wav

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrUnsupportedFormat is returned when a WAV file decodes but is not mono
// 16-bit PCM, which is the only format the rest of this module understands.
var ErrUnsupportedFormat = errors.New("wav: unsupported format")

// ErrMalformed is returned when the input does not parse as a WAV file at
// all.
var ErrMalformed = errors.New("wav: malformed file")

// Load reads a WAV stream and returns its samples as signed 16-bit PCM.
// Only mono, 16-bit-depth files are accepted; anything else is
// ErrUnsupportedFormat.
func Load(r io.Reader) ([]int16, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrMalformed
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wav: decode pcm buffer: %w", err)
	}
	if err := dec.Err(); err != nil {
		return nil, fmt.Errorf("wav: decode: %w", err)
	}

	if dec.NumChans != 1 {
		return nil, fmt.Errorf("%w: %d channels, want mono", ErrUnsupportedFormat, dec.NumChans)
	}
	if dec.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d-bit depth, want 16-bit", ErrUnsupportedFormat, dec.BitDepth)
	}

	samples := make([]int16, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = int16(v)
	}
	return samples, nil
}

// Save writes samples as a mono 16-bit PCM WAV stream at the given sample
// rate, mirroring Load's format assumptions so round trips are lossless.
func Save(w io.WriteSeeker, samples []int16, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:   data,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wav: encode: %w", err)
	}
	return enc.Close()
}
