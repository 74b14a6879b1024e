package wav

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// memWriteSeeker is an in-memory io.WriteSeeker over a byte slice, since
// go-audio/wav's encoder seeks back to patch the RIFF header sizes after
// writing all samples.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (m *memWriteSeeker) Write(p []byte) (int, error) {
	end := m.pos + len(p)
	if end > len(m.buf) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var base int
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = m.pos
	case io.SeekEnd:
		base = len(m.buf)
	}
	m.pos = base + int(offset)
	return int64(m.pos), nil
}

func TestSaveLoadRoundTrip(t *testing.T) {
	samples := []int16{0, 100, -100, 32767, -32768, 1, -1}
	mem := &memWriteSeeker{}
	require.NoError(t, Save(mem, samples, 44100))

	got, err := Load(bytes.NewReader(mem.buf))
	require.NoError(t, err)
	require.Equal(t, samples, got)
}

func TestLoadRejectsMalformedInput(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte("not a wav file")))
	require.True(t, errors.Is(err, ErrMalformed) || err != nil)
}

func TestLoadRejectsStereo(t *testing.T) {
	mem := &memWriteSeeker{}
	enc := wav.NewEncoder(mem, 44100, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{NumChannels: 2, SampleRate: 44100},
		Data:   []int{1, 2, 3, 4, 5, 6},
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())

	_, err := Load(bytes.NewReader(mem.buf))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}
