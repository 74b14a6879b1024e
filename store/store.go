// Package store persists a precalc.Table to disk as JSON alongside a
// blake3 digest, so a driver can skip rebuilding the prefix sums for a
// reference catalogue that has not changed.
package store

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/zeebo/blake3"

	"github.com/readingcard/procon/cardvoice"
	"github.com/readingcard/procon/precalc"
)

// ErrDigestMismatch is returned by Load when the blake3 digest recorded
// for a persisted table does not match the file's current contents.
var ErrDigestMismatch = errors.New("store: digest mismatch")

// wireTable is the on-disk shape of a precalc.Table: its unexported prefix
// map, made addressable for JSON via an exported mirror.
type wireTable struct {
	Prefix map[cardvoice.Index][]uint64 `json:"prefix"`
}

// Save writes table to path as JSON and returns the hex-encoded blake3-256
// digest of the bytes written, so the caller can record it (e.g. alongside
// the reference catalogue's own checksum) for later integrity checks.
func Save(path string, table *precalc.Table) (string, error) {
	wire := wireTable{Prefix: make(map[cardvoice.Index][]uint64)}
	for _, idx := range table.References() {
		n := table.Len(idx)
		sums := make([]uint64, n)
		for i := 0; i < n; i++ {
			sums[i] = table.Get(idx, i)
		}
		wire.Prefix[idx] = sums
	}

	data, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("store: marshal table: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("store: write %s: %w", path, err)
	}
	return digest(data), nil
}

// Load reads a table previously written by Save and verifies it against
// wantDigest (as returned by Save), returning ErrDigestMismatch if the
// file has been tampered with or regenerated from a different catalogue.
func Load(path string, wantDigest string) (*precalc.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", path, err)
	}
	if got := digest(data); got != wantDigest {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrDigestMismatch, got, wantDigest)
	}

	var wire wireTable
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("store: unmarshal table: %w", err)
	}
	return precalc.FromPrefixSums(wire.Prefix), nil
}

func digest(data []byte) string {
	h := blake3.New()
	_, _ = h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}
