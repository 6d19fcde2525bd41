// Package cache memoizes pipeline stage outputs under a stable content hash
// of their inputs and settings.
package cache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Key is the content hash of a stage invocation.
type Key uint64

// String renders the key as fixed-width hex.
func (k Key) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// Hasher accumulates values into a stable 64-bit hash. Every write is length
// or type delimited so that adjacent fields cannot collide by concatenation.
type Hasher struct {
	digest *xxhash.Digest
	buf    [8]byte
}

// NewHasher returns a hasher seeded with a domain tag, typically the stage
// name.
func NewHasher(domain string) *Hasher {
	h := &Hasher{digest: xxhash.New()}
	h.String(domain)
	return h
}

// String writes a length-prefixed string.
func (h *Hasher) String(s string) *Hasher {
	h.Uint64(uint64(len(s)))
	_, _ = h.digest.WriteString(s)
	return h
}

// Uint64 writes a fixed-width integer.
func (h *Hasher) Uint64(v uint64) *Hasher {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.digest.Write(h.buf[:])
	return h
}

// Int writes a signed integer.
func (h *Hasher) Int(v int) *Hasher {
	return h.Uint64(uint64(int64(v)))
}

// Float64 writes the IEEE-754 bits of v. All NaNs hash alike and -0 equals 0.
func (h *Hasher) Float64(v float64) *Hasher {
	switch {
	case math.IsNaN(v):
		return h.Uint64(0x7ff8000000000001)
	case v == 0:
		return h.Uint64(0)
	}
	return h.Uint64(math.Float64bits(v))
}

// Int8s writes a length-prefixed slice of small integers.
func (h *Hasher) Int8s(vs []int8) *Hasher {
	h.Uint64(uint64(len(vs)))
	for _, v := range vs {
		h.Int(int(v))
	}
	return h
}

// Key returns the accumulated hash.
func (h *Hasher) Key() Key {
	return Key(h.digest.Sum64())
}
