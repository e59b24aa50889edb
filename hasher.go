package umash

import (
	"encoding/binary"
	"hash"
	"io"

	"github.com/backtrace-labs/umash-go/internal/engine"
)

// Compile-time interface assertions.
var _ hash.Hash = (*Hasher)(nil)
var _ hash.Hash64 = (*Hasher)(nil)
var _ io.Writer = (*Hasher)(nil)
var _ hash.Hash = (*Fingerprinter)(nil)
var _ hash.Hash64 = (*Fingerprinter)(nil)
var _ io.Writer = (*Fingerprinter)(nil)

// A Hasher computes one of the two 64-bit functions defined by a
// [Params] value, tweaked by a seed. The digest depends only on the
// concatenation of all bytes written, never on how the caller chunked
// them, and digesting does not consume the state.
//
// A Hasher borrows the Params it was built from and is not safe for
// concurrent use; distinct Hashers sharing one Params are.
type Hasher struct {
	sink engine.Sink
}

// Hasher returns a streaming hasher for the primary function of
// (p, seed).
//
// The seed tweaks the hash value without any proven impact on
// collision rates between different seed values.
func (p *Params) Hasher(seed uint64) *Hasher {
	return p.ComponentHasher(seed, Hash)
}

// SecondaryHasher returns a streaming hasher for the secondary
// function of (p, seed).
func (p *Params) SecondaryHasher(seed uint64) *Hasher {
	return p.ComponentHasher(seed, Secondary)
}

// ComponentHasher returns a streaming hasher for the requested
// component of (p, seed).
func (p *Params) ComponentHasher(seed uint64, which Component) *Hasher {
	return &Hasher{sink: engine.NewSink(&p.p, seed, int(which))}
}

// BuildHasher returns a factory of fresh primary hashers bound to p
// with seed 0, for use as the hash strategy of generic keyed
// collections.
func (p *Params) BuildHasher() func() hash.Hash64 {
	return func() hash.Hash64 { return p.Hasher(0) }
}

// Write appends data to the running hash. It never returns an error.
func (h *Hasher) Write(data []byte) (int, error) {
	h.sink.Update(data)
	return len(data), nil
}

// Sum64 computes the 64-bit hash of all bytes written so far. It does
// not change the state: it may be called repeatedly and interleaved
// with further writes.
func (h *Hasher) Sum64() uint64 { return h.sink.Digest() }

// Sum appends the current hash, big-endian, to b.
func (h *Hasher) Sum(b []byte) []byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], h.Sum64())
	return append(b, out[:]...)
}

// Reset clears the accumulated data, keeping the bound parameters,
// seed, and component.
func (h *Hasher) Reset() { h.sink.Reset() }

// Size returns the hash size in bytes.
func (h *Hasher) Size() int { return 8 }

// BlockSize returns the write block size.
func (h *Hasher) BlockSize() int { return engine.BlockSize }

// A Fingerprinter computes the 128-bit fingerprint function defined
// by a [Params] value, tweaked by a seed. It traverses its input once
// for both components, which is cheaper than running two [Hasher]s,
// and digests to exactly what those two Hashers would produce.
//
// As a [hash.Hash64], a Fingerprinter reports the primary component:
// useful when one state should serve both a 64-bit consumer and a
// fingerprint extraction.
type Fingerprinter struct {
	sink engine.FPSink
}

// Fingerprinter returns a streaming fingerprinter for (p, seed).
func (p *Params) Fingerprinter(seed uint64) *Fingerprinter {
	return &Fingerprinter{sink: engine.NewFPSink(&p.p, seed)}
}

// Write appends data to the running fingerprint. It never returns an
// error.
func (f *Fingerprinter) Write(data []byte) (int, error) {
	f.sink.Update(data)
	return len(data), nil
}

// Digest computes the fingerprint of all bytes written so far. It
// does not change the state: it may be called repeatedly and
// interleaved with further writes.
func (f *Fingerprinter) Digest() Fingerprint {
	return Fingerprint(f.sink.Digest())
}

// Sum64 returns the primary component of the current fingerprint.
func (f *Fingerprinter) Sum64() uint64 { return f.Digest().Hash() }

// Sum appends the current fingerprint, each component big-endian in
// order, to b.
func (f *Fingerprinter) Sum(b []byte) []byte {
	fp := f.Digest()
	var out [16]byte
	binary.BigEndian.PutUint64(out[:8], fp[0])
	binary.BigEndian.PutUint64(out[8:], fp[1])
	return append(b, out[:]...)
}

// Reset clears the accumulated data, keeping the bound parameters and
// seed.
func (f *Fingerprinter) Reset() { f.sink.Reset() }

// Size returns the fingerprint size in bytes.
func (f *Fingerprinter) Size() int { return 16 }

// BlockSize returns the write block size.
func (f *Fingerprinter) BlockSize() int { return engine.BlockSize }
