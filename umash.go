package umash

import (
	"io"

	"github.com/backtrace-labs/umash-go/internal/engine"
)

// Component selects which of the two independent 64-bit functions
// defined by a [Params] value is being computed.
type Component int

const (
	// Hash is the primary 64-bit hash, the first word of a
	// [Fingerprint].
	Hash Component = iota

	// Secondary is the secondary 64-bit value, the second word of a
	// [Fingerprint]. It is slightly less well distributed than the
	// primary, but combines with it into a reasonably strong 128-bit
	// fingerprint.
	Secondary
)

// Params is a set of UMASH hashing parameters: 38 64-bit coefficients
// that fully determine the primary and secondary hash functions.
//
// Params are immutable once constructed and may be shared by any
// number of goroutines and hashers. They should be passed by pointer:
// hashers borrow the Params they were built from, so a Params value
// must stay reachable for as long as anything hashes with it.
type Params struct {
	p engine.Params
}

// DeriveParams returns parameters derived deterministically from tag
// and the first 32 bytes of key. Shorter keys are zero-padded and
// longer ones silently truncated, so only the 32-byte prefix
// distinguishes keys. The resulting hash functions are stable across
// processes, architectures, and versions of this package.
func DeriveParams(tag uint64, key []byte) *Params {
	var k [32]byte
	copy(k[:], key)
	return &Params{p: engine.DeriveParams(tag, &k)}
}

// Sum64 computes the one-shot primary hash of data under (p, seed).
func (p *Params) Sum64(seed uint64, data []byte) uint64 {
	return engine.Full(&p.p, seed, int(Hash), data)
}

// SecondarySum64 computes the one-shot secondary hash of data under
// (p, seed).
func (p *Params) SecondarySum64(seed uint64, data []byte) uint64 {
	return engine.Full(&p.p, seed, int(Secondary), data)
}

// ComponentSum64 computes the one-shot hash of data for the requested
// component under (p, seed). It is bit-identical to writing data to
// the matching [Hasher] in any chunking and digesting.
func (p *Params) ComponentSum64(seed uint64, which Component, data []byte) uint64 {
	return engine.Full(&p.p, seed, int(which), data)
}

// Fingerprint computes the one-shot 128-bit fingerprint of data under
// (p, seed), visiting the input once for both components.
func (p *Params) Fingerprint(seed uint64, data []byte) Fingerprint {
	return Fingerprint(engine.Fprint(&p.p, seed, data))
}

// HashValue computes the primary hash, with seed 0, of a value that
// can write out its canonical byte representation. The write order is
// the value's identity: different orders hash as different inputs.
// The returned error is v's own; hashers never fail.
func (p *Params) HashValue(v io.WriterTo) (uint64, error) {
	h := p.Hasher(0)
	if _, err := v.WriteTo(h); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// SecondaryValue is [Params.HashValue] for the secondary component.
func (p *Params) SecondaryValue(v io.WriterTo) (uint64, error) {
	h := p.SecondaryHasher(0)
	if _, err := v.WriteTo(h); err != nil {
		return 0, err
	}
	return h.Sum64(), nil
}

// FingerprintValue computes the fingerprint, with seed 0, of a value
// that can write out its canonical byte representation.
func (p *Params) FingerprintValue(v io.WriterTo) (Fingerprint, error) {
	f := p.Fingerprinter(0)
	if _, err := v.WriteTo(f); err != nil {
		return Fingerprint{}, err
	}
	return f.Digest(), nil
}

// Fingerprint is a 128-bit UMASH digest: the primary hash at index 0
// and the secondary at index 1. Fingerprints are comparable with ==;
// two are equal iff both components match.
type Fingerprint [2]uint64

// Hash returns the primary component of the fingerprint. Checking a
// document against just this word is faster than a full comparison,
// at reduced confidence.
func (f Fingerprint) Hash() uint64 { return f[0] }

// Secondary returns the secondary component of the fingerprint.
func (f Fingerprint) Secondary() uint64 { return f[1] }

// Component returns the which component of the fingerprint.
func (f Fingerprint) Component(which Component) uint64 { return f[which] }

// Compare orders fingerprints lexicographically by component,
// returning -1, 0, or +1.
func (f Fingerprint) Compare(o Fingerprint) int {
	for i := range f {
		switch {
		case f[i] < o[i]:
			return -1
		case f[i] > o[i]:
			return 1
		}
	}
	return 0
}
