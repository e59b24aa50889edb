// Package umash provides a Go implementation of the UMASH family of
// non-cryptographic, collision-bounded hash functions.
//
// Each [Params] value defines a pair of independent 64-bit hash
// functions and, jointly, a 128-bit fingerprint function. Parameters
// are either derived deterministically from a tag and key, so the same
// inputs yield the same hash values across processes, machines, and
// builds, or generated pseudo-uniquely per process with [NewParams].
//
// It offers streaming hashers that satisfy [hash.Hash64] and
// [io.Writer], a single-pass streaming fingerprinter, plus
// convenience helpers for one-shot hashes and fingerprints.
//
// UMASH is not cryptographic: it makes no preimage or
// second-preimage resistance claim. See the reference repository at
// https://github.com/backtrace-labs/umash for the collision bounds
// and proofs.
package umash
