package umash

import (
	"crypto/rand"
	"sync"

	"github.com/backtrace-labs/umash-go/internal/engine"
)

// A Generator produces pseudo-unique [Params]: each call derives from
// the same 32 secure-random bytes but a strictly incremented counter,
// so no two calls on one Generator repeat their derivation inputs
// until the 64-bit counter wraps.
//
// A Generator is not safe for concurrent use; give each worker its
// own, or use the package-level [NewParams] which serializes access
// to a shared one.
type Generator struct {
	key     [32]byte
	counter uint64
}

// NewGenerator returns a Generator seeded from the operating system's
// secure random source. It panics if that source is unavailable: no
// meaningful recovery exists without random key material.
func NewGenerator() *Generator {
	var g Generator
	if _, err := rand.Read(g.key[:]); err != nil {
		panic("umash: reading 32 random bytes for params generation: " + err.Error())
	}
	return &g
}

// Params returns the next pseudo-unique parameter set.
func (g *Generator) Params() *Params {
	c := g.counter
	g.counter++
	return &Params{p: engine.DeriveParams(c, &g.key)}
}

var (
	processGenOnce sync.Once
	processGenMu   sync.Mutex
	processGen     *Generator
)

// NewParams returns a fresh pseudo-unique parameter set from a
// process-wide [Generator], initialized lazily on first use. It is
// safe for concurrent use. Like [NewGenerator], it panics if the
// secure random source is unavailable at first use.
//
// Parameters from NewParams differ between processes; callers that
// need reproducible hash values should use [DeriveParams] instead.
func NewParams() *Params {
	processGenOnce.Do(func() { processGen = NewGenerator() })

	processGenMu.Lock()
	defer processGenMu.Unlock()
	return processGen.Params()
}
