package engine

import (
	"encoding/binary"

	"golang.org/x/crypto/salsa20"
)

// paramsSize is the parameter block footprint: 38 64-bit words.
const paramsSize = 8 * (4 + OHParamCount + TwistingCount)

// DeriveParams deterministically expands (bits, key) into a prepared
// parameter block. The expansion is a Salsa20 keystream keyed with
// the 32 key bytes and the little-endian bits value as nonce, so the
// same inputs yield byte-identical parameters on every architecture.
func DeriveParams(bits uint64, key *[32]byte) Params {
	k := *key
	for {
		var nonce [8]byte
		binary.LittleEndian.PutUint64(nonce[:], bits)

		var stream [paramsSize]byte
		salsa20.XORKeyStream(stream[:], stream[:], nonce[:], &k)

		var p Params
		for i := range p.Poly {
			for j := range p.Poly[i] {
				p.Poly[i][j] = binary.LittleEndian.Uint64(stream[8*(2*i+j):])
			}
		}
		for i := range p.OH {
			p.OH[i] = binary.LittleEndian.Uint64(stream[8*(4+i):])
		}

		if p.prepare() {
			return p
		}

		// Statistically unreachable: respin with the next nonce.
		bits++
	}
}

// prepare turns raw keystream words into usable parameters. The
// polynomial multipliers are masked to 61 bits and must land in
// (0, 2^61 - 1); rejects respin from the spare pre-square slots. The
// multiplier square is then precomputed for the double-pumped Horner
// update. All OH keys must be pairwise distinct, or the whole block
// is rejected.
func (p *Params) prepare() bool {
	spare := [2]uint64{p.Poly[0][0], p.Poly[1][0]}
	spareIdx := 0

	for i := range p.Poly {
		f := p.Poly[i][1]
		for {
			f &= modulo
			if f != 0 && f < modulo {
				break
			}
			if spareIdx >= len(spare) {
				return false
			}
			f = spare[spareIdx]
			spareIdx++
		}
		p.Poly[i][0] = mulMod(f, f)
		p.Poly[i][1] = f
	}

	for i := 1; i < len(p.OH); i++ {
		for j := 0; j < i; j++ {
			if p.OH[j] == p.OH[i] {
				return false
			}
		}
	}
	return true
}
