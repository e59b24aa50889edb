// Package engine implements the UMASH mixing arithmetic: parameter
// derivation, the one-shot hash and fingerprint entry points, and the
// incremental sinks they are equivalent to. The public umash package
// wraps this machinery; nothing here is API.
package engine

import (
	"encoding/binary"
	"math/bits"
)

// Sizes of the UMASH parameter block and its processing units.
const (
	// OHParamCount is the number of 64-bit keys consumed by one full
	// block of the OH compressor.
	OHParamCount = 32

	// TwistingCount is the number of extra OH keys appended so the
	// secondary hash can shift the key schedule by one chunk.
	TwistingCount = 2

	// ChunkSize is the width of one OH chunk in bytes.
	ChunkSize = 16

	// BlockSize is the width of one OH block in bytes.
	BlockSize = ChunkSize * OHParamCount / 2

	shortLimit  = 8
	mediumLimit = 16
)

// modulo is the prime 2^61 - 1 underlying the polynomial hash.
const modulo = (1 << 61) - 1

// Params is one fully-prepared UMASH parameter block: two polynomial
// multiplier pairs (pre-squared multiplier first) and the OH key
// schedule, 38 words in total. A Params value is immutable once
// returned by DeriveParams and may be shared freely.
type Params struct {
	Poly [2][2]uint64
	OH   [OHParamCount + TwistingCount]uint64
}

// ohFor returns the OH key schedule for the requested component. The
// secondary hash shifts the schedule by one chunk (the two twisting
// keys at the tail exist for exactly this).
func (p *Params) ohFor(which int) []uint64 {
	return p.OH[which*TwistingCount:]
}

// reduce64 maps a 64-bit value to its canonical residue mod 2^61 - 1.
func reduce64(v uint64) uint64 {
	r := (v & modulo) + (v >> 61)
	if r >= modulo {
		r -= modulo
	}
	return r
}

// addModFast returns a 64-bit value congruent to x + y mod 2^61 - 1,
// without reducing: 2^64 is congruent to 8.
func addModFast(x, y uint64) uint64 {
	s, carry := bits.Add64(x, y, 0)
	return s + 8*carry
}

// addMod returns the canonical residue of x + y mod 2^61 - 1.
func addMod(x, y uint64) uint64 {
	s, carry := bits.Add64(x, y, 0)
	s, carry = bits.Add64(s, 8*carry, 0)
	s += 8 * carry
	return reduce64(s)
}

// mulMod returns the canonical residue of m * x mod 2^61 - 1.
// m must be a reduced multiplier (< 2^61); x may be any 64-bit value.
func mulMod(m, x uint64) uint64 {
	hi, lo := bits.Mul64(m, x)
	// hi < 2^61, and hi * 2^64 is congruent to 8 * hi.
	s, carry := bits.Add64(lo, hi<<3, 0)
	s, carry = bits.Add64(s, 8*carry, 0)
	s += 8 * carry
	return reduce64(s)
}

// hornerDouble advances the polynomial accumulator by one compressed
// block: acc' = m2 * (acc + lo) + m * hi, where m2 = m^2 mod p.
func hornerDouble(acc, m2, m, lo, hi uint64) uint64 {
	return addMod(mulMod(m2, addModFast(acc, lo)), mulMod(m, hi))
}

// finalize spreads the 61-bit polynomial accumulator over all 64 bits
// with an invertible xor-rotate mix.
func finalize(x uint64) uint64 {
	return x ^ bits.RotateLeft64(x, 8) ^ bits.RotateLeft64(x, 33)
}

// clmul returns the 128-bit carry-less product of x and y.
func clmul(x, y uint64) (hi, lo uint64) {
	for y != 0 {
		i := uint(bits.TrailingZeros64(y))
		y &= y - 1

		lo ^= x << i
		if i != 0 {
			hi ^= x >> (64 - i)
		}
	}
	return hi, lo
}

// vecToU64 encodes up to 8 bytes as a 64-bit value, using redundant
// overlapping reads so the length is recoverable from the encoding.
func vecToU64(data []byte) uint64 {
	n := len(data)
	if n >= 4 {
		lo := uint64(binary.LittleEndian.Uint32(data))
		hi := uint64(binary.LittleEndian.Uint32(data[n-4:]))
		return hi<<32 | lo
	}

	// 0 to 3 bytes: decode the length in binary. The first byte goes
	// in the low half when the length is odd; the last two bytes go
	// in the high half when bit 1 of the length is set.
	var b, w uint64
	if n&1 != 0 {
		b = uint64(data[0])
		data = data[1:]
	}
	if n&2 != 0 {
		w = uint64(binary.LittleEndian.Uint16(data))
	}
	return w<<32 | b
}

// umashShort hashes 0 to 8 bytes: a per-length key tweaks the seed,
// and a splitmix-style finalizer mixes the redundant encoding.
func umashShort(oh []uint64, seed uint64, data []byte) uint64 {
	seed += oh[len(data)]

	h := vecToU64(data)
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h = (h ^ seed) ^ (h >> 27)
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return h
}

// enh computes the ENH compression of one 16-byte chunk: a full
// 64x64 multiplication of the key-offset halves, with the tag folded
// into the high half.
func enh(kx, ky, tag, x, y uint64) (hi, lo uint64) {
	hi, lo = bits.Mul64(x+kx, y+ky)
	hi += tag
	hi ^= lo
	return hi, lo
}

// umashMedium hashes 9 to 16 bytes: a single ENH chunk over the
// overlapping first and last 8 bytes, pushed through the polynomial.
func umashMedium(poly *[2]uint64, oh []uint64, seed uint64, data []byte) uint64 {
	n := len(data)
	x := binary.LittleEndian.Uint64(data)
	y := binary.LittleEndian.Uint64(data[n-8:])
	hi, lo := enh(oh[0], oh[1], seed^uint64(n), x, y)
	return finalize(hornerDouble(0, poly[0], poly[1], lo, hi))
}

// ohBlock compresses one full or final OH block. block holds 1 to
// BlockSize bytes; prev holds the 16 bytes immediately preceding it,
// read only when the whole block is shorter than one chunk and the
// final read spills backwards (callers guarantee those bytes exist
// whenever len(block) < ChunkSize). Every chunk but the last is
// compressed with PH (carry-less products); the last one, the block's
// final 16 bytes, with ENH, which absorbs the tag. When the block
// length is not a chunk multiple the last chunk overlaps bytes
// already compressed by PH.
func ohBlock(oh []uint64, tag uint64, prev *[ChunkSize]byte, block []byte) (hi, lo uint64) {
	i := 0
	for off := 0; off+ChunkSize < len(block); off += ChunkSize {
		x := binary.LittleEndian.Uint64(block[off:])
		y := binary.LittleEndian.Uint64(block[off+8:])
		phi, plo := clmul(x^oh[i], y^oh[i+1])
		hi ^= phi
		lo ^= plo
		i += 2
	}

	x, y := lastChunk(prev, block)
	ehi, elo := enh(oh[i], oh[i+1], tag, x, y)
	return hi ^ ehi, lo ^ elo
}

// ohBlockFP is ohBlock for both components at once: each chunk is
// loaded once and compressed against the straight and the
// chunk-shifted key schedules.
func ohBlockFP(oh []uint64, tag uint64, prev *[ChunkSize]byte, block []byte) (fp [2][2]uint64) {
	i := 0
	for off := 0; off+ChunkSize < len(block); off += ChunkSize {
		x := binary.LittleEndian.Uint64(block[off:])
		y := binary.LittleEndian.Uint64(block[off+8:])
		for w := 0; w < 2; w++ {
			phi, plo := clmul(x^oh[i+2*w], y^oh[i+2*w+1])
			fp[w][0] ^= phi
			fp[w][1] ^= plo
		}
		i += 2
	}

	x, y := lastChunk(prev, block)
	for w := 0; w < 2; w++ {
		ehi, elo := enh(oh[i+2*w], oh[i+2*w+1], tag, x, y)
		fp[w][0] ^= ehi
		fp[w][1] ^= elo
	}
	return fp
}

// lastChunk loads the final 16 bytes of a block, spilling into the
// tail of the previous block when the block itself holds fewer than
// 16 bytes.
func lastChunk(prev *[ChunkSize]byte, block []byte) (x, y uint64) {
	if len(block) >= ChunkSize {
		tail := block[len(block)-ChunkSize:]
		return binary.LittleEndian.Uint64(tail), binary.LittleEndian.Uint64(tail[8:])
	}

	var tmp [ChunkSize]byte
	miss := ChunkSize - len(block)
	copy(tmp[:miss], prev[ChunkSize-miss:])
	copy(tmp[miss:], block)
	return binary.LittleEndian.Uint64(tmp[:]), binary.LittleEndian.Uint64(tmp[8:])
}

// lastBlockTag folds the final block's length into the seed. Only the
// low byte matters: the block length is in (0, BlockSize].
func lastBlockTag(seed uint64, n int) uint64 {
	return seed ^ uint64(n&0xff)
}

// umashLong hashes more than 16 bytes: whole OH blocks feed the
// polynomial, and the trailing 1 to 256 bytes form the final block.
func umashLong(poly *[2]uint64, oh []uint64, seed uint64, data []byte) uint64 {
	var acc uint64
	off := 0
	for len(data)-off > BlockSize {
		hi, lo := ohBlock(oh, seed, nil, data[off:off+BlockSize])
		acc = hornerDouble(acc, poly[0], poly[1], lo, hi)
		off += BlockSize
	}

	rest := data[off:]
	hi, lo := ohBlock(oh, lastBlockTag(seed, len(rest)), prevTail(data, off), rest)
	acc = hornerDouble(acc, poly[0], poly[1], lo, hi)
	return finalize(acc)
}

// prevTail returns the 16 bytes preceding offset off in data, for the
// final chunk's backward spill. A short final block implies at least
// one full block before it, so the bytes always exist when needed.
func prevTail(data []byte, off int) *[ChunkSize]byte {
	if off < ChunkSize {
		return nil
	}
	return (*[ChunkSize]byte)(data[off-ChunkSize:])
}

// Full computes the one-shot UMASH component which of data under
// (params, seed). It is bit-identical to streaming the same bytes
// through a Sink in any chunking.
func Full(params *Params, seed uint64, which int, data []byte) uint64 {
	oh := params.ohFor(which)
	switch {
	case len(data) <= shortLimit:
		return umashShort(oh, seed, data)
	case len(data) <= mediumLimit:
		return umashMedium(&params.Poly[which], oh, seed, data)
	default:
		return umashLong(&params.Poly[which], oh, seed, data)
	}
}

// Fprint computes the one-shot 128-bit UMASH fingerprint of data
// under (params, seed): index 0 is the primary component, index 1 the
// secondary. Long inputs are traversed once for both components.
func Fprint(params *Params, seed uint64, data []byte) [2]uint64 {
	if len(data) <= mediumLimit {
		return [2]uint64{
			Full(params, seed, 0, data),
			Full(params, seed, 1, data),
		}
	}

	var acc [2]uint64
	oh := params.OH[:]
	off := 0
	for len(data)-off > BlockSize {
		fp := ohBlockFP(oh, seed, nil, data[off:off+BlockSize])
		for w := 0; w < 2; w++ {
			acc[w] = hornerDouble(acc[w], params.Poly[w][0], params.Poly[w][1], fp[w][1], fp[w][0])
		}
		off += BlockSize
	}

	rest := data[off:]
	fp := ohBlockFP(oh, lastBlockTag(seed, len(rest)), prevTail(data, off), rest)
	for w := 0; w < 2; w++ {
		acc[w] = hornerDouble(acc[w], params.Poly[w][0], params.Poly[w][1], fp[w][1], fp[w][0])
	}
	return [2]uint64{finalize(acc[0]), finalize(acc[1])}
}
