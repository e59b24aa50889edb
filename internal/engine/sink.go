package engine

// Sink is the incremental state for one 64-bit UMASH component. It
// buffers at most one OH block plus the previous block's 16-byte
// tail, so memory use is constant no matter how much is written.
//
// The zero Sink is not usable; construct one with NewSink. A Sink
// borrows its Params and must not outlive them. Digest never consumes
// the state: it may be called repeatedly and interleaved with Update.
type Sink struct {
	params *Params
	seed   uint64
	which  int

	acc   uint64
	total uint64
	// buf[:ChunkSize] is the tail of the last flushed block; the
	// pending block lives at buf[ChunkSize : ChunkSize+n].
	buf [ChunkSize + BlockSize]byte
	n   int
}

// NewSink returns a fresh incremental state for component which of
// the UMASH function (params, seed).
func NewSink(params *Params, seed uint64, which int) Sink {
	return Sink{params: params, seed: seed, which: which}
}

// Update appends data to the logical input. Any chunking, including
// empty slices, yields the same digests.
func (s *Sink) Update(data []byte) {
	s.total += uint64(len(data))
	for len(data) > 0 {
		if s.n == BlockSize {
			s.flush()
		}
		c := copy(s.buf[ChunkSize+s.n:], data)
		s.n += c
		data = data[c:]
	}
}

// flush compresses the buffered block and keeps its tail around for
// the next block's backward spill. A block is only flushed once more
// input arrives, so the final block is never empty.
func (s *Sink) flush() {
	oh := s.params.ohFor(s.which)
	poly := &s.params.Poly[s.which]

	hi, lo := ohBlock(oh, s.seed, nil, s.buf[ChunkSize:])
	s.acc = hornerDouble(s.acc, poly[0], poly[1], lo, hi)

	copy(s.buf[:ChunkSize], s.buf[len(s.buf)-ChunkSize:])
	s.n = 0
}

// Digest returns the hash of everything written so far. It matches
// the one-shot Full over the concatenated input, for any partition.
func (s *Sink) Digest() uint64 {
	oh := s.params.ohFor(s.which)
	pending := s.buf[ChunkSize : ChunkSize+s.n]

	switch {
	case s.total <= shortLimit:
		return umashShort(oh, s.seed, pending)
	case s.total <= mediumLimit:
		return umashMedium(&s.params.Poly[s.which], oh, s.seed, pending)
	}

	poly := &s.params.Poly[s.which]
	prev := (*[ChunkSize]byte)(s.buf[:ChunkSize])
	hi, lo := ohBlock(oh, lastBlockTag(s.seed, s.n), prev, pending)
	return finalize(hornerDouble(s.acc, poly[0], poly[1], lo, hi))
}

// Reset returns the state to its just-constructed condition, keeping
// the bound parameters, seed, and component.
func (s *Sink) Reset() {
	s.acc = 0
	s.total = 0
	s.n = 0
}

// FPSink is the incremental state for the 128-bit fingerprint. It
// mirrors Sink but drives both components through a single traversal
// of the input, which is cheaper than two independent Sinks.
type FPSink struct {
	params *Params
	seed   uint64

	acc   [2]uint64
	total uint64
	buf   [ChunkSize + BlockSize]byte
	n     int
}

// NewFPSink returns a fresh incremental fingerprinting state for the
// UMASH function (params, seed).
func NewFPSink(params *Params, seed uint64) FPSink {
	return FPSink{params: params, seed: seed}
}

// Update appends data to the logical input. Any chunking, including
// empty slices, yields the same digests.
func (s *FPSink) Update(data []byte) {
	s.total += uint64(len(data))
	for len(data) > 0 {
		if s.n == BlockSize {
			s.flush()
		}
		c := copy(s.buf[ChunkSize+s.n:], data)
		s.n += c
		data = data[c:]
	}
}

func (s *FPSink) flush() {
	fp := ohBlockFP(s.params.OH[:], s.seed, nil, s.buf[ChunkSize:])
	for w := 0; w < 2; w++ {
		poly := &s.params.Poly[w]
		s.acc[w] = hornerDouble(s.acc[w], poly[0], poly[1], fp[w][1], fp[w][0])
	}

	copy(s.buf[:ChunkSize], s.buf[len(s.buf)-ChunkSize:])
	s.n = 0
}

// Digest returns the fingerprint of everything written so far, index
// 0 holding the primary component. It matches two opposite-component
// Sinks fed the same bytes, and the one-shot Fprint.
func (s *FPSink) Digest() [2]uint64 {
	pending := s.buf[ChunkSize : ChunkSize+s.n]

	if s.total <= mediumLimit {
		var out [2]uint64
		for w := 0; w < 2; w++ {
			oh := s.params.ohFor(w)
			if s.total <= shortLimit {
				out[w] = umashShort(oh, s.seed, pending)
			} else {
				out[w] = umashMedium(&s.params.Poly[w], oh, s.seed, pending)
			}
		}
		return out
	}

	prev := (*[ChunkSize]byte)(s.buf[:ChunkSize])
	fp := ohBlockFP(s.params.OH[:], lastBlockTag(s.seed, s.n), prev, pending)

	var out [2]uint64
	for w := 0; w < 2; w++ {
		poly := &s.params.Poly[w]
		out[w] = finalize(hornerDouble(s.acc[w], poly[0], poly[1], fp[w][1], fp[w][0]))
	}
	return out
}

// Reset returns the state to its just-constructed condition, keeping
// the bound parameters and seed.
func (s *FPSink) Reset() {
	s.acc = [2]uint64{}
	s.total = 0
	s.n = 0
}
