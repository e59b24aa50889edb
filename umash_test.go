package umash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	umash "github.com/backtrace-labs/umash-go"
)

const quickBrownFox = "the quick brown fox"

// Reference vectors from the upstream example program.
func TestReferenceVectors(t *testing.T) {
	params := umash.DeriveParams(0, []byte("hello example.c"))
	input := []byte(quickBrownFox)

	assert.Equal(t, uint64(0x398c5bb5cc113d03), params.Sum64(42, input))
	assert.Equal(t, uint64(0x3a52693519575aba), params.SecondarySum64(42, input))
	assert.Equal(t,
		umash.Fingerprint{0x398c5bb5cc113d03, 0x3a52693519575aba},
		params.Fingerprint(42, input))

	backtrace := umash.DeriveParams(0, []byte("backtrace"))
	assert.Equal(t, uint64(0x931972393b291c81), backtrace.Sum64(0xcd03, input))
	assert.Equal(t,
		umash.Fingerprint{10599628788124425345, 10827422672915900785},
		backtrace.Fingerprint(0xcd03, input))

	f := backtrace.Fingerprinter(0)
	_, err := f.Write(input)
	require.NoError(t, err)
	assert.Equal(t, uint64(3130985775916891977), f.Sum64())
}

func TestReferenceVectorsStreaming(t *testing.T) {
	params := umash.DeriveParams(0, []byte("hello example.c"))
	input := []byte(quickBrownFox)

	h := params.Hasher(42)
	s := params.SecondaryHasher(42)
	f := params.Fingerprinter(42)
	for _, w := range []interface{ Write([]byte) (int, error) }{h, s, f} {
		n, err := w.Write(input)
		require.NoError(t, err)
		require.Equal(t, len(input), n)
	}

	assert.Equal(t, uint64(0x398c5bb5cc113d03), h.Sum64())
	assert.Equal(t, uint64(0x3a52693519575aba), s.Sum64())
	assert.Equal(t,
		umash.Fingerprint{0x398c5bb5cc113d03, 0x3a52693519575aba},
		f.Digest())
}

func TestDeriveDeterminism(t *testing.T) {
	inputs := [][]byte{nil, []byte("a"), []byte(quickBrownFox), make([]byte, 1000)}

	a := umash.DeriveParams(7, []byte("some key"))
	b := umash.DeriveParams(7, []byte("some key"))
	for _, in := range inputs {
		assert.Equal(t, a.Sum64(0, in), b.Sum64(0, in))
		assert.Equal(t, a.Fingerprint(3, in), b.Fingerprint(3, in))
	}
}

func TestDeriveKeyNormalization(t *testing.T) {
	long := []byte("0123456789abcdef0123456789abcdef-this tail is ignored")
	prefix := long[:32]
	in := []byte(quickBrownFox)

	// Keys beyond 32 bytes are silently truncated.
	assert.Equal(t,
		umash.DeriveParams(0, long).Sum64(0, in),
		umash.DeriveParams(0, prefix).Sum64(0, in))

	// Short keys are zero-padded, so an explicit padding matches.
	short := []byte("short key")
	padded := make([]byte, 32)
	copy(padded, short)
	assert.Equal(t,
		umash.DeriveParams(0, short).Sum64(0, in),
		umash.DeriveParams(0, padded).Sum64(0, in))

	// But a different 32-byte prefix is a different function.
	other := append([]byte{}, prefix...)
	other[31]++
	assert.NotEqual(t,
		umash.DeriveParams(0, prefix).Sum64(0, in),
		umash.DeriveParams(0, other).Sum64(0, in))
}

func TestFingerprintDecomposition(t *testing.T) {
	params := umash.DeriveParams(1, []byte("decompose"))
	inputs := [][]byte{nil, []byte("x"), []byte(quickBrownFox), make([]byte, 300), make([]byte, 5000)}

	for _, in := range inputs {
		fp := params.Fingerprint(99, in)
		assert.Equal(t, params.ComponentSum64(99, umash.Hash, in), fp.Hash())
		assert.Equal(t, params.ComponentSum64(99, umash.Secondary, in), fp.Secondary())
		assert.Equal(t, fp.Hash(), fp.Component(umash.Hash))
		assert.Equal(t, fp.Secondary(), fp.Component(umash.Secondary))
	}
}

func TestComponentIndependence(t *testing.T) {
	params := umash.DeriveParams(0, []byte("hello example.c"))
	in := []byte(quickBrownFox)
	assert.NotEqual(t, params.Sum64(42, in), params.SecondarySum64(42, in))
}

func TestFingerprintCompare(t *testing.T) {
	cases := []struct {
		a, b umash.Fingerprint
		want int
	}{
		{umash.Fingerprint{1, 2}, umash.Fingerprint{1, 2}, 0},
		{umash.Fingerprint{1, 2}, umash.Fingerprint{1, 3}, -1},
		{umash.Fingerprint{2, 0}, umash.Fingerprint{1, ^uint64(0)}, 1},
		{umash.Fingerprint{0, 0}, umash.Fingerprint{0, 0}, 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.a.Compare(c.b), "%v vs %v", c.a, c.b)
		assert.Equal(t, -c.want, c.b.Compare(c.a), "%v vs %v reversed", c.b, c.a)
		assert.Equal(t, c.want == 0, c.a == c.b)
	}
}

func TestDefaultHasher(t *testing.T) {
	h := umash.New()
	_, err := h.Write([]byte(quickBrownFox))
	require.NoError(t, err)
	assert.Equal(t, uint64(0x398c5bb5cc113d03), h.Sum64())

	f := umash.NewFingerprinter()
	_, err = f.Write([]byte(quickBrownFox))
	require.NoError(t, err)
	assert.Equal(t,
		umash.Fingerprint{0x398c5bb5cc113d03, 0x3a52693519575aba},
		f.Digest())
}
