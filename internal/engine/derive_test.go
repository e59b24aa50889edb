package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key32(s string) *[32]byte {
	var k [32]byte
	copy(k[:], s)
	return &k
}

func TestDeriveParamsDeterministic(t *testing.T) {
	a := DeriveParams(0, key32("hello example.c"))
	b := DeriveParams(0, key32("hello example.c"))
	assert.Equal(t, a, b, "identical (tag, key) must derive identical params")
}

func TestDeriveParamsSensitivity(t *testing.T) {
	base := DeriveParams(0, key32("hello example.c"))

	assert.NotEqual(t, base, DeriveParams(1, key32("hello example.c")),
		"tag change must change params")
	assert.NotEqual(t, base, DeriveParams(0, key32("hello example.d")),
		"key change must change params")
}

func TestDeriveParamsPrepared(t *testing.T) {
	keys := []string{"", "hello example.c", "backtrace", "0123456789abcdef0123456789abcdef"}

	for _, k := range keys {
		p := DeriveParams(0, key32(k))

		for i := range p.Poly {
			f := p.Poly[i][1]
			require.NotZero(t, f, "multiplier %d is zero for key %q", i, k)
			require.Less(t, f, uint64(modulo), "multiplier %d out of range for key %q", i, k)
			require.Equal(t, mulMod(f, f), p.Poly[i][0],
				"stored square of multiplier %d is wrong for key %q", i, k)
		}

		seen := make(map[uint64]int, len(p.OH))
		for i, v := range p.OH {
			if j, dup := seen[v]; dup {
				t.Fatalf("key %q: OH[%d] == OH[%d]", k, i, j)
			}
			seen[v] = i
		}
	}
}

func TestModularArithmetic(t *testing.T) {
	cases := []struct{ x, y uint64 }{
		{0, 0},
		{1, modulo - 1},
		{modulo, modulo},
		{^uint64(0), ^uint64(0)},
		{^uint64(0), 8},
		{1 << 61, 1},
		{0xdeadbeefcafebabe, 0x0123456789abcdef},
	}

	for _, c := range cases {
		want := (c.x%modulo + c.y%modulo) % modulo
		assert.Equal(t, want, addMod(c.x, c.y), "addMod(%#x, %#x)", c.x, c.y)
		assert.Equal(t, want, reduce64(addModFast(c.x, c.y)),
			"addModFast(%#x, %#x) not congruent", c.x, c.y)
	}

	muls := []struct{ m, x uint64 }{
		{0, ^uint64(0)},
		{1, ^uint64(0)},
		{modulo - 1, modulo - 1},
		{0x1fffffffffffffff, 0xdeadbeefcafebabe},
	}
	for _, c := range muls {
		hi, lo := mulWide(c.m, c.x)
		want := wideMod(hi, lo)
		assert.Equal(t, want, mulMod(c.m, c.x), "mulMod(%#x, %#x)", c.m, c.x)
	}
}

func TestClmul(t *testing.T) {
	// x^0 * anything is the identity.
	hi, lo := clmul(1, 0xdeadbeefcafebabe)
	assert.Equal(t, uint64(0), hi)
	assert.Equal(t, uint64(0xdeadbeefcafebabe), lo)

	// x^63 * x^63 = x^126.
	hi, lo = clmul(1<<63, 1<<63)
	assert.Equal(t, uint64(1)<<62, hi)
	assert.Equal(t, uint64(0), lo)

	// Distributivity over xor.
	a, b, c := uint64(0x0123456789abcdef), uint64(0xfedcba9876543210), uint64(0x5555aaaa3333cccc)
	h1, l1 := clmul(a, c)
	h2, l2 := clmul(b, c)
	h3, l3 := clmul(a^b, c)
	assert.Equal(t, h1^h2, h3)
	assert.Equal(t, l1^l2, l3)
}

// mulWide is bits.Mul64 spelled out so the test does not depend on
// the code under test.
func mulWide(a, b uint64) (hi, lo uint64) {
	const mask = 1<<32 - 1
	aLo, aHi := a&mask, a>>32
	bLo, bHi := b&mask, b>>32

	t := aLo * bLo
	lo = t & mask
	carry := t >> 32

	t = aHi*bLo + carry
	mid := t & mask
	carry = t >> 32

	t = aLo*bHi + mid
	lo |= t << 32
	hi = aHi*bHi + carry + t>>32
	return hi, lo
}

// wideMod reduces hi*2^64 + lo mod 2^61 - 1 using big-integer-free
// repeated folding.
func wideMod(hi, lo uint64) uint64 {
	// 2^64 = 8 mod p, and 8*hi fits in 64 bits only if hi < 2^61,
	// which holds for all products of a reduced multiplier. Fold in
	// 32-bit halves to stay safe regardless.
	acc := uint64(0)
	parts := []struct {
		v     uint64
		shift uint
	}{{hi >> 32, 96}, {hi & (1<<32 - 1), 64}, {lo >> 32, 32}, {lo & (1<<32 - 1), 0}}
	for _, p := range parts {
		v := p.v % modulo
		for s := p.shift; s > 0; s-- {
			v = (v * 2) % modulo
		}
		acc = (acc + v) % modulo
	}
	return acc
}
