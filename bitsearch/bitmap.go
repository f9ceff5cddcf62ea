package bitsearch

import (
	"log"
	"math/bits"
)

const wordBits = 64

// A Bitmap is a fixed-width array of bits backed by 64-bit words. Bit 0 is
// the least significant bit of the first word.
type Bitmap struct {
	words []uint64
	width int
}

// NewBitmap creates a Bitmap with the given number of bits, all cleared.
func NewBitmap(width int) *Bitmap {
	if width < 0 {
		log.Panicf("bitmap width %d is negative", width)
	}

	return &Bitmap{
		words: make([]uint64, (width+wordBits-1)/wordBits),
		width: width,
	}
}

// Width returns the number of bits in the bitmap.
func (b *Bitmap) Width() int {
	return b.width
}

// Bit returns the value of bit i.
func (b *Bitmap) Bit(i int) bool {
	b.mustBeInRange(i)

	return b.words[i/wordBits]&(1<<(i%wordBits)) != 0
}

// Set sets bit i to 1.
func (b *Bitmap) Set(i int) {
	b.mustBeInRange(i)

	b.words[i/wordBits] |= 1 << (i % wordBits)
}

// Clear sets bit i to 0.
func (b *Bitmap) Clear(i int) {
	b.mustBeInRange(i)

	b.words[i/wordBits] &^= 1 << (i % wordBits)
}

// Fill sets every bit to 1.
func (b *Bitmap) Fill() {
	for i := range b.words {
		b.words[i] = ^uint64(0)
	}

	b.maskTail()
}

// Reset sets every bit to 0.
func (b *Bitmap) Reset() {
	for i := range b.words {
		b.words[i] = 0
	}
}

// OnesCount returns the number of set bits.
func (b *Bitmap) OnesCount() int {
	count := 0
	for _, w := range b.words {
		count += bits.OnesCount64(w)
	}

	return count
}

// Clone returns an independent copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	c := NewBitmap(b.width)
	copy(c.words, b.words)

	return c
}

// maskTail clears the bits of the last word that are beyond the width.
func (b *Bitmap) maskTail() {
	tail := b.width % wordBits
	if tail == 0 || len(b.words) == 0 {
		return
	}

	b.words[len(b.words)-1] &= (1 << tail) - 1
}

func (b *Bitmap) mustBeInRange(i int) {
	if i < 0 || i >= b.width {
		log.Panicf("bit index %d out of range [0, %d)", i, b.width)
	}
}
