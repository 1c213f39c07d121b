package utils

import (
	"math/bits"
)

// Initially inspired from https://github.com/kelindar/bitmap Thank you for using the MIT license!
// Mostly just implementing/changing for the needed use-cases.

type Bitmap []uint64

// NewBitmap with room for size bits, all zero.
func NewBitmap(size uint32) Bitmap {
	return make(Bitmap, (uint64(size)+63)>>6)
}

// Inline-able, returns false if out of range.
func (bitmap *Bitmap) QuickSet(x uint32) bool {
	idx := int(x >> 6)
	if idx >= len(*bitmap) {
		return false
	}
	(*bitmap)[idx] |= (1 << (x % 64))
	return true
}

// Set sets the bit x in the bitmap and grows it if necessary.
func (bitmap *Bitmap) Set(x uint32) {
	idx := int(x >> 6)
	if idx >= len(*bitmap) {
		bitmap.grow(idx)
	}
	(*bitmap)[idx] |= (1 << (x % 64))
}

// Clear unsets bit x; out of range is a no-op.
func (bitmap Bitmap) Clear(x uint32) {
	idx := int(x >> 6)
	if idx < len(bitmap) {
		bitmap[idx] &^= (1 << (x % 64))
	}
}

// Contains reports whether bit x is set; out of range reads as unset.
func (bitmap Bitmap) Contains(x uint32) bool {
	idx := int(x >> 6)
	if idx >= len(bitmap) {
		return false
	}
	return bitmap[idx]&(1<<(x%64)) != 0
}

// Count of set bits.
func (bitmap Bitmap) Count() (count int) {
	for _, word := range bitmap {
		count += bits.OnesCount64(word)
	}
	return count
}

// Zeros all bits in the bitmap.
func (bitmap Bitmap) Zeroes() {
	for i := range bitmap {
		bitmap[i] = 0
	}
}

// Grow grows the size of the bitmap until we reach the desired block offset
func (bitmap *Bitmap) grow(idx int) {
	// If there's space, resize the slice without copying.
	if cap(*bitmap) > idx {
		*bitmap = (*bitmap)[:idx+1]
		return
	}
	old := *bitmap
	*bitmap = make(Bitmap, idx+1, resize(cap(old), idx+1))
	copy(*bitmap, old)
}

// resize calculates the new required capacity and a new index
func resize(capacity, v int) int {
	const threshold = 256

	if v < threshold {
		return int(RoundUpPow(uint64(v + 1)))
	}

	if capacity < threshold {
		capacity = threshold
	}

	for 0 < capacity && capacity < (v+1) {
		capacity += (capacity + 3*threshold) / 4
	}
	return capacity
}
