package utils

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

const bm_test_size = 32

func Benchmark_BitmapQuickSet(b *testing.B) {
	entries := make([]uint32, bm_test_size)
	for i := 0; i < bm_test_size; i++ {
		entries[i] = rand.Uint32() % bm_test_size
	}
	bm := NewBitmap(bm_test_size)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, j := range entries {
			bm.QuickSet(j)
		}
		bm.Count()
		bm.Zeroes()
	}
}

func Test_Bitmap(t *testing.T) {
	tests := [][]uint32{
		{},
		{0},
		{63},
		{64},
		{0, 1, 2, 3},
		{12, 0, 2, 2, 2, 3, 0, 1},
		{7, 4, 0, 200, 2, 5, 3, 0, 1, 5, 8},
	}
	for i, set := range tests {
		var grown Bitmap
		fixed := NewBitmap(256)
		unique := map[uint32]bool{}
		for _, x := range set {
			grown.Set(x)
			assert.True(t, fixed.QuickSet(x))
			unique[x] = true
		}
		assert.Equal(t, len(unique), grown.Count(), F("%d", i))
		assert.Equal(t, len(unique), fixed.Count(), F("%d", i))
		for x := uint32(0); x < 256; x++ {
			assert.Equal(t, unique[x], grown.Contains(x), F("set %d", i)+F(" bit %d", x))
			assert.Equal(t, unique[x], fixed.Contains(x), F("set %d", i)+F(" bit %d", x))
		}
	}
}

func Test_BitmapClearAndRange(t *testing.T) {
	bm := NewBitmap(10)
	assert.Len(t, bm, 1)
	assert.False(t, bm.QuickSet(64))
	assert.False(t, bm.Contains(1000))

	bm.Set(3)
	bm.Set(130)
	assert.Len(t, bm, 3)
	assert.True(t, bm.Contains(130))

	bm.Clear(3)
	bm.Clear(5000)
	assert.False(t, bm.Contains(3))
	assert.Equal(t, 1, bm.Count())

	bm.Zeroes()
	assert.Zero(t, bm.Count())
}
