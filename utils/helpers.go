package utils

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Round up to the next power of 2
func RoundUpPow(i uint64) uint64 {
	i--
	i |= i >> 1
	i |= i >> 2
	i |= i >> 4
	i |= i >> 8
	i |= i >> 16
	i |= i >> 32
	i++
	return i
}

func Max[T constraints.Ordered](x, y T) T {
	if x < y {
		return y
	}
	return x
}

func Min[T constraints.Ordered](x, y T) T {
	if y < x {
		return y
	}
	return x
}

func Abs[T constraints.Signed](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func Sum[T constraints.Integer | constraints.Float](slice []T) (sum T) {
	for i := range slice {
		sum += slice[i]
	}
	return sum
}

func Median[T constraints.Integer | constraints.Float](n []T) T {
	return Percentile(n, 50)
}

func Percentile[T constraints.Integer | constraints.Float](n []T, percentile int) T {
	if len(n) == 0 {
		log.Warn().Msg("WARNING: Percentile called on empty slice")
		return 0
	}
	if len(n) == 1 {
		return n[0]
	}
	copyN := slices.Clone(n)
	slices.Sort(copyN)

	idx := int((float64(percentile) / 100.0) * float64(len(copyN)))
	if idx >= len(copyN) {
		idx = len(copyN) - 1
	}
	if len(copyN)%2 == 1 || idx == 0 || copyN[idx-1] == copyN[idx] {
		return copyN[idx]
	}
	return copyN[idx-1] + (copyN[idx]-copyN[idx-1])/2
}

// Shuffle in place with the given generator; a nil generator uses the package source.
func Shuffle[T any](slice []T, rng *rand.Rand) {
	for i := range slice {
		var j int
		if rng == nil {
			j = rand.Intn(i + 1)
		} else {
			j = rng.Intn(i + 1)
		}
		slice[i], slice[j] = slice[j], slice[i]
	}
}
