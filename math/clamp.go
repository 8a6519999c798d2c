// SPDX-License-Identifier: GPL-2.0-or-later

package math

type Number interface {
	int64 | float64 | float32 | int | int32
}

func Clamp[K Number](min, val, max K) K {
	if min > val {
		return min
	} else if max < val {
		return max
	}
	return val
}

// Lerp returns the weighted average of a and b.
func Lerp(a, b, frac float32) float32 {
	return a + frac*(b-a)
}

func Min[K Number](a, b K) K {
	if a < b {
		return a
	}
	return b
}

func Max[K Number](a, b K) K {
	if a > b {
		return a
	}
	return b
}
