// SPDX-License-Identifier: GPL-2.0-or-later

package math

import (
	"github.com/chewxy/math32"
)

// FloorDiv16 and CeilDiv16 map a texture coordinate to lightmap cells.
func FloorDiv16(v float32) int {
	return int(math32.Floor(v / 16))
}

func CeilDiv16(v float32) int {
	return int(math32.Ceil(v / 16))
}

func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

func Abs(x float32) float32 {
	return math32.Abs(x)
}
