// SPDX-License-Identifier: GPL-2.0-or-later

package palette

import (
	"github.com/pkg/errors"
)

// FullBrightStart is the first palette index that ignores lighting.
const FullBrightStart = 224

var (
	Table                [256 * 4]uint8
	TableFullBright      [256 * 4]uint8
	TableFullBrightFence [256 * 4]uint8
	TableNoBright        [256 * 4]uint8
	TableNoBrightFence   [256 * 4]uint8
)

type FileReader interface {
	ReadFile(name string) ([]byte, error)
}

// Init reads gfx/palette.lmp from the search path.
func Init(fs FileReader) error {
	b, err := fs.ReadFile("gfx/palette.lmp")
	if err != nil {
		return errors.Wrap(err, "Couldn't load gfx/palette.lmp")
	}
	return Load(b)
}

// Load builds the tables from 256 RGB triples.
func Load(b []byte) error {
	if len(b) != 256*3 {
		return errors.Errorf("Palette has wrong size: %v", len(b))
	}
	for i := 0; i < 256; i++ {
		copy(Table[i*4:], b[i*3:i*3+3])
		Table[i*4+3] = 255
	}
	Table[255*4+3] = 0

	blend := 4 * FullBrightStart
	for i := range TableFullBright {
		TableFullBright[i] = 0
		TableNoBright[i] = 0
	}
	// keep 0-223 black
	copy(TableFullBright[blend:], Table[blend:])
	// keep 224-255 black
	copy(TableNoBright[:blend], Table[:blend])
	for i := 0; i < 256; i++ {
		TableFullBright[i*4+3] = 255
		TableNoBright[i*4+3] = 255
	}

	TableFullBrightFence = TableFullBright
	TableNoBrightFence = TableNoBright
	copy(TableFullBrightFence[255*4:], []uint8{0, 0, 0, 0})
	copy(TableNoBrightFence[255*4:], []uint8{0, 0, 0, 0})
	return nil
}

// RGB returns the color of palette index i.
func RGB(i uint8) (r, g, b uint8) {
	return Table[int(i)*4], Table[int(i)*4+1], Table[int(i)*4+2]
}

// HasFullBrights reports whether any pixel uses a fullbright index.
func HasFullBrights(pixels []byte) bool {
	for _, p := range pixels {
		if p >= FullBrightStart {
			return true
		}
	}
	return false
}

// FirstBlack returns the first index with opaque black, or 0.
func FirstBlack() uint8 {
	for i := 0; i < 256; i++ {
		if Table[i*4] == 0 && Table[i*4+1] == 0 && Table[i*4+2] == 0 && Table[i*4+3] == 255 {
			return uint8(i)
		}
	}
	return 0
}
