// SPDX-License-Identifier: GPL-2.0-or-later

package texture

import (
	"github.com/google/uuid"

	"quakemodel/palette"
)

type TexPref uint32

const (
	TexPrefMipMap TexPref = 1 << iota
	TexPrefLinear
	TexPrefNearest
	TexPrefAlpha
	TexPrefPad
	TexPrefPersist
	TexPrefOverwrite
	TexPrefNoPicMip
	TexPrefFullBright
	TexPrefNoBright
	TexPrefConChars
	TexPrefWarpImage
	TexPrefNone TexPref = 0
)

type ColorType int

const (
	ColorTypeIndexed ColorType = iota
	ColorTypeRGBA
	ColorTypeLightmap
)

// Texture is the upload request for an image. The renderer owns the GPU
// side, keyed by ID.
type Texture struct {
	ID     uuid.UUID
	Name   string
	Owner  string
	Width  int
	Height int
	Typ    ColorType
	Data   []byte
	// Source and Offset identify where the pixels were read from.
	Source string
	Offset int
	flags  TexPref
}

func (t *Texture) Flags(f TexPref) bool {
	return t.flags&f != 0
}

func (t *Texture) Texels() int {
	if t.Flags(TexPrefMipMap) {
		return t.Width * t.Height * 4 / 3
	}
	return t.Width * t.Height
}

// RGBA returns the pixels as 8 bit RGBA. Indexed data goes through the
// palette table matching the texture flags.
func (t *Texture) RGBA() []byte {
	switch t.Typ {
	case ColorTypeRGBA:
		return t.Data
	case ColorTypeLightmap:
		out := make([]byte, 0, len(t.Data)/3*4)
		for i := 0; i+2 < len(t.Data); i += 3 {
			out = append(out, t.Data[i], t.Data[i+1], t.Data[i+2], 255)
		}
		return out
	}
	table := &palette.Table
	alpha := t.Flags(TexPrefAlpha)
	switch {
	case t.Flags(TexPrefFullBright) && alpha:
		table = &palette.TableFullBrightFence
	case t.Flags(TexPrefFullBright):
		table = &palette.TableFullBright
	case t.Flags(TexPrefNoBright) && alpha:
		table = &palette.TableNoBrightFence
	case t.Flags(TexPrefNoBright):
		table = &palette.TableNoBright
	}
	n := t.Width * t.Height
	if n > len(t.Data) {
		n = len(t.Data)
	}
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		c := int(t.Data[i]) * 4
		copy(out[i*4:i*4+4], table[c:c+4])
		if !alpha && !t.Flags(TexPrefFullBright|TexPrefNoBright) {
			out[i*4+3] = 255
		}
	}
	if alpha && n == t.Width*t.Height {
		palette.AlphaEdgeFix(t.Width, t.Height, out)
	}
	return out
}
