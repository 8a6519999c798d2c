// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"encoding/binary"
	"image"

	"github.com/pkg/errors"
)

type pcxHeader struct {
	Manufacturer uint8
	Version      uint8
	Encoding     uint8
	BitsPerPixel uint8
	XMin, YMin   uint16
	XMax, YMax   uint16
	HDPI, VDPI   uint16
	Colormap     [48]uint8
	Reserved     uint8
	ColorPlanes  uint8
	BytesPerLine uint16
	PaletteType  uint16
	Filler       [58]uint8
}

const pcxHeaderSize = 128

// decodePCX handles the 8 bit paletted run length encoded variant.
func decodePCX(b []byte) (*image.NRGBA, error) {
	if len(b) < pcxHeaderSize+769 {
		return nil, errors.New("pcx file too short")
	}
	var h pcxHeader
	if _, err := binary.Decode(b, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.Manufacturer != 0x0a || h.Version != 5 || h.Encoding != 1 ||
		h.BitsPerPixel != 8 || h.ColorPlanes != 1 {
		return nil, errors.New("unsupported pcx variant")
	}
	w := int(h.XMax) - int(h.XMin) + 1
	ht := int(h.YMax) - int(h.YMin) + 1
	if w <= 0 || ht <= 0 || int(h.BytesPerLine) < w {
		return nil, errors.Errorf("bad pcx size %dx%d", w, ht)
	}
	pal := b[len(b)-768:]
	data := b[pcxHeaderSize : len(b)-769]
	img := image.NewNRGBA(image.Rect(0, 0, w, ht))
	line := make([]uint8, h.BytesPerLine)
	pos := 0
	for y := 0; y < ht; y++ {
		for x := 0; x < len(line); {
			if pos >= len(data) {
				return nil, errors.New("pcx data truncated")
			}
			c := data[pos]
			pos++
			run := 1
			if c&0xc0 == 0xc0 {
				run = int(c & 0x3f)
				if pos >= len(data) {
					return nil, errors.New("pcx data truncated")
				}
				c = data[pos]
				pos++
			}
			for ; run > 0 && x < len(line); run-- {
				line[x] = c
				x++
			}
		}
		for x := 0; x < w; x++ {
			o := img.PixOffset(x, y)
			p := int(line[x]) * 3
			img.Pix[o] = pal[p]
			img.Pix[o+1] = pal[p+1]
			img.Pix[o+2] = pal[p+2]
			img.Pix[o+3] = 255
		}
	}
	return img, nil
}
