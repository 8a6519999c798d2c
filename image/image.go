// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"

	"quakemodel/filesystem"
)

type FileReader interface {
	ReadFileWithID(name string) ([]byte, int, error)
}

// Image is a decoded external image and the search path id it came from.
type Image struct {
	*image.NRGBA
	Name   string
	PathID int
}

// Load tries name.tga, name.png and name.pcx in that order.
func Load(fs FileReader, name string) (*Image, error) {
	for _, ext := range []string{".tga", ".png", ".pcx"} {
		b, id, err := fs.ReadFileWithID(name + ext)
		if err != nil {
			continue
		}
		img, err := decode(ext, b)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding %s%s", name, ext)
		}
		return &Image{NRGBA: img, Name: name + ext, PathID: id}, nil
	}
	return nil, errors.Wrapf(os.ErrNotExist, "image %s", name)
}

// decode picks the decoder by extension. The tga package registers itself
// without a magic string, so image.Decode would hand every file to it.
func decode(ext string, b []byte) (*image.NRGBA, error) {
	var img image.Image
	var err error
	switch ext {
	case ".pcx":
		return decodePCX(b)
	case ".tga":
		img, err = tga.Decode(bytes.NewReader(b))
	case ".png":
		img, err = png.Decode(bytes.NewReader(b))
	default:
		return nil, errors.Errorf("unknown image type %s", ext)
	}
	if err != nil {
		return nil, err
	}
	return toNRGBA(img), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// Scale returns img resized to w x h.
func Scale(img *image.NRGBA, w, h int) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// Write expects RGBA 8bit data. The file extension selects png or webp.
func Write(name string, data []byte, width, height int) error {
	if len(data) < width*height*4 {
		return errors.Errorf("Tried to write %s but there is not enough data", name)
	}
	img := &image.NRGBA{
		Pix:    data[:width*height*4],
		Stride: 4 * width,
		Rect:   image.Rect(0, 0, width, height),
	}
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	if strings.EqualFold(filesystem.Ext(name), ".webp") {
		err = nativewebp.Encode(f, img, nil)
	} else {
		err = png.Encode(f, img)
	}
	if err != nil {
		return errors.Wrapf(err, "encoding %s", name)
	}
	return f.Close()
}
