// SPDX-License-Identifier: GPL-2.0-or-later

package image

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/ftrvxmtrx/tga"
)

type files map[string][]byte

func (f files) ReadFileWithID(name string) ([]byte, int, error) {
	b, ok := f[name]
	if !ok {
		return nil, 0, os.ErrNotExist
	}
	return b, 3, nil
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.NRGBA{255, 0, 0, 255})
	img.Set(1, 0, color.NRGBA{0, 0, 255, 128})
	var b bytes.Buffer
	if err := png.Encode(&b, img); err != nil {
		t.Fatal(err)
	}
	return b.Bytes()
}

func pcxBytes() []byte {
	h := pcxHeader{
		Manufacturer: 0x0a,
		Version:      5,
		Encoding:     1,
		BitsPerPixel: 8,
		XMax:         2,
		YMax:         0,
		ColorPlanes:  1,
		BytesPerLine: 4,
	}
	var b bytes.Buffer
	binary.Write(&b, binary.LittleEndian, h)
	// one literal, then a run of three of index 0xc1
	b.Write([]byte{0x01, 0xc3, 0xc1})
	b.WriteByte(0x0c)
	pal := make([]byte, 768)
	pal[3], pal[4], pal[5] = 10, 20, 30
	pal[0xc1*3] = 99
	b.Write(pal)
	return b.Bytes()
}

func TestLoadOrder(t *testing.T) {
	fs := files{
		"textures/wall.png": pngBytes(t),
		"textures/wall.pcx": pcxBytes(),
		"textures/sky.pcx":  pcxBytes(),
	}
	img, err := Load(fs, "textures/wall")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Name != "textures/wall.png" || img.PathID != 3 {
		t.Errorf("loaded %s id %d", img.Name, img.PathID)
	}
	if c := img.NRGBAAt(1, 0); c.B != 255 || c.A != 128 {
		t.Errorf("pixel 1 = %v", c)
	}
	if _, err := Load(fs, "textures/none"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing image: %v", err)
	}
}

func TestLoadTGA(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, color.NRGBA{10, 20, 30, 255})
	src.Set(1, 0, color.NRGBA{40, 50, 60, 255})
	var b bytes.Buffer
	if err := tga.Encode(&b, src); err != nil {
		t.Fatal(err)
	}
	fs := files{
		"textures/wall.tga": b.Bytes(),
		"textures/wall.png": pngBytes(t),
	}
	img, err := Load(fs, "textures/wall")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if img.Name != "textures/wall.tga" {
		t.Errorf("loaded %s", img.Name)
	}
	if c := img.NRGBAAt(1, 0); c != (color.NRGBA{40, 50, 60, 255}) {
		t.Errorf("pixel 1 = %v", c)
	}
}

func TestPCX(t *testing.T) {
	img, err := decodePCX(pcxBytes())
	if err != nil {
		t.Fatalf("decodePCX: %v", err)
	}
	if img.Bounds().Dx() != 3 || img.Bounds().Dy() != 1 {
		t.Fatalf("size %v", img.Bounds())
	}
	if c := img.NRGBAAt(0, 0); c != (color.NRGBA{10, 20, 30, 255}) {
		t.Errorf("pixel 0 = %v", c)
	}
	if c := img.NRGBAAt(2, 0); c.R != 99 {
		t.Errorf("pixel 2 = %v", c)
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	data := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	for _, name := range []string{"a.png", "a.webp"} {
		p := filepath.Join(dir, name)
		if err := Write(p, data, 2, 1); err != nil {
			t.Fatalf("Write(%s): %v", name, err)
		}
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if err := Write(filepath.Join(dir, "b.png"), data, 4, 4); err == nil {
		t.Errorf("Write accepted short data")
	}
}

func TestScale(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	src.Set(0, 0, color.NRGBA{255, 255, 255, 255})
	dst := Scale(src, 4, 4)
	if dst.Bounds().Dx() != 4 || dst.NRGBAAt(1, 1).R != 255 || dst.NRGBAAt(3, 3).R != 0 {
		t.Errorf("Scale result unexpected")
	}
}
