// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/model"
	"quakemodel/palette"
	"quakemodel/texture"
)

// must be a power of 2
const floodFillFifoSize = 0x1000

type floodPoint struct {
	x, y int
}

// FloodFillSkin replaces the background color found at the top left pixel
// with the color surrounding it, so mipmapping does not show halos. Index
// 255 marks visited pixels and is never filled from.
func FloodFillSkin(skin []byte, w, h int) {
	if w <= 0 || h <= 0 || len(skin) < w*h {
		return
	}
	fillColor := skin[0]
	filledColor := palette.FirstBlack()
	if fillColor == filledColor || fillColor == 255 {
		return
	}

	var fifo [floodFillFifoSize]floodPoint
	in, out := 1, 0
	for out != in {
		p := fifo[out]
		out = (out + 1) & (floodFillFifoSize - 1)
		fdc := filledColor
		pos := p.x + w*p.y

		step := func(off, dx, dy int) {
			switch c := skin[pos+off]; {
			case c == fillColor:
				skin[pos+off] = 255
				fifo[in] = floodPoint{p.x + dx, p.y + dy}
				in = (in + 1) & (floodFillFifoSize - 1)
			case c != 255:
				fdc = c
			}
		}
		if p.x > 0 {
			step(-1, -1, 0)
		}
		if p.x < w-1 {
			step(1, 1, 0)
		}
		if p.y > 0 {
			step(-w, 0, -1)
		}
		if p.y < h-1 {
			step(w, 0, 1)
		}
		skin[pos] = fdc
	}
}

func (l *loader) loadSkins() error {
	m := l.m
	if l.numSkins < 1 || l.numSkins > MaxSkins {
		return errors.Errorf("Mod_LoadAliasModel: Invalid # of skins: %d", l.numSkins)
	}
	if m.SkinWidth <= 0 || m.SkinHeight <= 0 {
		return errors.Errorf("Mod_LoadAliasModel: %s has a bad skin size (%dx%d)", m.name, m.SkinWidth, m.SkinHeight)
	}
	flags := texture.TexPrefPad
	if m.flags&model.FlagHoley != 0 {
		flags |= texture.TexPrefAlpha
	}
	m.Skins = make([]Skin, l.numSkins)
	m.Texels = make([][]byte, l.numSkins)
	for i := range m.Skins {
		if err := l.r.need(4, "skin type"); err != nil {
			return err
		}
		s := &m.Skins[i]
		if l.r.long() == skinSingle {
			skin, offset, err := l.skinImage()
			if err != nil {
				return err
			}
			m.Texels[i] = bytes.Clone(skin)
			s.Textures[0], s.FullBrights[0] = l.skinTextures(fmt.Sprintf("%s:frame%d", m.name, i), skin, offset, flags)
			for j := 1; j < 4; j++ {
				s.Textures[j], s.FullBrights[j] = s.Textures[0], s.FullBrights[0]
			}
			continue
		}

		if err := l.r.need(4, "skin group"); err != nil {
			return err
		}
		n := int(l.r.long())
		if n < 1 {
			return errors.Errorf("Mod_LoadAliasModel: %s skin %d is an empty group", m.name, i)
		}
		// the renderer steps through groups at a fixed rate
		if err := l.r.need(n*4, "skin intervals"); err != nil {
			return err
		}
		l.r.pos += n * 4
		for j := 0; j < n; j++ {
			skin, offset, err := l.skinImage()
			if err != nil {
				return err
			}
			if j == 0 {
				m.Texels[i] = bytes.Clone(skin)
			}
			s.Textures[j&3], s.FullBrights[j&3] = l.skinTextures(fmt.Sprintf("%s:frame%d_%d", m.name, i, j), skin, offset, flags)
		}
		for j := n; j < 4; j++ {
			s.Textures[j], s.FullBrights[j] = s.Textures[j-n], s.FullBrights[j-n]
		}
	}
	return nil
}

// skinImage returns a flood filled copy of the next skin image and its
// offset in the file.
func (l *loader) skinImage() ([]byte, int, error) {
	size := l.m.SkinWidth * l.m.SkinHeight
	if err := l.r.need(size, "skins"); err != nil {
		return nil, 0, err
	}
	offset := l.r.pos
	skin := bytes.Clone(l.r.data[offset : offset+size])
	l.r.pos += size
	FloodFillSkin(skin, l.m.SkinWidth, l.m.SkinHeight)
	return skin, offset, nil
}

func (l *loader) skinTextures(name string, skin []byte, offset int, flags texture.TexPref) (tx, fb *texture.Texture) {
	tm := l.ctx.Textures
	if tm == nil {
		return nil, nil
	}
	m := l.m
	if !palette.HasFullBrights(skin) {
		return tm.LoadImage(m.name, name, m.SkinWidth, m.SkinHeight, texture.ColorTypeIndexed,
			skin, m.name, offset, flags), nil
	}
	tx = tm.LoadImage(m.name, name, m.SkinWidth, m.SkinHeight, texture.ColorTypeIndexed,
		skin, m.name, offset, flags|texture.TexPrefNoBright)
	fb = tm.LoadImage(m.name, name+"_glow", m.SkinWidth, m.SkinHeight, texture.ColorTypeIndexed,
		skin, m.name, offset, flags|texture.TexPrefFullBright)
	return tx, fb
}

// SkinTextures returns the textures of skin at time. Group skins advance
// ten times a second.
func (m *Model) SkinTextures(skin int, time float64) (tx, fb *texture.Texture) {
	if skin < 0 || skin >= len(m.Skins) {
		conlog.DPrintf("R_DrawAliasModel: no such skin # %d for '%s'\n", skin, m.name)
		skin = 0
	}
	anim := int(time*10) & 3
	s := &m.Skins[skin]
	return s.Textures[anim], s.FullBrights[anim]
}
