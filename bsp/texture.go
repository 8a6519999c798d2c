// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/filesystem"
	"quakemodel/image"
	"quakemodel/lump"
	"quakemodel/palette"
	"quakemodel/texture"
)

const (
	animCycle     = 2
	warpImageSize = 512
)

var (
	// noTexture is used by lightmapped surfaces without texture, noTexture2
	// by tiled ones.
	noTexture  = &Texture{name: "notexture", Width: 32, Height: 32}
	noTexture2 = &Texture{name: "notexture2", Width: 32, Height: 32}
)

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func (l *loader) loadTextures() error {
	m := l.m
	b, err := l.lump(lump.Textures)
	if err != nil {
		return err
	}
	numMipTex := 0
	if len(b) == 0 {
		conlog.Printf("Mod_LoadTextures: no textures in bsp file\n")
	} else {
		if len(b) < 4 {
			return errors.Errorf("Mod_LoadBmodel: funny lump size in %s (textures)", m.name)
		}
		numMipTex = int(lump.Long(b, 0))
		if numMipTex < 0 || 4+numMipTex*4 > len(b) {
			return errors.Errorf("Mod_LoadTextures: bad texture count %d in %s", numMipTex, m.name)
		}
	}
	// two extra slots for the missing texture placeholders
	m.Textures = make([]*Texture, numMipTex+2)

	headerSize := miptexSize
	if l.q64() {
		headerSize = miptex64Size
	}
	lumpOfs := int(l.hdr.Lumps[lump.Textures].Offset)
	for i := 0; i < numMipTex; i++ {
		dataOfs := int(lump.Long(b, 4+i*4))
		if dataOfs == -1 {
			continue
		}
		if dataOfs < 0 || dataOfs+headerSize > len(b) {
			return errors.Errorf("Mod_LoadTextures: texture %d of %s is outside of the lump", i, m.name)
		}
		mt := b[dataOfs:]
		tx := &Texture{
			name:   cString(mt[:16]),
			Width:  int(uint32(lump.Long(mt, 16))),
			Height: int(uint32(lump.Long(mt, 20))),
		}
		if (tx.Width&15 != 0 || tx.Height&15 != 0) && !l.q64() {
			return errors.Errorf("Texture %s is not 16 aligned", tx.name)
		}
		pixels := tx.Width * tx.Height / 64 * 85
		start := dataOfs + headerSize
		if start+pixels > len(b) {
			conlog.DPrintf("Texture %s extends past end of lump\n", tx.name)
			pixels = max(0, len(b)-start)
		}
		tx.Data = b[start : start+pixels]
		tx.Offset = lumpOfs + start
		if l.q64() {
			tx.Shift = int(lump.Long(mt, 24))
		}
		m.Textures[i] = tx

		switch {
		case len(tx.name) >= 3 && strings.EqualFold(tx.name[:3], "sky"):
			if l.q64() {
				l.loadSkyTextureQ64(tx)
			} else {
				l.loadSkyTexture(tx)
			}
		case strings.HasPrefix(tx.name, "*"):
			l.loadWarpTexture(tx)
		default:
			l.loadRegularTexture(tx)
		}
	}
	m.Textures[len(m.Textures)-2] = noTexture
	m.Textures[len(m.Textures)-1] = noTexture2

	return l.sequenceAnimations(numMipTex)
}

// mapName is the map name without maps/ and extension.
func (l *loader) mapName() string {
	name := l.m.name
	if len(name) > 5 {
		name = name[5:]
	}
	return filesystem.StripExt(name)
}

// externalImage returns the first of names that can be loaded.
func (l *loader) externalImage(names ...string) (*image.Image, string) {
	if l.ctx.Files == nil {
		return nil, ""
	}
	for _, n := range names {
		img, err := image.Load(l.ctx.Files, n)
		if err == nil {
			return img, n
		}
		if !errors.Is(err, os.ErrNotExist) {
			conlog.DPrintf("%v\n", err)
		}
	}
	return nil, ""
}

func (l *loader) loadRGBA(name string, img *image.Image, source string, flags texture.TexPref) *texture.Texture {
	r := img.Bounds()
	return l.loadImage(name, r.Dx(), r.Dy(), texture.ColorTypeRGBA, img.Pix, source, 0, flags)
}

// loadWarpTexture handles liquids. External images are looked up with a
// '#' in place of the '*'.
func (l *loader) loadWarpTexture(tx *Texture) {
	rest := tx.name[1:]
	img, filename := l.externalImage(
		fmt.Sprintf("textures/%s/#%s", l.mapName(), rest),
		fmt.Sprintf("textures/#%s", rest))

	var texName string
	if img != nil {
		texName = filename
		tx.Texture = l.loadRGBA(texName, img, filename, texture.TexPrefNone)
	} else {
		texName = fmt.Sprintf("%s:%s", l.m.name, tx.name)
		tx.Texture = l.loadImage(texName, tx.Width, tx.Height, texture.ColorTypeIndexed,
			tx.Data, l.m.name, tx.Offset, texture.TexPrefNone)
	}
	// the renderer draws into the warp image every frame
	tx.Warp = l.loadImage(texName+"_warp", warpImageSize, warpImageSize, texture.ColorTypeRGBA,
		nil, "", 0, texture.TexPrefNoPicMip|texture.TexPrefWarpImage)
}

func (l *loader) loadRegularTexture(tx *Texture) {
	var extraFlags texture.TexPref
	if strings.HasPrefix(tx.name, "{") {
		extraFlags |= texture.TexPrefAlpha
	}

	img, filename := l.externalImage(
		fmt.Sprintf("textures/%s/%s", l.mapName(), tx.name),
		fmt.Sprintf("textures/%s", tx.name))
	if img != nil {
		tx.Texture = l.loadRGBA(filename, img, filename, texture.TexPrefMipMap|extraFlags)
		glow, glowName := l.externalImage(filename+"_glow", filename+"_luma")
		if glow != nil {
			tx.Fullbright = l.loadRGBA(glowName, glow, filename, texture.TexPrefMipMap|extraFlags)
		}
		return
	}

	texName := fmt.Sprintf("%s:%s", l.m.name, tx.name)
	if palette.HasFullBrights(tx.Data) {
		tx.Texture = l.loadImage(texName, tx.Width, tx.Height, texture.ColorTypeIndexed,
			tx.Data, l.m.name, tx.Offset, texture.TexPrefMipMap|texture.TexPrefNoBright|extraFlags)
		tx.Fullbright = l.loadImage(texName+"_glow", tx.Width, tx.Height, texture.ColorTypeIndexed,
			tx.Data, l.m.name, tx.Offset, texture.TexPrefMipMap|texture.TexPrefFullBright|extraFlags)
		return
	}
	tx.Texture = l.loadImage(texName, tx.Width, tx.Height, texture.ColorTypeIndexed,
		tx.Data, l.m.name, tx.Offset, texture.TexPrefMipMap|extraFlags)
}

// loadSkyTexture splits a sky side by side: the left half is the masked
// front layer, the right half the solid back layer.
func (l *loader) loadSkyTexture(tx *Texture) {
	half := tx.Width / 2
	if half == 0 || len(tx.Data) < tx.Width*tx.Height {
		conlog.DPrintf("Sky texture %s has no usable data\n", tx.name)
		return
	}
	front := make([]byte, half*tx.Height)
	back := make([]byte, half*tx.Height)
	for i := 0; i < tx.Height; i++ {
		for j := 0; j < half; j++ {
			src := i*tx.Width + j
			dst := i*half + j
			if p := tx.Data[src]; p == 0 {
				front[dst] = 255
			} else {
				front[dst] = p
			}
			back[dst] = tx.Data[src+half]
		}
	}
	l.finishSky(tx, front, back, half, tx.Height, tx.Offset+half)
}

// loadSkyTextureQ64 splits a sky stacked vertically: the top half is the
// front layer, the bottom half the back layer.
func (l *loader) loadSkyTextureQ64(tx *Texture) {
	half := tx.Height / 2
	n := tx.Width * half
	if n == 0 || len(tx.Data) < 2*n {
		conlog.DPrintf("Sky texture %s has no usable data\n", tx.name)
		return
	}
	front := make([]byte, n)
	back := make([]byte, n)
	copy(front, tx.Data[:n])
	copy(back, tx.Data[n:2*n])
	l.finishSky(tx, front, back, tx.Width, half, tx.Offset+n)
}

func (l *loader) finishSky(tx *Texture, front, back []byte, w, h, backOfs int) {
	var r, g, b, count int
	for _, p := range front {
		if p == 0 || p == 255 {
			continue
		}
		pr, pg, pb := palette.RGB(p)
		r += int(pr)
		g += int(pg)
		b += int(pb)
		count++ // only count opaque colors
	}
	tx.SolidSky = l.loadImage(fmt.Sprintf("%s:%s_back", l.m.name, tx.name), w, h,
		texture.ColorTypeIndexed, back, l.m.name, backOfs, texture.TexPrefNone)
	tx.AlphaSky = l.loadImage(fmt.Sprintf("%s:%s_front", l.m.name, tx.name), w, h,
		texture.ColorTypeIndexed, front, l.m.name, tx.Offset, texture.TexPrefAlpha)
	if count > 0 {
		tx.FlatSky = Color{
			R: float32(r) / (float32(count) * 255),
			G: float32(g) / (float32(count) * 255),
			B: float32(b) / (float32(count) * 255),
			A: 1,
		}
	}
}

// animFrame decodes the frame character of an animated texture name.
// Primary frames are 0-9, alternate frames A-J.
func animFrame(tx *Texture) (num int, alternate bool, err error) {
	if len(tx.name) < 2 {
		return 0, false, errors.Errorf("Bad animating texture %s", tx.name)
	}
	c := tx.name[1]
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), false, nil
	case c >= 'A' && c <= 'J':
		return int(c - 'A'), true, nil
	}
	return 0, false, errors.Errorf("Bad animating texture %s", tx.name)
}

func linkAnimations(anims []*Texture, other []*Texture, base *Texture) error {
	for j, t := range anims {
		if t == nil {
			return errors.Errorf("Missing frame %d of %s", j, base.name)
		}
		t.AnimTotal = len(anims) * animCycle
		t.AnimMin = j * animCycle
		t.AnimMax = (j + 1) * animCycle
		t.AnimNext = anims[(j+1)%len(anims)]
		if len(other) > 0 {
			t.AlternateAnims = other[0]
		}
	}
	return nil
}

// sequenceAnimations links textures named +<frame><name> into rings.
func (l *loader) sequenceAnimations(numMipTex int) error {
	textures := l.m.Textures
	for i := 0; i < numMipTex; i++ {
		tx := textures[i]
		if tx == nil || !strings.HasPrefix(tx.name, "+") {
			continue
		}
		if tx.AnimNext != nil {
			continue // already sequenced
		}
		var anims, altAnims [10]*Texture
		maxAnim, altMax := 0, 0

		num, alt, err := animFrame(tx)
		if err != nil {
			return err
		}
		if alt {
			altAnims[num] = tx
			altMax = num + 1
		} else {
			anims[num] = tx
			maxAnim = num + 1
		}

		for j := i + 1; j < numMipTex; j++ {
			tx2 := textures[j]
			if tx2 == nil || !strings.HasPrefix(tx2.name, "+") {
				continue
			}
			if len(tx2.name) < 2 || tx2.name[2:] != tx.name[2:] {
				continue
			}
			num, alt, err := animFrame(tx2)
			if err != nil {
				return errors.Errorf("Bad animating texture %s", tx.name)
			}
			if alt {
				altAnims[num] = tx2
				altMax = max(altMax, num+1)
			} else {
				anims[num] = tx2
				maxAnim = max(maxAnim, num+1)
			}
		}

		if l.q64() && !allPresent(anims[:maxAnim]) {
			continue
		}
		if err := linkAnimations(anims[:maxAnim], altAnims[:altMax], tx); err != nil {
			return err
		}
		if err := linkAnimations(altAnims[:altMax], anims[:maxAnim], tx); err != nil {
			return err
		}
	}
	return nil
}

func allPresent(ts []*Texture) bool {
	for _, t := range ts {
		if t == nil {
			return false
		}
	}
	return true
}

// TextureAnimation returns the texture to draw for base at the given
// time. frame selects the alternate animation of brush entities.
func TextureAnimation(base *Texture, frame int, time float64) (*Texture, error) {
	if frame != 0 && base.AlternateAnims != nil {
		base = base.AlternateAnims
	}
	if base.AnimTotal == 0 {
		return base, nil
	}
	relative := int(time*10) % base.AnimTotal
	count := 0
	for base.AnimMin > relative || base.AnimMax <= relative {
		base = base.AnimNext
		if base == nil {
			return nil, errors.New("R_TextureAnimation: broken cycle")
		}
		count++
		if count > 100 {
			return nil, errors.New("R_TextureAnimation: infinite cycle")
		}
	}
	return base, nil
}
