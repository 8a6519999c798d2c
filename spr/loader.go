// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"fmt"

	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/lump"
	"quakemodel/math/vec"
	"quakemodel/model"
	"quakemodel/texture"
)

func init() {
	model.Register(model.KindSprite, Load)
}

func Load(ctx *model.LoadContext) ([]model.Model, error) {
	m, err := LoadSpriteModel(ctx)
	if err != nil {
		return nil, err
	}
	return []model.Model{m}, nil
}

type loader struct {
	ctx *model.LoadContext
	m   *Model
	pos int
}

func (l *loader) need(n int, what string) error {
	if n < 0 || l.pos+n > len(l.ctx.Data) {
		return errors.Errorf("Mod_LoadSpriteModel: %s is truncated in %s", l.m.name, what)
	}
	return nil
}

func (l *loader) long() int32 {
	v := lump.Long(l.ctx.Data, l.pos)
	l.pos += 4
	return v
}

func (l *loader) float() float32 {
	v := lump.Float(l.ctx.Data, l.pos)
	l.pos += 4
	return v
}

// LoadSpriteModel decodes an IDSP file.
func LoadSpriteModel(ctx *model.LoadContext) (*Model, error) {
	l := &loader{ctx: ctx, m: &Model{name: ctx.Name}}
	m := l.m
	if len(ctx.Data) < headerSize {
		return nil, errors.Errorf("Mod_LoadSpriteModel: %s is too short for a header (%d bytes)", m.name, len(ctx.Data))
	}
	l.pos = 4
	if v := l.long(); v != Version {
		return nil, errors.Errorf("%s has wrong version number (%d should be %d)", m.name, v, Version)
	}
	m.Type = int(l.long())
	l.float() // bounding radius
	m.MaxWidth = int(l.long())
	m.MaxHeight = int(l.long())
	numFrames := int(l.long())
	m.BeamLength = l.float()
	m.syncType = model.SyncType(l.long())

	w, h := float32(m.MaxWidth/2), float32(m.MaxHeight/2)
	m.bounds.Mins = vec.Vec3{-w, -w, -h}
	m.bounds.Maxs = vec.Vec3{w, w, h}
	m.bounds.YMins, m.bounds.YMaxs = m.bounds.Mins, m.bounds.Maxs
	m.bounds.RMins, m.bounds.RMaxs = m.bounds.Mins, m.bounds.Maxs

	if numFrames < 1 {
		return nil, errors.Errorf("Mod_LoadSpriteModel: Invalid # of frames: %d", numFrames)
	}
	m.Frames = make([]FrameDesc, numFrames)
	for i := range m.Frames {
		if err := l.need(4, "frame type"); err != nil {
			return nil, err
		}
		var err error
		if l.long() == frameSingle {
			var f *Frame
			f, err = l.loadFrame(i)
			m.Frames[i].Frames = []*Frame{f}
		} else {
			err = l.loadGroup(i, &m.Frames[i])
		}
		if err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (l *loader) loadFrame(num int) (*Frame, error) {
	if err := l.need(frameHeaderSize, "frames"); err != nil {
		return nil, err
	}
	ox, oy := l.long(), l.long()
	f := &Frame{
		Width:  int(l.long()),
		Height: int(l.long()),
	}
	if f.Width < 0 || f.Height < 0 {
		return nil, errors.Errorf("Mod_LoadSpriteFrame: %s frame %d has a bad size (%dx%d)", l.m.name, num, f.Width, f.Height)
	}
	size := f.Width * f.Height
	if err := l.need(size, "frames"); err != nil {
		return nil, err
	}
	f.Up = float32(oy)
	f.Down = float32(oy) - float32(f.Height)
	f.Left = float32(ox)
	f.Right = float32(f.Width) + float32(ox)

	if tm := l.ctx.Textures; tm != nil {
		f.Texture = tm.LoadImage(l.m.name, fmt.Sprintf("%s:frame%d", l.m.name, num), f.Width, f.Height,
			texture.ColorTypeIndexed, l.ctx.Data[l.pos:l.pos+size], l.m.name, l.pos,
			texture.TexPrefPad|texture.TexPrefAlpha|texture.TexPrefNoPicMip)
	}
	l.pos += size
	return f, nil
}

func (l *loader) loadGroup(num int, d *FrameDesc) error {
	if err := l.need(4, "frame group"); err != nil {
		return err
	}
	n := int(l.long())
	if n < 1 {
		return errors.Errorf("Mod_LoadSpriteGroup: %s frame %d has no frames", l.m.name, num)
	}
	if err := l.need(n*4, "frame intervals"); err != nil {
		return err
	}
	d.Intervals = make([]float32, n)
	for i := range d.Intervals {
		d.Intervals[i] = l.float()
		if d.Intervals[i] <= 0 {
			return errors.New("Mod_LoadSpriteGroup: interval<=0")
		}
	}
	d.Frames = make([]*Frame, n)
	for i := range d.Frames {
		f, err := l.loadFrame(num*100 + i)
		if err != nil {
			return err
		}
		d.Frames[i] = f
	}
	return nil
}

// FrameAt returns the image of frame at time. Groups loop over the end
// time of their last frame.
func (m *Model) FrameAt(frame int, time float64) *Frame {
	if frame < 0 || frame >= len(m.Frames) {
		conlog.DPrintf("R_DrawSprite: no such frame %d for '%s'\n", frame, m.name)
		frame = 0
	}
	d := &m.Frames[frame]
	if !d.Group() {
		return d.Frames[0]
	}
	n := len(d.Intervals)
	full := float64(d.Intervals[n-1])
	target := time - float64(int(time/full))*full
	i := 0
	for ; i < n-1; i++ {
		if float64(d.Intervals[i]) > target {
			break
		}
	}
	return d.Frames[i]
}
