// SPDX-License-Identifier: GPL-2.0-or-later

package spr

import (
	"quakemodel/model"
	"quakemodel/texture"
)

const Version = 1

// Orientation of a sprite relative to the view.
const (
	VPParallelUpright = iota
	FacingUpright
	VPParallel
	Oriented
	VPParallelOriented
)

const (
	frameSingle = iota
	frameGroup
)

const (
	headerSize      = 36
	frameHeaderSize = 16 // origin[2], width, height
)

// Frame is one image. Up, Down, Left and Right give its extent around the
// entity origin.
type Frame struct {
	Width   int
	Height  int
	Up      float32
	Down    float32
	Left    float32
	Right   float32
	Texture *texture.Texture
}

// FrameDesc is a single frame or a group played by time. Intervals hold
// the end time of each frame of a group, the last one is the group length.
type FrameDesc struct {
	Frames    []*Frame
	Intervals []float32
}

// Group reports whether d animates by itself.
func (d *FrameDesc) Group() bool {
	return d.Intervals != nil
}

type Model struct {
	name     string
	syncType model.SyncType
	bounds   model.Bounds

	Type       int
	MaxWidth   int
	MaxHeight  int
	BeamLength float32
	Frames     []FrameDesc
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Kind() model.Kind {
	return model.KindSprite
}

func (m *Model) Bounds() model.Bounds {
	return m.bounds
}

func (m *Model) Flags() int {
	return 0
}

func (m *Model) FrameCount() int {
	return len(m.Frames)
}

func (m *Model) SyncType() model.SyncType {
	return m.syncType
}
