// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"quakemodel/math/vec"
	"quakemodel/model"
	"quakemodel/texture"
)

const (
	Version = 6

	MaxVerts  = 2000
	MaxTris   = 4096
	MaxFrames = 256 // poses, not frames
	MaxSkins  = 32

	// skins taller than this do not fit the software renderer
	maxSkinHeight = 480
	baseSizeRatio = 1.0 / 11.0
)

const (
	frameSingle = iota
	frameGroup
)

const (
	skinSingle = iota
	skinGroup
)

// OnSeam marks texture coordinates on the seam between front and back
// skin halves.
const OnSeam = 0x20

// record sizes in the file
const (
	headerSize      = 84
	stVertSize      = 12
	triangleSize    = 16
	triVertexSize   = 4
	poseHeaderSize  = 24 // bboxmin, bboxmax, name[16]
	groupHeaderSize = 12 // numframes, bboxmin, bboxmax
)

type STVert struct {
	OnSeam int32
	S      int32
	T      int32
}

type Triangle struct {
	FacesFront int32
	Vertices   [3]int32
}

// TriVertex is a packed position, the final one is Scale*Pos+ScaleOrigin.
type TriVertex struct {
	Pos              [3]byte
	LightNormalIndex byte
}

// Frame is a single pose or an animating group of poses.
type Frame struct {
	Name      string
	FirstPose int
	NumPoses  int
	// Interval is the time between two poses of a group.
	Interval float32
	BBoxMin  TriVertex
	BBoxMax  TriVertex
}

// Skin holds four animation steps. Single skins repeat their image, short
// groups repeat from the start.
type Skin struct {
	Textures    [4]*texture.Texture
	FullBrights [4]*texture.Texture
}

// Model is an alias model, the format of monsters, items and view weapons.
type Model struct {
	name     string
	flags    int
	syncType model.SyncType
	bounds   model.Bounds

	Scale          vec.Vec3
	ScaleOrigin    vec.Vec3
	EyePosition    vec.Vec3
	BoundingRadius float32
	Size           float32

	SkinWidth  int
	SkinHeight int
	Skins      []Skin
	// Texels keeps the indexed pixels of the first image of every skin
	// for color remapping of player skins.
	Texels [][]byte

	STVerts   []STVert
	Triangles []Triangle
	Frames    []Frame
	Poses     [][]TriVertex
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Kind() model.Kind {
	return model.KindAlias
}

func (m *Model) Bounds() model.Bounds {
	return m.bounds
}

func (m *Model) Flags() int {
	return m.flags
}

func (m *Model) FrameCount() int {
	return len(m.Frames)
}

func (m *Model) SyncType() model.SyncType {
	return m.syncType
}

// CacheSize estimates the memory held by m.
func (m *Model) CacheSize() int {
	n := headerSize + len(m.STVerts)*stVertSize + len(m.Triangles)*triangleSize
	n += len(m.Frames) * (poseHeaderSize + 16)
	for _, p := range m.Poses {
		n += len(p) * triVertexSize
	}
	for _, t := range m.Texels {
		n += len(t)
	}
	return n
}

// NumVerts is the vertex count of every pose.
func (m *Model) NumVerts() int {
	return len(m.STVerts)
}

// PoseVertex returns the unpacked position of vertex v of pose p.
func (m *Model) PoseVertex(p, v int) vec.Vec3 {
	tv := m.Poses[p][v]
	var r vec.Vec3
	for k := 0; k < 3; k++ {
		r[k] = float32(tv.Pos[k])*m.Scale[k] + m.ScaleOrigin[k]
	}
	return r
}
