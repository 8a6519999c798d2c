// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math/vec"
	"quakemodel/model"
	"quakemodel/texture"
)

// Leaf contents. Positive values in clip hulls are node numbers.
const (
	ContentsEmpty = -1 - iota
	ContentsSolid
	ContentsWater
	ContentsSlime
	ContentsLava
	ContentsSky
	ContentsOrigin
	ContentsClip
	ContentsCurrent0
	ContentsCurrent90
	ContentsCurrent180
	ContentsCurrent270
	ContentsCurrentUp
	ContentsCurrentDown
)

const (
	SurfacePlaneBack      = 1 << (iota + 1) // 0x0002
	SurfaceDrawSky                          // 0x0004
	SurfaceDrawSprite                       // 0x0008
	SurfaceDrawTurb                         // 0x0010
	SurfaceDrawTiled                        // 0x0020
	SurfaceDrawBackground                   // 0x0040
	SurfaceUnderWater                       // 0x0080
	SurfaceNoTexture                        // 0x0100
	SurfaceDrawFence                        // 0x0200
	SurfaceDrawLava                         // 0x0400
	SurfaceDrawSlime                        // 0x0800
	SurfaceDrawTele                         // 0x1000
	SurfaceDrawWater                        // 0x2000
)

// SurfaceLiquid are the flags of all transparent liquid kinds.
const SurfaceLiquid = SurfaceDrawWater | SurfaceDrawTele | SurfaceDrawSlime | SurfaceDrawLava

// TexInfo flags
const (
	TexSpecial = 1 // sky or slime, no lightmap or 256 subdivision
	TexMissing = 2 // this texinfo does not have a texture
)

const (
	MaxMapHulls  = 4
	MaxLightMaps = 4
	MaxDLights   = 64
)

type Color struct {
	R float32
	G float32
	B float32
	A float32
}

type Plane struct {
	Normal   vec.Vec3
	Dist     float32
	Type     byte // 0-2 axial, 3-5 non axial
	SignBits byte // bit j set if Normal[j] < 0
}

// Child points into Model.Nodes if it is not negative, otherwise at leaf
// -1-Child. Child(-1) is the solid leaf 0.
type Child int32

func NodeChild(n int) Child { return Child(n) }
func LeafChild(l int) Child { return Child(-1 - l) }

func (c Child) IsLeaf() bool { return c < 0 }
func (c Child) Node() int    { return int(c) }
func (c Child) Leaf() int    { return int(-1 - c) }

type Node struct {
	Plane        int
	Children     [2]Child
	Mins         vec.Vec3
	Maxs         vec.Vec3
	FirstSurface int
	NumSurfaces  int
	Parent       int // -1 for the head node
	VisFrame     int
}

type Leaf struct {
	Contents int
	// VisOfs is the offset of the compressed PVS in VisData, -1 if none.
	VisOfs           int
	Mins             vec.Vec3
	Maxs             vec.Vec3
	FirstMarkSurface int
	NumMarkSurfaces  int
	Ambient          [4]byte
	Parent           int
	VisFrame         int
}

type ClipNode struct {
	Plane    int
	Children [2]int // >= 0 node, else contents
}

type TexCoord struct {
	Pos vec.Vec3
	S   float32
	T   float32
}

// Poly is the unlit polygon of a sky, water or missing texture surface.
type Poly struct {
	Verts []TexCoord
}

type Surface struct {
	Plane       int
	Flags       int
	FirstEdge   int
	NumEdges    int
	TexInfo     int
	TextureMins [2]int
	Extents     [2]int
	Styles      [MaxLightMaps]byte
	// Samples is the offset of the first RGB sample in LightData, -1 if none.
	Samples     int
	BModelIndex int
	Poly        *Poly
	VisFrame    int

	DLightFrame int
	DLightBits  [MaxDLights / 32]uint32
	CachedLight [MaxLightMaps]int
	// LightmapData is the RGBA lightmap written by BuildLightMap.
	LightmapData []byte
}

type TexInfoPos struct {
	Pos    vec.Vec3
	Offset float32
}

type TexInfo struct {
	Vecs    [2]TexInfoPos
	Texture int
	Flags   uint32
}

type Texture struct {
	name   string
	Width  int
	Height int
	Shift  int // Q64 only
	// Data holds the indexed pixels of all mip levels, Offset their place
	// in the file.
	Data   []byte
	Offset int

	Texture    *texture.Texture
	Fullbright *texture.Texture
	Warp       *texture.Texture
	SolidSky   *texture.Texture
	AlphaSky   *texture.Texture
	FlatSky    Color

	AnimTotal      int // total tenths in sequence (0 = no)
	AnimMin        int
	AnimMax        int
	AnimNext       *Texture // in the animation sequence
	AlternateAnims *Texture // bmodels in frame 1 use these
}

func (t *Texture) Name() string {
	return t.name
}

type Submodel struct {
	Mins      vec.Vec3
	Maxs      vec.Vec3
	Origin    vec.Vec3
	HeadNode  [MaxMapHulls]int
	VisLeafs  int // not including the solid leaf 0
	FirstFace int
	NumFaces  int
}

// Model is a level or one of its inline submodels. Submodels share every
// slice with the world they were loaded with.
type Model struct {
	name    string
	Version int32
	PathID  int
	bounds  model.Bounds

	ClipMins vec.Vec3
	ClipMaxs vec.Vec3

	Submodels    []Submodel
	Planes       []Plane
	Leafs        []Leaf
	Vertexes     []vec.Vec3
	Edges        [][2]uint32
	Nodes        []Node
	TexInfos     []TexInfo
	Surfaces     []Surface
	SurfaceEdges []int32
	ClipNodes    []ClipNode
	MarkSurfaces []int
	Textures     []*Texture

	FirstModelSurface int
	NumModelSurfaces  int
	// NumLeafs is the number of visible leafs, leaf 0 not included.
	NumLeafs int

	Hulls     [MaxMapHulls]Hull
	VisData   []byte
	LightData []byte
	Entities  string

	LightEntities []LightEntity
	// ContentsTransparent holds the liquid surface flags the vis data was
	// built to see through.
	ContentsTransparent int

	frameCount int
	visWarned  bool
}

func (m *Model) Name() string {
	return m.name
}

func (m *Model) Kind() model.Kind {
	return model.KindBrush
}

func (m *Model) Bounds() model.Bounds {
	return m.bounds
}

func (m *Model) Mins() vec.Vec3 {
	return m.bounds.Mins
}

func (m *Model) Maxs() vec.Vec3 {
	return m.bounds.Maxs
}

func (m *Model) Flags() int {
	return 0
}

func (m *Model) FrameCount() int {
	return m.frameCount
}

func (m *Model) SyncType() model.SyncType {
	return model.SyncSync
}

// Samples returns the light samples of s, nil if it has none.
func (m *Model) Samples(s *Surface) []byte {
	if s.Samples < 0 || s.Samples >= len(m.LightData) {
		return nil
	}
	return m.LightData[s.Samples:]
}

// SurfaceTexture returns the texture drawn on s.
func (m *Model) SurfaceTexture(s *Surface) *Texture {
	return m.Textures[m.TexInfos[s.TexInfo].Texture]
}

// ModelSurfaces returns the surfaces drawn for this (sub)model.
func (m *Model) ModelSurfaces() []Surface {
	return m.Surfaces[m.FirstModelSurface : m.FirstModelSurface+m.NumModelSurfaces]
}

// LeafSurfaces returns the surface indices marked by leaf l.
func (m *Model) LeafSurfaces(l *Leaf) []int {
	return m.MarkSurfaces[l.FirstMarkSurface : l.FirstMarkSurface+l.NumMarkSurfaces]
}
