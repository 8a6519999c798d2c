// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"strings"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/lump"
	"quakemodel/math"
	"quakemodel/math/vec"
)

func (l *loader) loadVertexes() error {
	b, n, err := l.records(lump.Vertexes, vertexSize)
	if err != nil {
		return err
	}
	l.m.Vertexes = make([]vec.Vec3, n)
	for i := range l.m.Vertexes {
		o := i * vertexSize
		l.m.Vertexes[i] = vec.Vec3{lump.Float(b, o), lump.Float(b, o+4), lump.Float(b, o+8)}
	}
	return nil
}

func (l *loader) loadEdges() error {
	size := edgeSizeS
	if l.bsp2 != 0 {
		size = edgeSizeL
	}
	b, n, err := l.records(lump.Edges, size)
	if err != nil {
		return err
	}
	l.m.Edges = make([][2]uint32, n)
	for i := range l.m.Edges {
		o := i * size
		if l.bsp2 != 0 {
			l.m.Edges[i] = [2]uint32{uint32(lump.Long(b, o)), uint32(lump.Long(b, o+4))}
		} else {
			l.m.Edges[i] = [2]uint32{uint32(lump.UShort(b, o)), uint32(lump.UShort(b, o+2))}
		}
	}
	return nil
}

func (l *loader) loadSurfaceEdges() error {
	b, n, err := l.records(lump.SurfEdges, surfEdgeSize)
	if err != nil {
		return err
	}
	l.m.SurfaceEdges = make([]int32, n)
	for i := range l.m.SurfaceEdges {
		l.m.SurfaceEdges[i] = lump.Long(b, i*surfEdgeSize)
	}
	return nil
}

func (l *loader) loadPlanes() error {
	b, n, err := l.records(lump.Planes, planeSize)
	if err != nil {
		return err
	}
	l.m.Planes = make([]Plane, n)
	for i := range l.m.Planes {
		o := i * planeSize
		p := &l.m.Planes[i]
		for j := 0; j < 3; j++ {
			p.Normal[j] = lump.Float(b, o+j*4)
		}
		p.Dist = lump.Float(b, o+12)
		p.Type = byte(lump.Long(b, o+16))
		p.SetSignBits()
	}
	return nil
}

func (l *loader) loadTexInfo() error {
	b, n, err := l.records(lump.TexInfo, texInfoSize)
	if err != nil {
		return err
	}
	m := l.m
	numTextures := len(m.Textures)
	missing := 0
	m.TexInfos = make([]TexInfo, n)
	for i := range m.TexInfos {
		o := i * texInfoSize
		ti := &m.TexInfos[i]
		for j := 0; j < 2; j++ {
			for k := 0; k < 3; k++ {
				ti.Vecs[j].Pos[k] = lump.Float(b, o+j*16+k*4)
			}
			ti.Vecs[j].Offset = lump.Float(b, o+j*16+12)
		}
		miptex := int(lump.Long(b, o+32))
		ti.Flags = uint32(lump.Long(b, o+36))

		if miptex < 0 || miptex >= numTextures-1 || m.Textures[miptex] == nil {
			if ti.Flags&TexSpecial != 0 {
				ti.Texture = numTextures - 1
			} else {
				ti.Texture = numTextures - 2
			}
			ti.Flags |= TexMissing
			missing++
		} else {
			ti.Texture = miptex
		}
	}
	if missing > 0 && numTextures > 1 {
		conlog.Printf("Mod_LoadTexinfo: %d texture(s) missing from BSP file\n", missing)
	}
	return nil
}

func (l *loader) loadFaces() error {
	layout := faceS
	if l.bsp2 != 0 {
		layout = faceL
	}
	b, n, err := l.records(lump.Faces, layout.size)
	if err != nil {
		return err
	}
	m := l.m
	if n > 32767 && l.bsp2 == 0 {
		conlog.DWarning("%d faces exceeds standard limit of 32767.\n", n)
	}
	m.Surfaces = make([]Surface, n)
	for i := range m.Surfaces {
		o := i * layout.size
		s := &m.Surfaces[i]
		var planeNum, side, texInfo int
		s.FirstEdge = int(lump.Long(b, o+layout.firstEdge))
		if layout.long {
			s.NumEdges = int(lump.Long(b, o+layout.numEdges))
			planeNum = int(lump.Long(b, o+layout.plane))
			side = int(lump.Long(b, o+layout.side))
			texInfo = int(lump.Long(b, o+layout.texInfo))
		} else {
			s.NumEdges = int(lump.Short(b, o+layout.numEdges))
			planeNum = int(lump.Short(b, o+layout.plane))
			side = int(lump.Short(b, o+layout.side))
			texInfo = int(lump.Short(b, o+layout.texInfo))
		}
		for j := range s.Styles {
			s.Styles[j] = lump.Byte(b, o+layout.styles+j)
		}
		lightOfs := int(lump.Long(b, o+layout.lightOfs))

		if planeNum < 0 || planeNum >= len(m.Planes) {
			return errors.Errorf("Mod_LoadFaces: bad plane number %d in %s", planeNum, m.name)
		}
		if texInfo < 0 || texInfo >= len(m.TexInfos) {
			return errors.Errorf("Mod_LoadFaces: bad texinfo number %d in %s", texInfo, m.name)
		}
		if err := m.checkSurfaceEdges(s); err != nil {
			return err
		}
		if side != 0 {
			s.Flags |= SurfacePlaneBack
		}
		s.Plane = planeNum
		s.TexInfo = texInfo
		if err := m.calcSurfaceExtents(s); err != nil {
			return err
		}

		if l.q64() {
			lightOfs /= 2 // Q64 samples are 16 bits
		}
		if lightOfs == -1 {
			s.Samples = -1
		} else {
			s.Samples = lightOfs * 3
		}

		ti := &m.TexInfos[s.TexInfo]
		name := m.Textures[ti.Texture].name
		switch {
		case len(name) >= 3 && strings.EqualFold(name[:3], "sky"):
			s.Flags |= SurfaceDrawSky | SurfaceDrawTiled
			m.polyForUnlitSurface(s)
		case strings.HasPrefix(name, "*"):
			s.Flags |= SurfaceDrawTurb | SurfaceDrawTiled
			switch {
			case strings.HasPrefix(name, "*lava"):
				s.Flags |= SurfaceDrawLava
			case strings.HasPrefix(name, "*slime"):
				s.Flags |= SurfaceDrawSlime
			case strings.HasPrefix(name, "*tele"):
				s.Flags |= SurfaceDrawTele
			default:
				s.Flags |= SurfaceDrawWater
			}
			m.polyForUnlitSurface(s)
		case strings.HasPrefix(name, "{"):
			s.Flags |= SurfaceDrawFence
		case ti.Flags&TexMissing != 0:
			if m.Samples(s) != nil {
				s.Flags |= SurfaceNoTexture
			} else {
				s.Flags |= SurfaceNoTexture | SurfaceDrawTiled
				m.polyForUnlitSurface(s)
			}
		}
	}
	return nil
}

// checkSurfaceEdges verifies every edge and vertex a surface references.
func (m *Model) checkSurfaceEdges(s *Surface) error {
	if s.FirstEdge < 0 || s.NumEdges < 0 || s.FirstEdge+s.NumEdges > len(m.SurfaceEdges) {
		return errors.Errorf("Mod_LoadFaces: bad edge range %d+%d in %s", s.FirstEdge, s.NumEdges, m.name)
	}
	for _, e := range m.SurfaceEdges[s.FirstEdge : s.FirstEdge+s.NumEdges] {
		if e < 0 {
			e = -e
		}
		if int(e) >= len(m.Edges) || e < 0 {
			return errors.Errorf("Mod_LoadFaces: bad edge %d in %s", e, m.name)
		}
		for _, v := range m.Edges[e] {
			if int(v) >= len(m.Vertexes) {
				return errors.Errorf("Mod_LoadFaces: bad vertex %d in %s", v, m.name)
			}
		}
	}
	return nil
}

// surfaceVertex returns the start vertex of surface edge i.
func (m *Model) surfaceVertex(i int) vec.Vec3 {
	e := m.SurfaceEdges[i]
	if e >= 0 {
		return m.Vertexes[m.Edges[e][0]]
	}
	return m.Vertexes[m.Edges[-e][1]]
}

// calcSurfaceExtents fills in TextureMins and Extents. The projection is
// done in double precision and rounded to float32 to match the light
// compilers, which ran on x87.
func (m *Model) calcSurfaceExtents(s *Surface) error {
	if s.NumEdges == 0 {
		return nil
	}
	ti := &m.TexInfos[s.TexInfo]
	mins := [2]float32{math32.MaxFloat32, math32.MaxFloat32}
	maxs := [2]float32{-math32.MaxFloat32, -math32.MaxFloat32}
	for i := 0; i < s.NumEdges; i++ {
		v := m.surfaceVertex(s.FirstEdge + i)
		for j := 0; j < 2; j++ {
			val := float32(vec.DoublePrecDot(v, ti.Vecs[j].Pos) + float64(ti.Vecs[j].Offset))
			mins[j] = math.Min(mins[j], val)
			maxs[j] = math.Max(maxs[j], val)
		}
	}
	for i := 0; i < 2; i++ {
		bmin := math.FloorDiv16(mins[i])
		bmax := math.CeilDiv16(maxs[i])
		s.TextureMins[i] = bmin * 16
		s.Extents[i] = (bmax - bmin) * 16
		if ti.Flags&TexSpecial == 0 && s.Extents[i] > 2000 {
			return errors.Errorf("Bad surface extents in %s", m.name)
		}
	}
	return nil
}

// polyForUnlitSurface creates the polygon of a sky, water or unlit
// surface.
func (m *Model) polyForUnlitSurface(s *Surface) {
	texScale := float32(1.0 / 32.0) // to match the notexture image
	if s.Flags&(SurfaceDrawTurb|SurfaceDrawSky) != 0 {
		texScale = 1.0 / 128.0 // warp animation repeats every 128
	}
	ti := &m.TexInfos[s.TexInfo]
	p := &Poly{Verts: make([]TexCoord, s.NumEdges)}
	for i := range p.Verts {
		e := m.SurfaceEdges[s.FirstEdge+i]
		var v vec.Vec3
		if e > 0 {
			v = m.Vertexes[m.Edges[e][0]]
		} else {
			v = m.Vertexes[m.Edges[-e][1]]
		}
		p.Verts[i] = TexCoord{
			Pos: v,
			S:   vec.Dot(v, ti.Vecs[0].Pos) * texScale,
			T:   vec.Dot(v, ti.Vecs[1].Pos) * texScale,
		}
	}
	s.Poly = p
}

func (l *loader) loadMarkSurfaces() error {
	m := l.m
	size := 2
	if l.bsp2 != 0 {
		size = 4
	}
	b, n, err := l.records(lump.MarkSurfaces, size)
	if err != nil {
		return err
	}
	if n > 32767 && l.bsp2 == 0 {
		conlog.DWarning("%d marksurfaces exceeds standard limit of 32767.\n", n)
	}
	m.MarkSurfaces = make([]int, n)
	for i := range m.MarkSurfaces {
		var j int
		if l.bsp2 != 0 {
			j = int(lump.Long(b, i*4))
		} else {
			j = int(lump.UShort(b, i*2))
		}
		if j < 0 || j >= len(m.Surfaces) {
			return errors.Errorf("Mod_LoadMarksurfaces: bad surface number %d in %s", j, m.name)
		}
		m.MarkSurfaces[i] = j
	}
	return nil
}

func (l *loader) loadSubmodels() error {
	b, n, err := l.records(lump.Models, submodelSize)
	if err != nil {
		return err
	}
	m := l.m
	if n == 0 {
		return errors.Errorf("Mod_LoadSubmodels: no models in %s", m.name)
	}
	m.Submodels = make([]Submodel, n)
	for i := range m.Submodels {
		o := i * submodelSize
		s := &m.Submodels[i]
		for j := 0; j < 3; j++ {
			// spread the mins / maxs by a pixel
			s.Mins[j] = lump.Float(b, o+j*4) - 1
			s.Maxs[j] = lump.Float(b, o+12+j*4) + 1
			s.Origin[j] = lump.Float(b, o+24+j*4)
		}
		for j := 0; j < MaxMapHulls; j++ {
			s.HeadNode[j] = int(lump.Long(b, o+36+j*4))
		}
		s.VisLeafs = max(0, int(lump.Long(b, o+52)))
		s.FirstFace = int(lump.Long(b, o+56))
		s.NumFaces = int(lump.Long(b, o+60))
		if s.FirstFace < 0 || s.NumFaces < 0 || s.FirstFace+s.NumFaces > len(m.Surfaces) {
			return errors.Errorf("Mod_LoadSubmodels: bad face range in model %d of %s", i, m.name)
		}
	}
	if m.Submodels[0].VisLeafs > 8192 {
		conlog.DWarning("%d visleafs exceeds standard limit of 8192.\n", m.Submodels[0].VisLeafs)
	}
	return nil
}
