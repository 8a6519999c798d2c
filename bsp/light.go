// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math"
	"quakemodel/math/vec"
)

type rgb struct {
	R, G, B int
}

// add accumulates a sample scaled by a light style value.
func (c *rgb) add(sample []byte, scale float32) {
	c.R = int(float32(c.R) + float32(sample[0])*scale)
	c.G = int(float32(c.G) + float32(sample[1])*scale)
	c.B = int(float32(c.B) + float32(sample[2])*scale)
}

func bilerp(c00, c01, c10, c11, dsfrac, dtfrac int) float32 {
	top := ((c01-c00)*dsfrac)>>4 + c00
	bottom := ((c11-c10)*dsfrac)>>4 + c10
	return float32(((bottom-top)*dtfrac)>>4 + top)
}

type lightRay struct {
	m       *Model
	styles  *LightStyles
	origin  vec.Vec3
	maxDist float32
	color   vec.Vec3
}

// sampleSurface blends the four samples around ds, dt. It reports false
// if the samples are outside the light data.
func (r *lightRay) sampleSurface(s *Surface, ds, dt int) bool {
	samples := r.m.Samples(s)
	width := s.Extents[0]>>4 + 1
	height := s.Extents[1]>>4 + 1
	line := width * 3
	size := width * height * 3

	maps := 0
	for maps < MaxLightMaps && s.Styles[maps] != 255 {
		maps++
	}
	if len(samples) < maps*size {
		return false
	}
	ofs := ((dt>>4)*width + ds>>4) * 3

	var c00, c01, c10, c11 rgb
	for i := 0; i < maps; i++ {
		lm := samples[i*size+ofs:]
		if len(lm) < line+6 {
			break
		}
		scale := float32(r.styles[s.Styles[i]]) / 256
		c00.add(lm[0:], scale)
		c01.add(lm[3:], scale)
		c10.add(lm[line:], scale)
		c11.add(lm[line+3:], scale)
	}
	dsfrac, dtfrac := ds&15, dt&15
	r.color[0] += bilerp(c00.R, c01.R, c10.R, c11.R, dsfrac, dtfrac)
	r.color[1] += bilerp(c00.G, c01.G, c10.G, c11.G, dsfrac, dtfrac)
	r.color[2] += bilerp(c00.B, c01.B, c10.B, c11.B, dsfrac, dtfrac)
	return true
}

// trace walks the segment start-end front to back and stops at the first
// lit surface.
func (r *lightRay) trace(c Child, start, end vec.Vec3, depth int) bool {
	m := r.m
	var front, back float32
	var n *Node
	for {
		if c.IsLeaf() || depth > len(m.Nodes) {
			return false
		}
		depth++
		n = &m.Nodes[c.Node()]
		pl := &m.Planes[n.Plane]
		if pl.Type < PlaneAnyX {
			front = start[pl.Type] - pl.Dist
			back = end[pl.Type] - pl.Dist
		} else {
			front = vec.Dot(start, pl.Normal) - pl.Dist
			back = vec.Dot(end, pl.Normal) - pl.Dist
		}
		if (back < 0) != (front < 0) {
			break
		}
		c = n.Children[side(front)]
	}

	mid := vec.Lerp(start, end, front/(front-back))
	if r.trace(n.Children[side(front)], start, mid, depth) {
		return true
	}

	for i := n.FirstSurface; i < n.FirstSurface+n.NumSurfaces; i++ {
		s := &m.Surfaces[i]
		if s.Flags&SurfaceDrawTiled != 0 {
			continue // no lightmaps
		}
		ti := &m.TexInfos[s.TexInfo]
		ds := int(vec.DoublePrecDot(mid, ti.Vecs[0].Pos) + float64(ti.Vecs[0].Offset))
		dt := int(vec.DoublePrecDot(mid, ti.Vecs[1].Pos) + float64(ti.Vecs[1].Offset))
		if ds < s.TextureMins[0] || dt < s.TextureMins[1] {
			continue
		}
		ds -= s.TextureMins[0]
		dt -= s.TextureMins[1]
		if ds > s.Extents[0] || dt > s.Extents[1] {
			continue
		}

		pl := &m.Planes[s.Plane]
		var sfront, sback float32
		if pl.Type < PlaneAnyX {
			sfront = r.origin[pl.Type] - pl.Dist
			sback = end[pl.Type] - pl.Dist
		} else {
			sfront = vec.Dot(r.origin, pl.Normal) - pl.Dist
			sback = vec.Dot(end, pl.Normal) - pl.Dist
		}
		dist := sfront / (sfront - sback) * vec.Sub(end, r.origin).Length()

		if s.Samples < 0 {
			// lightmapped without samples, look for a lit surface close by
			r.maxDist = math.Min(r.maxDist, dist+8)
			continue
		}
		// the first lit surface ends the trace, even when it is too far
		// away to add light
		if dist < r.maxDist {
			r.sampleSurface(s, ds, dt)
		}
		return true
	}
	return r.trace(n.Children[1-side(front)], mid, end, depth)
}

// side returns the child on the back of a plane for negative d.
func side(d float32) int {
	if d < 0 {
		return 1
	}
	return 0
}

// LightPoint returns the light color below p scaled by styles. Levels
// without light data are fully bright.
func (m *Model) LightPoint(p vec.Vec3, styles *LightStyles) vec.Vec3 {
	if len(m.LightData) == 0 {
		return vec.Vec3{255, 255, 255}
	}
	if len(m.Nodes) == 0 {
		return vec.Vec3{}
	}
	r := &lightRay{
		m:       m,
		styles:  styles,
		origin:  p,
		maxDist: 8192,
	}
	end := p
	end[2] -= r.maxDist
	r.trace(NodeChild(0), p, end, 0)
	return r.color
}

// LightPointLevel returns the average of the color channels of LightPoint.
func (m *Model) LightPointLevel(p vec.Vec3, styles *LightStyles) int {
	c := m.LightPoint(p, styles)
	return int((c[0] + c[1] + c[2]) * (1.0 / 3.0))
}
