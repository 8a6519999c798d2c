// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math/vec"
)

// DLight is a short lived light like a muzzle flash or a rocket.
type DLight struct {
	Key      int // so entities can reuse the same light
	Origin   vec.Vec3
	Radius   float32
	Die      float64 // stop lighting after this time
	Decay    float32 // drop this each second
	MinLight float32 // don't add when contributing less
	Color    vec.Vec3
}

// DLightTable is the fixed set of dynamic light slots. The slot number
// is the bit used in Surface.DLightBits.
type DLightTable struct {
	Lights [MaxDLights]DLight
}

func (t *DLightTable) reset(i, key int) *DLight {
	t.Lights[i] = DLight{
		Key:   key,
		Color: vec.Vec3{1, 1, 1},
	}
	return &t.Lights[i]
}

// Alloc returns the slot of key, else the first dead slot, else slot 0.
// The slot is cleared.
func (t *DLightTable) Alloc(key int, time float64) *DLight {
	if key != 0 {
		for i := range t.Lights {
			if t.Lights[i].Key == key {
				return t.reset(i, key)
			}
		}
	}
	for i := range t.Lights {
		if t.Lights[i].Die < time {
			return t.reset(i, key)
		}
	}
	return t.reset(0, key)
}

// Decay shrinks all live lights by dt seconds of their decay rate.
func (t *DLightTable) Decay(dt float32, time float64) {
	if dt < 0 {
		return
	}
	for i := range t.Lights {
		l := &t.Lights[i]
		if l.Die < time || l.Radius == 0 {
			continue
		}
		l.Radius -= dt * l.Decay
		if l.Radius < 0 {
			l.Radius = 0
		}
	}
}

// Push marks the world surfaces touched by each live light. frame is the
// dynamic light frame the surfaces get stamped with.
func (t *DLightTable) Push(world *Model, frame int, time float64) {
	if len(world.Nodes) == 0 {
		return
	}
	for i := range t.Lights {
		l := &t.Lights[i]
		if l.Die < time || l.Radius == 0 {
			continue
		}
		world.MarkLights(l, i, NodeChild(0), frame)
	}
}

// MarkLights sets bit num on every surface below c the light reaches.
// Surfaces stamped with an older frame lose the bits of that frame.
func (m *Model) MarkLights(light *DLight, num int, c Child, frame int) {
	m.markLights(light, num, c, frame, 0)
}

func (m *Model) markLights(light *DLight, num int, c Child, frame, depth int) {
	var n *Node
	var dist float32
	for {
		if c.IsLeaf() || depth > len(m.Nodes) {
			return
		}
		depth++
		n = &m.Nodes[c.Node()]
		pl := &m.Planes[n.Plane]
		if pl.Type < PlaneAnyX {
			dist = light.Origin[pl.Type] - pl.Dist
		} else {
			dist = vec.Dot(light.Origin, pl.Normal) - pl.Dist
		}
		switch {
		case dist > light.Radius:
			c = n.Children[0]
			continue
		case dist < -light.Radius:
			c = n.Children[1]
			continue
		}
		break
	}

	maxDist := light.Radius * light.Radius
	for i := n.FirstSurface; i < n.FirstSurface+n.NumSurfaces; i++ {
		s := &m.Surfaces[i]
		pl := &m.Planes[s.Plane]
		ti := &m.TexInfos[s.TexInfo]
		impact := vec.FMA(light.Origin, -dist, pl.Normal)

		// clamp the center of the light to the lightmap and check brightness
		var st [2]int
		for j := 0; j < 2; j++ {
			l := vec.Dot(impact, ti.Vecs[j].Pos) + ti.Vecs[j].Offset - float32(s.TextureMins[j])
			v := int(l + 0.5)
			if v < 0 {
				v = 0
			} else if v > s.Extents[j] {
				v = s.Extents[j]
			}
			st[j] = int(l - float32(v))
		}
		if float32(st[0]*st[0]+st[1]*st[1])+dist*dist >= maxDist {
			continue
		}
		if s.DLightFrame != frame {
			s.DLightBits = [MaxDLights / 32]uint32{}
			s.DLightFrame = frame
		}
		s.DLightBits[num>>5] |= 1 << (num & 31)
	}

	m.markLights(light, num, n.Children[0], frame, depth)
	m.markLights(light, num, n.Children[1], frame, depth)
}
