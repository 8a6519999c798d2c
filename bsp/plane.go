// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math/vec"
)

const (
	PlaneX = iota
	PlaneY
	PlaneZ
	PlaneAnyX
	PlaneAnyY
	PlaneAnyZ
)

// SetSignBits caches the signs of the normal for the box tests.
func (p *Plane) SetSignBits() {
	p.SignBits = 0
	for j := 0; j < 3; j++ {
		if p.Normal[j] < 0 {
			p.SignBits |= 1 << j
		}
	}
}

// Distance returns the signed distance of pt in front of p.
func (p *Plane) Distance(pt vec.Vec3) float32 {
	if p.Type < PlaneAnyX {
		return pt[p.Type] - p.Dist
	}
	return float32(vec.DoublePrecDot(p.Normal, pt)) - p.Dist
}

// corners returns the box corners farthest in front of and behind p.
func (p *Plane) corners(mins, maxs vec.Vec3) (front, back vec.Vec3) {
	for j := 0; j < 3; j++ {
		if p.SignBits&(1<<j) != 0 {
			front[j], back[j] = mins[j], maxs[j]
		} else {
			front[j], back[j] = maxs[j], mins[j]
		}
	}
	return front, back
}

// BoxOnPlaneSide returns 1 if the box is in front of p, 2 if behind and
// 3 if it crosses it.
func (p *Plane) BoxOnPlaneSide(mins, maxs vec.Vec3) int {
	if p.Type < PlaneAnyX {
		if p.Dist <= mins[p.Type] {
			return 1
		}
		if p.Dist >= maxs[p.Type] {
			return 2
		}
		return 3
	}
	front, back := p.corners(mins, maxs)
	sides := 0
	if vec.Dot(p.Normal, front) >= p.Dist {
		sides = 1
	}
	if vec.Dot(p.Normal, back) < p.Dist {
		sides |= 2
	}
	return sides
}
