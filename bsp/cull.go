// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math/vec"
	"quakemodel/model"
)

// CullBox reports whether the box is completely outside the frustum.
func CullBox(frustum *[4]Plane, mins, maxs vec.Vec3) bool {
	for i := range frustum {
		p := &frustum[i]
		// the corner farthest along the normal
		front, _ := p.corners(mins, maxs)
		if vec.Dot(p.Normal, front) < p.Dist {
			return true
		}
	}
	return false
}

// CullModelForEntity culls the bounds of a model placed at origin with
// the given angles. Pitch or roll need the fully rotated bounds, yaw the
// yaw bounds.
func CullModelForEntity(frustum *[4]Plane, b model.Bounds, origin, angles vec.Vec3) bool {
	var mins, maxs vec.Vec3
	switch {
	case angles[0] != 0 || angles[2] != 0:
		mins = vec.Add(origin, b.RMins)
		maxs = vec.Add(origin, b.RMaxs)
	case angles[1] != 0:
		mins = vec.Add(origin, b.YMins)
		maxs = vec.Add(origin, b.YMaxs)
	default:
		mins = vec.Add(origin, b.Mins)
		maxs = vec.Add(origin, b.Maxs)
	}
	return CullBox(frustum, mins, maxs)
}
