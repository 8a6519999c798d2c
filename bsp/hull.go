// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/math"
	"quakemodel/math/vec"
)

// Hull is a clipping tree for one box size. Negative child values are
// contents.
type Hull struct {
	ClipNodes     []ClipNode
	Planes        []Plane
	FirstClipNode int
	LastClipNode  int
	ClipMins      vec.Vec3
	ClipMaxs      vec.Vec3
}

type TracePlane struct {
	Normal   vec.Vec3
	Distance float32
}

type Trace struct {
	AllSolid   bool
	StartSolid bool
	InOpen     bool
	InWater    bool
	Fraction   float32
	EndPos     vec.Vec3
	Plane      TracePlane
}

func (h *Hull) node(num int) (*ClipNode, *Plane, error) {
	if num < h.FirstClipNode || num > h.LastClipNode || num >= len(h.ClipNodes) {
		return nil, nil, errors.Errorf("SV_HullPointContents: bad node number %d", num)
	}
	n := &h.ClipNodes[num]
	if n.Plane < 0 || n.Plane >= len(h.Planes) {
		return nil, nil, errors.Errorf("SV_HullPointContents: bad plane number %d", n.Plane)
	}
	return n, &h.Planes[n.Plane], nil
}

// PointContents returns the contents of p starting the descent at num.
func (h *Hull) PointContents(num int, p vec.Vec3) (int, error) {
	for steps := 0; num >= 0; steps++ {
		if steps > len(h.ClipNodes) {
			return 0, errors.New("SV_HullPointContents: loop in hull")
		}
		node, plane, err := h.node(num)
		if err != nil {
			return 0, err
		}
		if plane.Distance(p) < 0 {
			num = node.Children[1]
		} else {
			num = node.Children[0]
		}
	}
	return num, nil
}

// RecursiveCheck clips the segment p1-p2 against the hull. It returns
// false once an impact was found.
func (h *Hull) RecursiveCheck(num int, p1f, p2f float32, p1, p2 vec.Vec3, trace *Trace) (bool, error) {
	const epsilon = 0.03125 // keep the end point off the plane
	if num < 0 {
		if num != ContentsSolid {
			trace.AllSolid = false
			if num == ContentsEmpty {
				trace.InOpen = true
			} else {
				trace.InWater = true
			}
		} else {
			trace.StartSolid = true
		}
		return true, nil
	}
	node, plane, err := h.node(num)
	if err != nil {
		return false, errors.Wrap(err, "RecursiveHullCheck")
	}
	t1 := plane.Distance(p1)
	t2 := plane.Distance(p2)
	if t1 >= 0 && t2 >= 0 {
		return h.RecursiveCheck(node.Children[0], p1f, p2f, p1, p2, trace)
	}
	if t1 < 0 && t2 < 0 {
		return h.RecursiveCheck(node.Children[1], p1f, p2f, p1, p2, trace)
	}

	var frac float32
	side := 0
	if t1 < 0 {
		frac = (t1 + epsilon) / (t1 - t2)
		side = 1
	} else {
		frac = (t1 - epsilon) / (t1 - t2)
	}
	frac = math.Clamp(0, frac, 1)
	midf := math.Lerp(p1f, p2f, frac)
	mid := vec.Lerp(p1, p2, frac)

	if ok, err := h.RecursiveCheck(node.Children[side], p1f, midf, p1, mid, trace); !ok || err != nil {
		return false, err
	}
	c, err := h.PointContents(node.Children[side^1], mid)
	if err != nil {
		return false, err
	}
	if c != ContentsSolid {
		return h.RecursiveCheck(node.Children[side^1], midf, p2f, mid, p2, trace)
	}
	if trace.AllSolid {
		return false, nil // never got out of the solid area
	}
	if side == 0 {
		trace.Plane.Normal = plane.Normal
		trace.Plane.Distance = plane.Dist
	} else {
		trace.Plane.Normal = vec.Scale(-1, plane.Normal)
		trace.Plane.Distance = -plane.Dist
	}
	for {
		c, err := h.PointContents(h.FirstClipNode, mid)
		if err != nil {
			return false, err
		}
		if c != ContentsSolid {
			break
		}
		frac -= 0.1
		if frac < 0 {
			trace.Fraction = midf
			trace.EndPos = mid
			conlog.DPrintf("backup past 0\n")
			return false, nil
		}
		midf = math.Lerp(p1f, p2f, frac)
		mid = vec.Lerp(p1, p2, frac)
	}
	trace.Fraction = midf
	trace.EndPos = mid
	return false, nil
}

// Move traces a box from start to end through the hull.
func (h *Hull) Move(start, end vec.Vec3) (Trace, error) {
	t := Trace{
		AllSolid: true,
		Fraction: 1,
		EndPos:   end,
	}
	_, err := h.RecursiveCheck(h.FirstClipNode, 0, 1, start, end, &t)
	return t, err
}

// makeHull0 builds the point hull from the drawing nodes.
func (l *loader) makeHull0() {
	m := l.m
	h := &m.Hulls[0]
	h.ClipNodes = make([]ClipNode, len(m.Nodes))
	h.Planes = m.Planes
	h.FirstClipNode = 0
	h.LastClipNode = len(m.Nodes) - 1
	for i, n := range m.Nodes {
		cn := &h.ClipNodes[i]
		cn.Plane = n.Plane
		for j, c := range n.Children {
			if c.IsLeaf() {
				cn.Children[j] = m.Leafs[c.Leaf()].Contents
			} else {
				cn.Children[j] = c.Node()
			}
		}
	}
}

// BoundsFromClipNode grows the clip bounds of m with the axial planes of
// hull below num. Every brush of a hull is bounded by its six axial
// planes, so these are enough to find the hull box.
func (m *Model) BoundsFromClipNode(hull, num int) {
	m.boundsFromClipNode(&m.Hulls[hull], num, 0)
}

func (m *Model) boundsFromClipNode(h *Hull, num, depth int) {
	if num < 0 || num >= len(h.ClipNodes) || depth > len(h.ClipNodes) {
		return // hit a leaf
	}
	node := &h.ClipNodes[num]
	pl := &h.Planes[node.Plane]
	if pl.Type < PlaneAnyX {
		j := pl.Type
		if pl.SignBits == 1<<j {
			m.ClipMins[j] = min(m.ClipMins[j], -pl.Dist-h.ClipMins[j])
		} else {
			m.ClipMaxs[j] = max(m.ClipMaxs[j], pl.Dist-h.ClipMaxs[j])
		}
	}
	m.boundsFromClipNode(h, node.Children[0], depth+1)
	m.boundsFromClipNode(h, node.Children[1], depth+1)
}
