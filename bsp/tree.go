// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/lump"
	"quakemodel/math/vec"
)

func readBox(b []byte, float bool) (mins, maxs vec.Vec3) {
	for j := 0; j < 3; j++ {
		if float {
			mins[j] = lump.Float(b, j*4)
			maxs[j] = lump.Float(b, 12+j*4)
		} else {
			mins[j] = float32(lump.Short(b, j*2))
			maxs[j] = float32(lump.Short(b, 6+j*2))
		}
	}
	return mins, maxs
}

func (l *loader) loadLeafs() error {
	layout := leafS
	switch l.bsp2 {
	case 1:
		layout = leafL1
	case 2:
		layout = leafL2
	}
	b, n, err := l.records(lump.Leafs, layout.size)
	if err != nil {
		return err
	}
	return l.decodeLeafs(b, n, layout)
}

func (l *loader) decodeLeafs(b []byte, n int, ly leafLayout) error {
	m := l.m
	if !ly.longMark && n > 32767 {
		return errors.Errorf("Mod_LoadLeafs: %d leafs exceeds limit of 32767.", n)
	}
	m.Leafs = make([]Leaf, n)
	m.NumLeafs = n
	for i := range m.Leafs {
		r := b[i*ly.size:]
		lf := &m.Leafs[i]
		lf.Contents = int(lump.Long(r, 0))
		lf.Mins, lf.Maxs = readBox(r[ly.box:], ly.floatBox)
		if ly.longMark {
			lf.FirstMarkSurface = int(uint32(lump.Long(r, ly.firstMark)))
			lf.NumMarkSurfaces = int(uint32(lump.Long(r, ly.numMark)))
		} else {
			lf.FirstMarkSurface = int(lump.UShort(r, ly.firstMark))
			lf.NumMarkSurfaces = int(lump.UShort(r, ly.numMark))
		}
		if lf.FirstMarkSurface+lf.NumMarkSurfaces > len(m.MarkSurfaces) {
			conlog.DPrintf("Mod_LoadLeafs: leaf %d has bad mark surfaces in %s\n", i, m.name)
			lf.FirstMarkSurface, lf.NumMarkSurfaces = 0, 0
		}
		lf.VisOfs = int(lump.Long(r, 4))
		if lf.VisOfs < 0 || m.VisData == nil {
			lf.VisOfs = -1
		}
		copy(lf.Ambient[:], r[ly.ambient:ly.ambient+4])
		lf.Parent = -1
	}
	return nil
}

// nodeChild decodes a child reference. Every format marks leafs
// differently; unknown leafs become the solid leaf 0.
func (l *loader) nodeChild(p, numNodes int) Child {
	switch l.bsp2 {
	case 0:
		if p < numNodes {
			return NodeChild(p)
		}
		p = 65535 - p
	case 1:
		if p >= 0 && p < numNodes {
			return NodeChild(p)
		}
		p = -1 - p
	default:
		if p > 0 && p < numNodes {
			return NodeChild(p)
		}
		p = -1 - p
	}
	if p < 0 || p >= len(l.m.Leafs) {
		conlog.Printf("Mod_LoadNodes: invalid leaf index %d (file has only %d leafs)\n", p, len(l.m.Leafs))
		p = 0
	}
	return LeafChild(p)
}

func (l *loader) loadNodes() error {
	m := l.m
	size := nodeSizeS
	switch l.bsp2 {
	case 1:
		size = nodeSizeL1
	case 2:
		size = nodeSizeL2
	}
	b, n, err := l.records(lump.Nodes, size)
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Errorf("Mod_LoadNodes: no nodes in %s", m.name)
	}
	if l.bsp2 == 0 && n > 32767 {
		conlog.DWarning("Mod_LoadNodes: %d nodes exceeds standard limit of 32767.\n", n)
	}

	m.Nodes = make([]Node, n)
	for i := range m.Nodes {
		r := b[i*size:]
		nd := &m.Nodes[i]
		nd.Plane = int(lump.Long(r, 0))
		if nd.Plane < 0 || nd.Plane >= len(m.Planes) {
			return errors.Errorf("Mod_LoadNodes: planenum out of bounds in %s", m.name)
		}
		var children [2]int
		switch l.bsp2 {
		case 0:
			children[0] = int(lump.UShort(r, 4))
			children[1] = int(lump.UShort(r, 6))
			nd.Mins, nd.Maxs = readBox(r[8:], false)
			nd.FirstSurface = int(lump.UShort(r, 20))
			nd.NumSurfaces = int(lump.UShort(r, 22))
		case 1:
			children[0] = int(lump.Long(r, 4))
			children[1] = int(lump.Long(r, 8))
			nd.Mins, nd.Maxs = readBox(r[12:], false)
			nd.FirstSurface = int(uint32(lump.Long(r, 24)))
			nd.NumSurfaces = int(uint32(lump.Long(r, 28)))
		default:
			children[0] = int(lump.Long(r, 4))
			children[1] = int(lump.Long(r, 8))
			nd.Mins, nd.Maxs = readBox(r[12:], true)
			nd.FirstSurface = int(uint32(lump.Long(r, 36)))
			nd.NumSurfaces = int(uint32(lump.Long(r, 40)))
		}
		if nd.FirstSurface+nd.NumSurfaces > len(m.Surfaces) {
			return errors.Errorf("Mod_LoadNodes: bad surface range in %s", m.name)
		}
		for j, p := range children {
			nd.Children[j] = l.nodeChild(p, n)
		}
		nd.Parent = -1
	}
	l.setParents()
	return nil
}

// setParents links the tree upwards starting at the head node. Nodes
// reachable twice keep their first parent.
func (l *loader) setParents() {
	m := l.m
	visited := make([]bool, len(m.Nodes))
	var set func(c Child, parent int)
	set = func(c Child, parent int) {
		if c.IsLeaf() {
			m.Leafs[c.Leaf()].Parent = parent
			return
		}
		n := c.Node()
		if visited[n] {
			return
		}
		visited[n] = true
		m.Nodes[n].Parent = parent
		set(m.Nodes[n].Children[0], n)
		set(m.Nodes[n].Children[1], n)
	}
	set(NodeChild(0), -1)
}

func (l *loader) loadClipNodes() error {
	m := l.m
	size := clipNodeSizeS
	if l.bsp2 != 0 {
		size = clipNodeSizeL
	}
	b, n, err := l.records(lump.ClipNodes, size)
	if err != nil {
		return err
	}
	if l.bsp2 == 0 && n > 32767 {
		conlog.DWarning("Mod_LoadClipnodes: %d clipnodes exceeds standard limit of 32767.\n", n)
	}

	m.ClipNodes = make([]ClipNode, n)
	for i := range m.ClipNodes {
		r := b[i*size:]
		cn := &m.ClipNodes[i]
		cn.Plane = int(lump.Long(r, 0))
		if cn.Plane < 0 || cn.Plane >= len(m.Planes) {
			return errors.New("Mod_LoadClipnodes: planenum out of bounds")
		}
		for j := 0; j < 2; j++ {
			if l.bsp2 != 0 {
				cn.Children[j] = int(lump.Long(r, 4+j*4))
				continue
			}
			// 16 bit children above the node count are contents
			c := int(lump.UShort(r, 4+j*2))
			if c >= n {
				c -= 65536
			}
			cn.Children[j] = c
		}
	}

	m.Hulls[1] = Hull{
		ClipNodes:    m.ClipNodes,
		Planes:       m.Planes,
		LastClipNode: n - 1,
		ClipMins:     vec.Vec3{-16, -16, -24},
		ClipMaxs:     vec.Vec3{16, 16, 32},
	}
	m.Hulls[2] = Hull{
		ClipNodes:    m.ClipNodes,
		Planes:       m.Planes,
		LastClipNode: n - 1,
		ClipMins:     vec.Vec3{-32, -32, -24},
		ClipMaxs:     vec.Vec3{32, 32, 64},
	}
	return nil
}

// PointInLeaf returns the index of the leaf containing p.
func (m *Model) PointInLeaf(p vec.Vec3) (int, error) {
	if len(m.Nodes) == 0 {
		return 0, errors.Errorf("Mod_PointInLeaf: bad model %s", m.name)
	}
	c := NodeChild(0)
	for steps := 0; !c.IsLeaf(); steps++ {
		if steps > len(m.Nodes) {
			return 0, errors.Errorf("Mod_PointInLeaf: loop in %s", m.name)
		}
		n := &m.Nodes[c.Node()]
		pl := &m.Planes[n.Plane]
		if vec.Dot(p, pl.Normal)-pl.Dist > 0 {
			c = n.Children[0]
		} else {
			c = n.Children[1]
		}
	}
	return c.Leaf(), nil
}
