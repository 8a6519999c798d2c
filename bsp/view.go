// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"quakemodel/math/vec"
)

// ViewPVS returns the visibility row for a camera at org inside
// viewLeaf. Next to a liquid surface the rows of the neighboring leafs
// are merged so the view can cross the surface.
func (v *VisContext) ViewPVS(m *Model, viewLeaf int, org vec.Vec3, noVis bool) []byte {
	if viewLeaf < 0 || viewLeaf >= len(m.Leafs) {
		return v.NoVisPVS(m)
	}
	leaf := &m.Leafs[viewLeaf]
	if noVis || leaf.Contents == ContentsSolid || leaf.Contents == ContentsSky {
		return v.NoVisPVS(m)
	}
	for _, s := range m.LeafSurfaces(leaf) {
		if m.Surfaces[s].Flags&SurfaceDrawTurb != 0 {
			return v.FatPVS(m, org)
		}
	}
	return v.LeafPVS(m, viewLeaf)
}

// MarkLeaves stamps the leafs set in vis, their parent nodes and their
// surfaces with frame. Leafs outside frustum are skipped if it is not
// nil. Sky leafs only mark their surfaces with oldSkyLeaf. It returns
// the number of marked leafs.
func (m *Model) MarkLeaves(vis []byte, frame int, oldSkyLeaf bool, frustum *[4]Plane) int {
	marked := 0
	for i := 0; i < m.NumLeafs && i+1 < len(m.Leafs); i++ {
		if i>>3 >= len(vis) || vis[i>>3]&(1<<(i&7)) == 0 {
			continue
		}
		leaf := &m.Leafs[i+1]
		if frustum != nil && CullBox(frustum, leaf.Mins, leaf.Maxs) {
			continue
		}
		marked++
		leaf.VisFrame = frame
		if oldSkyLeaf || leaf.Contents != ContentsSky {
			for _, s := range m.LeafSurfaces(leaf) {
				m.Surfaces[s].VisFrame = frame
			}
		}
		for p := leaf.Parent; p >= 0; p = m.Nodes[p].Parent {
			if m.Nodes[p].VisFrame == frame {
				break
			}
			m.Nodes[p].VisFrame = frame
		}
	}
	return marked
}
