// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"
	"strings"

	"quakemodel/conlog"
	"quakemodel/filesystem"
	"quakemodel/lump"
	"quakemodel/math/vec"
)

// VisContext holds the rows returned by the visibility queries. A row is
// only valid until the next call of the same kind.
type VisContext struct {
	decompressed []byte
	noVis        []byte
	fat          []byte
}

func rowBytes(m *Model) int {
	return (m.NumLeafs + 7) >> 3
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

// DecompressVis expands a run length encoded PVS row. Zero bytes are
// followed by the number of zero bytes they stand for. A nil row sees
// everything.
func (v *VisContext) DecompressVis(in []byte, m *Model) []byte {
	row := rowBytes(m)
	v.decompressed = grow(v.decompressed, row)
	out := v.decompressed
	if in == nil {
		for i := range out {
			out[i] = 0xff
		}
		return out
	}

	o, i := 0, 0
	for o < row {
		if i >= len(in) {
			break
		}
		if in[i] != 0 {
			out[o] = in[i]
			o++
			i++
			continue
		}
		if i+1 >= len(in) {
			break
		}
		c := int(in[i+1])
		i += 2
		if c > row-o {
			if !m.visWarned {
				m.visWarned = true
				conlog.Warning("Mod_DecompressVis: output overrun on model \"%s\"\n", m.name)
			}
			c = row - o
		}
		for ; c > 0; c-- {
			out[o] = 0
			o++
		}
	}
	// truncated rows see nothing past their end
	for ; o < row; o++ {
		out[o] = 0
	}
	return out
}

// LeafPVS returns the visible leafs of leaf. Bit i stands for leaf i+1.
func (v *VisContext) LeafPVS(m *Model, leaf int) []byte {
	if leaf <= 0 || leaf >= len(m.Leafs) {
		return v.NoVisPVS(m)
	}
	ofs := m.Leafs[leaf].VisOfs
	switch {
	case ofs < 0:
		return v.DecompressVis(nil, m)
	case ofs >= len(m.VisData):
		return v.DecompressVis([]byte{}, m)
	}
	return v.DecompressVis(m.VisData[ofs:], m)
}

// NoVisPVS returns a row with every leaf visible.
func (v *VisContext) NoVisPVS(m *Model) []byte {
	row := rowBytes(m)
	if len(v.noVis) < row {
		v.noVis = make([]byte, row)
		for i := range v.noVis {
			v.noVis[i] = 0xff
		}
	}
	return v.noVis[:row]
}

// FatPVS merges the PVS of all leafs within 8 units of org so the view
// can move a little inside liquids.
func (v *VisContext) FatPVS(m *Model, org vec.Vec3) []byte {
	row := rowBytes(m)
	v.fat = grow(v.fat, row)
	for i := range v.fat {
		v.fat[i] = 0
	}
	if len(m.Nodes) > 0 {
		v.addToFatPVS(m, org, NodeChild(0), 0)
	}
	return v.fat
}

func (v *VisContext) addToFatPVS(m *Model, org vec.Vec3, c Child, depth int) {
	for {
		if c.IsLeaf() {
			leaf := c.Leaf()
			if m.Leafs[leaf].Contents != ContentsSolid {
				pvs := v.LeafPVS(m, leaf)
				for i := range v.fat {
					v.fat[i] |= pvs[i]
				}
			}
			return
		}
		if depth > len(m.Nodes) {
			return
		}
		depth++
		n := &m.Nodes[c.Node()]
		pl := &m.Planes[n.Plane]
		d := vec.Dot(org, pl.Normal) - pl.Dist
		switch {
		case d > 8:
			c = n.Children[0]
		case d < -8:
			c = n.Children[1]
		default:
			v.addToFatPVS(m, org, n.Children[0], depth)
			c = n.Children[1]
		}
	}
}

func (l *loader) loadVisibility() error {
	m := l.m
	m.visWarned = false
	b, err := l.lump(lump.Visibility)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		m.VisData = nil
		return nil
	}
	m.VisData = b
	return nil
}

const visPatchHeaderSize = 36 // char mapname[32]; int filelen

// findExternalVis returns the entry of this map in a .vis file, starting
// with the vis length.
func (l *loader) findExternalVis() []byte {
	name := fmt.Sprintf("maps/%s.vis", l.loadName)
	b, pathID, err := l.ctx.Files.ReadFileWithID(name)
	if err != nil {
		conlog.DPrintf("%s not found, trying ", name)
		name = fmt.Sprintf("%s.vis", filesystem.SkipPath(l.ctx.Options.GameDir))
		conlog.DPrintf("%s\n", name)
		b, pathID, err = l.ctx.Files.ReadFileWithID(name)
		if err != nil {
			conlog.DPrintf("external vis not found\n")
			return nil
		}
	}
	if pathID < l.m.PathID {
		conlog.DPrintf("ignored %s from a gamedir with lower priority\n", name)
		return nil
	}
	conlog.DPrintf("Found external VIS %s\n", name)

	short := filesystem.SkipPath(l.m.name)
	for pos := 0; pos+visPatchHeaderSize <= len(b); {
		length := int(lump.Long(b, pos+32))
		if length <= 0 {
			return nil // bad entry, don't trust the rest
		}
		if strings.EqualFold(cString(b[pos:pos+32]), short) {
			return b[pos+visPatchHeaderSize:]
		}
		pos += visPatchHeaderSize + length
	}
	conlog.DPrintf("%s not found in %s\n", short, name)
	return nil
}

// blob splits a length prefixed block off b.
func blob(b []byte) (data, rest []byte, ok bool) {
	if len(b) < 4 {
		return nil, nil, false
	}
	n := int(lump.Long(b, 0))
	if n <= 0 || 4+n > len(b) {
		return nil, nil, false
	}
	return b[4 : 4+n], b[4+n:], true
}

// loadExternalVis replaces vis and leafs with the data of a vispatch
// file. It reports false if the lumps of the map have to be used.
func (l *loader) loadExternalVis() (bool, error) {
	if l.ctx.Files == nil {
		return false, nil
	}
	conlog.DPrintf("trying to open external vis file\n")
	entry := l.findExternalVis()
	if entry == nil {
		return false, nil
	}
	m := l.m
	conlog.DPrintf("found valid external .vis file for map\n")
	m.visWarned = false
	if vis, rest, ok := blob(entry); ok {
		conlog.DPrintf("...%d bytes visibility data\n", len(vis))
		m.VisData = vis
		if leafs, _, ok := blob(rest); ok && len(leafs)%leafSizeS == 0 {
			conlog.DPrintf("...%d bytes leaf data\n", len(leafs))
			if err := l.decodeLeafs(leafs, len(leafs)/leafSizeS, leafS); err != nil {
				return false, err
			}
		}
	}
	if m.VisData != nil && len(m.Leafs) > 0 {
		return true, nil
	}
	m.VisData = nil
	m.Leafs = nil
	m.NumLeafs = 0
	conlog.DPrintf("External VIS data failed, using standard vis.\n")
	return false, nil
}

// checkWaterVis finds the liquid kinds the vis data was built to see
// through. Kinds that do not occur in the map count as transparent.
func (l *loader) checkWaterVis() {
	m := l.m
	if l.ctx.Options.NoVis {
		m.ContentsTransparent = SurfaceLiquid
		return
	}
	numClusters := 0
	if len(m.Submodels) > 0 {
		numClusters = min(m.Submodels[0].VisLeafs, len(m.Leafs)-1)
	}

	var vis VisContext
	found, transparent := 0, 0
	var hasContents uint32
	for i := 1; i <= numClusters; i++ {
		leaf := &m.Leafs[i]
		if leaf.Contents < 0 && leaf.Contents > -32 {
			hasContents |= 1 << -leaf.Contents
		}
		var kind int
		switch leaf.Contents {
		case ContentsWater:
			if transparent&(SurfaceDrawWater|SurfaceDrawTele) == SurfaceDrawWater|SurfaceDrawTele {
				continue
			}
			for _, s := range m.LeafSurfaces(leaf) {
				if f := m.Surfaces[s].Flags & (SurfaceDrawWater | SurfaceDrawTele); f != 0 {
					kind = f
					break
				}
			}
			if kind == 0 {
				continue // a leaf without any liquid surface
			}
		case ContentsSlime:
			kind = SurfaceDrawSlime
		case ContentsLava:
			kind = SurfaceDrawLava
		default:
			continue
		}
		if transparent&kind != 0 {
			continue
		}
		found |= kind
		row := vis.LeafPVS(m, i)
	scan:
		for j := 0; j < (numClusters+7)/8 && j < len(row); j++ {
			if row[j] == 0 {
				continue
			}
			for k := 0; k < 8; k++ {
				other := j<<3 + k + 1
				if row[j]&(1<<k) == 0 || other >= len(m.Leafs) {
					continue
				}
				if m.Leafs[other].Contents != leaf.Contents {
					transparent |= kind
					break scan
				}
			}
		}
	}

	if transparent == 0 {
		if hasContents&(1<<-ContentsWater|1<<-ContentsSlime|1<<-ContentsLava) != 0 {
			conlog.DPrintf("%s is not watervised\n", m.name)
		}
	} else {
		var kinds []string
		for _, k := range []struct {
			flag int
			name string
		}{
			{SurfaceDrawWater, "water"},
			{SurfaceDrawTele, "tele"},
			{SurfaceDrawLava, "lava"},
			{SurfaceDrawSlime, "slime"},
		} {
			if transparent&k.flag != 0 {
				kinds = append(kinds, k.name)
			}
		}
		conlog.DPrintf2("%s is vised for transparent %s\n", m.name, strings.Join(kinds, " "))
	}
	m.ContentsTransparent = transparent | (^found & SurfaceLiquid)
}
