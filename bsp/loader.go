// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"fmt"

	"github.com/pkg/errors"

	"quakemodel/filesystem"
	"quakemodel/lump"
	"quakemodel/math/vec"
	"quakemodel/model"
	"quakemodel/texture"
)

func init() {
	model.Register(model.KindBrush, Load)
}

// Load decodes a level and returns the world followed by the inline
// submodels *1 to *N.
func Load(ctx *model.LoadContext) ([]model.Model, error) {
	ms, err := LoadBrushModel(ctx)
	if err != nil {
		return nil, err
	}
	r := make([]model.Model, len(ms))
	for i, m := range ms {
		r[i] = m
	}
	return r, nil
}

type loader struct {
	ctx      *model.LoadContext
	m        *Model
	hdr      *lump.Header
	bsp2     int // 0 for 29 and Q64, 1 for 2PSB, 2 for BSP2
	loadName string
}

func (l *loader) q64() bool {
	return l.m.Version == VersionQuake64
}

// records returns lump idx and its number of records of the given size.
func (l *loader) records(idx, size int) ([]byte, int, error) {
	b, err := l.hdr.Data(l.ctx.Data, idx)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "Mod_LoadBrushModel: %s", l.m.name)
	}
	n, err := lump.Records(l.m.name, lump.Name(idx), len(b), size)
	if err != nil {
		return nil, 0, err
	}
	return b, n, nil
}

func (l *loader) lump(idx int) ([]byte, error) {
	b, err := l.hdr.Data(l.ctx.Data, idx)
	if err != nil {
		return nil, errors.Wrapf(err, "Mod_LoadBrushModel: %s", l.m.name)
	}
	return b, nil
}

func (l *loader) loadImage(name string, w, h int, typ texture.ColorType, data []byte,
	source string, offset int, flags texture.TexPref) *texture.Texture {
	if l.ctx.Textures == nil {
		return nil
	}
	return l.ctx.Textures.LoadImage(l.m.name, name, w, h, typ, data, source, offset, flags)
}

// LoadBrushModel decodes ctx.Data. The first model is the world, the
// others are its submodels sharing the world's arrays.
func LoadBrushModel(ctx *model.LoadContext) ([]*Model, error) {
	hdr, err := lump.ReadHeader(ctx.Data)
	if err != nil {
		return nil, errors.Wrapf(err, "Mod_LoadBrushModel: %s", ctx.Name)
	}
	l := &loader{
		ctx:      ctx,
		hdr:      hdr,
		loadName: filesystem.FileBase(ctx.Name),
		m: &Model{
			name:    ctx.Name,
			Version: hdr.Version,
			PathID:  ctx.PathID,
		},
	}
	switch hdr.Version {
	case Version, VersionQuake64:
		l.bsp2 = 0
	case Version2PSB:
		l.bsp2 = 1
	case VersionBSP2:
		l.bsp2 = 2
	default:
		return nil, errors.Errorf("Mod_LoadBrushModel: %s has unsupported version number (%d)", ctx.Name, hdr.Version)
	}

	for _, f := range []func() error{
		l.loadVertexes,
		l.loadEdges,
		l.loadSurfaceEdges,
		l.loadTextures,
		l.loadLighting,
		l.loadPlanes,
		l.loadTexInfo,
		l.loadFaces,
		l.loadMarkSurfaces,
		l.loadVisibilityAndLeafs,
		l.loadNodes,
		l.loadClipNodes,
		l.loadEntities,
		l.loadSubmodels,
		l.loadLightEntities,
	} {
		if err := f(); err != nil {
			return nil, err
		}
	}
	l.makeHull0()
	l.m.frameCount = 2 // regular and alternate animation
	l.checkWaterVis()

	return l.setupSubmodels(), nil
}

func (l *loader) loadVisibilityAndLeafs() error {
	if l.m.Version == Version && l.ctx.Options.ExternalVis && l.ctx.IsServerMap() {
		ok, err := l.loadExternalVis()
		if err != nil {
			return err
		}
		if ok {
			return l.checkLeafs()
		}
	}
	if err := l.loadVisibility(); err != nil {
		return err
	}
	if err := l.loadLeafs(); err != nil {
		return err
	}
	return l.checkLeafs()
}

func (l *loader) checkLeafs() error {
	if len(l.m.Leafs) == 0 {
		return errors.Errorf("Mod_LoadLeafs: no leafs in %s", l.m.name)
	}
	return nil
}

// setupSubmodels fills in the per submodel data. Model i+1 is a shallow
// copy of the world named *i+1.
func (l *loader) setupSubmodels() []*Model {
	mod := l.m
	r := make([]*Model, 0, len(mod.Submodels))
	for i := range mod.Submodels {
		bm := &mod.Submodels[i]
		if i > 0 {
			for d := 0; d < bm.NumFaces; d++ {
				mod.Surfaces[bm.FirstFace+d].BModelIndex = i + 1
			}
		}
		mod.Hulls[0].FirstClipNode = bm.HeadNode[0]
		for j := 1; j < MaxMapHulls; j++ {
			mod.Hulls[j].FirstClipNode = bm.HeadNode[j]
			mod.Hulls[j].LastClipNode = len(mod.ClipNodes) - 1
		}
		mod.FirstModelSurface = bm.FirstFace
		mod.NumModelSurfaces = bm.NumFaces

		mod.bounds.Mins = bm.Mins
		mod.bounds.Maxs = bm.Maxs
		radius := vec.RadiusFromBounds(bm.Mins, bm.Maxs)
		mod.bounds.RMaxs = vec.Vec3{radius, radius, radius}
		mod.bounds.YMaxs = mod.bounds.RMaxs
		mod.bounds.RMins = vec.Vec3{-radius, -radius, -radius}
		mod.bounds.YMins = mod.bounds.RMins

		// submodel 0 of the server world is the world itself
		if i > 0 || !l.ctx.IsServerMap() {
			mod.ClipMins = mod.bounds.Mins
			mod.ClipMaxs = mod.bounds.Maxs
		}
		mod.NumLeafs = bm.VisLeafs
		r = append(r, mod)

		if i < len(mod.Submodels)-1 {
			sub := *mod
			sub.name = fmt.Sprintf("*%d", i+1)
			mod = &sub
		}
	}
	return r
}
