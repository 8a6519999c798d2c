// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"quakemodel/conlog"
	"quakemodel/cvars"
	"quakemodel/lump"
	"quakemodel/math/vec"
	"quakemodel/model"
)

func init() {
	model.Register(model.KindAlias, Load)
}

func Load(ctx *model.LoadContext) ([]model.Model, error) {
	m, err := LoadAliasModel(ctx)
	if err != nil {
		return nil, err
	}
	return []model.Model{m}, nil
}

// reader walks the file front to back.
type reader struct {
	name string
	data []byte
	pos  int
}

func (r *reader) need(n int, what string) error {
	if n < 0 || r.pos+n > len(r.data) {
		return errors.Errorf("Mod_LoadAliasModel: %s is truncated in %s", r.name, what)
	}
	return nil
}

func (r *reader) long() int32 {
	v := lump.Long(r.data, r.pos)
	r.pos += 4
	return v
}

func (r *reader) float() float32 {
	v := lump.Float(r.data, r.pos)
	r.pos += 4
	return v
}

func (r *reader) vec3() vec.Vec3 {
	return vec.Vec3{r.float(), r.float(), r.float()}
}

func (r *reader) triVertex() TriVertex {
	b := r.data[r.pos : r.pos+triVertexSize]
	r.pos += triVertexSize
	return TriVertex{Pos: [3]byte{b[0], b[1], b[2]}, LightNormalIndex: b[3]}
}

type loader struct {
	ctx *model.LoadContext
	m   *Model
	r   reader

	numSkins  int
	numVerts  int
	numTris   int
	numFrames int
}

// LoadAliasModel decodes an IDPO file.
func LoadAliasModel(ctx *model.LoadContext) (*Model, error) {
	l := &loader{
		ctx: ctx,
		m:   &Model{name: ctx.Name},
		r:   reader{name: ctx.Name, data: ctx.Data},
	}
	for _, f := range []func() error{
		l.loadHeader,
		l.loadSkins,
		l.loadSTVerts,
		l.loadTriangles,
		l.loadFrames,
	} {
		if err := f(); err != nil {
			return nil, err
		}
	}
	l.m.SetExtraFlags()
	l.m.CalcBounds()
	return l.m, nil
}

func (l *loader) loadHeader() error {
	r, m := &l.r, l.m
	if len(r.data) < headerSize {
		return errors.Errorf("Mod_LoadAliasModel: %s is too short for a header (%d bytes)", m.name, len(r.data))
	}
	r.pos = 4
	if v := r.long(); v != Version {
		return errors.Errorf("%s has wrong version number (%d should be %d)", m.name, v, Version)
	}
	m.Scale = r.vec3()
	m.ScaleOrigin = r.vec3()
	m.BoundingRadius = r.float()
	m.EyePosition = r.vec3()
	l.numSkins = int(r.long())
	m.SkinWidth = int(r.long())
	m.SkinHeight = int(r.long())
	l.numVerts = int(r.long())
	l.numTris = int(r.long())
	l.numFrames = int(r.long())
	m.syncType = model.SyncType(r.long())
	m.flags = int(r.long())
	m.Size = r.float() * baseSizeRatio

	if m.SkinHeight > maxSkinHeight {
		conlog.DWarning("model %s has a skin taller than %d\n", m.name, maxSkinHeight)
	}
	switch {
	case l.numVerts <= 0:
		return errors.Errorf("model %s has no vertices", m.name)
	case l.numVerts > MaxVerts:
		return errors.Errorf("model %s has too many vertices (%d; max = %d)", m.name, l.numVerts, MaxVerts)
	case l.numTris <= 0:
		return errors.Errorf("model %s has no triangles", m.name)
	case l.numTris > MaxTris:
		return errors.Errorf("model %s has too many triangles (%d; max = %d)", m.name, l.numTris, MaxTris)
	case l.numFrames < 1:
		return errors.Errorf("Mod_LoadAliasModel: Invalid # of frames: %d", l.numFrames)
	}
	return nil
}

func (l *loader) loadSTVerts() error {
	if err := l.r.need(l.numVerts*stVertSize, "stverts"); err != nil {
		return err
	}
	l.m.STVerts = make([]STVert, l.numVerts)
	for i := range l.m.STVerts {
		l.m.STVerts[i] = STVert{
			OnSeam: l.r.long(),
			S:      l.r.long(),
			T:      l.r.long(),
		}
	}
	return nil
}

func (l *loader) loadTriangles() error {
	if err := l.r.need(l.numTris*triangleSize, "triangles"); err != nil {
		return err
	}
	l.m.Triangles = make([]Triangle, l.numTris)
	for i := range l.m.Triangles {
		t := &l.m.Triangles[i]
		t.FacesFront = l.r.long()
		for j := range t.Vertices {
			t.Vertices[j] = l.r.long()
			if t.Vertices[j] < 0 || int(t.Vertices[j]) >= l.numVerts {
				return errors.Errorf("model %s triangle %d has bad vertex %d", l.m.name, i, t.Vertices[j])
			}
		}
	}
	return nil
}

func (l *loader) loadFrames() error {
	l.m.Frames = make([]Frame, l.numFrames)
	for i := range l.m.Frames {
		if err := l.r.need(4, "frame type"); err != nil {
			return err
		}
		var err error
		if l.r.long() == frameSingle {
			err = l.loadFrame(&l.m.Frames[i])
		} else {
			err = l.loadGroup(i, &l.m.Frames[i])
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// loadPose reads one pose header and its vertices.
func (l *loader) loadPose() (lo, hi TriVertex, name string, err error) {
	if len(l.m.Poses) >= MaxFrames {
		return lo, hi, "", errors.New("posenum >= MAXALIASFRAMES")
	}
	if err := l.r.need(poseHeaderSize+l.numVerts*triVertexSize, "frames"); err != nil {
		return lo, hi, "", err
	}
	lo = l.r.triVertex()
	hi = l.r.triVertex()
	name = cString(l.r.data[l.r.pos : l.r.pos+16])
	l.r.pos += 16
	verts := make([]TriVertex, l.numVerts)
	for i := range verts {
		verts[i] = l.r.triVertex()
	}
	l.m.Poses = append(l.m.Poses, verts)
	return lo, hi, name, nil
}

func (l *loader) loadFrame(f *Frame) error {
	f.FirstPose = len(l.m.Poses)
	f.NumPoses = 1
	var err error
	f.BBoxMin, f.BBoxMax, f.Name, err = l.loadPose()
	return err
}

func (l *loader) loadGroup(i int, f *Frame) error {
	if err := l.r.need(groupHeaderSize, "frame group"); err != nil {
		return err
	}
	n := int(l.r.long())
	if n < 1 {
		return errors.Errorf("Mod_LoadAliasGroup: %s frame %d has no poses", l.m.name, i)
	}
	f.FirstPose = len(l.m.Poses)
	f.NumPoses = n
	f.BBoxMin = l.r.triVertex()
	f.BBoxMax = l.r.triVertex()
	if err := l.r.need(n*4, "frame intervals"); err != nil {
		return err
	}
	f.Interval = l.r.float()
	l.r.pos += (n - 1) * 4
	for j := 0; j < n; j++ {
		_, _, name, err := l.loadPose()
		if err != nil {
			return err
		}
		if j == 0 {
			f.Name = name
		}
	}
	return nil
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

// SetExtraFlags keeps the flags stored in the file and adds the ones
// selected by the console lists.
func (m *Model) SetExtraFlags() {
	m.flags &= 0xff | model.FlagHoley
	if cvars.InList(cvars.RNoLerpList, m.name) {
		m.flags |= model.ModNoLerp
	}
	if cvars.InList(cvars.RFullBrightList, m.name) {
		m.flags |= model.ModFullBrightHack
	}
}

// CalcBounds sets the boxes for no, yaw only and full rotation from all
// poses.
func (m *Model) CalcBounds() {
	b := model.Bounds{
		Mins: vec.Vec3{math32.MaxFloat32, math32.MaxFloat32, math32.MaxFloat32},
		Maxs: vec.Vec3{-math32.MaxFloat32, -math32.MaxFloat32, -math32.MaxFloat32},
	}
	var radius, yawRadius float32
	for p := range m.Poses {
		for v := range m.Poses[p] {
			pos := m.PoseVertex(p, v)
			b.Mins = vec.Min(b.Mins, pos)
			b.Maxs = vec.Max(b.Maxs, pos)
			dist := pos[0]*pos[0] + pos[1]*pos[1]
			yawRadius = max(yawRadius, dist)
			dist += pos[2] * pos[2]
			radius = max(radius, dist)
		}
	}
	radius = math32.Sqrt(radius)
	b.RMins = vec.Vec3{-radius, -radius, -radius}
	b.RMaxs = vec.Vec3{radius, radius, radius}

	yawRadius = math32.Sqrt(yawRadius)
	b.YMins = vec.Vec3{-yawRadius, -yawRadius, b.Mins[2]}
	b.YMaxs = vec.Vec3{yawRadius, yawRadius, b.Maxs[2]}
	m.bounds = b
}
