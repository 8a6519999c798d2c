// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/chewxy/math32"

	"quakemodel/cvars"
	"quakemodel/math/vec"
	"quakemodel/model"
	"quakemodel/texture"
)

func TestLoadAliasModel(t *testing.T) {
	m := mustLoad(t, "progs/test.mdl", newTestModel())
	if m.Kind() != model.KindAlias || m.Name() != "progs/test.mdl" {
		t.Errorf("kind %v name %q", m.Kind(), m.Name())
	}
	if m.FrameCount() != 2 || len(m.Poses) != 3 || m.NumVerts() != 3 {
		t.Fatalf("frames %d poses %d verts %d", m.FrameCount(), len(m.Poses), m.NumVerts())
	}
	if m.SyncType() != model.SyncRand {
		t.Errorf("SyncType = %v", m.SyncType())
	}
	if math32.Abs(m.Size-2) > 1e-5 {
		t.Errorf("Size = %v", m.Size)
	}
	if m.EyePosition != (vec.Vec3{0, 0, 22}) {
		t.Errorf("EyePosition = %v", m.EyePosition)
	}
	if m.STVerts[1] != (STVert{OnSeam: OnSeam, S: 3}) {
		t.Errorf("stvert %+v", m.STVerts[1])
	}
	if m.Triangles[0] != (Triangle{FacesFront: 1, Vertices: [3]int32{0, 1, 2}}) {
		t.Errorf("triangle %+v", m.Triangles[0])
	}

	stand, run := m.Frames[0], m.Frames[1]
	if stand.Name != "stand1" || stand.FirstPose != 0 || stand.NumPoses != 1 {
		t.Errorf("single frame %+v", stand)
	}
	if run.Name != "run1" || run.FirstPose != 1 || run.NumPoses != 2 || run.Interval != 0.5 {
		t.Errorf("group frame %+v", run)
	}
	if got := m.PoseVertex(2, 1); got != (vec.Vec3{20, 0, 5}) {
		t.Errorf("PoseVertex = %v", got)
	}
}

func TestExtraFlags(t *testing.T) {
	m := mustLoad(t, "progs/test.mdl", newTestModel())
	if want := model.EntityEffectRotate | model.FlagHoley; m.Flags() != want {
		t.Errorf("Flags = %#x, want %#x", m.Flags(), want)
	}
	flame := mustLoad(t, "progs/flame.mdl", newTestModel())
	if want := model.EntityEffectRotate | model.FlagHoley | model.ModNoLerp | model.ModFullBrightHack; flame.Flags() != want {
		t.Errorf("flame Flags = %#x, want %#x", flame.Flags(), want)
	}
}

func TestCalcBounds(t *testing.T) {
	m := mustLoad(t, "progs/test.mdl", newTestModel())
	b := m.Bounds()
	if b.Mins != (vec.Vec3{-10, 0, 5}) || b.Maxs != (vec.Vec3{20, 10, 9}) {
		t.Errorf("mins %v maxs %v", b.Mins, b.Maxs)
	}
	if b.YMins != (vec.Vec3{-20, -20, 5}) || b.YMaxs != (vec.Vec3{20, 20, 9}) {
		t.Errorf("ymins %v ymaxs %v", b.YMins, b.YMaxs)
	}
	r := math32.Sqrt(20*20 + 5*5)
	if b.RMins != (vec.Vec3{-r, -r, -r}) || b.RMaxs != (vec.Vec3{r, r, r}) {
		t.Errorf("rmins %v rmaxs %v", b.RMins, b.RMaxs)
	}
}

func TestSkins(t *testing.T) {
	m := mustLoad(t, "progs/test.mdl", newTestModel())
	if len(m.Skins) != 2 {
		t.Fatalf("got %d skins", len(m.Skins))
	}
	single := m.Skins[0]
	if single.Textures[0] == nil || single.Textures[0].Name != "progs/test.mdl:frame0" {
		t.Fatalf("single skin texture %+v", single.Textures[0])
	}
	if !single.Textures[0].Flags(texture.TexPrefNoBright) || !single.Textures[0].Flags(texture.TexPrefPad|texture.TexPrefAlpha) {
		t.Errorf("single skin flags")
	}
	if fb := single.FullBrights[0]; fb == nil || fb.Name != "progs/test.mdl:frame0_glow" || !fb.Flags(texture.TexPrefFullBright) {
		t.Errorf("fullbright mask %+v", fb)
	}
	for j := 1; j < 4; j++ {
		if single.Textures[j] != single.Textures[0] || single.FullBrights[j] != single.FullBrights[0] {
			t.Errorf("single skin step %d differs", j)
		}
	}

	group := m.Skins[1]
	if group.Textures[0].Name != "progs/test.mdl:frame1_0" || group.Textures[1].Name != "progs/test.mdl:frame1_1" {
		t.Errorf("group names %q %q", group.Textures[0].Name, group.Textures[1].Name)
	}
	if group.Textures[2] != group.Textures[0] || group.Textures[3] != group.Textures[1] {
		t.Errorf("group not padded by repeating")
	}
	for j, fb := range group.FullBrights {
		if fb != nil {
			t.Errorf("group step %d has a fullbright mask", j)
		}
	}
	if group.Textures[0].Flags(texture.TexPrefNoBright) {
		t.Errorf("NOBRIGHT without fullbright pixels")
	}

	if !bytes.Equal(m.Texels[0], skinA) || !bytes.Equal(m.Texels[1], skinB0) {
		t.Errorf("texels %v %v", m.Texels[0], m.Texels[1])
	}
	m.Texels[0][1] = 77
	if single.Textures[0].Data[1] == 77 {
		t.Errorf("texels share memory with the texture")
	}
}

func TestSkinWithoutAlpha(t *testing.T) {
	tm := newTestModel()
	tm.flags = 0
	m := mustLoad(t, "progs/test.mdl", tm)
	if m.Skins[0].Textures[0].Flags(texture.TexPrefAlpha) {
		t.Errorf("ALPHA set without MF_HOLEY")
	}
}

func TestSkinTextures(t *testing.T) {
	m := mustLoad(t, "progs/test.mdl", newTestModel())
	tests := []struct {
		skin int
		time float64
		want *texture.Texture
	}{
		{0, 0, m.Skins[0].Textures[0]},
		{1, 0, m.Skins[1].Textures[0]},
		{1, 0.15, m.Skins[1].Textures[1]},
		{1, 0.25, m.Skins[1].Textures[2]},
		{5, 0.15, m.Skins[0].Textures[1]},
	}
	for _, tc := range tests {
		if got, _ := m.SkinTextures(tc.skin, tc.time); got != tc.want {
			t.Errorf("skin %d time %v: got %s", tc.skin, tc.time, got.Name)
		}
	}
}

func TestNoTextureManager(t *testing.T) {
	ctx := testContext("progs/test.mdl", newTestModel().bytes())
	ctx.Textures = nil
	m, err := LoadAliasModel(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if m.Skins[0].Textures[0] != nil || m.Texels[0] == nil {
		t.Errorf("textures without a manager")
	}
}

func TestLoadErrors(t *testing.T) {
	manyPoses := func() *testModel {
		tm := newTestModel()
		tm.numVerts = 1
		tm.stverts = le([3]int32{})
		tm.tris = le(int32(0), [3]int32{})
		tm.numFrames = 1
		var poses [][]byte
		for i := 0; i <= MaxFrames; i++ {
			poses = append(poses, pose("p", [3]byte{}))
		}
		tm.frames = groupFrame(0.1, poses...)
		return tm
	}
	tests := []struct {
		name   string
		modify func(tm *testModel)
		want   string
	}{
		{"version", func(tm *testModel) { tm.version = 5 }, "wrong version number (5 should be 6)"},
		{"no verts", func(tm *testModel) { tm.numVerts = 0 }, "has no vertices"},
		{"many verts", func(tm *testModel) { tm.numVerts = MaxVerts + 1 }, "too many vertices (2001; max = 2000)"},
		{"no tris", func(tm *testModel) { tm.numTris = 0 }, "has no triangles"},
		{"many tris", func(tm *testModel) { tm.numTris = MaxTris + 1 }, "too many triangles (4097; max = 4096)"},
		{"no frames", func(tm *testModel) { tm.numFrames = 0 }, "Invalid # of frames: 0"},
		{"no skins", func(tm *testModel) { tm.numSkins = 0 }, "Invalid # of skins: 0"},
		{"many skins", func(tm *testModel) { tm.numSkins = MaxSkins + 1 }, "Invalid # of skins: 33"},
		{"skin size", func(tm *testModel) { tm.skinW = 0 }, "bad skin size"},
		{"bad vertex", func(tm *testModel) { tm.tris = le(int32(0), [3]int32{0, 1, 3}) }, "has bad vertex 3"},
		{"empty group", func(tm *testModel) { tm.frames = append(tm.frames[:4+24+12], le(int32(frameGroup), int32(0), [8]byte{})...) }, "has no poses"},
		{"truncated", func(tm *testModel) { tm.frames = tm.frames[:len(tm.frames)-1] }, "is truncated in frames"},
		{"truncated skin", func(tm *testModel) {
			tm.skins, tm.stverts, tm.tris, tm.frames = tm.skins[:6], nil, nil, nil
		}, "is truncated in skins"},
		{"poses", func(tm *testModel) { *tm = *manyPoses() }, "posenum >= MAXALIASFRAMES"},
	}
	for _, tc := range tests {
		tm := newTestModel()
		tc.modify(tm)
		_, err := LoadAliasModel(testContext("progs/bad.mdl", tm.bytes()))
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: error %v, want %q", tc.name, err, tc.want)
		}
	}
	if _, err := LoadAliasModel(testContext("progs/short.mdl", []byte("IDPO"))); err == nil {
		t.Errorf("short header accepted")
	}
}

func TestFloodFillSkin(t *testing.T) {
	skin := []byte{
		5, 5, 5,
		5, 7, 5,
		5, 5, 9,
	}
	FloodFillSkin(skin, 3, 3)
	want := []byte{
		0, 7, 7,
		0, 7, 9,
		0, 7, 9,
	}
	if !bytes.Equal(skin, want) {
		t.Errorf("got %v, want %v", skin, want)
	}

	for _, first := range []byte{0, 255} {
		skin := []byte{first, first, 3, first}
		FloodFillSkin(skin, 2, 2)
		if !bytes.Equal(skin, []byte{first, first, 3, first}) {
			t.Errorf("skin starting with %d filled: %v", first, skin)
		}
	}
	// sizes that do not match are ignored
	FloodFillSkin([]byte{5}, 2, 2)
}

type files map[string][]byte

func (f files) ReadFileWithID(name string) ([]byte, int, error) {
	b, ok := f[name]
	if !ok {
		return nil, 0, os.ErrNotExist
	}
	return b, 2, nil
}

func TestRegistryCachesAliasModels(t *testing.T) {
	fs := files{"progs/test.mdl": newTestModel().bytes()}
	cache := model.NewCache(0)
	r := model.NewRegistry(fs, texture.NewManager(), cache)
	m, err := r.ForName("progs/test.mdl", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.(*Model); !ok {
		t.Fatalf("got %T", m)
	}
	if cache.Len() != 1 || cache.Used() != m.(*Model).CacheSize() {
		t.Errorf("cache holds %d entries, %d bytes", cache.Len(), cache.Used())
	}

	cache.Flush()
	e, err := r.FindName("progs/test.mdl")
	if err != nil {
		t.Fatal(err)
	}
	again, err := r.Extradata(e)
	if err != nil {
		t.Fatal(err)
	}
	if again == m || again.FrameCount() != 2 {
		t.Errorf("evicted model not reloaded")
	}
}

func TestUpdateExtraFlags(t *testing.T) {
	old := cvars.RNoLerpList.String()
	t.Cleanup(func() { cvars.RNoLerpList.SetByString(old) })

	r := model.NewRegistry(files{"progs/test.mdl": newTestModel().bytes()}, texture.NewManager(), nil)
	m, err := r.ForName("progs/test.mdl", true)
	if err != nil {
		t.Fatal(err)
	}
	if m.Flags()&model.ModNoLerp != 0 {
		t.Fatalf("lerp disabled before the list changed")
	}
	cvars.RNoLerpList.SetByString(old + ",progs/test.mdl")
	r.UpdateExtraFlags()
	if m.Flags()&model.ModNoLerp == 0 {
		t.Errorf("list change not applied")
	}
}
