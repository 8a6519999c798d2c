// SPDX-License-Identifier: GPL-2.0-or-later

package mdl

import (
	"bytes"
	"encoding/binary"
	"testing"

	"quakemodel/model"
	"quakemodel/texture"
)

func le(vs ...any) []byte {
	var b bytes.Buffer
	for _, v := range vs {
		if err := binary.Write(&b, binary.LittleEndian, v); err != nil {
			panic(err)
		}
	}
	return b.Bytes()
}

func name16(s string) [16]byte {
	var n [16]byte
	copy(n[:], s)
	return n
}

// testModel builds IDPO files in memory. The default model has three
// vertices, one triangle, a 4x2 single skin with a fullbright pixel, a
// group skin of two images, one single frame and one group frame of two
// poses.
type testModel struct {
	version   int32
	numSkins  int32
	skinW     int32
	skinH     int32
	numVerts  int32
	numTris   int32
	numFrames int32
	flags     int32
	size      float32
	skins     []byte
	stverts   []byte
	tris      []byte
	frames    []byte
}

var (
	skinA  = []byte{0, 2, 3, 4, 5, 6, 7, 240}
	skinB0 = []byte{0, 1, 1, 1, 1, 1, 1, 1}
	skinB1 = []byte{0, 9, 9, 9, 9, 9, 9, 9}
)

func singleSkin(px []byte) []byte {
	return le(int32(skinSingle), px)
}

func groupSkin(images ...[]byte) []byte {
	b := le(int32(skinGroup), int32(len(images)))
	for range images {
		b = append(b, le(float32(0.1))...)
	}
	for _, img := range images {
		b = append(b, img...)
	}
	return b
}

func pose(name string, verts ...[3]byte) []byte {
	b := le([4]byte{}, [4]byte{}, name16(name))
	for _, v := range verts {
		b = append(b, v[0], v[1], v[2], 0)
	}
	return b
}

func singleFrame(name string, verts ...[3]byte) []byte {
	return append(le(int32(frameSingle)), pose(name, verts...)...)
}

func groupFrame(interval float32, poses ...[]byte) []byte {
	b := le(int32(frameGroup), int32(len(poses)), [4]byte{}, [4]byte{})
	for range poses {
		b = append(b, le(interval)...)
	}
	for _, p := range poses {
		b = append(b, p...)
	}
	return b
}

func newTestModel() *testModel {
	var frames []byte
	frames = append(frames, singleFrame("stand1", [3]byte{0, 0, 0}, [3]byte{20, 0, 0}, [3]byte{0, 10, 4})...)
	frames = append(frames, groupFrame(0.5,
		pose("run1", [3]byte{0, 0, 0}, [3]byte{20, 0, 0}, [3]byte{0, 10, 4}),
		pose("run2", [3]byte{0, 0, 0}, [3]byte{30, 0, 0}, [3]byte{0, 0, 0}),
	)...)
	return &testModel{
		version:   Version,
		numSkins:  2,
		skinW:     4,
		skinH:     2,
		numVerts:  3,
		numTris:   1,
		numFrames: 2,
		flags:     model.EntityEffectRotate | model.FlagHoley | 0x10000,
		size:      22,
		skins:     append(singleSkin(skinA), groupSkin(skinB0, skinB1)...),
		stverts:   le([3]int32{0, 0, 0}, [3]int32{OnSeam, 3, 0}, [3]int32{0, 1, 1}),
		tris:      le(int32(1), [3]int32{0, 1, 2}),
		frames:    frames,
	}
}

func (m *testModel) bytes() []byte {
	b := le([4]byte{'I', 'D', 'P', 'O'}, m.version,
		[3]float32{1, 1, 1},   // scale
		[3]float32{-10, 0, 5}, // scale origin
		float32(30),           // bounding radius
		[3]float32{0, 0, 22},  // eye position
		m.numSkins, m.skinW, m.skinH, m.numVerts, m.numTris, m.numFrames,
		int32(model.SyncRand), m.flags, m.size)
	b = append(b, m.skins...)
	b = append(b, m.stverts...)
	b = append(b, m.tris...)
	return append(b, m.frames...)
}

func testContext(name string, data []byte) *model.LoadContext {
	return &model.LoadContext{
		Name:     name,
		Data:     data,
		PathID:   1,
		Textures: texture.NewManager(),
	}
}

func mustLoad(t *testing.T, name string, tm *testModel) *Model {
	t.Helper()
	m, err := LoadAliasModel(testContext(name, tm.bytes()))
	if err != nil {
		t.Fatalf("LoadAliasModel: %v", err)
	}
	return m
}
