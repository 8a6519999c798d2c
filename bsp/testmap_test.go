// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"
	"testing"

	"quakemodel/conlog"
	"quakemodel/lump"
	"quakemodel/model"
	"quakemodel/texture"
)

// testMap builds level files in memory. The default map is a 64x64 floor
// at z=0 with one lit face, an empty leaf above and the solid leaf below.
type testMap struct {
	version int32
	lumps   [lump.Count][]byte
}

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

func miptex(name string, w, h int, fill byte) []byte {
	return le(name16(name), uint32(w), uint32(h), [4]uint32{40, 0, 0, 0},
		bytes.Repeat([]byte{fill}, w*h/64*85))
}

func miptex64(name string, w, h int, fill byte) []byte {
	return le(name16(name), uint32(w), uint32(h), int32(0), [4]uint32{44, 0, 0, 0},
		bytes.Repeat([]byte{fill}, w*h/64*85))
}

// texturesLump builds the miptex directory. nil entries are written as
// missing (-1).
func texturesLump(texs ...[]byte) []byte {
	head := le(int32(len(texs)))
	var data []byte
	base := 4 + 4*len(texs)
	for _, t := range texs {
		if t == nil {
			head = append(head, le(int32(-1))...)
			continue
		}
		head = append(head, le(int32(base+len(data)))...)
		data = append(data, t...)
	}
	return append(head, data...)
}

func leafS16(contents, visOfs int32, mins, maxs [3]int16, firstMark, numMark uint16) []byte {
	return le(contents, visOfs, mins, maxs, firstMark, numMark, [4]byte{})
}

func newTestMap() *testMap {
	t := &testMap{version: Version}
	t.lumps[lump.Entities] = append([]byte(`{
"classname" "worldspawn"
}
{
"classname" "light_flame_large_yellow"
"origin" "10 20 30"
}
`), 0)
	t.lumps[lump.Planes] = le(float32(0), float32(0), float32(1), float32(0), int32(PlaneZ))
	t.lumps[lump.Textures] = texturesLump(miptex("wall", 16, 16, 1))
	t.lumps[lump.Vertexes] = le([]float32{0, 0, 0, 64, 0, 0, 64, 64, 0, 0, 64, 0})
	// front is leaf 1, back the solid leaf 0
	t.lumps[lump.Nodes] = le(int32(0), uint16(65534), uint16(65535),
		[3]int16{0, 0, -16}, [3]int16{64, 64, 16}, uint16(0), uint16(1))
	t.lumps[lump.TexInfo] = le([4]float32{1, 0, 0, 0}, [4]float32{0, 1, 0, 0}, int32(0), int32(0))
	t.lumps[lump.Faces] = le(int16(0), int16(0), int32(0), int16(4), int16(0),
		[4]byte{0, 255, 255, 255}, int32(0))
	// 5x5 samples for the 64x64 face
	t.lumps[lump.Lighting] = bytes.Repeat([]byte{100}, 25)
	t.lumps[lump.ClipNodes] = le(int32(0), uint16(65535), uint16(65534))
	t.lumps[lump.Leafs] = append(
		leafS16(ContentsSolid, -1, [3]int16{}, [3]int16{}, 0, 0),
		leafS16(ContentsEmpty, -1, [3]int16{0, 0, 0}, [3]int16{64, 64, 16}, 0, 1)...)
	t.lumps[lump.MarkSurfaces] = le(uint16(0))
	t.lumps[lump.Edges] = le([]uint16{0, 0, 0, 1, 1, 2, 2, 3, 3, 0})
	t.lumps[lump.SurfEdges] = le([]int32{1, 2, 3, 4})
	t.lumps[lump.Models] = submodelRecord(0, 1)
	return t
}

// newWideTestMap is the default map in the 32 bit layouts of 2PSB or BSP2.
// BSP2 leafs and nodes carry float boxes, the empty leaf reaches up to
// z=16.5 there.
func newWideTestMap(version int32) *testMap {
	t := newTestMap()
	t.version = version
	t.lumps[lump.Edges] = le([]uint32{0, 0, 0, 1, 1, 2, 2, 3, 3, 0})
	t.lumps[lump.Faces] = le(int32(0), int32(0), int32(0), int32(4), int32(0),
		[4]byte{0, 255, 255, 255}, int32(0))
	t.lumps[lump.MarkSurfaces] = le(int32(0))
	// -1 is the solid leaf 0, -2 leaf 1
	t.lumps[lump.ClipNodes] = le(int32(0), int32(-1), int32(-2))
	if version == Version2PSB {
		t.lumps[lump.Nodes] = le(int32(0), int32(-2), int32(-1),
			[3]int16{0, 0, -16}, [3]int16{64, 64, 16}, uint32(0), uint32(1))
		t.lumps[lump.Leafs] = append(
			le(int32(ContentsSolid), int32(-1), [6]int16{}, uint32(0), uint32(0), [4]byte{}),
			le(int32(ContentsEmpty), int32(-1), [3]int16{0, 0, 0}, [3]int16{64, 64, 16},
				uint32(0), uint32(1), [4]byte{})...)
		return t
	}
	t.lumps[lump.Nodes] = le(int32(0), int32(-2), int32(-1),
		[3]float32{0, 0, -16}, [3]float32{64, 64, 16}, uint32(0), uint32(1))
	t.lumps[lump.Leafs] = append(
		le(int32(ContentsSolid), int32(-1), [6]float32{}, uint32(0), uint32(0), [4]byte{}),
		le(int32(ContentsEmpty), int32(-1), [3]float32{0, 0, 0}, [3]float32{64, 64, 16.5},
			uint32(0), uint32(1), [4]byte{})...)
	return t
}

func submodelRecord(firstFace, numFaces int32) []byte {
	return le([3]float32{0, 0, -16}, [3]float32{64, 64, 16}, [3]float32{},
		[4]int32{0, 0, 0, 0}, int32(1), firstFace, numFaces)
}

func (t *testMap) bytes() []byte {
	out := make([]byte, lump.HeaderSize)
	binary.LittleEndian.PutUint32(out, uint32(t.version))
	for i, l := range t.lumps {
		binary.LittleEndian.PutUint32(out[4+i*8:], uint32(len(out)))
		binary.LittleEndian.PutUint32(out[8+i*8:], uint32(len(l)))
		out = append(out, l...)
	}
	return out
}

type fakeFile struct {
	data   []byte
	pathID int
}

type fakeFiles map[string]fakeFile

func (f fakeFiles) ReadFileWithID(name string) ([]byte, int, error) {
	ff, ok := f[name]
	if !ok {
		return nil, 0, fmt.Errorf("%s: %w", name, os.ErrNotExist)
	}
	return ff.data, ff.pathID, nil
}

func testContext(tm *testMap, files fakeFiles) *model.LoadContext {
	return &model.LoadContext{
		Name:     "maps/test.bsp",
		Data:     tm.bytes(),
		PathID:   1,
		Files:    files,
		Textures: texture.NewManager(),
	}
}

func mustLoad(t *testing.T, ctx *model.LoadContext) []*Model {
	t.Helper()
	ms, err := LoadBrushModel(ctx)
	if err != nil {
		t.Fatalf("LoadBrushModel: %v", err)
	}
	return ms
}

type logLines struct {
	prints   []string
	warnings []string
	dev      []string
}

func (l *logLines) contains(lines []string, s string) bool {
	for _, x := range lines {
		if strings.Contains(x, s) {
			return true
		}
	}
	return false
}

// captureLog collects all console output until the test ends.
func captureLog(t *testing.T, developer int) *logLines {
	t.Helper()
	l := &logLines{}
	sink := func(dst *[]string) conlog.PrintFunc {
		return func(format string, v ...interface{}) {
			*dst = append(*dst, fmt.Sprintf(format, v...))
		}
	}
	conlog.SetPrintf(sink(&l.prints))
	conlog.SetWarningf(sink(&l.warnings))
	conlog.SetDevPrintf(sink(&l.dev))
	old := conlog.Developer()
	conlog.SetDeveloper(developer)
	t.Cleanup(func() {
		conlog.Reset()
		conlog.SetDeveloper(old)
	})
	return l
}
