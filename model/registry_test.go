// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"quakemodel/cmd"
	"quakemodel/conlog"
	"quakemodel/texture"
)

type fakeModel struct {
	name string
	kind Kind
	size int
}

func (m *fakeModel) Name() string       { return m.name }
func (m *fakeModel) Kind() Kind         { return m.kind }
func (m *fakeModel) Bounds() Bounds     { return Bounds{} }
func (m *fakeModel) Flags() int         { return 0 }
func (m *fakeModel) FrameCount() int    { return 1 }
func (m *fakeModel) SyncType() SyncType { return SyncSync }
func (m *fakeModel) CacheSize() int     { return m.size }

type files map[string][]byte

func (f files) ReadFileWithID(name string) ([]byte, int, error) {
	b, ok := f[name]
	if !ok {
		return nil, 0, os.ErrNotExist
	}
	return b, 1, nil
}

var loads = map[string]int{}

func init() {
	Register(KindAlias, func(ctx *LoadContext) ([]Model, error) {
		loads[ctx.Name]++
		return []Model{&fakeModel{name: ctx.Name, kind: KindAlias, size: 10}}, nil
	})
	Register(KindSprite, func(ctx *LoadContext) ([]Model, error) {
		loads[ctx.Name]++
		ctx.Textures.LoadImage(ctx.Name, ctx.Name+":frame0", 1, 1, texture.ColorTypeIndexed, []byte{0}, ctx.Name, 0, texture.TexPrefPad)
		return []Model{&fakeModel{name: ctx.Name, kind: KindSprite}}, nil
	})
	Register(KindBrush, func(ctx *LoadContext) ([]Model, error) {
		loads[ctx.Name]++
		if string(ctx.Data) == "broken" {
			return nil, fmt.Errorf("%s is broken", ctx.Name)
		}
		return []Model{
			&fakeModel{name: ctx.Name, kind: KindBrush},
			&fakeModel{name: "*1", kind: KindBrush},
			&fakeModel{name: "*2", kind: KindBrush},
		}, nil
	})
}

func testFiles() files {
	return files{
		"progs/player.mdl":   []byte("IDPO...."),
		"progs/ogre.mdl":     []byte("IDPO...."),
		"progs/s_bubble.spr": []byte("IDSP...."),
		"maps/e1m1.bsp":      []byte("\x1d\x00\x00\x00"),
		"maps/broken.bsp":    []byte("broken"),
	}
}

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		data string
		want Kind
	}{
		{"IDPO", KindAlias},
		{"IDSP", KindSprite},
		{"\x1d\x00\x00\x00", KindBrush},
		{"BSP2", KindBrush},
		{"", KindBrush},
	} {
		if got := KindOf(magicOf([]byte(tc.data))); got != tc.want {
			t.Errorf("KindOf(%q) = %v, want %v", tc.data, got, tc.want)
		}
	}
}

func TestFindName(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	if _, err := r.FindName(""); !errors.Is(err, ErrEmptyName) {
		t.Errorf("empty name: %v", err)
	}
	a, _ := r.FindName("progs/player.mdl")
	b, _ := r.FindName("progs/player.mdl")
	if a != b || !a.NeedLoad() || r.Len() != 1 {
		t.Errorf("FindName did not reuse the entry")
	}
}

func TestRegistryFull(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	for i := 0; i < MaxModKnown; i++ {
		if _, err := r.FindName(fmt.Sprintf("m%d", i)); err != nil {
			t.Fatalf("FindName %d: %v", i, err)
		}
	}
	if _, err := r.FindName("one-too-many"); !errors.Is(err, ErrRegistryFull) {
		t.Errorf("overflow: %v", err)
	}
	if _, err := r.FindName("m7"); err != nil {
		t.Errorf("existing name in a full registry: %v", err)
	}
}

func TestLoadDispatch(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	for name, want := range map[string]Kind{
		"progs/player.mdl":   KindAlias,
		"progs/s_bubble.spr": KindSprite,
		"maps/e1m1.bsp":      KindBrush,
	} {
		m, err := r.ForName(name, true)
		if err != nil {
			t.Fatalf("ForName(%q): %v", name, err)
		}
		if m.Kind() != want || m.Name() != name {
			t.Errorf("ForName(%q) = %v %v", name, m.Kind(), m.Name())
		}
	}
	sub, err := r.FindName("*2")
	if err != nil || sub.NeedLoad() {
		t.Errorf("submodel *2 not registered: %v", err)
	}
	if m, err := r.ForName("*2", true); err != nil || m.Name() != "*2" {
		t.Errorf("ForName(*2) = %v, %v", m, err)
	}
}

func TestLoadMissing(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	m, err := r.ForName("progs/nothere.mdl", false)
	if m != nil || err != nil {
		t.Errorf("optional missing model = %v, %v", m, err)
	}
	if _, err := r.ForName("progs/nothere.mdl", true); !errors.Is(err, ErrNotFound) {
		t.Errorf("required missing model: %v", err)
	}
}

func TestLoadErrorKeepsNeedLoad(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	if _, err := r.ForName("maps/broken.bsp", true); err == nil {
		t.Fatalf("broken map loaded")
	}
	e, _ := r.FindName("maps/broken.bsp")
	if !e.NeedLoad() {
		t.Errorf("failed load marked the entry loaded")
	}
}

func TestLoadOnce(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	before := loads["progs/s_bubble.spr"]
	for i := 0; i < 3; i++ {
		if _, err := r.ForName("progs/s_bubble.spr", true); err != nil {
			t.Fatal(err)
		}
	}
	if got := loads["progs/s_bubble.spr"] - before; got != 1 {
		t.Errorf("sprite loaded %d times", got)
	}
}

func TestExtradataReloadsEvicted(t *testing.T) {
	r := NewRegistry(testFiles(), texture.NewManager(), NewCache(15))
	before := loads["progs/player.mdl"]
	if _, err := r.ForName("progs/player.mdl", true); err != nil {
		t.Fatal(err)
	}
	// the second model pushes the first out of the budget
	if _, err := r.ForName("progs/ogre.mdl", true); err != nil {
		t.Fatal(err)
	}
	if r.Cache().Len() != 1 {
		t.Fatalf("cache holds %d models", r.Cache().Len())
	}
	e, _ := r.FindName("progs/player.mdl")
	m, err := r.Extradata(e)
	if err != nil || m == nil || m.Name() != "progs/player.mdl" {
		t.Fatalf("Extradata = %v, %v", m, err)
	}
	if got := loads["progs/player.mdl"] - before; got != 2 {
		t.Errorf("player loaded %d times, want 2", got)
	}
}

func TestClearAndReset(t *testing.T) {
	tm := texture.NewManager()
	r := NewRegistry(testFiles(), tm, nil)
	for _, n := range []string{"progs/player.mdl", "progs/s_bubble.spr", "maps/e1m1.bsp"} {
		if _, err := r.ForName(n, true); err != nil {
			t.Fatal(err)
		}
	}
	if tm.Count() != 1 {
		t.Fatalf("texture count %d", tm.Count())
	}
	r.ClearAll()
	for _, n := range []string{"progs/s_bubble.spr", "maps/e1m1.bsp", "*1"} {
		if e, _ := r.FindName(n); !e.NeedLoad() {
			t.Errorf("%s still loaded after ClearAll", n)
		}
	}
	if e, _ := r.FindName("progs/player.mdl"); e.NeedLoad() {
		t.Errorf("alias model reset by ClearAll")
	}
	if tm.Count() != 0 {
		t.Errorf("sprite textures survived ClearAll")
	}
	r.ResetAll()
	if r.Len() != 0 || r.Cache().Len() != 0 {
		t.Errorf("ResetAll left %d entries, %d cached", r.Len(), r.Cache().Len())
	}
}

func TestMCacheCommand(t *testing.T) {
	var out strings.Builder
	conlog.SetSafePrintf(func(f string, v ...any) { fmt.Fprintf(&out, f, v...) })
	t.Cleanup(conlog.Reset)

	r := NewRegistry(testFiles(), texture.NewManager(), nil)
	if _, err := r.ForName("progs/s_bubble.spr", true); err != nil {
		t.Fatal(err)
	}
	c := cmd.New()
	if err := r.AddCommands(c); err != nil {
		t.Fatal(err)
	}
	if err := r.AddCommands(c); err == nil {
		t.Errorf("mcache registered twice")
	}
	if ok, err := c.Execute(cmd.Parse("mcache")); !ok || err != nil {
		t.Fatalf("mcache: %v %v", ok, err)
	}
	want := "Cached models:\n  pinned : progs/s_bubble.spr\n1 models\n"
	if out.String() != want {
		t.Errorf("mcache printed %q, want %q", out.String(), want)
	}
}
