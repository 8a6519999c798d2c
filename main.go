// SPDX-License-Identifier: GPL-2.0-or-later

// bspinfo loads models through the game search path and prints what the
// loaders made of them.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"quakemodel/alias"
	"quakemodel/bsp"
	"quakemodel/cbuf"
	"quakemodel/cmd"
	"quakemodel/commandline"
	"quakemodel/conlog"
	"quakemodel/cvar"
	"quakemodel/cvars"
	"quakemodel/filesystem"
	"quakemodel/image"
	"quakemodel/math/vec"
	"quakemodel/mdl"
	"quakemodel/model"
	"quakemodel/palette"
	"quakemodel/spr"
	"quakemodel/texture"
)

func main() {
	flag.Parse()
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] model...\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	if err := run(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func setupCvars() {
	cvars.Developer.SetValue(float32(commandline.Developer()))
	if commandline.NoVis() {
		cvars.RNoVis.SetByString("1")
	}
	if commandline.NoExternal() {
		cvars.ExternalEnts.SetByString("0")
		cvars.ExternalVis.SetByString("0")
	}
}

func newCommandBuffer(reg *model.Registry) (*cbuf.CommandBuffer, error) {
	local := cmd.New()
	if err := reg.AddCommands(local); err != nil {
		return nil, err
	}
	aliases := alias.New()
	if err := aliases.Register(local); err != nil {
		return nil, err
	}
	cb := &cbuf.CommandBuffer{}
	cb.SetCommandExecutors([]cbuf.Efunc{
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return local.Execute(a)
		},
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cmd.Execute(a)
		},
		func(_ *cbuf.CommandBuffer, a cmd.Arguments) (bool, error) {
			return cvar.Execute(a), nil
		},
		aliases.Execute(),
	})
	return cb, nil
}

func stdout(format string, v ...interface{}) {
	fmt.Printf(format, v...)
}

func run(names []string) error {
	conlog.SetPrintf(stdout)
	conlog.SetSafePrintf(stdout)
	setupCvars()
	if err := filesystem.UseBaseDir(commandline.BaseDirectory()); err != nil {
		return err
	}
	if g := commandline.Game(); g != "" {
		if err := filesystem.UseGameDir(g); err != nil {
			return err
		}
	}
	if err := palette.Init(filesystem.Default()); err != nil {
		conlog.Warning("%v, textures are dumped black\n", err)
	}

	textures := texture.NewManager()
	reg := model.NewRegistry(filesystem.Default(), textures, model.NewCache(commandline.CacheSize()))
	reg.GameDir = filesystem.GameDir()
	cb, err := newCommandBuffer(reg)
	if err != nil {
		return err
	}
	cb.AddText(commandline.Exec())
	for !cb.Empty() {
		if err := cb.Execute(); err != nil {
			return err
		}
	}
	for _, name := range names {
		if filesystem.Ext(name) == ".bsp" && reg.ServerMap == "" {
			reg.ServerMap = name
		}
		m, err := reg.ForName(name, true)
		if err != nil {
			return err
		}
		printModel(m)
	}
	reg.Print()

	if dir := commandline.DumpDir(); dir != "" {
		return dumpTextures(textures, dir, commandline.DumpFormat())
	}
	return nil
}

func printModel(m model.Model) {
	b := m.Bounds()
	conlog.Printf("%s: %s model, %d frames, flags %#x\n", m.Name(), m.Kind(), m.FrameCount(), m.Flags())
	conlog.Printf("  bounds %v - %v\n", b.Mins, b.Maxs)
	switch mm := m.(type) {
	case *bsp.Model:
		printBrush(mm)
	case *mdl.Model:
		conlog.Printf("  %d skins %dx%d, %d verts, %d tris, %d poses, size %.1f\n",
			len(mm.Skins), mm.SkinWidth, mm.SkinHeight, mm.NumVerts(), len(mm.Triangles), len(mm.Poses), mm.Size)
	case *spr.Model:
		conlog.Printf("  type %d, max size %dx%d\n", mm.Type, mm.MaxWidth, mm.MaxHeight)
	}
}

func printBrush(m *bsp.Model) {
	conlog.Printf("  version %d, %d planes, %d vertexes, %d nodes, %d leafs, %d clipnodes\n",
		m.Version, len(m.Planes), len(m.Vertexes), len(m.Nodes), len(m.Leafs), len(m.ClipNodes))
	conlog.Printf("  %d surfaces, %d textures, %d submodels\n",
		len(m.Surfaces), len(m.Textures), len(m.Submodels))
	conlog.Printf("  %d bytes vis, %d bytes light, %d light entities\n",
		len(m.VisData), len(m.LightData), len(m.LightEntities))
	if es, err := bsp.ParseEntities(m.Entities); err != nil {
		conlog.Warning("%v\n", err)
	} else {
		conlog.Printf("  %d entities\n", len(es))
	}

	if commandline.Lights() {
		for _, l := range m.LightEntities {
			conlog.Printf("  light %d at %v radius %.0f style %d color %v\n", l.Index, l.Origin, l.Radius, l.Style, l.Color)
		}
	}
	if p := commandline.Point(); p != "" {
		printPoint(m, p)
	}
}

func printPoint(m *bsp.Model, s string) {
	var p vec.Vec3
	if _, err := fmt.Sscanf(s, "%f %f %f", &p[0], &p[1], &p[2]); err != nil {
		conlog.Warning("bad point %q: %v\n", s, err)
		return
	}
	leaf, err := m.PointInLeaf(p)
	if err != nil {
		conlog.Warning("%v\n", err)
		return
	}
	var table bsp.LightStyleTable
	var styles bsp.LightStyles
	table.Animate(0, 0, &styles)

	var vc bsp.VisContext
	pvs := vc.ViewPVS(m, leaf, p, cvars.RNoVis.Bool())
	visible := 0
	for _, b := range pvs {
		for ; b != 0; b &= b - 1 {
			visible++
		}
	}
	conlog.Printf("  %v: leaf %d contents %d, %d leafs visible, light %v\n",
		p, leaf, m.Leafs[leaf].Contents, visible, m.LightPoint(p, &styles))
}

// dumpName maps a texture name to a file name, "progs/ogre.mdl:frame0"
// becomes "progs_ogre.mdl_frame0".
func dumpName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*':
			return '_'
		}
		return r
	}, name)
}

func dumpTextures(tm *texture.Manager, dir, format string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var list []*texture.Texture
	tm.Each(func(t *texture.Texture) {
		if len(t.Data) != 0 {
			list = append(list, t)
		}
	})

	var wg sync.WaitGroup
	sem := make(chan struct{}, runtime.NumCPU())
	for _, t := range list {
		wg.Add(1)
		sem <- struct{}{}
		go func(t *texture.Texture) {
			defer wg.Done()
			defer func() { <-sem }()
			name := filepath.Join(dir, dumpName(t.Name)+"."+format)
			if err := image.Write(name, t.RGBA(), t.Width, t.Height); err != nil {
				conlog.Warning("%v\n", err)
			}
		}(t)
	}
	wg.Wait()
	conlog.Printf("%d textures written to %s\n", len(list), dir)
	return nil
}
