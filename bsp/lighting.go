// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"bytes"
	"fmt"

	"quakemodel/conlog"
	"quakemodel/crc"
	"quakemodel/filesystem"
	"quakemodel/lump"
)

const litVersion = 1

// loadLighting reads the RGB light samples of a .lit file next to the
// map, or expands the mono samples of the map.
func (l *loader) loadLighting() error {
	m := l.m
	m.LightData = nil
	b, err := l.lump(lump.Lighting)
	if err != nil {
		return err
	}
	if l.loadLitFile(len(b)) {
		return nil
	}
	if len(b) == 0 {
		return nil
	}

	if l.q64() {
		// RRRRRGGG GGBBBBBB
		n := len(b) / 2
		m.LightData = make([]byte, n*3)
		for i := 0; i < n; i++ {
			b0, b1 := b[2*i], b[2*i+1]
			m.LightData[3*i] = b0 & 0xf8
			m.LightData[3*i+1] = (b0&0x07)<<5 + (b1&0xc0)>>5
			m.LightData[3*i+2] = (b1 & 0x3f) << 2
		}
		return nil
	}

	m.LightData = make([]byte, len(b)*3)
	for i, d := range b {
		m.LightData[3*i] = d
		m.LightData[3*i+1] = d
		m.LightData[3*i+2] = d
	}
	return nil
}

func (l *loader) loadLitFile(lumpSize int) bool {
	m := l.m
	if l.ctx.Files == nil {
		return false
	}
	name := filesystem.StripExt(m.name) + ".lit"
	data, pathID, err := l.ctx.Files.ReadFileWithID(name)
	if err != nil {
		return false
	}
	switch {
	case pathID < m.PathID:
		conlog.DPrintf("ignored %s from a gamedir with lower priority\n", name)
	case len(data) < 8 || !bytes.Equal(data[:4], []byte("QLIT")):
		conlog.Printf("Corrupt .lit file (old version?), ignoring\n")
	case lump.Long(data, 4) != litVersion:
		conlog.Printf("Unknown .lit file version (%d)\n", lump.Long(data, 4))
	case len(data) != 8+lumpSize*3:
		conlog.Printf("Outdated .lit file (%s should be %d bytes, not %d)\n", name, 8+lumpSize*3, len(data))
	default:
		conlog.DPrintf2("%s loaded\n", name)
		m.LightData = data[8:]
		return true
	}
	return false
}

// loadEntities prefers an .ent file matching the checksum of the
// embedded entities, then any .ent file of the map.
func (l *loader) loadEntities() error {
	m := l.m
	b, err := l.lump(lump.Entities)
	if err != nil {
		return err
	}
	if l.ctx.Options.ExternalEnts && l.ctx.Files != nil {
		var sum uint16
		if len(b) > 0 {
			sum = crc.Block(b[:len(b)-1])
		}
		base := filesystem.StripExt(m.name)
		for _, name := range []string{
			fmt.Sprintf("%s@%04x.ent", base, sum),
			fmt.Sprintf("%s.ent", base),
		} {
			conlog.DPrintf2("trying to load %s\n", name)
			ents, pathID, err := l.ctx.Files.ReadFileWithID(name)
			if err != nil {
				continue
			}
			if pathID < m.PathID {
				conlog.DPrintf("ignored %s from a gamedir with lower priority\n", name)
				break
			}
			m.Entities = cString(ents)
			conlog.DPrintf("Loaded external entity file %s\n", name)
			return nil
		}
	}
	m.Entities = cString(b)
	return nil
}
