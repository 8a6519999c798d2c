// SPDX-License-Identifier: GPL-2.0-or-later

// Package lump reads the little endian records of level files. All reads
// go through encoding/binary so odd offsets inside a lump are fine.
package lump

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

const (
	Entities = iota
	Planes
	Textures
	Vertexes
	Visibility
	Nodes
	TexInfo
	Faces
	Lighting
	ClipNodes
	Leafs
	MarkSurfaces
	Edges
	SurfEdges
	Models
	Count
)

var names = [Count]string{
	"entities", "planes", "textures", "vertexes", "visibility", "nodes",
	"texinfo", "faces", "lighting", "clipnodes", "leafs", "marksurfaces",
	"edges", "surfedges", "models",
}

// Name returns the lump name used in error messages.
func Name(idx int) string {
	if idx < 0 || idx >= Count {
		return "unknown"
	}
	return names[idx]
}

// HeaderSize is the version tag plus the directory.
const HeaderSize = 4 + Count*8

func Byte(b []byte, off int) byte {
	return b[off]
}

func Short(b []byte, off int) int16 {
	return int16(binary.LittleEndian.Uint16(b[off:]))
}

func UShort(b []byte, off int) uint16 {
	return binary.LittleEndian.Uint16(b[off:])
}

func Long(b []byte, off int) int32 {
	return int32(binary.LittleEndian.Uint32(b[off:]))
}

func Float(b []byte, off int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
}

// Lump is one directory entry, called lump_t in the file format notes.
type Lump struct {
	Offset int32
	Length int32
}

type Header struct {
	Version int32
	Lumps   [Count]Lump
}

// ReadHeader decodes the version and the lump directory.
func ReadHeader(buf []byte) (*Header, error) {
	if len(buf) < HeaderSize {
		return nil, errors.Errorf("file too short for a header (%d bytes)", len(buf))
	}
	h := &Header{Version: Long(buf, 0)}
	for i := range h.Lumps {
		h.Lumps[i].Offset = Long(buf, 4+i*8)
		h.Lumps[i].Length = Long(buf, 8+i*8)
	}
	return h, nil
}

// Data returns the bytes of lump idx.
func (h *Header) Data(buf []byte, idx int) ([]byte, error) {
	l := h.Lumps[idx]
	if l.Offset < 0 || l.Length < 0 || int64(l.Offset)+int64(l.Length) > int64(len(buf)) {
		return nil, errors.Errorf("lump %s (%d+%d) outside of file (%d bytes)",
			Name(idx), l.Offset, l.Length, len(buf))
	}
	return buf[l.Offset : l.Offset+l.Length], nil
}

// Records returns length/size and fails if length is not a multiple of
// size.
func Records(model, lumpName string, length, size int) (int, error) {
	if size <= 0 || length%size != 0 {
		return 0, errors.Errorf("Mod_LoadBmodel: funny lump size in %s (%s)", model, lumpName)
	}
	return length / size, nil
}
