// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"encoding/binary"

	"quakemodel/texture"
)

// Files is the search path as seen by the loaders.
type Files interface {
	ReadFileWithID(name string) ([]byte, int, error)
}

// Options carry the console state a load depends on.
type Options struct {
	ExternalEnts bool
	ExternalVis  bool
	NoVis        bool
	// ServerMap is the model name of the map the server runs.
	ServerMap string
	// GameDir is the directory of the active game, used to find a
	// game wide .vis file.
	GameDir string
}

type LoadContext struct {
	Name     string
	Data     []byte
	PathID   int
	Files    Files
	Textures *texture.Manager
	Options  Options
}

// IsServerMap reports whether the model being loaded is the running map.
func (c *LoadContext) IsServerMap() bool {
	return c.Options.ServerMap != "" && c.Name == c.Options.ServerMap
}

// LoadFunc decodes ctx.Data. The first returned model carries ctx.Name,
// the rest are inline submodels with their own names.
type LoadFunc func(ctx *LoadContext) ([]Model, error)

var (
	loaders = make(map[Kind]LoadFunc)
)

func Register(k Kind, f LoadFunc) {
	loaders[k] = f
}

func magicOf(data []byte) uint32 {
	if len(data) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(data)
}
