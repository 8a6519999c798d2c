// SPDX-License-Identifier: GPL-2.0-or-later

package model

import (
	"quakemodel/math/vec"
)

// Model flags stored in alias model headers.
const (
	EntityEffectRocket  = 1 << iota
	EntityEffectGrenade // 2
	EntityEffectGib     // 4
	EntityEffectRotate  // 8
	EntityEffectTracer  // 16
	EntityEffectZomGib  // 32
	EntityEffectTracer2 // 64
	EntityEffectTracer3 // 128
)

const (
	// MF_HOLEY: the skin uses index 255 as transparent
	FlagHoley = 1 << 14
)

// Load time flags derived from cvars.
const (
	ModNoLerp         = 1 << 8
	ModNoShadow       = 1 << 9
	ModFullBrightHack = 1 << 10
)

const (
	MaxModKnown = 2048
	// MaxQPath is the longest stored name including the terminator.
	MaxQPath = 64
)

type Kind int

const (
	KindBrush Kind = iota
	KindSprite
	KindAlias
)

func (k Kind) String() string {
	switch k {
	case KindAlias:
		return "alias"
	case KindSprite:
		return "sprite"
	default:
		return "brush"
	}
}

const (
	MagicAlias  = 'I' | 'D'<<8 | 'P'<<16 | 'O'<<24 // IDPO
	MagicSprite = 'I' | 'D'<<8 | 'S'<<16 | 'P'<<24 // IDSP
)

// KindOf maps the first four bytes of a file, read little endian, to the
// loader responsible for it. Everything unknown is treated as a level.
func KindOf(magic uint32) Kind {
	switch magic {
	case MagicAlias:
		return KindAlias
	case MagicSprite:
		return KindSprite
	default:
		return KindBrush
	}
}

type SyncType int

const (
	SyncSync SyncType = iota
	SyncRand
)

// Bounds holds the boxes used for culling. YMins/YMaxs cover any yaw,
// RMins/RMaxs any rotation.
type Bounds struct {
	Mins, Maxs   vec.Vec3
	YMins, YMaxs vec.Vec3
	RMins, RMaxs vec.Vec3
}

type Model interface {
	Name() string
	Kind() Kind
	Bounds() Bounds
	Flags() int
	FrameCount() int
	SyncType() SyncType
}
