// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"slices"
	"strconv"
	"strings"

	"quakemodel/conlog"
	"quakemodel/math/vec"
)

const (
	MaxLightEntities        = 512
	MaxVisibleLightEntities = 128
)

// LightEntity is a flame or torch of the level used as a point light.
type LightEntity struct {
	Origin vec.Vec3
	Radius float32
	Style  int
	Color  vec.Vec3
	// Index is the position in Model.LightEntities.
	Index int
}

// atof parses the leading number of s, 0 if there is none.
func atof(s string) float32 {
	s = strings.TrimLeft(s, " \t")
	end := 0
	for end < len(s) && strings.IndexByte("+-0123456789.eE", s[end]) >= 0 {
		end++
	}
	for ; end > 0; end-- {
		if v, err := strconv.ParseFloat(s[:end], 32); err == nil {
			return float32(v)
		}
	}
	return 0
}

func atoi(s string) int {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	v, _ := strconv.Atoi(s[:end])
	return v
}

func parseOrigin(s string) vec.Vec3 {
	var o vec.Vec3
	for i, f := range strings.SplitN(s, " ", 4) {
		if i == 3 {
			break
		}
		o[i] = atof(f)
	}
	return o
}

var lightClasses = map[string]struct {
	level float32
	color vec.Vec3
}{
	"light_flame_large_yellow":    {300, vec.Vec3{1, 1, 0}},
	"light_flame_small_yellow":    {200, vec.Vec3{1, 1, 0}},
	"light_flame_small_white":     {200, vec.Vec3{1, 1, 1}},
	"light_torch_small_walltorch": {200, vec.Vec3{1, 1, 0}},
}

// loadLightEntities collects the flames and torches of the entity text.
func (l *loader) loadLightEntities() error {
	m := l.m
	m.LightEntities = nil
	es, err := ParseEntities(m.Entities)
	if err != nil {
		return err
	}
	for _, e := range es {
		name, _ := e.Name()
		class, ok := lightClasses[name]
		if !ok {
			continue
		}
		if len(m.LightEntities) == MaxLightEntities {
			conlog.DWarning("%s has more than %d light entities\n", m.name, MaxLightEntities)
			break
		}
		le := LightEntity{
			Color: class.color,
			Index: len(m.LightEntities),
		}
		if v, ok := e.Property("origin"); ok {
			le.Origin = parseOrigin(v)
		}
		le.Origin[2] += 20
		if v, ok := e.Property("light_lev"); ok {
			le.Radius = atof(v)
		}
		if le.Radius == 0 {
			le.Radius = class.level
		}
		if v, ok := e.Property("style"); ok {
			le.Style = atoi(v)
		}
		m.LightEntities = append(m.LightEntities, le)
	}
	return nil
}

// VisibleLights returns the light entities closest to view, nearest
// first.
func (m *Model) VisibleLights(view vec.Vec3) []LightEntity {
	r := slices.Clone(m.LightEntities)
	dist := func(le *LightEntity) float32 {
		return vec.Sub(view, le.Origin).Length()
	}
	slices.SortStableFunc(r, func(a, b LightEntity) int {
		da, db := dist(&a), dist(&b)
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return 0
	})
	if len(r) > MaxVisibleLightEntities {
		r = r[:MaxVisibleLightEntities]
	}
	return r
}
