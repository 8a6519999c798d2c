// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/chewxy/math32"

	"quakemodel/math/vec"
)

// LightmapSize returns the size of the lightmap of s in samples.
func (s *Surface) LightmapSize() (width, height int) {
	return s.Extents[0]>>4 + 1, s.Extents[1]>>4 + 1
}

func clampColor(c uint32) byte {
	if c > 255 {
		return 255
	}
	return byte(c)
}

// BuildLightMap combines the light samples of s scaled by styles with the
// dynamic lights marked for frame into s.LightmapData as RGBA.
func (m *Model) BuildLightMap(s *Surface, styles *LightStyles, frame int, lights *DLightTable, overbright bool) {
	smax, tmax := s.LightmapSize()
	size := smax * tmax
	block := make([]uint32, size*3)

	if len(m.LightData) == 0 {
		// full bright
		for i := range block {
			block[i] = 0xffffffff
		}
	} else {
		samples := m.Samples(s)
		for maps := 0; maps < MaxLightMaps && s.Styles[maps] != 255; maps++ {
			if len(samples) < size*3 {
				break
			}
			scale := styles[s.Styles[maps]]
			s.CachedLight[maps] = scale // 8.8 fraction
			for i := range block {
				block[i] += uint32(samples[i]) * uint32(scale)
			}
			samples = samples[size*3:]
		}
		if s.DLightFrame == frame && lights != nil {
			m.addDynamicLights(s, block, lights)
		}
	}

	shift := 7
	if overbright {
		shift = 8
	}
	if len(s.LightmapData) != size*4 {
		s.LightmapData = make([]byte, size*4)
	}
	dst := s.LightmapData
	for i := 0; i < size; i++ {
		dst[i*4] = clampColor(block[i*3] >> shift)
		dst[i*4+1] = clampColor(block[i*3+1] >> shift)
		dst[i*4+2] = clampColor(block[i*3+2] >> shift)
		dst[i*4+3] = 255
	}
}

func (m *Model) addDynamicLights(s *Surface, block []uint32, lights *DLightTable) {
	smax, tmax := s.LightmapSize()
	pl := &m.Planes[s.Plane]
	ti := &m.TexInfos[s.TexInfo]
	for num := range lights.Lights {
		if s.DLightBits[num>>5]&(1<<(num&31)) == 0 {
			continue // not lit by this light
		}
		l := &lights.Lights[num]
		dist := vec.Dot(l.Origin, pl.Normal) - pl.Dist
		rad := l.Radius - math32.Abs(dist)
		minLight := l.MinLight
		if rad < minLight {
			continue
		}
		minLight = rad - minLight

		impact := vec.FMA(l.Origin, -dist, pl.Normal)
		var local [2]float32
		for j := 0; j < 2; j++ {
			local[j] = vec.Dot(impact, ti.Vecs[j].Pos) + ti.Vecs[j].Offset - float32(s.TextureMins[j])
		}
		color := vec.Scale(256, l.Color)

		bl := block
		for t := 0; t < tmax; t++ {
			td := int(local[1] - float32(t*16))
			if td < 0 {
				td = -td
			}
			for u := 0; u < smax; u++ {
				sd := int(local[0] - float32(u*16))
				if sd < 0 {
					sd = -sd
				}
				var d float32
				if sd > td {
					d = float32(sd + td>>1)
				} else {
					d = float32(td + sd>>1)
				}
				if d < minLight {
					brightness := rad - d
					bl[0] += uint32(int32(brightness * color[0]))
					bl[1] += uint32(int32(brightness * color[1]))
					bl[2] += uint32(int32(brightness * color[2]))
				}
				bl = bl[3:]
			}
		}
	}
}
