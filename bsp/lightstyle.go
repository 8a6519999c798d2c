// SPDX-License-Identifier: GPL-2.0-or-later

package bsp

import (
	"github.com/pkg/errors"
)

const (
	MaxLightStyles = 64
	maxStyleString = 64
)

// LightStyles contain MaxLightStyles values to scale light inside a map.
// 256 is normal brightness.
type LightStyles [MaxLightStyles]int

type lightStyle struct {
	pattern string
	average byte
	peak    byte
}

// LightStyleTable holds the style patterns sent by the server. Each
// character of a pattern is a tenth of a second, 'a' is dark, 'm' normal
// and 'z' double bright.
type LightStyleTable struct {
	styles [MaxLightStyles]lightStyle
}

// Set installs pattern for style i.
func (t *LightStyleTable) Set(i int, pattern string) error {
	if i < 0 || i >= MaxLightStyles {
		return errors.Errorf("svc_lightstyle > MAX_LIGHTSTYLES (%d)", i)
	}
	if len(pattern) >= maxStyleString {
		pattern = pattern[:maxStyleString-1]
	}
	s := lightStyle{pattern: pattern, average: 'm', peak: 'm'}
	if len(pattern) > 0 {
		total := 0
		s.peak = 'a'
		for j := 0; j < len(pattern); j++ {
			c := pattern[j]
			total += int(c) - 'a'
			s.peak = max(s.peak, c)
		}
		s.average = byte(total/len(pattern) + 'a')
	}
	t.styles[i] = s
	return nil
}

// Animate writes the style values at time into out. flat selects the
// peak (2) or average (1) value instead of the animation.
func (t *LightStyleTable) Animate(time float64, flat int, out *LightStyles) {
	i := int(time * 10)
	for j := range t.styles {
		s := &t.styles[j]
		if len(s.pattern) == 0 {
			out[j] = 256
			continue
		}
		var k int
		switch flat {
		case 2:
			k = int(s.peak) - 'a'
		case 1:
			k = int(s.average) - 'a'
		default:
			n := len(s.pattern)
			k = int(s.pattern[(i%n+n)%n]) - 'a'
		}
		out[j] = k * 22
	}
}
