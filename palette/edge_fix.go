// SPDX-License-Identifier: GPL-2.0-or-later

package palette

// AlphaEdgeFix gives every transparent pixel of the RGBA image d the
// average color of its opaque neighbors, so filtering does not bleed the
// mask color into fence and sky edges. The image wraps around.
func AlphaEdgeFix(w, h int, d []byte) {
	if w <= 0 || h <= 0 || len(d) < w*h*4 {
		return
	}
	for y := 0; y < h; y++ {
		rows := [3]int{(y - 1 + h) % h * w, y * w, (y + 1) % h * w}
		for x := 0; x < w; x++ {
			pixel := (x + rows[1]) * 4
			if d[pixel+3] != 0 {
				continue
			}
			cols := [3]int{(x - 1 + w) % w, x, (x + 1) % w}
			var r, g, b, count int
			for i, row := range rows {
				for j, col := range cols {
					if i == 1 && j == 1 {
						continue
					}
					p := (col + row) * 4
					if d[p+3] == 0 {
						continue
					}
					r += int(d[p])
					g += int(d[p+1])
					b += int(d[p+2])
					count++
				}
			}
			if count != 0 {
				d[pixel] = byte(r / count)
				d[pixel+1] = byte(g / count)
				d[pixel+2] = byte(b / count)
			}
		}
	}
}
