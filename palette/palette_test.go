// SPDX-License-Identifier: GPL-2.0-or-later

package palette

import (
	"testing"
)

func testPalette() []byte {
	b := make([]byte, 256*3)
	for i := 0; i < 256; i++ {
		b[i*3] = uint8(i)
		b[i*3+1] = uint8(255 - i)
		b[i*3+2] = uint8(i / 2)
	}
	return b
}

func TestLoad(t *testing.T) {
	if err := Load(make([]byte, 10)); err == nil {
		t.Errorf("Load accepted a short palette")
	}
	if err := Load(testPalette()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if r, g, b := RGB(10); r != 10 || g != 245 || b != 5 {
		t.Errorf("RGB(10) = %v %v %v", r, g, b)
	}
	if Table[255*4+3] != 0 {
		t.Errorf("index 255 is not transparent")
	}
	// below the split only the no bright table carries color
	if TableFullBright[10*4] != 0 || TableNoBright[10*4] != 10 {
		t.Errorf("split at 10: fb %v nb %v", TableFullBright[10*4], TableNoBright[10*4])
	}
	if TableFullBright[230*4] != 230 || TableNoBright[230*4] != 0 {
		t.Errorf("split at 230: fb %v nb %v", TableFullBright[230*4], TableNoBright[230*4])
	}
	if TableNoBrightFence[255*4+3] != 0 || TableNoBright[255*4+3] != 255 {
		t.Errorf("fence alpha not applied")
	}
}

func TestFirstBlack(t *testing.T) {
	b := testPalette()
	b[7*3], b[7*3+1], b[7*3+2] = 0, 0, 0
	if err := Load(b); err != nil {
		t.Fatal(err)
	}
	if got := FirstBlack(); got != 7 {
		t.Errorf("FirstBlack() = %v, want 7", got)
	}
}

func TestAlphaEdgeFix(t *testing.T) {
	// 3x1, the middle pixel is masked
	d := []byte{
		10, 20, 30, 255,
		0, 0, 0, 0,
		30, 40, 50, 255,
	}
	AlphaEdgeFix(3, 1, d)
	if d[4] != 20 || d[5] != 30 || d[6] != 40 || d[7] != 0 {
		t.Errorf("masked pixel = %v", d[4:8])
	}
	if d[0] != 10 || d[8] != 30 {
		t.Errorf("opaque pixels changed: %v", d)
	}
}

func TestHasFullBrights(t *testing.T) {
	if HasFullBrights([]byte{0, 100, 223}) {
		t.Errorf("223 counted as fullbright")
	}
	if !HasFullBrights([]byte{0, 224}) {
		t.Errorf("224 not counted as fullbright")
	}
}
