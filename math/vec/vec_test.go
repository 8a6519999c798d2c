// SPDX-License-Identifier: GPL-2.0-or-later

package vec

import (
	"testing"
)

var (
	NULL = Vec3{}
)

func TestBasics(t *testing.T) {
	v := Vec3{1, 2, 3}
	if v[0] != 1 || v[1] != 2 || v[2] != 3 {
		t.Errorf("Vector construction is not obvious")
	}
}

func TestLength(t *testing.T) {
	if NULL.Length() != 0 {
		t.Errorf("Null vector has not 0 length")
	}
	for _, v := range []Vec3{{2, 2, 1}, {2, 1, 2}, {1, 2, 2}} {
		if v.Length() != 3 {
			t.Errorf("%v Length is not 3", v)
		}
	}
}

func TestAdd(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Add(NULL, v); got != v {
		t.Errorf("Adding a null vector changed the vector")
	}
	got := Add(v, v)
	want := Vec3{2, 4, 6}
	if got != want {
		t.Errorf("Add(%v,%v) = %v want %v", v, v, got, want)
	}
}

func TestSub(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got := Sub(v, v); got != NULL {
		t.Errorf("Sub(%v,%v) = %v want %v", v, v, got, NULL)
	}
	v2 := Vec3{9, 7, 5}
	got := Sub(v2, v)
	want := Vec3{8, 5, 2}
	if got != want {
		t.Errorf("Sub(%v,%v) = %v want %v", v2, v, got, want)
	}
}

func TestScaleAndFMA(t *testing.T) {
	v := Vec3{1, 2, 3}
	if got, want := Scale(2, v), (Vec3{2, 4, 6}); got != want {
		t.Errorf("Scale(2,%v) = %v want %v", v, got, want)
	}
	if got, want := FMA(v, -1, v), NULL; got != want {
		t.Errorf("FMA(%v,-1,%v) = %v want %v", v, v, got, want)
	}
}

func TestDot(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}
	if got := Dot(a, b); got != 12 {
		t.Errorf("Dot(%v,%v) = %v", a, b, got)
	}
	if got := DoublePrecDot(a, b); got != 12 {
		t.Errorf("DoublePrecDot(%v,%v) = %v", a, b, got)
	}
}

func TestMinMax(t *testing.T) {
	a := Vec3{1, 5, -3}
	b := Vec3{2, -5, 0}
	if got, want := Min(a, b), (Vec3{1, -5, -3}); got != want {
		t.Errorf("Min = %v want %v", got, want)
	}
	if got, want := Max(a, b), (Vec3{2, 5, 0}); got != want {
		t.Errorf("Max = %v want %v", got, want)
	}
}

func TestRadiusFromBounds(t *testing.T) {
	// corner (2,2,2)
	got := RadiusFromBounds(Vec3{-2, -1, -2}, Vec3{1, 2, 0})
	if d := got*got - 12; d > 1e-4 || d < -1e-4 {
		t.Errorf("RadiusFromBounds = %v, want sqrt(12)", got)
	}
	if got := RadiusFromBounds(Vec3{-3, 0, 0}, Vec3{1, 4, 0}); got != 5 {
		t.Errorf("RadiusFromBounds = %v, want 5", got)
	}
}

func TestLerp(t *testing.T) {
	got := Lerp(Vec3{0, 0, 0}, Vec3{2, 4, 8}, 0.5)
	if want := (Vec3{1, 2, 4}); got != want {
		t.Errorf("Lerp = %v want %v", got, want)
	}
}
