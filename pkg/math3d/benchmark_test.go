package math3d

import (
	"testing"
)

func BenchmarkMat4Mul(b *testing.B) {
	m1 := Translate(V3(1, 2, 3))
	m2 := RotateY(0.5)

	for b.Loop() {
		_ = m1.Mul(m2)
	}
}

func BenchmarkMat4MulVec4(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5))
	v := V4(1, 2, 3, 1)

	for b.Loop() {
		_ = m.MulVec4(v)
	}
}

func BenchmarkMat4Invert(b *testing.B) {
	m := Translate(V3(1, 2, 3)).Mul(RotateY(0.5)).Mul(RotateX(0.25))

	for b.Loop() {
		_, _ = m.Invert()
	}
}

func BenchmarkMat4Orthonormalize(b *testing.B) {
	m := RotateY(0.5).Mul(RotateX(0.25))
	m[0] += 1e-6

	for b.Loop() {
		_ = m.Orthonormalize()
	}
}

func BenchmarkViewProjection(b *testing.B) {
	view, _ := Translate(V3(0, 0, 10)).Invert()
	proj := Perspective(Radians(70), 1.333, 0.1, 100.0)

	for b.Loop() {
		_ = proj.Mul(view)
	}
}
