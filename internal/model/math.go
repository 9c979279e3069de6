package model

import "github.com/go-gl/mathgl/mgl32"

// normalize scales v to unit length. A zero vector is returned unchanged.
func normalize(v mgl32.Vec3) mgl32.Vec3 {
	length := v.Len()
	if length == 0 {
		length = 1
	}
	return mgl32.Vec3{v[0] / length, v[1] / length, v[2] / length}
}

// faceNormal returns the normal of triangle (v0, v1, v2) with right-hand winding.
// Both edges are normalized before the cross product.
func faceNormal(v0, v1, v2 mgl32.Vec3) mgl32.Vec3 {
	e1 := normalize(v1.Sub(v0))
	e2 := normalize(v2.Sub(v0))
	return normalize(e1.Cross(e2))
}

// zeroSeededRange returns the min and max of values, both starting at 0.
func zeroSeededRange(values []float32) (lo, hi float32) {
	for _, v := range values {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return lo, hi
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
