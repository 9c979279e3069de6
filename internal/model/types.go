// Package model turns parsed 3DS meshes into render-ready, non-indexed geometry.
package model

import "github.com/Faultbox/loader3ds/pkg/formats"

// Geometry holds one mesh expanded to one entry per face-vertex, ready for GPU upload.
type Geometry struct {
	Name        string
	Positions   []float32 // x, y, z per face-vertex
	Normals     []float32 // x, y, z per face-vertex
	UVs         []float32 // u, v per face-vertex (V negated)
	FaceCount   int
	ScaleFactor float32
	Texture     formats.TextureHandle
}

// VertexCount returns the number of emitted face-vertices.
func (g *Geometry) VertexCount() int {
	return g.FaceCount * 3
}

// Bounds holds an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Stats summarizes a model.
type Stats struct {
	Meshes   int
	Faces    int
	Vertices int
}
