package model

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/Faultbox/loader3ds/pkg/formats"
)

// Mesh building errors.
var (
	ErrNoVertices         = errors.New("mesh has no vertices")
	ErrVertexOutOfRange   = errors.New("face references a missing vertex")
	ErrTexCoordOutOfRange = errors.New("face references a missing texture coordinate")
)

// BuildGeometry computes normals, texture coordinates and the scale factor of
// one mesh and expands it into non-indexed buffers.
//
// Normals are per face and are not averaged across faces sharing a vertex.
// When the mesh has no UV list, a planar XY projection is generated.
func BuildGeometry(mesh *formats.TDSMesh) (*Geometry, error) {
	if len(mesh.Vertices) == 0 {
		return nil, ErrNoVertices
	}

	uvs := mesh.UVs
	if uvs == nil {
		uvs = PlanarUVs(mesh.Vertices)
	}
	if err := checkFaces(mesh.Faces, len(mesh.Vertices), len(uvs)); err != nil {
		return nil, errors.Wrapf(err, "mesh %q", mesh.Name)
	}

	faceCount := len(mesh.Faces)
	g := &Geometry{
		Name:        mesh.Name,
		Positions:   make([]float32, 0, faceCount*9),
		Normals:     make([]float32, 0, faceCount*9),
		UVs:         make([]float32, 0, faceCount*6),
		FaceCount:   faceCount,
		ScaleFactor: ScaleFactor(mesh.Vertices),
		Texture:     mesh.Texture,
	}

	for _, face := range mesh.Faces {
		normal := faceNormal(
			mgl32.Vec3(mesh.Vertices[face[0]]),
			mgl32.Vec3(mesh.Vertices[face[1]]),
			mgl32.Vec3(mesh.Vertices[face[2]]),
		)

		for _, vid := range face {
			v := mesh.Vertices[vid]
			uv := uvs[vid]
			g.Positions = append(g.Positions, v[0], v[1], v[2])
			g.Normals = append(g.Normals, normal[0], normal[1], normal[2])
			g.UVs = append(g.UVs, uv[0], -uv[1])
		}
	}

	return g, nil
}

// PlanarUVs projects vertices onto the XY plane, mapping each axis range to [0, 1].
// The range of each axis always includes 0.
func PlanarUVs(vertices [][3]float32) [][2]float32 {
	xs := make([]float32, len(vertices))
	ys := make([]float32, len(vertices))
	for i, v := range vertices {
		xs[i], ys[i] = v[0], v[1]
	}
	minX, maxX := zeroSeededRange(xs)
	minY, maxY := zeroSeededRange(ys)

	uvs := make([][2]float32, len(vertices))
	for i, v := range vertices {
		uvs[i] = [2]float32{
			(v[0] - minX) / (maxX - minX),
			(v[1] - minY) / (maxY - minY),
		}
	}
	return uvs
}

// ScaleFactor returns 2 / (|max| + |min|) over every vertex component, with
// min and max starting at 0.
func ScaleFactor(vertices [][3]float32) float32 {
	flat := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		flat = append(flat, v[0], v[1], v[2])
	}
	lo, hi := zeroSeededRange(flat)
	return 2 / (mgl32.Abs(hi) + mgl32.Abs(lo))
}

func checkFaces(faces [][3]uint16, vertexCount, uvCount int) error {
	for i, face := range faces {
		for _, vid := range face {
			if int(vid) >= vertexCount {
				return errors.Wrapf(ErrVertexOutOfRange, "face %d index %d of %d", i, vid, vertexCount)
			}
			if int(vid) >= uvCount {
				return errors.Wrapf(ErrTexCoordOutOfRange, "face %d index %d of %d", i, vid, uvCount)
			}
		}
	}
	return nil
}
