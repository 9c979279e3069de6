package model

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/loader3ds/pkg/formats"
)

// Model is the finished set of meshes of one 3DS file, drawn with one
// model-wide scale factor.
type Model struct {
	Meshes []Geometry
	// Ready is set once the whole stream was consumed without a stream error.
	Ready bool

	initialScale float32

	mu    sync.RWMutex
	scale float32
}

// Build processes every mesh that has vertices. Meshes without vertices are
// dropped; meshes with broken face indices are skipped with a warning.
// The model scale is the largest mesh scale factor.
func Build(tds *formats.TDS, log *zap.Logger) *Model {
	if log == nil {
		log = zap.NewNop()
	}

	m := &Model{}
	for _, mesh := range tds.Meshes {
		if len(mesh.Vertices) == 0 {
			continue
		}

		g, err := BuildGeometry(mesh)
		if err != nil {
			log.Warn("skipping mesh", zap.String("mesh", mesh.Name), zap.Error(err))
			continue
		}
		m.Meshes = append(m.Meshes, *g)

		if g.ScaleFactor > m.initialScale {
			m.initialScale = g.ScaleFactor
		}
	}
	m.scale = m.initialScale

	log.Debug("model built",
		zap.Int("meshes", len(m.Meshes)),
		zap.Float32("scale", m.initialScale))
	return m
}

// ScaleFactor returns the active scale factor.
func (m *Model) ScaleFactor() float32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scale
}

// InitialScaleFactor returns the scale factor computed when the model was built.
func (m *Model) InitialScaleFactor() float32 {
	return m.initialScale
}

// Rescale sets the active scale to initial + initial*v. v is typically a
// slider position in [0, 1] but is not clamped.
func (m *Model) Rescale(v float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scale = m.initialScale + m.initialScale*v
}

// Bounds returns the bounding box of all emitted positions.
func (m *Model) Bounds() Bounds {
	var b Bounds
	first := true
	for i := range m.Meshes {
		pos := m.Meshes[i].Positions
		for j := 0; j+2 < len(pos); j += 3 {
			p := [3]float32{pos[j], pos[j+1], pos[j+2]}
			if first {
				b.Min, b.Max = p, p
				first = false
				continue
			}
			updateBounds(&b, p)
		}
	}
	return b
}

// Stats returns mesh, face and emitted vertex counts.
func (m *Model) Stats() Stats {
	s := Stats{Meshes: len(m.Meshes)}
	for i := range m.Meshes {
		s.Faces += m.Meshes[i].FaceCount
		s.Vertices += m.Meshes[i].VertexCount()
	}
	return s
}
