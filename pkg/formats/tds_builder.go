package formats

// TextureHandle is an opaque texture reference handed out by a TextureResolver.
// NoTexture (zero) means no texture has been bound.
type TextureHandle uint32

// NoTexture is the zero handle.
const NoTexture TextureHandle = 0

// TextureResolver maps lower-cased, extension-less texture names to handles.
type TextureResolver interface {
	// Resolve returns the handle for name and whether the texture is known.
	Resolve(name string) (TextureHandle, bool)
	// Default returns the fallback handle used when nothing else applies.
	Default() TextureHandle
}

// TDSMesh is the raw data of one OBJECT chunk.
type TDSMesh struct {
	Name       string
	Vertices   [][3]float32 // nil until a vertex list chunk is read
	Faces      [][3]uint16  // vertex index triples
	UVs        [][2]float32 // nil when the mesh had no UV chunk
	Texture    TextureHandle
	HasTexture bool // set when a face-material chunk resolved a texture
}

// TDSMaterial is a material name with its optional texture file (extension stripped).
type TDSMaterial struct {
	Name    string
	Texture string
}

// TDS represents a parsed 3DS stream.
type TDS struct {
	Meshes    []*TDSMesh
	Materials []TDSMaterial
	BytesRead int64 // bytes consumed by the parse
}

// startMesh appends a new mesh which becomes the target of following data chunks.
func (t *TDS) startMesh(name string) *TDSMesh {
	m := &TDSMesh{Name: name}
	t.Meshes = append(t.Meshes, m)
	return m
}

// currentMesh returns the most recently started mesh, or nil.
func (t *TDS) currentMesh() *TDSMesh {
	if len(t.Meshes) == 0 {
		return nil
	}
	return t.Meshes[len(t.Meshes)-1]
}

func (t *TDS) addMaterial(name string) {
	t.Materials = append(t.Materials, TDSMaterial{Name: name})
}

// currentMaterial returns the most recently added material, or nil.
func (t *TDS) currentMaterial() *TDSMaterial {
	if len(t.Materials) == 0 {
		return nil
	}
	return &t.Materials[len(t.Materials)-1]
}

// materialTexture returns the texture file of the first material named name
// that has one.
func (t *TDS) materialTexture(name string) (string, bool) {
	for _, m := range t.Materials {
		if m.Name == name && m.Texture != "" {
			return m.Texture, true
		}
	}
	return "", false
}

// TotalVertexCount returns the number of vertices across all meshes.
func (t *TDS) TotalVertexCount() int {
	total := 0
	for _, m := range t.Meshes {
		total += len(m.Vertices)
	}
	return total
}

// TotalFaceCount returns the number of faces across all meshes.
func (t *TDS) TotalFaceCount() int {
	total := 0
	for _, m := range t.Meshes {
		total += len(m.Faces)
	}
	return total
}

// MeshByName returns the first mesh with the given name, or nil if not found.
func (t *TDS) MeshByName(name string) *TDSMesh {
	for _, m := range t.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// MaterialByName returns the first material with the given name, or nil if not found.
func (t *TDS) MaterialByName(name string) *TDSMaterial {
	for i := range t.Materials {
		if t.Materials[i].Name == name {
			return &t.Materials[i]
		}
	}
	return nil
}
