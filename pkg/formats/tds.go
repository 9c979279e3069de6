// Package formats provides parsers for binary 3D model formats.
// 3DS (Autodesk 3D Studio) chunk stream parser.
package formats

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// 3DS format errors.
var (
	ErrStreamExhausted = errors.New("3DS stream exhausted")
)

// ChunkHeaderSize is the size of the id + length prefix of every chunk.
const ChunkHeaderSize = 6

// ChunkID is the 16-bit tag of a 3DS chunk.
type ChunkID uint16

// Recognized chunk ids. Everything else is skipped.
const (
	ChunkMain         ChunkID = 0x4D4D // Root container
	ChunkEditor       ChunkID = 0x3D3D // 3D editor container
	ChunkObject       ChunkID = 0x4000 // Named object, starts a mesh
	ChunkTriMesh      ChunkID = 0x4100 // Triangle mesh container
	ChunkVertices     ChunkID = 0x4110 // Vertex list
	ChunkFaces        ChunkID = 0x4120 // Face list
	ChunkFaceMaterial ChunkID = 0x4130 // Face material binding
	ChunkUVs          ChunkID = 0x4140 // Texture coordinates
	ChunkMaterial     ChunkID = 0xAFFF // Material block container
	ChunkMaterialName ChunkID = 0xA000 // Material name
	ChunkTextureMap   ChunkID = 0xA200 // Texture map container
	ChunkMappingFile  ChunkID = 0xA300 // Texture map filename
)

// String returns a human-readable chunk name.
func (id ChunkID) String() string {
	switch id {
	case ChunkMain:
		return "Main"
	case ChunkEditor:
		return "Editor"
	case ChunkObject:
		return "Object"
	case ChunkTriMesh:
		return "TriMesh"
	case ChunkVertices:
		return "Vertices"
	case ChunkFaces:
		return "Faces"
	case ChunkFaceMaterial:
		return "FaceMaterial"
	case ChunkUVs:
		return "UVs"
	case ChunkMaterial:
		return "Material"
	case ChunkMaterialName:
		return "MaterialName"
	case ChunkTextureMap:
		return "TextureMap"
	case ChunkMappingFile:
		return "MappingFile"
	default:
		return fmt.Sprintf("Unknown(0x%04X)", uint16(id))
	}
}

// ChunkHeader is the prefix of every chunk. Size includes the header itself
// and any nested chunks.
type ChunkHeader struct {
	ID   ChunkID
	Size int32
}

// ParseOptions configures a 3DS parse.
type ParseOptions struct {
	// Textures resolves material texture names. May be nil.
	Textures TextureResolver
	// DefaultTexture is bound to meshes whose face material has no resolvable texture.
	DefaultTexture TextureHandle
	// Logger receives parse diagnostics. Nil disables logging.
	Logger *zap.Logger
	// DecodeName converts object, material and file names from the file's
	// code page. Nil keeps the stored bytes.
	DecodeName func(string) string
	// OnChunk, if set, is called for every chunk header with its nesting depth
	// and absolute offset.
	OnChunk func(depth int, offset int64, h ChunkHeader)
}

// chunkHandler decodes the payload of one chunk. Containers have a nil handler.
type chunkHandler func(p *parser, h ChunkHeader) error

var chunkHandlers = map[ChunkID]chunkHandler{
	ChunkMain:         nil,
	ChunkEditor:       nil,
	ChunkTriMesh:      nil,
	ChunkMaterial:     nil,
	ChunkTextureMap:   nil,
	ChunkObject:       (*parser).parseObject,
	ChunkVertices:     (*parser).parseVertices,
	ChunkFaces:        (*parser).parseFaces,
	ChunkFaceMaterial: (*parser).parseFaceMaterial,
	ChunkUVs:          (*parser).parseUVs,
	ChunkMaterialName: (*parser).parseMaterialName,
	ChunkMappingFile:  (*parser).parseMappingFile,
}

// withChildren lists data chunks whose payload is followed by nested chunks.
var withChildren = map[ChunkID]bool{
	ChunkObject: true,
	ChunkFaces:  true,
}

// frame is an open container and the absolute offset where it ends.
type frame struct {
	id  ChunkID
	end int64
}

// parser holds the state of one parse over one stream.
type parser struct {
	r      *Reader
	opts   ParseOptions
	log    *zap.Logger
	tds    *TDS
	frames []frame
}

// Parse3DS parses a 3DS stream until the end of its root chunk.
//
// On ErrStreamExhausted the returned TDS is not nil: it holds every mesh and
// material decoded before the stream ran out.
func Parse3DS(src io.Reader, opts ParseOptions) (*TDS, error) {
	p := &parser{
		r:    NewReader(src),
		opts: opts,
		log:  opts.Logger,
		tds:  &TDS{},
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}

	err := p.run()
	p.tds.BytesRead = p.r.Pos()
	return p.tds, err
}

// Parse3DSFile parses the 3DS file at path.
func Parse3DSFile(path string, opts ParseOptions) (*TDS, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening 3DS file")
	}
	defer f.Close()
	return Parse3DS(f, opts)
}

func (p *parser) run() error {
	root, err := p.readChunk()
	if err != nil {
		return err
	}
	limit := root.End(0)

	for p.r.Pos() < limit {
		if _, err := p.readChunk(); err != nil {
			return err
		}
	}
	return nil
}

// readChunk reads one chunk header and dispatches on its id.
func (p *parser) readChunk() (ChunkHeader, error) {
	p.popFrames()
	offset := p.r.Pos()

	h, err := p.readHeader()
	if err != nil {
		return h, errors.Wrapf(err, "chunk header at offset %d", offset)
	}
	if p.opts.OnChunk != nil {
		p.opts.OnChunk(len(p.frames), offset, h)
	}

	handler, known := chunkHandlers[h.ID]
	switch {
	case !known:
		err = p.r.Skip(int64(h.Size) - ChunkHeaderSize)
	case handler == nil:
		p.frames = append(p.frames, frame{id: h.ID, end: h.End(offset)})
	default:
		err = handler(p, h)
		if err == nil && withChildren[h.ID] && p.r.Pos() < h.End(offset) {
			p.frames = append(p.frames, frame{id: h.ID, end: h.End(offset)})
		}
	}
	if err != nil {
		return h, errors.Wrapf(err, "chunk %s at offset %d", h.ID, offset)
	}
	return h, nil
}

func (p *parser) readHeader() (ChunkHeader, error) {
	id, err := p.r.ReadUint16()
	if err != nil {
		return ChunkHeader{}, err
	}
	size, err := p.r.ReadInt32()
	if err != nil {
		return ChunkHeader{ID: ChunkID(id)}, err
	}
	return ChunkHeader{ID: ChunkID(id), Size: size}, nil
}

// popFrames closes every container whose extent the cursor has reached.
func (p *parser) popFrames() {
	pos := p.r.Pos()
	for len(p.frames) > 0 && pos >= p.frames[len(p.frames)-1].end {
		p.frames = p.frames[:len(p.frames)-1]
	}
}

func (p *parser) parseObject(h ChunkHeader) error {
	name, err := p.readName()
	if err != nil {
		return err
	}
	p.tds.startMesh(name)
	p.log.Debug("3ds object", zap.String("name", name))
	return nil
}

func (p *parser) parseVertices(h ChunkHeader) error {
	count, err := p.r.ReadUint16()
	if err != nil {
		return err
	}

	vertices := make([][3]float32, count)
	for i := range vertices {
		for j := 0; j < 3; j++ {
			if vertices[i][j], err = p.r.ReadFloat32(); err != nil {
				return err
			}
		}
	}

	if m := p.meshTarget(h); m != nil {
		m.Vertices = vertices
	}
	return nil
}

func (p *parser) parseFaces(h ChunkHeader) error {
	count, err := p.r.ReadUint16()
	if err != nil {
		return err
	}

	faces := make([][3]uint16, count)
	for i := range faces {
		for j := 0; j < 3; j++ {
			if faces[i][j], err = p.r.ReadUint16(); err != nil {
				return err
			}
		}
		// Face flag
		if _, err := p.r.ReadUint16(); err != nil {
			return err
		}
	}

	if m := p.meshTarget(h); m != nil {
		m.Faces = faces
	}
	return nil
}

// parseFaceMaterial binds a material's texture to the whole current mesh.
// The per-face index list is skipped.
func (p *parser) parseFaceMaterial(h ChunkHeader) error {
	name, err := p.readName()
	if err != nil {
		return err
	}
	count, err := p.r.ReadUint16()
	if err != nil {
		return err
	}
	if err := p.r.Skip(int64(count) * 2); err != nil {
		return err
	}

	m := p.meshTarget(h)
	if m == nil {
		return nil
	}

	if file, ok := p.tds.materialTexture(name); ok && p.opts.Textures != nil {
		if handle, found := p.opts.Textures.Resolve(strings.ToLower(file)); found {
			m.Texture = handle
			m.HasTexture = true
			return nil
		}
		p.log.Debug("3ds texture not found", zap.String("material", name), zap.String("texture", file))
	}
	// A texture bound by an earlier face-material chunk of the same mesh is kept.
	if !m.HasTexture {
		m.Texture = p.opts.DefaultTexture
	}
	return nil
}

func (p *parser) parseUVs(h ChunkHeader) error {
	count, err := p.r.ReadUint16()
	if err != nil {
		return err
	}

	uvs := make([][2]float32, count)
	for i := range uvs {
		if uvs[i][0], err = p.r.ReadFloat32(); err != nil {
			return err
		}
		if uvs[i][1], err = p.r.ReadFloat32(); err != nil {
			return err
		}
	}

	if m := p.meshTarget(h); m != nil {
		m.UVs = uvs
	}
	return nil
}

func (p *parser) parseMaterialName(h ChunkHeader) error {
	name, err := p.readName()
	if err != nil {
		return err
	}
	p.tds.addMaterial(name)
	return nil
}

func (p *parser) parseMappingFile(h ChunkHeader) error {
	file, err := p.readName()
	if err != nil {
		return err
	}

	mat := p.tds.currentMaterial()
	if mat == nil {
		p.log.Warn("3ds mapping filename outside material", zap.String("file", file))
		return nil
	}
	mat.Texture = stripExtension(file)
	return nil
}

// readName reads a null-terminated name and converts it with DecodeName.
func (p *parser) readName() (string, error) {
	s, err := p.r.ReadString()
	if err != nil || p.opts.DecodeName == nil {
		return s, err
	}
	return p.opts.DecodeName(s), nil
}

// meshTarget returns the current mesh, or nil (with a warning) when a data
// chunk appears before any object chunk.
func (p *parser) meshTarget(h ChunkHeader) *TDSMesh {
	m := p.tds.currentMesh()
	if m == nil {
		p.log.Warn("3ds mesh data outside object", zap.Stringer("chunk", h.ID))
	}
	return m
}

// stripExtension returns name up to its last '.'.
func stripExtension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

// End returns the absolute offset just past a chunk that starts at offset.
func (h ChunkHeader) End(offset int64) int64 {
	return offset + int64(h.Size)
}
