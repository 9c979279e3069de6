// Package texture resolves material texture names to stable handles.
package texture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"

	"github.com/Faultbox/loader3ds/pkg/formats"
)

// Extensions searched by DirResolver, in priority order.
var Extensions = []string{".png", ".jpg", ".jpeg", ".bmp", ".tga"}

// Texture describes a resolved texture.
type Texture struct {
	Handle formats.TextureHandle
	Name   string
	Path   string
	Width  int
	Height int
}

// StaticResolver resolves names from a fixed table.
type StaticResolver struct {
	Handles       map[string]formats.TextureHandle
	DefaultHandle formats.TextureHandle
}

// Resolve returns the handle registered for name.
func (s *StaticResolver) Resolve(name string) (formats.TextureHandle, bool) {
	h, ok := s.Handles[name]
	return h, ok
}

// Default returns the fallback handle.
func (s *StaticResolver) Default() formats.TextureHandle {
	return s.DefaultHandle
}

// DirResolver resolves names against image files in a directory. Each
// decodable image gets a handle, starting at 1, that stays stable for the
// life of the resolver.
type DirResolver struct {
	dir         string
	defaultName string
	log         *zap.Logger

	mu       sync.Mutex
	files    map[string]string // lower-cased name without extension -> path
	textures map[string]*Texture
	missing  map[string]bool
	nextID   formats.TextureHandle
}

// NewDirResolver indexes the image files in dir. defaultName is resolved
// lazily by Default.
func NewDirResolver(dir, defaultName string, log *zap.Logger) (*DirResolver, error) {
	if log == nil {
		log = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading texture dir: %w", err)
	}

	r := &DirResolver{
		dir:         dir,
		defaultName: strings.ToLower(defaultName),
		log:         log,
		files:       make(map[string]string),
		textures:    make(map[string]*Texture),
		missing:     make(map[string]bool),
		nextID:      1,
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		rank := extRank(ext)
		if rank < 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
		if prev, ok := r.files[key]; ok && extRank(strings.ToLower(filepath.Ext(prev))) <= rank {
			continue
		}
		r.files[key] = filepath.Join(dir, e.Name())
	}

	log.Debug("texture dir indexed", zap.String("dir", dir), zap.Int("files", len(r.files)))
	return r, nil
}

// Resolve loads the texture named name on first use and returns its handle.
func (r *DirResolver) Resolve(name string) (formats.TextureHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	if t, ok := r.textures[key]; ok {
		return t.Handle, true
	}
	if r.missing[key] {
		return formats.NoTexture, false
	}

	path, ok := r.files[key]
	if !ok {
		r.missing[key] = true
		return formats.NoTexture, false
	}

	width, height, err := decodeSize(path)
	if err != nil {
		r.log.Warn("texture decode failed", zap.String("path", path), zap.Error(err))
		r.missing[key] = true
		return formats.NoTexture, false
	}

	t := &Texture{Handle: r.nextID, Name: key, Path: path, Width: width, Height: height}
	r.nextID++
	r.textures[key] = t
	r.log.Debug("texture loaded",
		zap.String("name", key),
		zap.Uint32("handle", uint32(t.Handle)),
		zap.Int("width", width),
		zap.Int("height", height))
	return t.Handle, true
}

// Default resolves the configured default texture, or NoTexture if it is missing.
func (r *DirResolver) Default() formats.TextureHandle {
	if r.defaultName == "" {
		return formats.NoTexture
	}
	h, _ := r.Resolve(r.defaultName)
	return h
}

// Textures returns every texture resolved so far, ordered by handle.
func (r *DirResolver) Textures() []Texture {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Texture, len(r.textures))
	for _, t := range r.textures {
		out[t.Handle-1] = *t
	}
	return out
}

func extRank(ext string) int {
	for i, e := range Extensions {
		if e == ext {
			return i
		}
	}
	return -1
}

// decodeSize decodes the image at path and returns its dimensions.
func decodeSize(path string) (int, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, 0, err
	}

	var img image.Image
	if strings.EqualFold(filepath.Ext(path), ".tga") {
		img, err = DecodeTGA(data)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return 0, 0, err
	}
	b := img.Bounds()
	return b.Dx(), b.Dy(), nil
}
