// Package loader runs the full 3DS pipeline: parse, build geometry, bind
// textures and compute the model scale.
package loader

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Faultbox/loader3ds/internal/model"
	"github.com/Faultbox/loader3ds/pkg/encoding"
	"github.com/Faultbox/loader3ds/pkg/formats"
)

// Options configures Load.
type Options struct {
	// Resolver binds material texture names to handles. May be nil, in
	// which case every mesh gets formats.NoTexture.
	Resolver formats.TextureResolver
	// TextureOverride names the texture used as the default for this model
	// instead of Resolver.Default().
	TextureOverride string
	// Charset is the code page of names stored in the file, e.g.
	// "windows-1252". Empty keeps names as stored.
	Charset string
	Logger  *zap.Logger
	OnChunk func(depth int, offset int64, h formats.ChunkHeader)
}

// Load parses a 3DS stream and builds its model. If the stream ends early
// the partial model is returned with Ready unset, together with an error
// that matches formats.ErrStreamExhausted.
func Load(r io.Reader, opts Options) (*model.Model, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	decodeName, err := encoding.NameDecoder(opts.Charset)
	if err != nil {
		return nil, errors.Wrap(err, "name charset")
	}

	tds, err := formats.Parse3DS(r, formats.ParseOptions{
		Textures:       opts.Resolver,
		DefaultTexture: defaultTexture(opts, log),
		Logger:         log.Named("parser"),
		DecodeName:     decodeName,
		OnChunk:        opts.OnChunk,
	})
	m := model.Build(tds, log.Named("model"))

	if err != nil {
		log.Warn("model incomplete",
			zap.Int("meshes", len(m.Meshes)),
			zap.Int64("bytes", tds.BytesRead),
			zap.Error(err))
		return m, err
	}

	m.Ready = true
	log.Debug("model loaded",
		zap.Int("meshes", len(m.Meshes)),
		zap.Int("materials", len(tds.Materials)),
		zap.Int64("bytes", tds.BytesRead),
		zap.Float32("scale", m.ScaleFactor()))
	return m, nil
}

// LoadFile opens path and loads it with Load.
func LoadFile(path string, opts Options) (*model.Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening model %s", path)
	}
	defer f.Close()

	if opts.Logger != nil {
		opts.Logger = opts.Logger.With(zap.String("file", path))
	}
	m, err := Load(f, opts)
	if err != nil {
		return m, errors.Wrapf(err, "loading model %s", path)
	}
	return m, nil
}

// defaultTexture resolves the override, falling back to the resolver default.
func defaultTexture(opts Options, log *zap.Logger) formats.TextureHandle {
	if opts.Resolver == nil {
		return formats.NoTexture
	}
	if opts.TextureOverride != "" {
		if h, ok := opts.Resolver.Resolve(strings.ToLower(opts.TextureOverride)); ok {
			return h
		}
		log.Warn("texture override not found", zap.String("texture", opts.TextureOverride))
	}
	return opts.Resolver.Default()
}
