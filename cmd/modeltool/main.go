// modeltool is a CLI utility for inspecting and loading 3DS models.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/loader3ds/internal/config"
	"github.com/Faultbox/loader3ds/internal/loader"
	"github.com/Faultbox/loader3ds/internal/logger"
	"github.com/Faultbox/loader3ds/internal/model"
	"github.com/Faultbox/loader3ds/internal/texture"
	"github.com/Faultbox/loader3ds/pkg/encoding"
	"github.com/Faultbox/loader3ds/pkg/formats"
)

func main() {
	flag.Usage = printUsage
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "chunks", "tree":
		cmdChunks(args)
	case "load":
		cmdLoad(cfg, args)
	case "catalog":
		cmdCatalog(cfg)
	case "config":
		cmdConfig(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		exit(1)
	}
}

func printUsage() {
	fmt.Println(`modeltool - 3DS model utility

Usage:
  modeltool [flags] <command> [options]

Flags:
  -config <path>     Config file (default: ./config.yaml or the user config dir)
  -textures <dir>    Texture directory
  -models <dir>      Model directory used by the catalog
  -log-file <path>   Also write logs to a rotated file
  -debug             Enable debug logging

Commands:
  info <file.3ds>                        Show meshes, materials and texture bindings
  chunks <file.3ds>                      Print the chunk tree
  load <file.3ds> [-texture n] [-scale v] Build the model and print its geometry
  catalog                                Load every model in the configured catalog
  config [-o path] [-save]               Print or save the effective config

Examples:
  modeltool info models/car.3ds
  modeltool -textures ./tex load -texture red_car -scale 0.5 models/car.3ds
  modeltool -config loader.yaml catalog`)
}

// exit flushes the logger before leaving, which os.Exit alone would skip.
func exit(code int) {
	logger.Sync()
	os.Exit(code)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	exit(1)
}

// newResolver opens the configured texture directory. A missing directory
// only disables texture binding.
func newResolver(cfg *config.Config) (formats.TextureResolver, *texture.DirResolver) {
	if cfg.Textures.Dir == "" {
		return nil, nil
	}
	dr, err := texture.NewDirResolver(cfg.Textures.Dir, cfg.Textures.Default, logger.Named("texture"))
	if err != nil {
		logger.Warn("textures disabled", zap.String("dir", cfg.Textures.Dir), zap.Error(err))
		return nil, nil
	}
	return dr, dr
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: modeltool info <file.3ds>")
		exit(1)
	}

	res, _ := newResolver(cfg)
	decodeName, err := encoding.NameDecoder(cfg.Models.Charset)
	if err != nil {
		fail(err)
	}
	opts := formats.ParseOptions{Textures: res, Logger: logger.Named("parser"), DecodeName: decodeName}
	if res != nil {
		opts.DefaultTexture = res.Default()
	}

	tds, err := formats.Parse3DSFile(args[0], opts)
	if tds == nil {
		fail(err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Bytes:     %d\n", tds.BytesRead)
	fmt.Printf("Meshes:    %d\n", len(tds.Meshes))
	fmt.Printf("Vertices:  %d\n", tds.TotalVertexCount())
	fmt.Printf("Faces:     %d\n", tds.TotalFaceCount())
	fmt.Printf("Materials: %d\n", len(tds.Materials))

	if len(tds.Materials) > 0 {
		fmt.Println()
		fmt.Println("Materials:")
		for _, m := range tds.Materials {
			tex := m.Texture
			if tex == "" {
				tex = "-"
			}
			fmt.Printf("  %-24s %s\n", m.Name, tex)
		}
	}

	if len(tds.Meshes) > 0 {
		fmt.Println()
		fmt.Println("Meshes:")
		fmt.Printf("  %-24s %8s %8s %4s %s\n", "NAME", "VERTS", "FACES", "UV", "TEXTURE")
		for _, m := range tds.Meshes {
			uv := "no"
			if m.UVs != nil {
				uv = "yes"
			}
			tex := fmt.Sprintf("%d", m.Texture)
			if m.HasTexture {
				tex += " (material)"
			}
			fmt.Printf("  %-24s %8d %8d %4s %s\n", m.Name, len(m.Vertices), len(m.Faces), uv, tex)
		}
	}
}

func cmdChunks(args []string) {
	fs := flag.NewFlagSet("chunks", flag.ExitOnError)
	maxDepth := fs.Int("depth", 0, "Only print chunks up to this depth (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: modeltool chunks [-depth n] <file.3ds>")
		exit(1)
	}

	count := 0
	_, err := formats.Parse3DSFile(fs.Arg(0), formats.ParseOptions{
		Logger: logger.Named("parser"),
		OnChunk: func(depth int, offset int64, h formats.ChunkHeader) {
			count++
			if *maxDepth > 0 && depth >= *maxDepth {
				return
			}
			fmt.Printf("%8d  %s%-14s %d\n", offset, strings.Repeat("  ", depth), h.ID, h.Size)
		},
	})
	fmt.Printf("\n%d chunks\n", count)
	if err != nil {
		fail(err)
	}
}

func cmdLoad(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	tex := fs.String("texture", "", "Texture used instead of the configured default")
	scale := fs.Float64("scale", 0, "Rescale slider value applied after loading")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: modeltool load [-texture name] [-scale v] <file.3ds>")
		exit(1)
	}

	res, dr := newResolver(cfg)
	m, err := loader.LoadFile(fs.Arg(0), loader.Options{
		Resolver:        res,
		TextureOverride: *tex,
		Charset:         cfg.Models.Charset,
		Logger:          logger.Named("loader"),
	})
	if m == nil {
		fail(err)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	printModel(fs.Arg(0), m)

	if *scale != 0 {
		m.Rescale(float32(*scale))
		fmt.Printf("Rescaled:  %.6f (slider %.3f)\n", m.ScaleFactor(), *scale)
	}

	if dr != nil {
		if textures := dr.Textures(); len(textures) > 0 {
			fmt.Println()
			fmt.Println("Textures:")
			for _, t := range textures {
				fmt.Printf("  %3d  %-24s %4dx%-4d %s\n", t.Handle, t.Name, t.Width, t.Height, t.Path)
			}
		}
	}
}

func printModel(name string, m *model.Model) {
	s := m.Stats()
	b := m.Bounds()

	fmt.Printf("Model:     %s\n", name)
	fmt.Printf("Ready:     %v\n", m.Ready)
	fmt.Printf("Meshes:    %d\n", s.Meshes)
	fmt.Printf("Faces:     %d\n", s.Faces)
	fmt.Printf("Vertices:  %d\n", s.Vertices)
	fmt.Printf("Bounds:    %v - %v\n", b.Min, b.Max)
	fmt.Printf("Scale:     %.6f\n", m.InitialScaleFactor())

	if len(m.Meshes) > 0 {
		fmt.Println()
		fmt.Printf("  %-24s %8s %8s %10s %s\n", "NAME", "FACES", "VERTS", "SCALE", "TEXTURE")
		for _, g := range m.Meshes {
			fmt.Printf("  %-24s %8d %8d %10.4f %d\n", g.Name, g.FaceCount, g.VertexCount(), g.ScaleFactor, g.Texture)
		}
		fmt.Println()
	}
}

func cmdCatalog(cfg *config.Config) {
	if len(cfg.Models.Catalog) == 0 {
		fmt.Println("Catalog is empty")
		return
	}

	res, _ := newResolver(cfg)
	c := loader.NewCatalog(cfg.Models.Dir, cfg.Models.Catalog, loader.Options{
		Resolver: res,
		Charset:  cfg.Models.Charset,
		Logger:   logger.Named("loader"),
	})

	models, err := c.LoadAll()
	for _, e := range c.Entries() {
		m, ok := models[e.Resource]
		switch {
		case !ok:
			fmt.Printf("  %-32s failed\n", e.Resource)
		case !m.Ready:
			fmt.Printf("  %-32s partial, %d meshes\n", e.Resource, len(m.Meshes))
		default:
			s := m.Stats()
			fmt.Printf("  %-32s %d meshes, %d faces, scale %.4f\n", e.Resource, s.Meshes, s.Faces, m.ScaleFactor())
		}
	}

	if err != nil {
		errs := multierr.Errors(err)
		fmt.Fprintf(os.Stderr, "\n%d of %d models failed:\n", len(errs), len(c.Entries()))
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %v\n", e)
		}
		exit(1)
	}
}

func cmdConfig(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	out := fs.String("o", "", "Write the config to this path instead of stdout")
	save := fs.Bool("save", false, "Write the config to the user config directory")
	fs.Parse(args)

	if *save {
		path, err := cfg.Save()
		if err != nil {
			fail(err)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}
	if *out != "" {
		if err := cfg.SaveTo(*out); err != nil {
			fail(err)
		}
		fmt.Printf("Config written to %s\n", *out)
		return
	}

	data, err := cfg.Marshal()
	if err != nil {
		fail(err)
	}
	os.Stdout.Write(data)
}
