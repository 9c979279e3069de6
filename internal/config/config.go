// Package config handles loader configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/loader3ds/pkg/encoding"
)

// Config holds all loader settings.
type Config struct {
	Textures TexturesConfig `yaml:"textures"`
	Models   ModelsConfig   `yaml:"models"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TexturesConfig holds texture lookup settings.
type TexturesConfig struct {
	Dir     string `yaml:"dir"`     // Directory searched for texture images
	Default string `yaml:"default"` // Texture bound to meshes without a resolvable one
}

// ModelsConfig holds model file settings.
type ModelsConfig struct {
	Dir     string       `yaml:"dir"`
	Charset string       `yaml:"charset"` // Code page of names inside model files
	Catalog []ModelEntry `yaml:"catalog"`
}

// ModelEntry is one model in the catalog. Resource is a file name relative
// to ModelsConfig.Dir; Texture optionally overrides the default texture.
type ModelEntry struct {
	Resource string `yaml:"resource"`
	Texture  string `yaml:"texture,omitempty"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Textures: TexturesConfig{
			Dir:     "textures",
			Default: "default",
		},
		Models: ModelsConfig{
			Dir: "models",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that would make every load fail.
func (c *Config) Validate() error {
	if _, err := encoding.Lookup(c.Models.Charset); err != nil {
		return fmt.Errorf("models.charset: %w", err)
	}

	seen := make(map[string]bool, len(c.Models.Catalog))
	for i, e := range c.Models.Catalog {
		if e.Resource == "" {
			return fmt.Errorf("catalog entry %d: missing resource", i)
		}
		if seen[e.Resource] {
			return fmt.Errorf("catalog entry %d: duplicate resource %q", i, e.Resource)
		}
		seen[e.Resource] = true
	}
	return nil
}
