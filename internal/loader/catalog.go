package loader

import (
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/loader3ds/internal/config"
	"github.com/Faultbox/loader3ds/internal/model"
)

// Catalog loads the models listed in the configuration and caches them by
// resource name.
type Catalog struct {
	dir     string
	entries []config.ModelEntry
	opts    Options

	mu     sync.Mutex
	models map[string]*model.Model

	// Stats
	hits   int
	misses int
}

// NewCatalog creates a catalog over entries whose resources live in dir.
// opts.TextureOverride is replaced per entry.
func NewCatalog(dir string, entries []config.ModelEntry, opts Options) *Catalog {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Catalog{
		dir:     dir,
		entries: entries,
		opts:    opts,
		models:  make(map[string]*model.Model),
	}
}

// Entries returns the catalog entries in declaration order.
func (c *Catalog) Entries() []config.ModelEntry {
	return c.entries
}

// Get returns the model for resource, loading it on first use. Only
// complete models are cached; an incomplete one is returned with its error.
func (c *Catalog) Get(resource string) (*model.Model, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.models[resource]; ok {
		c.hits++
		return m, nil
	}
	c.misses++

	opts := c.opts
	opts.TextureOverride = ""
	for _, e := range c.entries {
		if e.Resource == resource {
			opts.TextureOverride = e.Texture
			break
		}
	}

	m, err := LoadFile(filepath.Join(c.dir, resource), opts)
	if err != nil {
		return m, err
	}
	c.models[resource] = m
	return m, nil
}

// LoadAll loads every entry in order. Failing entries do not stop the
// others; their errors are combined. Partial models are included.
func (c *Catalog) LoadAll() (map[string]*model.Model, error) {
	out := make(map[string]*model.Model, len(c.entries))
	var errs error
	for _, e := range c.entries {
		m, err := c.Get(e.Resource)
		if m != nil {
			out[e.Resource] = m
		}
		if err != nil {
			c.opts.Logger.Warn("catalog entry failed", zap.String("resource", e.Resource), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
	}
	return out, errs
}

// Clear drops every cached model.
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.models = make(map[string]*model.Model)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Catalog) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
