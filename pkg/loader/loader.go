package loader

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/OFFIS-RIT/ifcfilter/pkg/ifc"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"golang.org/x/sync/singleflight"
)

// ModelFile points at a stored IFC or IFCZIP model.
//
// The actual bytes are retrieved via the associated ModelFileLoader.
type ModelFile struct {
	ID       string
	FilePath string
	Loader   ModelFileLoader
}

// ModelFileLoader defines the interface for loading the raw contents of a
// ModelFile. Implementations may load files from disk, object storage, or
// other sources.
type ModelFileLoader interface {
	GetFileBytes(ctx context.Context, file ModelFile) ([]byte, error)
}

// CacheKey identifies a file in loader caches.
func CacheKey(file ModelFile) string {
	if file.ID != "" {
		return file.ID
	}
	return file.FilePath
}

// Name is the base name used to tell IFC from IFCZIP content.
func (f ModelFile) Name() string {
	return path.Base(f.FilePath)
}

// GetBytes returns the raw file contents.
func (f ModelFile) GetBytes(ctx context.Context) ([]byte, error) {
	if f.Loader == nil {
		return nil, fmt.Errorf("no loader configured for %s", f.FilePath)
	}
	return f.Loader.GetFileBytes(ctx, f)
}

// GetModel loads and parses the model. Every call returns a fresh Model, so
// callers may mutate it freely.
func (f ModelFile) GetModel(ctx context.Context) (*ifc.Model, error) {
	data, err := f.GetBytes(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := ifc.Load(f.Name(), data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", f.FilePath, err)
	}
	return m, nil
}

// DefaultCacheEntries bounds how many files a loader keeps in memory.
const DefaultCacheEntries = 8

// Cache deduplicates concurrent fetches of the same file and keeps the most
// recently fetched files. The oldest entry is evicted first.
type Cache struct {
	max int

	mu      sync.RWMutex
	entries *orderedmap.OrderedMap[string, []byte]
	group   singleflight.Group
}

func NewCache(maxEntries int) *Cache {
	if maxEntries <= 0 {
		maxEntries = DefaultCacheEntries
	}
	return &Cache{
		max:     maxEntries,
		entries: orderedmap.New[string, []byte](),
	}
}

func (c *Cache) lookup(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Get(key)
}

func (c *Cache) store(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Set(key, data)
	for c.entries.Len() > c.max {
		oldest := c.entries.Oldest()
		if oldest == nil {
			break
		}
		c.entries.Delete(oldest.Key)
	}
}

// Forget drops key from the cache.
func (c *Cache) Forget(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Delete(key)
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Get returns the cached bytes for key or calls fetch once, even when many
// goroutines ask for the same key at the same time.
func (c *Cache) Get(key string, fetch func() ([]byte, error)) ([]byte, error) {
	if cached, ok := c.lookup(key); ok {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if cached, ok := c.lookup(key); ok {
			return cached, nil
		}
		data, err := fetch()
		if err != nil {
			return nil, err
		}
		c.store(key, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}
