package io

import (
	"context"
	"os"

	"github.com/OFFIS-RIT/ifcfilter/pkg/loader"
)

// IOModelFileLoader loads files directly from the local filesystem with caching.
type IOModelFileLoader struct {
	cache *loader.Cache
}

// NewIOModelFileLoader creates a new filesystem-based file loader.
func NewIOModelFileLoader(maxEntries int) *IOModelFileLoader {
	return &IOModelFileLoader{
		cache: loader.NewCache(maxEntries),
	}
}

// GetFileBytes reads the file content from the filesystem. Results are cached.
func (l *IOModelFileLoader) GetFileBytes(ctx context.Context, file loader.ModelFile) ([]byte, error) {
	return l.cache.Get(loader.CacheKey(file), func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return os.ReadFile(file.FilePath)
	})
}

// NewModelFile returns a ModelFile for path backed by l.
func (l *IOModelFileLoader) NewModelFile(path string) loader.ModelFile {
	return loader.ModelFile{ID: path, FilePath: path, Loader: l}
}
