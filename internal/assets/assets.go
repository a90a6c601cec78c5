// Package assets loads the scene's environment, character, textures and
// clips from disk, each on its own goroutine.
package assets

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sync"
)

// Source reads raw asset bytes from a root directory through a cache.
// Absolute paths bypass the root.
type Source struct {
	fsys  fs.FS
	root  string
	cache *Cache
}

// NewSource reads assets from the directory root.
func NewSource(root string) *Source {
	return &Source{fsys: os.DirFS(root), root: root, cache: NewCache()}
}

// NewSourceFS reads assets from fsys. Mostly useful in tests.
func NewSourceFS(fsys fs.FS) *Source {
	return &Source{fsys: fsys, cache: NewCache()}
}

// Load returns the bytes of name, from cache when possible.
func (s *Source) Load(name string) ([]byte, error) {
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	var (
		data []byte
		err  error
	)
	if filepath.IsAbs(name) {
		data, err = os.ReadFile(name)
	} else {
		data, err = fs.ReadFile(s.fsys, path.Clean(filepath.ToSlash(name)))
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	s.cache.Set(name, data)
	return data, nil
}

// Invalidate drops name from the cache so the next Load reads it again.
func (s *Source) Invalidate(name string) {
	s.cache.Delete(name)
}

// Path returns the filesystem path of name, or "" for sources not backed
// by a directory.
func (s *Source) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	if s.root == "" {
		return ""
	}
	return filepath.Join(s.root, filepath.FromSlash(name))
}

// Stats returns cache hit and miss counts.
func (s *Source) Stats() (hits, misses int) {
	return s.cache.Stats()
}

// Cache is a simple in-memory cache for loaded assets.
type Cache struct {
	data map[string][]byte
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string][]byte),
	}
}

// Get retrieves an item from cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return data, ok
}

// Set stores an item in cache.
func (c *Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
}

// Delete removes an item from cache.
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Clear clears the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string][]byte)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
