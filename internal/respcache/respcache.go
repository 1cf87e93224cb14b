// Package respcache is the terminal's on-disk network-response cache.
//
// It is a separate storage domain from the durable store: clearing it is
// always safe and never touches locations, transactions, or settings. The
// upstream client writes successful GET bodies through it so a fresh
// service restart can inspect what the terminal last saw, and housekeeping
// can report and reclaim the space.
package respcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Cache is a directory of response bodies keyed by request URL.
type Cache struct {
	dir string
}

// New creates (or reuses) a cache rooted at dir.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create response cache dir: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Put stores a response body under the given key, replacing any previous
// entry. Errors are returned but callers at the sync boundary log and
// continue - a failed cache write must never fail a fetch.
func (c *Cache) Put(key string, body []byte) error {
	if err := os.WriteFile(c.entryPath(key), body, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Get returns the cached body for a key and whether it was present.
func (c *Cache) Get(key string) ([]byte, bool) {
	body, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return nil, false
	}
	return body, true
}

// SizeBytes sums the sizes of every cache entry. Purely observational.
func (c *Cache) SizeBytes() (int64, error) {
	var total int64
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk response cache: %w", err)
	}
	return total, nil
}

// Clear deletes every entry. Unconditional and irreversible; the durable
// store is untouched.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("read response cache dir: %w", err)
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(c.dir, entry.Name())); err != nil {
			return fmt.Errorf("remove cache entry %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// entryPath hashes the key so arbitrary URLs map to safe file names.
func (c *Cache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:]))
}
