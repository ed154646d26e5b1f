package cache

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/spf13/afero"
)

var _ httpcache.Cache = (*Cache)(nil)

// Entry is one stored response.
type Entry struct {
	Key       string    `json:"key"`
	Response  []byte    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
	TTL       int       `json:"ttl"`
}

// Cache is a file-per-entry response cache.
type Cache struct {
	fs         afero.Fs
	dir        string
	ttlSeconds int
	enabled    bool
	log        *slog.Logger
}

// New creates a Cache in dir, or in the default cache directory when dir is
// empty. A disabled cache never stores anything.
func New(fsys afero.Fs, enabled bool, dir string, ttlSeconds int) (*Cache, error) {
	if !enabled {
		return &Cache{enabled: false}, nil
	}
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{
		fs:         fsys,
		dir:        dir,
		ttlSeconds: ttlSeconds,
		enabled:    true,
		log:        slog.Default(),
	}, nil
}

// Get returns the stored response for key. Expired entries are removed.
func (c *Cache) Get(key string) ([]byte, bool) {
	if !c.enabled {
		return nil, false
	}
	path := c.entryPath(key)
	data, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, false
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.log.Debug("dropping unreadable cache entry", "path", path, "err", err)
		c.fs.Remove(path)
		return nil, false
	}
	if c.expired(entry) {
		c.fs.Remove(path)
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response. Failures are logged; a cache write never fails a
// request.
func (c *Cache) Set(key string, response []byte) {
	if !c.enabled {
		return
	}
	entry := Entry{
		Key:       HashKey(key),
		Response:  response,
		CreatedAt: time.Now(),
		TTL:       c.ttlSeconds,
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.log.Debug("marshaling cache entry", "err", err)
		return
	}
	if err := afero.WriteFile(c.fs, c.entryPath(key), data, 0o644); err != nil {
		c.log.Debug("writing cache entry", "err", err)
	}
}

// Delete removes the entry for key.
func (c *Cache) Delete(key string) {
	if !c.enabled {
		return
	}
	c.fs.Remove(c.entryPath(key))
}

// Clear removes all cache entries.
func (c *Cache) Clear() error {
	if !c.enabled || c.dir == "" {
		return nil
	}
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" {
			if err := c.fs.Remove(filepath.Join(c.dir, e.Name())); err != nil {
				return fmt.Errorf("removing cache entry: %w", err)
			}
		}
	}
	return nil
}

// Stats summarises the cache contents.
type Stats struct {
	Dir        string `json:"dir"`
	Entries    int    `json:"entries"`
	TotalBytes int64  `json:"totalBytes"`
	Expired    int    `json:"expired"`
}

// GetStats returns information about the cache.
func (c *Cache) GetStats() (Stats, error) {
	stats := Stats{Dir: c.dir}
	if !c.enabled || c.dir == "" {
		return stats, nil
	}
	entries, err := afero.ReadDir(c.fs, c.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return stats, nil
		}
		return stats, fmt.Errorf("reading cache directory: %w", err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".json" {
			continue
		}
		stats.Entries++
		stats.TotalBytes += e.Size()

		data, err := afero.ReadFile(c.fs, filepath.Join(c.dir, e.Name()))
		if err != nil {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		if c.expired(entry) {
			stats.Expired++
		}
	}
	return stats, nil
}

// Dir returns the cache directory path.
func (c *Cache) Dir() string {
	return c.dir
}

// Enabled returns whether caching is enabled.
func (c *Cache) Enabled() bool {
	return c.enabled
}

// HashKey creates a SHA-256 hash of the given key material.
func HashKey(key string) string {
	h := sha256.Sum256([]byte(key))
	return fmt.Sprintf("%x", h)
}

func (c *Cache) expired(e Entry) bool {
	return c.ttlSeconds > 0 && time.Since(e.CreatedAt) > time.Duration(c.ttlSeconds)*time.Second
}

func (c *Cache) entryPath(key string) string {
	return filepath.Join(c.dir, HashKey(key)+".json")
}

// DefaultDir returns the per-user cache directory for prr.
func DefaultDir() (string, error) {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "prr"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "prr"), nil
	case "windows":
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			return filepath.Join(localAppData, "prr", "cache"), nil
		}
		return filepath.Join(home, "AppData", "Local", "prr", "cache"), nil
	default:
		return filepath.Join(home, ".cache", "prr"), nil
	}
}
