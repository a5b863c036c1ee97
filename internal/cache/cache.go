package cache

import (
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const fileExt = ".audio"

// Cache is a disk-backed LRU cache for synthesized audio artifacts.
type Cache struct {
	mu       sync.Mutex
	dir      string
	maxBytes int64
	used     int64
	log      *slog.Logger
	entries  map[string]*entry
}

type entry struct {
	size     int64
	lastUsed time.Time
	path     string
}

// New creates a Cache rooted at dir with a total size cap of maxBytes.
// dir is created if missing and existing entries are indexed by mod time.
func New(dir string, maxBytes int64, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if maxBytes <= 0 {
		return nil, fmt.Errorf("cache: max size must be positive, got %d", maxBytes)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: create dir: %w", err)
	}
	c := &Cache{
		dir:      dir,
		maxBytes: maxBytes,
		log:      logger.With("component", "cache"),
		entries:  make(map[string]*entry),
	}
	c.index()
	return c, nil
}

// Key derives a stable hex key from the inputs that determine the audio bytes.
// The provider is part of the key because the cache directory outlives a
// provider switch.
func Key(provider, text, voiceID, engine, format string) string {
	h := sha256.New()
	fmt.Fprintf(h, "provider=%s\nvoice=%s\nengine=%s\nformat=%s\ntext=%s", provider, voiceID, engine, format, text)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Get returns the cached audio for key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(e.path)
	if err != nil {
		c.log.Warn("cache file unreadable, dropping entry", "key", key, "error", err)
		c.drop(key)
		return nil, false
	}
	e.lastUsed = time.Now()
	return data, true
}

// Put stores data under key, evicting least recently used entries to make room.
// Data larger than the cache itself is skipped.
func (c *Cache) Put(key string, data []byte) error {
	size := int64(len(data))
	if size > c.maxBytes {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[key]; ok {
		c.drop(key)
	}
	c.evict(size)

	p := filepath.Join(c.dir, key+fileExt)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("cache: write: %w", err)
	}
	c.entries[key] = &entry{size: size, lastUsed: time.Now(), path: p}
	c.used += size
	return nil
}

// Size reports the bytes currently held.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// drop removes key and its file. Caller holds mu.
func (c *Cache) drop(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
		c.log.Warn("cache: remove file", "path", e.path, "error", err)
	}
	delete(c.entries, key)
	c.used -= e.size
}

// evict frees space until needed more bytes fit. Caller holds mu.
func (c *Cache) evict(needed int64) {
	for c.used+needed > c.maxBytes && len(c.entries) > 0 {
		var victim string
		var oldest time.Time
		for k, e := range c.entries {
			if victim == "" || e.lastUsed.Before(oldest) {
				victim, oldest = k, e.lastUsed
			}
		}
		size := c.entries[victim].size
		c.drop(victim)
		c.log.Debug("evicted cache entry", "key", victim, "size", size)
	}
}

func (c *Cache) index() {
	matches, err := filepath.Glob(filepath.Join(c.dir, "*"+fileExt))
	if err != nil {
		c.log.Warn("cache: glob existing files", "error", err)
		return
	}
	for _, p := range matches {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		key := strings.TrimSuffix(filepath.Base(p), fileExt)
		c.entries[key] = &entry{size: info.Size(), lastUsed: info.ModTime(), path: p}
		c.used += info.Size()
	}
	if len(c.entries) > 0 {
		c.log.Info("loaded existing cache entries", "count", len(c.entries), "total_bytes", c.used)
		// The size cap may have shrunk since the files were written.
		c.evict(0)
	}
}
