package reader

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Cache stores annotation text under deterministic keys. Implementations
// must be safe for concurrent use.
type Cache interface {
	Get(key string) (string, bool)
	Put(key, value string) error
}

// DefaultMaxEntries bounds the in-memory cache. The corpus and query space
// are small in the target deployment, so a simple cap is enough.
const DefaultMaxEntries = 10000

// MemoryCache is a size-bounded in-process cache. When the cap is reached,
// new entries are still accepted and an arbitrary existing entry is evicted.
type MemoryCache struct {
	mu         sync.RWMutex
	entries    map[string]string
	maxEntries int
}

// NewMemoryCache creates a cache bounded to maxEntries entries.
// A non-positive maxEntries uses DefaultMaxEntries.
func NewMemoryCache(maxEntries int) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &MemoryCache{
		entries:    make(map[string]string),
		maxEntries: maxEntries,
	}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put implements Cache.
func (c *MemoryCache) Put(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		for k := range c.entries {
			delete(c.entries, k)
			break
		}
	}
	c.entries[key] = value
	return nil
}

// Len returns the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cacheEntry is one line of the JSONL cache file.
type cacheEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// FileCache is a JSONL-append cache that survives process restarts. All
// entries are loaded at open; writes append one line per new entry.
type FileCache struct {
	mu      sync.Mutex
	entries map[string]string
	path    string
}

// OpenFileCache opens (or creates) a JSONL cache file at path.
func OpenFileCache(path string) (*FileCache, error) {
	c := &FileCache{
		entries: make(map[string]string),
		path:    path,
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	buf := make([]byte, 1024*1024)
	scanner.Buffer(buf, 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry cacheEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("parsing cache line %d: %w", lineNum, err)
		}
		c.entries[entry.Key] = entry.Value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading cache file: %w", err)
	}

	return c, nil
}

// Get implements Cache.
func (c *FileCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[key]
	return v, ok
}

// Put implements Cache.
func (c *FileCache) Put(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; exists {
		return nil
	}

	f, err := os.OpenFile(c.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening cache file for append: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(cacheEntry{Key: key, Value: value})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("appending cache entry: %w", err)
	}

	c.entries[key] = value
	return nil
}
