package mcpserver

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oasgate/oasgate/mock"
	"github.com/oasgate/oasgate/router"
	"github.com/oasgate/oasgate/spec"
	"github.com/oasgate/oasgate/validation"
)

// specInput represents the two ways a contract document can be provided to a
// tool. Exactly one of File or Content must be set.
type specInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a contract document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline contract document content (JSON or YAML)"`
}

// bundle is everything the tools need for one document, built once per cache
// entry: the document, its operation table, compiled validators, and the
// mock selector.
type bundle struct {
	doc        *spec.Document
	router     *router.Router
	validators *validation.ValidatorSet
	selector   *mock.Selector
}

// cacheEntry holds a cached bundle with LRU ordering and TTL expiry.
type cacheEntry struct {
	bundle    *bundle
	insertAt  time.Time
	expiresAt time.Time
}

// bundleCacheStore provides a session-scoped cache for compiled documents.
// File inputs are keyed by (absolutePath, modTime), so edits invalidate the
// entry automatically. Content inputs are keyed by a SHA-256 hash.
type bundleCacheStore struct {
	mu             sync.Mutex
	entries        map[string]*cacheEntry
	maxSize        int
	sweeperStarted atomic.Bool
}

var bundleCache = &bundleCacheStore{
	entries: make(map[string]*cacheEntry),
	maxSize: cfg.CacheMaxSize,
}

// get returns a cached bundle or nil. Expired entries are lazily removed.
func (c *bundleCacheStore) get(key string) *bundle {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
			delete(c.entries, key)
			return nil
		}
		// Touch entry for LRU.
		e.insertAt = time.Now()
		return e.bundle
	}
	return nil
}

// putWithTTL stores a bundle, evicting the oldest entry if at capacity.
func (c *bundleCacheStore) putWithTTL(key string, b *bundle, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	entry := &cacheEntry{bundle: b, insertAt: now, expiresAt: now.Add(ttl)}

	if _, ok := c.entries[key]; ok {
		c.entries[key] = entry
		return
	}

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.insertAt.Before(oldestTime) {
				oldestKey = k
				oldestTime = e.insertAt
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = entry
}

// sweep removes all expired entries from the cache.
func (c *bundleCacheStore) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := time.Now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// startSweeper launches a background goroutine that periodically removes
// expired entries. Safe to call multiple times; only the first call spawns a
// sweeper. It stops when ctx is cancelled.
func (c *bundleCacheStore) startSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	if !c.sweeperStarted.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer c.sweeperStarted.Store(false)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

// reset clears all cached entries. Used in tests.
func (c *bundleCacheStore) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}

// size returns the number of cached entries.
func (c *bundleCacheStore) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// makeCacheKey creates a cache key for the given spec input.
func makeCacheKey(s specInput) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return "" // Can't stat, don't cache.
		}
		return fmt.Sprintf("file:%s:%d", absPath, info.ModTime().UnixNano())
	case s.Content != "":
		h := sha256.Sum256([]byte(s.Content))
		return "content:" + hex.EncodeToString(h[:])
	default:
		return ""
	}
}

// resolve loads and compiles the document from whichever input was provided,
// using the cache when enabled.
func (s specInput) resolve() (*bundle, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}

	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set OASGATE_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	var ttl time.Duration
	if cfg.CacheEnabled {
		key = makeCacheKey(s)
		if s.File != "" {
			ttl = cfg.CacheFileTTL
		} else {
			ttl = cfg.CacheContentTTL
		}
	}

	if key != "" {
		if cached := bundleCache.get(key); cached != nil {
			return cached, nil
		}
	}

	var doc *spec.Document
	var err error
	if s.File != "" {
		doc, err = spec.LoadFile(s.File)
	} else {
		doc, err = spec.Load([]byte(s.Content))
	}
	if err != nil {
		return nil, err
	}

	table, err := router.NewTable(doc, "")
	if err != nil {
		return nil, err
	}
	validators, err := validation.NewCompiler(validation.NewEngine()).Build(table)
	if err != nil {
		return nil, err
	}

	b := &bundle{
		doc:        doc,
		router:     router.New(table),
		validators: validators,
		selector:   mock.NewSelector(table),
	}

	if key != "" {
		bundleCache.putWithTTL(key, b, ttl)
	}
	return b, nil
}
