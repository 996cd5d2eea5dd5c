// Package cache is the two-tier fact cache: a process-local TTL map for the
// lifetime of one run, and per-key files under the repository's git common
// directory so the cache moves with the repository and stays on one
// filesystem.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Key identifies one cached fact. An entry is valid only while the branch
// head still equals Commit and the entry's TTL has not elapsed.
type Key struct {
	Branch string
	Commit string
	Kind   string
}

func (k Key) memKey() string {
	return k.Branch + "\x00" + k.Commit + "\x00" + k.Kind
}

type Cache struct {
	mem  *gocache.Cache
	disk *diskStore
}

// New creates a cache rooted at dir. An empty dir disables the disk tier,
// which callers use for bare repositories without a writable metadata dir.
func New(dir string) *Cache {
	c := &Cache{
		mem: gocache.New(gocache.NoExpiration, 0),
	}
	if dir != "" {
		c.disk = &diskStore{dir: dir}
	}
	return c
}

// Get returns the cached value for key, consulting memory before disk.
// Stale entries are never returned; a disk hit is promoted to memory.
func (c *Cache) Get(key Key) ([]byte, bool) {
	if v, ok := c.mem.Get(key.memKey()); ok {
		if data, ok := v.([]byte); ok {
			return data, true
		}
	}
	if c.disk == nil {
		return nil, false
	}
	data, ttl, ok := c.disk.read(key)
	if !ok {
		return nil, false
	}
	c.mem.Set(key.memKey(), data, ttl)
	return data, true
}

// Put stores value under key in both tiers. Disk I/O errors are non-fatal:
// the value is cached in memory and surfaced to the caller regardless.
func (c *Cache) Put(key Key, value []byte, ttl time.Duration) error {
	c.mem.Set(key.memKey(), value, ttl)
	if c.disk == nil {
		return nil
	}
	return c.disk.write(key, value, ttl)
}

// InvalidateBranch drops every entry derived from the branch.
func (c *Cache) InvalidateBranch(branch string) {
	for memKey := range c.mem.Items() {
		if len(memKey) > len(branch) && memKey[:len(branch)] == branch && memKey[len(branch)] == '\x00' {
			c.mem.Delete(memKey)
		}
	}
	if c.disk != nil {
		c.disk.removeBranch(branch)
	}
}

// ClearAll empties both tiers.
func (c *Cache) ClearAll() {
	c.mem.Flush()
	if c.disk != nil {
		c.disk.removeAll()
	}
}
