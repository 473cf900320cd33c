// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package lrucache provides a fixed-capacity least-recently-used cache of
byte payloads, safe for concurrent use.

Payloads are stored zstd-compressed when that makes them smaller, which suits
rendered catalogue exports: TS and PO text compresses several times over.
[Cache.Get] always returns the original bytes.
*/
package lrucache

import (
	"container/list"
	"errors"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var ErrInvalidSize = errors.New("lrucache: size must be positive")

// Cache is a fixed-capacity LRU cache keyed by string.
// Instances must be constructed with [New]; the zero value is not ready for use.
type Cache struct {
	size      int
	evictList *list.List               // front is the most recently used
	items     map[string]*list.Element // key to element of evictList
	lock      sync.RWMutex

	enc *zstd.Encoder
	dec *zstd.Decoder

	hits, misses uint64
}

type entry struct {
	key        string
	data       []byte
	compressed bool
	rawLen     int
}

// Stats reports the occupancy and hit rate of a cache.
type Stats struct {
	Entries    int    `json:"entries"`
	Capacity   int    `json:"capacity"`
	StoredSize int    `json:"stored_size"` // bytes held, after compression
	RawSize    int    `json:"raw_size"`    // bytes the entries decode to
	Hits       uint64 `json:"hits"`
	Misses     uint64 `json:"misses"`
}

// New creates a cache holding at most size entries.
func New(size int) (*Cache, error) {
	if size <= 0 {
		return nil, ErrInvalidSize
	}

	// A nil writer/reader allows stateless EncodeAll/DecodeAll.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, err
	}

	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}

	return &Cache{
		size:      size,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		enc:       enc,
		dec:       dec,
	}, nil
}

// Add stores a copy of value under key and makes it the most recently used
// entry. It reports whether an older entry was evicted to make room.
func (c *Cache) Add(key string, value []byte) bool {
	// Compress before taking the lock; EncodeAll is safe for concurrent use.
	ent := c.pack(key, value)

	c.lock.Lock()
	defer c.lock.Unlock()

	if el, ok := c.items[key]; ok {
		c.evictList.MoveToFront(el)
		el.Value = ent

		return false
	}

	c.items[key] = c.evictList.PushFront(ent)

	if c.evictList.Len() <= c.size {
		return false
	}

	if oldest := c.evictList.Back(); oldest != nil {
		c.removeElement(oldest)
	}

	return true
}

// Get returns the value stored under key and marks it as most recently used.
// The returned slice is owned by the caller.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.lock.Lock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		c.lock.Unlock()

		return nil, false
	}

	c.hits++
	c.evictList.MoveToFront(el)
	ent := el.Value.(*entry) //nolint:forcetypeassert // only *entry is stored

	c.lock.Unlock()

	return c.unpack(ent)
}

// Peek is Get without touching the recency order or the hit counters.
func (c *Cache) Peek(key string) ([]byte, bool) {
	c.lock.RLock()

	el, ok := c.items[key]
	if !ok {
		c.lock.RUnlock()

		return nil, false
	}

	ent := el.Value.(*entry) //nolint:forcetypeassert // only *entry is stored

	c.lock.RUnlock()

	return c.unpack(ent)
}

// Remove deletes key and reports whether it was present.
func (c *Cache) Remove(key string) bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	el, ok := c.items[key]
	if ok {
		c.removeElement(el)
	}

	return ok
}

// Purge empties the cache. Counters are kept.
func (c *Cache) Purge() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.evictList.Init()
	clear(c.items)
}

// Keys returns the cached keys from the oldest to the newest.
func (c *Cache) Keys() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()

	keys := make([]string, 0, len(c.items))

	for el := c.evictList.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*entry).key) //nolint:forcetypeassert // only *entry is stored
	}

	return keys
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.evictList.Len()
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.lock.RLock()
	defer c.lock.RUnlock()

	s := Stats{
		Entries:  c.evictList.Len(),
		Capacity: c.size,
		Hits:     c.hits,
		Misses:   c.misses,
	}

	for el := c.evictList.Front(); el != nil; el = el.Next() {
		ent := el.Value.(*entry) //nolint:forcetypeassert // only *entry is stored
		s.StoredSize += len(ent.data)
		s.RawSize += ent.rawLen
	}

	return s
}

func (c *Cache) removeElement(el *list.Element) {
	c.evictList.Remove(el)
	delete(c.items, el.Value.(*entry).key) //nolint:forcetypeassert // only *entry is stored
}

// pack builds the stored form of value. The compressed form is kept only
// when it is smaller; otherwise value is copied so callers may reuse it.
func (c *Cache) pack(key string, value []byte) *entry {
	ent := &entry{key: key, rawLen: len(value)}

	if len(value) == 0 {
		return ent
	}

	if z := c.enc.EncodeAll(value, nil); len(z) < len(value) {
		ent.data = z
		ent.compressed = true

		return ent
	}

	ent.data = append([]byte(nil), value...)

	return ent
}

// unpack returns a caller-owned copy of the stored bytes. A payload that
// fails to decode is reported as missing.
func (c *Cache) unpack(ent *entry) ([]byte, bool) {
	if !ent.compressed {
		return append([]byte(nil), ent.data...), true
	}

	out, err := c.dec.DecodeAll(ent.data, make([]byte, 0, ent.rawLen))
	if err != nil {
		return nil, false
	}

	return out, true
}
