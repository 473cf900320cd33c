// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package lrucache

import (
	"bytes"
	"strconv"
	"strings"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	t.Parallel()

	cache, err := New(3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cache.Len() != 0 {
		t.Errorf("expected an empty cache, got %d entries", cache.Len())
	}

	if _, err := New(0); err != ErrInvalidSize {
		t.Errorf("expected ErrInvalidSize for size 0, got %v", err)
	}
}

// TestAddAndGet verifies eviction of the least recently used entry.
func TestAddAndGet(t *testing.T) {
	t.Parallel()

	cache, _ := New(2)

	if cache.Add("fr/po", []byte("msgid")) {
		t.Error("eviction should not occur when the cache is not full")
	}

	cache.Add("de/po", []byte("msgstr"))

	// Touch fr/po so de/po becomes the oldest.
	if got, ok := cache.Get("fr/po"); !ok || string(got) != "msgid" {
		t.Errorf("expected 'msgid', got %q (found %v)", got, ok)
	}

	if !cache.Add("ru/po", []byte("x")) {
		t.Error("expected eviction when adding a third key to a size 2 cache")
	}

	if _, ok := cache.Get("de/po"); ok {
		t.Error("expected 'de/po' to be evicted")
	}

	if want := []string{"fr/po", "ru/po"}; strings.Join(cache.Keys(), ",") != strings.Join(want, ",") {
		t.Errorf("expected keys %v, got %v", want, cache.Keys())
	}
}

func TestAddExistingKey(t *testing.T) {
	t.Parallel()

	cache, _ := New(2)

	cache.Add("k1", []byte("v1"))
	cache.Add("k2", []byte("v2"))

	if cache.Add("k1", []byte("v1-updated")) {
		t.Error("re-adding an existing key should not evict anything")
	}

	if got, _ := cache.Get("k1"); string(got) != "v1-updated" {
		t.Errorf("expected 'v1-updated', got %q", got)
	}

	if cache.Len() != 2 {
		t.Errorf("expected cache length 2, got %d", cache.Len())
	}
}

// TestPeek checks that Peek does not promote the entry.
func TestPeek(t *testing.T) {
	t.Parallel()

	cache, _ := New(2)

	cache.Add("foo", []byte("bar"))
	cache.Add("baz", []byte("qux"))

	if got, ok := cache.Peek("foo"); !ok || string(got) != "bar" {
		t.Errorf("expected to peek 'bar', got %q", got)
	}

	cache.Add("third", []byte("3"))

	if _, ok := cache.Peek("foo"); ok {
		t.Error("expected 'foo' to be evicted after adding 'third'")
	}

	if s := cache.Stats(); s.Hits != 0 || s.Misses != 0 {
		t.Errorf("Peek must not count hits or misses, got %+v", s)
	}
}

func TestRemoveAndPurge(t *testing.T) {
	t.Parallel()

	cache, _ := New(4)

	cache.Add("a", []byte("1"))
	cache.Add("b", []byte("2"))

	if !cache.Remove("a") {
		t.Error("expected to remove existing key 'a'")
	}

	if cache.Remove("a") {
		t.Error("removing a missing key should report false")
	}

	cache.Purge()

	if cache.Len() != 0 || len(cache.Keys()) != 0 {
		t.Errorf("expected an empty cache after Purge, got %v", cache.Keys())
	}
}

// TestCompression checks that compressible payloads are stored compressed
// and decoded back to the original bytes.
func TestCompression(t *testing.T) {
	t.Parallel()

	cache, _ := New(2)

	payload := bytes.Repeat([]byte("<message><source>Failed to parse address</source></message>\n"), 200)
	cache.Add("ts", payload)

	s := cache.Stats()
	if s.RawSize != len(payload) {
		t.Errorf("expected raw size %d, got %d", len(payload), s.RawSize)
	}

	if s.StoredSize >= s.RawSize {
		t.Errorf("expected compressed storage, stored %d of %d bytes", s.StoredSize, s.RawSize)
	}

	got, ok := cache.Get("ts")
	if !ok || !bytes.Equal(got, payload) {
		t.Fatal("decoded payload differs from the original")
	}

	// Mutating the returned slice must not affect the cache.
	got[0] = 'X'

	again, _ := cache.Get("ts")
	if again[0] != '<' {
		t.Error("cached value was mutated through a returned slice")
	}
}

// TestIncompressible checks that small payloads are copied on Add.
func TestIncompressible(t *testing.T) {
	t.Parallel()

	cache, _ := New(2)

	value := []byte("ab")
	cache.Add("k", value)
	value[0] = 'z'

	if got, _ := cache.Get("k"); string(got) != "ab" {
		t.Errorf("expected 'ab', got %q", got)
	}

	cache.Add("empty", nil)

	if got, ok := cache.Get("empty"); !ok || len(got) != 0 {
		t.Errorf("expected an empty value, got %q (found %v)", got, ok)
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Parallel()

	cache, _ := New(16)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range 100 {
				key := strconv.Itoa((i + j) % 32)
				cache.Add(key, []byte(strings.Repeat(key, 64)))
				cache.Get(key)
			}
		}()
	}

	wg.Wait()

	if cache.Len() > 16 {
		t.Errorf("cache grew past its capacity: %d", cache.Len())
	}
}
