package cache

import (
	"testing"
	"time"
)

func TestGetMissingKey(t *testing.T) {
	c := NewTTLCache[int64](4, time.Minute)
	if _, ok := c.Get("missing"); ok {
		t.Error("Get() on an empty cache returned a value")
	}
}

func TestSetAndGet(t *testing.T) {
	c := NewTTLCache[int64](4, time.Minute)
	c.Set("a", 42)

	got, ok := c.Get("a")
	if !ok || got != 42 {
		t.Errorf("Get(a) = %d, %v; want 42, true", got, ok)
	}
}

func TestExpiryDropsEntryOnAccess(t *testing.T) {
	c := NewTTLCache[string](4, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", "fresh")

	now = now.Add(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get() missed a live entry")
	}

	now = now.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("Get() returned an expired entry")
	}
	if c.Size() != 0 {
		t.Errorf("Size() = %d, want 0 after expiry eviction", c.Size())
	}
}

func TestEvictsLeastRecentlyUsedWhenFull(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	now := time.Now()
	c.now = func() time.Time { return now }

	c.Set("a", 1)
	now = now.Add(time.Second)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	now = now.Add(time.Second)
	c.Get("a")

	now = now.Add(time.Second)
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("newly set entry missing")
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if got, _ := c.Get("a"); got != 10 {
		t.Errorf("Get(a) = %d, want 10", got)
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("overwrite of an existing key evicted another entry")
	}
}

func TestDeleteAndClear(t *testing.T) {
	c := NewTTLCache[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still present")
	}

	c.Clear()
	if c.Size() != 0 {
		t.Errorf("Size() after Clear = %d, want 0", c.Size())
	}
	if _, ok := c.Get("b"); ok {
		t.Error("entry survived Clear")
	}
}
