package cache

import (
	"strconv"
	"sync"
	"testing"
)

// =============================================================================
// Basic operations
// =============================================================================

func TestGetPut(t *testing.T) {
	c := New[string, int](4)

	if _, ok := c.Get("a"); ok {
		t.Error("Get() on empty cache found a value")
	}
	c.Put("a", 1)
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}

	c.Put("a", 2)
	if v, _ := c.Get("a"); v != 2 {
		t.Errorf("Get(a) after overwrite = %d, want 2", v)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestNewMinimumCapacity(t *testing.T) {
	c := New[int, int](0)
	c.Put(1, 1)
	c.Put(2, 2)
	if got := c.Stats().Capacity; got != 1 {
		t.Errorf("Capacity = %d, want 1", got)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

// =============================================================================
// Eviction
// =============================================================================

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touch a so b becomes the oldest.
	c.Get("a")
	c.Put("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s was evicted", k)
		}
	}
	if got := c.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
}

func TestOverwriteDoesNotEvict(t *testing.T) {
	c := New[int, int](2)
	c.Put(1, 1)
	c.Put(2, 2)
	c.Put(1, 10)

	if _, ok := c.Get(2); !ok {
		t.Error("overwrite evicted another entry")
	}
}

// =============================================================================
// Stats
// =============================================================================

func TestStats(t *testing.T) {
	c := New[int, int](4)
	c.Put(1, 1)
	c.Get(1)
	c.Get(1)
	c.Get(2)

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Len != 1 || s.Capacity != 4 {
		t.Errorf("Stats() = %+v, want Hits 2 Misses 1 Len 1 Capacity 4", s)
	}
}

// =============================================================================
// Concurrency
// =============================================================================

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](64)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 1000 {
				k := strconv.Itoa((g*31 + i) % 128)
				if _, ok := c.Get(k); !ok {
					c.Put(k, i)
				}
			}
		}()
	}
	wg.Wait()

	if got := c.Len(); got > 64 {
		t.Errorf("Len() = %d, exceeds capacity 64", got)
	}
}

func BenchmarkGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 100 {
		c.Put(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("50")
	}
}
