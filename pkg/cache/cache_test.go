package cache

import (
	"fmt"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	c := New[string](10, time.Minute)
	if c == nil {
		t.Fatal("expected non-nil cache")
	}
	if c.Len() != 0 {
		t.Errorf("initial Len() = %d, want 0", c.Len())
	}
}

func TestCache_SetGet(t *testing.T) {
	c := New[int](10, time.Minute)

	c.Set("a", 1)
	got, ok := c.Get("a")
	if !ok || got != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", got, ok)
	}

	// Overwrite keeps a single entry.
	c.Set("a", 2)
	got, ok = c.Get("a")
	if !ok || got != 2 {
		t.Errorf("Get(a) after overwrite = (%d, %v), want (2, true)", got, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) should be a miss")
	}
}

func TestCache_SizeBound(t *testing.T) {
	tests := []struct {
		name    string
		maxSize int
		sets    []string
		wantLen int
	}{
		{"under capacity", 5, []string{"a", "b", "c"}, 3},
		{"at capacity", 3, []string{"a", "b", "c"}, 3},
		{"over capacity", 3, []string{"a", "b", "c", "d", "e"}, 3},
		{"zero capacity", 0, []string{"a", "b"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New[int](tt.maxSize, time.Minute)
			for i, k := range tt.sets {
				c.Set(k, i)
				if c.Len() > tt.maxSize {
					t.Fatalf("Len() = %d exceeds bound %d after Set(%q)", c.Len(), tt.maxSize, k)
				}
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}
}

func TestCache_EvictsLeastRecentlyTouched(t *testing.T) {
	c := New[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch "a" so "b" becomes the eviction candidate.
	if _, ok := c.Get("a"); !ok {
		t.Fatal("Get(a) should hit")
	}

	c.Set("d", 4)

	if c.Has("b") {
		t.Error("'b' should have been evicted")
	}
	if !c.Has("a") || !c.Has("c") || !c.Has("d") {
		t.Error("'a', 'c', 'd' should still be present")
	}
}

func TestCache_SetRefreshesRecency(t *testing.T) {
	c := New[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	c.Set("a", 10) // rewrite moves "a" to the front

	c.Set("d", 4)

	if c.Has("b") {
		t.Error("'b' should have been evicted, not 'a'")
	}
	if !c.Has("a") {
		t.Error("'a' should survive after being rewritten")
	}
}

func TestCache_HasDoesNotRefreshRecency(t *testing.T) {
	c := New[int](3, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Has must not promote "a"; it stays the eviction candidate.
	if !c.Has("a") {
		t.Fatal("Has(a) should be true")
	}

	c.Set("d", 4)

	if c.Has("a") {
		t.Error("'a' should have been evicted despite the Has check")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[int](10, time.Minute)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("a", 1)

	clock = clock.Add(59 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Error("entry should still be fresh just before the TTL")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Error("entry past its TTL should be a miss")
	}
	if c.Len() != 0 {
		t.Errorf("expired entry should be removed on read, Len() = %d", c.Len())
	}
}

func TestCache_ExpiryIndependentOfEviction(t *testing.T) {
	// A stale entry must not be returned even when the cache is far
	// below its size bound.
	c := New[int](100, time.Minute)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("a", 1)
	c.Set("b", 2)

	clock = clock.Add(time.Hour)
	if c.Has("a") || c.Has("b") {
		t.Error("stale entries should be invisible regardless of size pressure")
	}
}

func TestCache_GetRefreshesStoredAtOrder(t *testing.T) {
	c := New[int](2, time.Minute)

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	c.Set("a", 1)
	clock = clock.Add(time.Second)
	c.Set("b", 2)

	// Reading "a" makes "b" the LRU entry.
	c.Get("a")
	c.Set("c", 3)

	if c.Has("b") {
		t.Error("'b' should have been evicted after 'a' was read")
	}
}

func TestCache_RemoveAndClear(t *testing.T) {
	c := New[int](10, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)

	c.Remove("a")
	if c.Has("a") {
		t.Error("'a' should be gone after Remove")
	}
	c.Remove("a") // removing twice is a no-op

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}

func BenchmarkCache_Set(b *testing.B) {
	c := New[int](10000, time.Minute)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
}

func BenchmarkCache_Get(b *testing.B) {
	c := New[int](10000, time.Minute)
	for i := 0; i < 10000; i++ {
		c.Set(fmt.Sprintf("key%d", i), i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("key%d", i%10000))
	}
}
