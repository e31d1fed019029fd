package cache

import (
	"testing"
	"time"
)

func TestSetThenGet(t *testing.T) {
	c := New()
	c.Set("k", "v")

	got, ok := c.Get("k")
	if !ok {
		t.Fatal("expected a hit right after Set")
	}
	if got.(string) != "v" {
		t.Fatalf("want v, got %v", got)
	}
}

func TestGetMissingKey(t *testing.T) {
	c := New()
	if _, ok := c.Get("nope"); ok {
		t.Fatal("expected a miss for an unknown key")
	}
}

func TestExpiredEntryIsEvicted(t *testing.T) {
	now := time.Now()
	c := New(WithClock(func() time.Time { return now }))

	c.SetTTL("k", 42, 10*time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("entry should be live before its TTL passes")
	}

	now = now.Add(11 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected a miss after the TTL passed")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, got %d entries", c.Len())
	}

	// The entry stays gone, it was not just masked.
	if _, ok := c.Get("k"); ok {
		t.Fatal("evicted entry resurfaced")
	}
}

func TestLaterWriteSupersedes(t *testing.T) {
	now := time.Now()
	c := New(WithClock(func() time.Time { return now }))

	c.SetTTL("k", "old", time.Second)
	now = now.Add(2 * time.Second)
	c.SetTTL("k", "new", time.Minute)

	got, ok := c.Get("k")
	if !ok || got.(string) != "new" {
		t.Fatalf("want new, got %v (hit=%v)", got, ok)
	}
}
