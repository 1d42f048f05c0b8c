package cache

import (
	"testing"
	"time"
)

func TestGetBeforeExpiry(t *testing.T) {
	now := time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := New[string](time.Hour, clock)
	store.Set("players", "directory")

	now = now.Add(59 * time.Minute)

	v, ok := store.Get("players")
	if !ok {
		t.Fatal("expected entry before TTL expiry")
	}
	if v != "directory" {
		t.Errorf("got %q, want %q", v, "directory")
	}
}

func TestGetAfterExpiry(t *testing.T) {
	now := time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := New[int](time.Hour, clock)
	store.Set("k", 42)

	now = now.Add(61 * time.Minute)

	if _, ok := store.Get("k"); ok {
		t.Error("expected entry to be expired")
	}
}

func TestSetRestartsTTL(t *testing.T) {
	now := time.Date(2024, 12, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := New[int](time.Hour, clock)
	store.Set("k", 1)

	now = now.Add(50 * time.Minute)
	store.Set("k", 2)

	now = now.Add(50 * time.Minute)

	v, ok := store.Get("k")
	if !ok {
		t.Fatal("expected entry after overwrite")
	}
	if v != 2 {
		t.Errorf("got %d, want 2", v)
	}
}

func TestGetMissing(t *testing.T) {
	store := New[string](time.Hour, nil)
	if _, ok := store.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestInvalidate(t *testing.T) {
	store := New[string](time.Hour, nil)
	store.Set("k", "v")
	store.Invalidate("k")
	if _, ok := store.Get("k"); ok {
		t.Error("expected miss after invalidation")
	}
}
