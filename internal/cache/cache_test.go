package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()

	c, err := New(NopStore{}, ttl)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestCache_SetGet(t *testing.T) {
	c := newTestCache(t, time.Minute)

	if err := c.Set("package:provider", []byte(`{"name":"provider"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := c.Get("package:provider")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(got) != `{"name":"provider"}` {
		t.Errorf("value = %q", got)
	}

	if _, ok := c.Get("package:missing"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := newTestCache(t, time.Minute)

	base := time.Now()
	c.now = func() time.Time { return base }

	if err := c.SetTTL("search:http:1", []byte(`[]`), 30*time.Minute); err != nil {
		t.Fatalf("SetTTL failed: %v", err)
	}

	c.now = func() time.Time { return base.Add(29 * time.Minute) }
	if _, ok := c.Get("search:http:1"); !ok {
		t.Fatal("entry expired before its TTL")
	}

	c.now = func() time.Time { return base.Add(31 * time.Minute) }
	if _, ok := c.Get("search:http:1"); ok {
		t.Fatal("expected miss after TTL elapsed")
	}

	// The expired entry is dropped on access, not just hidden.
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d after expiry, want 0", n)
	}
}

func TestCache_Disabled(t *testing.T) {
	c := Disabled()

	if err := c.Set("package:provider", []byte(`{}`)); err != nil {
		t.Fatalf("Set on disabled cache failed: %v", err)
	}
	if _, ok := c.Get("package:provider"); ok {
		t.Error("disabled cache returned a hit")
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestCache_ClearAndKeys(t *testing.T) {
	c := newTestCache(t, time.Minute)

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(key, []byte(key)); err != nil {
			t.Fatalf("Set(%q) failed: %v", key, err)
		}
	}

	if n := len(c.Keys()); n != 3 {
		t.Errorf("Keys returned %d entries, want 3", n)
	}

	if err := c.Delete("b"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if c.Has("b") {
		t.Error("deleted key still present")
	}

	if err := c.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if n := c.Len(); n != 0 {
		t.Errorf("Len = %d after Clear, want 0", n)
	}
}

func TestBoltStore_PersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}

	c, err := New(store, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := c.Set("package:http", []byte(`{"name":"http"}`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	store, err = OpenBolt(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	c, err = New(store, time.Hour)
	if err != nil {
		t.Fatalf("New after reopen failed: %v", err)
	}
	defer c.Close()

	got, ok := c.Get("package:http")
	if !ok {
		t.Fatal("entry lost across reopen")
	}
	if string(got) != `{"name":"http"}` {
		t.Errorf("value = %q", got)
	}
}

func TestNew_SweepsExpiredOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}

	// Persist one live entry and one that is already past its expiry.
	now := time.Now()
	if err := store.Put("live", Entry{Value: []byte("x"), CreatedAt: now, ExpiresAt: now.Add(time.Hour)}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("stale", Entry{Value: []byte("y"), CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour)}); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	c, err := New(store, time.Hour)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer c.Close()

	if _, ok := c.Get("live"); !ok {
		t.Error("live entry swept")
	}
	if _, ok := c.Get("stale"); ok {
		t.Error("stale entry survived the sweep")
	}

	// The sweep removes the stale record from the store as well.
	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := loaded["stale"]; ok {
		t.Error("stale entry still persisted after sweep")
	}
}

func TestBoltStore_DeleteAndClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := OpenBolt(path)
	if err != nil {
		t.Fatalf("OpenBolt failed: %v", err)
	}
	defer store.Close()

	e := Entry{Value: []byte("v"), CreatedAt: time.Now(), ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Put("k1", e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := store.Put("k2", e); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := store.Delete("k1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete("nope"); err != nil {
		t.Fatalf("Delete of missing key failed: %v", err)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("Load returned %d entries, want 1", len(loaded))
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	loaded, err = store.Load()
	if err != nil {
		t.Fatalf("Load after Clear failed: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("Load returned %d entries after Clear, want 0", len(loaded))
	}
}
