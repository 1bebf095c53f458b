package cache

import (
	"context"
	"testing"
	"time"
)

func TestNewCache(t *testing.T) {
	c := NewCache()
	if c == nil {
		t.Fatal("NewCache returned nil")
	}
}

func TestGetInstance(t *testing.T) {
	inst := GetInstance()
	if inst == nil {
		t.Fatal("GetInstance returned nil")
	}
	if GetInstance() != inst {
		t.Error("GetInstance should return same instance")
	}
}

func TestSet_Get(t *testing.T) {
	c := NewCache()
	c.Set("test-set-get", "val", 0)
	got, ok := c.Get("test-set-get")
	if !ok {
		t.Fatal("Get: want true")
	}
	if got != "val" {
		t.Errorf("Get = %v, want val", got)
	}
}

func TestGet_Missing(t *testing.T) {
	c := NewCache()
	if _, ok := c.Get("nonexistent-key-xyz"); ok {
		t.Error("Get missing key: want false")
	}
}

func TestGet_Expired(t *testing.T) {
	c := NewCache()
	c.m.Store("old", cacheItem{Value: 1, ExpiresAt: time.Now().Add(-time.Second).UnixNano()})
	if _, ok := c.Get("old"); ok {
		t.Error("Get expired key: want false")
	}
}

func TestGetOrDefault(t *testing.T) {
	c := NewCache()
	if got := c.GetOrDefault("test-default", "default"); got != "default" {
		t.Errorf("GetOrDefault missing = %v, want default", got)
	}
	c.Set("test-default", "stored", 0)
	if got := c.GetOrDefault("test-default", "default"); got != "stored" {
		t.Errorf("GetOrDefault found = %v, want stored", got)
	}
}

func TestDeleteMany(t *testing.T) {
	c := NewCache()
	c.Set("dm1", 1, 0)
	c.Set("dm2", 2, 0)
	c.DeleteMany("dm1", "dm2")
	if _, ok := c.Get("dm1"); ok {
		t.Error("DeleteMany: dm1 should be gone")
	}
	if _, ok := c.Get("dm2"); ok {
		t.Error("DeleteMany: dm2 should be gone")
	}
}

func TestKey(t *testing.T) {
	if got := Key("descriptions", "plotinfo", 3); got != "descriptions|plotinfo|3" {
		t.Errorf("Key = %q", got)
	}
}

func TestStore_SaveLoadInvalidate(t *testing.T) {
	var s Store = NewCache()
	ctx := context.Background()

	if _, ok, err := s.Load(ctx, "k"); ok || err != nil {
		t.Fatalf("Load empty = %v, %v; want false, nil", ok, err)
	}
	if err := s.Save(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, ok, err := s.Load(ctx, "k")
	if err != nil || !ok || string(b) != "v" {
		t.Fatalf("Load = %q, %v, %v; want v, true, nil", b, ok, err)
	}
	if err := s.Invalidate(ctx, "k"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, ok, _ := s.Load(ctx, "k"); ok {
		t.Error("Load after Invalidate: want false")
	}
}
