package caching

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	if _, ok := c.Get("https://example.com"); ok {
		t.Fatal("Get() hit on empty cache")
	}
	if err := c.Set("https://example.com", []byte("<p>hi</p>")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	data, ok := c.Get("https://example.com")
	if !ok || string(data) != "<p>hi</p>" {
		t.Errorf("Get() = %q, %v; want <p>hi</p>, true", data, ok)
	}
	if _, ok := c.Get("https://example.com/other"); ok {
		t.Error("Get() hit for a different key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Minute)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit on expired entry")
	}
}

func TestCache_Delete(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	if err := c.Set("k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := c.Delete("k"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := c.Get("k"); ok {
		t.Error("Get() hit after Delete()")
	}
	if err := c.Delete("k"); err != nil {
		t.Errorf("Delete() of missing key error = %v", err)
	}
}
