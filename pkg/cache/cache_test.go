package cache

import (
	"context"
	"errors"
	"testing"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewCache("", false, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "pages:list", []string{"a"}, 0); err != nil {
		t.Fatalf("expected set to be ignored, got %v", err)
	}
	var out []string
	if err := c.Get(ctx, "pages:list", &out); !errors.Is(err, ErrCacheDisabled) {
		t.Fatalf("expected ErrCacheDisabled, got %v", err)
	}
	if err := c.InvalidateCollection(ctx, "pages", "abc"); err != nil {
		t.Fatalf("expected invalidation to be ignored, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("expected close to succeed, got %v", err)
	}
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *Cache
	if c.Enabled() {
		t.Fatalf("expected nil cache to be disabled")
	}
	if err := c.Delete(context.Background(), "x"); err != nil {
		t.Fatalf("expected nil cache delete to be ignored, got %v", err)
	}
}

func TestInvalidURL(t *testing.T) {
	if _, err := NewCache("not a url", true, 0); err == nil {
		t.Fatalf("expected invalid redis url to fail")
	}
}

func TestKeys(t *testing.T) {
	if got := ListKey("pages"); got != "pages:list" {
		t.Fatalf("unexpected list key %q", got)
	}
	if got := DocumentKey("pages", "abc"); got != "pages:doc:abc" {
		t.Fatalf("unexpected document key %q", got)
	}
}
