package cache

import (
	"context"
	"testing"
	"time"
)

func TestLocalCache(t *testing.T) {
	config := LocalConfig{
		MaxSize:           100,
		DefaultExpiration: 5 * time.Minute,
		CleanupInterval:   10 * time.Minute,
	}

	cache := NewLocalCache(config)
	defer cache.Close()

	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		key := "test_key"
		value := "test_value"

		if err := cache.Set(ctx, key, value, time.Minute); err != nil {
			t.Errorf("Failed to set cache: %v", err)
		}

		if retrieved, exists := cache.Get(ctx, key); !exists {
			t.Error("Cache value not found")
		} else if retrieved != value {
			t.Errorf("Expected %v, got %v", value, retrieved)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := cache.Set(ctx, "gone", 1, time.Minute); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		if err := cache.Delete(ctx, "gone"); err != nil {
			t.Errorf("Failed to delete: %v", err)
		}
		if cache.Exists(ctx, "gone") {
			t.Error("Key should be gone after delete")
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := cache.Set(ctx, "short", "v", 10*time.Millisecond); err != nil {
			t.Fatalf("Failed to set cache: %v", err)
		}
		time.Sleep(30 * time.Millisecond)
		if _, exists := cache.Get(ctx, "short"); exists {
			t.Error("Expired value should not be returned")
		}
	})
}

func TestGoCache(t *testing.T) {
	cache := NewGoCache(LocalConfig{
		DefaultExpiration: time.Minute,
		CleanupInterval:   time.Minute,
	})
	defer cache.Close()

	ctx := context.Background()

	if err := cache.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}
	if v, _, ok := cache.GetWithTTL(ctx, "k"); !ok || v != "v" {
		t.Errorf("GetWithTTL returned %v, %v", v, ok)
	}
	if err := cache.Clear(ctx); err != nil {
		t.Errorf("Failed to clear: %v", err)
	}
	if cache.Exists(ctx, "k") {
		t.Error("Cache should be empty after Clear")
	}
}
