package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wonny/screenhub/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestDisabledHelper(t *testing.T) {
	client := Disabled()

	if client.Enabled() {
		t.Error("Expected helper client to be disabled")
	}
}

func TestCache_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(ctx, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(ctx, "key", "value", time.Minute); err != nil {
		t.Errorf("Set() error = %v", err)
	}
	if err := cache.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestCache_GetOrSet_Disabled(t *testing.T) {
	cache := NewCache(Disabled(), "test")
	ctx := context.Background()

	// With Redis disabled every call falls through to fn and the
	// fetched value still arrives in dest
	calls := 0
	var result []string
	fetch := func() (interface{}, error) {
		calls++
		return []string{"a", "b"}, nil
	}

	if err := cache.GetOrSet(ctx, "key", &result, time.Minute, fetch); err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if len(result) != 2 || result[0] != "a" {
		t.Errorf("Expected fetched value in dest, got %v", result)
	}

	if err := cache.GetOrSet(ctx, "key", &result, time.Minute, fetch); err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected fn called on every miss, got %d calls", calls)
	}
}

func TestCache_GetOrSet_FetchError(t *testing.T) {
	cache := NewCache(Disabled(), "test")

	wantErr := errors.New("upstream down")
	var result string
	err := cache.GetOrSet(context.Background(), "key", &result, time.Minute, func() (interface{}, error) {
		return nil, wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Expected fetch error to surface, got %v", err)
	}
}
