package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/dastin52/bet-diary-app-sub000/internal/config"
	"github.com/dastin52/bet-diary-app-sub000/internal/store"
)

func TestRedisKV(t *testing.T) {
	cfg := &config.Config{
		RedisAddr: "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	kv, err := store.NewRedisKV(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	key := store.SessionKey("test", "999999")

	if err := kv.Put(ctx, key, []byte(`{"balance":42}`), time.Minute); err != nil {
		t.Fatalf("Failed to put: %v", err)
	}

	data, err := kv.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	if string(data) != `{"balance":42}` {
		t.Errorf("Unexpected payload: %s", data)
	}

	keys, err := kv.List(ctx, "journal:session:test:")
	if err != nil {
		t.Fatalf("Failed to list: %v", err)
	}
	if len(keys) == 0 {
		t.Error("Expected the written key in the listing")
	}

	if err := kv.Delete(ctx, key); err != nil {
		t.Errorf("Failed to delete: %v", err)
	}

	if _, err := kv.Get(ctx, key); err != store.ErrKeyNotFound {
		t.Errorf("Expected ErrKeyNotFound after delete, got %v", err)
	}
}
