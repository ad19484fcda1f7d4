// Package store provides the key/value boundary of the system and the
// aggregate adapter on top of it. The backend offers plain get/put/delete/list
// with per-key TTL and nothing else: no transactions, no compare-and-swap.
// Every mutation in the system is a load → transform → save cycle on a single
// key; concurrent writers to the same key race and the later save wins. That
// last-write-wins behavior is a documented scope limitation, not a bug. A
// CAS-capable backend can be swapped in behind this interface later.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrKeyNotFound is returned by Get for absent keys.
var ErrKeyNotFound = errors.New("store: key not found")

// KV is the minimal storage contract. ttl == 0 means no expiry.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]string, error)
}
