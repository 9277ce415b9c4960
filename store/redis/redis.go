// Package redis provides a Redis-backed Repository for deployments where the
// catalog and ledgers live in a shared cache rather than a local file. Slot
// semantics are identical to the SQLite store: one string key per collection,
// whole JSON value replaced on every write.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vyapar:"

// Repo implements vyapar.Repository on a Redis client.
type Repo struct {
	client *redis.Client
}

// New wraps an existing client.
func New(client *redis.Client) *Repo {
	return &Repo{client: client}
}

// Open connects to addr and verifies the connection.
func Open(ctx context.Context, addr string) (*Repo, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return New(client), nil
}

// Close releases the underlying client.
func (r *Repo) Close() error {
	return r.client.Close()
}

// Get returns the stored value for key, with ok=false when the slot has
// never been written.
func (r *Repo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return raw, true, nil
}

// Put replaces the whole value for key. No TTL: slots are durable state.
func (r *Repo) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, keyPrefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}
