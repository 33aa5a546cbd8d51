// Package kv provides the key-value store adapter every repository persists
// through. Collections are stored whole under a single key, so concurrent
// writers race with last-write-wins semantics at key granularity; callers
// must not assume cross-key atomicity.
package kv

import (
	"context"
	"errors"
)

// ErrUnavailable wraps any backend failure (connection lost, storage full,
// storage disabled). Callers must treat a failed Set as a lost write.
var ErrUnavailable = errors.New("kv: storage unavailable")

// Store is the persistence contract. Get reports ok=false for absent keys
// rather than an error.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
