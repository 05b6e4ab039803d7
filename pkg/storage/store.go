// Package storage provides the persistent key-value store the client keeps
// its session and cart in. Values are plain strings; callers own the
// serialization of anything richer.
package storage

import (
	"context"
	"errors"
)

// Well-known keys shared between the session and cart stores.
const (
	KeyToken    = "token"
	KeyUserID   = "user_id"
	KeyUserRole = "user_type"
	KeyCart     = "cart"
)

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("storage: key not found")

// Store is a string key-value store with synchronous writes: when Set
// returns, the value is durable as far as the backend can promise.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
