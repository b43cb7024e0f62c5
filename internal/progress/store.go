// Package progress persists per-user learning data as JSON values keyed by
// user id and key.
package progress

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a user has no value stored under a key.
var ErrNotFound = errors.New("progress not found")

// Store is a per-user key-value store of JSON documents.
type Store interface {
	Get(ctx context.Context, userID, key string) ([]byte, error)
	Put(ctx context.Context, userID, key string, value []byte) error
	// Update replaces the value with fn's result atomically. fn receives nil
	// when the key does not exist yet.
	Update(ctx context.Context, userID, key string, fn func(current []byte) ([]byte, error)) error
}

// UserLister is implemented by stores that can enumerate their users.
type UserLister interface {
	Users(ctx context.Context) ([]string, error)
}

var (
	_ UserLister = (*YAMLStore)(nil)
	_ UserLister = (*DBStore)(nil)
)
