// Package storage is the durable key-value layer behind shopper selections.
// Keys are slash separated ("<shopper>/cart"); values are opaque bytes.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the key was never written or deleted.
var ErrNotFound = errors.New("storage: key not found")

type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	// Put returns once the value is durable in the backend.
	Put(ctx context.Context, key string, value []byte) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}

// validKey rejects empty keys and anything that could escape a directory.
func validKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("storage: empty key")
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "..") || strings.Contains(key, `\`) {
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
