// Package kv implements the string key-value stores that back bookmark persistence.
package kv

import "context"

// Store reads and writes string values by key.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set overwrites the value for key.
	Set(ctx context.Context, key, value string) error
}
