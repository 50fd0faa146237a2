// Package local is the console's durable client-side key/value storage and
// the change signal that tells every view to re-read it.
package local

import "context"

// Store persists string values by key.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	// SetMany writes every pair atomically.
	SetMany(ctx context.Context, values map[string]string) error
	// Remove deletes every key atomically. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
}
