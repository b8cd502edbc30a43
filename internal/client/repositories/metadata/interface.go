// Package metadata is the local key/value table backing the persisted
// session (credential and cached profile).
package metadata

import "context"

// Repository stores opaque values by key. Get returns (nil, nil) for a
// missing key. Delete ignores keys that are not present.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}
