package metadata

import (
	"context"
)

// Repository is a small key/value store living next to the entity tables.
// It holds the encrypted device configuration and per-session bookkeeping.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
