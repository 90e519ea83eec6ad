package ports

import (
	"context"
	"time"
)

// Cache is a generic key-value capability for usecases. Adapters may be
// backed by SQLite, Redis or other stores. Writes from the lifecycle
// services are best-effort; a cache failure never fails an operation.
type Cache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
