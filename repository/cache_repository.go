package repository

import "context"

// CacheRepository caches interpretation results keyed by input text hash so
// repeated identical messages skip the model call.
type CacheRepository interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key string, value string) error
}
