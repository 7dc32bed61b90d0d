package cache

import (
	"context"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
)

// GetObject loads a msgpack encoded value into out.
func GetObject[T any](ctx context.Context, key string) (*T, bool) {
	if S == nil {
		return nil, false
	}
	marshal := marshaler.New(cache.New[any](S))
	raw, err := marshal.Get(ctx, key, new(T))
	if err != nil {
		return nil, false
	}
	value, ok := raw.(*T)
	return value, ok
}

func SetObject(ctx context.Context, key string, value any, ttl time.Duration, tags ...string) error {
	if S == nil {
		return nil
	}
	marshal := marshaler.New(cache.New[any](S))
	err := marshal.Set(
		ctx,
		key,
		value,
		store.WithExpiration(ttl),
		store.WithCost(1),
		store.WithTags(tags),
	)
	settle()
	return err
}

func InvalidateTags(ctx context.Context, tags ...string) error {
	if S == nil {
		return nil
	}
	marshal := marshaler.New(cache.New[any](S))
	err := marshal.Invalidate(ctx, store.WithInvalidateTags(tags))
	settle()
	return err
}
