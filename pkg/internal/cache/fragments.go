package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
)

func GetFragmentCacheKey(name string, vary ...any) string {
	key := name
	for _, item := range vary {
		key += fmt.Sprintf("#%v", item)
	}
	return key
}

// GetFragment returns a previously rendered piece of a page.
// The second value is false on a miss or when no store is configured.
func GetFragment(ctx context.Context, key string) (string, bool) {
	if S == nil {
		return "", false
	}
	content, err := cache.New[string](S).Get(ctx, key)
	if err != nil {
		return "", false
	}
	return content, true
}

func SetFragment(ctx context.Context, key string, content string, ttl time.Duration) error {
	if S == nil || ttl <= 0 {
		return nil
	}
	err := cache.New[string](S).Set(
		ctx,
		key,
		content,
		store.WithExpiration(ttl),
		store.WithCost(1),
		store.WithTags([]string{"fragment"}),
	)
	settle()
	return err
}

func InvalidateFragments(ctx context.Context) error {
	if S == nil {
		return nil
	}
	err := cache.New[string](S).Invalidate(ctx, store.WithInvalidateTags([]string{"fragment"}))
	settle()
	return err
}
