package cache

import (
	"fmt"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/store"
	redisStore "github.com/eko/gocache/store/redis/v4"
	ristrettoStore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var (
	S store.StoreInterface

	// R is set when the in-process backend is in use.
	R *ristretto.Cache
)

func NewStore() error {
	switch driver := viper.GetString("cache.driver"); driver {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("cache.redis.addr"),
			Password: viper.GetString("cache.redis.password"),
			DB:       viper.GetInt("cache.redis.db"),
		})
		S = redisStore.NewRedis(client)
		R = nil
	case "memory", "":
		if err := NewMemoryStore(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported cache driver: %s", driver)
	}

	log.Info().Str("driver", viper.GetString("cache.driver")).Msg("Cache store is ready.")
	return nil
}

func NewMemoryStore() error {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e7,
		MaxCost:     1 << 30,
		BufferItems: 64,
	})
	if err != nil {
		return fmt.Errorf("unable to create ristretto cache: %w", err)
	}

	R = client
	S = ristrettoStore.NewRistretto(client)
	return nil
}

// settle blocks until buffered writes of the in-process backend are applied.
func settle() {
	if R != nil {
		R.Wait()
	}
}
