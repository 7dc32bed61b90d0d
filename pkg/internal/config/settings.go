package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers the fallback value of every setting the service reads.
func SetDefaults() {
	viper.SetDefault("bind", "0.0.0.0:8444")
	viper.SetDefault("grpc_bind", "0.0.0.0:7444")
	viper.SetDefault("debug", false)

	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.dsn", "host=localhost user=postgres dbname=yatube port=5432 sslmode=disable")
	viper.SetDefault("database.prefix", "yatube_")

	viper.SetDefault("cache.driver", "memory")
	viper.SetDefault("cache.redis.addr", "localhost:6379")
	viper.SetDefault("cache.redis.password", "")
	viper.SetDefault("cache.redis.db", 0)
	viper.SetDefault("cache.index_ttl", 20*time.Second)

	viper.SetDefault("security.secret", "change-me")
	viper.SetDefault("security.session_ttl", 336*time.Hour)
	viper.SetDefault("security.csrf", true)
	viper.SetDefault("security.cookie_secure", false)

	viper.SetDefault("media.root", "media")
	viper.SetDefault("media.max_size", 5*1024*1024)

	viper.SetDefault("posts.page_size", 10)
	viper.SetDefault("posts.detect_language", true)

	viper.SetDefault("cleanup.schedule", "@every 60m")
}

// LoadSettings reads settings.toml from the working directory or its parent.
// Environment variables prefixed with YATUBE_ override file values.
func LoadSettings() error {
	SetDefaults()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("settings")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("yatube")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	return viper.ReadInConfig()
}
