package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var C *gorm.DB

func NewGorm() error {
	dsn := viper.GetString("database.dsn")
	driver := viper.GetString("database.driver")

	source, err := Open(driver, dsn, viper.GetString("database.prefix"), viper.GetBool("debug"))
	if err != nil {
		return err
	}

	log.Info().Str("driver", driver).Msg("Connected to database.")
	C = source
	return nil
}

// Open connects gorm to the given driver without touching the global connection.
func Open(driver, dsn, prefix string, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	level := logger.Silent
	if debug {
		level = logger.Info
	}

	return gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: prefix,
		},
		Logger: logger.New(&log.Logger, logger.Config{LogLevel: level}),
	})
}
