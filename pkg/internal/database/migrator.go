package database

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"gorm.io/gorm"
)

// AutoMaintainRange lists the models that hold rows owned by a user account.
// Account deletion walks it, so keep child tables before their parents.
var AutoMaintainRange = []any{
	&models.Follow{},
	&models.Comment{},
	&models.Post{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Follow{},
		&models.FlatPage{},
	); err != nil {
		return err
	}

	return nil
}
