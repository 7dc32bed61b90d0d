package services

import (
	"errors"
	"fmt"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetFollow(user models.User, target models.User) (*models.Follow, error) {
	var follow models.Follow
	if err := database.C.Where("user_id = ? AND author_id = ?", user.ID, target.ID).First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get follow: %w", err)
	}
	return &follow, nil
}

func IsFollowing(user models.User, target models.User) bool {
	follow, err := GetFollow(user, target)
	return err == nil && follow != nil
}

// FollowUser subscribes user to target. Following yourself does nothing and
// following twice keeps the first pair, the returned bool reports a new pair.
func FollowUser(user models.User, target models.User) (bool, error) {
	if user.ID == target.ID {
		return false, nil
	}

	follow := models.Follow{
		UserID:   user.ID,
		AuthorID: target.ID,
	}
	tx := database.C.
		Omit("User", "Author").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&follow)
	if tx.Error != nil {
		return false, fmt.Errorf("unable to follow: %w", tx.Error)
	}

	if tx.RowsAffected > 0 {
		log.Debug().Uint("user", user.ID).Uint("author", target.ID).Msg("User followed an author.")
	}
	return tx.RowsAffected > 0, nil
}

// UnfollowUser removes the pair when it exists, a missing pair is not an error.
func UnfollowUser(user models.User, target models.User) error {
	if err := database.C.
		Where("user_id = ? AND author_id = ?", user.ID, target.ID).
		Delete(&models.Follow{}).Error; err != nil {
		return fmt.Errorf("unable to unfollow: %w", err)
	}
	return nil
}

func CountFollower(target models.User) int64 {
	var count int64
	if err := database.C.Model(&models.Follow{}).
		Where("author_id = ?", target.ID).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func CountFollowing(user models.User) int64 {
	var count int64
	if err := database.C.Model(&models.Follow{}).
		Where("user_id = ?", user.ID).
		Count(&count).Error; err != nil {
		return 0
	}
	return count
}

func CountFollow(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.Follow{}).Count(&count).Error
	return count, err
}

func ListFollow(tx *gorm.DB, take int, offset int) ([]models.Follow, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Follow
	err := tx.Preload("User").Preload("Author").
		Order("id DESC").
		Limit(take).Offset(offset).
		Find(&items).Error
	return items, err
}

func GetFollowWithID(id uint) (models.Follow, error) {
	var item models.Follow
	err := database.C.Where("id = ?", id).First(&item).Error
	return item, err
}

func DeleteFollow(item models.Follow) error {
	return database.C.Delete(&item).Error
}
