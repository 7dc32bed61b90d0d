package services

import (
	"strings"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"gorm.io/gorm"
)

func FilterCommentWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + strings.ToLower(probe) + "%"
	return tx.Where("LOWER(text) LIKE ?", probe)
}

func CountPostComment(id uint) int64 {
	var count int64
	if err := database.C.Model(&models.Comment{}).
		Where("post_id = ?", id).
		Count(&count).Error; err != nil {
		return 0
	}

	return count
}

func CountComment(tx *gorm.DB) (int64, error) {
	var count int64
	err := tx.Model(&models.Comment{}).Count(&count).Error
	return count, err
}

func ListComment(tx *gorm.DB, take int, offset int) ([]models.Comment, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Comment
	err := tx.Preload("Author").
		Order("created DESC, id DESC").
		Limit(take).Offset(offset).
		Find(&items).Error
	return items, err
}

// ListPostComment returns every comment under the post in the order they were written.
func ListPostComment(post models.Post) ([]models.Comment, error) {
	var items []models.Comment
	err := database.C.
		Where("post_id = ?", post.ID).
		Preload("Author").
		Order("created ASC, id ASC").
		Find(&items).Error
	return items, err
}

func NewComment(author models.User, post models.Post, text string) (models.Comment, error) {
	item := models.Comment{
		Text:     strings.TrimSpace(text),
		PostID:   post.ID,
		AuthorID: author.ID,
	}
	if len(item.Text) == 0 {
		return item, &FieldError{"text", "This field is required."}
	}

	if err := database.C.Omit("Post", "Author").Create(&item).Error; err != nil {
		return item, err
	}

	item.Author = author
	return item, nil
}

func GetCommentWithID(id uint) (models.Comment, error) {
	var item models.Comment
	err := database.C.Where("id = ?", id).First(&item).Error
	return item, err
}

func DeleteComment(item models.Comment) error {
	return database.C.Delete(&item).Error
}
