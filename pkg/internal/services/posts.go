package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

const PostDefaultOrder = "pub_date DESC, id DESC"

func FilterPostWithGroup(tx *gorm.DB, group models.Group) *gorm.DB {
	return tx.Where("group_id = ?", group.ID)
}

func FilterPostWithAuthor(tx *gorm.DB, author models.User) *gorm.DB {
	return tx.Where("author_id = ?", author.ID)
}

// FilterPostWithFollower keeps the posts written by authors the user follows.
func FilterPostWithFollower(tx *gorm.DB, user models.User) *gorm.DB {
	following := database.C.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", user.ID)
	return tx.Where("author_id IN (?)", following)
}

func FilterPostWithPublishedAt(tx *gorm.DB, since, until *time.Time) *gorm.DB {
	if since != nil {
		tx = tx.Where("pub_date >= ?", *since)
	}
	if until != nil {
		tx = tx.Where("pub_date < ?", *until)
	}
	return tx
}

func FilterPostWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + strings.ToLower(probe) + "%"
	return tx.Where("LOWER(text) LIKE ?", probe)
}

func PreloadGeneral(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Author").
		Preload("Group")
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := PreloadGeneral(tx).
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	item.Metric = models.PostMetric{
		CommentCount: CountPostComment(item.ID),
	}
	return item, nil
}

// GetAuthorPost finds a post only through its author, a post requested under
// another username does not exist.
func GetAuthorPost(username string, id uint) (models.User, models.Post, error) {
	author, err := GetUserByUsername(username)
	if err != nil {
		return author, models.Post{}, err
	}

	post, err := GetPost(FilterPostWithAuthor(database.C, author), id)
	return author, post, err
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]*models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []*models.Post
	if err := PreloadGeneral(tx).
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	idx := lo.Map(items, func(item *models.Post, index int) uint {
		return item.ID
	})
	if len(idx) == 0 {
		return items, nil
	}

	// Load comment counts
	var comments []struct {
		PostID uint
		Count  int64
	}

	if err := database.C.Model(&models.Comment{}).
		Select("post_id, COUNT(id) as count").
		Where("post_id IN ?", idx).
		Group("post_id").
		Scan(&comments).Error; err != nil {
		return items, err
	}

	itemMap := lo.SliceToMap(items, func(item *models.Post) (uint, *models.Post) {
		return item.ID, item
	})
	for _, info := range comments {
		if post, ok := itemMap[info.PostID]; ok {
			post.Metric.CommentCount = info.Count
		}
	}

	return items, nil
}

// ListPostPage counts the filtered posts and loads the page picked by the raw
// page number from the query string.
func ListPostPage(tx *gorm.DB, rawPage string) (Page[*models.Post], error) {
	count, err := CountPost(tx.Session(&gorm.Session{}))
	if err != nil {
		return Page[*models.Post]{}, err
	}

	paginator := NewPostPaginator(count)
	number := paginator.GetPageNumber(rawPage)

	items, err := ListPost(tx.Session(&gorm.Session{}), paginator.PerPage, paginator.Offset(number), PostDefaultOrder)
	if err != nil {
		return Page[*models.Post]{}, err
	}

	return Page[*models.Post]{
		Items:     items,
		Number:    number,
		Paginator: paginator,
	}, nil
}

func validatePost(item models.Post) (models.Post, error) {
	item.Text = strings.TrimSpace(item.Text)
	if len(item.Text) == 0 {
		return item, &FieldError{"text", "This field is required."}
	}
	if item.GroupID != nil {
		if _, err := GetGroupWithID(*item.GroupID); err != nil {
			return item, &FieldError{"group", "Select a valid choice. That choice is not one of the available choices."}
		}
	}
	if viper.GetBool("posts.detect_language") {
		item.Language = DetectLanguage(item.Text)
	}
	return item, nil
}

func NewPost(author models.User, item models.Post) (models.Post, error) {
	item.AuthorID = author.ID
	item.Author = author

	item, err := validatePost(item)
	if err != nil {
		return item, err
	}

	log.Debug().Uint("author", author.ID).Msg("Posting a post...")
	start := time.Now()

	if err := database.C.Omit("Author", "Group").Create(&item).Error; err != nil {
		return item, err
	}

	log.Debug().Dur("elapsed", time.Since(start)).Uint("id", item.ID).Msg("The post is posted.")
	return item, nil
}

// EditPost saves the changes of a post, a replaced image is removed from the media root.
func EditPost(item models.Post, previousImage *string) (models.Post, error) {
	item, err := validatePost(item)
	if err != nil {
		return item, err
	}

	if err := database.C.Model(&item).
		Select("text", "group_id", "image", "language", "updated_at").
		Omit("Author", "Group").
		Updates(&item).Error; err != nil {
		return item, err
	}

	if previousImage != nil && (item.Image == nil || *item.Image != *previousImage) {
		RemoveImage(*previousImage)
	}

	if item.GroupID != nil {
		if group, err := GetGroupWithID(*item.GroupID); err == nil {
			item.Group = &group
		}
	} else {
		item.Group = nil
	}

	return item, nil
}

func DeletePost(item models.Post) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", item.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&item).Error
	})
	if err != nil {
		return fmt.Errorf("unable to delete post: %w", err)
	}

	if item.Image != nil {
		RemoveImage(*item.Image)
	}
	return nil
}

const TruncatePostContentThreshold = 160

func TruncatePostContent(post models.Post) models.Post {
	if val := []rune(post.Text); len(val) >= TruncatePostContentThreshold {
		post.Text = string(val[:TruncatePostContentThreshold]) + "..."
	}

	return post
}

func removeMediaFile(path string) error {
	err := os.Remove(filepath.Join(viper.GetString("media.root"), filepath.Clean("/"+path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
