package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/cache"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"github.com/gosimple/slug"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var groupSlugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

func GetGroupCacheKey(slug string) string {
	return fmt.Sprintf("group-by-slug#%s", slug)
}

func GetGroupCacheTag(id uint) string {
	return fmt.Sprintf("group#%d", id)
}

func ListGroup(take int, offset int) ([]models.Group, error) {
	var groups []models.Group
	err := database.C.Order("title ASC").Offset(offset).Limit(take).Find(&groups).Error

	return groups, err
}

func SearchGroups(take int, offset int, probe string) ([]models.Group, error) {
	probe = "%" + strings.ToLower(probe) + "%"

	var groups []models.Group
	err := database.C.
		Where("LOWER(title) LIKE ? OR LOWER(slug) LIKE ?", probe, probe).
		Order("title ASC").
		Offset(offset).Limit(take).
		Find(&groups).Error

	return groups, err
}

func CountGroup() (int64, error) {
	var count int64
	err := database.C.Model(&models.Group{}).Count(&count).Error
	return count, err
}

func GetGroup(slug string) (models.Group, error) {
	ctx := context.Background()
	if cached, ok := cache.GetObject[models.Group](ctx, GetGroupCacheKey(slug)); ok {
		return *cached, nil
	}

	var group models.Group
	if err := database.C.Where("slug = ?", slug).First(&group).Error; err != nil {
		return group, err
	}

	if err := cache.SetObject(
		ctx,
		GetGroupCacheKey(slug),
		group,
		10*time.Minute,
		GetGroupCacheTag(group.ID),
	); err != nil {
		log.Warn().Err(err).Str("slug", slug).Msg("Unable to cache group...")
	}
	return group, nil
}

func GetGroupWithID(id uint) (models.Group, error) {
	var group models.Group
	if err := database.C.Where("id = ?", id).First(&group).Error; err != nil {
		return group, err
	}
	return group, nil
}

func ensureGroupSlug(group models.Group) (models.Group, error) {
	group.Title = strings.TrimSpace(group.Title)
	group.Slug = strings.TrimSpace(group.Slug)
	if len(group.Title) == 0 {
		return group, &FieldError{"title", "This field is required."}
	}
	if len(group.Slug) == 0 {
		group.Slug = slug.Make(group.Title)
	}
	if len(group.Slug) > 50 {
		group.Slug = group.Slug[:50]
	}
	if !groupSlugPattern.MatchString(group.Slug) {
		return group, &FieldError{"slug", "Enter a valid slug consisting of letters, numbers, underscores or hyphens."}
	}

	var count int64
	if err := database.C.Model(&models.Group{}).
		Where("slug = ? AND id <> ?", group.Slug, group.ID).
		Count(&count).Error; err != nil {
		return group, err
	}
	if count > 0 {
		return group, &FieldError{"slug", "Group with this Slug already exists."}
	}
	return group, nil
}

func NewGroup(title, slug, description string) (models.Group, error) {
	group, err := ensureGroupSlug(models.Group{
		Title:       title,
		Slug:        slug,
		Description: description,
	})
	if err != nil {
		return group, err
	}

	err = database.C.Save(&group).Error

	return group, err
}

func EditGroup(group models.Group, title, slug, description string) (models.Group, error) {
	group.Title = title
	group.Slug = slug
	group.Description = description

	group, err := ensureGroupSlug(group)
	if err != nil {
		return group, err
	}

	if err := database.C.Save(&group).Error; err != nil {
		return group, err
	}

	invalidateGroupCache(group)
	return group, nil
}

// DeleteGroup detaches the posts of the group before removing it, the posts stay.
func DeleteGroup(group models.Group) error {
	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("group_id = ?", group.ID).
			Update("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&group).Error
	})
	if err != nil {
		return err
	}

	invalidateGroupCache(group)
	return nil
}

func invalidateGroupCache(group models.Group) {
	ctx := context.Background()
	if err := cache.InvalidateTags(ctx, GetGroupCacheTag(group.ID)); err != nil {
		log.Warn().Err(err).Uint("group", group.ID).Msg("Unable to invalidate group cache...")
	}
	// Lists rendered earlier may still carry the old group title.
	if err := cache.InvalidateFragments(ctx); err != nil {
		log.Warn().Err(err).Msg("Unable to invalidate page fragments...")
	}
}
