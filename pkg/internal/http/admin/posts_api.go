package admin

import (
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func universalPostFilter(c *fiber.Ctx, tx *gorm.DB) (*gorm.DB, error) {
	if len(c.Query("author")) > 0 {
		author, err := services.GetUserByUsername(c.Query("author"))
		if err != nil {
			return tx, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = services.FilterPostWithAuthor(tx, author)
	}

	if len(c.Query("group")) > 0 {
		group, err := services.GetGroup(c.Query("group"))
		if err != nil {
			return tx, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = services.FilterPostWithGroup(tx, group)
	}

	var since, until *time.Time
	for key, target := range map[string]**time.Time{"since": &since, "until": &until} {
		if raw := c.Query(key); len(raw) > 0 {
			value, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return tx, fiber.NewError(fiber.StatusBadRequest, "invalid "+key+", must be a RFC3339 time")
			}
			*target = &value
		}
	}
	tx = services.FilterPostWithPublishedAt(tx, since, until)

	return services.FilterPostWithFuzzySearch(tx, c.Query("search")), nil
}

func listPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx, err := universalPostFilter(c, database.C)
	if err != nil {
		return err
	}

	count, err := services.CountPost(tx.Session(&gorm.Session{}))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx.Session(&gorm.Session{}), take, offset, services.PostDefaultOrder)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if c.QueryBool("truncate", true) {
		for idx, item := range items {
			items[idx] = lo.ToPtr(services.TruncatePostContent(*item))
		}
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func deletePost(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("postId", 0)

	item, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeletePost(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
