package admin

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func listComment(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := services.FilterCommentWithFuzzySearch(database.C, c.Query("search"))
	if post := c.QueryInt("post", 0); post > 0 {
		tx = tx.Where("post_id = ?", post)
	}
	if len(c.Query("author")) > 0 {
		author, err := services.GetUserByUsername(c.Query("author"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = tx.Where("author_id = ?", author.ID)
	}

	count, err := services.CountComment(tx.Session(&gorm.Session{}))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListComment(tx.Session(&gorm.Session{}), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func deleteComment(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("commentId", 0)

	item, err := services.GetCommentWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteComment(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
