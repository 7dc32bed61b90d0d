package admin

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func listFollow(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := database.C
	for _, column := range []string{"user", "author"} {
		if len(c.Query(column)) == 0 {
			continue
		}
		target, err := services.GetUserByUsername(c.Query(column))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = tx.Where(column+"_id = ?", target.ID)
	}

	count, err := services.CountFollow(tx.Session(&gorm.Session{}))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListFollow(tx.Session(&gorm.Session{}), take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func deleteFollow(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("followId", 0)

	item, err := services.GetFollowWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteFollow(item); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
