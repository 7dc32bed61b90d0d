package admin

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listGroup(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	count, err := services.CountGroup()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var items any
	if probe := c.Query("probe"); len(probe) > 0 {
		items, err = services.SearchGroups(take, offset, probe)
	} else {
		items, err = services.ListGroup(take, offset)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

type groupRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=50"`
	Description string `json:"description"`
}

func createGroup(c *fiber.Ctx) error {
	var data groupRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	group, err := services.NewGroup(data.Title, data.Slug, data.Description)
	if err != nil {
		return asRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

func editGroup(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("groupId", 0)

	var data groupRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	group, err := services.GetGroupWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	group, err = services.EditGroup(group, data.Title, data.Slug, data.Description)
	if err != nil {
		return asRequestError(err)
	}

	return c.JSON(group)
}

func deleteGroup(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("groupId", 0)

	group, err := services.GetGroupWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteGroup(group); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
