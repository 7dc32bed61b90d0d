package admin

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listFlatPage(c *fiber.Ctx) error {
	items, err := services.ListFlatPage()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

type flatPageRequest struct {
	URL                  string `json:"url" validate:"required,max=100"`
	Title                string `json:"title" validate:"required,max=200"`
	Content              string `json:"content"`
	RegistrationRequired bool   `json:"registration_required"`
}

func createFlatPage(c *fiber.Ctx) error {
	var data flatPageRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	page, err := services.NewFlatPage(models.FlatPage{
		URL:                  data.URL,
		Title:                data.Title,
		Content:              data.Content,
		RegistrationRequired: data.RegistrationRequired,
	})
	if err != nil {
		return asRequestError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(page)
}

func editFlatPage(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("pageId", 0)

	var data flatPageRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	page, err := services.GetFlatPageWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	page.URL = data.URL
	page.Title = data.Title
	page.Content = data.Content
	page.RegistrationRequired = data.RegistrationRequired

	if page, err = services.EditFlatPage(page); err != nil {
		return asRequestError(err)
	}

	return c.JSON(page)
}

func deleteFlatPage(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("pageId", 0)

	page, err := services.GetFlatPageWithID(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteFlatPage(page); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
