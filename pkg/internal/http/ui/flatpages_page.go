package ui

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func renderFlatPage(c *fiber.Ctx, url string) error {
	page, err := services.GetFlatPage(url)
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if _, ok := exts.GetCurrentUser(c); !ok && page.RegistrationRequired {
		return c.Redirect(exts.GetLoginURL(c.OriginalURL()), fiber.StatusFound)
	}

	return c.Render("flatpage", fiber.Map{
		"title":    page.Title,
		"flatpage": page,
	})
}

func getFlatPage(c *fiber.Ctx) error {
	return renderFlatPage(c, c.Params("*"))
}

func getFlatPageAt(url string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderFlatPage(c, url)
	}
}
