package ui

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ErrorHandler renders the error pages, the admin API gets its errors as JSON.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	} else if errors.Is(err, gorm.ErrRecordNotFound) {
		code = fiber.StatusNotFound
	}

	if code >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("An error occurred when handling request...")
	}

	if strings.HasPrefix(c.Path(), "/admin/api") {
		return c.Status(code).JSON(fiber.Map{"error": message})
	}

	var view string
	switch {
	case code == fiber.StatusNotFound:
		view = "misc/404"
	case code >= fiber.StatusInternalServerError:
		view = "misc/500"
	default:
		return c.Status(code).SendString(message)
	}

	if rerr := c.Status(code).Render(view, fiber.Map{
		"path": c.Path(),
	}); rerr != nil {
		log.Error().Err(rerr).Str("view", view).Msg("Unable to render error page...")
		return c.Status(code).SendString(message)
	}
	return nil
}
