package admin

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func deleteUser(c *fiber.Ctx) error {
	operator, _ := exts.GetCurrentUser(c)

	user, err := services.GetUserByUsername(c.Params("username"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	} else if user.ID == operator.ID {
		return fiber.NewError(fiber.StatusBadRequest, "you cannot delete your own account here")
	}

	if err := services.DeleteUser(user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
