package ui

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func listFollowPage(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	page, err := services.ListPostPage(services.FilterPostWithFollower(database.C, user), c.Query("page"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Render("follow", fiber.Map{
		"title": "Your subscriptions",
		"page":  page,
	})
}

func followAuthor(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	author, err := services.GetUserByUsername(c.Params("username"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if _, err := services.FollowUser(user, author); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect(getProfileLink(author.Username), fiber.StatusFound)
}

func unfollowAuthor(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	author, err := services.GetUserByUsername(c.Params("username"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.UnfollowUser(user, author); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect(getProfileLink(author.Username), fiber.StatusFound)
}
