package ui

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func countAuthorPost(author models.User) int64 {
	count, _ := services.CountPost(services.FilterPostWithAuthor(database.C, author))
	return count
}

func getProfilePage(c *fiber.Ctx) error {
	author, err := services.GetUserByUsername(c.Params("username"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	page, err := services.ListPostPage(services.FilterPostWithAuthor(database.C, author), c.Query("page"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var following bool
	if user, ok := exts.GetCurrentUser(c); ok && user.ID != author.ID {
		following = services.IsFollowing(user, author)
	}

	return c.Render("profile", fiber.Map{
		"title":        author.DisplayName(),
		"author":       author,
		"page":         page,
		"posts":        page.Paginator.Count,
		"followers":    services.CountFollower(author),
		"following":    services.CountFollowing(author),
		"is_following": following,
	})
}
