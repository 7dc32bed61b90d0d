package admin

import (
	"errors"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL, exts.EnsureSuperuser)
	{
		admin.Get("/groups", listGroup)
		admin.Post("/groups", createGroup)
		admin.Put("/groups/:groupId", editGroup)
		admin.Delete("/groups/:groupId", deleteGroup)

		admin.Get("/posts", listPost)
		admin.Delete("/posts/:postId", deletePost)

		admin.Get("/comments", listComment)
		admin.Delete("/comments/:commentId", deleteComment)

		admin.Get("/follows", listFollow)
		admin.Delete("/follows/:followId", deleteFollow)

		admin.Get("/flatpages", listFlatPage)
		admin.Post("/flatpages", createFlatPage)
		admin.Put("/flatpages/:pageId", editFlatPage)
		admin.Delete("/flatpages/:pageId", deleteFlatPage)

		admin.Delete("/users/:username", deleteUser)
	}
}

// asRequestError turns the validation failures of the services into bad requests.
func asRequestError(err error) error {
	var fieldErr *services.FieldError
	if errors.As(err, &fieldErr) {
		return fiber.NewError(fiber.StatusBadRequest, fieldErr.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
