package ui

import (
	"github.com/gofiber/fiber/v2"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
)

func MapControllers(app *fiber.App) {
	app.Get("/", listIndexPage)
	app.Get("/group/:slug", getGroupPage)
	app.Get("/new", exts.LoginRequired, newPostPage)
	app.Post("/new", exts.LoginRequired, createPost)
	app.Get("/follow", exts.LoginRequired, listFollowPage)

	auth := app.Group("/auth")
	{
		auth.Get("/signup", signupPage)
		auth.Post("/signup", signup)
		auth.Get("/login", loginPage)
		auth.Post("/login", login)
		auth.Get("/logout", logout)
		auth.Post("/logout", logout)
		auth.Get("/password_change", exts.LoginRequired, passwordChangePage)
		auth.Post("/password_change", exts.LoginRequired, changePassword)
		auth.Get("/password_change/done", exts.LoginRequired, passwordChangeDonePage)
	}

	app.Get("/about/*", getFlatPage)
	app.Get("/about-author", getFlatPageAt("/about-author/"))
	app.Get("/about-spec", getFlatPageAt("/about-spec/"))
	app.Get("/contacts", getFlatPageAt("/contacts/"))

	app.Get("/:username", getProfilePage)
	app.Get("/:username/follow", exts.LoginRequired, followAuthor)
	app.Get("/:username/unfollow", exts.LoginRequired, unfollowAuthor)
	app.Get("/:username/:postId<int>", getPostPage)
	app.Get("/:username/:postId<int>/edit", exts.LoginRequired, editPostPage)
	app.Post("/:username/:postId<int>/edit", exts.LoginRequired, editPost)
	app.Post("/:username/:postId<int>/delete", exts.LoginRequired, deletePost)
	app.Get("/:username/:postId<int>/comment", exts.LoginRequired, commentPage)
	app.Post("/:username/:postId<int>/comment", exts.LoginRequired, addComment)
}
