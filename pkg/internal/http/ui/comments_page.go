package ui

import (
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func getCommentedPost(c *fiber.Ctx) (models.User, models.Post, error) {
	postId, _ := c.ParamsInt("postId", 0)
	author, post, err := services.GetAuthorPost(c.Params("username"), uint(postId))
	if err != nil {
		return author, post, fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	return author, post, nil
}

func renderCommentForm(c *fiber.Ctx, post models.Post, form commentForm, errs exts.FormErrors) error {
	comments, err := services.ListPostComment(post)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Render("posts/comments", fiber.Map{
		"title":    "Add a comment",
		"post":     post,
		"comments": comments,
		"form":     form,
		"errors":   errs,
	})
}

func commentPage(c *fiber.Ctx) error {
	_, post, err := getCommentedPost(c)
	if err != nil {
		return err
	}

	return renderCommentForm(c, post, commentForm{}, exts.FormErrors{})
}

func addComment(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	author, post, err := getCommentedPost(c)
	if err != nil {
		return err
	}

	var form commentForm
	errs, err := exts.BindForm(c, &form)
	if err != nil {
		return err
	} else if !errs.Empty() {
		return renderCommentForm(c, post, form, errs)
	}

	if _, err := services.NewComment(user, post, form.Text); err != nil {
		if err := errs.AddError(err); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return renderCommentForm(c, post, form, errs)
	}

	return c.Redirect(getPostLink(author.Username, post.ID), fiber.StatusFound)
}
