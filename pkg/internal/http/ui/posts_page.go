package ui

import (
	"context"
	"fmt"
	"html/template"
	"net/url"
	"strconv"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/cache"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/database"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

func getPostLink(username string, id uint) string {
	return fmt.Sprintf("/%s/%d/", url.PathEscape(username), id)
}

func getProfileLink(username string) string {
	return fmt.Sprintf("/%s/", url.PathEscape(username))
}

// listIndexPage serves the post list out of the fragment cache, so new posts show up
// on an already cached page only once the fragment expires. Fragments are keyed by the
// resolved page number, malformed and out of range values share their target's entry.
func listIndexPage(c *fiber.Ctx) error {
	count, err := services.CountPost(database.C)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	number := services.NewPostPaginator(count).GetPageNumber(c.Query("page"))
	key := cache.GetFragmentCacheKey("index_page", number)

	fragment, hit := cache.GetFragment(context.Background(), key)
	if !hit {
		page, err := services.ListPostPage(database.C, strconv.Itoa(number))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		fragment, err = exts.RenderFragment("partials/post_list", fiber.Map{
			"page": page,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}

		if err := cache.SetFragment(context.Background(), key, fragment, viper.GetDuration("cache.index_ttl")); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("Unable to cache index page fragment...")
		}
	}

	return c.Render("index", fiber.Map{
		"title":    "Last updates on the site",
		"fragment": template.HTML(fragment),
	})
}

func getGroupPage(c *fiber.Ctx) error {
	group, err := services.GetGroup(c.Params("slug"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	page, err := services.ListPostPage(services.FilterPostWithGroup(database.C, group), c.Query("page"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Render("group", fiber.Map{
		"title": group.Title,
		"group": group,
		"page":  page,
	})
}

func getPostPage(c *fiber.Ctx) error {
	postId, _ := c.ParamsInt("postId", 0)
	author, post, err := services.GetAuthorPost(c.Params("username"), uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	comments, err := services.ListPostComment(post)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Render("posts/post", fiber.Map{
		"title":     post.Excerpt(30),
		"author":    author,
		"post":      post,
		"comments":  comments,
		"followers": services.CountFollower(author),
		"following": services.CountFollowing(author),
		"posts":     countAuthorPost(author),
		"form":      commentForm{},
		"errors":    exts.FormErrors{},
	})
}

func renderPostForm(c *fiber.Ctx, form postForm, errs exts.FormErrors, post *models.Post) error {
	groups, err := services.ListGroup(-1, 0)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	title := "New post"
	if post != nil {
		title = "Edit post"
	}

	return c.Render("posts/post_new", fiber.Map{
		"title":  title,
		"groups": groups,
		"form":   form,
		"errors": errs,
		"post":   post,
	})
}

func newPostPage(c *fiber.Ctx) error {
	return renderPostForm(c, postForm{}, exts.FormErrors{}, nil)
}

func createPost(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	form, upload, errs, err := readPostForm(c)
	if err != nil {
		return err
	} else if !errs.Empty() {
		return renderPostForm(c, form, errs, nil)
	}

	item := models.Post{
		Text:    form.Text,
		GroupID: form.GroupID(),
	}
	if upload != nil {
		path, err := services.SaveImage(upload)
		if err != nil {
			if err := errs.AddError(err); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return renderPostForm(c, form, errs, nil)
		}
		item.Image = &path
	}

	if _, err := services.NewPost(user, item); err != nil {
		if item.Image != nil {
			services.RemoveImage(*item.Image)
		}
		if err := errs.AddError(err); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return renderPostForm(c, form, errs, nil)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// getEditablePost loads the post behind the route, ok is false when the current user
// is not its author and the caller should send them back to the post.
func getEditablePost(c *fiber.Ctx) (models.Post, bool, error) {
	user, _ := exts.GetCurrentUser(c)

	postId, _ := c.ParamsInt("postId", 0)
	author, post, err := services.GetAuthorPost(c.Params("username"), uint(postId))
	if err != nil {
		return post, false, fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return post, author.ID == user.ID, nil
}

func editPostPage(c *fiber.Ctx) error {
	post, ok, err := getEditablePost(c)
	if err != nil {
		return err
	} else if !ok {
		return c.Redirect(getPostLink(post.Author.Username, post.ID), fiber.StatusFound)
	}

	form := postForm{Text: post.Text}
	if post.GroupID != nil {
		form.Group = fmt.Sprint(*post.GroupID)
	}

	return renderPostForm(c, form, exts.FormErrors{}, &post)
}

func editPost(c *fiber.Ctx) error {
	post, ok, err := getEditablePost(c)
	if err != nil {
		return err
	} else if !ok {
		return c.Redirect(getPostLink(post.Author.Username, post.ID), fiber.StatusFound)
	}

	form, upload, errs, err := readPostForm(c)
	if err != nil {
		return err
	} else if !errs.Empty() {
		return renderPostForm(c, form, errs, &post)
	}

	previousImage := post.Image
	post.Text = form.Text
	post.GroupID = form.GroupID()
	if upload != nil {
		path, err := services.SaveImage(upload)
		if err != nil {
			if err := errs.AddError(err); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, err.Error())
			}
			return renderPostForm(c, form, errs, &post)
		}
		post.Image = &path
	} else if len(form.ImageClear) > 0 {
		post.Image = nil
	}

	if _, err := services.EditPost(post, previousImage); err != nil {
		if post.Image != nil && post.Image != previousImage {
			services.RemoveImage(*post.Image)
		}
		post.Image = previousImage
		if err := errs.AddError(err); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return renderPostForm(c, form, errs, &post)
	}

	return c.Redirect(getPostLink(post.Author.Username, post.ID), fiber.StatusFound)
}

func deletePost(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	postId, _ := c.ParamsInt("postId", 0)
	author, post, err := services.GetAuthorPost(c.Params("username"), uint(postId))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if author.ID != user.ID && !user.IsSuperuser {
		return c.Redirect(getPostLink(author.Username, post.ID), fiber.StatusFound)
	}

	if err := services.DeletePost(post); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect(getProfileLink(author.Username), fiber.StatusFound)
}
