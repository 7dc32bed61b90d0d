package ui

import (
	"mime/multipart"
	"strconv"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type postForm struct {
	Group      string `form:"group"`
	Text       string `form:"text" validate:"required"`
	ImageClear string `form:"image-clear"`
}

func (v postForm) GroupID() *uint {
	id, err := strconv.ParseUint(v.Group, 10, 64)
	if err != nil || id == 0 {
		return nil
	}
	return lo.ToPtr(uint(id))
}

type commentForm struct {
	Text string `form:"text" validate:"required"`
}

type signupForm struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Password1 string `form:"password1" validate:"required" strip:"false"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1" strip:"false"`
}

type loginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required" strip:"false"`
}

type passwordChangeForm struct {
	OldPassword  string `form:"old_password" validate:"required" strip:"false"`
	NewPassword1 string `form:"new_password1" validate:"required" strip:"false"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1" strip:"false"`
}

// readPostForm binds the post form and checks the uploaded image without storing it.
func readPostForm(c *fiber.Ctx) (postForm, *multipart.FileHeader, exts.FormErrors, error) {
	var form postForm
	errs, err := exts.BindForm(c, &form)
	if err != nil {
		return form, nil, nil, err
	}

	if len(form.Group) > 0 && form.GroupID() == nil {
		errs.Add("group", "Select a valid choice. That choice is not one of the available choices.")
	}

	var upload *multipart.FileHeader
	if file, ferr := c.FormFile("image"); ferr == nil && file.Size > 0 {
		upload = file
		if _, verr := services.ValidateImage(file); verr != nil {
			if err := errs.AddError(verr); err != nil {
				return form, nil, nil, err
			}
		}
	} else if ferr == nil {
		errs.Add("image", "The submitted file is empty.")
	}

	return form, upload, errs, nil
}
