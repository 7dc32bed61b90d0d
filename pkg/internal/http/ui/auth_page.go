package ui

import (
	"errors"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/http/exts"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

func signupPage(c *fiber.Ctx) error {
	return c.Render("auth/signup", fiber.Map{
		"title":  "Sign up",
		"form":   signupForm{},
		"errors": exts.FormErrors{},
	})
}

func signup(c *fiber.Ctx) error {
	var form signupForm
	errs, err := exts.BindForm(c, &form)
	if err != nil {
		return err
	}

	rerender := func() error {
		form.Password1, form.Password2 = "", ""
		return c.Render("auth/signup", fiber.Map{
			"title":  "Sign up",
			"form":   form,
			"errors": errs,
		})
	}

	if !errs.Has("username") {
		if err := errs.AddError(services.ValidateUsername(form.Username)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}
	if !errs.Empty() {
		return rerender()
	}

	if _, err := services.RegisterUser(models.User{
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	}, form.Password2); err != nil {
		if err := errs.AddError(err); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return rerender()
	}

	return c.Redirect(exts.LoginURL, fiber.StatusFound)
}

func loginPage(c *fiber.Ctx) error {
	return c.Render("auth/login", fiber.Map{
		"title":  "Log in",
		"form":   loginForm{},
		"errors": exts.FormErrors{},
		"next":   c.Query("next"),
	})
}

func login(c *fiber.Ctx) error {
	next := c.Query("next", c.FormValue("next"))

	var form loginForm
	errs, err := exts.BindForm(c, &form)
	if err != nil {
		return err
	}

	rerender := func() error {
		form.Password = ""
		return c.Render("auth/login", fiber.Map{
			"title":  "Log in",
			"form":   form,
			"errors": errs,
			"next":   next,
		})
	}

	if !errs.Empty() {
		return rerender()
	}

	user, err := services.Authenticate(form.Username, form.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		errs.Add(exts.NonFieldErrors, "Please enter a correct username and password. Note that both fields may be case-sensitive.")
		return rerender()
	} else if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := exts.OpenSession(c, user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	log.Debug().Uint("user", user.ID).Msg("A user logged in.")
	return c.Redirect(exts.SafeRedirectTarget(next, "/"), fiber.StatusFound)
}

func logout(c *fiber.Ctx) error {
	exts.ClearSession(c)
	c.Locals("user", nil)

	return c.Render("auth/logged_out", fiber.Map{
		"title": "Logged out",
	})
}

func passwordChangePage(c *fiber.Ctx) error {
	return c.Render("auth/password_change", fiber.Map{
		"title":  "Change password",
		"form":   passwordChangeForm{},
		"errors": exts.FormErrors{},
	})
}

func changePassword(c *fiber.Ctx) error {
	user, _ := exts.GetCurrentUser(c)

	var form passwordChangeForm
	errs, err := exts.BindForm(c, &form)
	if err != nil {
		return err
	}

	if errs.Empty() {
		user, err = services.ChangePassword(user, form.OldPassword, form.NewPassword2)
		if err := errs.AddError(err); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
	}

	if !errs.Empty() {
		return c.Render("auth/password_change", fiber.Map{
			"title":  "Change password",
			"form":   passwordChangeForm{},
			"errors": errs,
		})
	}

	// The session is bound to the password hash, so the old cookie stops working here.
	if err := exts.OpenSession(c, user); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.Redirect("/auth/password_change/done/", fiber.StatusFound)
}

func passwordChangeDonePage(c *fiber.Ctx) error {
	return c.Render("auth/password_change_done", fiber.Map{
		"title": "Password changed",
	})
}
