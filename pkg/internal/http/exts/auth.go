package exts

import (
	"net/url"
	"strings"
	"time"

	"git.solsynth.dev/hypernet/yatube/pkg/internal/models"
	"git.solsynth.dev/hypernet/yatube/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const LoginURL = "/auth/login/"

// SessionMiddleware puts the signed in user into the locals under "user".
func SessionMiddleware(c *fiber.Ctx) error {
	if raw := c.Cookies(services.SessionCookieName); len(raw) > 0 {
		if user, err := services.ParseSessionToken(raw); err == nil {
			c.Locals("user", user)
		} else {
			log.Debug().Err(err).Msg("Dropping an invalid session...")
			ClearSession(c)
		}
	}

	return c.Next()
}

func GetCurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals("user").(models.User)
	return user, ok
}

func OpenSession(c *fiber.Ctx, user models.User) error {
	token, expiredAt, err := services.NewSessionToken(user)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiredAt,
		Secure:   viper.GetBool("security.cookie_secure"),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals("user", user)
	return nil
}

func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     services.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetLoginURL builds the login location that sends the user back to next afterwards.
func GetLoginURL(next string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(next), "%2F", "/")
	return LoginURL + "?next=" + escaped
}

// SafeRedirectTarget only lets local paths through.
func SafeRedirectTarget(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}

func LoginRequired(c *fiber.Ctx) error {
	if _, ok := GetCurrentUser(c); ok {
		return c.Next()
	}
	return c.Redirect(GetLoginURL(c.OriginalURL()), fiber.StatusFound)
}

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := GetCurrentUser(c); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication credentials were not provided")
	}
	return nil
}

func EnsureSuperuser(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	if user, _ := GetCurrentUser(c); !user.IsSuperuser {
		return fiber.NewError(fiber.StatusForbidden, "you need to be a superuser to access the admin")
	}
	return c.Next()
}
